package models

import "time"

// SkillLevel is the rower skill grade used for boat eligibility.
type SkillLevel string

const (
	SkillBeginner     SkillLevel = "beginner"
	SkillIntermediate SkillLevel = "intermediate"
	SkillAdvanced     SkillLevel = "advanced"
)

// WeightClass buckets a rower for hull rigging compatibility.
type WeightClass string

const (
	WeightLight       WeightClass = "L"
	WeightMiddle      WeightClass = "M"
	WeightMiddleHeavy WeightClass = "MH"
	WeightHeavy       WeightClass = "H"
)

// Person represents a rower stored in the people table.
type Person struct {
	ID          string      `db:"id" json:"id"`
	FullName    string      `db:"full_name" json:"full_name"`
	Cohort      string      `db:"cohort" json:"cohort"`
	Skill       SkillLevel  `db:"skill" json:"skill"`
	WeightClass WeightClass `db:"weight_class" json:"weight_class"`
	Active      bool        `db:"active" json:"active"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
}

// PersonFilter captures filtering criteria for listing people.
type PersonFilter struct {
	Cohort    string
	Skill     *SkillLevel
	Active    *bool
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// ValidSkill reports whether s is one of the known skill grades.
func ValidSkill(s SkillLevel) bool {
	switch s {
	case SkillBeginner, SkillIntermediate, SkillAdvanced:
		return true
	}
	return false
}

// ValidWeightClass reports whether w is one of the known weight buckets.
func ValidWeightClass(w WeightClass) bool {
	switch w {
	case WeightLight, WeightMiddle, WeightMiddleHeavy, WeightHeavy:
		return true
	}
	return false
}
