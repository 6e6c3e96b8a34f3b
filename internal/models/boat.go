package models

import (
	"strings"
	"time"
)

// BoatClass groups hulls by the skill required to row them.
type BoatClass string

const (
	BoatClassStable BoatClass = "stable"
	BoatClassClub   BoatClass = "club"
	BoatClassRacing BoatClass = "racing"
)

// Boat represents a single hull stored in the boats table. WeightClasses
// is persisted as a comma-separated list of weight bucket codes.
type Boat struct {
	ID            string    `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Class         BoatClass `db:"class" json:"class"`
	WeightClasses string    `db:"weight_classes" json:"weight_classes"`
	Active        bool      `db:"active" json:"active"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// BoatFilter captures filtering criteria for listing boats.
type BoatFilter struct {
	Class     *BoatClass
	Active    *bool
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// WeightList splits the stored weight class codes into a slice.
func (b Boat) WeightList() []WeightClass {
	parts := strings.Split(b.WeightClasses, ",")
	out := make([]WeightClass, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, WeightClass(p))
	}
	return out
}

// ValidBoatClass reports whether c is a known hull class.
func ValidBoatClass(c BoatClass) bool {
	switch c {
	case BoatClassStable, BoatClassClub, BoatClassRacing:
		return true
	}
	return false
}
