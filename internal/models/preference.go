package models

import "time"

// PreferenceRank distinguishes first and second choice outings.
type PreferenceRank string

const (
	RankFirst  PreferenceRank = "first"
	RankSecond PreferenceRank = "second"
)

// Preference represents one declared outing wish stored in the
// preferences table. A slot with no row is simply unavailable.
type Preference struct {
	ID        string         `db:"id" json:"id"`
	PersonID  string         `db:"person_id" json:"person_id"`
	Day       int            `db:"day" json:"day"`
	Period    string         `db:"period" json:"period"`
	Rank      PreferenceRank `db:"rank" json:"rank"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// PreferenceFilter captures filtering criteria for listing preferences.
type PreferenceFilter struct {
	PersonID string
	Cohort   string
	Day      *int
	Rank     *PreferenceRank
	Page     int
	PageSize int
}

// ValidRank reports whether r is a known preference rank.
func ValidRank(r PreferenceRank) bool {
	return r == RankFirst || r == RankSecond
}
