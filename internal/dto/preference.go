package dto

// PreferenceEntry is one wished outing inside an upsert payload.
type PreferenceEntry struct {
	Day    int    `json:"day" validate:"required,min=1,max=7"`
	Period string `json:"period" validate:"required"`
	Rank   string `json:"rank" validate:"required,oneof=first second"`
}

// UpsertPreferencesRequest replaces the full wish list of one person.
// Slots not listed are treated as unavailable.
type UpsertPreferencesRequest struct {
	Entries []PreferenceEntry `json:"entries" validate:"required,dive"`
}

// PreferenceQuery filters stored preferences.
type PreferenceQuery struct {
	PersonID string `form:"personId" json:"personId"`
	Cohort   string `form:"cohort" json:"cohort"`
	Day      *int   `form:"day" json:"day" validate:"omitempty,min=1,max=7"`
	Page     int    `form:"page" json:"page"`
	PageSize int    `form:"pageSize" json:"pageSize"`
}
