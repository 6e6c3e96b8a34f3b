package dto

// CreatePersonRequest registers a rower.
type CreatePersonRequest struct {
	FullName    string `json:"fullName" validate:"required"`
	Cohort      string `json:"cohort" validate:"required"`
	Skill       string `json:"skill" validate:"required,oneof=beginner intermediate advanced"`
	WeightClass string `json:"weightClass" validate:"required,oneof=L M MH H"`
}

// UpdatePersonRequest modifies a rower. Nil fields stay unchanged.
type UpdatePersonRequest struct {
	FullName    *string `json:"fullName" validate:"omitempty,min=1"`
	Skill       *string `json:"skill" validate:"omitempty,oneof=beginner intermediate advanced"`
	WeightClass *string `json:"weightClass" validate:"omitempty,oneof=L M MH H"`
	Active      *bool   `json:"active"`
}

// PersonQuery filters the roster listing.
type PersonQuery struct {
	Cohort   string `form:"cohort" json:"cohort"`
	Skill    string `form:"skill" json:"skill"`
	Active   *bool  `form:"active" json:"active"`
	Search   string `form:"search" json:"search"`
	Page     int    `form:"page" json:"page"`
	PageSize int    `form:"pageSize" json:"pageSize"`
}
