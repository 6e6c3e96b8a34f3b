package dto

// CreateBoatRequest registers a hull.
type CreateBoatRequest struct {
	Name          string   `json:"name" validate:"required"`
	Class         string   `json:"class" validate:"required,oneof=stable club racing"`
	WeightClasses []string `json:"weightClasses" validate:"required,min=1,dive,oneof=L M MH H"`
}

// UpdateBoatRequest modifies a hull. Nil fields stay unchanged.
type UpdateBoatRequest struct {
	Name          *string  `json:"name" validate:"omitempty,min=1"`
	Class         *string  `json:"class" validate:"omitempty,oneof=stable club racing"`
	WeightClasses []string `json:"weightClasses" validate:"omitempty,min=1,dive,oneof=L M MH H"`
	Active        *bool    `json:"active"`
}

// BoatQuery filters the fleet listing.
type BoatQuery struct {
	Class    string `form:"class" json:"class"`
	Active   *bool  `form:"active" json:"active"`
	Search   string `form:"search" json:"search"`
	Page     int    `form:"page" json:"page"`
	PageSize int    `form:"pageSize" json:"pageSize"`
}
