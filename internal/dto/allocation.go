package dto

// GeneratePlanRequest instructs the solver to build an allocation for a cohort.
type GeneratePlanRequest struct {
	Cohort string `json:"cohort" validate:"required"`
	// Days restricts the planning horizon; empty means the full week.
	Days []int `json:"days" validate:"omitempty,dive,min=1,max=7"`
}

// PlanSlot is one assigned outing in a generated plan.
type PlanSlot struct {
	PersonID   string `json:"personId"`
	PersonName string `json:"personName"`
	BoatID     string `json:"boatId"`
	BoatName   string `json:"boatName"`
	Day        int    `json:"day"`
	Period     string `json:"period"`
	Rank       string `json:"rank"`
}

// FairnessEntry is the per-person fairness summary of a plan.
type FairnessEntry struct {
	PersonID   string `json:"personId"`
	PersonName string `json:"personName"`
	NbAsked    int    `json:"nbAsked"`
	NbFirst    int    `json:"nbFirst"`
	NbSecond   int    `json:"nbSecond"`
	Diff       int    `json:"diff"`
}

// PlanStats summarises the solved model.
type PlanStats struct {
	Variables   int   `json:"variables"`
	Constraints int   `json:"constraints"`
	SolveMillis int64 `json:"solveMillis"`
}

// GeneratePlanResponse returns the preview of a solver run. Slots and
// fairness are empty unless the status is optimal.
type GeneratePlanResponse struct {
	PreviewID     string          `json:"previewId"`
	Cohort        string          `json:"cohort"`
	Status        string          `json:"status"`
	StatusMessage string          `json:"statusMessage,omitempty"`
	Objective     float64         `json:"objective"`
	FairnessFloor int             `json:"fairnessFloor"`
	Slots         []PlanSlot      `json:"slots"`
	Fairness      []FairnessEntry `json:"fairness"`
	Stats         PlanStats       `json:"stats"`
}

// SavePlanRequest persists a previewed plan.
type SavePlanRequest struct {
	PreviewID string `json:"previewId" validate:"required"`
}

// PlanSummary lists stored plans without their slots.
type PlanSummary struct {
	ID            string  `json:"id"`
	Cohort        string  `json:"cohort"`
	Status        string  `json:"status"`
	Objective     float64 `json:"objective"`
	FairnessFloor int     `json:"fairnessFloor"`
	CreatedAt     string  `json:"createdAt"`
}

// PlanQuery filters stored plans.
type PlanQuery struct {
	Cohort   string `form:"cohort" json:"cohort"`
	Status   string `form:"status" json:"status"`
	Page     int    `form:"page" json:"page"`
	PageSize int    `form:"pageSize" json:"pageSize"`
}
