package models

import "time"

// PlanStatus tracks the lifecycle of a generated allocation plan.
type PlanStatus string

const (
	PlanStatusOptimal    PlanStatus = "optimal"
	PlanStatusInfeasible PlanStatus = "infeasible"
	PlanStatusOther      PlanStatus = "other"
)

// AllocationPlan is the header row for one solver run persisted in the
// allocation_plans table. Slots and fairness rows hang off it.
type AllocationPlan struct {
	ID            string     `db:"id" json:"id"`
	Cohort        string     `db:"cohort" json:"cohort"`
	Status        PlanStatus `db:"status" json:"status"`
	StatusMessage string     `db:"status_message" json:"status_message,omitempty"`
	Objective     float64    `db:"objective" json:"objective"`
	FairnessFloor int        `db:"fairness_floor" json:"fairness_floor"`
	Variables     int        `db:"variables" json:"variables"`
	Constraints   int        `db:"constraints" json:"constraints"`
	SolveMillis   int64      `db:"solve_millis" json:"solve_millis"`
	GeneratedBy   string     `db:"generated_by" json:"generated_by"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`

	Slots    []AllocationSlot `db:"-" json:"slots,omitempty"`
	Fairness []FairnessRow    `db:"-" json:"fairness,omitempty"`
}

// AllocationSlot is one assigned outing inside a plan.
type AllocationSlot struct {
	ID       string         `db:"id" json:"id"`
	PlanID   string         `db:"plan_id" json:"plan_id"`
	PersonID string         `db:"person_id" json:"person_id"`
	BoatID   string         `db:"boat_id" json:"boat_id"`
	Day      int            `db:"day" json:"day"`
	Period   string         `db:"period" json:"period"`
	Rank     PreferenceRank `db:"rank" json:"rank"`
}

// FairnessRow is the per-person fairness summary stored with a plan.
type FairnessRow struct {
	ID       string `db:"id" json:"id"`
	PlanID   string `db:"plan_id" json:"plan_id"`
	PersonID string `db:"person_id" json:"person_id"`
	NbAsked  int    `db:"nb_asked" json:"nb_asked"`
	NbFirst  int    `db:"nb_first" json:"nb_first"`
	NbSecond int    `db:"nb_second" json:"nb_second"`
	Diff     int    `db:"diff" json:"diff"`
}

// AllocationPlanFilter captures filtering criteria for listing plans.
type AllocationPlanFilter struct {
	Cohort   string
	Status   *PlanStatus
	Page     int
	PageSize int
}
