// Package alloc implements the preference-weighted boat assignment
// core: utility encoding, sparse eligibility derivation, the integer
// model handed to a mip.Solver, and decoding of the solved values into
// an assignment grid with fairness statistics.
//
// The pipeline is a single linear pass (encode, index, build, solve,
// decode) scoped to one run; nothing here is mutated concurrently.
package alloc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oarlock/boatplan-api/pkg/mip"
)

// PersonID identifies a rower across all input tables.
type PersonID string

// BoatID identifies a boat.
type BoatID string

// SkillLevel is an ordered rowing proficiency level.
type SkillLevel string

const (
	SkillBeginner     SkillLevel = "beginner"
	SkillIntermediate SkillLevel = "intermediate"
	SkillAdvanced     SkillLevel = "advanced"
)

// WeightClass is an ordered rower weight category.
type WeightClass string

const (
	WeightL  WeightClass = "L"
	WeightM  WeightClass = "M"
	WeightMH WeightClass = "MH"
	WeightH  WeightClass = "H"
)

// BoatClass categorizes boats by the skill required to row them.
type BoatClass string

// Day of week, Monday first.
type Day int

const (
	Monday Day = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var dayNames = map[Day]string{
	Monday:    "Monday",
	Tuesday:   "Tuesday",
	Wednesday: "Wednesday",
	Thursday:  "Thursday",
	Friday:    "Friday",
	Saturday:  "Saturday",
	Sunday:    "Sunday",
}

func (d Day) String() string {
	if name, ok := dayNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Day(%d)", int(d))
}

// Period is a training window label within a day (e.g. "am1", "am2",
// "pm"). Not every period exists on every day.
type Period string

// TimeSlot is the composite (day, period) key.
type TimeSlot struct {
	Day    Day    `json:"day"`
	Period Period `json:"period"`
}

func (t TimeSlot) String() string {
	return fmt.Sprintf("%s/%s", t.Day, t.Period)
}

// Person is an immutable roster entry for one run.
type Person struct {
	ID     PersonID
	Skill  SkillLevel
	Weight WeightClass
	Group  string
}

// Boat is a fleet entry: its class encodes the required skill and the
// weight set lists every class it accommodates.
type Boat struct {
	ID      BoatID
	Class   BoatClass
	Weights []WeightClass
}

// AcceptsWeight reports whether the boat accommodates the class.
func (b Boat) AcceptsWeight(w WeightClass) bool {
	for _, c := range b.Weights {
		if c == w {
			return true
		}
	}
	return false
}

// PeriodPair marks two periods that cannot both be assigned to one
// person within the same day.
type PeriodPair struct {
	A Period `json:"a"`
	B Period `json:"b"`
}

// Preferences holds the raw first/second indicators per person and
// slot. The two sets are independent; overlaps are resolved by the
// first-choice-wins rule during encoding.
type Preferences struct {
	First  map[PersonID]map[TimeSlot]bool
	Second map[PersonID]map[TimeSlot]bool
}

// Problem is the immutable input snapshot for one optimization run.
// All tables arrive reconciled; the core performs no deduplication.
type Problem struct {
	People     []Person
	Boats      []Boat
	SkillMatch SkillMatch
	Prefs      Preferences
	Slots      []TimeSlot // the calendar: which (day, period) pairs exist
	Exclusions []PeriodPair
	Values     Values // zero value selects the defaults
}

// FairnessRow is the per-person outcome summary.
type FairnessRow struct {
	NbAsked  int `json:"nb_asked"`
	NbFirst  int `json:"nb_first"`
	NbSecond int `json:"nb_second"`
	Diff     int `json:"diff"`
}

// Stats describes the built model, for observability.
type Stats struct {
	Variables   int           `json:"variables"`
	Constraints int           `json:"constraints"`
	SolveTime   time.Duration `json:"solve_time"`
}

// Result is the decoded outcome of a run. Grid and Fairness are only
// populated when Status is optimal.
type Result struct {
	Status    mip.Status
	Message   string
	Grid      map[PersonID]map[TimeSlot]BoatID
	Fairness  map[PersonID]FairnessRow
	Floor     int
	Objective float64
	Stats     Stats
}

// ErrInconsistentSolution marks a decoded solution that violates the
// formulation's own invariants (two boats in one slot, or an
// assignment outside the utility table). It indicates a broken
// constraint set or solver interface, never bad input.
var ErrInconsistentSolution = errors.New("inconsistent solver solution")

// Solve runs the full pipeline against the given engine. Infeasible
// and other non-optimal statuses are normal terminal outcomes carried
// in the Result; only internal failures return an error.
func Solve(ctx context.Context, p Problem, solver mip.Solver) (*Result, error) {
	vals := p.Values.orDefaults()
	utility := EncodeUtility(p.People, p.Prefs, vals)
	quotas := Quotas(utility, vals)
	index := BuildIndex(p.People, p.Boats, p.SkillMatch, utility, p.Slots)

	built := buildModel(p, vals, utility, quotas, index)

	start := time.Now()
	sol, err := solver.Solve(ctx, built.model)
	if err != nil {
		return nil, fmt.Errorf("alloc: solve: %w", err)
	}
	stats := Stats{
		Variables:   built.model.NumVars(),
		Constraints: built.model.NumConstraints(),
		SolveTime:   time.Since(start),
	}

	if sol.Status != mip.StatusOptimal {
		return &Result{Status: sol.Status, Message: sol.Message, Stats: stats}, nil
	}

	result, err := decode(built, sol, utility, quotas, index, vals)
	if err != nil {
		return nil, err
	}
	result.Stats = stats
	return result, nil
}
