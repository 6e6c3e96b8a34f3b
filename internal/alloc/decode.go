package alloc

import (
	"fmt"
	"math"

	"github.com/oarlock/boatplan-api/pkg/mip"
)

// decode reconstructs the assignment grid and fairness table from the
// solved variable values, using the same eligibility index and utility
// table the model was built from. Any violation of the formulation's
// invariants aborts the run with ErrInconsistentSolution.
func decode(built *builtModel, sol *mip.Solution, utility Utility, quotas map[PersonID]int, idx *Index, vals Values) (*Result, error) {
	grid := make(map[PersonID]map[TimeSlot]BoatID, len(idx.TimesForPerson))
	fairness := make(map[PersonID]FairnessRow, len(idx.TimesForPerson))

	for person, times := range idx.TimesForPerson {
		row := FairnessRow{NbAsked: quotas[person]}
		assignments := make(map[TimeSlot]BoatID)

		for _, slot := range times {
			var assigned []BoatID
			for _, boat := range idx.BoatsForPerson[person] {
				v := built.x[varKey{Person: person, Boat: boat, Slot: slot}]
				if isOne(sol.Value(v)) {
					assigned = append(assigned, boat)
				}
			}
			if len(assigned) > 1 {
				return nil, fmt.Errorf("%w: person %s holds %d boats at %s", ErrInconsistentSolution, person, len(assigned), slot)
			}
			if len(assigned) == 0 {
				continue
			}

			value, ok := utility[person][slot]
			if !ok {
				return nil, fmt.Errorf("%w: person %s assigned at %s without defined utility", ErrInconsistentSolution, person, slot)
			}
			switch value {
			case vals.First:
				row.NbFirst++
			case vals.Second:
				row.NbSecond++
			default:
				return nil, fmt.Errorf("%w: person %s assigned at %s with unknown utility %d", ErrInconsistentSolution, person, slot, value)
			}
			assignments[slot] = assigned[0]
		}

		row.Diff = row.NbFirst + row.NbSecond - row.NbAsked
		fairness[person] = row
		grid[person] = assignments
	}

	return &Result{
		Status:    mip.StatusOptimal,
		Grid:      grid,
		Fairness:  fairness,
		Floor:     int(math.Round(sol.Value(built.s))),
		Objective: sol.Objective,
	}, nil
}

func isOne(v float64) bool {
	return math.Abs(v-1) < 1e-6
}
