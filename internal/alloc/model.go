package alloc

import (
	"fmt"

	"github.com/oarlock/boatplan-api/pkg/mip"
)

// varKey addresses one decision variable x(person, boat, slot).
type varKey struct {
	Person PersonID
	Boat   BoatID
	Slot   TimeSlot
}

// builtModel bundles the model with the variable index the decoder
// needs to read values back by (person, boat, slot).
type builtModel struct {
	model  *mip.Model
	x      map[varKey]mip.Var
	s      mip.Var
	weight int
}

// floorWeight derives the objective weight of the fairness floor: it
// must exceed the worst-case total-utility swing across all people so
// raising the minimum always beats raising the sum.
func floorWeight(peopleCount int, vals Values) int {
	return peopleCount*(vals.First-vals.Second) + 1
}

// buildModel declares one binary per eligible (person, boat, slot)
// triple, the free integer fairness floor, the weighted objective, and
// all feasibility constraints. Variables exist only over the sparse
// eligibility index; a dense formulation is intractable at realistic
// roster sizes.
func buildModel(p Problem, vals Values, utility Utility, quotas map[PersonID]int, idx *Index) *builtModel {
	m := mip.NewModel("boat-alloc")
	x := make(map[varKey]mip.Var)

	for _, person := range p.People {
		for _, boat := range idx.BoatsForPerson[person.ID] {
			for _, slot := range idx.TimesForPerson[person.ID] {
				key := varKey{Person: person.ID, Boat: boat, Slot: slot}
				x[key] = m.AddBinary(fmt.Sprintf("x[%s,%s,%s]", person.ID, boat, slot))
			}
		}
	}

	// minimum per-person utility, unbounded below (a person assigned
	// only second choices earns a negative sum)
	s := m.AddInt("fairness_floor", nil)
	weight := floorWeight(len(p.People), vals)

	objective := mip.Expr{}.Add(float64(weight), s)
	for key, v := range x {
		objective = objective.Add(float64(utility[key.Person][key.Slot]), v)
	}
	m.Maximize(objective)

	universe := make(map[TimeSlot]bool, len(p.Slots))
	for _, slot := range p.Slots {
		universe[slot] = true
	}

	for _, person := range p.People {
		boats := idx.BoatsForPerson[person.ID]
		times := idx.TimesForPerson[person.ID]

		// s is a true lower bound on everyone's earned utility
		linkage := mip.Expr{}.Add(1, s)
		quota := mip.Expr{}
		for _, boat := range boats {
			for _, slot := range times {
				v := x[varKey{Person: person.ID, Boat: boat, Slot: slot}]
				linkage = linkage.Add(float64(-utility[person.ID][slot]), v)
				quota = quota.Add(1, v)
			}
		}
		m.AddConstraint(fmt.Sprintf("fairness[%s]", person.ID), linkage, mip.LE, 0)
		m.AddConstraint(fmt.Sprintf("quota[%s]", person.ID), quota, mip.LE, float64(quotas[person.ID]))

		timeSet := make(map[TimeSlot]bool, len(times))
		for _, slot := range times {
			timeSet[slot] = true
			oneBoat := mip.Expr{}
			for _, boat := range boats {
				oneBoat = oneBoat.Add(1, x[varKey{Person: person.ID, Boat: boat, Slot: slot}])
			}
			m.AddConstraint(fmt.Sprintf("one_boat[%s,%s]", person.ID, slot), oneBoat, mip.LE, 1)
		}

		for day := Monday; day <= Sunday; day++ {
			for _, pair := range p.Exclusions {
				t1 := TimeSlot{Day: day, Period: pair.A}
				t2 := TimeSlot{Day: day, Period: pair.B}
				if !universe[t1] || !universe[t2] || !timeSet[t1] || !timeSet[t2] {
					continue
				}
				excl := mip.Expr{}
				for _, boat := range boats {
					excl = excl.Add(1, x[varKey{Person: person.ID, Boat: boat, Slot: t1}])
					excl = excl.Add(1, x[varKey{Person: person.ID, Boat: boat, Slot: t2}])
				}
				m.AddConstraint(fmt.Sprintf("exclusion[%s,%s,%s+%s]", person.ID, day, pair.A, pair.B), excl, mip.LE, 1)
			}
		}
	}

	// one person per boat per slot
	for _, boat := range p.Boats {
		for _, slot := range p.Slots {
			key := BoatSlot{Boat: boat.ID, Slot: slot}
			capacity := mip.Expr{}
			for _, person := range idx.PeopleForBoatTime[key] {
				capacity = capacity.Add(1, x[varKey{Person: person, Boat: boat.ID, Slot: slot}])
			}
			m.AddConstraint(fmt.Sprintf("capacity[%s,%s]", boat.ID, slot), capacity, mip.LE, 1)
		}
	}

	return &builtModel{model: m, x: x, s: s, weight: weight}
}
