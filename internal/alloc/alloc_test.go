package alloc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oarlock/boatplan-api/pkg/mip"
)

func solveProblem(t *testing.T, p Problem) *Result {
	t.Helper()
	result, err := Solve(context.Background(), p, mip.NewBranchBound())
	require.NoError(t, err)
	return result
}

func TestSolveTrivialAssignment(t *testing.T) {
	p := Problem{
		People:     []Person{{ID: "anna", Skill: SkillBeginner, Weight: WeightL}},
		Boats:      []Boat{{ID: "tub", Class: "stable", Weights: []WeightClass{WeightL}}},
		SkillMatch: testSkillMatch(),
		Prefs:      prefsFor("anna", []TimeSlot{monAM1}, nil),
		Slots:      []TimeSlot{monAM1},
	}

	result := solveProblem(t, p)

	require.Equal(t, mip.StatusOptimal, result.Status)
	assert.Equal(t, BoatID("tub"), result.Grid["anna"][monAM1])
	assert.Equal(t, FairnessRow{NbAsked: 1, NbFirst: 1, NbSecond: 0, Diff: 0}, result.Fairness["anna"])
	assert.Equal(t, 1, result.Floor)
	assert.Equal(t, 1, result.Stats.Variables-1, "one assignment variable plus the floor")
}

func TestSolveCapacityConflictLeavesOneIdle(t *testing.T) {
	p := Problem{
		People: []Person{
			{ID: "anna", Skill: SkillBeginner, Weight: WeightL},
			{ID: "ben", Skill: SkillBeginner, Weight: WeightL},
		},
		Boats:      []Boat{{ID: "tub", Class: "stable", Weights: []WeightClass{WeightL}}},
		SkillMatch: testSkillMatch(),
		Prefs: Preferences{
			First: map[PersonID]map[TimeSlot]bool{
				"anna": {monAM1: true},
				"ben":  {monAM1: true},
			},
		},
		Slots: []TimeSlot{monAM1},
	}

	result := solveProblem(t, p)

	require.Equal(t, mip.StatusOptimal, result.Status, "capacity conflicts are resolvable by leaving someone idle")
	assigned := 0
	for _, person := range []PersonID{"anna", "ben"} {
		if _, ok := result.Grid[person][monAM1]; ok {
			assigned++
		}
	}
	assert.Equal(t, 1, assigned, "exactly one person gets the boat")
	assert.Equal(t, 0, result.Floor, "the idle person earns zero")
}

func TestSolveMutualExclusionBeatsQuota(t *testing.T) {
	p := Problem{
		People:     []Person{{ID: "anna", Skill: SkillBeginner, Weight: WeightL}},
		Boats:      []Boat{{ID: "tub", Class: "stable", Weights: []WeightClass{WeightL}}},
		SkillMatch: testSkillMatch(),
		Prefs:      prefsFor("anna", []TimeSlot{monAM1, monAM2}, nil),
		Slots:      []TimeSlot{monAM1, monAM2},
		Exclusions: []PeriodPair{{A: "am1", B: "am2"}},
	}

	result := solveProblem(t, p)

	require.Equal(t, mip.StatusOptimal, result.Status)
	assert.Len(t, result.Grid["anna"], 1, "quota allows two but the pair is exclusive")
	assert.Equal(t, FairnessRow{NbAsked: 2, NbFirst: 1, NbSecond: 0, Diff: -1}, result.Fairness["anna"])
}

func TestSolveExclusionIgnoredWhenPeriodMissingThatDay(t *testing.T) {
	// am2 does not exist on Saturday, so the pair only binds on Monday.
	p := Problem{
		People:     []Person{{ID: "anna", Skill: SkillBeginner, Weight: WeightL}},
		Boats:      []Boat{{ID: "tub", Class: "stable", Weights: []WeightClass{WeightL}}},
		SkillMatch: testSkillMatch(),
		Prefs:      prefsFor("anna", []TimeSlot{monAM1, satAM1}, nil),
		Slots:      []TimeSlot{monAM1, monAM2, satAM1},
		Exclusions: []PeriodPair{{A: "am1", B: "am2"}},
	}

	result := solveProblem(t, p)

	require.Equal(t, mip.StatusOptimal, result.Status)
	assert.Len(t, result.Grid["anna"], 2, "slots on different days are independent")
}

func TestSolveFloorIsMinimumEarnedUtility(t *testing.T) {
	// anna can earn 2, ben competes with cleo for one boat, so the
	// floor settles at the loser's score of 0... unless fairness
	// pushes a second-choice assignment; with Quota(ben)=Quota(cleo)=1
	// and one boat, someone stays at 0.
	p := Problem{
		People: []Person{
			{ID: "anna", Skill: SkillBeginner, Weight: WeightL},
			{ID: "ben", Skill: SkillBeginner, Weight: WeightM},
			{ID: "cleo", Skill: SkillBeginner, Weight: WeightM},
		},
		Boats: []Boat{
			{ID: "tub", Class: "stable", Weights: []WeightClass{WeightL}},
			{ID: "barge", Class: "stable", Weights: []WeightClass{WeightM}},
		},
		SkillMatch: testSkillMatch(),
		Prefs: Preferences{
			First: map[PersonID]map[TimeSlot]bool{
				"anna": {monAM1: true, tueAM1: true},
				"ben":  {monAM1: true},
				"cleo": {monAM1: true},
			},
		},
		Slots: []TimeSlot{monAM1, tueAM1},
	}

	result := solveProblem(t, p)

	require.Equal(t, mip.StatusOptimal, result.Status)

	utility := EncodeUtility(p.People, p.Prefs, Values{})
	earned := map[PersonID]int{}
	for person, slots := range result.Grid {
		for slot := range slots {
			earned[person] += utility[person][slot]
		}
	}
	min := earned["anna"]
	for _, person := range []PersonID{"anna", "ben", "cleo"} {
		if earned[person] < min {
			min = earned[person]
		}
	}
	assert.Equal(t, min, result.Floor)
	assert.Equal(t, 0, result.Floor)
	assert.Len(t, result.Grid["anna"], 2, "the floor never blocks surplus utility elsewhere")
}

func TestSolveGridStaysInsideEligibleTimes(t *testing.T) {
	p := Problem{
		People: []Person{
			{ID: "anna", Skill: SkillIntermediate, Weight: WeightM},
			{ID: "ben", Skill: SkillAdvanced, Weight: WeightMH},
		},
		Boats: []Boat{
			{ID: "swift", Class: "club", Weights: []WeightClass{WeightM, WeightMH}},
			{ID: "arrow", Class: "racing", Weights: []WeightClass{WeightMH}},
		},
		SkillMatch: testSkillMatch(),
		Prefs: Preferences{
			First: map[PersonID]map[TimeSlot]bool{
				"anna": {monAM1: true},
				"ben":  {monAM1: true, tueAM1: true},
			},
			Second: map[PersonID]map[TimeSlot]bool{
				"anna": {tueAM1: true},
			},
		},
		Slots: []TimeSlot{monAM1, tueAM1},
	}

	result := solveProblem(t, p)
	require.Equal(t, mip.StatusOptimal, result.Status)

	utility := EncodeUtility(p.People, p.Prefs, Values{})
	for person, slots := range result.Grid {
		for slot, boat := range slots {
			_, defined := utility[person][slot]
			assert.True(t, defined, "assignment outside the utility table: %s at %s", person, slot)
			assert.NotEmpty(t, boat)
		}
	}
	for _, person := range p.People {
		row := result.Fairness[person.ID]
		assert.LessOrEqual(t, row.NbFirst, row.NbAsked)
		assert.Len(t, result.Grid[person.ID], row.NbFirst+row.NbSecond,
			"every solved variable appears exactly once in the grid")
	}
}

// stubSolver returns a canned solution regardless of the model.
type stubSolver struct {
	status  mip.Status
	message string
	allOnes bool
}

func (s *stubSolver) Solve(_ context.Context, m *mip.Model) (*mip.Solution, error) {
	values := make([]float64, m.NumVars())
	if s.allOnes {
		for i := range values {
			values[i] = 1
		}
	}
	sol := mip.NewSolution(s.status, 0, values)
	sol.Message = s.message
	return sol, nil
}

func TestSolveInfeasibleReturnsNoGrid(t *testing.T) {
	p := Problem{
		People:     []Person{{ID: "anna", Skill: SkillBeginner, Weight: WeightL}},
		Boats:      []Boat{{ID: "tub", Class: "stable", Weights: []WeightClass{WeightL}}},
		SkillMatch: testSkillMatch(),
		Prefs:      prefsFor("anna", []TimeSlot{monAM1}, nil),
		Slots:      []TimeSlot{monAM1},
	}

	result, err := Solve(context.Background(), p, &stubSolver{status: mip.StatusInfeasible, message: "no feasible assignment"})
	require.NoError(t, err)

	assert.Equal(t, mip.StatusInfeasible, result.Status)
	assert.Nil(t, result.Grid)
	assert.Nil(t, result.Fairness)
	assert.NotEmpty(t, result.Message)
}

func TestSolveDetectsInconsistentSolution(t *testing.T) {
	// two eligible boats in the same slot; an all-ones "solution"
	// claims anna rows both at once
	p := Problem{
		People: []Person{{ID: "anna", Skill: SkillBeginner, Weight: WeightL}},
		Boats: []Boat{
			{ID: "tub", Class: "stable", Weights: []WeightClass{WeightL}},
			{ID: "dinghy", Class: "stable", Weights: []WeightClass{WeightL}},
		},
		SkillMatch: testSkillMatch(),
		Prefs:      prefsFor("anna", []TimeSlot{monAM1}, nil),
		Slots:      []TimeSlot{monAM1},
	}

	_, err := Solve(context.Background(), p, &stubSolver{status: mip.StatusOptimal, allOnes: true})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInconsistentSolution)
}
