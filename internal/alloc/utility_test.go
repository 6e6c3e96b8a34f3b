package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	monAM1 = TimeSlot{Day: Monday, Period: "am1"}
	monAM2 = TimeSlot{Day: Monday, Period: "am2"}
	tueAM1 = TimeSlot{Day: Tuesday, Period: "am1"}
	satAM1 = TimeSlot{Day: Saturday, Period: "am1"}
)

func prefsFor(person PersonID, first, second []TimeSlot) Preferences {
	p := Preferences{
		First:  map[PersonID]map[TimeSlot]bool{person: {}},
		Second: map[PersonID]map[TimeSlot]bool{person: {}},
	}
	for _, slot := range first {
		p.First[person][slot] = true
	}
	for _, slot := range second {
		p.Second[person][slot] = true
	}
	return p
}

func TestEncodeUtilityFirstAndSecond(t *testing.T) {
	people := []Person{{ID: "anna", Skill: SkillBeginner, Weight: WeightL}}
	prefs := prefsFor("anna", []TimeSlot{monAM1}, []TimeSlot{tueAM1})

	utility := EncodeUtility(people, prefs, Values{})

	require.Len(t, utility["anna"], 2)
	assert.Equal(t, DefaultFirstValue, utility["anna"][monAM1])
	assert.Equal(t, DefaultSecondValue, utility["anna"][tueAM1])

	_, defined := utility["anna"][satAM1]
	assert.False(t, defined, "unrequested slot must stay undefined")
}

func TestEncodeUtilityFirstChoiceWinsOnOverlap(t *testing.T) {
	people := []Person{{ID: "anna"}}
	prefs := prefsFor("anna", []TimeSlot{monAM1}, []TimeSlot{monAM1})

	utility := EncodeUtility(people, prefs, Values{})

	assert.Equal(t, DefaultFirstValue, utility["anna"][monAM1])
}

func TestEncodeUtilityIdempotent(t *testing.T) {
	people := []Person{{ID: "anna"}, {ID: "ben"}}
	prefs := Preferences{
		First: map[PersonID]map[TimeSlot]bool{
			"anna": {monAM1: true, tueAM1: true},
			"ben":  {monAM2: true},
		},
		Second: map[PersonID]map[TimeSlot]bool{
			"anna": {satAM1: true},
		},
	}

	first := EncodeUtility(people, prefs, Values{})
	second := EncodeUtility(people, prefs, Values{})

	assert.Equal(t, first, second)
}

func TestQuotasCountFirstChoicesOnly(t *testing.T) {
	people := []Person{{ID: "anna"}, {ID: "ben"}}
	prefs := Preferences{
		First: map[PersonID]map[TimeSlot]bool{
			"anna": {monAM1: true, tueAM1: true},
		},
		Second: map[PersonID]map[TimeSlot]bool{
			"anna": {satAM1: true},
			"ben":  {monAM1: true},
		},
	}

	utility := EncodeUtility(people, prefs, Values{})
	quotas := Quotas(utility, Values{})

	assert.Equal(t, 2, quotas["anna"])
	assert.Equal(t, 0, quotas["ben"], "second choices never raise the quota")
}

func TestFloorWeightDominatesUtilitySwing(t *testing.T) {
	vals := Values{First: 1, Second: -1}
	for _, people := range []int{1, 10, 250} {
		w := floorWeight(people, vals)
		assert.Greater(t, w, people*(vals.First-vals.Second))
	}
}
