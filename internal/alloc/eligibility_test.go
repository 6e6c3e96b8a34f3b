package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSkillMatch() SkillMatch {
	return SkillMatch{
		SkillBeginner:     {"stable"},
		SkillIntermediate: {"stable", "club"},
		SkillAdvanced:     {"stable", "club", "racing"},
	}
}

func TestSkillMatchReverse(t *testing.T) {
	reverse := testSkillMatch().Reverse()

	assert.ElementsMatch(t, []SkillLevel{SkillBeginner, SkillIntermediate, SkillAdvanced}, reverse["stable"])
	assert.ElementsMatch(t, []SkillLevel{SkillIntermediate, SkillAdvanced}, reverse["club"])
	assert.ElementsMatch(t, []SkillLevel{SkillAdvanced}, reverse["racing"])
}

func TestBuildIndexFiltersSkillAndWeight(t *testing.T) {
	people := []Person{
		{ID: "anna", Skill: SkillBeginner, Weight: WeightL},
		{ID: "ben", Skill: SkillAdvanced, Weight: WeightH},
	}
	boats := []Boat{
		{ID: "tub", Class: "stable", Weights: []WeightClass{WeightL, WeightM}},
		{ID: "arrow", Class: "racing", Weights: []WeightClass{WeightM, WeightMH, WeightH}},
	}
	prefs := Preferences{
		First: map[PersonID]map[TimeSlot]bool{
			"anna": {monAM1: true},
			"ben":  {monAM1: true, tueAM1: true},
		},
	}
	utility := EncodeUtility(people, prefs, Values{})
	slots := []TimeSlot{monAM1, tueAM1}

	idx := BuildIndex(people, boats, testSkillMatch(), utility, slots)

	assert.Equal(t, []BoatID{"tub"}, idx.BoatsForPerson["anna"])
	// ben's weight rules out the stable tub even though his skill allows it
	assert.Equal(t, []BoatID{"arrow"}, idx.BoatsForPerson["ben"])

	assert.Equal(t, []TimeSlot{monAM1}, idx.TimesForPerson["anna"])
	assert.Equal(t, []TimeSlot{monAM1, tueAM1}, idx.TimesForPerson["ben"])

	assert.ElementsMatch(t, []PersonID{"anna"}, idx.PeopleForBoatTime[BoatSlot{Boat: "tub", Slot: monAM1}])
	assert.Empty(t, idx.PeopleForBoatTime[BoatSlot{Boat: "tub", Slot: tueAM1}])
	assert.ElementsMatch(t, []PersonID{"ben"}, idx.PeopleForBoatTime[BoatSlot{Boat: "arrow", Slot: tueAM1}])
}

func TestBuildIndexViewsAreMutuallyConsistent(t *testing.T) {
	people := []Person{
		{ID: "anna", Skill: SkillIntermediate, Weight: WeightM},
		{ID: "ben", Skill: SkillIntermediate, Weight: WeightMH},
		{ID: "cleo", Skill: SkillBeginner, Weight: WeightM},
	}
	boats := []Boat{
		{ID: "tub", Class: "stable", Weights: []WeightClass{WeightM, WeightMH}},
		{ID: "swift", Class: "club", Weights: []WeightClass{WeightM}},
	}
	prefs := Preferences{
		First: map[PersonID]map[TimeSlot]bool{
			"anna": {monAM1: true, monAM2: true},
			"cleo": {monAM1: true},
		},
		Second: map[PersonID]map[TimeSlot]bool{
			"ben": {monAM2: true},
		},
	}
	utility := EncodeUtility(people, prefs, Values{})
	slots := []TimeSlot{monAM1, monAM2}

	idx := BuildIndex(people, boats, testSkillMatch(), utility, slots)

	// p in PeopleForBoatTime(b,t) <=> b in BoatsForPerson(p) and t in TimesForPerson(p)
	for _, b := range boats {
		for _, slot := range slots {
			for _, p := range people {
				inSet := false
				for _, id := range idx.PeopleForBoatTime[BoatSlot{Boat: b.ID, Slot: slot}] {
					if id == p.ID {
						inSet = true
					}
				}
				hasBoat := idx.EligibleBoat(p.ID, b.ID)
				hasTime := false
				for _, ts := range idx.TimesForPerson[p.ID] {
					if ts == slot {
						hasTime = true
					}
				}
				require.Equal(t, hasBoat && hasTime, inSet,
					"person %s boat %s slot %s", p.ID, b.ID, slot)
			}
		}
	}
}
