package alloc

import "sort"

// SkillMatch maps a skill level to the boat classes that level is
// permitted to row.
type SkillMatch map[SkillLevel][]BoatClass

// Reverse inverts the mapping: boat class to permitted skill levels.
// Precomputed once per run.
func (m SkillMatch) Reverse() map[BoatClass][]SkillLevel {
	reverse := make(map[BoatClass][]SkillLevel)
	for skill, classes := range m {
		for _, class := range classes {
			reverse[class] = append(reverse[class], skill)
		}
	}
	return reverse
}

// BoatSlot keys the per-boat per-slot candidate sets.
type BoatSlot struct {
	Boat BoatID
	Slot TimeSlot
}

// Index holds the three derived eligibility relations. They are built
// once and never mutated: p is in PeopleForBoatTime(b,t) exactly when
// b is in BoatsForPerson(p) and t is in TimesForPerson(p).
type Index struct {
	BoatsForPerson    map[PersonID][]BoatID
	TimesForPerson    map[PersonID][]TimeSlot
	PeopleForBoatTime map[BoatSlot][]PersonID
}

// EligibleBoat reports whether the boat appears in BoatsForPerson(p).
func (idx *Index) EligibleBoat(p PersonID, b BoatID) bool {
	for _, id := range idx.BoatsForPerson[p] {
		if id == b {
			return true
		}
	}
	return false
}

// BuildIndex derives the eligibility relations from the input tables.
// BoatsForPerson intersects the skill filter with the weight filter;
// TimesForPerson is the set of slots with defined utility; the
// per-boat candidate sets are built by iterating boats and permitted
// skills rather than looping every person against every boat and slot.
func BuildIndex(people []Person, boats []Boat, match SkillMatch, utility Utility, slots []TimeSlot) *Index {
	idx := &Index{
		BoatsForPerson:    make(map[PersonID][]BoatID, len(people)),
		TimesForPerson:    make(map[PersonID][]TimeSlot, len(people)),
		PeopleForBoatTime: make(map[BoatSlot][]PersonID),
	}

	classesFor := make(map[SkillLevel]map[BoatClass]bool, len(match))
	for skill, classes := range match {
		set := make(map[BoatClass]bool, len(classes))
		for _, class := range classes {
			set[class] = true
		}
		classesFor[skill] = set
	}

	for _, p := range people {
		allowed := classesFor[p.Skill]
		var eligible []BoatID
		for _, b := range boats {
			if allowed[b.Class] && b.AcceptsWeight(p.Weight) {
				eligible = append(eligible, b.ID)
			}
		}
		idx.BoatsForPerson[p.ID] = eligible

		times := make([]TimeSlot, 0, len(utility[p.ID]))
		for slot := range utility[p.ID] {
			times = append(times, slot)
		}
		sortSlots(times)
		idx.TimesForPerson[p.ID] = times
	}

	// Candidate people per skill and weight, so each boat unions a few
	// precomputed buckets instead of re-scanning the roster.
	bySkill := make(map[SkillLevel][]Person)
	for _, p := range people {
		bySkill[p.Skill] = append(bySkill[p.Skill], p)
	}
	reverse := match.Reverse()

	for _, b := range boats {
		var candidates []Person
		for _, skill := range reverse[b.Class] {
			for _, p := range bySkill[skill] {
				if b.AcceptsWeight(p.Weight) {
					candidates = append(candidates, p)
				}
			}
		}
		for _, slot := range slots {
			var available []PersonID
			for _, p := range candidates {
				if _, ok := utility[p.ID][slot]; ok {
					available = append(available, p.ID)
				}
			}
			idx.PeopleForBoatTime[BoatSlot{Boat: b.ID, Slot: slot}] = available
		}
	}

	return idx
}

func sortSlots(slots []TimeSlot) {
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].Day != slots[j].Day {
			return slots[i].Day < slots[j].Day
		}
		return slots[i].Period < slots[j].Period
	})
}
