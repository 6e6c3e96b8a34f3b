package alloc

// Values are the scalar rewards encoded into the objective for first
// and second choice slots. They are owned here so every cohort shares
// one definition; the objective weight for the fairness floor is
// derived from them, never hard-coded.
type Values struct {
	First  int
	Second int
}

// Default utility values: a second choice is worth less than staying
// home, so the engine only falls back to it when it protects somebody
// else's first choice.
const (
	DefaultFirstValue  = 1
	DefaultSecondValue = -1
)

func (v Values) orDefaults() Values {
	if v.First == 0 && v.Second == 0 {
		return Values{First: DefaultFirstValue, Second: DefaultSecondValue}
	}
	return v
}

// Utility maps each person to the slots they are available for and the
// reward of assigning them there. A missing slot means the person is
// unavailable there and must not generate a decision variable.
type Utility map[PersonID]map[TimeSlot]int

// EncodeUtility derives the utility table from the raw indicators.
// Second-choice slots are applied first, then first-choice slots on
// top, so a slot flagged as both resolves to the first-choice value.
func EncodeUtility(people []Person, prefs Preferences, vals Values) Utility {
	vals = vals.orDefaults()
	utility := make(Utility, len(people))
	for _, p := range people {
		row := make(map[TimeSlot]int)
		for slot, set := range prefs.Second[p.ID] {
			if set {
				row[slot] = vals.Second
			}
		}
		for slot, set := range prefs.First[p.ID] {
			if set {
				row[slot] = vals.First
			}
		}
		utility[p.ID] = row
	}
	return utility
}

// Quotas counts, per person, the slots carrying the first-choice
// value: the number of sessions they asked for, and the ceiling on how
// many they may be assigned.
func Quotas(utility Utility, vals Values) map[PersonID]int {
	vals = vals.orDefaults()
	quotas := make(map[PersonID]int, len(utility))
	for person, row := range utility {
		n := 0
		for _, value := range row {
			if value == vals.First {
				n++
			}
		}
		quotas[person] = n
	}
	return quotas
}
