package models

// PeriodPair names two periods of the same day that a person may not
// row back to back.
type PeriodPair struct {
	A string `json:"a"`
	B string `json:"b"`
}

// CohortConfig bundles everything that varies between rowing cohorts:
// the skill to hull-class eligibility map, the period labels of a day,
// the mutual exclusion pairs, and the utility values for first and
// second choices.
type CohortConfig struct {
	Name        string                     `json:"name"`
	SkillMatch  map[SkillLevel][]BoatClass `json:"skill_match"`
	Periods     []string                   `json:"periods"`
	Exclusions  []PeriodPair               `json:"exclusions"`
	FirstValue  int                        `json:"first_value"`
	SecondValue int                        `json:"second_value"`
}

// CohortConfigs returns the built-in cohort presets keyed by name.
// "comp" is the competitive squad with two morning outings, "rec_master"
// the recreational masters group with one outing per half day.
func CohortConfigs() map[string]CohortConfig {
	return map[string]CohortConfig{
		"comp": {
			Name: "comp",
			SkillMatch: map[SkillLevel][]BoatClass{
				SkillBeginner:     {BoatClassStable},
				SkillIntermediate: {BoatClassStable, BoatClassClub},
				SkillAdvanced:     {BoatClassStable, BoatClassClub, BoatClassRacing},
			},
			Periods:     []string{"AM1", "AM2", "PM"},
			Exclusions:  []PeriodPair{{A: "AM1", B: "AM2"}},
			FirstValue:  1,
			SecondValue: -1,
		},
		"rec_master": {
			Name: "rec_master",
			SkillMatch: map[SkillLevel][]BoatClass{
				SkillBeginner:     {BoatClassStable},
				SkillIntermediate: {BoatClassStable, BoatClassClub},
				SkillAdvanced:     {BoatClassStable, BoatClassClub, BoatClassRacing},
			},
			Periods:     []string{"AM", "PM"},
			Exclusions:  nil,
			FirstValue:  1,
			SecondValue: -1,
		},
	}
}

// CohortConfigByName looks up a preset, reporting whether it exists.
func CohortConfigByName(name string) (CohortConfig, bool) {
	cfg, ok := CohortConfigs()[name]
	return cfg, ok
}
