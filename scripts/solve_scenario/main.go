// Command solve_scenario runs the allocation pipeline against a JSON
// scenario file and prints the resulting grid and fairness table as
// CSV. It is meant for tuning cohort presets offline, without a
// database or a running API.
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/oarlock/boatplan-api/internal/alloc"
	"github.com/oarlock/boatplan-api/pkg/mip"
)

type scenarioPerson struct {
	ID     string `json:"id"`
	Skill  string `json:"skill"`
	Weight string `json:"weight"`
}

type scenarioBoat struct {
	ID      string   `json:"id"`
	Class   string   `json:"class"`
	Weights []string `json:"weights"`
}

type scenarioPreference struct {
	Person string `json:"person"`
	Day    int    `json:"day"`
	Period string `json:"period"`
	Rank   string `json:"rank"`
}

type scenarioExclusion struct {
	A string `json:"a"`
	B string `json:"b"`
}

type scenario struct {
	People      []scenarioPerson     `json:"people"`
	Boats       []scenarioBoat       `json:"boats"`
	SkillMatch  map[string][]string  `json:"skill_match"`
	Days        []int                `json:"days"`
	Periods     []string             `json:"periods"`
	Exclusions  []scenarioExclusion  `json:"exclusions"`
	Preferences []scenarioPreference `json:"preferences"`
	FirstValue  int                  `json:"first_value"`
	SecondValue int                  `json:"second_value"`
}

func main() {
	var (
		scenarioPath string
		nodeBudget   int
		timeout      time.Duration
	)

	flag.StringVar(&scenarioPath, "scenario", "scenario.json", "Path to JSON scenario file")
	flag.IntVar(&nodeBudget, "node-budget", 0, "Search node cap, 0 means unlimited")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "Solve timeout")
	flag.Parse()

	sc, err := loadScenario(scenarioPath)
	if err != nil {
		log.Fatalf("failed to load scenario: %v", err)
	}

	problem := buildProblem(sc)
	solver := mip.NewEngine("branchbound", nodeBudget)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	result, err := alloc.Solve(ctx, problem, solver)
	if err != nil {
		log.Fatalf("solve failed: %v", err)
	}

	fmt.Fprintf(os.Stderr, "status=%s objective=%.0f floor=%d variables=%d constraints=%d time=%s\n",
		result.Status, result.Objective, result.Floor,
		result.Stats.Variables, result.Stats.Constraints, result.Stats.SolveTime)

	if result.Status != mip.StatusOptimal {
		if result.Message != "" {
			fmt.Fprintln(os.Stderr, result.Message)
		}
		os.Exit(1)
	}

	if err := writeCSV(os.Stdout, result); err != nil {
		log.Fatalf("failed to write csv: %v", err)
	}
}

func loadScenario(path string) (*scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc scenario
	if err := json.Unmarshal(raw, &sc); err != nil {
		return nil, err
	}
	if len(sc.Days) == 0 {
		sc.Days = []int{1, 2, 3, 4, 5, 6, 7}
	}
	if len(sc.Periods) == 0 {
		return nil, fmt.Errorf("scenario defines no periods")
	}
	return &sc, nil
}

func buildProblem(sc *scenario) alloc.Problem {
	people := make([]alloc.Person, 0, len(sc.People))
	for _, p := range sc.People {
		people = append(people, alloc.Person{
			ID:     alloc.PersonID(p.ID),
			Skill:  alloc.SkillLevel(p.Skill),
			Weight: alloc.WeightClass(p.Weight),
		})
	}

	boats := make([]alloc.Boat, 0, len(sc.Boats))
	for _, b := range sc.Boats {
		weights := make([]alloc.WeightClass, 0, len(b.Weights))
		for _, w := range b.Weights {
			weights = append(weights, alloc.WeightClass(w))
		}
		boats = append(boats, alloc.Boat{ID: alloc.BoatID(b.ID), Class: alloc.BoatClass(b.Class), Weights: weights})
	}

	match := make(alloc.SkillMatch, len(sc.SkillMatch))
	for skill, classes := range sc.SkillMatch {
		mapped := make([]alloc.BoatClass, 0, len(classes))
		for _, class := range classes {
			mapped = append(mapped, alloc.BoatClass(class))
		}
		match[alloc.SkillLevel(skill)] = mapped
	}

	slots := make([]alloc.TimeSlot, 0, len(sc.Days)*len(sc.Periods))
	for _, day := range sc.Days {
		for _, period := range sc.Periods {
			slots = append(slots, alloc.TimeSlot{Day: alloc.Day(day), Period: alloc.Period(period)})
		}
	}

	prefs := alloc.Preferences{
		First:  make(map[alloc.PersonID]map[alloc.TimeSlot]bool),
		Second: make(map[alloc.PersonID]map[alloc.TimeSlot]bool),
	}
	for _, p := range sc.Preferences {
		slot := alloc.TimeSlot{Day: alloc.Day(p.Day), Period: alloc.Period(p.Period)}
		target := prefs.First
		if p.Rank == "second" {
			target = prefs.Second
		}
		id := alloc.PersonID(p.Person)
		if target[id] == nil {
			target[id] = make(map[alloc.TimeSlot]bool)
		}
		target[id][slot] = true
	}

	exclusions := make([]alloc.PeriodPair, 0, len(sc.Exclusions))
	for _, e := range sc.Exclusions {
		exclusions = append(exclusions, alloc.PeriodPair{A: alloc.Period(e.A), B: alloc.Period(e.B)})
	}

	return alloc.Problem{
		People:     people,
		Boats:      boats,
		SkillMatch: match,
		Prefs:      prefs,
		Slots:      slots,
		Exclusions: exclusions,
		Values:     alloc.Values{First: sc.FirstValue, Second: sc.SecondValue},
	}
}

func writeCSV(out *os.File, result *alloc.Result) error {
	w := csv.NewWriter(out)

	if err := w.Write([]string{"person", "day", "period", "boat"}); err != nil {
		return err
	}

	type row struct {
		person string
		slot   alloc.TimeSlot
		boat   string
	}
	var rows []row
	for person, grid := range result.Grid {
		for slot, boat := range grid {
			rows = append(rows, row{person: string(person), slot: slot, boat: string(boat)})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].person != rows[j].person {
			return rows[i].person < rows[j].person
		}
		if rows[i].slot.Day != rows[j].slot.Day {
			return rows[i].slot.Day < rows[j].slot.Day
		}
		return rows[i].slot.Period < rows[j].slot.Period
	})
	for _, r := range rows {
		record := []string{r.person, strconv.Itoa(int(r.slot.Day)), string(r.slot.Period), r.boat}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	if err := w.Write([]string{""}); err != nil {
		return err
	}
	if err := w.Write([]string{"person", "nb_asked", "nb_first", "nb_second", "diff"}); err != nil {
		return err
	}

	persons := make([]string, 0, len(result.Fairness))
	for person := range result.Fairness {
		persons = append(persons, string(person))
	}
	sort.Strings(persons)
	for _, person := range persons {
		f := result.Fairness[alloc.PersonID(person)]
		record := []string{
			person,
			strconv.Itoa(f.NbAsked),
			strconv.Itoa(f.NbFirst),
			strconv.Itoa(f.NbSecond),
			strconv.Itoa(f.Diff),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
