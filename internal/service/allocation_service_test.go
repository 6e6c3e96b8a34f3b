package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/oarlock/boatplan-api/internal/dto"
	"github.com/oarlock/boatplan-api/internal/models"
	appErrors "github.com/oarlock/boatplan-api/pkg/errors"
	"github.com/oarlock/boatplan-api/pkg/mip"
)

type stubPersonLister struct {
	people []models.Person
}

func (s *stubPersonLister) ListActiveByCohort(_ context.Context, _ string) ([]models.Person, error) {
	return s.people, nil
}

type stubFleetLister struct {
	boats []models.Boat
}

func (s *stubFleetLister) ListActive(_ context.Context) ([]models.Boat, error) {
	return s.boats, nil
}

type stubPreferenceLister struct {
	prefs []models.Preference
}

func (s *stubPreferenceLister) ListByCohort(_ context.Context, _ string) ([]models.Preference, error) {
	return s.prefs, nil
}

type memoryPlanRepo struct {
	saved map[string]*models.AllocationPlan
}

func newMemoryPlanRepo() *memoryPlanRepo {
	return &memoryPlanRepo{saved: make(map[string]*models.AllocationPlan)}
}

func (r *memoryPlanRepo) Save(_ context.Context, plan *models.AllocationPlan) error {
	r.saved[plan.ID] = plan
	return nil
}

func (r *memoryPlanRepo) FindByID(_ context.Context, id string) (*models.AllocationPlan, error) {
	plan, ok := r.saved[id]
	if !ok {
		return nil, assert.AnError
	}
	return plan, nil
}

func (r *memoryPlanRepo) List(_ context.Context, _ models.AllocationPlanFilter) ([]models.AllocationPlan, int, error) {
	out := make([]models.AllocationPlan, 0, len(r.saved))
	for _, p := range r.saved {
		out = append(out, *p)
	}
	return out, len(out), nil
}

func (r *memoryPlanRepo) Delete(_ context.Context, id string) error {
	delete(r.saved, id)
	return nil
}

type fixedStatusSolver struct {
	status  mip.Status
	message string
}

func (s *fixedStatusSolver) Solve(_ context.Context, m *mip.Model) (*mip.Solution, error) {
	sol := mip.NewSolution(s.status, 0, make([]float64, m.NumVars()))
	sol.Message = s.message
	return sol, nil
}

func testAllocationService(t *testing.T, solver mip.Solver) (*AllocationService, *memoryPlanRepo) {
	t.Helper()
	people := &stubPersonLister{people: []models.Person{
		{ID: "p1", FullName: "Ada", Cohort: "comp", Skill: models.SkillAdvanced, WeightClass: models.WeightLight, Active: true},
		{ID: "p2", FullName: "Grace", Cohort: "comp", Skill: models.SkillBeginner, WeightClass: models.WeightMiddle, Active: true},
	}}
	boats := &stubFleetLister{boats: []models.Boat{
		{ID: "b1", Name: "Swift", Class: models.BoatClassStable, WeightClasses: "L,M,MH,H", Active: true},
		{ID: "b2", Name: "Arrow", Class: models.BoatClassRacing, WeightClasses: "L", Active: true},
	}}
	prefs := &stubPreferenceLister{prefs: []models.Preference{
		{PersonID: "p1", Day: 1, Period: "AM1", Rank: models.RankFirst},
		{PersonID: "p1", Day: 2, Period: "AM1", Rank: models.RankSecond},
		{PersonID: "p2", Day: 1, Period: "AM1", Rank: models.RankFirst},
	}}
	repo := newMemoryPlanRepo()
	svc := NewAllocationService(people, boats, prefs, repo, nil, solver, nil, nil, zap.NewNop(), AllocationConfig{
		SolverTimeout: 5 * time.Second,
		PreviewTTL:    time.Minute,
		CacheTTL:      time.Minute,
	})
	return svc, repo
}

func TestAllocationServiceGenerateOptimalKeepsPreview(t *testing.T) {
	svc, _ := testAllocationService(t, mip.NewBranchBound())

	resp, err := svc.Generate(context.Background(), dto.GeneratePlanRequest{Cohort: "comp"}, "admin")
	require.NoError(t, err)
	assert.Equal(t, string(mip.StatusOptimal), resp.Status)
	assert.NotEmpty(t, resp.PreviewID)
	require.NotEmpty(t, resp.Slots)

	// both rowers ask for Monday AM1 first; each assigned boat must be
	// distinct and eligible
	seen := map[string]bool{}
	for _, slot := range resp.Slots {
		if slot.Day == 1 && slot.Period == "AM1" {
			assert.False(t, seen[slot.BoatID], "boat double-booked")
			seen[slot.BoatID] = true
		}
	}

	for _, row := range resp.Fairness {
		assert.LessOrEqual(t, row.NbFirst+row.NbSecond, row.NbAsked)
	}
}

func TestAllocationServiceGenerateUnknownCohort(t *testing.T) {
	svc, _ := testAllocationService(t, mip.NewBranchBound())

	_, err := svc.Generate(context.Background(), dto.GeneratePlanRequest{Cohort: "nope"}, "admin")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrUnknownCohort.Code, appErr.Code)
}

func TestAllocationServiceGenerateInfeasibleHasNoPreview(t *testing.T) {
	svc, _ := testAllocationService(t, &fixedStatusSolver{status: mip.StatusInfeasible, message: "proven infeasible"})

	resp, err := svc.Generate(context.Background(), dto.GeneratePlanRequest{Cohort: "comp"}, "admin")
	require.NoError(t, err)
	assert.Equal(t, string(mip.StatusInfeasible), resp.Status)
	assert.Equal(t, "proven infeasible", resp.StatusMessage)
	assert.Empty(t, resp.PreviewID)
	assert.Empty(t, resp.Slots)
	assert.Empty(t, resp.Fairness)
}

func TestAllocationServiceSaveRoundTrip(t *testing.T) {
	svc, repo := testAllocationService(t, mip.NewBranchBound())

	resp, err := svc.Generate(context.Background(), dto.GeneratePlanRequest{Cohort: "comp"}, "admin")
	require.NoError(t, err)
	require.NotEmpty(t, resp.PreviewID)

	plan, err := svc.Save(context.Background(), dto.SavePlanRequest{PreviewID: resp.PreviewID})
	require.NoError(t, err)
	assert.Equal(t, models.PlanStatusOptimal, plan.Status)
	assert.Equal(t, "admin", plan.GeneratedBy)
	assert.Len(t, plan.Slots, len(resp.Slots))
	assert.Contains(t, repo.saved, plan.ID)

	// preview is single use
	_, err = svc.Save(context.Background(), dto.SavePlanRequest{PreviewID: resp.PreviewID})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAllocationServiceSaveExpiredPreview(t *testing.T) {
	svc, _ := testAllocationService(t, mip.NewBranchBound())
	svc.store = newPreviewStore(time.Nanosecond)

	resp, err := svc.Generate(context.Background(), dto.GeneratePlanRequest{Cohort: "comp"}, "admin")
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)

	_, err = svc.Save(context.Background(), dto.SavePlanRequest{PreviewID: resp.PreviewID})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
