package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oarlock/boatplan-api/internal/alloc"
	"github.com/oarlock/boatplan-api/internal/dto"
	"github.com/oarlock/boatplan-api/internal/models"
	appErrors "github.com/oarlock/boatplan-api/pkg/errors"
	"github.com/oarlock/boatplan-api/pkg/mip"
)

type cohortPersonLister interface {
	ListActiveByCohort(ctx context.Context, cohort string) ([]models.Person, error)
}

type fleetLister interface {
	ListActive(ctx context.Context) ([]models.Boat, error)
}

type cohortPreferenceLister interface {
	ListByCohort(ctx context.Context, cohort string) ([]models.Preference, error)
}

type planRepository interface {
	Save(ctx context.Context, plan *models.AllocationPlan) error
	FindByID(ctx context.Context, id string) (*models.AllocationPlan, error)
	List(ctx context.Context, filter models.AllocationPlanFilter) ([]models.AllocationPlan, int, error)
	Delete(ctx context.Context, id string) error
}

type planCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Invalidate(ctx context.Context, pattern string) error
}

type solveObserver interface {
	ObserveSolve(status string, duration time.Duration, variables int)
}

// AllocationConfig tunes the allocation pipeline.
type AllocationConfig struct {
	SolverTimeout time.Duration
	PreviewTTL    time.Duration
	CacheTTL      time.Duration
}

// AllocationService runs the assignment pipeline: it loads the cohort
// snapshot, solves it, keeps previews in a TTL store, and persists
// accepted plans.
type AllocationService struct {
	people    cohortPersonLister
	boats     fleetLister
	prefs     cohortPreferenceLister
	plans     planRepository
	cache     planCache
	solver    mip.Solver
	metrics   solveObserver
	validator *validator.Validate
	logger    *zap.Logger
	config    AllocationConfig
	store     *previewStore
}

// NewAllocationService wires the allocation dependencies.
func NewAllocationService(
	people cohortPersonLister,
	boats fleetLister,
	prefs cohortPreferenceLister,
	plans planRepository,
	cache planCache,
	solver mip.Solver,
	metrics solveObserver,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg AllocationConfig,
) *AllocationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if solver == nil {
		solver = mip.NewBranchBound()
	}
	if cfg.SolverTimeout <= 0 {
		cfg.SolverTimeout = 30 * time.Second
	}
	if cfg.PreviewTTL <= 0 {
		cfg.PreviewTTL = 30 * time.Minute
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	return &AllocationService{
		people:    people,
		boats:     boats,
		prefs:     prefs,
		plans:     plans,
		cache:     cache,
		solver:    solver,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		config:    cfg,
		store:     newPreviewStore(cfg.PreviewTTL),
	}
}

// Generate solves the allocation for a cohort and stores the outcome as
// a preview. Infeasible and inconclusive runs are normal responses, not
// errors.
func (s *AllocationService) Generate(ctx context.Context, req dto.GeneratePlanRequest, generatedBy string) (*dto.GeneratePlanResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid plan request")
	}

	cohortCfg, ok := models.CohortConfigByName(req.Cohort)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnknownCohort, "unknown cohort: "+req.Cohort)
	}

	people, err := s.people.ListActiveByCohort(ctx, req.Cohort)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}
	boats, err := s.boats.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load fleet")
	}
	prefRows, err := s.prefs.ListByCohort(ctx, req.Cohort)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load preferences")
	}

	problem, lookup := buildProblem(cohortCfg, people, boats, prefRows, req.Days)

	solveCtx, cancel := context.WithTimeout(ctx, s.config.SolverTimeout)
	defer cancel()

	start := time.Now()
	result, err := alloc.Solve(solveCtx, problem, s.solver)
	if err != nil {
		if errors.Is(err, alloc.ErrInconsistentSolution) {
			s.logger.Error("solver produced inconsistent assignment", zap.String("cohort", req.Cohort), zap.Error(err))
			return nil, appErrors.Wrap(err, appErrors.ErrSolutionInconsistent.Code, appErrors.ErrSolutionInconsistent.Status, appErrors.ErrSolutionInconsistent.Message)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "solver failure")
	}

	if s.metrics != nil {
		s.metrics.ObserveSolve(string(result.Status), time.Since(start), result.Stats.Variables)
	}
	s.logger.Info("allocation solved",
		zap.String("cohort", req.Cohort),
		zap.String("status", string(result.Status)),
		zap.Int("variables", result.Stats.Variables),
		zap.Int("constraints", result.Stats.Constraints),
		zap.Duration("solve_time", result.Stats.SolveTime),
	)

	resp := buildPlanResponse(req.Cohort, result, lookup)
	if result.Status == mip.StatusOptimal {
		resp.PreviewID = uuid.NewString()
		s.store.Save(planPreview{
			PreviewID:   resp.PreviewID,
			Cohort:      req.Cohort,
			Response:    *resp,
			GeneratedBy: generatedBy,
			RequestedAt: time.Now().UTC(),
		})
	}
	return resp, nil
}

// Save persists a previewed plan and caches the stored copy.
func (s *AllocationService) Save(ctx context.Context, req dto.SavePlanRequest) (*models.AllocationPlan, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid save request")
	}

	preview, ok := s.store.Get(req.PreviewID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "preview expired or unknown")
	}

	plan := previewToPlan(preview)
	if err := s.plans.Save(ctx, plan); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist plan")
	}
	s.store.Delete(req.PreviewID)

	if s.cache != nil {
		if err := s.cache.Set(ctx, planCacheKey(plan.ID), plan, s.config.CacheTTL); err != nil {
			s.logger.Warn("failed to cache plan", zap.String("plan_id", plan.ID), zap.Error(err))
		}
	}
	return plan, nil
}

// Get loads a stored plan, consulting the Redis cache first.
func (s *AllocationService) Get(ctx context.Context, id string) (*models.AllocationPlan, error) {
	if s.cache != nil {
		var cached models.AllocationPlan
		if err := s.cache.Get(ctx, planCacheKey(id), &cached); err == nil {
			return &cached, nil
		}
	}

	plan, err := s.plans.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "plan not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load plan")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, planCacheKey(id), plan, s.config.CacheTTL); err != nil {
			s.logger.Warn("failed to cache plan", zap.String("plan_id", id), zap.Error(err))
		}
	}
	return plan, nil
}

// List returns stored plan summaries with pagination metadata.
func (s *AllocationService) List(ctx context.Context, query dto.PlanQuery) ([]dto.PlanSummary, *models.Pagination, error) {
	filter := models.AllocationPlanFilter{
		Cohort:   query.Cohort,
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	if query.Status != "" {
		status := models.PlanStatus(query.Status)
		filter.Status = &status
	}

	plans, total, err := s.plans.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list plans")
	}

	summaries := make([]dto.PlanSummary, 0, len(plans))
	for _, plan := range plans {
		summaries = append(summaries, dto.PlanSummary{
			ID:            plan.ID,
			Cohort:        plan.Cohort,
			Status:        string(plan.Status),
			Objective:     plan.Objective,
			FairnessFloor: plan.FairnessFloor,
			CreatedAt:     plan.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return summaries, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Delete removes a stored plan.
func (s *AllocationService) Delete(ctx context.Context, id string) error {
	if err := s.plans.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete plan")
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, planCacheKey(id)); err != nil {
			s.logger.Warn("failed to drop cached plan", zap.String("plan_id", id), zap.Error(err))
		}
	}
	return nil
}

// --- snapshot assembly ---

type nameLookup struct {
	personNames map[string]string
	boatNames   map[string]string
	ranks       map[string]map[alloc.TimeSlot]models.PreferenceRank
}

func buildProblem(cfg models.CohortConfig, people []models.Person, boats []models.Boat, prefRows []models.Preference, days []int) (alloc.Problem, nameLookup) {
	lookup := nameLookup{
		personNames: make(map[string]string, len(people)),
		boatNames:   make(map[string]string, len(boats)),
		ranks:       make(map[string]map[alloc.TimeSlot]models.PreferenceRank),
	}

	daySet := make(map[int]bool)
	if len(days) == 0 {
		for d := 1; d <= 7; d++ {
			daySet[d] = true
		}
	} else {
		for _, d := range days {
			daySet[d] = true
		}
	}

	var slots []alloc.TimeSlot
	for d := 1; d <= 7; d++ {
		if !daySet[d] {
			continue
		}
		for _, period := range cfg.Periods {
			slots = append(slots, alloc.TimeSlot{Day: alloc.Day(d), Period: alloc.Period(period)})
		}
	}
	slotSet := make(map[alloc.TimeSlot]bool, len(slots))
	for _, slot := range slots {
		slotSet[slot] = true
	}

	problem := alloc.Problem{
		Slots:  slots,
		Values: alloc.Values{First: cfg.FirstValue, Second: cfg.SecondValue},
	}

	for _, p := range people {
		lookup.personNames[p.ID] = p.FullName
		problem.People = append(problem.People, alloc.Person{
			ID:     alloc.PersonID(p.ID),
			Skill:  alloc.SkillLevel(p.Skill),
			Weight: alloc.WeightClass(p.WeightClass),
			Group:  p.Cohort,
		})
	}

	for _, b := range boats {
		lookup.boatNames[b.ID] = b.Name
		weights := make([]alloc.WeightClass, 0, 4)
		for _, w := range b.WeightList() {
			weights = append(weights, alloc.WeightClass(w))
		}
		problem.Boats = append(problem.Boats, alloc.Boat{
			ID:      alloc.BoatID(b.ID),
			Class:   alloc.BoatClass(b.Class),
			Weights: weights,
		})
	}

	problem.SkillMatch = make(alloc.SkillMatch, len(cfg.SkillMatch))
	for skill, classes := range cfg.SkillMatch {
		mapped := make([]alloc.BoatClass, 0, len(classes))
		for _, c := range classes {
			mapped = append(mapped, alloc.BoatClass(c))
		}
		problem.SkillMatch[alloc.SkillLevel(skill)] = mapped
	}

	problem.Prefs = alloc.Preferences{
		First:  make(map[alloc.PersonID]map[alloc.TimeSlot]bool),
		Second: make(map[alloc.PersonID]map[alloc.TimeSlot]bool),
	}
	for _, row := range prefRows {
		slot := alloc.TimeSlot{Day: alloc.Day(row.Day), Period: alloc.Period(row.Period)}
		if !slotSet[slot] {
			continue
		}
		id := alloc.PersonID(row.PersonID)
		switch row.Rank {
		case models.RankFirst:
			if problem.Prefs.First[id] == nil {
				problem.Prefs.First[id] = make(map[alloc.TimeSlot]bool)
			}
			problem.Prefs.First[id][slot] = true
		case models.RankSecond:
			if problem.Prefs.Second[id] == nil {
				problem.Prefs.Second[id] = make(map[alloc.TimeSlot]bool)
			}
			problem.Prefs.Second[id][slot] = true
		}
		if lookup.ranks[row.PersonID] == nil {
			lookup.ranks[row.PersonID] = make(map[alloc.TimeSlot]models.PreferenceRank)
		}
		lookup.ranks[row.PersonID][slot] = row.Rank
	}

	for _, pair := range cfg.Exclusions {
		problem.Exclusions = append(problem.Exclusions, alloc.PeriodPair{
			A: alloc.Period(pair.A),
			B: alloc.Period(pair.B),
		})
	}

	return problem, lookup
}

func buildPlanResponse(cohort string, result *alloc.Result, lookup nameLookup) *dto.GeneratePlanResponse {
	resp := &dto.GeneratePlanResponse{
		Cohort:        cohort,
		Status:        string(result.Status),
		StatusMessage: result.Message,
		Objective:     result.Objective,
		FairnessFloor: result.Floor,
		Slots:         []dto.PlanSlot{},
		Fairness:      []dto.FairnessEntry{},
		Stats: dto.PlanStats{
			Variables:   result.Stats.Variables,
			Constraints: result.Stats.Constraints,
			SolveMillis: result.Stats.SolveTime.Milliseconds(),
		},
	}

	for personID, row := range result.Grid {
		for slot, boatID := range row {
			rank := lookup.ranks[string(personID)][slot]
			resp.Slots = append(resp.Slots, dto.PlanSlot{
				PersonID:   string(personID),
				PersonName: lookup.personNames[string(personID)],
				BoatID:     string(boatID),
				BoatName:   lookup.boatNames[string(boatID)],
				Day:        int(slot.Day),
				Period:     string(slot.Period),
				Rank:       string(rank),
			})
		}
	}
	sort.Slice(resp.Slots, func(i, j int) bool {
		if resp.Slots[i].Day != resp.Slots[j].Day {
			return resp.Slots[i].Day < resp.Slots[j].Day
		}
		if resp.Slots[i].Period != resp.Slots[j].Period {
			return resp.Slots[i].Period < resp.Slots[j].Period
		}
		return resp.Slots[i].PersonName < resp.Slots[j].PersonName
	})

	for personID, row := range result.Fairness {
		resp.Fairness = append(resp.Fairness, dto.FairnessEntry{
			PersonID:   string(personID),
			PersonName: lookup.personNames[string(personID)],
			NbAsked:    row.NbAsked,
			NbFirst:    row.NbFirst,
			NbSecond:   row.NbSecond,
			Diff:       row.Diff,
		})
	}
	sort.Slice(resp.Fairness, func(i, j int) bool {
		return resp.Fairness[i].PersonName < resp.Fairness[j].PersonName
	})

	return resp
}

func previewToPlan(preview planPreview) *models.AllocationPlan {
	resp := preview.Response
	plan := &models.AllocationPlan{
		ID:            uuid.NewString(),
		Cohort:        preview.Cohort,
		Status:        models.PlanStatus(resp.Status),
		StatusMessage: resp.StatusMessage,
		Objective:     resp.Objective,
		FairnessFloor: resp.FairnessFloor,
		Variables:     resp.Stats.Variables,
		Constraints:   resp.Stats.Constraints,
		SolveMillis:   resp.Stats.SolveMillis,
		GeneratedBy:   preview.GeneratedBy,
		CreatedAt:     time.Now().UTC(),
	}
	for _, slot := range resp.Slots {
		plan.Slots = append(plan.Slots, models.AllocationSlot{
			PersonID: slot.PersonID,
			BoatID:   slot.BoatID,
			Day:      slot.Day,
			Period:   slot.Period,
			Rank:     models.PreferenceRank(slot.Rank),
		})
	}
	for _, row := range resp.Fairness {
		plan.Fairness = append(plan.Fairness, models.FairnessRow{
			PersonID: row.PersonID,
			NbAsked:  row.NbAsked,
			NbFirst:  row.NbFirst,
			NbSecond: row.NbSecond,
			Diff:     row.Diff,
		})
	}
	return plan
}

func planCacheKey(id string) string {
	return "boatplan:plan:" + id
}

// --- preview store ---

type planPreview struct {
	PreviewID   string
	Cohort      string
	Response    dto.GeneratePlanResponse
	GeneratedBy string
	RequestedAt time.Time
}

type previewStore struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]planPreview
}

func newPreviewStore(ttl time.Duration) *previewStore {
	return &previewStore{
		ttl:   ttl,
		items: make(map[string]planPreview),
	}
}

func (s *previewStore) Save(preview planPreview) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[preview.PreviewID] = preview
}

func (s *previewStore) Get(id string) (planPreview, bool) {
	s.mu.RLock()
	preview, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return planPreview{}, false
	}
	if time.Since(preview.RequestedAt) > s.ttl {
		s.Delete(id)
		return planPreview{}, false
	}
	return preview, true
}

func (s *previewStore) Delete(id string) {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
}
