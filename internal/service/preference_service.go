package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/oarlock/boatplan-api/internal/dto"
	"github.com/oarlock/boatplan-api/internal/models"
	appErrors "github.com/oarlock/boatplan-api/pkg/errors"
)

type preferenceRepository interface {
	List(ctx context.Context, filter models.PreferenceFilter) ([]models.Preference, int, error)
	Replace(ctx context.Context, personID string, prefs []models.Preference) error
}

type personFinder interface {
	FindByID(ctx context.Context, id string) (*models.Person, error)
}

// PreferenceService manages outing wish lists. Input tables arrive
// reconciled upstream; validation here covers shape, not identity.
type PreferenceService struct {
	repo      preferenceRepository
	people    personFinder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPreferenceService constructs a PreferenceService.
func NewPreferenceService(repo preferenceRepository, people personFinder, validate *validator.Validate, logger *zap.Logger) *PreferenceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PreferenceService{repo: repo, people: people, validator: validate, logger: logger}
}

// List returns stored preferences with pagination metadata.
func (s *PreferenceService) List(ctx context.Context, query dto.PreferenceQuery) ([]models.Preference, *models.Pagination, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid preference query")
	}

	filter := models.PreferenceFilter{
		PersonID: query.PersonID,
		Cohort:   query.Cohort,
		Day:      query.Day,
		Page:     query.Page,
		PageSize: query.PageSize,
	}

	prefs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list preferences")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	return prefs, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Upsert replaces the wish list of one person. A slot listed as both
// first and second choice is rejected here; the solver applies the
// first-choice-wins rule only for data that slipped through upstream.
func (s *PreferenceService) Upsert(ctx context.Context, personID string, req dto.UpsertPreferencesRequest) ([]models.Preference, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid preference payload")
	}

	person, err := s.people.FindByID(ctx, personID)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "person not found")
	}

	cfg, ok := models.CohortConfigByName(person.Cohort)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnknownCohort, "unknown cohort: "+person.Cohort)
	}
	periods := make(map[string]bool, len(cfg.Periods))
	for _, p := range cfg.Periods {
		periods[p] = true
	}

	seen := make(map[[2]interface{}]bool, len(req.Entries))
	prefs := make([]models.Preference, 0, len(req.Entries))
	for _, entry := range req.Entries {
		if !periods[entry.Period] {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown period: "+entry.Period)
		}
		key := [2]interface{}{entry.Day, entry.Period}
		if seen[key] {
			return nil, appErrors.Clone(appErrors.ErrValidation, "duplicate slot in wish list")
		}
		seen[key] = true
		prefs = append(prefs, models.Preference{
			PersonID: personID,
			Day:      entry.Day,
			Period:   entry.Period,
			Rank:     models.PreferenceRank(entry.Rank),
		})
	}

	if err := s.repo.Replace(ctx, personID, prefs); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store preferences")
	}
	s.logger.Info("preferences replaced", zap.String("person_id", personID), zap.Int("entries", len(prefs)))
	return prefs, nil
}
