package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/oarlock/boatplan-api/internal/dto"
	"github.com/oarlock/boatplan-api/internal/models"
	appErrors "github.com/oarlock/boatplan-api/pkg/errors"
)

type personRepository interface {
	List(ctx context.Context, filter models.PersonFilter) ([]models.Person, int, error)
	FindByID(ctx context.Context, id string) (*models.Person, error)
	Create(ctx context.Context, person *models.Person) error
	Update(ctx context.Context, person *models.Person) error
	Delete(ctx context.Context, id string) error
}

// RosterService manages the rower roster.
type RosterService struct {
	repo      personRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRosterService constructs a RosterService.
func NewRosterService(repo personRepository, validate *validator.Validate, logger *zap.Logger) *RosterService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterService{repo: repo, validator: validate, logger: logger}
}

// List returns people matching the query with pagination metadata.
func (s *RosterService) List(ctx context.Context, query dto.PersonQuery) ([]models.Person, *models.Pagination, error) {
	filter := models.PersonFilter{
		Cohort:   query.Cohort,
		Active:   query.Active,
		Search:   query.Search,
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	if query.Skill != "" {
		skill := models.SkillLevel(query.Skill)
		if !models.ValidSkill(skill) {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, "unknown skill level")
		}
		filter.Skill = &skill
	}

	people, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list roster")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return people, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get fetches one rower.
func (s *RosterService) Get(ctx context.Context, id string) (*models.Person, error) {
	person, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "person not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load person")
	}
	return person, nil
}

// Create registers a rower.
func (s *RosterService) Create(ctx context.Context, req dto.CreatePersonRequest) (*models.Person, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid person payload")
	}
	if _, ok := models.CohortConfigByName(req.Cohort); !ok {
		return nil, appErrors.Clone(appErrors.ErrUnknownCohort, "unknown cohort: "+req.Cohort)
	}

	person := &models.Person{
		FullName:    req.FullName,
		Cohort:      req.Cohort,
		Skill:       models.SkillLevel(req.Skill),
		WeightClass: models.WeightClass(req.WeightClass),
		Active:      true,
	}
	if err := s.repo.Create(ctx, person); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create person")
	}
	s.logger.Info("person created", zap.String("person_id", person.ID), zap.String("cohort", person.Cohort))
	return person, nil
}

// Update applies a partial update to a rower.
func (s *RosterService) Update(ctx context.Context, id string, req dto.UpdatePersonRequest) (*models.Person, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid person payload")
	}

	person, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		person.FullName = *req.FullName
	}
	if req.Skill != nil {
		person.Skill = models.SkillLevel(*req.Skill)
	}
	if req.WeightClass != nil {
		person.WeightClass = models.WeightClass(*req.WeightClass)
	}
	if req.Active != nil {
		person.Active = *req.Active
	}

	if err := s.repo.Update(ctx, person); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update person")
	}
	return person, nil
}

// Delete removes a rower and their preferences.
func (s *RosterService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete person")
	}
	s.logger.Info("person deleted", zap.String("person_id", id))
	return nil
}
