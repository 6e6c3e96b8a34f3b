package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/oarlock/boatplan-api/internal/dto"
	"github.com/oarlock/boatplan-api/internal/models"
	appErrors "github.com/oarlock/boatplan-api/pkg/errors"
)

type boatRepository interface {
	List(ctx context.Context, filter models.BoatFilter) ([]models.Boat, int, error)
	FindByID(ctx context.Context, id string) (*models.Boat, error)
	Create(ctx context.Context, boat *models.Boat) error
	Update(ctx context.Context, boat *models.Boat) error
	Delete(ctx context.Context, id string) error
}

// FleetService manages the hull inventory.
type FleetService struct {
	repo      boatRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFleetService constructs a FleetService.
func NewFleetService(repo boatRepository, validate *validator.Validate, logger *zap.Logger) *FleetService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FleetService{repo: repo, validator: validate, logger: logger}
}

// List returns boats matching the query with pagination metadata.
func (s *FleetService) List(ctx context.Context, query dto.BoatQuery) ([]models.Boat, *models.Pagination, error) {
	filter := models.BoatFilter{
		Active:   query.Active,
		Search:   query.Search,
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	if query.Class != "" {
		class := models.BoatClass(query.Class)
		if !models.ValidBoatClass(class) {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, "unknown boat class")
		}
		filter.Class = &class
	}

	boats, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list fleet")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return boats, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get fetches one hull.
func (s *FleetService) Get(ctx context.Context, id string) (*models.Boat, error) {
	boat, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "boat not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load boat")
	}
	return boat, nil
}

// Create registers a hull.
func (s *FleetService) Create(ctx context.Context, req dto.CreateBoatRequest) (*models.Boat, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid boat payload")
	}

	boat := &models.Boat{
		Name:          req.Name,
		Class:         models.BoatClass(req.Class),
		WeightClasses: strings.Join(req.WeightClasses, ","),
		Active:        true,
	}
	if err := s.repo.Create(ctx, boat); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create boat")
	}
	s.logger.Info("boat created", zap.String("boat_id", boat.ID), zap.String("class", string(boat.Class)))
	return boat, nil
}

// Update applies a partial update to a hull.
func (s *FleetService) Update(ctx context.Context, id string, req dto.UpdateBoatRequest) (*models.Boat, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid boat payload")
	}

	boat, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		boat.Name = *req.Name
	}
	if req.Class != nil {
		boat.Class = models.BoatClass(*req.Class)
	}
	if len(req.WeightClasses) > 0 {
		boat.WeightClasses = strings.Join(req.WeightClasses, ",")
	}
	if req.Active != nil {
		boat.Active = *req.Active
	}

	if err := s.repo.Update(ctx, boat); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update boat")
	}
	return boat, nil
}

// Delete removes a hull.
func (s *FleetService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete boat")
	}
	s.logger.Info("boat deleted", zap.String("boat_id", id))
	return nil
}
