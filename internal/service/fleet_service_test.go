package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oarlock/boatplan-api/internal/dto"
	"github.com/oarlock/boatplan-api/internal/models"
	appErrors "github.com/oarlock/boatplan-api/pkg/errors"
)

type memoryBoatRepo struct {
	boats  map[string]*models.Boat
	nextID int
}

func newMemoryBoatRepo() *memoryBoatRepo {
	return &memoryBoatRepo{boats: make(map[string]*models.Boat)}
}

func (r *memoryBoatRepo) List(ctx context.Context, filter models.BoatFilter) ([]models.Boat, int, error) {
	var out []models.Boat
	for _, b := range r.boats {
		if filter.Class != nil && b.Class != *filter.Class {
			continue
		}
		out = append(out, *b)
	}
	return out, len(out), nil
}

func (r *memoryBoatRepo) FindByID(ctx context.Context, id string) (*models.Boat, error) {
	b, ok := r.boats[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *b
	return &copied, nil
}

func (r *memoryBoatRepo) Create(ctx context.Context, boat *models.Boat) error {
	r.nextID++
	boat.ID = "boat-" + string(rune('0'+r.nextID))
	r.boats[boat.ID] = boat
	return nil
}

func (r *memoryBoatRepo) Update(ctx context.Context, boat *models.Boat) error {
	if _, ok := r.boats[boat.ID]; !ok {
		return sql.ErrNoRows
	}
	r.boats[boat.ID] = boat
	return nil
}

func (r *memoryBoatRepo) Delete(ctx context.Context, id string) error {
	delete(r.boats, id)
	return nil
}

func TestFleetServiceCreateAndUpdate(t *testing.T) {
	repo := newMemoryBoatRepo()
	svc := NewFleetService(repo, nil, nil)

	boat, err := svc.Create(context.Background(), dto.CreateBoatRequest{
		Name:          "Ardea",
		Class:         "club",
		WeightClasses: []string{"M", "MH"},
	})
	require.NoError(t, err)
	assert.True(t, boat.Active)
	assert.Equal(t, []models.WeightClass{models.WeightMiddle, models.WeightMiddleHeavy}, boat.WeightList())

	active := false
	updated, err := svc.Update(context.Background(), boat.ID, dto.UpdateBoatRequest{Active: &active})
	require.NoError(t, err)
	assert.False(t, updated.Active)
	assert.Equal(t, "Ardea", updated.Name)
}

func TestFleetServiceCreateRejectsUnknownClass(t *testing.T) {
	svc := NewFleetService(newMemoryBoatRepo(), nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateBoatRequest{
		Name:          "Ghost",
		Class:         "skiff",
		WeightClasses: []string{"M"},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestFleetServiceListFiltersByClass(t *testing.T) {
	repo := newMemoryBoatRepo()
	svc := NewFleetService(repo, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateBoatRequest{Name: "A", Class: "stable", WeightClasses: []string{"L"}})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), dto.CreateBoatRequest{Name: "B", Class: "racing", WeightClasses: []string{"H"}})
	require.NoError(t, err)

	boats, page, err := svc.List(context.Background(), dto.BoatQuery{Class: "racing"})
	require.NoError(t, err)
	assert.Len(t, boats, 1)
	assert.Equal(t, 1, page.TotalCount)

	_, _, err = svc.List(context.Background(), dto.BoatQuery{Class: "skiff"})
	require.Error(t, err)
}

func TestFleetServiceGetUnknown(t *testing.T) {
	svc := NewFleetService(newMemoryBoatRepo(), nil, nil)

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
