package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/oarlock/boatplan-api/internal/dto"
	"github.com/oarlock/boatplan-api/internal/models"
	appErrors "github.com/oarlock/boatplan-api/pkg/errors"
)

type memoryPersonRepo struct {
	people map[string]*models.Person
}

func newMemoryPersonRepo() *memoryPersonRepo {
	return &memoryPersonRepo{people: make(map[string]*models.Person)}
}

func (r *memoryPersonRepo) List(_ context.Context, _ models.PersonFilter) ([]models.Person, int, error) {
	out := make([]models.Person, 0, len(r.people))
	for _, p := range r.people {
		out = append(out, *p)
	}
	return out, len(out), nil
}

func (r *memoryPersonRepo) FindByID(_ context.Context, id string) (*models.Person, error) {
	p, ok := r.people[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *p
	return &clone, nil
}

func (r *memoryPersonRepo) Create(_ context.Context, person *models.Person) error {
	if person.ID == "" {
		person.ID = "person-" + person.FullName
	}
	r.people[person.ID] = person
	return nil
}

func (r *memoryPersonRepo) Update(_ context.Context, person *models.Person) error {
	r.people[person.ID] = person
	return nil
}

func (r *memoryPersonRepo) Delete(_ context.Context, id string) error {
	delete(r.people, id)
	return nil
}

func TestRosterServiceCreateValidatesCohort(t *testing.T) {
	svc := NewRosterService(newMemoryPersonRepo(), nil, zap.NewNop())

	_, err := svc.Create(context.Background(), dto.CreatePersonRequest{
		FullName: "Ada", Cohort: "ghost", Skill: "advanced", WeightClass: "L",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnknownCohort.Code, appErrors.FromError(err).Code)
}

func TestRosterServiceCreateAndUpdate(t *testing.T) {
	repo := newMemoryPersonRepo()
	svc := NewRosterService(repo, nil, zap.NewNop())

	person, err := svc.Create(context.Background(), dto.CreatePersonRequest{
		FullName: "Ada", Cohort: "comp", Skill: "advanced", WeightClass: "L",
	})
	require.NoError(t, err)
	assert.True(t, person.Active)

	newSkill := "intermediate"
	inactive := false
	updated, err := svc.Update(context.Background(), person.ID, dto.UpdatePersonRequest{
		Skill:  &newSkill,
		Active: &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, models.SkillIntermediate, updated.Skill)
	assert.False(t, updated.Active)
	assert.Equal(t, "Ada", updated.FullName)
}

func TestRosterServiceGetUnknownPerson(t *testing.T) {
	svc := NewRosterService(newMemoryPersonRepo(), nil, zap.NewNop())

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestRosterServiceListRejectsUnknownSkillFilter(t *testing.T) {
	svc := NewRosterService(newMemoryPersonRepo(), nil, zap.NewNop())

	_, _, err := svc.List(context.Background(), dto.PersonQuery{Skill: "wizard"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
