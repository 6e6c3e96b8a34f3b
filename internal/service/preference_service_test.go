package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/oarlock/boatplan-api/internal/dto"
	"github.com/oarlock/boatplan-api/internal/models"
	appErrors "github.com/oarlock/boatplan-api/pkg/errors"
)

type recordingPreferenceRepo struct {
	replaced map[string][]models.Preference
}

func (r *recordingPreferenceRepo) List(_ context.Context, _ models.PreferenceFilter) ([]models.Preference, int, error) {
	return nil, 0, nil
}

func (r *recordingPreferenceRepo) Replace(_ context.Context, personID string, prefs []models.Preference) error {
	if r.replaced == nil {
		r.replaced = make(map[string][]models.Preference)
	}
	r.replaced[personID] = prefs
	return nil
}

type fixedPersonFinder struct {
	person *models.Person
}

func (f *fixedPersonFinder) FindByID(_ context.Context, _ string) (*models.Person, error) {
	if f.person == nil {
		return nil, assert.AnError
	}
	return f.person, nil
}

func TestPreferenceServiceUpsertStoresEntries(t *testing.T) {
	repo := &recordingPreferenceRepo{}
	finder := &fixedPersonFinder{person: &models.Person{ID: "p1", Cohort: "comp"}}
	svc := NewPreferenceService(repo, finder, nil, zap.NewNop())

	prefs, err := svc.Upsert(context.Background(), "p1", dto.UpsertPreferencesRequest{Entries: []dto.PreferenceEntry{
		{Day: 1, Period: "AM1", Rank: "first"},
		{Day: 1, Period: "AM2", Rank: "second"},
	}})
	require.NoError(t, err)
	require.Len(t, prefs, 2)
	assert.Equal(t, models.RankSecond, prefs[1].Rank)
	assert.Len(t, repo.replaced["p1"], 2)
}

func TestPreferenceServiceUpsertRejectsUnknownPeriod(t *testing.T) {
	repo := &recordingPreferenceRepo{}
	finder := &fixedPersonFinder{person: &models.Person{ID: "p1", Cohort: "rec_master"}}
	svc := NewPreferenceService(repo, finder, nil, zap.NewNop())

	// rec_master days have AM/PM only
	_, err := svc.Upsert(context.Background(), "p1", dto.UpsertPreferencesRequest{Entries: []dto.PreferenceEntry{
		{Day: 1, Period: "AM1", Rank: "first"},
	}})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.replaced)
}

func TestPreferenceServiceUpsertRejectsDuplicateSlot(t *testing.T) {
	repo := &recordingPreferenceRepo{}
	finder := &fixedPersonFinder{person: &models.Person{ID: "p1", Cohort: "comp"}}
	svc := NewPreferenceService(repo, finder, nil, zap.NewNop())

	_, err := svc.Upsert(context.Background(), "p1", dto.UpsertPreferencesRequest{Entries: []dto.PreferenceEntry{
		{Day: 1, Period: "AM1", Rank: "first"},
		{Day: 1, Period: "AM1", Rank: "second"},
	}})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestPreferenceServiceUpsertUnknownPerson(t *testing.T) {
	repo := &recordingPreferenceRepo{}
	svc := NewPreferenceService(repo, &fixedPersonFinder{}, nil, zap.NewNop())

	_, err := svc.Upsert(context.Background(), "missing", dto.UpsertPreferencesRequest{Entries: []dto.PreferenceEntry{
		{Day: 1, Period: "AM1", Rank: "first"},
	}})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
