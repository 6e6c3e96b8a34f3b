package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oarlock/boatplan-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestPersonRepositoryCreateAndFind(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPersonRepository(db)

	mock.ExpectExec("INSERT INTO people").
		WithArgs(sqlmock.AnyArg(), "Ada Lovelace", "comp", models.SkillAdvanced, models.WeightLight, true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	person := &models.Person{
		FullName:    "Ada Lovelace",
		Cohort:      "comp",
		Skill:       models.SkillAdvanced,
		WeightClass: models.WeightLight,
		Active:      true,
	}
	require.NoError(t, repo.Create(context.Background(), person))
	assert.NotEmpty(t, person.ID)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "full_name", "cohort", "skill", "weight_class", "active", "created_at", "updated_at"}).
		AddRow("person-1", "Ada Lovelace", "comp", "advanced", "L", true, now, now)
	mock.ExpectQuery("SELECT id, full_name, cohort, skill, weight_class, active, created_at, updated_at\\s+FROM people WHERE id").
		WithArgs("person-1").
		WillReturnRows(rows)

	found, err := repo.FindByID(context.Background(), "person-1")
	require.NoError(t, err)
	assert.Equal(t, models.SkillAdvanced, found.Skill)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPersonRepositoryListActiveByCohort(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPersonRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "full_name", "cohort", "skill", "weight_class", "active", "created_at", "updated_at"}).
		AddRow("person-1", "Ada Lovelace", "comp", "advanced", "L", true, now, now).
		AddRow("person-2", "Grace Hopper", "comp", "beginner", "M", true, now, now)
	mock.ExpectQuery("FROM people WHERE cohort = \\$1 AND active = TRUE").
		WithArgs("comp").
		WillReturnRows(rows)

	people, err := repo.ListActiveByCohort(context.Background(), "comp")
	require.NoError(t, err)
	require.Len(t, people, 2)
	assert.Equal(t, "Grace Hopper", people[1].FullName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPersonRepositoryListFiltersAndCounts(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPersonRepository(db)

	skill := models.SkillBeginner
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "full_name", "cohort", "skill", "weight_class", "active", "created_at", "updated_at"}).
		AddRow("person-2", "Grace Hopper", "comp", "beginner", "M", true, now, now)
	mock.ExpectQuery("SELECT p.id, p.full_name").
		WithArgs("comp", skill).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs("comp", skill).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	people, total, err := repo.List(context.Background(), models.PersonFilter{Cohort: "comp", Skill: &skill})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, people, 1)
	assert.Equal(t, models.WeightMiddle, people[0].WeightClass)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPersonRepositoryDeleteCascadesPreferences(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPersonRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM preferences WHERE person_id").
		WithArgs("person-1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM people WHERE id").
		WithArgs("person-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), "person-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
