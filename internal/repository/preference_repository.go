package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/oarlock/boatplan-api/internal/models"
)

// PreferenceRepository persists outing wishes.
type PreferenceRepository struct {
	db *sqlx.DB
}

// NewPreferenceRepository constructs the repository.
func NewPreferenceRepository(db *sqlx.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// List returns preferences matching the provided filters.
func (r *PreferenceRepository) List(ctx context.Context, filter models.PreferenceFilter) ([]models.Preference, int, error) {
	base := "FROM preferences pr"
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.PersonID != "" {
		conditions = append(conditions, fmt.Sprintf("pr.person_id = $%d", len(args)+1))
		args = append(args, filter.PersonID)
	}
	if filter.Cohort != "" {
		base += " JOIN people p ON p.id = pr.person_id"
		conditions = append(conditions, fmt.Sprintf("p.cohort = $%d", len(args)+1))
		args = append(args, filter.Cohort)
	}
	if filter.Day != nil {
		conditions = append(conditions, fmt.Sprintf("pr.day = $%d", len(args)+1))
		args = append(args, *filter.Day)
	}
	if filter.Rank != nil {
		conditions = append(conditions, fmt.Sprintf("pr.rank = $%d", len(args)+1))
		args = append(args, *filter.Rank)
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT pr.id, pr.person_id, pr.day, pr.period, pr.rank, pr.created_at, pr.updated_at
        %s ORDER BY pr.person_id, pr.day, pr.period LIMIT %d OFFSET %d`, base, size, offset)

	var prefs []models.Preference
	if err := r.db.SelectContext(ctx, &prefs, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list preferences: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count preferences: %w", err)
	}
	return prefs, total, nil
}

// ListByCohort returns every preference row of a cohort's active rowers.
func (r *PreferenceRepository) ListByCohort(ctx context.Context, cohort string) ([]models.Preference, error) {
	const query = `SELECT pr.id, pr.person_id, pr.day, pr.period, pr.rank, pr.created_at, pr.updated_at
        FROM preferences pr
        JOIN people p ON p.id = pr.person_id
        WHERE p.cohort = $1 AND p.active = TRUE
        ORDER BY pr.person_id, pr.day, pr.period`
	var prefs []models.Preference
	if err := r.db.SelectContext(ctx, &prefs, query, cohort); err != nil {
		return nil, fmt.Errorf("list cohort preferences: %w", err)
	}
	return prefs, nil
}

// Replace swaps the full wish list of one person inside a transaction.
func (r *PreferenceRepository) Replace(ctx context.Context, personID string, prefs []models.Preference) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace preferences: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM preferences WHERE person_id = $1", personID); err != nil {
		return fmt.Errorf("clear preferences: %w", err)
	}

	now := time.Now().UTC()
	const insert = `INSERT INTO preferences (id, person_id, day, period, rank, created_at, updated_at)
        VALUES (:id, :person_id, :day, :period, :rank, :created_at, :updated_at)`
	for i := range prefs {
		prefs[i].PersonID = personID
		if prefs[i].ID == "" {
			prefs[i].ID = uuid.NewString()
		}
		if prefs[i].CreatedAt.IsZero() {
			prefs[i].CreatedAt = now
		}
		prefs[i].UpdatedAt = now
		if _, err := tx.NamedExecContext(ctx, insert, prefs[i]); err != nil {
			return fmt.Errorf("insert preference: %w", err)
		}
	}
	return tx.Commit()
}
