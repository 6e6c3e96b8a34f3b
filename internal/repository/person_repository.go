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

// PersonRepository manages persistence for rower records.
type PersonRepository struct {
	db *sqlx.DB
}

// NewPersonRepository constructs a PersonRepository.
func NewPersonRepository(db *sqlx.DB) *PersonRepository {
	return &PersonRepository{db: db}
}

// List returns people matching the provided filters.
func (r *PersonRepository) List(ctx context.Context, filter models.PersonFilter) ([]models.Person, int, error) {
	base := "FROM people p"
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.Cohort != "" {
		conditions = append(conditions, fmt.Sprintf("p.cohort = $%d", len(args)+1))
		args = append(args, filter.Cohort)
	}
	if filter.Skill != nil {
		conditions = append(conditions, fmt.Sprintf("p.skill = $%d", len(args)+1))
		args = append(args, *filter.Skill)
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("p.active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(p.full_name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	sortBy := filter.SortBy
	allowedSorts := map[string]string{
		"full_name":  "p.full_name",
		"skill":      "p.skill",
		"created_at": "p.created_at",
	}
	if sortBy == "" {
		sortBy = "full_name"
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "p.full_name"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT p.id, p.full_name, p.cohort, p.skill, p.weight_class, p.active, p.created_at, p.updated_at
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, base, column, order, size, offset)

	var people []models.Person
	if err := r.db.SelectContext(ctx, &people, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list people: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count people: %w", err)
	}
	return people, total, nil
}

// ListActiveByCohort returns every active rower of a cohort, the solver input set.
func (r *PersonRepository) ListActiveByCohort(ctx context.Context, cohort string) ([]models.Person, error) {
	const query = `SELECT id, full_name, cohort, skill, weight_class, active, created_at, updated_at
        FROM people WHERE cohort = $1 AND active = TRUE ORDER BY full_name ASC`
	var people []models.Person
	if err := r.db.SelectContext(ctx, &people, query, cohort); err != nil {
		return nil, fmt.Errorf("list cohort people: %w", err)
	}
	return people, nil
}

// FindByID fetches a rower by ID.
func (r *PersonRepository) FindByID(ctx context.Context, id string) (*models.Person, error) {
	const query = `SELECT id, full_name, cohort, skill, weight_class, active, created_at, updated_at
        FROM people WHERE id = $1`
	var person models.Person
	if err := r.db.GetContext(ctx, &person, query, id); err != nil {
		return nil, err
	}
	return &person, nil
}

// Create inserts a new rower record.
func (r *PersonRepository) Create(ctx context.Context, person *models.Person) error {
	if person.ID == "" {
		person.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if person.CreatedAt.IsZero() {
		person.CreatedAt = now
	}
	person.UpdatedAt = now

	const query = `INSERT INTO people (id, full_name, cohort, skill, weight_class, active, created_at, updated_at)
        VALUES (:id, :full_name, :cohort, :skill, :weight_class, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, person); err != nil {
		return fmt.Errorf("create person: %w", err)
	}
	return nil
}

// Update persists changes to an existing rower.
func (r *PersonRepository) Update(ctx context.Context, person *models.Person) error {
	person.UpdatedAt = time.Now().UTC()

	const query = `UPDATE people
        SET full_name = :full_name, skill = :skill, weight_class = :weight_class, active = :active, updated_at = :updated_at
        WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, person)
	if err != nil {
		return fmt.Errorf("update person: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("update person: no rows affected")
	}
	return nil
}

// Delete removes a rower and their preferences.
func (r *PersonRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete person: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM preferences WHERE person_id = $1", id); err != nil {
		return fmt.Errorf("delete person preferences: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM people WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete person: %w", err)
	}
	return tx.Commit()
}
