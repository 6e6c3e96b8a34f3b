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

// BoatRepository manages persistence for fleet records.
type BoatRepository struct {
	db *sqlx.DB
}

// NewBoatRepository constructs a BoatRepository.
func NewBoatRepository(db *sqlx.DB) *BoatRepository {
	return &BoatRepository{db: db}
}

// List returns boats matching the provided filters.
func (r *BoatRepository) List(ctx context.Context, filter models.BoatFilter) ([]models.Boat, int, error) {
	base := "FROM boats b"
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.Class != nil {
		conditions = append(conditions, fmt.Sprintf("b.class = $%d", len(args)+1))
		args = append(args, *filter.Class)
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("b.active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(b.name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	sortBy := filter.SortBy
	allowedSorts := map[string]string{
		"name":       "b.name",
		"class":      "b.class",
		"created_at": "b.created_at",
	}
	if sortBy == "" {
		sortBy = "name"
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "b.name"
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

	query := fmt.Sprintf(`SELECT b.id, b.name, b.class, b.weight_classes, b.active, b.created_at, b.updated_at
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, base, column, order, size, offset)

	var boats []models.Boat
	if err := r.db.SelectContext(ctx, &boats, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list boats: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count boats: %w", err)
	}
	return boats, total, nil
}

// ListActive returns every active hull, the solver input set.
func (r *BoatRepository) ListActive(ctx context.Context) ([]models.Boat, error) {
	const query = `SELECT id, name, class, weight_classes, active, created_at, updated_at
        FROM boats WHERE active = TRUE ORDER BY name ASC`
	var boats []models.Boat
	if err := r.db.SelectContext(ctx, &boats, query); err != nil {
		return nil, fmt.Errorf("list active boats: %w", err)
	}
	return boats, nil
}

// FindByID fetches a hull by ID.
func (r *BoatRepository) FindByID(ctx context.Context, id string) (*models.Boat, error) {
	const query = `SELECT id, name, class, weight_classes, active, created_at, updated_at
        FROM boats WHERE id = $1`
	var boat models.Boat
	if err := r.db.GetContext(ctx, &boat, query, id); err != nil {
		return nil, err
	}
	return &boat, nil
}

// Create inserts a new hull record.
func (r *BoatRepository) Create(ctx context.Context, boat *models.Boat) error {
	if boat.ID == "" {
		boat.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if boat.CreatedAt.IsZero() {
		boat.CreatedAt = now
	}
	boat.UpdatedAt = now

	const query = `INSERT INTO boats (id, name, class, weight_classes, active, created_at, updated_at)
        VALUES (:id, :name, :class, :weight_classes, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, boat); err != nil {
		return fmt.Errorf("create boat: %w", err)
	}
	return nil
}

// Update persists changes to an existing hull.
func (r *BoatRepository) Update(ctx context.Context, boat *models.Boat) error {
	boat.UpdatedAt = time.Now().UTC()

	const query = `UPDATE boats
        SET name = :name, class = :class, weight_classes = :weight_classes, active = :active, updated_at = :updated_at
        WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, boat)
	if err != nil {
		return fmt.Errorf("update boat: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("update boat: no rows affected")
	}
	return nil
}

// Delete removes a hull.
func (r *BoatRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM boats WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete boat: %w", err)
	}
	return nil
}
