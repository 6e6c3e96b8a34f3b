package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/oarlock/boatplan-api/internal/models"
)

// AllocationRepository persists generated plans with their slots and
// fairness rows.
type AllocationRepository struct {
	db *sqlx.DB
}

// NewAllocationRepository constructs the repository.
func NewAllocationRepository(db *sqlx.DB) *AllocationRepository {
	return &AllocationRepository{db: db}
}

// Save writes the plan header, slots, and fairness rows in one transaction.
func (r *AllocationRepository) Save(ctx context.Context, plan *models.AllocationPlan) error {
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save plan: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const insertPlan = `INSERT INTO allocation_plans
        (id, cohort, status, status_message, objective, fairness_floor, variables, constraints, solve_millis, generated_by, created_at)
        VALUES (:id, :cohort, :status, :status_message, :objective, :fairness_floor, :variables, :constraints, :solve_millis, :generated_by, :created_at)`
	if _, err := tx.NamedExecContext(ctx, insertPlan, plan); err != nil {
		return fmt.Errorf("insert plan: %w", err)
	}

	const insertSlot = `INSERT INTO allocation_slots (id, plan_id, person_id, boat_id, day, period, rank)
        VALUES (:id, :plan_id, :person_id, :boat_id, :day, :period, :rank)`
	for i := range plan.Slots {
		plan.Slots[i].PlanID = plan.ID
		if plan.Slots[i].ID == "" {
			plan.Slots[i].ID = uuid.NewString()
		}
		if _, err := tx.NamedExecContext(ctx, insertSlot, plan.Slots[i]); err != nil {
			return fmt.Errorf("insert plan slot: %w", err)
		}
	}

	const insertFairness = `INSERT INTO allocation_fairness (id, plan_id, person_id, nb_asked, nb_first, nb_second, diff)
        VALUES (:id, :plan_id, :person_id, :nb_asked, :nb_first, :nb_second, :diff)`
	for i := range plan.Fairness {
		plan.Fairness[i].PlanID = plan.ID
		if plan.Fairness[i].ID == "" {
			plan.Fairness[i].ID = uuid.NewString()
		}
		if _, err := tx.NamedExecContext(ctx, insertFairness, plan.Fairness[i]); err != nil {
			return fmt.Errorf("insert fairness row: %w", err)
		}
	}

	return tx.Commit()
}

// FindByID loads a plan header together with its slots and fairness rows.
func (r *AllocationRepository) FindByID(ctx context.Context, id string) (*models.AllocationPlan, error) {
	const planQuery = `SELECT id, cohort, status, status_message, objective, fairness_floor, variables, constraints, solve_millis, generated_by, created_at
        FROM allocation_plans WHERE id = $1`
	var plan models.AllocationPlan
	if err := r.db.GetContext(ctx, &plan, planQuery, id); err != nil {
		return nil, err
	}

	const slotQuery = `SELECT id, plan_id, person_id, boat_id, day, period, rank
        FROM allocation_slots WHERE plan_id = $1 ORDER BY day, period, person_id`
	if err := r.db.SelectContext(ctx, &plan.Slots, slotQuery, id); err != nil {
		return nil, fmt.Errorf("load plan slots: %w", err)
	}

	const fairnessQuery = `SELECT id, plan_id, person_id, nb_asked, nb_first, nb_second, diff
        FROM allocation_fairness WHERE plan_id = $1 ORDER BY person_id`
	if err := r.db.SelectContext(ctx, &plan.Fairness, fairnessQuery, id); err != nil {
		return nil, fmt.Errorf("load fairness rows: %w", err)
	}

	return &plan, nil
}

// List returns plan headers matching the provided filters.
func (r *AllocationRepository) List(ctx context.Context, filter models.AllocationPlanFilter) ([]models.AllocationPlan, int, error) {
	base := "FROM allocation_plans ap"
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.Cohort != "" {
		conditions = append(conditions, fmt.Sprintf("ap.cohort = $%d", len(args)+1))
		args = append(args, filter.Cohort)
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("ap.status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT ap.id, ap.cohort, ap.status, ap.status_message, ap.objective, ap.fairness_floor, ap.variables, ap.constraints, ap.solve_millis, ap.generated_by, ap.created_at
        %s ORDER BY ap.created_at DESC LIMIT %d OFFSET %d`, base, size, offset)

	var plans []models.AllocationPlan
	if err := r.db.SelectContext(ctx, &plans, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list plans: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count plans: %w", err)
	}
	return plans, total, nil
}

// Delete removes a plan and its dependent rows.
func (r *AllocationRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete plan: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM allocation_fairness WHERE plan_id = $1", id); err != nil {
		return fmt.Errorf("delete fairness rows: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM allocation_slots WHERE plan_id = $1", id); err != nil {
		return fmt.Errorf("delete plan slots: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM allocation_plans WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	return tx.Commit()
}
