package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/opticampus/lab-scheduler/internal/models"
)

// PlanningRunRepository persists versioned lab-scheduling runs.
type PlanningRunRepository struct {
	db *sqlx.DB
}

// NewPlanningRunRepository constructs repository.
func NewPlanningRunRepository(db *sqlx.DB) *PlanningRunRepository {
	return &PlanningRunRepository{db: db}
}

func (r *PlanningRunRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// CreateVersioned inserts a planning run assigning the next version for the term.
func (r *PlanningRunRepository) CreateVersioned(ctx context.Context, exec sqlx.ExtContext, run *models.PlanningRun) error {
	if run == nil {
		return fmt.Errorf("planning run payload is nil")
	}
	if run.TermID == "" {
		return fmt.Errorf("term_id is required")
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.Status == "" {
		run.Status = models.PlanningRunStatusDraft
	}
	if len(run.Result) == 0 {
		run.Result = types.JSONText(`{}`)
	}
	now := time.Now().UTC()
	if run.CreatedAt.IsZero() {
		run.CreatedAt = now
	}
	run.UpdatedAt = now

	target := r.exec(exec)

	const nextVersionQuery = `SELECT COALESCE(MAX(version), 0) + 1 FROM planning_runs WHERE term_id = $1`
	if err := sqlx.GetContext(ctx, target, &run.Version, nextVersionQuery, run.TermID); err != nil {
		return fmt.Errorf("compute next planning run version: %w", err)
	}

	const insertQuery = `
INSERT INTO planning_runs (id, term_id, version, status, result, conflict_count, advisory_count, created_at, updated_at)
VALUES (:id, :term_id, :version, :status, :result, :conflict_count, :advisory_count, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, target, insertQuery, run); err != nil {
		return fmt.Errorf("insert planning run: %w", err)
	}
	return nil
}

// ListByTerm returns all run versions for the given term, newest first.
func (r *PlanningRunRepository) ListByTerm(ctx context.Context, termID string) ([]models.PlanningRunSummary, error) {
	const query = `SELECT id, term_id, version, status, conflict_count, advisory_count, created_at
FROM planning_runs WHERE term_id = $1 ORDER BY version DESC`
	var runs []models.PlanningRunSummary
	if err := r.db.SelectContext(ctx, &runs, query, termID); err != nil {
		return nil, fmt.Errorf("list planning runs: %w", err)
	}
	return runs, nil
}

// FindByID loads a planning run by its identifier.
func (r *PlanningRunRepository) FindByID(ctx context.Context, id string) (*models.PlanningRun, error) {
	const query = `SELECT id, term_id, version, status, result, conflict_count, advisory_count, created_at, updated_at
FROM planning_runs WHERE id = $1`
	var run models.PlanningRun
	if err := r.db.GetContext(ctx, &run, query, id); err != nil {
		return nil, err
	}
	return &run, nil
}

// Delete removes a stored draft run.
func (r *PlanningRunRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM planning_runs WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete planning run: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("planning run rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateStatus transitions a planning run's lifecycle status.
func (r *PlanningRunRepository) UpdateStatus(ctx context.Context, exec sqlx.ExtContext, id string, status models.PlanningRunStatus) error {
	target := r.exec(exec)
	now := time.Now().UTC()

	const query = `UPDATE planning_runs SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := target.ExecContext(ctx, query, status, now, id)
	if err != nil {
		return fmt.Errorf("update planning run status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("planning run status rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
