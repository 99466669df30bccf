package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/opticampus/lab-scheduler/internal/models"
)

// CalendarRepository persists the assigned-weekday calendar the engine pulls
// candidate dates from.
type CalendarRepository struct {
	db *sqlx.DB
}

// NewCalendarRepository constructs a calendar repository.
func NewCalendarRepository(db *sqlx.DB) *CalendarRepository {
	return &CalendarRepository{db: db}
}

// List returns calendar day records for a term, optionally scoped to a semester.
func (r *CalendarRepository) List(ctx context.Context, filter models.CalendarFilter) ([]models.CalendarDayRecord, error) {
	query := `SELECT id, term_id, semester, iso_date, assigned_weekday FROM calendar_days WHERE term_id = $1`
	args := []interface{}{filter.TermID}
	if filter.Semester != 0 {
		query += " AND semester = $2"
		args = append(args, filter.Semester)
	}
	query += " ORDER BY iso_date ASC"

	var days []models.CalendarDayRecord
	if err := r.db.SelectContext(ctx, &days, query, args...); err != nil {
		return nil, fmt.Errorf("list calendar days: %w", err)
	}
	return days, nil
}

// Create inserts a single calendar day record.
func (r *CalendarRepository) Create(ctx context.Context, day *models.CalendarDayRecord) error {
	if day.ID == "" {
		day.ID = uuid.NewString()
	}
	const query = `INSERT INTO calendar_days (id, term_id, semester, iso_date, assigned_weekday)
VALUES (:id, :term_id, :semester, :iso_date, :assigned_weekday)`
	if _, err := r.db.NamedExecContext(ctx, query, day); err != nil {
		return fmt.Errorf("create calendar day: %w", err)
	}
	return nil
}

// ReplaceForTerm atomically replaces the calendar for a term/semester pair.
func (r *CalendarRepository) ReplaceForTerm(ctx context.Context, termID string, semester int, days []models.CalendarDayRecord) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin calendar replace transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM calendar_days WHERE term_id = $1 AND semester = $2", termID, semester); err != nil {
		return fmt.Errorf("clear calendar days: %w", err)
	}

	const insertQuery = `INSERT INTO calendar_days (id, term_id, semester, iso_date, assigned_weekday)
VALUES (:id, :term_id, :semester, :iso_date, :assigned_weekday)`
	for i := range days {
		if days[i].ID == "" {
			days[i].ID = uuid.NewString()
		}
		days[i].TermID = termID
		days[i].Semester = semester
		if _, err = tx.NamedExecContext(ctx, insertQuery, days[i]); err != nil {
			return fmt.Errorf("insert calendar day %s: %w", days[i].ISODate, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit calendar replace transaction: %w", err)
	}
	return nil
}
