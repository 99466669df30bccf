package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/opticampus/lab-scheduler/internal/models"
)

// StudentGroupRepository reads the academic-group membership and
// per-subject lab-enrollment data the planning engine consumes. Unlike
// the administrative Enrollment (class/term registration), these rows
// are scoped to the lab-scheduling domain only.
type StudentGroupRepository struct {
	db *sqlx.DB
}

// NewStudentGroupRepository constructs the repository.
func NewStudentGroupRepository(db *sqlx.DB) *StudentGroupRepository {
	return &StudentGroupRepository{db: db}
}

// ListMemberships returns every student's academic-group memberships.
func (r *StudentGroupRepository) ListMemberships(ctx context.Context) ([]models.StudentGroupMembership, error) {
	const query = `SELECT student_id, group_code FROM student_academic_groups ORDER BY student_id, group_code`
	var rows []models.StudentGroupMembership
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list student academic group memberships: %w", err)
	}
	return rows, nil
}

// ListSubjectEnrollments returns every student's per-subject lab
// enrollment flag and optional academic-group override.
func (r *StudentGroupRepository) ListSubjectEnrollments(ctx context.Context) ([]models.StudentSubjectEnrollment, error) {
	const query = `SELECT student_id, subject_id, enrolled, group_override FROM student_subject_enrollments ORDER BY student_id, subject_id`
	var rows []models.StudentSubjectEnrollment
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list student subject enrollments: %w", err)
	}
	return rows, nil
}
