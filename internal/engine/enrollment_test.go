package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opticampus/lab-scheduler/internal/models"
)

func TestBuildEnrollmentIndexSortsAndFiltersByEnrolledFlag(t *testing.T) {
	input := &models.PlanningInput{
		Students: []models.PlanningStudent{
			{
				ID:               "s2",
				GroupMemberships: []string{"A404"},
				Enrollments:      map[string]models.SubjectEnrollment{"SUBJ": {Enrolled: true}},
			},
			{
				ID:               "s1",
				GroupMemberships: []string{"A404"},
				Enrollments:      map[string]models.SubjectEnrollment{"SUBJ": {Enrolled: true}},
			},
			{
				ID:               "s3",
				GroupMemberships: []string{"A404"},
				Enrollments:      map[string]models.SubjectEnrollment{"SUBJ": {Enrolled: false}},
			},
		},
	}

	idx := BuildEnrollmentIndex(input)
	require.Equal(t, []string{"s1", "s2"}, idx.StudentsFor("A404", "SUBJ"))
}

func TestBuildEnrollmentIndexIgnoresGroupOverride(t *testing.T) {
	// student_map_by_group_subject unconditionally indexes every student
	// under every code in grupos_matriculado; it never consults a
	// per-subject group override. A student with an override must still
	// be indexed under their real academic-group memberships, never
	// under the override code alone.
	input := &models.PlanningInput{
		Students: []models.PlanningStudent{
			{
				ID:               "s1",
				GroupMemberships: []string{"A404"},
				Enrollments: map[string]models.SubjectEnrollment{
					"SUBJ": {Enrolled: true, GroupOverride: "A999"},
				},
			},
		},
	}

	idx := BuildEnrollmentIndex(input)
	require.Equal(t, []string{"s1"}, idx.StudentsFor("A404", "SUBJ"),
		"student must be indexed under their real group membership")
	require.Empty(t, idx.StudentsFor("A999", "SUBJ"),
		"group override must not be consulted by the enrollment index")
}
