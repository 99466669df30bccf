package engine

import (
	"sort"

	"github.com/opticampus/lab-scheduler/internal/models"
)

// enrollmentKey pairs an academic-group code with a subject code.
type enrollmentKey struct {
	GroupCode   string
	SubjectCode string
}

// EnrollmentIndex maps (academic-group-code, subject-code) to a sorted
// list of student IDs enrolled in that subject while a member of that
// academic group.
type EnrollmentIndex map[enrollmentKey][]string

// StudentsFor returns the sorted student IDs enrolled in subjectCode as
// members of groupCode.
func (idx EnrollmentIndex) StudentsFor(groupCode, subjectCode string) []string {
	return idx[enrollmentKey{GroupCode: groupCode, SubjectCode: subjectCode}]
}

// BuildEnrollmentIndex is a pure function of the planning input, computed
// once per run. Only students whose per-subject record has an explicit
// enrolled=true flag are included; for each such subject, a student is
// indexed under every one of their academic-group memberships. Any
// per-subject group override carried on the enrollment record is a
// configuration-editor concern and is not consulted here.
func BuildEnrollmentIndex(input *models.PlanningInput) EnrollmentIndex {
	buckets := make(map[enrollmentKey][]string)
	for _, student := range input.Students {
		for subjectCode, enrollment := range student.Enrollments {
			if !enrollment.Enrolled {
				continue
			}
			for _, groupCode := range student.GroupMemberships {
				key := enrollmentKey{GroupCode: groupCode, SubjectCode: subjectCode}
				buckets[key] = append(buckets[key], student.ID)
			}
		}
	}
	for key := range buckets {
		sort.Strings(buckets[key])
	}
	return buckets
}
