package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opticampus/lab-scheduler/internal/models"
)

func simpleTeacher(id, name string, subjects ...string) models.PlanningTeacher {
	subjSet := make(map[string]bool, len(subjects))
	for _, s := range subjects {
		subjSet[s] = true
	}
	return models.PlanningTeacher{
		ID:               id,
		DisplayName:      name,
		Subjects:         subjSet,
		WorkingDays:      map[string]bool{"Lunes": true, "Miercoles": true, "Jueves": true},
		BlockedRanges:    map[string]map[string]bool{},
		UnavailableDates: map[string]bool{},
	}
}

func simpleRoom(name string, capacity int, subjects ...string) models.PlanningRoom {
	subjSet := make(map[string]bool, len(subjects))
	for _, s := range subjects {
		subjSet[s] = true
	}
	return models.PlanningRoom{
		Name:               name,
		Capacity:           capacity,
		Available:          true,
		AssociatedSubjects: subjSet,
		UnavailableDates:   map[string]bool{},
	}
}

func enrolledStudent(id string, groups []string, subjectCode string) models.PlanningStudent {
	return models.PlanningStudent{
		ID:               id,
		GroupMemberships: groups,
		Enrollments: map[string]models.SubjectEnrollment{
			subjectCode: {Enrolled: true},
		},
	}
}

// TestS1SingleGroupSingleDate grounds spec.md S1.
func TestS1SingleGroupSingleDate(t *testing.T) {
	subject := models.Subject{
		Code: "FIS101", Semester: 1, SimpleGroupCode: "A404",
		LabConfig: map[string]models.GroupLabConfig{
			"A404": {SessionsPerSemester: 1, PlannedGroupCount: 1},
		},
		Grid: models.ScheduleGrid{
			"09:30-11:30": {"Lunes": {Groups: []string{"A404"}, Mixed: false}},
		},
	}
	students := []models.PlanningStudent{
		enrolledStudent("s1", []string{"A404"}, "FIS101"),
		enrolledStudent("s2", []string{"A404"}, "FIS101"),
		enrolledStudent("s3", []string{"A404"}, "FIS101"),
	}
	input := &models.PlanningInput{
		Subjects: []models.Subject{subject},
		Students: students,
		Teachers: []models.PlanningTeacher{simpleTeacher("t1", "Prof X", "FIS101")},
		Rooms:    []models.PlanningRoom{simpleRoom("R1", 20, "FIS101")},
		CalendarDays: []models.CalendarDay{
			{ISODate: "2025-02-03", AssignedWeekday: "Lunes", Semester: 1},
		},
	}

	enroll := BuildEnrollmentIndex(input)
	tracker := NewTracker(input.Teachers, input.Rooms)
	groups, conflicts, _ := PlanSubject(subject, enroll, tracker, input.CalendarDays)

	require.Empty(t, conflicts)
	require.Len(t, groups, 1)
	g := groups[0]
	require.Equal(t, "A404-01", g.Label)
	require.Len(t, g.Students, 3)
	require.Equal(t, "t1", g.TeacherID)
	require.Equal(t, "R1", g.Room)
	require.Equal(t, []string{"03/02/2025"}, g.Dates)
}

// TestS2InterleavingTwoGroups grounds spec.md S2.
func TestS2InterleavingTwoGroups(t *testing.T) {
	subject := models.Subject{
		Code: "FIS101", Semester: 1, SimpleGroupCode: "A404",
		LabConfig: map[string]models.GroupLabConfig{
			"A404": {SessionsPerSemester: 2, PlannedGroupCount: 2},
		},
		Grid: models.ScheduleGrid{
			"09:30-11:30": {"Lunes": {Groups: []string{"A404"}, Mixed: false}},
		},
	}
	var students []models.PlanningStudent
	for i := 1; i <= 4; i++ {
		students = append(students, enrolledStudent(string(rune('a'+i)), []string{"A404"}, "FIS101"))
	}
	input := &models.PlanningInput{
		Subjects: []models.Subject{subject},
		Students: students,
		Teachers: []models.PlanningTeacher{simpleTeacher("t1", "Prof X", "FIS101")},
		Rooms:    []models.PlanningRoom{simpleRoom("R1", 20, "FIS101")},
		CalendarDays: []models.CalendarDay{
			{ISODate: "2025-02-03", AssignedWeekday: "Lunes", Semester: 1},
			{ISODate: "2025-02-10", AssignedWeekday: "Lunes", Semester: 1},
			{ISODate: "2025-02-17", AssignedWeekday: "Lunes", Semester: 1},
			{ISODate: "2025-02-24", AssignedWeekday: "Lunes", Semester: 1},
		},
	}

	enroll := BuildEnrollmentIndex(input)
	tracker := NewTracker(input.Teachers, input.Rooms)
	groups, conflicts, _ := PlanSubject(subject, enroll, tracker, input.CalendarDays)

	require.Empty(t, conflicts)
	require.Len(t, groups, 2)
	require.Equal(t, []string{"24/02/2025", "10/02/2025"}, groups[0].Dates)
	require.Equal(t, []string{"17/02/2025", "03/02/2025"}, groups[1].Dates)

	seen := map[string]bool{}
	for _, g := range groups {
		for _, d := range g.Dates {
			require.False(t, seen[d], "date %s used by more than one group", d)
			seen[d] = true
		}
	}
}

// TestS3ParityEnforcement grounds spec.md S3.
func TestS3ParityEnforcement(t *testing.T) {
	build := func(plannedGroups int) []*models.LabGroup {
		subject := models.Subject{
			Code: "QUI101", Semester: 1, SimpleGroupCode: "A404",
			LabConfig: map[string]models.GroupLabConfig{
				"A404": {SessionsPerSemester: 1, PlannedGroupCount: plannedGroups},
			},
			Grid: models.ScheduleGrid{
				"09:30-11:30": {"Lunes": {Groups: []string{"A404"}, Mixed: false}},
			},
		}
		var students []models.PlanningStudent
		for i := 0; i < 5; i++ {
			students = append(students, enrolledStudent(string(rune('a'+i)), []string{"A404"}, "QUI101"))
		}
		input := &models.PlanningInput{
			Subjects: []models.Subject{subject},
			Students: students,
			Teachers: []models.PlanningTeacher{simpleTeacher("t1", "Prof X", "QUI101")},
			Rooms:    []models.PlanningRoom{simpleRoom("R1", 10, "QUI101")},
			CalendarDays: []models.CalendarDay{
				{ISODate: "2025-02-03", AssignedWeekday: "Lunes", Semester: 1},
			},
		}
		enroll := BuildEnrollmentIndex(input)
		tracker := NewTracker(input.Teachers, input.Rooms)
		groups, _, _ := PlanSubject(subject, enroll, tracker, input.CalendarDays)
		return groups
	}

	single := build(1)
	require.Len(t, single, 1)
	require.Len(t, single[0].Students, 5)

	double := build(2)
	require.Len(t, double, 2)
	counts := []int{len(double[0].Students), len(double[1].Students)}
	total := counts[0] + counts[1]
	require.Equal(t, 5, total)
	odd := 0
	for _, c := range counts {
		if c%2 == 1 {
			odd++
		}
	}
	require.Equal(t, 1, odd, "exactly one group must be odd when the total is odd")
}

// TestS4DualStudentConstraint grounds spec.md S4.
func TestS4DualStudentConstraint(t *testing.T) {
	subject := models.Subject{
		Code: "EE201", Semester: 1, SimpleGroupCode: "A404", DualGroupCode: "EE403",
		LabConfig: map[string]models.GroupLabConfig{
			"A404":  {SessionsPerSemester: 1, PlannedGroupCount: 3},
			"EE403": {SessionsPerSemester: 1, PlannedGroupCount: 1},
		},
		Grid: models.ScheduleGrid{
			"09:30-11:30": {"Lunes": {Groups: []string{"A404", "EE403"}, Mixed: true}},
			"12:00-14:00": {"Lunes": {Groups: []string{"A404"}, Mixed: false}},
		},
	}
	var students []models.PlanningStudent
	for i := 0; i < 6; i++ {
		students = append(students, enrolledStudent(string(rune('a'+i)), []string{"A404"}, "EE201"))
	}
	students = append(students, enrolledStudent("dual1", []string{"EE403"}, "EE201"))

	input := &models.PlanningInput{
		Subjects: []models.Subject{subject},
		Students: students,
		Teachers: []models.PlanningTeacher{simpleTeacher("t1", "Prof X", "EE201")},
		Rooms:    []models.PlanningRoom{simpleRoom("R1", 20, "EE201")},
		CalendarDays: []models.CalendarDay{
			{ISODate: "2025-02-03", AssignedWeekday: "Lunes", Semester: 1},
		},
	}

	enroll := BuildEnrollmentIndex(input)
	tracker := NewTracker(input.Teachers, input.Rooms)
	groups, _, _ := PlanSubject(subject, enroll, tracker, input.CalendarDays)

	require.Len(t, groups, 3)

	dualGroupCount := 0
	for _, g := range groups {
		for _, s := range g.Students {
			if s == "dual1" {
				dualGroupCount++
				require.True(t, g.Mixed, "dual student must land in a mixed-eligible group")
			}
		}
	}
	require.Equal(t, 1, dualGroupCount, "dual student must appear in exactly one group")
}
