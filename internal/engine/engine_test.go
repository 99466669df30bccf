package engine

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/opticampus/lab-scheduler/internal/models"
)

func sampleInput() *models.PlanningInput {
	return &models.PlanningInput{
		Subjects: []models.Subject{
			{
				Code: "FIS101", Semester: 1, SimpleGroupCode: "A404",
				LabConfig: map[string]models.GroupLabConfig{
					"A404": {SessionsPerSemester: 2, PlannedGroupCount: 2},
				},
				Grid: models.ScheduleGrid{
					"09:30-11:30": {"Lunes": {Groups: []string{"A404"}, Mixed: false}},
				},
			},
		},
		Students: []models.PlanningStudent{
			enrolledStudent("s1", []string{"A404"}, "FIS101"),
			enrolledStudent("s2", []string{"A404"}, "FIS101"),
			enrolledStudent("s3", []string{"A404"}, "FIS101"),
			enrolledStudent("s4", []string{"A404"}, "FIS101"),
		},
		Teachers: []models.PlanningTeacher{simpleTeacher("t1", "Prof X", "FIS101")},
		Rooms:    []models.PlanningRoom{simpleRoom("R1", 20, "FIS101")},
		CalendarDays: []models.CalendarDay{
			{ISODate: "2025-02-03", AssignedWeekday: "Lunes", Semester: 1},
			{ISODate: "2025-02-10", AssignedWeekday: "Lunes", Semester: 1},
			{ISODate: "2025-02-17", AssignedWeekday: "Lunes", Semester: 1},
			{ISODate: "2025-02-24", AssignedWeekday: "Lunes", Semester: 1},
		},
	}
}

func TestEngineRunIsDeterministic(t *testing.T) {
	fixedClock := func() time.Time { return time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC) }
	eng := New(WithClock(fixedClock))

	r1 := eng.Run(sampleInput())
	r2 := eng.Run(sampleInput())

	b1, err := json.Marshal(r1)
	require.NoError(t, err)
	b2, err := json.Marshal(r2)
	require.NoError(t, err)
	require.JSONEq(t, string(b1), string(b2))
}

func TestEngineRunCapacityInvariant(t *testing.T) {
	eng := New()
	result := eng.Run(sampleInput())
	for _, bySubject := range result.Semestres {
		for _, subjResult := range bySubject {
			for _, g := range subjResult.Grupos {
				require.LessOrEqual(t, len(g.Alumnos), g.Capacidad)
			}
		}
	}
}

func TestEngineRunNoDuplicateDatesWithinBundle(t *testing.T) {
	eng := New()
	result := eng.Run(sampleInput())
	for _, bySubject := range result.Semestres {
		for _, subjResult := range bySubject {
			seen := map[string]bool{}
			for _, g := range subjResult.Grupos {
				for _, d := range g.Fechas {
					require.False(t, seen[d], "date %s repeated across groups sharing a slot", d)
					seen[d] = true
				}
			}
		}
	}
}
