package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opticampus/lab-scheduler/internal/models"
)

func TestSelectTeacherRanksByLoadThenName(t *testing.T) {
	teachers := []models.PlanningTeacher{
		simpleTeacher("t2", "Zeta", "SUBJ"),
		simpleTeacher("t1", "Alfa", "SUBJ"),
	}
	tracker := NewTracker(teachers, nil)

	first := tracker.SelectTeacher("SUBJ", "Lunes", "09:30-11:30")
	require.Equal(t, "t1", first, "tie on load breaks by display name")

	second := tracker.SelectTeacher("SUBJ", "Lunes", "09:30-11:30")
	require.Equal(t, "t2", second, "first selection's load increment should move it behind the other candidate")
}

func TestSelectTeacherExcludesBlockedRanges(t *testing.T) {
	teacher := simpleTeacher("t1", "Alfa", "SUBJ")
	teacher.BlockedRanges["Lunes"] = map[string]bool{"09:30-11:30": true}
	teacher.WorkingDays["Martes"] = true
	tracker := NewTracker([]models.PlanningTeacher{teacher}, nil)

	require.Equal(t, "", tracker.SelectTeacher("SUBJ", "Lunes", "09:30-11:30"))
	require.Equal(t, "t1", tracker.SelectTeacher("SUBJ", "Martes", "09:30-11:30"))
}

func TestEligibleRoomsPrimaryFirstByCapacity(t *testing.T) {
	rooms := []models.PlanningRoom{
		simpleRoom("R-small", 10, "SUBJ"),
		simpleRoom("R-big", 40, "SUBJ"),
		simpleRoom("R-other", 40, "OTHER"),
	}
	tracker := NewTracker(nil, rooms)

	eligible := tracker.EligibleRooms("SUBJ")
	require.Equal(t, []string{"R-big", "R-small"}, eligible)

	// cached: repeated calls keep the same primary even though nothing changed.
	require.Equal(t, "R-big", tracker.EligibleRooms("SUBJ")[0])
}

func TestEligibleRoomsNonPrimaryKeepsInsertionOrder(t *testing.T) {
	rooms := []models.PlanningRoom{
		simpleRoom("R-primary", 40, "SUBJ"),
		simpleRoom("Z-second", 10, "SUBJ"),
		simpleRoom("A-third", 10, "SUBJ"),
	}
	tracker := NewTracker(nil, rooms)

	eligible := tracker.EligibleRooms("SUBJ")
	require.Equal(t, []string{"R-primary", "Z-second", "A-third"}, eligible,
		"non-primary rooms must follow supplied order, not alphabetical order")
}

func TestCapacityOfUnassignedSentinel(t *testing.T) {
	tracker := NewTracker(nil, nil)
	require.Equal(t, unassignedCapacity, tracker.CapacityOf(""))
	require.Equal(t, unassignedCapacity, tracker.CapacityOf("missing"))
}

func TestOccupyTeacherAndRoomTrackSlotKeys(t *testing.T) {
	tracker := NewTracker(nil, nil)
	require.True(t, tracker.TeacherFreeOn("t1", "2025-02-03", "09:30-11:30"))
	tracker.OccupyTeacher("t1", "2025-02-03", "09:30-11:30")
	require.False(t, tracker.TeacherFreeOn("t1", "2025-02-03", "09:30-11:30"))
	require.True(t, tracker.TeacherFreeOn("t1", "2025-02-10", "09:30-11:30"))
}
