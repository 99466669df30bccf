package engine

import (
	"sort"

	"github.com/opticampus/lab-scheduler/internal/models"
)

// PlaceDates distributes concrete semester dates across the groups of one
// (weekday, time-range) bundle using round-robin rounds, so that each
// group receives up to sessionsPerGroup meetings, no two groups in the
// bundle meet on the same date, and teacher/room occupancy constraints
// are respected. It mutates each group's Room/Capacity (on room
// fallback) and Dates fields in place and returns any conflicts recorded
// along the way.
func PlaceDates(groups []*models.LabGroup, sessionsPerGroup int, subjectCode string, semester int, tracker *Tracker, calendarDays []models.CalendarDay) []models.Conflict {
	if len(groups) == 0 || sessionsPerGroup <= 0 {
		return nil
	}

	weekday := groups[0].Weekday
	timeRange := groups[0].TimeRange

	pool := datePool(calendarDays, semester, weekday)
	if len(pool) == 0 {
		conflicts := make([]models.Conflict, 0, len(groups))
		for _, g := range groups {
			backfillGroupResources(g, subjectCode, tracker)
			conflicts = append(conflicts, models.Conflict{
				Kind:        models.ConflictNoCalendarForDay,
				Semester:    semester,
				SubjectCode: subjectCode,
				GroupLabel:  g.Label,
				Weekday:     weekday,
				TimeRange:   timeRange,
				Detail:      "sin calendario para ese dia",
			})
		}
		return conflicts
	}

	var conflicts []models.Conflict
	used := make(map[string]bool) // fechas_usadas_bloque, ISO dates
	datesISO := make(map[string][]string, len(groups))

	m := len(groups)
	for j := 0; j < sessionsPerGroup; j++ {
		for r := 0; r < m; r++ {
			g := groups[r]
			backfillGroupResources(g, subjectCode, tracker)

			start := r + j*m
			if start >= len(pool) {
				conflicts = append(conflicts, insufficientDatesConflict(g, semester, subjectCode, pool, len(pool)))
				continue
			}

			iso, placed := tryPlaceOne(g, subjectCode, pool, start, used, tracker)
			if !placed {
				conflicts = append(conflicts, insufficientDatesConflict(g, semester, subjectCode, pool, start))
				continue
			}
			datesISO[g.Label] = append(datesISO[g.Label], iso)
		}
	}

	for _, g := range groups {
		dates := append([]string(nil), datesISO[g.Label]...)
		sort.Sort(sort.Reverse(sort.StringSlice(dates))) // ISO sorts lexicographically == chronologically
		ddmmyyyy := make([]string, len(dates))
		for i, iso := range dates {
			ddmmyyyy[i] = ISOToDDMMYYYY(iso)
		}
		g.Dates = ddmmyyyy
	}

	return conflicts
}

func insufficientDatesConflict(g *models.LabGroup, semester int, subjectCode string, pool []string, from int) models.Conflict {
	candidate := ""
	var remaining []string
	if from < len(pool) {
		candidate = ISOToDDMMYYYY(pool[from])
		remaining = make([]string, len(pool)-from)
		for i, iso := range pool[from:] {
			remaining[i] = ISOToDDMMYYYY(iso)
		}
	}
	return models.Conflict{
		Kind:           models.ConflictInsufficientDates,
		Semester:       semester,
		SubjectCode:    subjectCode,
		GroupLabel:     g.Label,
		Weekday:        g.Weekday,
		TimeRange:      g.TimeRange,
		Date:           candidate,
		CandidateDates: remaining,
		Detail:         "no hay fechas suficientes en el calendario para completar las sesiones",
	}
}

// backfillGroupResources mirrors the original's lazy-fallback behavior:
// a group whose shell was created without a teacher or room (e.g. the
// subject had no eligible room yet at shell-creation time) gets another
// chance to acquire one before each of its placement attempts in a bundle,
// and once when the weekday has no calendar dates. A teacher or room that
// is already set is left unchanged.
func backfillGroupResources(g *models.LabGroup, subjectCode string, tracker *Tracker) {
	if g.TeacherID == "" {
		if teacherID := tracker.SelectTeacher(subjectCode, g.Weekday, g.TimeRange); teacherID != "" {
			g.TeacherID = teacherID
			g.TeacherName = tracker.TeacherName(teacherID)
		}
	}
	if g.Room == "" {
		if rooms := tracker.EligibleRooms(subjectCode); len(rooms) > 0 {
			g.Room = rooms[0]
			g.Capacity = tracker.CapacityOf(rooms[0])
		}
	}
}

// tryPlaceOne scans pool starting at index start for the first date
// usable by g: not already consumed elsewhere in the bundle, the
// teacher (if any) free and not blacklisted, and either the group's
// current room or one of the subject's alternative rooms free and not
// blacklisted. On success it mutates occupancy and, if an alternative
// room was used, the group's Room/Capacity.
func tryPlaceOne(g *models.LabGroup, subjectCode string, pool []string, start int, used map[string]bool, tracker *Tracker) (string, bool) {
	for idx := start; idx < len(pool); idx++ {
		iso := pool[idx]
		if used[iso] {
			continue
		}
		ddmmyyyy := ISOToDDMMYYYY(iso)

		if g.TeacherID != "" {
			if tracker.TeacherDateBlocked(g.TeacherID, ddmmyyyy) || !tracker.TeacherFreeOn(g.TeacherID, iso, g.TimeRange) {
				continue
			}
		}

		room := g.Room
		roomUsable := room != "" && !tracker.RoomDateBlocked(room, ddmmyyyy) && tracker.RoomFreeOn(room, iso, g.TimeRange)
		if !roomUsable {
			switched := ""
			for _, alt := range tracker.EligibleRooms(subjectCode) {
				if alt == room {
					continue
				}
				if tracker.RoomDateBlocked(alt, ddmmyyyy) || !tracker.RoomFreeOn(alt, iso, g.TimeRange) {
					continue
				}
				switched = alt
				break
			}
			if switched == "" {
				continue
			}
			room = switched
			g.Room = room
			g.Capacity = tracker.CapacityOf(room)
		}

		if g.TeacherID != "" {
			tracker.OccupyTeacher(g.TeacherID, iso, g.TimeRange)
		}
		tracker.OccupyRoom(room, iso, g.TimeRange)
		used[iso] = true
		return iso, true
	}
	return "", false
}

// datePool collects every calendar day in semester whose assigned
// weekday label equals weekday, sorted descending (latest first, ISO
// lexicographic order).
func datePool(calendarDays []models.CalendarDay, semester int, weekday string) []string {
	var pool []string
	for _, d := range calendarDays {
		if d.Semester != semester {
			continue
		}
		if !SameWeekday(d.AssignedWeekday, weekday) {
			continue
		}
		pool = append(pool, d.ISODate)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(pool)))
	return pool
}
