package engine

import (
	"fmt"
	"sort"

	"github.com/opticampus/lab-scheduler/internal/models"
)

type weeklySlot struct {
	Weekday   string
	TimeRange string
	Mixed     bool
}

// PlanSubject runs the full per-subject algorithm described for the
// Subject Planner: group count determination, weekly slot assignment,
// mixed-slot reservation, group shell creation, student distribution,
// hard parity balancing, then date placement via the Date Interleaver.
// It never returns an error; every failure mode is recorded as a
// models.Conflict or an advisory note and planning continues.
func PlanSubject(subject models.Subject, enroll EnrollmentIndex, tracker *Tracker, calendarDays []models.CalendarDay) ([]*models.LabGroup, []models.Conflict, []string) {
	var conflicts []models.Conflict
	var notes []string

	if subject.SimpleGroupCode == "" {
		notes = append(notes, fmt.Sprintf("asignatura %s sin codigo de grupo simple; omitida", subject.Code))
		return nil, conflicts, notes
	}

	simpleCfg := subject.LabConfig[subject.SimpleGroupCode]
	nSimple := simpleCfg.PlannedGroupCount
	sessionsPerGroup := simpleCfg.SessionsPerSemester

	nDual := 0
	if subject.DualGroupCode != "" {
		nDual = subject.LabConfig[subject.DualGroupCode].PlannedGroupCount
	}

	if nSimple == 0 {
		return nil, conflicts, notes
	}

	baseSlots := baseSlotList(subject, subject.SimpleGroupCode)
	if len(baseSlots) == 0 {
		conflicts = append(conflicts, models.Conflict{
			Kind:        models.ConflictNoCalendarForDay,
			Semester:    subject.Semester,
			SubjectCode: subject.Code,
			Detail:      "sin franjas horarias para el grupo simple",
		})
		return nil, conflicts, notes
	}

	// 2. slot assignment, round-robin over the base slot list.
	groupSlot := make([]weeklySlot, nSimple)
	for i := 0; i < nSimple; i++ {
		groupSlot[i] = baseSlots[i%len(baseSlots)]
	}

	// 3. mixed-slot reservation for dual students.
	reserved := reserveMixedIndices(groupSlot, nDual)

	// 4. group shell creation.
	groups := make([]*models.LabGroup, nSimple)
	for i := 0; i < nSimple; i++ {
		slot := groupSlot[i]
		label := fmt.Sprintf("%s-%02d", subject.SimpleGroupCode, i+1)

		teacherID := tracker.SelectTeacher(subject.Code, slot.Weekday, slot.TimeRange)
		if teacherID == "" {
			conflicts = append(conflicts, models.Conflict{
				Kind:        models.ConflictNoTeacherEligible,
				Semester:    subject.Semester,
				SubjectCode: subject.Code,
				GroupLabel:  label,
				Weekday:     slot.Weekday,
				TimeRange:   slot.TimeRange,
				Detail:      "no hay profesor elegible para esta franja",
			})
		}

		rooms := tracker.EligibleRooms(subject.Code)
		room := ""
		if len(rooms) > 0 {
			room = rooms[0]
		} else {
			conflicts = append(conflicts, models.Conflict{
				Kind:        models.ConflictNoRoomSlot,
				Semester:    subject.Semester,
				SubjectCode: subject.Code,
				GroupLabel:  label,
				Weekday:     slot.Weekday,
				TimeRange:   slot.TimeRange,
				Detail:      "no hay aula elegible para esta asignatura",
			})
		}

		dualCode := ""
		if reserved[i] {
			dualCode = subject.DualGroupCode
		}

		groups[i] = &models.LabGroup{
			Label:           label,
			SubjectCode:     subject.Code,
			Semester:        subject.Semester,
			Weekday:         slot.Weekday,
			TimeRange:       slot.TimeRange,
			Room:            room,
			Capacity:        tracker.CapacityOf(room),
			TeacherID:       teacherID,
			TeacherName:     tracker.TeacherName(teacherID),
			Mixed:           reserved[i] || slot.Mixed,
			SimpleGroupCode: subject.SimpleGroupCode,
			DualGroupCode:   dualCode,
		}
	}

	// 5. student distribution.
	studentsSimple := enroll.StudentsFor(subject.SimpleGroupCode, subject.Code)
	var studentsDual []string
	if subject.DualGroupCode != "" {
		studentsDual = enroll.StudentsFor(subject.DualGroupCode, subject.Code)
	}
	isDual := make(map[string]bool, len(studentsDual))
	for _, id := range studentsDual {
		isDual[id] = true
	}

	reservedIdx := make([]int, 0, nSimple)
	for i := 0; i < nSimple; i++ {
		if reserved[i] {
			reservedIdx = append(reservedIdx, i)
		}
	}
	allIdx := make([]int, nSimple)
	for i := range allIdx {
		allIdx[i] = i
	}

	droppedDual := placeLeastLoaded(groups, studentsDual, reservedIdx)
	droppedSimple := placeLeastLoaded(groups, studentsSimple, allIdx)
	if droppedDual+droppedSimple > 0 {
		notes = append(notes, fmt.Sprintf(
			"asignatura %s: %d alumno(s) no pudieron asignarse por falta de capacidad",
			subject.Code, droppedDual+droppedSimple))
	}

	// 6. hard parity balancing.
	if note := balanceParity(groups, isDual, reserved); note != "" {
		notes = append(notes, note)
	}

	// 7. date placement, grouped into (weekday, time-range) bundles.
	bundles := make(map[weeklySlot][]*models.LabGroup)
	var bundleOrder []weeklySlot
	for _, g := range groups {
		key := weeklySlot{Weekday: g.Weekday, TimeRange: g.TimeRange}
		if _, ok := bundles[key]; !ok {
			bundleOrder = append(bundleOrder, key)
		}
		bundles[key] = append(bundles[key], g)
	}
	sort.Slice(bundleOrder, func(i, j int) bool {
		a, b := bundleOrder[i], bundleOrder[j]
		oa, ob := WeekdayOrdinal(a.Weekday), WeekdayOrdinal(b.Weekday)
		if oa != ob {
			return oa < ob
		}
		return TimeStartMinutes(a.TimeRange) < TimeStartMinutes(b.TimeRange)
	})

	for _, key := range bundleOrder {
		bundleConflicts := PlaceDates(bundles[key], sessionsPerGroup, subject.Code, subject.Semester, tracker, calendarDays)
		conflicts = append(conflicts, bundleConflicts...)
	}

	return groups, conflicts, notes
}

// baseSlotList collects every (weekday, time-range) pair in which
// groupCode appears in the subject's weekly grid, sorted by
// (weekday-ordinal, time-range-start-minute).
func baseSlotList(subject models.Subject, groupCode string) []weeklySlot {
	var slots []weeklySlot
	for timeRange, byWeekday := range subject.Grid {
		for weekday, cell := range byWeekday {
			for _, code := range cell.Groups {
				if code == groupCode {
					slots = append(slots, weeklySlot{Weekday: weekday, TimeRange: timeRange, Mixed: cell.Mixed})
					break
				}
			}
		}
	}
	sort.Slice(slots, func(i, j int) bool {
		oi, oj := WeekdayOrdinal(slots[i].Weekday), WeekdayOrdinal(slots[j].Weekday)
		if oi != oj {
			return oi < oj
		}
		if slots[i].TimeRange != slots[j].TimeRange {
			return TimeStartMinutes(slots[i].TimeRange) < TimeStartMinutes(slots[j].TimeRange)
		}
		return slots[i].Weekday < slots[j].Weekday
	})
	return slots
}

// reserveMixedIndices selects exactly nDual of the mixed-slot indices
// (among the nSimple assigned base slots) with approximately uniform
// stride, backfilling any shortfall by scanning the remaining mixed
// indices in order.
func reserveMixedIndices(groupSlot []weeklySlot, nDual int) map[int]bool {
	reserved := make(map[int]bool)
	if nDual <= 0 {
		return reserved
	}
	var mixedIdx []int
	for i, s := range groupSlot {
		if s.Mixed {
			mixedIdx = append(mixedIdx, i)
		}
	}
	if len(mixedIdx) == 0 {
		return reserved
	}
	stride := len(mixedIdx) / nDual
	if stride < 1 {
		stride = 1
	}
	for pos := 0; pos < len(mixedIdx) && len(reserved) < nDual; pos += stride {
		reserved[mixedIdx[pos]] = true
	}
	if len(reserved) < nDual {
		for _, idx := range mixedIdx {
			if len(reserved) >= nDual {
				break
			}
			reserved[idx] = true
		}
	}
	return reserved
}

// placeLeastLoaded places students into groups at the given candidate
// indices using a least-loaded-first rule: repeatedly choose the
// candidate with the smallest current student count (ties broken by
// group index), append the next student, and drop a candidate once it
// reaches capacity. It returns the count of students that could not be
// placed because every candidate was at capacity.
func placeLeastLoaded(groups []*models.LabGroup, students []string, candidateIdx []int) int {
	alive := append([]int(nil), candidateIdx...)
	dropped := 0
	for _, studentID := range students {
		alive = dropAtCapacity(groups, alive)
		if len(alive) == 0 {
			dropped++
			continue
		}
		chosen := alive[0]
		for _, idx := range alive[1:] {
			if len(groups[idx].Students) < len(groups[chosen].Students) {
				chosen = idx
			}
		}
		groups[chosen].Students = append(groups[chosen].Students, studentID)
	}
	return dropped
}

func dropAtCapacity(groups []*models.LabGroup, idx []int) []int {
	out := idx[:0:0]
	for _, i := range idx {
		if !groups[i].AtCapacity() {
			out = append(out, i)
		}
	}
	return out
}
