package engine

import (
	"sort"

	"github.com/opticampus/lab-scheduler/internal/models"
)

// unassignedCapacity is the teacher/room capacity sentinel used when no
// eligible resource exists yet, signaling an unconstrained placeholder
// during group-shell construction.
const unassignedCapacity = 10000

// slotKey encodes an (ISO-date, normalized-time-range) occupancy cell as
// "YYYY-MM-DD__HH:MM-HH:MM".
func slotKey(isoDate, timeRange string) string {
	return isoDate + "__" + timeRange
}

// Tracker is the single source of truth for per-run teacher and room
// occupancy and load. Exactly one Tracker is created per planning run and
// threaded through the rest of the pipeline; it is never shared across
// runs nor accessed concurrently within a run.
type Tracker struct {
	teachers  map[string]models.PlanningTeacher
	rooms     map[string]models.PlanningRoom
	roomOrder []string // room names in the order they were supplied to NewTracker

	teacherOccupied map[string]map[string]bool // teacherID -> slotKey -> true
	roomOccupied    map[string]map[string]bool // roomName -> slotKey -> true

	teacherLoadTotal      map[string]int
	teacherLoadPerSubject map[string]int // teacherID + "\x00" + subjectCode -> count

	primaryRoomCache map[string]string // subjectCode -> room name, or "" for "none"
}

// NewTracker builds a Tracker over the given teachers and rooms, with
// empty occupancy and load state.
func NewTracker(teachers []models.PlanningTeacher, rooms []models.PlanningRoom) *Tracker {
	t := &Tracker{
		teachers:              make(map[string]models.PlanningTeacher, len(teachers)),
		rooms:                 make(map[string]models.PlanningRoom, len(rooms)),
		roomOrder:             make([]string, 0, len(rooms)),
		teacherOccupied:       make(map[string]map[string]bool),
		roomOccupied:          make(map[string]map[string]bool),
		teacherLoadTotal:      make(map[string]int),
		teacherLoadPerSubject: make(map[string]int),
		primaryRoomCache:      make(map[string]string),
	}
	for _, tc := range teachers {
		t.teachers[tc.ID] = tc
	}
	for _, r := range rooms {
		if _, seen := t.rooms[r.Name]; !seen {
			t.roomOrder = append(t.roomOrder, r.Name)
		}
		t.rooms[r.Name] = r
	}
	return t
}

func subjectLoadKey(teacherID, subjectCode string) string {
	return teacherID + "\x00" + subjectCode
}

// SelectTeacher returns the teacher-id eligible for subjectCode on
// weekday at timeRange, or "" ("none") if no candidate qualifies. The
// candidate set is teachers who teach the subject, work that weekday, and
// are not blocked for that weekday/time-range. Ranking is ascending on
// (load_total, load_per_subject, display_name, teacher_id); selection
// immediately increments both load counters because load tracks groups
// shepherded, not sessions taught.
func (t *Tracker) SelectTeacher(subjectCode, weekday, timeRange string) string {
	type candidate struct {
		id          string
		loadTotal   int
		loadSubject int
		name        string
	}
	var candidates []candidate
	for id, tc := range t.teachers {
		if !tc.Subjects[subjectCode] {
			continue
		}
		if !tc.WorkingDays[weekday] {
			continue
		}
		if blocked, ok := tc.BlockedRanges[weekday]; ok && blocked[timeRange] {
			continue
		}
		candidates = append(candidates, candidate{
			id:          id,
			loadTotal:   t.teacherLoadTotal[id],
			loadSubject: t.teacherLoadPerSubject[subjectLoadKey(id, subjectCode)],
			name:        tc.DisplayName,
		})
	}
	if len(candidates) == 0 {
		return ""
	}
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.loadTotal != b.loadTotal {
			return a.loadTotal < b.loadTotal
		}
		if a.loadSubject != b.loadSubject {
			return a.loadSubject < b.loadSubject
		}
		if a.name != b.name {
			return a.name < b.name
		}
		return a.id < b.id
	})
	chosen := candidates[0].id
	t.teacherLoadTotal[chosen]++
	t.teacherLoadPerSubject[subjectLoadKey(chosen, subjectCode)]++
	return chosen
}

// TeacherName returns the display name for a teacher ID, or "" if unknown.
func (t *Tracker) TeacherName(teacherID string) string {
	if tc, ok := t.teachers[teacherID]; ok {
		return tc.DisplayName
	}
	return ""
}

// TeacherDateBlocked reports whether a teacher's unavailability set
// contains a DD/MM/YYYY date.
func (t *Tracker) TeacherDateBlocked(teacherID, ddmmyyyy string) bool {
	tc, ok := t.teachers[teacherID]
	if !ok {
		return false
	}
	return tc.UnavailableDates[ddmmyyyy]
}

// TeacherFreeOn reports whether a teacher has no occupancy at the given
// (ISO-date, time-range) slot.
func (t *Tracker) TeacherFreeOn(teacherID, isoDate, timeRange string) bool {
	occ, ok := t.teacherOccupied[teacherID]
	if !ok {
		return true
	}
	return !occ[slotKey(isoDate, timeRange)]
}

// OccupyTeacher marks a (ISO-date, time-range) slot occupied for teacherID.
func (t *Tracker) OccupyTeacher(teacherID, isoDate, timeRange string) {
	if teacherID == "" {
		return
	}
	occ, ok := t.teacherOccupied[teacherID]
	if !ok {
		occ = make(map[string]bool)
		t.teacherOccupied[teacherID] = occ
	}
	occ[slotKey(isoDate, timeRange)] = true
}

// RoomDateBlocked reports whether a room's unavailability set contains a
// DD/MM/YYYY date.
func (t *Tracker) RoomDateBlocked(roomName, ddmmyyyy string) bool {
	r, ok := t.rooms[roomName]
	if !ok {
		return false
	}
	return r.UnavailableDates[ddmmyyyy]
}

// RoomFreeOn reports whether a room has no occupancy at the given
// (ISO-date, time-range) slot.
func (t *Tracker) RoomFreeOn(roomName, isoDate, timeRange string) bool {
	occ, ok := t.roomOccupied[roomName]
	if !ok {
		return true
	}
	return !occ[slotKey(isoDate, timeRange)]
}

// OccupyRoom marks a (ISO-date, time-range) slot occupied for roomName.
func (t *Tracker) OccupyRoom(roomName, isoDate, timeRange string) {
	if roomName == "" {
		return
	}
	occ, ok := t.roomOccupied[roomName]
	if !ok {
		occ = make(map[string]bool)
		t.roomOccupied[roomName] = occ
	}
	occ[slotKey(isoDate, timeRange)] = true
}

// EligibleRooms returns subjectCode's available+associated rooms in
// priority order: the cached primary room first (highest-capacity-first,
// lexicographic tie-break, computed lazily on first query and cached for
// the rest of the run), then the remaining eligible rooms in the order
// they were supplied to NewTracker (insertion order, not alphabetical).
func (t *Tracker) EligibleRooms(subjectCode string) []string {
	primary := t.ensurePrimaryRoom(subjectCode)

	var eligible []string
	for _, name := range t.roomOrder {
		r := t.rooms[name]
		if !r.Available || !r.AssociatedSubjects[subjectCode] {
			continue
		}
		if name == primary {
			continue
		}
		eligible = append(eligible, name)
	}
	if primary == "" {
		return eligible
	}
	return append([]string{primary}, eligible...)
}

func (t *Tracker) ensurePrimaryRoom(subjectCode string) string {
	if cached, ok := t.primaryRoomCache[subjectCode]; ok {
		return cached
	}
	type cand struct {
		name string
		cap  int
	}
	var candidates []cand
	for name, r := range t.rooms {
		if !r.Available || !r.AssociatedSubjects[subjectCode] {
			continue
		}
		candidates = append(candidates, cand{name: name, cap: r.Capacity})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].cap != candidates[j].cap {
			return candidates[i].cap > candidates[j].cap
		}
		return candidates[i].name < candidates[j].name
	})
	primary := ""
	if len(candidates) > 0 {
		primary = candidates[0].name
	}
	t.primaryRoomCache[subjectCode] = primary
	return primary
}

// CapacityOf returns the integer capacity of a room, or the 10,000
// unassigned sentinel when roomName is empty/"none" — signaling an
// unconstrained placeholder during group-shell construction.
func (t *Tracker) CapacityOf(roomName string) int {
	if roomName == "" {
		return unassignedCapacity
	}
	r, ok := t.rooms[roomName]
	if !ok {
		return unassignedCapacity
	}
	return r.Capacity
}
