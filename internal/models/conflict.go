package models

// ConflictKind enumerates the sub-kinds a planning conflict can carry.
// Conflicts are always informational: the engine records them but never
// halts planning because of one.
type ConflictKind string

const (
	ConflictNoTeacherEligible       ConflictKind = "no-teacher-eligible"
	ConflictTeacherUnavailable      ConflictKind = "teacher-unavailable-on-date"
	ConflictNoRoomSlot              ConflictKind = "no-room-slot"
	ConflictInsufficientDates       ConflictKind = "insufficient-dates"
	ConflictNoCalendarForDay        ConflictKind = "no-calendar-for-day"
	ConflictCannotBalanceParity     ConflictKind = "cannot-balance-parity-further"
)

// Conflict is an output record describing one planning failure. Conflicts
// never abort a run; they accumulate alongside whatever partial result was
// produced.
type Conflict struct {
	Kind ConflictKind

	Semester    int
	SubjectCode string
	GroupLabel  string
	Weekday     string
	TimeRange   string

	Date           string   // DD/MM/YYYY, the specific candidate that failed, if any
	CandidateDates []string // remaining pool at the point of failure, for audit

	Detail string
}
