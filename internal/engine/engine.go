package engine

import (
	"sort"
	"time"

	"github.com/opticampus/lab-scheduler/internal/models"
)

// Engine is the orchestrating entry point for one planning run. It is
// stateless; all mutable state lives in the Tracker created fresh for
// each Run call.
type Engine struct {
	now func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the engine's time source, used by tests that need
// deterministic timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New builds an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes the full pipeline — normalization is assumed to have
// already been applied when input was assembled; here the engine builds
// the Enrollment Index once, then plans every subject in semester-key
// order, then subject-code insertion order, exactly as the input
// presents them. Execution is single-threaded, synchronous and
// deterministic: two identical inputs yield byte-identical results
// modulo the timestamp field.
func (e *Engine) Run(input *models.PlanningInput) *models.PlanningResult {
	enroll := BuildEnrollmentIndex(input)
	tracker := NewTracker(input.Teachers, input.Rooms)

	subjects := orderedSubjects(input.Subjects)

	var allGroups []*models.LabGroup
	var allConflicts []models.Conflict
	var allNotes []string

	for _, subject := range subjects {
		groups, conflicts, notes := PlanSubject(subject, enroll, tracker, input.CalendarDays)
		allGroups = append(allGroups, groups...)
		allConflicts = append(allConflicts, conflicts...)
		allNotes = append(allNotes, notes...)
	}

	return AssembleResult(allGroups, allConflicts, allNotes, e.now())
}

// orderedSubjects sorts subjects by semester ascending, stably preserving
// their original (subject-code insertion) order within a semester.
func orderedSubjects(subjects []models.Subject) []models.Subject {
	ordered := append([]models.Subject(nil), subjects...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Semester < ordered[j].Semester
	})
	return ordered
}
