package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/opticampus/lab-scheduler/internal/dto"
	"github.com/opticampus/lab-scheduler/internal/engine"
	"github.com/opticampus/lab-scheduler/internal/models"
	"github.com/opticampus/lab-scheduler/pkg/jobs"

	appErrors "github.com/opticampus/lab-scheduler/pkg/errors"
)

type planSubjectRepo interface {
	ListAll(ctx context.Context) ([]models.SubjectRecord, error)
}

type planTeacherRepo interface {
	ListActive(ctx context.Context) ([]models.Teacher, error)
}

type planTeacherAssignmentRepo interface {
	ListByTerm(ctx context.Context, termID string) ([]models.TeacherAssignment, error)
}

type planTeacherPreferenceRepo interface {
	ListAll(ctx context.Context) ([]models.TeacherPreference, error)
}

type planRoomRepo interface {
	ListAll(ctx context.Context) ([]models.Room, error)
	ListSubjectAssociations(ctx context.Context) ([]models.RoomSubject, error)
	ListUnavailability(ctx context.Context) ([]models.RoomUnavailability, error)
}

type planStudentRepo interface {
	ListActive(ctx context.Context) ([]models.Student, error)
}

type planStudentGroupRepo interface {
	ListMemberships(ctx context.Context) ([]models.StudentGroupMembership, error)
	ListSubjectEnrollments(ctx context.Context) ([]models.StudentSubjectEnrollment, error)
}

type planCalendarRepo interface {
	List(ctx context.Context, filter models.CalendarFilter) ([]models.CalendarDayRecord, error)
}

type planRunRepo interface {
	CreateVersioned(ctx context.Context, exec sqlx.ExtContext, run *models.PlanningRun) error
	ListByTerm(ctx context.Context, termID string) ([]models.PlanningRunSummary, error)
	FindByID(ctx context.Context, id string) (*models.PlanningRun, error)
	Delete(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, exec sqlx.ExtContext, id string, status models.PlanningRunStatus) error
}

// PlanningService assembles PlanningInput from persisted configuration,
// runs the scheduling engine, and manages the lifecycle of the resulting
// versioned planning runs.
type PlanningService struct {
	subjects     planSubjectRepo
	teachers     planTeacherRepo
	assignments  planTeacherAssignmentRepo
	preferences  planTeacherPreferenceRepo
	rooms        planRoomRepo
	students     planStudentRepo
	studentGrps  planStudentGroupRepo
	calendar     planCalendarRepo
	runs         planRunRepo
	engine       *engine.Engine
	cache        *CacheService
	metrics      *MetricsService
	invalidation *jobs.Queue
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewPlanningService builds a PlanningService. invalidation may be nil,
// in which case cache invalidation after a mutation is skipped rather
// than attempted synchronously.
func NewPlanningService(
	subjects planSubjectRepo,
	teachers planTeacherRepo,
	assignments planTeacherAssignmentRepo,
	preferences planTeacherPreferenceRepo,
	rooms planRoomRepo,
	students planStudentRepo,
	studentGrps planStudentGroupRepo,
	calendar planCalendarRepo,
	runs planRunRepo,
	eng *engine.Engine,
	cache *CacheService,
	metrics *MetricsService,
	invalidation *jobs.Queue,
	validate *validator.Validate,
	logger *zap.Logger,
) *PlanningService {
	if eng == nil {
		eng = engine.New()
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanningService{
		subjects:     subjects,
		teachers:     teachers,
		assignments:  assignments,
		preferences:  preferences,
		rooms:        rooms,
		students:     students,
		studentGrps:  studentGrps,
		calendar:     calendar,
		runs:         runs,
		engine:       eng,
		cache:        cache,
		metrics:      metrics,
		invalidation: invalidation,
		validator:    validate,
		logger:       logger,
	}
}

// assembleInput gathers and decodes every repository source into the
// engine's PlanningInput shape. Weekday labels stored on teacher/room
// preferences are passed through untouched: the engine matches them by
// exact string against whatever raw weekday keys a subject's grid
// carries, so this layer must not re-canonicalize them independently.
func (s *PlanningService) assembleInput(ctx context.Context, termID string) (*models.PlanningInput, error) {
	calendarRecords, err := s.calendar.List(ctx, models.CalendarFilter{TermID: termID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load calendar days")
	}
	if len(calendarRecords) == 0 {
		return nil, appErrors.ErrNoCalendarData
	}
	calendarDays := make([]models.CalendarDay, 0, len(calendarRecords))
	for _, c := range calendarRecords {
		calendarDays = append(calendarDays, models.CalendarDay{
			ISODate:         c.ISODate,
			AssignedWeekday: c.AssignedWeekday,
			Semester:        c.Semester,
		})
	}

	subjectRecords, err := s.subjects.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subjects")
	}
	subjectCodeByID := make(map[string]string, len(subjectRecords))
	subjects := make([]models.Subject, 0, len(subjectRecords))
	for _, rec := range subjectRecords {
		subjectCodeByID[rec.ID] = rec.Code
		subject, err := decodeSubject(rec)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decode subject "+rec.Code)
		}
		subjects = append(subjects, subject)
	}

	teacherRecords, err := s.teachers.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teachers")
	}
	assignmentRecords, err := s.assignments.ListByTerm(ctx, termID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher assignments")
	}
	subjectsByTeacher := make(map[string]map[string]bool, len(teacherRecords))
	for _, a := range assignmentRecords {
		code, ok := subjectCodeByID[a.SubjectID]
		if !ok {
			continue
		}
		if subjectsByTeacher[a.TeacherID] == nil {
			subjectsByTeacher[a.TeacherID] = make(map[string]bool)
		}
		subjectsByTeacher[a.TeacherID][code] = true
	}
	preferenceRecords, err := s.preferences.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher preferences")
	}
	preferenceByTeacher := make(map[string]models.TeacherPreference, len(preferenceRecords))
	for _, p := range preferenceRecords {
		preferenceByTeacher[p.TeacherID] = p
	}
	teachers := make([]models.PlanningTeacher, 0, len(teacherRecords))
	for _, t := range teacherRecords {
		pref, hasPref := preferenceByTeacher[t.ID]
		var prefPtr *models.TeacherPreference
		if hasPref {
			prefPtr = &pref
		}
		pt, err := decodeTeacher(t, subjectsByTeacher[t.ID], prefPtr)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decode teacher preferences for "+t.ID)
		}
		teachers = append(teachers, pt)
	}

	roomRecords, err := s.rooms.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
	}
	roomAssociations, err := s.rooms.ListSubjectAssociations(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room-subject associations")
	}
	subjectsByRoom := make(map[string]map[string]bool, len(roomRecords))
	for _, a := range roomAssociations {
		code, ok := subjectCodeByID[a.SubjectID]
		if !ok {
			continue
		}
		if subjectsByRoom[a.RoomID] == nil {
			subjectsByRoom[a.RoomID] = make(map[string]bool)
		}
		subjectsByRoom[a.RoomID][code] = true
	}
	roomUnavailability, err := s.rooms.ListUnavailability(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room unavailability")
	}
	datesByRoom := make(map[string]map[string]bool, len(roomRecords))
	for _, u := range roomUnavailability {
		if datesByRoom[u.RoomID] == nil {
			datesByRoom[u.RoomID] = make(map[string]bool)
		}
		datesByRoom[u.RoomID][u.Date] = true
	}
	rooms := make([]models.PlanningRoom, 0, len(roomRecords))
	for _, r := range roomRecords {
		rooms = append(rooms, models.PlanningRoom{
			Name:               r.Name,
			Capacity:           r.Capacity,
			Available:          r.Available,
			AssociatedSubjects: subjectsByRoom[r.ID],
			UnavailableDates:   datesByRoom[r.ID],
		})
	}

	studentRecords, err := s.students.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}
	memberships, err := s.studentGrps.ListMemberships(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student group memberships")
	}
	groupsByStudent := make(map[string][]string, len(studentRecords))
	for _, m := range memberships {
		groupsByStudent[m.StudentID] = append(groupsByStudent[m.StudentID], m.GroupCode)
	}
	enrollmentRecords, err := s.studentGrps.ListSubjectEnrollments(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student subject enrollments")
	}
	enrollmentsByStudent := make(map[string]map[string]models.SubjectEnrollment, len(studentRecords))
	for _, e := range enrollmentRecords {
		code, ok := subjectCodeByID[e.SubjectID]
		if !ok {
			continue
		}
		if enrollmentsByStudent[e.StudentID] == nil {
			enrollmentsByStudent[e.StudentID] = make(map[string]models.SubjectEnrollment)
		}
		se := models.SubjectEnrollment{Enrolled: e.Enrolled}
		if e.GroupOverride != nil {
			se.GroupOverride = *e.GroupOverride
		}
		enrollmentsByStudent[e.StudentID][code] = se
	}
	students := make([]models.PlanningStudent, 0, len(studentRecords))
	for _, st := range studentRecords {
		students = append(students, models.PlanningStudent{
			ID:               st.ID,
			GroupMemberships: groupsByStudent[st.ID],
			Enrollments:      enrollmentsByStudent[st.ID],
		})
	}

	return &models.PlanningInput{
		Subjects:     subjects,
		Students:     students,
		Teachers:     teachers,
		Rooms:        rooms,
		CalendarDays: calendarDays,
	}, nil
}

func decodeSubject(rec models.SubjectRecord) (models.Subject, error) {
	var labConfig map[string]models.GroupLabConfig
	if len(rec.LabConfig) > 0 {
		if err := json.Unmarshal(rec.LabConfig, &labConfig); err != nil {
			return models.Subject{}, err
		}
	}
	var raw engine.RawGrid
	if len(rec.Grid) > 0 {
		if err := json.Unmarshal(rec.Grid, &raw); err != nil {
			return models.Subject{}, err
		}
	}
	return models.Subject{
		Code:            rec.Code,
		Name:            rec.Name,
		Semester:        rec.Semester,
		SimpleGroupCode: rec.SimpleGroupCode,
		DualGroupCode:   rec.DualGroupCode,
		LabConfig:       labConfig,
		Grid:            engine.NormalizeGrid(raw),
	}, nil
}

func decodeTeacher(t models.Teacher, subjects map[string]bool, pref *models.TeacherPreference) (models.PlanningTeacher, error) {
	workingDays := map[string]bool{}
	blocked := map[string]map[string]bool{}
	unavailableDates := map[string]bool{}

	if pref != nil {
		var days []string
		if len(pref.WorkingDays) > 0 {
			if err := json.Unmarshal(pref.WorkingDays, &days); err != nil {
				return models.PlanningTeacher{}, err
			}
		}
		for _, d := range days {
			workingDays[d] = true
		}

		var slots []models.TeacherUnavailableSlot
		if len(pref.Unavailable) > 0 {
			if err := json.Unmarshal(pref.Unavailable, &slots); err != nil {
				return models.PlanningTeacher{}, err
			}
		}
		for _, slot := range slots {
			if blocked[slot.DayOfWeek] == nil {
				blocked[slot.DayOfWeek] = map[string]bool{}
			}
			blocked[slot.DayOfWeek][slot.TimeRange] = true
		}

		var dates []string
		if len(pref.UnavailableDates) > 0 {
			if err := json.Unmarshal(pref.UnavailableDates, &dates); err != nil {
				return models.PlanningTeacher{}, err
			}
		}
		for _, d := range dates {
			unavailableDates[d] = true
		}
	}

	return models.PlanningTeacher{
		ID:               t.ID,
		DisplayName:      t.FullName,
		Subjects:         subjects,
		WorkingDays:      workingDays,
		BlockedRanges:    blocked,
		UnavailableDates: unavailableDates,
	}, nil
}

// runEngine assembles input for termID and executes the engine, returning
// the raw result alongside its JSON encoding.
func (s *PlanningService) runEngine(ctx context.Context, termID string) (*models.PlanningResult, types.JSONText, error) {
	input, err := s.assembleInput(ctx, termID)
	if err != nil {
		return nil, nil, err
	}
	start := time.Now()
	result := s.engine.Run(input)
	conflicts := len(result.Conflictos.Profesores) + len(result.Conflictos.Aulas)
	s.metrics.RecordPlanGenerated(conflicts, time.Since(start))

	encoded, err := json.Marshal(result)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode planning result")
	}
	return result, types.JSONText(encoded), nil
}

func cachePreviewKey(termID string) string {
	return "planning:preview:" + termID
}

func invalidationPattern(termID string) string {
	return "planning:*:" + termID + "*"
}

// Generate runs the engine for termID as a preview: nothing is persisted.
func (s *PlanningService) Generate(ctx context.Context, termID string) (*dto.GeneratePlanResponse, error) {
	result, encoded, err := s.runEngine(ctx, termID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, cachePreviewKey(termID), encoded, 0); err != nil {
			s.logger.Warn("failed to cache plan preview", zap.String("term_id", termID), zap.Error(err))
		}
	}
	return &dto.GeneratePlanResponse{
		TermID:        termID,
		ConflictCount: len(result.Conflictos.Profesores) + len(result.Conflictos.Aulas),
		AdvisoryCount: len(result.Avisos),
		Result:        json.RawMessage(encoded),
	}, nil
}

// Create runs the engine for termID and persists the result as a new
// draft version.
func (s *PlanningService) Create(ctx context.Context, termID string) (*dto.PlanningRunView, error) {
	result, encoded, err := s.runEngine(ctx, termID)
	if err != nil {
		return nil, err
	}
	run := &models.PlanningRun{
		TermID:        termID,
		Status:        models.PlanningRunStatusDraft,
		Result:        encoded,
		ConflictCount: len(result.Conflictos.Profesores) + len(result.Conflictos.Aulas),
		AdvisoryCount: len(result.Avisos),
	}
	if err := s.runs.CreateVersioned(ctx, nil, run); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist planning run")
	}
	s.enqueueInvalidation(termID)
	return toPlanningRunView(run), nil
}

// List returns the stored run summaries for a term, newest version first.
func (s *PlanningService) List(ctx context.Context, termID string) ([]dto.PlanningRunSummaryView, error) {
	summaries, err := s.runs.ListByTerm(ctx, termID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list planning runs")
	}
	views := make([]dto.PlanningRunSummaryView, 0, len(summaries))
	for _, sm := range summaries {
		views = append(views, dto.PlanningRunSummaryView{
			ID:            sm.ID,
			TermID:        sm.TermID,
			Version:       sm.Version,
			Status:        sm.Status,
			ConflictCount: sm.ConflictCount,
			AdvisoryCount: sm.AdvisoryCount,
			CreatedAt:     sm.CreatedAt,
		})
	}
	return views, nil
}

// Get loads one stored planning run by ID.
func (s *PlanningService) Get(ctx context.Context, id string) (*dto.PlanningRunView, error) {
	run, err := s.runs.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.ErrPlanNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load planning run")
	}
	return toPlanningRunView(run), nil
}

// Commit transitions a draft planning run to published. Committing
// re-reads and returns the same stored result: publishing never
// recomputes the plan.
func (s *PlanningService) Commit(ctx context.Context, id string) (*dto.PlanningRunView, error) {
	run, err := s.runs.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.ErrPlanNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load planning run")
	}
	if run.Status != models.PlanningRunStatusDraft {
		return nil, appErrors.ErrPlanAlreadyFinal
	}
	if err := s.runs.UpdateStatus(ctx, nil, id, models.PlanningRunStatusPublished); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit planning run")
	}
	run.Status = models.PlanningRunStatusPublished
	s.enqueueInvalidation(run.TermID)
	return toPlanningRunView(run), nil
}

// Delete removes a draft planning run. Published runs cannot be deleted.
func (s *PlanningService) Delete(ctx context.Context, id string) error {
	run, err := s.runs.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.ErrPlanNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load planning run")
	}
	if run.Status != models.PlanningRunStatusDraft {
		return appErrors.ErrPlanAlreadyFinal
	}
	if err := s.runs.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.ErrPlanNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete planning run")
	}
	s.enqueueInvalidation(run.TermID)
	return nil
}

// enqueueInvalidation dispatches cache invalidation for a term's planning
// data asynchronously. Failure to enqueue is logged, never surfaced: a
// stale cache entry self-heals on its TTL.
func (s *PlanningService) enqueueInvalidation(termID string) {
	if s.invalidation == nil {
		return
	}
	job := jobs.Job{Type: "planning.cache-invalidate", Payload: invalidationPattern(termID)}
	if err := s.invalidation.Enqueue(job); err != nil {
		s.logger.Warn("failed to enqueue cache invalidation", zap.String("term_id", termID), zap.Error(err))
	}
}

func toPlanningRunView(run *models.PlanningRun) *dto.PlanningRunView {
	return &dto.PlanningRunView{
		ID:            run.ID,
		TermID:        run.TermID,
		Version:       run.Version,
		Status:        run.Status,
		ConflictCount: run.ConflictCount,
		AdvisoryCount: run.AdvisoryCount,
		Result:        json.RawMessage(run.Result),
		CreatedAt:     run.CreatedAt,
		UpdatedAt:     run.UpdatedAt,
	}
}
