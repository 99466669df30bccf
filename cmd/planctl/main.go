// Command planctl runs the scheduling engine in-process against the
// active (or a named) configuration snapshot, without going through the
// HTTP API. It prints a one-line summary and exits 0 on success, 1 if the
// configuration could not be read.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/opticampus/lab-scheduler/internal/engine"
	"github.com/opticampus/lab-scheduler/internal/repository"
	"github.com/opticampus/lab-scheduler/internal/service"
	"github.com/opticampus/lab-scheduler/pkg/config"
	"github.com/opticampus/lab-scheduler/pkg/database"
	"github.com/opticampus/lab-scheduler/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	termID := flag.String("term", "", "term (config snapshot) ID to plan; defaults to the active term")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] failed to load config: %v\n", err)
		return 1
	}

	logr, err := logger.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] failed to init logger: %v\n", err)
		return 1
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] missing or unreadable configuration: %v\n", err)
		return 1
	}
	defer db.Close()

	ctx := context.Background()

	termRepo := repository.NewTermRepository(db)
	termSvc := service.NewTermService(termRepo, nil, logr)

	resolvedTermID := *termID
	if resolvedTermID == "" {
		active, err := termSvc.GetActive(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "[ERROR] missing or unreadable configuration: no active term and none given: %v\n", err)
			return 1
		}
		resolvedTermID = active.ID
	}

	subjectRepo := repository.NewSubjectRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	teacherAssignmentRepo := repository.NewTeacherAssignmentRepository(db)
	teacherPreferenceRepo := repository.NewTeacherPreferenceRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	studentGroupRepo := repository.NewStudentGroupRepository(db)
	calendarRepo := repository.NewCalendarRepository(db)
	planningRunRepo := repository.NewPlanningRunRepository(db)

	planningSvc := service.NewPlanningService(
		subjectRepo,
		teacherRepo,
		teacherAssignmentRepo,
		teacherPreferenceRepo,
		roomRepo,
		studentRepo,
		studentGroupRepo,
		calendarRepo,
		planningRunRepo,
		engine.New(),
		nil,
		nil,
		nil,
		nil,
		logr,
	)

	result, err := planningSvc.Generate(ctx, resolvedTermID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] missing or unreadable configuration: %v\n", err)
		return 1
	}

	fmt.Printf("[OK] term=%s conflicts=%d advisories=%d\n", resolvedTermID, result.ConflictCount, result.AdvisoryCount)
	return 0
}
