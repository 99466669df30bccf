package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/opticampus/lab-scheduler/api/swagger"
	"github.com/opticampus/lab-scheduler/internal/engine"
	internalhandler "github.com/opticampus/lab-scheduler/internal/handler"
	internalmiddleware "github.com/opticampus/lab-scheduler/internal/middleware"
	"github.com/opticampus/lab-scheduler/internal/models"
	"github.com/opticampus/lab-scheduler/internal/repository"
	"github.com/opticampus/lab-scheduler/internal/service"
	"github.com/opticampus/lab-scheduler/pkg/cache"
	"github.com/opticampus/lab-scheduler/pkg/config"
	"github.com/opticampus/lab-scheduler/pkg/database"
	"github.com/opticampus/lab-scheduler/pkg/jobs"
	"github.com/opticampus/lab-scheduler/pkg/logger"
	corsmiddleware "github.com/opticampus/lab-scheduler/pkg/middleware/cors"
	reqidmiddleware "github.com/opticampus/lab-scheduler/pkg/middleware/requestid"
)

// @title Lab Scheduler API
// @version 1.0.0
// @description Laboratory scheduling engine and configuration API
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metricsSvc := service.NewMetricsService()
	metricsHandler := internalhandler.NewMetricsHandler(metricsSvc)

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to initialise database", "error", err)
	}
	defer db.Close()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	userRepo := repository.NewUserRepository(db)
	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "lab-scheduler",
		Audience:           []string{"lab-scheduler-clients"},
	})
	authHandler := internalhandler.NewAuthHandler(authSvc)

	authRoutes := api.Group("/auth")
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.Refresh)
	authRoutes.POST("/forgot-password", authHandler.ForgotPassword)
	authRoutes.POST("/reset-password", authHandler.ResetPassword)
	protectedAuth := authRoutes.Group("")
	protectedAuth.Use(internalmiddleware.JWT(authSvc))
	protectedAuth.GET("/me", authHandler.Me)
	protectedAuth.POST("/logout", authHandler.Logout)
	protectedAuth.POST("/change-password", authHandler.ChangePassword)

	classRepo := repository.NewClassRepository(db)
	classSubjectRepo := repository.NewClassSubjectRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	termRepo := repository.NewTermRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	teacherAssignmentRepo := repository.NewTeacherAssignmentRepository(db)
	teacherPreferenceRepo := repository.NewTeacherPreferenceRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	studentGroupRepo := repository.NewStudentGroupRepository(db)
	calendarRepo := repository.NewCalendarRepository(db)
	planningRunRepo := repository.NewPlanningRunRepository(db)

	classSvc := service.NewClassService(classRepo, subjectRepo, classSubjectRepo, nil, logr)
	classHandler := internalhandler.NewClassHandler(classSvc)
	classSubjectHandler := internalhandler.NewClassSubjectHandler(classSvc)

	subjectSvc := service.NewSubjectService(subjectRepo, nil, logr)
	subjectHandler := internalhandler.NewSubjectHandler(subjectSvc)

	termSvc := service.NewTermService(termRepo, nil, logr)
	termHandler := internalhandler.NewTermHandler(termSvc)

	studentSvc := service.NewStudentService(studentRepo, nil, logr)
	studentHandler := internalhandler.NewStudentHandler(studentSvc)

	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, studentRepo, classRepo, termRepo, nil, logr)
	enrollmentHandler := internalhandler.NewEnrollmentHandler(enrollmentSvc)

	teacherSvc := service.NewTeacherService(teacherRepo, nil, logr)
	teacherAssignmentSvc := service.NewTeacherAssignmentService(
		teacherRepo,
		classRepo,
		subjectRepo,
		termRepo,
		teacherAssignmentRepo,
		nil,
		teacherPreferenceRepo,
		nil,
		logr,
	)
	teacherPreferenceSvc := service.NewTeacherPreferenceService(teacherRepo, teacherPreferenceRepo, nil, logr)
	teacherHandler := internalhandler.NewTeacherHandler(teacherSvc, teacherAssignmentSvc, teacherPreferenceSvc)
	schedulePreferenceHandler := internalhandler.NewSchedulePreferenceHandler(teacherPreferenceSvc)

	var cacheRepo service.CacheRepository
	if cfg.Scheduler.Enabled {
		if client, err := cache.NewRedis(cfg.Redis); err != nil {
			logr.Sugar().Warnw("planning cache disabled", "error", err)
		} else {
			defer client.Close() //nolint:errcheck
			cacheRepo = repository.NewCacheRepository(client, logr)
		}
	}
	planCache := service.NewCacheService(cacheRepo, metricsSvc, cfg.Scheduler.ProposalTTL, logr, cacheRepo != nil)

	var invalidationQueue *jobs.Queue
	queueCtx, cancelQueue := context.WithCancel(context.Background())
	defer cancelQueue()
	if cfg.Scheduler.Enabled {
		workers := cfg.Scheduler.WorkerConcurrency
		if workers <= 0 {
			workers = 1
		}
		handler := func(ctx context.Context, job jobs.Job) error {
			pattern, _ := job.Payload.(string)
			if pattern == "" {
				return nil
			}
			return planCache.Invalidate(ctx, pattern)
		}
		invalidationQueue = jobs.NewQueue("planning-cache-invalidation", handler, jobs.QueueConfig{
			Workers:    workers,
			BufferSize: workers * 4,
			MaxRetries: cfg.Scheduler.WorkerRetries,
			RetryDelay: 5 * time.Second,
			Logger:     logr,
		})
		invalidationQueue.Start(queueCtx)
		defer invalidationQueue.Stop()
	}

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
		engine.New(engine.WithClock(time.Now)),
		planCache,
		metricsSvc,
		invalidationQueue,
		nil,
		logr,
	)
	planningHandler := internalhandler.NewPlanningHandler(planningSvc)

	secured := api.Group("")
	secured.Use(internalmiddleware.JWT(authSvc))

	classesGroup := secured.Group("/classes")
	classesGroup.GET("", internalmiddleware.RBAC(string(models.RoleTeacher), string(models.RoleAdmin), string(models.RoleSuperAdmin)), classHandler.List)
	classesGroup.POST("", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleSuperAdmin)), classHandler.Create)
	classesGroup.GET("/:id", internalmiddleware.RBAC(string(models.RoleTeacher), string(models.RoleAdmin), string(models.RoleSuperAdmin)), classHandler.Get)
	classesGroup.PUT("/:id", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleSuperAdmin)), classHandler.Update)
	classesGroup.DELETE("/:id", internalmiddleware.RBAC(string(models.RoleSuperAdmin)), classHandler.Delete)
	classesGroup.GET("/:id/subjects", internalmiddleware.RBAC(string(models.RoleTeacher), string(models.RoleAdmin), string(models.RoleSuperAdmin)), classSubjectHandler.List)
	classesGroup.PUT("/:id/subjects", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleSuperAdmin)), classSubjectHandler.Assign)

	subjectsGroup := secured.Group("/subjects")
	subjectsGroup.GET("", internalmiddleware.RBAC(string(models.RoleTeacher), string(models.RoleAdmin), string(models.RoleSuperAdmin)), subjectHandler.List)
	subjectsGroup.POST("", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleSuperAdmin)), subjectHandler.Create)
	subjectsGroup.GET("/:id", internalmiddleware.RBAC(string(models.RoleTeacher), string(models.RoleAdmin), string(models.RoleSuperAdmin)), subjectHandler.Get)
	subjectsGroup.PUT("/:id", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleSuperAdmin)), subjectHandler.Update)
	subjectsGroup.DELETE("/:id", internalmiddleware.RBAC(string(models.RoleSuperAdmin)), subjectHandler.Delete)

	termsGroup := secured.Group("/terms")
	termsGroup.GET("", internalmiddleware.RBAC(string(models.RoleTeacher), string(models.RoleAdmin), string(models.RoleSuperAdmin)), termHandler.List)
	termsGroup.GET("/active", internalmiddleware.RBAC(string(models.RoleTeacher), string(models.RoleAdmin), string(models.RoleSuperAdmin)), termHandler.GetActive)
	termsGroup.POST("", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleSuperAdmin)), termHandler.Create)
	termsGroup.PUT("/:id", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleSuperAdmin)), termHandler.Update)
	termsGroup.POST("/:id/activate", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleSuperAdmin)), termHandler.SetActive)
	termsGroup.DELETE("/:id", internalmiddleware.RBAC(string(models.RoleSuperAdmin)), termHandler.Delete)

	studentsGroup := secured.Group("/students")
	studentsGroup.GET("", internalmiddleware.RBAC(string(models.RoleTeacher), string(models.RoleAdmin), string(models.RoleSuperAdmin)), studentHandler.List)
	studentsGroup.POST("", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleSuperAdmin)), studentHandler.Create)
	studentsGroup.GET("/:id", internalmiddleware.RBAC(string(models.RoleTeacher), string(models.RoleAdmin), string(models.RoleSuperAdmin)), studentHandler.Get)
	studentsGroup.PUT("/:id", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleSuperAdmin)), studentHandler.Update)
	studentsGroup.DELETE("/:id", internalmiddleware.RBAC(string(models.RoleSuperAdmin)), studentHandler.Delete)

	enrollmentsGroup := secured.Group("/enrollments")
	enrollmentsGroup.GET("", internalmiddleware.RBAC(string(models.RoleTeacher), string(models.RoleAdmin), string(models.RoleSuperAdmin)), enrollmentHandler.List)
	enrollmentsGroup.POST("", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleSuperAdmin)), enrollmentHandler.Create)
	enrollmentsGroup.PUT("/:id/transfer", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleSuperAdmin)), enrollmentHandler.Transfer)
	enrollmentsGroup.DELETE("/:id", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleSuperAdmin)), enrollmentHandler.Delete)

	teachersGroup := secured.Group("/teachers")
	teachersGroup.GET("", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleSuperAdmin)), teacherHandler.List)
	teachersGroup.POST("", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleSuperAdmin)), teacherHandler.Create)
	teachersGroup.GET("/:id", internalmiddleware.RBAC("SELF", string(models.RoleAdmin), string(models.RoleSuperAdmin)), teacherHandler.Get)
	teachersGroup.PUT("/:id", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleSuperAdmin)), teacherHandler.Update)
	teachersGroup.DELETE("/:id", internalmiddleware.RBAC(string(models.RoleSuperAdmin)), teacherHandler.Delete)
	teachersGroup.GET("/:id/assignments", internalmiddleware.RBAC("SELF", string(models.RoleAdmin), string(models.RoleSuperAdmin)), teacherHandler.ListAssignments)
	teachersGroup.POST("/:id/assignments", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleSuperAdmin)), teacherHandler.CreateAssignment)
	teachersGroup.DELETE("/:id/assignments/:aid", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleSuperAdmin)), teacherHandler.DeleteAssignment)
	teachersGroup.GET("/:id/preferences", internalmiddleware.RBAC("SELF", string(models.RoleAdmin), string(models.RoleSuperAdmin)), teacherHandler.GetPreferences)
	teachersGroup.PUT("/:id/preferences", internalmiddleware.RBAC("SELF", string(models.RoleAdmin), string(models.RoleSuperAdmin)), teacherHandler.UpsertPreferences)

	schedulesGroup := secured.Group("/schedules")
	schedulesGroup.GET("/preferences", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleSuperAdmin)), schedulePreferenceHandler.Get)
	schedulesGroup.POST("/preferences", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleSuperAdmin)), schedulePreferenceHandler.Upsert)

	plansGroup := secured.Group("/plans")
	plansGroup.Use(internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleSuperAdmin)))
	plansGroup.POST("/generate", planningHandler.Generate)
	plansGroup.POST("", planningHandler.Create)
	plansGroup.GET("", planningHandler.List)
	plansGroup.GET("/:id", planningHandler.Get)
	plansGroup.POST("/:id/commit", planningHandler.Commit)
	plansGroup.DELETE("/:id", planningHandler.Delete)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
