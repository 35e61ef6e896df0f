package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/noah-isme/school-records-api/api/swagger"
	"github.com/noah-isme/school-records-api/internal/handler"
	"github.com/noah-isme/school-records-api/internal/middleware"
	"github.com/noah-isme/school-records-api/internal/models"
	"github.com/noah-isme/school-records-api/internal/repository"
	"github.com/noah-isme/school-records-api/internal/router"
	"github.com/noah-isme/school-records-api/internal/service"
	"github.com/noah-isme/school-records-api/pkg/cache"
	"github.com/noah-isme/school-records-api/pkg/config"
	"github.com/noah-isme/school-records-api/pkg/database"
	"github.com/noah-isme/school-records-api/pkg/logger"
	"github.com/noah-isme/school-records-api/pkg/validation"
)

// @title School Records API
// @version 1.0.0
// @description REST API for school records: roles, grades, subjects, users, students, teachers, grade records and teaching assignments.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	if err := run(cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	if cfg.Database.AutoMigrate {
		version, err := database.MigrateUp(cfg.Database)
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logr.Info("database migrated", zap.Uint("version", version))
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		return err
	}
	sessions := repository.NewSessionRepository(redisClient)
	defer sessions.Close() //nolint:errcheck
	if !sessions.Enabled() {
		logr.Warn("redis disabled; login throttling and token revocation are off")
	}

	var (
		metrics  *service.MetricsService
		queries  repository.QueryObserver
		requests middleware.RequestObserver
	)
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
		queries, requests = metrics, metrics
		if err := metrics.RegisterDB(db.DB, cfg.Database.Name); err != nil {
			logr.Warn("failed to register db stats collector", zap.Error(err))
		}
	}

	roles := repository.NewEntityRepository[models.Role](db, repository.Roles, queries)
	grades := repository.NewEntityRepository[models.Grade](db, repository.Grades, queries)
	subjects := repository.NewEntityRepository[models.Subject](db, repository.Subjects, queries)
	users := repository.NewUserRepository(db, queries)
	students := repository.NewEntityRepository[models.Student](db, repository.Students, queries)
	teachers := repository.NewEntityRepository[models.Teacher](db, repository.Teachers, queries)
	gradeRecords := repository.NewGradeRecordRepository(db, queries)
	teacherSubjects := repository.NewEntityRepository[models.TeacherSubject](db, repository.TeacherSubjects, queries)
	teacherGrades := repository.NewEntityRepository[models.TeacherGrade](db, repository.TeacherGrades, queries)
	gradeSubjects := repository.NewEntityRepository[models.GradeSubject](db, repository.GradeSubjects, queries)
	assignments := repository.NewStudentTeacherSubjectRepository(db, queries)

	validate := validation.New()

	authSvc := service.NewAuthService(users, sessions, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
		MaxLoginAttempts:  cfg.Auth.LoginMaxAttempts,
		AttemptWindow:     cfg.Auth.LoginAttemptWindow,
	})
	if metrics != nil {
		authSvc.WithLoginObserver(metrics)
	}

	handlers := &router.Handlers{
		Auth:    handler.NewAuthHandler(authSvc),
		Metrics: handler.NewMetricsHandler(metrics, db),

		Roles:        handler.NewRoleHandler(service.NewRoleService(roles, validate, logr)),
		Grades:       handler.NewGradeHandler(service.NewGradeService(grades, validate, logr)),
		Subjects:     handler.NewSubjectHandler(service.NewSubjectService(subjects, validate, logr)),
		Users:        handler.NewUserHandler(service.NewUserService(users, roles, validate, logr)),
		Students:     handler.NewStudentHandler(service.NewStudentService(students, users, grades, validate, logr)),
		Teachers:     handler.NewTeacherHandler(service.NewTeacherService(teachers, users, validate, logr)),
		GradeRecords: handler.NewGradeRecordHandler(service.NewGradeRecordService(gradeRecords, students, subjects, grades, validate, logr)),
		TeacherSubjects: handler.NewTeacherSubjectHandler(
			service.NewTeacherSubjectService(teacherSubjects, teachers, subjects, validate, logr)),
		TeacherGrades: handler.NewTeacherGradeHandler(
			service.NewTeacherGradeService(teacherGrades, teachers, grades, validate, logr)),
		GradeSubjects: handler.NewGradeSubjectHandler(
			service.NewGradeSubjectService(gradeSubjects, grades, subjects, validate, logr)),
		Assignments: handler.NewStudentTeacherSubjectHandler(
			service.NewStudentTeacherSubjectService(assignments, students, teachers, subjects, grades, validate, logr)),
	}

	engine := router.Setup(cfg, logr, handlers, authSvc, requests)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "prefix", cfg.APIPrefix)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		_ = srv.Close()
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
