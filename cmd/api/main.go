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

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/noah-isme/tutor-center-api/api/swagger"
	"github.com/noah-isme/tutor-center-api/internal/handler"
	"github.com/noah-isme/tutor-center-api/internal/repository"
	"github.com/noah-isme/tutor-center-api/internal/service"
	"github.com/noah-isme/tutor-center-api/pkg/config"
	"github.com/noah-isme/tutor-center-api/pkg/database"
	"github.com/noah-isme/tutor-center-api/pkg/idgen"
	"github.com/noah-isme/tutor-center-api/pkg/logger"
	"github.com/noah-isme/tutor-center-api/pkg/store"
)

// @title Tutor Center API
// @version 1.0.0
// @description Administrative backend for a tutoring center
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	driver, err := database.OpenDriver(ctx, cfg)
	if err != nil {
		logr.Fatal("failed to open collection store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}

	var metrics *service.MetricsService
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
	}
	collections := store.New(driver, logr, metrics)
	defer func() {
		if err := collections.Close(); err != nil {
			logr.Warn("failed to close collection store", zap.Error(err))
		}
	}()
	if err := repository.EnsureCollections(ctx, collections); err != nil {
		logr.Fatal("failed to initialise collections", zap.Error(err))
	}

	teachers := repository.NewTeacherRepository(collections)
	students := repository.NewStudentRepository(collections)
	groups := repository.NewGroupRepository(collections)
	payments := repository.NewPaymentRepository(collections)
	tasks := repository.NewTaskRepository(collections)
	companies := repository.NewCompanyRepository(collections)
	branches := repository.NewBranchRepository(collections)
	users := repository.NewUserRepository(collections)

	opts := service.Options{
		Locker: collections,
		IDs:    idgen.NewMonotonic(time.Now),
		Logger: logr,
	}
	authSvc := service.NewAuthService(users, students, teachers, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	}, opts)
	var rosterObserver service.RosterObserver
	if metrics != nil {
		rosterObserver = metrics
	}
	groupSvc := service.NewGroupService(groups, students, teachers, rosterObserver, opts)
	paymentSvc := service.NewPaymentService(payments, students, opts)
	stats := service.NewStatsService(students, teachers, groups, payments)

	boot := cfg.Bootstrap
	if created, err := authSvc.EnsureAdmin(ctx, boot.AdminUsername, boot.AdminPassword, boot.AdminName); err != nil {
		logr.Fatal("failed to bootstrap admin account", zap.Error(err))
	} else if created {
		logr.Info("admin account created", zap.String("username", boot.AdminUsername))
	}

	routerCfg := handler.RouterConfig{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		EnforceAuth:    cfg.Auth.Enforce,
		ServeDocs:      cfg.Env != config.EnvProduction,
		Logger:         logr,
		Tokens:         authSvc,
	}
	var metricsHandler http.Handler
	if metrics != nil {
		routerCfg.Requests = metrics
		metricsHandler = metrics.Handler()
	}

	router := handler.NewRouter(routerCfg, handler.Handlers{
		Auth:     handler.NewAuthHandler(authSvc),
		Users:    handler.NewUserHandler(service.NewUserService(users, opts)),
		Teachers: handler.NewTeacherHandler(service.NewTeacherService(teachers, opts)),
		Students: handler.NewStudentHandler(service.NewStudentService(students, groups, opts), groupSvc),
		Groups:   handler.NewGroupHandler(groupSvc),
		Payments: handler.NewPaymentHandler(paymentSvc, service.NewExportService(paymentSvc, nil, opts)),
		Tasks:    handler.NewTaskHandler(service.NewTaskService(tasks, groups, teachers, opts)),
		Company: handler.NewCompanyHandler(
			service.NewCompanyService(companies, branches, opts),
			service.NewBranchService(branches, companies, users, stats, opts),
		),
		System: handler.NewSystemHandler(service.NewSystemService(collections, metrics, repository.AllCollections), metricsHandler),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "store", collections.Driver())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
}
