package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"event_org/internal/audit"
	"event_org/internal/auth"
	"event_org/internal/config"
	"event_org/internal/db"
	httpserver "event_org/internal/http"
	"event_org/internal/http/handlers"
	"event_org/internal/memstore"
	"event_org/internal/repository"
	"event_org/internal/seed"
	"event_org/internal/telemetry"
)

// gateway is everything the repositories, the audit trail and the seeder
// need from persistence.
type gateway interface {
	repository.OrganizationStore
	repository.UserStore
	repository.EventStore
	repository.AuditStore
	seed.Store
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}

	logger, err := telemetry.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if !cfg.EnvFileLoaded {
		logger.Info(".env file not found, using system environment variables")
	}

	store, closeStore, err := openStore(cfg, logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer closeStore()

	ctx := context.Background()
	if err := seed.FirstSetup(ctx, store, seed.Admin{
		Email:    cfg.SeedAdminEmail,
		Username: cfg.SeedAdminUsername,
		Password: cfg.SeedAdminPassword,
	}, logger.Named("seed")); err != nil {
		logger.Fatal("seed", zap.Error(err))
	}

	users := repository.NewUserRepository(store)
	deps := &handlers.Deps{
		Orgs:      repository.NewOrganizationRepository(store, store),
		Users:     users,
		Events:    repository.NewEventRepository(store, store, store),
		AuditLogs: store,
		Audit:     audit.NewRecorder(store, logger.Named("audit")),
		Tokens:    auth.NewTokens(cfg.JWTSecret, cfg.JWTExpiry),
		Log:       logger,
	}

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpserver.NewRouter(deps, httpserver.RouterConfig{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})
	srv := httpserver.NewServer(":"+cfg.AppPort, router, cfg.ReadTimeout, cfg.WriteTimeout, logger)

	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr), zap.String("driver", cfg.DBDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func openStore(cfg config.Config, logger *zap.Logger) (gateway, func(), error) {
	if cfg.DBDriver == config.DriverMemory {
		logger.Warn("using in-memory store, data is lost on restart")
		return memstore.New(), func() {}, nil
	}

	gdb, err := db.Connect(db.Options{
		DSN:             cfg.DSN,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, nil, err
	}
	if err := db.AutoMigrate(gdb); err != nil {
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}

	closeFn := func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return db.NewStore(gdb), closeFn, nil
}
