package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/atlashq/erp-core/internal/access"
	"github.com/atlashq/erp-core/internal/approval"
	"github.com/atlashq/erp-core/internal/cache"
	"github.com/atlashq/erp-core/internal/config"
	"github.com/atlashq/erp-core/internal/funnel"
	"github.com/atlashq/erp-core/internal/repository"
	"github.com/atlashq/erp-core/internal/server"
	"github.com/atlashq/erp-core/pkg/database"
	"github.com/atlashq/erp-core/pkg/utils"
)

func main() {
	_ = gotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting ERP core service",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Repositories
	userRepo := repository.NewUserRepository(db.DB, logger)
	employeeRepo := repository.NewEmployeeRepository(db.DB, logger)
	leadRepo := repository.NewLeadRepository(db.DB, logger)
	artifactRepo := repository.NewArtifactRepository(db.DB, logger)
	approvalRepo := repository.NewApprovalRepository(db.DB, logger)

	// Principal cache: injected everywhere, never global state
	principalCache := cache.New(cfg.Cache.TTL, cfg.Cache.MaxEntries)

	// Core services
	resolver := access.NewResolver(employeeRepo, logger)
	tracker := funnel.NewTracker(leadRepo, artifactRepo, logger)
	approvalService := approval.NewService(db, approvalRepo, employeeRepo, userRepo, principalCache, logger)

	srv := server.New(
		server.Config{
			Host:            cfg.Server.Host,
			Port:            cfg.Server.Port,
			ReadTimeout:     cfg.Server.ReadTimeout,
			WriteTimeout:    cfg.Server.WriteTimeout,
			PrincipalHeader: cfg.Auth.PrincipalHeader,
			Debug:           cfg.Logger.Level == "debug",
		},
		userRepo,
		employeeRepo,
		leadRepo,
		artifactRepo,
		resolver,
		tracker,
		approvalService,
		principalCache,
		logger,
	)

	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}
