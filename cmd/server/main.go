package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cau-24swe-team14/ITS-BE/internal/config"
	httpapi "github.com/cau-24swe-team14/ITS-BE/internal/http"
	"github.com/cau-24swe-team14/ITS-BE/internal/logging"
	"github.com/cau-24swe-team14/ITS-BE/internal/random"
	"github.com/cau-24swe-team14/ITS-BE/internal/repository/postgres"
	"github.com/cau-24swe-team14/ITS-BE/internal/server"
	"github.com/cau-24swe-team14/ITS-BE/internal/service"
	"github.com/cau-24swe-team14/ITS-BE/internal/storage"
)

func main() {
	// Load config
	cfg, err := config.Load()

	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Init logger
	logger := logging.NewLogger(cfg.Env)
	logger.Info("starting service", "env", cfg.Env)

	// Init DB
	db, err := postgres.NewDB(cfg.DB)

	if err != nil {
		logger.Error("failed to connect to db", "err", err)
		os.Exit(1)
	}

	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close db", "err", err)
		}
	}()

	// Run migrations
	if err := storage.RunMigrations(db, "migrations"); err != nil {
		logger.Error("failed to run migrations", "err", err)
		os.Exit(1)
	}

	// Repositories
	accountRepo := postgres.NewAccountRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	projectRepo := postgres.NewProjectRepository(db)
	membershipRepo := postgres.NewMembershipRepository(db)
	issueRepo := postgres.NewIssueRepository(db)
	commentRepo := postgres.NewCommentRepository(db)

	// Random source
	randSource := random.NewCryptoRand()

	// Services
	userSvc := service.NewUserService(accountRepo)
	sessionSvc := service.NewSessionService(sessionRepo, accountRepo, cfg.Auth.SessionTTL)
	projectSvc := service.NewProjectService(projectRepo, membershipRepo, accountRepo, issueRepo)
	issueSvc := service.NewIssueService(issueRepo, membershipRepo, accountRepo, commentRepo, randSource)
	trendSvc := service.NewTrendService(issueRepo, commentRepo, membershipRepo)

	// Seed admin account
	if err := userSvc.EnsureAdmin(context.Background(), cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
		logger.Error("failed to ensure admin account", "err", err)
		os.Exit(1)
	}

	// HTTP router
	router := httpapi.NewRouter(userSvc, sessionSvc, projectSvc, issueSvc, trendSvc, cfg.HTTP.CORSOrigin, logger)

	// HTTP server
	httpServer := server.NewHTTPServer(cfg.HTTP, router, logger)

	// Graceful shutdown
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Error("http server error", "err", err)
		}
	}()

	logger.Info("server started", "addr", cfg.HTTP.Addr())

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	logger.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)

	} else {
		logger.Info("server stopped gracefully")
	}
}
