package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/masters-arena/arena-server/access"
	"github.com/masters-arena/arena-server/config"
	"github.com/masters-arena/arena-server/db"
	"github.com/masters-arena/arena-server/handlers"
	"github.com/masters-arena/arena-server/middleware"
	"github.com/masters-arena/arena-server/realtime"
	"github.com/masters-arena/arena-server/repositories"
	api "github.com/masters-arena/arena-server/routes"
	"github.com/masters-arena/arena-server/services"
	"github.com/masters-arena/arena-server/session"
	"github.com/masters-arena/arena-server/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	uploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	})
	if err != nil {
		logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Cloudflare R2 uploader initialized")

	hub := realtime.NewHub(logger)
	go hub.Run()
	logger.Info("realtime hub started")

	if err := os.MkdirAll(cfg.SessionDir, 0o700); err != nil {
		logger.Error("failed to create session directory", slog.Any("error", err))
		os.Exit(1)
	}
	// Clearing a lock pushes a forced reload to that visitor's open
	// views through their personal room.
	locks := session.NewManager(cfg.SessionDir, func(userID int) {
		hub.Broadcast(realtime.UserRoom(userID), realtime.Message{Type: realtime.EventSessionReset})
	})
	logger.Info("session lock manager initialized", slog.String("dir", cfg.SessionDir))

	profileRepo := repositories.NewPostgresProfileRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	leaderboardRepo := repositories.NewPostgresLeaderboardRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	voteRepo := repositories.NewPostgresVoteRepository(dbConn)
	statRepo := repositories.NewPostgresStatRepository(dbConn)
	logger.Info("repositories initialized")

	authService := services.NewAuthService(profileRepo, cfg.JWTSecretKey)
	roleSource := services.NewProfileRoleSource(profileRepo)
	userService := services.NewUserService(profileRepo, uploader)
	tournamentService := services.NewTournamentService(tournamentRepo, locks)
	leaderboardService := services.NewLeaderboardService(leaderboardRepo, statRepo, locks)
	teamService := services.NewTeamService(dbConn, teamRepo, matchRepo, tournamentRepo)
	matchService := services.NewMatchService(matchRepo, teamRepo, tournamentRepo, hub)
	voteService := services.NewVoteService(voteRepo, matchRepo)
	bracketService := services.NewBracketService(tournamentRepo, teamRepo, matchRepo)
	joinService := services.NewJoinService(tournamentRepo, leaderboardRepo, locks)
	sessionService := services.NewSessionService(locks)
	logger.Info("services initialized")

	gatekeeper := &middleware.Gatekeeper{
		Auth:     authService,
		Roles:    roleSource,
		EntryURL: cfg.PublicEntryURL,
	}

	authHandler := handlers.NewAuthHandler(authService, hub)
	userHandler := handlers.NewUserHandler(userService)
	joinHandler := handlers.NewJoinHandler(joinService, sessionService)
	adminHandler := handlers.NewAdminHandler(&access.AdminRouter{Locks: locks})
	tournamentHandler := handlers.NewTournamentHandler(tournamentService, bracketService)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService)
	teamHandler := handlers.NewTeamHandler(teamService)
	matchHandler := handlers.NewMatchHandler(matchService)
	voteHandler := handlers.NewVoteHandler(voteService)
	webSocketHandler := handlers.NewWebSocketHandler(hub, tournamentService, logger)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		gatekeeper,
		authHandler,
		userHandler,
		joinHandler,
		adminHandler,
		tournamentHandler,
		leaderboardHandler,
		teamHandler,
		matchHandler,
		voteHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
