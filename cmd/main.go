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

	"github.com/friendsleague/server/config"
	"github.com/friendsleague/server/db"
	"github.com/friendsleague/server/handlers"
	"github.com/friendsleague/server/live"
	"github.com/friendsleague/server/repositories"
	api "github.com/friendsleague/server/routes"
	"github.com/friendsleague/server/services"
	"github.com/friendsleague/server/steam"
	"github.com/friendsleague/server/storage"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
)

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	// Подключение к базе данных
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

	// Инициализация хранилища медиа (Cloudflare R2)
	if !cfg.R2Configured() {
		logger.Error("incomplete R2 configuration: avatars and covers need object storage")
		os.Exit(1)
	}
	uploader, err := storage.NewR2Uploader(context.Background(), storage.R2Config{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	})
	if err != nil {
		logger.Error("failed to initialize R2 uploader", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("R2 uploader initialized")

	// Инициализация WebSocket Hub
	liveHub := live.NewHub(logger)
	go liveHub.Run()
	logger.Info("live hub started")

	// Инициализация репозиториев
	profileRepo := repositories.NewPostgresProfileRepository(dbConn)
	gameRepo := repositories.NewPostgresGameRepository(dbConn)
	backlogRepo := repositories.NewPostgresBacklogRepository(dbConn)
	competitionRepo := repositories.NewPostgresCompetitionRepository(dbConn)
	participantRepo := repositories.NewPostgresParticipantRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	statsRepo := repositories.NewPostgresStatsRepository(dbConn)
	logger.Info("repositories initialized")

	// Инициализация сервисов
	authService := services.NewAuthService(profileRepo)
	profileService := services.NewProfileService(profileRepo, statsRepo, uploader)
	gameService := services.NewGameService(gameRepo, uploader)
	backlogService := services.NewBacklogService(backlogRepo)
	matchService := services.NewMatchService(matchRepo, competitionRepo, profileRepo, uploader, liveHub)
	competitionService := services.NewCompetitionService(
		dbConn, // для транзакции создания соревнования с участниками
		competitionRepo,
		participantRepo,
		matchRepo,
		gameRepo,
		profileRepo,
		uploader,
		liveHub,
	)
	leaderboardService := services.NewLeaderboardService(statsRepo, profileRepo, uploader)
	logger.Info("services initialized")

	steamClient := steam.NewClient()

	// Инициализация обработчиков HTTP
	authHandler := handlers.NewAuthHandler(authService, cfg.JWTSecretKey)
	profileHandler := handlers.NewProfileHandler(profileService)
	gameHandler := handlers.NewGameHandler(gameService)
	backlogHandler := handlers.NewBacklogHandler(backlogService)
	competitionHandler := handlers.NewCompetitionHandler(competitionService, matchService)
	matchHandler := handlers.NewMatchHandler(matchService)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService)
	steamHandler := handlers.NewSteamHandler(steamClient)
	webSocketHandler := handlers.NewWebSocketHandler(liveHub)
	logger.Info("HTTP handlers initialized")

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		cfg.JWTSecretKey,
		authHandler,
		profileHandler,
		gameHandler,
		backlogHandler,
		competitionHandler,
		matchHandler,
		leaderboardHandler,
		steamHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

	// Настройка и запуск HTTP-сервера
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

	// Ожидание сигнала завершения
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
