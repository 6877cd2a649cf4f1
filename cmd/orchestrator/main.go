package main

import (
	"context"
	"database/sql"
	"flag"
	"os/signal"
	"strconv"
	"syscall"

	"coursehub/internal/config"
	"coursehub/internal/logger"
	"coursehub/internal/orchestrator/backfill"
	"coursehub/internal/orchestrator/reconcile"
	"coursehub/internal/pgmq"
	"coursehub/internal/repository"
	"coursehub/internal/service"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

func main() {
	// Parse mode flag
	mode := flag.String("mode", "", "Orchestrator mode: reconcile|embedding")
	flag.Parse()

	// Initialize logger
	logger := logger.New()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("Warning: no .env file found")
	}

	// Load config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Msgf("Error loading config: %v", err)
	}

	// Initialize DB connection
	dsn := "host=" + cfg.DBHost +
		" port=" + strconv.Itoa(cfg.DBPort) +
		" user=" + cfg.DBUser +
		" password=" + cfg.DBPassword +
		" dbname=" + cfg.DBName +
		" sslmode=disable"
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		logger.Fatal().Msgf("Failed to open DB connection: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatal().Msgf("Failed to ping DB: %v", err)
	}
	logger.Info().Msg("Database connection established")

	// Initialize PGMQ client
	pgmqClient := pgmq.New(db)
	logger.Info().Msg("PGMQ client initialized")

	courseRepo := repository.NewCourseRepo(db, logger)

	// Set up context with graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Dispatch to the selected orchestrator
	var runErr error
	switch *mode {
	case "reconcile":
		runErr = reconcile.Run(ctx, logger, pgmqClient, cfg, courseRepo)
	case "embedding":
		geminiAPIKey := cfg.GeminiAPIKey
		if geminiAPIKey == "" {
			secrets, err := service.NewSecretManagerService(ctx, cfg)
			if err != nil {
				logger.Fatal().Msgf("Failed to create Secret Manager client: %v", err)
			}
			geminiAPIKey, err = secrets.GetProviderAPIKey(ctx, cfg.GeminiAPIKeySecret)
			if err != nil {
				logger.Fatal().Msgf("Failed to resolve AI provider key: %v", err)
			}
		}
		embedder := service.NewGeminiEmbeddingClient(cfg.GeminiBaseURL, geminiAPIKey, cfg.EmbeddingModel, logger)
		runErr = backfill.Run(ctx, logger, pgmqClient, cfg, courseRepo, embedder)
	default:
		logger.Fatal().Msgf("Invalid mode: %s", *mode)
	}

	if runErr != nil {
		logger.Fatal().Msgf("%s orchestrator failed: %v", *mode, runErr)
	}

	logger.Info().Msgf("%s orchestrator stopped gracefully", *mode)
}
