package router

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"coursehub/internal/api/v1/handler"
	"coursehub/internal/config"
	"coursehub/internal/middleware"
	"coursehub/internal/pubsub"
	"coursehub/internal/repository"
	"coursehub/internal/service"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awsmiddleware "github.com/aws/smithy-go/middleware"
	"github.com/go-playground/validator/v10"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

func New(cfg *config.Config, logger zerolog.Logger) (http.Handler, *sql.DB, error) {
	logger.Info().Str("environment", cfg.Environment).Msg("Router initializing")

	// 1. Open DB connection (connection pooling)
	dsn := BuildDSN(cfg)

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		logger.Error().Msgf("Failed to open DB connection: %v", err)
		return nil, nil, err
	}

	// Ping the database to ensure connection is valid
	if err := db.Ping(); err != nil {
		logger.Error().Msgf("Failed to ping DB: %v", err)
		return nil, nil, err
	}
	logger.Info().Msg("Database connection successful")

	// Set reasonable connection pool limits
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxIdleTime(5 * time.Minute)

	// 2. Initialize S3 client
	s3Config, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")),
		awsconfig.WithAPIOptions([]func(*awsmiddleware.Stack) error{removeDisableGzip()}),
	)
	if err != nil {
		logger.Error().Msgf("Failed to load S3 config: %v", err)
		return nil, nil, err
	}
	s3Client := s3.NewFromConfig(s3Config, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3URL)
		o.UsePathStyle = true
	})

	// 3. Initialize validator
	validate := validator.New(validator.WithRequiredStructEnabled())

	// 4. Initialize Pub/Sub publisher
	pubSubPublisher, err := pubsub.NewPublisher(context.Background(), cfg)
	if err != nil {
		logger.Error().Msgf("Failed to create Pub/Sub publisher: %v", err)
		return nil, nil, err
	}

	// 5. Resolve the AI provider key. The env var wins; otherwise the key is
	// read from Secret Manager.
	geminiAPIKey := cfg.GeminiAPIKey
	if geminiAPIKey == "" {
		secrets, err := service.NewSecretManagerService(context.Background(), cfg)
		if err != nil {
			logger.Error().Msgf("Failed to create Secret Manager client: %v", err)
			return nil, nil, err
		}
		geminiAPIKey, err = secrets.GetProviderAPIKey(context.Background(), cfg.GeminiAPIKeySecret)
		if err != nil {
			logger.Error().Msgf("Failed to resolve AI provider key: %v", err)
			return nil, nil, err
		}
		logger.Info().Str("secret", cfg.GeminiAPIKeySecret).Msg("AI provider key loaded from Secret Manager")
	}

	// 6. Initialize repositories & services & handlers
	userRepo := repository.NewUserRepo(db)
	courseRepo := repository.NewCourseRepo(db, logger)

	embedder := service.NewGeminiEmbeddingClient(cfg.GeminiBaseURL, geminiAPIKey, cfg.EmbeddingModel, logger)
	explainer := service.NewGeminiExplanationClient(cfg.GeminiBaseURL, geminiAPIKey, cfg.ExplanationModel, logger)
	mediaSvc := service.NewMediaService(s3Client, cfg.S3Bucket, logger)
	courseSvc := service.NewCourseService(courseRepo, userRepo, embedder, mediaSvc, pubSubPublisher, cfg.CourseEventsTopic, logger)
	searchSvc := service.NewSearchService(courseRepo, embedder, explainer, logger)
	userSvc := service.NewUserService(userRepo)

	courseHandler := handler.NewCourseHandler(courseSvc, searchSvc, validate)
	userHandler := handler.NewUserHandler(userSvc)

	// 7. Initialize middleware
	authMiddleware := middleware.AuthMiddleware(cfg.JWTSecret)

	// 8. Create ServeMux router
	mux := http.NewServeMux()

	// Create a subrouter for API v1 with the /v1 prefix
	apiV1Mux := http.NewServeMux()
	courseHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	userHandler.RegisterRoutes(apiV1Mux, authMiddleware)

	// Mount the API v1 routes under /v1
	mux.Handle("/v1/", http.StripPrefix("/v1", apiV1Mux))

	// Redirect root-level requests to /v1/{path} for older clients
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/v1/") {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/v1"+r.URL.Path, http.StatusMovedPermanently)
	})

	// 9. Apply CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		Debug:            false,
	})

	return middleware.LoggerMiddleware(c.Handler(mux)), db, nil
}

// BuildDSN assembles the Postgres connection string from config. SSL stays
// off in development; everything else is expected to terminate TLS.
func BuildDSN(cfg *config.Config) string {
	sslmode := "require"
	if cfg.Environment == "development" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName, sslmode)
}

// removeDisableGzip is a workaround for S3 signature errors with some S3-compatible services.
// See: https://github.com/supabase/storage/issues/577
func removeDisableGzip() func(*awsmiddleware.Stack) error {
	return func(stack *awsmiddleware.Stack) error {
		// Only remove the middleware if it exists.
		if _, ok := stack.Finalize.Get("DisableAcceptEncodingGzip"); ok {
			_, err := stack.Finalize.Remove("DisableAcceptEncodingGzip")
			return err
		}
		return nil
	}
}
