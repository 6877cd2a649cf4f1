package config

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENV" default:"development"`
	DBHost      string `envconfig:"DB_HOST" required:"true"`
	DBPort      int    `envconfig:"DB_PORT" default:"5432"`
	DBUser      string `envconfig:"DB_USER" required:"true"`
	DBPassword  string `envconfig:"DB_PASSWORD" required:"true"`
	DBName      string `envconfig:"DB_NAME" required:"true"`
	JWTSecret   string `envconfig:"JWT_SECRET" required:"true"`

	// S3-compatible storage for course assets (notes PDFs, images)
	S3URL       string `envconfig:"S3_URL" required:"true"`
	S3Bucket    string `envconfig:"S3_BUCKET" required:"true"`
	S3Region    string `envconfig:"S3_REGION" required:"true"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY" required:"true"`
	S3SecretKey string `envconfig:"S3_SECRET_KEY" required:"true"`

	// GCP settings: course lifecycle events + provider key storage
	GCPProjectID      string `envconfig:"GCP_PROJECT_ID" required:"true"`
	CourseEventsTopic string `envconfig:"COURSE_EVENTS_TOPIC" default:"course-events"`

	// AI provider settings. If GeminiAPIKey is empty the key is resolved
	// through Secret Manager under GeminiAPIKeySecret.
	GeminiBaseURL      string `envconfig:"GEMINI_BASE_URL" default:"https://generativelanguage.googleapis.com/v1beta"`
	GeminiAPIKey       string `envconfig:"GEMINI_API_KEY"`
	GeminiAPIKeySecret string `envconfig:"GEMINI_API_KEY_SECRET" default:"gemini-api-key"`
	EmbeddingModel     string `envconfig:"EMBEDDING_MODEL" default:"text-embedding-004"`
	ExplanationModel   string `envconfig:"EXPLANATION_MODEL" default:"gemini-2.0-flash"`

	// Embedding backfill orchestrator settings
	BackfillQueueName      string `envconfig:"BACKFILL_QUEUE_NAME" default:"embedding_backfill_queue"`
	BackfillPollTimeoutSec int    `envconfig:"BACKFILL_POLL_TIMEOUT_SEC" default:"30"`
	BackfillPollMaxMsg     int    `envconfig:"BACKFILL_POLL_MAX_MSG" default:"1"`

	// Reconcile orchestrator settings
	ReconcileIntervalSec int `envconfig:"RECONCILE_INTERVAL_SEC" default:"300"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
