package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"connector-selector/pkg/decision"
	"connector-selector/pkg/llm/factory"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Ai        AIConfig
	Catalog   CatalogConfig
	Telemetry TelemetryConfig
	Policy    decision.Policy
}

type AppConfig struct {
	Environment        string        `validate:"required"`
	Port               string        `validate:"required,numeric"`
	CorsAllowedOrigins string        `validate:"required"`
	LogFilePath        string        `validate:"required"`
	AuditLogFilePath   string        `validate:"required"`
	SessionTTL         time.Duration `validate:"gt=0"`
	NatsURL            string
	RedisURL           string
	JwtSecret          string
}

type AIConfig struct {
	LLMProvider        string `validate:"omitempty,oneof=none ollama huggingface"`
	LLMModel           string
	OllamaBaseURL      string `validate:"omitempty,url"`
	HuggingFaceBaseURL string `validate:"omitempty,url"`
	HuggingFaceAPIKey  string
	InterpreterTimeout time.Duration `validate:"gt=0"`
}

// CatalogConfig points at optional YAML overrides of the embedded catalogs.
type CatalogConfig struct {
	CandidatesFile string
	QuestionsFile  string
}

// TelemetryConfig drives internal/tracer. Tracing stays off unless Enabled.
type TelemetryConfig struct {
	Enabled     bool
	Endpoint    string  `validate:"required_if=Enabled true"`
	ServiceName string  `validate:"required"`
	SampleRatio float64 `validate:"gte=0,lte=1"`
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	defaults := decision.DefaultPolicy()

	return &Config{
		App: AppConfig{
			Environment:        getEnv("GO_ENV", "development"),
			Port:               getEnv("PORT", "8080"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			AuditLogFilePath:   getEnv("AUDIT_LOG_FILE_PATH", "logs/audit.log"),
			SessionTTL:         time.Duration(getEnvAsInt("SESSION_TTL_MINUTES", 60)) * time.Minute,
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			JwtSecret:          getEnv("JWT_SECRET", ""),
		},
		Ai: AIConfig{
			LLMProvider:        getEnv("LLM_PROVIDER", factory.ProviderOllama),
			LLMModel:           getEnv("LLM_MODEL", "llama3.1"),
			OllamaBaseURL:      getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			HuggingFaceBaseURL: getEnv("HUGGINGFACE_BASE_URL", ""),
			HuggingFaceAPIKey:  getEnv("HUGGINGFACE_API_KEY", ""),
			InterpreterTimeout: time.Duration(getEnvAsInt("INTERPRETER_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Catalog: CatalogConfig{
			CandidatesFile: getEnv("CATALOG_FILE", ""),
			QuestionsFile:  getEnv("QUESTIONS_FILE", ""),
		},
		Telemetry: TelemetryConfig{
			Enabled:     getEnv("OTEL_ENABLED", "false") == "true",
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "connector-selector"),
			SampleRatio: getEnvAsFloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
		Policy: decision.Policy{
			OpeningCommitScore: getEnvAsFloat("POLICY_OPENING_COMMIT_SCORE", defaults.OpeningCommitScore),
			OpeningCommitGap:   getEnvAsFloat("POLICY_OPENING_COMMIT_GAP", defaults.OpeningCommitGap),
			AnswerCommitScore:  getEnvAsFloat("POLICY_ANSWER_COMMIT_SCORE", defaults.AnswerCommitScore),
			AnswerCommitGap:    getEnvAsFloat("POLICY_ANSWER_COMMIT_GAP", defaults.AnswerCommitGap),
			CriticalConfidence: getEnvAsFloat("POLICY_CRITICAL_CONFIDENCE", defaults.CriticalConfidence),
			MinAnswered:        getEnvAsInt("POLICY_MIN_ANSWERED", defaults.MinAnswered),
			EscalateScore:      getEnvAsFloat("POLICY_ESCALATE_SCORE", defaults.EscalateScore),
			SoftMismatchLimit:  getEnvAsInt("POLICY_SOFT_MISMATCH_LIMIT", defaults.SoftMismatchLimit),
			SoftMismatchScore:  getEnvAsFloat("POLICY_SOFT_MISMATCH_SCORE", defaults.SoftMismatchScore),
			ContactURL:         getEnv("POLICY_CONTACT_URL", defaults.ContactURL),
		},
	}
}

// Validate checks every struct tag, the policy thresholds included.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// LLM returns the provider factory settings for the configured backend.
func (c *Config) LLM() factory.Config {
	cfg := factory.Config{Provider: c.Ai.LLMProvider, Model: c.Ai.LLMModel, BaseURL: c.Ai.OllamaBaseURL}
	if c.Ai.LLMProvider == factory.ProviderHuggingFace {
		cfg.BaseURL = c.Ai.HuggingFaceBaseURL
		cfg.APIKey = c.Ai.HuggingFaceAPIKey
	}
	return cfg
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
