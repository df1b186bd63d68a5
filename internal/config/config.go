package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config is loaded from the environment. The env tag names the variable a
// validation error reports.
type Config struct {
	Port     string `env:"PORT" validate:"required,numeric"`
	LogLevel slog.Level

	// Optional rotating log file, in addition to stdout.
	LogFile      string
	LogMaxSizeMB int `env:"LOG_MAX_SIZE_MB" validate:"gte=0"`

	// Browser clients allowed to call the API.
	CORSAllowedOrigins []string

	// Upload limits
	MaxUploadBytes int64

	// Context normalization
	MaxContextChars int

	// Session state
	SessionTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool

	// QA oracle
	OracleBackend string `env:"ORACLE_BACKEND" validate:"required,oneof=huggingface claude"`
	OracleTimeout time.Duration
	StatsWindow   time.Duration

	HFAPIToken string
	HFBaseURL  string
	HFModel    string

	AnthropicAPIKey  string `env:"ANTHROPIC_API_KEY" validate:"required_if=OracleBackend claude"`
	AnthropicModel   string
	AnthropicBaseURL string
}

// Load reads configuration from the environment, after merging a local .env
// file if one exists.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port:     envOr("PORT", "8090"),
		LogLevel: envLevel("LOG_LEVEL", slog.LevelInfo),

		LogFile:      os.Getenv("LOG_FILE"),
		LogMaxSizeMB: envInt("LOG_MAX_SIZE_MB", 10),

		CORSAllowedOrigins: envList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:8501"}),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 10485760), // 10MB

		MaxContextChars: envInt("MAX_CONTEXT_CHARS", 5000),

		SessionTTL: envDuration("SESSION_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", false),

		OracleBackend: strings.ToLower(envOr("ORACLE_BACKEND", "huggingface")),
		OracleTimeout: envDuration("ORACLE_TIMEOUT", 120*time.Second),
		StatsWindow:   envDuration("STATS_WINDOW", 1*time.Hour),

		HFAPIToken: os.Getenv("HF_API_TOKEN"),
		HFBaseURL:  envOr("HF_BASE_URL", "https://router.huggingface.co/hf-inference"),
		HFModel:    envOr("HF_MODEL", "deepset/roberta-base-squad2"),

		AnthropicAPIKey:  os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:   envOr("ANTHROPIC_MODEL", "claude-sonnet-4-5-20250929"),
		AnthropicBaseURL: os.Getenv("ANTHROPIC_BASE_URL"),
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10485760
	}
	if cfg.MaxContextChars <= 0 {
		cfg.MaxContextChars = 5000
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 1 * time.Hour
	}
	if cfg.OracleTimeout <= 0 {
		cfg.OracleTimeout = 120 * time.Second
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = 1 * time.Hour
	}

	return cfg
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("env"); name != "" {
			return name
		}
		return f.Name
	})
	return v
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", fe.Field())
	case "required_if":
		return fmt.Errorf("%s is required for ORACLE_BACKEND=%s", fe.Field(), c.OracleBackend)
	case "oneof":
		return fmt.Errorf("%s must be one of [%s], got %q", fe.Field(), fe.Param(), fe.Value())
	default:
		return fmt.Errorf("%s is invalid (%s %s)", fe.Field(), fe.Tag(), fe.Param())
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envLevel(key string, fallback slog.Level) slog.Level {
	if v := os.Getenv(key); v != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(v)); err == nil {
			return lvl
		}
	}
	return fallback
}
