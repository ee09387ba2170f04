package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	Port string `env:"PORT" validate:"required,numeric"`

	// Auth
	APIKey string `env:"BOMDIFF_API_KEY" validate:"required"`

	// Archive connection; empty URL disables archiving.
	ArchiveURL    string `env:"ARCHIVE_URL" validate:"omitempty,url"`
	ArchiveAPIKey string `env:"ARCHIVE_API_KEY" validate:"required_with=ArchiveURL"`

	// Worker pool
	WorkerCount  int `env:"WORKER_COUNT" validate:"min=1,max=256"`
	MaxQueueSize int `env:"MAX_QUEUE_SIZE" validate:"min=1"`

	// Upload limits
	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES" validate:"min=1024"`

	// Parsing
	DefaultProfile string `env:"DEFAULT_PROFILE" validate:"required"`
	ProfilesFile   string `env:"PROFILES_FILE" validate:"omitempty,file"`

	// Job state
	JobTTL time.Duration `env:"JOB_TTL" validate:"min=1s"`

	// Latency stats window
	StatsWindow time.Duration `env:"STATS_WINDOW" validate:"min=1s"`

	// PDF
	PDFFallbackPdftotext bool `env:"PDF_FALLBACK_PDFTOTEXT"`
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("BOMDIFF_API_KEY"),

		ArchiveURL:    os.Getenv("ARCHIVE_URL"),
		ArchiveAPIKey: os.Getenv("ARCHIVE_API_KEY"),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		DefaultProfile: envOr("DEFAULT_PROFILE", "simple"),
		ProfilesFile:   os.Getenv("PROFILES_FILE"),

		JobTTL:      envDuration("JOB_TTL", 1*time.Hour),
		StatsWindow: envDuration("STATS_WINDOW", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
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

// Validate reports the first invalid setting by its environment variable.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	e := verrs[0]
	switch e.Tag() {
	case "required":
		return fmt.Errorf("%s is required", e.Field())
	case "required_with":
		return fmt.Errorf("%s is required when ARCHIVE_URL is set", e.Field())
	case "min", "max":
		return fmt.Errorf("%s: must be %s %s", e.Field(), map[string]string{"min": "at least", "max": "at most"}[e.Tag()], e.Param())
	default:
		return fmt.Errorf("%s: invalid value %v (%s)", e.Field(), e.Value(), e.Tag())
	}
}

// ArchiveEnabled reports whether an archive store is configured.
func (c Config) ArchiveEnabled() bool {
	return c.ArchiveURL != ""
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
