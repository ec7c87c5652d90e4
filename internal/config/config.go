package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/bgraves/pagemill/internal/richtext"
)

type Config struct {
	Port string

	// API auth
	APIKey string

	// CMS connection
	CMSBaseURL string
	CMSAPIKey  string

	// Pagination
	DefaultPolicy  richtext.Policy
	MaxRenderDepth int

	// Import pipeline
	WorkerCount    int
	MaxQueueSize   int
	MaxUploadBytes int64
	JobTTL         time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8091"),

		APIKey: os.Getenv("PAGEMILL_API_KEY"),

		CMSBaseURL: envOr("CMS_URL", "http://localhost:3000"),
		CMSAPIKey:  os.Getenv("CMS_API_KEY"),

		DefaultPolicy:  richtext.Policy(envOr("PAGINATION_POLICY", string(richtext.PolicyDividers))),
		MaxRenderDepth: envInt("MAX_RENDER_DEPTH", richtext.DefaultMaxDepth),

		WorkerCount:    envInt("WORKER_COUNT", 4),
		MaxQueueSize:   envInt("MAX_QUEUE_SIZE", 100),
		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB
		JobTTL:         envDuration("JOB_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if !richtext.ValidPolicy(cfg.DefaultPolicy) {
		cfg.DefaultPolicy = richtext.PolicyDividers
	}
	if cfg.MaxRenderDepth <= 0 {
		cfg.MaxRenderDepth = richtext.DefaultMaxDepth
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

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("PAGEMILL_API_KEY is required")
	}
	if c.CMSAPIKey == "" {
		return fmt.Errorf("CMS_API_KEY is required")
	}
	return nil
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
