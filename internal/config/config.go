package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort    string
	DatabaseURL string
	CORSOrigins []string
	LogJSON     bool
	LogDebug    bool

	MatchThreshold        float64
	SuggestActiveJobsOnly bool

	GeminiAPIKey string
	GeminiModel  string

	GmailCredentialsFile string
	GmailTokenFile       string
	EmailFrom            string

	NotifyMaxAttempts int
	NotifyBackoff     time.Duration
	NotifyTimeout     time.Duration

	RabbitMQURL     string
	NotifyExchange  string
	NotifyQueue     string
	NotifierWorkers int

	UploadsDir     string
	MaxResumeBytes int64
	MaxLogoBytes   int64
	S3Bucket       string
	S3Region       string
	S3Endpoint     string
	S3AccessKey    string
	S3SecretKey    string
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		CORSOrigins: getList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:5174"}),
		LogJSON:     getBool("LOG_JSON", false),
		LogDebug:    getBool("LOG_DEBUG", false),

		MatchThreshold:        getFloat("MATCH_THRESHOLD", 70),
		SuggestActiveJobsOnly: getBool("SUGGEST_ACTIVE_JOBS_ONLY", false),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		GmailCredentialsFile: getEnv("GMAIL_CREDENTIALS_FILE", ""),
		GmailTokenFile:       getEnv("GMAIL_TOKEN_FILE", "token.json"),
		EmailFrom:            getEnv("EMAIL_FROM", ""),

		NotifyMaxAttempts: getInt("NOTIFY_MAX_ATTEMPTS", 3),
		NotifyBackoff:     getDuration("NOTIFY_BACKOFF", 500*time.Millisecond),
		NotifyTimeout:     getDuration("NOTIFY_TIMEOUT", 30*time.Second),

		RabbitMQURL:     getEnv("RABBITMQ_URL", ""),
		NotifyExchange:  getEnv("NOTIFY_EXCHANGE", "application_events"),
		NotifyQueue:     getEnv("NOTIFY_QUEUE", "acceptance_emails"),
		NotifierWorkers: getInt("NOTIFIER_WORKERS", 3),

		UploadsDir:     getEnv("UPLOADS_DIR", "uploads"),
		MaxResumeBytes: int64(getInt("MAX_RESUME_BYTES", 10<<20)),
		MaxLogoBytes:   int64(getInt("MAX_LOGO_BYTES", 2<<20)),
		S3Bucket:       getEnv("S3_BUCKET", ""),
		S3Region:       getEnv("S3_REGION", "auto"),
		S3Endpoint:     getEnv("S3_ENDPOINT", ""),
		S3AccessKey:    getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:    getEnv("S3_SECRET_KEY", ""),
	}

	if math.IsNaN(cfg.MatchThreshold) || cfg.MatchThreshold < 0 || cfg.MatchThreshold > 100 {
		return nil, fmt.Errorf("MATCH_THRESHOLD must be between 0 and 100, got %v", cfg.MatchThreshold)
	}
	if cfg.NotifyMaxAttempts < 1 {
		cfg.NotifyMaxAttempts = 1
	}
	if cfg.NotifierWorkers < 1 {
		cfg.NotifierWorkers = 1
	}
	if cfg.S3Bucket != "" && (cfg.S3AccessKey == "" || cfg.S3SecretKey == "") {
		return nil, fmt.Errorf("S3_ACCESS_KEY and S3_SECRET_KEY are required when S3_BUCKET is set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var items []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}
