package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Feed       FeedConfig
	Uploads    UploadsConfig
	RateLimit  RateLimitConfig
	Moderation ModerationConfig
	Logging    LoggingConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	HTTPAddr string
	// IndexFile is the front-end HTML page served at /. Empty disables it.
	IndexFile string
}

// DatabaseConfig holds MongoDB configuration
type DatabaseConfig struct {
	URI      string
	Database string
}

// FeedConfig holds feed retrieval and seeding configuration
type FeedConfig struct {
	// Categories is the canonical category set scanned by like updates.
	// Feed reads are not restricted to it.
	Categories []string
	SeedCount  int
	PageLimit  int
}

// UploadsConfig holds upload storage configuration
type UploadsConfig struct {
	Dir        string
	PublicPath string
	MaxSize    int64
}

// RateLimitConfig holds upload rate limiting configuration
type RateLimitConfig struct {
	Backend   string // "memory" or "redis"
	Interval  time.Duration
	RedisAddr string
}

// ModerationConfig holds image moderation settings.
type ModerationConfig struct {
	Enabled          bool
	AWSRegion        string
	RejectConfidence float64
	Timeout          time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// DefaultCategories are the feed buckets the front end knows about.
var DefaultCategories = []string{"trends", "reco", "recent"}

// UploadsBucket is the store bucket holding user-uploaded items. It is kept
// apart from the seeded feed buckets but is included in like scans.
const UploadsBucket = "uploads"

// Load parses flags and environment variables to build configuration
func Load() *Config {
	httpAddr := flag.String("http", ":8080", "HTTP server address")
	indexFile := flag.String("index-file", "", "Front-end HTML file served at / (empty disables)")
	mongoURI := flag.String("mongo-uri", "mongodb://localhost:27017", "MongoDB connection URI")
	mongoDB := flag.String("mongo-db", "sinfiltro_db", "MongoDB database name")
	categories := flag.String("feed-categories", strings.Join(DefaultCategories, ","), "Comma-separated feed categories")
	seedCount := flag.Int("seed-count", 12, "Sample items generated for an empty category")
	pageLimit := flag.Int("feed-page-limit", 100, "Maximum items returned per feed read")
	uploadDir := flag.String("upload-dir", "uploads", "Directory for uploaded files")
	maxUploadSize := flag.Int64("max-upload-size", 50*1024*1024, "Maximum upload size in bytes")
	rateLimitBackend := flag.String("rate-limit-backend", "memory", "Upload rate limit backend: memory or redis")
	rateLimitInterval := flag.Duration("upload-rate-limit", 0, "Minimum delay between uploads per client (0 disables)")
	redisAddr := flag.String("redis-addr", "localhost:6379", "Redis server address")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")

	flag.Parse()

	applyEnvOverrides(httpAddr, indexFile, mongoURI, mongoDB, categories, seedCount, pageLimit, uploadDir, maxUploadSize, rateLimitBackend, rateLimitInterval, redisAddr, logLevel)

	cfg := &Config{}

	cfg.Server = ServerConfig{
		HTTPAddr:  *httpAddr,
		IndexFile: *indexFile,
	}

	cfg.Database = DatabaseConfig{
		URI:      *mongoURI,
		Database: *mongoDB,
	}

	cfg.Feed = FeedConfig{
		Categories: splitCategories(*categories),
		SeedCount:  *seedCount,
		PageLimit:  *pageLimit,
	}

	cfg.Uploads = UploadsConfig{
		Dir:        *uploadDir,
		PublicPath: "/uploads",
		MaxSize:    *maxUploadSize,
	}

	cfg.RateLimit = RateLimitConfig{
		Backend:   *rateLimitBackend,
		Interval:  *rateLimitInterval,
		RedisAddr: *redisAddr,
	}

	cfg.Logging = LoggingConfig{
		Level: *logLevel,
	}

	cfg.Moderation = loadModerationConfig()

	return cfg
}

func loadModerationConfig() ModerationConfig {
	rejectConfidence := 70.0
	if v := os.Getenv("MODERATION_REJECT_CONFIDENCE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			rejectConfidence = parsed
		}
	}

	timeout := 5 * time.Second
	if v := os.Getenv("MODERATION_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			timeout = parsed
		}
	}

	enabled := false
	if v := strings.ToLower(strings.TrimSpace(os.Getenv("IMAGE_MODERATION_ENABLED"))); v == "true" || v == "1" {
		enabled = true
	}

	return ModerationConfig{
		Enabled:          enabled,
		AWSRegion:        os.Getenv("AWS_REGION"),
		RejectConfidence: rejectConfidence,
		Timeout:          timeout,
	}
}

func splitCategories(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		out = append(out, DefaultCategories...)
	}
	return out
}

func applyEnvOverrides(
	httpAddr *string,
	indexFile *string,
	mongoURI *string,
	mongoDB *string,
	categories *string,
	seedCount *int,
	pageLimit *int,
	uploadDir *string,
	maxUploadSize *int64,
	rateLimitBackend *string,
	rateLimitInterval *time.Duration,
	redisAddr *string,
	logLevel *string,
) {
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		*httpAddr = v
	}
	if v := os.Getenv("INDEX_FILE"); v != "" {
		*indexFile = v
	}
	if v := os.Getenv("MONGO_URI"); v != "" {
		*mongoURI = v
	}
	// MONGO_URL is what the hosted deployment sets.
	if v := os.Getenv("MONGO_URL"); v != "" {
		*mongoURI = v
	}
	if v := os.Getenv("MONGO_DB"); v != "" {
		*mongoDB = v
	}
	if v := os.Getenv("FEED_CATEGORIES"); v != "" {
		*categories = v
	}
	if v := os.Getenv("SEED_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			*seedCount = n
		}
	}
	if v := os.Getenv("FEED_PAGE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			*pageLimit = n
		}
	}
	if v := os.Getenv("UPLOAD_DIR"); v != "" {
		*uploadDir = v
	}
	if v := os.Getenv("MAX_UPLOAD_SIZE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			*maxUploadSize = n
		}
	}
	if v := os.Getenv("RATE_LIMIT_BACKEND"); v != "" {
		*rateLimitBackend = v
	}
	if v := os.Getenv("UPLOAD_RATE_LIMIT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*rateLimitInterval = d
		}
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		*redisAddr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		*logLevel = v
	}
}
