package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Tesseract-Nexus/go-shared/secrets"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Server
	Port        string
	Environment string

	// JWT
	JWTSecret string
	// DevAuth replaces Istio JWT claims with headers on a workstation
	DevAuth bool

	// NATS
	NATSURL string

	// Redis
	RedisURL string

	// RBAC
	StaffServiceURL string

	// Pagination
	DefaultPageSize int
	MaxPageSize     int

	// AI assistant
	AI AIConfig

	// Attachments
	Storage StorageConfig

	// Rate limiting
	RateLimitRPS   int
	RateLimitBurst int

	CacheTTL          time.Duration
	JobsEnabled       bool
	CreditDefault     float64
	ReceivableDueDays int
	CompanyName       string
}

// AIConfig configures the chat-completion backend used by the assistant
type AIConfig struct {
	APIKey   string
	BaseURL  string
	Model    string
	Fallback bool
	Timeout  time.Duration
}

// StorageConfig selects where uploaded attachments are kept
type StorageConfig struct {
	Driver      string
	LocalDir    string
	MaxBytes    int64
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3PathStyle bool
}

func Load() *Config {
	dbPort, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	defaultPageSize, _ := strconv.Atoi(getEnv("DEFAULT_PAGE_SIZE", "20"))
	maxPageSize, _ := strconv.Atoi(getEnv("MAX_PAGE_SIZE", "100"))
	aiTimeout, _ := strconv.Atoi(getEnv("AI_TIMEOUT_SECONDS", "60"))
	maxUpload, _ := strconv.ParseInt(getEnv("UPLOAD_MAX_BYTES", "16777216"), 10, 64)
	cacheTTL, _ := strconv.Atoi(getEnv("CACHE_TTL_SECONDS", "300"))
	rps, _ := strconv.Atoi(getEnv("RATE_LIMIT_RPS", "20"))
	burst, _ := strconv.Atoi(getEnv("RATE_LIMIT_BURST", "40"))
	creditDefault, _ := strconv.ParseFloat(getEnv("CREDIT_DEFAULT_LIMIT", "10000"), 64)
	dueDays, _ := strconv.Atoi(getEnv("RECEIVABLE_DUE_DAYS", "30"))

	return &Config{
		// Database - fetch password from GCP Secret Manager if enabled
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     dbPort,
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: secrets.GetDBPassword(),
		DBName:     getEnv("DB_NAME", "erp_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		Port:        getEnv("PORT", "8090"),
		Environment: getEnv("ENVIRONMENT", "development"),

		JWTSecret: secrets.GetJWTSecret(),
		DevAuth:   getBool("DEV_AUTH", false),

		NATSURL:  getEnv("NATS_URL", ""),
		RedisURL: getEnv("REDIS_URL", ""),

		StaffServiceURL: getEnv("STAFF_SERVICE_URL", "http://staff-service:8080"),

		DefaultPageSize: defaultPageSize,
		MaxPageSize:     maxPageSize,

		AI: AIConfig{
			APIKey:   getEnv("AI_API_KEY", os.Getenv("DEEPSEEK_API_KEY")),
			BaseURL:  strings.TrimRight(getEnv("AI_BASE_URL", getEnv("DEEPSEEK_BASE_URL", "https://api.deepseek.com")), "/"),
			Model:    getEnv("AI_MODEL", "deepseek-chat"),
			Fallback: getBool("AI_FALLBACK", true),
			Timeout:  time.Duration(aiTimeout) * time.Second,
		},

		Storage: StorageConfig{
			Driver:      getEnv("STORAGE_DRIVER", "local"),
			LocalDir:    getEnv("STORAGE_LOCAL_DIR", "./uploads"),
			MaxBytes:    maxUpload,
			S3Bucket:    getEnv("S3_BUCKET", ""),
			S3Region:    getEnv("S3_REGION", "us-east-1"),
			S3Endpoint:  getEnv("S3_ENDPOINT", ""),
			S3PathStyle: getBool("S3_PATH_STYLE", false),
		},

		RateLimitRPS:   rps,
		RateLimitBurst: burst,

		CacheTTL:          time.Duration(cacheTTL) * time.Second,
		JobsEnabled:       getBool("JOBS_ENABLED", true),
		CreditDefault:     creditDefault,
		ReceivableDueDays: dueDays,
		CompanyName:       getEnv("COMPANY_NAME", "ERP"),
	}
}

// DSN builds the postgres connection string
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// MigrationURL builds the postgres URL form used by golang-migrate
func (c *Config) MigrationURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

func InitDB(cfg *Config) (*gorm.DB, error) {
	var logLevel logger.LogLevel
	if cfg.Environment == "production" {
		logLevel = logger.Error
	} else {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// InitRedis connects to Redis. A nil client with nil error means caching is disabled.
func InitRedis(ctx context.Context, cfg *Config) (*redis.Client, error) {
	if cfg.RedisURL == "" {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	if opt.Password == "" {
		opt.Password = secrets.GetRedisPassword()
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

// NewLogger builds the JSON logger shared by every component
func NewLogger(cfg *Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Environment == "production" {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
