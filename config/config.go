package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	ImageStoreLocal = "local"
	ImageStoreS3    = "s3"
)

// Config holds all application configuration
type Config struct {
	GoEnv   string
	Port    string
	GinMode string

	DBDriver    string
	DatabaseURL string

	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration

	TaxRate               decimal.Decimal
	Location              *time.Location
	OrderNumberMaxRetries int

	CORSAllowedOrigins []string
	LoginRatePerMinute int

	ImageStore         string
	UploadDir          string
	PublicBaseURL      string
	AWSRegion          string
	AWSS3Bucket        string
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	SeedAdminUsername string
	SeedAdminEmail    string
	SeedAdminPassword string
	// SeedCatalog loads the starter menu on an empty database outside production.
	SeedCatalog bool

	LogLevel  string
	LogFormat string
}

// Load reads .env.{GO_ENV} (falling back to .env) and the process environment.
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	envFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envFile); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Printf("No .env file found, using system environment variables")
		}
	} else {
		log.Printf("Loaded configuration from %s", envFile)
	}

	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv builds a Config from environment variables without touching .env files.
func FromEnv() (*Config, error) {
	cfg := &Config{
		GoEnv:              getEnv("GO_ENV", "development"),
		Port:               getEnv("PORT", "8080"),
		GinMode:            getEnv("GIN_MODE", "debug"),
		DBDriver:           strings.ToLower(getEnv("DB_DRIVER", DriverMySQL)),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		AccessTokenSecret:  getEnv("ACCESS_TOKEN_SECRET", ""),
		RefreshTokenSecret: getEnv("REFRESH_TOKEN_SECRET", ""),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		ImageStore:         strings.ToLower(getEnv("IMAGE_STORE", ImageStoreLocal)),
		UploadDir:          getEnv("UPLOAD_DIR", "public/uploads"),
		PublicBaseURL:      strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		AWSRegion:          getEnv("AWS_REGION", "ap-southeast-1"),
		AWSS3Bucket:        getEnv("AWS_S3_BUCKET", ""),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		SeedAdminUsername:  getEnv("SEED_ADMIN_USERNAME", ""),
		SeedAdminEmail:     getEnv("SEED_ADMIN_EMAIL", ""),
		SeedAdminPassword:  getEnv("SEED_ADMIN_PASSWORD", ""),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
	}

	var err error
	if cfg.AccessTokenTTL, err = time.ParseDuration(getEnv("ACCESS_TOKEN_TTL", "15m")); err != nil {
		return nil, fmt.Errorf("invalid ACCESS_TOKEN_TTL: %w", err)
	}
	if cfg.RefreshTokenTTL, err = time.ParseDuration(getEnv("REFRESH_TOKEN_TTL", "168h")); err != nil {
		return nil, fmt.Errorf("invalid REFRESH_TOKEN_TTL: %w", err)
	}
	if cfg.TaxRate, err = decimal.NewFromString(getEnv("TAX_RATE", "0.11")); err != nil {
		return nil, fmt.Errorf("invalid TAX_RATE: %w", err)
	}
	if cfg.Location, err = time.LoadLocation(getEnv("APP_TIMEZONE", "Local")); err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	if cfg.OrderNumberMaxRetries, err = strconv.Atoi(getEnv("ORDER_NUMBER_MAX_RETRIES", "3")); err != nil {
		return nil, fmt.Errorf("invalid ORDER_NUMBER_MAX_RETRIES: %w", err)
	}
	if cfg.LoginRatePerMinute, err = strconv.Atoi(getEnv("LOGIN_RATE_PER_MINUTE", "10")); err != nil {
		return nil, fmt.Errorf("invalid LOGIN_RATE_PER_MINUTE: %w", err)
	}
	if cfg.SeedCatalog, err = strconv.ParseBool(getEnv("SEED_CATALOG", "false")); err != nil {
		return nil, fmt.Errorf("invalid SEED_CATALOG: %w", err)
	}

	if cfg.DatabaseURL == "" && cfg.DBDriver == DriverSQLite {
		cfg.DatabaseURL = "pos.db"
	}
	if !cfg.IsProduction() {
		if cfg.AccessTokenSecret == "" {
			cfg.AccessTokenSecret = "dev-access-secret"
		}
		if cfg.RefreshTokenSecret == "" {
			cfg.RefreshTokenSecret = "dev-refresh-secret"
		}
	}
	return cfg, nil
}

// Validate checks that all required configuration values are set
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.AccessTokenSecret == "" || c.RefreshTokenSecret == "" {
		return fmt.Errorf("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET are required")
	}
	if c.AccessTokenSecret == c.RefreshTokenSecret {
		return fmt.Errorf("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ")
	}
	if c.TaxRate.IsNegative() || c.TaxRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("TAX_RATE must be in [0, 1)")
	}
	if c.OrderNumberMaxRetries < 1 {
		return fmt.Errorf("ORDER_NUMBER_MAX_RETRIES must be at least 1")
	}
	if c.LoginRatePerMinute < 1 {
		return fmt.Errorf("LOGIN_RATE_PER_MINUTE must be at least 1")
	}
	switch c.ImageStore {
	case ImageStoreLocal:
	case ImageStoreS3:
		if c.AWSS3Bucket == "" {
			return fmt.Errorf("AWS_S3_BUCKET is required when IMAGE_STORE=s3")
		}
	default:
		return fmt.Errorf("unsupported IMAGE_STORE %q", c.ImageStore)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
