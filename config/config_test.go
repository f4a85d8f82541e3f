package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("TAX_RATE", "")
	t.Setenv("APP_TIMEZONE", "UTC")

	cfg, err := FromEnv()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "pos.db", cfg.DatabaseURL)
	assert.True(t, cfg.TaxRate.Equal(decimal.RequireFromString("0.11")))
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, 3, cfg.OrderNumberMaxRetries)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.False(t, cfg.SeedCatalog)
	assert.True(t, cfg.IsTest())
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"tax rate", "TAX_RATE", "eleven"},
		{"timezone", "APP_TIMEZONE", "Mars/Olympus"},
		{"access ttl", "ACCESS_TOKEN_TTL", "soon"},
		{"retries", "ORDER_NUMBER_MAX_RETRIES", "many"},
		{"seed catalog", "SEED_CATALOG", "sometimes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DB_DRIVER", "sqlite")
			t.Setenv(tt.key, tt.val)

			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			DBDriver:              DriverMySQL,
			DatabaseURL:           "user:pass@tcp(localhost:3306)/pos",
			AccessTokenSecret:     "a",
			RefreshTokenSecret:    "b",
			TaxRate:               decimal.RequireFromString("0.11"),
			OrderNumberMaxRetries: 3,
			LoginRatePerMinute:    10,
			ImageStore:            ImageStoreLocal,
		}
	}

	assert.NoError(t, valid().Validate())

	cfg := valid()
	cfg.DBDriver = "oracle"
	assert.ErrorContains(t, cfg.Validate(), "DB_DRIVER")

	cfg = valid()
	cfg.DatabaseURL = ""
	assert.ErrorContains(t, cfg.Validate(), "DATABASE_URL")

	cfg = valid()
	cfg.RefreshTokenSecret = cfg.AccessTokenSecret
	assert.ErrorContains(t, cfg.Validate(), "must differ")

	cfg = valid()
	cfg.ImageStore = ImageStoreS3
	assert.ErrorContains(t, cfg.Validate(), "AWS_S3_BUCKET")

	cfg = valid()
	cfg.TaxRate = decimal.NewFromInt(2)
	assert.ErrorContains(t, cfg.Validate(), "TAX_RATE")
}

func TestProductionRequiresSecrets(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/pos")
	t.Setenv("ACCESS_TOKEN_SECRET", "")
	t.Setenv("REFRESH_TOKEN_SECRET", "")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Error(t, cfg.Validate())
}
