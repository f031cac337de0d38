package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "fletes-api", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.True(t, cfg.App.IsDevelopment())
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiration)
	assert.Equal(t, 168*time.Hour, cfg.JWT.RefreshTokenExpiration)
	assert.Equal(t, "stub", cfg.Storage.Type)
	assert.Equal(t, int64(5<<20), cfg.Storage.MaxImageSize)
	assert.Equal(t, 30, cfg.Notification.RetentionDays)
	assert.Equal(t, 30*24*time.Hour, cfg.Notification.Retention())
	assert.Equal(t, time.Hour, cfg.Notification.PurgeInterval)
	assert.Equal(t, 24*time.Hour, cfg.HTTP.IdempotencyTTL)
	assert.Equal(t, 10, cfg.Pagination.DefaultPageSize)
	assert.Equal(t, 50, cfg.Pagination.MaxPageSize)
	assert.Equal(t, 100, cfg.Log.MaxSizeMB)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("FLETES_APP_NAME", "test-app")
	t.Setenv("FLETES_APP_ENV", "testing")
	t.Setenv("FLETES_APP_PORT", "9000")
	t.Setenv("FLETES_DATABASE_HOST", "testdb.local")
	t.Setenv("FLETES_DATABASE_PORT", "5433")
	t.Setenv("FLETES_DATABASE_MAX_OPEN_CONNS", "50")
	t.Setenv("FLETES_DATABASE_MAX_IDLE_CONNS", "10")
	t.Setenv("FLETES_REDIS_ENABLED", "true")
	t.Setenv("FLETES_JWT_ACCESS_TOKEN_EXPIRATION", "30m")
	t.Setenv("FLETES_NOTIFICATION_RETENTION_DAYS", "7")
	t.Setenv("FLETES_NOTIFICATION_PURGE_INTERVAL", "15m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-app", cfg.App.Name)
	assert.Equal(t, "testing", cfg.App.Env)
	assert.False(t, cfg.App.IsDevelopment())
	assert.Equal(t, "9000", cfg.App.Port)
	assert.Equal(t, "testdb.local", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, 50, cfg.Database.MaxOpenConns)
	assert.Equal(t, 10, cfg.Database.MaxIdleConns)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 30*time.Minute, cfg.JWT.AccessTokenExpiration)
	assert.Equal(t, 7, cfg.Notification.RetentionDays)
	assert.Equal(t, 15*time.Minute, cfg.Notification.PurgeInterval)
}

func TestLoad_Validation(t *testing.T) {
	t.Run("max idle conns cannot exceed max open conns", func(t *testing.T) {
		t.Setenv("FLETES_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("FLETES_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("max idle conns cannot be negative", func(t *testing.T) {
		t.Setenv("FLETES_DATABASE_MAX_IDLE_CONNS", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns cannot be negative")
	})

	t.Run("unknown database driver", func(t *testing.T) {
		t.Setenv("FLETES_DATABASE_DRIVER", "mysql")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.driver")
	})

	t.Run("unknown storage type", func(t *testing.T) {
		t.Setenv("FLETES_STORAGE_TYPE", "ftp")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.type")
	})

	t.Run("default page size above max", func(t *testing.T) {
		t.Setenv("FLETES_PAGINATION_DEFAULT_PAGE_SIZE", "80")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "pagination.default_page_size")
	})

	t.Run("sampling ratio out of range", func(t *testing.T) {
		t.Setenv("FLETES_TELEMETRY_SAMPLING_RATIO", "1.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sampling_ratio")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	setValidProductionBase := func(t *testing.T) {
		t.Setenv("FLETES_APP_ENV", "production")
		t.Setenv("FLETES_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		t.Setenv("FLETES_DATABASE_PASSWORD", "secure-password")
		t.Setenv("FLETES_STORAGE_TYPE", "s3")
	}

	t.Run("requires jwt.secret", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("FLETES_JWT_SECRET", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret is required in production")
	})

	t.Run("requires a long jwt.secret", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("FLETES_JWT_SECRET", "short-secret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 32 characters")
	})

	t.Run("requires database.password for postgres", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("FLETES_DATABASE_PASSWORD", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("rejects stub storage", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("FLETES_STORAGE_TYPE", "stub")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.type cannot be 'stub'")
	})

	t.Run("rejects wildcard cors origin", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("FLETES_HTTP_CORS_ALLOW_ORIGINS", "*")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cors_allow_origins")
	})

	t.Run("passes with valid production config", func(t *testing.T) {
		setValidProductionBase(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost:5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "/testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})
}
