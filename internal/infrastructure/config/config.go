package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App          AppConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Log          LogConfig
	HTTP         HTTPConfig
	Storage      StorageConfig
	Swagger      SwaggerConfig
	Telemetry    TelemetryConfig
	Notification NotificationConfig
	Pagination   PaginationConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level      string // debug, info, warn, error
	Format     string // json, console
	Output     string // stdout, stderr, or file path
	MaxSizeMB  int    // rotation threshold for file output
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// IsDevelopment reports whether the app runs in the development environment
func (a AppConfig) IsDevelopment() bool {
	return a.Env == "development"
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver          string // postgres or sqlite
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	SQLitePath      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// JWTConfig holds JWT settings
type JWTConfig struct {
	Secret                 string
	RefreshSecret          string
	AccessTokenExpiration  time.Duration
	RefreshTokenExpiration time.Duration
	Issuer                 string
	MaxRefreshCount        int
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout           time.Duration
	WriteTimeout          time.Duration
	IdleTimeout           time.Duration
	MaxHeaderBytes        int
	MaxBodySize           int64
	AuthRateLimitEnabled  bool
	AuthRateLimitRequests int
	AuthRateLimitWindow   time.Duration
	IdempotencyTTL        time.Duration
	CORSAllowOrigins      []string
	CORSAllowMethods      []string
	CORSAllowHeaders      []string
	TrustedProxies        []string
}

// StorageConfig holds blob storage settings for profile images
type StorageConfig struct {
	Type              string // s3 or stub
	Endpoint          string
	Region            string
	Bucket            string
	AccessKeyID       string
	SecretAccessKey   string
	UsePathStyle      bool
	PresignExpiration time.Duration
	MaxImageSize      int64
}

// SwaggerConfig holds Swagger documentation endpoint configuration
type SwaggerConfig struct {
	Enabled    bool
	AllowedIPs []string // single IPs or CIDR ranges; empty allows everyone
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string  // OTLP gRPC endpoint, e.g. localhost:4317
	SamplingRatio     float64 // 0.0-1.0
	ServiceName       string
	Insecure          bool
	DBTraceEnabled    bool
	MetricsEnabled    bool
	MetricsInterval   time.Duration
	LogsEnabled       bool
	SlowQueryMS       int
}

// NotificationConfig holds notification settings
type NotificationConfig struct {
	RetentionDays int
	// PurgeInterval is how often expired notifications are swept; negative disables the sweep
	PurgeInterval time.Duration
}

// Retention returns the notification retention window
func (n NotificationConfig) Retention() time.Duration {
	return time.Duration(n.RetentionDays) * 24 * time.Hour
}

// PaginationConfig holds list endpoint paging bounds
type PaginationConfig struct {
	DefaultPageSize int
	MaxPageSize     int
}

// Load reads config.toml (optional) and FLETES_* environment variables on top
// of the defaults below. FLETES_DATABASE_PASSWORD overrides database.password.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	for _, dir := range []string{".", "./config", "/app"} {
		v.AddConfigPath(dir)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("FLETES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Driver:          v.GetString("database.driver"),
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			SQLitePath:      v.GetString("database.sqlite_path"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:                 v.GetString("jwt.secret"),
			RefreshSecret:          v.GetString("jwt.refresh_secret"),
			AccessTokenExpiration:  v.GetDuration("jwt.access_token_expiration"),
			RefreshTokenExpiration: v.GetDuration("jwt.refresh_token_expiration"),
			Issuer:                 v.GetString("jwt.issuer"),
			MaxRefreshCount:        v.GetInt("jwt.max_refresh_count"),
		},
		Log: LogConfig{
			Level:      v.GetString("log.level"),
			Format:     v.GetString("log.format"),
			Output:     v.GetString("log.output"),
			MaxSizeMB:  v.GetInt("log.max_size_mb"),
			MaxBackups: v.GetInt("log.max_backups"),
			MaxAgeDays: v.GetInt("log.max_age_days"),
			Compress:   v.GetBool("log.compress"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:           v.GetDuration("http.read_timeout"),
			WriteTimeout:          v.GetDuration("http.write_timeout"),
			IdleTimeout:           v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:        v.GetInt("http.max_header_bytes"),
			MaxBodySize:           v.GetInt64("http.max_body_size"),
			AuthRateLimitEnabled:  v.GetBool("http.auth_rate_limit_enabled"),
			AuthRateLimitRequests: v.GetInt("http.auth_rate_limit_requests"),
			AuthRateLimitWindow:   v.GetDuration("http.auth_rate_limit_window"),
			IdempotencyTTL:        v.GetDuration("http.idempotency_ttl"),
			CORSAllowOrigins:      v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods:      v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders:      v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:        v.GetStringSlice("http.trusted_proxies"),
		},
		Storage: StorageConfig{
			Type:              v.GetString("storage.type"),
			Endpoint:          v.GetString("storage.endpoint"),
			Region:            v.GetString("storage.region"),
			Bucket:            v.GetString("storage.bucket"),
			AccessKeyID:       v.GetString("storage.access_key_id"),
			SecretAccessKey:   v.GetString("storage.secret_access_key"),
			UsePathStyle:      v.GetBool("storage.use_path_style"),
			PresignExpiration: v.GetDuration("storage.presign_expiration"),
			MaxImageSize:      v.GetInt64("storage.max_image_size"),
		},
		Swagger: SwaggerConfig{
			Enabled:    v.GetBool("swagger.enabled"),
			AllowedIPs: v.GetStringSlice("swagger.allowed_ips"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
			MetricsEnabled:    v.GetBool("telemetry.metrics_enabled"),
			MetricsInterval:   v.GetDuration("telemetry.metrics_interval"),
			LogsEnabled:       v.GetBool("telemetry.logs_enabled"),
			SlowQueryMS:       v.GetInt("telemetry.slow_query_ms"),
		},
		Notification: NotificationConfig{
			RetentionDays: v.GetInt("notification.retention_days"),
			PurgeInterval: v.GetDuration("notification.purge_interval"),
		},
		Pagination: PaginationConfig{
			DefaultPageSize: v.GetInt("pagination.default_page_size"),
			MaxPageSize:     v.GetInt("pagination.max_page_size"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setDefaults registers every default on v. Keys registered here are also the
// ones AutomaticEnv resolves, so each of them can be set from the environment.
func setDefaults(v *viper.Viper) {
	defaults := map[string]any{
		"app.name": "fletes-api",
		"app.env":  "development",
		"app.port": "8080",

		"database.driver":             "postgres",
		"database.host":               "localhost",
		"database.port":               5432,
		"database.user":               "postgres",
		"database.dbname":             "fletes",
		"database.sslmode":            "disable",
		"database.sqlite_path":        "fletes.db",
		"database.max_open_conns":     25,
		"database.max_idle_conns":     5,
		"database.conn_max_lifetime":  60,
		"database.conn_max_idle_time": 30,

		"redis.host": "localhost",
		"redis.port": 6379,

		"jwt.access_token_expiration":  15 * time.Minute,
		"jwt.refresh_token_expiration": 7 * 24 * time.Hour,
		"jwt.issuer":                   "fletes-api",
		"jwt.max_refresh_count":        10,

		"log.level":        "info",
		"log.format":       "console",
		"log.output":       "stdout",
		"log.max_size_mb":  100,
		"log.max_backups":  5,
		"log.max_age_days": 28,

		"http.read_timeout":             15 * time.Second,
		"http.write_timeout":            15 * time.Second,
		"http.idle_timeout":             time.Minute,
		"http.max_header_bytes":         1 << 20,
		"http.max_body_size":            int64(10 << 20),
		"http.auth_rate_limit_requests": 5,
		"http.auth_rate_limit_window":   time.Minute,
		"http.idempotency_ttl":          24 * time.Hour,
		// no origins by default: cross-origin requests stay blocked until configured
		"http.cors_allow_methods": []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		"http.cors_allow_headers": []string{"Content-Type", "Authorization", "X-Request-ID", "Idempotency-Key"},

		"storage.type":               "stub",
		"storage.region":             "us-east-1",
		"storage.bucket":             "fletes",
		"storage.presign_expiration": time.Hour,
		"storage.max_image_size":     int64(5 << 20),

		"telemetry.collector_endpoint": "localhost:4317",
		"telemetry.sampling_ratio":     1.0,
		"telemetry.service_name":       "fletes-api",
		"telemetry.metrics_interval":   time.Minute,
		"telemetry.slow_query_ms":      200,

		"notification.retention_days": 30,
		"notification.purge_interval": time.Hour,

		"pagination.default_page_size": 10,
		"pagination.max_page_size":     50,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}

func (c *Config) validate() error {
	for _, check := range []func() error{
		c.Database.validate,
		c.validateStorage,
		c.validatePagination,
		c.validateTelemetry,
	} {
		if err := check(); err != nil {
			return err
		}
	}
	if c.App.Env == "production" {
		return c.validateProduction()
	}
	return nil
}

func (d *DatabaseConfig) validate() error {
	switch {
	case d.Driver != "postgres" && d.Driver != "sqlite":
		return fmt.Errorf("database.driver must be postgres or sqlite, got %q", d.Driver)
	case d.MaxOpenConns <= 0:
		return errors.New("database.max_open_conns must be positive")
	case d.MaxIdleConns < 0:
		return errors.New("database.max_idle_conns cannot be negative")
	case d.MaxIdleConns > d.MaxOpenConns:
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			d.MaxIdleConns, d.MaxOpenConns)
	}
	return nil
}

func (c *Config) validateStorage() error {
	if c.Storage.Type != "s3" && c.Storage.Type != "stub" {
		return fmt.Errorf("storage.type must be s3 or stub, got %q", c.Storage.Type)
	}
	return nil
}

func (c *Config) validatePagination() error {
	p := c.Pagination
	if p.MaxPageSize < 1 || p.DefaultPageSize > p.MaxPageSize {
		return fmt.Errorf("pagination.default_page_size (%d) must be within [1, %d]", p.DefaultPageSize, p.MaxPageSize)
	}
	return nil
}

func (c *Config) validateTelemetry() error {
	if r := c.Telemetry.SamplingRatio; r < 0 || r > 1 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", r)
	}
	return nil
}

// validateProduction rejects settings that are only acceptable on a laptop.
func (c *Config) validateProduction() error {
	switch {
	case c.JWT.Secret == "":
		return errors.New("jwt.secret is required in production")
	case len(c.JWT.Secret) < 32:
		return errors.New("jwt.secret must be at least 32 characters in production")
	case c.Database.Driver == "postgres" && c.Database.Password == "":
		return errors.New("database.password is required in production")
	case c.Storage.Type == "stub":
		return errors.New("storage.type cannot be 'stub' in production")
	case slices.Contains(c.HTTP.CORSAllowOrigins, "*"):
		return errors.New("cors_allow_origins cannot be '*' in production (use specific origins)")
	}
	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
