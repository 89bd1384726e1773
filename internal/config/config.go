package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Platform PlatformConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Server   ServerConfig
	Cache    CacheConfig
}

// PlatformConfig identifies the platform root domain used by tenant
// resolution. Must be configured per deployment, never hard-coded.
type PlatformConfig struct {
	Domain          string
	ResolverMemoTTL time.Duration
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string //nolint:gosec // G117: DB connection config
	DBName   string
	SSLMode  string
	MaxConns int
}

// RedisConfig holds Redis connection settings for the change feed.
type RedisConfig struct {
	Addr     string
	Password string //nolint:gosec // G117: Redis connection config
	DB       int
}

// JWTConfig holds admin-token verification settings.
type JWTConfig struct {
	Secret string //nolint:gosec // G117: JWT signing secret config
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string
}

// CacheConfig holds freshness windows for the query cache.
type CacheConfig struct {
	ContentStaleTime time.Duration
	FeatureStaleTime time.Duration
}

// Load reads configuration from environment variables.
// Defaults are safe for local development only. In production, the platform
// domain, JWT secret, and DB password must be set explicitly.
func Load() (*Config, error) {
	dbPort, err := getEnvInt("VITRIN_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	dbMaxConns, err := getEnvInt("VITRIN_DB_MAX_CONNS", 25)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	redisDB, err := getEnvInt("VITRIN_REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	memoTTL, err := getEnvDuration("VITRIN_RESOLVER_MEMO_TTL", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	contentStale, err := getEnvDuration("VITRIN_CACHE_CONTENT_STALE", 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	featureStale, err := getEnvDuration("VITRIN_CACHE_FEATURE_STALE", 10*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	readTimeout, err := getEnvDuration("VITRIN_SERVER_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	writeTimeout, err := getEnvDuration("VITRIN_SERVER_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	corsOrigins := getEnvList("VITRIN_CORS_ORIGINS", []string{"http://localhost:5173"})

	cfg := &Config{
		Platform: PlatformConfig{
			Domain:          getEnv("VITRIN_PLATFORM_DOMAIN", ""),
			ResolverMemoTTL: memoTTL,
		},
		Database: DatabaseConfig{
			Host:     getEnv("VITRIN_DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("VITRIN_DB_USER", "vitrin"),
			Password: getEnv("VITRIN_DB_PASSWORD", ""),
			DBName:   getEnv("VITRIN_DB_NAME", "vitrin_dev"),
			SSLMode:  getEnv("VITRIN_DB_SSLMODE", "disable"),
			MaxConns: dbMaxConns,
		},
		Redis: RedisConfig{
			Addr:     getEnv("VITRIN_REDIS_ADDR", "localhost:6379"),
			Password: getEnv("VITRIN_REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		JWT: JWTConfig{
			Secret: getEnv("VITRIN_JWT_SECRET", ""),
		},
		Server: ServerConfig{
			Addr:         getEnv("VITRIN_SERVER_ADDR", ":8080"),
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			CORSOrigins:  corsOrigins,
		},
		Cache: CacheConfig{
			ContentStaleTime: contentStale,
			FeatureStaleTime: featureStale,
		},
	}

	err = cfg.validate()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return cfg, nil
}

// validate checks required fields and value bounds.
func (c *Config) validate() error {
	if c.Platform.Domain == "" {
		return errors.New("VITRIN_PLATFORM_DOMAIN is required")
	}
	if strings.Contains(c.Platform.Domain, "/") {
		return fmt.Errorf("VITRIN_PLATFORM_DOMAIN must be a bare hostname, got %q", c.Platform.Domain)
	}

	// JWT secret is required (no insecure default).
	if c.JWT.Secret == "" {
		return errors.New("VITRIN_JWT_SECRET is required")
	}
	if len(c.JWT.Secret) < 32 {
		return errors.New("VITRIN_JWT_SECRET must be at least 32 characters")
	}

	if c.Database.SSLMode == "disable" {
		log.Warn().Msg("VITRIN_DB_SSLMODE=disable is insecure for production; set to 'require' or 'verify-full'")
	}

	// Bounds checks.
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("VITRIN_DB_PORT must be 1-65535, got %d", c.Database.Port)
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("VITRIN_DB_MAX_CONNS must be >= 1, got %d", c.Database.MaxConns)
	}
	if c.Cache.ContentStaleTime < 0 {
		return fmt.Errorf("VITRIN_CACHE_CONTENT_STALE must not be negative, got %s", c.Cache.ContentStaleTime)
	}
	if c.Cache.FeatureStaleTime < 0 {
		return fmt.Errorf("VITRIN_CACHE_FEATURE_STALE must not be negative, got %s", c.Cache.FeatureStaleTime)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("VITRIN_SERVER_READ_TIMEOUT must be positive, got %s", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("VITRIN_SERVER_WRITE_TIMEOUT must be positive, got %s", c.Server.WriteTimeout)
	}

	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as int: %w", key, v, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as duration: %w", key, v, err)
	}
	return d, nil
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
