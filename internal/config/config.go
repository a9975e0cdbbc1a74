package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kode4food/docket/pkg/api"
)

type (
	// Config holds configuration settings for the case workflow engine
	Config struct {
		// API Server
		APIHost  string
		APIPort  int
		LogLevel string

		// Record Store
		StoreBaseURL string
		StoreTimeout time.Duration

		// Schema Cache
		Cache CacheConfig

		// Engine
		NoticeTTL       time.Duration
		ShutdownTimeout time.Duration
	}

	// CacheConfig holds Redis settings for the schema cache
	CacheConfig struct {
		Addr     string
		Password string
		Prefix   string
		DB       int
		TTL      time.Duration
	}
)

const (
	DefaultAPIHost = "0.0.0.0"
	DefaultAPIPort = 8080
	MaxTCPPort     = 65535

	DefaultStoreBaseURL = "http://localhost:6080"
	DefaultStoreTimeout = 30 * time.Second

	DefaultRedisEndpoint = "localhost:6379"
	DefaultRedisDB       = 0
	DefaultCachePrefix   = "docket"
	DefaultCacheTTL      = 5 * time.Minute

	// DefaultNoticeTTL is how long a success notice stays visible before it
	// auto-clears
	DefaultNoticeTTL = 4500 * time.Millisecond

	DefaultShutdownTimeout = 10 * time.Second

	MaxStoreTimeout = 5 * time.Minute
	MaxCacheTTL     = 24 * time.Hour
	MaxNoticeTTL    = time.Minute
)

var (
	ErrInvalidAPIPort      = errors.New("invalid API port")
	ErrMissingStoreBaseURL = errors.New("record store base URL is required")
	ErrInvalidStoreTimeout = errors.New("store timeout must be positive")
	ErrInvalidNoticeTTL    = errors.New("notice TTL must be positive")
)

// NewDefaultConfig creates a configuration with sensible defaults for the
// API server, record store client, schema cache, and notice handling
func NewDefaultConfig() *Config {
	return &Config{
		APIHost:      DefaultAPIHost,
		APIPort:      DefaultAPIPort,
		LogLevel:     "info",
		StoreBaseURL: DefaultStoreBaseURL,
		StoreTimeout: DefaultStoreTimeout,
		Cache: CacheConfig{
			Addr:   DefaultRedisEndpoint,
			DB:     DefaultRedisDB,
			Prefix: DefaultCachePrefix,
			TTL:    DefaultCacheTTL,
		},
		NoticeTTL:       DefaultNoticeTTL,
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

// LoadFromEnv populates configuration values from environment variables.
// Returns an error if any env var cannot be parsed
func (c *Config) LoadFromEnv() error {
	if apiHost := os.Getenv("API_HOST"); apiHost != "" {
		c.APIHost = apiHost
	}
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.LogLevel = logLevel
	}
	if baseURL := os.Getenv("STORE_BASE_URL"); baseURL != "" {
		c.StoreBaseURL = baseURL
	}

	if addr := os.Getenv("CACHE_REDIS_ADDR"); addr != "" {
		c.Cache.Addr = addr
	}
	if password := os.Getenv("CACHE_REDIS_PASSWORD"); password != "" {
		c.Cache.Password = password
	}
	if prefix := os.Getenv("CACHE_REDIS_PREFIX"); prefix != "" {
		c.Cache.Prefix = prefix
	}
	if dbStr := os.Getenv("CACHE_REDIS_DB"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			c.Cache.DB = db
		}
	}

	if err := loadEnvInt("API_PORT", &c.APIPort, 0, MaxTCPPort); err != nil {
		return err
	}
	if err := loadEnvDuration(
		"STORE_TIMEOUT", &c.StoreTimeout, MaxStoreTimeout,
	); err != nil {
		return err
	}
	if err := loadEnvDuration(
		"CACHE_TTL", &c.Cache.TTL, MaxCacheTTL,
	); err != nil {
		return err
	}
	if err := loadEnvDuration(
		"NOTICE_TTL", &c.NoticeTTL, MaxNoticeTTL,
	); err != nil {
		return err
	}

	return nil
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.APIPort <= 0 || c.APIPort > MaxTCPPort {
		return fmt.Errorf("%w: %d", ErrInvalidAPIPort, c.APIPort)
	}
	if strings.TrimSpace(c.StoreBaseURL) == "" {
		return ErrMissingStoreBaseURL
	}
	if c.StoreTimeout <= 0 {
		return ErrInvalidStoreTimeout
	}
	if c.NoticeTTL <= 0 {
		return ErrInvalidNoticeTTL
	}
	return nil
}

// DefaultFieldMap returns the attribute mapping used when a session does not
// inject its own. Attribute names follow the conventional lowercase
// role-suffixed scheme of the default backing schema
func DefaultFieldMap() *api.FieldMap {
	roles := make(map[api.RoleCode]api.RoleAttributes, len(api.Chain))
	for _, role := range api.Chain {
		suffix := api.Name(strings.ToLower(string(role)))
		roles[role] = api.RoleAttributes{
			Custody:      "custody_" + suffix,
			Status:       "status_" + suffix,
			Outcome:      "outcome_" + suffix,
			Note:         "note_" + suffix,
			Reason:       "reason_" + suffix,
			CustodyStamp: "custody_" + suffix + "_at",
			StatusStamp:  "status_" + suffix + "_at",
			OutcomeStamp: "outcome_" + suffix + "_at",
			NoteStamp:    "note_" + suffix + "_at",
		}
	}
	return &api.FieldMap{
		ID:     "objectid",
		Origin: "origin",
		Roles:  roles,
	}
}

// loadEnvInt reads key from the environment, parses it as an integer, and
// sets *dst if the value is in the range (min, max). Returns an error if
// the value cannot be parsed or falls outside the valid range
func loadEnvInt[T ~int | ~int64](key string, dst *T, min, max T) error {
	s := os.Getenv(key)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid %s: %q", key, s)
	}
	tv := T(v)
	if tv <= min || tv > max {
		return fmt.Errorf("invalid %s: %d out of range [%d, %d]",
			key, tv, min+1, max)
	}
	*dst = tv
	return nil
}

// loadEnvDuration reads key from the environment as a millisecond count and
// sets *dst if the value is positive and within max
func loadEnvDuration(key string, dst *time.Duration, max time.Duration) error {
	var ms int64
	limit := int64(max / time.Millisecond)
	if err := loadEnvInt(key, &ms, 0, limit); err != nil {
		return err
	}
	if ms > 0 {
		*dst = time.Duration(ms) * time.Millisecond
	}
	return nil
}
