// FlickPulse - Interaction Tracking and Taste Profiling for Media Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flickpulse

package config

import (
	"time"
)

// Config holds all application configuration loaded from environment variables
// and config files. Provides centralized configuration management for all
// application components: tracking, retention, store, events, server, API,
// security, and logging.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml) for persistent settings
//  3. Environment Variables: Override any setting via environment variables
//
// Example - Load configuration from environment:
//
//	cfg, err := config.LoadWithKoanf()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	// cfg.Tracking.RefreshThreshold, cfg.Store.Path, etc. are now populated
//
// Thread Safety:
// Config is immutable after load and safe for concurrent read access from
// multiple goroutines.
type Config struct {
	Tracking  TrackingConfig  `koanf:"tracking"`
	Retention RetentionConfig `koanf:"retention"`
	Store     StoreConfig     `koanf:"store"`
	NATS      NATSConfig      `koanf:"nats"`
	Server    ServerConfig    `koanf:"server"`
	API       APIConfig       `koanf:"api"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// TrackingConfig holds interaction tracking and summary refresh settings.
//
// The refresh guard treats a summary older than RefreshThreshold as stale.
// A stale summary triggers recomputation guarded by a lease of LeaseTTL;
// a crash between claiming the lease and writing the summary self-heals
// once the lease expires.
//
// Environment Variables:
//   - TRACKING_MAX_FETCH: Max records read per summary computation (default: 500)
//   - TRACKING_REFRESH_THRESHOLD: Staleness threshold (default: 6h)
//   - TRACKING_LEASE_TTL: Refresh claim lifetime (default: 2m)
//   - TRACKING_DEBUG_LOGGING: Per-interaction debug logs (default: false)
type TrackingConfig struct {
	// MaxFetch bounds how many of the user's most recent interaction
	// records a summary computation reads.
	MaxFetch int `koanf:"max_fetch"`

	// RefreshThreshold is how old a summary may be before a refresh
	// request triggers recomputation.
	RefreshThreshold time.Duration `koanf:"refresh_threshold"`

	// LeaseTTL bounds how long a refresh claim is honoured. Must exceed
	// the expected compute time by a comfortable margin.
	LeaseTTL time.Duration `koanf:"lease_ttl"`

	// DebugLogging emits a debug log line per logged interaction.
	// Passed explicitly at construction; never read ambiently.
	DebugLogging bool `koanf:"debug_logging"`
}

// RetentionConfig holds interaction record retention settings.
//
// Environment Variables:
//   - RETENTION_DAYS: Age threshold for purging records (default: 90)
//   - RETENTION_BATCH_SIZE: Max deletes per store transaction (default: 500)
//   - RETENTION_INTERVAL: Janitor pass interval (default: 1h)
//   - RETENTION_BATCHES_PER_SECOND: Delete batch pacing (default: 4)
type RetentionConfig struct {
	Days             int           `koanf:"days"`
	BatchSize        int           `koanf:"batch_size"`
	Interval         time.Duration `koanf:"interval"`
	BatchesPerSecond int           `koanf:"batches_per_second"`
}

// StoreConfig holds Badger document store settings.
//
// Environment Variables:
//   - STORE_PATH: Data directory (default: /data/flickpulse)
//   - STORE_IN_MEMORY: Run without disk persistence, for tests (default: false)
type StoreConfig struct {
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`
}

// NATSConfig holds event queue settings for the background refresh pipeline.
// The embedded NATS server with JetStream runs in-process by default; set
// EmbeddedServer false and URL to point at an external broker.
//
// Environment Variables:
//   - NATS_ENABLED: Enable the event pipeline (default: true)
//   - NATS_URL: Broker URL (default: nats://127.0.0.1:4222)
//   - NATS_EMBEDDED: Run embedded server (default: true)
//   - NATS_STORE_DIR: JetStream storage directory
//   - NATS_RETENTION_DAYS: Stream retention (default: 7)
type NATSConfig struct {
	Enabled             bool   `koanf:"enabled"`
	URL                 string `koanf:"url"`
	EmbeddedServer      bool   `koanf:"embedded_server"`
	StoreDir            string `koanf:"store_dir"`
	MaxMemory           int64  `koanf:"max_memory"`
	MaxStore            int64  `koanf:"max_store"`
	StreamRetentionDays int    `koanf:"stream_retention_days"`
	SubscribersCount    int    `koanf:"subscribers_count"`
	DurableName         string `koanf:"durable_name"`
	QueueGroup          string `koanf:"queue_group"`

	// Watermill router middleware settings
	RouterRetryCount           int           `koanf:"router_retry_count"`
	RouterRetryInitialInterval time.Duration `koanf:"router_retry_initial_interval"`
	RouterPoisonQueueEnabled   bool          `koanf:"router_poison_queue_enabled"`
	RouterPoisonQueueTopic     string        `koanf:"router_poison_queue_topic"`
	RouterCloseTimeout         time.Duration `koanf:"router_close_timeout"`
}

// ServerConfig holds HTTP server settings.
//
// Environment Variables:
//   - HTTP_PORT: Listen port (default: 8480)
//   - HTTP_HOST: Bind address (default: 0.0.0.0)
//   - HTTP_TIMEOUT: Request timeout (default: 30s)
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// APIConfig holds response shaping settings for the read endpoints.
type APIConfig struct {
	// AnalyticsCacheTTL bounds how long an analytics report may be served
	// from cache before recomputation.
	AnalyticsCacheTTL time.Duration `koanf:"analytics_cache_ttl"`

	// AnalyticsRecentLimit bounds how many recent records the analytics
	// projection reads.
	AnalyticsRecentLimit int `koanf:"analytics_recent_limit"`
}

// SecurityConfig holds authentication and rate limiting settings.
//
// Admin authentication is optional: when AdminUsername is empty, the API
// runs open (suitable behind a trusted reverse proxy). When set, JWTSecret,
// AdminUsername and AdminPassword must all be configured.
//
// Environment Variables:
//   - JWT_SECRET: Token signing secret (32+ characters)
//   - ADMIN_USERNAME / ADMIN_PASSWORD: Admin credentials
//   - SESSION_TIMEOUT: JWT lifetime (default: 24h)
//   - RATE_LIMIT_REQUESTS / RATE_LIMIT_WINDOW: Global rate limit
//   - CORS_ORIGINS: Comma-separated allowed origins (default: *)
type SecurityConfig struct {
	JWTSecret         string        `koanf:"jwt_secret"`
	SessionTimeout    time.Duration `koanf:"session_timeout"`
	AdminUsername     string        `koanf:"admin_username"`
	AdminPassword     string        `koanf:"admin_password"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	TrustedProxies    []string      `koanf:"trusted_proxies"`
}

// AuthEnabled reports whether admin authentication is configured.
func (s *SecurityConfig) AuthEnabled() bool {
	return s.AdminUsername != ""
}

// LoggingConfig holds logging settings.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json or console (default: json)
//   - LOG_CALLER: Include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}
