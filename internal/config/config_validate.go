// FlickPulse - Interaction Tracking and Taste Profiling for Media Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flickpulse

package config

import (
	"fmt"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateTracking(); err != nil {
		return err
	}

	if err := c.validateRetention(); err != nil {
		return err
	}

	if err := c.validateStore(); err != nil {
		return err
	}

	if err := c.validateNATS(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateTracking validates summary refresh settings
func (c *Config) validateTracking() error {
	if c.Tracking.MaxFetch < 1 || c.Tracking.MaxFetch > 10000 {
		return fmt.Errorf("TRACKING_MAX_FETCH must be between 1 and 10000")
	}
	if c.Tracking.RefreshThreshold <= 0 {
		return fmt.Errorf("TRACKING_REFRESH_THRESHOLD must be positive")
	}
	if c.Tracking.LeaseTTL <= 0 {
		return fmt.Errorf("TRACKING_LEASE_TTL must be positive")
	}
	if c.Tracking.LeaseTTL >= c.Tracking.RefreshThreshold {
		return fmt.Errorf("TRACKING_LEASE_TTL must be shorter than TRACKING_REFRESH_THRESHOLD")
	}
	return nil
}

// validateRetention validates retention janitor settings
func (c *Config) validateRetention() error {
	if c.Retention.Days < 1 {
		return fmt.Errorf("RETENTION_DAYS must be at least 1")
	}
	if c.Retention.BatchSize < 1 || c.Retention.BatchSize > 10000 {
		return fmt.Errorf("RETENTION_BATCH_SIZE must be between 1 and 10000")
	}
	if c.Retention.Interval <= 0 {
		return fmt.Errorf("RETENTION_INTERVAL must be positive")
	}
	if c.Retention.BatchesPerSecond < 1 {
		return fmt.Errorf("RETENTION_BATCHES_PER_SECOND must be at least 1")
	}
	return nil
}

// validateStore validates the document store settings
func (c *Config) validateStore() error {
	if !c.Store.InMemory && c.Store.Path == "" {
		return fmt.Errorf("STORE_PATH is required unless STORE_IN_MEMORY=true")
	}
	return nil
}

// validateNATS validates the event queue settings (only if enabled)
func (c *Config) validateNATS() error {
	if !c.NATS.Enabled {
		return nil
	}

	if c.NATS.URL == "" {
		return fmt.Errorf("NATS_URL is required when NATS_ENABLED=true")
	}
	if c.NATS.EmbeddedServer && c.NATS.StoreDir == "" {
		return fmt.Errorf("NATS_STORE_DIR is required when NATS_EMBEDDED=true")
	}
	if c.NATS.StreamRetentionDays < 1 {
		return fmt.Errorf("NATS_RETENTION_DAYS must be at least 1")
	}
	if c.NATS.SubscribersCount < 1 || c.NATS.SubscribersCount > 64 {
		return fmt.Errorf("NATS_SUBSCRIBERS must be between 1 and 64")
	}
	if c.NATS.RouterRetryCount < 0 {
		return fmt.Errorf("NATS_ROUTER_RETRY_COUNT must not be negative")
	}
	if c.NATS.RouterPoisonQueueEnabled && c.NATS.RouterPoisonQueueTopic == "" {
		return fmt.Errorf("NATS_ROUTER_POISON_TOPIC is required when poison queue is enabled")
	}
	return nil
}

// validateServer validates HTTP server settings
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Host == "" {
		return fmt.Errorf("HTTP_HOST must not be empty")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

// validateSecurity validates authentication settings. Admin auth is optional;
// when enabled all of username, password and JWT secret must be set.
func (c *Config) validateSecurity() error {
	if !c.Security.AuthEnabled() {
		return nil
	}

	if c.Security.AdminPassword == "" {
		return fmt.Errorf("ADMIN_PASSWORD is required when ADMIN_USERNAME is set")
	}
	if len(c.Security.AdminPassword) < 12 {
		return fmt.Errorf("ADMIN_PASSWORD must be at least 12 characters")
	}
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when ADMIN_USERNAME is set")
	}
	if len(c.Security.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}
	if c.Security.SessionTimeout <= 0 {
		return fmt.Errorf("SESSION_TIMEOUT must be positive")
	}
	return nil
}

// validateLogging validates logging settings
func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console")
	}

	return nil
}
