// FlickPulse - Interaction Tracking and Taste Profiling for Media Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flickpulse

/*
Package config provides centralized configuration management for FlickPulse.

This package handles loading, validation, and parsing of configuration for all
application components. It ensures consistent configuration across the backend
services and provides sensible defaults for optional settings.

# Configuration Sources

Configuration is layered with Koanf v2, in increasing precedence:
  - Built-in defaults
  - Optional YAML config file (config.yaml, or CONFIG_PATH)
  - Environment variables

# Configuration Structure

The package organizes configuration into logical groups:

  - TrackingConfig: Summary refresh thresholds, fetch bounds, lease TTL
  - RetentionConfig: Record retention window, batch sizing, janitor pacing
  - StoreConfig: Badger document store location
  - NATSConfig: Embedded JetStream broker and Watermill router settings
  - ServerConfig: HTTP server settings (host, port, timeout)
  - APIConfig: Analytics response caching and read limits
  - SecurityConfig: Admin JWT authentication, rate limiting, CORS
  - LoggingConfig: Log level, format, caller reporting

# Environment Variables

Key environment variables by component:

Tracking:
  - TRACKING_MAX_FETCH: Max records per summary computation (default: 500)
  - TRACKING_REFRESH_THRESHOLD: Staleness threshold (default: 6h)
  - TRACKING_LEASE_TTL: Refresh claim lifetime (default: 2m)

Retention:
  - RETENTION_DAYS: Purge records older than this (default: 90)
  - RETENTION_BATCH_SIZE: Deletes per transaction (default: 500)
  - RETENTION_INTERVAL: Janitor pass interval (default: 1h)

Store:
  - STORE_PATH: Data directory (default: /data/flickpulse)

Server:
  - HTTP_HOST: Bind address (default: 0.0.0.0)
  - HTTP_PORT: Listen port (default: 8480)

Security:
  - ADMIN_USERNAME / ADMIN_PASSWORD: Enable admin auth when set
  - JWT_SECRET: Token signing secret (min 32 chars when auth enabled)

# Usage

	cfg, err := config.LoadWithKoanf()
	if err != nil {
	    log.Fatal("Failed to load config:", err)
	}
	store, err := store.Open(cfg.Store)

Validation runs as part of loading; a misconfigured value fails fast with an
error naming the offending environment variable.
*/
package config
