// FlickPulse - Interaction Tracking and Taste Profiling for Media Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flickpulse

package events

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/tomtom215/flickpulse/internal/config"
)

// ServerConfig holds embedded NATS server settings.
type ServerConfig struct {
	Host              string
	Port              int
	StoreDir          string
	JetStreamMaxMem   int64
	JetStreamMaxStore int64
}

// ServerConfigFromNATS derives embedded server settings from application
// config. The listen host and port come from the client URL so embedded and
// external deployments share one setting.
func ServerConfigFromNATS(cfg config.NATSConfig) (ServerConfig, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return ServerConfig{}, fmt.Errorf("parse NATS url %q: %w", cfg.URL, err)
	}

	port := 4222
	if p := u.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil {
			return ServerConfig{}, fmt.Errorf("parse NATS port %q: %w", p, err)
		}
	}

	host := u.Hostname()
	if host == "" {
		host = "127.0.0.1"
	}

	return ServerConfig{
		Host:              host,
		Port:              port,
		StoreDir:          cfg.StoreDir,
		JetStreamMaxMem:   cfg.MaxMemory,
		JetStreamMaxStore: cfg.MaxStore,
	}, nil
}

// StreamConfig holds JetStream stream provisioning settings.
type StreamConfig struct {
	Name            string
	Subjects        []string
	MaxAge          time.Duration
	DuplicateWindow time.Duration
	Replicas        int
}

// StreamConfigFromNATS derives the interaction stream settings.
func StreamConfigFromNATS(cfg config.NATSConfig) StreamConfig {
	return StreamConfig{
		Name:            StreamName,
		Subjects:        []string{"interaction.>"},
		MaxAge:          time.Duration(cfg.StreamRetentionDays) * 24 * time.Hour,
		DuplicateWindow: 2 * time.Minute,
		Replicas:        1,
	}
}

// PublisherConfig holds Watermill NATS publisher settings.
type PublisherConfig struct {
	URL             string
	MaxReconnects   int
	ReconnectWait   time.Duration
	ReconnectBuffer int
	EnableTrackMsgID bool
}

// PublisherConfigFromNATS derives publisher settings.
func PublisherConfigFromNATS(cfg config.NATSConfig) PublisherConfig {
	return PublisherConfig{
		URL:              cfg.URL,
		MaxReconnects:    -1,
		ReconnectWait:    2 * time.Second,
		ReconnectBuffer:  8 * 1024 * 1024,
		EnableTrackMsgID: true,
	}
}

// SubscriberConfig holds Watermill NATS subscriber settings.
type SubscriberConfig struct {
	URL              string
	StreamName       string
	DurableName      string
	QueueGroup       string
	SubscribersCount int
	MaxReconnects    int
	ReconnectWait    time.Duration
	MaxDeliver       int
	MaxAckPending    int
	AckWaitTimeout   time.Duration
	CloseTimeout     time.Duration
}

// SubscriberConfigFromNATS derives subscriber settings.
func SubscriberConfigFromNATS(cfg config.NATSConfig) SubscriberConfig {
	return SubscriberConfig{
		URL:              cfg.URL,
		StreamName:       StreamName,
		DurableName:      cfg.DurableName,
		QueueGroup:       cfg.QueueGroup,
		SubscribersCount: cfg.SubscribersCount,
		MaxReconnects:    -1,
		ReconnectWait:    2 * time.Second,
		MaxDeliver:       5,
		MaxAckPending:    256,
		AckWaitTimeout:   30 * time.Second,
		CloseTimeout:     cfg.RouterCloseTimeout,
	}
}

// RouterConfig holds Watermill router middleware settings.
type RouterConfig struct {
	CloseTimeout         time.Duration
	RetryMaxRetries      int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
	RetryMultiplier      float64
	PoisonQueueEnabled   bool
	PoisonQueueTopic     string
}

// RouterConfigFromNATS derives router settings.
func RouterConfigFromNATS(cfg config.NATSConfig) RouterConfig {
	return RouterConfig{
		CloseTimeout:         cfg.RouterCloseTimeout,
		RetryMaxRetries:      cfg.RouterRetryCount,
		RetryInitialInterval: cfg.RouterRetryInitialInterval,
		RetryMaxInterval:     time.Minute,
		RetryMultiplier:      2.0,
		PoisonQueueEnabled:   cfg.RouterPoisonQueueEnabled,
		PoisonQueueTopic:     cfg.RouterPoisonQueueTopic,
	}
}
