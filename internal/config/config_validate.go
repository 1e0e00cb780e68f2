// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateStore,
		c.Recommend.Validate,
		c.validateBreaker,
		c.validateNATS,
		c.validateIngest,
		c.validateLogging,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	if !c.Server.RateLimitDisabled && c.Server.RateLimitReqs > 0 && c.Server.RateLimitWindow <= 0 {
		return fmt.Errorf("server.rate_limit_window must be positive when rate limiting is on, got %s", c.Server.RateLimitWindow)
	}
	return nil
}

// validateStore checks the selected backend and its own section only.
func (c *Config) validateStore() error {
	if c.Store.QueryTimeout <= 0 {
		return fmt.Errorf("store.query_timeout must be positive, got %s", c.Store.QueryTimeout)
	}

	switch c.Store.Backend {
	case BackendMongo:
		return c.validateMongo()
	case BackendDuckDB:
		return nil
	default:
		return fmt.Errorf("store.backend must be %q or %q, got %q", BackendMongo, BackendDuckDB, c.Store.Backend)
	}
}

func (c *Config) validateMongo() error {
	if c.Mongo.URI == "" {
		return fmt.Errorf("mongo.uri is required when store.backend=mongo")
	}
	u, err := url.Parse(c.Mongo.URI)
	if err != nil {
		return fmt.Errorf("mongo.uri is invalid: %w", err)
	}
	if u.Scheme != "mongodb" && u.Scheme != "mongodb+srv" {
		return fmt.Errorf("mongo.uri must use mongodb:// or mongodb+srv://, got %q", u.Scheme)
	}
	if c.Mongo.Database == "" {
		return fmt.Errorf("mongo.database is required when store.backend=mongo")
	}
	if c.Mongo.ServerSelectionTimeout <= 0 {
		return fmt.Errorf("mongo.server_selection_timeout must be positive, got %s", c.Mongo.ServerSelectionTimeout)
	}
	return nil
}

func (c *Config) validateBreaker() error {
	if !c.Breaker.Enabled {
		return nil
	}
	if c.Breaker.FailureThreshold == 0 {
		return fmt.Errorf("breaker.failure_threshold must be positive, got 0")
	}
	if c.Breaker.Timeout <= 0 {
		return fmt.Errorf("breaker.timeout must be positive, got %s", c.Breaker.Timeout)
	}
	return nil
}

func (c *Config) validateNATS() error {
	if !c.NATS.Enabled {
		return nil
	}
	if !c.NATS.EmbeddedServer && c.NATS.URL == "" {
		return fmt.Errorf("nats.url is required when nats.embedded_server=false")
	}
	if c.NATS.Stream == "" || strings.ContainsAny(c.NATS.Stream, ".*> ") {
		return fmt.Errorf("nats.stream must be a name without '.', '*', '>' or spaces, got %q", c.NATS.Stream)
	}
	if c.NATS.Subject == "" {
		return fmt.Errorf("nats.subject is required when nats.enabled=true")
	}
	if c.NATS.EmbeddedServer && c.NATS.StoreDir == "" {
		return fmt.Errorf("nats.store_dir is required when nats.embedded_server=true")
	}
	if c.NATS.MaxDeliver < 1 {
		return fmt.Errorf("nats.max_deliver must be positive, got %d", c.NATS.MaxDeliver)
	}
	if c.NATS.SubscribersCount < 1 {
		return fmt.Errorf("nats.subscribers_count must be positive, got %d", c.NATS.SubscribersCount)
	}
	if c.NATS.CloseTimeout <= 0 {
		return fmt.Errorf("nats.close_timeout must be positive, got %s", c.NATS.CloseTimeout)
	}
	return nil
}

func (c *Config) validateIngest() error {
	if c.Ingest.RatePerSecond < 0 {
		return fmt.Errorf("ingest.rate_per_second must be non-negative, got %f", c.Ingest.RatePerSecond)
	}
	if c.Ingest.RatePerSecond > 0 && c.Ingest.Burst < 1 {
		return fmt.Errorf("ingest.burst must be positive when ingest.rate_per_second is set, got %d", c.Ingest.Burst)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled", "":
	default:
		return fmt.Errorf("logging.level %q is not a valid level", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console", "":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
