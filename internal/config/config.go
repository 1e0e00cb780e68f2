// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package config

import (
	"time"

	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/recommend"
)

// Store backends.
const (
	BackendMongo  = "mongo"
	BackendDuckDB = "duckdb"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig     `koanf:"server"`
	Store     StoreConfig      `koanf:"store"`
	Mongo     MongoConfig      `koanf:"mongo"`
	DuckDB    DuckDBConfig     `koanf:"duckdb"`
	Recommend recommend.Config `koanf:"recommend"`
	Breaker   BreakerConfig    `koanf:"breaker"`
	NATS      NATSConfig       `koanf:"nats"`
	Ingest    IngestConfig     `koanf:"ingest"`
	Logging   LoggingConfig    `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string        `koanf:"host"`
	Port         int           `koanf:"port"`
	Timeout      time.Duration `koanf:"timeout"` // per-request handler timeout
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// CORSOrigins lists allowed origins. "*" allows all.
	CORSOrigins []string `koanf:"cors_origins"`

	// RateLimitReqs requests per RateLimitWindow per client IP.
	// Zero or RateLimitDisabled turns limiting off.
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// StoreConfig selects the document store.
type StoreConfig struct {
	// Backend is "mongo" or "duckdb".
	Backend string `koanf:"backend"`

	// QueryTimeout bounds every store call made on behalf of a request.
	QueryTimeout time.Duration `koanf:"query_timeout"`
}

// MongoConfig holds the MongoDB connection.
type MongoConfig struct {
	URI                    string        `koanf:"uri"`
	Database               string        `koanf:"database"`
	MoviesCollection       string        `koanf:"movies_collection"`
	RatingsCollection      string        `koanf:"ratings_collection"`
	ServerSelectionTimeout time.Duration `koanf:"server_selection_timeout"`

	// EnsureIndexes creates the lookup indexes at startup.
	EnsureIndexes bool `koanf:"ensure_indexes"`
}

// DuckDBConfig holds the embedded backend settings.
type DuckDBConfig struct {
	// Path is the database file. Empty means in-memory.
	Path string `koanf:"path"`

	// MaxMemory is passed to DuckDB as max_memory, e.g. "1GB".
	MaxMemory string `koanf:"max_memory"`

	// SeedFile is an optional JSON array of movie documents imported when
	// the movies table is empty.
	SeedFile string `koanf:"seed_file"`
}

// BreakerConfig configures the circuit breaker around the store.
type BreakerConfig struct {
	Enabled bool `koanf:"enabled"`

	// MaxRequests allowed through while half-open.
	MaxRequests uint32 `koanf:"max_requests"`

	// Interval after which closed-state counts reset.
	Interval time.Duration `koanf:"interval"`

	// Timeout an open breaker waits before going half-open.
	Timeout time.Duration `koanf:"timeout"`

	// FailureThreshold consecutive failures open the breaker.
	FailureThreshold uint32 `koanf:"failure_threshold"`
}

// NATSConfig holds JetStream settings shared by the publisher and consumer.
type NATSConfig struct {
	Enabled        bool   `koanf:"enabled"`
	URL            string `koanf:"url"`
	EmbeddedServer bool   `koanf:"embedded_server"`
	StoreDir       string `koanf:"store_dir"`
	MaxMemory      int64  `koanf:"max_memory"`
	MaxStore       int64  `koanf:"max_store"`

	// EmbeddedPort is the client port of the embedded server; -1 picks a free one.
	EmbeddedPort int `koanf:"embedded_port"`

	// Stream is the JetStream stream that captures Subject.
	Stream string `koanf:"stream"`

	// Subject rating submissions are published to.
	Subject string `koanf:"subject"`

	DurableName      string        `koanf:"durable_name"`
	QueueGroup       string        `koanf:"queue_group"`
	SubscribersCount int           `koanf:"subscribers_count"`
	AckWaitTimeout   time.Duration `koanf:"ack_wait_timeout"`

	// MaxDeliver bounds redelivery of nacked messages.
	MaxDeliver int `koanf:"max_deliver"`

	CloseTimeout time.Duration `koanf:"close_timeout"`
}

// IngestConfig controls the rating consumer.
type IngestConfig struct {
	Enabled bool `koanf:"enabled"`

	// RatePerSecond limits store writes. Zero means unlimited.
	RatePerSecond float64 `koanf:"rate_per_second"`
	Burst         int     `koanf:"burst"`

	// WriteTimeout bounds the movie lookup and insert for one message.
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// LoggingSettings converts to the logging package configuration.
func (c *Config) LoggingSettings() logging.Config {
	lc := logging.DefaultConfig()
	lc.Level = c.Logging.Level
	lc.Format = c.Logging.Format
	lc.Caller = c.Logging.Caller
	return lc
}

// IngestActive reports whether the rating consumer should run.
func (c *Config) IngestActive() bool {
	return c.NATS.Enabled && c.Ingest.Enabled
}
