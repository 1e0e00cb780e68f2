// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/cinematch/internal/recommend"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/cinematch/config.yaml",
	"/etc/cinematch/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            5000,
			Timeout:         30 * time.Second,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Store: StoreConfig{
			Backend:      BackendMongo,
			QueryTimeout: 10 * time.Second,
		},
		Mongo: MongoConfig{
			URI:                    "mongodb://localhost:27017/moviesdb",
			Database:               "moviesdb",
			MoviesCollection:       "movies",
			RatingsCollection:      "ratings",
			ServerSelectionTimeout: 5 * time.Second,
			EnsureIndexes:          true,
		},
		DuckDB: DuckDBConfig{
			Path:      "/data/cinematch.duckdb",
			MaxMemory: "1GB",
		},
		Recommend: recommend.DefaultConfig(),
		Breaker: BreakerConfig{
			Enabled:          true,
			MaxRequests:      3,
			Interval:         time.Minute,
			Timeout:          30 * time.Second,
			FailureThreshold: 5,
		},
		NATS: NATSConfig{
			Enabled:          false,
			URL:              "nats://127.0.0.1:4222",
			EmbeddedServer:   false,
			EmbeddedPort:     4222,
			StoreDir:         "/data/nats/jetstream",
			MaxMemory:        256 << 20, // 256MB
			MaxStore:         1 << 30,   // 1GB
			Stream:           "RATINGS",
			Subject:          "ratings.submitted",
			DurableName:      "rating-ingest",
			QueueGroup:       "ingest",
			SubscribersCount: 1,
			AckWaitTimeout:   30 * time.Second,
			MaxDeliver:       5,
			CloseTimeout:     30 * time.Second,
		},
		Ingest: IngestConfig{
			Enabled:       true,
			RatePerSecond: 50,
			Burst:         10,
			WriteTimeout:  10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration from defaults, an optional YAML file and
// the environment, then validates it.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or "" if none.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings while the YAML file already yields slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_host":           "server.host",
	"http_port":           "server.port",
	"http_timeout":        "server.timeout",
	"http_read_timeout":   "server.read_timeout",
	"http_write_timeout":  "server.write_timeout",
	"cors_origins":        "server.cors_origins",
	"rate_limit_requests": "server.rate_limit_reqs",
	"rate_limit_window":   "server.rate_limit_window",
	"disable_rate_limit":  "server.rate_limit_disabled",

	// Store
	"store_backend":       "store.backend",
	"store_query_timeout": "store.query_timeout",

	// MongoDB
	"mongo_uri":                "mongo.uri",
	"mongo_database":           "mongo.database",
	"mongo_movies_collection":  "mongo.movies_collection",
	"mongo_ratings_collection": "mongo.ratings_collection",
	"mongo_selection_timeout":  "mongo.server_selection_timeout",
	"mongo_ensure_indexes":     "mongo.ensure_indexes",

	// DuckDB
	"duckdb_path":       "duckdb.path",
	"duckdb_max_memory": "duckdb.max_memory",
	"duckdb_seed_file":  "duckdb.seed_file",

	// Recommendation engine
	"recommend_cold_start_threshold": "recommend.cold_start_threshold",
	"recommend_candidate_pool":       "recommend.candidate_pool",
	"recommend_top_k":                "recommend.top_k",
	"recommend_max_features":         "recommend.max_features",
	"recommend_similarity_weight":    "recommend.similarity_weight",
	"recommend_quality_weight":       "recommend.quality_weight",
	"recommend_quality_scale":        "recommend.quality_scale",

	// Circuit breaker
	"breaker_enabled":           "breaker.enabled",
	"breaker_max_requests":      "breaker.max_requests",
	"breaker_interval":          "breaker.interval",
	"breaker_timeout":           "breaker.timeout",
	"breaker_failure_threshold": "breaker.failure_threshold",

	// NATS
	"nats_enabled":       "nats.enabled",
	"nats_url":           "nats.url",
	"nats_embedded":      "nats.embedded_server",
	"nats_embedded_port": "nats.embedded_port",
	"nats_store_dir":     "nats.store_dir",
	"nats_max_memory":    "nats.max_memory",
	"nats_max_store":     "nats.max_store",
	"nats_stream":        "nats.stream",
	"nats_subject":       "nats.subject",
	"nats_durable_name":  "nats.durable_name",
	"nats_queue_group":   "nats.queue_group",
	"nats_subscribers":   "nats.subscribers_count",
	"nats_ack_wait":      "nats.ack_wait_timeout",
	"nats_max_deliver":   "nats.max_deliver",
	"nats_close_timeout": "nats.close_timeout",

	// Ingestion
	"ingest_enabled":       "ingest.enabled",
	"ingest_rate":          "ingest.rate_per_second",
	"ingest_burst":         "ingest.burst",
	"ingest_write_timeout": "ingest.write_timeout",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - MONGO_URI -> mongo.uri
//   - HTTP_PORT -> server.port
//   - NATS_EMBEDDED -> nats.embedded_server
//
// Unmapped variables return "" and are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
