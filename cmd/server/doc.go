// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package main is the entry point for the Cinematch server.

Cinematch serves content-based movie recommendations over HTTP. Users with
few ratings get the highest rated movies of the catalog; everyone else gets
movies whose plot, genres and cast are closest (TF-IDF cosine similarity)
to a profile built from their own ratings, blended with each candidate's
IMDb rating.

# Architecture

	RootSupervisor ("cinematch")
	├── MessagingSupervisor ("messaging-layer")
	│   ├── NATS server watch (nats.embedded_server)
	│   └── Rating consumer (nats.enabled and ingest.enabled)
	└── APISupervisor ("api-layer")
	    └── HTTP server

Startup order:

 1. Configuration: koanf v2 (defaults, config.yaml, environment)
 2. Logging: zerolog, JSON or console
 3. Store: MongoDB or embedded DuckDB, optionally behind a circuit breaker
 4. Recommendation engine with its popularity cache
 5. Messaging (optional): embedded NATS server, JetStream stream,
    rating publisher and consumer
 6. Supervisor tree and HTTP server

# Configuration

Environment variables override the config file, which overrides defaults:

	HTTP_PORT=5000
	STORE_BACKEND=mongo              # or duckdb
	MONGO_URI=mongodb://localhost:27017/moviesdb
	DUCKDB_PATH=/data/cinematch.duckdb
	DUCKDB_SEED_FILE=/data/movies.json
	BREAKER_ENABLED=true
	NATS_ENABLED=true
	NATS_EMBEDDED=true
	INGEST_ENABLED=true
	LOG_LEVEL=info
	LOG_FORMAT=json

CONFIG_PATH points at an explicit YAML file.

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains in-flight
requests, the consumer stops, then the messaging components and the store
are closed.

# Example

	export STORE_BACKEND=duckdb
	export DUCKDB_PATH=""
	export DUCKDB_SEED_FILE=./movies.json
	export NATS_ENABLED=true NATS_EMBEDDED=true NATS_STORE_DIR=/tmp/js
	./cinematch

	curl localhost:5000/recommend/5a1f3c2e-7b8d-4c9e-a1b2-c3d4e5f6a7b8
*/
package main
