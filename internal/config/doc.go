// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package config provides centralized configuration management for Cinematch.

Configuration is layered with koanf, each layer overriding the previous one:

 1. Struct defaults (defaultConfig)
 2. An optional YAML file, located through CONFIG_PATH or DefaultConfigPaths
 3. Environment variables, through an explicit name mapping

Only mapped environment variables are read, so unrelated variables in the
process environment never leak into the configuration.

# Sections

  - server: HTTP listener, timeouts, CORS origins and per-IP rate limit
  - store: backend selection (mongo or duckdb) and per-query timeout
  - mongo: connection URI and database name
  - duckdb: embedded database file and optional JSON seed
  - recommend: engine tunables (see recommend.Config)
  - breaker: circuit breaker around the store
  - nats: JetStream connection, embedded server and consumer settings
  - ingest: rating consumer switch and write throttle
  - logging: level, format and caller

# Example

	cfg, err := config.LoadWithKoanf()
	if err != nil {
	    log.Fatal(err)
	}
	fmt.Println(cfg.Server.Port)

# Environment Variables

	MONGO_URI=mongodb://localhost:27017/moviesdb
	MONGO_DATABASE=moviesdb
	STORE_BACKEND=mongo
	HTTP_PORT=5000
	LOG_LEVEL=info
	NATS_EMBEDDED=true
	INGEST_ENABLED=true
*/
package config
