// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package duckstore is an embedded DuckDB backend for the document store.
//
// Movies are kept as their normalized JSON document plus a few extracted
// columns used for sorting and lookups (imdb id, rating, title, year, genres
// and directors). Ratings are a plain table whose seq column preserves
// insertion order. Movie references are stored as ObjectID hex strings.
package duckstore

import (
	"context"
	"database/sql"
	"fmt"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // DuckDB driver

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/metrics"
	"github.com/tomtom215/cinematch/internal/store"
)

const backendName = "duckdb"

// schema is applied on every open; every statement is idempotent.
var schema = []string{
	`CREATE SEQUENCE IF NOT EXISTS ratings_seq START 1`,
	`CREATE TABLE IF NOT EXISTS movies (
		id        VARCHAR PRIMARY KEY,
		imdb_id   BIGINT,
		quality   DOUBLE,
		title     VARCHAR,
		year      INTEGER,
		genres    VARCHAR,
		directors VARCHAR,
		doc       VARCHAR NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS ratings (
		id       VARCHAR PRIMARY KEY,
		seq      BIGINT DEFAULT nextval('ratings_seq'),
		movie_id VARCHAR,
		user_id  VARCHAR NOT NULL,
		rating   DOUBLE,
		comment  VARCHAR,
		ts       TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_movies_imdb_id ON movies(imdb_id)`,
	`CREATE INDEX IF NOT EXISTS idx_movies_title ON movies(title)`,
	`CREATE INDEX IF NOT EXISTS idx_ratings_user ON ratings(user_id)`,
}

// Store is the DuckDB document store.
type Store struct {
	db *sql.DB
}

var _ store.Backend = (*Store)(nil)

// Open opens (or creates) the database at cfg.Path, applies the schema and
// imports cfg.SeedFile when the movies table is empty. An empty path opens
// an in-memory database.
func Open(ctx context.Context, cfg *config.DuckDBConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}

	// Extensions are never needed; auto-install would hang in restricted networks.
	connStr := fmt.Sprintf("%s?threads=%d&autoinstall_known_extensions=false&autoload_known_extensions=false",
		path, runtime.NumCPU())
	if cfg.MaxMemory != "" {
		connStr += "&max_memory=" + cfg.MaxMemory
	}

	db, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, store.Unavailable("open duckdb", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		closeQuietly(db)
		return nil, store.Unavailable("ping duckdb", err)
	}

	s := &Store{db: db}
	if err := s.initialize(ctx); err != nil {
		closeQuietly(db)
		return nil, err
	}

	if cfg.SeedFile != "" {
		n, err := s.LoadSeedFile(ctx, cfg.SeedFile)
		if err != nil {
			closeQuietly(db)
			return nil, fmt.Errorf("seed movies: %w", err)
		}
		if n > 0 {
			logging.Info().Int("movies", n).Str("file", cfg.SeedFile).Msg("Seeded movie catalog")
		}
	}

	logging.Info().Str("path", path).Msg("Opened DuckDB store")

	return s, nil
}

func (s *Store) initialize(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return store.Unavailable("apply schema", err)
		}
	}
	return nil
}

// Name implements store.Backend.
func (s *Store) Name() string { return backendName }

// Ping verifies the database answers.
func (s *Store) Ping(ctx context.Context) (err error) {
	defer observe("ping", time.Now(), &err)

	if err := s.db.PingContext(ctx); err != nil {
		return store.Unavailable("ping", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close(_ context.Context) error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close duckdb: %w", err)
	}
	return nil
}

func observe(op string, start time.Time, err *error) {
	metrics.RecordStoreQuery(backendName, op, time.Since(start), *err)
}
