// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package main

import (
	"context"
	"fmt"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/store"
	"github.com/tomtom215/cinematch/internal/store/duckstore"
	"github.com/tomtom215/cinematch/internal/store/mongostore"
)

// openStore opens the configured backend and wraps it in the circuit
// breaker when enabled.
func openStore(ctx context.Context, cfg *config.Config) (store.Backend, error) {
	var backend store.Backend

	switch cfg.Store.Backend {
	case config.BackendDuckDB:
		s, err := duckstore.Open(ctx, &cfg.DuckDB)
		if err != nil {
			return nil, err
		}
		backend = s

	case config.BackendMongo:
		s, err := mongostore.Open(ctx, &cfg.Mongo)
		if err != nil {
			return nil, err
		}
		if cfg.Mongo.EnsureIndexes {
			if err := s.EnsureIndexes(ctx); err != nil {
				// Missing indexes only slow lookups down.
				logging.Warn().Err(err).Msg("Failed to create store indexes")
			}
		}
		backend = s

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	if cfg.Breaker.Enabled {
		logging.Info().
			Uint32("failure_threshold", cfg.Breaker.FailureThreshold).
			Dur("timeout", cfg.Breaker.Timeout).
			Msg("Store circuit breaker enabled")
		return store.NewResilient(backend, &cfg.Breaker), nil
	}
	return backend, nil
}
