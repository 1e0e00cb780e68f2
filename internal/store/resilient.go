// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package store

import (
	"context"
	"errors"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/metrics"
	"github.com/tomtom215/cinematch/internal/models"
)

// Resilient wraps a Backend with a circuit breaker.
//
// Only ErrStoreUnavailable failures count against the breaker; lookups that
// miss and cancelled requests do not. While the breaker is open every call
// fails fast with an error wrapping ErrStoreUnavailable.
type Resilient struct {
	Backend
	cb   *gobreaker.CircuitBreaker[any]
	name string
}

// NewResilient wraps backend with a breaker configured by cfg.
func NewResilient(backend Backend, cfg *config.BreakerConfig) *Resilient {
	name := "store-" + backend.Name()
	threshold := cfg.FailureThreshold

	metrics.RecordCircuitBreakerState(name, int(gobreaker.StateClosed))

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !errors.Is(err, ErrStoreUnavailable) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state transition")
			metrics.RecordCircuitBreakerState(name, int(to))
		},
	})

	return &Resilient{Backend: backend, cb: cb, name: name}
}

// State returns the current breaker state.
func (r *Resilient) State() gobreaker.State {
	return r.cb.State()
}

// execute runs fn through the breaker and maps rejections to ErrStoreUnavailable.
func execute[T any](r *Resilient, op string, fn func() (T, error)) (T, error) {
	res, err := r.cb.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		var zero T
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			logging.Warn().Str("breaker", r.name).Str("op", op).Err(err).Msg("Store request rejected")
			return zero, Unavailable(op, err)
		}
		return zero, err
	}
	typed, _ := res.(T)
	return typed, nil
}

// GetRatedItems calls the backend through the breaker.
func (r *Resilient) GetRatedItems(ctx context.Context, userID string) (*models.RatingHistory, error) {
	return execute(r, "get rated items", func() (*models.RatingHistory, error) {
		return r.Backend.GetRatedItems(ctx, userID)
	})
}

// GetTopQualityItems calls the backend through the breaker.
func (r *Resilient) GetTopQualityItems(ctx context.Context, n int) ([]models.Movie, error) {
	return execute(r, "get top quality items", func() ([]models.Movie, error) {
		return r.Backend.GetTopQualityItems(ctx, n)
	})
}

// GetItem calls the backend through the breaker. A missing movie is a
// success and does not count against the breaker.
func (r *Resilient) GetItem(ctx context.Context, id primitive.ObjectID) (*models.Movie, bool, error) {
	m, err := execute(r, "get item", func() (*models.Movie, error) {
		m, found, err := r.Backend.GetItem(ctx, id)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, nil
		}
		return m, nil
	})
	if err != nil {
		return nil, false, err
	}
	return m, m != nil, nil
}

// ListRatedMovies calls the backend through the breaker.
func (r *Resilient) ListRatedMovies(ctx context.Context, userID string) ([]models.RatedMovieRecord, error) {
	return execute(r, "list rated movies", func() ([]models.RatedMovieRecord, error) {
		return r.Backend.ListRatedMovies(ctx, userID)
	})
}

// ListUsers calls the backend through the breaker.
func (r *Resilient) ListUsers(ctx context.Context) ([]string, error) {
	return execute(r, "list users", func() ([]string, error) {
		return r.Backend.ListUsers(ctx)
	})
}

// Ping checks the backend through the breaker, so an open breaker fails
// readiness without touching the store.
func (r *Resilient) Ping(ctx context.Context) error {
	_, err := execute(r, "ping", func() (struct{}, error) {
		return struct{}{}, r.Backend.Ping(ctx)
	})
	return err
}

// FindMovieByExternalID calls the backend through the breaker. ErrNotFound
// passes through as a success.
func (r *Resilient) FindMovieByExternalID(ctx context.Context, imdbID int64) (*models.Movie, error) {
	return execute(r, "find movie by external id", func() (*models.Movie, error) {
		return r.Backend.FindMovieByExternalID(ctx, imdbID)
	})
}

// FindMovieByTitle calls the backend through the breaker.
func (r *Resilient) FindMovieByTitle(ctx context.Context, title string, year int) (*models.Movie, error) {
	return execute(r, "find movie by title", func() (*models.Movie, error) {
		return r.Backend.FindMovieByTitle(ctx, title, year)
	})
}

// SearchMovie calls the backend through the breaker.
func (r *Resilient) SearchMovie(ctx context.Context, query string) (*models.Movie, error) {
	return execute(r, "search movie", func() (*models.Movie, error) {
		return r.Backend.SearchMovie(ctx, query)
	})
}

// InsertRating writes through the breaker.
func (r *Resilient) InsertRating(ctx context.Context, rating *models.NewRating) (primitive.ObjectID, error) {
	return execute(r, "insert rating", func() (primitive.ObjectID, error) {
		return r.Backend.InsertRating(ctx, rating)
	})
}
