// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package store defines the document store contract shared by the MongoDB and
// DuckDB backends, plus a circuit breaker decorator usable with either.
//
// Every backend error that means "the store could not serve this request"
// wraps ErrStoreUnavailable, so callers test for it with errors.Is no matter
// which backend is configured. Stores never retry; retry and breaking are the
// decorator's job.
package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tomtom215/cinematch/internal/models"
)

var (
	// ErrStoreUnavailable is wrapped by every error caused by the backend
	// being unreachable, timing out or failing a query.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrNotFound is returned by lookups that match no document.
	ErrNotFound = errors.New("not found")
)

// Store is the read side used by the recommendation engine and the API.
type Store interface {
	// GetRatedItems returns the user's ratings joined with their movies, in
	// rating insertion order. Dangling references are counted, not returned.
	GetRatedItems(ctx context.Context, userID string) (*models.RatingHistory, error)

	// GetTopQualityItems returns up to n movies by imdb rating, descending.
	// Movies without a numeric rating sort last.
	GetTopQualityItems(ctx context.Context, n int) ([]models.Movie, error)

	// GetItem returns one movie. found is false when no movie has the id.
	GetItem(ctx context.Context, id primitive.ObjectID) (movie *models.Movie, found bool, err error)

	// ListRatedMovies joins ratings with movies, best user rating first.
	// An empty userID lists every user.
	ListRatedMovies(ctx context.Context, userID string) ([]models.RatedMovieRecord, error)

	// ListUsers returns the distinct user ids that have rated, ascending.
	ListUsers(ctx context.Context) ([]string, error)

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the backend connection.
	Close(ctx context.Context) error
}

// RatingWriter is the write path used by rating ingestion.
type RatingWriter interface {
	// FindMovieByExternalID looks a movie up by imdb.id.
	FindMovieByExternalID(ctx context.Context, imdbID int64) (*models.Movie, error)

	// FindMovieByTitle matches the exact title, and the year when year > 0.
	FindMovieByTitle(ctx context.Context, title string, year int) (*models.Movie, error)

	// SearchMovie matches query case-insensitively against title, genres and
	// directors and returns the first hit.
	SearchMovie(ctx context.Context, query string) (*models.Movie, error)

	// InsertRating stores a rating and returns its id.
	InsertRating(ctx context.Context, r *models.NewRating) (primitive.ObjectID, error)
}

// Backend is a complete store implementation.
type Backend interface {
	Store
	RatingWriter

	// Name identifies the backend in logs and metrics.
	Name() string
}

// Unavailable wraps a backend failure for op so that it matches
// ErrStoreUnavailable while keeping the cause inspectable.
func Unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}

// NotFound reports a lookup miss for op.
func NotFound(op string) error {
	return fmt.Errorf("%s: %w", op, ErrNotFound)
}
