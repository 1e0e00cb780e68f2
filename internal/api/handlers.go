// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tomtom215/cinematch/internal/ingest"
	"github.com/tomtom215/cinematch/internal/models"
	"github.com/tomtom215/cinematch/internal/recommend"
	"github.com/tomtom215/cinematch/internal/store"
)

// Recommender produces recommendations for a user.
type Recommender interface {
	Recommend(ctx context.Context, userID string) (*recommend.Response, error)
}

// Catalog is the read side of the store the query endpoints use.
type Catalog interface {
	GetItem(ctx context.Context, id primitive.ObjectID) (*models.Movie, bool, error)
	ListRatedMovies(ctx context.Context, userID string) ([]models.RatedMovieRecord, error)
	ListUsers(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
}

// RatingPublisher hands accepted ratings to the ingestion pipeline.
type RatingPublisher interface {
	Publish(ctx context.Context, r *ingest.RatingSubmitted) error
}

// Handler serves the API endpoints.
type Handler struct {
	engine       Recommender
	catalog      Catalog
	publisher    RatingPublisher
	queryTimeout time.Duration
	startTime    time.Time
}

// NewHandler creates a handler. publisher may be nil, in which case
// POST /rate answers 503. A zero queryTimeout leaves request contexts as they are.
func NewHandler(engine Recommender, catalog Catalog, publisher RatingPublisher, queryTimeout time.Duration) *Handler {
	return &Handler{
		engine:       engine,
		catalog:      catalog,
		publisher:    publisher,
		queryTimeout: queryTimeout,
		startTime:    time.Now(),
	}
}

// queryContext bounds one store round trip.
func (h *Handler) queryContext(r *http.Request) (context.Context, context.CancelFunc) {
	if h.queryTimeout <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), h.queryTimeout)
}

// writeStoreError maps store and engine errors onto the envelope.
func writeStoreError(rw *ResponseWriter, err error) {
	switch {
	case errors.Is(err, recommend.ErrEmptyCatalog):
		rw.NotFound("No movies are available to recommend")
	case errors.Is(err, store.ErrStoreUnavailable), errors.Is(err, context.DeadlineExceeded):
		rw.ServiceUnavailable("The movie store is unavailable, try again later")
	case errors.Is(err, store.ErrNotFound):
		rw.NotFound("Not found")
	default:
		rw.DatabaseError(err)
	}
}
