// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/models"
	"github.com/tomtom215/cinematch/internal/validation"
)

// endpoints is the route map returned by Index.
var endpoints = map[string]string{
	"GET /":                      "This index",
	"GET /health":                "Service and store health",
	"GET /metrics":               "Prometheus metrics",
	"GET /recommend/{userID}":    "Top 10 recommendations for a user",
	"GET /rated-movies":          "All ratings joined with their movies",
	"GET /rated-movies/{userID}": "Ratings of one user joined with their movies",
	"GET /movies/{movieID}":      "One movie by id",
	"GET /users":                 "User ids with at least one rating",
	"POST /rate":                 "Submit a rating",
}

// IndexResponse is the body of GET /.
type IndexResponse struct {
	Message   string            `json:"message"`
	Time      string            `json:"time"`
	Endpoints map[string]string `json:"endpoints"`
}

// Index handles GET /.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(IndexResponse{
		Message:   "Cinematch movie recommendation API",
		Time:      models.FormatDate(time.Now()),
		Endpoints: endpoints,
	})
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status        string  `json:"status"`
	Store         string  `json:"store"`
	Messaging     bool    `json:"messaging"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// Health handles GET /health. It answers 503 when the store does not respond.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	ctx, cancel := h.queryContext(r)
	defer cancel()

	resp := HealthResponse{
		Status:        "healthy",
		Store:         "connected",
		Messaging:     h.publisher != nil,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}
	if err := h.catalog.Ping(ctx); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Health check failed")
		resp.Status = "unhealthy"
		resp.Store = "unavailable"
		rw.ErrorWithDetails(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "The movie store is unavailable", resp)
		return
	}
	rw.Success(resp)
}

// Users handles GET /users.
func (h *Handler) Users(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	ctx, cancel := h.queryContext(r)
	defer cancel()

	users, err := h.catalog.ListUsers(ctx)
	if err != nil {
		writeStoreError(rw, err)
		return
	}
	rw.Success(users)
}

// Movie handles GET /movies/{movieID}.
func (h *Handler) Movie(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	req := validation.MovieIDRequest{MovieID: chi.URLParam(r, "movieID")}
	if verr := validation.ValidateStruct(&req); verr != nil {
		rw.ValidationError(verr)
		return
	}
	id, err := primitive.ObjectIDFromHex(req.MovieID)
	if err != nil {
		rw.BadRequest("movieId must be a 24 character hex ObjectID")
		return
	}

	ctx, cancel := h.queryContext(r)
	defer cancel()

	movie, found, err := h.catalog.GetItem(ctx, id)
	if err != nil {
		writeStoreError(rw, err)
		return
	}
	if !found {
		rw.NotFound("Movie not found")
		return
	}
	rw.Success(models.Normalize(*movie))
}
