// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/cinematch/internal/middleware"
)

// compressionLevel is the gzip level for JSON responses.
const compressionLevel = 5

// NewRouter assembles the middleware stack and routes.
func NewRouter(h *Handler, mw *ChiMiddleware) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(mw.CORS())
	r.Use(middleware.PrometheusMetrics)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("No such endpoint")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).Error(http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed")
	})

	// Monitoring endpoints are not rate limited.
	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(mw.RateLimit())
		r.Use(chimiddleware.Compress(compressionLevel, "application/json"))

		r.Get("/", h.Index)
		r.Get("/recommend/{userID}", h.Recommend)
		r.Get("/rated-movies", h.RatedMovies)
		r.Get("/rated-movies/{userID}", h.UserRatedMovies)
		r.Get("/movies/{movieID}", h.Movie)
		r.Get("/users", h.Users)
		r.Post("/rate", h.Rate)
	})

	return r
}
