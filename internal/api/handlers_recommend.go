// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/cinematch/internal/models"
	"github.com/tomtom215/cinematch/internal/validation"
)

// UserRatedMoviesResponse is the body of GET /rated-movies/{userID}.
type UserRatedMoviesResponse struct {
	UserID      string            `json:"userId"`
	RatedMovies []models.Document `json:"rated_movies"`
}

// Recommend handles GET /recommend/{userID}.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID, ok := pathUserID(rw, r)
	if !ok {
		return
	}

	ctx, cancel := h.queryContext(r)
	defer cancel()

	resp, err := h.engine.Recommend(ctx, userID)
	if err != nil {
		writeStoreError(rw, err)
		return
	}
	rw.Success(resp)
}

// RatedMovies handles GET /rated-movies.
func (h *Handler) RatedMovies(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	docs, ok := h.ratedMovieDocs(rw, r, "")
	if !ok {
		return
	}
	rw.Success(docs)
}

// UserRatedMovies handles GET /rated-movies/{userID}.
func (h *Handler) UserRatedMovies(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID, ok := pathUserID(rw, r)
	if !ok {
		return
	}
	docs, ok := h.ratedMovieDocs(rw, r, userID)
	if !ok {
		return
	}
	rw.Success(UserRatedMoviesResponse{UserID: userID, RatedMovies: docs})
}

func (h *Handler) ratedMovieDocs(rw *ResponseWriter, r *http.Request, userID string) ([]models.Document, bool) {
	ctx, cancel := h.queryContext(r)
	defer cancel()

	records, err := h.catalog.ListRatedMovies(ctx, userID)
	if err != nil {
		writeStoreError(rw, err)
		return nil, false
	}
	docs := make([]models.Document, len(records))
	for i := range records {
		docs[i] = records[i].Document()
	}
	return docs, true
}

// pathUserID validates the {userID} path parameter, writing 400 when it is
// not a UUID.
func pathUserID(rw *ResponseWriter, r *http.Request) (string, bool) {
	req := validation.UserIDRequest{UserID: chi.URLParam(r, "userID")}
	if verr := validation.ValidateStruct(&req); verr != nil {
		rw.ValidationError(verr)
		return "", false
	}
	return req.UserID, true
}
