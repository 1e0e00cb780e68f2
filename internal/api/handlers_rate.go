// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cinematch/internal/ingest"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/validation"
)

// maxRatingBodyBytes bounds the POST /rate body.
const maxRatingBodyBytes = 64 << 10

// Rate handles POST /rate. The rating is validated, stamped and published;
// the consumer stores it asynchronously.
func (h *Handler) Rate(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if h.publisher == nil {
		rw.ServiceUnavailable("Rating submission is disabled: messaging is not configured")
		return
	}

	var sub validation.RatingSubmission
	body := http.MaxBytesReader(w, r.Body, maxRatingBodyBytes)
	if err := json.NewDecoder(body).Decode(&sub); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			rw.Error(http.StatusRequestEntityTooLarge, ErrCodeValidation, "Request body too large")
			return
		}
		rw.BadRequest("Request body must be a JSON rating submission")
		return
	}
	if verr := validation.ValidateStruct(&sub); verr != nil {
		rw.ValidationError(verr)
		return
	}

	msg := ingest.NewRatingSubmitted(&sub)
	if err := h.publisher.Publish(r.Context(), msg); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("user_id", sub.UserID).Msg("Failed to publish rating")
		rw.ServiceUnavailable("Rating could not be queued, try again later")
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("user_id", sub.UserID).
		Int64("movie_id", sub.MovieID).
		Float64("rating", sub.Rating).
		Msg("Rating submitted")
	rw.Created(msg)
}
