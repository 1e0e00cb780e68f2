// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"context"
	"errors"

	"github.com/tomtom215/cinematch/internal/models"
)

// Mode tells the caller which path produced a response.
type Mode string

const (
	// ModeColdStart is the popularity fallback for users without enough history.
	ModeColdStart Mode = "cold_start"

	// ModePersonalized is the content similarity path.
	ModePersonalized Mode = "personalized"
)

// String returns the wire name of the mode.
func (m Mode) String() string {
	return string(m)
}

// Response is the result of one recommendation request.
type Response struct {
	// Mode is cold_start or personalized.
	Mode Mode `json:"mode"`

	// Recommendations holds at most Config.TopK normalized movies, best first.
	// Personalized entries carry their blended score under "score".
	Recommendations []models.Document `json:"recommendations"`
}

// ScoredMovie is a candidate that survived exclusion, with its blended score.
type ScoredMovie struct {
	Movie      models.Movie
	Similarity float64
	Score      float64
}

// ItemStore is the read side of the document store the engine depends on.
//
// Implementations return errors wrapping store.ErrStoreUnavailable when the
// backend cannot serve a request; the engine propagates them unchanged.
type ItemStore interface {
	// GetRatedItems returns the user's ratings joined with their movies.
	// Unresolvable ratings are counted in Skipped, never returned as errors.
	GetRatedItems(ctx context.Context, userID string) (*models.RatingHistory, error)

	// GetTopQualityItems returns up to n movies by imdb rating, descending.
	GetTopQualityItems(ctx context.Context, n int) ([]models.Movie, error)
}

var (
	// ErrDegenerateProfile is returned by BuildProfile when there are no
	// rated rows to average.
	ErrDegenerateProfile = errors.New("taste profile has no rated rows")

	// ErrEmptyCatalog is returned when the store holds no movie to recommend.
	ErrEmptyCatalog = errors.New("catalog has no movies to recommend")
)
