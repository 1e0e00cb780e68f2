// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package validation

// UserIDRequest is a user id taken from the request path.
type UserIDRequest struct {
	UserID string `json:"userId" validate:"required,uuid"`
}

// MovieIDRequest is a movie ObjectID in hex, taken from the request path.
type MovieIDRequest struct {
	MovieID string `json:"movieId" validate:"required,len=24,hexadecimal"`
}

// RatingSubmission is a rating sent by a client. MovieID is the movie's
// external imdb id; MovieName and Year are fallbacks used when no movie
// carries that id.
type RatingSubmission struct {
	UserID    string  `json:"userId" validate:"required,uuid"`
	MovieID   int64   `json:"movieId" validate:"gt=0"`
	MovieName string  `json:"movieName,omitempty" validate:"omitempty,max=500"`
	Year      int     `json:"year,omitempty" validate:"omitempty,gte=1870,lte=2200"`
	Rating    float64 `json:"rating" validate:"gte=1,lte=5"`
	Comment   string  `json:"comment,omitempty" validate:"omitempty,max=2000"`
}
