// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package store

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tomtom215/cinematch/internal/models"
)

// MovieRefs returns the distinct resolvable movie ids referenced by ratings.
func MovieRefs(ratings []models.Rating) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ratings))
	ids := make([]primitive.ObjectID, 0, len(ratings))
	for i := range ratings {
		id, ok := models.ResolveMovieRef(ratings[i].MovieRef)
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// BuildHistory pairs ratings with their movies, keeping rating order.
//
// A rating is skipped when its reference is malformed, when the movie is
// missing, or when the movie has no usable external id. A missing or
// non-numeric rating value weighs 0.
func BuildHistory(ratings []models.Rating, movies map[primitive.ObjectID]models.Movie) *models.RatingHistory {
	h := &models.RatingHistory{Rated: make([]models.RatedMovie, 0, len(ratings))}
	for i := range ratings {
		id, ok := models.ResolveMovieRef(ratings[i].MovieRef)
		if !ok {
			h.Skipped++
			continue
		}
		m, ok := movies[id]
		if !ok {
			h.Skipped++
			continue
		}
		if _, ok := m.ExternalID(); !ok {
			h.Skipped++
			continue
		}
		h.Rated = append(h.Rated, models.RatedMovie{Movie: m, Weight: ratings[i].Rating.Or(0)})
	}
	return h
}
