// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RatedMovieRecord is one rating joined with the movie it points at.
type RatedMovieRecord struct {
	RatingID primitive.ObjectID `bson:"_id"`
	UserID   string             `bson:"userId"`
	Rating   Number             `bson:"rating"`
	Movie    Movie              `bson:"movie"`
}

// Document flattens the record into the rated-movies wire form: the movie
// fields at the top level, plus user_rating, userId and movie_id. _id is the
// rating's id.
func (r *RatedMovieRecord) Document() Document {
	doc := Normalize(r.Movie)
	delete(doc, "_id")

	if !r.RatingID.IsZero() {
		doc["_id"] = r.RatingID.Hex()
	}
	if !r.Movie.ID.IsZero() {
		doc["movie_id"] = r.Movie.ID.Hex()
	}
	if r.UserID != "" {
		doc["userId"] = r.UserID
	}
	if r.Rating.Valid {
		doc["user_rating"] = r.Rating
	} else {
		doc["user_rating"] = nil
	}
	return doc
}
