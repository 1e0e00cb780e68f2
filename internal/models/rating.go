// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Rating is a document from the ratings collection.
//
// MovieRef is kept raw because older imports stored the movie reference as a
// hex string instead of an ObjectID; use ResolveMovieRef to read it.
type Rating struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	MovieRef  bson.RawValue      `bson:"movieId"`
	UserID    string             `bson:"userId"`
	Rating    Number             `bson:"rating"`
	Comment   string             `bson:"comment"`
	Timestamp time.Time          `bson:"timestamp"`
}

// NewRating is the document written by the ingestion pipeline.
type NewRating struct {
	MovieID   primitive.ObjectID `bson:"movieId"`
	UserID    string             `bson:"userId"`
	Rating    float64            `bson:"rating"`
	Comment   string             `bson:"comment"`
	Timestamp time.Time          `bson:"timestamp"`
}

// RatedMovie pairs a resolved movie with the weight the user gave it.
type RatedMovie struct {
	Movie  Movie
	Weight float64
}

// RatingHistory is a user's ratings after reference resolution. Rated keeps
// store order; Skipped counts ratings whose movie could not be resolved or
// has no usable external id.
type RatingHistory struct {
	Rated   []RatedMovie
	Skipped int
}

// Total is the number of ratings the user has on record.
func (h *RatingHistory) Total() int {
	return len(h.Rated) + h.Skipped
}

// ResolveMovieRef returns the ObjectID a rating points at. ok is false for a
// missing, null or malformed reference; the caller skips such ratings.
func ResolveMovieRef(ref bson.RawValue) (id primitive.ObjectID, ok bool) {
	switch ref.Type {
	case bsontype.ObjectID:
		id, ok = ref.ObjectIDOK()
		return id, ok && !id.IsZero()
	case bsontype.String:
		s, _ := ref.StringValueOK()
		parsed, err := primitive.ObjectIDFromHex(s)
		if err != nil || parsed.IsZero() {
			return primitive.NilObjectID, false
		}
		return parsed, true
	default:
		return primitive.NilObjectID, false
	}
}
