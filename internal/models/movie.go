// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package models

import (
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Movie is a catalog document from the movies collection.
type Movie struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Title    string             `bson:"title,omitempty"`
	Plot     string             `bson:"plot,omitempty"`
	FullPlot string             `bson:"fullplot,omitempty"`
	Genres   []string           `bson:"genres,omitempty"`
	Year     Number             `bson:"year,omitempty"`
	IMDb     *IMDb              `bson:"imdb,omitempty"`

	// Extra holds every other stored field (cast, released, tomatoes, ...) as decoded.
	Extra bson.M `bson:",inline"`
}

// IMDb is the embedded imdb sub-document.
type IMDb struct {
	ID     Number `bson:"id,omitempty"`     // external numeric id, 0 or absent means unusable
	Rating Number `bson:"rating,omitempty"` // public rating in [0,10], "" when unrated
	Votes  Number `bson:"votes,omitempty"`
}

// ExternalID returns the movie's imdb id. ok is false when the id is absent,
// zero, negative or not a whole number; such movies are never scored.
func (m *Movie) ExternalID() (id int64, ok bool) {
	if m.IMDb == nil {
		return 0, false
	}
	id, ok = m.IMDb.ID.Int()
	if !ok || id <= 0 {
		return 0, false
	}
	return id, true
}

// ExternalKey is ExternalID rendered as a string, or "" when unusable.
func (m *Movie) ExternalKey() string {
	id, ok := m.ExternalID()
	if !ok {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

// Quality returns imdb.rating, treating an absent rating as 0.
func (m *Movie) Quality() float64 {
	if m.IMDb == nil {
		return 0
	}
	return m.IMDb.Rating.Or(0)
}

// Text returns the document the featurizer indexes for this movie: the long
// plot (or the short plot when the long one is empty) followed by the genres.
func (m *Movie) Text() string {
	plot := m.FullPlot
	if plot == "" {
		plot = m.Plot
	}
	return plot + " " + strings.Join(m.Genres, " ")
}
