// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package duckstore

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"

	"github.com/tomtom215/cinematch/internal/models"
)

// listSeparator joins genres and directors into one searchable column.
const listSeparator = "\n"

// movieRow is a movie flattened into the columns of the movies table.
type movieRow struct {
	id        string
	imdbID    sql.NullInt64
	quality   sql.NullFloat64
	title     string
	year      sql.NullInt32
	genres    string
	directors string
	doc       string
}

// encodeMovie flattens m. The stored document is the normalized form, so
// datetimes are already rendered as strings.
//
//nolint:gocritic // hugeParam: Movie is read-only here
func encodeMovie(m models.Movie) (*movieRow, error) {
	doc := models.Normalize(m)
	delete(doc, "_id")

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode movie %s: %w", m.ID.Hex(), err)
	}

	row := &movieRow{
		id:        m.ID.Hex(),
		title:     m.Title,
		genres:    strings.Join(m.Genres, listSeparator),
		directors: strings.Join(stringList(m.Extra["directors"]), listSeparator),
		doc:       string(data),
	}
	if id, ok := m.ExternalID(); ok {
		row.imdbID = sql.NullInt64{Int64: id, Valid: true}
	}
	if m.IMDb != nil && m.IMDb.Rating.Valid {
		row.quality = sql.NullFloat64{Float64: m.IMDb.Rating.Value, Valid: true}
	}
	if y, ok := m.Year.Int(); ok {
		row.year = sql.NullInt32{Int32: int32(y), Valid: true}
	}
	return row, nil
}

// decodeMovie rebuilds a movie from its id column and JSON document by
// round-tripping the document through BSON, so the tolerant decoding of
// models.Movie applies unchanged.
func decodeMovie(id, doc string) (models.Movie, error) {
	var fields map[string]interface{}
	if err := json.Unmarshal([]byte(doc), &fields); err != nil {
		return models.Movie{}, fmt.Errorf("decode movie %s: %w", id, err)
	}
	delete(fields, "_id")

	raw, err := bson.Marshal(fields)
	if err != nil {
		return models.Movie{}, fmt.Errorf("convert movie %s: %w", id, err)
	}

	var m models.Movie
	if err := bson.Unmarshal(raw, &m); err != nil {
		return models.Movie{}, fmt.Errorf("convert movie %s: %w", id, err)
	}
	m.ID, err = primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Movie{}, fmt.Errorf("movie id %q: %w", id, err)
	}
	return m, nil
}

// stringList reads a decoded BSON array of strings, skipping other values.
func stringList(v interface{}) []string {
	var items []interface{}
	switch val := v.(type) {
	case bson.A:
		items = val
	case []interface{}:
		items = val
	case []string:
		return val
	default:
		return nil
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// movieRef converts the stored movie_id column into the raw reference the
// shared resolution logic expects.
func movieRef(ref sql.NullString) bson.RawValue {
	if !ref.Valid {
		return bson.RawValue{}
	}
	return bson.RawValue{Type: bsontype.String, Value: bsoncore.AppendString(nil, ref.String)}
}

func nullNumber(v sql.NullFloat64) models.Number {
	if !v.Valid {
		return models.Number{}
	}
	return models.NewNumber(v.Float64)
}
