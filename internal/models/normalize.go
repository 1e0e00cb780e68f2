// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DateFormat is the single textual form of every datetime leaving the service.
const DateFormat = "Mon, 02 Jan 2006 15:04:05 GMT"

// Document is a JSON-ready movie. Keys mirror the stored field names.
type Document map[string]interface{}

// FormatDate renders t in DateFormat, in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateFormat)
}

// Normalize converts a stored movie into its outbound form: the ObjectID
// becomes a hex string, datetimes at any depth become DateFormat strings and
// absent fields are left out.
//
//nolint:gocritic // hugeParam: Movie is read-only here and callers hold values
func Normalize(m Movie) Document {
	doc := make(Document, len(m.Extra)+7)

	for k, v := range m.Extra {
		if nv, ok := normalizeValue(v); ok {
			doc[k] = nv
		}
	}

	if !m.ID.IsZero() {
		doc["_id"] = m.ID.Hex()
	}
	if m.Title != "" {
		doc["title"] = m.Title
	}
	if m.Plot != "" {
		doc["plot"] = m.Plot
	}
	if m.FullPlot != "" {
		doc["fullplot"] = m.FullPlot
	}
	if m.Genres != nil {
		doc["genres"] = append([]string{}, m.Genres...)
	}
	if m.Year.Valid {
		doc["year"] = m.Year
	}
	if m.IMDb != nil {
		imdb := make(map[string]interface{}, 3)
		if m.IMDb.ID.Valid {
			imdb["id"] = m.IMDb.ID
		}
		if m.IMDb.Rating.Valid {
			imdb["rating"] = m.IMDb.Rating
		}
		if m.IMDb.Votes.Valid {
			imdb["votes"] = m.IMDb.Votes
		}
		doc["imdb"] = imdb
	}

	return doc
}

// normalizeValue converts a decoded BSON value into a JSON-safe value.
// ok is false for null and undefined, which are dropped.
func normalizeValue(v interface{}) (interface{}, bool) {
	switch val := v.(type) {
	case nil, primitive.Null, primitive.Undefined:
		return nil, false
	case primitive.ObjectID:
		return val.Hex(), true
	case primitive.DateTime:
		return FormatDate(val.Time()), true
	case time.Time:
		return FormatDate(val), true
	case primitive.Decimal128:
		return val.String(), true
	case bson.M:
		return normalizeMap(val), true
	case map[string]interface{}:
		return normalizeMap(val), true
	case bson.D:
		out := make(map[string]interface{}, len(val))
		for _, e := range val {
			if nv, ok := normalizeValue(e.Value); ok {
				out[e.Key] = nv
			}
		}
		return out, true
	case bson.A:
		return normalizeSlice(val), true
	case []interface{}:
		return normalizeSlice(val), true
	default:
		return v, true
	}
}

func normalizeMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		if nv, ok := normalizeValue(v); ok {
			out[k] = nv
		}
	}
	return out
}

func normalizeSlice(s []interface{}) []interface{} {
	out := make([]interface{}, 0, len(s))
	for _, v := range s {
		nv, ok := normalizeValue(v)
		if !ok {
			nv = nil
		}
		out = append(out, nv)
	}
	return out
}
