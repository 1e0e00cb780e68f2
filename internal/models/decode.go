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

// UnmarshalBSON implements bson.Unmarshaler. Only a corrupt document is an
// error: a typed field holding a value of the wrong type is left unset and
// its raw value stays in Extra, so one badly imported movie cannot fail a
// whole query.
func (m *Movie) UnmarshalBSON(data []byte) error {
	doc := bson.Raw(append([]byte(nil), data...))

	var extra bson.M
	if err := bson.Unmarshal(doc, &extra); err != nil {
		return err
	}
	*m = Movie{}

	if v, ok := lookup(doc, "_id"); ok {
		if id, ok := v.ObjectIDOK(); ok {
			m.ID = id
			delete(extra, "_id")
		}
	}
	for key, dst := range map[string]*string{"title": &m.Title, "plot": &m.Plot, "fullplot": &m.FullPlot} {
		if v, ok := lookup(doc, key); ok {
			if s, ok := v.StringValueOK(); ok {
				*dst = s
				delete(extra, key)
			}
		}
	}
	if v, ok := lookup(doc, "genres"); ok {
		if genres, ok := stringArray(v); ok {
			m.Genres = genres
			delete(extra, "genres")
		}
	}
	if v, ok := lookup(doc, "year"); ok {
		_ = m.Year.UnmarshalBSONValue(v.Type, v.Value)
		if m.Year.Valid || isNullish(v.Type) {
			delete(extra, "year")
		}
	}
	if v, ok := lookup(doc, "imdb"); ok {
		if sub, ok := v.DocumentOK(); ok {
			var imdb IMDb
			if err := bson.Unmarshal(sub, &imdb); err == nil {
				m.IMDb = &imdb
				delete(extra, "imdb")
			}
		} else if isNullish(v.Type) {
			delete(extra, "imdb")
		}
	}

	if len(extra) > 0 {
		m.Extra = extra
	}
	return nil
}

// UnmarshalBSON implements bson.Unmarshaler. A mistyped userId or comment
// decodes as empty and a timestamp stored as an RFC 3339 string is parsed;
// anything else leaves the zero time.
func (r *Rating) UnmarshalBSON(data []byte) error {
	doc := bson.Raw(append([]byte(nil), data...))
	if err := doc.Validate(); err != nil {
		return err
	}
	*r = Rating{}

	if v, ok := lookup(doc, "_id"); ok {
		r.ID, _ = v.ObjectIDOK()
	}
	if v, ok := lookup(doc, "movieId"); ok {
		r.MovieRef = v
	}
	if v, ok := lookup(doc, "userId"); ok {
		r.UserID, _ = v.StringValueOK()
	}
	if v, ok := lookup(doc, "rating"); ok {
		_ = r.Rating.UnmarshalBSONValue(v.Type, v.Value)
	}
	if v, ok := lookup(doc, "comment"); ok {
		r.Comment, _ = v.StringValueOK()
	}
	if v, ok := lookup(doc, "timestamp"); ok {
		r.Timestamp = timeValue(v)
	}
	return nil
}

func lookup(doc bson.Raw, key string) (bson.RawValue, bool) {
	v, err := doc.LookupErr(key)
	if err != nil {
		return bson.RawValue{}, false
	}
	return v, true
}

func isNullish(t bsontype.Type) bool {
	return t == bsontype.Null || t == bsontype.Undefined
}

func stringArray(v bson.RawValue) ([]string, bool) {
	arr, ok := v.ArrayOK()
	if !ok {
		return nil, false
	}
	values, err := arr.Values()
	if err != nil {
		return nil, false
	}
	out := make([]string, 0, len(values))
	for _, e := range values {
		s, ok := e.StringValueOK()
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

func timeValue(v bson.RawValue) time.Time {
	switch v.Type {
	case bsontype.DateTime:
		dt, _ := v.DateTimeOK()
		return primitive.DateTime(dt).Time().UTC()
	case bsontype.Timestamp:
		secs, _, _ := v.TimestampOK()
		return time.Unix(int64(secs), 0).UTC()
	case bsontype.String:
		s, _ := v.StringValueOK()
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC()
			}
		}
	}
	return time.Time{}
}
