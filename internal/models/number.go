// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package models

import (
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
)

// Number is a numeric document field that may be absent or malformed.
// Valid is false when the field is missing, null, an empty string, or any
// value that cannot be read as a finite number.
type Number struct {
	Value float64
	Valid bool
}

// NewNumber returns a valid Number.
func NewNumber(v float64) Number {
	return Number{Value: v, Valid: true}
}

// IsZero reports whether the field is absent. The BSON encoder uses it for omitempty.
func (n Number) IsZero() bool {
	return !n.Valid
}

// Or returns the value, or def when the field is absent.
func (n Number) Or(def float64) float64 {
	if !n.Valid {
		return def
	}
	return n.Value
}

// Int returns the value as an integer when it is a whole number.
func (n Number) Int() (int64, bool) {
	if !n.Valid || n.Value != math.Trunc(n.Value) {
		return 0, false
	}
	return int64(n.Value), true
}

// UnmarshalBSONValue implements bson.ValueUnmarshaler.
func (n *Number) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	*n = Number{}

	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Double:
		n.set(rv.Double())
	case bsontype.Int32:
		n.set(float64(rv.Int32()))
	case bsontype.Int64:
		n.set(float64(rv.Int64()))
	case bsontype.Decimal128:
		if f, err := strconv.ParseFloat(rv.Decimal128().String(), 64); err == nil {
			n.set(f)
		}
	case bsontype.String:
		n.parse(rv.StringValue())
	}
	return nil
}

// MarshalBSONValue implements bson.ValueMarshaler.
func (n Number) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if !n.Valid {
		return bsontype.Null, nil, nil
	}
	if i, ok := n.Int(); ok && i >= math.MinInt32 && i <= math.MaxInt32 {
		return bsontype.Int32, bsoncore.AppendInt32(nil, int32(i)), nil
	}
	return bsontype.Double, bsoncore.AppendDouble(nil, n.Value), nil
}

// MarshalJSON renders whole numbers without a fractional part and absent
// values as null.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(n.Value, 'f', -1, 64)), nil
}

// UnmarshalJSON accepts numbers, numeric strings and null.
func (n *Number) UnmarshalJSON(data []byte) error {
	*n = Number{}

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case float64:
		n.set(v)
	case string:
		n.parse(v)
	}
	return nil
}

func (n *Number) set(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	n.Value = v
	n.Valid = true
}

func (n *Number) parse(s string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		n.set(f)
	}
}
