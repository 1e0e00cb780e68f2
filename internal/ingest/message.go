// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package ingest

import (
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/cinematch/internal/validation"
)

// Metadata keys set on every published rating.
const (
	MetadataUserID      = "user_id"
	MetadataContentType = "content_type"
	contentTypeJSON     = "application/json"
)

// RatingSubmitted is the payload of a ratings.submitted message.
type RatingSubmitted struct {
	validation.RatingSubmission

	// SubmittedAt is stamped by the API when the rating is accepted.
	SubmittedAt time.Time `json:"timestamp"`
}

// NewRatingSubmitted stamps s with the current time.
func NewRatingSubmitted(s *validation.RatingSubmission) *RatingSubmitted {
	return &RatingSubmitted{RatingSubmission: *s, SubmittedAt: time.Now().UTC()}
}

// ToMessage encodes r as a watermill message with a fresh UUID.
func (r *RatingSubmitted) ToMessage() (*message.Message, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal rating: %w", err)
	}
	msg := message.NewMessage(uuid.New().String(), payload)
	msg.Metadata.Set(MetadataUserID, r.UserID)
	msg.Metadata.Set(MetadataContentType, contentTypeJSON)
	return msg, nil
}

// DecodeRatingSubmitted parses a message payload.
func DecodeRatingSubmitted(payload []byte) (*RatingSubmitted, error) {
	var r RatingSubmitted
	if err := json.Unmarshal(payload, &r); err != nil {
		return nil, fmt.Errorf("unmarshal rating: %w", err)
	}
	return &r, nil
}
