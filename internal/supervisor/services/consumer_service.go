// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package services

import (
	"context"
	"errors"
	"fmt"
)

// ErrSubscriptionClosed is returned when the consumer stops on its own, so
// the supervisor resubscribes.
var ErrSubscriptionClosed = errors.New("rating subscription closed")

// ConsumerRunner is satisfied by *ingest.Consumer.
type ConsumerRunner interface {
	Run(ctx context.Context) error
}

// ConsumerService supervises the rating consumer. A failed subscription or
// a closed message channel makes Serve return an error and suture restarts
// it with backoff.
type ConsumerService struct {
	consumer ConsumerRunner
	name     string
}

// NewConsumerService wraps consumer.
func NewConsumerService(consumer ConsumerRunner) *ConsumerService {
	return &ConsumerService{consumer: consumer, name: "rating-consumer"}
}

// Serve implements suture.Service.
func (s *ConsumerService) Serve(ctx context.Context) error {
	err := s.consumer.Run(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return fmt.Errorf("rating consumer: %w", err)
	}
	return ErrSubscriptionClosed
}

func (s *ConsumerService) String() string {
	return s.name
}
