// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/metrics"
	"github.com/tomtom215/cinematch/internal/models"
	"github.com/tomtom215/cinematch/internal/store"
	"github.com/tomtom215/cinematch/internal/validation"
)

// Outcome labels for metrics.RecordIngest.
const (
	OutcomeStored     = "stored"
	OutcomeMalformed  = "malformed"
	OutcomeInvalid    = "invalid"
	OutcomeUnresolved = "unresolved"
	OutcomeFailed     = "failed"
)

// errDropped marks a message that is acked without being stored.
var errDropped = errors.New("rating dropped")

// Consumer stores rating submissions read from a subscriber.
type Consumer struct {
	subscriber   message.Subscriber
	topic        string
	writer       store.RatingWriter
	limiter      *rate.Limiter
	writeTimeout time.Duration
	logger       zerolog.Logger
}

// NewConsumer creates a consumer for topic. A zero cfg.RatePerSecond
// disables throttling.
func NewConsumer(sub message.Subscriber, topic string, writer store.RatingWriter, cfg *config.IngestConfig) *Consumer {
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	return &Consumer{
		subscriber:   sub,
		topic:        topic,
		writer:       writer,
		limiter:      rate.NewLimiter(limit, burst),
		writeTimeout: cfg.WriteTimeout,
		logger:       logging.WithComponent("ingest"),
	}
}

// Run consumes until ctx is canceled or the subscription closes.
func (c *Consumer) Run(ctx context.Context) error {
	messages, err := c.subscriber.Subscribe(ctx, c.topic)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", c.topic, err)
	}

	c.logger.Info().Str("topic", c.topic).Msg("Rating consumer started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			c.process(ctx, msg)
		}
	}
}

// process acks or nacks msg depending on Handle.
func (c *Consumer) process(ctx context.Context, msg *message.Message) {
	if err := c.Handle(ctx, msg); err != nil {
		c.logger.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("Rating not stored, will be redelivered")
		msg.Nack()
		return
	}
	msg.Ack()
}

// Handle processes one message. It returns an error only when the message
// should be redelivered; dropped ratings return nil.
func (c *Consumer) Handle(ctx context.Context, msg *message.Message) error {
	outcome, err := c.handle(ctx, msg)
	metrics.RecordIngest(outcome)
	if errors.Is(err, errDropped) {
		c.logger.Info().Err(err).Str("message_uuid", msg.UUID).Str("outcome", outcome).Msg("Rating dropped")
		return nil
	}
	return err
}

func (c *Consumer) handle(ctx context.Context, msg *message.Message) (string, error) {
	r, err := DecodeRatingSubmitted(msg.Payload)
	if err != nil {
		return OutcomeMalformed, fmt.Errorf("%w: %w", errDropped, err)
	}
	if verr := validation.ValidateStruct(&r.RatingSubmission); verr != nil {
		return OutcomeInvalid, fmt.Errorf("%w: %w", errDropped, verr)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return OutcomeFailed, fmt.Errorf("throttle: %w", err)
	}

	opCtx := ctx
	if c.writeTimeout > 0 {
		var cancel context.CancelFunc
		opCtx, cancel = context.WithTimeout(ctx, c.writeTimeout)
		defer cancel()
	}

	movie, err := ResolveMovie(opCtx, c.writer, &r.RatingSubmission)
	if errors.Is(err, store.ErrNotFound) {
		return OutcomeUnresolved, fmt.Errorf("%w: no movie for id %d or name %q", errDropped, r.MovieID, r.MovieName)
	}
	if err != nil {
		return OutcomeFailed, err
	}

	ts := r.SubmittedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	id, err := c.writer.InsertRating(opCtx, &models.NewRating{
		MovieID:   movie.ID,
		UserID:    r.UserID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		Timestamp: ts,
	})
	if err != nil {
		return OutcomeFailed, fmt.Errorf("insert rating: %w", err)
	}

	c.logger.Debug().
		Str("rating_id", id.Hex()).
		Str("user_id", r.UserID).
		Str("movie_id", movie.ID.Hex()).
		Float64("rating", r.Rating).
		Msg("Rating stored")
	return OutcomeStored, nil
}

// ResolveMovie finds the movie a submission refers to: by imdb id first,
// then by exact title and optional year, then by a case-insensitive match
// of the name against titles, genres and directors. It returns an error
// wrapping store.ErrNotFound when every step misses.
func ResolveMovie(ctx context.Context, w store.RatingWriter, s *validation.RatingSubmission) (*models.Movie, error) {
	movie, err := w.FindMovieByExternalID(ctx, s.MovieID)
	if !errors.Is(err, store.ErrNotFound) {
		return movie, err
	}

	name := strings.TrimSpace(s.MovieName)
	if name == "" {
		return nil, err
	}

	movie, err = w.FindMovieByTitle(ctx, name, s.Year)
	if !errors.Is(err, store.ErrNotFound) {
		return movie, err
	}
	return w.SearchMovie(ctx, name)
}
