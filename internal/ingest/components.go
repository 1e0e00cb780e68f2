// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/store"
)

// Components holds the messaging pieces of one process. Server and
// Consumer are nil when not configured.
type Components struct {
	Server     *EmbeddedServer
	Publisher  *Publisher
	Consumer   *Consumer
	subscriber message.Subscriber
}

// Setup starts the embedded server when configured, provisions the stream,
// and creates the publisher. The consumer is created only when
// cfg.IngestActive().
func Setup(ctx context.Context, cfg *config.Config, writer store.RatingWriter) (*Components, error) {
	logger := watermill.NewSlogLogger(logging.NewSlogLogger())
	c := &Components{}

	url := cfg.NATS.URL
	if cfg.NATS.EmbeddedServer {
		srv, err := NewEmbeddedServer(&cfg.NATS)
		if err != nil {
			return nil, err
		}
		c.Server = srv
		url = srv.ClientURL()
		logging.Info().Str("url", url).Str("store_dir", cfg.NATS.StoreDir).Msg("Embedded NATS server started")
	}

	if err := ensureStreamAt(ctx, url, &cfg.NATS); err != nil {
		_ = c.Close(ctx)
		return nil, err
	}

	pub, err := NewNATSPublisher(&cfg.NATS, url, logger)
	if err != nil {
		_ = c.Close(ctx)
		return nil, err
	}
	c.Publisher = pub

	if cfg.IngestActive() {
		sub, err := NewNATSSubscriber(&cfg.NATS, url, logger)
		if err != nil {
			_ = c.Close(ctx)
			return nil, err
		}
		c.subscriber = sub
		c.Consumer = NewConsumer(sub, cfg.NATS.Subject, writer, &cfg.Ingest)
	}

	logging.Info().
		Str("stream", cfg.NATS.Stream).
		Str("subject", cfg.NATS.Subject).
		Bool("consumer", c.Consumer != nil).
		Msg("Rating messaging ready")
	return c, nil
}

// Close releases everything Setup created, server last.
func (c *Components) Close(ctx context.Context) error {
	var errs []error
	if c.subscriber != nil {
		if err := c.subscriber.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close subscriber: %w", err))
		}
	}
	if c.Publisher != nil {
		if err := c.Publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close publisher: %w", err))
		}
	}
	if c.Server != nil {
		if err := c.Server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown NATS server: %w", err))
		}
	}
	return errors.Join(errs...)
}
