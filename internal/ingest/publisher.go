// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/metrics"
)

// ErrPublisherClosed is returned by Publish after Close.
var ErrPublisherClosed = errors.New("publisher is closed")

// Publisher publishes rating submissions to one topic.
type Publisher struct {
	publisher message.Publisher
	topic     string

	mu     sync.RWMutex
	closed bool
}

// NewPublisher wraps any watermill publisher.
func NewPublisher(pub message.Publisher, topic string) *Publisher {
	return &Publisher{publisher: pub, topic: topic}
}

// NewNATSPublisher creates a JetStream publisher for url. The stream must
// already exist; see EnsureStream.
func NewNATSPublisher(cfg *config.NATSConfig, url string, logger watermill.LoggerAdapter) (*Publisher, error) {
	natsOpts := []natsgo.Option{
		natsgo.Name("cinematch-publisher"),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(2 * time.Second),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS publisher disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS publisher reconnected", watermill.LogFields{"url": nc.ConnectedUrl()})
		}),
	}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         url,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			Disabled:      false,
			AutoProvision: false,
			TrackMsgId:    true,
			PublishOptions: []natsgo.PubOpt{
				natsgo.RetryAttempts(3),
				natsgo.RetryWait(100 * time.Millisecond),
			},
		},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill publisher: %w", err)
	}
	return NewPublisher(pub, cfg.Subject), nil
}

// Publish sends r. The message UUID doubles as the JetStream
// deduplication id.
func (p *Publisher) Publish(_ context.Context, r *RatingSubmitted) (err error) {
	defer func() { metrics.RecordPublish(err) }()

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}

	msg, err := r.ToMessage()
	if err != nil {
		return err
	}
	msg.Metadata.Set(natsgo.MsgIdHdr, msg.UUID)

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("publish rating: %w", err)
	}
	return nil
}

// Close closes the underlying publisher. It is safe to call twice.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	return p.publisher.Close()
}
