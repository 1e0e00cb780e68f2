// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/tomtom215/cinematch/internal/config"
)

// duplicateWindow is how long JetStream remembers message ids for dedup.
const duplicateWindow = 2 * time.Minute

// JetStreamContext is the subset of jetstream.JetStream EnsureStream uses.
type JetStreamContext interface {
	Stream(ctx context.Context, name string) (jetstream.Stream, error)
	CreateStream(ctx context.Context, cfg jetstream.StreamConfig) (jetstream.Stream, error)
	UpdateStream(ctx context.Context, cfg jetstream.StreamConfig) (jetstream.Stream, error)
}

// StreamConfig returns the stream definition for cfg.
func StreamConfig(cfg *config.NATSConfig) jetstream.StreamConfig {
	return jetstream.StreamConfig{
		Name:       cfg.Stream,
		Subjects:   []string{cfg.Subject},
		Retention:  jetstream.LimitsPolicy,
		Storage:    jetstream.FileStorage,
		Discard:    jetstream.DiscardOld,
		Duplicates: duplicateWindow,
	}
}

// EnsureStream creates the stream, or updates it when it already exists.
func EnsureStream(ctx context.Context, js JetStreamContext, cfg *config.NATSConfig) error {
	streamCfg := StreamConfig(cfg)

	_, err := js.Stream(ctx, streamCfg.Name)
	switch {
	case err == nil:
		if _, err := js.UpdateStream(ctx, streamCfg); err != nil {
			return fmt.Errorf("update stream %s: %w", streamCfg.Name, err)
		}
		return nil
	case errors.Is(err, jetstream.ErrStreamNotFound):
		if _, err := js.CreateStream(ctx, streamCfg); err != nil {
			return fmt.Errorf("create stream %s: %w", streamCfg.Name, err)
		}
		return nil
	default:
		return fmt.Errorf("check stream %s: %w", streamCfg.Name, err)
	}
}

// ensureStreamAt connects to url just long enough to provision the stream.
func ensureStreamAt(ctx context.Context, url string, cfg *config.NATSConfig) error {
	nc, err := natsgo.Connect(url, natsgo.Name("cinematch-provisioner"))
	if err != nil {
		return fmt.Errorf("connect to NATS: %w", err)
	}
	defer nc.Close()

	js, err := jetstream.New(nc)
	if err != nil {
		return fmt.Errorf("jetstream context: %w", err)
	}
	return EnsureStream(ctx, js, cfg)
}
