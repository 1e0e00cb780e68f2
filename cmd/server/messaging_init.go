// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package main

import (
	"context"

	"github.com/tomtom215/cinematch/internal/api"
	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/ingest"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/store"
	"github.com/tomtom215/cinematch/internal/supervisor"
	"github.com/tomtom215/cinematch/internal/supervisor/services"
)

// initMessaging sets up NATS when enabled. A setup failure is not fatal:
// recommendations are served without POST /rate.
func initMessaging(ctx context.Context, cfg *config.Config, writer store.RatingWriter) *ingest.Components {
	if !cfg.NATS.Enabled {
		logging.Info().Msg("Messaging disabled (NATS_ENABLED=false), POST /rate unavailable")
		return nil
	}

	components, err := ingest.Setup(ctx, cfg, writer)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to set up messaging, continuing without rating submission")
		return nil
	}
	return components
}

// ratingPublisher returns nil, not a typed nil, when messaging is off.
func ratingPublisher(components *ingest.Components) api.RatingPublisher {
	if components == nil || components.Publisher == nil {
		return nil
	}
	return components.Publisher
}

// addMessagingServices puts the consumer and the server watch under supervision.
func addMessagingServices(tree *supervisor.SupervisorTree, components *ingest.Components) {
	if components == nil {
		return
	}
	if components.Server != nil {
		tree.AddMessagingService(services.NewNATSServerService(components.Server, 0))
	}
	if components.Consumer != nil {
		tree.AddMessagingService(services.NewConsumerService(components.Consumer))
		logging.Info().Msg("Rating consumer added to supervisor tree")
	}
}
