// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package services

import (
	"context"
	"errors"
	"time"
)

// ErrNATSServerStopped is returned when the embedded server is found down.
var ErrNATSServerStopped = errors.New("embedded NATS server stopped")

// NATSServer is satisfied by *ingest.EmbeddedServer.
type NATSServer interface {
	IsRunning() bool
}

// NATSServerService watches the embedded NATS server. It does not own the
// server: shutdown happens when the messaging components are closed after
// the tree stops. A server that died under the process is reported as a
// service failure so it shows up in supervisor logs and backoff.
type NATSServerService struct {
	server   NATSServer
	interval time.Duration
	name     string
}

// NewNATSServerService polls server every interval (5s when non-positive).
func NewNATSServerService(server NATSServer, interval time.Duration) *NATSServerService {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &NATSServerService{server: server, interval: interval, name: "nats-server"}
}

// Serve implements suture.Service.
func (s *NATSServerService) Serve(ctx context.Context) error {
	if !s.server.IsRunning() {
		return ErrNATSServerStopped
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if !s.server.IsRunning() {
				return ErrNATSServerStopped
			}
		}
	}
}

func (s *NATSServerService) String() string {
	return s.name
}
