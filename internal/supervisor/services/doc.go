// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package services adapts the process's long-running components to
// suture.Service: the HTTP server, the rating consumer and the watch on the
// embedded NATS server. Each adapter implements Serve(ctx) error and
// String() for supervisor logging.
package services
