// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package metrics defines the Prometheus instrumentation of Cinematch.
//
// All collectors are registered on the default registry through promauto and
// exposed by the HTTP server at /metrics. Callers use the Record* helpers
// rather than touching collectors directly.
package metrics
