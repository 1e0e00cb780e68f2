// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package middleware provides the HTTP middleware specific to this service.

Both components are chi-compatible (func(http.Handler) http.Handler):

  - RequestID: honors an upstream X-Request-ID or generates a UUID, echoes it
    in the response and stores it in the request context for logging
  - PrometheusMetrics: records request count, latency and in-flight requests
    labelled by the matched route pattern

CORS, rate limiting, compression and panic recovery come from the chi
ecosystem and are assembled by the api package.
*/
package middleware
