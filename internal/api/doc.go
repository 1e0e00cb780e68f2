// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package api provides the HTTP API of the recommender.

Routes:

	GET  /                        endpoint index
	GET  /health                  store reachability
	GET  /metrics                 Prometheus exposition
	GET  /recommend/{userID}      personalized or cold start recommendations
	GET  /rated-movies            every rating joined with its movie
	GET  /rated-movies/{userID}   the same, for one user
	GET  /movies/{movieID}        one normalized movie
	GET  /users                   distinct user ids with ratings
	POST /rate                    publish a rating submission

Every JSON response except /metrics uses the APIResponse envelope:

	{"success": true, "data": {...}, "meta": {"request_id": "...", "timestamp": "...", "duration_ms": 3}}
	{"success": false, "error": {"code": "NOT_FOUND", "message": "...", "request_id": "..."}, "meta": {...}}

Store failures map to 503 SERVICE_UNAVAILABLE, which includes an open
circuit breaker. Unexpected store errors map to 500 DATABASE_ERROR. An empty
catalog maps to 404 NOT_FOUND and bad path parameters to 400
VALIDATION_ERROR.

The middleware stack is request id, real IP, panic recovery, CORS
(go-chi/cors), per-IP rate limiting (go-chi/httprate), gzip compression and
Prometheus instrumentation.
*/
package api
