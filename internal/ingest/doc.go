// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package ingest moves rating submissions from the API into the store through
NATS JetStream.

POST /rate publishes a RatingSubmitted message on the ratings subject. The
Consumer reads that subject through a durable watermill subscription and,
for each message:

 1. decodes and validates it; bad payloads are acked and dropped
 2. resolves the movie by imdb id, then by exact title (and year), then by a
    case-insensitive match on title, genres or directors; unresolved ratings
    are acked and dropped
 3. inserts the rating; a failed insert is nacked so JetStream redelivers it,
    up to nats.max_deliver times

Store writes are throttled with a token bucket (golang.org/x/time/rate).

Components wires everything for a process: an optional embedded NATS server,
the stream, the publisher and the consumer. Tests use watermill's gochannel
pub/sub in place of NATS.
*/
package ingest
