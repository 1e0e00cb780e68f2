// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package duckstore

import (
	"io"

	"github.com/tomtom215/cinematch/internal/logging"
)

// closeWithLog closes a resource and logs any error.
// Use this where a close failure is worth knowing about but cannot fail the call.
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource on an error path where the close error is not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}

// logUndecodable records a stored document that could not be decoded. The
// row is skipped so one bad document does not fail the whole query.
func logUndecodable(op, id string, err error) {
	logging.Warn().Err(err).Str("op", op).Str("id", id).Msg("Skipping undecodable document")
}
