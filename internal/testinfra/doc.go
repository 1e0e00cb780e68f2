// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

//go:build integration

// Package testinfra provides test infrastructure for integration testing with containers.
//
// It uses testcontainers-go to run a real MongoDB, so the store's aggregation
// pipelines are exercised against the server that runs them in production.
//
// # MongoDB Container
//
//	func TestStore(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//
//	    ctx := context.Background()
//	    mongo, err := testinfra.NewMongoContainer(ctx, testinfra.WithTestLogger(t))
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, mongo)
//
//	    // Use mongo.URI as the connection string
//	}
//
// # CI Considerations
//
// These tests require Docker and network access and only build with the
// integration tag:
//
//	go test -tags integration ./internal/store/...
//
// Tests are skipped gracefully if Docker is unavailable.
package testinfra
