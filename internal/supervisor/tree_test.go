// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package supervisor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

// countingService runs until canceled, failing the first fails starts.
type countingService struct {
	name   string
	starts atomic.Int32
	fails  int32
}

func (s *countingService) Serve(ctx context.Context) error {
	n := s.starts.Add(1)
	if n <= s.fails {
		return errors.New("simulated failure")
	}
	<-ctx.Done()
	return ctx.Err()
}

func (s *countingService) String() string { return s.name }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewSupervisorTree_Defaults(t *testing.T) {
	t.Parallel()

	tree, err := NewSupervisorTree(quietLogger(), TreeConfig{FailureBackoff: time.Second})
	if err != nil {
		t.Fatalf("NewSupervisorTree: %v", err)
	}
	if tree.Root() == nil {
		t.Fatal("root supervisor is nil")
	}

	want := DefaultTreeConfig()
	want.FailureBackoff = time.Second
	if tree.config != want {
		t.Errorf("config = %+v, want %+v", tree.config, want)
	}
}

func TestSupervisorTree_RunsBothLayers(t *testing.T) {
	t.Parallel()

	tree, err := NewSupervisorTree(quietLogger(), TreeConfig{ShutdownTimeout: time.Second})
	if err != nil {
		t.Fatal(err)
	}

	consumer := &countingService{name: "consumer"}
	httpSvc := &countingService{name: "http"}
	tree.AddMessagingService(consumer)
	tree.AddAPIService(httpSvc)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for consumer.starts.Load() == 0 || httpSvc.starts.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("services were not started")
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("Serve: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("tree did not stop")
	}
}

func TestSupervisorTree_RestartsFailingService(t *testing.T) {
	t.Parallel()

	tree, err := NewSupervisorTree(quietLogger(), TreeConfig{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		ShutdownTimeout:  time.Second,
	})
	if err != nil {
		t.Fatal(err)
	}

	flaky := &countingService{name: "flaky", fails: 2}
	steady := &countingService{name: "steady"}
	tree.AddMessagingService(flaky)
	tree.AddAPIService(steady)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	errCh := tree.ServeBackground(ctx)

	for flaky.starts.Load() < 3 {
		if ctx.Err() != nil {
			t.Fatalf("flaky service started %d times, want 3", flaky.starts.Load())
		}
		time.Sleep(10 * time.Millisecond)
	}
	if got := steady.starts.Load(); got != 1 {
		t.Errorf("api service started %d times, want 1", got)
	}

	cancel()
	<-errCh
}
