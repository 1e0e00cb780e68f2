// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package ingest

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/models"
	"github.com/tomtom215/cinematch/internal/store"
	"github.com/tomtom215/cinematch/internal/validation"
)

const testUser = "9c4b2f4e-1d2a-4e5b-9f3c-7a8b6c5d4e3f"

// fakeWriter is an in-memory store.RatingWriter.
type fakeWriter struct {
	mu        sync.Mutex
	byID      map[int64]*models.Movie
	byTitle   map[string]*models.Movie
	search    map[string]*models.Movie
	insertErr error
	lookupErr error
	inserted  []models.NewRating
	calls     []string
}

func newFakeWriter() *fakeWriter {
	return &fakeWriter{
		byID:    map[int64]*models.Movie{},
		byTitle: map[string]*models.Movie{},
		search:  map[string]*models.Movie{},
	}
}

func (f *fakeWriter) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeWriter) FindMovieByExternalID(_ context.Context, id int64) (*models.Movie, error) {
	f.record("id")
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	if m, ok := f.byID[id]; ok {
		return m, nil
	}
	return nil, store.NotFound("find by id")
}

func (f *fakeWriter) FindMovieByTitle(_ context.Context, title string, _ int) (*models.Movie, error) {
	f.record("title")
	if m, ok := f.byTitle[title]; ok {
		return m, nil
	}
	return nil, store.NotFound("find by title")
}

func (f *fakeWriter) SearchMovie(_ context.Context, query string) (*models.Movie, error) {
	f.record("search")
	if m, ok := f.search[strings.ToLower(query)]; ok {
		return m, nil
	}
	return nil, store.NotFound("search")
}

func (f *fakeWriter) InsertRating(_ context.Context, r *models.NewRating) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return primitive.NilObjectID, f.insertErr
	}
	f.inserted = append(f.inserted, *r)
	return primitive.NewObjectID(), nil
}

func (f *fakeWriter) insertedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.inserted)
}

func testIngestConfig() *config.IngestConfig {
	return &config.IngestConfig{Enabled: true, Burst: 1, WriteTimeout: time.Second}
}

func ratingMessage(t *testing.T, s validation.RatingSubmission) *message.Message {
	t.Helper()
	msg, err := NewRatingSubmitted(&s).ToMessage()
	if err != nil {
		t.Fatalf("ToMessage() error = %v", err)
	}
	return msg
}

func TestRatingSubmitted_RoundTrip(t *testing.T) {
	t.Parallel()

	sub := validation.RatingSubmission{UserID: testUser, MovieID: 68646, MovieName: "The Godfather", Rating: 5}
	msg := ratingMessage(t, sub)

	if msg.Metadata.Get(MetadataUserID) != testUser {
		t.Errorf("user metadata = %q", msg.Metadata.Get(MetadataUserID))
	}
	if !strings.Contains(string(msg.Payload), `"timestamp"`) || !strings.Contains(string(msg.Payload), `"userId"`) {
		t.Errorf("payload = %s", msg.Payload)
	}

	got, err := DecodeRatingSubmitted(msg.Payload)
	if err != nil {
		t.Fatalf("DecodeRatingSubmitted() error = %v", err)
	}
	if got.RatingSubmission != sub || got.SubmittedAt.IsZero() {
		t.Errorf("decoded = %+v", got)
	}
}

func TestResolveMovie(t *testing.T) {
	t.Parallel()

	heat := &models.Movie{ID: primitive.NewObjectID(), Title: "Heat"}
	tests := []struct {
		name      string
		setup     func(*fakeWriter)
		sub       validation.RatingSubmission
		wantCalls string
		wantErr   error
	}{
		{
			name:      "by external id",
			setup:     func(f *fakeWriter) { f.byID[113277] = heat },
			sub:       validation.RatingSubmission{MovieID: 113277, MovieName: "ignored"},
			wantCalls: "id",
		},
		{
			name:      "by title",
			setup:     func(f *fakeWriter) { f.byTitle["Heat"] = heat },
			sub:       validation.RatingSubmission{MovieID: 1, MovieName: "  Heat "},
			wantCalls: "id,title",
		},
		{
			name:      "by search",
			setup:     func(f *fakeWriter) { f.search["michael mann"] = heat },
			sub:       validation.RatingSubmission{MovieID: 1, MovieName: "Michael Mann"},
			wantCalls: "id,title,search",
		},
		{
			name:      "no name stops after id",
			setup:     func(*fakeWriter) {},
			sub:       validation.RatingSubmission{MovieID: 1},
			wantCalls: "id",
			wantErr:   store.ErrNotFound,
		},
		{
			name:      "store failure is not a miss",
			setup:     func(f *fakeWriter) { f.lookupErr = store.Unavailable("find", errors.New("down")) },
			sub:       validation.RatingSubmission{MovieID: 1, MovieName: "Heat"},
			wantCalls: "id",
			wantErr:   store.ErrStoreUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFakeWriter()
			tt.setup(f)
			m, err := ResolveMovie(context.Background(), f, &tt.sub)

			if got := strings.Join(f.calls, ","); got != tt.wantCalls {
				t.Errorf("calls = %s, want %s", got, tt.wantCalls)
			}
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil || m != heat {
				t.Errorf("ResolveMovie() = (%v, %v)", m, err)
			}
		})
	}
}

func TestConsumer_Process(t *testing.T) {
	t.Parallel()

	heat := &models.Movie{ID: primitive.NewObjectID(), Title: "Heat"}
	valid := validation.RatingSubmission{UserID: testUser, MovieID: 113277, Rating: 4, Comment: "great"}

	tests := []struct {
		name      string
		msg       func(t *testing.T) *message.Message
		insertErr error
		wantAck   bool
		wantRows  int
	}{
		{"stored", func(t *testing.T) *message.Message { return ratingMessage(t, valid) }, nil, true, 1},
		{"malformed payload dropped", func(*testing.T) *message.Message {
			return message.NewMessage(watermill.NewUUID(), []byte("{not json"))
		}, nil, true, 0},
		{"invalid rating dropped", func(t *testing.T) *message.Message {
			bad := valid
			bad.Rating = 9
			return ratingMessage(t, bad)
		}, nil, true, 0},
		{"unknown movie dropped", func(t *testing.T) *message.Message {
			other := valid
			other.MovieID = 42
			return ratingMessage(t, other)
		}, nil, true, 0},
		{"insert failure nacked", func(t *testing.T) *message.Message { return ratingMessage(t, valid) },
			store.Unavailable("insert", errors.New("write conflict")), false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFakeWriter()
			f.byID[113277] = heat
			f.insertErr = tt.insertErr
			c := NewConsumer(nil, "ratings.submitted", f, testIngestConfig())

			msg := tt.msg(t)
			c.process(context.Background(), msg)

			select {
			case <-msg.Acked():
				if !tt.wantAck {
					t.Error("message acked, want nack")
				}
			case <-msg.Nacked():
				if tt.wantAck {
					t.Error("message nacked, want ack")
				}
			default:
				t.Fatal("message neither acked nor nacked")
			}
			if got := f.insertedCount(); got != tt.wantRows {
				t.Errorf("inserted %d rows, want %d", got, tt.wantRows)
			}
		})
	}
}

func TestConsumer_InsertsSubmittedFields(t *testing.T) {
	t.Parallel()

	heat := &models.Movie{ID: primitive.NewObjectID(), Title: "Heat"}
	f := newFakeWriter()
	f.byID[113277] = heat
	c := NewConsumer(nil, "ratings.submitted", f, testIngestConfig())

	r := NewRatingSubmitted(&validation.RatingSubmission{UserID: testUser, MovieID: 113277, Rating: 3.5})
	r.SubmittedAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	msg, err := r.ToMessage()
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Handle(context.Background(), msg); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	got := f.inserted[0]
	if got.MovieID != heat.ID || got.UserID != testUser || got.Rating != 3.5 || got.Comment != "" {
		t.Errorf("inserted = %+v", got)
	}
	if !got.Timestamp.Equal(r.SubmittedAt) {
		t.Errorf("timestamp = %v, want %v", got.Timestamp, r.SubmittedAt)
	}
}

func TestConsumer_RunWithGoChannel(t *testing.T) {
	t.Parallel()

	pubSub := gochannel.NewGoChannel(gochannel.Config{Persistent: true}, watermill.NopLogger{})
	defer pubSub.Close()

	f := newFakeWriter()
	f.byID[113277] = &models.Movie{ID: primitive.NewObjectID(), Title: "Heat"}
	consumer := NewConsumer(pubSub, "ratings.submitted", f, testIngestConfig())
	publisher := NewPublisher(pubSub, "ratings.submitted")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- consumer.Run(ctx) }()

	for i := 0; i < 3; i++ {
		sub := &validation.RatingSubmission{UserID: testUser, MovieID: 113277, Rating: float64(i + 2)}
		if err := publisher.Publish(ctx, NewRatingSubmitted(sub)); err != nil {
			t.Fatalf("Publish() error = %v", err)
		}
	}

	deadline := time.After(5 * time.Second)
	for f.insertedCount() < 3 {
		select {
		case <-deadline:
			t.Fatalf("inserted %d ratings before timeout, want 3", f.insertedCount())
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}
}

func TestPublisher_Closed(t *testing.T) {
	t.Parallel()

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	p := NewPublisher(pubSub, "ratings.submitted")
	if err := p.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	err := p.Publish(context.Background(), NewRatingSubmitted(&validation.RatingSubmission{UserID: testUser}))
	if !errors.Is(err, ErrPublisherClosed) {
		t.Errorf("Publish() after Close = %v, want ErrPublisherClosed", err)
	}
}
