// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package store

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/models"
)

// fakeBackend fails with err when set and counts calls.
type fakeBackend struct {
	err   error
	calls atomic.Int64
	movie *models.Movie
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) GetRatedItems(context.Context, string) (*models.RatingHistory, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return &models.RatingHistory{Skipped: 1}, nil
}

func (f *fakeBackend) GetTopQualityItems(context.Context, int) ([]models.Movie, error) {
	f.calls.Add(1)
	return nil, f.err
}

func (f *fakeBackend) GetItem(context.Context, primitive.ObjectID) (*models.Movie, bool, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, false, f.err
	}
	return f.movie, f.movie != nil, nil
}

func (f *fakeBackend) ListRatedMovies(context.Context, string) ([]models.RatedMovieRecord, error) {
	f.calls.Add(1)
	return nil, f.err
}

func (f *fakeBackend) ListUsers(context.Context) ([]string, error) {
	f.calls.Add(1)
	return []string{"a"}, f.err
}

func (f *fakeBackend) Ping(context.Context) error {
	f.calls.Add(1)
	return f.err
}

func (f *fakeBackend) Close(context.Context) error { return nil }

func (f *fakeBackend) FindMovieByExternalID(context.Context, int64) (*models.Movie, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return nil, NotFound("find movie by external id")
}

func (f *fakeBackend) FindMovieByTitle(context.Context, string, int) (*models.Movie, error) {
	f.calls.Add(1)
	return nil, f.err
}

func (f *fakeBackend) SearchMovie(context.Context, string) (*models.Movie, error) {
	f.calls.Add(1)
	return nil, f.err
}

func (f *fakeBackend) InsertRating(context.Context, *models.NewRating) (primitive.ObjectID, error) {
	f.calls.Add(1)
	return primitive.NewObjectID(), f.err
}

func breakerConfig() *config.BreakerConfig {
	return &config.BreakerConfig{
		Enabled:          true,
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Hour,
		FailureThreshold: 3,
	}
}

func TestResilient_OpensAfterConsecutiveUnavailable(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{err: Unavailable("ping", errors.New("connection refused"))}
	r := NewResilient(backend, breakerConfig())

	for i := 0; i < 3; i++ {
		if err := r.Ping(context.Background()); !errors.Is(err, ErrStoreUnavailable) {
			t.Fatalf("call %d error = %v, want ErrStoreUnavailable", i, err)
		}
	}
	if r.State() != gobreaker.StateOpen {
		t.Fatalf("State() = %v, want open", r.State())
	}

	before := backend.calls.Load()
	_, err := r.GetRatedItems(context.Background(), "u")
	if !errors.Is(err, ErrStoreUnavailable) || !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("open breaker error = %v, want ErrStoreUnavailable wrapping ErrOpenState", err)
	}
	if backend.calls.Load() != before {
		t.Error("open breaker still called the backend")
	}
}

func TestResilient_NotFoundDoesNotTrip(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{}
	r := NewResilient(backend, breakerConfig())

	for i := 0; i < 10; i++ {
		if _, err := r.FindMovieByExternalID(context.Background(), 1); !errors.Is(err, ErrNotFound) {
			t.Fatalf("error = %v, want ErrNotFound", err)
		}
	}
	if r.State() != gobreaker.StateClosed {
		t.Errorf("State() = %v, want closed", r.State())
	}
}

func TestResilient_PassesResultsThrough(t *testing.T) {
	t.Parallel()

	m := &models.Movie{ID: primitive.NewObjectID(), Title: "Heat"}
	r := NewResilient(&fakeBackend{movie: m}, breakerConfig())

	got, found, err := r.GetItem(context.Background(), m.ID)
	if err != nil || !found || got.Title != "Heat" {
		t.Errorf("GetItem() = (%v, %v, %v)", got, found, err)
	}

	r = NewResilient(&fakeBackend{}, breakerConfig())
	if got, found, err := r.GetItem(context.Background(), m.ID); err != nil || found || got != nil {
		t.Errorf("GetItem() miss = (%v, %v, %v)", got, found, err)
	}

	h, err := r.GetRatedItems(context.Background(), "u")
	if err != nil || h.Skipped != 1 {
		t.Errorf("GetRatedItems() = (%+v, %v)", h, err)
	}
	users, err := r.ListUsers(context.Background())
	if err != nil || len(users) != 1 {
		t.Errorf("ListUsers() = (%v, %v)", users, err)
	}
}

func TestUnavailable_Wraps(t *testing.T) {
	t.Parallel()

	cause := errors.New("server selection timeout")
	err := Unavailable("get top quality items", cause)

	if !errors.Is(err, ErrStoreUnavailable) || !errors.Is(err, cause) {
		t.Errorf("Unavailable() = %v does not wrap both sentinel and cause", err)
	}
	if errors.Is(NotFound("x"), ErrStoreUnavailable) {
		t.Error("NotFound should not match ErrStoreUnavailable")
	}
}

func rating(t *testing.T, movieRef interface{}, value interface{}) models.Rating {
	t.Helper()

	raw, err := bson.Marshal(bson.M{"userId": "u", "movieId": movieRef, "rating": value})
	if err != nil {
		t.Fatalf("marshal rating: %v", err)
	}
	var r models.Rating
	if err := bson.Unmarshal(raw, &r); err != nil {
		t.Fatalf("unmarshal rating: %v", err)
	}
	return r
}

func TestBuildHistory(t *testing.T) {
	t.Parallel()

	withID := models.Movie{ID: primitive.NewObjectID(), Title: "with id", IMDb: &models.IMDb{ID: models.NewNumber(133093)}}
	second := models.Movie{ID: primitive.NewObjectID(), Title: "second", IMDb: &models.IMDb{ID: models.NewNumber(99)}}
	noID := models.Movie{ID: primitive.NewObjectID(), Title: "no id"}
	missing := primitive.NewObjectID()

	ratings := []models.Rating{
		rating(t, second.ID, 3),
		rating(t, withID.ID.Hex(), 5),
		rating(t, noID.ID, 4),
		rating(t, missing, 2),
		rating(t, "garbage", 1),
		rating(t, withID.ID, ""),
	}
	movies := map[primitive.ObjectID]models.Movie{withID.ID: withID, second.ID: second, noID.ID: noID}

	refs := MovieRefs(ratings)
	if len(refs) != 4 {
		t.Errorf("MovieRefs() returned %d ids, want 4 distinct", len(refs))
	}

	h := BuildHistory(ratings, movies)

	if len(h.Rated) != 3 || h.Skipped != 3 {
		t.Fatalf("history = %d rated, %d skipped; want 3 and 3", len(h.Rated), h.Skipped)
	}
	if h.Rated[0].Movie.Title != "second" || h.Rated[1].Movie.Title != "with id" {
		t.Errorf("rating order not kept: %s, %s", h.Rated[0].Movie.Title, h.Rated[1].Movie.Title)
	}
	if h.Rated[1].Weight != 5 || h.Rated[2].Weight != 0 {
		t.Errorf("weights = %v, %v; want 5 and 0", h.Rated[1].Weight, h.Rated[2].Weight)
	}
	if h.Total() != 6 {
		t.Errorf("Total() = %d, want 6", h.Total())
	}
}
