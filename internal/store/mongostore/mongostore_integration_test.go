// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

//go:build integration

package mongostore

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/models"
	"github.com/tomtom215/cinematch/internal/store"
	"github.com/tomtom215/cinematch/internal/testinfra"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	testinfra.SkipIfNoDocker(t)

	ctx := context.Background()
	container, err := testinfra.NewMongoContainer(ctx, testinfra.WithTestLogger(t))
	if err != nil {
		t.Fatalf("start mongo: %v", err)
	}
	t.Cleanup(func() { testinfra.CleanupContainer(t, context.Background(), container) })

	s, err := Open(ctx, &config.MongoConfig{
		URI:                    container.URI,
		Database:               "moviesdb_test",
		MoviesCollection:       "movies",
		RatingsCollection:      "ratings",
		ServerSelectionTimeout: 10 * time.Second,
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close(context.Background()) })

	if err := s.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes() error = %v", err)
	}
	return s
}

func TestMongoStore_EndToEnd(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	godfather := primitive.NewObjectID()
	heat := primitive.NewObjectID()
	unrated := primitive.NewObjectID()
	noID := primitive.NewObjectID()

	_, err := s.movies.InsertMany(ctx, []interface{}{
		bson.M{"_id": godfather, "title": "The Godfather", "year": 1972, "genres": bson.A{"Crime", "Drama"},
			"directors": bson.A{"Francis Ford Coppola"}, "imdb": bson.M{"id": 68646, "rating": 9.2},
			"released": time.Date(1972, 3, 24, 0, 0, 0, 0, time.UTC)},
		bson.M{"_id": heat, "title": "Heat", "year": 1995, "genres": bson.A{"Action", "Crime"},
			"imdb": bson.M{"id": 113277, "rating": 8.2}},
		bson.M{"_id": unrated, "title": "Obscure Short", "year": "1999", "imdb": bson.M{"id": 5, "rating": ""}},
		bson.M{"_id": noID, "title": "No External Id", "imdb": bson.M{"rating": 7.0}},
	})
	if err != nil {
		t.Fatalf("seed movies: %v", err)
	}

	user := "7f1c6a3e-2b4d-4c1e-9a8f-0d5e6b7c8a9b"
	_, err = s.ratings.InsertMany(ctx, []interface{}{
		bson.M{"userId": user, "movieId": heat, "rating": 4},
		bson.M{"userId": user, "movieId": godfather.Hex(), "rating": 5},
		bson.M{"userId": user, "movieId": noID, "rating": 3},
		bson.M{"userId": user, "movieId": primitive.NewObjectID(), "rating": 2},
		bson.M{"userId": "other", "movieId": godfather, "rating": 1},
	})
	if err != nil {
		t.Fatalf("seed ratings: %v", err)
	}

	t.Run("top quality puts string ratings last", func(t *testing.T) {
		top, err := s.GetTopQualityItems(ctx, 10)
		if err != nil {
			t.Fatalf("GetTopQualityItems() error = %v", err)
		}
		want := []string{"The Godfather", "Heat", "No External Id", "Obscure Short"}
		if len(top) != len(want) {
			t.Fatalf("got %d movies, want %d", len(top), len(want))
		}
		for i := range want {
			if top[i].Title != want[i] {
				t.Errorf("position %d = %q, want %q", i, top[i].Title, want[i])
			}
		}
	})

	t.Run("rated items resolve and skip", func(t *testing.T) {
		h, err := s.GetRatedItems(ctx, user)
		if err != nil {
			t.Fatalf("GetRatedItems() error = %v", err)
		}
		if len(h.Rated) != 2 || h.Skipped != 2 {
			t.Fatalf("history = %d rated, %d skipped; want 2 and 2", len(h.Rated), h.Skipped)
		}
		if h.Rated[0].Movie.Title != "Heat" || h.Rated[1].Weight != 5 {
			t.Errorf("history = %+v", h.Rated)
		}
	})

	t.Run("get item", func(t *testing.T) {
		m, found, err := s.GetItem(ctx, godfather)
		if err != nil || !found || m.Title != "The Godfather" {
			t.Fatalf("GetItem() = (%v, %v, %v)", m, found, err)
		}
		doc := models.Normalize(*m)
		if doc["released"] != "Fri, 24 Mar 1972 00:00:00 GMT" {
			t.Errorf("released = %v", doc["released"])
		}
		if _, found, err := s.GetItem(ctx, primitive.NewObjectID()); found || err != nil {
			t.Errorf("missing GetItem() = (%v, %v)", found, err)
		}
	})

	t.Run("rated movies join", func(t *testing.T) {
		records, err := s.ListRatedMovies(ctx, "")
		if err != nil {
			t.Fatalf("ListRatedMovies() error = %v", err)
		}
		// the hex string reference and the dangling one do not join
		if len(records) != 3 {
			t.Fatalf("got %d records, want 3", len(records))
		}
		if records[0].Rating.Value != 4 {
			t.Errorf("first user_rating = %v, want 4", records[0].Rating.Value)
		}

		mine, err := s.ListRatedMovies(ctx, user)
		if err != nil || len(mine) != 2 {
			t.Errorf("ListRatedMovies(user) = (%d, %v), want 2", len(mine), err)
		}
	})

	t.Run("users", func(t *testing.T) {
		users, err := s.ListUsers(ctx)
		if err != nil {
			t.Fatalf("ListUsers() error = %v", err)
		}
		if len(users) != 2 || users[0] != user || users[1] != "other" {
			t.Errorf("ListUsers() = %v", users)
		}
	})

	t.Run("ingestion lookups", func(t *testing.T) {
		m, err := s.FindMovieByExternalID(ctx, 113277)
		if err != nil || m.ID != heat {
			t.Errorf("FindMovieByExternalID() = (%v, %v)", m, err)
		}
		if _, err := s.FindMovieByExternalID(ctx, 1); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("missing id error = %v, want ErrNotFound", err)
		}

		m, err = s.FindMovieByTitle(ctx, "  Heat ", 1995)
		if err != nil || m.ID != heat {
			t.Errorf("FindMovieByTitle() = (%v, %v)", m, err)
		}
		if _, err := s.FindMovieByTitle(ctx, "Heat", 2001); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("wrong year error = %v, want ErrNotFound", err)
		}

		m, err = s.SearchMovie(ctx, "coppola")
		if err != nil || m.ID != godfather {
			t.Errorf("SearchMovie(director) = (%v, %v)", m, err)
		}
		if _, err := s.SearchMovie(ctx, "god.ather"); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("regex metacharacters should be literal, got %v", err)
		}

		id, err := s.InsertRating(ctx, &models.NewRating{
			MovieID: heat, UserID: "new-user", Rating: 5, Timestamp: time.Now().UTC(),
		})
		if err != nil || id.IsZero() {
			t.Errorf("InsertRating() = (%v, %v)", id, err)
		}
	})
}

func TestOpen_Unreachable(t *testing.T) {
	_, err := Open(context.Background(), &config.MongoConfig{
		URI:                    "mongodb://127.0.0.1:1",
		Database:               "x",
		MoviesCollection:       "movies",
		RatingsCollection:      "ratings",
		ServerSelectionTimeout: 500 * time.Millisecond,
	})
	if !errors.Is(err, store.ErrStoreUnavailable) {
		t.Errorf("Open() error = %v, want ErrStoreUnavailable", err)
	}
}
