// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/models"
)

var errStoreDown = errors.New("store down")

// mockStore is an in-memory ItemStore.
type mockStore struct {
	catalog  []models.Movie
	history  map[string]*models.RatingHistory
	err      error
	topCalls atomic.Int64
}

func (m *mockStore) GetRatedItems(_ context.Context, userID string) (*models.RatingHistory, error) {
	if m.err != nil {
		return nil, m.err
	}
	if h, ok := m.history[userID]; ok {
		return h, nil
	}
	return &models.RatingHistory{}, nil
}

func (m *mockStore) GetTopQualityItems(_ context.Context, n int) ([]models.Movie, error) {
	m.topCalls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	sorted := make([]models.Movie, len(m.catalog))
	copy(sorted, m.catalog)
	sort.SliceStable(sorted, func(a, b int) bool { return sorted[a].Quality() > sorted[b].Quality() })
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted, nil
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func testCatalog() []models.Movie {
	return []models.Movie{
		movie(1, 8.5, "space ship crew explores distant galaxy alien", "Sci-Fi"),
		movie(2, 8.0, "astronaut stranded alone on mars survives", "Sci-Fi", "Drama"),
		movie(3, 7.9, "alien creature hunts crew aboard space ship", "Horror", "Sci-Fi"),
		movie(4, 9.2, "mafia family patriarch hands empire to son", "Crime", "Drama"),
		movie(5, 6.1, "two friends road trip comedy wedding", "Comedy"),
		movie(6, 7.0, "robot learns love galaxy space", "Sci-Fi", "Romance"),
		movie(7, 5.5, "wedding planner falls in love comedy", "Comedy", "Romance"),
		movie(8, 0, "documentary about deep ocean life"),
		movie(0, 9.9, "mysterious film without imdb id space alien"),
	}
}

func newTestEngine(t *testing.T, store ItemStore) *Engine {
	t.Helper()

	e, err := NewEngine(DefaultConfig(), store, NewPopularityCache(), testLogger())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

func ratedFrom(catalog []models.Movie, weights map[int64]float64) *models.RatingHistory {
	h := &models.RatingHistory{}
	for _, m := range catalog {
		id, ok := m.ExternalID()
		if !ok {
			continue
		}
		if w, ok := weights[id]; ok {
			h.Rated = append(h.Rated, models.RatedMovie{Movie: m, Weight: w})
		}
	}
	return h
}

func TestNewEngine_Validation(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.TopK = 0
	if _, err := NewEngine(cfg, &mockStore{}, nil, testLogger()); err == nil {
		t.Error("expected error for top_k = 0")
	}
	if _, err := NewEngine(DefaultConfig(), nil, nil, testLogger()); err == nil {
		t.Error("expected error for nil store")
	}
}

func TestRecommend_ColdStartBelowThreshold(t *testing.T) {
	t.Parallel()

	catalog := testCatalog()
	store := &mockStore{
		catalog: catalog,
		history: map[string]*models.RatingHistory{
			// 2 valid ratings and 5 dangling ones
			"u1": {Rated: ratedFrom(catalog, map[int64]float64{1: 5, 2: 4}).Rated, Skipped: 5},
		},
	}
	e := newTestEngine(t, store)

	resp, err := e.Recommend(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if resp.Mode != ModeColdStart {
		t.Fatalf("Mode = %s, want cold_start", resp.Mode)
	}
	assertQualityNonIncreasing(t, resp.Recommendations)

	if resp.Recommendations[0]["title"] != "mysterious film without imdb id space alien" {
		t.Errorf("first cold start title = %v", resp.Recommendations[0]["title"])
	}
}

func TestRecommend_UnknownUserColdStart(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, &mockStore{catalog: testCatalog()})

	resp, err := e.Recommend(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if resp.Mode != ModeColdStart {
		t.Errorf("Mode = %s, want cold_start", resp.Mode)
	}
	if len(resp.Recommendations) > DefaultConfig().TopK {
		t.Errorf("got %d recommendations, want <= %d", len(resp.Recommendations), DefaultConfig().TopK)
	}
}

func TestRecommend_NoRatableDataFallsBack(t *testing.T) {
	t.Parallel()

	store := &mockStore{
		catalog: testCatalog(),
		history: map[string]*models.RatingHistory{"u": {Skipped: 4}},
	}
	e := newTestEngine(t, store)

	resp, err := e.Recommend(context.Background(), "u")
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if resp.Mode != ModeColdStart {
		t.Errorf("Mode = %s, want cold_start", resp.Mode)
	}
}

func TestRecommend_PersonalizedAtThreshold(t *testing.T) {
	t.Parallel()

	catalog := testCatalog()
	store := &mockStore{
		catalog: catalog,
		history: map[string]*models.RatingHistory{
			"fan": ratedFrom(catalog, map[int64]float64{1: 5, 3: 4, 6: 3}),
		},
	}
	e := newTestEngine(t, store)

	resp, err := e.Recommend(context.Background(), "fan")
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if resp.Mode != ModePersonalized {
		t.Fatalf("Mode = %s, want personalized", resp.Mode)
	}
	if len(resp.Recommendations) == 0 || len(resp.Recommendations) > 10 {
		t.Fatalf("got %d recommendations", len(resp.Recommendations))
	}

	prev := 2.0
	for _, doc := range resp.Recommendations {
		imdb, _ := doc["imdb"].(map[string]interface{})
		if imdb == nil || imdb["id"] == nil {
			t.Errorf("recommended movie without external id: %v", doc["title"])
			continue
		}
		id := imdb["id"].(models.Number).Value
		if id == 1 || id == 3 || id == 6 {
			t.Errorf("rated movie %v recommended", id)
		}

		score, ok := doc["score"].(float64)
		if !ok {
			t.Fatalf("score missing on %v", doc["title"])
		}
		if score > prev {
			t.Errorf("scores not non-increasing: %v after %v", score, prev)
		}
		prev = score
	}

	// The sci-fi profile should put the mars survival story ahead of the
	// higher-rated crime drama.
	if resp.Recommendations[0]["title"] != "astronaut stranded alone on mars survives" {
		t.Errorf("top recommendation = %v", resp.Recommendations[0]["title"])
	}
}

func TestRecommend_ZeroWeightsDoNotFail(t *testing.T) {
	t.Parallel()

	catalog := testCatalog()
	store := &mockStore{
		catalog: catalog,
		history: map[string]*models.RatingHistory{
			"z": ratedFrom(catalog, map[int64]float64{1: 0, 2: 0, 3: 0}),
		},
	}
	e := newTestEngine(t, store)

	resp, err := e.Recommend(context.Background(), "z")
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if resp.Mode != ModePersonalized {
		t.Errorf("Mode = %s, want personalized", resp.Mode)
	}
}

func TestRecommend_Deterministic(t *testing.T) {
	t.Parallel()

	catalog := testCatalog()
	store := &mockStore{
		catalog: catalog,
		history: map[string]*models.RatingHistory{
			"fan": ratedFrom(catalog, map[int64]float64{1: 5, 5: 2, 7: 4}),
		},
	}
	e := newTestEngine(t, store)

	first, err := e.Recommend(context.Background(), "fan")
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := e.Recommend(context.Background(), "fan")
		if err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatal("Recommend() results differ between identical calls")
		}
	}
}

func TestRecommend_StoreErrorPropagates(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, &mockStore{err: errStoreDown})

	_, err := e.Recommend(context.Background(), "u")
	if !errors.Is(err, errStoreDown) {
		t.Errorf("error = %v, want wrapped errStoreDown", err)
	}
}

func TestRecommend_EmptyCatalog(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, &mockStore{})

	_, err := e.Recommend(context.Background(), "u")
	if !errors.Is(err, ErrEmptyCatalog) {
		t.Errorf("error = %v, want ErrEmptyCatalog", err)
	}
}

func TestRecommend_ColdStartUsesCache(t *testing.T) {
	t.Parallel()

	store := &mockStore{catalog: testCatalog()}
	e := newTestEngine(t, store)

	for i := 0; i < 3; i++ {
		if _, err := e.Recommend(context.Background(), "new-user"); err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
	}
	if calls := store.topCalls.Load(); calls != 1 {
		t.Errorf("GetTopQualityItems called %d times, want 1", calls)
	}

	requests, cold, personalized := e.Stats()
	if requests != 3 || cold != 3 || personalized != 0 {
		t.Errorf("Stats() = %d/%d/%d, want 3/3/0", requests, cold, personalized)
	}
}

func TestTopRated_CallersGetOwnDocuments(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, &mockStore{catalog: testCatalog()})
	ctx := context.Background()

	first, err := e.TopRated(ctx)
	if err != nil || len(first) == 0 {
		t.Fatalf("TopRated() = %d docs, %v", len(first), err)
	}
	title := first[0]["title"]
	first[0]["title"] = "overwritten"
	delete(first[0], "_id")
	first[0] = nil

	second, err := e.TopRated(ctx)
	if err != nil {
		t.Fatalf("TopRated() error = %v", err)
	}
	if second[0] == nil || second[0]["title"] != title {
		t.Errorf("cached list was mutated: %v", second[0])
	}
	if _, ok := second[0]["_id"]; !ok {
		t.Error("deleting a key from one result removed it from the cache")
	}
}

func TestRecommend_ConcurrentRequests(t *testing.T) {
	t.Parallel()

	catalog := testCatalog()
	store := &mockStore{
		catalog: catalog,
		history: map[string]*models.RatingHistory{
			"fan": ratedFrom(catalog, map[int64]float64{1: 5, 3: 4, 6: 3}),
		},
	}
	e := newTestEngine(t, store)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user := "fan"
			if i%2 == 0 {
				user = "new"
			}
			if _, err := e.Recommend(context.Background(), user); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Recommend() error = %v", err)
	}
}

func assertQualityNonIncreasing(t *testing.T, docs []models.Document) {
	t.Helper()

	prev := 11.0
	for _, doc := range docs {
		q := 0.0
		if imdb, ok := doc["imdb"].(map[string]interface{}); ok {
			if r, ok := imdb["rating"].(models.Number); ok {
				q = r.Value
			}
		}
		if q > prev {
			t.Errorf("quality %v after %v: not non-increasing", q, prev)
		}
		prev = q
	}
}
