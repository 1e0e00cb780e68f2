// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/metrics"
	"github.com/tomtom215/cinematch/internal/models"
)

// Engine answers recommendation requests. It is safe for concurrent use; the
// popularity cache is the only state shared between requests.
type Engine struct {
	cfg    Config
	store  ItemStore
	cache  *PopularityCache
	logger zerolog.Logger

	requests     atomic.Int64
	coldStarts   atomic.Int64
	personalized atomic.Int64
}

// NewEngine validates cfg and creates an engine. A nil cache gets a fresh one.
//
//nolint:gocritic // hugeParam: zerolog.Logger is designed to be passed by value
func NewEngine(cfg Config, store ItemStore, cache *PopularityCache, logger zerolog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if store == nil {
		return nil, errors.New("item store is required")
	}
	if cache == nil {
		cache = NewPopularityCache()
	}

	return &Engine{
		cfg:    cfg,
		store:  store,
		cache:  cache,
		logger: logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Stats returns request counters since startup.
func (e *Engine) Stats() (requests, coldStarts, personalized int64) {
	return e.requests.Load(), e.coldStarts.Load(), e.personalized.Load()
}

// Recommend returns up to TopK movies for userID. The caller validates the id.
//
// Store failures are returned wrapped, so errors.Is(err, store.ErrStoreUnavailable)
// holds for an unreachable backend. ErrEmptyCatalog is returned when there is
// nothing at all to recommend.
func (e *Engine) Recommend(ctx context.Context, userID string) (*Response, error) {
	start := time.Now()
	e.requests.Add(1)
	log := e.requestLogger(ctx, userID)

	history, err := e.store.GetRatedItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get rated items: %w", err)
	}
	if history.Skipped > 0 {
		metrics.RecordRatingsSkipped(history.Skipped)
		log.Debug().Int("skipped", history.Skipped).Msg("Skipped unresolvable ratings")
	}

	var resp *Response
	if len(history.Rated) < e.cfg.ColdStartThreshold {
		if len(history.Rated) == 0 && history.Total() >= e.cfg.ColdStartThreshold {
			log.Warn().Int("ratings", history.Total()).Msg("No ratable data, falling back to cold start")
		}
		resp, err = e.coldStart(ctx, log)
	} else {
		resp, err = e.personalize(ctx, history.Rated, log)
	}
	if err != nil {
		return nil, err
	}

	metrics.RecordRecommendation(resp.Mode.String(), time.Since(start))
	log.Info().
		Str("mode", resp.Mode.String()).
		Int("rated", len(history.Rated)).
		Int("results", len(resp.Recommendations)).
		Dur("duration", time.Since(start)).
		Msg("Recommendations generated")

	return resp, nil
}

// TopRated returns the cold start list regardless of the user. The list is
// cached and shared, so every call gets its own copy of each document's
// top-level keys; nested values must still be treated as read-only.
func (e *Engine) TopRated(ctx context.Context) ([]models.Document, error) {
	docs, hit, err := e.cache.GetOrPopulate(ctx, e.loadPopular)
	metrics.RecordPopularityCache(hit)
	if err != nil {
		return nil, fmt.Errorf("load popular movies: %w", err)
	}
	return cloneDocs(docs), nil
}

func cloneDocs(docs []models.Document) []models.Document {
	out := make([]models.Document, len(docs))
	for i, doc := range docs {
		out[i] = maps.Clone(doc)
	}
	return out
}

func (e *Engine) coldStart(ctx context.Context, log *zerolog.Logger) (*Response, error) {
	e.coldStarts.Add(1)

	docs, err := e.TopRated(ctx)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrEmptyCatalog
	}

	log.Debug().Int("count", len(docs)).Msg("Serving cold start list")
	return &Response{Mode: ModeColdStart, Recommendations: docs}, nil
}

func (e *Engine) loadPopular(ctx context.Context) ([]models.Document, error) {
	movies, err := e.store.GetTopQualityItems(ctx, e.cfg.TopK)
	if err != nil {
		return nil, err
	}
	return ColdStart(movies, e.cfg.TopK), nil
}

func (e *Engine) personalize(ctx context.Context, rated []models.RatedMovie, log *zerolog.Logger) (*Response, error) {
	e.personalized.Add(1)

	candidates, err := e.store.GetTopQualityItems(ctx, e.cfg.CandidatePool)
	if err != nil {
		return nil, fmt.Errorf("get candidates: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	docs := make([]string, 0, len(rated)+len(candidates))
	weights := make([]float64, len(rated))
	ratedIDs := make(map[int64]struct{}, len(rated))
	for i := range rated {
		docs = append(docs, rated[i].Movie.Text())
		weights[i] = rated[i].Weight
		if id, ok := rated[i].Movie.ExternalID(); ok {
			ratedIDs[id] = struct{}{}
		}
	}
	for i := range candidates {
		docs = append(docs, candidates[i].Text())
	}

	matrix := Featurize(docs, e.cfg.MaxFeatures)

	profile, err := BuildProfile(matrix.Rows[:len(rated)], weights)
	if err != nil {
		return nil, fmt.Errorf("build profile: %w", err)
	}

	sims := RankSimilarity(profile, matrix.Rows[len(rated):])
	top := SelectTop(e.cfg, candidates, sims, ratedIDs)

	log.Debug().
		Int("vocabulary", matrix.Dim()).
		Int("candidates", len(candidates)).
		Int("selected", len(top)).
		Msg("Scored candidates")

	recs := make([]models.Document, len(top))
	for i := range top {
		doc := models.Normalize(top[i].Movie)
		doc["score"] = top[i].Score
		recs[i] = doc
	}

	return &Response{Mode: ModePersonalized, Recommendations: recs}, nil
}

func (e *Engine) requestLogger(ctx context.Context, userID string) *zerolog.Logger {
	lc := e.logger.With().Str("user_id", userID)
	if id := logging.RequestIDFromContext(ctx); id != "" {
		lc = lc.Str("request_id", id)
	}
	l := lc.Logger()
	return &l
}
