// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package recommend implements the content-based movie recommender.
//
// # Overview
//
// A request for user U runs in one of two modes:
//
//   - cold_start: U has fewer than Config.ColdStartThreshold resolvable
//     ratings. The answer is the top-K catalog movies by imdb rating, served
//     from a PopularityCache that is filled on first demand and kept for the
//     life of the process.
//   - personalized: U has enough history. The rated movies and the
//     Config.CandidatePool best-rated catalog movies are featurized together
//     with TF-IDF, U's taste vector is the rating-weighted mean of the rated
//     rows, and every unseen candidate is scored as
//
//     score = SimilarityWeight*cosine(taste, candidate) + QualityWeight*(imdb.rating/QualityScale)
//
// # Determinism
//
// Featurization is a pure function of the batch: no vocabulary or idf
// statistic survives a call, so vectors from different requests are never
// compared. Ties on score (or on quality for cold start) are broken by imdb
// id ascending, so the same store contents always yield the same ranking.
//
// # Degenerate input
//
//   - Ratings whose movie cannot be resolved are skipped by the store and
//     counted in models.RatingHistory.Skipped.
//   - When every rating weight is zero the taste vector falls back to the
//     unweighted mean of the rated rows.
//   - Cosine similarity against an all-zero vector is 0.
//
// # Usage
//
//	cache := recommend.NewPopularityCache()
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), store, cache, logger)
//	resp, err := engine.Recommend(ctx, userID)
package recommend
