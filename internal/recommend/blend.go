// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"sort"

	"github.com/tomtom215/cinematch/internal/models"
)

// BlendScore combines a similarity and an imdb rating into one score.
//
//nolint:gocritic // hugeParam: Config is read-only
func BlendScore(cfg Config, similarity, quality float64) float64 {
	return cfg.SimilarityWeight*similarity + cfg.QualityWeight*(quality/cfg.QualityScale)
}

// SelectTop scores candidates and returns the best cfg.TopK.
//
// sims[i] is the similarity of candidates[i]. A candidate is dropped when it
// has no usable external id or when that id is in rated. The result is
// ordered by score descending, then by external id ascending.
//
//nolint:gocritic // hugeParam: Config is read-only
func SelectTop(cfg Config, candidates []models.Movie, sims []float64, rated map[int64]struct{}) []ScoredMovie {
	scored := make([]ScoredMovie, 0, len(candidates))

	for i := range candidates {
		if i >= len(sims) {
			break
		}
		id, ok := candidates[i].ExternalID()
		if !ok {
			continue
		}
		if _, dup := rated[id]; dup {
			continue
		}

		scored = append(scored, ScoredMovie{
			Movie:      candidates[i],
			Similarity: sims[i],
			Score:      BlendScore(cfg, sims[i], candidates[i].Quality()),
		})
	}

	sort.SliceStable(scored, func(a, b int) bool {
		if scored[a].Score != scored[b].Score {
			return scored[a].Score > scored[b].Score
		}
		ia, _ := scored[a].Movie.ExternalID()
		ib, _ := scored[b].Movie.ExternalID()
		return ia < ib
	})

	if len(scored) > cfg.TopK {
		scored = scored[:cfg.TopK]
	}
	return scored
}
