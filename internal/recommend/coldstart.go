// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"sort"

	"github.com/tomtom215/cinematch/internal/models"
)

// RankByQuality returns up to k movies ordered by imdb rating descending.
// An absent rating counts as 0 and sorts last. Ties go to the lower imdb id,
// and movies without an imdb id come after those with one, ordered by store id.
// The input slice is not modified.
func RankByQuality(movies []models.Movie, k int) []models.Movie {
	ranked := make([]models.Movie, len(movies))
	copy(ranked, movies)

	sort.SliceStable(ranked, func(a, b int) bool {
		qa, qb := ranked[a].Quality(), ranked[b].Quality()
		if qa != qb {
			return qa > qb
		}
		ia, oka := ranked[a].ExternalID()
		ib, okb := ranked[b].ExternalID()
		switch {
		case oka && okb:
			return ia < ib
		case oka != okb:
			return oka
		default:
			return ranked[a].ID.Hex() < ranked[b].ID.Hex()
		}
	})

	if k >= 0 && len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}

// ColdStart builds the popularity recommendation list from the store's
// top-rated movies.
func ColdStart(movies []models.Movie, k int) []models.Document {
	ranked := RankByQuality(movies, k)
	docs := make([]models.Document, len(ranked))
	for i := range ranked {
		docs[i] = models.Normalize(ranked[i])
	}
	return docs
}
