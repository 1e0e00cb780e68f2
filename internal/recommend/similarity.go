// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import "math"

// CosineSimilarity returns the cosine of the angle between a and b.
// It is 0 when either vector has zero norm or the lengths differ.
func CosineSimilarity(a, b Vector) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// RankSimilarity scores every row against profile, preserving row order.
func RankSimilarity(profile Vector, rows []Vector) []float64 {
	sims := make([]float64, len(rows))
	for i, row := range rows {
		sims[i] = CosineSimilarity(profile, row)
	}
	return sims
}
