// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"fmt"
	"math"
)

// zeroWeightEpsilon is the magnitude below which a weight sum counts as zero.
const zeroWeightEpsilon = 1e-12

// BuildProfile returns the weighted mean of rows using weights.
//
// When the weights sum to zero the profile is the unweighted mean of rows.
// ErrDegenerateProfile is returned only when rows is empty.
func BuildProfile(rows []Vector, weights []float64) (Vector, error) {
	if len(rows) == 0 {
		return nil, ErrDegenerateProfile
	}
	if len(rows) != len(weights) {
		return nil, fmt.Errorf("build profile: %d rows but %d weights", len(rows), len(weights))
	}

	var total float64
	for _, w := range weights {
		total += w
	}

	uniform := math.Abs(total) < zeroWeightEpsilon
	if uniform {
		total = float64(len(rows))
	}

	profile := make(Vector, len(rows[0]))
	for i, row := range rows {
		w := 1.0
		if !uniform {
			w = weights[i]
		}
		if w == 0 {
			continue
		}
		for j, x := range row {
			profile[j] += w * x
		}
	}
	for j := range profile {
		profile[j] /= total
	}

	return profile, nil
}
