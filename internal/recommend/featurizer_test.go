// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"math"
	"reflect"
	"testing"
)

const floatTolerance = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < floatTolerance
}

func TestTokenize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"lowercase and stop words", "The Matrix is a MOVIE about hackers", []string{"matrix", "movie", "hackers"}},
		{"single characters dropped", "a b c 7 xy", []string{"xy"}},
		{"punctuation splits", "sci-fi, drama; war's", []string{"sci", "fi", "drama", "war"}},
		{"digits and underscore kept", "r2d2 snake_case 1984", []string{"r2d2", "snake_case", "1984"}},
		{"unicode letters", "Amélie café", []string{"amélie", "café"}},
		{"empty", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Tokenize(tt.text)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestFeaturize_KnownWeights(t *testing.T) {
	t.Parallel()

	// doc0: cat x2, dog x1; doc1: dog x1
	m := Featurize([]string{"cat cat dog", "dog"}, 100)

	if !reflect.DeepEqual(m.Vocabulary, []string{"cat", "dog"}) {
		t.Fatalf("Vocabulary = %v, want [cat dog]", m.Vocabulary)
	}

	idfCat := math.Log(3.0/2.0) + 1
	idfDog := 1.0
	c, d := 2*idfCat, idfDog
	norm := math.Sqrt(c*c + d*d)

	if !almostEqual(m.Rows[0][0], c/norm) || !almostEqual(m.Rows[0][1], d/norm) {
		t.Errorf("row0 = %v, want [%v %v]", m.Rows[0], c/norm, d/norm)
	}
	if !almostEqual(m.Rows[1][0], 0) || !almostEqual(m.Rows[1][1], 1) {
		t.Errorf("row1 = %v, want [0 1]", m.Rows[1])
	}
}

func TestFeaturize_RowsAreUnitOrZero(t *testing.T) {
	t.Parallel()

	docs := []string{
		"A young hacker learns the truth about reality Action Sci-Fi",
		"Two imprisoned men bond over years Drama",
		"",
		"the and of",
	}
	m := Featurize(docs, 2000)

	if len(m.Rows) != len(docs) {
		t.Fatalf("rows = %d, want %d", len(m.Rows), len(docs))
	}
	for i, row := range m.Rows {
		if len(row) != m.Dim() {
			t.Fatalf("row %d has %d columns, want %d", i, len(row), m.Dim())
		}
		var sum float64
		for _, x := range row {
			sum += x * x
		}
		switch i {
		case 2, 3:
			if sum != 0 {
				t.Errorf("row %d should be all zero, norm^2 = %v", i, sum)
			}
		default:
			if !almostEqual(sum, 1) {
				t.Errorf("row %d norm^2 = %v, want 1", i, sum)
			}
		}
	}
}

func TestFeaturize_MaxFeatures(t *testing.T) {
	t.Parallel()

	// totals: alpha 3, beta 2, gamma 2, delta 1
	m := Featurize([]string{"alpha alpha beta gamma", "alpha beta gamma delta"}, 2)

	if !reflect.DeepEqual(m.Vocabulary, []string{"alpha", "beta"}) {
		t.Errorf("Vocabulary = %v, want [alpha beta]", m.Vocabulary)
	}
	if m.Dim() != 2 {
		t.Errorf("Dim() = %d, want 2", m.Dim())
	}
}

func TestFeaturize_AllEmpty(t *testing.T) {
	t.Parallel()

	m := Featurize([]string{"", " ", "the"}, 10)
	if m.Dim() != 0 {
		t.Errorf("Dim() = %d, want 0", m.Dim())
	}
	for i, row := range m.Rows {
		if len(row) != 0 {
			t.Errorf("row %d = %v, want empty", i, row)
		}
	}
	if got := CosineSimilarity(m.Rows[0], m.Rows[1]); got != 0 {
		t.Errorf("similarity of empty rows = %v, want 0", got)
	}
}

func TestFeaturize_Deterministic(t *testing.T) {
	t.Parallel()

	docs := []string{"space opera adventure", "romantic comedy adventure", "space horror"}
	a := Featurize(docs, 3)
	b := Featurize(docs, 3)
	if !reflect.DeepEqual(a, b) {
		t.Error("Featurize is not deterministic for identical input")
	}
}
