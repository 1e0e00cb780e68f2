// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Vector is a dense feature vector.
type Vector []float64

// Matrix is the TF-IDF representation of one batch of documents. Rows are in
// input order; column j holds the weight of Vocabulary[j].
type Matrix struct {
	Vocabulary []string
	Rows       []Vector
}

// Dim returns the number of columns.
func (m *Matrix) Dim() int {
	return len(m.Vocabulary)
}

// Tokenize lowercases text and returns its terms: maximal runs of letters,
// digits and underscores that are at least two characters long, with English
// stop words removed.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})

	terms := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) < 2 || englishStopWords[f] {
			continue
		}
		terms = append(terms, f)
	}
	return terms
}

// Featurize builds TF-IDF vectors for docs.
//
// The vocabulary keeps the maxFeatures terms with the highest total count
// across the batch (ties by term, ascending) and is sorted alphabetically.
// Weights are raw term count times smoothed idf, ln((1+n)/(1+df))+1, and every
// non-empty row is scaled to unit L2 norm. Rows of documents with no
// in-vocabulary term are all zero.
//
// Nothing is cached between calls; vectors from two calls are not comparable.
func Featurize(docs []string, maxFeatures int) *Matrix {
	counts := make([]map[string]int, len(docs))
	totals := make(map[string]int)
	df := make(map[string]int)

	for i, doc := range docs {
		tf := make(map[string]int)
		for _, term := range Tokenize(doc) {
			tf[term]++
		}
		for term, c := range tf {
			totals[term] += c
			df[term]++
		}
		counts[i] = tf
	}

	vocab := limitVocabulary(totals, maxFeatures)
	index := make(map[string]int, len(vocab))
	for j, term := range vocab {
		index[term] = j
	}

	n := float64(len(docs))
	idf := make([]float64, len(vocab))
	for j, term := range vocab {
		idf[j] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	rows := make([]Vector, len(docs))
	for i, tf := range counts {
		row := make(Vector, len(vocab))
		for term, c := range tf {
			if j, ok := index[term]; ok {
				row[j] = float64(c) * idf[j]
			}
		}
		l2Normalize(row)
		rows[i] = row
	}

	return &Matrix{Vocabulary: vocab, Rows: rows}
}

func limitVocabulary(totals map[string]int, maxFeatures int) []string {
	vocab := make([]string, 0, len(totals))
	for term := range totals {
		vocab = append(vocab, term)
	}

	if maxFeatures > 0 && len(vocab) > maxFeatures {
		sort.Slice(vocab, func(a, b int) bool {
			if totals[vocab[a]] != totals[vocab[b]] {
				return totals[vocab[a]] > totals[vocab[b]]
			}
			return vocab[a] < vocab[b]
		})
		vocab = vocab[:maxFeatures]
	}

	sort.Strings(vocab)
	return vocab
}

func l2Normalize(v Vector) {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range v {
		v[i] /= norm
	}
}
