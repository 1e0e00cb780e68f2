// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import "fmt"

// Config contains the tunables of the recommendation engine.
type Config struct {
	// ColdStartThreshold is the minimum number of resolvable ratings for the
	// personalized path. A user with exactly this many ratings is personalized.
	ColdStartThreshold int `json:"cold_start_threshold" koanf:"cold_start_threshold"`

	// CandidatePool is how many top-rated catalog movies are scored per request.
	CandidatePool int `json:"candidate_pool" koanf:"candidate_pool"`

	// TopK caps the number of recommendations returned.
	TopK int `json:"top_k" koanf:"top_k"`

	// MaxFeatures caps the TF-IDF vocabulary size.
	MaxFeatures int `json:"max_features" koanf:"max_features"`

	// SimilarityWeight multiplies the cosine similarity term.
	SimilarityWeight float64 `json:"similarity_weight" koanf:"similarity_weight"`

	// QualityWeight multiplies the normalized imdb rating term.
	QualityWeight float64 `json:"quality_weight" koanf:"quality_weight"`

	// QualityScale is the maximum imdb rating, used to bring it into [0,1].
	QualityScale float64 `json:"quality_scale" koanf:"quality_scale"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		ColdStartThreshold: 3,
		CandidatePool:      100,
		TopK:               10,
		MaxFeatures:        2000,
		SimilarityWeight:   0.7,
		QualityWeight:      0.3,
		QualityScale:       10.0,
	}
}

// Validate checks the configuration for values the engine cannot work with.
//
//nolint:gocritic // hugeParam: small config, value receiver keeps call sites simple
func (c Config) Validate() error {
	if c.ColdStartThreshold < 1 {
		return fmt.Errorf("recommend.cold_start_threshold must be positive, got %d", c.ColdStartThreshold)
	}
	if c.CandidatePool < 1 {
		return fmt.Errorf("recommend.candidate_pool must be positive, got %d", c.CandidatePool)
	}
	if c.TopK < 1 {
		return fmt.Errorf("recommend.top_k must be positive, got %d", c.TopK)
	}
	if c.MaxFeatures < 1 {
		return fmt.Errorf("recommend.max_features must be positive, got %d", c.MaxFeatures)
	}
	if c.SimilarityWeight < 0 {
		return fmt.Errorf("recommend.similarity_weight must be non-negative, got %f", c.SimilarityWeight)
	}
	if c.QualityWeight < 0 {
		return fmt.Errorf("recommend.quality_weight must be non-negative, got %f", c.QualityWeight)
	}
	if c.QualityScale <= 0 {
		return fmt.Errorf("recommend.quality_scale must be positive, got %f", c.QualityScale)
	}
	return nil
}
