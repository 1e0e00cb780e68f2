// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/tomtom215/cinematch/internal/models"
)

// PopularityLoader computes the cold start list.
type PopularityLoader func(ctx context.Context) ([]models.Document, error)

// PopularityCache holds the cold start list for the life of the process.
//
// Concurrency policy: the loader runs outside the lock, so two callers that
// miss at the same time may both compute. The first successful result to be
// stored wins and every caller, including the loser, returns that stored
// value. Errors and empty results are never cached. There is no invalidation.
type PopularityCache struct {
	mu    sync.RWMutex
	value []models.Document

	hits   atomic.Int64
	misses atomic.Int64
}

// NewPopularityCache creates an empty cache.
func NewPopularityCache() *PopularityCache {
	return &PopularityCache{}
}

// GetOrPopulate returns the cached list, running load on a miss. hit reports
// whether the value was already cached when the call started.
func (c *PopularityCache) GetOrPopulate(ctx context.Context, load PopularityLoader) (docs []models.Document, hit bool, err error) {
	if v := c.get(); v != nil {
		c.hits.Add(1)
		return v, true, nil
	}
	c.misses.Add(1)

	loaded, err := load(ctx)
	if err != nil {
		return nil, false, err
	}
	if len(loaded) == 0 {
		return loaded, false, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.value == nil {
		c.value = loaded
	}
	return c.value, false, nil
}

// Stats returns hit and miss counters.
func (c *PopularityCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *PopularityCache) get() []models.Document {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}
