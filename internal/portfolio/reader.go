package portfolio

import (
	"context"
	"log"

	"github.com/trogers1052/portfolio-service/internal/cache"
	"github.com/trogers1052/portfolio-service/internal/models"
)

// CachedQuotes is the result of a cache read. Data is nil when the
// batch key expired or was never written; IsStale is asserted only
// when the cache itself could not be read. Callers must nil-check
// Data either way.
type CachedQuotes struct {
	Data        []models.QuoteRecord
	LastUpdated *int64
	IsStale     bool
}

// Reader serves the last-cached quote batch and its capture time.
// It never writes and never propagates cache failures.
type Reader struct {
	store cache.Store
}

// NewReader creates a Reader over the given store.
func NewReader(store cache.Store) *Reader {
	return &Reader{store: store}
}

// GetCachedQuotes reads the batch and last-updated keys. A failed
// read on either key yields an empty, stale result rather than an
// error; this is a recoverable condition.
func (r *Reader) GetCachedQuotes(ctx context.Context) CachedQuotes {
	var data []models.QuoteRecord
	found, err := r.store.Get(ctx, cache.KeyQuoteBatch, &data)
	if err != nil {
		log.Printf("portfolio: cache read failed for %s: %v", cache.KeyQuoteBatch, err)
		return CachedQuotes{IsStale: true}
	}

	var lastUpdated int64
	luFound, err := r.store.Get(ctx, cache.KeyLastUpdated, &lastUpdated)
	if err != nil {
		log.Printf("portfolio: cache read failed for %s: %v", cache.KeyLastUpdated, err)
		return CachedQuotes{IsStale: true}
	}

	out := CachedQuotes{}
	if found {
		out.Data = data
	}
	if luFound {
		out.LastUpdated = &lastUpdated
	}
	return out
}
