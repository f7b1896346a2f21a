package cache

import (
	"context"
	"time"
)

// Cache keys used by the refresh job and its readers. The scheme is
// fixed: external tooling inspects these keys directly, so they must
// not change.
const (
	KeyQuoteBatch   = "stock_data"
	KeyLastUpdated  = "stock_data_last_updated"
	SymbolKeyPrefix = "stock:"
)

// DefaultTTL is applied to every key written by the refresh job.
const DefaultTTL = 900 * time.Second

// SymbolKey returns the per-symbol cache key for a quote record.
func SymbolKey(symbol string) string {
	return SymbolKeyPrefix + symbol
}

// Store is a key-value store with per-key expiry. Values are
// serialized to JSON text for storage and parsed back on read.
//
// Get reports found=false for a missing or expired key, and also for
// a stored value that no longer parses; only transport-level failures
// return a non-nil error. Callers treat that error as "cache
// unusable", never as fatal.
type Store interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}
