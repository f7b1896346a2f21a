package models

import "time"

// QuoteRecord is a point-in-time market snapshot for one symbol, fully
// normalized at the gateway boundary: numeric fields absent upstream
// are zero, earnings dates are nil. Records are never mutated after
// creation.
type QuoteRecord struct {
	Symbol              string     `json:"symbol"`
	CMP                 float64    `json:"cmp"`
	PERatio             float64    `json:"peRatio"`
	DayHigh             float64    `json:"dayHigh"`
	DayLow              float64    `json:"dayLow"`
	Volume              int64      `json:"volume"`
	MarketCap           int64      `json:"marketCap"`
	Change              float64    `json:"change"`
	ChangePercent       float64    `json:"changePercent"`
	Week52High          float64    `json:"fiftyTwoWeekHigh"`
	Week52Low           float64    `json:"fiftyTwoWeekLow"`
	EPSTrailing12Months float64    `json:"epsTrailingTwelveMonths"`
	EPSForward          float64    `json:"epsForward"`
	EarningsDate        *time.Time `json:"earningsDate,omitempty"`
	EarningsCallStart   *time.Time `json:"earningsCallStart,omitempty"`
}

// QuoteBatch is the set of quotes fetched together in one cycle. It is
// written to the cache whole and superseded by the next successful
// fetch, never partially updated.
type QuoteBatch struct {
	Quotes     []QuoteRecord
	CapturedAt time.Time
}

// BySymbol indexes the batch for lookup. Symbols are unique within a
// batch; on duplicates the first record wins.
func (b *QuoteBatch) BySymbol() map[string]QuoteRecord {
	m := make(map[string]QuoteRecord, len(b.Quotes))
	for _, q := range b.Quotes {
		if _, ok := m[q.Symbol]; !ok {
			m[q.Symbol] = q
		}
	}
	return m
}

// QuoteEvent represents a Kafka event emitted after a refresh cycle
type QuoteEvent struct {
	EventType   string    `json:"event_type"`
	SymbolCount int       `json:"symbol_count"`
	CapturedAt  time.Time `json:"captured_at"`
	Timestamp   time.Time `json:"timestamp"`
}
