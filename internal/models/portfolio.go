package models

// PortfolioRow is a holding joined with its latest quote, recomputed
// on every read and never persisted. LastUpdated is the capture time
// of the cached batch in epoch milliseconds; it is nil when the row
// was computed from a live-fallback fetch or from no quote at all.
type PortfolioRow struct {
	ID               int     `json:"id"`
	Particulars      string  `json:"particulars"`
	Symbol           string  `json:"symbol"`
	PurchasePrice    float64 `json:"purchasePrice"`
	Quantity         int64   `json:"quantity"`
	Investment       float64 `json:"investment"`
	PortfolioPercent float64 `json:"portfolioPercent"`
	Exchange         string  `json:"exchange,omitempty"`
	Sector           string  `json:"sector,omitempty"`
	CMP              float64 `json:"cmp"`
	PresentValue     float64 `json:"presentValue"`
	GainLoss         float64 `json:"gainLoss"`
	GainLossPercent  float64 `json:"gainLossPercent"`
	PERatio          float64 `json:"peRatio"`
	DayHigh          float64 `json:"dayHigh"`
	DayLow           float64 `json:"dayLow"`
	Change           float64 `json:"change"`
	ChangePercent    float64 `json:"changePercent"`
	LatestEarnings   float64 `json:"latestEarnings"`
	LastUpdated      *int64  `json:"lastUpdated,omitempty"`
}
