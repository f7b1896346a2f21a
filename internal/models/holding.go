package models

// Holding represents a static portfolio position. The set of holdings
// is loaded once at startup and never mutated afterwards.
type Holding struct {
	ID               int     `json:"id"`
	Particulars      string  `json:"particulars"`
	Symbol           string  `json:"symbol"`
	PurchasePrice    float64 `json:"purchasePrice"`
	Quantity         int64   `json:"quantity"`
	Investment       float64 `json:"investment"`
	PortfolioPercent float64 `json:"portfolioPercent"`
	Exchange         string  `json:"exchange,omitempty"`
	Sector           string  `json:"sector,omitempty"`
}
