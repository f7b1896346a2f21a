package portfolio

import (
	"context"
	"log"

	"github.com/shopspring/decimal"

	"github.com/trogers1052/portfolio-service/internal/models"
	"github.com/trogers1052/portfolio-service/internal/quotes"
)

// Service derives display rows from the static holdings and the
// latest quote batch. It prefers the cache and falls back to a live
// fetch; when both fail every row comes back with zeroed derived
// fields and untouched static fields. ComputeRows never returns an
// error.
type Service struct {
	holdings []models.Holding
	symbols  []string
	reader   *Reader
	gateway  quotes.Gateway
}

// NewService creates a Service. The holdings slice defines the row
// order and is not copied; it must not be mutated after construction.
func NewService(holdings []models.Holding, reader *Reader, gateway quotes.Gateway) *Service {
	symbols := make([]string, 0, len(holdings))
	for _, h := range holdings {
		symbols = append(symbols, h.Symbol)
	}
	return &Service{
		holdings: holdings,
		symbols:  symbols,
		reader:   reader,
		gateway:  gateway,
	}
}

// ComputeRows returns one row per holding, in holding order. Rows
// served from the cache carry the batch's last-updated timestamp;
// rows from the live fallback carry none, which is how callers tell
// the two paths apart.
func (s *Service) ComputeRows(ctx context.Context) []models.PortfolioRow {
	var (
		bySymbol    map[string]models.QuoteRecord
		lastUpdated *int64
	)

	cached := s.reader.GetCachedQuotes(ctx)
	if cached.Data != nil {
		batch := models.QuoteBatch{Quotes: cached.Data}
		bySymbol = batch.BySymbol()
		lastUpdated = cached.LastUpdated
	} else {
		batch, err := s.gateway.FetchQuotes(ctx, s.symbols)
		if err != nil {
			log.Printf("portfolio: live quote fetch failed, serving zeroed rows: %v", err)
		} else {
			bySymbol = batch.BySymbol()
		}
	}

	rows := make([]models.PortfolioRow, 0, len(s.holdings))
	for _, h := range s.holdings {
		rows = append(rows, buildRow(h, bySymbol, lastUpdated))
	}
	return rows
}

// buildRow derives one row. A missing quote zeroes every derived
// field; the computation is a pure function of its inputs.
func buildRow(h models.Holding, bySymbol map[string]models.QuoteRecord, lastUpdated *int64) models.PortfolioRow {
	row := models.PortfolioRow{
		ID:               h.ID,
		Particulars:      h.Particulars,
		Symbol:           h.Symbol,
		PurchasePrice:    h.PurchasePrice,
		Quantity:         h.Quantity,
		Investment:       h.Investment,
		PortfolioPercent: h.PortfolioPercent,
		Exchange:         h.Exchange,
		Sector:           h.Sector,
		LastUpdated:      lastUpdated,
	}

	// No matching quote: every derived field stays zero rather than
	// being derived from a zero price, which would report the whole
	// investment as a loss.
	quote, ok := bySymbol[h.Symbol]
	if !ok {
		return row
	}

	cmp := decimal.NewFromFloat(quote.CMP)
	investment := decimal.NewFromFloat(h.Investment)

	presentValue := round2(cmp.Mul(decimal.NewFromInt(h.Quantity)))
	pv := decimal.NewFromFloat(presentValue)

	row.CMP = quote.CMP
	row.PresentValue = presentValue
	row.GainLoss = round2(pv.Sub(investment))
	if h.Investment > 0 {
		row.GainLossPercent = roundPercent(pv.Sub(investment).Div(investment))
	}
	row.PERatio = quote.PERatio
	row.DayHigh = quote.DayHigh
	row.DayLow = quote.DayLow
	row.Change = quote.Change
	row.ChangePercent = round2(decimal.NewFromFloat(quote.ChangePercent))
	row.LatestEarnings = quote.EPSTrailing12Months
	return row
}
