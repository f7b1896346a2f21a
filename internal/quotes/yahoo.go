package quotes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/trogers1052/portfolio-service/internal/config"
	"github.com/trogers1052/portfolio-service/internal/models"
)

// YahooClient fetches quotes from a Yahoo-finance-shaped quote
// endpoint. Normalization happens here, once: every numeric field
// absent upstream becomes zero and earnings timestamps become nil, so
// downstream code never re-implements the fallback chain.
type YahooClient struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

// NewYahoo creates a YahooClient. The request timeout bounds every
// fetch so a hung provider cannot stall the refresh job's guard.
func NewYahoo(cfg config.QuotesConfig) *YahooClient {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 3 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 3 * time.Second,
	}
	return &YahooClient{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		http:     &http.Client{Timeout: timeout, Transport: transport},
	}
}

type yahooQuote struct {
	Symbol                     string   `json:"symbol"`
	RegularMarketPrice         *float64 `json:"regularMarketPrice"`
	Price                      *float64 `json:"price"`
	TrailingPE                 *float64 `json:"trailingPE"`
	RegularMarketDayHigh       *float64 `json:"regularMarketDayHigh"`
	RegularMarketDayLow        *float64 `json:"regularMarketDayLow"`
	RegularMarketVolume        *int64   `json:"regularMarketVolume"`
	MarketCap                  *int64   `json:"marketCap"`
	RegularMarketChange        *float64 `json:"regularMarketChange"`
	RegularMarketChangePercent *float64 `json:"regularMarketChangePercent"`
	FiftyTwoWeekHigh           *float64 `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow            *float64 `json:"fiftyTwoWeekLow"`
	EPSTrailingTwelveMonths    *float64 `json:"epsTrailingTwelveMonths"`
	EPSForward                 *float64 `json:"epsForward"`
	EarningsTimestamp          *int64   `json:"earningsTimestamp"`
	EarningsTimestampStart     *int64   `json:"earningsTimestampStart"`
}

type yahooResponse struct {
	QuoteResponse struct {
		Result []yahooQuote `json:"result"`
		Error  interface{}  `json:"error"`
	} `json:"quoteResponse"`
}

// FetchQuotes requests quotes for symbols and returns a normalized
// batch. The upstream may omit symbols it does not know; those are
// simply absent from the batch.
func (c *YahooClient) FetchQuotes(ctx context.Context, symbols []string) (*models.QuoteBatch, error) {
	if len(symbols) == 0 {
		return nil, &ProviderError{Err: errors.New("no symbols requested")}
	}

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, &ProviderError{Err: fmt.Errorf("invalid endpoint: %w", err)}
	}
	q := u.Query()
	q.Set("symbols", strings.Join(symbols, ","))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &ProviderError{Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-KEY", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &ProviderError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ProviderError{Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var body yahooResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &ProviderError{Err: fmt.Errorf("decode response: %w", err)}
	}

	records := make([]models.QuoteRecord, 0, len(body.QuoteResponse.Result))
	for _, raw := range body.QuoteResponse.Result {
		records = append(records, normalize(raw))
	}
	return &models.QuoteBatch{Quotes: records, CapturedAt: time.Now()}, nil
}

// normalize applies the documented defaults: zero for missing numeric
// fields, nil for missing earnings dates. The market price falls back
// to the plain price field when the regular-market figure is absent.
func normalize(raw yahooQuote) models.QuoteRecord {
	cmp := f64(raw.RegularMarketPrice)
	if raw.RegularMarketPrice == nil {
		cmp = f64(raw.Price)
	}
	return models.QuoteRecord{
		Symbol:              raw.Symbol,
		CMP:                 cmp,
		PERatio:             f64(raw.TrailingPE),
		DayHigh:             f64(raw.RegularMarketDayHigh),
		DayLow:              f64(raw.RegularMarketDayLow),
		Volume:              i64(raw.RegularMarketVolume),
		MarketCap:           i64(raw.MarketCap),
		Change:              f64(raw.RegularMarketChange),
		ChangePercent:       f64(raw.RegularMarketChangePercent),
		Week52High:          f64(raw.FiftyTwoWeekHigh),
		Week52Low:           f64(raw.FiftyTwoWeekLow),
		EPSTrailing12Months: f64(raw.EPSTrailingTwelveMonths),
		EPSForward:          f64(raw.EPSForward),
		EarningsDate:        unixTime(raw.EarningsTimestamp),
		EarningsCallStart:   unixTime(raw.EarningsTimestampStart),
	}
}

func f64(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func i64(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}

func unixTime(p *int64) *time.Time {
	if p == nil {
		return nil
	}
	t := time.Unix(*p, 0).UTC()
	return &t
}
