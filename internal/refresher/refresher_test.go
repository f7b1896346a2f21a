package refresher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trogers1052/portfolio-service/internal/cache"
	"github.com/trogers1052/portfolio-service/internal/models"
)

// MockGateway implements quotes.Gateway for testing. When block is
// set, FetchQuotes signals started and then waits until block is
// closed, letting tests hold a cycle in flight.
type MockGateway struct {
	mu      sync.Mutex
	calls   int
	batch   *models.QuoteBatch
	err     error
	block   chan struct{}
	started chan struct{}
}

func (m *MockGateway) FetchQuotes(ctx context.Context, symbols []string) (*models.QuoteBatch, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.started != nil {
		m.started <- struct{}{}
	}
	if m.block != nil {
		<-m.block
	}
	if m.err != nil {
		return nil, m.err
	}
	if m.batch == nil {
		return &models.QuoteBatch{}, nil
	}
	return m.batch, nil
}

func (m *MockGateway) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockPublisher counts refresh notifications
type MockPublisher struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (m *MockPublisher) PublishQuotesRefreshed(ctx context.Context, batch *models.QuoteBatch) error {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return m.err
}

func (m *MockPublisher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func testBatch() *models.QuoteBatch {
	return &models.QuoteBatch{
		Quotes: []models.QuoteRecord{
			{Symbol: "HDFCBANK.NS", CMP: 1510.5, DayHigh: 1520, DayLow: 1495},
			{Symbol: "DMART.NS", CMP: 3900, Volume: 120000},
		},
		CapturedAt: time.Unix(1700000000, 0),
	}
}

func TestRunCycleWritesAllKeys(t *testing.T) {
	store := cache.NewMemory()
	gateway := &MockGateway{batch: testBatch()}
	r := New(store, gateway, []string{"HDFCBANK.NS", "DMART.NS"}, nil)

	r.RunCycle(context.Background())
	ctx := context.Background()

	var batch []models.QuoteRecord
	found, err := store.Get(ctx, cache.KeyQuoteBatch, &batch)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, batch, 2)
	assert.Equal(t, "HDFCBANK.NS", batch[0].Symbol)
	assert.Equal(t, 1510.5, batch[0].CMP)

	var single models.QuoteRecord
	found, err = store.Get(ctx, cache.SymbolKey("DMART.NS"), &single)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 3900.0, single.CMP)
	assert.Equal(t, int64(120000), single.Volume)

	var lastUpdated int64
	found, err = store.Get(ctx, cache.KeyLastUpdated, &lastUpdated)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, time.Unix(1700000000, 0).UnixMilli(), lastUpdated)
}

func TestRunCycleSingleFlight(t *testing.T) {
	store := cache.NewMemory()
	gateway := &MockGateway{
		batch:   testBatch(),
		block:   make(chan struct{}),
		started: make(chan struct{}, 1),
	}
	r := New(store, gateway, []string{"HDFCBANK.NS"}, nil)

	done := make(chan struct{})
	go func() {
		r.RunCycle(context.Background())
		close(done)
	}()
	<-gateway.started

	// a second trigger while one cycle is in flight is dropped, not
	// queued
	r.RunCycle(context.Background())
	r.RunCycle(context.Background())

	close(gateway.block)
	<-done

	assert.Equal(t, 1, gateway.Calls())
}

func TestRunCycleFailureLeavesCacheUntouched(t *testing.T) {
	store := cache.NewMemory()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, cache.KeyQuoteBatch, []models.QuoteRecord{{Symbol: "OLD", CMP: 1}}, cache.DefaultTTL))
	require.NoError(t, store.Set(ctx, cache.KeyLastUpdated, int64(42), cache.DefaultTTL))

	gateway := &MockGateway{err: errors.New("provider down")}
	r := New(store, gateway, []string{"OLD"}, nil)
	r.RunCycle(ctx)

	var batch []models.QuoteRecord
	found, err := store.Get(ctx, cache.KeyQuoteBatch, &batch)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "OLD", batch[0].Symbol)

	var lastUpdated int64
	found, err = store.Get(ctx, cache.KeyLastUpdated, &lastUpdated)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(42), lastUpdated)

	// guard must be released after a failed cycle
	gateway.err = nil
	gateway.batch = testBatch()
	r.RunCycle(ctx)
	assert.Equal(t, 2, gateway.Calls())
}

func TestStartIsIdempotent(t *testing.T) {
	store := cache.NewMemory()
	gateway := &MockGateway{batch: testBatch()}
	r := New(store, gateway, []string{"HDFCBANK.NS"}, nil)
	defer r.Stop()

	r.Start(time.Hour)
	r.Start(time.Hour)

	// only the first Start schedules, so exactly one immediate cycle
	require.Eventually(t, func() bool { return gateway.Calls() == 1 }, time.Second, 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, gateway.Calls())
}

func TestStartClampsNonPositiveInterval(t *testing.T) {
	store := cache.NewMemory()
	gateway := &MockGateway{batch: testBatch()}
	r := New(store, gateway, []string{"HDFCBANK.NS"}, nil)
	defer r.Stop()

	// a zero interval must not panic the ticker goroutine; the job
	// falls back to the default cadence and still runs its immediate
	// first cycle
	r.Start(0)

	require.Eventually(t, func() bool { return gateway.Calls() == 1 }, time.Second, 10*time.Millisecond)
}

func TestStopSafeWhenNotStarted(t *testing.T) {
	r := New(cache.NewMemory(), &MockGateway{}, []string{"X"}, nil)
	r.Stop()

	r.Start(time.Hour)
	r.Stop()
	r.Stop()
}

func TestPublisherNotifiedOnSuccessOnly(t *testing.T) {
	store := cache.NewMemory()
	gateway := &MockGateway{err: errors.New("provider down")}
	publisher := &MockPublisher{}
	r := New(store, gateway, []string{"HDFCBANK.NS"}, publisher)

	r.RunCycle(context.Background())
	assert.Zero(t, publisher.Calls())

	gateway.err = nil
	gateway.batch = testBatch()
	r.RunCycle(context.Background())
	assert.Equal(t, 1, publisher.Calls())
}

func TestPublisherFailureDoesNotAffectCache(t *testing.T) {
	store := cache.NewMemory()
	gateway := &MockGateway{batch: testBatch()}
	publisher := &MockPublisher{err: errors.New("broker down")}
	r := New(store, gateway, []string{"HDFCBANK.NS"}, publisher)

	r.RunCycle(context.Background())

	var batch []models.QuoteRecord
	found, err := store.Get(context.Background(), cache.KeyQuoteBatch, &batch)
	require.NoError(t, err)
	assert.True(t, found)
}
