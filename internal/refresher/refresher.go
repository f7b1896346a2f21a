package refresher

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/trogers1052/portfolio-service/internal/cache"
	"github.com/trogers1052/portfolio-service/internal/models"
	"github.com/trogers1052/portfolio-service/internal/quotes"
)

// Publisher is notified after every successful fetch-and-cache cycle.
type Publisher interface {
	PublishQuotesRefreshed(ctx context.Context, batch *models.QuoteBatch) error
}

// Refresher owns the periodic fetch-and-cache job. It is the sole
// writer of the quote cache keys; at most one cycle runs at a time
// and overlapping triggers are dropped, not queued. The design
// assumes exactly one Refresher per process.
type Refresher struct {
	store     cache.Store
	gateway   quotes.Gateway
	symbols   []string
	publisher Publisher // optional, may be nil

	ttl          time.Duration
	cycleTimeout time.Duration

	running atomic.Bool // single-flight guard

	mu        sync.Mutex
	scheduled bool
	stopCh    chan struct{}
}

// New creates a Refresher for the given symbol set. publisher may be
// nil when event publishing is disabled.
func New(store cache.Store, gateway quotes.Gateway, symbols []string, publisher Publisher) *Refresher {
	return &Refresher{
		store:        store,
		gateway:      gateway,
		symbols:      symbols,
		publisher:    publisher,
		ttl:          cache.DefaultTTL,
		cycleTimeout: 2 * time.Minute,
	}
}

// DefaultInterval is used when Start is given a non-positive
// interval; time.NewTicker panics on zero.
const DefaultInterval = 15 * time.Minute

// Start schedules the repeating job and triggers one immediate cycle.
// Calling Start while already scheduled is a no-op.
func (r *Refresher) Start(interval time.Duration) {
	if interval <= 0 {
		log.Printf("refresher: invalid interval %v, using %v", interval, DefaultInterval)
		interval = DefaultInterval
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.scheduled {
		return
	}
	r.scheduled = true
	r.stopCh = make(chan struct{})
	go r.run(interval, r.stopCh)
}

// Stop cancels future ticks. It is safe to call when not started and
// does not interrupt a cycle already in flight; that cycle runs to
// completion and releases the guard normally.
func (r *Refresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.scheduled {
		return
	}
	close(r.stopCh)
	r.scheduled = false
}

func (r *Refresher) run(interval time.Duration, stop <-chan struct{}) {
	r.RunCycle(context.Background())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			r.RunCycle(context.Background())
		}
	}
}

// RunCycle executes one fetch-and-cache cycle. If a cycle is already
// running the call returns immediately without fetching. A fetch
// failure leaves the previous cache entries untouched; the next tick
// retries. The guard is released on every exit path.
func (r *Refresher) RunCycle(ctx context.Context) {
	if !r.running.CompareAndSwap(false, true) {
		log.Println("refresher: cycle already in flight, skipping")
		return
	}
	defer r.running.Store(false)

	ctx, cancel := context.WithTimeout(ctx, r.cycleTimeout)
	defer cancel()

	batch, err := r.gateway.FetchQuotes(ctx, r.symbols)
	if err != nil {
		log.Printf("refresher: quote fetch failed: %v", err)
		return
	}

	// Writes are sequential, not transactional; readers may observe a
	// partially updated key set between them.
	if err := r.store.Set(ctx, cache.KeyQuoteBatch, batch.Quotes, r.ttl); err != nil {
		log.Printf("refresher: cache write failed for %s: %v", cache.KeyQuoteBatch, err)
	}
	for _, q := range batch.Quotes {
		if err := r.store.Set(ctx, cache.SymbolKey(q.Symbol), q, r.ttl); err != nil {
			log.Printf("refresher: cache write failed for %s: %v", cache.SymbolKey(q.Symbol), err)
		}
	}
	if err := r.store.Set(ctx, cache.KeyLastUpdated, batch.CapturedAt.UnixMilli(), r.ttl); err != nil {
		log.Printf("refresher: cache write failed for %s: %v", cache.KeyLastUpdated, err)
	}

	if r.publisher != nil {
		if err := r.publisher.PublishQuotesRefreshed(ctx, batch); err != nil {
			log.Printf("refresher: publish failed: %v", err)
		}
	}

	log.Printf("refresher: cached %d quotes", len(batch.Quotes))
}
