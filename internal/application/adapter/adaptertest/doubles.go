package adaptertest

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/boi-gordo/backend/internal/application/adapter"
)

// MemoryCache is a ReportCache kept in a map. Values go through JSON like they
// would through Redis.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	Hits    int
	Misses  int
}

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: map[string][]byte{}}
}

// Get implements adapter.ReportCache.
func (c *MemoryCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[key]
	if !ok {
		c.Misses++
		return false, nil
	}
	c.Hits++
	return true, json.Unmarshal(raw, dest)
}

// Set implements adapter.ReportCache.
func (c *MemoryCache) Set(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = raw
	return nil
}

// InvalidatePrefix implements adapter.ReportCache.
func (c *MemoryCache) InvalidatePrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
	return nil
}

// Keys returns the cached keys.
func (c *MemoryCache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	return keys
}

// AlertRecorder is an AlertService that keeps queued alerts in memory.
type AlertRecorder struct {
	mu                     sync.Mutex
	ReconciliationWarnings []adapter.ReconciliationWarningInput
	JobFailures            []adapter.JobFailureInput
}

// QueueReconciliationWarning implements adapter.AlertService.
func (a *AlertRecorder) QueueReconciliationWarning(_ context.Context, input adapter.ReconciliationWarningInput) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ReconciliationWarnings = append(a.ReconciliationWarnings, input)
	return nil
}

// QueueJobFailure implements adapter.AlertService.
func (a *AlertRecorder) QueueJobFailure(_ context.Context, input adapter.JobFailureInput) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.JobFailures = append(a.JobFailures, input)
	return nil
}

// FixedFeedPrice is a FeedPriceProvider returning the same price for every date, or none when nil.
type FixedFeedPrice struct {
	Price *decimal.Decimal
}

// PriceOn implements adapter.FeedPriceProvider.
func (f FixedFeedPrice) PriceOn(context.Context, time.Time) (*decimal.Decimal, error) {
	return f.Price, nil
}

// Ensure implementations satisfy interfaces.
var (
	_ adapter.ReportCache       = (*MemoryCache)(nil)
	_ adapter.AlertService      = (*AlertRecorder)(nil)
	_ adapter.FeedPriceProvider = FixedFeedPrice{}
)
