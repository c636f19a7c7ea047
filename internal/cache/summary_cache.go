package cache

import (
	"strings"
	"sync"
	"time"

	inventorydomain "github.com/shopkit/tradepost/internal/inventory/domain"
)

const defaultSummaryTTL = 30 * time.Second

// SummaryCache stores stock summaries keyed by (org, product, location),
// guarded by a per-key generation counter. Readers snapshot the generation
// before hitting the database and pass it back to Set; a write whose
// generation no longer matches is discarded, so a slow read finishing after
// an adjustment can never overwrite the newer state.
type SummaryCache struct {
	summaries Cache[string, *inventorydomain.StockSummary]
	ttl       time.Duration

	mu   sync.Mutex
	gens map[string]uint64
}

func NewSummaryCache() *SummaryCache {
	return &SummaryCache{
		summaries: NewTTLCache[string, *inventorydomain.StockSummary](),
		ttl:       defaultSummaryTTL,
		gens:      make(map[string]uint64),
	}
}

// Generation returns the key's current generation. Callers take it before
// reading the database.
func (c *SummaryCache) Generation(orgID, productID, locationID string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[cacheKey(orgID, productID, locationID)]
}

func (c *SummaryCache) Get(orgID, productID, locationID string) (*inventorydomain.StockSummary, bool) {
	return c.summaries.Get(cacheKey(orgID, productID, locationID))
}

// Set stores the summary only when gen still matches the key's current
// generation.
func (c *SummaryCache) Set(orgID, productID, locationID string, gen uint64, summary *inventorydomain.StockSummary) {
	if summary == nil {
		return
	}

	key := cacheKey(orgID, productID, locationID)

	c.mu.Lock()
	current := c.gens[key]
	c.mu.Unlock()
	if current != gen {
		return
	}

	c.summaries.Set(key, summary, c.ttl)
}

// Invalidate bumps the key's generation and drops any cached entry. Called
// after every committed adjustment.
func (c *SummaryCache) Invalidate(orgID, productID, locationID string) {
	key := cacheKey(orgID, productID, locationID)

	c.mu.Lock()
	c.gens[key]++
	c.mu.Unlock()

	c.summaries.Delete(key)
}

func cacheKey(parts ...string) string {
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		values = append(values, strings.ToLower(trimmed))
	}
	return strings.Join(values, "|")
}
