// Package cache provides in-memory caching for computed odds previews.
package cache

import (
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/yourusername/house-odds/internal/metrics"
	"github.com/yourusername/house-odds/internal/odds"
)

// Key identifies a preview by its inputs.
type Key struct {
	Weights []int
	Margin  float64
	Alpha   float64
}

// String returns string representation of cache key
func (k Key) String() string {
	var b strings.Builder
	for i, w := range k.Weights {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(w))
	}
	b.WriteByte('|')
	b.WriteString(strconv.FormatFloat(k.Margin, 'g', -1, 64))
	b.WriteByte('|')
	b.WriteString(strconv.FormatFloat(k.Alpha, 'g', -1, 64))
	return b.String()
}

// PreviewCache provides in-memory caching for preview quotes. It is safe for
// concurrent use.
type PreviewCache struct {
	cache     *gocache.Cache
	ttl       time.Duration
	maxSize   int
	mu        sync.Mutex
	hitCount  atomic.Uint64
	missCount atomic.Uint64
}

// NewPreviewCache creates a new preview cache
func NewPreviewCache(ttl time.Duration, maxSize int) *PreviewCache {
	return &PreviewCache{
		cache:   gocache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get retrieves a cached preview. The returned slice is a copy.
func (pc *PreviewCache) Get(key Key) ([]odds.Quote, bool) {
	if v, found := pc.cache.Get(key.String()); found {
		if quotes, ok := v.([]odds.Quote); ok {
			pc.hitCount.Add(1)
			metrics.RecordCacheHit()
			return cloneQuotes(quotes), true
		}
	}

	pc.missCount.Add(1)
	metrics.RecordCacheMiss()
	return nil, false
}

// Set stores a preview. When the cache is full and nothing has expired the
// entry is dropped.
func (pc *PreviewCache) Set(key Key, quotes []odds.Quote) bool {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if pc.cache.ItemCount() >= pc.maxSize {
		pc.cache.DeleteExpired()
		if pc.cache.ItemCount() >= pc.maxSize {
			return false
		}
	}

	pc.cache.Set(key.String(), cloneQuotes(quotes), pc.ttl)
	metrics.UpdateCacheItems(pc.cache.ItemCount())
	return true
}

// GetOrCompute returns the cached preview for key, computing and storing it
// on a miss.
func (pc *PreviewCache) GetOrCompute(key Key, compute func() []odds.Quote) ([]odds.Quote, bool) {
	if quotes, ok := pc.Get(key); ok {
		return quotes, true
	}
	quotes := compute()
	pc.Set(key, quotes)
	return quotes, false
}

// Clear flushes the entire cache
func (pc *PreviewCache) Clear() {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	pc.cache.Flush()
	pc.hitCount.Store(0)
	pc.missCount.Store(0)
	metrics.UpdateCacheItems(0)
}

// Stats returns cache statistics
func (pc *PreviewCache) Stats() (hits, misses uint64, ratio float64) {
	hits = pc.hitCount.Load()
	misses = pc.missCount.Load()
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// Sweep evicts expired previews and returns the number left.
func (pc *PreviewCache) Sweep() int {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	pc.cache.DeleteExpired()
	n := pc.cache.ItemCount()
	metrics.UpdateCacheItems(n)
	return n
}

// ItemCount returns the number of items in cache
func (pc *PreviewCache) ItemCount() int {
	return pc.cache.ItemCount()
}

func cloneQuotes(quotes []odds.Quote) []odds.Quote {
	out := make([]odds.Quote, len(quotes))
	copy(out, quotes)
	return out
}
