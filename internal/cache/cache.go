package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Sayan-Mondal2022/travAi/app/observability/metrics"
)

// evictionSlack is how many entries beyond the strict overflow each tier
// drops when truncated, so eviction does not run on every single Set.
const evictionSlack = 10

// Stats is a point-in-time snapshot of cache effectiveness.
type Stats struct {
	Hits        int64   `json:"hits"`
	Misses      int64   `json:"misses"`
	HitRate     float64 `json:"hit_rate"`
	FastSize    int     `json:"fast_size"`
	DurableSize int     `json:"durable_size"`
}

// TieredCache is a two-tier TTL cache: a fast in-process tier backed by a
// durable DocumentStore. Durable-tier failures are logged and degrade to
// misses or fast-only writes, never surfaced to callers. Expiry is checked
// lazily at lookup time.
type TieredCache struct {
	mu     sync.RWMutex
	fast   map[string]Entry
	hits   int64
	misses int64

	store   DocumentStore
	maxSize int
	logger  *slog.Logger
	now     func() time.Time
}

// NewTieredCache builds a cache over the given durable store. maxSize bounds
// both tiers independently; values below 1 fall back to 1000.
func NewTieredCache(store DocumentStore, maxSize int, logger *slog.Logger) *TieredCache {
	if maxSize < 1 {
		maxSize = 1000
	}
	return &TieredCache{
		fast:    make(map[string]Entry),
		store:   store,
		maxSize: maxSize,
		logger:  logger,
		now:     time.Now,
	}
}

// Get returns the cached payload for key, or ok=false on a miss. A durable
// hit is promoted into the fast tier. Expired entries are deleted from
// whichever tier they were found in and counted as misses.
func (c *TieredCache) Get(ctx context.Context, key string) (json.RawMessage, bool) {
	now := c.now()

	c.mu.Lock()
	if entry, ok := c.fast[key]; ok {
		if !entry.Expired(now) {
			c.hits++
			c.mu.Unlock()
			metrics.RecordCacheHit(ctx, "fast")
			return entry.Payload, true
		}
		delete(c.fast, key)
	}
	c.mu.Unlock()

	entry, ok, err := c.store.Load(ctx, key)
	if err != nil {
		c.logger.ErrorContext(ctx, "Durable cache read failed, treating as miss",
			slog.String("key", key), slog.Any("error", err))
		c.recordMiss(ctx)
		return nil, false
	}
	if !ok {
		c.recordMiss(ctx)
		return nil, false
	}
	if entry.Expired(now) {
		if err := c.store.Delete(ctx, key); err != nil {
			c.logger.WarnContext(ctx, "Failed to delete expired durable entry",
				slog.String("key", key), slog.Any("error", err))
		}
		c.recordMiss(ctx)
		return nil, false
	}

	// Promote into the fast tier before returning.
	c.mu.Lock()
	c.fast[key] = entry
	c.hits++
	c.truncateFastLocked()
	c.mu.Unlock()
	metrics.RecordCacheHit(ctx, "durable")
	return entry.Payload, true
}

// Set writes the value to both tiers and truncates each tier, oldest
// entries first, if it exceeds the configured bound.
func (c *TieredCache) Set(ctx context.Context, key string, value json.RawMessage, ttl time.Duration) {
	entry := Entry{Payload: value, CreatedAt: c.now(), TTL: ttl}

	c.mu.Lock()
	c.fast[key] = entry
	c.truncateFastLocked()
	c.mu.Unlock()

	if err := c.store.Store(ctx, key, entry); err != nil {
		c.logger.ErrorContext(ctx, "Durable cache write failed, entry kept in fast tier only",
			slog.String("key", key), slog.Any("error", err))
		return
	}
	c.truncateDurable(ctx)
}

// Clear empties both tiers.
func (c *TieredCache) Clear(ctx context.Context) {
	c.mu.Lock()
	c.fast = make(map[string]Entry)
	c.mu.Unlock()

	if err := c.store.Purge(ctx); err != nil {
		c.logger.ErrorContext(ctx, "Durable cache purge failed", slog.Any("error", err))
	}
}

// Stats reports hit/miss counters and current tier sizes. A durable-tier
// count failure degrades to size 0.
func (c *TieredCache) Stats(ctx context.Context) Stats {
	c.mu.RLock()
	hits, misses := c.hits, c.misses
	fastSize := len(c.fast)
	c.mu.RUnlock()

	durableSize, err := c.store.Count(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "Durable cache count failed", slog.Any("error", err))
		durableSize = 0
	}

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}
	return Stats{
		Hits:        hits,
		Misses:      misses,
		HitRate:     hitRate,
		FastSize:    fastSize,
		DurableSize: durableSize,
	}
}

func (c *TieredCache) recordMiss(ctx context.Context) {
	c.mu.Lock()
	c.misses++
	c.mu.Unlock()
	metrics.RecordCacheMiss(ctx)
}

// truncateFastLocked evicts the oldest entries when the fast tier exceeds
// its bound. Caller must hold c.mu.
func (c *TieredCache) truncateFastLocked() {
	if len(c.fast) <= c.maxSize {
		return
	}
	type keyed struct {
		key       string
		createdAt time.Time
	}
	ordered := make([]keyed, 0, len(c.fast))
	for k, e := range c.fast {
		ordered = append(ordered, keyed{key: k, createdAt: e.CreatedAt})
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].createdAt.Before(ordered[j].createdAt)
	})

	toRemove := len(c.fast) - c.maxSize + evictionSlack
	if toRemove > len(ordered) {
		toRemove = len(ordered)
	}
	for _, item := range ordered[:toRemove] {
		delete(c.fast, item.key)
	}
}

func (c *TieredCache) truncateDurable(ctx context.Context) {
	count, err := c.store.Count(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "Durable cache count failed during truncation", slog.Any("error", err))
		return
	}
	if count <= c.maxSize {
		return
	}
	if err := c.store.DeleteOldest(ctx, count-c.maxSize+evictionSlack); err != nil {
		c.logger.WarnContext(ctx, "Durable cache truncation failed", slog.Any("error", err))
	}
}
