package cache

import (
	"encoding/binary"
	"sync"
	"sync/atomic"

	farm "github.com/dgryski/go-farm"
)

// Default configuration constants.
const (
	// DefaultShardCount is the number of shards for reduced lock contention.
	// Must be a power of 2 for fast modulo via bitwise AND.
	DefaultShardCount = 16

	// DefaultCapacity is the default maximum entries per shard.
	DefaultCapacity = 256

	// shardMask is used for fast shard selection (DefaultShardCount - 1).
	shardMask = DefaultShardCount - 1
)

// Hasher is a function that computes a hash for a key.
// Used by ShardedCache for shard selection.
type Hasher[K any] func(K) uint64

// BytesHasher hashes a byte slice with FarmHash.
func BytesHasher(b []byte) uint64 {
	return farm.Hash64(b)
}

// StringHasher hashes a string key with FarmHash.
func StringHasher(s string) uint64 {
	return farm.Hash64([]byte(s))
}

// Uint64Hasher mixes an integer key with FarmHash so that sequential keys
// spread across shards.
func Uint64Hasher(u uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], u)
	return farm.Hash64(buf[:])
}

// Options configures a ShardedCache.
type Options[K comparable, V any] struct {
	// Capacity is the maximum number of entries per shard.
	// If <= 0, DefaultCapacity is used.
	Capacity int

	// MaxCost is the per-shard ceiling on the summed Cost of entries.
	// Zero disables cost accounting.
	MaxCost int64

	// Cost reports the cost of a value. Required when MaxCost > 0.
	Cost func(V) int64

	// OnEvict is called, outside the shard lock, for every entry dropped to
	// make room. It is not called for Delete, DeleteFunc or Clear.
	OnEvict func(K, V)
}

// ShardedCache is a thread-safe, sharded LRU cache for high-concurrency scenarios.
//
// Features:
//   - 16 shards for reduced lock contention
//   - LRU eviction bounded by entry count and, optionally, by cost
//   - Insert-if-absent (Add) so that the first writer of a key wins
//   - Atomic statistics for monitoring
//
// Every method is atomic with respect to the others for a given key.
type ShardedCache[K comparable, V any] struct {
	shards  [DefaultShardCount]*shard[K, V]
	hasher  Hasher[K]
	options Options[K, V]

	// Statistics (atomic for zero-allocation reads)
	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
	rejected  atomic.Uint64
}

// shard is a single shard of the cache with its own mutex.
type shard[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]*entry[K, V]
	lru     lruList[K]
	cost    int64
}

// entry holds a cached value with its recency node.
type entry[K comparable, V any] struct {
	value V
	cost  int64
	node  *lruNode[K]
}

// evicted is an entry removed under lock, reported to OnEvict after unlock.
type evicted[K comparable, V any] struct {
	key   K
	value V
}

// NewSharded creates a new sharded cache with the specified capacity per shard.
// Total capacity is approximately capacity * DefaultShardCount (16).
//
// If capacity <= 0, DefaultCapacity (256) is used.
func NewSharded[K comparable, V any](capacity int, hasher Hasher[K]) *ShardedCache[K, V] {
	return NewShardedWithOptions(hasher, Options[K, V]{Capacity: capacity})
}

// NewShardedWithOptions creates a sharded cache configured by opts.
func NewShardedWithOptions[K comparable, V any](hasher Hasher[K], opts Options[K, V]) *ShardedCache[K, V] {
	if opts.Capacity <= 0 {
		opts.Capacity = DefaultCapacity
	}
	if opts.Cost == nil {
		opts.MaxCost = 0
	}

	c := &ShardedCache[K, V]{
		hasher:  hasher,
		options: opts,
	}
	for i := range c.shards {
		c.shards[i] = &shard[K, V]{entries: make(map[K]*entry[K, V])}
	}
	return c
}

func (c *ShardedCache[K, V]) shardFor(key K) *shard[K, V] {
	return c.shards[c.hasher(key)&shardMask]
}

func (c *ShardedCache[K, V]) costOf(value V) int64 {
	if c.options.MaxCost <= 0 {
		return 0
	}
	return c.options.Cost(value)
}

// Get retrieves a cached value by key and marks it most recently used.
// Returns (value, true) if found, (zero, false) otherwise.
func (c *ShardedCache[K, V]) Get(key K) (V, bool) {
	s := c.shardFor(key)

	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok {
		s.mu.Unlock()
		c.misses.Add(1)
		var zero V
		return zero, false
	}
	s.lru.MoveToFront(e.node)
	value := e.value
	s.mu.Unlock()

	c.hits.Add(1)
	return value, true
}

// Peek retrieves a cached value without touching recency or statistics.
func (c *ShardedCache[K, V]) Peek(key K) (V, bool) {
	s := c.shardFor(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok {
		return e.value, true
	}
	var zero V
	return zero, false
}

// Set stores a value, replacing any existing entry for key.
// A value whose cost alone exceeds MaxCost is not stored, and any previous
// entry for key is dropped.
//
// The value is stored as-is (not copied). Callers should not modify it
// after caching.
func (c *ShardedCache[K, V]) Set(key K, value V) {
	s := c.shardFor(key)
	cost := c.costOf(value)

	s.mu.Lock()
	if existing, ok := s.entries[key]; ok {
		s.remove(key, existing)
	}
	var out []evicted[K, V]
	if c.fits(cost) {
		out = c.insertLocked(s, key, value, cost)
	} else {
		c.rejected.Add(1)
	}
	s.mu.Unlock()

	c.notify(out)
}

// Add stores value only if key is absent. It reports whether the value
// was stored; an existing entry is left untouched and wins.
func (c *ShardedCache[K, V]) Add(key K, value V) bool {
	s := c.shardFor(key)
	cost := c.costOf(value)

	s.mu.Lock()
	if _, ok := s.entries[key]; ok {
		s.mu.Unlock()
		return false
	}
	if !c.fits(cost) {
		s.mu.Unlock()
		c.rejected.Add(1)
		return false
	}
	out := c.insertLocked(s, key, value, cost)
	s.mu.Unlock()

	c.notify(out)
	return true
}

func (c *ShardedCache[K, V]) fits(cost int64) bool {
	return c.options.MaxCost <= 0 || cost <= c.options.MaxCost
}

// insertLocked evicts from the tail until the new entry fits, then links it.
// Caller must hold s.mu.
func (c *ShardedCache[K, V]) insertLocked(s *shard[K, V], key K, value V, cost int64) []evicted[K, V] {
	var out []evicted[K, V]
	for s.lru.Len() > 0 &&
		(s.lru.Len() >= c.options.Capacity ||
			(c.options.MaxCost > 0 && s.cost+cost > c.options.MaxCost)) {
		oldest := s.lru.Back()
		e := s.entries[oldest.key]
		s.remove(oldest.key, e)
		c.evictions.Add(1)
		if c.options.OnEvict != nil {
			out = append(out, evicted[K, V]{key: oldest.key, value: e.value})
		}
	}

	s.entries[key] = &entry[K, V]{
		value: value,
		cost:  cost,
		node:  s.lru.PushFront(key),
	}
	s.cost += cost
	return out
}

func (c *ShardedCache[K, V]) notify(out []evicted[K, V]) {
	for _, ev := range out {
		c.options.OnEvict(ev.key, ev.value)
	}
}

// remove drops an entry. Caller must hold s.mu.
func (s *shard[K, V]) remove(key K, e *entry[K, V]) {
	s.lru.Remove(e.node)
	delete(s.entries, key)
	s.cost -= e.cost
}

// Delete removes an entry from the cache.
// Returns true if the entry was found and removed.
func (c *ShardedCache[K, V]) Delete(key K) bool {
	s := c.shardFor(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return false
	}
	s.remove(key, e)
	return true
}

// DeleteFunc removes every entry for which match returns true and returns
// the number removed. match is called with the shard lock held.
func (c *ShardedCache[K, V]) DeleteFunc(match func(K, V) bool) int {
	removed := 0
	for _, s := range c.shards {
		s.mu.Lock()
		for key, e := range s.entries {
			if match(key, e.value) {
				s.remove(key, e)
				removed++
			}
		}
		s.mu.Unlock()
	}
	return removed
}

// Clear removes all entries from the cache.
func (c *ShardedCache[K, V]) Clear() {
	for _, s := range c.shards {
		s.mu.Lock()
		s.entries = make(map[K]*entry[K, V])
		s.lru.Clear()
		s.cost = 0
		s.mu.Unlock()
	}
}

// Len returns the total number of entries across all shards.
func (c *ShardedCache[K, V]) Len() int {
	total := 0
	for _, s := range c.shards {
		s.mu.Lock()
		total += len(s.entries)
		s.mu.Unlock()
	}
	return total
}

// Cost returns the summed cost of all entries.
func (c *ShardedCache[K, V]) Cost() int64 {
	var total int64
	for _, s := range c.shards {
		s.mu.Lock()
		total += s.cost
		s.mu.Unlock()
	}
	return total
}

// Capacity returns the per-shard entry capacity.
func (c *ShardedCache[K, V]) Capacity() int {
	return c.options.Capacity
}

// Stats returns current cache statistics.
func (c *ShardedCache[K, V]) Stats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return Stats{
		Len:           c.Len(),
		Cost:          c.Cost(),
		Capacity:      c.options.Capacity,
		TotalCapacity: c.options.Capacity * DefaultShardCount,
		Hits:          hits,
		Misses:        misses,
		HitRate:       hitRate,
		Evictions:     c.evictions.Load(),
		Rejected:      c.rejected.Load(),
	}
}

// ResetStats resets all statistics counters to zero.
func (c *ShardedCache[K, V]) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.evictions.Store(0)
	c.rejected.Store(0)
}

// Stats contains cache statistics.
type Stats struct {
	// Len is the current number of entries.
	Len int
	// Cost is the summed cost of all entries.
	Cost int64
	// Capacity is the per-shard entry capacity.
	Capacity int
	// TotalCapacity is the entry capacity across all shards.
	TotalCapacity int
	// Hits is the number of Get calls that found an entry.
	Hits uint64
	// Misses is the number of Get calls that found nothing.
	Misses uint64
	// HitRate is Hits / (Hits + Misses), 0.0 to 1.0.
	HitRate float64
	// Evictions is the number of entries dropped to make room.
	Evictions uint64
	// Rejected is the number of values too costly to store at all.
	Rejected uint64
}
