package bitmapcache

import (
	"image"

	"github.com/gogpu/pixref/cache"
	intImage "github.com/gogpu/pixref/internal/image"
)

// entriesPerShard bounds the entry count of a Sharded store; the byte
// budget is normally the tighter limit.
const entriesPerShard = 1024

// Sharded is a Store bounded by a byte budget, backed by cache.ShardedCache.
type Sharded struct {
	c *cache.ShardedCache[Key, *intImage.Buffer]
}

// NewSharded creates a store holding at most budget bytes of pixels.
// The budget is split evenly across shards, so a single buffer larger than
// budget/cache.DefaultShardCount is never retained.
// A budget <= 0 disables the byte limit.
func NewSharded(budget int64) *Sharded {
	opts := cache.Options[Key, *intImage.Buffer]{
		Capacity: entriesPerShard,
	}
	if budget > 0 {
		opts.MaxCost = max(budget/cache.DefaultShardCount, 1)
		opts.Cost = func(b *intImage.Buffer) int64 { return int64(b.ByteSize()) }
	}
	return &Sharded{c: cache.NewShardedWithOptions(Key.hash, opts)}
}

// Find implements Store.
func (s *Sharded) Find(id uint64, bounds image.Rectangle) (*intImage.Buffer, bool) {
	return s.c.Get(Key{ID: id, Bounds: bounds})
}

// Add implements Store.
func (s *Sharded) Add(id uint64, bounds image.Rectangle, buf *intImage.Buffer) bool {
	if !acceptable(bounds, buf) {
		return false
	}
	return s.c.Add(Key{ID: id, Bounds: bounds}, buf)
}

// Remove implements Store.
func (s *Sharded) Remove(id uint64, bounds image.Rectangle) bool {
	return s.c.Delete(Key{ID: id, Bounds: bounds})
}

// PurgeID implements Store.
func (s *Sharded) PurgeID(id uint64) int {
	return s.c.DeleteFunc(func(k Key, _ *intImage.Buffer) bool { return k.ID == id })
}

// Purge implements Store.
func (s *Sharded) Purge() {
	s.c.Clear()
}

// Len implements Store.
func (s *Sharded) Len() int {
	return s.c.Len()
}

// Stats implements Store. Bytes is only tracked when a budget is set.
func (s *Sharded) Stats() Stats {
	cs := s.c.Stats()
	return Stats{
		Entries:   cs.Len,
		Bytes:     cs.Cost,
		Hits:      cs.Hits,
		Misses:    cs.Misses,
		Evictions: cs.Evictions,
	}
}
