package bitmapcache

import (
	"fmt"
	"image"
	"sync"
	"sync/atomic"

	arc "github.com/hashicorp/golang-lru/arc/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	intImage "github.com/gogpu/pixref/internal/image"
)

// LRU is a Store bounded by entry count, backed by hashicorp/golang-lru.
type LRU struct {
	entries *lru.Cache[Key, *intImage.Buffer]

	bytes     atomic.Int64
	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// NewLRU creates a store holding at most size entries.
func NewLRU(size int) (*LRU, error) {
	s := &LRU{}
	c, err := lru.NewWithEvict[Key, *intImage.Buffer](size, func(_ Key, b *intImage.Buffer) {
		s.bytes.Add(-int64(b.ByteSize()))
	})
	if err != nil {
		return nil, fmt.Errorf("bitmapcache: create lru: %w", err)
	}
	s.entries = c
	return s, nil
}

// Find implements Store.
func (s *LRU) Find(id uint64, bounds image.Rectangle) (*intImage.Buffer, bool) {
	buf, ok := s.entries.Get(Key{ID: id, Bounds: bounds})
	if ok {
		s.hits.Add(1)
	} else {
		s.misses.Add(1)
	}
	return buf, ok
}

// Add implements Store.
func (s *LRU) Add(id uint64, bounds image.Rectangle, buf *intImage.Buffer) bool {
	if !acceptable(bounds, buf) {
		return false
	}
	// Count the bytes before publishing so the evict callback never sees
	// the total go negative.
	s.bytes.Add(int64(buf.ByteSize()))
	present, evicted := s.entries.ContainsOrAdd(Key{ID: id, Bounds: bounds}, buf)
	if present {
		s.bytes.Add(-int64(buf.ByteSize()))
		return false
	}
	if evicted {
		s.evictions.Add(1)
	}
	return true
}

// Remove implements Store.
func (s *LRU) Remove(id uint64, bounds image.Rectangle) bool {
	return s.entries.Remove(Key{ID: id, Bounds: bounds})
}

// PurgeID implements Store.
func (s *LRU) PurgeID(id uint64) int {
	n := 0
	for _, k := range s.entries.Keys() {
		if k.ID == id && s.entries.Remove(k) {
			n++
		}
	}
	return n
}

// Purge implements Store.
func (s *LRU) Purge() {
	s.entries.Purge()
}

// Len implements Store.
func (s *LRU) Len() int {
	return s.entries.Len()
}

// Stats implements Store.
func (s *LRU) Stats() Stats {
	return Stats{
		Entries:   s.entries.Len(),
		Bytes:     s.bytes.Load(),
		Hits:      s.hits.Load(),
		Misses:    s.misses.Load(),
		Evictions: s.evictions.Load(),
	}
}

// ARC is a Store bounded by entry count using adaptive replacement, which
// keeps frequently re-locked images resident across scans of one-off images.
type ARC struct {
	// mu makes the contains-then-add sequence in Add atomic.
	mu      sync.Mutex
	entries *arc.ARCCache[Key, *intImage.Buffer]
	size    int

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// NewARC creates a store holding at most size entries.
func NewARC(size int) (*ARC, error) {
	c, err := arc.NewARC[Key, *intImage.Buffer](size)
	if err != nil {
		return nil, fmt.Errorf("bitmapcache: create arc: %w", err)
	}
	return &ARC{entries: c, size: size}, nil
}

// Find implements Store.
func (s *ARC) Find(id uint64, bounds image.Rectangle) (*intImage.Buffer, bool) {
	buf, ok := s.entries.Get(Key{ID: id, Bounds: bounds})
	if ok {
		s.hits.Add(1)
	} else {
		s.misses.Add(1)
	}
	return buf, ok
}

// Add implements Store.
func (s *ARC) Add(id uint64, bounds image.Rectangle, buf *intImage.Buffer) bool {
	if !acceptable(bounds, buf) {
		return false
	}
	key := Key{ID: id, Bounds: bounds}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entries.Contains(key) {
		return false
	}
	if s.entries.Len() >= s.size {
		s.evictions.Add(1)
	}
	s.entries.Add(key, buf)
	return true
}

// Remove implements Store.
func (s *ARC) Remove(id uint64, bounds image.Rectangle) bool {
	key := Key{ID: id, Bounds: bounds}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.entries.Contains(key) {
		return false
	}
	s.entries.Remove(key)
	return true
}

// PurgeID implements Store.
func (s *ARC) PurgeID(id uint64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, k := range s.entries.Keys() {
		if k.ID == id {
			s.entries.Remove(k)
			n++
		}
	}
	return n
}

// Purge implements Store.
func (s *ARC) Purge() {
	s.entries.Purge()
}

// Len implements Store.
func (s *ARC) Len() int {
	return s.entries.Len()
}

// Stats implements Store. Bytes is computed by walking resident entries.
func (s *ARC) Stats() Stats {
	var bytes int64
	for _, k := range s.entries.Keys() {
		if b, ok := s.entries.Peek(k); ok {
			bytes += int64(b.ByteSize())
		}
	}
	return Stats{
		Entries:   s.entries.Len(),
		Bytes:     bytes,
		Hits:      s.hits.Load(),
		Misses:    s.misses.Load(),
		Evictions: s.evictions.Load(),
	}
}
