// Package bitmapcache is the process-wide store of decoded pixel buffers.
//
// Entries are keyed by an image generation ID and a pixel region, so two
// regions of the same image are independent entries. Stores accept only
// immutable buffers, may evict any entry at any time, and never replace an
// entry that is already present: the first buffer published for a key is
// the one every later lookup sees.
package bitmapcache

import (
	"encoding/binary"
	"image"
	"sync/atomic"

	"github.com/gogpu/pixref/cache"
	intImage "github.com/gogpu/pixref/internal/image"
)

// Key addresses one decoded region of one logical image.
type Key struct {
	ID     uint64
	Bounds image.Rectangle
}

// hash mixes every field of the key so that regions of the same image
// spread across shards.
func (k Key) hash() uint64 {
	var b [40]byte
	binary.LittleEndian.PutUint64(b[0:], k.ID)
	binary.LittleEndian.PutUint64(b[8:], uint64(int64(k.Bounds.Min.X)))
	binary.LittleEndian.PutUint64(b[16:], uint64(int64(k.Bounds.Min.Y)))
	binary.LittleEndian.PutUint64(b[24:], uint64(int64(k.Bounds.Max.X)))
	binary.LittleEndian.PutUint64(b[32:], uint64(int64(k.Bounds.Max.Y)))
	return cache.BytesHasher(b[:])
}

// Store is a thread-safe keyed store of immutable decoded buffers.
//
// Find and Add are each atomic with respect to one another. Nothing is
// promised across calls: an entry found once may be gone on the next Find.
type Store interface {
	// Find returns the buffer published for (id, bounds), if still resident.
	Find(id uint64, bounds image.Rectangle) (*intImage.Buffer, bool)

	// Add publishes buf for (id, bounds). It is best effort and reports
	// whether buf was stored; it returns false when the key is already
	// present or the buffer is rejected.
	Add(id uint64, bounds image.Rectangle, buf *intImage.Buffer) bool

	// Remove drops the entry for (id, bounds).
	Remove(id uint64, bounds image.Rectangle) bool

	// PurgeID drops every region of image id and returns how many were dropped.
	PurgeID(id uint64) int

	// Purge drops every entry.
	Purge()

	// Len returns the number of resident entries.
	Len() int

	// Stats returns a snapshot of store counters.
	Stats() Stats
}

// Stats is a snapshot of store counters.
type Stats struct {
	Entries   int
	Bytes     int64
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// acceptable reports whether buf may be published for bounds: it must be
// immutable and cover the requested region.
func acceptable(bounds image.Rectangle, buf *intImage.Buffer) bool {
	if buf == nil || !buf.IsImmutable() || bounds.Empty() {
		return false
	}
	return bounds.In(buf.Info().Bounds())
}

// DefaultBudget is the byte budget of the store returned by Default.
const DefaultBudget = 32 << 20

type holder struct{ store Store }

var defaultStore atomic.Pointer[holder]

func init() {
	defaultStore.Store(&holder{store: NewSharded(DefaultBudget)})
}

// Default returns the process-wide store.
func Default() Store {
	return defaultStore.Load().store
}

// SetDefault replaces the process-wide store and returns the previous one.
// Passing nil installs a fresh sharded store with DefaultBudget.
func SetDefault(s Store) Store {
	if s == nil {
		s = NewSharded(DefaultBudget)
	}
	return defaultStore.Swap(&holder{store: s}).store
}
