package pixref

import (
	"errors"
	"fmt"
	"image"
	"sync/atomic"

	"github.com/gogpu/pixref/bitmapcache"
)

// BufferCache is the shared store of decoded buffers consulted by Lock.
// Every bitmapcache.Store satisfies it.
//
// Implementations must be safe for concurrent use; each call must be
// atomic, but nothing is assumed across calls.
type BufferCache interface {
	Find(id uint64, bounds image.Rectangle) (*Buffer, bool)
	Add(id uint64, bounds image.Rectangle, buf *Buffer) bool
}

// recycler is implemented by allocators that take back unpublished buffers.
type recycler interface {
	Recycle(buf *Buffer) bool
}

var lastGenerationID atomic.Uint64

// NextGenerationID returns a new process-unique image identity.
// IDs start at 1; zero is never returned.
func NextGenerationID() uint64 {
	return lastGenerationID.Add(1)
}

// State is the lifecycle state of a CachingPixelRef.
type State uint8

const (
	// StateFresh means Lock has never been called.
	StateFresh State = iota

	// StateLocked means a buffer is held and its pixels may be read.
	StateLocked

	// StateUnlocked means no buffer is held and no failure has occurred.
	StateUnlocked

	// StateFailed means an allocation or decode failed. It is terminal.
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateFresh:
		return "Fresh"
	case StateLocked:
		return "Locked"
	case StateUnlocked:
		return "Unlocked"
	case StateFailed:
		return "Failed"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// CachingPixelRef owns a PixelSource and hands out decoded pixels through
// Lock and Unlock, decoding at most once per cache miss.
//
// Decoded buffers are published to a shared BufferCache under
// (GenerationID, full image bounds), so a later Lock, or another reference
// with the same generation ID, reuses them without calling the source. The
// cache may evict an entry at any time; the next Lock then decodes again.
//
// A failed allocation or decode is sticky: every later Lock fails at once
// without touching the cache or the source.
//
// A CachingPixelRef is not safe for concurrent use. Lock, Unlock and Close
// must be serialized by the caller. Separate references may be used from
// separate goroutines and may race to publish the same key; the cache keeps
// whichever buffer arrives first.
type CachingPixelRef struct {
	info     Info
	rowBytes int
	id       uint64
	source   PixelSource
	cache    BufferCache
	alloc    Allocator

	state   State
	closed  bool
	locked  *Buffer
	err     error // sticky failure cause
	decodes int
}

// NewCachingPixelRef takes ownership of src and returns a reference to its
// pixels.
//
// Ownership of src is consumed on every path: if the description is empty
// or invalid, or the configured row stride cannot hold a row, src is closed
// and an error wrapping ErrIncompatibleInfo is returned. A nil src returns
// ErrNilSource.
func NewCachingPixelRef(src PixelSource, opts ...Option) (*CachingPixelRef, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	info := src.Info()
	rowBytes, err := checkInfo(info, o.rowBytes)
	if err == nil && info.IsEmpty() {
		err = fmt.Errorf("%w: empty image %s", ErrIncompatibleInfo, info)
	}
	if err != nil {
		_ = closeSource(src)
		return nil, err
	}
	return newRef(src, info, rowBytes, o), nil
}

// newRef builds a reference from already validated parts.
func newRef(src PixelSource, info Info, rowBytes int, o refOptions) *CachingPixelRef {
	id := o.id
	if id == 0 {
		id = NextGenerationID()
	}
	return &CachingPixelRef{
		info:     info,
		rowBytes: rowBytes,
		id:       id,
		source:   src,
		cache:    o.cache,
		alloc:    o.alloc,
	}
}

// GenerationID returns the identity used as the cache key prefix.
func (r *CachingPixelRef) GenerationID() uint64 {
	return r.id
}

// Info returns the description shared by the source and decoded buffers.
func (r *CachingPixelRef) Info() Info {
	return r.info
}

// RowBytes returns the configured row stride of decoded buffers.
func (r *CachingPixelRef) RowBytes() int {
	return r.rowBytes
}

// State returns the current lifecycle state.
func (r *CachingPixelRef) State() State {
	return r.state
}

// Closed reports whether Close has been called.
func (r *CachingPixelRef) Closed() bool {
	return r.closed
}

// Err returns the sticky failure, or nil.
func (r *CachingPixelRef) Err() error {
	return r.err
}

// Decodes returns how many times the source has been asked for pixels.
func (r *CachingPixelRef) Decodes() int {
	return r.decodes
}

// LockedBuffer returns the buffer held since the last successful Lock, or
// nil when unlocked.
func (r *CachingPixelRef) LockedBuffer() *Buffer {
	return r.locked
}

func (r *CachingPixelRef) store() BufferCache {
	if r.cache != nil {
		return r.cache
	}
	return bitmapcache.Default()
}

// Lock returns read-only decoded pixels and their row stride.
//
// The shared cache is consulted first. On a miss a buffer is allocated, the
// source fills it, the buffer is made immutable and published to the cache,
// and its pixels are returned even if the cache declines to keep it.
//
// A cached buffer is used only if its description equals Info; references
// sharing a generation ID but not a layout decode their own pixels.
//
// The returned slice must not be modified, nor used after Unlock. Calling
// Lock again without an intervening Unlock is a caller bug; the reference
// does not guard against it.
func (r *CachingPixelRef) Lock() ([]byte, int, error) {
	switch {
	case r.err != nil:
		return nil, 0, fmt.Errorf("%w: %w", ErrFailedPreviously, r.err)
	case r.closed:
		return nil, 0, ErrClosed
	}

	store := r.store()
	bounds := r.info.Bounds()

	// A buffer published under the same ID with another layout is a miss;
	// the decode below keeps its own buffer since the key is taken.
	if buf, ok := store.Find(r.id, bounds); ok && buf.Info() == r.info {
		logHit(r, buf)
		return r.hold(buf)
	}

	buf, err := r.alloc.Alloc(r.info, r.rowBytes)
	if err != nil {
		if !errors.Is(err, ErrAllocFailed) {
			err = fmt.Errorf("%w: %w", ErrAllocFailed, err)
		}
		return r.fail(err)
	}

	r.decodes++
	dst, err := buf.Writable()
	if err == nil {
		err = r.source.Pixels(r.info, dst, r.rowBytes)
	}
	if err != nil {
		if rc, ok := r.alloc.(recycler); ok {
			rc.Recycle(buf)
		}
		return r.fail(fmt.Errorf("%w: %w", ErrDecodeFailed, err))
	}

	buf.SetImmutable()
	published := store.Add(r.id, bounds, buf)
	logDecode(r, buf, published)

	return r.hold(buf)
}

func (r *CachingPixelRef) hold(buf *Buffer) ([]byte, int, error) {
	r.locked = buf
	r.state = StateLocked
	return buf.Pixels(), buf.RowBytes(), nil
}

func (r *CachingPixelRef) fail(err error) ([]byte, int, error) {
	r.err = err
	r.locked = nil
	r.state = StateFailed
	logFailure(r, err)
	return nil, 0, err
}

// Unlock releases the buffer held since Lock. The pixels returned by Lock
// must not be used afterwards; they may or may not stay resident in the
// cache. Unlock without a matching Lock does nothing.
func (r *CachingPixelRef) Unlock() {
	r.locked = nil
	if r.state == StateLocked {
		r.state = StateUnlocked
	}
}

// Close releases the source and any held buffer. Cache entries published
// by this reference stay resident until evicted. Close is idempotent; only
// the first call closes the source and returns its error.
//
// Close does not change State: a failed reference stays Failed.
func (r *CachingPixelRef) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.Unlock()
	src := r.source
	r.source = nil
	return closeSource(src)
}
