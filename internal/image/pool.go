package image

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// ErrAllocFailed is returned when a buffer cannot be allocated.
var ErrAllocFailed = errors.New("image: allocation failed")

// Allocator provides pixel memory for a decode.
type Allocator interface {
	Alloc(info Info, rowBytes int) (*Buffer, error)
}

// DefaultMaxBytes is the ceiling HeapAllocator applies when MaxBytes is
// not set. It keeps descriptions that validate but cannot be backed by a
// slice (up to MaxDimension on each side) from reaching make.
const DefaultMaxBytes = 1<<31 - 1

// HeapAllocator allocates buffers on the Go heap.
//
// MaxBytes is a ceiling on the size of a single buffer; zero or less means
// DefaultMaxBytes. Larger requests fail with ErrAllocFailed instead of
// growing the heap.
type HeapAllocator struct {
	MaxBytes int
}

func (a HeapAllocator) limit() int {
	if a.MaxBytes <= 0 {
		return DefaultMaxBytes
	}
	return a.MaxBytes
}

// Alloc implements Allocator.
func (a HeapAllocator) Alloc(info Info, rowBytes int) (*Buffer, error) {
	if rowBytes == 0 {
		rowBytes = info.MinRowBytes()
	}
	size := info.ByteSize(rowBytes)
	if size < 0 || size > a.limit() {
		return nil, fmt.Errorf("%w: %s at %d row bytes", ErrAllocFailed, info, rowBytes)
	}
	buf, err := NewBuffer(info, rowBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAllocFailed, err)
	}
	return buf, nil
}

// Pool is a thread-safe allocator that reuses buffers handed back through
// Recycle.
//
// Pool groups buffers by description and row stride. Only mutable buffers
// can be recycled: an immutable buffer may still be referenced by a cache
// or a reader, so Recycle drops it.
//
// Thread safety: All methods are safe for concurrent use.
type Pool struct {
	mu      sync.Mutex
	buckets map[poolKey][]*Buffer
	maxSize int // max buffers per bucket
	heap    HeapAllocator

	reused atomic.Uint64
}

// poolKey identifies a bucket of identical buffer specifications.
type poolKey struct {
	info     Info
	rowBytes int
}

// NewPool creates a pool retaining at most maxPerBucket buffers per
// description. A maxPerBucket of 0 means unlimited (use with caution).
// maxBytes is forwarded to the underlying HeapAllocator.
func NewPool(maxPerBucket, maxBytes int) *Pool {
	return &Pool{
		buckets: make(map[poolKey][]*Buffer),
		maxSize: maxPerBucket,
		heap:    HeapAllocator{MaxBytes: maxBytes},
	}
}

// Alloc returns a zeroed buffer, reusing a recycled one when available.
func (p *Pool) Alloc(info Info, rowBytes int) (*Buffer, error) {
	if rowBytes == 0 {
		rowBytes = info.MinRowBytes()
	}
	key := poolKey{info: info, rowBytes: rowBytes}

	p.mu.Lock()
	bucket := p.buckets[key]
	if len(bucket) > 0 {
		buf := bucket[len(bucket)-1]
		p.buckets[key] = bucket[:len(bucket)-1]
		p.mu.Unlock()

		buf.clear()
		p.reused.Add(1)
		return buf, nil
	}
	p.mu.Unlock()

	return p.heap.Alloc(info, rowBytes)
}

// Recycle hands a buffer back for reuse. Nil and immutable buffers are
// ignored, as are buffers beyond the bucket limit.
// Reports whether the buffer was retained.
func (p *Pool) Recycle(buf *Buffer) bool {
	if buf == nil || buf.IsImmutable() {
		return false
	}
	key := poolKey{info: buf.info, rowBytes: buf.rowBytes}

	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.buckets[key]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return false
	}
	p.buckets[key] = append(bucket, buf)
	return true
}

// Reused returns how many allocations were served from recycled buffers.
func (p *Pool) Reused() uint64 {
	return p.reused.Load()
}
