package image

import (
	"errors"
	"sync/atomic"
)

// Buffer errors.
var (
	// ErrImmutable is returned when write access is requested on an
	// immutable buffer.
	ErrImmutable = errors.New("image: buffer is immutable")

	// ErrDataTooSmall is returned when provided data is smaller than required.
	ErrDataTooSmall = errors.New("image: data buffer too small")
)

// Buffer is a block of decoded pixel memory with a row stride.
//
// A Buffer starts mutable so that a decoder can fill it. Once SetImmutable
// has been called the pixels must never change again, which makes the
// buffer safe to publish to a shared cache and to read from any goroutine
// without locking.
type Buffer struct {
	info      Info
	rowBytes  int
	data      []byte
	immutable atomic.Bool
}

// NewBuffer allocates a zeroed buffer for info at the given row stride.
// A rowBytes of 0 selects info.MinRowBytes().
func NewBuffer(info Info, rowBytes int) (*Buffer, error) {
	if rowBytes == 0 {
		rowBytes = info.MinRowBytes()
	}
	if err := info.Validate(); err != nil {
		return nil, err
	}
	if !info.ValidRowBytes(rowBytes) {
		return nil, ErrInvalidStride
	}
	return &Buffer{
		info:     info,
		rowBytes: rowBytes,
		data:     make([]byte, info.ByteSize(rowBytes)),
	}, nil
}

// FromRaw wraps existing data without copying.
// The caller must not retain write access to data after the buffer is
// marked immutable.
func FromRaw(data []byte, info Info, rowBytes int) (*Buffer, error) {
	if err := info.Validate(); err != nil {
		return nil, err
	}
	if !info.ValidRowBytes(rowBytes) {
		return nil, ErrInvalidStride
	}
	size := info.ByteSize(rowBytes)
	if len(data) < size {
		return nil, ErrDataTooSmall
	}
	return &Buffer{
		info:     info,
		rowBytes: rowBytes,
		data:     data[:size],
	}, nil
}

// Info returns the description the buffer was allocated for.
func (b *Buffer) Info() Info {
	return b.info
}

// RowBytes returns the number of bytes per row (including padding).
func (b *Buffer) RowBytes() int {
	return b.rowBytes
}

// ByteSize returns the size of the pixel data in bytes.
func (b *Buffer) ByteSize() int {
	return len(b.data)
}

// Pixels returns the pixel data for reading.
// Callers must not modify the returned slice; use Writable for that.
func (b *Buffer) Pixels() []byte {
	return b.data
}

// Writable returns the pixel data for writing.
// Returns ErrImmutable once SetImmutable has been called.
func (b *Buffer) Writable() ([]byte, error) {
	if b.immutable.Load() {
		return nil, ErrImmutable
	}
	return b.data, nil
}

// SetImmutable marks the buffer read-only. It cannot be undone.
func (b *Buffer) SetImmutable() {
	b.immutable.Store(true)
}

// IsImmutable reports whether SetImmutable has been called.
func (b *Buffer) IsImmutable() bool {
	return b.immutable.Load()
}

// Row returns the pixels of row y without padding.
// Returns nil if y is out of bounds.
func (b *Buffer) Row(y int) []byte {
	if y < 0 || y >= b.info.Height {
		return nil
	}
	start := y * b.rowBytes
	return b.data[start : start+b.info.MinRowBytes()]
}

// PixelBytes returns the raw bytes of pixel (x, y).
// Returns nil if coordinates are out of bounds.
func (b *Buffer) PixelBytes(x, y int) []byte {
	if x < 0 || x >= b.info.Width || y < 0 || y >= b.info.Height {
		return nil
	}
	bpp := b.info.BytesPerPixel()
	offset := y*b.rowBytes + x*bpp
	return b.data[offset : offset+bpp]
}

// clear zeroes the pixel data. Only used on mutable buffers.
func (b *Buffer) clear() {
	clear(b.data)
}
