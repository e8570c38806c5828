package pixref

import (
	intImage "github.com/gogpu/pixref/internal/image"
)

// Info describes an image: dimensions, pixel format and alpha handling.
type Info = intImage.Info

// Buffer is a block of decoded pixels with a row stride. Buffers handed out
// by a CachingPixelRef are always immutable.
type Buffer = intImage.Buffer

// Format represents a pixel storage format.
type Format = intImage.Format

// Pixel formats.
const (
	// FormatGray8 is 8-bit grayscale (1 byte per pixel).
	FormatGray8 = intImage.FormatGray8

	// FormatGray16 is 16-bit big-endian grayscale (2 bytes per pixel).
	FormatGray16 = intImage.FormatGray16

	// FormatRGB8 is 24-bit RGB (3 bytes per pixel, no alpha).
	FormatRGB8 = intImage.FormatRGB8

	// FormatRGBA8 is 32-bit RGBA (4 bytes per pixel).
	FormatRGBA8 = intImage.FormatRGBA8

	// FormatBGRA8 is 32-bit BGRA (4 bytes per pixel).
	FormatBGRA8 = intImage.FormatBGRA8
)

// AlphaType describes how the alpha channel of an image is to be read.
type AlphaType = intImage.AlphaType

// Alpha types.
const (
	AlphaUnknown  = intImage.AlphaUnknown
	AlphaOpaque   = intImage.AlphaOpaque
	AlphaPremul   = intImage.AlphaPremul
	AlphaUnpremul = intImage.AlphaUnpremul
)

// NewInfo returns an Info with the given fields.
func NewInfo(width, height int, format Format, alpha AlphaType) Info {
	return intImage.NewInfo(width, height, format, alpha)
}

// Allocator provides pixel memory when a CachingPixelRef misses the cache.
type Allocator = intImage.Allocator

// HeapAllocator allocates on the Go heap, refusing buffers larger than
// MaxBytes (DefaultMaxBytes when unset). It is the default Allocator.
type HeapAllocator = intImage.HeapAllocator

// DefaultMaxBytes is the largest buffer a HeapAllocator without MaxBytes
// will allocate.
const DefaultMaxBytes = intImage.DefaultMaxBytes

// Pool is an Allocator that reuses the buffers of failed decodes.
type Pool = intImage.Pool

// NewPool creates a Pool retaining at most maxPerBucket buffers per
// description; maxBytes caps the size of a single allocation
// (0 = DefaultMaxBytes).
func NewPool(maxPerBucket, maxBytes int) *Pool {
	return intImage.NewPool(maxPerBucket, maxBytes)
}
