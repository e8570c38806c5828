package pixref

import (
	"errors"

	intImage "github.com/gogpu/pixref/internal/image"
)

// Errors returned by Install, NewCachingPixelRef and Lock.
var (
	// ErrNilSource is returned when no pixel source is supplied.
	ErrNilSource = errors.New("pixref: nil pixel source")

	// ErrNilBitmap is returned by Install when the destination is nil.
	ErrNilBitmap = errors.New("pixref: nil bitmap")

	// ErrIncompatibleInfo is returned when a source's description cannot be
	// represented by the destination.
	ErrIncompatibleInfo = errors.New("pixref: incompatible image info")

	// ErrAllocFailed is returned when pixel memory cannot be allocated.
	ErrAllocFailed = intImage.ErrAllocFailed

	// ErrDecodeFailed is returned when the pixel source fails to populate
	// a buffer.
	ErrDecodeFailed = errors.New("pixref: decode failed")

	// ErrFailedPreviously is returned by Lock once an earlier allocation or
	// decode failure has disabled the reference. The original cause is
	// wrapped as well.
	ErrFailedPreviously = errors.New("pixref: decoding failed previously")

	// ErrClosed is returned by Lock after Close.
	ErrClosed = errors.New("pixref: pixel ref closed")

	// ErrNoPixelRef is returned by Bitmap.LockPixels when nothing is installed.
	ErrNoPixelRef = errors.New("pixref: bitmap has no pixel ref")
)
