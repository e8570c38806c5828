package image

import (
	"errors"
	"fmt"
	"image"
	"math"
)

// Description errors.
var (
	// ErrInvalidDimensions is returned when width or height is negative or
	// exceeds MaxDimension.
	ErrInvalidDimensions = errors.New("image: invalid dimensions")

	// ErrInvalidFormat is returned when the format is not recognized.
	ErrInvalidFormat = errors.New("image: invalid format")

	// ErrInvalidAlpha is returned when the alpha type cannot describe the format.
	ErrInvalidAlpha = errors.New("image: invalid alpha type for format")

	// ErrInvalidStride is returned when row bytes are less than the minimum
	// required or the total size overflows.
	ErrInvalidStride = errors.New("image: invalid row bytes")
)

// MaxDimension bounds width and height so that byte sizes stay in range.
const MaxDimension = 1 << 29

// Info describes an image: its dimensions, pixel format and alpha handling.
// Info is a value type and is never mutated once handed to a pixel reference.
type Info struct {
	Width  int
	Height int
	Format Format
	Alpha  AlphaType
}

// NewInfo returns an Info with the given fields.
func NewInfo(width, height int, format Format, alpha AlphaType) Info {
	return Info{Width: width, Height: height, Format: format, Alpha: alpha}
}

// Bounds returns the full image rectangle, anchored at the origin.
func (i Info) Bounds() image.Rectangle {
	return image.Rect(0, 0, i.Width, i.Height)
}

// IsEmpty reports whether the image has no pixels.
func (i Info) IsEmpty() bool {
	return i.Width <= 0 || i.Height <= 0
}

// BytesPerPixel returns the pixel size of the format.
func (i Info) BytesPerPixel() int {
	return i.Format.BytesPerPixel()
}

// MinRowBytes returns the tightly packed row size.
func (i Info) MinRowBytes() int {
	return i.Width * i.Format.BytesPerPixel()
}

// ByteSize returns the number of bytes needed to hold the image at the given
// row stride. The last row only needs MinRowBytes. Returns -1 if the size
// does not fit in an int.
func (i Info) ByteSize(rowBytes int) int {
	if i.Height <= 0 {
		return 0
	}
	last := i.MinRowBytes()
	if rowBytes > 0 && i.Height-1 > (math.MaxInt-last)/rowBytes {
		return -1
	}
	return (i.Height-1)*rowBytes + last
}

// ValidRowBytes reports whether rowBytes can hold one row of this image.
func (i Info) ValidRowBytes(rowBytes int) bool {
	return rowBytes >= i.MinRowBytes() && i.ByteSize(rowBytes) >= 0
}

// Validate checks the description for internal consistency.
func (i Info) Validate() error {
	if i.Width < 0 || i.Height < 0 || i.Width > MaxDimension || i.Height > MaxDimension {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, i.Width, i.Height)
	}
	if !i.Format.IsValid() {
		return fmt.Errorf("%w: %d", ErrInvalidFormat, i.Format)
	}
	if i.Alpha > AlphaUnpremul {
		return fmt.Errorf("%w: %d", ErrInvalidAlpha, i.Alpha)
	}
	if i.IsEmpty() {
		return nil
	}
	if i.Alpha == AlphaUnknown {
		return fmt.Errorf("%w: %s with unknown alpha", ErrInvalidAlpha, i.Format)
	}
	if !i.Format.HasAlpha() && i.Alpha != AlphaOpaque {
		return fmt.Errorf("%w: %s cannot be %s", ErrInvalidAlpha, i.Format, i.Alpha)
	}
	return nil
}

// String returns a compact description such as "4x4 RGBA8/Premul".
func (i Info) String() string {
	return fmt.Sprintf("%dx%d %s/%s", i.Width, i.Height, i.Format, i.Alpha)
}
