package image

import (
	"fmt"
	"image"
)

// InfoOf returns the description an image.Image converts to without loss
// when no target layout is requested.
func InfoOf(img image.Image) Info {
	b := img.Bounds()
	info := Info{Width: b.Dx(), Height: b.Dy()}
	switch img.(type) {
	case *image.Gray:
		info.Format, info.Alpha = FormatGray8, AlphaOpaque
	case *image.Gray16:
		info.Format, info.Alpha = FormatGray16, AlphaOpaque
	case *image.RGBA:
		info.Format, info.Alpha = FormatRGBA8, AlphaPremul
	case *image.YCbCr, *image.CMYK:
		info.Format, info.Alpha = FormatRGB8, AlphaOpaque
	default:
		info.Format, info.Alpha = FormatRGBA8, AlphaUnpremul
	}
	return info
}

// WriteImage converts img into dst, laid out as info at the given row
// stride. img's bounds must have info's dimensions.
func WriteImage(img image.Image, info Info, dst []byte, rowBytes int) error {
	if !info.ValidRowBytes(rowBytes) {
		return ErrInvalidStride
	}
	if len(dst) < info.ByteSize(rowBytes) {
		return ErrDataTooSmall
	}
	b := img.Bounds()
	if b.Dx() != info.Width || b.Dy() != info.Height {
		return fmt.Errorf("%w: got %dx%d, want %dx%d",
			ErrSizeMismatch, b.Dx(), b.Dy(), info.Width, info.Height)
	}
	writePixels(img, info, dst, rowBytes)
	return nil
}

// Image returns a standard library view of the buffer's pixels, sharing
// memory. It reports false for formats with no image package equivalent
// (RGB8, BGRA8).
//
// The view must be treated as read-only when the buffer is immutable.
func (b *Buffer) Image() (image.Image, bool) {
	r := b.info.Bounds()
	pix := b.data
	switch b.info.Format {
	case FormatGray8:
		return &image.Gray{Pix: pix, Stride: b.rowBytes, Rect: r}, true
	case FormatGray16:
		return &image.Gray16{Pix: pix, Stride: b.rowBytes, Rect: r}, true
	case FormatRGBA8:
		if b.info.Alpha == AlphaPremul {
			return &image.RGBA{Pix: pix, Stride: b.rowBytes, Rect: r}, true
		}
		return &image.NRGBA{Pix: pix, Stride: b.rowBytes, Rect: r}, true
	}
	return nil, false
}
