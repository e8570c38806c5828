package image

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // register GIF
	_ "image/jpeg" // register JPEG
	_ "image/png"  // register PNG

	_ "golang.org/x/image/bmp"  // register BMP
	_ "golang.org/x/image/tiff" // register TIFF
	_ "golang.org/x/image/webp" // register WebP
)

// I/O errors.
var (
	// ErrUnsupportedFormat is returned when the encoded format is not registered.
	ErrUnsupportedFormat = errors.New("image: unsupported format")

	// ErrEmptyData is returned when image data is empty.
	ErrEmptyData = errors.New("image: empty data")

	// ErrSizeMismatch is returned when decoded dimensions differ from the
	// requested description.
	ErrSizeMismatch = errors.New("image: decoded size does not match description")
)

// DecodeConfig reads only the header of an encoded image and returns the
// description its pixels decode to, along with the format name
// ("png", "jpeg", "gif", "bmp", "tiff", "webp").
func DecodeConfig(data []byte) (Info, string, error) {
	if len(data) == 0 {
		return Info{}, "", ErrEmptyData
	}
	cfg, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return Info{}, "", ErrUnsupportedFormat
		}
		return Info{}, "", fmt.Errorf("image: decode config: %w", err)
	}

	info := Info{Width: cfg.Width, Height: cfg.Height}
	switch cfg.ColorModel {
	case color.GrayModel:
		info.Format, info.Alpha = FormatGray8, AlphaOpaque
	case color.Gray16Model:
		info.Format, info.Alpha = FormatGray16, AlphaOpaque
	case color.YCbCrModel, color.CMYKModel:
		info.Format, info.Alpha = FormatRGB8, AlphaOpaque
	default:
		info.Format, info.Alpha = FormatRGBA8, AlphaUnpremul
	}
	return info, name, nil
}

// DecodeInto decodes an encoded image and writes its pixels into dst,
// laid out as info at the given row stride.
// The decoded dimensions must match info exactly.
func DecodeInto(data []byte, info Info, dst []byte, rowBytes int) error {
	if len(data) == 0 {
		return ErrEmptyData
	}
	if !info.ValidRowBytes(rowBytes) {
		return ErrInvalidStride
	}
	if len(dst) < info.ByteSize(rowBytes) {
		return ErrDataTooSmall
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return ErrUnsupportedFormat
		}
		return fmt.Errorf("image: decode: %w", err)
	}

	return WriteImage(img, info, dst, rowBytes)
}

// writePixels converts img into dst. Bounds are assumed to match info.
func writePixels(img image.Image, info Info, dst []byte, rowBytes int) {
	b := img.Bounds()
	rowLen := info.MinRowBytes()

	// Fast paths where the source layout already matches.
	switch src := img.(type) {
	case *image.NRGBA:
		if info.Format == FormatRGBA8 && info.Alpha == AlphaUnpremul {
			copyRows(dst, rowBytes, src.Pix, src.Stride, rowLen, info.Height)
			return
		}
	case *image.RGBA:
		if info.Format == FormatRGBA8 && info.Alpha == AlphaPremul {
			copyRows(dst, rowBytes, src.Pix, src.Stride, rowLen, info.Height)
			return
		}
	case *image.Gray:
		if info.Format == FormatGray8 {
			copyRows(dst, rowBytes, src.Pix, src.Stride, rowLen, info.Height)
			return
		}
	}

	bpp := info.BytesPerPixel()
	for y := range info.Height {
		row := dst[y*rowBytes : y*rowBytes+rowLen]
		for x := range info.Width {
			putPixel(row[x*bpp:x*bpp+bpp], img.At(b.Min.X+x, b.Min.Y+y), info)
		}
	}
}

func copyRows(dst []byte, dstStride int, src []byte, srcStride, rowLen, height int) {
	for y := range height {
		copy(dst[y*dstStride:y*dstStride+rowLen], src[y*srcStride:y*srcStride+rowLen])
	}
}

// putPixel encodes c into px according to info's format and alpha type.
func putPixel(px []byte, c color.Color, info Info) {
	switch info.Format {
	case FormatGray8:
		px[0] = color.GrayModel.Convert(c).(color.Gray).Y
	case FormatGray16:
		v := color.Gray16Model.Convert(c).(color.Gray16).Y
		px[0] = byte(v >> 8)
		px[1] = byte(v)
	case FormatRGB8:
		n := color.NRGBAModel.Convert(c).(color.NRGBA)
		px[0], px[1], px[2] = n.R, n.G, n.B
	case FormatRGBA8, FormatBGRA8:
		var r, g, bl, a uint8
		if info.Alpha == AlphaPremul {
			pr, pg, pb, pa := c.RGBA()
			r, g, bl, a = uint8(pr>>8), uint8(pg>>8), uint8(pb>>8), uint8(pa>>8)
		} else {
			n := color.NRGBAModel.Convert(c).(color.NRGBA)
			r, g, bl, a = n.R, n.G, n.B, n.A
		}
		if info.Alpha == AlphaOpaque {
			a = 255
		}
		if info.Format == FormatBGRA8 {
			r, bl = bl, r
		}
		px[0], px[1], px[2], px[3] = r, g, bl, a
	}
}
