package pixref

import (
	"image"
	"io"

	intImage "github.com/gogpu/pixref/internal/image"
)

// PixelSource produces the pixels of one fixed image on demand.
//
// Info must return the same description for the lifetime of the source.
// Pixels writes the whole image, laid out as info at the given row stride,
// into dst; it may be called any number of times but is assumed to be
// expensive, so a CachingPixelRef calls it at most once per cache miss and
// never concurrently with itself.
//
// A source that also implements io.Closer is closed exactly once, when the
// reference owning it is closed or when installation fails.
type PixelSource interface {
	Info() Info
	Pixels(info Info, dst []byte, rowBytes int) error
}

// closeSource releases src if it holds resources.
func closeSource(src PixelSource) error {
	if c, ok := src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// FuncSource adapts a function to PixelSource.
type FuncSource struct {
	info Info
	fn   func(info Info, dst []byte, rowBytes int) error
}

// NewFuncSource returns a PixelSource describing info whose pixels are
// produced by fn.
func NewFuncSource(info Info, fn func(info Info, dst []byte, rowBytes int) error) *FuncSource {
	return &FuncSource{info: info, fn: fn}
}

// Info implements PixelSource.
func (s *FuncSource) Info() Info {
	return s.info
}

// Pixels implements PixelSource.
func (s *FuncSource) Pixels(info Info, dst []byte, rowBytes int) error {
	return s.fn(info, dst, rowBytes)
}

// ImageSource supplies the pixels of an in-memory image.Image, converted
// to the requested layout.
type ImageSource struct {
	img  image.Image
	info Info
}

// NewImageSource returns a source for img. Its description keeps img's
// native layout where one exists (Gray8, Gray16, premultiplied RGBA8) and
// is unpremultiplied RGBA8 otherwise; use As to pick another.
func NewImageSource(img image.Image) *ImageSource {
	return &ImageSource{img: img, info: intImage.InfoOf(img)}
}

// As returns a source for the same image with a different format and
// alpha type.
func (s *ImageSource) As(format Format, alpha AlphaType) *ImageSource {
	info := s.info
	info.Format, info.Alpha = format, alpha
	return &ImageSource{img: s.img, info: info}
}

// Info implements PixelSource.
func (s *ImageSource) Info() Info {
	return s.info
}

// Pixels implements PixelSource.
func (s *ImageSource) Pixels(info Info, dst []byte, rowBytes int) error {
	return intImage.WriteImage(s.img, info, dst, rowBytes)
}

// EncodedSource decodes an encoded image (PNG, JPEG, GIF, BMP, TIFF or
// WebP) each time its pixels are requested. Only the header is parsed up
// front.
type EncodedSource struct {
	data   []byte
	info   Info
	format string
}

// NewEncodedSource parses the header of data and returns a source for it.
// The source retains data until Close.
func NewEncodedSource(data []byte) (*EncodedSource, error) {
	info, format, err := intImage.DecodeConfig(data)
	if err != nil {
		return nil, err
	}
	return &EncodedSource{data: data, info: info, format: format}, nil
}

// As returns a source for the same data that converts to the given format
// and alpha type while decoding.
func (s *EncodedSource) As(format Format, alpha AlphaType) *EncodedSource {
	info := s.info
	info.Format, info.Alpha = format, alpha
	return &EncodedSource{data: s.data, info: info, format: s.format}
}

// Info implements PixelSource.
func (s *EncodedSource) Info() Info {
	return s.info
}

// EncodedFormat returns the name of the encoded format, such as "png".
func (s *EncodedSource) EncodedFormat() string {
	return s.format
}

// Pixels implements PixelSource.
func (s *EncodedSource) Pixels(info Info, dst []byte, rowBytes int) error {
	return intImage.DecodeInto(s.data, info, dst, rowBytes)
}

// Close drops the encoded bytes. Later calls to Pixels fail.
func (s *EncodedSource) Close() error {
	s.data = nil
	return nil
}
