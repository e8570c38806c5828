// Package image provides the image description and decoded pixel buffers
// used by pixref.
//
// An Info describes an image that may not be decoded yet. A Buffer holds
// decoded pixels for an Info at a given row stride and becomes read-only
// once marked immutable.
package image

// Format represents a pixel storage format.
type Format uint8

const (
	// FormatGray8 is 8-bit grayscale (1 byte per pixel).
	FormatGray8 Format = iota

	// FormatGray16 is 16-bit big-endian grayscale (2 bytes per pixel).
	FormatGray16

	// FormatRGB8 is 24-bit RGB (3 bytes per pixel, no alpha).
	FormatRGB8

	// FormatRGBA8 is 32-bit RGBA (4 bytes per pixel).
	FormatRGBA8

	// FormatBGRA8 is 32-bit BGRA (4 bytes per pixel).
	// Common on Windows and some GPU formats.
	FormatBGRA8

	// formatCount is the number of formats (for internal use).
	formatCount
)

// formatInfo contains metadata about a pixel format.
type formatInfo struct {
	name          string
	bytesPerPixel int
	channels      int
	hasAlpha      bool
}

var formatTable = [formatCount]formatInfo{
	FormatGray8:  {name: "Gray8", bytesPerPixel: 1, channels: 1},
	FormatGray16: {name: "Gray16", bytesPerPixel: 2, channels: 1},
	FormatRGB8:   {name: "RGB8", bytesPerPixel: 3, channels: 3},
	FormatRGBA8:  {name: "RGBA8", bytesPerPixel: 4, channels: 4, hasAlpha: true},
	FormatBGRA8:  {name: "BGRA8", bytesPerPixel: 4, channels: 4, hasAlpha: true},
}

func (f Format) info() formatInfo {
	if f >= formatCount {
		return formatInfo{name: "Unknown"}
	}
	return formatTable[f]
}

// BytesPerPixel returns the number of bytes per pixel for this format.
func (f Format) BytesPerPixel() int {
	return f.info().bytesPerPixel
}

// Channels returns the number of color channels.
func (f Format) Channels() int {
	return f.info().channels
}

// HasAlpha returns true if this format has an alpha channel.
func (f Format) HasAlpha() bool {
	return f.info().hasAlpha
}

// IsValid returns true if the format is a valid known format.
func (f Format) IsValid() bool {
	return f < formatCount
}

// String returns a string representation of the format.
func (f Format) String() string {
	return f.info().name
}

// AlphaType describes how the alpha channel of an image is to be read.
type AlphaType uint8

const (
	// AlphaUnknown is only valid for empty images.
	AlphaUnknown AlphaType = iota

	// AlphaOpaque means every pixel is fully opaque.
	AlphaOpaque

	// AlphaPremul means color channels are premultiplied by alpha.
	AlphaPremul

	// AlphaUnpremul means color channels are independent of alpha.
	AlphaUnpremul
)

// String returns a string representation of the alpha type.
func (a AlphaType) String() string {
	switch a {
	case AlphaUnknown:
		return "Unknown"
	case AlphaOpaque:
		return "Opaque"
	case AlphaPremul:
		return "Premul"
	case AlphaUnpremul:
		return "Unpremul"
	default:
		return "Invalid"
	}
}
