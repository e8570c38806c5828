package image

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func testNRGBA(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestDecodeConfig(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 3, 2))

	var jpg bytes.Buffer
	if err := jpeg.Encode(&jpg, testNRGBA(8, 8, color.NRGBA{R: 10, A: 255}), nil); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		data     []byte
		wantInfo Info
		wantName string
	}{
		{"png nrgba", encodePNG(t, testNRGBA(4, 5, color.NRGBA{A: 128})), NewInfo(4, 5, FormatRGBA8, AlphaUnpremul), "png"},
		{"png gray", encodePNG(t, gray), NewInfo(3, 2, FormatGray8, AlphaOpaque), "png"},
		{"jpeg", jpg.Bytes(), NewInfo(8, 8, FormatRGB8, AlphaOpaque), "jpeg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, name, err := DecodeConfig(tt.data)
			if err != nil {
				t.Fatalf("DecodeConfig() error = %v", err)
			}
			if info != tt.wantInfo {
				t.Errorf("info = %v, want %v", info, tt.wantInfo)
			}
			if name != tt.wantName {
				t.Errorf("name = %q, want %q", name, tt.wantName)
			}
		})
	}
}

func TestDecodeConfig_Errors(t *testing.T) {
	if _, _, err := DecodeConfig(nil); !errors.Is(err, ErrEmptyData) {
		t.Errorf("DecodeConfig(nil) error = %v, want ErrEmptyData", err)
	}
	if _, _, err := DecodeConfig([]byte("definitely not an image")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("DecodeConfig(garbage) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestDecodeInto_FastPath(t *testing.T) {
	want := color.NRGBA{R: 1, G: 2, B: 3, A: 200}
	data := encodePNG(t, testNRGBA(4, 4, want))
	info := NewInfo(4, 4, FormatRGBA8, AlphaUnpremul)

	dst := make([]byte, info.ByteSize(20))
	if err := DecodeInto(data, info, dst, 20); err != nil {
		t.Fatalf("DecodeInto() error = %v", err)
	}
	px := dst[20+4 : 20+8]
	if px[0] != 1 || px[1] != 2 || px[2] != 3 || px[3] != 200 {
		t.Errorf("pixel (1,1) = %v, want [1 2 3 200]", px)
	}
	if dst[16] != 0 {
		t.Error("row padding should be left untouched")
	}
}

func TestDecodeInto_Conversions(t *testing.T) {
	data := encodePNG(t, testNRGBA(2, 2, color.NRGBA{R: 200, G: 100, B: 50, A: 128}))

	tests := []struct {
		name string
		info Info
		want []byte
	}{
		{"bgra unpremul", NewInfo(2, 2, FormatBGRA8, AlphaUnpremul), []byte{50, 100, 200, 128}},
		{"rgba premul", NewInfo(2, 2, FormatRGBA8, AlphaPremul), []byte{100, 50, 25, 128}},
		{"rgba opaque", NewInfo(2, 2, FormatRGBA8, AlphaOpaque), []byte{200, 100, 50, 255}},
		{"rgb", NewInfo(2, 2, FormatRGB8, AlphaOpaque), []byte{200, 100, 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := make([]byte, tt.info.ByteSize(tt.info.MinRowBytes()))
			if err := DecodeInto(data, tt.info, dst, tt.info.MinRowBytes()); err != nil {
				t.Fatalf("DecodeInto() error = %v", err)
			}
			got := dst[:len(tt.want)]
			for i := range tt.want {
				// Premultiplication rounding may differ by one.
				d := int(got[i]) - int(tt.want[i])
				if d < -1 || d > 1 {
					t.Errorf("pixel = %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestDecodeInto_ExtendedFormats(t *testing.T) {
	src := testNRGBA(3, 3, color.NRGBA{R: 9, G: 8, B: 7, A: 255})
	info := NewInfo(3, 3, FormatRGBA8, AlphaUnpremul)

	var bmpData, tiffData bytes.Buffer
	if err := bmp.Encode(&bmpData, src); err != nil {
		t.Fatal(err)
	}
	if err := tiff.Encode(&tiffData, src, nil); err != nil {
		t.Fatal(err)
	}

	for name, data := range map[string][]byte{"bmp": bmpData.Bytes(), "tiff": tiffData.Bytes()} {
		t.Run(name, func(t *testing.T) {
			_, format, err := DecodeConfig(data)
			if err != nil {
				t.Fatalf("DecodeConfig() error = %v", err)
			}
			if format != name {
				t.Errorf("format = %q, want %q", format, name)
			}
			dst := make([]byte, info.ByteSize(12))
			if err := DecodeInto(data, info, dst, 12); err != nil {
				t.Fatalf("DecodeInto() error = %v", err)
			}
			if dst[0] != 9 || dst[1] != 8 || dst[2] != 7 || dst[3] != 255 {
				t.Errorf("pixel (0,0) = %v, want [9 8 7 255]", dst[:4])
			}
		})
	}
}

func TestDecodeInto_Errors(t *testing.T) {
	data := encodePNG(t, testNRGBA(4, 4, color.NRGBA{A: 255}))
	info := NewInfo(4, 4, FormatRGBA8, AlphaUnpremul)

	tests := []struct {
		name     string
		data     []byte
		info     Info
		dst      []byte
		rowBytes int
		wantErr  error
	}{
		{"empty", nil, info, make([]byte, 64), 16, ErrEmptyData},
		{"stride", data, info, make([]byte, 64), 8, ErrInvalidStride},
		{"short dst", data, info, make([]byte, 10), 16, ErrDataTooSmall},
		{"size mismatch", data, NewInfo(2, 2, FormatRGBA8, AlphaUnpremul), make([]byte, 16), 8, ErrSizeMismatch},
		{"garbage", []byte("nope"), info, make([]byte, 64), 16, ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := DecodeInto(tt.data, tt.info, tt.dst, tt.rowBytes)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("DecodeInto() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
