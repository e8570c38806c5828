package image

import (
	"errors"
	"testing"
)

func TestNewBuffer(t *testing.T) {
	tests := []struct {
		name     string
		info     Info
		rowBytes int
		wantSize int
		wantErr  error
	}{
		{"packed rgba", NewInfo(4, 4, FormatRGBA8, AlphaPremul), 0, 64, nil},
		{"padded rgba", NewInfo(4, 4, FormatRGBA8, AlphaPremul), 32, 112, nil},
		{"gray", NewInfo(3, 2, FormatGray8, AlphaOpaque), 0, 6, nil},
		{"stride too small", NewInfo(4, 4, FormatRGBA8, AlphaPremul), 8, 0, ErrInvalidStride},
		{"invalid info", NewInfo(-4, 4, FormatRGBA8, AlphaPremul), 0, 0, ErrInvalidDimensions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := NewBuffer(tt.info, tt.rowBytes)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewBuffer() error = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if buf.ByteSize() != tt.wantSize {
				t.Errorf("ByteSize() = %d, want %d", buf.ByteSize(), tt.wantSize)
			}
			if buf.Info() != tt.info {
				t.Errorf("Info() = %v, want %v", buf.Info(), tt.info)
			}
			if buf.IsImmutable() {
				t.Error("new buffer should be mutable")
			}
		})
	}
}

func TestBuffer_SetImmutable(t *testing.T) {
	buf, err := NewBuffer(NewInfo(2, 2, FormatRGBA8, AlphaPremul), 0)
	if err != nil {
		t.Fatal(err)
	}

	data, err := buf.Writable()
	if err != nil {
		t.Fatalf("Writable() on mutable buffer: %v", err)
	}
	data[0] = 0xAB

	buf.SetImmutable()
	buf.SetImmutable()
	if !buf.IsImmutable() {
		t.Fatal("IsImmutable() = false after SetImmutable")
	}
	if _, err := buf.Writable(); !errors.Is(err, ErrImmutable) {
		t.Errorf("Writable() error = %v, want ErrImmutable", err)
	}
	if buf.Pixels()[0] != 0xAB {
		t.Errorf("Pixels()[0] = %#x, want 0xab", buf.Pixels()[0])
	}
}

func TestBuffer_RowAndPixel(t *testing.T) {
	info := NewInfo(2, 2, FormatRGB8, AlphaOpaque)
	buf, err := NewBuffer(info, 8)
	if err != nil {
		t.Fatal(err)
	}
	data, _ := buf.Writable()
	for i := range data {
		data[i] = byte(i)
	}

	row := buf.Row(1)
	if len(row) != 6 {
		t.Fatalf("len(Row(1)) = %d, want 6", len(row))
	}
	if row[0] != 8 {
		t.Errorf("Row(1)[0] = %d, want 8", row[0])
	}
	if buf.Row(2) != nil || buf.Row(-1) != nil {
		t.Error("Row() out of bounds should be nil")
	}

	px := buf.PixelBytes(1, 1)
	if len(px) != 3 || px[0] != 11 {
		t.Errorf("PixelBytes(1, 1) = %v, want [11 12 13]", px)
	}
	if buf.PixelBytes(2, 0) != nil {
		t.Error("PixelBytes() out of bounds should be nil")
	}
}

func TestFromRaw(t *testing.T) {
	info := NewInfo(2, 2, FormatGray8, AlphaOpaque)

	if _, err := FromRaw(make([]byte, 3), info, 2); !errors.Is(err, ErrDataTooSmall) {
		t.Errorf("FromRaw() short data error = %v, want ErrDataTooSmall", err)
	}
	if _, err := FromRaw(make([]byte, 8), info, 1); !errors.Is(err, ErrInvalidStride) {
		t.Errorf("FromRaw() small stride error = %v, want ErrInvalidStride", err)
	}

	raw := make([]byte, 10)
	buf, err := FromRaw(raw, info, 2)
	if err != nil {
		t.Fatal(err)
	}
	if buf.ByteSize() != 4 {
		t.Errorf("ByteSize() = %d, want 4", buf.ByteSize())
	}
	raw[3] = 7
	if buf.PixelBytes(1, 1)[0] != 7 {
		t.Error("FromRaw should not copy data")
	}
}
