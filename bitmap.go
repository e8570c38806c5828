package pixref

import (
	"fmt"
)

// Bitmap is an image description plus, once installed, the pixel reference
// that supplies its pixels.
//
// The zero Bitmap is empty and has no pixel reference.
type Bitmap struct {
	info     Info
	rowBytes int
	ref      *CachingPixelRef
}

// checkInfo validates info and resolves rowBytes (0 = tightly packed).
func checkInfo(info Info, rowBytes int) (int, error) {
	if err := info.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrIncompatibleInfo, err)
	}
	if rowBytes == 0 {
		rowBytes = info.MinRowBytes()
	}
	if !info.ValidRowBytes(rowBytes) {
		return 0, fmt.Errorf("%w: %d row bytes for %s", ErrIncompatibleInfo, rowBytes, info)
	}
	return rowBytes, nil
}

// SetInfo sets the description and row stride (0 = tightly packed) and
// closes any installed pixel reference, which releases its source.
// On error the bitmap is left unchanged.
func (b *Bitmap) SetInfo(info Info, rowBytes int) error {
	rb, err := checkInfo(info, rowBytes)
	if err != nil {
		return err
	}
	b.info = info
	b.rowBytes = rb
	b.release()
	return nil
}

// release closes the installed reference, if any, and detaches it.
func (b *Bitmap) release() {
	if b.ref != nil {
		_ = b.ref.Close()
		b.ref = nil
	}
}

// Info returns the bitmap description.
func (b *Bitmap) Info() Info {
	return b.info
}

// RowBytes returns the row stride of the bitmap.
func (b *Bitmap) RowBytes() int {
	return b.rowBytes
}

// PixelRef returns the installed pixel reference, or nil.
func (b *Bitmap) PixelRef() *CachingPixelRef {
	return b.ref
}

// LockPixels locks the installed pixel reference.
// See CachingPixelRef.Lock.
func (b *Bitmap) LockPixels() ([]byte, int, error) {
	if b.ref == nil {
		return nil, 0, ErrNoPixelRef
	}
	return b.ref.Lock()
}

// UnlockPixels unlocks the installed pixel reference, if any.
func (b *Bitmap) UnlockPixels() {
	if b.ref != nil {
		b.ref.Unlock()
	}
}

// Reset closes the installed pixel reference and empties the bitmap.
func (b *Bitmap) Reset() error {
	ref := b.ref
	*b = Bitmap{}
	if ref != nil {
		return ref.Close()
	}
	return nil
}

// Install takes ownership of src, sets dst's description to src's and
// binds a new CachingPixelRef to dst. A reference already installed in dst
// is closed when the new one replaces it.
//
// src is consumed whatever the outcome: on any failure after the nil check
// it is closed (if it implements io.Closer) and dst is left unchanged.
// Failures:
//   - ErrNilSource: src is nil.
//   - ErrNilBitmap: dst is nil.
//   - ErrIncompatibleInfo (wrapped): src's description is invalid or empty,
//     or the WithRowBytes stride cannot hold a row.
//
// Install does not call src.Pixels; decoding is deferred to the first Lock.
func Install(src PixelSource, dst *Bitmap, opts ...Option) error {
	if src == nil {
		return ErrNilSource
	}
	if dst == nil {
		_ = closeSource(src)
		return ErrNilBitmap
	}

	ref, err := NewCachingPixelRef(src, opts...)
	if err != nil {
		return err
	}
	dst.release()
	dst.info = ref.info
	dst.rowBytes = ref.rowBytes
	dst.ref = ref
	return nil
}
