package main

import (
	"fmt"
	"os"

	"github.com/corona10/goimagehash"
	"github.com/k1LoW/errors"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/pixref"
)

// run installs name behind refs references that share a generation ID and
// locks each of them cycles times, one goroutine per reference.
//
// Every source decodes to RGBA8/Unpremul so the locked buffer has an
// image.NRGBA view for hashing.
func run(name string, refs, cycles int) (_ fileResult, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()

	data, err := os.ReadFile(name)
	if err != nil {
		return fileResult{}, err
	}

	id := pixref.NextGenerationID()
	r := fileResult{Name: name, Refs: refs}
	bitmaps := make([]pixref.Bitmap, refs)
	defer func() {
		for i := range bitmaps {
			_ = bitmaps[i].Reset()
		}
	}()
	for i := range bitmaps {
		src, err := pixref.NewEncodedSource(data)
		if err != nil {
			return fileResult{}, err
		}
		r.Format = src.EncodedFormat()
		rgba := src.As(pixref.FormatRGBA8, pixref.AlphaUnpremul)
		if err := pixref.Install(rgba, &bitmaps[i], pixref.WithGenerationID(id)); err != nil {
			return fileResult{}, err
		}
	}
	info := bitmaps[0].Info()
	r.Size = fmt.Sprintf("%dx%d", info.Width, info.Height)

	var g errgroup.Group
	for i := range bitmaps {
		bm := &bitmaps[i]
		g.Go(func() error {
			for range cycles {
				if _, _, err := bm.LockPixels(); err != nil {
					return err
				}
				bm.UnlockPixels()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fileResult{}, err
	}

	for i := range bitmaps {
		r.Locks += cycles
		r.Decodes += bitmaps[i].PixelRef().Decodes()
	}

	r.PHash, err = perceptionHash(&bitmaps[0])
	if err != nil {
		return fileResult{}, err
	}
	return r, nil
}

// perceptionHash locks bm and hashes its pixels.
func perceptionHash(bm *pixref.Bitmap) (string, error) {
	if _, _, err := bm.LockPixels(); err != nil {
		return "", err
	}
	defer bm.UnlockPixels()

	img, ok := bm.PixelRef().LockedBuffer().Image()
	if !ok {
		return "", fmt.Errorf("no image view for %v", bm.Info())
	}
	h, err := goimagehash.PerceptionHash(img)
	if err != nil {
		return "", fmt.Errorf("failed to compute perceptual hash: %w", err)
	}
	return h.ToString(), nil
}
