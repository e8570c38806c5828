// Package pixref provides lazily decoded, cache-backed pixel references.
//
// # Overview
//
// A Bitmap describes an image (dimensions, pixel format, alpha type) whose
// pixels may not exist yet. Install binds a PixelSource to a Bitmap through a
// CachingPixelRef; nothing is decoded until the pixels are locked.
//
//	src, err := pixref.NewEncodedSource(data)
//	if err != nil {
//		return err
//	}
//
//	var bm pixref.Bitmap
//	if err := pixref.Install(src, &bm); err != nil {
//		return err
//	}
//
//	pixels, rowBytes, err := bm.LockPixels()
//	if err != nil {
//		return err
//	}
//	defer bm.UnlockPixels()
//
// # Caching
//
// Each reference has a generation ID. Decoded buffers are published to a
// shared store (package bitmapcache) under the generation ID and the full
// image bounds, so repeated locks, and other references sharing the ID, skip
// the decode. The store may evict at any time; an evicted buffer is decoded
// again on the next lock. Published buffers are immutable.
//
// # Failures
//
// Allocation and decode failures are sticky. Once a Lock has failed, every
// later Lock returns ErrFailedPreviously wrapping the first cause, without
// consulting the cache or the source again.
//
// # Ownership
//
// Install and NewCachingPixelRef take ownership of the source on every path.
// A source implementing io.Closer is closed exactly once, either when
// installation fails or when the reference is closed.
//
// # Concurrency
//
// A single CachingPixelRef must not be used from several goroutines at once.
// Stores in package bitmapcache are safe for concurrent use, and separate
// references may lock concurrently.
//
// # Logging
//
// The package is silent by default. Use SetLogger to receive debug records
// for cache hits and decodes, and warnings for failures.
package pixref

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
