package pixref

// Option configures a CachingPixelRef during creation.
//
// Example:
//
//	store, _ := bitmapcache.NewLRU(128)
//	err := pixref.Install(src, &bm,
//		pixref.WithCache(store),
//		pixref.WithRowBytes(1024))
type Option func(*refOptions)

// refOptions holds optional configuration for a CachingPixelRef.
type refOptions struct {
	cache    BufferCache
	alloc    Allocator
	id       uint64
	rowBytes int
}

// defaultOptions returns the default options.
func defaultOptions() refOptions {
	return refOptions{
		cache:    nil, // bitmapcache.Default() at lock time
		alloc:    HeapAllocator{},
		id:       0, // NextGenerationID() at construction
		rowBytes: 0, // Info.MinRowBytes()
	}
}

// WithCache sets the decoded-buffer cache. By default the process-wide
// bitmapcache.Default() store is used, looked up on every Lock so that
// bitmapcache.SetDefault takes effect for existing references.
func WithCache(c BufferCache) Option {
	return func(o *refOptions) {
		o.cache = c
	}
}

// WithAllocator sets the allocator used on a cache miss.
// If the allocator also has a Recycle(*Buffer) bool method, buffers of
// failed decodes are handed back to it.
func WithAllocator(a Allocator) Option {
	return func(o *refOptions) {
		if a != nil {
			o.alloc = a
		}
	}
}

// WithGenerationID sets the image identity used as the cache key prefix.
// References sharing an ID share cache entries, so they must describe the
// same pixels; a cached buffer whose description differs is not reused.
// Zero means allocate a fresh ID with NextGenerationID.
func WithGenerationID(id uint64) Option {
	return func(o *refOptions) {
		o.id = id
	}
}

// WithRowBytes sets the row stride of decoded buffers.
// Zero means tightly packed rows.
func WithRowBytes(n int) Option {
	return func(o *refOptions) {
		o.rowBytes = n
	}
}
