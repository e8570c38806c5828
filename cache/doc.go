// Package cache provides a generic sharded LRU cache.
//
// ShardedCache splits keys over 16 independently locked shards. Each shard
// evicts least recently used entries when it exceeds its entry capacity or,
// when a cost function is configured, its cost ceiling:
//
//	c := cache.NewShardedWithOptions(cache.StringHasher, cache.Options[string, []byte]{
//		MaxCost: 1 << 20,
//		Cost:    func(b []byte) int64 { return int64(len(b)) },
//	})
//	c.Add("key", data)
//	value, ok := c.Get("key")
//
// Add never replaces an existing entry, which lets concurrent producers
// race to publish the same key while the first one stays canonical.
//
// # Thread Safety
//
// ShardedCache is safe for concurrent use and must not be copied after
// creation.
package cache
