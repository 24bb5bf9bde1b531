// Package cache provides a generic concurrency-safe cache used to share
// decoded source images across build tasks.
//
// # Cache[K, V]
//
// A soft-limited cache with least-recently-used eviction. GetOrCreate
// deduplicates concurrent creation: when several build tasks ask for the
// same source at once, one decode runs and the rest wait for its result.
//
//	c := cache.New[string, *pix.Buffer](64)
//	buf, err := c.GetOrCreate(path, func() (*pix.Buffer, error) {
//		return pix.LoadByExt(path)
//	})
//
// # Thread Safety
//
// Cache is safe for concurrent use.
// It must not be copied after creation (it contains a mutex).
package cache
