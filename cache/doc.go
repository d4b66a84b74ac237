// Package cache provides the bounded LRU store that holds decoded texture
// bitmaps between repaints.
//
// # LRU[K, V]
//
// A mutex-guarded cache with exact least-recently-used eviction. Get
// refreshes an entry's recency, Has does not. When a new key is inserted into
// a full cache, the oldest entries are evicted first so that Len never
// exceeds Capacity.
//
//	c := cache.New[string, *imageio.Bitmap](cache.DefaultCapacity)
//	c.Put("https://example.com/wood.png", bmp)
//	bmp, ok := c.Get("https://example.com/wood.png")
//
// # Thread Safety
//
// LRU is safe for concurrent use and must not be copied after creation.
package cache
