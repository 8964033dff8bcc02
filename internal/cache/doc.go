// Package cache provides a small generic LRU cache.
//
//	c := cache.New[string, *Result](64)
//	r, err := c.GetOrCreate(key, func() (*Result, error) { return build(key) })
//
// Values are created under the cache lock, so concurrent misses on the
// same key build the value once. Failed creations are not cached.
package cache
