// Package cache provides a generic, thread-safe LRU cache bounded by entry
// count and, optionally, by the summed cost of its values.
//
// All operations are O(1) except RemoveFunc, which scans every key.
//
// # Usage
//
//	logos := cache.New(256,
//	    cache.WithMaxCost[string](64<<20, func(img image.Image) int64 {
//	        b := img.Bounds()
//	        return int64(b.Dx() * b.Dy() * 4)
//	    }),
//	)
//	logos.Put(url, img)
//	if img, ok := logos.Get(url); ok { ... }
//
// WithEvictCallback observes every entry that leaves the cache.
package cache
