// Package cache provides the LRU used to keep rendered glyph bitmaps.
//
// An atlas evicts glyphs that went unused for a while; when such a glyph is
// drawn again its bitmap usually comes from this cache instead of the font
// rasterizer. LRU is keyed by glyphatlas.CacheID in practice but is generic.
//
//	c := cache.New[glyphatlas.CacheID, *text.Glyph](1024)
//	g, err := c.GetOrCreate(id, rasterize)
//
// LRU is safe for concurrent use and must not be copied after creation.
package cache
