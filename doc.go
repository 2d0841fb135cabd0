// Package glyphatlas packs rasterized glyph bitmaps into a single texture
// and keeps them there across frames.
//
// # Overview
//
// An Atlas hands out rectangles of a square, single-channel texture. The
// texture is split into columns; each column is a stack of lines and each
// line holds glyphs of similar height, left to right. Glyphs are cached by
// CacheID (font, glyph, size), so drawing the same text again costs a map
// lookup.
//
// Every spot carries a status that ages once per frame:
//
//	UsedThisFrame -> UsedLastFrame -> Expired
//
// Only expired spots, unused for a full frame, are ever evicted, so a
// rectangle handed out this frame or the previous one stays valid while the
// GPU may still sample it.
//
// # Reserving
//
// Reserve escalates until one step succeeds:
//
//  1. cache hit
//  2. free space in an existing line, or a new line below a column's last line
//  3. a new column
//  4. evicting the cheapest run of expired glyphs in one line
//  5. evicting the cheapest run of expired lines in one column
//  6. recording a pending resize and returning ErrAtlasFull
//
// Runs are ranked by the number of glyphs they evict, then by how long ago
// their most recent glyph was used. ErrAtlasFull is not fatal: skip the
// glyph and draw it next frame.
//
// # Frame protocol
//
//	for {
//	    if err := atlas.BeginFrame(); err != nil { // applies a pending resize
//	        return err
//	    }
//	    for _, g := range glyphs {
//	        res, err := atlas.Reserve(g.ID, g.W, g.H)
//	        if errors.Is(err, glyphatlas.ErrAtlasFull) {
//	            continue
//	        }
//	        if res.New {
//	            atlas.UploadGlyph(res, g.At)
//	        }
//	    }
//	    atlas.EndFrame() // ages every spot
//	}
//
// # Renderers
//
// The texture itself belongs to a Renderer. The texture package provides
// a CPU *image.Alpha renderer, the gpu package an R8 wgpu texture. The text
// package draws strings through an atlas using x/image fonts or go-text
// shaping.
//
// # Logging
//
// The package is silent by default. Route its log/slog output with
// SetLogger, or per atlas with WithLogger.
package glyphatlas
