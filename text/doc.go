// Package text draws strings through a glyphatlas.Atlas.
//
// A Provider turns a string into positioned glyphs and rasterizes single
// glyphs into alpha masks. Two providers are included:
//
//   - FaceProvider wraps any golang.org/x/image/font.Face: OpenType faces
//     from opentype.NewFace, or fixed-size bitmap faces such as basicfont
//     (CacheID.Size is 0 for those).
//   - ShapedProvider shapes with go-text/typesetting's HarfBuzz port and
//     rasterizes sfnt outlines by glyph index with x/image/vector, so
//     ligatures and kerning come out right.
//
// Drawer ties a provider to an atlas: it normalizes the string to NFC,
// reserves and uploads each glyph, and returns one Quad per visible glyph
// for the caller's renderer. Glyphs that do not fit this frame are skipped.
//
//	p, err := text.NewOpenTypeProvider(goregular.TTF, 1, 16)
//	d := text.NewDrawer(atlas, 0)
//	quads, err := d.Draw(p, "Hello", 10, 20)
//
// Rendered bitmaps are kept in an LRU keyed by glyphatlas.CacheID, so each
// provider sharing a Drawer needs its own font id.
package text
