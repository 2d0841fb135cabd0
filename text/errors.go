package text

import "errors"

// Sentinel errors for the text package.
var (
	// ErrNoGlyph is returned by Rasterize when the font has no glyph for
	// the id. Drawer skips such glyphs.
	ErrNoGlyph = errors.New("text: glyph not in font")

	// ErrNilFace is returned when a provider is created without a face.
	ErrNilFace = errors.New("text: face is nil")
)
