package text

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/glyphatlas"
)

// Glyph is a rasterized glyph.
type Glyph struct {
	// Mask holds the coverage, with bounds starting at (0, 0).
	// It is nil for blank glyphs such as spaces.
	Mask *image.Alpha

	// Offset is the mask's top-left corner relative to the dot, in
	// pixels. Y grows down, so Offset.Y is negative above the baseline.
	Offset image.Point

	// Advance is the horizontal advance of the glyph.
	Advance fixed.Int26_6
}

// Empty reports whether the glyph has no pixels.
func (g *Glyph) Empty() bool {
	return g.Mask == nil || g.Mask.Rect.Empty()
}

// Width returns the mask width.
func (g *Glyph) Width() int {
	if g.Mask == nil {
		return 0
	}
	return g.Mask.Rect.Dx()
}

// Height returns the mask height.
func (g *Glyph) Height() int {
	if g.Mask == nil {
		return 0
	}
	return g.Mask.Rect.Dy()
}

// At returns the coverage of mask pixel (x, y). It matches the source
// function expected by (*glyphatlas.Atlas).UploadGlyph.
func (g *Glyph) At(x, y int) byte {
	return g.Mask.Pix[g.Mask.PixOffset(x, y)]
}

// PositionedGlyph is one glyph of a laid out string.
type PositionedGlyph struct {
	ID glyphatlas.CacheID

	// Dot is the glyph origin on the baseline.
	Dot fixed.Point26_6
}

// Provider lays out and rasterizes glyphs of one font at one size.
// Providers are not safe for concurrent use.
type Provider interface {
	// Layout positions the glyphs of s starting at dot.
	Layout(s string, dot fixed.Point26_6) []PositionedGlyph

	// Rasterize renders the glyph identified by id.
	Rasterize(id glyphatlas.CacheID) (*Glyph, error)

	// Metrics returns the font metrics at the provider's size.
	Metrics() font.Metrics
}
