package text

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/glyphatlas"
	"github.com/gogpu/glyphatlas/internal/cache"
)

// DefaultGlyphCacheSize is the number of rendered bitmaps a Drawer keeps
// when NewDrawer is given zero.
const DefaultGlyphCacheSize = 1024

// Quad maps an atlas area to a screen rectangle.
type Quad struct {
	// Dst is the destination in screen pixels.
	Dst image.Rectangle

	// Src is the glyph's area in the atlas.
	Src glyphatlas.Rect

	ID glyphatlas.CacheID
}

// Drawer draws strings through an atlas.
//
// Drawer is not safe for concurrent use.
type Drawer struct {
	atlas   *glyphatlas.Atlas
	glyphs  *cache.LRU[glyphatlas.CacheID, *Glyph]
	skipped int
}

// NewDrawer creates a drawer keeping up to cacheSize rendered bitmaps.
func NewDrawer(a *glyphatlas.Atlas, cacheSize int) *Drawer {
	if cacheSize <= 0 {
		cacheSize = DefaultGlyphCacheSize
	}
	return &Drawer{
		atlas:  a,
		glyphs: cache.New[glyphatlas.CacheID, *Glyph](cacheSize),
	}
}

// Draw lays out s with p at baseline origin (x, y), reserves and uploads
// its glyphs and returns a quad per visible glyph.
//
// Glyphs that do not fit the atlas this frame, or are missing from the
// font, are left out and counted by Skipped. Other errors stop drawing and
// are returned with the quads produced so far.
func (d *Drawer) Draw(p Provider, s string, x, y int) ([]Quad, error) {
	s = norm.NFC.String(s)
	laid := p.Layout(s, fixed.P(x, y))
	quads := make([]Quad, 0, len(laid))
	for _, pg := range laid {
		g, err := d.glyphs.GetOrCreate(pg.ID, func() (*Glyph, error) {
			return p.Rasterize(pg.ID)
		})
		if errors.Is(err, ErrNoGlyph) {
			glyphatlas.Logger().Debug("text: glyph not in font", "glyph", pg.ID.Glyph)
			d.skipped++
			continue
		}
		if err != nil {
			return quads, err
		}
		if g.Empty() {
			continue
		}

		res, err := d.atlas.Reserve(pg.ID, g.Width(), g.Height())
		switch {
		case errors.Is(err, glyphatlas.ErrAtlasFull):
			d.skipped++
			continue
		case errors.Is(err, glyphatlas.ErrInvalidSize):
			glyphatlas.Logger().Warn("text: glyph larger than atlas",
				"glyph", pg.ID.Glyph, "width", g.Width(), "height", g.Height())
			d.skipped++
			continue
		case err != nil:
			return quads, fmt.Errorf("text: reserve glyph %d: %w", pg.ID.Glyph, err)
		}
		if res.New {
			if err := d.atlas.UploadGlyph(res, g.At); err != nil {
				return quads, err
			}
		}

		origin := image.Pt(pg.Dot.X.Round()+g.Offset.X, pg.Dot.Y.Round()+g.Offset.Y)
		quads = append(quads, Quad{
			Dst: image.Rectangle{Min: origin, Max: origin.Add(image.Pt(res.Rect.Width, res.Rect.Height))},
			Src: res.Rect,
			ID:  pg.ID,
		})
	}
	return quads, nil
}

// Skipped returns the number of glyphs left out so far.
func (d *Drawer) Skipped() int {
	return d.skipped
}

// ResetSkipped zeroes the skipped counter.
func (d *Drawer) ResetSkipped() {
	d.skipped = 0
}

// Atlas returns the atlas the drawer reserves in.
func (d *Drawer) Atlas() *glyphatlas.Atlas {
	return d.atlas
}

// CachedGlyphs returns the number of rendered bitmaps kept.
func (d *Drawer) CachedGlyphs() int {
	return d.glyphs.Len()
}

// CacheHitRate returns the fraction of glyph lookups served without
// rasterizing.
func (d *Drawer) CacheHitRate() float64 {
	return d.glyphs.Stats().HitRate()
}
