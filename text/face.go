package text

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/glyphatlas"
)

// FaceProvider rasterizes glyphs through a golang.org/x/image/font.Face.
// Faces address glyphs by rune, so CacheID.Glyph holds the rune.
type FaceProvider struct {
	face   font.Face
	fontID uint64
	size   int
}

// NewFaceProvider wraps face. size is the pixel size used in cache ids;
// use 0 for fixed-size bitmap faces.
func NewFaceProvider(face font.Face, fontID uint64, size int) (*FaceProvider, error) {
	if face == nil {
		return nil, ErrNilFace
	}
	return &FaceProvider{face: face, fontID: fontID, size: size}, nil
}

// NewOpenTypeProvider parses TrueType or OpenType data and creates a face
// of size pixels per em, hinted.
func NewOpenTypeProvider(data []byte, fontID uint64, size float64) (*FaceProvider, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("text: failed to parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("text: failed to create face: %w", err)
	}
	return NewFaceProvider(face, fontID, int(math.Round(size)))
}

// NewBitmapProvider returns a provider for the 7x13 fixed bitmap font.
func NewBitmapProvider(fontID uint64) *FaceProvider {
	return &FaceProvider{face: basicfont.Face7x13, fontID: fontID}
}

// ID returns the cache id of rune r.
func (p *FaceProvider) ID(r rune) glyphatlas.CacheID {
	return glyphatlas.CacheID{Font: p.fontID, Glyph: uint32(r), Size: p.size} //nolint:gosec // runes are non-negative
}

// Layout implements Provider. Kerning comes from the face.
func (p *FaceProvider) Layout(s string, dot fixed.Point26_6) []PositionedGlyph {
	out := make([]PositionedGlyph, 0, len(s))
	prev := rune(-1)
	for _, r := range s {
		if prev >= 0 {
			dot.X += p.face.Kern(prev, r)
		}
		out = append(out, PositionedGlyph{ID: p.ID(r), Dot: dot})
		if adv, ok := p.face.GlyphAdvance(r); ok {
			dot.X += adv
		}
		prev = r
	}
	return out
}

// Rasterize implements Provider.
func (p *FaceProvider) Rasterize(id glyphatlas.CacheID) (*Glyph, error) {
	r := rune(id.Glyph) //nolint:gosec // ids come from ID
	dr, mask, maskp, advance, ok := p.face.Glyph(fixed.Point26_6{}, r)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoGlyph, r)
	}
	g := &Glyph{Offset: dr.Min, Advance: advance}
	if dr.Empty() {
		return g, nil
	}
	g.Mask = image.NewAlpha(image.Rect(0, 0, dr.Dx(), dr.Dy()))
	draw.DrawMask(g.Mask, g.Mask.Rect, image.Opaque, image.Point{}, mask, maskp, draw.Src)
	return g, nil
}

// Metrics implements Provider.
func (p *FaceProvider) Metrics() font.Metrics {
	return p.face.Metrics()
}

// Close releases the face.
func (p *FaceProvider) Close() error {
	return p.face.Close()
}
