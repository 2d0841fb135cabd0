package text

import (
	"bytes"
	"fmt"
	"image"

	"github.com/go-text/typesetting/di"
	gtfont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/gogpu/glyphatlas"
)

// ShapedProvider shapes strings with HarfBuzz and rasterizes glyph
// outlines by glyph index. CacheID.Glyph holds the font's glyph index.
type ShapedProvider struct {
	fontID uint64
	size   int
	ppem   fixed.Int26_6

	face   *gtfont.Face
	shaper shaping.HarfbuzzShaper
	lang   language.Language

	outlines *sfnt.Font
	buf      sfnt.Buffer
	raster   vector.Rasterizer
}

// NewShapedProvider parses TrueType or OpenType data for shaping and
// outline rasterization at size pixels per em.
func NewShapedProvider(data []byte, fontID uint64, size float64) (*ShapedProvider, error) {
	face, err := gtfont.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("text: failed to parse font for shaping: %w", err)
	}
	outlines, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("text: failed to parse font outlines: %w", err)
	}
	ppem := fixed.Int26_6(size * 64)
	return &ShapedProvider{
		fontID:   fontID,
		size:     ppem.Round(),
		ppem:     ppem,
		face:     face,
		lang:     language.NewLanguage("en"),
		outlines: outlines,
	}, nil
}

// Layout implements Provider. The script is taken from the first
// non-space rune; split mixed-script text into runs before calling.
func (p *ShapedProvider) Layout(s string, dot fixed.Point26_6) []PositionedGlyph {
	runes := []rune(s)
	if len(runes) == 0 {
		return nil
	}
	out := p.shaper.Shape(shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      p.face,
		Size:      p.ppem,
		Script:    detectScript(runes),
		Language:  p.lang,
	})
	glyphs := make([]PositionedGlyph, 0, len(out.Glyphs))
	for _, g := range out.Glyphs {
		glyphs = append(glyphs, PositionedGlyph{
			ID: glyphatlas.CacheID{Font: p.fontID, Glyph: uint32(g.GlyphID), Size: p.size},
			// go-text offsets are y-up.
			Dot: fixed.Point26_6{X: dot.X + g.XOffset, Y: dot.Y - g.YOffset},
		})
		dot.X += g.Advance
	}
	return glyphs
}

// detectScript returns the script of the first non-space rune.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

// Rasterize implements Provider.
func (p *ShapedProvider) Rasterize(id glyphatlas.CacheID) (*Glyph, error) {
	if id.Glyph >= uint32(p.outlines.NumGlyphs()) {
		return nil, fmt.Errorf("%w: index %d", ErrNoGlyph, id.Glyph)
	}
	gid := sfnt.GlyphIndex(id.Glyph)
	advance, err := p.outlines.GlyphAdvance(&p.buf, gid, p.ppem, font.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("text: glyph %d advance: %w", gid, err)
	}
	segments, err := p.outlines.LoadGlyph(&p.buf, gid, p.ppem, nil)
	if err != nil {
		return nil, fmt.Errorf("text: load glyph %d: %w", gid, err)
	}
	g := &Glyph{Advance: advance}
	if len(segments) == 0 {
		return g, nil
	}

	bounds := segmentBounds(segments)
	if bounds.Empty() {
		return g, nil
	}
	g.Offset = bounds.Min
	g.Mask = image.NewAlpha(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	p.raster.Reset(bounds.Dx(), bounds.Dy())
	p.raster.DrawOp = draw.Src
	ox, oy := float32(bounds.Min.X), float32(bounds.Min.Y)
	pt := func(a fixed.Point26_6) (float32, float32) {
		return float32(a.X)/64 - ox, float32(a.Y)/64 - oy
	}
	started := false
	for _, seg := range segments {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			if started {
				p.raster.ClosePath()
			}
			started = true
			p.raster.MoveTo(pt(seg.Args[0]))
		case sfnt.SegmentOpLineTo:
			p.raster.LineTo(pt(seg.Args[0]))
		case sfnt.SegmentOpQuadTo:
			bx, by := pt(seg.Args[0])
			cx, cy := pt(seg.Args[1])
			p.raster.QuadTo(bx, by, cx, cy)
		case sfnt.SegmentOpCubeTo:
			bx, by := pt(seg.Args[0])
			cx, cy := pt(seg.Args[1])
			dx, dy := pt(seg.Args[2])
			p.raster.CubeTo(bx, by, cx, cy, dx, dy)
		}
	}
	p.raster.ClosePath()
	p.raster.Draw(g.Mask, g.Mask.Rect, image.Opaque, image.Point{})
	return g, nil
}

// segmentBounds returns the pixel bounds of an outline, rounded outwards.
func segmentBounds(segments sfnt.Segments) image.Rectangle {
	var minP, maxP fixed.Point26_6
	first := true
	for _, seg := range segments {
		n := 1
		switch seg.Op {
		case sfnt.SegmentOpQuadTo:
			n = 2
		case sfnt.SegmentOpCubeTo:
			n = 3
		}
		for _, a := range seg.Args[:n] {
			if first {
				minP, maxP, first = a, a, false
				continue
			}
			minP.X, minP.Y = min(minP.X, a.X), min(minP.Y, a.Y)
			maxP.X, maxP.Y = max(maxP.X, a.X), max(maxP.Y, a.Y)
		}
	}
	return image.Rect(minP.X.Floor(), minP.Y.Floor(), maxP.X.Ceil(), maxP.Y.Ceil())
}

// Metrics implements Provider.
func (p *ShapedProvider) Metrics() font.Metrics {
	m, err := p.outlines.Metrics(&p.buf, p.ppem, font.HintingNone)
	if err != nil {
		return font.Metrics{}
	}
	return m
}
