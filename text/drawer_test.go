package text

import (
	"testing"

	"github.com/gogpu/glyphatlas"
	"github.com/gogpu/glyphatlas/texture"
)

func newDrawer(t *testing.T, size, maxSize int) (*Drawer, *texture.Alpha) {
	t.Helper()
	tex := texture.New(size, maxSize)
	a, err := glyphatlas.New(tex, glyphatlas.WithConfig(glyphatlas.Config{Size: size, ClearEvicted: true}))
	if err != nil {
		t.Fatalf("glyphatlas.New() = %v", err)
	}
	return NewDrawer(a, 0), tex
}

func TestDrawerDraw(t *testing.T) {
	d, tex := newDrawer(t, 256, 256)
	p := newGoRegular(t, 16)

	quads, err := d.Draw(p, "Hello", 10, 30)
	if err != nil {
		t.Fatalf("Draw() = %v", err)
	}
	if len(quads) != 5 {
		t.Fatalf("Draw() returned %d quads, want 5", len(quads))
	}
	if quads[2].Src != quads[3].Src {
		t.Errorf("repeated 'l' got two atlas areas: %s and %s", quads[2].Src, quads[3].Src)
	}
	if tex.Uploads() != 4 {
		t.Errorf("Uploads() = %d, want 4 distinct glyphs", tex.Uploads())
	}
	for i, q := range quads {
		if q.Dst.Dx() != q.Src.Width || q.Dst.Dy() != q.Src.Height {
			t.Errorf("quad %d: dst %v does not match src %s", i, q.Dst, q.Src)
		}
		if q.Dst.Max.Y > 30+4 || q.Dst.Min.Y >= 30 {
			t.Errorf("quad %d at %v is not on the baseline at y=30", i, q.Dst)
		}
		if i > 0 && q.Dst.Min.X <= quads[i-1].Dst.Min.X {
			t.Errorf("quad %d does not advance", i)
		}
	}
	img := tex.Image()
	if img.AlphaAt(quads[0].Src.X-1, quads[0].Src.Y).A != 0 {
		t.Error("glyph border is not transparent")
	}

	// Next frame: everything is cached, nothing is uploaded or rasterized.
	d.Atlas().EndFrame()
	if _, err := d.Draw(p, "Hello", 10, 60); err != nil {
		t.Fatal(err)
	}
	if tex.Uploads() != 4 {
		t.Errorf("Uploads() = %d after redraw, want 4", tex.Uploads())
	}
	if d.CachedGlyphs() != 4 {
		t.Errorf("CachedGlyphs() = %d, want 4", d.CachedGlyphs())
	}
	if got := d.CacheHitRate(); got != 0.6 {
		t.Errorf("CacheHitRate() = %v, want 0.6", got)
	}
}

func TestDrawerSpacesHaveNoQuads(t *testing.T) {
	d, _ := newDrawer(t, 256, 256)
	quads, err := d.Draw(newGoRegular(t, 16), "a b", 0, 20)
	if err != nil {
		t.Fatal(err)
	}
	if len(quads) != 2 {
		t.Fatalf("Draw() returned %d quads, want 2", len(quads))
	}
	if quads[1].Dst.Min.X-quads[0].Dst.Min.X < 8 {
		t.Error("space did not advance the pen")
	}
}

func TestDrawerNormalizesNFC(t *testing.T) {
	d, _ := newDrawer(t, 256, 256)
	p := newGoRegular(t, 16)

	quads, err := d.Draw(p, "e\u0301", 0, 20)
	if err != nil {
		t.Fatal(err)
	}
	if len(quads) != 1 || quads[0].ID.Glyph != 'é' {
		t.Fatalf("Draw(e + combining acute) = %+v, want one precomposed é", quads)
	}
	again, err := d.Draw(p, "é", 0, 40)
	if err != nil {
		t.Fatal(err)
	}
	if again[0].Src != quads[0].Src {
		t.Error("composed and decomposed forms use different atlas areas")
	}
}

func TestDrawerSkipsWhenFull(t *testing.T) {
	d, _ := newDrawer(t, 16, 16)
	p := NewBitmapProvider(1)

	// Two 6x13 glyphs fit a 16x16 atlas, the third does not.
	quads, err := d.Draw(p, "ABC", 0, 13)
	if err != nil {
		t.Fatal(err)
	}
	if len(quads) != 2 || d.Skipped() != 1 {
		t.Fatalf("got %d quads, %d skipped; want 2 and 1", len(quads), d.Skipped())
	}
	d.ResetSkipped()
	if d.Skipped() != 0 {
		t.Error("ResetSkipped() did not reset")
	}

	// Two frames later A and B are expired, so C fits.
	d.Atlas().EndFrame()
	d.Atlas().EndFrame()
	quads, err = d.Draw(p, "C", 0, 13)
	if err != nil || len(quads) != 1 {
		t.Fatalf("Draw(C) = %d quads, %v", len(quads), err)
	}
	if d.Atlas().Stats().Evictions != 1 {
		t.Errorf("Evictions = %d, want 1", d.Atlas().Stats().Evictions)
	}
}

func TestDrawerShaped(t *testing.T) {
	d, tex := newDrawer(t, 256, 256)
	quads, err := d.Draw(newShaped(t, 20), "Shaped", 4, 30)
	if err != nil {
		t.Fatal(err)
	}
	if len(quads) != 6 {
		t.Fatalf("Draw() returned %d quads, want 6", len(quads))
	}
	if tex.Uploads() != 6 {
		t.Errorf("Uploads() = %d, want 6", tex.Uploads())
	}
}
