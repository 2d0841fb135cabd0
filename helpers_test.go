package glyphatlas

import (
	"errors"
	"fmt"
	"testing"
)

// fakeRenderer is an in-memory single-channel texture.
type fakeRenderer struct {
	max           int
	width, height int
	pix           []byte

	uploads    int
	lastUpload Rect
	resizes    int
	uploadErr  error
	resizeErr  error
}

func newFakeRenderer(size, maxSize int) *fakeRenderer {
	return &fakeRenderer{
		max:    maxSize,
		width:  size,
		height: size,
		pix:    make([]byte, size*size),
	}
}

func (f *fakeRenderer) MaxTextureSize() int { return f.max }

func (f *fakeRenderer) UploadRegion(r Rect, pixels []byte) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	if r.X < 0 || r.Y < 0 || r.X+r.Width > f.width || r.Y+r.Height > f.height {
		return fmt.Errorf("upload %s outside %dx%d texture", r, f.width, f.height)
	}
	if len(pixels) != r.Width*r.Height {
		return fmt.Errorf("upload %s with %d pixels", r, len(pixels))
	}
	for y := 0; y < r.Height; y++ {
		copy(f.pix[(r.Y+y)*f.width+r.X:], pixels[y*r.Width:(y+1)*r.Width])
	}
	f.uploads++
	f.lastUpload = r
	return nil
}

func (f *fakeRenderer) ResizeTexture(width, height int) error {
	if f.resizeErr != nil {
		return f.resizeErr
	}
	pix := make([]byte, width*height)
	for y := 0; y < f.height; y++ {
		copy(pix[y*width:], f.pix[y*f.width:(y+1)*f.width])
	}
	f.pix, f.width, f.height = pix, width, height
	f.resizes++
	return nil
}

func (f *fakeRenderer) at(x, y int) byte {
	return f.pix[y*f.width+x]
}

func mustNew(t *testing.T, r Renderer, opts ...Option) *Atlas {
	t.Helper()
	a, err := New(r, opts...)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	return a
}

// newTestAtlas creates a size x size atlas that can grow to maxSize.
func newTestAtlas(t *testing.T, size, maxSize int) (*Atlas, *fakeRenderer) {
	t.Helper()
	r := newFakeRenderer(size, maxSize)
	return mustNew(t, r, WithConfig(Config{Size: size, ClearEvicted: true})), r
}

// fillAtlas reserves width x height glyphs with ids 0, 1, 2, ... until the
// atlas is full. It returns the successful reservations.
func fillAtlas(t *testing.T, a *Atlas, width, height int) []Reservation {
	t.Helper()
	var out []Reservation
	for g := uint32(0); ; g++ {
		res, err := a.Reserve(CacheID{Glyph: g}, width, height)
		if errors.Is(err, ErrAtlasFull) {
			return out
		}
		if err != nil {
			t.Fatalf("Reserve(%d) = %v", g, err)
		}
		out = append(out, res)
		if g > 1<<16 {
			t.Fatal("atlas never filled up")
		}
	}
}

// hitAll reserves every id in 0..n-1 except those in skip.
func hitAll(t *testing.T, a *Atlas, n, width, height int, skip ...uint32) {
	t.Helper()
	skipped := make(map[uint32]bool, len(skip))
	for _, g := range skip {
		skipped[g] = true
	}
	for g := uint32(0); g < uint32(n); g++ { //nolint:gosec // small test counts
		if skipped[g] {
			continue
		}
		res, err := a.Reserve(CacheID{Glyph: g}, width, height)
		if err != nil {
			t.Fatalf("Reserve(%d) = %v", g, err)
		}
		if res.New {
			t.Fatalf("Reserve(%d) was a miss, want a cache hit", g)
		}
	}
}

// checkInvariants verifies that live spots are inside the atlas, keep at
// least Gap pixels from each other and resolve through their handles.
func checkInvariants(t *testing.T, a *Atlas) {
	t.Helper()
	w, h := a.Size()
	spots := a.Spots()
	if len(spots) != a.Len() {
		t.Fatalf("Spots() returned %d spots, Len() = %d", len(spots), a.Len())
	}
	for i, s := range spots {
		r := s.Rect
		if r.X < Margin || r.Y < Margin || r.X+r.Width > w-Margin || r.Y+r.Height > h-Margin {
			t.Fatalf("spot %v %s outside %dx%d atlas", s.ID, r, w, h)
		}
		if got, ok := a.Lookup(s.Handle); !ok || got != r {
			t.Fatalf("Lookup(%v) = %s, %v; want %s", s.ID, got, ok, r)
		}
		grown := Rect{X: r.X - Gap, Y: r.Y - Gap, Width: r.Width + 2*Gap, Height: r.Height + 2*Gap}
		for _, o := range spots[i+1:] {
			if grown.Overlaps(o.Rect) {
				t.Fatalf("spots %v %s and %v %s are closer than %d px", s.ID, r, o.ID, o.Rect, Gap)
			}
		}
	}
	for ci, c := range a.columns {
		for li, l := range c.lines {
			if li > 0 && l.y <= c.lines[li-1].bottom() {
				t.Fatalf("column %d: line %d at y=%d overlaps line above ending at %d", ci, li, l.y, c.lines[li-1].bottom())
			}
			if l.height > l.maxHeight {
				t.Fatalf("column %d line %d: height %d > maxHeight %d", ci, li, l.height, l.maxHeight)
			}
			for k := 1; k < len(l.reserved); k++ {
				if a.spots.at(l.reserved[k-1]).rect.X >= a.spots.at(l.reserved[k]).rect.X {
					t.Fatalf("column %d line %d: spots not sorted by x", ci, li)
				}
			}
		}
	}
}
