package glyphatlas

import "fmt"

// Rect is a rectangle in atlas pixels.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Empty returns true if the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains returns true if the point (x, y) is inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Overlaps returns true if r and o share at least one pixel.
func (r Rect) Overlaps(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.X < o.X+o.Width && o.X < r.X+r.Width &&
		r.Y < o.Y+o.Height && o.Y < r.Y+r.Height
}

// String returns a string representation of the rectangle.
func (r Rect) String() string {
	return fmt.Sprintf("Rect(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}

// Status is the per-frame usage state of a spot.
type Status uint8

const (
	// StatusUsedThisFrame marks a spot hit or reserved in the current frame.
	StatusUsedThisFrame Status = iota

	// StatusUsedLastFrame marks a spot last hit in the previous frame.
	StatusUsedLastFrame

	// StatusExpired marks a spot unused for at least one full frame.
	// Only expired spots may be evicted.
	StatusExpired
)

func (s Status) String() string {
	switch s {
	case StatusUsedThisFrame:
		return "UsedThisFrame"
	case StatusUsedLastFrame:
		return "UsedLastFrame"
	case StatusExpired:
		return "Expired"
	default:
		return fmt.Sprintf("Status(%d)", s)
	}
}

// step returns the status after one frame boundary without a hit.
func (s Status) step() Status {
	switch s {
	case StatusUsedThisFrame:
		return StatusUsedLastFrame
	default:
		return StatusExpired
	}
}

// CacheID identifies a rasterized glyph.
type CacheID struct {
	// Font distinguishes faces sharing one atlas.
	Font uint64

	// Glyph is the glyph index or rune, as chosen by the font provider.
	Glyph uint32

	// Size is the font size in pixels per em. Zero for fixed-size fonts.
	Size int
}

// Handle is a non-owning reference to a reserved spot.
//
// A handle stays valid until its spot is evicted; after that it never
// resolves again, even if the storage is reused for another glyph.
// The zero Handle is never valid.
type Handle struct {
	index uint32
	gen   uint32
}

// IsZero reports whether h is the zero Handle.
func (h Handle) IsZero() bool {
	return h.gen == 0
}

// spot is an arena slot. The line listing the slot index owns it.
type spot struct {
	id       CacheID
	rect     Rect
	status   Status
	lastUsed uint64 // frame of the last hit
	gen      uint32
	live     bool
}

// spotArena stores every spot of an atlas. Released slots bump their
// generation so outstanding handles go stale.
type spotArena struct {
	slots []spot
	free  []uint32
	live  int
}

func (a *spotArena) alloc(id CacheID, rect Rect, frame uint64) uint32 {
	var i uint32
	if n := len(a.free); n > 0 {
		i = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		a.slots = append(a.slots, spot{gen: 1})
		i = uint32(len(a.slots) - 1) //nolint:gosec // slot count is bounded by atlas area
	}
	s := &a.slots[i]
	s.id = id
	s.rect = rect
	s.status = StatusUsedThisFrame
	s.lastUsed = frame
	s.live = true
	a.live++
	return i
}

func (a *spotArena) release(i uint32) {
	s := &a.slots[i]
	if !s.live {
		return
	}
	s.live = false
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	a.free = append(a.free, i)
	a.live--
}

func (a *spotArena) handle(i uint32) Handle {
	return Handle{index: i, gen: a.slots[i].gen}
}

// get resolves h. The returned pointer is valid until the next alloc.
func (a *spotArena) get(h Handle) (*spot, bool) {
	if h.IsZero() || int(h.index) >= len(a.slots) {
		return nil, false
	}
	s := &a.slots[h.index]
	if !s.live || s.gen != h.gen {
		return nil, false
	}
	return s, true
}

func (a *spotArena) at(i uint32) *spot {
	return &a.slots[i]
}

func (a *spotArena) reset() {
	for i := range a.slots {
		if a.slots[i].live {
			a.release(uint32(i)) //nolint:gosec // index of an existing slot
		}
	}
}
