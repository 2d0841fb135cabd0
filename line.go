package glyphatlas

// Packing geometry.
const (
	// Margin is the distance between packed glyphs and the borders of
	// their column.
	Margin = 1

	// Gap is the minimum distance between neighbouring glyphs and lines.
	Gap = 1
)

// line is a horizontal strip of a column. Spots are packed left to right,
// sorted by x, separated by at least Gap pixels.
type line struct {
	x, y, width int

	// height is the tallest glyph placed so far, at least baseHeight.
	height int

	// baseHeight is the height the line was created for.
	baseHeight int

	// Glyphs with heights outside [minHeight, maxHeight] are rejected.
	minHeight int
	maxHeight int

	reserved []uint32
}

// newLine creates a line at y whose content may not extend past limit.
func newLine(x, y, width, height, limit int) *line {
	return &line{
		x:          x,
		y:          y,
		width:      width,
		height:     height,
		baseHeight: height,
		minHeight:  height / 2,
		maxHeight:  max(min(height*2, limit-y), height),
	}
}

func (l *line) accepts(height int) bool {
	return height >= l.minHeight && height <= l.maxHeight
}

func (l *line) left() int  { return l.x + Margin }
func (l *line) right() int { return l.x + l.width - Margin }

// bottom is the first row below the line's current glyphs.
func (l *line) bottom() int { return l.y + l.height }

// freeLeft returns the first usable x after the spot at index i,
// or the line's left border when i < 0.
func (l *line) freeLeft(arena *spotArena, i int) int {
	if i < 0 {
		return l.left()
	}
	r := arena.at(l.reserved[i]).rect
	return r.X + r.Width + Gap
}

// freeRight returns the end of the usable space before the spot at index
// i, or the line's right border when i is past the last spot.
func (l *line) freeRight(arena *spotArena, i int) int {
	if i >= len(l.reserved) {
		return l.right()
	}
	return arena.at(l.reserved[i]).rect.X - Gap
}

// reserveWidth finds the leftmost gap at least width wide.
func (l *line) reserveWidth(arena *spotArena, width int) (int, bool) {
	for i := 0; i <= len(l.reserved); i++ {
		left := l.freeLeft(arena, i-1)
		if l.freeRight(arena, i)-left >= width {
			return left, true
		}
	}
	return 0, false
}

// evictionRun describes a contiguous run of evictable entries, either
// spots in a line or lines in a column.
type evictionRun struct {
	owner      int // index of the line or column holding the run
	start, end int // half-open range into reserved or lines
	count      int // glyphs evicted
	newest     uint64
	pos        int // x or y where the freed space begins
	limit      int // end of the freed space
}

// better reports whether r should be evicted in preference to o: fewer
// glyphs first, then the run whose most recent use is older. Equal runs
// keep the one found first.
func (r evictionRun) better(o evictionRun) bool {
	if r.count != o.count {
		return r.count < o.count
	}
	return r.newest < o.newest
}

// bestRun finds the cheapest run of expired spots whose removal opens at
// least width pixels.
func (l *line) bestRun(arena *spotArena, width int) (evictionRun, bool) {
	var best evictionRun
	found := false
	for i := range l.reserved {
		if arena.at(l.reserved[i]).status != StatusExpired {
			continue
		}
		left := l.freeLeft(arena, i-1)
		var newest uint64
		for j := i; j < len(l.reserved); j++ {
			s := arena.at(l.reserved[j])
			if s.status != StatusExpired {
				break
			}
			newest = max(newest, s.lastUsed)
			right := l.freeRight(arena, j+1)
			if right-left < width {
				continue
			}
			run := evictionRun{start: i, end: j + 1, count: j + 1 - i, newest: newest, pos: left, limit: right}
			if !found || run.better(best) {
				best, found = run, true
			}
			break
		}
	}
	return best, found
}

// remove drops reserved[start:end] from the line and returns the slots.
func (l *line) remove(start, end int) []uint32 {
	removed := append([]uint32(nil), l.reserved[start:end]...)
	l.reserved = append(l.reserved[:start], l.reserved[end:]...)
	return removed
}

// insert adds slot i, keeping reserved sorted by x.
func (l *line) insert(arena *spotArena, i uint32) {
	r := arena.at(i).rect
	at := len(l.reserved)
	for k, j := range l.reserved {
		if arena.at(j).rect.X > r.X {
			at = k
			break
		}
	}
	l.reserved = append(l.reserved, 0)
	copy(l.reserved[at+1:], l.reserved[at:])
	l.reserved[at] = i
	l.height = max(l.height, r.Height)
}

// evictable reports whether every spot in the line is expired.
func (l *line) evictable(arena *spotArena) (count int, newest uint64, ok bool) {
	for _, i := range l.reserved {
		s := arena.at(i)
		if s.status != StatusExpired {
			return 0, 0, false
		}
		newest = max(newest, s.lastUsed)
	}
	return len(l.reserved), newest, true
}
