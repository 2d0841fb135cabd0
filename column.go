package glyphatlas

// column is a vertical strip of the atlas holding lines sorted by y.
// Columns never change width; an atlas resize only makes them taller.
type column struct {
	x, y, width, height int
	lines               []*line
}

func (c *column) top() int    { return c.y + Margin }
func (c *column) bottom() int { return c.y + c.height - Margin }

// fitsWidth reports whether a glyph of the given width fits the column.
func (c *column) fitsWidth(width int) bool {
	return width <= c.width-2*Margin
}

// nextLineY returns the y of a line appended below the last one.
func (c *column) nextLineY() int {
	if len(c.lines) == 0 {
		return c.top()
	}
	return c.lines[len(c.lines)-1].bottom() + Gap
}

// reserveExisting finds room in an existing line without evicting.
func (c *column) reserveExisting(arena *spotArena, width, height int) (*line, int, bool) {
	for _, l := range c.lines {
		if !l.accepts(height) {
			continue
		}
		if x, ok := l.reserveWidth(arena, width); ok {
			return l, x, true
		}
	}
	return nil, 0, false
}

// appendLine creates a line below the last one. The previous last line
// stops growing so it cannot reach into the new line.
func (c *column) appendLine(width, height int) (*line, bool) {
	if !c.fitsWidth(width) {
		return nil, false
	}
	y := c.nextLineY()
	if y+height > c.bottom() {
		return nil, false
	}
	if n := len(c.lines); n > 0 {
		c.lines[n-1].maxHeight = c.lines[n-1].height
	}
	l := newLine(c.x, y, c.width, height, c.bottom())
	c.lines = append(c.lines, l)
	return l, true
}

// bestLineRun finds the cheapest run of fully expired lines whose removal
// frees at least height rows.
func (c *column) bestLineRun(arena *spotArena, width, height int) (evictionRun, bool) {
	var best evictionRun
	found := false
	if !c.fitsWidth(width) {
		return best, false
	}
	for i := range c.lines {
		top := c.top()
		if i > 0 {
			top = c.lines[i-1].bottom() + Gap
		}
		var count int
		var newest uint64
		for j := i; j < len(c.lines); j++ {
			n, latest, ok := c.lines[j].evictable(arena)
			if !ok {
				break
			}
			count += n
			newest = max(newest, latest)
			limit := c.bottom()
			if j+1 < len(c.lines) {
				limit = c.lines[j+1].y - Gap
			}
			if limit-top < height {
				continue
			}
			run := evictionRun{start: i, end: j + 1, count: count, newest: newest, pos: top, limit: limit}
			if !found || run.better(best) {
				best, found = run, true
			}
			break
		}
	}
	return best, found
}

// replaceLines removes the lines of run and creates one line of the given
// height in the freed space. It returns the slots of the evicted spots.
func (c *column) replaceLines(run evictionRun, height int) (*line, []uint32) {
	var evicted []uint32
	for _, l := range c.lines[run.start:run.end] {
		evicted = append(evicted, l.reserved...)
	}
	if run.start > 0 {
		prev := c.lines[run.start-1]
		prev.maxHeight = prev.height
	}
	l := newLine(c.x, run.pos, c.width, height, run.limit)
	c.lines = append(c.lines[:run.start], append([]*line{l}, c.lines[run.end:]...)...)
	return l, evicted
}

// extend grows the column to the given height. Only the last line can
// use the new rows.
func (c *column) extend(height int) {
	if height <= c.height {
		return
	}
	c.height = height
	if n := len(c.lines); n > 0 {
		last := c.lines[n-1]
		last.maxHeight = max(min(last.baseHeight*2, c.bottom()-last.y), last.height)
	}
}
