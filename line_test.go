package glyphatlas

import "testing"

// addSpot places a spot of the given width at x into l.
func addSpot(a *spotArena, l *line, x, width int, status Status, lastUsed uint64) uint32 {
	i := a.alloc(CacheID{Glyph: uint32(x)}, Rect{X: x, Y: l.y, Width: width, Height: l.baseHeight}, lastUsed) //nolint:gosec // test coordinates
	a.at(i).status = status
	l.insert(a, i)
	return i
}

func TestLineHeightRange(t *testing.T) {
	l := newLine(0, 1, 128, 16, 127)
	tests := []struct {
		height int
		want   bool
	}{
		{7, false},
		{8, true},
		{16, true},
		{32, true},
		{33, false},
	}
	for _, tt := range tests {
		if got := l.accepts(tt.height); got != tt.want {
			t.Errorf("accepts(%d) = %v, want %v", tt.height, got, tt.want)
		}
	}

	// Capped by the space left below the line.
	l = newLine(0, 100, 128, 16, 127)
	if l.maxHeight != 27 {
		t.Errorf("maxHeight = %d, want 27", l.maxHeight)
	}
}

func TestLineReserveWidth(t *testing.T) {
	var a spotArena
	l := newLine(0, 1, 64, 10, 100)

	x, ok := l.reserveWidth(&a, 10)
	if !ok || x != Margin {
		t.Fatalf("empty line: reserveWidth = %d, %v; want %d, true", x, ok, Margin)
	}

	addSpot(&a, l, 1, 10, StatusUsedThisFrame, 0)
	addSpot(&a, l, 30, 10, StatusUsedThisFrame, 0)

	// Gap between the spots: [12, 29).
	tests := []struct {
		width int
		wantX int
		ok    bool
	}{
		{17, 12, true},
		{18, 41, true},
		{22, 41, true},
		{23, 0, false},
	}
	for _, tt := range tests {
		x, ok := l.reserveWidth(&a, tt.width)
		if ok != tt.ok || (ok && x != tt.wantX) {
			t.Errorf("reserveWidth(%d) = %d, %v; want %d, %v", tt.width, x, ok, tt.wantX, tt.ok)
		}
	}
}

func TestLineInsertKeepsOrder(t *testing.T) {
	var a spotArena
	l := newLine(0, 1, 128, 10, 100)
	addSpot(&a, l, 40, 5, StatusUsedThisFrame, 0)
	addSpot(&a, l, 1, 5, StatusUsedThisFrame, 0)
	addSpot(&a, l, 20, 5, StatusUsedThisFrame, 0)

	var xs []int
	for _, i := range l.reserved {
		xs = append(xs, a.at(i).rect.X)
	}
	if len(xs) != 3 || xs[0] != 1 || xs[1] != 20 || xs[2] != 40 {
		t.Errorf("reserved x order = %v, want [1 20 40]", xs)
	}
}

func TestLineBestRun(t *testing.T) {
	var a spotArena
	l := newLine(0, 1, 128, 10, 100)
	// x:   1    12   23   34   45
	// st:  E    T    E    E    T
	addSpot(&a, l, 1, 10, StatusExpired, 3)
	addSpot(&a, l, 12, 10, StatusUsedThisFrame, 5)
	addSpot(&a, l, 23, 10, StatusExpired, 1)
	addSpot(&a, l, 34, 10, StatusExpired, 2)
	addSpot(&a, l, 45, 10, StatusUsedThisFrame, 5)

	tests := []struct {
		name      string
		width     int
		wantStart int
		wantCount int
		wantPos   int
		ok        bool
	}{
		// Spots 0 and 2 each free 10 px; spot 2 was used longer ago.
		{"single stalest", 10, 2, 1, 23, true},
		// Only the run 2..3 frees 21 px.
		{"pair", 21, 2, 2, 23, true},
		{"too wide", 40, 0, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run, ok := l.bestRun(&a, tt.width)
			if ok != tt.ok {
				t.Fatalf("bestRun(%d) ok = %v, want %v", tt.width, ok, tt.ok)
			}
			if !ok {
				return
			}
			if run.start != tt.wantStart || run.count != tt.wantCount || run.pos != tt.wantPos {
				t.Errorf("bestRun(%d) = start %d count %d pos %d; want start %d count %d pos %d",
					tt.width, run.start, run.count, run.pos, tt.wantStart, tt.wantCount, tt.wantPos)
			}
		})
	}
}

func TestLineRemove(t *testing.T) {
	var a spotArena
	l := newLine(0, 1, 128, 10, 100)
	s0 := addSpot(&a, l, 1, 5, StatusExpired, 0)
	s1 := addSpot(&a, l, 10, 5, StatusExpired, 0)
	s2 := addSpot(&a, l, 20, 5, StatusExpired, 0)

	removed := l.remove(1, 2)
	if len(removed) != 1 || removed[0] != s1 {
		t.Fatalf("remove(1, 2) = %v, want [%d]", removed, s1)
	}
	if len(l.reserved) != 2 || l.reserved[0] != s0 || l.reserved[1] != s2 {
		t.Errorf("reserved after remove = %v", l.reserved)
	}
}

func TestLineEvictable(t *testing.T) {
	var a spotArena
	l := newLine(0, 1, 128, 10, 100)

	if n, _, ok := l.evictable(&a); !ok || n != 0 {
		t.Errorf("empty line: evictable = %d, %v; want 0, true", n, ok)
	}
	addSpot(&a, l, 1, 5, StatusExpired, 4)
	addSpot(&a, l, 10, 5, StatusExpired, 7)
	n, newest, ok := l.evictable(&a)
	if !ok || n != 2 || newest != 7 {
		t.Errorf("evictable = %d, %d, %v; want 2, 7, true", n, newest, ok)
	}
	addSpot(&a, l, 20, 5, StatusUsedLastFrame, 8)
	if _, _, ok := l.evictable(&a); ok {
		t.Error("line with a recently used spot is evictable")
	}
}
