package glyphatlas

import (
	"fmt"
	"log/slog"
	"math/bits"
)

// minColumnWidth is the narrowest column created, unless the atlas has
// less room left.
const minColumnWidth = 128

// Reservation is the result of a successful Reserve.
type Reservation struct {
	// Rect is the glyph's area in the atlas, excluding the border.
	Rect Rect

	// Handle refers to the spot until it is evicted.
	Handle Handle

	// New is true when the spot was just reserved and needs pixels.
	// Upload only new reservations.
	New bool
}

// SpotInfo describes a live spot, as returned by (*Atlas).Spots.
type SpotInfo struct {
	ID     CacheID
	Rect   Rect
	Status Status
	Handle Handle
}

// Atlas packs glyph bitmaps into one texture.
//
// The atlas is split into columns, each a stack of lines holding glyphs of
// similar height. Reserve tries, in order: the cache, free space in
// existing lines and columns, a new column, evicting a run of expired
// glyphs, evicting a run of expired lines, and finally records a pending
// resize and fails with ErrAtlasFull.
//
// Frame protocol:
//
//	for {
//	    if err := a.BeginFrame(); err != nil { ... } // applies pending resize
//	    res, err := a.Reserve(id, w, h)              // per glyph
//	    if res.New {
//	        a.UploadGlyph(res, rasterize)
//	    }
//	    a.EndFrame()                                 // ages every spot
//	}
//
// Atlas is not safe for concurrent use.
type Atlas struct {
	renderer Renderer
	logger   *slog.Logger

	width   int
	height  int
	maxSize int

	// cursor is the x where the next column starts.
	cursor  int
	columns []*column

	spots  spotArena
	lookup map[CacheID]Handle

	pendingResize     int
	frame             uint64
	reservedThisFrame bool

	clearEvicted bool
	stats        Stats
}

// New creates an atlas drawing into r. The renderer's texture must
// already have the configured Size in both dimensions.
func New(r Renderer, opts ...Option) (*Atlas, error) {
	if r == nil {
		return nil, ErrNilRenderer
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	cfg := o.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	maxSize := r.MaxTextureSize()
	if cfg.MaxSize > 0 && cfg.MaxSize < maxSize {
		maxSize = cfg.MaxSize
	}
	if cfg.Size > maxSize {
		return nil, &ConfigError{
			Field:  "Size",
			Reason: fmt.Sprintf("exceeds maximum texture size %d", maxSize),
		}
	}

	return &Atlas{
		renderer:     r,
		logger:       o.logger,
		width:        cfg.Size,
		height:       cfg.Size,
		maxSize:      maxSize,
		lookup:       make(map[CacheID]Handle),
		clearEvicted: cfg.ClearEvicted,
	}, nil
}

func (a *Atlas) log() *slog.Logger {
	if a.logger != nil {
		return a.logger
	}
	return Logger()
}

// Reserve returns the atlas area for id, reserving width x height pixels
// if id is not cached. On a cache hit the stored area is returned, with
// New set to false, whatever size is passed.
//
// ErrAtlasFull means the glyph should be skipped this frame. If a larger
// atlas can help, the next ResizeIfNeeded grows it.
func (a *Atlas) Reserve(id CacheID, width, height int) (Reservation, error) {
	limit := a.maxSize - 2*Margin
	if width <= 0 || height <= 0 || width > limit || height > limit {
		return Reservation{}, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	a.reservedThisFrame = true

	if h, ok := a.lookup[id]; ok {
		if s, ok := a.spots.get(h); ok {
			s.status = StatusUsedThisFrame
			s.lastUsed = a.frame
			a.stats.Hits++
			return Reservation{Rect: s.rect, Handle: h}, nil
		}
		delete(a.lookup, id)
	}
	a.stats.Misses++

	l, x, ok := a.place(width, height)
	if !ok {
		a.stats.Failures++
		a.requestResize(width, height)
		return Reservation{}, ErrAtlasFull
	}

	rect := Rect{X: x, Y: l.y, Width: width, Height: height}
	i := a.spots.alloc(id, rect, a.frame)
	l.insert(&a.spots, i)
	h := a.spots.handle(i)
	a.lookup[id] = h

	a.log().Debug("glyphatlas: reserved glyph",
		"glyph", id.Glyph, "size", id.Size, "rect", rect.String())
	return Reservation{Rect: rect, Handle: h, New: true}, nil
}

// place runs the placement strategies in escalating order.
func (a *Atlas) place(width, height int) (*line, int, bool) {
	if l, x, ok := a.fitExisting(width, height); ok {
		a.stats.Placed++
		return l, x, true
	}
	if l, ok := a.fitNewLine(width, height); ok {
		a.stats.Placed++
		a.stats.NewLines++
		return l, l.left(), true
	}
	if l, ok := a.fitNewColumn(width, height); ok {
		a.stats.Placed++
		a.stats.NewColumns++
		return l, l.left(), true
	}
	if l, x, ok := a.evictGlyphs(width, height); ok {
		a.stats.GlyphRuns++
		return l, x, true
	}
	if l, ok := a.evictLines(width, height); ok {
		return l, l.left(), true
	}
	return nil, 0, false
}

func (a *Atlas) fitExisting(width, height int) (*line, int, bool) {
	for _, c := range a.columns {
		if l, x, ok := c.reserveExisting(&a.spots, width, height); ok {
			return l, x, true
		}
	}
	return nil, 0, false
}

func (a *Atlas) fitNewLine(width, height int) (*line, bool) {
	for _, c := range a.columns {
		if l, ok := c.appendLine(width, height); ok {
			return l, true
		}
	}
	return nil, false
}

func (a *Atlas) fitNewColumn(width, height int) (*line, bool) {
	remaining := a.width - a.cursor
	if width+2*Margin > remaining || height+2*Margin > a.height {
		return nil, false
	}
	c := &column{
		x:      a.cursor,
		y:      0,
		width:  min(nextPowerOfTwo(max(minColumnWidth, 4*width)), remaining),
		height: a.height,
	}
	l, ok := c.appendLine(width, height)
	if !ok {
		return nil, false
	}
	a.columns = append(a.columns, c)
	a.cursor += c.width
	return l, true
}

func (a *Atlas) evictGlyphs(width, height int) (*line, int, bool) {
	var best evictionRun
	var owner *line
	for _, c := range a.columns {
		for _, l := range c.lines {
			if !l.accepts(height) {
				continue
			}
			run, ok := l.bestRun(&a.spots, width)
			if ok && (owner == nil || run.better(best)) {
				best, owner = run, l
			}
		}
	}
	if owner == nil {
		return nil, 0, false
	}
	for _, i := range owner.remove(best.start, best.end) {
		a.evict(i)
	}
	return owner, best.pos, true
}

func (a *Atlas) evictLines(width, height int) (*line, bool) {
	var best evictionRun
	var owner *column
	for _, c := range a.columns {
		run, ok := c.bestLineRun(&a.spots, width, height)
		if ok && (owner == nil || run.better(best)) {
			best, owner = run, c
		}
	}
	if owner == nil {
		return nil, false
	}
	l, evicted := owner.replaceLines(best, height)
	for _, i := range evicted {
		a.evict(i)
	}
	a.stats.LineEvictions += uint64(best.end - best.start) //nolint:gosec // positive by construction
	return l, true
}

// evict releases slot i and optionally clears its pixels. The lookup
// entry pointing at the slot goes stale and is purged lazily.
func (a *Atlas) evict(i uint32) {
	s := a.spots.at(i)
	rect := s.rect
	a.log().Debug("glyphatlas: evicted glyph",
		"glyph", s.id.Glyph, "size", s.id.Size, "rect", rect.String())
	a.spots.release(i)
	a.stats.Evictions++

	if !a.clearEvicted {
		return
	}
	if err := a.renderer.UploadRegion(rect, make([]byte, rect.Width*rect.Height)); err != nil {
		a.log().Warn("glyphatlas: failed to clear evicted glyph", "rect", rect.String(), "err", err)
	}
}

// requestResize records the smallest power-of-two size, strictly larger
// than now, that fits the glyph in a new column or below the last line of
// some column.
func (a *Atlas) requestResize(width, height int) {
	current := max(a.width, a.height)
	need := max(a.cursor+width+2*Margin, height+2*Margin)
	for _, c := range a.columns {
		if c.fitsWidth(width) {
			need = min(need, c.nextLineY()+height+Margin)
		}
	}
	size := nextPowerOfTwo(max(need, current+1))
	if size > a.maxSize {
		a.log().Debug("glyphatlas: atlas full at maximum size",
			"size", current, "max", a.maxSize, "width", width, "height", height)
		return
	}
	if size > a.pendingResize {
		a.pendingResize = size
		a.stats.ResizeRequests++
		a.log().Info("glyphatlas: resize requested", "from", current, "to", size)
	}
}

// ResizeIfNeeded applies a pending resize. Call it once per frame before
// the first Reserve; after a reservation in the same frame it returns
// ErrResizeMidFrame and keeps the request for the next frame.
func (a *Atlas) ResizeIfNeeded() error {
	if a.pendingResize == 0 {
		return nil
	}
	if a.reservedThisFrame {
		return ErrResizeMidFrame
	}
	size := a.pendingResize
	if err := a.renderer.ResizeTexture(size, size); err != nil {
		return fmt.Errorf("glyphatlas: resize texture to %dx%d: %w", size, size, err)
	}
	from := a.width
	a.width, a.height = size, size
	for _, c := range a.columns {
		c.extend(size)
	}
	a.pendingResize = 0
	a.stats.Resizes++
	a.log().Info("glyphatlas: resized", "from", from, "to", size)
	return nil
}

// ExpireOneStep ages every spot by one frame and purges lookup entries
// whose spots were evicted. Call it exactly once per frame, after the
// frame's reservations.
func (a *Atlas) ExpireOneStep() {
	for id, h := range a.lookup {
		if _, ok := a.spots.get(h); !ok {
			delete(a.lookup, id)
		}
	}
	for _, c := range a.columns {
		for _, l := range c.lines {
			for _, i := range l.reserved {
				s := a.spots.at(i)
				s.status = s.status.step()
			}
		}
	}
	a.frame++
	a.reservedThisFrame = false
}

// BeginFrame starts a frame. It is ResizeIfNeeded.
func (a *Atlas) BeginFrame() error {
	return a.ResizeIfNeeded()
}

// EndFrame ends a frame. It is ExpireOneStep.
func (a *Atlas) EndFrame() {
	a.ExpireOneStep()
}

// UploadGlyph rasterizes a reserved spot through src, which returns the
// coverage of glyph pixel (x, y), and uploads it with a 1 pixel
// transparent border in a single region write.
//
// Only new reservations need uploading; uploading a cache hit repeats
// work already done.
func (a *Atlas) UploadGlyph(res Reservation, src func(x, y int) byte) error {
	s, ok := a.spots.get(res.Handle)
	if !ok {
		return ErrStaleHandle
	}
	if !res.New {
		a.log().Debug("glyphatlas: redundant upload of cached glyph", "glyph", s.id.Glyph)
	}
	r := s.rect
	bordered := Rect{X: r.X - 1, Y: r.Y - 1, Width: r.Width + 2, Height: r.Height + 2}
	pixels := make([]byte, bordered.Width*bordered.Height)
	for y := 0; y < r.Height; y++ {
		row := pixels[(y+1)*bordered.Width+1:]
		for x := 0; x < r.Width; x++ {
			row[x] = src(x, y)
		}
	}
	if err := a.renderer.UploadRegion(bordered, pixels); err != nil {
		return fmt.Errorf("glyphatlas: upload glyph %s: %w", r, err)
	}
	return nil
}

// Lookup returns the area of the spot h refers to, or false if the spot
// was evicted.
func (a *Atlas) Lookup(h Handle) (Rect, bool) {
	s, ok := a.spots.get(h)
	if !ok {
		return Rect{}, false
	}
	return s.rect, true
}

// Spots returns every live spot, by column, line and x.
func (a *Atlas) Spots() []SpotInfo {
	out := make([]SpotInfo, 0, a.spots.live)
	for _, c := range a.columns {
		for _, l := range c.lines {
			for _, i := range l.reserved {
				s := a.spots.at(i)
				out = append(out, SpotInfo{ID: s.id, Rect: s.rect, Status: s.status, Handle: a.spots.handle(i)})
			}
		}
	}
	return out
}

// Reset evicts everything, forgets all columns and drops a pending
// resize, keeping the current size, frame counter and stats. Texture
// contents are not cleared.
func (a *Atlas) Reset() {
	a.spots.reset()
	a.columns = nil
	a.cursor = 0
	clear(a.lookup)
	a.pendingResize = 0
	a.reservedThisFrame = false
}

// Len returns the number of live spots.
func (a *Atlas) Len() int {
	return a.spots.live
}

// Size returns the current atlas dimensions.
func (a *Atlas) Size() (width, height int) {
	return a.width, a.height
}

// MaxSize returns the largest size the atlas may grow to.
func (a *Atlas) MaxSize() int {
	return a.maxSize
}

// PendingResize returns the size the next ResizeIfNeeded grows to,
// or 0 if none is pending.
func (a *Atlas) PendingResize() int {
	return a.pendingResize
}

// Frame returns the number of completed frames.
func (a *Atlas) Frame() uint64 {
	return a.frame
}

// Stats returns a copy of the allocator counters.
func (a *Atlas) Stats() Stats {
	return a.stats
}

// ResetStats zeroes the allocator counters.
func (a *Atlas) ResetStats() {
	a.stats = Stats{}
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// nextPowerOfTwo returns the smallest power of two >= n, for n >= 1.
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1)) //nolint:gosec // n > 1
}
