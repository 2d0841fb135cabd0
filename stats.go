package glyphatlas

// Stats holds allocator counters. They only grow, except through
// (*Atlas).ResetStats.
type Stats struct {
	Hits   uint64 // reservations answered from the cache
	Misses uint64 // reservations that needed a new spot

	Placed     uint64 // spots placed without evicting anything
	NewLines   uint64 // lines created in free column space
	NewColumns uint64 // columns created

	Evictions     uint64 // spots evicted, by either strategy
	GlyphRuns     uint64 // reservations satisfied by evicting glyph runs
	LineEvictions uint64 // lines evicted as whole runs

	ResizeRequests uint64 // times a larger pending size was recorded
	Resizes        uint64 // resizes applied by ResizeIfNeeded
	Failures       uint64 // reservations that returned ErrAtlasFull
}

// HitRate returns the cache hit rate as a percentage.
// Returns 0 if there are no accesses.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}
