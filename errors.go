package glyphatlas

import "errors"

// Sentinel errors for the glyphatlas package.
var (
	// ErrAtlasFull is returned by Reserve when the glyph cannot be placed
	// this frame. It is expected and recoverable: skip the glyph and retry
	// next frame, after ResizeIfNeeded has applied any pending growth.
	ErrAtlasFull = errors.New("glyphatlas: atlas is full")

	// ErrInvalidSize is returned for zero or negative glyph dimensions, or
	// dimensions that could not fit even a maximum-size atlas.
	ErrInvalidSize = errors.New("glyphatlas: invalid glyph size")

	// ErrStaleHandle is returned when a handle refers to an evicted spot.
	ErrStaleHandle = errors.New("glyphatlas: spot handle is stale")

	// ErrResizeMidFrame is returned by ResizeIfNeeded when reservations were
	// already issued this frame against the current size.
	ErrResizeMidFrame = errors.New("glyphatlas: resize after reservations in the same frame")

	// ErrNilRenderer is returned by New when no renderer is given.
	ErrNilRenderer = errors.New("glyphatlas: renderer is nil")
)

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "glyphatlas: invalid config." + e.Field + ": " + e.Reason
}
