package texture

import "errors"

// Sentinel errors for the texture package.
var (
	// ErrPixelCount is returned when an upload's data does not match its
	// rectangle.
	ErrPixelCount = errors.New("texture: pixel count does not match region")

	// ErrOutOfBounds is returned for uploads outside the texture.
	ErrOutOfBounds = errors.New("texture: region outside texture")

	// ErrTooLarge is returned when a resize exceeds the maximum size.
	ErrTooLarge = errors.New("texture: size exceeds maximum")

	// ErrShrink is returned when a resize would drop existing pixels.
	ErrShrink = errors.New("texture: cannot shrink texture")
)
