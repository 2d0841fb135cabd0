//go:build !nogpu

package gpu

import "errors"

// Sentinel errors for the gpu package.
var (
	// ErrNoDevice is returned when NewTexture gets a nil device or queue.
	ErrNoDevice = errors.New("gpu: device or queue is nil")

	// ErrInvalidDimensions is returned for sizes that are non-positive,
	// above the device limit or smaller than the current texture.
	ErrInvalidDimensions = errors.New("gpu: invalid texture dimensions")

	// ErrTextureReleased is returned when operating on a released texture.
	ErrTextureReleased = errors.New("gpu: texture has been released")

	// ErrPixelCount is returned when an upload's data does not match its
	// rectangle.
	ErrPixelCount = errors.New("gpu: pixel count does not match region")

	// ErrOutOfBounds is returned for uploads outside the texture.
	ErrOutOfBounds = errors.New("gpu: region outside texture")
)
