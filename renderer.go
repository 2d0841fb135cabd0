package glyphatlas

// Renderer owns the backing texture of an Atlas.
//
// The texture is a single-channel (alpha/R8) image. Implementations live in
// the texture package (CPU image) and the gpu package (wgpu texture).
type Renderer interface {
	// MaxTextureSize reports the largest texture dimension the platform
	// supports. The Atlas reads it once, in New.
	MaxTextureSize() int

	// UploadRegion writes pixels into r. Pixels are row-major, one byte
	// per pixel, len(pixels) == r.Width*r.Height.
	UploadRegion(r Rect, pixels []byte) error

	// ResizeTexture grows the texture to width x height, preserving the
	// existing contents at the origin corner.
	ResizeTexture(width, height int) error
}
