//go:build !nogpu

// Package gpu provides a wgpu backing texture for glyphatlas.
//
// Texture owns an R8Unorm hal texture and a CPU shadow of its contents.
// Uploads go to both; a resize creates a larger texture and re-uploads the
// shadow, since hal textures cannot grow in place.
//
//	tex, err := gpu.NewTexture(device, queue, limits, 512)
//	atlas, err := glyphatlas.New(tex, glyphatlas.WithConfig(glyphatlas.Config{Size: 512}))
//	// bind tex.View() in the text pipeline
package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/glyphatlas"
)

// textureUsage allows sampling and queue writes.
const textureUsage = gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst | gputypes.TextureUsageCopySrc

// Texture is a single-channel GPU texture implementing glyphatlas.Renderer.
//
// Texture is not safe for concurrent use.
type Texture struct {
	device hal.Device
	queue  hal.Queue

	maxSize int

	tex  hal.Texture
	view hal.TextureView

	width, height int

	// shadow mirrors the texture, row-major, one byte per pixel.
	shadow []byte

	released bool
}

// NewTexture creates a size x size transparent texture on device. The
// maximum size is taken from limits.MaxTextureDimension2D.
func NewTexture(device hal.Device, queue hal.Queue, limits gputypes.Limits, size int) (*Texture, error) {
	if device == nil || queue == nil {
		return nil, ErrNoDevice
	}
	maxSize := int(limits.MaxTextureDimension2D)
	if size <= 0 || size > maxSize {
		return nil, fmt.Errorf("%w: %d (max %d)", ErrInvalidDimensions, size, maxSize)
	}
	t := &Texture{
		device:  device,
		queue:   queue,
		maxSize: maxSize,
	}
	if err := t.create(size, size); err != nil {
		return nil, err
	}
	t.shadow = make([]byte, size*size)
	t.writeAll()
	return t, nil
}

// create replaces the texture and view with new ones of the given size.
// The old resources are destroyed only after the new ones exist.
func (t *Texture) create(width, height int) error {
	tex, err := t.device.CreateTexture(&hal.TextureDescriptor{
		Label:         fmt.Sprintf("glyph_atlas_%dx%d", width, height),
		Size:          hal.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1}, //nolint:gosec // bounded by MaxTextureDimension2D
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatR8Unorm,
		Usage:         textureUsage,
	})
	if err != nil {
		return fmt.Errorf("gpu: create atlas texture: %w", err)
	}
	view, err := t.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "glyph_atlas_view",
		Format:        gputypes.TextureFormatR8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		t.device.DestroyTexture(tex)
		return fmt.Errorf("gpu: create atlas texture view: %w", err)
	}
	t.destroy()
	t.tex, t.view = tex, view
	t.width, t.height = width, height
	return nil
}

func (t *Texture) destroy() {
	if t.view != nil {
		t.device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.tex != nil {
		t.device.DestroyTexture(t.tex)
		t.tex = nil
	}
}

// write uploads pixels into r of the hal texture.
func (t *Texture) write(r glyphatlas.Rect, pixels []byte) {
	t.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  t.tex,
			MipLevel: 0,
			Origin:   hal.Origin3D{X: uint32(r.X), Y: uint32(r.Y), Z: 0}, //nolint:gosec // checked against texture bounds
		},
		pixels,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(r.Width),  //nolint:gosec // checked against texture bounds
			RowsPerImage: uint32(r.Height), //nolint:gosec // checked against texture bounds
		},
		&hal.Extent3D{Width: uint32(r.Width), Height: uint32(r.Height), DepthOrArrayLayers: 1}, //nolint:gosec // checked against texture bounds
	)
}

func (t *Texture) writeAll() {
	t.write(glyphatlas.Rect{Width: t.width, Height: t.height}, t.shadow)
}

// MaxTextureSize implements glyphatlas.Renderer.
func (t *Texture) MaxTextureSize() int {
	return t.maxSize
}

// UploadRegion implements glyphatlas.Renderer.
func (t *Texture) UploadRegion(r glyphatlas.Rect, pixels []byte) error {
	if t.released {
		return ErrTextureReleased
	}
	if len(pixels) != r.Width*r.Height {
		return fmt.Errorf("%w: %d bytes for %s", ErrPixelCount, len(pixels), r)
	}
	if r.X < 0 || r.Y < 0 || r.Width <= 0 || r.Height <= 0 || r.X+r.Width > t.width || r.Y+r.Height > t.height {
		return fmt.Errorf("%w: %s in %dx%d", ErrOutOfBounds, r, t.width, t.height)
	}
	for y := 0; y < r.Height; y++ {
		off := (r.Y+y)*t.width + r.X
		copy(t.shadow[off:off+r.Width], pixels[y*r.Width:(y+1)*r.Width])
	}
	t.write(r, pixels)
	return nil
}

// ResizeTexture implements glyphatlas.Renderer. The texture and its view
// are replaced; callers holding View must fetch it again.
func (t *Texture) ResizeTexture(width, height int) error {
	if t.released {
		return ErrTextureReleased
	}
	if width > t.maxSize || height > t.maxSize || width < t.width || height < t.height {
		return fmt.Errorf("%w: %dx%d from %dx%d (max %d)",
			ErrInvalidDimensions, width, height, t.width, t.height, t.maxSize)
	}
	oldWidth, oldHeight := t.width, t.height
	if err := t.create(width, height); err != nil {
		return err
	}
	shadow := make([]byte, width*height)
	for y := 0; y < oldHeight; y++ {
		copy(shadow[y*width:], t.shadow[y*oldWidth:(y+1)*oldWidth])
	}
	t.shadow = shadow
	t.writeAll()
	glyphatlas.Logger().Info("gpu: atlas texture resized",
		"from", fmt.Sprintf("%dx%d", oldWidth, oldHeight),
		"to", fmt.Sprintf("%dx%d", width, height))
	return nil
}

// View returns the texture view for binding in a render pipeline.
func (t *Texture) View() hal.TextureView {
	return t.view
}

// Size returns the current texture dimensions.
func (t *Texture) Size() (width, height int) {
	return t.width, t.height
}

// Pixels returns the CPU copy of the texture contents, row-major.
// The slice is owned by the texture and replaced on resize.
func (t *Texture) Pixels() []byte {
	return t.shadow
}

// Release destroys the GPU resources. Further uploads fail with
// ErrTextureReleased.
func (t *Texture) Release() {
	if t.released {
		return
	}
	t.destroy()
	t.shadow = nil
	t.released = true
}
