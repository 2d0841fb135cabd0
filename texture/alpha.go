// Package texture provides a CPU backing texture for glyphatlas.
//
// Alpha keeps the atlas in an *image.Alpha. It is the renderer used by the
// atlasdemo command and by tests, and doubles as a debug view of the cache:
// SavePNG writes the current atlas contents to disk.
//
//	tex := texture.New(256, 4096)
//	atlas, err := glyphatlas.New(tex)
package texture

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/glyphatlas"
)

// DefaultMaxSize is the texture size limit used when New is given zero.
const DefaultMaxSize = 4096

// Alpha is a single-channel CPU texture implementing glyphatlas.Renderer.
//
// Alpha is not safe for concurrent use.
type Alpha struct {
	img     *image.Alpha
	maxSize int

	uploads int
	resizes int
}

// New creates a size x size transparent texture that may grow to maxSize.
// A maxSize of zero means DefaultMaxSize.
func New(size, maxSize int) *Alpha {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Alpha{
		img:     image.NewAlpha(image.Rect(0, 0, size, size)),
		maxSize: maxSize,
	}
}

// MaxTextureSize implements glyphatlas.Renderer.
func (t *Alpha) MaxTextureSize() int {
	return t.maxSize
}

// UploadRegion implements glyphatlas.Renderer.
func (t *Alpha) UploadRegion(r glyphatlas.Rect, pixels []byte) error {
	if len(pixels) != r.Width*r.Height {
		return fmt.Errorf("%w: %d bytes for %s", ErrPixelCount, len(pixels), r)
	}
	dst := image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
	if !dst.In(t.img.Rect) {
		return fmt.Errorf("%w: %s in %v", ErrOutOfBounds, r, t.img.Rect.Size())
	}
	for y := 0; y < r.Height; y++ {
		off := t.img.PixOffset(r.X, r.Y+y)
		copy(t.img.Pix[off:off+r.Width], pixels[y*r.Width:(y+1)*r.Width])
	}
	t.uploads++
	return nil
}

// ResizeTexture implements glyphatlas.Renderer. The old contents are kept
// at the origin; the new area is transparent.
func (t *Alpha) ResizeTexture(width, height int) error {
	if width > t.maxSize || height > t.maxSize {
		return fmt.Errorf("%w: %dx%d exceeds %d", ErrTooLarge, width, height, t.maxSize)
	}
	old := t.img
	if width < old.Rect.Dx() || height < old.Rect.Dy() {
		return fmt.Errorf("%w: %dx%d is smaller than %v", ErrShrink, width, height, old.Rect.Size())
	}
	img := image.NewAlpha(image.Rect(0, 0, width, height))
	xdraw.Draw(img, old.Rect, old, image.Point{}, xdraw.Src)
	t.img = img
	t.resizes++
	glyphatlas.Logger().Debug("texture: resized", "width", width, "height", height)
	return nil
}

// Image returns the backing image. It is replaced on resize, so do not
// keep it across frames.
func (t *Alpha) Image() *image.Alpha {
	return t.img
}

// Size returns the current texture dimensions.
func (t *Alpha) Size() (width, height int) {
	return t.img.Rect.Dx(), t.img.Rect.Dy()
}

// Uploads returns the number of region writes so far.
func (t *Alpha) Uploads() int {
	return t.uploads
}

// Resizes returns the number of texture resizes so far.
func (t *Alpha) Resizes() int {
	return t.resizes
}

// WritePNG encodes the texture as a grayscale-alpha PNG.
func (t *Alpha) WritePNG(w io.Writer) error {
	return png.Encode(w, t.img)
}

// SavePNG writes the texture to the file at path.
func (t *Alpha) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	return t.WritePNG(f)
}
