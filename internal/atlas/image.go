package atlas

import (
	"sync"
)

// Format is the pixel format of an atlas image.
type Format int

const (
	// FormatAlpha is single-channel coverage, one byte per pixel. Used
	// by the font atlas.
	FormatAlpha Format = iota
	// FormatRGBA is four bytes per pixel. Used by the UI texture atlas.
	FormatRGBA
)

// BytesPerPixel returns the pixel stride of the format.
func (f Format) BytesPerPixel() int {
	if f == FormatRGBA {
		return 4
	}
	return 1
}

// Image is a CPU-side atlas: a pixel buffer paired with a shelf
// allocator and a dirty rectangle. Producers (glyph rasterization, image
// decoding) allocate regions and write pixels before a frame's draw
// calls are issued; the backend then uploads the dirty area to the GPU
// texture and clears the flag. The renderer itself never mutates an
// atlas.
//
// Image is safe for concurrent use.
type Image struct {
	mu sync.Mutex

	format Format
	width  int
	height int
	pixels []byte

	alloc *Allocator

	dirty     bool
	dirtyRect Region
}

// NewImage creates an atlas image of the given size and format.
// Dimensions below MinSize are raised to MinSize.
func NewImage(width, height int, format Format) *Image {
	if width < MinSize {
		width = MinSize
	}
	if height < MinSize {
		height = MinSize
	}
	return &Image{
		format: format,
		width:  width,
		height: height,
		pixels: make([]byte, width*height*format.BytesPerPixel()),
		alloc:  NewAllocator(width, height, DefaultPadding),
	}
}

// Width returns the atlas width in pixels.
func (img *Image) Width() int { return img.width }

// Height returns the atlas height in pixels.
func (img *Image) Height() int { return img.height }

// Format returns the atlas pixel format.
func (img *Image) Format() Format { return img.format }

// Allocate reserves a region. It returns ErrFull when no space remains.
func (img *Image) Allocate(width, height int) (Region, error) {
	r := img.alloc.Allocate(width, height)
	if !r.IsValid() {
		return Region{}, ErrFull
	}
	return r, nil
}

// Upload copies pixel data into a previously allocated region. The data
// length must be exactly region area times the format's pixel stride.
func (img *Image) Upload(r Region, data []byte) error {
	img.mu.Lock()
	defer img.mu.Unlock()

	if r.X < 0 || r.Y < 0 || r.X+r.Width > img.width || r.Y+r.Height > img.height {
		return ErrOutOfBounds
	}
	bpp := img.format.BytesPerPixel()
	if len(data) != r.Width*r.Height*bpp {
		return ErrSizeMismatch
	}

	rowLen := r.Width * bpp
	for row := 0; row < r.Height; row++ {
		dst := ((r.Y+row)*img.width + r.X) * bpp
		src := row * rowLen
		copy(img.pixels[dst:dst+rowLen], data[src:src+rowLen])
	}

	img.markDirty(r)
	return nil
}

// markDirty grows the dirty rectangle to cover r. Caller holds mu.
func (img *Image) markDirty(r Region) {
	if !img.dirty {
		img.dirty = true
		img.dirtyRect = r
		return
	}
	d := img.dirtyRect
	minX := min(d.X, r.X)
	minY := min(d.Y, r.Y)
	maxX := max(d.X+d.Width, r.X+r.Width)
	maxY := max(d.Y+d.Height, r.Y+r.Height)
	img.dirtyRect = Region{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Pixels returns the backing pixel buffer. The buffer is live; callers
// must only read it between Upload calls.
func (img *Image) Pixels() []byte {
	img.mu.Lock()
	defer img.mu.Unlock()
	return img.pixels
}

// TakeDirty returns the pending dirty rectangle and clears it. The
// second result is false when nothing changed since the last call.
func (img *Image) TakeDirty() (Region, bool) {
	img.mu.Lock()
	defer img.mu.Unlock()
	if !img.dirty {
		return Region{}, false
	}
	r := img.dirtyRect
	img.dirty = false
	img.dirtyRect = Region{}
	return r, true
}

// UV returns the normalized texture coordinates of a region's corners:
// u0, v0 at the region's top-left and u1, v1 at the bottom-right.
func (img *Image) UV(r Region) (u0, v0, u1, v1 float32) {
	w := float32(img.width)
	h := float32(img.height)
	return float32(r.X) / w, float32(r.Y) / h,
		float32(r.X+r.Width) / w, float32(r.Y+r.Height) / h
}

// Reset discards all allocations and zeroes the pixel buffer.
func (img *Image) Reset() {
	img.mu.Lock()
	defer img.mu.Unlock()
	img.alloc.Reset()
	clear(img.pixels)
	img.dirty = true
	img.dirtyRect = Region{X: 0, Y: 0, Width: img.width, Height: img.height}
}
