// Package atlas provides the shelf-packed rectangle allocator and the
// CPU-side pixel stores behind the font and image atlases. The renderer
// borrows finished atlas textures per draw call; all mutation happens
// here, before a frame's draws are issued.
package atlas

import (
	"errors"
	"fmt"
	"sync"
)

// Allocation errors.
var (
	// ErrFull is returned when the atlas cannot fit the requested region.
	ErrFull = errors.New("atlas: full")

	// ErrOutOfBounds is returned when an upload region lies outside the
	// atlas bounds.
	ErrOutOfBounds = errors.New("atlas: region out of bounds")

	// ErrSizeMismatch is returned when upload data does not match the
	// region dimensions.
	ErrSizeMismatch = errors.New("atlas: data size mismatch")
)

const (
	// DefaultSize is the default atlas dimension.
	DefaultSize = 1024

	// MinSize is the smallest supported atlas dimension.
	MinSize = 64

	// DefaultPadding is the spacing between packed regions, in pixels.
	// One pixel of padding keeps linear sampling from bleeding between
	// neighboring glyphs.
	DefaultPadding = 1
)

// Region is a rectangular area inside an atlas.
type Region struct {
	X, Y          int
	Width, Height int
}

// IsValid reports whether the region has positive dimensions.
func (r Region) IsValid() bool {
	return r.Width > 0 && r.Height > 0
}

// String returns a compact description for logs and errors.
func (r Region) String() string {
	return fmt.Sprintf("region(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}

// shelf is one horizontal band of the packing area.
type shelf struct {
	y      int // top edge
	height int // tallest item placed so far, plus padding
	nextX  int // next free x position
}

// Allocator packs rectangles into a fixed area using the shelf
// algorithm: each rectangle goes onto the first shelf with room, or onto
// a fresh shelf below the last one. Freeing individual regions is not
// supported; Reset reclaims everything at once, which matches how glyph
// caches are rebuilt.
//
// Allocator is safe for concurrent use.
type Allocator struct {
	mu sync.Mutex

	width   int
	height  int
	padding int

	shelves []*shelf

	allocs   int
	usedArea int
}

// NewAllocator creates an allocator for a width x height area.
func NewAllocator(width, height, padding int) *Allocator {
	if width < MinSize {
		width = MinSize
	}
	if height < MinSize {
		height = MinSize
	}
	if padding < 0 {
		padding = 0
	}
	return &Allocator{
		width:   width,
		height:  height,
		padding: padding,
		shelves: make([]*shelf, 0, 16),
	}
}

// Allocate finds space for a width x height rectangle. It returns an
// invalid region if the rectangle cannot be placed.
func (a *Allocator) Allocate(width, height int) Region {
	a.mu.Lock()
	defer a.mu.Unlock()

	if width <= 0 || height <= 0 {
		return Region{}
	}

	pw := width + a.padding
	ph := height + a.padding
	if pw > a.width || ph > a.height {
		return Region{}
	}

	for _, s := range a.shelves {
		if a.fits(s, pw, ph) {
			return a.place(s, width, height, pw)
		}
	}
	return a.newShelf(width, height, pw, ph)
}

func (a *Allocator) fits(s *shelf, pw, ph int) bool {
	if s.nextX+pw > a.width {
		return false
	}
	// A shelf can only grow taller while it is still empty.
	if ph > s.height && s.nextX > 0 {
		return false
	}
	return true
}

func (a *Allocator) place(s *shelf, width, height, pw int) Region {
	r := Region{X: s.nextX, Y: s.y, Width: width, Height: height}
	s.nextX += pw
	if height+a.padding > s.height {
		s.height = height + a.padding
	}
	a.allocs++
	a.usedArea += width * height
	return r
}

func (a *Allocator) newShelf(width, height, pw, ph int) Region {
	y := 0
	if n := len(a.shelves); n > 0 {
		last := a.shelves[n-1]
		y = last.y + last.height
	}
	if y+ph > a.height {
		return Region{}
	}

	a.shelves = append(a.shelves, &shelf{y: y, height: ph, nextX: pw})
	a.allocs++
	a.usedArea += width * height
	return Region{X: 0, Y: y, Width: width, Height: height}
}

// Reset discards all allocations, making the whole area available again.
func (a *Allocator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.shelves = a.shelves[:0]
	a.allocs = 0
	a.usedArea = 0
}

// AllocCount returns the number of successful allocations.
func (a *Allocator) AllocCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.allocs
}

// Utilization returns the used fraction of the packing area, 0 to 1.
func (a *Allocator) Utilization() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	total := a.width * a.height
	if total == 0 {
		return 0
	}
	return float64(a.usedArea) / float64(total)
}
