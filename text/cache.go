package text

import (
	"sync"

	"github.com/gogpu/starmap/internal/atlas"
	"golang.org/x/image/font/sfnt"
)

// cacheKey identifies one rasterized glyph: index plus the size in
// quarter-pixel steps, so nearby fractional sizes share an entry.
type cacheKey struct {
	gid  sfnt.GlyphIndex
	size int32
}

// cacheEntry is a glyph's slot in the atlas. ok false marks a glyph
// that could not be rasterized or packed; the drawer skips those
// quads instead of failing the frame. empty marks valid whitespace
// glyphs with no pixels.
type cacheEntry struct {
	region  atlas.Region
	offsetX int
	offsetY int
	empty   bool
	ok      bool
}

// Cache rasterizes glyphs on demand into a shared alpha atlas and
// remembers where each one landed. Entries are permanent for the life
// of the atlas; Reset drops everything when the atlas is rebuilt.
//
// Cache is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	src     *Source
	img     *atlas.Image
	entries map[cacheKey]cacheEntry
	full    bool
}

// NewCache creates a glyph cache backed by img, which must be an alpha
// atlas.
func NewCache(src *Source, img *atlas.Image) *Cache {
	return &Cache{
		src:     src,
		img:     img,
		entries: make(map[cacheKey]cacheEntry),
	}
}

// Atlas returns the backing atlas image.
func (c *Cache) Atlas() *atlas.Image { return c.img }

// glyph returns the cache entry for gid at size, rasterizing and
// packing it on first use.
func (c *Cache) glyph(gid sfnt.GlyphIndex, size float64) cacheEntry {
	key := cacheKey{gid: gid, size: int32(size * 4)}

	c.mu.Lock()
	defer c.mu.Unlock()
	if e, hit := c.entries[key]; hit {
		return e
	}

	e := c.insert(gid, size)
	c.entries[key] = e
	return e
}

func (c *Cache) insert(gid sfnt.GlyphIndex, size float64) cacheEntry {
	m, ok := c.src.rasterize(gid, size)
	if !ok {
		return cacheEntry{}
	}
	if m.Mask == nil {
		return cacheEntry{empty: true, ok: true}
	}

	b := m.Mask.Bounds()
	region, err := c.img.Allocate(b.Dx(), b.Dy())
	if err != nil {
		// A full atlas degrades to invisible glyphs rather than a
		// failed frame. Warn once, not per glyph.
		if !c.full {
			c.full = true
			logger().Warn("font atlas full, dropping new glyphs",
				"width", c.img.Width(), "height", c.img.Height())
		}
		return cacheEntry{}
	}
	if err := c.img.Upload(region, m.Mask.Pix); err != nil {
		return cacheEntry{}
	}

	return cacheEntry{
		region:  region,
		offsetX: m.OffsetX,
		offsetY: m.OffsetY,
		ok:      true,
	}
}

// Reset forgets all entries and clears the atlas.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey]cacheEntry)
	c.full = false
	c.img.Reset()
}
