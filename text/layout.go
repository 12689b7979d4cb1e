package text

import (
	"github.com/gogpu/starmap/backend"
	"github.com/gogpu/starmap/internal/shade"
	"github.com/gogpu/starmap/internal/xform"
	"golang.org/x/image/font/sfnt"
)

// Anchor selects how a label hangs off its position.
type Anchor int

const (
	// AnchorTopLeft places the position at the label's top-left corner.
	AnchorTopLeft Anchor = iota
	// AnchorCenter centers the label on the position.
	AnchorCenter
)

// shadowOffset is the pixel displacement of the drop shadow pass.
var shadowOffset = xform.V2(1, 1)

// Drawer lays out labels and appends their glyph quads as packed
// TextVertex records. Positions are in window pixels; the backends'
// text pass maps them to clip space.
//
// Drawer is safe for concurrent use; the cache does its own locking.
type Drawer struct {
	src   *Source
	cache *Cache
}

// NewDrawer creates a drawer rendering src through the given glyph
// cache.
func NewDrawer(src *Source, cache *Cache) *Drawer {
	return &Drawer{src: src, cache: cache}
}

// Cache returns the drawer's glyph cache.
func (d *Drawer) Cache() *Cache { return d.cache }

// Measure returns the pixel width and line height of str at size.
func (d *Drawer) Measure(str string, size float64) (w, h float32) {
	m := d.src.Metrics(size)
	return float32(d.src.Advance(str, size)), float32(m.Ascent + m.Descent)
}

// Append lays out one label and appends its quads to buf, returning
// the extended buffer and the number of quads added. Glyphs that miss
// the atlas are skipped; a label never fails a frame.
func (d *Drawer) Append(buf []byte, str string, pos xform.Vec2, size float64, color shade.RGBA, anchor Anchor) ([]byte, int) {
	glyphs, advance := d.src.shape(str, size)
	if len(glyphs) == 0 {
		return buf, 0
	}

	m := d.src.Metrics(size)
	// The pen starts on the baseline; anchors are expressed against
	// the label's bounding box.
	pen := pos
	switch anchor {
	case AnchorCenter:
		pen.X -= float32(advance) / 2
		pen.Y += float32(m.Ascent-m.Descent) / 2
	default:
		pen.Y += float32(m.Ascent)
	}

	quads := 0
	for _, g := range glyphs {
		e := d.cache.glyph(sfnt.GlyphIndex(g.gid), size)
		if !e.ok || e.empty {
			continue
		}

		x0 := pen.X + float32(g.x) + float32(e.offsetX)
		y0 := pen.Y + float32(g.y) + float32(e.offsetY)
		x1 := x0 + float32(e.region.Width)
		y1 := y0 + float32(e.region.Height)
		u0, v0, u1, v1 := d.cache.img.UV(e.region)

		buf = backend.AppendTextVertex(buf, backend.TextVertex{Position: xform.V2(x0, y0), UV: xform.V2(u0, v0), Color: color})
		buf = backend.AppendTextVertex(buf, backend.TextVertex{Position: xform.V2(x1, y0), UV: xform.V2(u1, v0), Color: color})
		buf = backend.AppendTextVertex(buf, backend.TextVertex{Position: xform.V2(x0, y1), UV: xform.V2(u0, v1), Color: color})
		buf = backend.AppendTextVertex(buf, backend.TextVertex{Position: xform.V2(x1, y1), UV: xform.V2(u1, v1), Color: color})
		quads++
	}
	return buf, quads
}

// AppendShadowed appends a label twice: a dark offset copy first, then
// the label itself, so text stays readable over bright map regions.
func (d *Drawer) AppendShadowed(buf []byte, str string, pos xform.Vec2, size float64, color shade.RGBA, anchor Anchor) ([]byte, int) {
	shadow := shade.RGBA{A: color.A * 0.8}
	buf, n1 := d.Append(buf, str, pos.Add(shadowOffset), size, shadow, anchor)
	buf, n2 := d.Append(buf, str, pos, size, color, anchor)
	return buf, n1 + n2
}
