package text

import (
	"image"
	"image/draw"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/vector"
)

// glyphMask is one scan-converted glyph: an alpha mask plus the offset
// of its top-left corner from the pen position on the baseline. Offsets
// follow pixel space, y down, so OffsetY is negative for glyphs that
// rise above the baseline.
type glyphMask struct {
	Mask    *image.Alpha
	OffsetX int
	OffsetY int
}

// rasterize loads the outline for gid at the given size and scan
// converts it. A nil mask with ok true means a valid empty glyph
// (space); ok false means the font has no usable outline for gid.
func (s *Source) rasterize(gid sfnt.GlyphIndex, size float64) (glyphMask, bool) {
	var buf sfnt.Buffer
	ppem := fixedFromFloat(size)

	segments, err := s.sfnt.LoadGlyph(&buf, gid, ppem, nil)
	if err != nil {
		return glyphMask{}, false
	}
	if len(segments) == 0 {
		return glyphMask{}, true
	}

	bounds, _, err := s.sfnt.GlyphBounds(&buf, gid, ppem, hinting)
	if err != nil {
		return glyphMask{}, false
	}
	minX := bounds.Min.X.Floor()
	minY := bounds.Min.Y.Floor()
	maxX := bounds.Max.X.Ceil()
	maxY := bounds.Max.Y.Ceil()
	w, h := maxX-minX, maxY-minY
	if w <= 0 || h <= 0 {
		return glyphMask{}, true
	}

	// Outline coordinates are 26.6 fixed point with y down; shift by
	// the bounds minimum so the rasterizer sees the glyph at origin.
	r := vector.NewRasterizer(w, h)
	r.DrawOp = draw.Src
	dx := float32(-minX)
	dy := float32(-minY)
	for _, seg := range segments {
		p := [3][2]float32{}
		for i, arg := range seg.Args {
			p[i][0] = float32(fixedToFloat(arg.X)) + dx
			p[i][1] = float32(fixedToFloat(arg.Y)) + dy
		}
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			r.MoveTo(p[0][0], p[0][1])
		case sfnt.SegmentOpLineTo:
			r.LineTo(p[0][0], p[0][1])
		case sfnt.SegmentOpQuadTo:
			r.QuadTo(p[0][0], p[0][1], p[1][0], p[1][1])
		case sfnt.SegmentOpCubeTo:
			r.CubeTo(p[0][0], p[0][1], p[1][0], p[1][1], p[2][0], p[2][1])
		}
	}
	r.ClosePath()

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	r.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	return glyphMask{Mask: mask, OffsetX: minX, OffsetY: minY}, true
}

// glyphIndex maps a rune to its glyph index, 0 when absent.
func (s *Source) glyphIndex(r rune) sfnt.GlyphIndex {
	var buf sfnt.Buffer
	gid, err := s.sfnt.GlyphIndex(&buf, r)
	if err != nil {
		return 0
	}
	return gid
}
