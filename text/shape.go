package text

import (
	"sync"

	"github.com/go-text/typesetting/di"
	gtfont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Glyph positioning comes out of shaping in pixels relative to the pen
// start, baseline at y 0 with y growing downward to match the label
// pixel space.
type shapedGlyph struct {
	gid  gtfont.GID
	x, y float64
}

// shaperPool reuses HarfbuzzShaper instances; they carry internal
// buffers and are not safe for concurrent use.
var shaperPool = sync.Pool{
	New: func() any { return &shaping.HarfbuzzShaper{} },
}

const hinting = font.HintingFull

func fixedFromFloat(v float64) fixed.Int26_6 { return fixed.Int26_6(v * 64) }
func fixedToFloat(v fixed.Int26_6) float64   { return float64(v) / 64 }

// shape runs one left-to-right run through HarfBuzz and returns the
// positioned glyphs and the total advance in pixels.
func (s *Source) shape(str string, size float64) ([]shapedGlyph, float64) {
	if str == "" {
		return nil, 0
	}
	runes := []rune(str)

	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      gtfont.NewFace(s.shaped),
		Size:      fixedFromFloat(size),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}

	shaper := shaperPool.Get().(*shaping.HarfbuzzShaper)
	out := shaper.Shape(input)
	shaperPool.Put(shaper)

	glyphs := make([]shapedGlyph, 0, len(out.Glyphs))
	var x float64
	for _, g := range out.Glyphs {
		glyphs = append(glyphs, shapedGlyph{
			gid: g.GlyphID,
			x:   x + fixedToFloat(g.XOffset),
			y:   -fixedToFloat(g.YOffset),
		})
		x += fixedToFloat(g.XAdvance)
	}
	return glyphs, x
}

// detectScript returns the script of the first non-space rune, which is
// enough for single-run labels.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		switch r {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

// Advance returns the width of str in pixels at the given size.
func (s *Source) Advance(str string, size float64) float64 {
	_, adv := s.shape(str, size)
	return adv
}
