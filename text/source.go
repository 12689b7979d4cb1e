// Package text turns strings into glyph quads for the map's text pass.
//
// A Source wraps one parsed font. Shaping goes through
// go-text/typesetting's HarfBuzz port so labels get kerning for free;
// rasterization loads glyph outlines from the sfnt tables and scan
// converts them with x/image/vector into alpha masks, which a Cache
// packs into the shared font atlas. The Drawer ties the two together
// and emits packed TextVertex records.
package text

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	gtfont "github.com/go-text/typesetting/font"
	"golang.org/x/image/font/sfnt"
)

var (
	// ErrEmptyFontData is returned for a zero-length font file.
	ErrEmptyFontData = errors.New("text: empty font data")
)

// Source is one loaded font. It is heavyweight and meant to be shared;
// a copy of the input data is kept so both parsers stay valid. Source
// is safe for concurrent use: the sfnt buffers are per-call and the
// go-text Font is read-only after parsing.
type Source struct {
	sfnt   *sfnt.Font
	shaped *gtfont.Font
	name   string
}

// NewSource parses TTF or OTF font data. The data slice is copied and
// can be reused after the call.
func NewSource(data []byte) (*Source, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)

	parsed, err := sfnt.Parse(dataCopy)
	if err != nil {
		return nil, fmt.Errorf("text: parse font: %w", err)
	}
	shapedFace, err := gtfont.ParseTTF(bytes.NewReader(dataCopy))
	if err != nil {
		return nil, fmt.Errorf("text: parse font for shaping: %w", err)
	}

	s := &Source{
		sfnt:   parsed,
		shaped: shapedFace.Font,
	}
	var buf sfnt.Buffer
	if name, err := parsed.Name(&buf, sfnt.NameIDFamily); err == nil {
		s.name = name
	}
	return s, nil
}

// NewSourceFromFile loads and parses a font file.
func NewSourceFromFile(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("text: read font file: %w", err)
	}
	return NewSource(data)
}

// Name returns the font family name, or an empty string if the font
// does not carry one.
func (s *Source) Name() string { return s.name }

// Metrics returns the font's vertical metrics at the given size in
// pixels per em.
func (s *Source) Metrics(size float64) Metrics {
	var buf sfnt.Buffer
	m, err := s.sfnt.Metrics(&buf, fixedFromFloat(size), hinting)
	if err != nil {
		return Metrics{}
	}
	ascent := fixedToFloat(m.Ascent)
	descent := fixedToFloat(m.Descent)
	return Metrics{
		Ascent:  ascent,
		Descent: descent,
		Height:  fixedToFloat(m.Height),
	}
}

// Metrics holds vertical font metrics in pixels. Descent is positive,
// measured down from the baseline.
type Metrics struct {
	Ascent  float64
	Descent float64
	Height  float64
}
