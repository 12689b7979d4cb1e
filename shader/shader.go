// Package shader holds the render-pass catalog of the map renderer: for
// each draw pass, a desktop WGSL module and a web GLSL ES 1.00 program
// pair, embedded at build time, plus the uniform and attribute schemas
// both dialects must agree on.
//
// The two variants of a pass share one semantic contract: identical
// uniform names and slots, identical attribute schemas, identical falloff
// and blending math. They differ only in dialect and in gamma placement:
// the desktop swapchain is a non-sRGB surface, so desktop fragments
// decode colors in-shader, while the web canvas applies the transfer
// curve itself and web fragments must not decode a second time.
// Validate enforces the shared parts mechanically.
package shader

import (
	_ "embed"
	"errors"
	"fmt"
)

// Pass identifies one draw pass of the map frame.
type Pass int

const (
	// Markers draws system markers: an instanced unit-circle fan with a
	// core disc and an independent highlight ring per instance.
	Markers Pass = iota
	// MarkersPlain draws plain filled discs with a single edge falloff,
	// used for sovereignty tinting and the minimap.
	MarkersPlain
	// Jumps draws the thickened line quads connecting systems.
	Jumps
	// Quads draws screen-space UI quads, flat or textured.
	Quads
	// Text draws glyph quads sampling the coverage font atlas.
	Text

	numPasses
)

// Passes lists every pass in the fixed frame order: sovereignty discs,
// then jumps, then markers, then UI, then text, back to front.
var Passes = [...]Pass{MarkersPlain, Jumps, Markers, Quads, Text}

// String returns the pass name used in error messages and logs.
func (p Pass) String() string {
	switch p {
	case Markers:
		return "markers"
	case MarkersPlain:
		return "markers-plain"
	case Jumps:
		return "jumps"
	case Quads:
		return "quads"
	case Text:
		return "text"
	default:
		return fmt.Sprintf("pass(%d)", int(p))
	}
}

// Variant selects the shader dialect for a target backend. The variant
// is fixed per backend at startup, never per draw call.
type Variant int

const (
	// Desktop is the WGSL variant compiled to SPIR-V for the native
	// GPU backend.
	Desktop Variant = iota
	// Web is the GLSL ES 1.00 variant for the WebGL 1 backend.
	Web
)

// String returns the variant name used in error messages and logs.
func (v Variant) String() string {
	switch v {
	case Desktop:
		return "desktop"
	case Web:
		return "web"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

// ErrUnknownPass is returned when a source or schema lookup names a pass
// outside the catalog.
var ErrUnknownPass = errors.New("shader: unknown pass")

// Embedded sources. The desktop dialect is one WGSL module per pass with
// vs_main/fs_main entry points; the web dialect is a vertex/fragment
// GLSL ES 1.00 pair per pass.

//go:embed sources/markers.wgsl
var markersWGSL string

//go:embed sources/markers_plain.wgsl
var markersPlainWGSL string

//go:embed sources/jumps.wgsl
var jumpsWGSL string

//go:embed sources/quads.wgsl
var quadsWGSL string

//go:embed sources/text.wgsl
var textWGSL string

//go:embed sources/markers.vert.glsl
var markersVertGLSL string

//go:embed sources/markers.frag.glsl
var markersFragGLSL string

//go:embed sources/markers_plain.vert.glsl
var markersPlainVertGLSL string

//go:embed sources/markers_plain.frag.glsl
var markersPlainFragGLSL string

//go:embed sources/jumps.vert.glsl
var jumpsVertGLSL string

//go:embed sources/jumps.frag.glsl
var jumpsFragGLSL string

//go:embed sources/quads.vert.glsl
var quadsVertGLSL string

//go:embed sources/quads.frag.glsl
var quadsFragGLSL string

//go:embed sources/text.vert.glsl
var textVertGLSL string

//go:embed sources/text.frag.glsl
var textFragGLSL string

// WGSL returns the desktop-variant module source for a pass.
func WGSL(p Pass) (string, error) {
	var src string
	switch p {
	case Markers:
		src = markersWGSL
	case MarkersPlain:
		src = markersPlainWGSL
	case Jumps:
		src = jumpsWGSL
	case Quads:
		src = quadsWGSL
	case Text:
		src = textWGSL
	default:
		return "", fmt.Errorf("%w: %v", ErrUnknownPass, p)
	}
	if src == "" {
		return "", fmt.Errorf("shader: embedded WGSL source for %v/%v is empty", p, Desktop)
	}
	return src, nil
}

// GLSL returns the web-variant vertex and fragment sources for a pass.
func GLSL(p Pass) (vert, frag string, err error) {
	switch p {
	case Markers:
		vert, frag = markersVertGLSL, markersFragGLSL
	case MarkersPlain:
		vert, frag = markersPlainVertGLSL, markersPlainFragGLSL
	case Jumps:
		vert, frag = jumpsVertGLSL, jumpsFragGLSL
	case Quads:
		vert, frag = quadsVertGLSL, quadsFragGLSL
	case Text:
		vert, frag = textVertGLSL, textFragGLSL
	default:
		return "", "", fmt.Errorf("%w: %v", ErrUnknownPass, p)
	}
	if vert == "" || frag == "" {
		return "", "", fmt.Errorf("shader: embedded GLSL source for %v/%v is empty", p, Web)
	}
	return vert, frag, nil
}
