// Package shade holds the reference implementation of the fragment math
// shared by the desktop and web shader variants: marker falloff curves,
// highlight-ring compositing, jump-line edge fade and the gamma placement
// rules. The GPU shaders are authored against these functions; tests compare
// both dialects' semantics to this package instead of to each other.
package shade

import "math"

// Style selects the marker falloff curve. Both styles are full render
// styles a host can switch between at runtime.
type Style int

const (
	// StyleInversePower is the soft-glow falloff (1 - 1/d)^n. It
	// diverges toward the marker center, which is why marker quads
	// never sample distance zero.
	StyleInversePower Style = iota
	// StylePolynomial is the sharper-edged disc with a thin highlight
	// ring just outside the core.
	StylePolynomial
)

// String returns the style name used in config files and logs.
func (s Style) String() string {
	switch s {
	case StyleInversePower:
		return "inverse-power"
	case StylePolynomial:
		return "polynomial"
	default:
		return "unknown"
	}
}

// Gamma exponents by pass. The desktop target is a non-sRGB surface, so
// desktop shaders decode colors in-shader before blending; the web canvas
// applies the transfer curve itself, so web shaders skip the decode.
const (
	// GammaMarkers is the decode exponent for the marker and jump passes.
	GammaMarkers = 2.0
	// GammaUI is the decode exponent for the quad and text passes.
	GammaUI = 2.2
)

// RGBA is a linear-light color with unassociated alpha, the form colors
// take in instance buffers and uniforms.
type RGBA struct {
	R, G, B, A float32
}

// Scale multiplies all four channels by s.
func (c RGBA) Scale(s float32) RGBA {
	return RGBA{R: c.R * s, G: c.G * s, B: c.B * s, A: c.A * s}
}

// Decode applies the in-shader gamma decode pow(x, 1/gamma) to the color
// channels. Alpha is coverage, not light, and passes through unchanged.
func (c RGBA) Decode(gamma float32) RGBA {
	return RGBA{
		R: Decode(c.R, gamma),
		G: Decode(c.G, gamma),
		B: Decode(c.B, gamma),
		A: c.A,
	}
}

// Decode maps one linear channel through pow(x, 1/gamma).
func Decode(x, gamma float32) float32 {
	if x <= 0 {
		return 0
	}
	return float32(math.Pow(float64(x), 1/float64(gamma)))
}

// Encode is the inverse of Decode: pow(x, gamma).
func Encode(x, gamma float32) float32 {
	if x <= 0 {
		return 0
	}
	return float32(math.Pow(float64(x), float64(gamma)))
}

// Clamp01 clamps x to [0, 1].
func Clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// Smoothstep is the GLSL smoothstep: 0 below e0, 1 above e1, with a
// Hermite ramp between.
func Smoothstep(e0, e1, x float32) float32 {
	t := Clamp01((x - e0) / (e1 - e0))
	return t * t * (3 - 2*t)
}

// InnerFalloff returns the marker core intensity for a fragment at
// distance d from the marker center in local unit-quad space. Zero at and
// beyond the quad edge (d >= 1) for both styles.
func InnerFalloff(style Style, d float32) float32 {
	switch style {
	case StylePolynomial:
		return Clamp01(1 - pow(d+0.4, 20))
	default:
		return Clamp01(pow(1-1/d, 4))
	}
}

// BandFalloff returns the highlight-ring intensity at distance d.
func BandFalloff(style Style, d float32) float32 {
	switch style {
	case StylePolynomial:
		return Clamp01(1 - pow(d+0.3, 2))
	default:
		return Clamp01(pow(1-1/d, 2))
	}
}

// DiscFalloff is the single-term edge falloff of the plain filled disc
// used by the minimap marker pass: (1 - 1/d)^2, clamped.
func DiscFalloff(d float32) float32 {
	return Clamp01(pow(1-1/d, 2))
}

// pow is float32 math.Pow. The falloff exponents keep intermediate values
// in a range where float32 precision is ample.
func pow(x, y float32) float32 {
	return float32(math.Pow(float64(x), float64(y)))
}

// MarkerComposite evaluates the full marker fragment at distance d: the
// core disc layered over the highlight ring, premultiplied, with the ring
// weighted by the instance highlight alpha and the whole result faded by
// the instance color alpha. A highlight alpha of zero yields exactly the
// plain core output.
func MarkerComposite(style Style, d float32, color, highlight RGBA) RGBA {
	inner := InnerFalloff(style, d)
	ring := BandFalloff(style, d) * highlight.A

	out := RGBA{
		R: color.R*inner + highlight.R*ring*(1-inner),
		G: color.G*inner + highlight.G*ring*(1-inner),
		B: color.B*inner + highlight.B*ring*(1-inner),
		A: inner + ring*(1-inner),
	}
	return out.Scale(color.A)
}

// DiscComposite evaluates the plain-disc fragment: the core-only marker
// output, the instance color scaled by the edge falloff and faded by the
// instance alpha. No ring.
func DiscComposite(d float32, color RGBA) RGBA {
	f := DiscFalloff(d)
	out := RGBA{R: color.R * f, G: color.G * f, B: color.B * f, A: f}
	return out.Scale(color.A)
}

// JumpAlpha returns the jump-line opacity for an interpolated normal of
// the given length: opaque along the centerline, fading over the outer
// 60% of the half-width, capped at 0.8 so stacked jump lines never fully
// occlude the map beneath them.
func JumpAlpha(normalLen float32) float32 {
	return (1 - Smoothstep(0.4, 1.0, normalLen)) * 0.8
}

// TextComposite evaluates the glyph fragment: per-vertex tint scaled by
// the sampled atlas coverage, alpha = coverage * tint alpha.
func TextComposite(tint RGBA, coverage float32) RGBA {
	return RGBA{
		R: tint.R * coverage,
		G: tint.G * coverage,
		B: tint.B * coverage,
		A: tint.A * coverage,
	}
}

// QuadComposite evaluates the UI quad fragment: the uniform tint, or the
// tint modulated by the atlas sample when the pass is textured.
func QuadComposite(tint RGBA, textured bool, sample RGBA) RGBA {
	if !textured {
		return tint
	}
	return RGBA{
		R: tint.R * sample.R,
		G: tint.G * sample.G,
		B: tint.B * sample.B,
		A: tint.A * sample.A,
	}
}

// SourceOver blends src over dst with the pipeline's fixed blend state:
// color factors (SrcAlpha, OneMinusSrcAlpha), alpha factors (Zero, One).
// The destination alpha is deliberately preserved, matching the original
// surface setup where the backbuffer alpha never feeds compositing.
func SourceOver(src, dst RGBA) RGBA {
	return RGBA{
		R: src.R*src.A + dst.R*(1-src.A),
		G: src.G*src.A + dst.G*(1-src.A),
		B: src.B*src.A + dst.B*(1-src.A),
		A: dst.A,
	}
}
