package shade

import (
	"math"
	"testing"
)

func near(a, b, tol float32) bool {
	return math.Abs(float64(a-b)) <= float64(tol)
}

func TestFalloffMonotonic(t *testing.T) {
	// Both marker styles must fade monotonically from the center out to
	// the quad edge at d = 1.
	styles := []Style{StyleInversePower, StylePolynomial}
	for _, style := range styles {
		t.Run(style.String(), func(t *testing.T) {
			const steps = 1000
			prevInner := float32(math.Inf(1))
			prevBand := float32(math.Inf(1))
			for i := 1; i <= steps; i++ {
				d := float32(i) / steps
				inner := InnerFalloff(style, d)
				band := BandFalloff(style, d)
				if inner > prevInner+1e-6 {
					t.Fatalf("inner falloff increased at d=%v: %v -> %v", d, prevInner, inner)
				}
				if band > prevBand+1e-6 {
					t.Fatalf("band falloff increased at d=%v: %v -> %v", d, prevBand, band)
				}
				if inner < 0 || inner > 1 || band < 0 || band > 1 {
					t.Fatalf("falloff out of range at d=%v: inner=%v band=%v", d, inner, band)
				}
				prevInner, prevBand = inner, band
			}
		})
	}
}

func TestFalloffZeroAtEdge(t *testing.T) {
	tests := []struct {
		name  string
		style Style
	}{
		{"inverse-power", StyleInversePower},
		{"polynomial", StylePolynomial},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InnerFalloff(tt.style, 1); !near(got, 0, 1e-6) {
				t.Errorf("inner at edge = %v, want 0", got)
			}
		})
	}
	// The inverse-power band shares the edge zero; the polynomial band
	// reaches zero slightly inside the edge and stays clamped there.
	if got := BandFalloff(StyleInversePower, 1); !near(got, 0, 1e-6) {
		t.Errorf("inverse-power band at edge = %v, want 0", got)
	}
	if got := BandFalloff(StylePolynomial, 0.7); !near(got, 0, 1e-5) {
		t.Errorf("polynomial band at d=0.7 = %v, want 0", got)
	}
	if got := BandFalloff(StylePolynomial, 1); got != 0 {
		t.Errorf("polynomial band at edge = %v, want 0", got)
	}
}

func TestDiscFalloff(t *testing.T) {
	if got := DiscFalloff(1); !near(got, 0, 1e-6) {
		t.Errorf("disc falloff at edge = %v, want 0", got)
	}
	if got := DiscFalloff(0.01); !near(got, 1, 1e-6) {
		t.Errorf("disc falloff near center = %v, want 1 (clamped)", got)
	}
	prev := float32(2)
	for i := 1; i <= 100; i++ {
		d := float32(i) / 100
		f := DiscFalloff(d)
		if f > prev+1e-6 {
			t.Fatalf("disc falloff increased at d=%v", d)
		}
		prev = f
	}
}

func TestMarkerCompositeNoHighlight(t *testing.T) {
	// A zero highlight alpha must yield exactly the ring-free output.
	color := RGBA{R: 0.8, G: 0.4, B: 0.1, A: 0.9}
	highlight := RGBA{R: 1, G: 1, B: 1, A: 0}

	for _, style := range []Style{StyleInversePower, StylePolynomial} {
		for i := 1; i <= 50; i++ {
			d := float32(i) / 50
			got := MarkerComposite(style, d, color, highlight)

			inner := InnerFalloff(style, d)
			want := RGBA{
				R: color.R * inner,
				G: color.G * inner,
				B: color.B * inner,
				A: inner,
			}.Scale(color.A)

			if got != want {
				t.Fatalf("style %v d=%v: composite with transparent highlight = %+v, want %+v",
					style, d, got, want)
			}
		}
	}
}

func TestMarkerCompositeInstanceAlpha(t *testing.T) {
	// The instance alpha fades the whole result, ring included.
	color := RGBA{R: 0.5, G: 0.5, B: 0.5, A: 0.5}
	highlight := RGBA{R: 0, G: 1, B: 1, A: 1}

	full := MarkerComposite(StyleInversePower, 0.5, RGBA{R: 0.5, G: 0.5, B: 0.5, A: 1}, highlight)
	faded := MarkerComposite(StyleInversePower, 0.5, color, highlight)

	if !near(faded.R, full.R*0.5, 1e-6) || !near(faded.A, full.A*0.5, 1e-6) {
		t.Errorf("instance alpha 0.5: got %+v, want half of %+v", faded, full)
	}
}

func TestJumpAlphaCap(t *testing.T) {
	// The line never exceeds 80% opacity anywhere across its width.
	for i := 0; i <= 1000; i++ {
		l := float32(i) / 1000
		a := JumpAlpha(l)
		if a > 0.8 {
			t.Fatalf("jump alpha %v at normal length %v exceeds 0.8", a, l)
		}
		if a < 0 {
			t.Fatalf("jump alpha %v at normal length %v is negative", a, l)
		}
	}
	if got := JumpAlpha(0); !near(got, 0.8, 1e-6) {
		t.Errorf("centerline alpha = %v, want 0.8", got)
	}
	if got := JumpAlpha(1); !near(got, 0, 1e-6) {
		t.Errorf("edge alpha = %v, want 0", got)
	}
	if got := JumpAlpha(0.4); !near(got, 0.8, 1e-6) {
		t.Errorf("alpha at fade start = %v, want 0.8", got)
	}
}

func TestGammaRoundTrip(t *testing.T) {
	for _, gamma := range []float32{GammaMarkers, GammaUI} {
		for i := 0; i <= 20; i++ {
			x := float32(i) / 20
			if got := Encode(Decode(x, gamma), gamma); !near(got, x, 1e-5) {
				t.Errorf("gamma %v: Encode(Decode(%v)) = %v", gamma, x, got)
			}
		}
	}
}

func TestDesktopWebParity(t *testing.T) {
	// Desktop decodes colors in-shader before blending onto a non-sRGB
	// surface; web blends raw and the canvas applies the transfer curve
	// afterwards. For opaque composites the two orders must agree.
	colors := []RGBA{
		{R: 1, G: 0.25, B: 0.05, A: 1},
		{R: 0.2, G: 0.9, B: 0.4, A: 1},
		{R: 0.02, G: 0.02, B: 0.02, A: 1},
	}
	bg := RGBA{A: 1}

	for _, gamma := range []float32{GammaMarkers, GammaUI} {
		for _, c := range colors {
			desktop := SourceOver(c.Decode(gamma), bg)
			webLinear := SourceOver(c, bg)
			web := webLinear.Decode(gamma)

			if !near(desktop.R, web.R, 1e-4) ||
				!near(desktop.G, web.G, 1e-4) ||
				!near(desktop.B, web.B, 1e-4) {
				t.Errorf("gamma %v color %+v: desktop %+v != web %+v", gamma, c, desktop, web)
			}
		}
	}
}

func TestSourceOverPreservesDstAlpha(t *testing.T) {
	src := RGBA{R: 1, G: 0, B: 0, A: 0.5}
	dst := RGBA{R: 0, G: 0, B: 1, A: 1}
	out := SourceOver(src, dst)
	if out.A != 1 {
		t.Errorf("destination alpha = %v, want 1 (alpha factors are Zero, One)", out.A)
	}
	if !near(out.R, 0.5, 1e-6) || !near(out.B, 0.5, 1e-6) {
		t.Errorf("blend = %+v, want half red over half blue", out)
	}
}

func TestTextComposite(t *testing.T) {
	tint := RGBA{R: 0.9, G: 0.8, B: 0.7, A: 0.6}
	out := TextComposite(tint, 0.5)
	if !near(out.A, 0.3, 1e-6) {
		t.Errorf("alpha = %v, want coverage * tint alpha = 0.3", out.A)
	}
	if got := TextComposite(tint, 0); got != (RGBA{}) {
		t.Errorf("zero coverage = %+v, want transparent", got)
	}
}

func TestQuadComposite(t *testing.T) {
	tint := RGBA{R: 0.5, G: 0.5, B: 0.5, A: 1}
	sample := RGBA{R: 1, G: 0.5, B: 0, A: 0.8}

	if got := QuadComposite(tint, false, sample); got != tint {
		t.Errorf("untextured quad = %+v, want flat tint", got)
	}
	got := QuadComposite(tint, true, sample)
	if !near(got.G, 0.25, 1e-6) || !near(got.A, 0.8, 1e-6) {
		t.Errorf("textured quad = %+v", got)
	}
}

func TestSmoothstep(t *testing.T) {
	tests := []struct {
		name string
		x    float32
		want float32
	}{
		{"below edge", 0.0, 0},
		{"at low edge", 0.4, 0},
		{"midpoint", 0.7, 0.5},
		{"at high edge", 1.0, 1},
		{"above edge", 2.0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Smoothstep(0.4, 1.0, tt.x); !near(got, tt.want, 1e-6) {
				t.Errorf("Smoothstep(0.4, 1, %v) = %v, want %v", tt.x, got, tt.want)
			}
		})
	}
}
