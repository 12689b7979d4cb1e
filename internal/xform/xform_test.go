package xform

import (
	"math"
	"testing"
)

const epsilon = 1e-6

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < epsilon
}

func TestMat3Identity(t *testing.T) {
	id := Identity()
	v := V3(3, -2, 1)
	if got := id.Apply(v); got != v {
		t.Errorf("Identity().Apply(%v) = %v, want %v", v, got, v)
	}
	if got := id.Mul(id); got != id {
		t.Errorf("Identity()*Identity() = %v, want identity", got)
	}
}

func TestMat3MulOrder(t *testing.T) {
	// Scale by 2, then translate by (5, 0). Translate*Scale applied to
	// (1, 1) must give (7, 2); the opposite order gives (12, 2).
	scale := Identity()
	scale.C0.X = 2
	scale.C1.Y = 2
	translate := Identity()
	translate.C2.X = 5

	got := translate.Mul(scale).ApplyPoint(V2(1, 1))
	if !near(got.X, 7) || !near(got.Y, 2) {
		t.Errorf("translate*scale applied to (1,1) = %v, want (7, 2)", got)
	}

	got = scale.Mul(translate).ApplyPoint(V2(1, 1))
	if !near(got.X, 12) || !near(got.Y, 2) {
		t.Errorf("scale*translate applied to (1,1) = %v, want (12, 2)", got)
	}
}

func TestMat3TransposeElements(t *testing.T) {
	m := Mat3{
		C0: V3(1, 2, 3),
		C1: V3(4, 5, 6),
		C2: V3(7, 8, 9),
	}
	want := [9]float32{1, 2, 3, 4, 5, 6, 7, 8, 9}
	if got := m.Elements(); got != want {
		t.Errorf("Elements() = %v, want %v", got, want)
	}
	if got := m.Transpose().Transpose(); got != m {
		t.Errorf("double transpose = %v, want %v", got, m)
	}
}

func TestCollapse(t *testing.T) {
	tests := []struct {
		name string
		v    Vec3
		want Vec2
	}{
		{"unit z", V3(4, 6, 1), V2(4, 6)},
		{"scaled z", V3(4, 6, 2), V2(2, 3)},
		{"zero z", V3(4, 6, 0), V2(4, 6)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Collapse(); got != tt.want {
				t.Errorf("Collapse() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestViewMatrix(t *testing.T) {
	cam := Camera{Offset: V2(3, 4), Zoom: 2}
	m := cam.ViewMatrix()

	if !near(m.C0.X, 2) || !near(m.C1.Y, 2) {
		t.Errorf("zoom diagonal = (%v, %v), want (2, 2)", m.C0.X, m.C1.Y)
	}
	if !near(m.C2.X, -6) || !near(m.C2.Y, 8) {
		t.Errorf("translation column = (%v, %v), want (-6, 8)", m.C2.X, m.C2.Y)
	}

	// The view origin tracks the pan offset: the world point at the
	// offset (with y negated) lands at the view origin.
	got := m.ApplyPoint(V2(3, -4))
	if !near(got.X, 0) || !near(got.Y, 0) {
		t.Errorf("view of pan target = %v, want origin", got)
	}
}

func TestWindowScale(t *testing.T) {
	tests := []struct {
		name string
		w, h float32
		want Vec2
	}{
		{"landscape", 800, 600, V2(800.0/600.0, 1)},
		{"portrait", 600, 800, V2(1, 800.0/600.0)},
		{"square", 512, 512, V2(1, 1)},
		{"zero width clamps", 0, 600, V2(1, 600)},
		{"zero height clamps", 800, 0, V2(800, 1)},
		{"negative clamps", -5, -5, V2(1, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WindowScale(tt.w, tt.h)
			if !near(got.X, tt.want.X) || !near(got.Y, tt.want.Y) {
				t.Errorf("WindowScale(%v, %v) = %v, want %v", tt.w, tt.h, got, tt.want)
			}
		})
	}
}

func TestScaleMatrixKeepsCirclesRound(t *testing.T) {
	// A unit vector along x and one along y must have equal on-screen
	// length after aspect normalization, for any window shape.
	sizes := [][2]float32{{800, 600}, {600, 800}, {1920, 1080}, {100, 100}}
	for _, s := range sizes {
		m := ScaleMatrix(s[0], s[1])
		x := m.ApplyPoint(V2(1, 0))
		y := m.ApplyPoint(V2(0, 1))
		// Screen-space lengths: multiply back by pixels-per-clip-unit.
		lx := x.X * s[0]
		ly := y.Y * s[1]
		if !near(lx, ly) {
			t.Errorf("window %vx%v: x extent %v != y extent %v", s[0], s[1], lx, ly)
		}
	}
}

func TestPixelToClipCorners(t *testing.T) {
	tests := []struct {
		name string
		p    Vec2
		w, h float32
		want Vec2
	}{
		{"top-left", V2(0, 0), 800, 600, V2(-1, 1)},
		{"bottom-right", V2(800, 600), 800, 600, V2(1, -1)},
		{"center", V2(400, 300), 800, 600, V2(0, 0)},
		{"top-right", V2(1024, 0), 1024, 768, V2(1, 1)},
		{"bottom-left", V2(0, 768), 1024, 768, V2(-1, -1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PixelToClip(tt.p, tt.w, tt.h)
			// Corners must be exact, not merely close.
			if got != tt.want {
				t.Errorf("PixelToClip(%v, %v, %v) = %v, want %v", tt.p, tt.w, tt.h, got, tt.want)
			}
		})
	}
}

func TestScreenMatrixInvertsPixelToClip(t *testing.T) {
	const w, h = 1280, 720
	m := ScreenMatrix(w, h)
	points := []Vec2{V2(0, 0), V2(w, h), V2(w/2, h/2), V2(17, 503)}
	for _, p := range points {
		clip := PixelToClip(p, w, h)
		back := m.ApplyPoint(clip)
		if !near(back.X, p.X) || !near(back.Y, p.Y) {
			t.Errorf("round trip of %v = %v", p, back)
		}
	}
}

func TestWorldToClipEndToEnd(t *testing.T) {
	// Two map systems at (0, 0) and (10, 0), default camera, 800x600
	// window. The aspect scale is 3/4 on x, so the second system lands
	// at exactly (7.5, 0) in clip space.
	cam := Camera{Zoom: 1}
	const w, h = 800, 600

	a := cam.WorldToClip(V2(0, 0), w, h)
	if !near(a.X, 0) || !near(a.Y, 0) {
		t.Errorf("origin system = %v, want (0, 0)", a)
	}

	b := cam.WorldToClip(V2(10, 0), w, h)
	if !near(b.X, 7.5) || !near(b.Y, 0) {
		t.Errorf("offset system = %v, want (7.5, 0)", b)
	}

	// Doubling the zoom doubles the clip-space offset.
	cam.Zoom = 2
	b2 := cam.WorldToClip(V2(10, 0), w, h)
	if !near(b2.X, 15) || !near(b2.Y, 0) {
		t.Errorf("offset system at zoom 2 = %v, want (15, 0)", b2)
	}
}

func TestWorldToPixel(t *testing.T) {
	// The world origin with a centered camera sits at the window center.
	cam := Camera{Zoom: 1}
	const w, h = 800, 600
	got := cam.WorldToPixel(V2(0, 0), w, h)
	if !near(got.X, 400) || !near(got.Y, 300) {
		t.Errorf("world origin = %v, want (400, 300)", got)
	}

	// Positive world y is up, pixel y is down.
	up := cam.WorldToPixel(V2(0, 0.5), w, h)
	if up.Y >= 300 {
		t.Errorf("world +y mapped to pixel y %v, want above center", up.Y)
	}
}

func TestVec2Helpers(t *testing.T) {
	if got := V2(3, 4).Length(); !near(got, 5) {
		t.Errorf("Length() = %v, want 5", got)
	}
	if got := V2(0, 0).Normalize(); got != V2(0, 0) {
		t.Errorf("Normalize(zero) = %v, want zero", got)
	}
	n := V2(10, 0).Normalize()
	if !near(n.X, 1) || !near(n.Y, 0) {
		t.Errorf("Normalize() = %v, want (1, 0)", n)
	}
	p := V2(1, 0).Perp()
	if !near(p.X, 0) || !near(p.Y, 1) {
		t.Errorf("Perp() = %v, want (0, 1)", p)
	}
	if got := V2(1, 2).DistanceSquared(V2(4, 6)); !near(got, 25) {
		t.Errorf("DistanceSquared = %v, want 25", got)
	}
}
