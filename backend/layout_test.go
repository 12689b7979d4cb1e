package backend

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/gogpu/starmap/internal/shade"
	"github.com/gogpu/starmap/internal/xform"
)

func f32At(t *testing.T, buf []byte, index int) float32 {
	t.Helper()
	off := index * 4
	if off+4 > len(buf) {
		t.Fatalf("buffer too short for float %d (len %d)", index, len(buf))
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
}

func TestMarkerInstancePacking(t *testing.T) {
	m := MarkerInstance{
		Color:     shade.RGBA{R: 0.1, G: 0.2, B: 0.3, A: 0.4},
		Highlight: shade.RGBA{R: 0, G: 1, B: 1, A: 1},
		Center:    xform.V2(-7, 9),
		Scale:     4,
		Radius:    5,
	}
	buf := AppendMarkerInstance(nil, m)

	if len(buf) != MarkerInstanceStride {
		t.Fatalf("packed size = %d, want %d", len(buf), MarkerInstanceStride)
	}
	want := []float32{0.1, 0.2, 0.3, 0.4, 0, 1, 1, 1, -7, 9, 4, 5}
	for i, w := range want {
		if got := f32At(t, buf, i); got != w {
			t.Errorf("float %d = %v, want %v", i, got, w)
		}
	}
}

func TestLineVertexPacking(t *testing.T) {
	v := LineVertex{
		Position: xform.V3(1, 2, 0.5),
		Normal:   xform.V2(0, 1),
		Color:    xform.V3(0.9, 0.8, 0.7),
	}
	buf := AppendLineVertex(nil, v)

	if len(buf) != LineVertexStride {
		t.Fatalf("packed size = %d, want %d", len(buf), LineVertexStride)
	}
	want := []float32{1, 2, 0.5, 0, 1, 0.9, 0.8, 0.7}
	for i, w := range want {
		if got := f32At(t, buf, i); got != w {
			t.Errorf("float %d = %v, want %v", i, got, w)
		}
	}
}

func TestQuadVertexPacking(t *testing.T) {
	buf := AppendQuadVertex(nil, QuadVertex{
		Position: xform.V2(100, 50),
		UV:       xform.V2(0.25, 0.75),
	})
	if len(buf) != QuadVertexStride {
		t.Fatalf("packed size = %d, want %d", len(buf), QuadVertexStride)
	}
	want := []float32{100, 50, 0.25, 0.75}
	for i, w := range want {
		if got := f32At(t, buf, i); got != w {
			t.Errorf("float %d = %v, want %v", i, got, w)
		}
	}
}

func TestTextVertexPacking(t *testing.T) {
	buf := AppendTextVertex(nil, TextVertex{
		Position: xform.V2(10, 20),
		UV:       xform.V2(0.5, 0.5),
		Color:    shade.RGBA{R: 1, G: 1, B: 1, A: 0.8},
	})
	if len(buf) != TextVertexStride {
		t.Fatalf("packed size = %d, want %d", len(buf), TextVertexStride)
	}
	if got := f32At(t, buf, 7); got != 0.8 {
		t.Errorf("alpha channel = %v, want 0.8 (folded into color vec4)", got)
	}
}

func TestCircleFan(t *testing.T) {
	buf := CircleFan()
	if len(buf) != CircleFanVertexCount*CircleVertexStride {
		t.Fatalf("fan size = %d bytes, want %d", len(buf), CircleFanVertexCount*CircleVertexStride)
	}

	// Center first.
	if x, y := f32At(t, buf, 0), f32At(t, buf, 1); x != 0 || y != 0 {
		t.Errorf("fan center = (%v, %v), want origin", x, y)
	}
	// First rim point at angle 0: (sin 0, cos 0) = (0, 1).
	if x, y := f32At(t, buf, 2), f32At(t, buf, 3); x != 0 || y != 1 {
		t.Errorf("first rim point = (%v, %v), want (0, 1)", x, y)
	}
	// Every rim point sits on the unit circle.
	for i := 1; i < CircleFanVertexCount; i++ {
		x := f32At(t, buf, i*2)
		y := f32At(t, buf, i*2+1)
		r := math.Sqrt(float64(x*x + y*y))
		if math.Abs(r-1) > 1e-6 {
			t.Errorf("rim point %d has radius %v", i, r)
		}
	}
	// The last rim point closes the fan onto the first.
	firstX, firstY := f32At(t, buf, 2), f32At(t, buf, 3)
	lastX, lastY := f32At(t, buf, 34), f32At(t, buf, 35)
	if math.Abs(float64(firstX-lastX)) > 1e-6 || math.Abs(float64(firstY-lastY)) > 1e-6 {
		t.Errorf("fan not closed: first (%v,%v) vs last (%v,%v)", firstX, firstY, lastX, lastY)
	}
}

func TestQuadIndices(t *testing.T) {
	var q QuadIndices

	got := q.For(2)
	want := []uint16{0, 1, 2, 1, 2, 3, 4, 5, 6, 5, 6, 7}
	if len(got) != len(want) {
		t.Fatalf("index count = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d = %d, want %d", i, got[i], want[i])
		}
	}

	// Shrinking reslices without reallocating; growing extends the
	// pattern.
	if one := q.For(1); len(one) != 6 {
		t.Errorf("For(1) length = %d, want 6", len(one))
	}
	three := q.For(3)
	if len(three) != 18 {
		t.Fatalf("For(3) length = %d, want 18", len(three))
	}
	if three[12] != 8 || three[17] != 11 {
		t.Errorf("third quad indices = %v", three[12:])
	}

	if zero := q.For(0); len(zero) != 0 {
		t.Errorf("For(0) length = %d, want 0", len(zero))
	}
	if neg := q.For(-1); len(neg) != 0 {
		t.Errorf("For(-1) length = %d, want 0", len(neg))
	}
}

func TestUniforms(t *testing.T) {
	cam := xform.Camera{Offset: xform.V2(1, 2), Zoom: 3}
	u := Uniforms(cam, 800, 600)

	if u.Zoom != 3 {
		t.Errorf("Zoom = %v, want 3", u.Zoom)
	}
	if u.WindowSize != xform.V2(800, 600) {
		t.Errorf("WindowSize = %v", u.WindowSize)
	}
	if u.View != cam.ViewMatrix() {
		t.Errorf("View matrix differs from camera's")
	}

	// Zero dimensions clamp rather than divide by zero.
	u = Uniforms(cam, 0, 0)
	if u.WindowSize != xform.V2(1, 1) {
		t.Errorf("clamped WindowSize = %v, want (1, 1)", u.WindowSize)
	}
}
