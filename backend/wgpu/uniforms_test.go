package wgpu

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/gogpu/starmap/backend"
	"github.com/gogpu/starmap/internal/shade"
	"github.com/gogpu/starmap/internal/xform"
)

func f32At(t *testing.T, buf []byte, offset int) float32 {
	t.Helper()
	if offset+4 > len(buf) {
		t.Fatalf("offset %d past end of %d-byte buffer", offset, len(buf))
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset:]))
}

func testUniforms() backend.FrameUniforms {
	cam := xform.Camera{Offset: xform.V2(3, -2), Zoom: 2.5}
	return backend.Uniforms(cam, 800, 600)
}

func TestPackMapUniforms(t *testing.T) {
	u := testUniforms()
	buf := packMapUniforms(u, 1)

	if len(buf) != mapUniformSize {
		t.Fatalf("packed %d bytes, want %d", len(buf), mapUniformSize)
	}

	// Columns are vec4-padded: 16 bytes apart, pad word zero.
	if got := f32At(t, buf, 0); got != u.View.C0.X {
		t.Errorf("view[0][0] = %v, want %v", got, u.View.C0.X)
	}
	if got := f32At(t, buf, 12); got != 0 {
		t.Errorf("column pad = %v, want 0", got)
	}
	if got := f32At(t, buf, 16); got != u.View.C1.X {
		t.Errorf("view[1][0] = %v, want %v", got, u.View.C1.X)
	}
	if got := f32At(t, buf, 32); got != u.View.C2.X {
		t.Errorf("view[2][0] = %v, want %v", got, u.View.C2.X)
	}
	if got := f32At(t, buf, 48); got != u.Scale.C0.X {
		t.Errorf("scale[0][0] = %v, want %v", got, u.Scale.C0.X)
	}
	if got := f32At(t, buf, 96); got != u.Zoom {
		t.Errorf("zoom = %v, want %v", got, u.Zoom)
	}
	if got := f32At(t, buf, 100); got != 1 {
		t.Errorf("style = %v, want 1", got)
	}
}

func TestPackQuadUniforms(t *testing.T) {
	u := testUniforms()
	tint := shade.RGBA{R: 0.1, G: 0.2, B: 0.3, A: 0.4}

	buf := packQuadUniforms(u, tint, true)
	if len(buf) != quadUniformSize {
		t.Fatalf("packed %d bytes, want %d", len(buf), quadUniformSize)
	}
	if got := f32At(t, buf, 0); got != 800 {
		t.Errorf("window width = %v, want 800", got)
	}
	if got := f32At(t, buf, 4); got != 600 {
		t.Errorf("window height = %v, want 600", got)
	}
	if got := f32At(t, buf, 8); got != 1 {
		t.Errorf("textured = %v, want 1", got)
	}
	// The tint starts on the next 16-byte boundary.
	if got := f32At(t, buf, 16); got != tint.R {
		t.Errorf("tint red = %v, want %v", got, tint.R)
	}
	if got := f32At(t, buf, 28); got != tint.A {
		t.Errorf("tint alpha = %v, want %v", got, tint.A)
	}

	flat := packQuadUniforms(u, tint, false)
	if got := f32At(t, flat, 8); got != 0 {
		t.Errorf("textured = %v, want 0", got)
	}
}

func TestPackTextUniforms(t *testing.T) {
	buf := packTextUniforms(testUniforms())
	if len(buf) != textUniformSize {
		t.Fatalf("packed %d bytes, want %d", len(buf), textUniformSize)
	}
	if got := f32At(t, buf, 0); got != 800 {
		t.Errorf("window width = %v, want 800", got)
	}
	if got := f32At(t, buf, 4); got != 600 {
		t.Errorf("window height = %v, want 600", got)
	}
}

func TestSpirvWords(t *testing.T) {
	words := spirvWords([]byte{0x03, 0x02, 0x23, 0x07, 0xff, 0x00, 0x00, 0x00})
	if len(words) != 2 {
		t.Fatalf("got %d words, want 2", len(words))
	}
	if words[0] != 0x07230203 {
		t.Errorf("magic word = %#x, want 0x07230203", words[0])
	}
	if words[1] != 0xff {
		t.Errorf("second word = %#x, want 0xff", words[1])
	}
}
