package backend

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/starmap/internal/shade"
	"github.com/gogpu/starmap/internal/xform"
)

// Packed record strides in bytes. The GPU-side vertex layouts in both
// backends are derived from the shader schemas and must agree with
// these; the layout tests pin them.
const (
	// CircleVertexStride is one unit-circle fan vertex: position vec2.
	CircleVertexStride = 8

	// MarkerInstanceStride is one marker instance: color vec4,
	// highlight vec4, center vec2, scale f32, radius f32.
	MarkerInstanceStride = 48

	// LineVertexStride is one jump-line vertex: position vec3 (z is the
	// depth level), normal vec2, color vec3.
	LineVertexStride = 32

	// QuadVertexStride is one UI quad vertex: position vec2, uv vec2.
	QuadVertexStride = 16

	// TextVertexStride is one glyph vertex: position vec2, uv vec2,
	// color vec4. Alpha rides in the color's fourth channel.
	TextVertexStride = 32
)

// CircleFanVertexCount is the number of vertices in the shared marker
// fan: the center plus seventeen rim points, the last duplicating the
// first to close the circle.
const CircleFanVertexCount = 18

// MarkerInstance is one system marker: a unit-circle fan instance placed
// at Center, sized by Scale and Radius, colored by Color with an
// independent Highlight ring tint.
type MarkerInstance struct {
	Color     shade.RGBA
	Highlight shade.RGBA
	Center    xform.Vec2
	Scale     float32
	Radius    float32
}

// LineVertex is one corner of a jump-line quad. Position z carries the
// depth level; Normal is the unit perpendicular the vertex shader
// extrudes along; Color is linear RGB.
type LineVertex struct {
	Position xform.Vec3
	Normal   xform.Vec2
	Color    xform.Vec3
}

// QuadVertex is one corner of a screen-space UI quad.
type QuadVertex struct {
	Position xform.Vec2
	UV       xform.Vec2
}

// TextVertex is one corner of a glyph quad in pixel space.
type TextVertex struct {
	Position xform.Vec2
	UV       xform.Vec2
	Color    shade.RGBA
}

func appendF32(buf []byte, v float32) []byte {
	return binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
}

// AppendMarkerInstance packs one marker instance onto buf in the wire
// layout and returns the extended slice.
func AppendMarkerInstance(buf []byte, m MarkerInstance) []byte {
	buf = appendF32(buf, m.Color.R)
	buf = appendF32(buf, m.Color.G)
	buf = appendF32(buf, m.Color.B)
	buf = appendF32(buf, m.Color.A)
	buf = appendF32(buf, m.Highlight.R)
	buf = appendF32(buf, m.Highlight.G)
	buf = appendF32(buf, m.Highlight.B)
	buf = appendF32(buf, m.Highlight.A)
	buf = appendF32(buf, m.Center.X)
	buf = appendF32(buf, m.Center.Y)
	buf = appendF32(buf, m.Scale)
	buf = appendF32(buf, m.Radius)
	return buf
}

// AppendLineVertex packs one jump-line vertex onto buf.
func AppendLineVertex(buf []byte, v LineVertex) []byte {
	buf = appendF32(buf, v.Position.X)
	buf = appendF32(buf, v.Position.Y)
	buf = appendF32(buf, v.Position.Z)
	buf = appendF32(buf, v.Normal.X)
	buf = appendF32(buf, v.Normal.Y)
	buf = appendF32(buf, v.Color.X)
	buf = appendF32(buf, v.Color.Y)
	buf = appendF32(buf, v.Color.Z)
	return buf
}

// AppendQuadVertex packs one UI quad vertex onto buf.
func AppendQuadVertex(buf []byte, v QuadVertex) []byte {
	buf = appendF32(buf, v.Position.X)
	buf = appendF32(buf, v.Position.Y)
	buf = appendF32(buf, v.UV.X)
	buf = appendF32(buf, v.UV.Y)
	return buf
}

// AppendTextVertex packs one glyph vertex onto buf.
func AppendTextVertex(buf []byte, v TextVertex) []byte {
	buf = appendF32(buf, v.Position.X)
	buf = appendF32(buf, v.Position.Y)
	buf = appendF32(buf, v.UV.X)
	buf = appendF32(buf, v.UV.Y)
	buf = appendF32(buf, v.Color.R)
	buf = appendF32(buf, v.Color.G)
	buf = appendF32(buf, v.Color.B)
	buf = appendF32(buf, v.Color.A)
	return buf
}

// CircleFan returns the shared marker base mesh, packed: the fan center
// followed by rim points at (sin, cos) steps of 1/16 turn, with the
// final point closing the circle.
func CircleFan() []byte {
	buf := make([]byte, 0, CircleFanVertexCount*CircleVertexStride)
	buf = appendF32(buf, 0)
	buf = appendF32(buf, 0)
	for i := 0; i < 17; i++ {
		a := 2 * math.Pi / 16 * float64(i)
		buf = appendF32(buf, float32(math.Sin(a)))
		buf = appendF32(buf, float32(math.Cos(a)))
	}
	return buf
}

// QuadIndices is a grow-on-demand index stream for quad draws: each quad
// of four vertices becomes two triangles (0,1,2) and (1,2,3). Both
// backends keep one instance and reslice it per draw, so the index
// buffer is built once and only grows.
type QuadIndices struct {
	indices []uint16
}

// For returns indices covering quadCount quads. The returned slice is
// shared and only valid until the next call.
func (q *QuadIndices) For(quadCount int) []uint16 {
	if quadCount < 0 {
		quadCount = 0
	}
	need := quadCount * 6
	for have := len(q.indices) / 6; have < quadCount; have++ {
		base := uint16(have * 4)
		q.indices = append(q.indices,
			base, base+1, base+2,
			base+1, base+2, base+3,
		)
	}
	return q.indices[:need]
}
