package wgpu

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/starmap/backend"
	"github.com/gogpu/starmap/internal/shade"
	"github.com/gogpu/starmap/internal/xform"
)

// Uniform buffer sizes in bytes, following WGSL uniform layout rules: a
// mat3x3<f32> is three vec4-aligned columns (48 bytes), structs round up
// to 16-byte alignment.
const (
	// mapUniformSize covers the marker, plain-marker and jump uniform
	// structs: two matrices, zoom, and for markers the style selector.
	// All three passes share one packer; trailing bytes the shorter
	// structs never read stay zero.
	mapUniformSize = 112

	// quadUniformSize is window size, textured flag, pad, tint vec4.
	quadUniformSize = 32

	// textUniformSize is the window size padded out to one 16-byte row.
	textUniformSize = 16
)

func putF32(buf []byte, v float32) []byte {
	return binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
}

// putMat3 appends a column-major mat3x3 with each column padded to 16
// bytes, the WGSL uniform layout.
func putMat3(buf []byte, m xform.Mat3) []byte {
	for _, c := range [3]xform.Vec3{m.C0, m.C1, m.C2} {
		buf = putF32(buf, c.X)
		buf = putF32(buf, c.Y)
		buf = putF32(buf, c.Z)
		buf = putF32(buf, 0)
	}
	return buf
}

// packMapUniforms packs the world-pass uniforms: view matrix at offset
// 0, scale matrix at 48, zoom at 96, style at 100.
func packMapUniforms(u backend.FrameUniforms, style float32) []byte {
	buf := make([]byte, 0, mapUniformSize)
	buf = putMat3(buf, u.View)
	buf = putMat3(buf, u.Scale)
	buf = putF32(buf, u.Zoom)
	buf = putF32(buf, style)
	for len(buf) < mapUniformSize {
		buf = append(buf, 0)
	}
	return buf
}

// packQuadUniforms packs the UI quad uniforms: window size at offset 0,
// textured flag at 8, tint at 16.
func packQuadUniforms(u backend.FrameUniforms, tint shade.RGBA, textured bool) []byte {
	buf := make([]byte, 0, quadUniformSize)
	buf = putF32(buf, u.WindowSize.X)
	buf = putF32(buf, u.WindowSize.Y)
	if textured {
		buf = putF32(buf, 1)
	} else {
		buf = putF32(buf, 0)
	}
	buf = putF32(buf, 0)
	buf = putF32(buf, tint.R)
	buf = putF32(buf, tint.G)
	buf = putF32(buf, tint.B)
	buf = putF32(buf, tint.A)
	return buf
}

// packTextUniforms packs the text uniforms: the window size.
func packTextUniforms(u backend.FrameUniforms) []byte {
	buf := make([]byte, 0, textUniformSize)
	buf = putF32(buf, u.WindowSize.X)
	buf = putF32(buf, u.WindowSize.Y)
	for len(buf) < textUniformSize {
		buf = append(buf, 0)
	}
	return buf
}
