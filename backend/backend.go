// Package backend defines the seam between the map renderer and a GPU
// backend, plus the packed vertex/instance layouts both backends upload.
//
// Two implementations exist: backend/wgpu drives a native device through
// gogpu/wgpu with WGSL shaders compiled via naga, and backend/webgl
// drives a WebGL 1 context through syscall/js with GLSL ES shaders. Both
// consume the same packed buffers and the same FrameUniforms; the shader
// package's schemas guarantee the attribute and uniform contracts line
// up across the two dialects.
package backend

import (
	"errors"

	"github.com/gogpu/starmap/internal/atlas"
	"github.com/gogpu/starmap/internal/shade"
	"github.com/gogpu/starmap/internal/xform"
)

// Seam errors shared by both backend implementations.
var (
	// ErrClosed is returned when drawing on a closed device.
	ErrClosed = errors.New("backend: device is closed")

	// ErrFrameNotBegun is returned when a draw is issued outside a
	// BeginFrame/EndFrame pair.
	ErrFrameNotBegun = errors.New("backend: no frame in progress")

	// ErrZeroWindow is returned by BeginFrame for a zero-sized window.
	// Callers are expected to skip the frame and retry after resize.
	ErrZeroWindow = errors.New("backend: window has zero size")
)

// FrameUniforms is the immutable per-frame transform state threaded into
// every draw call rather than held as ambient globals: the view and
// aspect matrices, the zoom level and the window size in pixels.
type FrameUniforms struct {
	View       xform.Mat3
	Scale      xform.Mat3
	Zoom       float32
	WindowSize xform.Vec2
}

// Uniforms assembles frame uniforms for a camera and window. Zero or
// negative dimensions are clamped to one pixel by the matrix helpers.
func Uniforms(cam xform.Camera, width, height float32) FrameUniforms {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return FrameUniforms{
		View:       cam.ViewMatrix(),
		Scale:      xform.ScaleMatrix(width, height),
		Zoom:       cam.Zoom,
		WindowSize: xform.V2(width, height),
	}
}

// Device is the renderer's view of a GPU backend. One frame is a
// BeginFrame call, any number of draw calls in back-to-front order, and
// an EndFrame call. Buffers passed to draw calls are packed with this
// package's Append helpers and are immutable for the duration of the
// frame; atlas images are borrowed, never mutated, by the device.
type Device interface {
	// BeginFrame starts a frame and clears the color and depth targets.
	BeginFrame(u FrameUniforms) error

	// EndFrame submits the frame.
	EndFrame() error

	// DrawMarkers draws packed MarkerInstance records over the shared
	// unit-circle fan with the given falloff style.
	DrawMarkers(instances []byte, count int, style shade.Style) error

	// DrawMarkersPlain draws packed MarkerInstance records with the
	// plain-disc shader.
	DrawMarkersPlain(instances []byte, count int) error

	// DrawJumps draws packed LineVertex records, four per jump, indexed
	// as quads, with the greater-or-equal depth test enabled.
	DrawJumps(vertices []byte, quadCount int) error

	// DrawQuads draws packed QuadVertex records as indexed quads with a
	// uniform tint; textured selects atlas sampling.
	DrawQuads(vertices []byte, quadCount int, tint shade.RGBA, textured bool) error

	// DrawText draws packed TextVertex records as indexed quads
	// sampling the font atlas.
	DrawText(vertices []byte, quadCount int) error

	// UpdateFontAtlas uploads the font atlas's dirty region, if any.
	UpdateFontAtlas(img *atlas.Image) error

	// UpdateTextureAtlas uploads the UI atlas's dirty region, if any.
	UpdateTextureAtlas(img *atlas.Image) error

	// Close releases all GPU resources. The device is unusable after.
	Close() error
}
