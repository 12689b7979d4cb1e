//go:build js && wasm

package webgl

import (
	"fmt"
	"syscall/js"

	"github.com/gogpu/starmap"
	"github.com/gogpu/starmap/backend"
	"github.com/gogpu/starmap/internal/atlas"
	"github.com/gogpu/starmap/internal/shade"
	"github.com/gogpu/starmap/shader"
)

// Device is the WebGL 1 backend.Device. It is single-threaded by
// nature: syscall/js calls must come from the main wasm goroutine, so
// unlike the native device there is no mutex.
type Device struct {
	gl     js.Value
	c      glConsts
	angle  js.Value // ANGLE_instanced_arrays extension
	closed bool

	passes map[shader.Pass]*passProgram

	fanBuf js.Value
	// scratch buffers reused across draws, one vertex and one index.
	vertexBuf js.Value
	indexBuf  js.Value

	quadIndices backend.QuadIndices

	fontTex *atlasTexture
	uiTex   *atlasTexture

	inFrame  bool
	uniforms backend.FrameUniforms
}

var _ backend.Device = (*Device)(nil)

// New wraps a WebGL 1 rendering context. The context must be created
// with a depth buffer; the jump pass needs one.
func New(gl js.Value) (*Device, error) {
	if !gl.Truthy() {
		return nil, fmt.Errorf("webgl: no rendering context")
	}
	d := &Device{gl: gl, c: newGLConsts(gl)}

	d.angle = gl.Call("getExtension", "ANGLE_instanced_arrays")
	if !d.angle.Truthy() {
		return nil, fmt.Errorf("webgl: ANGLE_instanced_arrays not supported")
	}

	d.passes = make(map[shader.Pass]*passProgram, len(shader.Passes))
	for _, p := range shader.Passes {
		pp, err := buildProgram(gl, d.c, p)
		if err != nil {
			d.Close()
			return nil, err
		}
		d.passes[p] = pp
	}

	d.fanBuf = gl.Call("createBuffer")
	gl.Call("bindBuffer", d.c.arrayBuffer, d.fanBuf)
	gl.Call("bufferData", d.c.arrayBuffer, jsBytes(backend.CircleFan()), d.c.staticDraw)
	d.vertexBuf = gl.Call("createBuffer")
	d.indexBuf = gl.Call("createBuffer")

	d.fontTex = newAtlasTexture(gl, d.c, atlas.FormatAlpha)
	d.uiTex = newAtlasTexture(gl, d.c, atlas.FormatRGBA)

	// Fixed pipeline state: straight-alpha blending with destination
	// alpha preserved, depth off until the jump pass asks for it.
	gl.Call("enable", d.c.blend)
	gl.Call("blendFuncSeparate", d.c.srcAlpha, d.c.oneMinusSrcAlpha, d.c.zero, d.c.one)
	gl.Call("disable", d.c.depthTest)
	gl.Call("pixelStorei", d.c.unpackAlignment, 1)

	starmap.Logger().Info("webgl device initialized",
		"renderer", gl.Call("getParameter", gl.Get("RENDERER").Int()).String())
	return d, nil
}

// BeginFrame sets the viewport and clears color and depth. Depth clears
// to zero for the greater-or-equal jump test.
func (d *Device) BeginFrame(u backend.FrameUniforms) error {
	if d.closed {
		return backend.ErrClosed
	}
	if d.inFrame {
		return fmt.Errorf("webgl: frame already in progress")
	}
	if u.WindowSize.X < 1 || u.WindowSize.Y < 1 {
		return backend.ErrZeroWindow
	}
	d.inFrame = true
	d.uniforms = u

	gl := d.gl
	gl.Call("viewport", 0, 0, int(u.WindowSize.X), int(u.WindowSize.Y))
	gl.Call("clearColor", 0, 0, 0, 1)
	gl.Call("clearDepth", 0)
	gl.Call("clear", d.c.colorBufferBit|d.c.depthBufferBit)
	return nil
}

// EndFrame finishes the frame. The browser presents the canvas itself.
func (d *Device) EndFrame() error {
	if d.closed {
		return backend.ErrClosed
	}
	if !d.inFrame {
		return backend.ErrFrameNotBegun
	}
	d.inFrame = false
	d.gl.Call("flush")
	return nil
}

// DrawMarkers draws packed MarkerInstance records with the falloff
// marker shader.
func (d *Device) DrawMarkers(instances []byte, count int, style shade.Style) error {
	return d.drawInstanced(shader.Markers, instances, count, float32(style))
}

// DrawMarkersPlain draws packed MarkerInstance records with the plain
// disc shader.
func (d *Device) DrawMarkersPlain(instances []byte, count int) error {
	return d.drawInstanced(shader.MarkersPlain, instances, count, -1)
}

func (d *Device) drawInstanced(p shader.Pass, instances []byte, count int, style float32) error {
	pp := d.passes[p]
	if err := d.guardDraw(pp, instances, count); err != nil || count <= 0 {
		return err
	}
	gl := d.gl

	gl.Call("useProgram", pp.program)
	d.setMapUniforms(pp)
	if style >= 0 {
		gl.Call("uniform1f", pp.uniforms["style"], style)
	}

	// Slot 0 walks the shared fan; the instance attributes advance once
	// per instance.
	gl.Call("bindBuffer", d.c.arrayBuffer, d.fanBuf)
	gl.Call("enableVertexAttribArray", 0)
	gl.Call("vertexAttribPointer", 0, 2, d.c.floatType, false, backend.CircleVertexStride, 0)

	gl.Call("bindBuffer", d.c.arrayBuffer, d.vertexBuf)
	gl.Call("bufferData", d.c.arrayBuffer, jsBytes(instances), d.c.dynamicDraw)
	offset := 0
	for _, a := range pp.attrs {
		if !a.PerInstance {
			continue
		}
		slot := int(a.Slot)
		gl.Call("enableVertexAttribArray", slot)
		gl.Call("vertexAttribPointer", slot, a.Components, d.c.floatType, false, pp.stride, offset)
		d.angle.Call("vertexAttribDivisorANGLE", slot, 1)
		offset += a.Components * 4
	}

	d.angle.Call("drawArraysInstancedANGLE", d.c.triangleFan, 0, backend.CircleFanVertexCount, count)

	for _, a := range pp.attrs {
		if a.PerInstance {
			d.angle.Call("vertexAttribDivisorANGLE", int(a.Slot), 0)
			gl.Call("disableVertexAttribArray", int(a.Slot))
		}
	}
	return nil
}

// DrawJumps draws packed LineVertex quads with the greater-or-equal
// depth test enabled.
func (d *Device) DrawJumps(vertices []byte, quadCount int) error {
	pp := d.passes[shader.Jumps]
	if err := d.guardDraw(pp, vertices, quadCount*4); err != nil || quadCount <= 0 {
		return err
	}
	gl := d.gl

	gl.Call("useProgram", pp.program)
	d.setMapUniforms(pp)

	gl.Call("enable", d.c.depthTest)
	gl.Call("depthFunc", d.c.gequal)
	defer gl.Call("disable", d.c.depthTest)

	d.drawIndexedQuads(pp, vertices, quadCount)
	return nil
}

// DrawQuads draws packed QuadVertex quads with a uniform tint.
func (d *Device) DrawQuads(vertices []byte, quadCount int, tint shade.RGBA, textured bool) error {
	pp := d.passes[shader.Quads]
	if err := d.guardDraw(pp, vertices, quadCount*4); err != nil || quadCount <= 0 {
		return err
	}
	gl := d.gl

	gl.Call("useProgram", pp.program)
	gl.Call("uniform2f", pp.uniforms["window_size"], d.uniforms.WindowSize.X, d.uniforms.WindowSize.Y)
	if textured {
		gl.Call("uniform1f", pp.uniforms["textured"], 1)
	} else {
		gl.Call("uniform1f", pp.uniforms["textured"], 0)
	}
	gl.Call("uniform4f", pp.uniforms["color"], tint.R, tint.G, tint.B, tint.A)
	d.bindAtlas(pp, "texture_atlas", d.uiTex)

	d.drawIndexedQuads(pp, vertices, quadCount)
	return nil
}

// DrawText draws packed TextVertex quads sampling the font atlas.
func (d *Device) DrawText(vertices []byte, quadCount int) error {
	pp := d.passes[shader.Text]
	if err := d.guardDraw(pp, vertices, quadCount*4); err != nil || quadCount <= 0 {
		return err
	}
	gl := d.gl

	gl.Call("useProgram", pp.program)
	gl.Call("uniform2f", pp.uniforms["window_size"], d.uniforms.WindowSize.X, d.uniforms.WindowSize.Y)
	d.bindAtlas(pp, "font_atlas", d.fontTex)

	d.drawIndexedQuads(pp, vertices, quadCount)
	return nil
}

func (d *Device) guardDraw(pp *passProgram, data []byte, records int) error {
	if d.closed {
		return backend.ErrClosed
	}
	if !d.inFrame {
		return backend.ErrFrameNotBegun
	}
	if records > 0 && len(data) < records*pp.stride {
		return fmt.Errorf("webgl: %v: %d records need %d bytes, got %d",
			pp.pass, records, records*pp.stride, len(data))
	}
	return nil
}

// setMapUniforms uploads the shared world-pass uniforms: both matrices
// and the zoom level.
func (d *Device) setMapUniforms(pp *passProgram) {
	gl := d.gl
	view := d.uniforms.View.Elements()
	scale := d.uniforms.Scale.Elements()
	gl.Call("uniformMatrix3fv", pp.uniforms["map_view_matrix"], false, jsFloats(view[:]))
	gl.Call("uniformMatrix3fv", pp.uniforms["map_scale_matrix"], false, jsFloats(scale[:]))
	gl.Call("uniform1f", pp.uniforms["zoom"], d.uniforms.Zoom)
}

func (d *Device) bindAtlas(pp *passProgram, uniform string, tex *atlasTexture) {
	gl := d.gl
	gl.Call("activeTexture", d.c.texture0)
	gl.Call("bindTexture", d.c.texture2D, tex.tex)
	gl.Call("uniform1i", pp.uniforms[uniform], 0)
}

// drawIndexedQuads uploads the vertex records and the quad index
// pattern, sets pointers per the pass schema and draws.
func (d *Device) drawIndexedQuads(pp *passProgram, vertices []byte, quadCount int) {
	gl := d.gl

	gl.Call("bindBuffer", d.c.arrayBuffer, d.vertexBuf)
	gl.Call("bufferData", d.c.arrayBuffer, jsBytes(vertices), d.c.dynamicDraw)
	offset := 0
	for _, a := range pp.attrs {
		slot := int(a.Slot)
		gl.Call("enableVertexAttribArray", slot)
		gl.Call("vertexAttribPointer", slot, a.Components, d.c.floatType, false, pp.stride, offset)
		offset += a.Components * 4
	}

	gl.Call("bindBuffer", d.c.elementArrayBuffer, d.indexBuf)
	gl.Call("bufferData", d.c.elementArrayBuffer, jsBytes(indexBytes(d.quadIndices.For(quadCount))), d.c.dynamicDraw)
	gl.Call("drawElements", d.c.triangles, quadCount*6, d.c.unsignedShort, 0)

	for _, a := range pp.attrs {
		gl.Call("disableVertexAttribArray", int(a.Slot))
	}
}

// UpdateFontAtlas uploads the font atlas's dirty region as ALPHA
// texels; the text shader samples coverage from the alpha channel.
func (d *Device) UpdateFontAtlas(img *atlas.Image) error {
	if d.closed {
		return backend.ErrClosed
	}
	if img != nil {
		d.fontTex.update(d.gl, d.c, img)
	}
	return nil
}

// UpdateTextureAtlas uploads the UI atlas's dirty region.
func (d *Device) UpdateTextureAtlas(img *atlas.Image) error {
	if d.closed {
		return backend.ErrClosed
	}
	if img != nil {
		d.uiTex.update(d.gl, d.c, img)
	}
	return nil
}

// Close deletes all GL objects. Safe to call more than once.
func (d *Device) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	d.inFrame = false
	gl := d.gl
	if d.fontTex != nil {
		d.fontTex.destroy(gl)
		d.fontTex = nil
	}
	if d.uiTex != nil {
		d.uiTex.destroy(gl)
		d.uiTex = nil
	}
	if d.indexBuf.Truthy() {
		gl.Call("deleteBuffer", d.indexBuf)
	}
	if d.vertexBuf.Truthy() {
		gl.Call("deleteBuffer", d.vertexBuf)
	}
	if d.fanBuf.Truthy() {
		gl.Call("deleteBuffer", d.fanBuf)
	}
	for _, pp := range d.passes {
		pp.destroy(gl)
	}
	d.passes = nil
	return nil
}

// indexBytes packs uint16 indices little-endian, the layout both
// wasm and the GPU agree on.
func indexBytes(indices []uint16) []byte {
	buf := make([]byte, len(indices)*2)
	for i, v := range indices {
		buf[i*2] = byte(v)
		buf[i*2+1] = byte(v >> 8)
	}
	return buf
}
