//go:build js && wasm

package webgl

import (
	"fmt"
	"syscall/js"

	"github.com/gogpu/starmap/shader"
)

// passProgram is one linked pass program plus its resolved uniform
// locations and the attribute schema used to set vertex pointers.
type passProgram struct {
	pass     shader.Pass
	program  js.Value
	uniforms map[string]js.Value
	attrs    []shader.Attribute
	// sampled marks passes that bind an atlas texture on unit 0.
	sampled bool
	// stride of the packed per-vertex or per-instance records.
	stride int
}

// buildProgram compiles and links the web variant of a pass. Attribute
// indices are bound to the schema slots before linking so both backends
// agree on vertex layout without querying locations.
func buildProgram(gl js.Value, c glConsts, p shader.Pass) (*passProgram, error) {
	vertSrc, fragSrc, err := shader.GLSL(p)
	if err != nil {
		return nil, err
	}
	attrs, err := shader.Attributes(p)
	if err != nil {
		return nil, err
	}
	us, err := shader.Uniforms(p)
	if err != nil {
		return nil, err
	}

	vert, err := compileStage(gl, c, c.vertexShader, vertSrc, p, "vertex")
	if err != nil {
		return nil, err
	}
	defer gl.Call("deleteShader", vert)
	frag, err := compileStage(gl, c, c.fragmentShader, fragSrc, p, "fragment")
	if err != nil {
		return nil, err
	}
	defer gl.Call("deleteShader", frag)

	program := gl.Call("createProgram")
	gl.Call("attachShader", program, vert)
	gl.Call("attachShader", program, frag)
	for _, a := range attrs {
		gl.Call("bindAttribLocation", program, int(a.Slot), a.Name)
	}
	gl.Call("linkProgram", program)
	if !gl.Call("getProgramParameter", program, c.linkStatus).Bool() {
		log := gl.Call("getProgramInfoLog", program).String()
		gl.Call("deleteProgram", program)
		return nil, fmt.Errorf("webgl: link %v/%v: %s", p, shader.Web, log)
	}

	pp := &passProgram{
		pass:     p,
		program:  program,
		uniforms: make(map[string]js.Value, len(us)),
		attrs:    attrs,
		stride:   recordStride(attrs),
	}
	for _, u := range us {
		pp.uniforms[u.Name] = gl.Call("getUniformLocation", program, u.Name)
		if u.Sampler {
			pp.sampled = true
		}
	}
	return pp, nil
}

func compileStage(gl js.Value, c glConsts, kind int, source string, p shader.Pass, stage string) (js.Value, error) {
	sh := gl.Call("createShader", kind)
	gl.Call("shaderSource", sh, source)
	gl.Call("compileShader", sh)
	if !gl.Call("getShaderParameter", sh, c.compileStatus).Bool() {
		log := gl.Call("getShaderInfoLog", sh).String()
		gl.Call("deleteShader", sh)
		return js.Value{}, fmt.Errorf("webgl: compile %v/%v %s stage: %s", p, shader.Web, stage, log)
	}
	return sh, nil
}

// recordStride is the byte stride of the schema's per-instance records
// for instanced passes, or of all attributes otherwise.
func recordStride(attrs []shader.Attribute) int {
	stride := 0
	instanced := false
	for _, a := range attrs {
		if a.PerInstance {
			instanced = true
		}
	}
	for _, a := range attrs {
		if !instanced || a.PerInstance {
			stride += a.Components * 4
		}
	}
	return stride
}

func (pp *passProgram) destroy(gl js.Value) {
	if pp.program.Truthy() {
		gl.Call("deleteProgram", pp.program)
	}
}
