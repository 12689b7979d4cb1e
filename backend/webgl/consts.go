//go:build js && wasm

package webgl

import (
	"math"
	"syscall/js"
)

// glConsts caches the numeric WebGL enum values once at startup; going
// through js.Value property lookups on every call is wasteful.
type glConsts struct {
	arrayBuffer        int
	elementArrayBuffer int
	staticDraw         int
	dynamicDraw        int
	floatType          int
	unsignedShort      int
	unsignedByte       int
	triangles          int
	triangleFan        int

	colorBufferBit   int
	depthBufferBit   int
	depthTest        int
	gequal           int
	blend            int
	srcAlpha         int
	oneMinusSrcAlpha int
	zero             int
	one              int

	texture2D        int
	texture0         int
	rgba             int
	alpha            int
	textureMinFilter int
	textureMagFilter int
	textureWrapS     int
	textureWrapT     int
	linear           int
	clampToEdge      int
	unpackAlignment  int

	compileStatus  int
	linkStatus     int
	vertexShader   int
	fragmentShader int
}

func newGLConsts(gl js.Value) glConsts {
	get := func(name string) int { return gl.Get(name).Int() }
	return glConsts{
		arrayBuffer:        get("ARRAY_BUFFER"),
		elementArrayBuffer: get("ELEMENT_ARRAY_BUFFER"),
		staticDraw:         get("STATIC_DRAW"),
		dynamicDraw:        get("DYNAMIC_DRAW"),
		floatType:          get("FLOAT"),
		unsignedShort:      get("UNSIGNED_SHORT"),
		unsignedByte:       get("UNSIGNED_BYTE"),
		triangles:          get("TRIANGLES"),
		triangleFan:        get("TRIANGLE_FAN"),

		colorBufferBit:   get("COLOR_BUFFER_BIT"),
		depthBufferBit:   get("DEPTH_BUFFER_BIT"),
		depthTest:        get("DEPTH_TEST"),
		gequal:           get("GEQUAL"),
		blend:            get("BLEND"),
		srcAlpha:         get("SRC_ALPHA"),
		oneMinusSrcAlpha: get("ONE_MINUS_SRC_ALPHA"),
		zero:             get("ZERO"),
		one:              get("ONE"),

		texture2D:        get("TEXTURE_2D"),
		texture0:         get("TEXTURE0"),
		rgba:             get("RGBA"),
		alpha:            get("ALPHA"),
		textureMinFilter: get("TEXTURE_MIN_FILTER"),
		textureMagFilter: get("TEXTURE_MAG_FILTER"),
		textureWrapS:     get("TEXTURE_WRAP_S"),
		textureWrapT:     get("TEXTURE_WRAP_T"),
		linear:           get("LINEAR"),
		clampToEdge:      get("CLAMP_TO_EDGE"),
		unpackAlignment:  get("UNPACK_ALIGNMENT"),

		compileStatus:  get("COMPILE_STATUS"),
		linkStatus:     get("LINK_STATUS"),
		vertexShader:   get("VERTEX_SHADER"),
		fragmentShader: get("FRAGMENT_SHADER"),
	}
}

// jsBytes copies data into a fresh Uint8Array for bufferData and
// texImage2D calls.
func jsBytes(data []byte) js.Value {
	arr := js.Global().Get("Uint8Array").New(len(data))
	if len(data) > 0 {
		js.CopyBytesToJS(arr, data)
	}
	return arr
}

// jsFloats copies float32 values into a fresh Float32Array for uniform
// array uploads.
func jsFloats(data []float32) js.Value {
	arr := js.Global().Get("Float32Array").New(len(data))
	if len(data) == 0 {
		return arr
	}
	buf := make([]byte, len(data)*4)
	for i, f := range data {
		bits := math.Float32bits(f)
		buf[i*4+0] = byte(bits)
		buf[i*4+1] = byte(bits >> 8)
		buf[i*4+2] = byte(bits >> 16)
		buf[i*4+3] = byte(bits >> 24)
	}
	view := js.Global().Get("Uint8Array").New(arr.Get("buffer"), arr.Get("byteOffset"), arr.Get("byteLength"))
	js.CopyBytesToJS(view, buf)
	return arr
}
