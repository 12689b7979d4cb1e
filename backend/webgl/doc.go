//go:build js && wasm

// Package webgl is the browser backend of the map renderer. It drives a
// WebGL 1 context through syscall/js with the web GLSL ES 1.00 shader
// variants, relying on ANGLE_instanced_arrays for the instanced marker
// passes.
//
// The web variants share attribute slots and uniform names with the
// desktop WGSL modules through the shader package's schemas: attribute
// indices are bound before linking, so the two backends consume the
// same packed buffers.
package webgl
