// Package wgpu is the native GPU backend of the map renderer. It drives
// a Vulkan device through the gogpu/wgpu HAL, compiling the desktop WGSL
// shader variants to SPIR-V with naga at device creation.
//
// The frame model matches the backend seam: BeginFrame opens a frame,
// draw calls record pass work in submission order, and EndFrame encodes
// one render pass over an offscreen MSAA target, submits it behind a
// fence and waits. ReadPixels resolves the last frame into RGBA bytes
// for snapshots and golden tests.
package wgpu
