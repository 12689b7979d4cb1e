package wgpu

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/starmap/backend"
	"github.com/gogpu/starmap/shader"
)

// frameState accumulates one frame's draw calls and the transient GPU
// resources backing them. Everything transient is destroyed after the
// submit fence signals.
type frameState struct {
	uniforms backend.FrameUniforms
	width    uint32
	height   uint32

	draws   []drawCall
	buffers []hal.Buffer
	groups  []hal.BindGroup
}

// drawCall is one recorded pass draw, replayed into the render pass at
// EndFrame in recording order.
type drawCall struct {
	pipeline  hal.RenderPipeline
	bindGroup hal.BindGroup

	// vertexBuf binds at slot 0, or slot 1 under the shared fan for
	// instanced draws.
	vertexBuf hal.Buffer
	fanBuf    hal.Buffer

	indexBuf      hal.Buffer
	indexCount    uint32
	instanceCount uint32
}

// recordInstanced records one instanced fan draw: markers or
// sovereignty discs. Caller holds the device mutex and has validated
// the frame.
func (d *Device) recordInstanced(p shader.Pass, instances []byte, count int, uniforms []byte) error {
	pp := d.passes[p]
	instBuf, err := d.createFrameBuffer(p.String()+"_instances", instances, gputypes.BufferUsageVertex)
	if err != nil {
		return err
	}
	bg, err := d.createFrameBindGroup(pp, uniforms)
	if err != nil {
		return err
	}
	d.frame.draws = append(d.frame.draws, drawCall{
		pipeline:      pp.pipeline,
		bindGroup:     bg,
		vertexBuf:     instBuf,
		fanBuf:        d.fanBuf,
		indexBuf:      d.fanIndexBuf,
		indexCount:    fanIndexCount,
		instanceCount: uint32(count),
	})
	return nil
}

// recordQuads records one indexed quad-list draw: jumps, UI quads or
// text. view is non-nil for sampled passes.
func (d *Device) recordQuads(p shader.Pass, vertices []byte, quadCount int, uniforms []byte, view hal.TextureView) error {
	pp := d.passes[p]
	vertBuf, err := d.createFrameBuffer(p.String()+"_vertices", vertices, gputypes.BufferUsageVertex)
	if err != nil {
		return err
	}
	idxBuf, err := d.createFrameBuffer(p.String()+"_indices",
		indexBytes(d.quadIndices.For(quadCount)), gputypes.BufferUsageIndex)
	if err != nil {
		return err
	}
	bg, err := d.createFrameBindGroupSampled(pp, uniforms, view)
	if err != nil {
		return err
	}
	d.frame.draws = append(d.frame.draws, drawCall{
		pipeline:      pp.pipeline,
		bindGroup:     bg,
		vertexBuf:     vertBuf,
		indexBuf:      idxBuf,
		indexCount:    uint32(quadCount * 6),
		instanceCount: 1,
	})
	return nil
}

// createFrameBuffer creates and fills a transient buffer owned by the
// current frame.
func (d *Device) createFrameBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := d.dev.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create %s buffer: %w", label, err)
	}
	d.frame.buffers = append(d.frame.buffers, buf)
	d.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

func (d *Device) createFrameBindGroup(pp *passPipeline, uniforms []byte) (hal.BindGroup, error) {
	return d.createFrameBindGroupSampled(pp, uniforms, nil)
}

func (d *Device) createFrameBindGroupSampled(pp *passPipeline, uniforms []byte, view hal.TextureView) (hal.BindGroup, error) {
	ub, err := d.createFrameBuffer(pp.pass.String()+"_uniforms", uniforms, gputypes.BufferUsageUniform)
	if err != nil {
		return nil, err
	}
	entries := []gputypes.BindGroupEntry{
		{Binding: 0, Resource: gputypes.BufferBinding{
			Buffer: ub.NativeHandle(), Offset: 0, Size: pp.uniformSize,
		}},
	}
	if pp.sampled {
		entries = append(entries,
			gputypes.BindGroupEntry{Binding: 1, Resource: gputypes.TextureViewBinding{
				TextureView: view.NativeHandle(),
			}},
			gputypes.BindGroupEntry{Binding: 2, Resource: gputypes.SamplerBinding{
				Sampler: d.sampler.NativeHandle(),
			}},
		)
	}
	bg, err := d.dev.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   pp.pass.String() + "_bind",
		Layout:  pp.bindLayout,
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create %v bind group: %w", pp.pass, err)
	}
	d.frame.groups = append(d.frame.groups, bg)
	return bg, nil
}

// EndFrame encodes the recorded draws into one render pass, submits
// behind a fence and waits, then frees the frame's transient resources.
func (d *Device) EndFrame() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return backend.ErrClosed
	}
	if d.frame == nil {
		return backend.ErrFrameNotBegun
	}
	frame := d.frame
	d.frame = nil

	if d.dev == nil {
		return nil
	}
	defer d.cleanupFrame(frame)
	return d.submitFrame(frame)
}

func (d *Device) submitFrame(frame *frameState) error {
	encoder, err := d.dev.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "map_frame"})
	if err != nil {
		return fmt.Errorf("wgpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("map_frame"); err != nil {
		return fmt.Errorf("wgpu: begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "map_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:          d.targets.colorView,
			ResolveTarget: d.targets.resolveView,
			LoadOp:        gputypes.LoadOpClear,
			StoreOp:       gputypes.StoreOpStore,
			ClearValue:    gputypes.Color{R: 0, G: 0, B: 0, A: 1},
		}},
		// Depth clears to zero: the jump pass tests greater-or-equal,
		// so any written level beats the background.
		DepthStencilAttachment: &hal.RenderPassDepthStencilAttachment{
			View:              d.targets.depthView,
			DepthLoadOp:       gputypes.LoadOpClear,
			DepthStoreOp:      gputypes.StoreOpDiscard,
			DepthClearValue:   0,
			StencilLoadOp:     gputypes.LoadOpClear,
			StencilStoreOp:    gputypes.StoreOpDiscard,
			StencilClearValue: 0,
		},
	})

	for _, dc := range frame.draws {
		rp.SetPipeline(dc.pipeline)
		rp.SetBindGroup(0, dc.bindGroup, nil)
		if dc.fanBuf != nil {
			rp.SetVertexBuffer(0, dc.fanBuf, 0)
			rp.SetVertexBuffer(1, dc.vertexBuf, 0)
		} else {
			rp.SetVertexBuffer(0, dc.vertexBuf, 0)
		}
		rp.SetIndexBuffer(dc.indexBuf, gputypes.IndexFormatUint16, 0)
		rp.DrawIndexed(dc.indexCount, dc.instanceCount, 0, 0, 0)
	}
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("wgpu: end encoding: %w", err)
	}
	defer d.dev.FreeCommandBuffer(cmdBuf)

	fence, err := d.dev.CreateFence()
	if err != nil {
		return fmt.Errorf("wgpu: create fence: %w", err)
	}
	defer d.dev.DestroyFence(fence)

	if err := d.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("wgpu: submit: %w", err)
	}
	ok, err := d.dev.Wait(fence, 1, 5*time.Second)
	if err != nil {
		return fmt.Errorf("wgpu: wait for frame: %w", err)
	}
	if !ok {
		return fmt.Errorf("wgpu: frame fence timed out")
	}
	return nil
}

func (d *Device) cleanupFrame(frame *frameState) {
	for _, bg := range frame.groups {
		d.dev.DestroyBindGroup(bg)
	}
	for _, buf := range frame.buffers {
		d.dev.DestroyBuffer(buf)
	}
}

// ReadPixels copies the last submitted frame into dst as tightly packed
// RGBA bytes, width*height*4 long. Used by snapshots and golden tests.
func (d *Device) ReadPixels(dst []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return backend.ErrClosed
	}
	if d.dev == nil || d.targets.resolveTex == nil {
		return fmt.Errorf("wgpu: no rendered frame to read")
	}
	w, h := d.targets.width, d.targets.height
	if uint32(len(dst)) < w*h*4 {
		return fmt.Errorf("wgpu: ReadPixels needs %d bytes, got %d", w*h*4, len(dst))
	}

	// Copy rows aligned to the transfer pitch, then strip the padding.
	const copyPitchAlignment = 256
	rowBytes := w * 4
	alignedRow := (rowBytes + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	stagingSize := uint64(alignedRow) * uint64(h)

	staging, err := d.dev.CreateBuffer(&hal.BufferDescriptor{
		Label: "map_readback",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create readback buffer: %w", err)
	}
	defer d.dev.DestroyBuffer(staging)

	encoder, err := d.dev.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "map_readback"})
	if err != nil {
		return fmt.Errorf("wgpu: create readback encoder: %w", err)
	}
	if err := encoder.BeginEncoding("map_readback"); err != nil {
		return fmt.Errorf("wgpu: begin readback encoding: %w", err)
	}

	// The resolve texture sits in render-attachment layout after the
	// frame; transition for the copy and back again for the next frame.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: d.targets.resolveTex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	encoder.CopyTextureToBuffer(d.targets.resolveTex, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedRow, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: d.targets.resolveTex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: d.targets.resolveTex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("wgpu: end readback encoding: %w", err)
	}
	defer d.dev.FreeCommandBuffer(cmdBuf)

	fence, err := d.dev.CreateFence()
	if err != nil {
		return fmt.Errorf("wgpu: create readback fence: %w", err)
	}
	defer d.dev.DestroyFence(fence)
	if err := d.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("wgpu: submit readback: %w", err)
	}
	ok, err := d.dev.Wait(fence, 1, 5*time.Second)
	if err != nil {
		return fmt.Errorf("wgpu: wait for readback: %w", err)
	}
	if !ok {
		return fmt.Errorf("wgpu: readback fence timed out")
	}

	readback := make([]byte, stagingSize)
	if err := d.queue.ReadBuffer(staging, 0, readback); err != nil {
		return fmt.Errorf("wgpu: read staging buffer: %w", err)
	}
	for row := uint32(0); row < h; row++ {
		src := readback[row*alignedRow : row*alignedRow+rowBytes]
		dstRow := dst[row*rowBytes : (row+1)*rowBytes]
		bgraToRGBA(src, dstRow)
	}
	return nil
}

// bgraToRGBA swaps the red and blue channels of one pixel row.
func bgraToRGBA(src, dst []byte) {
	for i := 0; i+3 < len(src) && i+3 < len(dst); i += 4 {
		dst[i+0] = src[i+2]
		dst[i+1] = src[i+1]
		dst[i+2] = src[i+0]
		dst[i+3] = src[i+3]
	}
}

// indexBytes packs uint16 indices little-endian for the index buffer.
func indexBytes(indices []uint16) []byte {
	buf := make([]byte, 0, len(indices)*2)
	for _, i := range indices {
		buf = binary.LittleEndian.AppendUint16(buf, i)
	}
	return buf
}
