package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/starmap/shader"
)

// sampleCount is the MSAA sample count of the offscreen color target.
const sampleCount = 4

// colorFormat is the offscreen render target format. Readback converts
// to RGBA.
const colorFormat = gputypes.TextureFormatBGRA8Unorm

// depthFormat backs the jump-line depth test. The stencil aspect is
// unused but rides along with the packed format.
const depthFormat = gputypes.TextureFormatDepth24PlusStencil8

// passPipeline is the per-pass GPU state: the compiled shader module,
// the bind group layout the per-draw bind groups are built against, and
// the render pipeline itself.
type passPipeline struct {
	pass        shader.Pass
	shader      hal.ShaderModule
	bindLayout  hal.BindGroupLayout
	pipeLayout  hal.PipelineLayout
	pipeline    hal.RenderPipeline
	uniformSize uint64
	// sampled marks passes whose bind group carries an atlas texture
	// and the shared sampler at bindings 1 and 2.
	sampled bool
}

func newPassPipeline(dev hal.Device, p shader.Pass) (*passPipeline, error) {
	pp := &passPipeline{pass: p}

	us, err := shader.Uniforms(p)
	if err != nil {
		return nil, err
	}
	for _, u := range us {
		if u.Sampler {
			pp.sampled = true
		}
	}
	pp.uniformSize = uniformByteSize(p)

	spirv, err := compilePass(p)
	if err != nil {
		return nil, err
	}
	module, err := dev.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  p.String() + "_shader",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return nil, fmt.Errorf("create %v shader module: %w", p, err)
	}
	pp.shader = module

	entries := []gputypes.BindGroupLayoutEntry{
		{
			Binding:    0,
			Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
			Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
		},
	}
	if pp.sampled {
		entries = append(entries,
			gputypes.BindGroupLayoutEntry{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			gputypes.BindGroupLayoutEntry{
				Binding:    2,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		)
	}
	bindLayout, err := dev.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   p.String() + "_bind_layout",
		Entries: entries,
	})
	if err != nil {
		pp.destroy(dev)
		return nil, fmt.Errorf("create %v bind group layout: %w", p, err)
	}
	pp.bindLayout = bindLayout

	pipeLayout, err := dev.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            p.String() + "_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{bindLayout},
	})
	if err != nil {
		pp.destroy(dev)
		return nil, fmt.Errorf("create %v pipeline layout: %w", p, err)
	}
	pp.pipeLayout = pipeLayout

	layouts, err := vertexLayouts(p)
	if err != nil {
		pp.destroy(dev)
		return nil, err
	}

	blend := alphaBlend()
	pipeline, err := dev.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  p.String() + "_pipeline",
		Layout: pipeLayout,
		Vertex: hal.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers:    layouts,
		},
		Fragment: &hal.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{{
				Format:    colorFormat,
				Blend:     &blend,
				WriteMask: gputypes.ColorWriteMaskAll,
			}},
		},
		DepthStencil: depthState(p),
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: sampleCount,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		pp.destroy(dev)
		return nil, fmt.Errorf("create %v pipeline: %w", p, err)
	}
	pp.pipeline = pipeline

	return pp, nil
}

func (pp *passPipeline) destroy(dev hal.Device) {
	if dev == nil {
		return
	}
	if pp.pipeline != nil {
		dev.DestroyRenderPipeline(pp.pipeline)
		pp.pipeline = nil
	}
	if pp.pipeLayout != nil {
		dev.DestroyPipelineLayout(pp.pipeLayout)
		pp.pipeLayout = nil
	}
	if pp.bindLayout != nil {
		dev.DestroyBindGroupLayout(pp.bindLayout)
		pp.bindLayout = nil
	}
	if pp.shader != nil {
		dev.DestroyShaderModule(pp.shader)
		pp.shader = nil
	}
}

// alphaBlend is the compositing mode of every pass: straight-alpha
// source over, destination alpha preserved.
func alphaBlend() gputypes.BlendState {
	return gputypes.BlendState{
		Color: gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorSrcAlpha,
			DstFactor: gputypes.BlendFactorOneMinusSrcAlpha,
			Operation: gputypes.BlendOperationAdd,
		},
		Alpha: gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorZero,
			DstFactor: gputypes.BlendFactorOne,
			Operation: gputypes.BlendOperationAdd,
		},
	}
}

// depthState returns the pass's depth/stencil state. The shared render
// pass carries a depth attachment, so every pipeline needs one; only
// jump lines test and write depth, greater-or-equal against a target
// cleared to zero, so route segments win over regular segments.
func depthState(p shader.Pass) *hal.DepthStencilState {
	st := &hal.DepthStencilState{
		Format:            depthFormat,
		DepthWriteEnabled: false,
		DepthCompare:      gputypes.CompareFunctionAlways,
		StencilFront:      passThroughStencil(),
		StencilBack:       passThroughStencil(),
		StencilReadMask:   0x00,
		StencilWriteMask:  0x00,
	}
	if shader.DepthTested(p) {
		st.DepthWriteEnabled = true
		st.DepthCompare = gputypes.CompareFunctionGreaterEqual
	}
	return st
}

func passThroughStencil() hal.StencilFaceState {
	return hal.StencilFaceState{
		Compare:     gputypes.CompareFunctionAlways,
		FailOp:      hal.StencilOperationKeep,
		DepthFailOp: hal.StencilOperationKeep,
		PassOp:      hal.StencilOperationKeep,
	}
}

// uniformByteSize returns the packed uniform buffer size of a pass.
func uniformByteSize(p shader.Pass) uint64 {
	switch p {
	case shader.Markers, shader.MarkersPlain, shader.Jumps:
		return mapUniformSize
	case shader.Quads:
		return quadUniformSize
	case shader.Text:
		return textUniformSize
	default:
		return 0
	}
}

// fanIndexCount is the index count of the triangulated marker fan:
// sixteen triangles around the fan center.
const fanIndexCount = 48

// fanIndices triangulates the shared circle fan for triangle-list
// drawing: (0, i, i+1) for each rim segment.
func fanIndices() []uint16 {
	idx := make([]uint16, 0, fanIndexCount)
	for i := uint16(1); i <= 16; i++ {
		idx = append(idx, 0, i, i+1)
	}
	return idx
}
