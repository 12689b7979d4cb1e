package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/starmap/backend"
	"github.com/gogpu/starmap/shader"
)

// vertexLayouts derives the HAL vertex buffer layouts of a pass from its
// attribute schema. Instanced passes split into two buffers: slot 0 is
// the shared unit-circle fan, slot 1 the per-instance records. Offsets
// accumulate in schema order, which is also the packed wire order.
func vertexLayouts(p shader.Pass) ([]gputypes.VertexBufferLayout, error) {
	attrs, err := shader.Attributes(p)
	if err != nil {
		return nil, err
	}

	if !shader.Instanced(p) {
		layout, err := bufferLayout(attrs, gputypes.VertexStepModeVertex)
		if err != nil {
			return nil, fmt.Errorf("%v layout: %w", p, err)
		}
		return []gputypes.VertexBufferLayout{layout}, nil
	}

	var perVertex, perInstance []shader.Attribute
	for _, a := range attrs {
		if a.PerInstance {
			perInstance = append(perInstance, a)
		} else {
			perVertex = append(perVertex, a)
		}
	}
	base, err := bufferLayout(perVertex, gputypes.VertexStepModeVertex)
	if err != nil {
		return nil, fmt.Errorf("%v base layout: %w", p, err)
	}
	inst, err := bufferLayout(perInstance, gputypes.VertexStepModeInstance)
	if err != nil {
		return nil, fmt.Errorf("%v instance layout: %w", p, err)
	}
	return []gputypes.VertexBufferLayout{base, inst}, nil
}

func bufferLayout(attrs []shader.Attribute, step gputypes.VertexStepMode) (gputypes.VertexBufferLayout, error) {
	layout := gputypes.VertexBufferLayout{StepMode: step}
	offset := uint64(0)
	for _, a := range attrs {
		format, err := vertexFormat(a.Components)
		if err != nil {
			return layout, fmt.Errorf("attribute %q: %w", a.Name, err)
		}
		layout.Attributes = append(layout.Attributes, gputypes.VertexAttribute{
			Format:         format,
			Offset:         offset,
			ShaderLocation: a.Slot,
		})
		offset += uint64(a.Components) * 4
	}
	layout.ArrayStride = offset
	return layout, nil
}

func vertexFormat(components int) (gputypes.VertexFormat, error) {
	switch components {
	case 1:
		return gputypes.VertexFormatFloat32, nil
	case 2:
		return gputypes.VertexFormatFloat32x2, nil
	case 3:
		return gputypes.VertexFormatFloat32x3, nil
	case 4:
		return gputypes.VertexFormatFloat32x4, nil
	default:
		return 0, fmt.Errorf("no vertex format for %d components", components)
	}
}

// passStride returns the byte stride of the pass's per-vertex or
// per-instance records, whichever the draw call uploads.
func passStride(p shader.Pass) int {
	switch p {
	case shader.Markers, shader.MarkersPlain:
		return backend.MarkerInstanceStride
	case shader.Jumps:
		return backend.LineVertexStride
	case shader.Quads:
		return backend.QuadVertexStride
	case shader.Text:
		return backend.TextVertexStride
	default:
		return 0
	}
}
