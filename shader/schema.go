package shader

import "fmt"

// Shared numeric constants baked into both dialects of the pass sources.
// Tests check the literals in the embedded sources against these values
// so the dialects cannot drift apart silently.
const (
	// MarkerUnit converts one unit of instance radius*scale into world
	// units before the view transform.
	MarkerUnit = 0.005
	// JumpHalfWidth is the half thickness of a jump line in world units
	// at zoom 1 and below.
	JumpHalfWidth = 0.02
	// MinDistance guards the marker falloff against sampling distance
	// zero at the fan center, where the inverse-power curve diverges.
	MinDistance = 0.0001
	// JumpAlphaMax caps jump-line opacity so stacked lines never fully
	// occlude the map beneath.
	JumpAlphaMax = 0.8
)

// Attribute describes one vertex-input slot of a pass. Name and Slot are
// identical across both dialect variants: the slot is the WGSL @location
// index and the index bound via bindAttribLocation on WebGL.
type Attribute struct {
	Name       string
	Slot       uint32
	Components int
	// PerInstance marks attributes advanced once per instance rather
	// than once per vertex (instanced passes only).
	PerInstance bool
}

// Uniform describes one uniform of a pass. Components is the float count
// for plain uniforms; texture bindings carry Components 0 and Sampler set.
type Uniform struct {
	Name       string
	Components int
	Sampler    bool
}

// markerAttributes is shared by Markers and MarkersPlain, which draw from
// the same packed instance buffer over the same unit-circle fan.
var markerAttributes = []Attribute{
	{Name: "position", Slot: 0, Components: 2},
	{Name: "color", Slot: 1, Components: 4, PerInstance: true},
	{Name: "highlight", Slot: 2, Components: 4, PerInstance: true},
	{Name: "center", Slot: 3, Components: 2, PerInstance: true},
	{Name: "scale", Slot: 4, Components: 1, PerInstance: true},
	{Name: "radius", Slot: 5, Components: 1, PerInstance: true},
}

var attributeSchemas = map[Pass][]Attribute{
	Markers:      markerAttributes,
	MarkersPlain: markerAttributes,
	Jumps: {
		{Name: "position", Slot: 0, Components: 3},
		{Name: "normal", Slot: 1, Components: 2},
		{Name: "color", Slot: 2, Components: 3},
	},
	Quads: {
		{Name: "position", Slot: 0, Components: 2},
		{Name: "uv", Slot: 1, Components: 2},
	},
	Text: {
		{Name: "position", Slot: 0, Components: 2},
		{Name: "uv", Slot: 1, Components: 2},
		{Name: "color", Slot: 2, Components: 4},
	},
}

var uniformSchemas = map[Pass][]Uniform{
	Markers: {
		{Name: "map_view_matrix", Components: 9},
		{Name: "map_scale_matrix", Components: 9},
		{Name: "zoom", Components: 1},
		{Name: "style", Components: 1},
	},
	MarkersPlain: {
		{Name: "map_view_matrix", Components: 9},
		{Name: "map_scale_matrix", Components: 9},
		{Name: "zoom", Components: 1},
	},
	Jumps: {
		{Name: "map_view_matrix", Components: 9},
		{Name: "map_scale_matrix", Components: 9},
		{Name: "zoom", Components: 1},
	},
	Quads: {
		{Name: "window_size", Components: 2},
		{Name: "textured", Components: 1},
		{Name: "color", Components: 4},
		{Name: "texture_atlas", Sampler: true},
	},
	Text: {
		{Name: "window_size", Components: 2},
		{Name: "font_atlas", Sampler: true},
	},
}

// Attributes returns the vertex-input schema of a pass. The returned
// slice is shared; callers must not modify it.
func Attributes(p Pass) ([]Attribute, error) {
	attrs, ok := attributeSchemas[p]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownPass, p)
	}
	return attrs, nil
}

// Uniforms returns the uniform schema of a pass. The returned slice is
// shared; callers must not modify it.
func Uniforms(p Pass) ([]Uniform, error) {
	us, ok := uniformSchemas[p]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownPass, p)
	}
	return us, nil
}

// Instanced reports whether a pass draws per-instance data over a shared
// base mesh.
func Instanced(p Pass) bool {
	return p == Markers || p == MarkersPlain
}

// DepthTested reports whether a pass renders with the greater-or-equal
// depth test. Only jump lines use depth, so route segments (level 1.0)
// win over regular segments (level 0.5) regardless of draw order.
func DepthTested(p Pass) bool {
	return p == Jumps
}
