package wgpu

import (
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	_ "github.com/gogpu/wgpu/hal/vulkan" // registers the Vulkan backend

	"github.com/gogpu/starmap"
	"github.com/gogpu/starmap/backend"
	"github.com/gogpu/starmap/internal/atlas"
	"github.com/gogpu/starmap/internal/shade"
	"github.com/gogpu/starmap/shader"
)

// defaultAtlasSize is the placeholder size of the atlas textures until
// the first real atlas upload replaces them. The quad and text bind
// groups always need something to sample.
const defaultAtlasSize = 1

// Device is the native backend.Device. One instance owns the HAL device
// and all pass pipelines; it is safe for concurrent use, though frames
// are inherently serial.
type Device struct {
	mu     sync.Mutex
	closed bool

	instance hal.Instance
	dev      hal.Device
	queue    hal.Queue

	passes  map[shader.Pass]*passPipeline
	sampler hal.Sampler

	// Static geometry shared by all frames: the unit-circle fan and its
	// triangle-list indices.
	fanBuf      hal.Buffer
	fanIndexBuf hal.Buffer

	quadIndices backend.QuadIndices

	targets renderTargets
	fontTex *atlasTexture
	uiTex   *atlasTexture

	frame *frameState
}

var _ backend.Device = (*Device)(nil)

// New opens the most capable available adapter through the Vulkan HAL
// backend, compiles every pass's shader and builds the pass pipelines.
func New() (*Device, error) {
	halBackend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("wgpu: vulkan backend not available")
	}
	instance, err := halBackend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create instance: %w", err)
	}

	d := &Device{instance: instance}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("wgpu: no GPU adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("wgpu: open device: %w", err)
	}
	d.dev = openDev.Device
	d.queue = openDev.Queue

	if err := d.createResources(); err != nil {
		d.releaseAll()
		return nil, err
	}

	starmap.Logger().Info("gpu device initialized",
		"adapter", selected.Info.Name,
		"type", selected.Info.DeviceType)
	return d, nil
}

func (d *Device) createResources() error {
	d.passes = make(map[shader.Pass]*passPipeline, len(shader.Passes))
	for _, p := range shader.Passes {
		pp, err := newPassPipeline(d.dev, p)
		if err != nil {
			return err
		}
		d.passes[p] = pp
	}

	sampler, err := d.dev.CreateSampler(&hal.SamplerDescriptor{
		Label:        "map_atlas_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeNearest,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create sampler: %w", err)
	}
	d.sampler = sampler

	fan := backend.CircleFan()
	fanBuf, err := d.dev.CreateBuffer(&hal.BufferDescriptor{
		Label: "map_circle_fan",
		Size:  uint64(len(fan)),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create fan buffer: %w", err)
	}
	d.fanBuf = fanBuf
	d.queue.WriteBuffer(fanBuf, 0, fan)

	fanIdx := indexBytes(fanIndices())
	fanIndexBuf, err := d.dev.CreateBuffer(&hal.BufferDescriptor{
		Label: "map_circle_fan_indices",
		Size:  uint64(len(fanIdx)),
		Usage: gputypes.BufferUsageIndex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create fan index buffer: %w", err)
	}
	d.fanIndexBuf = fanIndexBuf
	d.queue.WriteBuffer(fanIndexBuf, 0, fanIdx)

	d.fontTex, err = newAtlasTexture(d.dev, "map_font_atlas", defaultAtlasSize, defaultAtlasSize, atlas.FormatAlpha)
	if err != nil {
		return fmt.Errorf("wgpu: %w", err)
	}
	d.uiTex, err = newAtlasTexture(d.dev, "map_texture_atlas", defaultAtlasSize, defaultAtlasSize, atlas.FormatRGBA)
	if err != nil {
		return fmt.Errorf("wgpu: %w", err)
	}
	return nil
}

// BeginFrame opens a frame. The previous frame must have ended.
func (d *Device) BeginFrame(u backend.FrameUniforms) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return backend.ErrClosed
	}
	if d.frame != nil {
		return fmt.Errorf("wgpu: frame already in progress")
	}
	if u.WindowSize.X < 1 || u.WindowSize.Y < 1 {
		return backend.ErrZeroWindow
	}
	d.frame = &frameState{
		uniforms: u,
		width:    uint32(u.WindowSize.X),
		height:   uint32(u.WindowSize.Y),
	}
	if d.dev != nil {
		if err := d.targets.ensure(d.dev, d.frame.width, d.frame.height); err != nil {
			d.frame = nil
			return fmt.Errorf("wgpu: %w", err)
		}
	}
	return nil
}

// DrawMarkers draws packed MarkerInstance records with the falloff
// marker shader.
func (d *Device) DrawMarkers(instances []byte, count int, style shade.Style) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.guardDraw(shader.Markers, instances, count); err != nil || count <= 0 || d.dev == nil {
		return err
	}
	return d.recordInstanced(shader.Markers, instances, count,
		packMapUniforms(d.frame.uniforms, float32(style)))
}

// DrawMarkersPlain draws packed MarkerInstance records with the plain
// disc shader.
func (d *Device) DrawMarkersPlain(instances []byte, count int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.guardDraw(shader.MarkersPlain, instances, count); err != nil || count <= 0 || d.dev == nil {
		return err
	}
	return d.recordInstanced(shader.MarkersPlain, instances, count,
		packMapUniforms(d.frame.uniforms, 0))
}

// DrawJumps draws packed LineVertex quads with the depth test enabled.
func (d *Device) DrawJumps(vertices []byte, quadCount int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.guardDraw(shader.Jumps, vertices, quadCount*4); err != nil || quadCount <= 0 || d.dev == nil {
		return err
	}
	return d.recordQuads(shader.Jumps, vertices, quadCount,
		packMapUniforms(d.frame.uniforms, 0), nil)
}

// DrawQuads draws packed QuadVertex quads with a uniform tint.
func (d *Device) DrawQuads(vertices []byte, quadCount int, tint shade.RGBA, textured bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.guardDraw(shader.Quads, vertices, quadCount*4); err != nil || quadCount <= 0 || d.dev == nil {
		return err
	}
	return d.recordQuads(shader.Quads, vertices, quadCount,
		packQuadUniforms(d.frame.uniforms, tint, textured), d.uiTex.view)
}

// DrawText draws packed TextVertex quads sampling the font atlas.
func (d *Device) DrawText(vertices []byte, quadCount int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.guardDraw(shader.Text, vertices, quadCount*4); err != nil || quadCount <= 0 || d.dev == nil {
		return err
	}
	return d.recordQuads(shader.Text, vertices, quadCount,
		packTextUniforms(d.frame.uniforms), d.fontTex.view)
}

// guardDraw validates draw-call preconditions: the device is open, a
// frame is in progress, and the data covers the declared record count.
func (d *Device) guardDraw(p shader.Pass, data []byte, records int) error {
	if d.closed {
		return backend.ErrClosed
	}
	if d.frame == nil {
		return backend.ErrFrameNotBegun
	}
	if records > 0 && len(data) < records*passStride(p) {
		return fmt.Errorf("wgpu: %v: %d records need %d bytes, got %d",
			p, records, records*passStride(p), len(data))
	}
	return nil
}

// UpdateFontAtlas uploads the font atlas's dirty region, recreating the
// GPU texture when the atlas was resized.
func (d *Device) UpdateFontAtlas(img *atlas.Image) error {
	return d.updateAtlas(img, &d.fontTex, "map_font_atlas")
}

// UpdateTextureAtlas uploads the UI atlas's dirty region.
func (d *Device) UpdateTextureAtlas(img *atlas.Image) error {
	return d.updateAtlas(img, &d.uiTex, "map_texture_atlas")
}

func (d *Device) updateAtlas(img *atlas.Image, slot **atlasTexture, label string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return backend.ErrClosed
	}
	if img == nil || d.dev == nil {
		return nil
	}

	if !(*slot).matches(img) {
		replacement, err := newAtlasTexture(d.dev, label, img.Width(), img.Height(), img.Format())
		if err != nil {
			return fmt.Errorf("wgpu: %w", err)
		}
		(*slot).destroy(d.dev)
		*slot = replacement
		// A fresh texture needs the whole atlas, not just the dirty
		// rectangle.
		(*slot).upload(d.queue, img, atlas.Region{Width: img.Width(), Height: img.Height()})
		img.TakeDirty()
		return nil
	}

	if r, dirty := img.TakeDirty(); dirty {
		(*slot).upload(d.queue, img, r)
	}
	return nil
}

// Close releases all GPU resources. Safe to call more than once.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	d.frame = nil
	d.releaseAll()
	return nil
}

func (d *Device) releaseAll() {
	if d.dev != nil {
		if d.fontTex != nil {
			d.fontTex.destroy(d.dev)
			d.fontTex = nil
		}
		if d.uiTex != nil {
			d.uiTex.destroy(d.dev)
			d.uiTex = nil
		}
		d.targets.destroy(d.dev)
		if d.fanIndexBuf != nil {
			d.dev.DestroyBuffer(d.fanIndexBuf)
			d.fanIndexBuf = nil
		}
		if d.fanBuf != nil {
			d.dev.DestroyBuffer(d.fanBuf)
			d.fanBuf = nil
		}
		if d.sampler != nil {
			d.dev.DestroySampler(d.sampler)
			d.sampler = nil
		}
		for _, pp := range d.passes {
			pp.destroy(d.dev)
		}
		d.passes = nil
		d.dev.Destroy()
		d.dev = nil
		d.queue = nil
	}
	if d.instance != nil {
		d.instance.Destroy()
		d.instance = nil
	}
}
