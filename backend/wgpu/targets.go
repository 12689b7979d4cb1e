package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/starmap/internal/atlas"
)

// renderTargets is the offscreen frame target: an MSAA color texture,
// the depth/stencil texture backing the jump pass, and the single-sample
// resolve texture readback copies from. Recreated on resize.
type renderTargets struct {
	colorTex    hal.Texture
	colorView   hal.TextureView
	depthTex    hal.Texture
	depthView   hal.TextureView
	resolveTex  hal.Texture
	resolveView hal.TextureView
	width       uint32
	height      uint32
}

// ensure creates or recreates the targets for the given size. A no-op
// when the size is unchanged.
func (rt *renderTargets) ensure(dev hal.Device, w, h uint32) error {
	if rt.width == w && rt.height == h && rt.colorTex != nil {
		return nil
	}
	rt.destroy(dev)

	size := hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1}

	colorTex, err := dev.CreateTexture(&hal.TextureDescriptor{
		Label:         "map_msaa_color",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   sampleCount,
		Dimension:     gputypes.TextureDimension2D,
		Format:        colorFormat,
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("create color target: %w", err)
	}
	rt.colorTex = colorTex
	colorView, err := dev.CreateTextureView(colorTex, &hal.TextureViewDescriptor{Label: "map_msaa_color_view"})
	if err != nil {
		rt.destroy(dev)
		return fmt.Errorf("create color view: %w", err)
	}
	rt.colorView = colorView

	depthTex, err := dev.CreateTexture(&hal.TextureDescriptor{
		Label:         "map_depth",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   sampleCount,
		Dimension:     gputypes.TextureDimension2D,
		Format:        depthFormat,
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		rt.destroy(dev)
		return fmt.Errorf("create depth target: %w", err)
	}
	rt.depthTex = depthTex
	depthView, err := dev.CreateTextureView(depthTex, &hal.TextureViewDescriptor{Label: "map_depth_view"})
	if err != nil {
		rt.destroy(dev)
		return fmt.Errorf("create depth view: %w", err)
	}
	rt.depthView = depthView

	resolveTex, err := dev.CreateTexture(&hal.TextureDescriptor{
		Label:         "map_resolve",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        colorFormat,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		rt.destroy(dev)
		return fmt.Errorf("create resolve target: %w", err)
	}
	rt.resolveTex = resolveTex
	resolveView, err := dev.CreateTextureView(resolveTex, &hal.TextureViewDescriptor{Label: "map_resolve_view"})
	if err != nil {
		rt.destroy(dev)
		return fmt.Errorf("create resolve view: %w", err)
	}
	rt.resolveView = resolveView

	rt.width = w
	rt.height = h
	return nil
}

func (rt *renderTargets) destroy(dev hal.Device) {
	if dev == nil {
		return
	}
	if rt.resolveView != nil {
		dev.DestroyTextureView(rt.resolveView)
		rt.resolveView = nil
	}
	if rt.resolveTex != nil {
		dev.DestroyTexture(rt.resolveTex)
		rt.resolveTex = nil
	}
	if rt.depthView != nil {
		dev.DestroyTextureView(rt.depthView)
		rt.depthView = nil
	}
	if rt.depthTex != nil {
		dev.DestroyTexture(rt.depthTex)
		rt.depthTex = nil
	}
	if rt.colorView != nil {
		dev.DestroyTextureView(rt.colorView)
		rt.colorView = nil
	}
	if rt.colorTex != nil {
		dev.DestroyTexture(rt.colorTex)
		rt.colorTex = nil
	}
	rt.width = 0
	rt.height = 0
}

// atlasTexture is one sampled atlas on the GPU: the font coverage atlas
// as R8 or the UI atlas as RGBA8. Dirty regions upload through the
// queue as tight sub-rectangles.
type atlasTexture struct {
	tex    hal.Texture
	view   hal.TextureView
	width  int
	height int
	format atlas.Format
}

func textureFormat(f atlas.Format) gputypes.TextureFormat {
	if f == atlas.FormatRGBA {
		return gputypes.TextureFormatRGBA8Unorm
	}
	return gputypes.TextureFormatR8Unorm
}

func newAtlasTexture(dev hal.Device, label string, w, h int, format atlas.Format) (*atlasTexture, error) {
	tex, err := dev.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        textureFormat(format),
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s texture: %w", label, err)
	}
	view, err := dev.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         label + "_view",
		Format:        textureFormat(format),
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		dev.DestroyTexture(tex)
		return nil, fmt.Errorf("create %s view: %w", label, err)
	}
	return &atlasTexture{tex: tex, view: view, width: w, height: h, format: format}, nil
}

func (at *atlasTexture) destroy(dev hal.Device) {
	if dev == nil {
		return
	}
	if at.view != nil {
		dev.DestroyTextureView(at.view)
		at.view = nil
	}
	if at.tex != nil {
		dev.DestroyTexture(at.tex)
		at.tex = nil
	}
}

// matches reports whether the texture fits the atlas image's size and
// format.
func (at *atlasTexture) matches(img *atlas.Image) bool {
	return at.width == img.Width() && at.height == img.Height() && at.format == img.Format()
}

// upload writes one dirty region of img into the texture. The region's
// rows are copied out of the atlas backing store into a tight buffer
// first; WriteTexture wants contiguous rows.
func (at *atlasTexture) upload(queue hal.Queue, img *atlas.Image, r atlas.Region) {
	bpp := img.Format().BytesPerPixel()
	pixels := img.Pixels()
	rowBytes := r.Width * bpp
	tight := make([]byte, rowBytes*r.Height)
	for row := 0; row < r.Height; row++ {
		src := ((r.Y+row)*img.Width() + r.X) * bpp
		copy(tight[row*rowBytes:(row+1)*rowBytes], pixels[src:src+rowBytes])
	}

	queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  at.tex,
			MipLevel: 0,
			Origin:   hal.Origin3D{X: uint32(r.X), Y: uint32(r.Y), Z: 0},
			Aspect:   gputypes.TextureAspectAll,
		},
		tight,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(rowBytes),
			RowsPerImage: uint32(r.Height),
		},
		&hal.Extent3D{Width: uint32(r.Width), Height: uint32(r.Height), DepthOrArrayLayers: 1},
	)
}
