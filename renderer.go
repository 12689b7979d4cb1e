package starmap

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/starmap/backend"
	"github.com/gogpu/starmap/internal/atlas"
	"github.com/gogpu/starmap/internal/shade"
	"github.com/gogpu/starmap/internal/xform"
)

// overlayBatch is one queued UI quad draw.
type overlayBatch struct {
	vertices []byte
	quads    int
	tint     shade.RGBA
	textured bool
}

// Renderer turns a Scene into frames on a backend Device. Per-frame
// overlay content (UI quads, text) is queued between frames and consumed
// by RenderFrame; scene buffers come from the Scene's own caches.
//
// Draw order within a frame is fixed back to front: sovereignty discs,
// jump lines, system markers, UI quads, text. Only the jump pass is
// depth tested, so route lines sort above regular lines while everything
// else composites in submission order.
type Renderer struct {
	dev   backend.Device
	style shade.Style

	fontAtlas    *atlas.Image
	textureAtlas *atlas.Image

	overlays  []overlayBatch
	text      []byte
	textQuads int
}

// NewRenderer creates a renderer drawing through dev with the given
// marker falloff style.
func NewRenderer(dev backend.Device, style shade.Style) *Renderer {
	return &Renderer{dev: dev, style: style}
}

// SetFalloffStyle switches the marker falloff style for subsequent
// frames.
func (r *Renderer) SetFalloffStyle(style shade.Style) { r.style = style }

// SetFontAtlas installs the glyph atlas whose dirty regions are uploaded
// before each frame.
func (r *Renderer) SetFontAtlas(img *atlas.Image) { r.fontAtlas = img }

// SetTextureAtlas installs the UI texture atlas.
func (r *Renderer) SetTextureAtlas(img *atlas.Image) { r.textureAtlas = img }

// QueueQuads queues one batch of packed QuadVertex records for the next
// frame. Batches draw in queue order, after the map passes.
func (r *Renderer) QueueQuads(vertices []byte, quadCount int, tint shade.RGBA, textured bool) {
	if quadCount <= 0 {
		return
	}
	r.overlays = append(r.overlays, overlayBatch{
		vertices: vertices,
		quads:    quadCount,
		tint:     tint,
		textured: textured,
	})
}

// QueueText queues packed TextVertex records for the next frame. Text
// draws last, above all overlays.
func (r *Renderer) QueueText(vertices []byte, quadCount int) {
	if quadCount <= 0 {
		return
	}
	r.text = append(r.text, vertices...)
	r.textQuads += quadCount
}

// RenderFrame draws one frame of the scene for the given camera and
// window size, then consumes the queued overlays. Atlas uploads happen
// before the frame begins so no pass samples a half-updated texture.
//
// A backend.ErrZeroWindow from the device is passed through; callers
// should skip the frame and retry after resize. Queued overlays are
// dropped either way so a failed frame does not leak into the next.
func (r *Renderer) RenderFrame(scene *Scene, cam xform.Camera, w, h float32) error {
	defer r.resetQueues()

	if r.fontAtlas != nil {
		if err := r.dev.UpdateFontAtlas(r.fontAtlas); err != nil {
			return fmt.Errorf("font atlas upload: %w", err)
		}
	}
	if r.textureAtlas != nil {
		if err := r.dev.UpdateTextureAtlas(r.textureAtlas); err != nil {
			return fmt.Errorf("texture atlas upload: %w", err)
		}
	}

	u := backend.Uniforms(cam, w, h)
	if err := r.dev.BeginFrame(u); err != nil {
		return err
	}

	sov, sovCount := scene.Sovereignty()
	lines, jumpQuads := scene.JumpLines()
	markers, markerCount := scene.Markers()

	Logger().Debug("render frame",
		slog.Int("markers", markerCount),
		slog.Int("jumps", jumpQuads),
		slog.Int("sov", sovCount),
		slog.Int("overlays", len(r.overlays)),
		slog.Int("text_quads", r.textQuads),
	)

	if sovCount > 0 {
		if err := r.dev.DrawMarkersPlain(sov, sovCount); err != nil {
			return fmt.Errorf("sovereignty pass: %w", err)
		}
	}
	if jumpQuads > 0 {
		if err := r.dev.DrawJumps(lines, jumpQuads); err != nil {
			return fmt.Errorf("jump pass: %w", err)
		}
	}
	if markerCount > 0 {
		if err := r.dev.DrawMarkers(markers, markerCount, r.style); err != nil {
			return fmt.Errorf("marker pass: %w", err)
		}
	}
	for _, b := range r.overlays {
		if err := r.dev.DrawQuads(b.vertices, b.quads, b.tint, b.textured); err != nil {
			return fmt.Errorf("quad pass: %w", err)
		}
	}
	if r.textQuads > 0 {
		if err := r.dev.DrawText(r.text, r.textQuads); err != nil {
			return fmt.Errorf("text pass: %w", err)
		}
	}

	return r.dev.EndFrame()
}

func (r *Renderer) resetQueues() {
	r.overlays = r.overlays[:0]
	r.text = r.text[:0]
	r.textQuads = 0
}

// Close releases the underlying device.
func (r *Renderer) Close() error { return r.dev.Close() }

// LabelAnchor returns the pixel position where a system's label should
// be anchored: just right of the marker's rim at the current zoom.
func LabelAnchor(sys System, cam xform.Camera, w, h float32) xform.Vec2 {
	p := cam.WorldToPixel(sys.Position, w, h)
	p.X += markerRadius + 2
	return p
}
