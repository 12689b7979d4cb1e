package wgpu

import (
	"errors"
	"testing"

	"github.com/gogpu/starmap/backend"
	"github.com/gogpu/starmap/internal/shade"
	"github.com/gogpu/starmap/internal/xform"
)

// The state machine is exercised on a device without GPU resources; all
// HAL interaction is skipped, validation is not.

func frameUniforms(w, h float32) backend.FrameUniforms {
	return backend.Uniforms(xform.Camera{Zoom: 1}, w, h)
}

func TestDrawOutsideFrame(t *testing.T) {
	d := &Device{}
	if err := d.DrawMarkers(make([]byte, backend.MarkerInstanceStride), 1, shade.StyleInversePower); !errors.Is(err, backend.ErrFrameNotBegun) {
		t.Errorf("DrawMarkers outside frame = %v, want ErrFrameNotBegun", err)
	}
	if err := d.EndFrame(); !errors.Is(err, backend.ErrFrameNotBegun) {
		t.Errorf("EndFrame outside frame = %v, want ErrFrameNotBegun", err)
	}
}

func TestBeginFrameZeroWindow(t *testing.T) {
	d := &Device{}
	if err := d.BeginFrame(backend.FrameUniforms{}); !errors.Is(err, backend.ErrZeroWindow) {
		t.Errorf("BeginFrame with zero window = %v, want ErrZeroWindow", err)
	}
}

func TestFrameLifecycle(t *testing.T) {
	d := &Device{}
	if err := d.BeginFrame(frameUniforms(640, 480)); err != nil {
		t.Fatalf("BeginFrame = %v", err)
	}
	if err := d.BeginFrame(frameUniforms(640, 480)); err == nil {
		t.Error("nested BeginFrame succeeded")
	}

	// Empty draws are valid no-ops.
	if err := d.DrawMarkers(nil, 0, shade.StylePolynomial); err != nil {
		t.Errorf("empty DrawMarkers = %v", err)
	}
	if err := d.DrawJumps(nil, 0); err != nil {
		t.Errorf("empty DrawJumps = %v", err)
	}

	// Undersized buffers are caught before any GPU work.
	if err := d.DrawMarkers(make([]byte, 8), 1, shade.StylePolynomial); err == nil {
		t.Error("undersized DrawMarkers succeeded")
	}
	if err := d.DrawText(make([]byte, 8), 1); err == nil {
		t.Error("undersized DrawText succeeded")
	}

	if err := d.EndFrame(); err != nil {
		t.Fatalf("EndFrame = %v", err)
	}
	if err := d.EndFrame(); !errors.Is(err, backend.ErrFrameNotBegun) {
		t.Errorf("second EndFrame = %v, want ErrFrameNotBegun", err)
	}

	// The next frame opens cleanly.
	if err := d.BeginFrame(frameUniforms(640, 480)); err != nil {
		t.Fatalf("BeginFrame after EndFrame = %v", err)
	}
	if err := d.EndFrame(); err != nil {
		t.Fatalf("EndFrame = %v", err)
	}
}

func TestClosedDevice(t *testing.T) {
	d := &Device{}
	if err := d.Close(); err != nil {
		t.Fatalf("Close = %v", err)
	}
	if err := d.Close(); err != nil {
		t.Errorf("second Close = %v, want nil", err)
	}
	if err := d.BeginFrame(frameUniforms(100, 100)); !errors.Is(err, backend.ErrClosed) {
		t.Errorf("BeginFrame on closed device = %v, want ErrClosed", err)
	}
	if err := d.DrawQuads(nil, 0, shade.RGBA{}, false); !errors.Is(err, backend.ErrClosed) {
		t.Errorf("DrawQuads on closed device = %v, want ErrClosed", err)
	}
	if err := d.UpdateFontAtlas(nil); !errors.Is(err, backend.ErrClosed) {
		t.Errorf("UpdateFontAtlas on closed device = %v, want ErrClosed", err)
	}
}

func TestCloseDropsOpenFrame(t *testing.T) {
	d := &Device{}
	if err := d.BeginFrame(frameUniforms(100, 100)); err != nil {
		t.Fatal(err)
	}
	if err := d.Close(); err != nil {
		t.Fatal(err)
	}
	if err := d.EndFrame(); !errors.Is(err, backend.ErrClosed) {
		t.Errorf("EndFrame after Close = %v, want ErrClosed", err)
	}
}
