package starmap

import "github.com/gogpu/starmap/internal/xform"

// Zoom limits and easing. The zoom animates toward its target with an
// exponential step so wheel input feels smooth at any frame rate.
const (
	MinZoom = 0.25
	MaxZoom = 100.0

	zoomEaseRate = 12.0
)

// View is the interactive camera controller: it owns the camera, clamps
// zoom to the usable range and eases it toward a wheel-driven target.
// View is not safe for concurrent use; drive it from the event loop.
type View struct {
	cam        xform.Camera
	targetZoom float32
}

// NewView creates a view at the origin with zoom 1.
func NewView() *View {
	return &View{
		cam:        xform.Camera{Zoom: 1},
		targetZoom: 1,
	}
}

// Camera returns the current camera state.
func (v *View) Camera() xform.Camera { return v.cam }

// TargetZoom returns the zoom level the camera is easing toward.
func (v *View) TargetZoom() float32 { return v.targetZoom }

// LookAt centers the view on a world position.
func (v *View) LookAt(p xform.Vec2) {
	v.cam.Offset = p
}

// ZoomBy scales the target zoom by factor, clamped to [MinZoom, MaxZoom].
// The camera catches up over the following Step calls.
func (v *View) ZoomBy(factor float32) {
	v.targetZoom = clampZoom(v.targetZoom * factor)
}

// SetZoom jumps both the camera and its target to the given zoom,
// clamped, with no easing.
func (v *View) SetZoom(zoom float32) {
	zoom = clampZoom(zoom)
	v.cam.Zoom = zoom
	v.targetZoom = zoom
}

// Pan moves the camera so the world point under the pixel from follows
// the pointer to the pixel to. Used for drag panning.
func (v *View) Pan(from, to xform.Vec2, w, h float32) {
	a := v.cam.PixelToWorld(from, w, h)
	b := v.cam.PixelToWorld(to, w, h)
	v.cam.Offset.X -= b.X - a.X
	v.cam.Offset.Y += b.Y - a.Y
}

// Step advances the zoom easing by dt seconds. Returns true while the
// camera is still moving, so callers know to keep redrawing.
func (v *View) Step(dt float32) bool {
	diff := v.targetZoom - v.cam.Zoom
	if diff == 0 {
		return false
	}
	t := dt * zoomEaseRate
	if t >= 1 {
		t = 1
	}
	v.cam.Zoom += diff * t
	// Snap once the remainder is invisible, so Step settles instead of
	// chasing an asymptote forever.
	if rel := (v.targetZoom - v.cam.Zoom) / v.targetZoom; rel > -1e-4 && rel < 1e-4 {
		v.cam.Zoom = v.targetZoom
		return false
	}
	return true
}

func clampZoom(z float32) float32 {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}
