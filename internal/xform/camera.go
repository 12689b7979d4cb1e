package xform

// Camera describes the map viewport: a pan offset in world units and a
// zoom factor. The matrices derived from it feed every world-space pass,
// so all shapes, lines and labels stay aligned under pan and zoom.
type Camera struct {
	// Offset is the map pan position in world units.
	Offset Vec2
	// Zoom is the magnification factor. 1 shows the map at native scale.
	Zoom float32
}

// ViewMatrix returns the world-to-view transform for the camera:
// uniform zoom about the origin followed by the pan translation.
// The y offset is negated so that dragging the map up moves the
// content up in screen space.
func (c Camera) ViewMatrix() Mat3 {
	m := Identity()
	m.C0.X = c.Zoom
	m.C1.Y = c.Zoom
	m.C2.X = -c.Offset.X * c.Zoom
	m.C2.Y = c.Offset.Y * c.Zoom
	return m
}

// WindowScale returns the per-axis stretch of a w x h window relative to
// a square viewport: (w/h, 1) for landscape windows, (1, h/w) for
// portrait, (1, 1) for square. Dimensions of zero or less are clamped to
// one pixel so the matrices below stay finite.
func WindowScale(w, h float32) Vec2 {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	switch {
	case w > h:
		return Vec2{X: w / h, Y: 1}
	case h > w:
		return Vec2{X: 1, Y: h / w}
	default:
		return Vec2{X: 1, Y: 1}
	}
}

// ScaleMatrix returns the aspect-normalization transform for a w x h
// window: a diagonal matrix dividing by the window scale, so a unit
// circle in world space stays circular on screen regardless of the
// window's aspect ratio.
func ScaleMatrix(w, h float32) Mat3 {
	ws := WindowScale(w, h)
	m := Identity()
	m.C0.X = 1 / ws.X
	m.C1.Y = 1 / ws.Y
	return m
}

// ScreenMatrix returns the clip-to-pixel transform for a w x h window:
// clip (-1, 1) maps to pixel (0, 0) and clip (1, -1) to pixel (w, h).
// Composed as screen * scale * view it takes world positions straight to
// pixels, which is how label anchors and hit tests are computed.
func ScreenMatrix(w, h float32) Mat3 {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	m := Identity()
	m.C0.X = w / 2
	m.C1.Y = -h / 2
	m.C2.X = w / 2
	m.C2.Y = h / 2
	return m
}

// PixelToClip maps a pixel coordinate in a w x h window to clip space:
// (0, 0) maps to (-1, 1) and (w, h) to (1, -1), exactly at the corners.
func PixelToClip(p Vec2, w, h float32) Vec2 {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return Vec2{
		X: 2*p.X/w - 1,
		Y: 1 - 2*p.Y/h,
	}
}

// WorldToClip composes the camera's full world-to-clip transform for a
// w x h window: scale * view applied to the world position.
func (c Camera) WorldToClip(p Vec2, w, h float32) Vec2 {
	return ScaleMatrix(w, h).Mul(c.ViewMatrix()).ApplyPoint(p)
}

// WorldToPixel maps a world position to window pixels through
// screen * scale * view. Used for label placement and pointer hit tests.
func (c Camera) WorldToPixel(p Vec2, w, h float32) Vec2 {
	return ScreenMatrix(w, h).Mul(ScaleMatrix(w, h)).Mul(c.ViewMatrix()).ApplyPoint(p)
}

// PixelToWorld inverts WorldToPixel: the world position under a window
// pixel for this camera. A zoom of zero is treated as one so the inverse
// stays finite.
func (c Camera) PixelToWorld(p Vec2, w, h float32) Vec2 {
	zoom := c.Zoom
	if zoom == 0 {
		zoom = 1
	}
	clip := PixelToClip(p, w, h)
	ws := WindowScale(w, h)
	return Vec2{
		X: clip.X*ws.X/zoom + c.Offset.X,
		Y: clip.Y*ws.Y/zoom - c.Offset.Y,
	}
}
