package starmap

import (
	"sync"

	"github.com/gogpu/starmap/backend"
	"github.com/gogpu/starmap/internal/shade"
	"github.com/gogpu/starmap/internal/xform"
)

// Marker geometry constants. Scale steps express selection emphasis;
// radius is the base marker size fed through the shader's zoom clamp.
const (
	markerRadius   = 5.0
	sovRadius      = 25.0
	sovScale       = 8.0
	sovAlpha       = 0.65
	focusDimAlpha  = 0.1
	scaleNormal    = 1.0
	scaleFocused   = 2.0
	scalePlayer    = 4.0
	routeLevel     = 1.0
	offRouteLevel  = 0.5
	selectedBright = 0.1
)

// System is one map system.
type System struct {
	ID       int32
	Position xform.Vec2
	// SecurityStatus in [0, 1] drives the marker color ramp.
	SecurityStatus float64
	// Sovereignty holds the owner standing for systems with sovereignty;
	// nil means none and no disc is drawn.
	Sovereignty *float64
}

// Jump is one connection between two systems.
type Jump struct {
	Left, Right int32
	Kind        JumpKind
	// OnRoute marks jumps on the active route: drawn in the endpoint
	// security colors at the route depth level, above regular jumps.
	OnRoute bool
}

// Scene holds the map state and lazily builds the packed draw buffers
// the backends consume. Mutators invalidate the affected buffers; the
// next Build call reconstructs them. All buffers are fully rebuilt
// before a frame's draw calls are issued, never mid-frame.
//
// Scene is safe for concurrent use.
type Scene struct {
	mu sync.Mutex

	systems map[int32]System
	jumps   []Jump

	selected  int32
	hasSel    bool
	player    int32
	hasPlayer bool
	focused   map[int32]struct{}

	markers     []byte
	markerCount int
	sov         []byte
	sovCount    int
	lines       []byte
	jumpQuads   int
}

// NewScene creates an empty scene.
func NewScene() *Scene {
	return &Scene{
		systems: make(map[int32]System),
		focused: make(map[int32]struct{}),
	}
}

// SetSystems replaces the system set.
func (s *Scene) SetSystems(systems []System) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.systems = make(map[int32]System, len(systems))
	for _, sys := range systems {
		s.systems[sys.ID] = sys
	}
	s.invalidateAll()
}

// SetJumps replaces the jump set.
func (s *Scene) SetJumps(jumps []Jump) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jumps = append(s.jumps[:0], jumps...)
	s.lines = nil
}

// Select marks one system as selected; a negative id clears the
// selection. Selection affects marker highlights and brightens the
// selected system's jump endpoints.
func (s *Scene) Select(id int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	has := id >= 0
	if has == s.hasSel && id == s.selected {
		return
	}
	s.selected, s.hasSel = id, has
	s.markers = nil
	s.lines = nil
}

// SetPlayerLocation marks the player's current system; a negative id
// clears it. The player system gets the cyan highlight ring and the
// largest marker scale.
func (s *Scene) SetPlayerLocation(id int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.player, s.hasPlayer = id, id >= 0
	s.markers = nil
}

// SetFocused replaces the focused-system set (route previews, search
// results). With a non-empty focus set, unfocused markers dim to a
// tenth of their alpha.
func (s *Scene) SetFocused(ids []int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.focused = make(map[int32]struct{}, len(ids))
	for _, id := range ids {
		s.focused[id] = struct{}{}
	}
	s.markers = nil
}

// System returns the system with the given id.
func (s *Scene) System(id int32) (System, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sys, ok := s.systems[id]
	return sys, ok
}

// SystemAt returns the id of the system closest to the given pixel
// position for the current view, within a zoom-scaled pick distance.
// Used for pointer hover and click selection.
func (s *Scene) SystemAt(p xform.Vec2, cam xform.Camera, w, h float32) (int32, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	best := int32(0)
	bestDist := float32(0)
	found := false
	for _, sys := range s.systems {
		pos := cam.WorldToPixel(sys.Position, w, h)
		d := pos.DistanceSquared(p)
		if !found || d < bestDist {
			best, bestDist, found = sys.ID, d, true
		}
	}
	if !found {
		return 0, false
	}

	// The pick radius grows with zoom so dense clusters stay clickable
	// when zoomed in.
	pick := min(max(cam.Zoom/25, 1), 25) * 8
	if bestDist > pick*pick {
		return 0, false
	}
	return best, true
}

func (s *Scene) invalidateAll() {
	s.markers = nil
	s.sov = nil
	s.lines = nil
}

// Markers returns the packed marker instances and their count,
// rebuilding them if a mutator invalidated the cache.
func (s *Scene) Markers() ([]byte, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.markers == nil {
		s.buildMarkers()
	}
	return s.markers, s.markerCount
}

// Sovereignty returns the packed sovereignty disc instances.
func (s *Scene) Sovereignty() ([]byte, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sov == nil {
		s.buildSov()
	}
	return s.sov, s.sovCount
}

// JumpLines returns the packed jump-line vertices and the quad count.
func (s *Scene) JumpLines() ([]byte, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lines == nil {
		s.buildJumps()
	}
	return s.lines, s.jumpQuads
}

func (s *Scene) buildMarkers() {
	buf := make([]byte, 0, len(s.systems)*backend.MarkerInstanceStride)
	count := 0
	for _, sys := range s.systems {
		isSelected := s.hasSel && sys.ID == s.selected
		isPlayer := s.hasPlayer && sys.ID == s.player
		_, isFocused := s.focused[sys.ID]

		var highlight shade.RGBA
		switch {
		case isPlayer:
			highlight = shade.RGBA{R: 0, G: 1, B: 1, A: 1}
		case isFocused || isSelected:
			highlight = shade.RGBA{R: 1, G: 1, B: 1, A: 1}
		}

		alpha := float32(1)
		if len(s.focused) > 0 && !isFocused && !isSelected {
			alpha = focusDimAlpha
		}

		scale := float32(scaleNormal)
		if isPlayer {
			scale = scalePlayer
		} else if isFocused {
			scale = scaleFocused
		}

		c := SecStatusColor(sys.SecurityStatus)
		buf = backend.AppendMarkerInstance(buf, backend.MarkerInstance{
			Color:     shade.RGBA{R: c.X, G: c.Y, B: c.Z, A: alpha},
			Highlight: highlight,
			Center:    sys.Position,
			Scale:     scale,
			Radius:    markerRadius,
		})
		count++
	}
	s.markers = buf
	s.markerCount = count
}

func (s *Scene) buildSov() {
	buf := make([]byte, 0, 64*backend.MarkerInstanceStride)
	count := 0
	for _, sys := range s.systems {
		if sys.Sovereignty == nil {
			continue
		}
		c := StandingColor(*sys.Sovereignty)
		buf = backend.AppendMarkerInstance(buf, backend.MarkerInstance{
			Color:  shade.RGBA{R: c.X, G: c.Y, B: c.Z, A: sovAlpha},
			Center: sys.Position,
			Scale:  sovScale,
			Radius: sovRadius,
		})
		count++
	}
	s.sov = buf
	s.sovCount = count
}

func (s *Scene) buildJumps() {
	buf := make([]byte, 0, len(s.jumps)*4*backend.LineVertexStride)
	quads := 0
	for _, j := range s.jumps {
		left, lok := s.systems[j.Left]
		right, rok := s.systems[j.Right]
		if !lok || !rok {
			continue
		}
		// Zero-length jumps have no direction for the extrusion normal
		// and no visible area; guard locally and move on.
		dir := right.Position.Sub(left.Position)
		if dir.Length() == 0 {
			continue
		}

		var leftColor, rightColor xform.Vec3
		if j.OnRoute {
			leftColor = SecStatusColor(left.SecurityStatus)
			rightColor = SecStatusColor(right.SecurityStatus)
		} else {
			leftColor = JumpKindColor(j.Kind)
			rightColor = leftColor
		}
		if s.hasSel && j.Left == s.selected {
			leftColor = leftColor.Add(xform.V3(selectedBright, selectedBright, selectedBright))
		}
		if s.hasSel && j.Right == s.selected {
			rightColor = rightColor.Add(xform.V3(selectedBright, selectedBright, selectedBright))
		}

		level := float32(offRouteLevel)
		if j.OnRoute {
			level = routeLevel
		}

		n := dir.Perp().Normalize()
		nn := n.Mul(-1)

		lp := left.Position.Expand(level)
		rp := right.Position.Expand(level)

		// Four corners, indexed (0,1,2)(1,2,3): the normal flips across
		// the quad so its interpolated length hits zero on the
		// centerline, where the fragment fade peaks.
		buf = backend.AppendLineVertex(buf, backend.LineVertex{Position: lp, Normal: n, Color: leftColor})
		buf = backend.AppendLineVertex(buf, backend.LineVertex{Position: rp, Normal: nn, Color: rightColor})
		buf = backend.AppendLineVertex(buf, backend.LineVertex{Position: lp, Normal: nn, Color: leftColor})
		buf = backend.AppendLineVertex(buf, backend.LineVertex{Position: rp, Normal: n, Color: rightColor})
		quads++
	}
	s.lines = buf
	s.jumpQuads = quads
}
