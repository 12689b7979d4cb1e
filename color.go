package starmap

import "github.com/gogpu/starmap/internal/xform"

// JumpKind classifies a jump connection between two systems.
type JumpKind int

const (
	// JumpSystem is a regular gate within one constellation.
	JumpSystem JumpKind = iota
	// JumpConstellation crosses a constellation border.
	JumpConstellation
	// JumpRegion crosses a region border.
	JumpRegion
	// JumpGate is a player-built jump gate.
	JumpGate
	// JumpWormhole is a wormhole connection.
	JumpWormhole
)

// SecStatusColor maps a security status in [0, 1] to the marker color
// ramp: blue-white at high security through green and yellow down to
// red at null. Inputs outside [0, 1] are clamped.
func SecStatusColor(sec float64) xform.Vec3 {
	s := float32(min(max(sec, 0), 1))

	var blue float32
	if s >= 0.9 {
		blue = 1
	}
	green := s
	if s >= 0.5 {
		green = 1
	}
	red := float32(1)
	if s >= 0.6 {
		red = 1 - s
	}
	return xform.V3(red, green, blue)
}

// StandingColor maps a sovereignty standing to the disc tint: gray for
// neutral, blues for positive standings, orange and red for negative.
func StandingColor(standing float64) xform.Vec3 {
	switch {
	case standing == 0:
		return xform.V3(0.5, 0.5, 0.5)
	case standing > 0.5:
		return xform.V3(0, 0.15, 1)
	case standing > 0:
		return xform.V3(0, 0.5, 1)
	case standing < -0.5:
		return xform.V3(1, 0.02, 0)
	default:
		return xform.V3(1, 0.5, 0)
	}
}

// JumpKindColor maps a jump kind to its line color for jumps that are
// not on the active route.
func JumpKindColor(kind JumpKind) xform.Vec3 {
	switch kind {
	case JumpRegion:
		return xform.V3(0.1, 0, 0.15)
	case JumpConstellation:
		return xform.V3(0.2, 0, 0)
	case JumpGate:
		return xform.V3(0, 0.2, 0)
	case JumpWormhole:
		return xform.V3(0.1, 0.15, 0)
	default:
		return xform.V3(0, 0, 1)
	}
}
