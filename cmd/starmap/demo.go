package main

import (
	"math"
	"math/rand"

	"github.com/gogpu/starmap"
	"github.com/gogpu/starmap/internal/xform"
)

// demoNames are the labeled hub systems of the generated map.
var demoNames = map[int32]string{
	0: "Auriga",
	1: "Bastion",
	2: "Caldera",
	3: "Drift",
	4: "Ember",
	5: "Farpoint",
}

var demoLabelIDs = []int32{0, 1, 2, 3, 4, 5}

// demoScene generates a deterministic map: six hub systems on a ring,
// each with a small cluster of satellites, gates between neighbouring
// hubs and a route from the player's hub across the ring.
func demoScene() *starmap.Scene {
	rng := rand.New(rand.NewSource(7))

	const hubs = 6
	const satellites = 7
	const ringRadius = 120.0
	const clusterRadius = 45.0

	var systems []starmap.System
	var jumps []starmap.Jump

	for hub := 0; hub < hubs; hub++ {
		angle := 2 * math.Pi * float64(hub) / hubs
		center := xform.V2(
			float32(ringRadius*math.Cos(angle)),
			float32(ringRadius*math.Sin(angle)),
		)

		sec := float64(hub) / (hubs - 1)
		hubSys := starmap.System{
			ID:             int32(hub),
			Position:       center,
			SecurityStatus: sec,
		}
		// Alternate hubs hold sovereignty, swinging from friendly to
		// hostile around the ring.
		if hub%2 == 0 {
			standing := 1 - sec*2
			hubSys.Sovereignty = &standing
		}
		systems = append(systems, hubSys)

		for sat := 0; sat < satellites; sat++ {
			id := int32(hubs + hub*satellites + sat)
			off := xform.V2(
				float32((rng.Float64()*2-1)*clusterRadius),
				float32((rng.Float64()*2-1)*clusterRadius),
			)
			systems = append(systems, starmap.System{
				ID:             id,
				Position:       center.Add(off),
				SecurityStatus: clamp01(sec + (rng.Float64()*0.3 - 0.15)),
			})
			jumps = append(jumps, starmap.Jump{
				Left:  int32(hub),
				Right: id,
				Kind:  starmap.JumpSystem,
			})
		}

		next := int32((hub + 1) % hubs)
		jumps = append(jumps, starmap.Jump{
			Left:  int32(hub),
			Right: next,
			Kind:  starmap.JumpConstellation,
		})
	}

	// A gate shortcut across the ring and a wormhole out of the last
	// cluster, so every jump kind shows up.
	jumps = append(jumps,
		starmap.Jump{Left: 0, Right: 3, Kind: starmap.JumpGate},
		starmap.Jump{Left: 5, Right: int32(hubs + 5*satellites), Kind: starmap.JumpWormhole},
	)

	// Route from the player's hub to the far side of the ring.
	route := []int32{0, 1, 2, 3}
	for i := 0; i < len(route)-1; i++ {
		jumps = append(jumps, starmap.Jump{
			Left:    route[i],
			Right:   route[i+1],
			Kind:    starmap.JumpConstellation,
			OnRoute: true,
		})
	}

	scene := starmap.NewScene()
	scene.SetSystems(systems)
	scene.SetJumps(jumps)
	scene.SetPlayerLocation(0)
	scene.Select(3)
	scene.SetFocused(route)
	return scene
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}
