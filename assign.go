package voxsculpt

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// Color distance below which a candidate counts as an exact match
	// and the scan short-circuits.
	exactColorEps = 1.0

	// Delay assigned to rubble slots. Beyond any reachable progress so
	// they never unlock.
	rubbleDelay = 2.0
)

// assignTargets maps every store slot to a destination in the new
// model. Targets are ranked by ascending height so the sculpture grows
// from the ground up; each target greedily claims the unclaimed voxel
// with the nearest color. Slots left over when the model is smaller
// than the store become rubble.
//
// The mapping is deterministic: identical store ordering and an
// identical model always produce the same claims and delays.
// Complexity is O(slots * targets), which is fine for a once-per-cycle
// operation.
func (e *Engine) assignTargets(model []VoxelData) []RebuildTarget {
	rank := make([]int, len(model))
	for i := range rank {
		rank[i] = i
	}
	sort.SliceStable(rank, func(a, b int) bool {
		return model[rank[a]].Y < model[rank[b]].Y
	})

	targets := make([]RebuildTarget, len(e.voxels))
	claimed := make([]bool, len(e.voxels))
	total := float32(len(model))

	for order, mi := range rank {
		target := model[mi]

		best := -1
		var bestDist float32
		for vi := range e.voxels {
			if claimed[vi] {
				continue
			}
			d := e.voxels[vi].Color.DistanceSq(target.Color)
			if best == -1 || d < bestDist {
				best = vi
				bestDist = d
			}
			if d < exactColorEps {
				best = vi
				break
			}
		}
		// growStore ran before us, so a free slot always exists.
		claimed[best] = true
		e.voxels[best].Color = target.Color
		targets[best] = RebuildTarget{
			Position: mgl32.Vec3{float32(target.X), float32(target.Y), float32(target.Z)},
			Delay:    float32(order) / total,
		}
	}

	for vi := range e.voxels {
		if claimed[vi] {
			continue
		}
		pos := e.voxels[vi].Position
		targets[vi] = RebuildTarget{
			Position: mgl32.Vec3{pos.X(), rubbleDepth, pos.Z()},
			Delay:    rubbleDelay,
			Rubble:   true,
		}
	}
	return targets
}
