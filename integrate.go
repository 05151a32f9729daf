package voxsculpt

import "github.com/go-gl/mathgl/mgl32"

const (
	// Downward acceleration applied to falling debris, in voxel units
	// per second squared.
	gravityY = -25.0

	// Per-tick horizontal drag on falling debris.
	fallDamping = 0.985

	// Per-tick fraction of the remaining distance covered once a voxel
	// unlocks. A fixed-rate first-order low-pass, not a spring: it
	// converges monotonically and FinishRebuild can snap the remainder.
	lerpRate = 0.18

	// Depth below which a voxel is treated as out of the scene and
	// hidden by the render bridge.
	floorHide = -12.0

	// Parking depth for rubble.
	rubbleDepth = -50.0

	// Position tolerance for the implicit completion check.
	convergeEps = 0.01

	// Wall-clock span over which an autonomous rebuild unlocks its
	// targets, bottom rank to top.
	autoUnlockSeconds = 6.0
)

// integrateFall applies the debris rule: gravity into velocity,
// velocity into position, angular velocity into rotation, horizontal
// drag on the way. No floor collision; the render bridge hides
// anything past floorHide.
func integrateFall(v *SimulationVoxel, dt float32) {
	v.Velocity = mgl32.Vec3{
		v.Velocity.X() * fallDamping,
		v.Velocity.Y() + gravityY*dt,
		v.Velocity.Z() * fallDamping,
	}
	v.Position = v.Position.Add(v.Velocity.Mul(dt))
	v.Rotation = v.Rotation.Add(v.AngularVelocity.Mul(dt))
}

// approachTarget moves an unlocked voxel a fixed fraction of the way
// toward its target and eases its rotation back to zero.
func approachTarget(v *SimulationVoxel, t RebuildTarget) {
	v.Velocity = mgl32.Vec3{}
	v.Position = v.Position.Add(t.Position.Sub(v.Position).Mul(lerpRate))
	v.Rotation = v.Rotation.Sub(v.Rotation.Mul(lerpRate))
	v.AngularVelocity = mgl32.Vec3{}
}

// pinRubble holds an unmatched voxel at its parking depth.
func pinRubble(v *SimulationVoxel) {
	if v.Position.Y() > rubbleDepth {
		v.Position = mgl32.Vec3{v.Position.X(), rubbleDepth, v.Position.Z()}
	}
	v.Velocity = mgl32.Vec3{}
	v.AngularVelocity = mgl32.Vec3{}
}
