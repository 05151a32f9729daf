package voxsculpt

import "github.com/go-gl/mathgl/mgl32"

// InstanceBuffer is the flat per-slot transform and color data for one
// instanced draw call. It is reused frame to frame and only ever grows,
// so a steady-state frame performs no allocation.
type InstanceBuffer struct {
	Transforms []mgl32.Mat4
	Colors     []mgl32.Vec4
}

func (b *InstanceBuffer) resize(n int) {
	if cap(b.Transforms) < n {
		b.Transforms = make([]mgl32.Mat4, n)
		b.Colors = make([]mgl32.Vec4, n)
		return
	}
	b.Transforms = b.Transforms[:n]
	b.Colors = b.Colors[:n]
}

// Len is the instance count of the last write.
func (b *InstanceBuffer) Len() int { return len(b.Transforms) }

// WriteInstances fills buf with one transform and one color per slot
// and reports how many voxels are settled alongside the total slot
// count. Hidden voxels (rubble, below the floor cutoff) stay in the
// buffer scaled to zero; dropping them would force a buffer resize.
func (e *Engine) WriteInstances(buf *InstanceBuffer) (settled, total int) {
	buf.resize(len(e.voxels))

	p := e.progress()
	for i := range e.voxels {
		v := &e.voxels[i]
		t := e.targets[i]

		visible := !t.Rubble && v.Position.Y() > floorHide
		scale := float32(1)
		if !visible {
			scale = 0
		}

		m := mgl32.Translate3D(v.Position.X(), v.Position.Y(), v.Position.Z())
		if v.Rotation != (mgl32.Vec3{}) {
			m = m.Mul4(mgl32.HomogRotate3DX(v.Rotation.X())).
				Mul4(mgl32.HomogRotate3DY(v.Rotation.Y())).
				Mul4(mgl32.HomogRotate3DZ(v.Rotation.Z()))
		}
		if scale != 1 {
			m = m.Mul4(mgl32.Scale3D(scale, scale, scale))
		}
		buf.Transforms[i] = m

		c := v.Color
		buf.Colors[i] = mgl32.Vec4{
			float32(c.R()) / 255.0,
			float32(c.G()) / 255.0,
			float32(c.B()) / 255.0,
			1.0,
		}

		if visible && (e.phase != PhaseRebuilding || p >= t.Delay) {
			settled++
		}
	}
	return settled, len(e.voxels)
}
