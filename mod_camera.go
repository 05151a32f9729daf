package voxsculpt

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// OrbitCamera circles the sculpture at a fixed distance. Auto-rotation
// is the engine's pass-through SetAutoRotate toggle.
type OrbitCamera struct {
	Target   mgl32.Vec3
	Distance float32
	Yaw      float32 // degrees
	Pitch    float32 // degrees

	RotateSpeed float32 // degrees per second while auto-rotating

	Fov    float32
	Near   float32
	Far    float32
	Aspect float32

	ViewProj mgl32.Mat4
}

type OrbitCameraModule struct {
	Distance float32
}

func (m OrbitCameraModule) Install(app *App, cmd *Commands) {
	distance := m.Distance
	if distance <= 0 {
		distance = 40
	}
	cmd.AddResources(&OrbitCamera{
		Target:      mgl32.Vec3{0, 6, 0},
		Distance:    distance,
		Pitch:       -20,
		RotateSpeed: 12,
		Fov:         55,
		Near:        0.1,
		Far:         500,
		Aspect:      16.0 / 9.0,
	})
	app.UseSystem(System(orbitCameraSystem).InStage(PreRender))
}

func orbitCameraSystem(cam *OrbitCamera, engine *Engine, tm *Time) {
	if engine.AutoRotate() {
		cam.Yaw += cam.RotateSpeed * float32(tm.Dt.Seconds())
		if cam.Yaw >= 360 {
			cam.Yaw -= 360
		}
	}

	yaw := float64(mgl32.DegToRad(cam.Yaw))
	pitch := float64(mgl32.DegToRad(cam.Pitch))

	eye := mgl32.Vec3{
		cam.Target.X() + cam.Distance*float32(math.Cos(pitch)*math.Sin(yaw)),
		cam.Target.Y() - cam.Distance*float32(math.Sin(pitch)),
		cam.Target.Z() + cam.Distance*float32(math.Cos(pitch)*math.Cos(yaw)),
	}

	view := mgl32.LookAtV(eye, cam.Target, mgl32.Vec3{0, 1, 0})
	proj := mgl32.Perspective(mgl32.DegToRad(cam.Fov), cam.Aspect, cam.Near, cam.Far)
	cam.ViewProj = proj.Mul4(view)
}
