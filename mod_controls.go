package voxsculpt

import (
	"time"
)

// ControlsModule binds the viewer's keyboard and mouse to the session
// and camera. Space toggles a focus session, D scatters the sculpture,
// N rebuilds into the next library model, A toggles auto-rotation and
// Escape quits. Dragging orbits the camera; the wheel zooms.
type ControlsModule struct {
	SessionLength time.Duration
}

func (mod ControlsModule) Install(app *App, cmd *Commands) {
	length := mod.SessionLength
	if length <= 0 {
		length = 25 * time.Minute
	}
	cmd.AddResources(&controlsConfig{sessionLength: length})
	app.UseSystem(System(controlsSystem).InStage(Update))
}

type controlsConfig struct {
	sessionLength time.Duration
	lastModel     ModelId
}

func controlsSystem(input *Input, cfg *controlsConfig, timer *FocusTimer, engine *Engine, lib *ModelLibrary, cam *OrbitCamera, cmd *Commands) {
	if input.JustPressed[KeyEscape] {
		cmd.Quit()
		return
	}

	if input.JustPressed[KeySpace] {
		if timer.State == TimerIdle {
			timer.Start(cfg.sessionLength)
		} else {
			timer.Stop()
		}
	}
	if input.JustPressed[KeyD] {
		engine.Dismantle()
	}
	if input.JustPressed[KeyN] {
		if id, ok := lib.Next(cfg.lastModel); ok {
			cfg.lastModel = id
			voxels, _ := lib.Get(id)
			engine.Rebuild(voxels, false)
		}
	}
	if input.JustPressed[KeyA] {
		engine.SetAutoRotate(!engine.AutoRotate())
	}

	if input.Dragging {
		cam.Yaw -= float32(input.MouseDeltaX) * 0.4
		cam.Pitch -= float32(input.MouseDeltaY) * 0.3
		if cam.Pitch > 85 {
			cam.Pitch = 85
		}
		if cam.Pitch < -85 {
			cam.Pitch = -85
		}
	}
	if input.ScrollY != 0 {
		cam.Distance -= float32(input.ScrollY) * 2
		if cam.Distance < 5 {
			cam.Distance = 5
		}
		if cam.Distance > 200 {
			cam.Distance = 200
		}
	}
}
