package voxsculpt

import (
	"time"
)

type Time struct {
	Time time.Time
	Dt   time.Duration
}

type TimeModule struct {
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Time{
		Time: time.Now(),
		Dt:   0,
	})
	app.UseSystem(System(timeSystem).InStage(Prelude))
}

func timeSystem(timeResource *Time) {
	now := time.Now()

	timeResource.Dt = now.Sub(timeResource.Time)
	timeResource.Time = now
}

// FrameLimiterModule caps the frame rate by sleeping in Finale. Used
// by headless hosts that have no vsync to pace them.
type FrameLimiterModule struct {
	FPS int
}

func (mod FrameLimiterModule) Install(app *App, cmd *Commands) {
	fps := mod.FPS
	if fps <= 0 {
		fps = 60
	}
	cmd.AddResources(&frameLimiter{interval: time.Second / time.Duration(fps)})
	app.UseSystem(System(frameLimitSystem).InStage(Finale))
}

type frameLimiter struct {
	interval time.Duration
	last     time.Time
}

func frameLimitSystem(lim *frameLimiter) {
	if !lim.last.IsZero() {
		if wait := lim.interval - time.Since(lim.last); wait > 0 {
			time.Sleep(wait)
		}
	}
	lim.last = time.Now()
}
