package voxsculpt

import (
	"time"
)

type TimerState int

const (
	TimerIdle TimerState = iota
	TimerScattering
	TimerRebuilding
)

// FocusTimer is the countdown session driving the sculpture: starting
// a session dismantles the current model, then a progressive rebuild
// of the next one tracks the countdown, finishing exactly when it runs
// out. The struct only records intent; focusTimerSystem applies it to
// the engine on the next tick so all engine mutation stays on the
// frame loop.
type FocusTimer struct {
	Duration time.Duration
	Elapsed  time.Duration
	State    TimerState

	// Model that the session rebuilds. Empty means rotate to the next
	// library model.
	NextModel []VoxelData

	currentModel ModelId
	scatterLeft  time.Duration
	startReq     bool
	stopReq      bool
}

// Start requests a new session of the given length. Takes effect on
// the next tick; restarting mid-session scraps the in-flight rebuild.
func (t *FocusTimer) Start(d time.Duration) {
	if d <= 0 {
		return
	}
	t.Duration = d
	t.startReq = true
}

// Stop requests immediate completion of the session.
func (t *FocusTimer) Stop() {
	t.stopReq = true
}

// Progress is the normalized countdown position in [0,1].
func (t *FocusTimer) Progress() float64 {
	if t.Duration <= 0 {
		return 0
	}
	p := float64(t.Elapsed) / float64(t.Duration)
	if p > 1 {
		p = 1
	}
	return p
}

// FocusTimerModule schedules the session driver. ScatterTime is how
// long the debris falls before reassembly begins.
type FocusTimerModule struct {
	ScatterTime time.Duration
}

func (mod FocusTimerModule) Install(app *App, cmd *Commands) {
	scatter := mod.ScatterTime
	if scatter <= 0 {
		scatter = 2500 * time.Millisecond
	}
	cmd.AddResources(&FocusTimer{}, &timerConfig{scatter: scatter})
	app.UseSystem(System(focusTimerSystem).InStage(PostUpdate))
}

type timerConfig struct {
	scatter time.Duration
}

func focusTimerSystem(t *FocusTimer, cfg *timerConfig, engine *Engine, lib *ModelLibrary, tm *Time, cmd *Commands) {
	if t.stopReq {
		t.stopReq = false
		if t.State != TimerIdle {
			engine.FinishRebuild()
			t.State = TimerIdle
		}
	}

	if t.startReq {
		t.startReq = false
		t.Elapsed = 0
		t.scatterLeft = cfg.scatter
		t.State = TimerScattering
		engine.Dismantle()
	}

	switch t.State {
	case TimerIdle:
		return
	case TimerScattering:
		t.scatterLeft -= tm.Dt
		if t.scatterLeft > 0 {
			return
		}
		voxels := t.NextModel
		if len(voxels) == 0 {
			if id, ok := lib.Next(t.currentModel); ok {
				t.currentModel = id
				voxels, _ = lib.Get(id)
			}
		}
		if len(voxels) == 0 {
			cmd.app.Logger().Warnf("focus session has no model to rebuild")
			t.State = TimerIdle
			return
		}
		t.NextModel = nil
		engine.Rebuild(voxels, true)
		t.State = TimerRebuilding
	case TimerRebuilding:
		t.Elapsed += tm.Dt
		p := t.Progress()
		engine.SetProgress(float32(p))
		if p >= 1 {
			t.State = TimerIdle
		}
	}
}
