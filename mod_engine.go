package voxsculpt

// RenderStats is the per-frame settled/total report of the render
// bridge, published for the UI-facing modules.
type RenderStats struct {
	Settled int
	Total   int
}

// EngineModule installs the simulation engine and schedules its tick
// and the render-bridge write. InitialModel names a library model to
// load on the first frame; empty means the first registered model.
type EngineModule struct {
	InitialModel string
}

func (mod EngineModule) Install(app *App, cmd *Commands) {
	engine := NewEngine(app.Logger())
	engine.OnPhaseChange(func(p Phase) {
		app.Logger().Infof("sculpture phase: %v", p)
	})

	cmd.AddResources(engine, &InstanceBuffer{}, &RenderStats{}, &engineBoot{model: mod.InitialModel})

	app.UseSystem(System(engineBootSystem).InStage(Prelude))
	app.UseSystem(System(engineTickSystem).InStage(Update))
	app.UseSystem(System(renderBridgeSystem).InStage(PreRender))
}

type engineBoot struct {
	model string
	done  bool
}

// engineBootSystem loads the initial sculpture once the library is
// populated. Runs every frame but acts only on the first.
func engineBootSystem(boot *engineBoot, engine *Engine, lib *ModelLibrary) {
	if boot.done {
		return
	}
	boot.done = true

	if boot.model != "" {
		if voxels, ok := lib.GetByName(boot.model); ok {
			engine.LoadInitialModel(voxels)
			return
		}
	}
	if lib.Len() > 0 {
		if id, ok := lib.Next(""); ok {
			if voxels, ok := lib.Get(id); ok {
				engine.LoadInitialModel(voxels)
			}
		}
	}
}

func engineTickSystem(engine *Engine, tm *Time) {
	engine.Tick(float32(tm.Dt.Seconds()))
}

func renderBridgeSystem(engine *Engine, buf *InstanceBuffer, stats *RenderStats) {
	stats.Settled, stats.Total = engine.WriteInstances(buf)
}
