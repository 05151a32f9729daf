package main

import (
	"flag"

	voxsculpt "github.com/gekko3d/voxsculpt"
)

func main() {
	var (
		addr      = flag.String("addr", ":8080", "remote control listen address")
		model     = flag.String("model", "", "initial model name (default: first registered)")
		voxFile   = flag.String("vox", "", "MagicaVoxel .vox file to add to the library")
		jsonFile  = flag.String("model-json", "", "JSON model file to add to the library")
		generator = flag.String("generator", "", "text-to-model endpoint URL")
		prompt    = flag.String("prompt", "", "prompt to generate a model at startup")
		headless  = flag.Bool("headless", false, "run without a window (remote control only)")
		debug     = flag.Bool("debug", false, "verbose logging")
	)
	flag.Parse()

	libraryMod := voxsculpt.ModelLibraryModule{}
	if *voxFile != "" {
		libraryMod.VoxFiles = []string{*voxFile}
	}
	if *jsonFile != "" {
		libraryMod.JSONFiles = []string{*jsonFile}
	}
	if *generator != "" && *prompt != "" {
		libraryMod.Generator = voxsculpt.NewHTTPGenerator(*generator, nil)
		libraryMod.Prompts = []string{*prompt}
	}

	builder := voxsculpt.NewAppBuilder().
		UseModule(
			voxsculpt.LoggingModule{Prefix: "voxsculpt", Debug: *debug},
			voxsculpt.TimeModule{},
			libraryMod,
			voxsculpt.EngineModule{InitialModel: *model},
			voxsculpt.FocusTimerModule{},
			voxsculpt.RemoteModule{Addr: *addr},
		)

	if *headless {
		builder.UseModule(voxsculpt.FrameLimiterModule{FPS: 60})
	} else {
		builder.UseModule(
			voxsculpt.WindowModule{Width: 1280, Height: 720, Title: "voxsculpt"},
			voxsculpt.InputModule{},
			voxsculpt.ControlsModule{},
			voxsculpt.OrbitCameraModule{},
			voxsculpt.RenderModule{},
		)
	}

	builder.Build().Run()
}
