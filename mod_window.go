package voxsculpt

import (
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

type WindowState struct {
	windowGlfw   *glfw.Window
	WindowWidth  int
	WindowHeight int
	windowTitle  string
}

type GpuState struct {
	surface       *wgpu.Surface
	adapter       *wgpu.Adapter
	device        *wgpu.Device
	queue         *wgpu.Queue
	surfaceConfig *wgpu.SurfaceConfiguration
}

// WindowModule owns the GLFW window and the wgpu device/surface pair.
// It wires window close into app quit and window resize into surface
// reconfiguration through the engine's HandleResize pass-through.
type WindowModule struct {
	Width  int
	Height int
	Title  string
}

func (mod WindowModule) Install(app *App, cmd *Commands) {
	width, height, title := mod.Width, mod.Height, mod.Title
	if width <= 0 {
		width = 1280
	}
	if height <= 0 {
		height = 720
	}
	if title == "" {
		title = "voxsculpt"
	}

	windowState := createWindowState(width, height, title)
	gpuState := createGpuState(windowState)

	cmd.AddResources(windowState, gpuState)

	app.UseSystem(System(windowEventsSystem).InStage(PreUpdate))
	app.UseSystem(System(windowResizeSystem).InStage(PreUpdate))
}

func createWindowState(windowWidth int, windowHeight int, windowTitle string) *WindowState {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		panic(err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI) // Important: tell GLFW we don't want OpenGL
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(windowWidth, windowHeight, windowTitle, nil, nil)
	if err != nil {
		panic(err)
	}

	return &WindowState{
		windowGlfw:   win,
		WindowWidth:  windowWidth,
		WindowHeight: windowHeight,
		windowTitle:  windowTitle,
	}
}

func createGpuState(s *WindowState) *GpuState {
	instance := wgpu.CreateInstance(nil)
	defer instance.Release()
	// wraps GLFW window into a wgpu surface.
	surface := instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(s.windowGlfw))
	// finds a suitable GPU (discrete GPU preferred)
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		panic(err)
	}
	// allocates the device and command queue
	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label:            "Main Device",
		RequiredFeatures: nil,
		RequiredLimits:   nil,
	})
	if err != nil {
		panic(err)
	}
	queue := device.GetQueue()

	caps := surface.GetCapabilities(adapter)
	// defines how the swapchain behaves (size, format, vsync)
	surfaceConfig := wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(s.WindowWidth),
		Height:      uint32(s.WindowHeight),
		PresentMode: wgpu.PresentModeFifo, // vsync
		AlphaMode:   caps.AlphaModes[0],
	}

	surface.Configure(adapter, device, &surfaceConfig)

	return &GpuState{
		surface:       surface,
		adapter:       adapter,
		device:        device,
		queue:         queue,
		surfaceConfig: &surfaceConfig,
	}
}

func windowEventsSystem(state *WindowState, cmd *Commands) {
	if state.windowGlfw.ShouldClose() {
		cmd.Quit()
		return
	}
	glfw.PollEvents()
}

// windowResizeSystem reconfigures the swapchain and camera aspect when
// the framebuffer size changes, and routes the change through the
// engine's HandleResize pass-through so external drivers observe the
// same path.
func windowResizeSystem(state *WindowState, gpuState *GpuState, cam *OrbitCamera, engine *Engine) {
	if engine.resizeFn == nil {
		engine.OnResize(func() {
			gpuState.surfaceConfig.Width = uint32(state.WindowWidth)
			gpuState.surfaceConfig.Height = uint32(state.WindowHeight)
			gpuState.surface.Configure(gpuState.adapter, gpuState.device, gpuState.surfaceConfig)
			cam.Aspect = float32(state.WindowWidth) / float32(state.WindowHeight)
		})
	}

	w, h := state.windowGlfw.GetFramebufferSize()
	if w <= 0 || h <= 0 {
		return
	}
	if w == state.WindowWidth && h == state.WindowHeight {
		return
	}
	state.WindowWidth = w
	state.WindowHeight = h
	engine.HandleResize()
}
