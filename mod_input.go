package voxsculpt

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Keys the viewer binds. The input layer only polls these.
const (
	KeySpace int = iota
	KeyEscape
	KeyA
	KeyD
	KeyN
	keyCount
)

var keyToGlfw = map[int]glfw.Key{
	KeySpace:  glfw.KeySpace,
	KeyEscape: glfw.KeyEscape,
	KeyA:      glfw.KeyA,
	KeyD:      glfw.KeyD,
	KeyN:      glfw.KeyN,
}

// Input carries the per-frame keyboard and mouse snapshot. Edge flags
// are valid for one frame only.
type Input struct {
	Pressed      [keyCount]bool
	JustPressed  [keyCount]bool
	JustReleased [keyCount]bool

	MouseX, MouseY           float64
	MouseDeltaX, MouseDeltaY float64
	Dragging                 bool

	// Accumulated wheel movement since last frame.
	ScrollY float64

	scrollPending float64
	hooked        bool
}

type InputModule struct{}

func (mod InputModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Input{})
	app.UseSystem(System(inputSystem).InStage(PreUpdate))
}

func inputSystem(s *WindowState, input *Input) {
	if !input.hooked {
		input.hooked = true
		s.windowGlfw.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
			input.scrollPending += yoff
		})
	}

	for key, glfwKey := range keyToGlfw {
		action := s.windowGlfw.GetKey(glfwKey)

		input.JustPressed[key] = false
		input.JustReleased[key] = false

		if glfw.Press == action {
			if !input.Pressed[key] {
				input.JustPressed[key] = true
			}
			input.Pressed[key] = true
		} else if glfw.Release == action {
			if input.Pressed[key] {
				input.JustReleased[key] = true
			}
			input.Pressed[key] = false
		}
	}

	mx, my := s.windowGlfw.GetCursorPos()
	dragging := glfw.Press == s.windowGlfw.GetMouseButton(glfw.MouseButtonLeft)
	if dragging && input.Dragging {
		input.MouseDeltaX = mx - input.MouseX
		input.MouseDeltaY = my - input.MouseY
	} else {
		input.MouseDeltaX = 0
		input.MouseDeltaY = 0
	}
	input.MouseX = mx
	input.MouseY = my
	input.Dragging = dragging

	input.ScrollY = input.scrollPending
	input.scrollPending = 0
}
