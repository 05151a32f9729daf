package voxsculpt

type Commands struct {
	app *App
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

// Quit ends the app's Run loop after the current frame.
func (cmd *Commands) Quit() *Commands {
	cmd.app.quit()
	return cmd
}
