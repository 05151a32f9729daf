package voxsculpt

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelLibraryRegisterAndLookup(t *testing.T) {
	lib := NewModelLibrary()
	model := smallCube(2)

	id := lib.Register("cube", model)
	other := lib.Register("tower", PresetTower(1, 3, 1))
	require.NotEqual(t, id, other, "each registration gets its own id")

	got, ok := lib.Get(id)
	require.True(t, ok)
	assert.Equal(t, model, got)

	got, ok = lib.GetByName("cube")
	require.True(t, ok)
	assert.Equal(t, model, got)

	_, ok = lib.Get(ModelId("missing"))
	assert.False(t, ok)
	_, ok = lib.GetByName("missing")
	assert.False(t, ok)
}

func TestModelLibraryNextRotation(t *testing.T) {
	lib := NewModelLibrary()
	a := lib.Register("a", PresetSphere(2))
	b := lib.Register("b", PresetSphere(3))
	c := lib.Register("c", PresetSphere(4))

	next, ok := lib.Next(a)
	require.True(t, ok)
	assert.Equal(t, b, next)

	next, _ = lib.Next(c)
	assert.Equal(t, a, next, "rotation wraps around")

	next, _ = lib.Next("")
	assert.Equal(t, a, next, "unknown id starts from the first model")
}

func TestModelLibraryNextEmpty(t *testing.T) {
	lib := NewModelLibrary()
	_, ok := lib.Next("")
	assert.False(t, ok)
}

func TestModelLibraryModuleInstall(t *testing.T) {
	generated := []VoxelData{{X: 0, Y: 0, Z: 0, Color: RGBFromBytes(1, 2, 3)}}
	gen := GeneratorFunc(func(ctx context.Context, prompt string) ([]VoxelData, error) {
		if prompt == "fails" {
			return nil, errors.New("no can do")
		}
		return generated, nil
	})

	app := NewAppBuilder().
		UseModule(ModelLibraryModule{
			Generator: gen,
			Prompts:   []string{"a robot", "fails"},
		}).
		Build()

	var lib *ModelLibrary
	app.UseSystem(System(func(l *ModelLibrary, cmd *Commands) {
		lib = l
		cmd.Quit()
	}).InStage(Update))
	app.Run()

	require.NotNil(t, lib)
	// Four presets plus the one successful generation.
	assert.Equal(t, 5, lib.Len())

	got, ok := lib.GetByName("a robot")
	require.True(t, ok)
	assert.Equal(t, generated, got)

	_, ok = lib.GetByName("fails")
	assert.False(t, ok)
}

func TestModelNameFromPath(t *testing.T) {
	assert.Equal(t, "castle", modelNameFromPath("/assets/models/castle.vox"))
	assert.Equal(t, "dragon", modelNameFromPath("dragon.json"))
}
