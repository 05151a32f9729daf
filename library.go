package voxsculpt

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ModelId string

func makeModelId() ModelId {
	return ModelId(uuid.NewString())
}

// ModelLibrary is the registry of sculpture models available to the
// session: presets, imported files and generated content. Registration
// order drives the "next model" rotation of the focus timer.
type ModelLibrary struct {
	models map[ModelId][]VoxelData
	names  map[string]ModelId
	order  []ModelId
}

func NewModelLibrary() *ModelLibrary {
	return &ModelLibrary{
		models: make(map[ModelId][]VoxelData),
		names:  make(map[string]ModelId),
	}
}

// Register stores a model under a fresh id. A model registered under
// an existing name replaces it in name lookup but keeps its own id.
func (lib *ModelLibrary) Register(name string, voxels []VoxelData) ModelId {
	id := makeModelId()
	lib.models[id] = voxels
	lib.names[name] = id
	lib.order = append(lib.order, id)
	return id
}

func (lib *ModelLibrary) Get(id ModelId) ([]VoxelData, bool) {
	voxels, ok := lib.models[id]
	return voxels, ok
}

func (lib *ModelLibrary) GetByName(name string) ([]VoxelData, bool) {
	id, ok := lib.names[name]
	if !ok {
		return nil, false
	}
	return lib.Get(id)
}

func (lib *ModelLibrary) Len() int { return len(lib.order) }

// Next returns the model registered after current, wrapping around.
// With an unknown or empty current it returns the first model.
func (lib *ModelLibrary) Next(current ModelId) (ModelId, bool) {
	if len(lib.order) == 0 {
		return "", false
	}
	for i, id := range lib.order {
		if id == current {
			return lib.order[(i+1)%len(lib.order)], true
		}
	}
	return lib.order[0], true
}

// ModelLibraryModule installs a library preloaded with the built-in
// sculptures, plus any imported or generated models the host asked
// for. Import failures are logged and skipped; the presets make sure
// the library is never empty.
type ModelLibraryModule struct {
	VoxFiles  []string
	JSONFiles []string
	Generator ModelGenerator
	Prompts   []string
}

func (mod ModelLibraryModule) Install(app *App, cmd *Commands) {
	log := app.Logger()

	lib := NewModelLibrary()
	lib.Register("sphere", PresetSphere(7))
	lib.Register("tower", PresetTower(5, 14, 5))
	lib.Register("pyramid", PresetPyramid(8, 9))
	lib.Register("heart", PresetHeart(8))

	for _, path := range mod.VoxFiles {
		voxels, err := LoadVoxModel(path)
		if err != nil {
			log.Warnf("skipping vox import %s: %v", path, err)
			continue
		}
		lib.Register(modelNameFromPath(path), voxels)
	}
	for _, path := range mod.JSONFiles {
		voxels, err := LoadModel(path, log)
		if err != nil {
			log.Warnf("skipping model import %s: %v", path, err)
			continue
		}
		lib.Register(modelNameFromPath(path), voxels)
	}

	if mod.Generator != nil {
		for _, prompt := range mod.Prompts {
			ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
			voxels, err := mod.Generator.Generate(ctx, prompt)
			cancel()
			if err != nil {
				log.Warnf("generation failed for %q: %v", prompt, err)
				continue
			}
			lib.Register(prompt, voxels)
			log.Infof("generated %d voxels for %q", len(voxels), prompt)
		}
	}

	cmd.AddResources(lib)
}

func modelNameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
