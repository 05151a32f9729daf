package voxsculpt

import "testing"

func TestPresetsProduceNormalizedModels(t *testing.T) {
	presets := map[string][]VoxelData{
		"sphere":  PresetSphere(5),
		"tower":   PresetTower(3, 9, 3),
		"pyramid": PresetPyramid(5, 6),
		"heart":   PresetHeart(6),
	}

	for name, voxels := range presets {
		if len(voxels) == 0 {
			t.Errorf("Preset %s is empty", name)
			continue
		}
		minY := voxels[0].Y
		for _, v := range voxels {
			if v.Y < minY {
				minY = v.Y
			}
		}
		if minY != 0 {
			t.Errorf("Preset %s should rest on the ground, min y = %d", name, minY)
		}
	}
}

func TestPresetTowerVoxelCount(t *testing.T) {
	voxels := PresetTower(3, 9, 3)
	if len(voxels) != 3*9*3 {
		t.Errorf("Expected %d voxels, got %d", 3*9*3, len(voxels))
	}
}

func TestPresetSphereWithinRadius(t *testing.T) {
	radius := 5
	for _, v := range PresetSphere(radius) {
		// Grounding shifts y; x and z stay centered.
		if v.X < -radius || v.X > radius || v.Z < -radius || v.Z > radius {
			t.Errorf("Voxel (%d,%d,%d) escapes the sphere bounds", v.X, v.Y, v.Z)
		}
	}
}
