package voxsculpt

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestWriteInstancesStableModel(t *testing.T) {
	engine := NewEngine(nil)
	engine.LoadInitialModel([]VoxelData{
		{X: 0, Y: 0, Z: 0, Color: RGBFromBytes(255, 0, 0)},
		{X: 0, Y: 3, Z: 0, Color: RGBFromBytes(0, 255, 0)},
	})

	var buf InstanceBuffer
	settled, total := engine.WriteInstances(&buf)
	if total != 2 || settled != 2 {
		t.Fatalf("Expected 2/2 settled, got %d/%d", settled, total)
	}
	if buf.Len() != 2 {
		t.Fatalf("Expected 2 instances, got %d", buf.Len())
	}

	// Identity rotation and unit scale: the transform is a translation.
	want := mgl32.Translate3D(0, 3, 0)
	if buf.Transforms[1] != want {
		t.Errorf("Transform mismatch: got %v want %v", buf.Transforms[1], want)
	}
	if buf.Colors[0] != (mgl32.Vec4{1, 0, 0, 1}) {
		t.Errorf("Color mismatch: got %v", buf.Colors[0])
	}
}

func TestWriteInstancesHidesRubble(t *testing.T) {
	engine := NewEngine(nil)
	engine.LoadInitialModel(smallCube(2))
	engine.Dismantle()
	engine.Rebuild([]VoxelData{
		{X: 0, Y: 0, Z: 0, Color: RGBFromBytes(255, 255, 255)},
	}, false)
	engine.FinishRebuild()

	var buf InstanceBuffer
	settled, total := engine.WriteInstances(&buf)
	if total != 8 {
		t.Fatalf("Expected 8 slots, got %d", total)
	}
	if settled != 1 {
		t.Errorf("Only the matched voxel counts as settled, got %d", settled)
	}
	for i := 0; i < total; i++ {
		if !engine.Target(i).Rubble {
			continue
		}
		m := buf.Transforms[i]
		// Scale-to-zero collapses the rotational block.
		if m[0] != 0 || m[5] != 0 || m[10] != 0 {
			t.Errorf("Rubble instance %d should be scaled to zero, got diag (%f,%f,%f)", i, m[0], m[5], m[10])
		}
	}
}

func TestWriteInstancesHidesBelowFloor(t *testing.T) {
	engine := NewEngine(nil)
	engine.LoadInitialModel(smallCube(2))
	engine.Dismantle()

	// Let gravity carry everything far past the cutoff.
	for tick := 0; tick < 600; tick++ {
		engine.Tick(1.0 / 60.0)
	}

	var buf InstanceBuffer
	settled, _ := engine.WriteInstances(&buf)
	if settled != 0 {
		t.Errorf("Nothing below the floor cutoff is settled, got %d", settled)
	}
}

func TestWriteInstancesCountsUnlockedOnly(t *testing.T) {
	engine := NewEngine(nil)
	engine.LoadInitialModel(PresetTower(1, 4, 1))
	engine.Dismantle()
	engine.Rebuild(PresetTower(1, 4, 1), true)
	engine.SetProgress(0.3)

	var buf InstanceBuffer
	settled, total := engine.WriteInstances(&buf)
	if total != 4 {
		t.Fatalf("Expected 4 slots, got %d", total)
	}
	// Delays are 0, 0.25, 0.5, 0.75; progress 0.3 unlocks two ranks.
	// No ticks have run, so nothing has fallen past the cutoff yet.
	if settled != 2 {
		t.Errorf("Expected 2 unlocked voxels settled, got %d", settled)
	}
}

func TestInstanceBufferReuse(t *testing.T) {
	engine := NewEngine(nil)
	engine.LoadInitialModel(smallCube(2))

	var buf InstanceBuffer
	engine.WriteInstances(&buf)
	first := &buf.Transforms[0]

	engine.WriteInstances(&buf)
	if first != &buf.Transforms[0] {
		t.Error("Steady-state write must reuse the backing array")
	}

	// Growth reallocates once, then stays put again.
	engine.Rebuild(smallCube(3), false)
	engine.WriteInstances(&buf)
	if buf.Len() != 27 {
		t.Fatalf("Expected 27 instances after growth, got %d", buf.Len())
	}
	grown := &buf.Transforms[0]
	engine.WriteInstances(&buf)
	if grown != &buf.Transforms[0] {
		t.Error("Repeated writes after growth must not reallocate")
	}
}
