package voxsculpt

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

func smallCube(side int) []VoxelData {
	var out []VoxelData
	for x := 0; x < side; x++ {
		for y := 0; y < side; y++ {
			for z := 0; z < side; z++ {
				out = append(out, VoxelData{X: x, Y: y, Z: z, Color: RGBFromBytes(200, 100, 50)})
			}
		}
	}
	return out
}

func TestEngineStartsStable(t *testing.T) {
	engine := NewEngine(nil)
	engine.LoadInitialModel(smallCube(2))

	if engine.Phase() != PhaseStable {
		t.Errorf("Expected PhaseStable after load, got %v", engine.Phase())
	}
	if engine.VoxelCount() != 8 {
		t.Errorf("Expected 8 voxels, got %d", engine.VoxelCount())
	}
}

func TestDismantleScattersAndFalls(t *testing.T) {
	engine := NewEngine(nil)
	engine.LoadInitialModel(smallCube(2))

	engine.Dismantle()
	if engine.Phase() != PhaseDismantling {
		t.Fatalf("Expected PhaseDismantling, got %v", engine.Phase())
	}

	start := make([]mgl32.Vec3, engine.VoxelCount())
	for i := range start {
		start[i] = engine.Voxel(i).Position
	}

	// The kick is upward first; after a few seconds gravity wins.
	for tick := 0; tick < 40; tick++ {
		engine.Tick(0.1)
	}
	for i := range start {
		v := engine.Voxel(i)
		if v.Position.Y() >= start[i].Y() {
			t.Errorf("Voxel %d should have fallen below %f, at %f", i, start[i].Y(), v.Position.Y())
		}
		if v.Rotation == (mgl32.Vec3{}) {
			t.Errorf("Voxel %d should have tumbled while falling", i)
		}
	}
}

// Dismantle then progressively rebuild the same sculpture.
func TestFullCycleProgressive(t *testing.T) {
	model := smallCube(2)
	engine := NewEngine(nil)
	engine.LoadInitialModel(model)

	engine.Dismantle()
	for tick := 0; tick < 20; tick++ {
		engine.Tick(1.0 / 60.0)
	}

	engine.Rebuild(model, true)
	require.Equal(t, PhaseRebuilding, engine.Phase())

	// Just below 1.0 unlocks every rank without triggering completion.
	engine.SetProgress(0.99)
	for tick := 0; tick < 400; tick++ {
		engine.Tick(1.0 / 60.0)
	}
	require.Equal(t, PhaseRebuilding, engine.Phase(), "progressive rebuilds never complete implicitly")
	for i := 0; i < engine.VoxelCount(); i++ {
		tgt := engine.Target(i)
		require.False(t, tgt.Rubble)
		dist := engine.Voxel(i).Position.Sub(tgt.Position).Len()
		require.Less(t, dist, float32(0.05), "voxel %d should have converged", i)
	}

	engine.SetProgress(1.0)
	require.Equal(t, PhaseStable, engine.Phase())
	for i := 0; i < engine.VoxelCount(); i++ {
		v := engine.Voxel(i)
		require.Equal(t, engine.Target(i).Position, v.Position, "voxel %d must land exactly", i)
		require.Equal(t, mgl32.Vec3{}, v.Velocity)
		require.Equal(t, mgl32.Vec3{}, v.Rotation)
	}
}

// Autonomous rebuilds unlock on wall time and finish on their own.
func TestAutonomousRebuildCompletes(t *testing.T) {
	model := smallCube(2)
	engine := NewEngine(nil)
	engine.LoadInitialModel(model)
	engine.Dismantle()
	for tick := 0; tick < 20; tick++ {
		engine.Tick(1.0 / 60.0)
	}

	engine.Rebuild(model, false)
	for tick := 0; tick < 1200 && engine.Phase() == PhaseRebuilding; tick++ {
		engine.Tick(1.0 / 60.0)
	}
	if engine.Phase() != PhaseStable {
		t.Fatalf("Autonomous rebuild never settled, phase %v", engine.Phase())
	}
	for i := 0; i < engine.VoxelCount(); i++ {
		if engine.Voxel(i).Position != engine.Target(i).Position {
			t.Errorf("Voxel %d off target after completion", i)
		}
	}
}

func TestRebuildIntoDifferentModel(t *testing.T) {
	engine := NewEngine(nil)
	engine.LoadInitialModel(smallCube(2))
	engine.Dismantle()
	engine.Tick(0.5)

	next := PresetTower(2, 5, 2)
	engine.Rebuild(next, false)

	if engine.VoxelCount() != len(next) {
		t.Fatalf("Store should have grown to %d, got %d", len(next), engine.VoxelCount())
	}
	engine.FinishRebuild()
	if engine.Phase() != PhaseStable {
		t.Errorf("Expected PhaseStable, got %v", engine.Phase())
	}
}

func TestSetProgressGating(t *testing.T) {
	engine := NewEngine(nil)
	engine.LoadInitialModel(smallCube(2))

	// Stable: ignored.
	engine.SetProgress(1.0)
	if engine.Phase() != PhaseStable {
		t.Errorf("SetProgress in Stable must not transition, got %v", engine.Phase())
	}

	// Dismantling: ignored.
	engine.Dismantle()
	engine.SetProgress(1.0)
	if engine.Phase() != PhaseDismantling {
		t.Errorf("SetProgress while dismantling must not transition, got %v", engine.Phase())
	}

	// Autonomous rebuild: external progress is ignored too.
	engine.Rebuild(smallCube(2), false)
	engine.SetProgress(1.0)
	if engine.Phase() != PhaseRebuilding {
		t.Errorf("SetProgress during an autonomous rebuild must be a no-op, got %v", engine.Phase())
	}
}

func TestSetProgressRejectsNaN(t *testing.T) {
	engine := NewEngine(nil)
	engine.LoadInitialModel(smallCube(2))
	engine.Rebuild(smallCube(2), true)

	engine.SetProgress(0.5)
	engine.SetProgress(float32(math.NaN()))
	if engine.progress() != 0.5 {
		t.Errorf("NaN progress must leave the previous value, got %f", engine.progress())
	}
	engine.SetProgress(-2.0)
	if engine.progress() != 0 {
		t.Errorf("Negative progress clamps to zero, got %f", engine.progress())
	}
}

func TestRebuildEmptyModelIgnored(t *testing.T) {
	engine := NewEngine(nil)
	engine.LoadInitialModel(smallCube(2))
	engine.Dismantle()

	engine.Rebuild(nil, true)
	if engine.Phase() != PhaseDismantling {
		t.Errorf("Empty rebuild must not change phase, got %v", engine.Phase())
	}
	if engine.VoxelCount() != 8 {
		t.Errorf("Empty rebuild must not touch the store, got %d voxels", engine.VoxelCount())
	}
}

func TestPhaseNotificationsFireOnTransitionsOnly(t *testing.T) {
	engine := NewEngine(nil)
	var seen []Phase
	engine.OnPhaseChange(func(p Phase) { seen = append(seen, p) })

	engine.LoadInitialModel(smallCube(2)) // already Stable, no event
	engine.Dismantle()
	engine.Dismantle() // repeat, no event
	engine.Tick(0.1)
	engine.Rebuild(smallCube(2), true)
	engine.Tick(0.1) // ticking never fires events
	engine.FinishRebuild()

	require.Equal(t, []Phase{PhaseDismantling, PhaseRebuilding, PhaseStable}, seen)
}

func TestTickIgnoresNonPositiveDt(t *testing.T) {
	engine := NewEngine(nil)
	engine.LoadInitialModel(smallCube(2))
	engine.Dismantle()

	before := engine.Voxel(0)
	engine.Tick(0)
	engine.Tick(-1)
	require.Equal(t, before, engine.Voxel(0))
}

func TestLockedVoxelsKeepFalling(t *testing.T) {
	engine := NewEngine(nil)
	engine.LoadInitialModel(PresetTower(1, 4, 1))
	engine.Dismantle()
	engine.Tick(0.1)
	engine.Rebuild(PresetTower(1, 4, 1), true)

	// Unlock only the lowest rank; the rest stay debris.
	engine.SetProgress(0.1)
	lockedBefore := make(map[int]float32)
	for i := 0; i < engine.VoxelCount(); i++ {
		if engine.Target(i).Delay > 0.1 {
			lockedBefore[i] = engine.Voxel(i).Position.Y()
		}
	}
	if len(lockedBefore) == 0 {
		t.Fatal("Expected some locked voxels at low progress")
	}
	for tick := 0; tick < 60; tick++ {
		engine.Tick(1.0 / 60.0)
	}
	for i, y0 := range lockedBefore {
		if engine.Voxel(i).Position.Y() >= y0 {
			t.Errorf("Locked voxel %d should fall while waiting, y %f -> %f", i, y0, engine.Voxel(i).Position.Y())
		}
	}
}
