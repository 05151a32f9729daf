package voxsculpt

import (
	"math"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// Phase is the lifecycle state of the sculpture.
type Phase int

const (
	PhaseStable Phase = iota
	PhaseDismantling
	PhaseRebuilding
)

func (p Phase) String() string {
	switch p {
	case PhaseStable:
		return "Stable"
	case PhaseDismantling:
		return "Dismantling"
	case PhaseRebuilding:
		return "Rebuilding"
	}
	return "Unknown"
}

// SimulationVoxel is the mutable runtime state of one instance slot.
// Index is the stable slot id; it survives Rebuild calls so a voxel
// morphs in place instead of being destroyed and recreated.
type SimulationVoxel struct {
	Index           int
	Position        mgl32.Vec3
	Velocity        mgl32.Vec3
	Rotation        mgl32.Vec3
	AngularVelocity mgl32.Vec3
	Color           RGB
}

// RebuildTarget is the per-slot destination for one rebuild cycle.
// Delay is the normalized unlock threshold in [0,1]; rubble slots carry
// a delay beyond any reachable progress so they never unlock.
type RebuildTarget struct {
	Position mgl32.Vec3
	Delay    float32
	Rubble   bool
}

// Engine owns the voxel store and drives the dismantle/rebuild
// lifecycle. It is single-threaded: every mutation happens inside Tick
// or one of the public operations, all called from the host's frame
// loop.
type Engine struct {
	log Logger
	rng *rand.Rand

	phase   Phase
	voxels  []SimulationVoxel
	targets []RebuildTarget

	progressive    bool
	manualProgress float32
	elapsed        float32

	autoRotate bool

	onPhaseChange func(Phase)
	resizeFn      func()
}

func NewEngine(log Logger) *Engine {
	if log == nil {
		log = NewNopLogger()
	}
	return &Engine{
		log:   log,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		phase: PhaseStable,
	}
}

// OnPhaseChange registers the state-change notification. It fires on
// transitions only, never per tick.
func (e *Engine) OnPhaseChange(fn func(Phase)) {
	e.onPhaseChange = fn
}

func (e *Engine) Phase() Phase    { return e.phase }
func (e *Engine) VoxelCount() int { return len(e.voxels) }

// Voxel returns a copy of the slot state. Test and snapshot helper;
// the store itself is never handed out.
func (e *Engine) Voxel(i int) SimulationVoxel { return e.voxels[i] }

// Target returns a copy of the slot's current rebuild target.
func (e *Engine) Target(i int) RebuildTarget { return e.targets[i] }

func (e *Engine) SetAutoRotate(enabled bool) { e.autoRotate = enabled }
func (e *Engine) AutoRotate() bool           { return e.autoRotate }

// OnResize registers the renderer's reconfiguration hook.
func (e *Engine) OnResize(fn func()) { e.resizeFn = fn }

// HandleResize forwards to the rendering collaborator. No simulation
// effect.
func (e *Engine) HandleResize() {
	if e.resizeFn != nil {
		e.resizeFn()
	}
}

func (e *Engine) transition(next Phase) {
	if e.phase == next {
		return
	}
	e.log.Debugf("phase %v -> %v", e.phase, next)
	e.phase = next
	if e.onPhaseChange != nil {
		e.onPhaseChange(next)
	}
}

// LoadInitialModel resets the engine to a stable sculpture built from
// the given model. The store is reallocated wholesale: slot count,
// colors and positions all come straight from the model.
func (e *Engine) LoadInitialModel(model []VoxelData) {
	model = Normalize(model)

	e.voxels = make([]SimulationVoxel, len(model))
	e.targets = make([]RebuildTarget, len(model))
	for i, v := range model {
		pos := mgl32.Vec3{float32(v.X), float32(v.Y), float32(v.Z)}
		e.voxels[i] = SimulationVoxel{
			Index:    i,
			Position: pos,
			Color:    v.Color,
		}
		e.targets[i] = RebuildTarget{Position: pos}
	}

	e.progressive = false
	e.manualProgress = 0
	e.elapsed = 0
	e.transition(PhaseStable)
	e.log.Infof("loaded model with %d voxels", len(model))
}

// Dismantle scatters the sculpture: every voxel gets an outward and
// upward kick plus angular drift, then free-falls under the
// integrator. No target mapping is consulted.
func (e *Engine) Dismantle() {
	if e.phase == PhaseDismantling {
		return
	}
	for i := range e.voxels {
		v := &e.voxels[i]

		dir := mgl32.Vec3{v.Position.X(), 0, v.Position.Z()}
		if dir.Len() < 1e-3 {
			angle := e.rng.Float64() * 2 * math.Pi
			dir = mgl32.Vec3{float32(math.Cos(angle)), 0, float32(math.Sin(angle))}
		} else {
			dir = dir.Normalize()
		}

		speed := 2.0 + e.rng.Float32()*4.0
		v.Velocity = mgl32.Vec3{
			dir.X() * speed,
			5.0 + e.rng.Float32()*6.0,
			dir.Z() * speed,
		}
		v.AngularVelocity = mgl32.Vec3{
			(e.rng.Float32() - 0.5) * 6.0,
			(e.rng.Float32() - 0.5) * 6.0,
			(e.rng.Float32() - 0.5) * 6.0,
		}
	}
	e.transition(PhaseDismantling)
}

// Rebuild computes the voxel-to-target mapping for the new model and
// starts reassembly. With progressive=true unlocking is driven by
// SetProgress; otherwise it follows elapsed time. An empty model is a
// no-op.
func (e *Engine) Rebuild(model []VoxelData, progressive bool) {
	if len(model) == 0 {
		e.log.Warnf("rebuild with empty model ignored")
		return
	}
	model = Normalize(model)

	e.growStore(len(model))
	e.targets = e.assignTargets(model)

	e.progressive = progressive
	e.manualProgress = 0
	e.elapsed = 0
	e.transition(PhaseRebuilding)
}

// growStore appends fresh voxels until the store can hold count slots.
// The store is never shrunk; excess slots become rubble for the current
// cycle. New voxels spawn scattered above the build site so they fall
// into place like the rest of the debris.
func (e *Engine) growStore(count int) {
	for len(e.voxels) < count {
		i := len(e.voxels)
		e.voxels = append(e.voxels, SimulationVoxel{
			Index: i,
			Position: mgl32.Vec3{
				(e.rng.Float32() - 0.5) * 20.0,
				18.0 + e.rng.Float32()*10.0,
				(e.rng.Float32() - 0.5) * 20.0,
			},
			AngularVelocity: mgl32.Vec3{
				(e.rng.Float32() - 0.5) * 4.0,
				(e.rng.Float32() - 0.5) * 4.0,
				(e.rng.Float32() - 0.5) * 4.0,
			},
		})
	}
}

// SetProgress drives unlocking while a progressive rebuild is active.
// Outside that state it is a no-op. Reaching 1.0 completes the rebuild
// exactly like FinishRebuild.
func (e *Engine) SetProgress(p float32) {
	if e.phase != PhaseRebuilding || !e.progressive {
		return
	}
	if math.IsNaN(float64(p)) {
		e.log.Warnf("ignoring NaN progress")
		return
	}
	if p < 0 {
		p = 0
	}
	if p >= 1 {
		e.FinishRebuild()
		return
	}
	e.manualProgress = p
}

// FinishRebuild snaps every matched voxel exactly onto its target,
// zeroes motion, parks rubble below the floor and settles into
// PhaseStable. Safe to call in any phase.
func (e *Engine) FinishRebuild() {
	for i := range e.voxels {
		v := &e.voxels[i]
		t := e.targets[i]
		if t.Rubble {
			v.Position = mgl32.Vec3{v.Position.X(), rubbleDepth, v.Position.Z()}
		} else {
			v.Position = t.Position
		}
		v.Velocity = mgl32.Vec3{}
		v.Rotation = mgl32.Vec3{}
		v.AngularVelocity = mgl32.Vec3{}
	}
	e.manualProgress = 0
	e.progressive = false
	e.transition(PhaseStable)
}

// progress is the current unlock fraction: externally supplied in
// progressive mode, wall-clock driven otherwise.
func (e *Engine) progress() float32 {
	if e.progressive {
		return e.manualProgress
	}
	p := e.elapsed / autoUnlockSeconds
	if p > 1 {
		p = 1
	}
	return p
}

// Tick advances the simulation by dt seconds and applies the per-phase
// integration rules. During an autonomous rebuild it also performs the
// implicit completion check: once every matched voxel has converged the
// engine snaps to the exact final state.
func (e *Engine) Tick(dt float32) {
	if dt <= 0 {
		return
	}
	e.elapsed += dt

	switch e.phase {
	case PhaseStable:
		return
	case PhaseDismantling:
		for i := range e.voxels {
			integrateFall(&e.voxels[i], dt)
		}
	case PhaseRebuilding:
		p := e.progress()
		for i := range e.voxels {
			v := &e.voxels[i]
			t := e.targets[i]
			switch {
			case t.Rubble:
				pinRubble(v)
			case p >= t.Delay:
				approachTarget(v, t)
			default:
				integrateFall(v, dt)
			}
		}
		if !e.progressive && e.converged() {
			e.FinishRebuild()
		}
	}
}

// converged reports whether every matched voxel sits within the settle
// tolerance of its target. Pure predicate over the store.
func (e *Engine) converged() bool {
	for i := range e.voxels {
		t := e.targets[i]
		if t.Rubble {
			continue
		}
		if e.voxels[i].Position.Sub(t.Position).Len() > convergeEps {
			return false
		}
	}
	return true
}
