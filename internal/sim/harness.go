package sim

import (
	"fmt"
	"math/rand"
)

// TickDT is the fixed simulation timestep in seconds.
const TickDT = 1.0 / 60.0

// TargetScript moves the target each tick. Scenario runners and tests use
// scripts; the viewer moves the target from keyboard input instead.
type TargetScript func(t *Target, tick int, dt float64)

// TestSim is a headless simulation harness. It mirrors the viewer's update
// loop without any Ebiten dependency and supports deterministic seeding and
// structured logging. Despite the name it is the assembly point for every
// headless consumer (tests, the report runner, the live feed).
type TestSim struct {
	World  *World
	Agent  *Agent
	Target *Target
	Sensor *Sensor
	Loco   *Locomotion
	Brain  *Brain
	Attack *AttackDriver
	SimLog *SimLog
	Tuning Tuning

	rng    *rand.Rand
	tick   int
	script TargetScript

	width, height float64
	obstacles     []Obstacle
	agentPos      Vec2
	targetPos     Vec2
	seed          int64
	verbose       bool
	withAttack    bool
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra simOptionKind = iota // size, obstacles, seed, tuning, verbose
	simOptActor                      // agent/target placement, scripts, attack
)

// SimOption is a builder function applied to a TestSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*TestSim)
}

// WithWorldSize sets the playfield dimensions.
func WithWorldSize(w, h float64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.width = w
		ts.height = h
	}}
}

// WithObstacle adds a wall rectangle.
func WithObstacle(x, y, w, h float64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.obstacles = append(ts.obstacles, Obstacle{
			Min: Vec2{x, y}, Max: Vec2{x + w, y + h}, Layer: LayerWall,
		})
	}}
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.seed = seed }}
}

// WithVerbose enables per-tick verbose logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.verbose = v }}
}

// WithTuning mutates the tuning before wiring. Applied over the defaults.
func WithTuning(mutate func(*Tuning)) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { mutate(&ts.Tuning) }}
}

// WithAgentAt places the agent (and its spawn anchor).
func WithAgentAt(x, y float64) SimOption {
	return SimOption{simOptActor, func(ts *TestSim) { ts.agentPos = Vec2{x, y} }}
}

// WithTargetAt places the target.
func WithTargetAt(x, y float64) SimOption {
	return SimOption{simOptActor, func(ts *TestSim) { ts.targetPos = Vec2{x, y} }}
}

// WithTargetScript installs a per-tick target mover.
func WithTargetScript(s TargetScript) SimOption {
	return SimOption{simOptActor, func(ts *TestSim) { ts.script = s }}
}

// WithAttack enables the attack collaborator.
func WithAttack() SimOption {
	return SimOption{simOptActor, func(ts *TestSim) { ts.withAttack = true }}
}

// NewTestSim constructs a harness from the given options in two ordered
// passes: infrastructure first (map size, obstacles, seed, tuning, verbose),
// then actors and wiring.
func NewTestSim(opts ...SimOption) (*TestSim, error) {
	ts := &TestSim{
		width:     1280,
		height:    720,
		seed:      1,
		Tuning:    DefaultTuning(),
		agentPos:  Vec2{200, 360},
		targetPos: Vec2{640, 360},
	}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(ts)
		}
	}
	ts.SimLog = NewSimLog(ts.verbose)
	ts.rng = rand.New(rand.NewSource(ts.seed)) // #nosec G404 -- deterministic sim
	ts.World = NewWorld(ts.width, ts.height)
	ts.World.obstacles = ts.obstacles

	for _, o := range opts {
		if o.kind == simOptActor {
			o.fn(ts)
		}
	}

	ts.Agent = NewAgent(ts.World, ts.agentPos, ts.Tuning.ObstacleMask)
	ts.Target = &Target{Pos: ts.targetPos}
	ts.Sensor = NewSensor(ts.World, ts.Agent, ts.Target, &ts.Tuning, ts.rng)
	ts.Loco = NewLocomotion(ts.Agent.Body(), &ts.Tuning, ts.rng)

	brain, err := NewBrain(ts.Agent, ts.Target, ts.Sensor, ts.Loco,
		&ts.Tuning, ts.rng, ts.SimLog)
	if err != nil {
		return nil, fmt.Errorf("assemble sim: %w", err)
	}
	ts.Brain = brain

	if ts.withAttack {
		ts.Attack = NewAttackDriver(ts.World, ts.Agent, ts.Target, ts.Brain,
			&ts.Tuning, ts.rng, ts.SimLog)
	}
	return ts, nil
}

// MustSim is the test/scenario helper: panics on assembly error.
func MustSim(opts ...SimOption) *TestSim {
	ts, err := NewTestSim(opts...)
	if err != nil {
		panic(err)
	}
	return ts
}

// CurrentTick returns the current simulation tick.
func (ts *TestSim) CurrentTick() int { return ts.tick }

// Tick advances the simulation one fixed step: script the target, run the
// decision loop, apply locomotion, integrate physics, then drive the attack
// collaborator.
func (ts *TestSim) Tick() {
	ts.tick++
	if ts.script != nil {
		ts.script(ts.Target, ts.tick, TickDT)
	}

	ts.Brain.Update(TickDT)
	ts.Loco.Update(TickDT)
	ts.Agent.Body().Step(TickDT)

	if ts.Attack != nil {
		ts.Attack.Update(TickDT)
	}

	// Verbose per-tick trail.
	pos := ts.Agent.Pos()
	ts.SimLog.AddVerbose(ts.tick, "move", "position",
		fmt.Sprintf("(%.1f,%.1f)", pos.X, pos.Y), 0)
}

// RunTicks advances the simulation n ticks.
func (ts *TestSim) RunTicks(n int) {
	for i := 0; i < n; i++ {
		ts.Tick()
	}
}

// RunUntil advances up to maxTicks, stopping early once predicate returns
// true. Returns the tick at which it was satisfied, or -1.
func (ts *TestSim) RunUntil(predicate func(*TestSim) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		ts.Tick()
		if predicate(ts) {
			return ts.tick
		}
	}
	return -1
}
