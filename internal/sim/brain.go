package sim

import (
	"errors"
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"
)

// Mode is the agent's high-level behaviour state. Exactly one is current.
type Mode int

const (
	ModeIdle    Mode = iota // holding at rest, scanning for the target
	ModeChase               // target detected, closing to preferred distance
	ModeRetreat             // target too close, opening distance
	ModeReturn              // beyond the leash, heading back to spawn
	ModeStuck               // wedged against geometry, running recovery
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeChase:
		return "chase"
	case ModeRetreat:
		return "retreat"
	case ModeReturn:
		return "return"
	case ModeStuck:
		return "stuck"
	default:
		return "unknown"
	}
}

// stuckRecovery tracks the escalating unstick protocol. It is reset whole on
// every fresh entry into ModeStuck and again when a teleport fires.
type stuckRecovery struct {
	attempts      int
	timer         float64
	forced        bool // raised for a non-contact reason (blocked return path)
	teleporting   bool
	teleportTimer float64
}

// AIState is the brain's explicit mutable state: current and interrupted
// mode, the plain-accumulator timers, and the recovery struct. previousMode
// is only meaningful while Mode == ModeStuck.
type AIState struct {
	Mode         Mode
	PreviousMode Mode

	idleTimer     float64
	noPathTimer   float64
	lastTargetPos Vec2

	recovery stuckRecovery
}

// Brain is the orchestrating state machine. Each tick it polls the sensor
// for a stuck condition (highest priority), executes the current mode's
// behaviour through the locomotion controller, then applies the leash check.
type Brain struct {
	agent  *Agent
	target *Target
	sensor *Sensor
	loco   *Locomotion
	tuning *Tuning
	rng    *rand.Rand
	log    *SimLog

	state    AIState
	tick     int
	throttle Throttle
}

// NewBrain wires the state machine. All collaborators are required for the
// brain's entire lifetime; a nil reference is a construction error, never a
// runtime condition.
func NewBrain(agent *Agent, target *Target, sensor *Sensor, loco *Locomotion,
	tuning *Tuning, rng *rand.Rand, log *SimLog) (*Brain, error) {
	switch {
	case agent == nil:
		return nil, errors.New("brain: agent is required")
	case target == nil:
		return nil, errors.New("brain: target is required")
	case sensor == nil:
		return nil, errors.New("brain: sensor is required")
	case loco == nil:
		return nil, errors.New("brain: locomotion is required")
	case tuning == nil:
		return nil, errors.New("brain: tuning is required")
	case rng == nil:
		return nil, errors.New("brain: rng is required")
	}
	if err := tuning.Validate(); err != nil {
		return nil, err
	}
	return &Brain{
		agent:    agent,
		target:   target,
		sensor:   sensor,
		loco:     loco,
		tuning:   tuning,
		rng:      rng,
		log:      log,
		throttle: Throttle{Interval: 1.0},
	}, nil
}

// Mode returns the current behaviour mode.
func (b *Brain) Mode() Mode { return b.state.Mode }

// PreviousMode returns the mode interrupted by the current Stuck episode.
// Only meaningful while Mode() == ModeStuck.
func (b *Brain) PreviousMode() Mode { return b.state.PreviousMode }

// TargetDetected gates the attack collaborator: true while engaging.
func (b *Brain) TargetDetected() bool {
	return b.state.Mode == ModeChase || b.state.Mode == ModeRetreat
}

// ReturningHome gates the attack collaborator: true while disengaged and
// heading back to spawn.
func (b *Brain) ReturningHome() bool {
	return b.state.Mode == ModeReturn
}

// RecoveryAttempts returns the current unstick attempt count.
func (b *Brain) RecoveryAttempts() int { return b.state.recovery.attempts }

// TeleportRemaining returns the seconds left on the teleport countdown, or 0
// when no teleport is armed.
func (b *Brain) TeleportRemaining() float64 {
	r := b.state.recovery
	if !r.teleporting {
		return 0
	}
	return math.Max(0, b.tuning.TeleportWarning-r.teleportTimer)
}

// Update runs one simulation tick of the decision loop.
func (b *Brain) Update(dt float64) {
	b.tick++
	b.sensor.Advance(dt)

	// --- Stuck pre-emption (highest priority, all modes) ---
	// Guarded by Mode != Stuck so an ongoing recovery cannot re-arm itself.
	if b.state.Mode != ModeStuck && b.sensor.IsStuckToWall() {
		b.enterStuck(false)
	}

	switch b.state.Mode {
	case ModeIdle:
		b.tickIdle()
	case ModeChase:
		b.tickChase(dt)
	case ModeRetreat:
		b.tickRetreat(dt)
	case ModeReturn:
		b.tickReturn(dt)
	case ModeStuck:
		b.tickStuck(dt)
	}

	// --- Leash check (all modes except Stuck, after mode logic) ---
	if b.state.Mode != ModeStuck && b.state.Mode != ModeReturn &&
		Dist(b.agent.Pos(), b.agent.Spawn()) > b.tuning.LeashRadius {
		b.setMode(ModeReturn)
		b.state.noPathTimer = 0
	}
}

// setMode transitions to m, logging the change. Timers that belong to the
// outgoing mode are cleared.
func (b *Brain) setMode(m Mode) {
	if b.state.Mode == m {
		return
	}
	b.log.Add(b.tick, "mode", "change",
		b.state.Mode.String()+" → "+m.String(), 0)
	b.state.Mode = m
	b.state.idleTimer = 0
	if m == ModeChase {
		b.state.lastTargetPos = b.target.Pos
	}
}

// enterStuck interrupts the current mode for recovery. The whole recovery
// struct resets on every fresh entry; forced entries skip local nudges and
// go straight to teleport scheduling.
func (b *Brain) enterStuck(forced bool) {
	b.state.PreviousMode = b.state.Mode
	b.state.recovery = stuckRecovery{forced: forced}
	b.setMode(ModeStuck)
	if b.throttle.Allow(b.sensor.now) {
		diag("recover", logrus.Fields{
			"forced":   forced,
			"previous": b.state.PreviousMode.String(),
			"x":        b.agent.Pos().X,
			"y":        b.agent.Pos().Y,
		}).Debug("stuck condition raised")
	}
}

// --- Mode behaviours ---

func (b *Brain) tickIdle() {
	if b.sensor.CanSeeTarget() {
		b.log.Add(b.tick, "sense", "acquired", "target sighted", b.sensor.DistanceToTarget())
		b.setMode(ModeChase)
	}
}

func (b *Brain) tickChase(dt float64) {
	if !b.sensor.CanSeeTarget() {
		// Hold position and wait to reacquire; no transition.
		b.loco.Stop()
		return
	}

	if b.sensor.TooClose() {
		// Zero-latency response: run one Retreat tick in the same frame.
		b.setMode(ModeRetreat)
		b.tickRetreat(dt)
		return
	}

	b.state.idleTimer += dt
	if b.state.idleTimer < b.tuning.ReactionDelay {
		return
	}
	moved := Dist(b.target.Pos, b.state.lastTargetPos)
	if b.sensor.TooFar() || moved > b.tuning.ReactionThreshold {
		p := b.approachPosition()
		b.loco.MoveTo(p)
		b.log.Add(b.tick, "move", "approach", "", Dist(b.agent.Pos(), p))
		b.state.idleTimer = 0
		b.state.lastTargetPos = b.target.Pos
	}
}

func (b *Brain) tickRetreat(dt float64) {
	if !b.sensor.CanSeeTarget() {
		b.loco.Stop()
		return
	}

	if b.sensor.TooClose() {
		b.state.idleTimer += dt
		if b.state.idleTimer >= b.tuning.ReactionDelay {
			p := b.retreatPosition()
			b.loco.MoveTo(p)
			b.log.Add(b.tick, "move", "retreat", "", Dist(b.agent.Pos(), p))
			b.state.idleTimer = 0
		}
		return
	}

	// Distance acceptable again.
	b.setMode(ModeChase)
}

func (b *Brain) tickReturn(dt float64) {
	spawn := b.agent.Spawn()
	if Dist(b.agent.Pos(), spawn) < b.tuning.SpawnArriveRadius {
		b.loco.Stop()
		b.state.noPathTimer = 0
		b.setMode(ModeIdle)
		return
	}

	if b.sensor.IsPathClear(spawn) {
		b.state.noPathTimer = 0
		b.state.idleTimer += dt
		if b.state.idleTimer >= b.tuning.ReactionDelay {
			b.loco.MoveTo(spawn)
			b.state.idleTimer = 0
		}
		return
	}

	// Route home blocked. Nudging cannot fix an occluded path, so after a
	// grace period this becomes a forced Stuck that skips local recovery.
	b.state.noPathTimer += dt
	if b.state.noPathTimer >= b.tuning.NoPathStuckAfter {
		b.log.Add(b.tick, "recover", "forced_stuck",
			"return path blocked too long", b.state.noPathTimer)
		b.enterStuck(true)
	}
}

func (b *Brain) tickStuck(dt float64) {
	r := &b.state.recovery

	if r.teleporting {
		r.teleportTimer += dt
		if r.teleportTimer >= b.tuning.TeleportWarning {
			// Terminal fallback: snap home, bypassing locomotion.
			b.loco.Stop()
			b.agent.Body().Teleport(b.agent.Spawn())
			b.state.recovery = stuckRecovery{}
			b.log.Add(b.tick, "recover", "teleport", "reset to spawn", 0)
			b.setMode(ModeIdle)
		}
		return
	}

	if r.forced {
		// A blocked path is not something nudging can fix.
		r.teleporting = true
		return
	}

	// Escape check runs every tick, independent of the attempt timer.
	if !b.sensor.IsStuckToWall() {
		r.attempts = 0
		b.state.noPathTimer = 0
		b.log.Add(b.tick, "recover", "escaped",
			"resuming "+b.state.PreviousMode.String(), 0)
		b.setMode(b.state.PreviousMode)
		return
	}

	r.timer += dt
	if r.timer < b.tuning.RecoveryInterval {
		return
	}
	r.timer = 0
	r.attempts++

	dir := b.sensor.StuckDirection()
	if dir != (Vec2{}) {
		force := 1 + float64(r.attempts)*b.tuning.EscalationStep
		b.loco.UnstickInDirection(dir, force)
		b.log.Add(b.tick, "recover", "unstick", "", force)
	}
	if r.attempts >= b.tuning.MaxRecoveryAttempts {
		b.log.Add(b.tick, "recover", "exhausted", "arming teleport",
			float64(r.attempts))
		r.teleporting = true
	}
}

// --- Position helpers ---

// approachPosition picks a point at the preferred distance from the target
// on the agent's side. If blocked, it tries perpendicular offsets left then
// right at a shorter distance, then falls back to a short direct step.
func (b *Brain) approachPosition() Vec2 {
	pos := b.agent.Pos()
	target := b.target.Pos
	dir := target.Sub(pos).Normalized()
	if dir == (Vec2{}) {
		dir = Vec2{1, 0}
	}

	cand := target.Sub(dir.Scale(b.tuning.PreferredDistance))
	if b.sensor.IsPathClear(cand) {
		return cand
	}

	short := b.tuning.PreferredDistance * 0.6
	perp := Vec2{-dir.Y, dir.X}
	if left := target.Add(perp.Scale(short)); b.sensor.IsPathClear(left) {
		return left
	}
	if right := target.Sub(perp.Scale(short)); b.sensor.IsPathClear(right) {
		return right
	}

	// Both alternates blocked: inch straight toward the target.
	return pos.Add(dir.Scale(b.tuning.PreferredDistance * 0.25))
}

// retreatPosition mirrors approachPosition away from the target. The final
// fallback uses preferred-minus-comfort as a minimum separation rather than
// a short step.
func (b *Brain) retreatPosition() Vec2 {
	pos := b.agent.Pos()
	target := b.target.Pos
	away := pos.Sub(target).Normalized()
	if away == (Vec2{}) {
		// On top of the target: any direction opens distance.
		angle := b.rng.Float64() * 2 * math.Pi
		away = Vec2{math.Cos(angle), math.Sin(angle)}
	}

	cand := target.Add(away.Scale(b.tuning.PreferredDistance))
	if b.sensor.IsPathClear(cand) {
		return cand
	}

	short := b.tuning.PreferredDistance * 0.6
	perp := Vec2{-away.Y, away.X}
	if left := target.Add(perp.Scale(short)); b.sensor.IsPathClear(left) {
		return left
	}
	if right := target.Sub(perp.Scale(short)); b.sensor.IsPathClear(right) {
		return right
	}

	return target.Add(away.Scale(b.tuning.PreferredDistance - b.tuning.ComfortZone))
}
