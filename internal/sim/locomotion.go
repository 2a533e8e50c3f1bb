package sim

import (
	"math"
	"math/rand"
)

// Locomotion owns the agent's velocity. It is the only writer of velocity:
// steady movement goes through smoothed acceleration toward a target point,
// and stuck recovery goes through one-shot impulses.
type Locomotion struct {
	body   *Body
	tuning *Tuning
	rng    *rand.Rand

	moving bool
	target Vec2
	facing int // +1 facing right, -1 facing left
}

// NewLocomotion creates a controller for the given body.
func NewLocomotion(body *Body, tuning *Tuning, rng *rand.Rand) *Locomotion {
	return &Locomotion{body: body, tuning: tuning, rng: rng, facing: 1}
}

// MoveTo starts (or retargets) movement toward p. Idempotent.
func (l *Locomotion) MoveTo(p Vec2) {
	l.target = p
	l.moving = true
}

// Stop clears the movement target. Velocity decays smoothly over the
// following ticks rather than snapping to zero.
func (l *Locomotion) Stop() {
	l.moving = false
}

// Moving reports whether a movement target is active.
func (l *Locomotion) Moving() bool { return l.moving }

// Target returns the current movement target (meaningful while Moving).
func (l *Locomotion) Target() Vec2 { return l.target }

// Facing returns +1 (right) or -1 (left), derived from horizontal velocity.
func (l *Locomotion) Facing() int { return l.facing }

// Update advances the controller one tick. While moving it accelerates the
// velocity toward the target point; otherwise it decelerates toward rest.
// Arrival is terminal: once inside the arrive radius, moving clears and is
// not re-checked until the next MoveTo.
func (l *Locomotion) Update(dt float64) {
	defer l.updateFacing()

	if !l.moving {
		l.body.SetVelocity(approachVec(l.body.Velocity(), Vec2{}, l.tuning.Acceleration*dt))
		return
	}

	pos := l.body.Pos
	if Dist(pos, l.target) <= l.tuning.ArriveRadius {
		l.moving = false
		return
	}

	desired := l.target.Sub(pos).Normalized().Scale(l.tuning.MoveSpeed)
	l.body.SetVelocity(approachVec(l.body.Velocity(), desired, l.tuning.Acceleration*dt))
}

// UnstickInDirection zeroes the current velocity and applies a one-shot
// escape impulse away from the reported contact direction. The heading is
// perturbed by a bounded random rotation so repeated attempts do not retry
// an identical failed heading. Clears any movement target: the impulse owns
// the trajectory this tick.
func (l *Locomotion) UnstickInDirection(wallDir Vec2, multiplier float64) {
	escape := wallDir.Neg().Normalized()
	if escape == (Vec2{}) {
		return
	}
	jitter := (l.rng.Float64()*2 - 1) * l.tuning.UnstickJitterDeg * math.Pi / 180
	escape = escape.Rotated(jitter)

	l.moving = false
	l.body.SetVelocity(Vec2{})
	l.body.ApplyImpulse(escape.Scale(l.tuning.UnstickImpulse * multiplier))
	l.updateFacing()
}

// updateFacing derives facing from horizontal velocity, ignoring the
// near-zero dead-band so facing does not jitter while idling.
func (l *Locomotion) updateFacing() {
	vx := l.body.Velocity().X
	if math.Abs(vx) <= l.tuning.FacingDeadband {
		return
	}
	if vx > 0 {
		l.facing = 1
	} else {
		l.facing = -1
	}
}

// approachVec moves cur toward want by at most maxDelta, component-joint
// (the step is taken along the difference vector, not per axis).
func approachVec(cur, want Vec2, maxDelta float64) Vec2 {
	diff := want.Sub(cur)
	d := diff.Len()
	if d <= maxDelta {
		return want
	}
	return cur.Add(diff.Scale(maxDelta / d))
}
