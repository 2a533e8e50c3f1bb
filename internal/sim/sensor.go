package sim

import (
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"
)

// Cardinal probe directions for contact detection. Each points toward the
// potential obstacle, so an accumulated contact vector also points toward
// geometry and escape is its negation.
var stuckProbeDirs = [4]Vec2{
	{0, -1}, // up
	{0, 1},  // down
	{-1, 0}, // left
	{1, 0},  // right
}

// stuckCancelEpsilon is the squared-length floor below which a summed
// contact vector is treated as cancelled (e.g. simultaneous left+right
// contact) and replaced by a random unit vector.
const stuckCancelEpsilon = 1e-3

// Sensor answers geometry questions about the agent relative to the target
// and the obstacle layer. All queries are pure functions of current
// positions; the only retained state is the diagnostic throttle.
type Sensor struct {
	world  *World
	agent  *Agent
	target *Target
	tuning *Tuning
	rng    *rand.Rand

	now      float64 // sim time in seconds, advanced by the owning loop
	throttle Throttle
}

// NewSensor wires a sensor over the given world and entities.
func NewSensor(w *World, agent *Agent, target *Target, tuning *Tuning, rng *rand.Rand) *Sensor {
	return &Sensor{
		world:    w,
		agent:    agent,
		target:   target,
		tuning:   tuning,
		rng:      rng,
		throttle: Throttle{Interval: 1.0},
	}
}

// Advance moves the sensor's notion of sim time forward. Only the diagnostic
// throttle consumes it; no query result depends on time.
func (s *Sensor) Advance(dt float64) {
	s.now += dt
}

// DistanceToTarget returns the current separation.
func (s *Sensor) DistanceToTarget() float64 {
	return Dist(s.agent.Pos(), s.target.Pos)
}

// InRange reports whether the target is inside the detection radius.
func (s *Sensor) InRange() bool {
	return s.DistanceToTarget() <= s.tuning.DetectionRadius
}

// CanSeeTarget reports whether the target is detected: inside the detection
// radius and with an unobstructed line to it. Occlusion strictly overrides
// range — a near but occluded target is not seen.
func (s *Sensor) CanSeeTarget() bool {
	if !s.InRange() {
		return false
	}
	return !s.world.RaycastAny(s.agent.Pos(), s.target.Pos, s.tuning.ObstacleMask)
}

// TooClose reports whether the target is inside the comfort band's inner
// boundary (closer than preferred minus comfort).
func (s *Sensor) TooClose() bool {
	return s.DistanceToTarget() < s.tuning.PreferredDistance-s.tuning.ComfortZone
}

// TooFar reports whether the target is beyond the comfort band's outer
// boundary (farther than preferred plus comfort).
func (s *Sensor) TooFar() bool {
	return s.DistanceToTarget() > s.tuning.PreferredDistance+s.tuning.ComfortZone
}

// IsPathClear reports whether the agent can plausibly walk straight to p:
// no obstacle overlaps a small disc at p, and the segment from the agent to
// p crosses no obstacle.
func (s *Sensor) IsPathClear(p Vec2) bool {
	if s.world.OverlapCircle(p, s.tuning.PathProbeRadius, s.tuning.ObstacleMask) {
		return false
	}
	return !s.world.RaycastAny(s.agent.Pos(), p, s.tuning.ObstacleMask)
}

// IsStuckToWall reports whether the agent is pressed against geometry in any
// of the four axis directions. This is the authoritative stuck predicate.
func (s *Sensor) IsStuckToWall() bool {
	pos := s.agent.Pos()
	for _, dir := range stuckProbeDirs {
		if s.world.CircleCast(pos, s.tuning.StuckProbeRadius, dir,
			s.tuning.StuckProbeDistance, s.tuning.ObstacleMask) {
			return true
		}
	}
	return false
}

// StuckDirection runs the same four contact probes as IsStuckToWall but
// accumulates every colliding direction into a sum. A single dominant
// contact yields that direction; opposing contacts can cancel to near-zero,
// in which case a random unit vector is returned so recovery always has an
// escape heading. Returns the zero vector only when no probe hits at all.
func (s *Sensor) StuckDirection() Vec2 {
	pos := s.agent.Pos()
	var sum Vec2
	hits := 0
	for _, dir := range stuckProbeDirs {
		if s.world.CircleCast(pos, s.tuning.StuckProbeRadius, dir,
			s.tuning.StuckProbeDistance, s.tuning.ObstacleMask) {
			sum = sum.Add(dir)
			hits++
		}
	}
	if hits == 0 {
		return Vec2{}
	}
	if sum.LenSq() < stuckCancelEpsilon {
		// Vector cancellation: real contact, no net direction. Pick a random
		// escape heading rather than reporting zero.
		if s.throttle.Allow(s.now) {
			diag("sense", logrus.Fields{
				"hits": hits,
				"x":    pos.X,
				"y":    pos.Y,
			}).Debug("contact directions cancelled, using random escape heading")
		}
		return s.randomUnitVector()
	}
	return sum.Normalized()
}

// randomUnitVector returns a uniformly random unit vector.
func (s *Sensor) randomUnitVector() Vec2 {
	angle := s.rng.Float64() * 2 * math.Pi
	return Vec2{math.Cos(angle), math.Sin(angle)}
}
