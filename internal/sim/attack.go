package sim

import "math/rand"

// Projectile is a live shot in flight.
type Projectile struct {
	Pos Vec2
	Vel Vec2
}

// AttackDriver is the attack collaborator. It consumes only the brain's two
// read-only gating predicates and independently re-derives range and line of
// sight before firing. With a configured probability a second shot is
// scheduled as explicit timer state and fires once its delay elapses.
// Damage application is the caller's concern via OnHit.
type AttackDriver struct {
	world  *World
	agent  *Agent
	target *Target
	brain  *Brain
	tuning *Tuning
	rng    *rand.Rand
	log    *SimLog

	cooldown      float64
	secondPending bool
	secondTimer   float64
	projectiles   []Projectile
	tick          int

	// OnHit is invoked once per projectile that reaches the target.
	OnHit func()
}

// NewAttackDriver wires the collaborator. OnHit may be left nil.
func NewAttackDriver(w *World, agent *Agent, target *Target, brain *Brain,
	tuning *Tuning, rng *rand.Rand, log *SimLog) *AttackDriver {
	return &AttackDriver{
		world:  w,
		agent:  agent,
		target: target,
		brain:  brain,
		tuning: tuning,
		rng:    rng,
		log:    log,
	}
}

// Projectiles returns live shots for rendering.
func (a *AttackDriver) Projectiles() []Projectile {
	return a.projectiles
}

// Update advances projectiles and attack timing one tick.
func (a *AttackDriver) Update(dt float64) {
	a.tick++
	a.stepProjectiles(dt)

	if a.cooldown > 0 {
		a.cooldown -= dt
	}

	// The pending second shot fires on its own timer even if eligibility
	// lapsed after the first shot; the pair was committed together.
	if a.secondPending {
		a.secondTimer -= dt
		if a.secondTimer <= 0 {
			a.secondPending = false
			a.fire()
			a.log.Add(a.tick, "attack", "second_shot", "", 0)
		}
	}

	if !a.brain.TargetDetected() || a.brain.ReturningHome() {
		return
	}
	if a.cooldown > 0 {
		return
	}

	// Re-derive range and occlusion rather than trusting pushed state.
	from := a.agent.Pos()
	to := a.target.Pos
	if Dist(from, to) > a.tuning.AttackRange {
		return
	}
	if a.world.RaycastAny(from, to, a.tuning.ObstacleMask) {
		return
	}

	a.fire()
	a.log.Add(a.tick, "attack", "shot", "", 0)
	a.cooldown = a.tuning.AttackCooldown
	if a.rng.Float64() < a.tuning.DoubleShotChance {
		a.secondPending = true
		a.secondTimer = a.tuning.DoubleShotDelay
	}
}

// fire launches a projectile at the target's current position.
func (a *AttackDriver) fire() {
	dir := a.target.Pos.Sub(a.agent.Pos()).Normalized()
	if dir == (Vec2{}) {
		return
	}
	a.projectiles = append(a.projectiles, Projectile{
		Pos: a.agent.Pos(),
		Vel: dir.Scale(a.tuning.ProjectileSpeed),
	})
}

// stepProjectiles integrates shots, reports hits, and culls anything that
// hits geometry, the target, or leaves the world.
func (a *AttackDriver) stepProjectiles(dt float64) {
	kept := a.projectiles[:0]
	for _, p := range a.projectiles {
		next := p.Pos.Add(p.Vel.Scale(dt))

		if Dist(next, a.target.Pos) <= a.tuning.ProjectileHitRadius {
			if a.OnHit != nil {
				a.OnHit()
			}
			a.log.Add(a.tick, "attack", "hit", "", 0)
			continue
		}
		if a.world.RaycastAny(p.Pos, next, a.tuning.ObstacleMask) {
			continue
		}
		if next.X < 0 || next.Y < 0 || next.X > a.world.Width || next.Y > a.world.Height {
			continue
		}
		p.Pos = next
		kept = append(kept, p)
	}
	a.projectiles = kept
}
