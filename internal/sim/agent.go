package sim

// Default body sizes, matching the viewer's drawing scale.
const (
	agentRadius  = 6
	targetRadius = 6
)

// Agent is the controlled pursuit entity. Its position is mutated only by
// the physics body (continuous movement) or by the brain's teleport recovery
// (discontinuous reset to spawn).
type Agent struct {
	body  *Body
	spawn Vec2
}

// NewAgent creates an agent at pos. The spawn anchor is captured once here
// and is immutable for the agent's lifetime.
func NewAgent(w *World, pos Vec2, mask uint32) *Agent {
	return &Agent{
		body:  w.NewBody(pos, agentRadius, mask),
		spawn: pos,
	}
}

// Pos returns the agent's current position.
func (a *Agent) Pos() Vec2 { return a.body.Pos }

// Spawn returns the immutable spawn anchor.
func (a *Agent) Spawn() Vec2 { return a.spawn }

// Body exposes the physics body for the locomotion controller and the
// per-tick integration step.
func (a *Agent) Body() *Body { return a.body }

// Target is the pursued entity. The core only ever reads Pos; scenario
// scripts and the viewer move it.
type Target struct {
	Pos Vec2
}
