package sim

// Snapshot is the read-only view exposed to visualization collaborators
// (viewer HUD, websocket feed). It carries no behavioural coupling: nothing
// reads it back into the core.
type Snapshot struct {
	Tick int `json:"tick"`

	Mode         string  `json:"mode"`
	PreviousMode string  `json:"previousMode,omitempty"`
	AgentX       float64 `json:"agentX"`
	AgentY       float64 `json:"agentY"`
	TargetX      float64 `json:"targetX"`
	TargetY      float64 `json:"targetY"`
	SpawnX       float64 `json:"spawnX"`
	SpawnY       float64 `json:"spawnY"`
	Facing       int     `json:"facing"`

	LeashRadius       float64 `json:"leashRadius"`
	RecoveryAttempts  int     `json:"recoveryAttempts"`
	TeleportRemaining float64 `json:"teleportRemaining"`
	TargetDetected    bool    `json:"targetDetected"`
	ReturningHome     bool    `json:"returningHome"`
}

// Snapshot captures the current state of a simulation.
func (ts *TestSim) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:              ts.tick,
		Mode:              ts.Brain.Mode().String(),
		AgentX:            ts.Agent.Pos().X,
		AgentY:            ts.Agent.Pos().Y,
		TargetX:           ts.Target.Pos.X,
		TargetY:           ts.Target.Pos.Y,
		SpawnX:            ts.Agent.Spawn().X,
		SpawnY:            ts.Agent.Spawn().Y,
		Facing:            ts.Loco.Facing(),
		LeashRadius:       ts.Tuning.LeashRadius,
		RecoveryAttempts:  ts.Brain.RecoveryAttempts(),
		TeleportRemaining: ts.Brain.TeleportRemaining(),
		TargetDetected:    ts.Brain.TargetDetected(),
		ReturningHome:     ts.Brain.ReturningHome(),
	}
	if ts.Brain.Mode() == ModeStuck {
		snap.PreviousMode = ts.Brain.PreviousMode().String()
	}
	return snap
}
