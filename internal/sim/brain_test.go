package sim

import "testing"

func TestBrain_IdleToChaseOnSight(t *testing.T) {
	ts := MustSim(
		WithAgentAt(200, 360),
		WithTargetAt(400, 360),
	)

	ts.RunTicks(1)
	if ts.Brain.Mode() != ModeChase {
		t.Fatalf("visible target should flip idle to chase, got %s", ts.Brain.Mode())
	}
	if !ts.SimLog.HasEntry("mode", "change", "idle → chase") {
		t.Fatalf("mode change should be logged:\n%s", ts.SimLog.Format())
	}
}

func TestBrain_ChaseWaitsForReactionDelay(t *testing.T) {
	ts := MustSim(
		WithAgentAt(200, 360),
		WithTargetAt(400, 360), // 200px: beyond the outer band at 170
	)

	// ReactionDelay 0.25s is 15 ticks; no approach may be issued before it.
	ts.RunTicks(14)
	if ts.SimLog.CountCategory("move", "approach") != 0 {
		t.Fatalf("approach issued before the reaction delay elapsed:\n%s", ts.SimLog.Format())
	}

	ts.RunTicks(30)
	if ts.SimLog.CountCategory("move", "approach") == 0 {
		t.Fatalf("approach should fire once the reaction delay elapsed")
	}
	if !ts.Loco.Moving() {
		t.Fatalf("agent should be moving toward the approach point")
	}
}

func TestBrain_ChaseSettlesAtPreferredDistance(t *testing.T) {
	ts := MustSim(
		WithAgentAt(200, 360),
		WithTargetAt(400, 360),
	)

	ts.RunTicks(600)
	dist := ts.Sensor.DistanceToTarget()
	inner := ts.Tuning.PreferredDistance - ts.Tuning.ComfortZone
	outer := ts.Tuning.PreferredDistance + ts.Tuning.ComfortZone
	if dist < inner || dist > outer {
		t.Fatalf("agent should settle inside the comfort band [%g,%g], got %.1f", inner, outer, dist)
	}

	// A static target inside the band generates no further repositioning.
	before := ts.SimLog.CountCategory("move", "approach")
	ts.RunTicks(120)
	if after := ts.SimLog.CountCategory("move", "approach"); after != before {
		t.Fatalf("settled agent kept repositioning: %d → %d approaches", before, after)
	}
}

func TestBrain_ChaseHoldsWhenSightIsLost(t *testing.T) {
	ts := MustSim(
		WithAgentAt(200, 360),
		WithTargetAt(460, 360),
	)
	ts.RunTicks(60)
	if ts.Brain.Mode() != ModeChase {
		t.Fatalf("expected chase, got %s", ts.Brain.Mode())
	}

	// Drop a wall across the sight line: the agent holds in Chase, stopped,
	// waiting to reacquire. Losing sight is not a mode transition.
	ts.World.AddObstacle(380, 340, 20, 40, LayerWall)
	ts.RunTicks(5)
	if ts.Loco.Moving() {
		t.Fatalf("agent should stop while sight is lost")
	}
	ts.RunTicks(200)
	if ts.Brain.Mode() != ModeChase {
		t.Fatalf("occlusion must not leave chase, got %s", ts.Brain.Mode())
	}
}

func TestBrain_TooCloseRetreatsSameFrame(t *testing.T) {
	ts := MustSim(
		WithAgentAt(200, 360),
		WithTargetAt(260, 360), // 60px: inside the inner band at 110
	)

	ts.RunTicks(2)
	if ts.Brain.Mode() != ModeRetreat {
		t.Fatalf("crowded agent should be retreating, got %s", ts.Brain.Mode())
	}
	if !ts.SimLog.HasEntry("mode", "change", "chase → retreat") {
		t.Fatalf("chase → retreat should be logged:\n%s", ts.SimLog.Format())
	}

	// The retreat opens distance past the inner boundary, then hands back.
	found := ts.RunUntil(func(ts *TestSim) bool {
		return ts.Sensor.DistanceToTarget() >= ts.Tuning.PreferredDistance-ts.Tuning.ComfortZone
	}, 900)
	if found < 0 {
		t.Fatalf("retreat never opened the distance; dist=%.1f\n%s",
			ts.Sensor.DistanceToTarget(), ts.SimLog.Format())
	}
	ts.RunTicks(2)
	if ts.Brain.Mode() != ModeChase {
		t.Fatalf("acceptable distance should hand back to chase, got %s", ts.Brain.Mode())
	}
}

func TestBrain_LeashTriggersReturnAndComesHome(t *testing.T) {
	ts := MustSim(
		WithWorldSize(4000, 720),
		WithAgentAt(200, 360),
		WithTargetAt(420, 360),
		WithTargetScript(func(tg *Target, tick int, dt float64) {
			tg.Pos.X += 70 * dt // slow enough to keep the agent hooked
		}),
	)

	found := ts.RunUntil(func(ts *TestSim) bool {
		return ts.Brain.Mode() == ModeReturn
	}, 3600)
	if found < 0 {
		t.Fatalf("lured agent never hit the leash:\n%s", ts.SimLog.Format())
	}
	if d := Dist(ts.Agent.Pos(), ts.Agent.Spawn()); d <= ts.Tuning.LeashRadius-ts.Tuning.MoveSpeed*TickDT*2 {
		t.Fatalf("return should trigger only past the leash, dist=%.1f", d)
	}

	home := ts.RunUntil(func(ts *TestSim) bool {
		return ts.Brain.Mode() == ModeIdle
	}, 2400)
	if home < 0 {
		t.Fatalf("returning agent never reached home:\n%s", ts.SimLog.Format())
	}
	if d := Dist(ts.Agent.Pos(), ts.Agent.Spawn()); d > ts.Tuning.SpawnArriveRadius {
		t.Fatalf("idle should begin at the spawn anchor, dist=%.1f", d)
	}

	// Target is long gone; the agent stays put.
	ts.RunTicks(60)
	if ts.Brain.Mode() != ModeIdle {
		t.Fatalf("expected to remain idle at spawn, got %s", ts.Brain.Mode())
	}
}

func TestBrain_StuckPreemptsAndResumesPreviousMode(t *testing.T) {
	ts := MustSim(
		WithObstacle(240, 280, 40, 160), // wall face 8px right of the agent
		WithAgentAt(232, 360),
		WithTargetAt(1100, 360), // out of detection range
	)

	ts.RunTicks(1)
	if ts.Brain.Mode() != ModeStuck {
		t.Fatalf("wall contact should pre-empt, got %s", ts.Brain.Mode())
	}
	if ts.Brain.PreviousMode() != ModeIdle {
		t.Fatalf("interrupted mode should be idle, got %s", ts.Brain.PreviousMode())
	}

	// The escalating nudges push the agent clear; it resumes where it was.
	freed := ts.RunUntil(func(ts *TestSim) bool {
		return ts.Brain.Mode() == ModeIdle
	}, 600)
	if freed < 0 {
		t.Fatalf("agent never escaped the wall:\n%s", ts.SimLog.Format())
	}
	if ts.SimLog.CountCategory("recover", "unstick") == 0 {
		t.Fatalf("escape should have used at least one nudge")
	}
	if !ts.SimLog.HasEntry("recover", "escaped", "resuming idle") {
		t.Fatalf("escape should log the resumed mode:\n%s", ts.SimLog.Format())
	}
	if ts.SimLog.CountCategory("recover", "teleport") != 0 {
		t.Fatalf("a recoverable wedge must not teleport")
	}
}

func TestBrain_ExhaustedRecoveryTeleportsHome(t *testing.T) {
	// Sealed cell around the agent: every nudge bounces off a wall, so the
	// attempt ladder exhausts and the teleport fallback fires.
	ts := MustSim(
		WithObstacle(190, 330, 20, 60), // left
		WithObstacle(230, 330, 20, 60), // right
		WithObstacle(190, 326, 60, 20), // top
		WithObstacle(190, 374, 60, 20), // bottom
		WithAgentAt(220, 360),
		WithTargetAt(1100, 360),
	)

	done := ts.RunUntil(func(ts *TestSim) bool {
		return ts.SimLog.HasEntry("recover", "teleport", "")
	}, 600)
	if done < 0 {
		t.Fatalf("boxed agent never teleported:\n%s", ts.SimLog.Format())
	}

	if !ts.SimLog.HasEntry("recover", "exhausted", "") {
		t.Fatalf("teleport should follow attempt exhaustion")
	}
	if n := ts.SimLog.CountCategory("recover", "unstick"); n < ts.Tuning.MaxRecoveryAttempts {
		t.Fatalf("expected at least %d nudges before teleport, got %d",
			ts.Tuning.MaxRecoveryAttempts, n)
	}
	if ts.Agent.Pos() != ts.Agent.Spawn() {
		t.Fatalf("teleport must snap to spawn, got %+v", ts.Agent.Pos())
	}
	if ts.Brain.Mode() != ModeIdle {
		t.Fatalf("teleport should land in idle, got %s", ts.Brain.Mode())
	}
}

func TestBrain_BlockedReturnForcesTeleportWithoutNudges(t *testing.T) {
	ts := MustSim(
		WithWorldSize(4000, 720),
		WithAgentAt(200, 360),
		WithTargetAt(420, 360),
		WithTargetScript(func(tg *Target, tick int, dt float64) {
			tg.Pos.X += 70 * dt
		}),
	)

	leashed := ts.RunUntil(func(ts *TestSim) bool {
		return ts.Brain.Mode() == ModeReturn
	}, 3600)
	if leashed < 0 {
		t.Fatalf("agent never hit the leash:\n%s", ts.SimLog.Format())
	}

	// Seal the route home. Nudging cannot fix an occluded path, so after the
	// grace period the brain forces a stuck that goes straight to teleport.
	ts.World.AddObstacle(350, 0, 30, 720, LayerWall)

	done := ts.RunUntil(func(ts *TestSim) bool {
		return ts.SimLog.HasEntry("recover", "teleport", "")
	}, 600)
	if done < 0 {
		t.Fatalf("blocked return never escalated to teleport:\n%s", ts.SimLog.Format())
	}
	if !ts.SimLog.HasEntry("recover", "forced_stuck", "") {
		t.Fatalf("forced stuck should be logged before the teleport")
	}
	if n := ts.SimLog.CountCategory("recover", "unstick"); n != 0 {
		t.Fatalf("forced stuck must skip local nudges, got %d", n)
	}
	if ts.Agent.Pos() != ts.Agent.Spawn() {
		t.Fatalf("teleport must snap to spawn, got %+v", ts.Agent.Pos())
	}
	if ts.Brain.Mode() != ModeIdle {
		t.Fatalf("teleport should land in idle, got %s", ts.Brain.Mode())
	}
}

func TestBrain_RequiresCollaborators(t *testing.T) {
	tuning := DefaultTuning()
	if _, err := NewBrain(nil, nil, nil, nil, &tuning, nil, nil); err == nil {
		t.Fatalf("nil collaborators must be rejected at construction")
	}
}

func TestBrain_RejectsInvalidTuning(t *testing.T) {
	ts := MustSim()
	bad := DefaultTuning()
	bad.ComfortZone = bad.PreferredDistance // invalid band

	_, err := NewBrain(ts.Agent, ts.Target, ts.Sensor, ts.Loco, &bad, ts.rng, ts.SimLog)
	if err == nil {
		t.Fatalf("invalid tuning must be rejected at construction")
	}
}
