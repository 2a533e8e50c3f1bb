package sim

import (
	"fmt"
	"strings"
)

// DebugReport renders a textual dump of the current simulation state plus
// the recent event tail. The viewer copies it to the clipboard on demand.
func (ts *TestSim) DebugReport(lastTicks int) string {
	if lastTicks <= 0 {
		lastTicks = 300
	}
	fromTick := ts.tick - lastTicks + 1
	if fromTick < 0 {
		fromTick = 0
	}

	snap := ts.Snapshot()

	var b strings.Builder
	fmt.Fprintf(&b, "--- PursuitSense debug report ---\n")
	fmt.Fprintf(&b, "tick=%d mode=%s", snap.Tick, snap.Mode)
	if snap.PreviousMode != "" {
		fmt.Fprintf(&b, " (interrupted: %s)", snap.PreviousMode)
	}
	b.WriteByte('\n')
	fmt.Fprintf(&b, "agent=(%.1f,%.1f) facing=%+d target=(%.1f,%.1f) dist=%.1f\n",
		snap.AgentX, snap.AgentY, snap.Facing, snap.TargetX, snap.TargetY,
		ts.Sensor.DistanceToTarget())
	fmt.Fprintf(&b, "spawn=(%.1f,%.1f) leash=%.0f from_spawn=%.1f\n",
		snap.SpawnX, snap.SpawnY, snap.LeashRadius,
		Dist(ts.Agent.Pos(), ts.Agent.Spawn()))
	fmt.Fprintf(&b, "sense: in_range=%v sees=%v too_close=%v too_far=%v stuck=%v\n",
		ts.Sensor.InRange(), ts.Sensor.CanSeeTarget(),
		ts.Sensor.TooClose(), ts.Sensor.TooFar(), ts.Sensor.IsStuckToWall())
	fmt.Fprintf(&b, "recovery: attempts=%d teleport_in=%.2fs\n",
		snap.RecoveryAttempts, snap.TeleportRemaining)

	fmt.Fprintf(&b, "\n== events T=[%d..%d] ==\n", fromTick, ts.tick)
	tail := ts.SimLog.FilterTickRange(fromTick, ts.tick)
	if len(tail) == 0 {
		b.WriteString("(none)\n")
	}
	for _, e := range tail {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return b.String()
}
