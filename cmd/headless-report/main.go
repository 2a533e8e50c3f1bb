package main

import (
	"flag"
	"fmt"
	"math"

	"github.com/Garsondee/Pursuit-Sense/internal/sim"
	"github.com/Garsondee/Pursuit-Sense/pkg/logger"
)

type runStats struct {
	runIndex int
	seed     int64

	firstChaseTick   int
	firstRetreatTick int
	firstReturnTick  int
	firstStuckTick   int
	firstEscapeTick  int

	modeChanges  int
	approaches   int
	retreatMoves int
	unsticks     int
	forcedStucks int
	teleports    int
	escapes      int
	shots        int
	hits         int

	finalMode      string
	finalFromSpawn float64
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var scenario string
	var configPath string

	flag.IntVar(&runs, "runs", 5, "number of headless simulation runs")
	flag.IntVar(&ticks, "ticks", 3600, "ticks per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&scenario, "scenario", "orbit", "scenario name (orbit, wedge, lure)")
	flag.StringVar(&configPath, "config", "", "optional tuning YAML file")
	flag.Parse()

	logger.Init()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}
	build, ok := scenarios[scenario]
	if !ok {
		fmt.Printf("error: unsupported scenario %q (supported: orbit, wedge, lure)\n", scenario)
		return
	}

	tuning := sim.DefaultTuning()
	if configPath != "" {
		t, err := sim.LoadTuning(configPath)
		if err != nil {
			fmt.Printf("error: load tuning: %v\n", err)
			return
		}
		tuning = t
	}

	fmt.Printf("=== Headless Pursuit Report ===\n")
	fmt.Printf("scenario=%s runs=%d ticks=%d seed_base=%d seed_step=%d\n\n",
		scenario, runs, ticks, seedBase, seedStep)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		stats := runScenario(build, tuning, i+1, seed, ticks)
		all = append(all, stats)
		printRun(stats)
	}

	printAggregate(all)
}

type scenarioBuilder func(seed int64, tuning sim.Tuning) *sim.TestSim

var scenarios = map[string]scenarioBuilder{
	"orbit": buildOrbit,
	"wedge": buildWedge,
	"lure":  buildLure,
}

// buildOrbit circles the target around the agent's spawn at a radius that
// crosses both hysteresis bands, forcing chase/retreat oscillation under fire.
func buildOrbit(seed int64, tuning sim.Tuning) *sim.TestSim {
	center := sim.Vec2{X: 640, Y: 360}
	return sim.MustSim(
		sim.WithSeed(seed),
		sim.WithTuning(func(t *sim.Tuning) { *t = tuning }),
		sim.WithAgentAt(center.X, center.Y),
		sim.WithTargetAt(center.X+200, center.Y),
		sim.WithAttack(),
		sim.WithTargetScript(func(t *sim.Target, tick int, dt float64) {
			angle := float64(tick) * dt * 0.9
			radius := 120 + 110*math.Sin(float64(tick)*dt*0.35)
			t.Pos = sim.Vec2{
				X: center.X + radius*math.Cos(angle),
				Y: center.Y + radius*math.Sin(angle),
			}
		}),
	)
}

// buildWedge starts the agent pressed into a three-sided pocket with the
// target out of range, exercising the full stuck recovery ladder.
func buildWedge(seed int64, tuning sim.Tuning) *sim.TestSim {
	return sim.MustSim(
		sim.WithSeed(seed),
		sim.WithTuning(func(t *sim.Tuning) { *t = tuning }),
		sim.WithObstacle(240, 280, 40, 160), // right wall of the pocket
		sim.WithObstacle(140, 240, 140, 40), // top
		sim.WithObstacle(140, 440, 140, 40), // bottom
		sim.WithAgentAt(232, 360),
		sim.WithTargetAt(1100, 360),
	)
}

// buildLure walks the target steadily away so the agent chases past the
// leash radius and has to disengage and return.
func buildLure(seed int64, tuning sim.Tuning) *sim.TestSim {
	return sim.MustSim(
		sim.WithSeed(seed),
		sim.WithTuning(func(t *sim.Tuning) { *t = tuning }),
		sim.WithWorldSize(4000, 720),
		sim.WithAgentAt(200, 360),
		sim.WithTargetAt(420, 360),
		sim.WithTargetScript(func(t *sim.Target, tick int, dt float64) {
			t.Pos.X += 70 * dt
		}),
	)
}

func runScenario(build scenarioBuilder, tuning sim.Tuning, runIndex int, seed int64, ticks int) runStats {
	ts := build(seed, tuning)
	ts.RunTicks(ticks)

	snap := ts.Snapshot()
	return runStats{
		runIndex:         runIndex,
		seed:             seed,
		firstChaseTick:   ts.SimLog.FirstTick("mode", "change", "→ chase"),
		firstRetreatTick: ts.SimLog.FirstTick("mode", "change", "→ retreat"),
		firstReturnTick:  ts.SimLog.FirstTick("mode", "change", "→ return"),
		firstStuckTick:   ts.SimLog.FirstTick("mode", "change", "→ stuck"),
		firstEscapeTick:  ts.SimLog.FirstTick("recover", "escaped", ""),
		modeChanges:      ts.SimLog.CountCategory("mode", "change"),
		approaches:       ts.SimLog.CountCategory("move", "approach"),
		retreatMoves:     ts.SimLog.CountCategory("move", "retreat"),
		unsticks:         ts.SimLog.CountCategory("recover", "unstick"),
		forcedStucks:     ts.SimLog.CountCategory("recover", "forced_stuck"),
		teleports:        ts.SimLog.CountCategory("recover", "teleport"),
		escapes:          ts.SimLog.CountCategory("recover", "escaped"),
		shots:            ts.SimLog.CountCategory("attack", "shot"),
		hits:             ts.SimLog.CountCategory("attack", "hit"),
		finalMode:        snap.Mode,
		finalFromSpawn: math.Hypot(snap.AgentX-snap.SpawnX,
			snap.AgentY-snap.SpawnY),
	}
}

// classifyRun labels a run by its dominant outcome for the aggregate table.
func classifyRun(rs runStats) string {
	switch {
	case rs.teleports > 0:
		return "teleported"
	case rs.escapes > 0:
		return "recovered"
	case rs.firstReturnTick >= 0:
		return "leashed"
	case rs.firstChaseTick >= 0:
		return "engaged"
	default:
		return "quiet"
	}
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("phase_markers: chase=%d retreat=%d return=%d stuck=%d escape=%d\n",
		rs.firstChaseTick, rs.firstRetreatTick, rs.firstReturnTick,
		rs.firstStuckTick, rs.firstEscapeTick)
	fmt.Printf("event_totals: mode_change=%d approach=%d retreat_move=%d\n",
		rs.modeChanges, rs.approaches, rs.retreatMoves)
	fmt.Printf("recovery: unstick=%d forced_stuck=%d escaped=%d teleport=%d\n",
		rs.unsticks, rs.forcedStucks, rs.escapes, rs.teleports)
	if rs.shots > 0 || rs.hits > 0 {
		fmt.Printf("attack: shots=%d hits=%d\n", rs.shots, rs.hits)
	}
	fmt.Printf("final: mode=%s from_spawn=%.1f outcome=%s\n\n",
		rs.finalMode, rs.finalFromSpawn, classifyRun(rs))
}

func printAggregate(all []runStats) {
	totalModeChanges := 0
	totalApproaches := 0
	totalUnsticks := 0
	totalTeleports := 0
	totalEscapes := 0
	totalShots := 0
	totalHits := 0

	chaseTicks := make([]int, 0, len(all))
	stuckTicks := make([]int, 0, len(all))
	returnTicks := make([]int, 0, len(all))
	outcomes := map[string]int{}

	for _, rs := range all {
		totalModeChanges += rs.modeChanges
		totalApproaches += rs.approaches
		totalUnsticks += rs.unsticks
		totalTeleports += rs.teleports
		totalEscapes += rs.escapes
		totalShots += rs.shots
		totalHits += rs.hits
		if rs.firstChaseTick >= 0 {
			chaseTicks = append(chaseTicks, rs.firstChaseTick)
		}
		if rs.firstStuckTick >= 0 {
			stuckTicks = append(stuckTicks, rs.firstStuckTick)
		}
		if rs.firstReturnTick >= 0 {
			returnTicks = append(returnTicks, rs.firstReturnTick)
		}
		outcomes[classifyRun(rs)]++
	}

	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d\n", len(all))
	fmt.Printf("avg_events_per_run: mode_change=%.1f approach=%.1f unstick=%.1f escaped=%.1f teleport=%.1f\n",
		avg(totalModeChanges, len(all)), avg(totalApproaches, len(all)),
		avg(totalUnsticks, len(all)), avg(totalEscapes, len(all)),
		avg(totalTeleports, len(all)))
	if totalShots > 0 {
		fmt.Printf("avg_attack_per_run: shots=%.1f hits=%.1f\n",
			avg(totalShots, len(all)), avg(totalHits, len(all)))
	}
	fmt.Printf("phase_marker_avg_ticks: first_chase=%s first_stuck=%s first_return=%s\n",
		avgTickString(chaseTicks), avgTickString(stuckTicks), avgTickString(returnTicks))
	fmt.Printf("outcomes: engaged=%d leashed=%d recovered=%d teleported=%d quiet=%d\n",
		outcomes["engaged"], outcomes["leashed"], outcomes["recovered"],
		outcomes["teleported"], outcomes["quiet"])
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}
