package sim

import (
	"math"
	"math/rand"
	"testing"
)

// newSensorFixture wires a sensor over a fresh world with the agent at pos
// and the target at targetPos, using default tuning.
func newSensorFixture(t *testing.T, pos, targetPos Vec2) (*World, *Sensor, *Target) {
	t.Helper()
	tuning := DefaultTuning()
	w := NewWorld(2000, 2000)
	agent := NewAgent(w, pos, tuning.ObstacleMask)
	target := &Target{Pos: targetPos}
	rng := rand.New(rand.NewSource(7)) // #nosec G404 -- deterministic test
	return w, NewSensor(w, agent, target, &tuning, rng), target
}

func TestCanSeeTarget_OcclusionOverridesRange(t *testing.T) {
	w, s, _ := newSensorFixture(t, Vec2{100, 100}, Vec2{260, 100})

	if !s.InRange() {
		t.Fatalf("target at 160px should be inside the 300px detection radius")
	}
	if !s.CanSeeTarget() {
		t.Fatalf("clear line at 160px should be visible")
	}

	// A wall across the sight line defeats detection even though the target
	// stays well inside the radius.
	w.AddObstacle(170, 80, 20, 40, LayerWall)
	if !s.InRange() {
		t.Fatalf("occlusion must not affect the range predicate")
	}
	if s.CanSeeTarget() {
		t.Fatalf("occluded target must not be seen regardless of range")
	}
}

func TestCanSeeTarget_OutOfRange(t *testing.T) {
	_, s, target := newSensorFixture(t, Vec2{100, 100}, Vec2{100, 500})

	if s.InRange() {
		t.Fatalf("target at 400px should be outside the detection radius")
	}
	if s.CanSeeTarget() {
		t.Fatalf("out-of-range target must not be seen even with clear line")
	}

	target.Pos = Vec2{100, 350}
	if !s.CanSeeTarget() {
		t.Fatalf("target back inside the radius with clear line should be seen")
	}
}

func TestComfortBand_Partition(t *testing.T) {
	// Defaults: preferred 140, comfort 30 → inner 110, outer 170.
	_, s, target := newSensorFixture(t, Vec2{100, 100}, Vec2{200, 100})

	target.Pos = Vec2{180, 100} // dist 80
	if !s.TooClose() || s.TooFar() {
		t.Fatalf("80px should be too close only")
	}

	target.Pos = Vec2{240, 100} // dist 140, dead center of the band
	if s.TooClose() || s.TooFar() {
		t.Fatalf("140px should satisfy neither predicate")
	}

	target.Pos = Vec2{210, 100} // dist 110, exactly on the inner boundary
	if s.TooClose() || s.TooFar() {
		t.Fatalf("boundary distances belong to the acceptable band")
	}

	target.Pos = Vec2{300, 100} // dist 200
	if s.TooClose() || !s.TooFar() {
		t.Fatalf("200px should be too far only")
	}
}

func TestIsPathClear(t *testing.T) {
	w, s, _ := newSensorFixture(t, Vec2{100, 100}, Vec2{900, 900})

	if !s.IsPathClear(Vec2{400, 100}) {
		t.Fatalf("open world path should be clear")
	}

	w.AddObstacle(200, 80, 40, 40, LayerWall)
	if s.IsPathClear(Vec2{400, 100}) {
		t.Fatalf("wall across the segment should block the path")
	}
	// Destination inside geometry is blocked even if the segment grazes past.
	if s.IsPathClear(Vec2{220, 100}) {
		t.Fatalf("destination inside a wall should be blocked")
	}
}

func TestIsStuckToWall_SingleContact(t *testing.T) {
	w, s, _ := newSensorFixture(t, Vec2{100, 100}, Vec2{900, 900})

	if s.IsStuckToWall() {
		t.Fatalf("open world should report no contact")
	}
	if s.StuckDirection() != (Vec2{}) {
		t.Fatalf("no contact must yield the zero direction")
	}

	// Wall face 8px to the right: within the 10+4 probe reach.
	w.AddObstacle(108, 80, 40, 40, LayerWall)
	if !s.IsStuckToWall() {
		t.Fatalf("wall within probe reach should report contact")
	}
	if dir := s.StuckDirection(); dir != (Vec2{1, 0}) {
		t.Fatalf("contact direction must point toward the wall, got %+v", dir)
	}
}

func TestStuckDirection_PointsTowardLeftWall(t *testing.T) {
	w, s, _ := newSensorFixture(t, Vec2{100, 100}, Vec2{900, 900})
	w.AddObstacle(52, 80, 40, 40, LayerWall) // face 8px to the left

	if dir := s.StuckDirection(); dir != (Vec2{-1, 0}) {
		t.Fatalf("left wall contact must report (-1,0), got %+v", dir)
	}
}

func TestStuckDirection_CancellationFallsBackToUnitVector(t *testing.T) {
	w, s, _ := newSensorFixture(t, Vec2{100, 100}, Vec2{900, 900})
	w.AddObstacle(52, 80, 36, 40, LayerWall)  // left contact
	w.AddObstacle(112, 80, 36, 40, LayerWall) // right contact

	if !s.IsStuckToWall() {
		t.Fatalf("dual contact should still report stuck")
	}
	dir := s.StuckDirection()
	if dir == (Vec2{}) {
		t.Fatalf("cancelled contacts must fall back to a random heading, not zero")
	}
	if math.Abs(dir.Len()-1) > 1e-9 {
		t.Fatalf("fallback heading must be a unit vector, got length %.6f", dir.Len())
	}
}

func TestStuckPredicates_Agree(t *testing.T) {
	w, s, _ := newSensorFixture(t, Vec2{100, 100}, Vec2{900, 900})
	w.AddObstacle(80, 108, 40, 40, LayerWall) // wall below

	if !s.IsStuckToWall() {
		t.Fatalf("contact below should report stuck")
	}
	if dir := s.StuckDirection(); dir != (Vec2{0, 1}) {
		t.Fatalf("expected downward contact (0,1), got %+v", dir)
	}
}
