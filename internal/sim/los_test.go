package sim

import "testing"

func TestSegmentIntersectsAABB_CrossingHits(t *testing.T) {
	min := Vec2{100, 100}
	max := Vec2{140, 140}

	if !segmentIntersectsAABB(Vec2{50, 120}, Vec2{200, 120}, min, max) {
		t.Fatalf("horizontal segment through the box should hit")
	}
	if !segmentIntersectsAABB(Vec2{120, 50}, Vec2{120, 200}, min, max) {
		t.Fatalf("vertical segment through the box should hit")
	}
	if !segmentIntersectsAABB(Vec2{90, 90}, Vec2{150, 150}, min, max) {
		t.Fatalf("diagonal segment through the box should hit")
	}
}

func TestSegmentIntersectsAABB_MissesOutside(t *testing.T) {
	min := Vec2{100, 100}
	max := Vec2{140, 140}

	if segmentIntersectsAABB(Vec2{50, 50}, Vec2{200, 50}, min, max) {
		t.Fatalf("segment passing above the box should miss")
	}
	if segmentIntersectsAABB(Vec2{50, 120}, Vec2{90, 120}, min, max) {
		t.Fatalf("segment stopping short of the box should miss")
	}
}

func TestSegmentIntersectsAABB_EndpointInsideHits(t *testing.T) {
	min := Vec2{100, 100}
	max := Vec2{140, 140}

	if !segmentIntersectsAABB(Vec2{120, 120}, Vec2{300, 120}, min, max) {
		t.Fatalf("segment starting inside the box should hit")
	}
	if !segmentIntersectsAABB(Vec2{50, 120}, Vec2{120, 120}, min, max) {
		t.Fatalf("segment ending inside the box should hit")
	}
}

func TestSegmentAABBHitT_EntryParameter(t *testing.T) {
	min := Vec2{100, 0}
	max := Vec2{140, 200}

	tHit, ok := segmentAABBHitT(Vec2{0, 100}, Vec2{200, 100}, min, max)
	if !ok {
		t.Fatalf("expected a hit")
	}
	if tHit < 0.49 || tHit > 0.51 {
		t.Fatalf("expected entry around t=0.5, got %.3f", tHit)
	}
}

func TestCircleOverlapsAABB(t *testing.T) {
	min := Vec2{100, 100}
	max := Vec2{140, 140}

	if !circleOverlapsAABB(Vec2{95, 120}, 6, min, max) {
		t.Fatalf("circle touching the left face should overlap")
	}
	if circleOverlapsAABB(Vec2{90, 120}, 6, min, max) {
		t.Fatalf("circle 10px from the left face with radius 6 should not overlap")
	}
	if !circleOverlapsAABB(Vec2{120, 120}, 1, min, max) {
		t.Fatalf("circle inside the box should overlap")
	}
}

func TestSweptCircleHitsAABB(t *testing.T) {
	min := Vec2{100, 100}
	max := Vec2{140, 140}

	// Sweep toward the left face, stopping radius-close.
	if !sweptCircleHitsAABB(Vec2{80, 120}, Vec2{96, 120}, 5, min, max) {
		t.Fatalf("sweep ending within radius of the face should hit")
	}
	if sweptCircleHitsAABB(Vec2{80, 120}, Vec2{90, 120}, 5, min, max) {
		t.Fatalf("sweep ending 10px short with radius 5 should miss")
	}
	// Sweep parallel to the box, outside the inflated band.
	if sweptCircleHitsAABB(Vec2{80, 80}, Vec2{200, 80}, 5, min, max) {
		t.Fatalf("parallel sweep above the inflated box should miss")
	}
}
