package sim

import "math"

// segmentAABBHitT returns the first segment parameter t in [0,1] where the
// line from a to b enters the AABB (min,max). The bool is false when no hit
// exists. Uses the slab method.
func segmentAABBHitT(a, b Vec2, min, max Vec2) (float64, bool) {
	dx := b.X - a.X
	dy := b.Y - a.Y

	tMin := 0.0
	tMax := 1.0

	// X slab
	if math.Abs(dx) < 1e-12 {
		if a.X < min.X || a.X > max.X {
			return 0, false
		}
	} else {
		invD := 1.0 / dx
		t1 := (min.X - a.X) * invD
		t2 := (max.X - a.X) * invD
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	// Y slab
	if math.Abs(dy) < 1e-12 {
		if a.Y < min.Y || a.Y > max.Y {
			return 0, false
		}
	} else {
		invD := 1.0 / dy
		t1 := (min.Y - a.Y) * invD
		t2 := (max.Y - a.Y) * invD
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	if tMax < 0 || tMin > 1 {
		return 0, false
	}
	if tMin < 0 {
		tMin = 0
	}
	return tMin, true
}

// segmentIntersectsAABB reports whether the segment a->b crosses the AABB.
func segmentIntersectsAABB(a, b Vec2, min, max Vec2) bool {
	_, hit := segmentAABBHitT(a, b, min, max)
	return hit
}

// circleOverlapsAABB reports whether a circle at c with the given radius
// overlaps the AABB (min,max). Closest-point test.
func circleOverlapsAABB(c Vec2, radius float64, min, max Vec2) bool {
	nx := math.Max(min.X, math.Min(c.X, max.X))
	ny := math.Max(min.Y, math.Min(c.Y, max.Y))
	dx := c.X - nx
	dy := c.Y - ny
	return dx*dx+dy*dy <= radius*radius
}

// sweptCircleHitsAABB reports whether a circle of the given radius, swept
// from a to b, touches the AABB. Implemented as a segment test against the
// AABB inflated by radius. The inflated box has square corners, which
// slightly over-reports near corners; acceptable for short contact probes.
func sweptCircleHitsAABB(a, b Vec2, radius float64, min, max Vec2) bool {
	infMin := Vec2{min.X - radius, min.Y - radius}
	infMax := Vec2{max.X + radius, max.Y + radius}
	return segmentIntersectsAABB(a, b, infMin, infMax)
}
