package sim

import "math"

// Obstacle layer bits. Static geometry lives on LayerWall; queries filter by
// mask so future layers (e.g. low cover that blocks movement but not sight)
// can coexist.
const (
	LayerWall uint32 = 1 << iota
)

// Obstacle is a static axis-aligned blocker.
type Obstacle struct {
	Min   Vec2
	Max   Vec2
	Layer uint32
}

// World holds the static obstacle set and answers the geometry queries the
// sensor and locomotion layers need: segment raycasts, swept-circle casts,
// and point overlap checks, all filtered by an obstacle layer mask.
type World struct {
	Width  float64
	Height float64

	obstacles []Obstacle
}

// NewWorld creates an empty world of the given dimensions.
func NewWorld(width, height float64) *World {
	return &World{Width: width, Height: height}
}

// AddObstacle registers a rectangular blocker on the given layer.
func (w *World) AddObstacle(x, y, width, height float64, layer uint32) {
	w.obstacles = append(w.obstacles, Obstacle{
		Min:   Vec2{x, y},
		Max:   Vec2{x + width, y + height},
		Layer: layer,
	})
}

// Obstacles returns the obstacle list for rendering.
func (w *World) Obstacles() []Obstacle {
	return w.obstacles
}

// RaycastAny reports whether the segment from a to b crosses any obstacle
// matching the mask.
func (w *World) RaycastAny(a, b Vec2, mask uint32) bool {
	for _, o := range w.obstacles {
		if o.Layer&mask == 0 {
			continue
		}
		if segmentIntersectsAABB(a, b, o.Min, o.Max) {
			return true
		}
	}
	return false
}

// CircleCast sweeps a circle of the given radius from origin along dir
// (a unit vector) for maxDist and reports whether it touches any obstacle
// matching the mask.
func (w *World) CircleCast(origin Vec2, radius float64, dir Vec2, maxDist float64, mask uint32) bool {
	end := origin.Add(dir.Scale(maxDist))
	for _, o := range w.obstacles {
		if o.Layer&mask == 0 {
			continue
		}
		if sweptCircleHitsAABB(origin, end, radius, o.Min, o.Max) {
			return true
		}
	}
	return false
}

// OverlapCircle reports whether a circle at p overlaps any obstacle matching
// the mask.
func (w *World) OverlapCircle(p Vec2, radius float64, mask uint32) bool {
	for _, o := range w.obstacles {
		if o.Layer&mask == 0 {
			continue
		}
		if circleOverlapsAABB(p, radius, o.Min, o.Max) {
			return true
		}
	}
	return false
}

// Body is a circular rigid body integrated by the world. Velocity is in
// pixels per second. Collision response is a minimal-axis push-out, which
// leaves a body pressed flush against geometry it runs into — exactly the
// condition the contact probes look for.
type Body struct {
	Pos    Vec2
	Vel    Vec2
	Radius float64

	world *World
	mask  uint32
}

// NewBody creates a body and registers it with the world's obstacle mask.
func (w *World) NewBody(pos Vec2, radius float64, mask uint32) *Body {
	return &Body{Pos: pos, Radius: radius, world: w, mask: mask}
}

// Velocity returns the current velocity.
func (b *Body) Velocity() Vec2 { return b.Vel }

// SetVelocity replaces the current velocity.
func (b *Body) SetVelocity(v Vec2) { b.Vel = v }

// ApplyImpulse adds a one-shot velocity change (unit mass).
func (b *Body) ApplyImpulse(i Vec2) { b.Vel = b.Vel.Add(i) }

// Teleport moves the body discontinuously and zeroes its velocity.
func (b *Body) Teleport(p Vec2) {
	b.Pos = p
	b.Vel = Vec2{}
}

// Step integrates the body one tick: move by velocity, clamp to world bounds,
// then push out of any overlapped obstacle along the axis of least
// penetration. Velocity is preserved so the body keeps pressing (and sliding)
// against walls rather than bouncing.
func (b *Body) Step(dt float64) {
	b.Pos = b.Pos.Add(b.Vel.Scale(dt))

	// World bounds.
	b.Pos.X = math.Max(b.Radius, math.Min(b.Pos.X, b.world.Width-b.Radius))
	b.Pos.Y = math.Max(b.Radius, math.Min(b.Pos.Y, b.world.Height-b.Radius))

	for _, o := range b.world.obstacles {
		if o.Layer&b.mask == 0 {
			continue
		}
		if !circleOverlapsAABB(b.Pos, b.Radius, o.Min, o.Max) {
			continue
		}
		b.pushOut(o)
	}
}

// pushOut resolves a single circle-vs-AABB overlap along the cheapest axis.
func (b *Body) pushOut(o Obstacle) {
	// Penetration depth on each side, positive means overlapping.
	left := b.Pos.X + b.Radius - o.Min.X  // push left resolves by -left
	right := o.Max.X + b.Radius - b.Pos.X // push right resolves by +right
	up := b.Pos.Y + b.Radius - o.Min.Y
	down := o.Max.Y + b.Radius - b.Pos.Y

	minPen := left
	axis := 0 // 0=left 1=right 2=up 3=down
	if right < minPen {
		minPen = right
		axis = 1
	}
	if up < minPen {
		minPen = up
		axis = 2
	}
	if down < minPen {
		minPen = down
		axis = 3
	}
	if minPen <= 0 {
		return
	}

	switch axis {
	case 0:
		b.Pos.X -= minPen
	case 1:
		b.Pos.X += minPen
	case 2:
		b.Pos.Y -= minPen
	case 3:
		b.Pos.Y += minPen
	}
}
