package solver

import "math"

// The four force terms. Link, charge and collide accumulate into velocities;
// centering shifts positions directly so the centroid tracks the viewport
// center without injecting energy.

// applyLinks pulls each edge's endpoints toward the configured separation.
// Call rate is deliberately ignored: layout must stay stable when only
// metrics change.
func (s *Solver) applyLinks() {
	for _, e := range s.graph.Edges {
		src, ok := s.byID[e.SourceID]
		if !ok {
			continue
		}
		dst, ok := s.byID[e.TargetID]
		if !ok {
			continue
		}

		dx := dst.pos.X + dst.vel.X - src.pos.X - src.vel.X
		dy := dst.pos.Y + dst.vel.Y - src.pos.Y - src.vel.Y
		dist := math.Hypot(dx, dy)
		if dist == 0 {
			dx, dy, dist = jiggle(), jiggle(), 1e-6
		}

		l := (dist - s.cfg.LinkDistance) / dist * s.alpha * s.cfg.LinkStrength
		dst.vel.X -= dx * l * 0.5
		dst.vel.Y -= dy * l * 0.5
		src.vel.X += dx * l * 0.5
		src.vel.Y += dy * l * 0.5
	}
}

// applyCharge applies pairwise many-body repulsion with an inverse-square
// falloff. O(n²) is fine at topology scale (tens to low hundreds of nodes).
func (s *Solver) applyCharge() {
	for i := 0; i < len(s.bodies); i++ {
		bi := s.bodies[i]
		for j := i + 1; j < len(s.bodies); j++ {
			bj := s.bodies[j]

			dx := bj.pos.X - bi.pos.X
			dy := bj.pos.Y - bi.pos.Y
			d2 := dx*dx + dy*dy
			if d2 == 0 {
				dx, dy = jiggle(), jiggle()
				d2 = dx*dx + dy*dy
			}

			w := s.cfg.ChargeStrength * s.alpha / d2
			bi.vel.X += dx * w
			bi.vel.Y += dy * w
			bj.vel.X -= dx * w
			bj.vel.Y -= dy * w
		}
	}
}

// applyCollide enforces a minimum pairwise separation of twice the collision
// radius, independent of the rendered disc size, so labels stay legible.
func (s *Solver) applyCollide() {
	minDist := 2 * s.cfg.CollideRadius
	for i := 0; i < len(s.bodies); i++ {
		bi := s.bodies[i]
		for j := i + 1; j < len(s.bodies); j++ {
			bj := s.bodies[j]

			dx := bj.pos.X + bj.vel.X - bi.pos.X - bi.vel.X
			dy := bj.pos.Y + bj.vel.Y - bi.pos.Y - bi.vel.Y
			d2 := dx*dx + dy*dy
			if d2 >= minDist*minDist {
				continue
			}
			dist := math.Sqrt(d2)
			if dist == 0 {
				dx, dy = jiggle(), jiggle()
				dist = math.Hypot(dx, dy)
			}

			overlap := (minDist - dist) / dist
			bi.vel.X -= dx * overlap * 0.5
			bi.vel.Y -= dy * overlap * 0.5
			bj.vel.X += dx * overlap * 0.5
			bj.vel.Y += dy * overlap * 0.5
		}
	}
}

// applyCenter translates all positions so the centroid sits on the viewport
// center. Pinned nodes are excluded from both the centroid and the shift,
// otherwise dragging one node would slide the whole graph underneath it.
func (s *Solver) applyCenter() {
	var sx, sy float64
	n := 0
	for _, b := range s.bodies {
		if b.pin != nil {
			continue
		}
		sx += b.pos.X
		sy += b.pos.Y
		n++
	}
	if n == 0 {
		return
	}

	cx, cy := s.center()
	shiftX := sx/float64(n) - cx
	shiftY := sy/float64(n) - cy
	for _, b := range s.bodies {
		if b.pin != nil {
			continue
		}
		b.pos.X -= shiftX
		b.pos.Y -= shiftY
	}
}

// jiggle breaks exact coincidence between two bodies so force directions
// are defined. Deterministic: tests rely on reproducible layouts.
var jiggleSeed uint64 = 1

func jiggle() float64 {
	jiggleSeed = jiggleSeed*6364136223846793005 + 1442695040888963407
	return (float64(jiggleSeed>>11)/float64(1<<53) - 0.5) * 1e-6
}
