package systems

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/lata/components"
)

// Contact is one touching pair from a step. Normal points from A to B and
// the velocities are captured before the pair was resolved.
type Contact struct {
	A, B         BodyID
	KindA, KindB components.Kind
	Normal       r2.Vec
	Depth        float64
	Point        r2.Vec
	VelA, VelB   r2.Vec

	// resolver state
	bounce      float64
	accN, accT  float64
	restitution float64
	friction    float64
}

// Match reports whether the contact joins a body of kind a with one of
// kind b, returning the ids and velocities in that order.
func (c *Contact) Match(a, b components.Kind) (idA, idB BodyID, velA, velB r2.Vec, ok bool) {
	switch {
	case c.KindA == a && c.KindB == b:
		return c.A, c.B, c.VelA, c.VelB, true
	case c.KindA == b && c.KindB == a:
		return c.B, c.A, c.VelB, c.VelA, true
	}
	return BodyID{}, BodyID{}, r2.Vec{}, r2.Vec{}, false
}

type pairKey struct{ lo, hi int }

type bodyPair struct{ a, b int }

// manifold is the narrow-phase result for one pair.
type manifold struct {
	normal r2.Vec
	depth  float64
	point  r2.Vec
}

// detect fills w.contacts for the current step.
func (w *World) detect() {
	w.contacts = w.contacts[:0]
	w.pairs = w.pairs[:0]
	clear(w.seen)

	w.grid.Clear()
	for i, id := range w.order {
		xf, _, shape, _, _, _ := w.mapper.Get(id)
		w.grid.Insert(i, bounds(xf, shape))
	}

	w.grid.ForEachCell(func(occupants []int) {
		for i := 0; i < len(occupants); i++ {
			for j := i + 1; j < len(occupants); j++ {
				a, b := occupants[i], occupants[j]
				if a > b {
					a, b = b, a
				}
				k := pairKey{a, b}
				if _, dup := w.seen[k]; dup {
					continue
				}
				w.seen[k] = struct{}{}
				w.pairs = append(w.pairs, bodyPair{a, b})
			}
		}
	})
	// Grid order depends on cell layout; sort for reproducible contact order.
	sort.Slice(w.pairs, func(i, j int) bool {
		if w.pairs[i].a != w.pairs[j].a {
			return w.pairs[i].a < w.pairs[j].a
		}
		return w.pairs[i].b < w.pairs[j].b
	})

	for _, p := range w.pairs {
		idA, idB := w.order[p.a], w.order[p.b]
		xfA, moA, shA, _, matA, bodyA := w.mapper.Get(idA)
		xfB, moB, shB, _, matB, bodyB := w.mapper.Get(idB)

		if inert(bodyA) && inert(bodyB) {
			continue
		}
		if !overlaps(bounds(xfA, shA), bounds(xfB, shB)) {
			continue
		}
		m, ok := collide(xfA, shA, xfB, shB)
		if !ok {
			continue
		}

		// A moving body wakes a sleeping one it touches.
		if bodyA.Sleeping && !bodyB.Static && !bodyB.Sleeping && r2.Norm(moB.Vel) > w.cfg.SleepLinear {
			wake(bodyA)
		}
		if bodyB.Sleeping && !bodyA.Static && !bodyA.Sleeping && r2.Norm(moA.Vel) > w.cfg.SleepLinear {
			wake(bodyB)
		}

		w.contacts = append(w.contacts, Contact{
			A:           idA,
			B:           idB,
			KindA:       bodyA.Kind,
			KindB:       bodyB.Kind,
			Normal:      m.normal,
			Depth:       m.depth,
			Point:       m.point,
			VelA:        moA.Vel,
			VelB:        moB.Vel,
			restitution: math.Max(matA.Restitution, matB.Restitution),
			friction:    math.Sqrt(matA.Friction * matB.Friction),
		})
	}
}

// inert reports whether a body cannot be moved by contacts this step.
func inert(b *components.Body) bool {
	return b.Static || b.Sleeping
}

// bounds returns the world-space AABB of a shape.
func bounds(xf *components.Transform, s *components.Shape) r2.Box {
	var ext r2.Vec
	if s.Kind == components.ShapeCircle {
		ext = r2.Vec{X: s.Radius, Y: s.Radius}
	} else {
		c, sn := math.Abs(math.Cos(xf.Angle)), math.Abs(math.Sin(xf.Angle))
		ext = r2.Vec{
			X: s.HalfW*c + s.HalfH*sn,
			Y: s.HalfW*sn + s.HalfH*c,
		}
	}
	return r2.Box{Min: r2.Sub(xf.Pos, ext), Max: r2.Add(xf.Pos, ext)}
}

func overlaps(a, b r2.Box) bool {
	return a.Min.X <= b.Max.X && b.Min.X <= a.Max.X &&
		a.Min.Y <= b.Max.Y && b.Min.Y <= a.Max.Y
}

// collide dispatches on the shape pair. Touching with zero depth is not a
// contact.
func collide(xfA *components.Transform, a *components.Shape, xfB *components.Transform, b *components.Shape) (manifold, bool) {
	switch {
	case a.Kind == components.ShapeCircle && b.Kind == components.ShapeCircle:
		return circleCircle(xfA.Pos, a.Radius, xfB.Pos, b.Radius)
	case a.Kind == components.ShapeCircle && b.Kind == components.ShapeBox:
		return circleBox(xfA.Pos, a.Radius, xfB, b)
	case a.Kind == components.ShapeBox && b.Kind == components.ShapeCircle:
		m, ok := circleBox(xfB.Pos, b.Radius, xfA, a)
		m.normal = r2.Scale(-1, m.normal)
		return m, ok
	default:
		return boxBox(xfA, a, xfB, b)
	}
}

func circleCircle(pa r2.Vec, ra float64, pb r2.Vec, rb float64) (manifold, bool) {
	d := r2.Sub(pb, pa)
	dist := r2.Norm(d)
	depth := ra + rb - dist
	if depth <= 0 {
		return manifold{}, false
	}
	n := r2.Vec{X: 0, Y: 1}
	if dist > 1e-9 {
		n = r2.Scale(1/dist, d)
	}
	return manifold{normal: n, depth: depth, point: r2.Add(pa, r2.Scale(ra, n))}, true
}

// circleBox tests a circle against an oriented box. The normal points from
// the circle to the box.
func circleBox(c r2.Vec, r float64, xf *components.Transform, s *components.Shape) (manifold, bool) {
	local := rotate(r2.Sub(c, xf.Pos), -xf.Angle)
	closest := r2.Vec{
		X: clamp(local.X, -s.HalfW, s.HalfW),
		Y: clamp(local.Y, -s.HalfH, s.HalfH),
	}

	var outward r2.Vec // box surface toward circle, box-local
	var depth float64
	if closest != local {
		diff := r2.Sub(local, closest)
		dist := r2.Norm(diff)
		depth = r - dist
		if depth <= 0 {
			return manifold{}, false
		}
		outward = r2.Scale(1/dist, diff)
	} else {
		// Center inside the box: push out through the nearest face.
		dx := s.HalfW - math.Abs(local.X)
		dy := s.HalfH - math.Abs(local.Y)
		if dx < dy {
			outward = r2.Vec{X: sign(local.X)}
			closest = r2.Vec{X: sign(local.X) * s.HalfW, Y: local.Y}
			depth = r + dx
		} else {
			outward = r2.Vec{Y: sign(local.Y)}
			closest = r2.Vec{X: local.X, Y: sign(local.Y) * s.HalfH}
			depth = r + dy
		}
	}

	return manifold{
		normal: r2.Scale(-1, rotate(outward, xf.Angle)),
		depth:  depth,
		point:  r2.Add(xf.Pos, rotate(closest, xf.Angle)),
	}, true
}

// boxBox runs a separating-axis test over both boxes' edge normals and
// picks the axis of least overlap.
func boxBox(xfA *components.Transform, a *components.Shape, xfB *components.Transform, b *components.Shape) (manifold, bool) {
	axA := axes(xfA.Angle)
	axB := axes(xfB.Angle)
	d := r2.Sub(xfB.Pos, xfA.Pos)

	best := math.Inf(1)
	var normal r2.Vec
	for _, n := range [4]r2.Vec{axA[0], axA[1], axB[0], axB[1]} {
		ra := a.HalfW*math.Abs(r2.Dot(axA[0], n)) + a.HalfH*math.Abs(r2.Dot(axA[1], n))
		rb := b.HalfW*math.Abs(r2.Dot(axB[0], n)) + b.HalfH*math.Abs(r2.Dot(axB[1], n))
		dist := r2.Dot(d, n)
		overlap := ra + rb - math.Abs(dist)
		if overlap <= 0 {
			return manifold{}, false
		}
		if overlap < best {
			best = overlap
			normal = n
			if dist < 0 {
				normal = r2.Scale(-1, n)
			}
		}
	}

	return manifold{normal: normal, depth: best, point: boxContactPoint(xfA, a, xfB, b)}, true
}

// boxContactPoint averages the corners of each box that lie inside the
// other, falling back to the midpoint between centers.
func boxContactPoint(xfA *components.Transform, a *components.Shape, xfB *components.Transform, b *components.Shape) r2.Vec {
	var sum r2.Vec
	n := 0
	for _, v := range corners(xfA, a) {
		if contains(xfB, b, v) {
			sum = r2.Add(sum, v)
			n++
		}
	}
	for _, v := range corners(xfB, b) {
		if contains(xfA, a, v) {
			sum = r2.Add(sum, v)
			n++
		}
	}
	if n == 0 {
		return r2.Scale(0.5, r2.Add(xfA.Pos, xfB.Pos))
	}
	return r2.Scale(1/float64(n), sum)
}

func axes(angle float64) [2]r2.Vec {
	c, s := math.Cos(angle), math.Sin(angle)
	return [2]r2.Vec{{X: c, Y: s}, {X: -s, Y: c}}
}

func corners(xf *components.Transform, s *components.Shape) [4]r2.Vec {
	var out [4]r2.Vec
	for i, l := range [4]r2.Vec{
		{X: -s.HalfW, Y: -s.HalfH},
		{X: s.HalfW, Y: -s.HalfH},
		{X: s.HalfW, Y: s.HalfH},
		{X: -s.HalfW, Y: s.HalfH},
	} {
		out[i] = r2.Add(xf.Pos, rotate(l, xf.Angle))
	}
	return out
}

func contains(xf *components.Transform, s *components.Shape, p r2.Vec) bool {
	local := rotate(r2.Sub(p, xf.Pos), -xf.Angle)
	return math.Abs(local.X) <= s.HalfW && math.Abs(local.Y) <= s.HalfH
}
