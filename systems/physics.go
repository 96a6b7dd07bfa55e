package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// integrate applies gravity and accumulated forces with semi-implicit Euler:
// velocity first, then position from the new velocity. Forces are zeroed
// afterwards for every body, static or not.
func (w *World) integrate(dt float64) {
	g := w.cfg.Gravity

	query := w.filter.Query()
	for query.Next() {
		xf, mo, mass, mat, body := query.Get()

		if body.Static || body.Sleeping {
			mo.Force = r2.Vec{}
			mo.Torque = 0
			continue
		}

		acc := r2.Add(g, r2.Scale(mass.InvMass, mo.Force))
		mo.Vel = r2.Add(mo.Vel, r2.Scale(dt, acc))
		if !body.FixedRotation {
			mo.AngVel += mo.Torque * mass.InvInertia * dt
		} else {
			mo.AngVel = 0
		}

		if mat.Drag > 0 {
			mo.Vel = r2.Scale(math.Exp(-mat.Drag*dt), mo.Vel)
		}
		if mat.AngularDrag > 0 {
			mo.AngVel *= math.Exp(-mat.AngularDrag * dt)
		}

		xf.Pos = r2.Add(xf.Pos, r2.Scale(dt, mo.Vel))
		xf.Angle = normalizeAngle(xf.Angle + mo.AngVel*dt)

		mo.Force = r2.Vec{}
		mo.Torque = 0
	}
}

// resolve runs sequential impulses over this step's contacts. Normal
// impulses accumulate and are clamped non-negative; friction is clamped to
// the Coulomb cone of the accumulated normal impulse.
func (w *World) resolve() {
	for i := range w.contacts {
		c := &w.contacts[i]
		vn := r2.Dot(w.relativeVelocity(c), c.Normal)
		if -vn > w.cfg.BounceThreshold {
			c.bounce = -c.restitution * vn
		}
	}

	for it := 0; it < w.cfg.Iterations; it++ {
		for i := range w.contacts {
			w.solveContact(&w.contacts[i])
		}
	}
}

func (w *World) relativeVelocity(c *Contact) r2.Vec {
	xfA, moA, _, _, _, _ := w.mapper.Get(c.A)
	xfB, moB, _, _, _, _ := w.mapper.Get(c.B)
	rA := r2.Sub(c.Point, xfA.Pos)
	rB := r2.Sub(c.Point, xfB.Pos)
	vA := r2.Add(moA.Vel, crossSV(moA.AngVel, rA))
	vB := r2.Add(moB.Vel, crossSV(moB.AngVel, rB))
	return r2.Sub(vB, vA)
}

func (w *World) solveContact(c *Contact) {
	xfA, moA, _, massA, _, bodyA := w.mapper.Get(c.A)
	xfB, moB, _, massB, _, bodyB := w.mapper.Get(c.B)

	imA, iiA := effectiveInverse(massA.InvMass, massA.InvInertia, bodyA.Sleeping)
	imB, iiB := effectiveInverse(massB.InvMass, massB.InvInertia, bodyB.Sleeping)
	if imA+imB == 0 {
		return
	}

	rA := r2.Sub(c.Point, xfA.Pos)
	rB := r2.Sub(c.Point, xfB.Pos)

	apply := func(impulse r2.Vec) {
		moA.Vel = r2.Sub(moA.Vel, r2.Scale(imA, impulse))
		moA.AngVel -= r2.Cross(rA, impulse) * iiA
		moB.Vel = r2.Add(moB.Vel, r2.Scale(imB, impulse))
		moB.AngVel += r2.Cross(rB, impulse) * iiB
	}
	relVel := func() r2.Vec {
		vA := r2.Add(moA.Vel, crossSV(moA.AngVel, rA))
		vB := r2.Add(moB.Vel, crossSV(moB.AngVel, rB))
		return r2.Sub(vB, vA)
	}

	// Normal
	n := c.Normal
	rnA, rnB := r2.Cross(rA, n), r2.Cross(rB, n)
	kN := imA + imB + rnA*rnA*iiA + rnB*rnB*iiB
	vn := r2.Dot(relVel(), n)
	j := (c.bounce - vn) / kN
	acc := math.Max(c.accN+j, 0)
	j = acc - c.accN
	c.accN = acc
	apply(r2.Scale(j, n))

	// Friction
	t := r2.Vec{X: -n.Y, Y: n.X}
	rtA, rtB := r2.Cross(rA, t), r2.Cross(rB, t)
	kT := imA + imB + rtA*rtA*iiA + rtB*rtB*iiB
	if kT == 0 {
		return
	}
	jt := -r2.Dot(relVel(), t) / kT
	maxF := c.friction * c.accN
	accT := clamp(c.accT+jt, -maxF, maxF)
	jt = accT - c.accT
	c.accT = accT
	apply(r2.Scale(jt, t))
}

// effectiveInverse treats sleeping bodies as immovable.
func effectiveInverse(invMass, invInertia float64, sleeping bool) (float64, float64) {
	if sleeping {
		return 0, 0
	}
	return invMass, invInertia
}

// correct pushes overlapping bodies apart by a fraction of the penetration
// beyond the slop, split by inverse mass.
func (w *World) correct() {
	for i := range w.contacts {
		c := &w.contacts[i]
		excess := c.Depth - w.cfg.CorrectionSlop
		if excess <= 0 {
			continue
		}
		xfA, _, _, massA, _, bodyA := w.mapper.Get(c.A)
		xfB, _, _, massB, _, bodyB := w.mapper.Get(c.B)
		imA, _ := effectiveInverse(massA.InvMass, 0, bodyA.Sleeping)
		imB, _ := effectiveInverse(massB.InvMass, 0, bodyB.Sleeping)
		total := imA + imB
		if total == 0 {
			continue
		}
		corr := r2.Scale(excess/total*w.cfg.CorrectionPercent, c.Normal)
		xfA.Pos = r2.Sub(xfA.Pos, r2.Scale(imA, corr))
		xfB.Pos = r2.Add(xfB.Pos, r2.Scale(imB, corr))
	}
}

// updateSleep puts dynamic bodies that stayed slow for SleepTime to sleep.
func (w *World) updateSleep(dt float64) {
	if w.cfg.SleepTime <= 0 {
		return
	}
	query := w.filter.Query()
	for query.Next() {
		_, mo, _, _, body := query.Get()
		if body.Static || body.Sleeping {
			continue
		}
		if r2.Norm(mo.Vel) < w.cfg.SleepLinear && math.Abs(mo.AngVel) < w.cfg.SleepAngular {
			body.RestTime += dt
			if body.RestTime >= w.cfg.SleepTime {
				body.Sleeping = true
				mo.Vel = r2.Vec{}
				mo.AngVel = 0
			}
		} else {
			body.RestTime = 0
		}
	}
}
