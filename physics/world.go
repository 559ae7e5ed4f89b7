package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// World advances bodies with a fixed time step and solves point constraints
// by moving bodies in proportion to their inverse mass. Rotations are left to the caller.
type World struct {
	Gravity    mgl32.Vec3
	Iterations int

	bodies      []*Body
	constraints []*PointToPoint
	accumulator float32
	time        float32
}

func NewWorld() *World {
	return &World{Iterations: 10}
}

func (w *World) AddBody(b *Body) {
	for _, e := range w.bodies {
		if e == b {
			return
		}
	}
	w.bodies = append(w.bodies, b)
}

// RemoveBody removes b and every constraint that refers to it.
func (w *World) RemoveBody(b *Body) {
	for i, e := range w.bodies {
		if e == b {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			break
		}
	}
	cs := w.constraints[:0]
	for _, c := range w.constraints {
		if c.A != b && c.B != b {
			cs = append(cs, c)
		}
	}
	w.constraints = cs
}

func (w *World) AddConstraint(c *PointToPoint) {
	w.constraints = append(w.constraints, c)
}

func (w *World) Bodies() []*Body {
	return w.bodies
}

func (w *World) Constraints() []*PointToPoint {
	return w.constraints
}

func (w *World) Time() float32 {
	return w.time
}

func (w *World) Clear() {
	w.bodies = nil
	w.constraints = nil
	w.accumulator = 0
}

// Step advances the world by fixed steps of dt covering elapsed seconds,
// at most maxSubSteps per call. The remainder carries over to the next call.
// elapsed == 0 runs exactly one step. It returns the number of steps taken.
func (w *World) Step(dt, elapsed float32, maxSubSteps int) int {
	if dt <= 0 {
		return 0
	}
	if elapsed == 0 {
		w.internalStep(dt)
		return 1
	}
	w.accumulator += elapsed
	n := 0
	for w.accumulator >= dt && n < maxSubSteps {
		w.internalStep(dt)
		w.accumulator -= dt
		n++
	}
	w.accumulator = float32(math.Mod(float64(w.accumulator), float64(dt)))
	return n
}

func (w *World) internalStep(dt float32) {
	for _, b := range w.bodies {
		b.prev = b.Position
		if b.IsStatic() {
			continue
		}
		b.Velocity = b.Velocity.Add(w.Gravity.Mul(dt))
		b.Velocity = b.Velocity.Mul(float32(math.Pow(float64(1-b.LinearDamping), float64(dt))))
		b.Position = b.Position.Add(b.Velocity.Mul(dt))
	}
	for i := 0; i < w.Iterations; i++ {
		for _, c := range w.constraints {
			c.solve()
		}
		for _, b := range w.bodies {
			b.applyCorrection()
		}
	}
	for _, b := range w.bodies {
		if !b.IsStatic() {
			b.Velocity = b.Position.Sub(b.prev).Mul(1 / dt)
		}
	}
	w.time += dt
}
