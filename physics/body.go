package physics

import "github.com/go-gl/mathgl/mgl32"

type ShapeKind int

const (
	BoxShape ShapeKind = iota
	CylinderShape
)

func (k ShapeKind) String() string {
	if k == CylinderShape {
		return "cylinder"
	}
	return "box"
}

// Shape describes the collision volume of a body. Cylinders are aligned to the local Y axis.
type Shape struct {
	Kind        ShapeKind
	HalfExtents mgl32.Vec3
	Radius      float32
	Height      float32
}

func NewBox(halfExtents mgl32.Vec3) Shape {
	return Shape{Kind: BoxShape, HalfExtents: halfExtents}
}

func NewCylinder(radius, height float32) Shape {
	return Shape{
		Kind:        CylinderShape,
		Radius:      radius,
		Height:      height,
		HalfExtents: mgl32.Vec3{radius, height / 2, radius},
	}
}

// Body is a rigid body. Mass 0 makes it static: the solver never moves it,
// but it can still be driven by setting Position directly.
type Body struct {
	Name       string
	Shape      Shape
	Mass       float32
	Position   mgl32.Vec3
	Quaternion mgl32.Quat
	Velocity   mgl32.Vec3

	// LinearDamping is the fraction of velocity lost per second.
	LinearDamping float32

	prev  mgl32.Vec3
	delta mgl32.Vec3
	hits  int
}

func NewBody(name string, shape Shape, mass float32, pos mgl32.Vec3, q mgl32.Quat) *Body {
	return &Body{Name: name, Shape: shape, Mass: mass, Position: pos, Quaternion: q.Normalize(), LinearDamping: 0.01, prev: pos}
}

func (b *Body) IsStatic() bool {
	return b.Mass <= 0
}

func (b *Body) InvMass() float32 {
	if b.IsStatic() {
		return 0
	}
	return 1 / b.Mass
}

// PointToLocal converts a world point into the body frame.
func (b *Body) PointToLocal(p mgl32.Vec3) mgl32.Vec3 {
	return b.Quaternion.Inverse().Rotate(p.Sub(b.Position))
}

func (b *Body) PointToWorld(p mgl32.Vec3) mgl32.Vec3 {
	return b.Quaternion.Rotate(p).Add(b.Position)
}

// PointToPoint keeps PivotA (in A's frame) and PivotB (in B's frame) at the same world position.
type PointToPoint struct {
	A, B           *Body
	PivotA, PivotB mgl32.Vec3
}

func NewPointToPoint(a *Body, pivotA mgl32.Vec3, b *Body, pivotB mgl32.Vec3) *PointToPoint {
	return &PointToPoint{A: a, B: b, PivotA: pivotA, PivotB: pivotB}
}

// Error returns the world distance between the two pivots.
func (c *PointToPoint) Error() float32 {
	return c.B.PointToWorld(c.PivotB).Sub(c.A.PointToWorld(c.PivotA)).Len()
}

// solve records the correction of each body. World applies the average.
func (c *PointToPoint) solve() {
	wa, wb := c.A.InvMass(), c.B.InvMass()
	w := wa + wb
	if w == 0 {
		return
	}
	d := c.B.PointToWorld(c.PivotB).Sub(c.A.PointToWorld(c.PivotA))
	if wa > 0 {
		c.A.delta = c.A.delta.Add(d.Mul(wa / w))
		c.A.hits++
	}
	if wb > 0 {
		c.B.delta = c.B.delta.Sub(d.Mul(wb / w))
		c.B.hits++
	}
}

func (b *Body) applyCorrection() {
	if b.hits > 0 {
		b.Position = b.Position.Add(b.delta.Mul(1 / float32(b.hits)))
	}
	b.delta, b.hits = mgl32.Vec3{}, 0
}
