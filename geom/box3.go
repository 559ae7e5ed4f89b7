package geom

import "github.com/chewxy/math32"

// Box3 is an axis aligned bounding box.
type Box3 struct {
	Min Vector3
	Max Vector3
}

// NewEmptyBox3 returns a box that contains nothing (min = +Inf, max = -Inf).
func NewEmptyBox3() *Box3 {
	inf := math32.Inf(1)
	return &Box3{Min: Vector3{inf, inf, inf}, Max: Vector3{-inf, -inf, -inf}}
}

func (b *Box3) IsEmpty() bool {
	return b.Max.X < b.Min.X || b.Max.Y < b.Min.Y || b.Max.Z < b.Min.Z
}

func (b *Box3) ExpandByPoint(p *Vector3) {
	b.Min = *b.Min.Min(p)
	b.Max = *b.Max.Max(p)
}

func (b *Box3) ExpandByBox(o *Box3) {
	if o.IsEmpty() {
		return
	}
	b.ExpandByPoint(&o.Min)
	b.ExpandByPoint(&o.Max)
}

func (b *Box3) Center() *Vector3 {
	if b.IsEmpty() {
		return &Vector3{}
	}
	return b.Min.Add(&b.Max).Scale(0.5)
}

func (b *Box3) Size() *Vector3 {
	if b.IsEmpty() {
		return &Vector3{}
	}
	return b.Max.Sub(&b.Min)
}

// Transform returns the bounds of b after applying the affine matrix m.
func (b *Box3) Transform(m *Matrix4) *Box3 {
	if b.IsEmpty() {
		return NewEmptyBox3()
	}
	r := &Box3{Min: Vector3{m[12], m[13], m[14]}, Max: Vector3{m[12], m[13], m[14]}}
	lo, hi := b.Min.Array(), b.Max.Array()
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			e := m[col*4+row]
			a, c := e*lo[col], e*hi[col]
			minV, maxV := math32.Min(a, c), math32.Max(a, c)
			switch row {
			case 0:
				r.Min.X += minV
				r.Max.X += maxV
			case 1:
				r.Min.Y += minV
				r.Max.Y += maxV
			case 2:
				r.Min.Z += minV
				r.Max.Z += maxV
			}
		}
	}
	return r
}
