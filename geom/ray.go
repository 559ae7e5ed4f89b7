package geom

import "github.com/chewxy/math32"

type Ray struct {
	Origin    Vector3
	Direction Vector3
}

func NewRay(origin, dir *Vector3) *Ray {
	d := *dir
	return &Ray{Origin: *origin, Direction: *d.Normalize()}
}

func (r *Ray) At(t Element) *Vector3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// IntersectBox returns the distance to the nearest hit with b using the slab method.
func (r *Ray) IntersectBox(b *Box3) (Element, bool) {
	if b.IsEmpty() {
		return 0, false
	}
	tmin, tmax := -math32.Inf(1), math32.Inf(1)
	o, d := r.Origin.Array(), r.Direction.Array()
	lo, hi := b.Min.Array(), b.Max.Array()
	for i := 0; i < 3; i++ {
		if d[i] == 0 {
			if o[i] < lo[i] || o[i] > hi[i] {
				return 0, false
			}
			continue
		}
		t1, t2 := (lo[i]-o[i])/d[i], (hi[i]-o[i])/d[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin, tmax = math32.Max(tmin, t1), math32.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	if tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return 0, true
	}
	return tmin, true
}

// IntersectTriangle returns the distance along the ray to triangle abc.
// Both faces are hit.
func (r *Ray) IntersectTriangle(a, b, c *Vector3) (Element, bool) {
	const eps = 1e-8
	n := b.Sub(a).Cross(c.Sub(a))
	denom := n.Dot(&r.Direction)
	if math32.Abs(denom) < eps {
		return 0, false
	}
	t := n.Dot(a.Sub(&r.Origin)) / denom
	if t < 0 {
		return 0, false
	}
	if !IsInTriangle(r.At(t), a, b, c) {
		return 0, false
	}
	return t, true
}
