package geom

import "github.com/chewxy/math32"

func Abs(v Element) Element {
	return math32.Abs(v)
}

func Clamp(v, min, max Element) Element {
	return math32.Max(min, math32.Min(v, max))
}

// IsInTriangle reports whether p, assumed coplanar with abc, lies inside
// the triangle or on its edges.
func IsInTriangle(p, a, b, c *Vector3) bool {
	ab, bc, ca := b.Sub(a), c.Sub(b), a.Sub(c)
	c1, c2, c3 := ab.Cross(p.Sub(a)), bc.Cross(p.Sub(b)), ca.Cross(p.Sub(c))
	return c1.Dot(c2) >= 0 && c2.Dot(c3) >= 0 && c3.Dot(c1) >= 0
}
