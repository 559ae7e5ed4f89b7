package geom

import "testing"

func TestBox3(t *testing.T) {
	b := NewEmptyBox3()
	if !b.IsEmpty() {
		t.Error("new box should be empty")
	}
	b.ExpandByPoint(NewVector3(1, 2, 3))
	b.ExpandByPoint(NewVector3(-1, 0, 5))
	if *b.Size() != *NewVector3(2, 2, 2) || *b.Center() != *NewVector3(0, 1, 4) {
		t.Error("box: ", b)
	}

	moved := b.Transform(NewTranslateMatrix4(10, 0, 0))
	if moved.Min.X != 9 || moved.Max.X != 11 {
		t.Error("Transform: ", moved)
	}

	rotated := NewEmptyBox3()
	rotated.ExpandByPoint(NewVector3(0, 0, 0))
	rotated.ExpandByPoint(NewVector3(2, 1, 1))
	r := rotated.Transform(NewScaleMatrix4(-1, 1, 1))
	if r.Min.X != -2 || r.Max.X != 0 {
		t.Error("Transform(mirror): ", r)
	}
}

func TestRayIntersectBox(t *testing.T) {
	b := &Box3{Min: Vector3{-1, -1, -1}, Max: Vector3{1, 1, 1}}
	ray := NewRay(NewVector3(0, 0, 10), NewVector3(0, 0, -1))
	d, ok := ray.IntersectBox(b)
	if !ok || d != 9 {
		t.Error("IntersectBox: ", d, ok)
	}
	miss := NewRay(NewVector3(5, 0, 10), NewVector3(0, 0, -1))
	if _, ok := miss.IntersectBox(b); ok {
		t.Error("should miss")
	}
	behind := NewRay(NewVector3(0, 0, 10), NewVector3(0, 0, 1))
	if _, ok := behind.IntersectBox(b); ok {
		t.Error("box is behind the ray")
	}
}

func TestRayIntersectTriangle(t *testing.T) {
	a, b, c := NewVector3(-1, -1, 0), NewVector3(1, -1, 0), NewVector3(0, 1, 0)
	ray := NewRay(NewVector3(0, 0, 5), NewVector3(0, 0, -1))
	d, ok := ray.IntersectTriangle(a, b, c)
	if !ok || Abs(d-5) > 0.0001 {
		t.Error("IntersectTriangle: ", d, ok)
	}
	// back face
	if _, ok := ray.IntersectTriangle(a, c, b); !ok {
		t.Error("back face should hit")
	}
	side := NewRay(NewVector3(3, 0, 5), NewVector3(0, 0, -1))
	if _, ok := side.IntersectTriangle(a, b, c); ok {
		t.Error("should miss")
	}
}

func TestColor(t *testing.T) {
	const eps = 0.0001
	c := NewColorHex(0x00bcd4)
	if c.R != 0 || Abs(c.G-188.0/255) > eps || Abs(c.B-212.0/255) > eps {
		t.Error("NewColorHex: ", c)
	}
	white := Color{1, 1, 1}
	if *NewColorHex(0x000000).Invert() != white {
		t.Error("Invert()")
	}
	if *NewColorHex(0x000000).Lerp(NewColorHex(0xffffff), 1) != white {
		t.Error("Lerp()")
	}
	mid := NewColorHex(0x000000).Lerp(&white, 0.25)
	if Abs(mid.R-0.25) > eps || Abs(mid.B-0.25) > eps {
		t.Error("Lerp(0.25): ", mid)
	}
}
