package geom

import "github.com/chewxy/math32"

// Vector2 is a point on the screen, usually in normalized device coordinates.
type Vector2 struct {
	X Element
	Y Element
}

func (v *Vector2) Len() Element {
	return math32.Sqrt(v.X*v.X + v.Y*v.Y)
}

// NewNDC converts a pixel position inside a w*h surface to normalized device
// coordinates (-1..1, y up).
func NewNDC(px, py, w, h float32) *Vector2 {
	if w <= 0 || h <= 0 {
		return &Vector2{}
	}
	return &Vector2{X: px/w*2 - 1, Y: -(py/h)*2 + 1}
}
