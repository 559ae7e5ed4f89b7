package scene

import (
	"github.com/binzume/tbmscene/geom"
	"github.com/chewxy/math32"
)

// Camera is a perspective camera looking at Target.
type Camera struct {
	FOV    float32 // vertical, degrees
	Aspect float32
	Near   float32
	Far    float32

	Position geom.Vector3
	Target   geom.Vector3
	Up       geom.Vector3
}

func NewCamera(fov, aspect, near, far float32) *Camera {
	return &Camera{
		FOV:      fov,
		Aspect:   aspect,
		Near:     near,
		Far:      far,
		Position: geom.Vector3{X: 1, Y: 1, Z: 1},
		Up:       geom.Vector3{Y: 1},
	}
}

// SetSize updates the aspect ratio for a w*h surface. Unknown sizes fall back to 1.
func (c *Camera) SetSize(w, h float32) {
	if w > 0 && h > 0 {
		c.Aspect = w / h
	} else {
		c.Aspect = 1
	}
}

func (c *Camera) ProjectionMatrix() *geom.Matrix4 {
	return geom.NewPerspectiveMatrix4(c.FOV*math32.Pi/180, c.Aspect, c.Near, c.Far)
}

func (c *Camera) WorldMatrix() *geom.Matrix4 {
	return geom.NewLookAtMatrix4(&c.Position, &c.Target, &c.Up)
}

func (c *Camera) ViewMatrix() *geom.Matrix4 {
	return c.WorldMatrix().Inverse()
}

// Project maps a world position to normalized device coordinates.
func (c *Camera) Project(p *geom.Vector3) *geom.Vector3 {
	return c.ProjectionMatrix().Mul(c.ViewMatrix()).Project(p)
}

// Unproject maps normalized device coordinates back to world space.
func (c *Camera) Unproject(ndc *geom.Vector3) *geom.Vector3 {
	view := c.ProjectionMatrix().Inverse().Project(ndc)
	return c.WorldMatrix().ApplyTo(view)
}

// Ray returns the picking ray through ndc.
func (c *Camera) Ray(ndc *geom.Vector2) *geom.Ray {
	p := c.Unproject(&geom.Vector3{X: ndc.X, Y: ndc.Y, Z: 0.5})
	return geom.NewRay(&c.Position, p.Sub(&c.Position))
}
