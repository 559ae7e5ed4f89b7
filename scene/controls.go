package scene

import (
	"github.com/binzume/tbmscene/geom"
	"github.com/charmbracelet/harmonica"
)

type axis struct {
	spring harmonica.Spring
	vel    float64
}

func (a *axis) update(pos *float32, goal float32) {
	p, v := a.spring.Update(float64(*pos), a.vel, float64(goal))
	*pos, a.vel = float32(p), v
}

type controlsState struct {
	position geom.Vector3
	target   geom.Vector3
}

// Controls moves the camera around a target. Moves are eased with critically
// damped springs advanced once per Update.
type Controls struct {
	Camera *Camera

	goal  controlsState
	saved controlsState
	axes  [6]axis
}

func NewControls(cam *Camera, fps int) *Controls {
	c := &Controls{Camera: cam}
	for i := range c.axes {
		c.axes[i].spring = harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0)
	}
	c.goal = controlsState{position: cam.Position, target: cam.Target}
	c.saved = c.goal
	return c
}

// MoveTo eases the camera towards pos looking at target.
func (c *Controls) MoveTo(pos, target *geom.Vector3) {
	c.goal = controlsState{position: *pos, target: *target}
}

// Jump places the camera immediately.
func (c *Controls) Jump(pos, target *geom.Vector3) {
	c.MoveTo(pos, target)
	c.Camera.Position, c.Camera.Target = *pos, *target
	for i := range c.axes {
		c.axes[i].vel = 0
	}
}

func (c *Controls) Goal() (position, target geom.Vector3) {
	return c.goal.position, c.goal.target
}

func (c *Controls) SaveState() {
	c.saved = c.goal
}

// Reset returns to the last saved state.
func (c *Controls) Reset() {
	c.goal = c.saved
}

func (c *Controls) Update() {
	cam := c.Camera
	c.axes[0].update(&cam.Position.X, c.goal.position.X)
	c.axes[1].update(&cam.Position.Y, c.goal.position.Y)
	c.axes[2].update(&cam.Position.Z, c.goal.position.Z)
	c.axes[3].update(&cam.Target.X, c.goal.target.X)
	c.axes[4].update(&cam.Target.Y, c.goal.target.Y)
	c.axes[5].update(&cam.Target.Z, c.goal.target.Z)
}

func (c *Controls) Settled(eps float32) bool {
	cam := c.Camera
	return cam.Position.DistanceTo(&c.goal.position) <= eps && cam.Target.DistanceTo(&c.goal.target) <= eps
}
