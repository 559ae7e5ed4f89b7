// Package rig couples the moving parts of the machine model to rigid bodies:
// the rotating hub and the thrust pistons pinned to it.
package rig

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/binzume/tbmscene/geom"
	"github.com/binzume/tbmscene/naming"
	"github.com/binzume/tbmscene/physics"
	"github.com/binzume/tbmscene/scene"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

var ErrHubNotFound = errors.New("hub not found")

type Config struct {
	HubName      string  `yaml:"hub"`
	HubMass      float32 `yaml:"hub_mass"`
	PistonFormat string  `yaml:"piston_format"`
	PistonCount  int     `yaml:"piston_count"`
	ThrustFilter string  `yaml:"thrust_filter"`
}

func DefaultConfig() Config {
	return Config{
		HubName:      "CMP_HUBCOVER",
		HubMass:      1,
		PistonFormat: "CMP_PISTON_%d",
		PistonCount:  12,
		ThrustFilter: "THRUST",
	}
}

// Actuator links a visual node to its body. The node is not owned.
type Actuator struct {
	Name string
	Node *scene.Node
	Body *physics.Body
}

type Rig struct {
	Hub         *Actuator
	Pistons     []*Actuator
	Constraints []*physics.PointToPoint

	correction mgl32.Quat
}

func toQuat(q *geom.Quaternion) mgl32.Quat {
	return mgl32.Quat{W: q.W, V: mgl32.Vec3{q.X, q.Y, q.Z}}
}

func toVec3(v *geom.Vector3) mgl32.Vec3 {
	return mgl32.Vec3{v.X, v.Y, v.Z}
}

// Couple builds the hub and piston bodies of model and adds them to world.
// Missing pistons are logged and skipped. A missing hub is an error and
// leaves world untouched.
func Couple(model *scene.Node, world *physics.World, conv naming.Convention, cfg Config) (*Rig, error) {
	hub := firstLayer(model, cfg.HubName)
	if hub == nil {
		hub = model.FindByName(cfg.HubName)
	}
	if hub == nil {
		return nil, fmt.Errorf("%w: %s", ErrHubNotFound, cfg.HubName)
	}
	group(model, hub, conv, cfg.ThrustFilter)

	r := &Rig{
		correction: toQuat(geom.NewEuler(0, 0, -math32.Pi/2, geom.RotationOrderXYZ).ToQuaternion()),
	}

	size := hub.BoundingBox().Size()
	e := geom.NewEulerFromQuaternion(&hub.Rotation, geom.RotationOrderXYZ)
	e.Z += math32.Pi / 2
	hubBody := physics.NewBody(hub.Name,
		physics.NewCylinder(math32.Max(size.Y, size.Z)/2, size.X/2),
		cfg.HubMass, toVec3(&hub.Position), toQuat(e.ToQuaternion()))
	r.Hub = &Actuator{Name: hub.Name, Node: hub, Body: hubBody}

	for i := 1; i <= cfg.PistonCount; i++ {
		name := fmt.Sprintf(cfg.PistonFormat, i)
		node := model.FindByName(name)
		if node == nil {
			log.Printf("rig: %s not found. skipped.", name)
			continue
		}
		box := node.BoundingBox()
		if box.IsEmpty() {
			log.Printf("rig: %s has no geometry. skipped.", name)
			continue
		}
		half := box.Size().Scale(0.5)
		body := physics.NewBody(name, physics.NewBox(toVec3(half)), 0, toVec3(&node.Position), mgl32.QuatIdent())

		anchor := mgl32.Vec3{box.Max.X, (box.Min.Y + box.Max.Y) / 2, (box.Min.Z + box.Max.Z) / 2}
		c := physics.NewPointToPoint(body, body.PointToLocal(anchor), hubBody, hubBody.PointToLocal(anchor))
		r.Pistons = append(r.Pistons, &Actuator{Name: name, Node: node, Body: body})
		r.Constraints = append(r.Constraints, c)
	}

	r.Install(world)
	return r, nil
}

func firstLayer(model *scene.Node, name string) *scene.Node {
	for _, c := range model.Children() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// group moves the matched first layer parts of model under hub, except
// the ones whose name contains filter.
func group(model, hub *scene.Node, conv naming.Convention, filter string) {
	children := append([]*scene.Node(nil), model.Children()...)
	for _, c := range children {
		if c == hub || !conv.Matches(c.Name) || (filter != "" && strings.Contains(c.Name, filter)) {
			continue
		}
		hub.Attach(c)
	}
}

// Install adds the bodies and constraints of r to world.
func (r *Rig) Install(world *physics.World) {
	for _, b := range r.Bodies() {
		world.AddBody(b)
	}
	for _, c := range r.Constraints {
		world.AddConstraint(c)
	}
}

func (r *Rig) Bodies() []*physics.Body {
	bodies := []*physics.Body{r.Hub.Body}
	for _, p := range r.Pistons {
		bodies = append(bodies, p.Body)
	}
	return bodies
}

func (r *Rig) Actuator(name string) *Actuator {
	if r.Hub.Name == name {
		return r.Hub
	}
	for _, p := range r.Pistons {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// SyncHub copies the hub body pose onto the hub node.
func (r *Rig) SyncHub() {
	b := r.Hub.Body
	q := b.Quaternion.Mul(r.correction)
	n := r.Hub.Node
	n.Position = geom.Vector3{X: b.Position[0], Y: b.Position[1], Z: b.Position[2]}
	n.Rotation = geom.Quaternion{X: q.V[0], Y: q.V[1], Z: q.V[2], W: q.W}
}
