package anim

import (
	"math"

	"github.com/binzume/tbmscene/geom"
)

// RotateX spins the target node about its local X axis. value is in rpm.
func RotateX(delta, value float64, target Target) {
	if target.Node == nil {
		return
	}
	angle := float32(2 * math.Pi * value / 60 * delta)
	q := geom.NewAxisAngleQuaternion(&geom.Vector3{X: 1}, angle)
	target.Node.Rotation = *target.Node.Rotation.Mul(q).Normalize()
}

// TranslateX moves the target body along X at value units per second and
// places the node at the body position.
func TranslateX(delta, value float64, target Target) {
	if target.Body == nil {
		return
	}
	target.Body.Position[0] += float32(delta * value)
	if target.Node != nil {
		p := target.Body.Position
		target.Node.Position = geom.Vector3{X: p[0], Y: p[1], Z: p[2]}
	}
}
