package geom

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestEuler(t *testing.T) {
	const eps = 0.0001

	for i, c := range []struct {
		order   RotationOrder
		x, y, z float32
	}{
		{RotationOrderXYZ, 10, 20, 30},
		{RotationOrderXYZ, 0, 0, 90},
		{RotationOrderYXZ, 10, 20, 30},
		{RotationOrderZXY, 10, 20, 30},
		{RotationOrderZYX, 10, 20, 30},
		{RotationOrderZYX, -45, 5, 120},
	} {
		e1 := NewEuler(c.x*math32.Pi/180, c.y*math32.Pi/180, c.z*math32.Pi/180, c.order)
		q := e1.ToQuaternion()
		e2 := NewEulerFromQuaternion(q, c.order)

		if e1.Vector3.Sub(&e2.Vector3).Len() > eps {
			t.Error("euler: ", i, e1, e2)
		}
		if Abs(q.Len()-1) > eps {
			t.Error("Quaternion.Len() != 1", e1)
		}
	}
}

func TestEulerQuarterTurnZ(t *testing.T) {
	const eps = 0.0001
	q := NewEuler(0, 0, math32.Pi/2, RotationOrderXYZ).ToQuaternion()
	v := q.ApplyTo(NewVector3(1, 0, 0))
	if v.Sub(NewVector3(0, 1, 0)).Len() > eps {
		t.Error("rotate x by +90deg around z: ", v)
	}
}
