package geom

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestDecomposeMatrix(t *testing.T) {
	const eps = 0.0001

	pos := NewVector3(1, 2, 3)
	rot := NewEuler(10*math32.Pi/180, 20*math32.Pi/180, 30*math32.Pi/180, RotationOrderZXY).ToQuaternion()
	scale := NewVector3(1.5, 1.6, 1.7)

	mat := NewTRSMatrix4(pos, rot, scale)
	pos1, rot1, scale1 := mat.Decompose()

	if pos.Sub(pos1).Len() > eps {
		t.Error("pos: ", pos, pos1)
	}
	if rot.Sub(rot1).Len() > eps {
		t.Error("rot: ", rot, rot1)
	}
	if scale.Sub(scale1).Len() > eps {
		t.Error("scale: ", scale, scale1)
	}

	mat2 := NewRotationMatrix4FromQuaternion(rot)
	pos1, rot1, scale1 = mat2.Decompose()
	if rot.Sub(rot1).Len() > eps {
		t.Error("rot: ", rot, rot1)
	}
	if pos1.Len() > eps {
		t.Error("pos: ", pos1)
	}
	if scale1.Sub(NewVector3(1, 1, 1)).Len() > eps {
		t.Error("scale: ", scale1)
	}
}

func TestMatrixRotationMatchesQuaternion(t *testing.T) {
	const eps = 0.0001
	q := NewEuler(0.3, -1.2, 2.1, RotationOrderXYZ).ToQuaternion()
	v := NewVector3(1, 2, 3)
	if NewRotationMatrix4FromQuaternion(q).ApplyTo(v).Sub(q.ApplyTo(v)).Len() > eps {
		t.Error("matrix and quaternion rotations differ")
	}
}

func TestInverse(t *testing.T) {
	const eps = 0.0001
	m := NewTRSMatrix4(NewVector3(4, -2, 7), NewEuler(0.5, 0.2, -0.4, RotationOrderXYZ).ToQuaternion(), NewVector3(2, 2, 2))
	v := NewVector3(1, 2, 3)
	back := m.Inverse().ApplyTo(m.ApplyTo(v))
	if back.Sub(v).Len() > eps {
		t.Error("inverse: ", v, back)
	}
	if m.Mul(m.Inverse()).ApplyTo(v).Sub(v).Len() > eps {
		t.Error("m * m^-1 != I")
	}
}

func TestMulOrder(t *testing.T) {
	const eps = 0.0001
	tr := NewTranslateMatrix4(10, 0, 0)
	sc := NewScaleMatrix4(2, 2, 2)
	// translate after scale
	p := tr.Mul(sc).ApplyTo(NewVector3(1, 0, 0))
	if p.Sub(NewVector3(12, 0, 0)).Len() > eps {
		t.Error("T*S: ", p)
	}
}

func TestPerspectiveProject(t *testing.T) {
	const eps = 0.0001
	proj := NewPerspectiveMatrix4(math32.Pi/2, 1, 1, 100)
	near := proj.Project(NewVector3(0, 0, -1))
	far := proj.Project(NewVector3(0, 0, -100))
	if Abs(near.Z+1) > eps || Abs(far.Z-1) > 0.001 {
		t.Error("depth range: ", near, far)
	}
	edge := proj.Project(NewVector3(1, 0, -1))
	if Abs(edge.X-1) > eps {
		t.Error("fov edge: ", edge)
	}
}

func TestLookAt(t *testing.T) {
	const eps = 0.0001
	m := NewLookAtMatrix4(NewVector3(0, 0, 10), NewVector3(0, 0, 0), NewVector3(0, 1, 0))
	fwd := m.ApplyTo(NewVector3(0, 0, -1))
	if fwd.Sub(NewVector3(0, 0, 9)).Len() > eps {
		t.Error("look at: ", fwd)
	}
}
