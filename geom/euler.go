package geom

import "github.com/chewxy/math32"

type RotationOrder int

const (
	RotationOrderXYZ RotationOrder = iota
	RotationOrderYXZ
	RotationOrderZXY
	RotationOrderZYX
)

// EulerAngles holds intrinsic rotations in radians.
type EulerAngles struct {
	Vector3
	Order RotationOrder
}

func NewEuler(x, y, z float32, order RotationOrder) *EulerAngles {
	return &EulerAngles{Vector3: Vector3{x, y, z}, Order: order}
}

func NewEulerFromQuaternion(q *Quaternion, order RotationOrder) *EulerAngles {
	return NewEulerFromMatrix4(NewRotationMatrix4FromQuaternion(q), order)
}

func NewEulerFromMatrix4(mat *Matrix4, order RotationOrder) *EulerAngles {
	const eps = 1e-7
	m11, m21, m31 := mat[0], mat[1], mat[2]
	m12, m22, m32 := mat[4], mat[5], mat[6]
	m13, m23, m33 := mat[8], mat[9], mat[10]

	e := &EulerAngles{Order: order}
	switch order {
	case RotationOrderXYZ:
		e.Y = math32.Asin(Clamp(m13, -1, 1))
		if math32.Abs(m13) < 1-eps {
			e.X = math32.Atan2(-m23, m33)
			e.Z = math32.Atan2(-m12, m11)
		} else {
			e.X = math32.Atan2(m32, m22)
		}
	case RotationOrderYXZ:
		e.X = math32.Asin(-Clamp(m23, -1, 1))
		if math32.Abs(m23) < 1-eps {
			e.Y = math32.Atan2(m13, m33)
			e.Z = math32.Atan2(m21, m22)
		} else {
			e.Y = math32.Atan2(-m31, m11)
		}
	case RotationOrderZXY:
		e.X = math32.Asin(Clamp(m32, -1, 1))
		if math32.Abs(m32) < 1-eps {
			e.Y = math32.Atan2(-m31, m33)
			e.Z = math32.Atan2(-m12, m22)
		} else {
			e.Z = math32.Atan2(m21, m11)
		}
	case RotationOrderZYX:
		e.Y = math32.Asin(-Clamp(m31, -1, 1))
		if math32.Abs(m31) < 1-eps {
			e.X = math32.Atan2(m32, m33)
			e.Z = math32.Atan2(m21, m11)
		} else {
			e.Z = math32.Atan2(-m12, m22)
		}
	}
	return e
}

func (e *EulerAngles) ToQuaternion() *Quaternion {
	cx, cy, cz := math32.Cos(e.X/2), math32.Cos(e.Y/2), math32.Cos(e.Z/2)
	sx, sy, sz := math32.Sin(e.X/2), math32.Sin(e.Y/2), math32.Sin(e.Z/2)

	switch e.Order {
	case RotationOrderXYZ:
		return &Quaternion{
			X: sx*cy*cz + cx*sy*sz,
			Y: cx*sy*cz - sx*cy*sz,
			Z: cx*cy*sz + sx*sy*cz,
			W: cx*cy*cz - sx*sy*sz}
	case RotationOrderYXZ:
		return &Quaternion{
			X: sx*cy*cz + cx*sy*sz,
			Y: cx*sy*cz - sx*cy*sz,
			Z: cx*cy*sz - sx*sy*cz,
			W: cx*cy*cz + sx*sy*sz}
	case RotationOrderZXY:
		return &Quaternion{
			X: sx*cy*cz - cx*sy*sz,
			Y: cx*sy*cz + sx*cy*sz,
			Z: cx*cy*sz + sx*sy*cz,
			W: cx*cy*cz - sx*sy*sz}
	case RotationOrderZYX:
		return &Quaternion{
			X: sx*cy*cz - cx*sy*sz,
			Y: cx*sy*cz + sx*cy*sz,
			Z: cx*cy*sz - sx*sy*cz,
			W: cx*cy*cz + sx*sy*sz}
	default:
		return NewIdentityQuaternion()
	}
}
