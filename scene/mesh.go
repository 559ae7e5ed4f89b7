package scene

import "github.com/binzume/tbmscene/geom"

type Material struct {
	Name        string
	Color       geom.Color
	Opacity     float32
	Transparent bool
}

func NewMaterial(name string, color geom.Color) *Material {
	return &Material{Name: name, Color: color, Opacity: 1}
}

func (m *Material) Clone() *Material {
	c := *m
	return &c
}

// Mesh is an indexed triangle list with a single material.
type Mesh struct {
	Positions []geom.Vector3
	Indices   []uint32
	Material  *Material

	bounds *geom.Box3
}

func NewMesh(positions []geom.Vector3, indices []uint32, mat *Material) *Mesh {
	if indices == nil {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	return &Mesh{Positions: positions, Indices: indices, Material: mat}
}

// Instance returns a new Mesh sharing m's geometry and material. Replacing the
// material of one instance leaves the others untouched.
func (m *Mesh) Instance() *Mesh {
	return &Mesh{Positions: m.Positions, Indices: m.Indices, Material: m.Material, bounds: m.bounds}
}

// Bounds returns the local space bounds. The result is cached; call
// InvalidateBounds after editing Positions.
func (m *Mesh) Bounds() *geom.Box3 {
	if m.bounds == nil {
		b := geom.NewEmptyBox3()
		for i := range m.Positions {
			b.ExpandByPoint(&m.Positions[i])
		}
		m.bounds = b
	}
	return m.bounds
}

func (m *Mesh) InvalidateBounds() {
	m.bounds = nil
}

func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Triangle returns the local vertices of triangle i.
func (m *Mesh) Triangle(i int) (a, b, c *geom.Vector3, ok bool) {
	i0, i1, i2 := m.Indices[i*3], m.Indices[i*3+1], m.Indices[i*3+2]
	n := uint32(len(m.Positions))
	if i0 >= n || i1 >= n || i2 >= n {
		return nil, nil, nil, false
	}
	return &m.Positions[i0], &m.Positions[i1], &m.Positions[i2], true
}

// NewBoxMesh returns a box with the given size centered at the origin.
func NewBoxMesh(sx, sy, sz float32, mat *Material) *Mesh {
	x, y, z := sx/2, sy/2, sz/2
	pos := []geom.Vector3{
		{X: -x, Y: -y, Z: -z}, {X: x, Y: -y, Z: -z}, {X: x, Y: y, Z: -z}, {X: -x, Y: y, Z: -z},
		{X: -x, Y: -y, Z: z}, {X: x, Y: -y, Z: z}, {X: x, Y: y, Z: z}, {X: -x, Y: y, Z: z},
	}
	idx := []uint32{
		0, 2, 1, 0, 3, 2, // -z
		4, 5, 6, 4, 6, 7, // +z
		0, 1, 5, 0, 5, 4, // -y
		3, 6, 2, 3, 7, 6, // +y
		0, 4, 7, 0, 7, 3, // -x
		1, 2, 6, 1, 6, 5, // +x
	}
	return NewMesh(pos, idx, mat)
}
