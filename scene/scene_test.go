package scene

import (
	"testing"

	"github.com/binzume/tbmscene/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeTree(t *testing.T) {
	root := NewNode("root")
	a, b, c := NewNode("a"), NewNode("b"), NewNode("c")
	root.Add(a)
	root.Add(b)
	a.Add(c)

	var order []string
	root.Traverse(func(n *Node) { order = append(order, n.Name) })
	assert.Equal(t, []string{"root", "a", "c", "b"}, order)
	assert.Same(t, c, root.FindByName("c"))
	assert.Nil(t, root.FindByName("x"))
	assert.Same(t, root, c.Root())

	b.Add(c)
	assert.Empty(t, a.Children())
	assert.Same(t, b, c.Parent())

	assert.True(t, b.Remove(c))
	assert.False(t, b.Remove(c))
	assert.Nil(t, c.Parent())
}

func TestAttachKeepsWorldTransform(t *testing.T) {
	root := NewNode("root")
	parent := NewNode("parent")
	parent.Position = geom.Vector3{X: 5}
	parent.Scale = geom.Vector3{X: 2, Y: 2, Z: 2}
	child := NewNode("child")
	child.Position = geom.Vector3{X: 1}
	root.Add(parent)
	root.Add(child)

	parent.Attach(child)
	assert.Same(t, parent, child.Parent())
	assert.InDelta(t, -2, child.Position.X, 1e-4)
	assert.InDelta(t, 0.5, child.Scale.X, 1e-4)
	assert.InDelta(t, 1, child.WorldPosition().X, 1e-4)
}

func TestBoundingBox(t *testing.T) {
	root := NewNode("root")
	assert.True(t, root.BoundingBox().IsEmpty())

	part := NewNode("part")
	part.Position = geom.Vector3{X: 10}
	part.Mesh = NewBoxMesh(2, 4, 6, NewMaterial("m", geom.Color{R: 1}))
	root.Add(part)

	box := root.BoundingBox()
	assert.InDelta(t, 9, box.Min.X, 1e-4)
	assert.InDelta(t, 11, box.Max.X, 1e-4)
	assert.InDelta(t, 4, box.Size().Y, 1e-4)
	assert.InDelta(t, 6, box.Size().Z, 1e-4)
}

func TestRaycast(t *testing.T) {
	root := NewNode("root")
	near := NewNode("near")
	near.Mesh = NewBoxMesh(2, 2, 2, NewMaterial("near", geom.Color{}))
	near.Position = geom.Vector3{Z: 3}
	far := NewNode("far")
	far.Mesh = NewBoxMesh(2, 2, 2, NewMaterial("far", geom.Color{}))
	root.Add(far)
	root.Add(near)

	cam := NewCamera(50, 1, 0.1, 1000)
	cam.Position = geom.Vector3{Z: 10}

	hits := Raycast(root, cam.Ray(geom.NewNDC(50, 50, 100, 100)))
	require.Len(t, hits, 2)
	assert.Same(t, near, hits[0].Node)
	assert.InDelta(t, 6, hits[0].Distance, 1e-3)
	assert.Same(t, far, hits[1].Node)

	near.Visible = false
	hits = Raycast(root, cam.Ray(geom.NewNDC(50, 50, 100, 100)))
	require.Len(t, hits, 1)
	assert.Same(t, far, hits[0].Node)

	assert.Empty(t, Raycast(root, cam.Ray(geom.NewNDC(0, 0, 100, 100))))
}

func TestCameraProjectRoundTrip(t *testing.T) {
	cam := NewCamera(60, 1.5, 0.1, 100)
	cam.Position = geom.Vector3{X: 3, Y: 4, Z: 5}
	cam.Target = geom.Vector3{X: 1}
	p := geom.NewVector3(0.5, -0.25, 0.3)
	back := cam.Unproject(cam.Project(p))
	assert.InDelta(t, 0, back.Sub(p).Len(), 1e-3)

	cam.SetSize(0, 0)
	assert.Equal(t, float32(1), cam.Aspect)
	cam.SetSize(200, 100)
	assert.Equal(t, float32(2), cam.Aspect)
}

func TestControls(t *testing.T) {
	cam := NewCamera(50, 1, 0.1, 1000)
	ctl := NewControls(cam, 60)

	ctl.MoveTo(geom.NewVector3(15, 25, 25), geom.NewVector3(0, 0, 0))
	ctl.SaveState()
	for i := 0; i < 600; i++ {
		ctl.Update()
	}
	assert.True(t, ctl.Settled(0.01))

	ctl.Jump(geom.NewVector3(100, 0, 0), geom.NewVector3(1, 1, 1))
	assert.Equal(t, geom.Vector3{X: 100}, cam.Position)

	ctl.Reset()
	pos, target := ctl.Goal()
	assert.Equal(t, geom.Vector3{X: 15, Y: 25, Z: 25}, pos)
	assert.Equal(t, geom.Vector3{}, target)
}
