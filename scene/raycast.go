package scene

import (
	"sort"

	"github.com/binzume/tbmscene/geom"
)

type Hit struct {
	Node     *Node
	Distance float32
	Point    geom.Vector3
}

// Raycast returns the visible mesh nodes under root hit by ray, nearest first.
func Raycast(root *Node, ray *geom.Ray) []Hit {
	var hits []Hit
	var visit func(n *Node, parentWorld *geom.Matrix4)
	visit = func(n *Node, parentWorld *geom.Matrix4) {
		if !n.Visible {
			return
		}
		world := parentWorld.Mul(n.LocalMatrix())
		if n.Mesh != nil {
			if d, ok := intersectMesh(n.Mesh, world, ray); ok {
				hits = append(hits, Hit{Node: n, Distance: d, Point: *ray.At(d)})
			}
		}
		for _, c := range n.children {
			visit(c, world)
		}
	}
	parentWorld := geom.NewMatrix4()
	if root.parent != nil {
		parentWorld = root.parent.WorldMatrix()
	}
	visit(root, parentWorld)
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	return hits
}

func intersectMesh(m *Mesh, world *geom.Matrix4, ray *geom.Ray) (float32, bool) {
	if _, ok := ray.IntersectBox(m.Bounds().Transform(world)); !ok {
		return 0, false
	}
	var nearest float32
	found := false
	for i := 0; i < m.TriangleCount(); i++ {
		a, b, c, ok := m.Triangle(i)
		if !ok {
			continue
		}
		d, ok := ray.IntersectTriangle(world.ApplyTo(a), world.ApplyTo(b), world.ApplyTo(c))
		if ok && (!found || d < nearest) {
			nearest, found = d, true
		}
	}
	return nearest, found
}
