package scene

import (
	"github.com/binzume/tbmscene/geom"
)

// Node is an element of the scene tree. The parent link is not an owner;
// the tree owns its nodes through children.
type Node struct {
	Name     string
	Position geom.Vector3
	Rotation geom.Quaternion
	Scale    geom.Vector3
	Mesh     *Mesh
	Visible  bool

	// PartID refers to the identity record of this node. Empty for unmapped nodes.
	PartID string

	parent   *Node
	children []*Node
}

func NewNode(name string) *Node {
	return &Node{
		Name:     name,
		Rotation: geom.Quaternion{W: 1},
		Scale:    geom.Vector3{X: 1, Y: 1, Z: 1},
		Visible:  true,
	}
}

func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the child list in file order. Callers must not modify it.
func (n *Node) Children() []*Node {
	return n.children
}

// Add appends c, detaching it from its previous parent. The local transform is kept.
func (n *Node) Add(c *Node) {
	if c.parent != nil {
		c.parent.Remove(c)
	}
	c.parent = n
	n.children = append(n.children, c)
}

func (n *Node) Remove(c *Node) bool {
	for i, ch := range n.children {
		if ch == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			c.parent = nil
			return true
		}
	}
	return false
}

// Attach moves c under n keeping its world transform.
func (n *Node) Attach(c *Node) {
	world := c.WorldMatrix()
	local := n.WorldMatrix().Inverse().Mul(world)
	pos, rot, scale := local.Decompose()
	c.Position, c.Rotation, c.Scale = *pos, *rot, *scale
	n.Add(c)
}

// Walk visits n and its descendants in depth-first pre-order.
// Returning false from fn skips the children of that node.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}

func (n *Node) Traverse(fn func(*Node)) {
	n.Walk(func(c *Node) bool {
		fn(c)
		return true
	})
}

// FindByName returns the first node named name in pre-order.
func (n *Node) FindByName(name string) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if c.Name == name {
			found = c
			return false
		}
		return true
	})
	return found
}

func (n *Node) Root() *Node {
	r := n
	for r.parent != nil {
		r = r.parent
	}
	return r
}

func (n *Node) LocalMatrix() *geom.Matrix4 {
	return geom.NewTRSMatrix4(&n.Position, &n.Rotation, &n.Scale)
}

func (n *Node) WorldMatrix() *geom.Matrix4 {
	m := n.LocalMatrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.LocalMatrix().Mul(m)
	}
	return m
}

func (n *Node) WorldPosition() *geom.Vector3 {
	m := n.WorldMatrix()
	return &geom.Vector3{X: m[12], Y: m[13], Z: m[14]}
}

// BoundingBox returns the world space bounds of every mesh in the subtree.
func (n *Node) BoundingBox() *geom.Box3 {
	box := geom.NewEmptyBox3()
	var visit func(c *Node, parentWorld *geom.Matrix4)
	visit = func(c *Node, parentWorld *geom.Matrix4) {
		world := parentWorld.Mul(c.LocalMatrix())
		if c.Mesh != nil {
			box.ExpandByBox(c.Mesh.Bounds().Transform(world))
		}
		for _, ch := range c.children {
			visit(ch, world)
		}
	}
	parentWorld := geom.NewMatrix4()
	if n.parent != nil {
		parentWorld = n.parent.WorldMatrix()
	}
	visit(n, parentWorld)
	return box
}
