package interact

import (
	"github.com/binzume/tbmscene/geom"
	"github.com/binzume/tbmscene/naming"
	"github.com/binzume/tbmscene/scene"
)

// AccentColor is the hue highlight colors are pulled towards.
const AccentColor = 0x00bcd4

const (
	accentBlend      = 0.9
	highlightOpacity = 0.8
)

type original struct {
	material *scene.Material
	refs     int
}

// Highlighter swaps mesh materials for translucent highlight materials and
// restores the exact original material pointers. A mesh shared by several
// highlighted targets is restored when the last of them is released.
type Highlighter struct {
	conv naming.Convention
	hub  *scene.Node

	originals map[*scene.Mesh]*original
	targets   map[*scene.Node][]*scene.Mesh
}

func NewHighlighter(conv naming.Convention) *Highlighter {
	return &Highlighter{
		conv:      conv,
		originals: map[*scene.Mesh]*original{},
		targets:   map[*scene.Node][]*scene.Mesh{},
	}
}

// SetHub sets the container node whose highlight goes to its visual shell.
func (h *Highlighter) SetHub(hub *scene.Node) {
	h.hub = hub
}

// HighlightMaterial returns the highlight replacement for m.
func HighlightMaterial(m *scene.Material) *scene.Material {
	base := geom.Color{R: 1, G: 1, B: 1}
	name := "highlight"
	if m != nil {
		base = m.Color
		name = m.Name + "_highlight"
	}
	c := base.Invert().Lerp(geom.NewColorHex(AccentColor), accentBlend)
	return &scene.Material{Name: name, Color: *c, Opacity: highlightOpacity, Transparent: true}
}

func (h *Highlighter) resolve(n *scene.Node) *scene.Node {
	if n == nil || n != h.hub {
		return n
	}
	for _, c := range n.Children() {
		if !h.conv.Matches(c.Name) {
			return c
		}
	}
	return nil
}

func (h *Highlighter) Highlight(n *scene.Node) {
	target := h.resolve(n)
	if target == nil {
		return
	}
	if _, ok := h.targets[target]; ok {
		return
	}
	var meshes []*scene.Mesh
	target.Traverse(func(c *scene.Node) {
		m := c.Mesh
		if m == nil {
			return
		}
		if o, ok := h.originals[m]; ok {
			o.refs++
		} else {
			h.originals[m] = &original{material: m.Material, refs: 1}
			m.Material = HighlightMaterial(m.Material)
		}
		meshes = append(meshes, m)
	})
	h.targets[target] = meshes
}

func (h *Highlighter) Restore(n *scene.Node) {
	target := h.resolve(n)
	if target == nil {
		return
	}
	meshes, ok := h.targets[target]
	if !ok {
		return
	}
	delete(h.targets, target)
	for _, m := range meshes {
		o := h.originals[m]
		if o == nil {
			continue
		}
		if o.refs--; o.refs <= 0 {
			m.Material = o.material
			delete(h.originals, m)
		}
	}
}

func (h *Highlighter) IsHighlighted(n *scene.Node) bool {
	target := h.resolve(n)
	if target == nil {
		return false
	}
	_, ok := h.targets[target]
	return ok
}

// RestoreAll releases every target.
func (h *Highlighter) RestoreAll() {
	for target := range h.targets {
		h.Restore(target)
	}
}
