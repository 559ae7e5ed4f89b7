// Package interact turns pointer input into hover, click and selection state
// over an identity mapped scene.
package interact

import (
	"github.com/binzume/tbmscene/geom"
	"github.com/binzume/tbmscene/identity"
	"github.com/binzume/tbmscene/naming"
	"github.com/binzume/tbmscene/scene"
)

// HoverOffsetY shifts the popup below the pointer.
const HoverOffsetY = 10

type Point struct {
	X, Y float32
}

type HoverHandler func(name string, pos Point)
type UnhoverHandler func()
type ClickHandler func(part *identity.Part)
type RaycastCallback func(hits []scene.Hit)

type raycastEntry struct {
	id int
	cb RaycastCallback
}

// Engine is not safe for concurrent use.
type Engine struct {
	camera *scene.Camera
	conv   naming.Convention
	hl     *Highlighter

	root  *scene.Node
	parts *identity.Map

	width, height float32

	hovered *scene.Node
	locked  []*scene.Node

	onHover   HoverHandler
	onUnhover UnhoverHandler
	onClick   ClickHandler
	raycasts  []raycastEntry
	nextID    int
}

func NewEngine(camera *scene.Camera, conv naming.Convention) *Engine {
	return &Engine{camera: camera, conv: conv, hl: NewHighlighter(conv)}
}

// SetScene replaces the picking scene. All highlight state is dropped.
func (e *Engine) SetScene(root *scene.Node, parts *identity.Map, hub *scene.Node, conv naming.Convention) {
	e.hl.RestoreAll()
	e.hovered, e.locked = nil, nil
	e.root, e.parts, e.conv = root, parts, conv
	e.hl = NewHighlighter(conv)
	e.hl.SetHub(hub)
}

func (e *Engine) Resize(w, h float32) {
	e.width, e.height = w, h
}

func (e *Engine) SetPopupHandlers(onHover HoverHandler, onUnhover UnhoverHandler) {
	e.onHover, e.onUnhover = onHover, onUnhover
}

func (e *Engine) SetInfoHandlers(onClick ClickHandler) {
	e.onClick = onClick
}

// AddRaycastCallback registers cb to receive the hits of every pointer cast.
// The returned id removes it.
func (e *Engine) AddRaycastCallback(cb RaycastCallback) int {
	e.nextID++
	e.raycasts = append(e.raycasts, raycastEntry{id: e.nextID, cb: cb})
	return e.nextID
}

func (e *Engine) RemoveRaycastCallback(id int) bool {
	for i, r := range e.raycasts {
		if r.id == id {
			e.raycasts = append(e.raycasts[:i], e.raycasts[i+1:]...)
			return true
		}
	}
	return false
}

func (e *Engine) Hovered() *scene.Node {
	return e.hovered
}

func (e *Engine) Locked() []*scene.Node {
	return append([]*scene.Node(nil), e.locked...)
}

func (e *Engine) Highlighter() *Highlighter {
	return e.hl
}

// pick returns the nearest addressable node under the pixel (x, y).
func (e *Engine) pick(x, y float32) *scene.Node {
	if e.root == nil || e.parts == nil {
		return nil
	}
	ray := e.camera.Ray(geom.NewNDC(x, y, e.width, e.height))
	hits := scene.Raycast(e.root, ray)
	for _, r := range e.raycasts {
		r.cb(hits)
	}
	if len(hits) == 0 {
		return nil
	}
	for n := hits[0].Node; n != nil; n = n.Parent() {
		if e.parts.Lookup(n) != nil {
			return n
		}
	}
	return nil
}

func (e *Engine) lockIndex(n *scene.Node) int {
	for i, l := range e.locked {
		if l == n {
			return i
		}
	}
	return -1
}

func (e *Engine) PointerMove(x, y float32) {
	target := e.pick(x, y)
	if target == nil {
		if e.hovered == nil {
			return
		}
		if e.lockIndex(e.hovered) < 0 {
			e.hl.Restore(e.hovered)
		}
		e.hovered = nil
		if e.onUnhover != nil {
			e.onUnhover()
		}
		return
	}
	if target == e.hovered {
		return
	}
	if e.hovered != nil && e.lockIndex(e.hovered) < 0 {
		e.hl.Restore(e.hovered)
	}
	e.hovered = target
	e.hl.Highlight(target)
	if e.onHover != nil {
		e.onHover(target.Name, Point{X: x, Y: y + HoverOffsetY})
	}
}

// Click toggles the lock of the hovered node. Locking a node releases every
// other lock. Clicking empty space releases all locks.
func (e *Engine) Click() {
	if e.hovered == nil {
		e.unlockAll()
		return
	}
	if e.onClick != nil {
		e.onClick(e.parts.Lookup(e.hovered))
	}
	if i := e.lockIndex(e.hovered); i >= 0 {
		e.locked = append(e.locked[:i], e.locked[i+1:]...)
		return
	}
	e.unlockAll()
	e.locked = []*scene.Node{e.hovered}
}

func (e *Engine) unlockAll() {
	for _, n := range e.locked {
		if n != e.hovered {
			e.hl.Restore(n)
		}
	}
	e.locked = nil
}

// DoubleClick selects the assembly containing the part under (x, y) and
// locks all of its components.
func (e *Engine) DoubleClick(x, y float32) {
	target := e.pick(x, y)
	if target == nil {
		return
	}
	part := e.parts.Lookup(target)
	if parent := e.parts.Parent(part); parent != nil {
		part = parent
	}
	if e.onClick != nil {
		e.onClick(part)
	}
	e.lockAssembly(part)
}

func (e *Engine) lockAssembly(p *identity.Part) {
	for _, id := range p.Children {
		c := e.parts.Get(id)
		if c == nil {
			continue
		}
		if e.conv.IsAssembly(c.Name) {
			e.lockAssembly(c)
		} else if e.lockIndex(c.Node) < 0 {
			e.hl.Highlight(c.Node)
			e.locked = append(e.locked, c.Node)
		}
	}
}
