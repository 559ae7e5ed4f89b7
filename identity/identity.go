package identity

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/binzume/tbmscene/naming"
	"github.com/binzume/tbmscene/scene"
	"golang.org/x/text/cases"
)

const Separator = ":"

var (
	ErrReservedName    = errors.New("reserved part name")
	ErrBrokenHierarchy = errors.New("broken part hierarchy")
)

var reservedPrefixes = []string{"body", "color"}

// Part is the identity record of an addressable node.
type Part struct {
	ID       string
	Name     string
	ParentID string
	Children []string
	Node     *scene.Node

	Value float64
	Unit  string
}

// Map holds the parts of one loaded model in traversal order.
type Map struct {
	ids   []string
	parts map[string]*Part
}

func newMap() *Map {
	return &Map{parts: map[string]*Part{}}
}

// Build assigns an identifier to every matched node below (and including) root.
// Node names must already be normalized.
func Build(root *scene.Node, rootName string, conv naming.Convention) (*Map, error) {
	m := newMap()
	pending := []string{rootName}
	fold := cases.Fold()

	var err error
	root.Walk(func(n *scene.Node) bool {
		if err != nil {
			return false
		}
		if !conv.Matches(n.Name) {
			return true
		}
		folded := fold.String(n.Name)
		for _, r := range reservedPrefixes {
			if strings.HasPrefix(folded, r) {
				err = fmt.Errorf("%w: %q", ErrReservedName, n.Name)
				return false
			}
		}

		parentID := ""
		if p := n.Parent(); p != nil {
			parentID = p.PartID
		}
		i := findPending(pending, parentID, n.Name)
		id := n.Name
		if i >= 0 {
			id = pending[i]
			pending = append(pending[:i], pending[i+1:]...)
		} else if n.Parent() != nil {
			err = fmt.Errorf("%w: no identifier for %q", ErrBrokenHierarchy, n.Name)
			return false
		}

		part := &Part{ID: id, Name: n.Name, ParentID: parentID, Node: n}
		for _, c := range n.Children() {
			if conv.Matches(c.Name) {
				cid := id + Separator + c.Name
				part.Children = append(part.Children, cid)
				pending = append(pending, cid)
			}
		}
		n.PartID = id
		m.add(part)
		return true
	})
	if err != nil {
		root.Traverse(func(n *scene.Node) { n.PartID = "" })
		return nil, err
	}
	return m, nil
}

func findPending(pending []string, parentID, name string) int {
	if parentID != "" {
		exact := parentID + Separator + name
		for i, id := range pending {
			if id == exact {
				return i
			}
		}
	}
	for i, id := range pending {
		if strings.Contains(id, name) {
			return i
		}
	}
	return -1
}

func (m *Map) add(p *Part) {
	if _, exists := m.parts[p.ID]; !exists {
		m.ids = append(m.ids, p.ID)
	}
	m.parts[p.ID] = p
}

func (m *Map) Get(id string) *Part {
	return m.parts[id]
}

func (m *Map) Len() int {
	return len(m.ids)
}

func (m *Map) IDs() []string {
	return append([]string(nil), m.ids...)
}

func (m *Map) Parts() []*Part {
	parts := make([]*Part, len(m.ids))
	for i, id := range m.ids {
		parts[i] = m.parts[id]
	}
	return parts
}

// Lookup returns the part of n, or nil if n is not addressable.
func (m *Map) Lookup(n *scene.Node) *Part {
	if n == nil || n.PartID == "" {
		return nil
	}
	if p := m.parts[n.PartID]; p != nil && p.Node == n {
		return p
	}
	return nil
}

func (m *Map) Parent(p *Part) *Part {
	if p == nil || p.ParentID == "" {
		return nil
	}
	return m.parts[p.ParentID]
}

// Find resolves a telemetry key. An exact identifier wins, then an identifier
// whose last segment equals key, then the first identifier containing key.
func (m *Map) Find(key string) *Part {
	if key == "" {
		return nil
	}
	if p := m.parts[key]; p != nil {
		return p
	}
	for _, id := range m.ids {
		if strings.HasSuffix(id, Separator+key) {
			return m.parts[id]
		}
	}
	for _, id := range m.ids {
		if strings.Contains(id, key) {
			return m.parts[id]
		}
	}
	return nil
}

func (m *Map) SetMeasurement(id string, value float64, unit string) bool {
	p := m.parts[id]
	if p == nil {
		return false
	}
	p.Value, p.Unit = value, unit
	return true
}

// Tree writes the identifier tree, one part per line.
func (m *Map) Tree(w io.Writer) error {
	var write func(id string, depth int) error
	write = func(id string, depth int) error {
		p := m.parts[id]
		if p == nil {
			return nil
		}
		if _, err := fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), p.ID); err != nil {
			return err
		}
		for _, c := range p.Children {
			if err := write(c, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	for _, id := range m.ids {
		if p := m.parts[id]; p.ParentID == "" || m.parts[p.ParentID] == nil {
			if err := write(id, 0); err != nil {
				return err
			}
		}
	}
	return nil
}
