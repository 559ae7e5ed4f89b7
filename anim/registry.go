package anim

import (
	"github.com/binzume/tbmscene/physics"
	"github.com/binzume/tbmscene/scene"
)

// Target is what a callback animates: a visual node, optionally paired with its body.
type Target struct {
	Node *scene.Node
	Body *physics.Body
}

// Callback is invoked once per frame. delta is in seconds.
type Callback func(delta, value float64, target Target)

// Binding is the live state of one named animation.
type Binding struct {
	Name   string
	Value  float64
	Target Target
}

type entry struct {
	binding  *Binding
	callback Callback
}

// Registry keeps one callback per binding name in registration order.
type Registry struct {
	entries []*entry
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) find(name string) int {
	for i, e := range r.entries {
		if e.binding.Name == name {
			return i
		}
	}
	return -1
}

// Add registers cb for b. An existing entry with the same name is replaced in place.
// It returns true when the registry was empty before.
func (r *Registry) Add(cb Callback, b *Binding) bool {
	first := len(r.entries) == 0
	e := &entry{binding: b, callback: cb}
	if i := r.find(b.Name); i >= 0 {
		r.entries[i] = e
		return false
	}
	r.entries = append(r.entries, e)
	return first
}

// Remove deletes the named entry and reports whether it existed.
func (r *Registry) Remove(name string) bool {
	i := r.find(name)
	if i < 0 {
		return false
	}
	r.entries = append(r.entries[:i], r.entries[i+1:]...)
	return true
}

func (r *Registry) Clear() {
	r.entries = nil
}

func (r *Registry) Len() int {
	return len(r.entries)
}

func (r *Registry) Names() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.binding.Name
	}
	return names
}

func (r *Registry) Get(name string) *Binding {
	if i := r.find(name); i >= 0 {
		return r.entries[i].binding
	}
	return nil
}

func (r *Registry) SetValue(name string, v float64) bool {
	b := r.Get(name)
	if b == nil {
		return false
	}
	b.Value = v
	return true
}

// Run invokes every callback in order.
func (r *Registry) Run(delta float64) {
	for _, e := range r.entries {
		e.callback(delta, e.binding.Value, e.binding.Target)
	}
}
