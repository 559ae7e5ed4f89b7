package viewer

import (
	"log"

	"github.com/binzume/tbmscene/anim"
	"github.com/binzume/tbmscene/telemetry"
)

// BindTelemetry writes the latest readings of set into the displayed parts and
// drives the animations: rotors spin at their average speed, rig pistons move
// at their recent speed. rotors defaults to DefaultRotors.
func (m *Manager) BindTelemetry(set *telemetry.Set, rotors []string) error {
	if rotors == nil {
		rotors = DefaultRotors
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return ErrNoModel
	}
	parts := m.current.Parts

	for _, name := range set.Names() {
		sr, unit, _ := set.Get(name)
		if p := parts.Find(name); p != nil {
			parts.SetMeasurement(p.ID, telemetry.Last(sr.Values), unit)
		}
	}

	for _, name := range rotors {
		p := parts.Find(name)
		if p == nil {
			log.Printf("viewer: rotor %s not found. skipped.", name)
			continue
		}
		r := set.Rotor(name)
		parts.SetMeasurement(p.ID, r.Value, r.Unit)
		m.addAnimation(anim.RotateX, &anim.Binding{Name: p.ID, Value: r.Rate, Target: anim.Target{Node: p.Node}})
	}

	if m.current.Rig == nil {
		return nil
	}
	for _, a := range m.current.Rig.Pistons {
		r := set.Piston(a.Name)
		if p := parts.Find(a.Name); p != nil {
			parts.SetMeasurement(p.ID, r.Value, r.Unit)
		}
		m.addAnimation(anim.TranslateX, &anim.Binding{Name: a.Name, Value: r.Rate, Target: anim.Target{Node: a.Node, Body: a.Body}})
	}
	return nil
}
