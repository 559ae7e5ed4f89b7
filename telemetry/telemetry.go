// Package telemetry reduces named time series to the values animated on the model.
package telemetry

import (
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v2"
)

// DefaultUnit is reported for parts without data.
const DefaultUnit = "#non-unit"

// SlopeSpan is the number of sample intervals used to estimate piston speed.
const SlopeSpan = 4

// Series is one query result. RefID has the form "{part}_{unit}".
// Times are in seconds.
type Series struct {
	RefID  string    `yaml:"refId"`
	Times  []float64 `yaml:"times"`
	Values []float64 `yaml:"values"`
}

// SplitRefID splits refID at its last underscore.
func SplitRefID(refID string) (name, unit string) {
	i := strings.LastIndex(refID, "_")
	if i < 0 {
		return refID, ""
	}
	return refID[:i], refID[i+1:]
}

// Average returns the mean of values rounded to an integer, 0 for no values.
func Average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return math.Round(sum / float64(len(values)))
}

func Last(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return values[len(values)-1]
}

// Slope returns the rate of change over the last span intervals.
// Undefined results (too few samples, zero duration) are 0.
func Slope(s *Series, span int) float64 {
	n := len(s.Values)
	if span <= 0 || n <= span || len(s.Times) != n {
		return 0
	}
	dv := s.Values[n-1] - s.Values[n-1-span]
	dt := s.Times[n-1] - s.Times[n-1-span]
	r := dv / dt
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

// Reading is the reduced state of one part. Value is shown to the user,
// Rate drives the animation.
type Reading struct {
	Name  string
	Unit  string
	Value float64
	Rate  float64
	Found bool
}

// Set indexes series by part name. The first series of a name wins.
type Set struct {
	series []*Series
	names  []string
	byName map[string]*Series
	units  map[string]string
}

func NewSet(series []Series) *Set {
	s := &Set{byName: map[string]*Series{}, units: map[string]string{}}
	for i := range series {
		sr := &series[i]
		s.series = append(s.series, sr)
		name, unit := SplitRefID(sr.RefID)
		if _, exists := s.byName[name]; !exists {
			s.names = append(s.names, name)
			s.byName[name] = sr
			s.units[name] = unit
		}
	}
	return s
}

func (s *Set) Len() int {
	return len(s.series)
}

// Names returns the part names in order of first appearance.
func (s *Set) Names() []string {
	return append([]string(nil), s.names...)
}

func (s *Set) Get(name string) (*Series, string, bool) {
	sr, ok := s.byName[name]
	return sr, s.units[name], ok
}

// Rotor reduces a rotation speed series to its rounded average.
func (s *Set) Rotor(name string) Reading {
	sr, unit, ok := s.Get(name)
	if !ok {
		return Reading{Name: name, Unit: DefaultUnit}
	}
	avg := Average(sr.Values)
	return Reading{Name: name, Unit: unit, Value: avg, Rate: avg, Found: true}
}

// Piston reduces a travel series to its latest distance and recent speed.
func (s *Set) Piston(name string) Reading {
	sr, unit, ok := s.Get(name)
	if !ok {
		return Reading{Name: name, Unit: DefaultUnit}
	}
	return Reading{Name: name, Unit: unit, Value: Last(sr.Values), Rate: Slope(sr, SlopeSpan), Found: true}
}

type fixture struct {
	Series []Series `yaml:"series"`
}

// LoadFile reads series from a YAML (or JSON) document of the form
// {series: [{refId, times, values}, ...]}.
func LoadFile(path string) ([]Series, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) ([]Series, error) {
	var f fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("telemetry: %w", err)
	}
	for i, s := range f.Series {
		if len(s.Times) != 0 && len(s.Times) != len(s.Values) {
			return nil, fmt.Errorf("telemetry: %s: %d times for %d values", s.RefID, len(s.Times), len(s.Values))
		}
		if s.RefID == "" {
			return nil, fmt.Errorf("telemetry: series %d has no refId", i)
		}
	}
	return f.Series, nil
}
