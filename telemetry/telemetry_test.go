package telemetry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitRefID(t *testing.T) {
	for _, tc := range []struct{ ref, name, unit string }{
		{"CMP_PISTON_1_mm", "CMP_PISTON_1", "mm"},
		{"ASM_CUTTERHEAD_rpm", "ASM_CUTTERHEAD", "rpm"},
		{"speed", "speed", ""},
		{"trailing_", "trailing", ""},
	} {
		name, unit := SplitRefID(tc.ref)
		assert.Equal(t, tc.name, name, tc.ref)
		assert.Equal(t, tc.unit, unit, tc.ref)
	}
}

func TestReductions(t *testing.T) {
	assert.Equal(t, 0.0, Average(nil))
	assert.Equal(t, 3.0, Average([]float64{2, 3, 4.4}))
	assert.Equal(t, 0.0, Last(nil))
	assert.Equal(t, 4.0, Last([]float64{1, 4}))

	s := &Series{Times: []float64{0, 1, 2, 3, 4, 5}, Values: []float64{0, 0, 2, 4, 6, 8}}
	assert.Equal(t, 2.0, Slope(s, 4))
	assert.Equal(t, 0.0, Slope(&Series{Times: []float64{1, 2}, Values: []float64{1, 2}}, 4))
	assert.Equal(t, 0.0, Slope(&Series{Times: []float64{1, 1, 1, 1, 1}, Values: []float64{1, 2, 3, 4, 5}}, 4))
}

func TestSet(t *testing.T) {
	set := NewSet([]Series{
		{RefID: "ASM_CUTTERHEAD_rpm", Values: []float64{2, 3, 4}},
		{RefID: "CMP_PISTON_1_mm", Times: []float64{0, 1, 2, 3, 4}, Values: []float64{10, 11, 12, 13, 14}},
		{RefID: "CMP_PISTON_1_cm", Values: []float64{1}},
	})
	assert.Equal(t, 3, set.Len())
	assert.Equal(t, []string{"ASM_CUTTERHEAD", "CMP_PISTON_1"}, set.Names())

	rotor := set.Rotor("ASM_CUTTERHEAD")
	assert.Equal(t, Reading{Name: "ASM_CUTTERHEAD", Unit: "rpm", Value: 3, Rate: 3, Found: true}, rotor)

	p := set.Piston("CMP_PISTON_1")
	assert.Equal(t, "mm", p.Unit)
	assert.Equal(t, 14.0, p.Value)
	assert.Equal(t, 1.0, p.Rate)

	missing := set.Piston("CMP_PISTON_2")
	assert.Equal(t, Reading{Name: "CMP_PISTON_2", Unit: DefaultUnit}, missing)
	assert.Equal(t, DefaultUnit, set.Rotor("nope").Unit)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "series.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
series:
  - refId: ASM_CUTTERHEAD_rpm
    times: [0, 1]
    values: [4, 6]
`), 0o644))
	series, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, []float64{4, 6}, series[0].Values)

	series, err = Parse([]byte(`{"series": [{"refId": "CMP_PISTON_1_mm", "times": [0], "values": [1]}]}`))
	require.NoError(t, err)
	assert.Equal(t, "CMP_PISTON_1_mm", series[0].RefID)

	_, err = Parse([]byte(`{"series": [{"refId": "x", "times": [0, 1], "values": [1]}]}`))
	assert.Error(t, err)
	_, err = Parse([]byte(`{"series": [{"values": [1]}]}`))
	assert.Error(t, err)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
