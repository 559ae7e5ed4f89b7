package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	assert.Equal(t, Convention{"ASM", "CMP"}, Parse("ASM, CMP"))
	assert.Equal(t, Convention{"A", "B"}, Parse(" A ,, B ,"))
	assert.Empty(t, Parse(" , "))
	assert.Equal(t, "ASM, CMP", Parse("ASM,CMP").String())
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Parse("ASM, CMP").Validate())
	assert.ErrorIs(t, Parse("").Validate(), ErrInvalidConvention)
	assert.ErrorIs(t, Convention{"ASM", ""}.Validate(), ErrInvalidConvention)
}

func TestMatches(t *testing.T) {
	conv := Parse("ASM, CMP")
	for _, tc := range []struct {
		name string
		kind Kind
	}{
		{"ASM_TBM", Assembly},
		{"CMP_PISTON_1", Component},
		{"BODY_1", Ignored},
		{"asm_lower", Ignored},
		{"", Ignored},
	} {
		assert.Equal(t, tc.kind != Ignored, conv.Matches(tc.name), tc.name)
		assert.Equal(t, tc.kind, conv.Kind(tc.name), tc.name)
	}

	extra := Parse("ASM, CMP, PRT")
	assert.True(t, extra.Matches("PRT_BOLT"))
	assert.Equal(t, Component, extra.Kind("PRT_BOLT"))
}

func TestEqual(t *testing.T) {
	assert.True(t, Parse("ASM, CMP").Equal(Convention{"ASM", "CMP"}))
	assert.False(t, Parse("ASM, CMP").Equal(Convention{"CMP", "ASM"}))
	assert.False(t, Parse("ASM").Equal(Convention{"ASM", "CMP"}))
}
