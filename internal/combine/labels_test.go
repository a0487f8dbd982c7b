package combine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDifferenceLabel(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected string
	}{
		{"bracket sources", "Temp [GP]", "Temp [FPOD]", "Difference (GP - FPOD)"},
		{"paren sources", "Temp (GP)", "Temp (FPOD)", "Difference (GP - FPOD)"},
		{"plain names", "Wave Height", "Wind Speed", "Difference (Wave Height - Wind Speed)"},
		{"same source different params", "Wave Height [GP]", "Wind Speed [GP]", "Difference (Wave Height - Wind Speed)"},
		{"mixed", "Temp [GP]", "Salinity", "Difference (GP - Salinity)"},
		{"compound names kept whole", "Temp (site1.csv) [GP]", "Temp (site2.csv) [GP]", "Difference (Temp (site1.csv) [GP] - Temp (site2.csv) [GP])"},
		{"only one compound", "Temp (site1.csv) [GP]", "Temp [FPOD]", "Difference (GP - FPOD)"},
		{"identical names", "Temp", "Temp", "Difference (Temp - Temp)"},
		{"empty brackets ignored", "Temp []", "Salt", "Difference (Temp [] - Salt)"},
		{"whitespace trimmed", "  Temp [ GP ] ", "Temp [FPOD]", "Difference (GP - FPOD)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DifferenceLabel(tt.a, tt.b))
		})
	}
}

func TestParseLabelMode(t *testing.T) {
	m, err := ParseLabelMode("")
	require.NoError(t, err)
	assert.Equal(t, LabelAlways, m)

	m, err = ParseLabelMode("When_Needed")
	require.NoError(t, err)
	assert.Equal(t, LabelWhenNeeded, m)

	_, err = ParseLabelMode("never")
	assert.Error(t, err)
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "Temp", baseName("Temp (site1.csv) [GP]"))
	assert.Equal(t, "Wave Height", baseName("Wave  Height [x]"))
	assert.Equal(t, "", baseName("[only]"))
}
