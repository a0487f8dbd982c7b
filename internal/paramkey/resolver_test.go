package paramkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/series.align/internal/dataset"
	"github.com/banshee-data/series.align/internal/monitoring"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		keys     []string
		display  string
		wantKey  string
		wantRule string
	}{
		{"exact", []string{"wave height", "Wave Height"}, "Wave Height", "Wave Height", RuleExact},
		{"normalized case and spaces", []string{"time", "WaveHeight"}, "wave height", "WaveHeight", RuleNormalized},
		{"normalized tabs", []string{"Air\tTemp"}, "air temp", "Air\tTemp", RuleNormalized},
		{"cleaned key contains display", []string{"temp_sensor_1"}, "Temp", "temp_sensor_1", RuleCleaned},
		{"cleaned display contains key", []string{"salinity"}, "Salinity (PSU)", "salinity", RuleCleaned},
		{"cleaned punctuation", []string{"wind-speed_ms"}, "Wind Speed", "wind-speed_ms", RuleCleaned},
		{"alias display to storage", []string{"time", "hm0", "tp"}, "Wave Height", "hm0", RuleAlias},
		{"alias with unit suffix", []string{"VTPK"}, "Wave Period (s)", "VTPK", RuleAlias},
		{"alias storage to display", []string{"Solar Irradiance"}, "ghi", "Solar Irradiance", RuleAlias},
		{"alias storage to sibling", []string{"wspd"}, "ff", "wspd", RuleAlias},
		{"exact beats earlier cleaned", []string{"Wind Speed Max", "Wind Speed"}, "Wind Speed", "Wind Speed", RuleExact},
		{"first key in order wins", []string{"temp_a", "temp_b"}, "temp", "temp_a", RuleCleaned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := Resolve(tt.keys, tt.display)
			require.True(t, ok)
			assert.Equal(t, tt.wantKey, m.Key)
			assert.Equal(t, tt.wantRule, m.Rule)
		})
	}
}

func TestResolve_NoMatch(t *testing.T) {
	for _, display := range []string{"Chlorophyll", "", "   ", "!!"} {
		t.Run(display, func(t *testing.T) {
			_, ok := Resolve([]string{"hs", "wspd", "#"}, display)
			assert.False(t, ok)
		})
	}
}

func TestResolver_RuleOrder(t *testing.T) {
	r := New(nil)
	assert.Equal(t, []string{RuleExact, RuleNormalized, RuleCleaned, RuleAlias}, r.Rules())
}

func TestResolver_ExtraAliases(t *testing.T) {
	r := New(AliasTable{
		"wave height": {"h_sig"},
		"Turbidity":   {"ntu"},
	})

	m, ok := r.Resolve([]string{"h_sig"}, "Wave Height")
	require.True(t, ok)
	assert.Equal(t, "h_sig", m.Key)

	m, ok = r.Resolve([]string{"ntu"}, "Turbidity")
	require.True(t, ok)
	assert.Equal(t, RuleAlias, m.Rule)

	// built-in table untouched
	_, ok = New(nil).Resolve([]string{"h_sig"}, "Wave Height")
	assert.False(t, ok)
}

func TestNewWithRules(t *testing.T) {
	r := NewWithRules(exactRule())
	_, ok := r.Resolve([]string{"WaveHeight"}, "wave height")
	assert.False(t, ok, "only exact matching configured")
}

func TestResolveColumn(t *testing.T) {
	ds := dataset.MustNew([]string{"time", "hs", "wspd"}, nil)
	r := New(nil)

	key, diags := r.ResolveColumn(ds, "Wind Speed")
	assert.Equal(t, "wspd", key)
	assert.Empty(t, diags)

	key, diags = r.ResolveColumn(ds, "Chlorophyll")
	assert.Equal(t, "Chlorophyll", key)
	require.Len(t, diags, 1)
	assert.Equal(t, monitoring.AmbiguousParameterKey, diags[0].Code)
	assert.Equal(t, monitoring.SeverityWarning, diags[0].Severity)

	// the time column is never a candidate
	key, _ = r.ResolveColumn(ds, "time")
	assert.Equal(t, "time", key)
}

func TestStripDecorations(t *testing.T) {
	tests := []struct{ input, expected string }{
		{"Wave Height (m)", "Wave Height"},
		{"Wind Speed [GP]", "Wind Speed"},
		{"Temp (°C) [FPOD]", "Temp"},
		{"(m)", "(m)"},
		{"Plain", "Plain"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, stripDecorations(tt.input))
		})
	}
}
