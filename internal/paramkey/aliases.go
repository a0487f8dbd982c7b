package paramkey

import (
	"sort"
	"strings"
)

// AliasTable maps a canonical display name to the storage keys it is known
// under.
type AliasTable map[string][]string

// KnownAliases covers the marine and meteorological parameters the
// dashboard ships with.
var KnownAliases = AliasTable{
	"Wave Height":       {"hs", "hm0", "swh", "vhm0", "wave_height", "significant_wave_height", "wvht"},
	"Wave Period":       {"tp", "tm02", "vtpk", "wave_period", "peak_period", "dpd", "apd"},
	"Wave Direction":    {"mwd", "vmdr", "wave_direction", "mean_wave_direction"},
	"Sea Level":         {"sea_level", "ssh", "zos", "water_level", "tide", "tide_height"},
	"Wind Speed":        {"ws", "wspd", "wind_speed", "windspeed", "u10", "ff"},
	"Wind Direction":    {"wd", "wdir", "wind_direction", "winddir", "dd"},
	"Air Temperature":   {"atmp", "t2m", "air_temp", "air_temperature", "temp_air"},
	"Water Temperature": {"sst", "wtmp", "thetao", "water_temp", "sea_surface_temperature"},
	"Solar Irradiance":  {"ghi", "ssrd", "swdown", "irradiance", "solar_irradiance", "solar_radiation"},
	"Current Speed":     {"cspd", "current_speed", "uo_speed"},
	"Pressure":          {"pres", "msl", "air_pressure", "barometric_pressure", "slp"},
	"Humidity":          {"rh", "relative_humidity", "humidity"},
}

// Merge returns a new table with extra's entries appended to t's. Canonical
// names are matched case-insensitively.
func (t AliasTable) Merge(extra AliasTable) AliasTable {
	out := make(AliasTable, len(t)+len(extra))
	index := make(map[string]string, len(t)+len(extra))
	for name, keys := range t {
		out[name] = append([]string(nil), keys...)
		index[clean(name)] = name
	}
	for name, keys := range extra {
		if existing, ok := index[clean(name)]; ok {
			out[existing] = append(out[existing], keys...)
			continue
		}
		out[name] = append([]string(nil), keys...)
		index[clean(name)] = name
	}
	return out
}

// groupFor finds the alias group display belongs to, either as the
// canonical name (units and decorations ignored) or as one of the storage
// keys. The returned group holds the canonical name followed by its keys.
func (t AliasTable) groupFor(display string) ([]string, bool) {
	want := clean(stripDecorations(display))
	if want == "" {
		return nil, false
	}
	for _, name := range t.sortedNames() {
		keys := t[name]
		if clean(name) == want {
			return append([]string{name}, keys...), true
		}
		for _, k := range keys {
			if clean(k) == want {
				return append([]string{name}, keys...), true
			}
		}
	}
	return nil, false
}

// stripDecorations drops a trailing "(unit)" or "[source]" suffix such as
// "Wave Height (m)" or "Wind Speed [GP]".
func stripDecorations(s string) string {
	s = strings.TrimSpace(s)
	for {
		trimmed := s
		for _, pair := range [][2]string{{"(", ")"}, {"[", "]"}} {
			if strings.HasSuffix(trimmed, pair[1]) {
				if i := strings.LastIndex(trimmed, pair[0]); i > 0 {
					trimmed = strings.TrimSpace(trimmed[:i])
				}
			}
		}
		if trimmed == s {
			return s
		}
		s = trimmed
	}
}

func (t AliasTable) sortedNames() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
