package paramkey

import (
	"github.com/banshee-data/series.align/internal/dataset"
	"github.com/banshee-data/series.align/internal/monitoring"
)

// Match is a successful resolution.
type Match struct {
	Key  string `json:"key"`
	Rule string `json:"rule"`
}

// Resolver applies an ordered rule list.
type Resolver struct {
	rules []Rule
}

// New returns a resolver using exact, normalized, cleaned and alias rules in
// that order. extra adds aliases on top of KnownAliases; nil is fine.
func New(extra AliasTable) *Resolver {
	table := KnownAliases.Merge(extra)
	return &Resolver{rules: []Rule{
		exactRule(),
		normalizedRule(),
		cleanedRule(),
		aliasRule(table),
	}}
}

// NewWithRules builds a resolver from an explicit rule list.
func NewWithRules(rules ...Rule) *Resolver {
	return &Resolver{rules: append([]Rule(nil), rules...)}
}

// Rules returns the rule names in priority order.
func (r *Resolver) Rules() []string {
	names := make([]string, len(r.rules))
	for i, rule := range r.rules {
		names[i] = rule.Name
	}
	return names
}

// Resolve returns the first key any rule matches.
func (r *Resolver) Resolve(keys []string, display string) (Match, bool) {
	for _, rule := range r.rules {
		if key, ok := rule.Match(keys, display); ok {
			return Match{Key: key, Rule: rule.Name}, true
		}
	}
	return Match{}, false
}

// ResolveColumn resolves display against ds's value columns. When nothing
// matches it falls back to display itself and returns a warning so the
// caller can flag the missing data.
func (r *Resolver) ResolveColumn(ds *dataset.Dataset, display string) (string, []monitoring.Diagnostic) {
	if m, ok := r.Resolve(ds.ValueColumns(), display); ok {
		return m.Key, nil
	}
	return display, []monitoring.Diagnostic{
		monitoring.Warnf(monitoring.AmbiguousParameterKey, "no column matches %q; using the display name", display),
	}
}

// Resolve uses the default rule list.
func Resolve(keys []string, display string) (Match, bool) {
	return New(nil).Resolve(keys, display)
}
