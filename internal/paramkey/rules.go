// Package paramkey maps a parameter's display name onto the field key a raw
// data row actually uses.
//
// Matching is an ordered list of rules; the first rule that produces a key
// wins. Keys are always scanned in the order supplied, so a given header list
// resolves the same way every time.
package paramkey

import (
	"strings"
	"unicode"
)

// Rule is one matching strategy.
type Rule struct {
	Name  string
	Match func(keys []string, display string) (string, bool)
}

// Rule names, in default priority order.
const (
	RuleExact      = "exact"
	RuleNormalized = "normalized"
	RuleCleaned    = "cleaned"
	RuleAlias      = "alias"
)

func exactRule() Rule {
	return Rule{Name: RuleExact, Match: func(keys []string, display string) (string, bool) {
		for _, k := range keys {
			if k == display {
				return k, true
			}
		}
		return "", false
	}}
}

func normalizedRule() Rule {
	return Rule{Name: RuleNormalized, Match: func(keys []string, display string) (string, bool) {
		want := normalize(display)
		if want == "" {
			return "", false
		}
		for _, k := range keys {
			if normalize(k) == want {
				return k, true
			}
		}
		return "", false
	}}
}

func cleanedRule() Rule {
	return Rule{Name: RuleCleaned, Match: func(keys []string, display string) (string, bool) {
		want := clean(display)
		if want == "" {
			return "", false
		}
		for _, k := range keys {
			got := clean(k)
			if got == "" {
				continue
			}
			if strings.Contains(got, want) || strings.Contains(want, got) {
				return k, true
			}
		}
		return "", false
	}}
}

func aliasRule(table AliasTable) Rule {
	return Rule{Name: RuleAlias, Match: func(keys []string, display string) (string, bool) {
		group, ok := table.groupFor(display)
		if !ok {
			return "", false
		}
		for _, k := range keys {
			ck := clean(k)
			for _, name := range group {
				if ck == clean(name) {
					return k, true
				}
			}
		}
		return "", false
	}}
}

// normalize lowercases and strips all whitespace.
func normalize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}

// clean lowercases and strips everything that is not a letter or digit.
func clean(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, s)
}
