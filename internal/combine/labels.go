package combine

import (
	"fmt"
	"strings"

	"github.com/banshee-data/series.align/internal/series"
)

// LabelMode controls when merged columns get a " [source]" suffix.
type LabelMode string

const (
	// LabelAlways suffixes both columns whenever a source label exists.
	LabelAlways LabelMode = "always"
	// LabelWhenNeeded suffixes only when the display names collide.
	LabelWhenNeeded LabelMode = "when_needed"
)

// ParseLabelMode accepts "always" or "when_needed"; empty means always.
func ParseLabelMode(s string) (LabelMode, error) {
	switch m := LabelMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "", LabelAlways:
		return LabelAlways, nil
	case LabelWhenNeeded:
		return LabelWhenNeeded, nil
	default:
		return "", fmt.Errorf("invalid label mode %q (valid: always, when_needed)", s)
	}
}

func displayName(ref series.ParameterRef, fallback string) string {
	if name := strings.TrimSpace(ref.DisplayName); name != "" {
		return name
	}
	return fallback
}

func withSource(name, source string) string {
	source = strings.TrimSpace(source)
	if source == "" {
		return name
	}
	return fmt.Sprintf("%s [%s]", name, source)
}

// columnLabels names the two output columns.
func columnLabels(a, b series.ParameterRef, mode LabelMode) (string, string, error) {
	nameA := displayName(a, "Series A")
	nameB := displayName(b, "Series B")
	if mode == LabelAlways || mode == "" || nameA == nameB {
		nameA = withSource(nameA, a.SourceLabel)
		nameB = withSource(nameB, b.SourceLabel)
	}
	if nameA == nameB {
		return "", "", incompatible("both columns would be named %q; give the series distinct source labels", nameA)
	}
	return nameA, nameB, nil
}

// DifferenceLabel names a difference column from the two parameter names.
//
// When both names carry a parenthesised and a bracketed part, as names of
// already-merged multi-file parameters do, the full names are kept. Otherwise
// each side contributes its bracketed token, else its parenthesised token,
// else the bare name. If the two tokens coincide the bare names are used,
// and if those coincide too, the full names.
func DifferenceLabel(nameA, nameB string) string {
	nameA, nameB = strings.TrimSpace(nameA), strings.TrimSpace(nameB)
	if isCompound(nameA) && isCompound(nameB) {
		return formatDifference(nameA, nameB)
	}
	tokA, tokB := sourceToken(nameA), sourceToken(nameB)
	if tokA != tokB {
		return formatDifference(tokA, tokB)
	}
	baseA, baseB := baseName(nameA), baseName(nameB)
	if baseA != baseB {
		return formatDifference(baseA, baseB)
	}
	return formatDifference(nameA, nameB)
}

func formatDifference(a, b string) string {
	return fmt.Sprintf("Difference (%s - %s)", a, b)
}

func isCompound(name string) bool {
	return strings.Contains(name, "(") && strings.Contains(name, "[")
}

// sourceToken returns the content of the last [...] group, else of the last
// (...) group, else the name itself.
func sourceToken(name string) string {
	if tok, ok := lastGroup(name, '[', ']'); ok {
		return tok
	}
	if tok, ok := lastGroup(name, '(', ')'); ok {
		return tok
	}
	return name
}

// baseName strips every bracketed and parenthesised group.
func baseName(name string) string {
	var b strings.Builder
	depth := 0
	for _, r := range name {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 {
				b.WriteRune(r)
			}
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func lastGroup(name string, open, close rune) (string, bool) {
	end := strings.LastIndex(name, string(close))
	if end < 0 {
		return "", false
	}
	start := strings.LastIndex(name[:end], string(open))
	if start < 0 {
		return "", false
	}
	tok := strings.TrimSpace(name[start+1 : end])
	return tok, tok != ""
}
