package combine

import "strings"

// Selection is what the caller currently shows of one source series.
type Selection struct {
	SeriesID          string
	SourceID          string
	VisibleParameters []string
}

// CheckEligibility enforces the merge/difference precondition: each side
// shows exactly one parameter, and the two either name different parameters
// or come from different sources.
func CheckEligibility(a, b Selection) error {
	if n := len(a.VisibleParameters); n != 1 {
		return incompatible("first series must have exactly one visible parameter, has %d", n)
	}
	if n := len(b.VisibleParameters); n != 1 {
		return incompatible("second series must have exactly one visible parameter, has %d", n)
	}
	sameParam := strings.EqualFold(strings.TrimSpace(a.VisibleParameters[0]), strings.TrimSpace(b.VisibleParameters[0]))
	if sameParam && a.SourceID == b.SourceID {
		return incompatible("both series show %q from the same source %q", a.VisibleParameters[0], a.SourceID)
	}
	return nil
}
