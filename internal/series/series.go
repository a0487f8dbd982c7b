package series

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/banshee-data/series.align/internal/timeutil"
)

// Axis is the chart side a series is plotted against.
type Axis string

const (
	AxisLeft  Axis = "left"
	AxisRight Axis = "right"
)

// ParameterRef describes where a plotted series came from. It travels into
// result provenance but is not read by the numeric code.
type ParameterRef struct {
	DisplayName string `json:"displayName"`
	SourceLabel string `json:"sourceLabel"`
	// SourceID identifies the underlying file or location.
	SourceID string `json:"sourceId,omitempty"`
	Color    string `json:"color,omitempty"`
	Axis     Axis   `json:"axis,omitempty"`
}

// Point is one observation.
type Point struct {
	Time  timeutil.Timestamp `json:"time"`
	Value Value              `json:"value"`
}

// Series is an ordered sequence of points plus its provenance.
type Series struct {
	ID     string       `json:"id"`
	Ref    ParameterRef `json:"ref"`
	Points []Point      `json:"points"`
}

// NewID returns a fresh random series identifier.
func NewID() string {
	return uuid.NewString()
}

// New builds a series with a fresh ID and a private copy of points.
func New(ref ParameterRef, points []Point) Series {
	return Series{ID: NewID(), Ref: ref, Points: append([]Point(nil), points...)}
}

// Len returns the number of points, including missing ones.
func (s Series) Len() int { return len(s.Points) }

// ValidCount returns the number of present values.
func (s Series) ValidCount() int {
	n := 0
	for _, p := range s.Points {
		if p.Value.Valid {
			n++
		}
	}
	return n
}

// Normalize returns a copy ordered by time. Ties keep their input order so
// first-wins resolution downstream stays deterministic.
func (s Series) Normalize() Series {
	out := s
	out.Points = append([]Point(nil), s.Points...)
	sort.SliceStable(out.Points, func(i, j int) bool {
		return out.Points[i].Time < out.Points[j].Time
	})
	return out
}

// IsSorted reports whether points are non-decreasing in time.
func (s Series) IsSorted() bool {
	return sort.SliceIsSorted(s.Points, func(i, j int) bool {
		return s.Points[i].Time < s.Points[j].Time
	})
}

// Lookup maps each timestamp to its first present value. Missing values are
// skipped, so a later reading fills a slot an earlier null left empty.
func (s Series) Lookup() map[timeutil.Timestamp]float64 {
	out := make(map[timeutil.Timestamp]float64, len(s.Points))
	for _, p := range s.Points {
		if !p.Value.Valid {
			continue
		}
		if _, seen := out[p.Time]; seen {
			continue
		}
		out[p.Time] = p.Value.Float
	}
	return out
}

// ParseAxis accepts "left" or "right"; empty defaults to left.
func ParseAxis(s string) (Axis, error) {
	switch Axis(strings.ToLower(strings.TrimSpace(s))) {
	case "", AxisLeft:
		return AxisLeft, nil
	case AxisRight:
		return AxisRight, nil
	default:
		return "", fmt.Errorf("invalid axis %q (valid: left, right)", s)
	}
}
