// Package spline fits natural cubic splines through sparse series and
// evaluates them inside the observed range only.
//
// The x axis is epoch milliseconds measured from the first knot, which keeps
// the tridiagonal system well scaled regardless of calendar date. Targets
// outside [first knot, last knot] evaluate to missing: the model never
// extrapolates.
package spline

import (
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/banshee-data/series.align/internal/series"
	"github.com/banshee-data/series.align/internal/timeutil"
)

// Model is a fitted spline. The zero Model evaluates to missing everywhere.
type Model struct {
	origin timeutil.Timestamp
	xs     []float64 // knot offsets from origin, strictly increasing
	a      []float64 // knot values
	b      []float64
	c      []float64
	d      []float64
}

// Fit builds a model from points. Missing values are ignored, knots are
// ordered by time, and when several points share a timestamp the first
// present value is used.
//
// Zero knots produce a model that is missing everywhere; one knot produces a
// constant defined only at that instant; two or more produce a natural cubic
// spline (zero second derivative at both ends).
func Fit(points []series.Point) *Model {
	knots := make([]series.Point, 0, len(points))
	for _, p := range points {
		if p.Value.Valid {
			knots = append(knots, p)
		}
	}
	sort.SliceStable(knots, func(i, j int) bool { return knots[i].Time < knots[j].Time })

	m := &Model{}
	if len(knots) == 0 {
		return m
	}
	m.origin = knots[0].Time
	for i, k := range knots {
		if i > 0 && k.Time == knots[i-1].Time {
			continue
		}
		m.xs = append(m.xs, float64(k.Time-m.origin))
		m.a = append(m.a, k.Value.Float)
	}
	if len(m.xs) >= 2 {
		m.solve()
	}
	return m
}

// solve runs the Thomas sweep for the natural spline's second-derivative
// system and derives per-segment b, c, d coefficients.
func (m *Model) solve() {
	n := len(m.xs) - 1
	x, a := m.xs, m.a

	h := make([]float64, n)
	for i := 0; i < n; i++ {
		h[i] = x[i+1] - x[i]
	}

	alpha := make([]float64, n+1)
	for i := 1; i < n; i++ {
		alpha[i] = 3/h[i]*(a[i+1]-a[i]) - 3/h[i-1]*(a[i]-a[i-1])
	}

	l := make([]float64, n+1)
	mu := make([]float64, n+1)
	z := make([]float64, n+1)
	l[0] = 1
	for i := 1; i < n; i++ {
		l[i] = 2*(x[i+1]-x[i-1]) - h[i-1]*mu[i-1]
		mu[i] = h[i] / l[i]
		z[i] = (alpha[i] - h[i-1]*z[i-1]) / l[i]
	}
	l[n] = 1

	c := make([]float64, n+1)
	b := make([]float64, n)
	d := make([]float64, n)
	for j := n - 1; j >= 0; j-- {
		c[j] = z[j] - mu[j]*c[j+1]
		b[j] = (a[j+1]-a[j])/h[j] - h[j]*(c[j+1]+2*c[j])/3
		d[j] = (c[j+1] - c[j]) / (3 * h[j])
	}
	m.b, m.c, m.d = b, c[:n], d
}

// Knots returns the number of distinct knots the model was fitted to.
func (m *Model) Knots() int {
	return len(m.xs)
}

// Domain returns the closed interval the model is defined on.
func (m *Model) Domain() (lo, hi timeutil.Timestamp, ok bool) {
	if len(m.xs) == 0 {
		return 0, 0, false
	}
	return m.origin, m.origin + timeutil.Timestamp(m.xs[len(m.xs)-1]), true
}

// At evaluates the model at t.
func (m *Model) At(t timeutil.Timestamp) series.Value {
	lo, hi, ok := m.Domain()
	if !ok || t < lo || t > hi {
		return series.Null
	}
	if len(m.xs) == 1 {
		return series.Some(m.a[0])
	}

	x := float64(t - m.origin)
	last := len(m.xs) - 1
	if x == m.xs[last] {
		return series.Some(m.a[last])
	}
	i := floats.Within(m.xs, x)
	if i < 0 {
		return series.Null
	}
	dx := x - m.xs[i]
	return series.Some(m.a[i] + m.b[i]*dx + m.c[i]*dx*dx + m.d[i]*dx*dx*dx)
}

// Evaluate returns one value per target, in target order.
func (m *Model) Evaluate(targets []timeutil.Timestamp) []series.Value {
	out := make([]series.Value, len(targets))
	for i, t := range targets {
		out[i] = m.At(t)
	}
	return out
}
