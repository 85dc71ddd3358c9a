// Package ticks plans axis tick locations and labels for projected maps.
//
// The planner picks a "nice" step, a power of ten times 1, 2 or 5, whose
// tick count over the axis span is closest to a target, then labels every
// multiple of that step inside the span. Labels are either metres or
// kilometres; kilometre labels are truncated for display only and never
// change the stored locations.
package ticks

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/drapemap/pkg/errors"
)

// Unit is a coordinate labelling convention.
type Unit int

const (
	// Meters labels projected coordinates as-is.
	Meters Unit = iota
	// Kilometers labels coordinates divided by 1000.
	Kilometers
)

// ParseUnit accepts the coordinate conventions "UTM" (metres) and "UTM_km"
// (kilometres), plus the aliases "m", "meters", "km" and "kilometers".
// Matching is case-insensitive. Any other value is a configuration error.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "utm", "m", "meters", "metres":
		return Meters, nil
	case "utm_km", "km", "kilometers", "kilometres":
		return Kilometers, nil
	}
	return 0, errors.Configuration("unsupported coordinate convention %q: use UTM or UTM_km", s)
}

func (u Unit) String() string {
	if u == Kilometers {
		return "UTM_km"
	}
	return "UTM"
}

// AxisLabels returns the x and y axis titles for u.
func (u Unit) AxisLabels() (x, y string) {
	if u == Kilometers {
		return "Easting (km)", "Northing (km)"
	}
	return "Easting (m)", "Northing (m)"
}

// TickSet holds tick locations in projected units and their labels.
type TickSet struct {
	Locations []float64
	Labels    []string
	// Step is the spacing between locations.
	Step float64
}

// Len returns the number of ticks.
func (t TickSet) Len() int { return len(t.Locations) }

// LongestLabel returns the length of the longest label in runes.
func (t TickSet) LongestLabel() int {
	n := 0
	for _, l := range t.Labels {
		n = max(n, len([]rune(l)))
	}
	return n
}

// Planner computes tick sets.
type Planner struct {
	Unit Unit
	// SignificantDigits is the number of digits kept in kilometre labels.
	// Zero keeps just enough to distinguish neighbouring ticks.
	SignificantDigits int
}

// DefaultTarget is the target tick count used by figures.
const DefaultTarget = 5

// maxMultiple is the largest step multiple whose successor is exact in
// float64.
const maxMultiple = 1 << 53

// Plan returns ticks over [lo, hi]. Locations are strictly increasing
// multiples of the chosen step that lie within the closed interval.
func (p Planner) Plan(lo, hi float64, target int) (TickSet, error) {
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return TickSet{}, errors.Configuration("tick range [%v, %v] is not finite", lo, hi)
	}
	if hi <= lo {
		return TickSet{}, errors.Configuration("tick range [%v, %v] is empty", lo, hi)
	}
	if math.IsInf(hi-lo, 0) {
		return TickSet{}, errors.Configuration("tick range [%v, %v] is too wide", lo, hi)
	}
	if target < 2 {
		target = 2
	}

	step := NiceStep(lo, hi, target)
	first := math.Ceil(lo/step - 1e-9)
	last := math.Floor(hi/step + 1e-9)

	if math.Abs(first) > maxMultiple || math.Abs(last) > maxMultiple {
		return TickSet{}, errors.Configuration("tick range [%v, %v] is too far from zero for step %v", lo, hi, step)
	}

	ts := TickSet{Step: step}
	n := int(last-first) + 1
	for i := 0; i < n; i++ {
		v := (first + float64(i)) * step
		// clean -0 and float noise from the multiple
		v = roundTo(v, step)
		if v < lo || v > hi {
			continue
		}
		ts.Locations = append(ts.Locations, v)
	}
	ts.Labels = p.Format(ts.Locations, step)
	return ts, nil
}

// Format renders locations according to the planner unit.
func (p Planner) Format(locs []float64, step float64) []string {
	out := make([]string, len(locs))
	switch p.Unit {
	case Kilometers:
		digits := p.SignificantDigits
		for i, v := range locs {
			km := v / 1000
			n := digits
			if n <= 0 {
				n = digitsToResolve(km, step/1000)
			}
			out[i] = formatTruncated(km, n)
		}
	default:
		dec := decimalsFor(step)
		for i, v := range locs {
			out[i] = strconv.FormatFloat(v, 'f', dec, 64)
		}
	}
	return out
}

// NiceStep returns the 1-2-5 step whose tick count over [lo, hi] is
// closest to target. Ties prefer the larger step.
func NiceStep(lo, hi float64, target int) float64 {
	span := hi - lo
	raw := span / float64(target)
	mag := math.Pow(10, math.Floor(math.Log10(raw)))

	best, bestDiff := 0.0, math.MaxInt
	for _, exp := range []float64{mag / 10, mag, mag * 10} {
		for _, m := range []float64{1, 2, 5} {
			s := m * exp
			n := CountMultiples(lo, hi, s)
			if n < 2 {
				continue
			}
			d := abs(n - target)
			if d < bestDiff || (d == bestDiff && s > best) {
				best, bestDiff = s, d
			}
		}
	}
	if best == 0 {
		// span too short for two multiples of anything near raw
		best = mag
	}
	return best
}

// CountMultiples returns how many multiples of step lie within [lo, hi].
func CountMultiples(lo, hi, step float64) int {
	first := math.Ceil(lo/step - 1e-9)
	last := math.Floor(hi/step + 1e-9)
	return int(last-first) + 1
}

// TruncateSignificant truncates v toward zero to n significant digits.
func TruncateSignificant(v float64, n int) float64 {
	if v == 0 || n <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	e := n - 1 - int(math.Floor(math.Log10(math.Abs(v))))
	p := math.Pow(10, math.Abs(float64(e)))
	// nudge by an epsilon so 0.3*10 style noise does not drop a digit
	eps := math.Copysign(1e-9, v)
	if e >= 0 {
		return math.Trunc(v*p+eps) / p
	}
	return math.Trunc(v/p+eps) * p
}

// formatTruncated truncates v to n significant digits and prints it without
// trailing zeros.
func formatTruncated(v float64, n int) string {
	t := TruncateSignificant(v, n)
	s := strconv.FormatFloat(t, 'f', -1, 64)
	if s == "-0" {
		s = "0"
	}
	return s
}

// digitsToResolve returns the significant digits of v needed to show the
// digit at the magnitude of step.
func digitsToResolve(v, step float64) int {
	if v == 0 {
		return 1
	}
	top := math.Floor(math.Log10(math.Abs(v)))
	bottom := math.Floor(math.Log10(step) + 1e-9)
	return max(1, int(top-bottom)+1)
}

// decimalsFor returns the decimals needed to print multiples of step.
func decimalsFor(step float64) int {
	d := -int(math.Floor(math.Log10(step) + 1e-9))
	return max(0, d)
}

func roundTo(v, step float64) float64 {
	d := decimalsFor(step)
	p := math.Pow(10, float64(d))
	r := math.Round(v*p) / p
	if r == 0 {
		return 0
	}
	return r
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
