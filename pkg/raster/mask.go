package raster

import (
	"math"
	"strings"

	"github.com/matzehuels/drapemap/pkg/errors"
)

// MaskMode selects which cells MaskRange sets to no-data.
type MaskMode int

const (
	// MaskBelow masks v < low.
	MaskBelow MaskMode = iota
	// MaskAbove masks v > high.
	MaskAbove
	// MaskInterval masks low < v < high.
	MaskInterval
)

func (m MaskMode) String() string {
	switch m {
	case MaskBelow:
		return "below"
	case MaskAbove:
		return "above"
	case MaskInterval:
		return "interval"
	}
	return "unknown"
}

// ParseMaskMode accepts "below", "above" or "interval" in any case.
func ParseMaskMode(s string) (MaskMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "below":
		return MaskBelow, nil
	case "above":
		return MaskAbove, nil
	case "interval", "middle":
		return MaskInterval, nil
	}
	return 0, errors.Configuration("unknown mask mode %q", s)
}

// MaskRange sets matching cells to NaN and returns how many were masked.
// MaskBelow reads only low and MaskAbove reads only high.
func (l *Layer) MaskRange(low, high float64, mode MaskMode) (int, error) {
	var match func(float64) bool
	switch mode {
	case MaskBelow:
		match = func(v float64) bool { return v < low }
	case MaskAbove:
		match = func(v float64) bool { return v > high }
	case MaskInterval:
		if low > high {
			return 0, errors.Configuration("mask interval (%v, %v) is inverted", low, high)
		}
		match = func(v float64) bool { return v > low && v < high }
	default:
		return 0, errors.Configuration("unknown mask mode %d", int(mode))
	}

	n := 0
	for i, v := range l.Grid.Data {
		if match(v) {
			l.Grid.Data[i] = math.NaN()
			n++
		}
	}
	return n, nil
}

// Mask is one MaskRange call kept for later application.
type Mask struct {
	Mode      MaskMode
	Low, High float64
}

// Apply masks l with m.
func (m Mask) Apply(l *Layer) (int, error) { return l.MaskRange(m.Low, m.High, m.Mode) }

// KeepValues masks every valid cell whose value is not listed and returns
// how many were masked. An empty list keeps everything.
func (l *Layer) KeepValues(values []float64) int {
	if len(values) == 0 {
		return 0
	}
	keep := make(map[float64]struct{}, len(values))
	for _, v := range values {
		keep[v] = struct{}{}
	}
	n := 0
	for i, v := range l.Grid.Data {
		if math.IsNaN(v) {
			continue
		}
		if _, ok := keep[v]; !ok {
			l.Grid.Data[i] = math.NaN()
			n++
		}
	}
	return n
}
