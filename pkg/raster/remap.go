package raster

import (
	"github.com/matzehuels/drapemap/pkg/errors"
)

// Substitution maps one old value to one new value.
type Substitution struct {
	Old, New float64
}

// Remap is an ordered list of substitutions.
//
// Substitutions apply sequentially in list order: pass i rewrites every
// value still equal to Old_i. A value rewritten by an earlier pass is
// therefore matched again when a later Old equals it, and when Old appears
// twice the later pair sees only what the earlier one left behind.
type Remap []Substitution

// NewRemap pairs parallel old/new lists. Lists of different length are a
// configuration error.
func NewRemap(oldValues, newValues []float64) (Remap, error) {
	if len(oldValues) != len(newValues) {
		return nil, errors.Configuration("remap: %d old values but %d new values", len(oldValues), len(newValues))
	}
	if len(oldValues) == 0 {
		return nil, nil
	}
	m := make(Remap, len(oldValues))
	for i := range oldValues {
		m[i] = Substitution{Old: oldValues[i], New: newValues[i]}
	}
	return m, nil
}

// Apply runs v through every substitution in order. matched reports
// whether any substitution fired.
func (m Remap) Apply(v float64) (out float64, matched bool) {
	out = v
	for _, s := range m {
		if out == s.Old {
			out = s.New
			matched = true
		}
	}
	return out, matched
}

// Len returns the number of substitutions.
func (m Remap) Len() int { return len(m) }

// ReplaceValues rewrites the layer grid through m and records m on the
// layer. Substitution passes run in list order over the whole grid. NaN
// cells never match.
func (l *Layer) ReplaceValues(m Remap) {
	data := l.Grid.Data
	for _, s := range m {
		for i, v := range data {
			if v == s.Old {
				data[i] = s.New
			}
		}
	}
	l.Remap = append(l.Remap, m...)
}
