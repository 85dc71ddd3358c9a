package colormap

import (
	"math"
	"reflect"
	"testing"

	"github.com/matzehuels/drapemap/pkg/errors"
)

func TestDiscretize(t *testing.T) {
	base := gray()

	for _, n := range []int{1, 2, 3, 5, 10} {
		d, err := Discretize(base, n)
		if err != nil {
			t.Fatalf("Discretize(%d): %v", n, err)
		}
		if d.Bins() != n {
			t.Errorf("Bins() = %d, want %d", d.Bins(), n)
		}
		for k := 0; k < n; k++ {
			lo := float64(k) / float64(n)
			hi := float64(k+1) / float64(n)
			mid := (lo + hi) / 2
			want := d.Colors[k]
			for _, x := range []float64{lo, mid, hi - 1e-9} {
				if got := d.At(x); got != want {
					t.Errorf("n=%d At(%v) = %v, want bin %d colour %v", n, x, got, k, want)
				}
				if got := d.Segmented.At(x); got != want {
					t.Errorf("n=%d channel tables At(%v) = %v, want %v", n, x, got, want)
				}
			}
		}
		if got := d.At(1); got != d.Colors[n-1] {
			t.Errorf("n=%d At(1) = %v, want last bin", n, got)
		}
	}
}

func TestDiscretizeDistinctBins(t *testing.T) {
	d, err := Discretize(jet(), 6)
	if err != nil {
		t.Fatal(err)
	}
	for k := 1; k < d.Bins(); k++ {
		if d.Colors[k] == d.Colors[k-1] {
			t.Errorf("bins %d and %d share colour %v", k-1, k, d.Colors[k])
		}
	}
	if got := d.Name(); got != "jet_6" {
		t.Errorf("Name() = %q, want jet_6", got)
	}
}

func TestDiscretizeSamplesEndpoints(t *testing.T) {
	base := gray()
	d, err := Discretize(base, 4)
	if err != nil {
		t.Fatal(err)
	}
	if d.Colors[0] != base.At(0) {
		t.Errorf("first bin %v, want base.At(0) %v", d.Colors[0], base.At(0))
	}
	if d.Colors[3] != base.At(1) {
		t.Errorf("last bin %v, want base.At(1) %v", d.Colors[3], base.At(1))
	}
	// terminal colour is transparent on the left of x=0
	if d.Alpha[0].Below != 0 {
		t.Errorf("terminal alpha = %v, want 0", d.Alpha[0].Below)
	}
}

func TestDiscretizeInvalid(t *testing.T) {
	tests := []struct {
		name string
		base Map
		n    int
	}{
		{"zero bins", gray(), 0},
		{"negative bins", gray(), -2},
		{"nil base", nil, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Discretize(tt.base, tt.n)
			if !errors.Is(err, errors.ErrCodeConfiguration) {
				t.Errorf("error = %v, want configuration error", err)
			}
		})
	}
}

func TestComputeTickPlacement(t *testing.T) {
	tests := []struct {
		name        string
		min, max    float64
		n           int
		wantCenters []float64
		wantBounds  []float64
	}{
		{
			name: "three bins",
			min:  0, max: 2, n: 3,
			wantCenters: []float64{0, 1, 2},
			wantBounds:  []float64{-0.5, 0.5, 1.5, 2.5},
		},
		{
			name: "single bin",
			min:  5, max: 5, n: 1,
			wantCenters: []float64{5},
			wantBounds:  []float64{4.5, 5.5},
		},
		{
			name: "degenerate range",
			min:  3, max: 3, n: 3,
			wantCenters: []float64{2, 3, 4},
			wantBounds:  []float64{1.5, 2.5, 3.5, 4.5},
		},
		{
			name: "degenerate range two bins",
			min:  1, max: 1, n: 2,
			wantCenters: []float64{1, 2},
			wantBounds:  []float64{0.5, 1.5, 2.5},
		},
		{
			name: "swapped range",
			min:  10, max: 0, n: 2,
			wantCenters: []float64{0, 10},
			wantBounds:  []float64{-5, 5, 15},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeTickPlacement(tt.min, tt.max, tt.n)
			if err != nil {
				t.Fatalf("ComputeTickPlacement: %v", err)
			}
			if !approxEqual(got.Centers, tt.wantCenters) {
				t.Errorf("Centers = %v, want %v", got.Centers, tt.wantCenters)
			}
			if !approxEqual(got.Boundaries, tt.wantBounds) {
				t.Errorf("Boundaries = %v, want %v", got.Boundaries, tt.wantBounds)
			}
		})
	}
}

func TestComputeTickPlacementCentersInsideBins(t *testing.T) {
	for _, r := range [][2]float64{{-12.5, 87.25}, {4, 4}} {
		p, err := ComputeTickPlacement(r[0], r[1], 7)
		if err != nil {
			t.Fatal(err)
		}
		for i, c := range p.Centers {
			lo, hi := p.Boundaries[i], p.Boundaries[i+1]
			if math.Abs(c-(lo+hi)/2) > 1e-9 {
				t.Errorf("range %v: center %d = %v, not midway in [%v, %v]", r, i, c, lo, hi)
			}
		}
	}
}

func TestComputeTickPlacementInvalid(t *testing.T) {
	if _, err := ComputeTickPlacement(0, 1, 0); !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("n=0 error = %v, want configuration error", err)
	}
	if _, err := ComputeTickPlacement(math.NaN(), 1, 3); !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("NaN min error = %v, want configuration error", err)
	}
}

func TestFormatTickLabels(t *testing.T) {
	vals := []float64{0, 0.5, 1.9999, 12}
	if got, want := FormatTickLabels(vals, true), []string{"0", "1", "2", "12"}; !reflect.DeepEqual(got, want) {
		t.Errorf("integral = %v, want %v", got, want)
	}
	if got, want := FormatTickLabels(vals, false), []string{"0", "0.5", "1.9999", "12"}; !reflect.DeepEqual(got, want) {
		t.Errorf("decimal = %v, want %v", got, want)
	}
}

func approxEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-9 {
			return false
		}
	}
	return true
}
