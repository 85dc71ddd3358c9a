package ticks

import (
	"math"
	"reflect"
	"testing"

	"github.com/matzehuels/drapemap/pkg/errors"
)

func TestParseUnit(t *testing.T) {
	tests := []struct {
		in   string
		want Unit
	}{
		{"UTM", Meters},
		{"utm", Meters},
		{"m", Meters},
		{"UTM_km", Kilometers},
		{"km", Kilometers},
		{" Kilometers ", Kilometers},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseUnit(tt.in)
			if err != nil || got != tt.want {
				t.Errorf("ParseUnit(%q) = (%v, %v), want %v", tt.in, got, err, tt.want)
			}
		})
	}

	_, err := ParseUnit("lat_long")
	if !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Fatalf("ParseUnit(lat_long) = %v, want configuration error", err)
	}
	if msg := errors.UserMessage(err); !contains(msg, "lat_long") {
		t.Errorf("error %q does not name the invalid value", msg)
	}
}

func TestAxisLabels(t *testing.T) {
	if x, y := Meters.AxisLabels(); x != "Easting (m)" || y != "Northing (m)" {
		t.Errorf("Meters labels = %q, %q", x, y)
	}
	if x, y := Kilometers.AxisLabels(); x != "Easting (km)" || y != "Northing (km)" {
		t.Errorf("Kilometers labels = %q, %q", x, y)
	}
}

func TestPlanMeters(t *testing.T) {
	ts, err := Planner{Unit: Meters}.Plan(0, 1000, 5)
	if err != nil {
		t.Fatal(err)
	}
	wantLocs := []float64{0, 200, 400, 600, 800, 1000}
	if !reflect.DeepEqual(ts.Locations, wantLocs) {
		t.Errorf("Locations = %v, want %v", ts.Locations, wantLocs)
	}
	wantLabels := []string{"0", "200", "400", "600", "800", "1000"}
	if !reflect.DeepEqual(ts.Labels, wantLabels) {
		t.Errorf("Labels = %v, want %v", ts.Labels, wantLabels)
	}
	if ts.LongestLabel() != 4 {
		t.Errorf("LongestLabel = %d, want 4", ts.LongestLabel())
	}
}

func TestPlanFractionalStep(t *testing.T) {
	ts, err := Planner{Unit: Meters}.Plan(0, 1, 5)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"0.0", "0.2", "0.4", "0.6", "0.8", "1.0"}
	if !reflect.DeepEqual(ts.Labels, want) {
		t.Errorf("Labels = %v, want %v", ts.Labels, want)
	}
}

func TestPlanKilometers(t *testing.T) {
	tests := []struct {
		name   string
		lo, hi float64
		digits int
		want   []string
	}{
		{"auto digits", 500000, 510000, 0, []string{"500", "502", "504", "506", "508", "510"}},
		{"truncated to two digits", 500000, 510000, 2, []string{"500", "500", "500", "500", "500", "510"}},
		{"sub-kilometre step", 0, 2000, 0, []string{"0", "0.5", "1", "1.5", "2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, err := Planner{Unit: Kilometers, SignificantDigits: tt.digits}.Plan(tt.lo, tt.hi, 5)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(ts.Labels, tt.want) {
				t.Errorf("Labels = %v, want %v", ts.Labels, tt.want)
			}
		})
	}
}

func TestPlanKilometersKeepsLocations(t *testing.T) {
	m, _ := Planner{Unit: Meters}.Plan(312345, 318765, 5)
	km, _ := Planner{Unit: Kilometers, SignificantDigits: 1}.Plan(312345, 318765, 5)
	if !reflect.DeepEqual(m.Locations, km.Locations) {
		t.Errorf("km locations %v differ from metre locations %v", km.Locations, m.Locations)
	}
}

func TestPlanProperties(t *testing.T) {
	ranges := [][2]float64{
		{0, 1000},
		{0, 1},
		{-73.2, 18.9},
		{312345.5, 318765.25},
		{4100000, 4163000},
		{0.001, 0.0017},
		{-5e6, 5e6},
		{17, 23},
	}
	for _, r := range ranges {
		for target := 2; target <= 12; target++ {
			ts, err := Planner{}.Plan(r[0], r[1], target)
			if err != nil {
				t.Fatalf("Plan(%v, %d): %v", r, target, err)
			}
			for i, v := range ts.Locations {
				if v < r[0] || v > r[1] {
					t.Errorf("Plan(%v, %d): tick %v outside range", r, target, v)
				}
				if i > 0 && v <= ts.Locations[i-1] {
					t.Errorf("Plan(%v, %d): ticks not increasing: %v", r, target, ts.Locations)
				}
			}
			if d := ts.Len() - target; d < 0 && -d > target/2+1 || d > target/2+1 {
				t.Errorf("Plan(%v, %d): %d ticks too far from target", r, target, ts.Len())
			}
			if len(ts.Labels) != ts.Len() {
				t.Errorf("Plan(%v, %d): %d labels for %d ticks", r, target, len(ts.Labels), ts.Len())
			}
		}
	}
}

func TestPlanErrors(t *testing.T) {
	tests := []struct {
		name   string
		lo, hi float64
	}{
		{"empty", 5, 5},
		{"inverted", 10, 0},
		{"nan", math.NaN(), 1},
		{"inf", 0, math.Inf(1)},
		{"span overflows", -math.MaxFloat64, math.MaxFloat64},
		{"multiples beyond float precision", 1e19, 1e19 + 2048},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := (Planner{}).Plan(tt.lo, tt.hi, 5); !errors.Is(err, errors.ErrCodeConfiguration) {
				t.Errorf("Plan error = %v, want configuration error", err)
			}
		})
	}
}

func TestTruncateSignificant(t *testing.T) {
	tests := []struct {
		v    float64
		n    int
		want float64
	}{
		{502.7, 3, 502},
		{502.7, 2, 500},
		{0.3, 1, 0.3},
		{-4.56, 2, -4.5},
		{0, 3, 0},
		{123.4, 0, 123.4},
	}
	for _, tt := range tests {
		if got := TruncateSignificant(tt.v, tt.n); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("TruncateSignificant(%v, %d) = %v, want %v", tt.v, tt.n, got, tt.want)
		}
	}
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
