package errors

import (
	"math"
	"reflect"
	"testing"
)

func TestValidateColourRange(t *testing.T) {
	tests := []struct {
		name    string
		input   []float64
		wantErr bool
	}{
		{"empty", nil, false},
		{"valid", []float64{0, 400}, false},
		{"negative", []float64{-5, -1}, false},

		{"single value", []float64{1}, true},
		{"three values", []float64{1, 2, 3}, true},
		{"reversed", []float64{10, 1}, true},
		{"equal", []float64{3, 3}, true},
		{"nan", []float64{math.NaN(), 1}, true},
		{"inf", []float64{0, math.Inf(1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateColourRange(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateColourRange(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeConfiguration) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeConfiguration)
			}
		})
	}
}

func TestParseKeyList(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []int
		wantErr bool
	}{
		{"empty", "", nil, false},
		{"blank", "   ", nil, false},
		{"single", "3", []int{3}, false},
		{"several", "0,4,12", []int{0, 4, 12}, false},
		{"spaces", " 1, 2 ,3", []int{1, 2, 3}, false},

		{"not a number", "1,a", nil, true},
		{"trailing comma", "1,", nil, true},
		{"float", "1.5", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseKeyList(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKeyList(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseKeyList(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateFilePrefix(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "Xian", false},
		{"valid with underscore", "mid_wales_30m", false},

		{"empty", "", true},
		{"with slash", "data/Xian", true},
		{"with backslash", `data\Xian`, true},
		{"control char", "Xi\x01an", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilePrefix(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFilePrefix(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "figure.png", false},
		{"absolute", "/tmp/out/figure.pdf", false},

		{"empty", "", true},
		{"whitespace", "  ", true},
		{"directory", "out/", true},
		{"null byte", "fig\x00.png", true},
		{"too long", string(make([]byte, 5000)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
