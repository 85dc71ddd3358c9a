package raster

import (
	"io"
	"math"
	"testing"

	"github.com/matzehuels/drapemap/pkg/errors"
)

func testRaster(vals ...float64) *Raster {
	return &Raster{
		Name:   "test",
		Grid:   gridOf(2, 3, vals...),
		Extent: Extent{XMin: 0, XMax: 30, YMin: 0, YMax: 20},
	}
}

func TestNewLayer(t *testing.T) {
	r := testRaster(1, 2, 3, 4, 5, 6)
	l, err := NewLayer(r, "")
	if err != nil {
		t.Fatalf("NewLayer: %v", err)
	}
	if l.Colormap.Name() != "gray" {
		t.Errorf("default colormap = %q, want gray", l.Colormap.Name())
	}
	if l.Alpha != 1 {
		t.Errorf("default alpha = %v, want 1", l.Alpha)
	}

	// the layer owns its grid
	l.Grid.Data[0] = 99
	if r.Grid.Data[0] != 1 {
		t.Error("NewLayer did not copy the source grid")
	}
}

func TestNewLayerErrors(t *testing.T) {
	tests := []struct {
		name string
		r    *Raster
		cmap string
		code errors.Code
	}{
		{"nil raster", nil, "", errors.ErrCodeData},
		{"bad extent", &Raster{Grid: NewGrid(1, 1), Extent: Extent{1, 0, 0, 1}}, "", errors.ErrCodeData},
		{"unknown colormap", testRaster(), "nope", errors.ErrCodeConfiguration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLayer(tt.r, tt.cmap)
			if !errors.Is(err, tt.code) {
				t.Errorf("NewLayer error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestLoadLayerWrapsReaderErrors(t *testing.T) {
	rd := ReaderFunc(func(path string) (*Raster, error) {
		return nil, errors.Wrap(errors.ErrCodeInternal, nil, "boom")
	})
	if _, err := LoadLayer(rd, "x.bil", ""); !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("coded reader error not preserved: %v", err)
	}

	plain := ReaderFunc(func(path string) (*Raster, error) {
		return nil, io.ErrUnexpectedEOF
	})
	if _, err := LoadLayer(plain, "x.bil", ""); !errors.Is(err, errors.ErrCodeData) {
		t.Errorf("plain reader error = %v, want data error", err)
	}
}

func TestSetRasterType(t *testing.T) {
	l, _ := NewLayer(testRaster(), "jet")

	tests := []struct {
		in       string
		wantType Type
		wantMap  string
	}{
		{"Hillshade", TypeHillshade, "gray"},
		{"terrain", TypeTerrain, "darkearth"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if err := l.SetRasterType(tt.in); err != nil {
				t.Fatal(err)
			}
			if l.Type != tt.wantType || l.Colormap.Name() != tt.wantMap {
				t.Errorf("got (%s, %s), want (%s, %s)", l.Type, l.Colormap.Name(), tt.wantType, tt.wantMap)
			}
		})
	}

	if err := l.SetRasterType("Slope"); !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("SetRasterType(Slope) = %v, want configuration error", err)
	}
}

func TestLayerNorm(t *testing.T) {
	l, _ := NewLayer(testRaster(math.NaN(), 2, 4, 6, 8, 10), "")
	if n := l.Norm(); n.VMin != 2 || n.VMax != 10 {
		t.Errorf("data norm = %+v, want [2, 10]", n)
	}
	if err := l.SetClim(0, 100); err != nil {
		t.Fatal(err)
	}
	if n := l.Norm(); n.VMin != 0 || n.VMax != 100 {
		t.Errorf("clim norm = %+v, want [0, 100]", n)
	}
	if err := l.SetClim(5, 5); !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("SetClim(5, 5) = %v, want configuration error", err)
	}
	if err := l.SetAlpha(1.5); !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("SetAlpha(1.5) = %v, want configuration error", err)
	}
}
