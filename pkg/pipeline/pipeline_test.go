package pipeline

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/drapemap/pkg/errors"
	"github.com/matzehuels/drapemap/pkg/layout"
	"github.com/matzehuels/drapemap/pkg/raster"
	"github.com/matzehuels/drapemap/pkg/raster/source"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"png", false},
		{"pdf", false},
		{"jpg", false},
		{"TIF", false},
		{"svg", true},
		{"invalid", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestFigureWidth(t *testing.T) {
	tests := []struct {
		size    string
		want    float64
		wantErr bool
	}{
		{"big", 16, false},
		{"geomorphology", 6.25, false},
		{"ESURF", 4.92126, false},
		{"esurf", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := FigureWidth(tt.size)
		if (err != nil) != tt.wantErr {
			t.Errorf("FigureWidth(%q) error = %v, wantErr %v", tt.size, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("FigureWidth(%q) = %v, want %v", tt.size, got, tt.want)
		}
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"defaults", Options{Prefix: "dem"}, false},
		{"missing prefix", Options{}, true},
		{"prefix with directory", Options{Prefix: "a/dem"}, true},
		{"bad format", Options{Prefix: "dem", Format: "svg"}, true},
		{"bad size", Options{Prefix: "dem", Size: "huge"}, true},
		{"negative dpi", Options{Prefix: "dem", DPI: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			opts.SetDefaults()
			err := opts.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeConfiguration) {
				t.Errorf("Validate() error = %v, want configuration error", err)
			}
		})
	}
}

func TestOptionsSetDefaults(t *testing.T) {
	var opts Options
	opts.SetDefaults()

	if opts.Dir != "." {
		t.Errorf("Dir = %q, want .", opts.Dir)
	}
	if opts.Format != DefaultFormat {
		t.Errorf("Format = %q, want %q", opts.Format, DefaultFormat)
	}
	if opts.Size != DefaultSize {
		t.Errorf("Size = %q, want %q", opts.Size, DefaultSize)
	}
	if opts.DPI != DefaultDPI {
		t.Errorf("DPI = %v, want %v", opts.DPI, DefaultDPI)
	}
}

func TestMChiRange(t *testing.T) {
	tests := []struct {
		min, max float64
		want     []float64
	}{
		{0, 0, nil},
		{5, 1, nil},
		{0, 10, []float64{0, 10}},
	}

	for _, tt := range tests {
		opts := Options{MinMChi: tt.min, MaxMChi: tt.max}
		got := opts.MChiRange()
		if len(got) != len(tt.want) || (got != nil && (got[0] != tt.want[0] || got[1] != tt.want[1])) {
			t.Errorf("MChiRange(%v, %v) = %v, want %v", tt.min, tt.max, got, tt.want)
		}
	}
}

func TestParseRecipe(t *testing.T) {
	rec, err := ParseRecipe(`
[figure]
coord_type = "UTM_km"
colourbar_location = "bottom"

[base]
path = "dem_hs.bil"
type = "Hillshade"

[[drape]]
path = "dem_AllBasins.bil"
colormap = "jet"
discrete = true
old_values = [10, 20]
new_values = [0, 1]

  [[drape.mask]]
  mode = "below"
  low = 0

[[points]]
path = "dem_MChiSegmented.csv"
colour_column = "m_chi"
select = [{ column = "basin_key", values = [0, 1] }]

[output]
path = "out.png"
size = "geomorphology"
`)
	if err != nil {
		t.Fatalf("ParseRecipe: %v", err)
	}
	if rec.Figure.ColorbarLocation != "bottom" {
		t.Errorf("colourbar location = %q", rec.Figure.ColorbarLocation)
	}
	if len(rec.Drapes) != 1 || !rec.Drapes[0].Discrete || len(rec.Drapes[0].Mask) != 1 {
		t.Fatalf("drapes = %+v", rec.Drapes)
	}
	if len(rec.Points) != 1 || len(rec.Points[0].Select) != 1 {
		t.Fatalf("points = %+v", rec.Points)
	}
	if err := rec.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	w, err := rec.Output.FigureWidth()
	if err != nil || w != 6.25 {
		t.Errorf("FigureWidth() = %v, %v; want 6.25", w, err)
	}
}

func TestExampleRecipesParse(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "examples", "*.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Skip("no example recipes")
	}
	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			rec, err := LoadRecipe(path)
			if err != nil {
				t.Fatalf("LoadRecipe: %v", err)
			}
			if err := rec.Validate(); err != nil {
				t.Errorf("Validate: %v", err)
			}
		})
	}
}

func TestParseRecipeErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown key", "[base]\npath = \"a.bil\"\ncolour = \"red\"\n"},
		{"bad syntax", "[base\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRecipe(tt.data)
			if !errors.Is(err, errors.ErrCodeConfiguration) {
				t.Errorf("ParseRecipe() error = %v, want configuration error", err)
			}
		})
	}
}

func TestRecipeValidate(t *testing.T) {
	valid := func() *Recipe {
		return &Recipe{Base: BaseSpec{Path: "hs.bil"}, Output: OutputSpec{Path: "out.png"}}
	}
	tests := []struct {
		name   string
		mutate func(r *Recipe)
	}{
		{"no base", func(r *Recipe) { r.Base.Path = "" }},
		{"no output", func(r *Recipe) { r.Output.Path = "" }},
		{"bad size", func(r *Recipe) { r.Output.Size = "A4" }},
		{"ragged remap", func(r *Recipe) {
			r.Drapes = []DrapeSpec{{Path: "d.bil", OldValues: []float64{1, 2}, NewValues: []float64{1}}}
		}},
		{"bad mask mode", func(r *Recipe) {
			r.Drapes = []DrapeSpec{{Path: "d.bil", Mask: []MaskSpec{{Mode: "sideways"}}}}
		}},
		{"basin keys without table", func(r *Recipe) {
			r.Drapes = []DrapeSpec{{Path: "d.bil", KeepBasins: &BasinSelection{Keys: []int{1}}}}
		}},
		{"inverted colour range", func(r *Recipe) {
			r.Points = []PointSpec{{Path: "p.csv", ColorRange: []float64{5, 1}}}
		}},
		{"label without column", func(r *Recipe) { r.Labels = []LabelSpec{{Path: "l.csv"}} }},
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("valid recipe: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid()
			tt.mutate(r)
			if err := r.Validate(); !errors.Is(err, errors.ErrCodeConfiguration) {
				t.Errorf("Validate() error = %v, want configuration error", err)
			}
		})
	}
}

func TestParseColour(t *testing.T) {
	tests := []struct {
		in      string
		isNil   bool
		wantErr bool
	}{
		{"", true, false},
		{"none", true, false},
		{"black", false, false},
		{"W", false, false},
		{"#ff8800", false, false},
		{"chartreuse-ish", false, true},
	}
	for _, tt := range tests {
		c, err := parseColour(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseColour(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && (c == nil) != tt.isNil {
			t.Errorf("parseColour(%q) = %v, nil = %v", tt.in, c, c == nil)
		}
	}
}

// =============================================================================
// End to end
// =============================================================================

// writeDataset stages a 40x40 LSDTopoTools style dataset near the UTM 11N
// false origin: a hillshade, a two-basin raster keyed by outlet junction,
// the basin info table and an m_chi point table.
func writeDataset(t *testing.T, dir, prefix string) {
	t.Helper()
	ext := raster.Extent{XMin: 499500, XMax: 500500, YMin: 0, YMax: 1000}
	mk := func(fill func(r, c int) float64) *raster.Raster {
		g := raster.NewGrid(40, 40)
		for r := 0; r < 40; r++ {
			for c := 0; c < 40; c++ {
				g.Set(r, c, fill(r, c))
			}
		}
		return &raster.Raster{Grid: g, Extent: ext, ProjectionID: "EPSG:32611"}
	}
	hs := mk(func(r, c int) float64 { return float64(r*c%255) + 1 })
	if err := source.WriteENVI(filepath.Join(dir, prefix+SuffixHillshade), hs); err != nil {
		t.Fatal(err)
	}
	basins := mk(func(r, c int) float64 {
		if c < 20 {
			return 101
		}
		return 202
	})
	if err := source.WriteENVI(filepath.Join(dir, prefix+SuffixBasins), basins); err != nil {
		t.Fatal(err)
	}

	info := "latitude,longitude,outlet_junction,basin_key\n" +
		"0.004,-117.002,101,0\n" +
		"0.004,-116.998,202,1\n"
	mchi := "latitude,longitude,m_chi,drainage_area,basin_key,source_key\n" +
		"0.002,-117.003,12.5,1000,0,0\n" +
		"0.003,-117.002,30.0,2000,0,1\n" +
		"0.005,-116.999,55.0,5000,1,2\n" +
		"0.007,-116.998,80.0,9000,1,3\n"
	shape := `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{"basin_key":1},` +
		`"geometry":{"type":"Polygon","coordinates":[[[-117.0002,0.001],[-116.9958,0.001],` +
		`[-116.9958,0.008],[-117.0002,0.008],[-117.0002,0.001]]]}}]}`
	for name, body := range map[string]string{
		prefix + SuffixBasinInfo:  info,
		prefix + SuffixMChi:       mchi,
		prefix + SuffixBasinShape: shape,
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestRunPresets(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir, "dem")

	runner := NewRunner(nil, nil, nil)
	results, err := runner.Run(Options{
		Dir:       dir,
		Prefix:    "dem",
		DPI:       40,
		BasinMap:  true,
		MChiMap:   true,
		MChiBlack: true,
		BasinKeys: []int{0, 1},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}

	wantOutputs := []string{"dem_basin_keys.png", "dem_MChi_map.png", "dem_MChi_map_black.png"}
	for i, res := range results {
		if filepath.Base(res.Output) != wantOutputs[i] {
			t.Errorf("result %d output = %s, want %s", i, res.Output, wantOutputs[i])
		}
		if _, err := os.Stat(res.Output); err != nil {
			t.Errorf("output %s not written: %v", res.Output, err)
		}
		if res.Width != SizeWidths[SizeESURF] {
			t.Errorf("result %d width = %v", i, res.Width)
		}
		if res.MapFraction <= 0 || res.MapFraction > 1 {
			t.Errorf("result %d map fraction = %v", i, res.MapFraction)
		}
	}

	basins := results[0].Stats
	if basins.Drapes != 1 || basins.Labels != 2 || basins.Colorbars != 1 || basins.Polygons != 1 {
		t.Errorf("basin stats = %+v", basins)
	}
	mchi := results[1].Stats
	if mchi.PointSets != 1 || mchi.Points != 4 || mchi.Colorbars != 1 || mchi.Polygons != 1 {
		t.Errorf("m_chi stats = %+v", mchi)
	}
}

func TestBasinsRecipe(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir, "dem")
	opts := Options{Dir: dir, Prefix: "dem", BasinKeys: []int{1}}
	opts.SetDefaults()

	rec := BasinsRecipe(opts)
	if rec.Figure.ColorbarLocation != layout.Bottom.String() {
		t.Errorf("colourbar location = %q, want bottom", rec.Figure.ColorbarLocation)
	}
	d := rec.Drapes[0]
	if !d.ShowColorbar || !d.Integral || d.ColorbarLabel != BasinLabel {
		t.Errorf("drape colourbar = (%v, %v, %q), want integral %q colourbar", d.ShowColorbar, d.Integral, d.ColorbarLabel, BasinLabel)
	}
	if len(rec.Polygons) != 1 || rec.Polygons[0].LineWidth != BasinLineWidth {
		t.Errorf("polygons = %+v, want basin outlines", rec.Polygons)
	}

	fig, stats, err := NewRunner(nil, nil, nil).Compose(rec)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if stats.Labels != 1 {
		t.Errorf("labels = %d, want 1", stats.Labels)
	}
	drape := fig.Layers()[1]
	// column 0 belongs to junction 101 (key 0), column 39 to junction 202 (key 1)
	if v := drape.Grid.At(0, 0); !math.IsNaN(v) {
		t.Errorf("unselected basin cell = %v, want NaN", v)
	}
	if v := drape.Grid.At(0, 39); v != 1 {
		t.Errorf("selected basin cell = %v, want key 1", v)
	}
	cb := fig.Colorbars()[0]
	if cb.Layer != drape || cb.Label != BasinLabel {
		t.Errorf("colourbar = %+v, want basin drape colourbar", cb)
	}
}

func TestBasinsRecipeWithoutSidecar(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir, "dem")
	if err := os.Remove(filepath.Join(dir, "dem"+SuffixBasinShape)); err != nil {
		t.Fatal(err)
	}
	opts := Options{Dir: dir, Prefix: "dem"}
	opts.SetDefaults()
	rec := BasinsRecipe(opts)
	if rec.Polygons != nil {
		t.Errorf("polygons = %+v, want none", rec.Polygons)
	}
	if rec.Drapes[0].KeepBasins != nil {
		t.Errorf("keep basins = %+v, want nil without keys", rec.Drapes[0].KeepBasins)
	}
}

func TestRunSelectsSourceKeys(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir, "dem")

	results, err := NewRunner(nil, nil, nil).Run(Options{
		Dir: dir, Prefix: "dem", DPI: 40, MChiMap: true, SourceKeys: []int{2, 3},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := results[0].Stats.Points; got != 2 {
		t.Errorf("points = %d, want 2", got)
	}
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir, "dem")

	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"nothing selected", Options{Dir: dir, Prefix: "dem"}, errors.ErrCodeConfiguration},
		{"missing prefix", Options{Dir: dir, BasinMap: true}, errors.ErrCodeConfiguration},
		{"missing inputs", Options{Dir: dir, Prefix: "other", BasinMap: true}, errors.ErrCodeData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRunner(nil, nil, nil).Run(tt.opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("Run() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestExecuteRecipeFile(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir, "dem")
	recipe := `
[figure]
coord_type = "UTM"
colourbar_location = "bottom"

[base]
path = "dem_hs.bil"
type = "Terrain"

[[drape]]
path = "dem_AllBasins.bil"
colormap = "Set1"
discrete = true
show_colourbar = true
colourbar_label = "Basin"
integral = true
remap_table = { path = "dem_AllBasinsInfo.csv", old_column = "outlet_junction", new_column = "basin_key" }

[[labels]]
path = "dem_AllBasinsInfo.csv"
column = "basin_key"

[output]
path = "custom.pdf"
width = 3
dpi = 40
`
	path := filepath.Join(dir, "figure.toml")
	if err := os.WriteFile(path, []byte(recipe), 0o644); err != nil {
		t.Fatal(err)
	}

	rec, err := LoadRecipe(path)
	if err != nil {
		t.Fatalf("LoadRecipe: %v", err)
	}
	res, err := NewRunner(nil, nil, nil).Execute(rec)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Width != 3 || res.Height <= 3 {
		t.Errorf("size = %vx%v, want width 3 and room for a bottom colourbar", res.Width, res.Height)
	}
	data, err := os.ReadFile(res.Output)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "%PDF-") {
		t.Errorf("output is not a PDF")
	}
	if res.Stats.Colorbars != 1 || res.Stats.Labels != 2 {
		t.Errorf("stats = %+v", res.Stats)
	}
}

func TestExecuteShapeMismatch(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir, "dem")

	small := raster.NewGrid(10, 10)
	odd := &raster.Raster{Grid: small, Extent: raster.Extent{XMin: 0, XMax: 10, YMin: 0, YMax: 10}}
	if err := source.WriteENVI(filepath.Join(dir, "odd.bil"), odd); err != nil {
		t.Fatal(err)
	}
	rec := &Recipe{
		Dir:    dir,
		Base:   BaseSpec{Path: "dem_hs.bil"},
		Drapes: []DrapeSpec{{Path: "odd.bil"}},
		Output: OutputSpec{Path: "never.png", DPI: 40},
	}
	_, err := NewRunner(nil, nil, nil).Execute(rec)
	if !errors.Is(err, errors.ErrCodeShapeMismatch) {
		t.Fatalf("Execute() error = %v, want shape mismatch", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "never.png")); !os.IsNotExist(err) {
		t.Errorf("output written despite failure")
	}
}
