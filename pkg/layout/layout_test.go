package layout

import (
	"image"
	"math"
	"testing"

	"github.com/matzehuels/drapemap/pkg/errors"
)

const eps = 1e-9

func TestParsePlacement(t *testing.T) {
	tests := []struct {
		in   string
		want Placement
	}{
		{"top", Top},
		{"Top", Top},
		{"BOTTOM", Bottom},
		{" left ", Left},
		{"right", Right},
		{"None", None},
		{"", None},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePlacement(tt.in)
			if err != nil || got != tt.want {
				t.Errorf("ParsePlacement(%q) = (%v, %v), want %v", tt.in, got, err, tt.want)
			}
		})
	}
	if _, err := ParsePlacement("centre"); !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("ParsePlacement(centre) = %v, want configuration error", err)
	}
}

func TestTextAllowance(t *testing.T) {
	g := DefaultGeometry()
	tests := []struct {
		p     Placement
		chars int
		want  float64
	}{
		{None, 10, 0},
		{Bottom, 10, 0.4},
		{Top, 2, 0.4},
		{Left, 3, 0.4},
		{Right, 5, 0.7},
		{Left, 7, 1.0},
	}
	for _, tt := range tests {
		if got := g.TextAllowance(tt.p, tt.chars); math.Abs(got-tt.want) > eps {
			t.Errorf("TextAllowance(%v, %d) = %v, want %v", tt.p, tt.chars, got, tt.want)
		}
	}
}

func TestNegotiatePreservesAspect(t *testing.T) {
	g := DefaultGeometry()
	for _, p := range []Placement{None, Top, Bottom, Left, Right} {
		for _, aspect := range []float64{0.5, 1, 1.6, 3} {
			for _, width := range []float64{4.92126, 6.25, 16} {
				l, err := g.Negotiate(width, aspect, p, g.TextAllowance(p, 6))
				if err != nil {
					t.Fatalf("Negotiate(%v, %v, %v): %v", width, aspect, p, err)
				}
				got := (l.Map.W * l.Width) / (l.Map.H * l.Height)
				if math.Abs(got-aspect) > 1e-9 {
					t.Errorf("Negotiate(%v, %v, %v): map aspect %v", width, aspect, p, got)
				}
				if l.Width != width {
					t.Errorf("width changed: %v -> %v", width, l.Width)
				}
				if (p == None) != (l.Colorbar == nil) {
					t.Errorf("placement %v: colourbar rect = %v", p, l.Colorbar)
				}
				checkInside(t, l.Map)
				if l.Colorbar != nil {
					checkInside(t, *l.Colorbar)
					if overlaps(l.Map, *l.Colorbar) {
						t.Errorf("placement %v: map %v overlaps colourbar %v", p, l.Map, *l.Colorbar)
					}
				}
			}
		}
	}
}

func TestNegotiateBottomSquare(t *testing.T) {
	l, err := Negotiate(6, 1, Bottom, 0.2, 0.4)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(l.Height-6.6) > eps {
		t.Errorf("Height = %v, want 6.6", l.Height)
	}
	if f := l.MapFraction(); f < 0.75 || f > 0.85 {
		t.Errorf("map fraction = %v, want within [0.75, 0.85]", f)
	}
	if l.Colorbar.Y >= l.Map.Y {
		t.Errorf("bottom colourbar at y=%v is not below the map at y=%v", l.Colorbar.Y, l.Map.Y)
	}
}

func TestNegotiatePanelOrder(t *testing.T) {
	g := DefaultGeometry()
	tests := []struct {
		p     Placement
		check func(m, c Rect) bool
	}{
		{Top, func(m, c Rect) bool { return c.Y > m.Y+m.H }},
		{Bottom, func(m, c Rect) bool { return c.Y+c.H < m.Y }},
		{Left, func(m, c Rect) bool { return c.X+c.W < m.X }},
		{Right, func(m, c Rect) bool { return c.X > m.X+m.W }},
	}
	for _, tt := range tests {
		t.Run(tt.p.String(), func(t *testing.T) {
			l, err := g.Negotiate(6.25, 1.3, tt.p, 0.4)
			if err != nil {
				t.Fatal(err)
			}
			if !tt.check(l.Map, *l.Colorbar) {
				t.Errorf("colourbar %v misplaced relative to map %v", *l.Colorbar, l.Map)
			}
		})
	}
}

func TestNegotiateErrors(t *testing.T) {
	tests := []struct {
		name          string
		width, aspect float64
		p             Placement
	}{
		{"zero width", 0, 1, None},
		{"nan aspect", 6, math.NaN(), None},
		{"negative aspect", 6, -1, Bottom},
		{"too narrow", 0.8, 1, Left},
		{"bad placement", 6, 1, Placement(42)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Negotiate(tt.width, tt.aspect, tt.p, 0.2, 0.4); !errors.Is(err, errors.ErrCodeConfiguration) {
				t.Errorf("Negotiate error = %v, want configuration error", err)
			}
		})
	}
}

func TestRectPixels(t *testing.T) {
	r := Rect{X: 0.1, Y: 0.2, W: 0.5, H: 0.5}
	got := r.Pixels(100, 200)
	want := image.Rect(10, 60, 60, 160)
	if got != want {
		t.Errorf("Pixels = %v, want %v", got, want)
	}
}

func TestRectTile(t *testing.T) {
	horiz := Rect{X: 0, Y: 0, W: 1, H: 0.1}
	tiles := horiz.Tile(2, 0)
	if len(tiles) != 2 || tiles[0].W != 0.5 || tiles[1].X != 0.5 {
		t.Errorf("horizontal Tile = %v", tiles)
	}

	vert := Rect{X: 0, Y: 0, W: 0.1, H: 1}
	tiles = vert.Tile(2, 0.1)
	if tiles[0].Y <= tiles[1].Y {
		t.Errorf("vertical tiles not top-first: %v", tiles)
	}
	if gap := tiles[0].Y - (tiles[1].Y + tiles[1].H); math.Abs(gap-0.1) > eps {
		t.Errorf("gap = %v, want 0.1", gap)
	}
	if got := vert.Tile(1, 0.1); len(got) != 1 || got[0] != vert {
		t.Errorf("Tile(1) = %v", got)
	}
}

func checkInside(t *testing.T, r Rect) {
	t.Helper()
	if r.X < -eps || r.Y < -eps || r.X+r.W > 1+eps || r.Y+r.H > 1+eps || r.W <= 0 || r.H <= 0 {
		t.Errorf("rect %v not inside unit square", r)
	}
}

func overlaps(a, b Rect) bool {
	return a.X < b.X+b.W-eps && b.X < a.X+a.W-eps && a.Y < b.Y+b.H-eps && b.Y < a.Y+a.H-eps
}
