package fonts

import (
	"testing"

	"golang.org/x/image/font"
)

func TestFace(t *testing.T) {
	for _, s := range []Style{Regular, Bold} {
		t.Run(s.String(), func(t *testing.T) {
			f, err := Face(s, 10, 150)
			if err != nil {
				t.Fatalf("Face: %v", err)
			}
			if w := font.MeasureString(f, "Easting (m)"); w <= 0 {
				t.Errorf("MeasureString = %v, want > 0", w)
			}
			again, _ := Face(s, 10, 150)
			if again != f {
				t.Error("face not cached")
			}
		})
	}
}

func TestFaceScalesWithDPI(t *testing.T) {
	lo, err := Face(Regular, 10, 72)
	if err != nil {
		t.Fatal(err)
	}
	hi, err := Face(Regular, 10, 144)
	if err != nil {
		t.Fatal(err)
	}
	wLo := font.MeasureString(lo, "1000").Ceil()
	wHi := font.MeasureString(hi, "1000").Ceil()
	if wHi < 2*wLo-2 || wHi > 2*wLo+2 {
		t.Errorf("width at 144dpi = %d, want about twice %d", wHi, wLo)
	}
}

func TestFaceUnknownStyle(t *testing.T) {
	if _, err := Face(Style(7), 10, 72); err == nil {
		t.Error("Face(Style(7)) succeeded")
	}
}
