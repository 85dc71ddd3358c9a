// Package fonts provides the embedded Go font faces used for figure text.
//
// The TTF data ships with golang.org/x/image, so figures render the same on
// every machine without system font lookup. Parsed fonts and sized faces
// are cached after first use and are safe for concurrent access.
package fonts

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Family is the font family name reported in logs and PDF metadata.
const Family = "Go"

// Style selects the font weight.
type Style int

const (
	Regular Style = iota
	Bold
)

func (s Style) String() string {
	if s == Bold {
		return "bold"
	}
	return "regular"
}

// Parsed fonts (computed once on first access).
var (
	parsed     [2]*opentype.Font
	parsedErr  [2]error
	parsedOnce [2]sync.Once
)

type faceKey struct {
	style       Style
	points, dpi float64
}

var (
	facesMu sync.Mutex
	faces   = map[faceKey]font.Face{}
)

func load(s Style) (*opentype.Font, error) {
	if s != Regular && s != Bold {
		return nil, fmt.Errorf("unknown font style %d", int(s))
	}
	parsedOnce[s].Do(func() {
		data := goregular.TTF
		if s == Bold {
			data = gobold.TTF
		}
		parsed[s], parsedErr[s] = opentype.Parse(data)
	})
	return parsed[s], parsedErr[s]
}

// Face returns a face of the given style and point size rendered at dpi.
// Faces are shared; callers must not Close them.
func Face(s Style, points, dpi float64) (font.Face, error) {
	key := faceKey{s, points, dpi}
	facesMu.Lock()
	defer facesMu.Unlock()
	if f, ok := faces[key]; ok {
		return f, nil
	}
	f, err := load(s)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    points,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("font face %s %vpt@%vdpi: %w", s, points, dpi, err)
	}
	faces[key] = face
	return face, nil
}

// RegularTTF returns the raw regular TTF data, for encoders that embed
// their own font program.
func RegularTTF() []byte { return goregular.TTF }
