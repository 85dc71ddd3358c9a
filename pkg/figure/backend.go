package figure

import (
	"image/color"

	"github.com/matzehuels/drapemap/pkg/errors"
	"github.com/matzehuels/drapemap/pkg/fonts"
)

// Backend holds the drawing settings shared by every figure a process
// renders. Build it once at start-up and pass it to each figure.
type Backend struct {
	// DPI is the default output resolution.
	DPI float64
	// Background fills the figure; Save with Transparent overrides it.
	Background color.Color
	// TextColor is used for axes, ticks and labels.
	TextColor color.Color
	// BadColor draws points whose colour value is NaN.
	BadColor color.NRGBA
	// FontStyle selects the tick and label face.
	FontStyle fonts.Style
}

// DefaultBackend returns white figures with black text at 100 dpi.
func DefaultBackend() Backend {
	return Backend{
		DPI:        100,
		Background: color.White,
		TextColor:  color.Black,
		BadColor:   color.NRGBA{R: 160, G: 160, B: 160, A: 255},
		FontStyle:  fonts.Regular,
	}
}

// Validate checks the backend before a figure uses it.
func (b Backend) Validate() error {
	if !(b.DPI > 0) {
		return errors.Configuration("backend dpi must be positive, got %v", b.DPI)
	}
	if _, err := fonts.Face(b.FontStyle, 10, b.DPI); err != nil {
		return errors.Wrap(errors.ErrCodeConfiguration, err, "backend font %s", b.FontStyle)
	}
	return nil
}
