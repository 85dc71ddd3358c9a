package figure

import (
	"sort"
	"strings"

	"github.com/matzehuels/drapemap/pkg/render"
)

// DefaultAxisStyle is used when a style name is empty or unknown.
const DefaultAxisStyle = "Normal"

var axisStyles = map[string]render.AxisStyle{
	"Normal":   {LineWidth: 1, FontSize: 10, TickPad: 2, LabelSize: 12, TickLength: 3.5},
	"Thick":    {LineWidth: 2, FontSize: 10, TickPad: 2, LabelSize: 12, TickLength: 4},
	"Thin":     {LineWidth: 0.5, FontSize: 8, TickPad: 1, LabelSize: 10, TickLength: 2.5},
	"Big":      {LineWidth: 2, FontSize: 12, TickPad: 3, LabelSize: 14, TickLength: 5},
	"Madhouse": {LineWidth: 4, FontSize: 20, TickPad: 3, LabelSize: 6, TickLength: 6},
}

// AxisStyleNamed returns the preset for name, matched case-insensitively.
// The second result is false when the name was not recognized and the
// default preset was returned instead.
func AxisStyleNamed(name string) (render.AxisStyle, bool) {
	for k, s := range axisStyles {
		if strings.EqualFold(k, name) {
			return s, true
		}
	}
	return axisStyles[DefaultAxisStyle], false
}

// AxisStyles lists the preset names.
func AxisStyles() []string {
	out := make([]string, 0, len(axisStyles))
	for k := range axisStyles {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
