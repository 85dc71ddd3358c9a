package errors

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ValidateColourRange checks a manual colour range argument. An empty slice
// means "use the data range"; otherwise exactly two finite, increasing values
// are required.
func ValidateColourRange(r []float64) error {
	if len(r) == 0 {
		return nil
	}
	if len(r) != 2 {
		return Configuration("colour range must be [min, max], got %d values", len(r))
	}
	if math.IsNaN(r[0]) || math.IsNaN(r[1]) || math.IsInf(r[0], 0) || math.IsInf(r[1], 0) {
		return Configuration("colour range must be finite, got %v", r)
	}
	if r[0] >= r[1] {
		return Configuration("colour range min (%g) must be below max (%g)", r[0], r[1])
	}
	return nil
}

// ParseKeyList parses a comma delimited list of integer keys such as the
// basin and source filters accepted by the CLI. The empty string yields an
// empty list, which callers treat as "no filter".
func ParseKeyList(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	keys := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		k, err := strconv.Atoi(p)
		if err != nil {
			return nil, Wrap(ErrCodeConfiguration, err, "invalid key %q in list %q", p, s)
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// ValidateFilePrefix validates the filename prefix shared by all inputs of a
// figure (the DEM name without extension).
//
// Validation rules:
//   - Prefix cannot be empty
//   - No path separators (the directory is given separately)
//   - No control characters
func ValidateFilePrefix(prefix string) error {
	if prefix == "" {
		return Configuration("filename prefix is required")
	}
	if strings.ContainsAny(prefix, `/\`) {
		return Configuration("filename prefix cannot contain path separators: %q", prefix)
	}
	for _, r := range prefix {
		if unicode.IsControl(r) {
			return Configuration("filename prefix contains invalid control characters")
		}
	}
	return nil
}

// ValidateOutputPath validates the path a figure is written to.
func ValidateOutputPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return Configuration("output path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return Configuration("output path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return Configuration("output path contains invalid control characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, `\`) {
		return Configuration("output path names a directory: %q", path)
	}
	return nil
}
