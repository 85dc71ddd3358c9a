package sink

import (
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/drapemap/pkg/errors"
)

// Format is an output encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatGIF  Format = "gif"
	FormatTIFF Format = "tiff"
	FormatBMP  Format = "bmp"
	FormatPDF  Format = "pdf"
)

// Formats lists the supported format names.
var Formats = []Format{FormatPNG, FormatJPEG, FormatGIF, FormatTIFF, FormatBMP, FormatPDF}

// ParseFormat accepts a format name or extension, with or without a dot,
// in any case.
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
	switch name {
	case "pdf":
		return FormatPDF, nil
	case "jpg":
		return FormatJPEG, nil
	case "tif":
		return FormatTIFF, nil
	}
	for _, f := range Formats {
		if string(f) == name {
			return f, nil
		}
	}
	return "", errors.Configuration("unsupported figure format %q", s)
}

// FormatFromPath derives the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", errors.Configuration("cannot infer figure format from %q: no extension", path)
	}
	return ParseFormat(ext)
}

// Extension returns the canonical file extension, with the dot.
func (f Format) Extension() string {
	switch f {
	case FormatJPEG:
		return ".jpg"
	case FormatTIFF:
		return ".tif"
	}
	return "." + string(f)
}

// SupportsAlpha reports whether the encoding keeps transparency.
func (f Format) SupportsAlpha() bool {
	switch f {
	case FormatPNG, FormatTIFF, FormatGIF, FormatPDF:
		return true
	}
	return false
}

func (f Format) imaging() (imaging.Format, error) {
	switch f {
	case FormatPNG:
		return imaging.PNG, nil
	case FormatJPEG:
		return imaging.JPEG, nil
	case FormatGIF:
		return imaging.GIF, nil
	case FormatTIFF:
		return imaging.TIFF, nil
	case FormatBMP:
		return imaging.BMP, nil
	}
	return 0, errors.Configuration("format %q has no raster encoder", f)
}
