package sink

import (
	"bufio"
	"bytes"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"

	"github.com/matzehuels/drapemap/pkg/errors"
	"github.com/matzehuels/drapemap/pkg/observability"
)

// Option configures Write and Encode.
type Option func(*writer)

type writer struct {
	format       Format
	widthInches  float64
	heightInches float64
	jpegQuality  int
	flattenOnto  color.Color
}

// WithFormat sets the output format. Without it the format comes from the
// file extension.
func WithFormat(f Format) Option { return func(w *writer) { w.format = f } }

// WithPhysicalSize sets the figure size in inches, used for PDF page size.
func WithPhysicalSize(width, height float64) Option {
	return func(w *writer) { w.widthInches, w.heightInches = width, height }
}

// WithJPEGQuality sets the JPEG quality (default 95).
func WithJPEGQuality(q int) Option { return func(w *writer) { w.jpegQuality = q } }

// WithFlatten composites the image onto c before encoding formats that
// cannot store alpha (default white).
func WithFlatten(c color.Color) Option { return func(w *writer) { w.flattenOnto = c } }

func newWriter(opts []Option) *writer {
	w := &writer{jpegQuality: 95, flattenOnto: color.White}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Encode writes img to out in the configured format. WithFormat is
// required.
func Encode(out io.Writer, img image.Image, opts ...Option) error {
	w := newWriter(opts)
	if w.format == "" {
		return errors.Configuration("no figure format given")
	}
	return w.encode(out, img)
}

func (w *writer) encode(out io.Writer, img image.Image) error {
	if w.format == FormatPDF {
		return w.encodePDF(out, img)
	}
	f, err := w.format.imaging()
	if err != nil {
		return err
	}
	if !w.format.SupportsAlpha() {
		b := img.Bounds()
		img = imaging.Overlay(imaging.New(b.Dx(), b.Dy(), w.flattenOnto), img, image.Pt(0, 0), 1)
	}
	if err := imaging.Encode(out, img, f, imaging.JPEGQuality(w.jpegQuality)); err != nil {
		return errors.Wrap(errors.ErrCodeData, err, "encode %s", w.format)
	}
	return nil
}

func (w *writer) encodePDF(out io.Writer, img image.Image) error {
	b := img.Bounds()
	wd, ht := w.widthInches, w.heightInches
	if wd <= 0 || ht <= 0 {
		// fall back to 100 dpi
		wd, ht = float64(b.Dx())/100, float64(b.Dy())/100
	}

	var png bytes.Buffer
	if err := imaging.Encode(&png, img, imaging.PNG); err != nil {
		return errors.Wrap(errors.ErrCodeData, err, "encode pdf image")
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "in",
		Size:           gofpdf.SizeType{Wd: wd, Ht: ht},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("drapemap", true)
	pdf.AddPage()
	opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	pdf.RegisterImageOptionsReader("figure", opt, &png)
	pdf.ImageOptions("figure", 0, 0, wd, ht, false, opt, 0, "")
	if err := pdf.Output(out); err != nil {
		return errors.Wrap(errors.ErrCodeData, err, "encode pdf")
	}
	return nil
}

// Write encodes img to path atomically. The parent directory must exist.
func Write(path string, img image.Image, opts ...Option) (err error) {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	w := newWriter(opts)
	if w.format == "" {
		if w.format, err = FormatFromPath(path); err != nil {
			return err
		}
	}

	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp := filepath.Join(dir, "."+base+"."+uuid.NewString()+".tmp")
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return errors.Wrap(errors.ErrCodeData, err, "create %s", path)
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmp)
			observability.Sink().OnWriteError(path, string(w.format), err)
		}
	}()

	bw := bufio.NewWriter(f)
	if err = w.encode(bw, img); err != nil {
		return err
	}
	if err = bw.Flush(); err != nil {
		return errors.Wrap(errors.ErrCodeData, err, "write %s", path)
	}
	if err = f.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeData, err, "close %s", path)
	}
	if err = os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Wrap(errors.ErrCodeData, err, "rename to %s", path)
	}
	if fi, statErr := os.Stat(path); statErr == nil {
		observability.Sink().OnWrite(path, string(w.format), fi.Size())
	}
	return nil
}
