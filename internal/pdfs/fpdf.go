package pdfs

import (
	"bytes"
	"io"
	"time"

	ierr "github.com/flexprice/milkbill/internal/errors"
	"github.com/go-pdf/fpdf"
)

const orientationPortrait = "P"

// FpdfWriter implements Writer on top of go-pdf/fpdf with the core fonts.
// fpdf measures y from the top of the page, so every y is flipped on the
// way in.
type FpdfWriter struct {
	paper     PaperSize
	pdf       *fpdf.Fpdf
	translate func(string) string
	output    []byte
	closed    bool
}

var _ Writer = (*FpdfWriter)(nil)

// Metadata is written to the document info dictionary
type Metadata struct {
	Title  string
	Author string
}

// NewFpdfWriter creates an empty portrait document of the given paper size.
// The document has no pages until AddBlankPage is called.
func NewFpdfWriter(paper PaperSize, meta Metadata) *FpdfWriter {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: orientationPortrait,
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: paper.Width, Ht: paper.Height},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetCreator("milkbill", true)
	if meta.Title != "" {
		pdf.SetTitle(meta.Title, true)
	}
	if meta.Author != "" {
		pdf.SetAuthor(meta.Author, true)
	}
	// fixed metadata keeps the output byte-stable for the same input
	pdf.SetCreationDate(time.Unix(0, 0).UTC())
	pdf.SetModificationDate(time.Unix(0, 0).UTC())
	pdf.SetCatalogSort(true)

	return &FpdfWriter{
		paper:     paper,
		pdf:       pdf,
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

func (w *FpdfWriter) PaperSize() PaperSize {
	return w.paper
}

func (w *FpdfWriter) Orientation() string {
	return orientationPortrait
}

func (w *FpdfWriter) AddBlankPage() {
	w.pdf.AddPage()
}

func (w *FpdfWriter) PageCount() int {
	return w.pdf.PageCount()
}

func (w *FpdfWriter) SetFont(family string, style string, size float64) {
	w.pdf.SetFont(family, style, size)
}

func (w *FpdfWriter) Text(x float64, y float64, text string) {
	w.pdf.Text(x, w.flip(y), w.translate(text))
}

func (w *FpdfWriter) Line(x1 float64, y1 float64, x2 float64, y2 float64) {
	w.pdf.Line(x1, w.flip(y1), x2, w.flip(y2))
}

func (w *FpdfWriter) WriteTo(out io.Writer) (int64, error) {
	b, err := w.ProduceBytes()
	if err != nil {
		return 0, err
	}
	n, err := out.Write(b)
	if err != nil {
		return int64(n), ierr.WithError(err).
			WithHint("Failed to write PDF document").
			Mark(ierr.ErrSystem)
	}
	return int64(n), nil
}

func (w *FpdfWriter) WriteToFile(filepath string) error {
	b, err := w.ProduceBytes()
	if err != nil {
		return err
	}
	if err := writeFile(filepath, b); err != nil {
		return ierr.WithError(err).
			WithHintf("Failed to write PDF document to %s", filepath).
			Mark(ierr.ErrSystem)
	}
	return nil
}

// ProduceBytes closes the document and returns its bytes. Later calls return
// the same bytes.
func (w *FpdfWriter) ProduceBytes() ([]byte, error) {
	if err := w.Close(); err != nil {
		return nil, err
	}
	if w.output != nil {
		return w.output, nil
	}

	var buf bytes.Buffer
	if err := w.pdf.Output(&buf); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to render PDF document").
			Mark(ierr.ErrSystem)
	}
	w.output = buf.Bytes()
	return w.output, nil
}

func (w *FpdfWriter) Close() error {
	if !w.closed {
		w.closed = true
		if w.pdf.PageCount() == 0 {
			w.pdf.AddPage()
		}
		w.pdf.Close()
	}
	if err := w.pdf.Error(); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to render PDF document").
			Mark(ierr.ErrSystem)
	}
	return nil
}

func (w *FpdfWriter) flip(y float64) float64 {
	return w.paper.Height - y
}
