package testutil

import (
	"fmt"
	"io"
	"os"

	"github.com/flexprice/milkbill/internal/pdfs"
	"github.com/samber/lo"
)

type OpKind string

const (
	OpPage OpKind = "page"
	OpFont OpKind = "font"
	OpText OpKind = "text"
	OpLine OpKind = "line"
)

// Op is one recorded drawing command. Page is 1-based and zero before the
// first AddBlankPage.
type Op struct {
	Kind  OpKind
	Page  int
	Font  string
	Style string
	Size  float64
	X     float64
	Y     float64
	X2    float64
	Y2    float64
	Text  string
}

// RecordingWriter is a pdfs.Writer that keeps every command in order so
// tests can assert exact positions
type RecordingWriter struct {
	Paper  pdfs.PaperSize
	Ops    []Op
	Closed bool

	page  int
	font  string
	style string
	size  float64
}

var _ pdfs.Writer = (*RecordingWriter)(nil)

func NewRecordingWriter(paper pdfs.PaperSize) *RecordingWriter {
	return &RecordingWriter{Paper: paper}
}

func (w *RecordingWriter) PaperSize() pdfs.PaperSize {
	return w.Paper
}

func (w *RecordingWriter) Orientation() string {
	return "P"
}

func (w *RecordingWriter) AddBlankPage() {
	w.page++
	w.Ops = append(w.Ops, Op{Kind: OpPage, Page: w.page})
}

func (w *RecordingWriter) PageCount() int {
	return w.page
}

func (w *RecordingWriter) SetFont(family string, style string, size float64) {
	w.font, w.style, w.size = family, style, size
	w.Ops = append(w.Ops, Op{Kind: OpFont, Page: w.page, Font: family, Style: style, Size: size})
}

func (w *RecordingWriter) Text(x float64, y float64, text string) {
	w.Ops = append(w.Ops, Op{
		Kind:  OpText,
		Page:  w.page,
		Font:  w.font,
		Style: w.style,
		Size:  w.size,
		X:     x,
		Y:     y,
		Text:  text,
	})
}

func (w *RecordingWriter) Line(x1 float64, y1 float64, x2 float64, y2 float64) {
	w.Ops = append(w.Ops, Op{Kind: OpLine, Page: w.page, X: x1, Y: y1, X2: x2, Y2: y2})
}

func (w *RecordingWriter) WriteTo(out io.Writer) (int64, error) {
	b, _ := w.ProduceBytes()
	n, err := out.Write(b)
	return int64(n), err
}

func (w *RecordingWriter) WriteToFile(path string) error {
	b, _ := w.ProduceBytes()
	return os.WriteFile(path, b, 0o644)
}

// ProduceBytes returns a stub document that still sniffs as a PDF
func (w *RecordingWriter) ProduceBytes() ([]byte, error) {
	_ = w.Close()
	return []byte(fmt.Sprintf("%%PDF-1.4\n%% pages=%d ops=%d\n%%%%EOF\n", w.page, len(w.Ops))), nil
}

func (w *RecordingWriter) Close() error {
	w.Closed = true
	return nil
}

// Texts returns the text commands, optionally restricted to one page
func (w *RecordingWriter) Texts(page int) []Op {
	return lo.Filter(w.Ops, func(op Op, _ int) bool {
		return op.Kind == OpText && (page == 0 || op.Page == page)
	})
}

// Lines returns the line commands, optionally restricted to one page
func (w *RecordingWriter) Lines(page int) []Op {
	return lo.Filter(w.Ops, func(op Op, _ int) bool {
		return op.Kind == OpLine && (page == 0 || op.Page == page)
	})
}

// FindText returns the first text command with the given content
func (w *RecordingWriter) FindText(text string) (Op, bool) {
	return lo.Find(w.Ops, func(op Op) bool {
		return op.Kind == OpText && op.Text == text
	})
}
