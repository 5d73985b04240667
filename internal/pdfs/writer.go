package pdfs

import "io"

const (
	FontHelvetica = "Helvetica"

	StyleRegular = ""
	StyleBold    = "B"
)

// Writer is a minimal append-only PDF surface. There is no page navigation.
// Coordinates are points from the bottom-left corner of the current page.
type Writer interface {
	PaperSize() PaperSize
	Orientation() string

	AddBlankPage()
	PageCount() int

	SetFont(family string, style string, size float64)

	Text(x float64, y float64, text string)
	Line(x1 float64, y1 float64, x2 float64, y2 float64)

	WriteTo(w io.Writer) (int64, error)
	WriteToFile(filepath string) error
	ProduceBytes() ([]byte, error)

	// Close finalizes the document. Calling it again is a no-op.
	Close() error
}
