package pdfs

import (
	"strings"

	ierr "github.com/flexprice/milkbill/internal/errors"
	"github.com/samber/lo"
)

type PaperSize struct {
	Name   string
	Width  float64 // in `pt` (1" = 72pts)
	Height float64 // in `pt`
}

var (
	LetterSize = PaperSize{Name: "Letter", Width: 612, Height: 792}   // 8.5" x 11"
	A4Size     = PaperSize{Name: "A4", Width: 595.28, Height: 841.89} // 210mm x 297mm

	paperSizes = []PaperSize{A4Size, LetterSize}
)

// PaperSizeByName looks a paper size up by name, ignoring case
func PaperSizeByName(name string) (PaperSize, error) {
	size, ok := lo.Find(paperSizes, func(p PaperSize) bool {
		return strings.EqualFold(p.Name, name)
	})
	if !ok {
		return PaperSize{}, ierr.NewErrorf("unknown paper size %q", name).
			WithHint("Paper size must be one of A4 or Letter").
			WithReportableDetails(map[string]any{
				"allowed": lo.Map(paperSizes, func(p PaperSize, _ int) string { return p.Name }),
			}).
			Mark(ierr.ErrValidation)
	}
	return size, nil
}
