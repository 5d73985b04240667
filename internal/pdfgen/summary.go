package pdfgen

import (
	"github.com/flexprice/milkbill/internal/layout"
	"github.com/flexprice/milkbill/internal/pdfs"
)

// drawSummary always opens a fresh page, even when the last invoice page
// is full
func drawSummary(w pdfs.Writer, s layout.SummaryLayout) {
	w.AddBlankPage()
	page := 0

	w.SetFont(pdfs.FontHelvetica, pdfs.StyleBold, 12)
	w.Text(s.Title.X, s.Title.Y, s.Title.Text)

	w.SetFont(pdfs.FontHelvetica, pdfs.StyleRegular, 10)
	for _, line := range s.Lines {
		for page < line.Page {
			w.AddBlankPage()
			page++
		}
		w.Text(line.X, line.Y, line.Text)
	}

	for page < s.GrandTotal.Page {
		w.AddBlankPage()
		page++
	}
	w.SetFont(pdfs.FontHelvetica, pdfs.StyleBold, 12)
	w.Text(s.GrandTotal.X, s.GrandTotal.Y, s.GrandTotal.Text)
}
