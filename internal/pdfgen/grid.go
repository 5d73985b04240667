package pdfgen

import (
	"context"

	"github.com/flexprice/milkbill/internal/domain/invoice"
	ierr "github.com/flexprice/milkbill/internal/errors"
	"github.com/flexprice/milkbill/internal/layout"
	"github.com/flexprice/milkbill/internal/logger"
	"github.com/flexprice/milkbill/internal/pdfs"
	"github.com/flexprice/milkbill/internal/types"
)

// GridOptions configures the grid renderer
type GridOptions struct {
	Rows    int
	Cols    int
	Margin  float64
	Summary types.SummaryStrategy
}

// GridRenderer tiles invoice cells Rows x Cols per page and closes the
// document with a summary page
type GridRenderer struct {
	opts GridOptions
	log  *logger.Logger
}

// NewGridRenderer creates a new grid renderer
func NewGridRenderer(opts GridOptions, log *logger.Logger) InvoiceRenderer {
	if opts.Summary == "" {
		opts.Summary = types.SummaryStrategySplit
	}
	return &GridRenderer{opts: opts, log: log}
}

func (r *GridRenderer) grid(paper pdfs.PaperSize) layout.Grid {
	return layout.Grid{
		Rows:       r.opts.Rows,
		Cols:       r.opts.Cols,
		PageWidth:  paper.Width,
		PageHeight: paper.Height,
		Margin:     r.opts.Margin,
	}
}

// Render draws every invoice in order, then the summary page. Cells are
// emitted strictly in invoice order so the output is deterministic.
func (r *GridRenderer) Render(ctx context.Context, w pdfs.Writer, invoices []*invoice.InvoiceRecord) error {
	if err := r.opts.Summary.Validate(); err != nil {
		return err
	}

	paper := w.PaperSize()
	grid := r.grid(paper)
	if err := grid.Validate(); err != nil {
		return err
	}

	entries := make([]layout.SummaryEntry, 0, len(invoices))
	for i, inv := range invoices {
		if err := ctx.Err(); err != nil {
			return ierr.WithError(err).
				WithHint("Rendering was cancelled").
				WithReportableDetails(map[string]any{"rendered": i, "total": len(invoices)}).
				Mark(ierr.ErrSystem)
		}
		if inv == nil {
			return ierr.NewErrorf("invoice %d is nil", i).Mark(ierr.ErrValidation)
		}

		cell := grid.Place(i)
		if i == 0 || cell.PageBreakBefore {
			w.AddBlankPage()
		}
		drawCell(w, inv, cell.OriginX, cell.OriginY)

		entries = append(entries, inv.SummaryEntry())
	}

	summary := layout.Summarize(r.opts.Summary, entries, paper.Width, paper.Height)
	drawSummary(w, summary)

	r.log.Debugw("rendered invoice grid",
		"invoices", len(invoices),
		"invoice_pages", grid.InvoicePages(len(invoices)),
		"summary_pages", summary.Pages,
		"summary", r.opts.Summary,
		"grand_total", summary.Total.String())
	return nil
}

func drawCell(w pdfs.Writer, inv *invoice.InvoiceRecord, x, y float64) {
	switch inv.Mode {
	case types.AggregationModeItemized:
		drawItemizedCell(w, inv, x, y)
	default:
		drawExpansionCell(w, inv, x, y)
	}
}
