// Package layout holds the placement arithmetic of the billing document.
// Nothing here draws; the renderer asks where things go and draws them.
//
// Coordinates are PDF points with the origin at the bottom-left corner of
// the page, so y decreases while moving down a page.
package layout

import (
	ierr "github.com/flexprice/milkbill/internal/errors"
)

// Grid tiles invoices onto fixed-size pages, Rows x Cols per page
type Grid struct {
	Rows       int
	Cols       int
	PageWidth  float64
	PageHeight float64
	Margin     float64
}

// PageCell is where invoice Index lands
type PageCell struct {
	Index           int
	Row             int
	Col             int
	Page            int
	OriginX         float64
	OriginY         float64
	PageBreakBefore bool
}

func (g Grid) Validate() error {
	if g.Rows < 1 || g.Cols < 1 {
		return ierr.NewErrorf("grid %dx%d must have at least one row and one column", g.Rows, g.Cols).
			WithHint("Layout rows and cols must be positive").
			Mark(ierr.ErrValidation)
	}
	if g.PageWidth <= 0 || g.PageHeight <= 0 {
		return ierr.NewErrorf("page %.2fx%.2f has no area", g.PageWidth, g.PageHeight).
			WithHint("Paper size must be positive").
			Mark(ierr.ErrValidation)
	}
	if g.Margin < 0 {
		return ierr.NewError("negative margin").
			WithHint("Layout margin must not be negative").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// PerPage is the number of invoices on a full page
func (g Grid) PerPage() int {
	return g.Rows * g.Cols
}

func (g Grid) CellWidth() float64 {
	return g.PageWidth / float64(g.Cols)
}

func (g Grid) CellHeight() float64 {
	return g.PageHeight / float64(g.Rows)
}

// Place computes the cell of the invoice at linear index i (0-based).
// Cells fill left to right, then top to bottom, and a new page starts
// before every positive multiple of PerPage.
func (g Grid) Place(i int) PageCell {
	cellWidth := g.CellWidth()
	cellHeight := g.CellHeight()

	col := i % g.Cols
	row := (i / g.Cols) % g.Rows

	return PageCell{
		Index:           i,
		Row:             row,
		Col:             col,
		Page:            i / g.PerPage(),
		OriginX:         float64(col)*cellWidth + g.Margin,
		OriginY:         g.PageHeight - float64(row+1)*cellHeight + cellHeight - g.Margin,
		PageBreakBefore: i != 0 && i%g.PerPage() == 0,
	}
}

// InvoicePages is the number of pages n invoices occupy
func (g Grid) InvoicePages(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + g.PerPage() - 1) / g.PerPage()
}

// PageCount is the page total of a document with n invoices and a
// single-page summary
func (g Grid) PageCount(n int) int {
	return g.InvoicePages(n) + 1
}
