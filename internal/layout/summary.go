package layout

import (
	"fmt"

	"github.com/flexprice/milkbill/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

const (
	SummaryMarginX        = 30.0
	SummaryTitleOffset    = 50.0
	SummaryTopOffset      = 80.0
	SummaryLineHeight     = 20.0
	SummaryBottomLimit    = 30.0
	SummaryColumnsPerPage = 2

	// gap between the last entry and the grand total
	splitGrandTotalGap    = 2 * SummaryLineHeight
	overflowGrandTotalGap = 100.0

	SummaryTitle = "Customer Summary"
)

// SummaryEntry is one customer line of the summary page. Raw is the
// customer's input record and is not printed.
type SummaryEntry struct {
	ClientName  string
	TotalAmount decimal.Decimal
	Raw         string
}

// SummaryLine is a positioned piece of summary text. Page counts from the
// first summary page.
type SummaryLine struct {
	Page int
	X    float64
	Y    float64
	Text string
}

type SummaryLayout struct {
	Title      SummaryLine
	Lines      []SummaryLine
	GrandTotal SummaryLine
	Total      decimal.Decimal
	Pages      int
}

// SummaryPlacer lays out the summary page entries
type SummaryPlacer interface {
	Strategy() types.SummaryStrategy
	Place(entries []SummaryEntry) SummaryLayout
}

// Summarize places entries on a pageWidth x pageHeight page with the given
// strategy
func Summarize(strategy types.SummaryStrategy, entries []SummaryEntry, pageWidth, pageHeight float64) SummaryLayout {
	return NewSummaryPlacer(strategy, pageWidth, pageHeight).Place(entries)
}

// NewSummaryPlacer returns the placer for strategy. Unknown strategies fall
// back to split.
func NewSummaryPlacer(strategy types.SummaryStrategy, pageWidth, pageHeight float64) SummaryPlacer {
	base := summaryPage{width: pageWidth, height: pageHeight}
	if strategy == types.SummaryStrategyOverflow {
		return &overflowPlacer{summaryPage: base}
	}
	return &splitPlacer{summaryPage: base}
}

// EntryText is the printed form of an entry, amounts truncated to rupees
func EntryText(e SummaryEntry) string {
	return fmt.Sprintf("%s: Rs.%d", e.ClientName, types.TruncateMoney(e.TotalAmount))
}

// GrandTotalText is the printed grand total, truncated to rupees
func GrandTotalText(total decimal.Decimal) string {
	return fmt.Sprintf("Grand Total: Rs.%d", types.TruncateMoney(total))
}

// GrandTotal sums the entry amounts as given. Entries carry each invoice's
// already rounded total, so only the printed text truncates further.
func GrandTotal(entries []SummaryEntry) decimal.Decimal {
	return lo.Reduce(entries, func(acc decimal.Decimal, e SummaryEntry, _ int) decimal.Decimal {
		return acc.Add(e.TotalAmount)
	}, decimal.Zero)
}

type summaryPage struct {
	width  float64
	height float64
}

func (p summaryPage) title() SummaryLine {
	return SummaryLine{X: SummaryMarginX, Y: p.height - SummaryTitleOffset, Text: SummaryTitle}
}

func (p summaryPage) top() float64 {
	return p.height - SummaryTopOffset
}

// splitPlacer halves the entries by count. Both columns start at the top and
// grow independently; a column longer than the page runs past the bottom edge.
type splitPlacer struct {
	summaryPage
}

func (p *splitPlacer) Strategy() types.SummaryStrategy {
	return types.SummaryStrategySplit
}

func (p *splitPlacer) Place(entries []SummaryEntry) SummaryLayout {
	half := len(entries) / 2
	left, right := entries[:half], entries[half:]

	lines := make([]SummaryLine, 0, len(entries))
	lines = append(lines, p.column(left, SummaryMarginX)...)
	lines = append(lines, p.column(right, p.width/2+SummaryMarginX)...)

	longest := lo.Max([]int{len(left), len(right)})
	total := GrandTotal(entries)

	return SummaryLayout{
		Title: p.title(),
		Lines: lines,
		GrandTotal: SummaryLine{
			X:    SummaryMarginX,
			Y:    p.top() - float64(longest)*SummaryLineHeight - splitGrandTotalGap,
			Text: GrandTotalText(total),
		},
		Total: total,
		Pages: 1,
	}
}

func (p *splitPlacer) column(entries []SummaryEntry, x float64) []SummaryLine {
	return lo.Map(entries, func(e SummaryEntry, i int) SummaryLine {
		return SummaryLine{
			X:    x,
			Y:    p.top() - float64(i)*SummaryLineHeight,
			Text: EntryText(e),
		}
	})
}

// overflowPlacer runs one column down the page and wraps to the next column
// once y drops below the bottom limit. After SummaryColumnsPerPage columns
// the next column opens a new page.
type overflowPlacer struct {
	summaryPage
}

func (p *overflowPlacer) Strategy() types.SummaryStrategy {
	return types.SummaryStrategyOverflow
}

func (p *overflowPlacer) Place(entries []SummaryEntry) SummaryLayout {
	page, col := 0, 0
	y := p.top()

	lines := make([]SummaryLine, 0, len(entries))
	for _, e := range entries {
		if y < SummaryBottomLimit {
			col++
			y = p.top()
			if col == SummaryColumnsPerPage {
				page++
				col = 0
			}
		}
		lines = append(lines, SummaryLine{
			Page: page,
			X:    p.columnX(col),
			Y:    y,
			Text: EntryText(e),
		})
		y -= SummaryLineHeight
	}

	total := GrandTotal(entries)
	return SummaryLayout{
		Title:      p.title(),
		Lines:      lines,
		GrandTotal: SummaryLine{Page: page, X: p.columnX(col), Y: y - overflowGrandTotalGap, Text: GrandTotalText(total)},
		Total:      total,
		Pages:      page + 1,
	}
}

func (p *overflowPlacer) columnX(col int) float64 {
	return SummaryMarginX + float64(col)*(p.width/2)
}
