package pdfgen

import (
	"fmt"
	"strconv"

	"github.com/flexprice/milkbill/internal/domain/invoice"
	"github.com/flexprice/milkbill/internal/pdfs"
	"github.com/flexprice/milkbill/internal/types"
	"github.com/shopspring/decimal"
)

// Column offsets are relative to the cell origin and do not scale with the
// cell width.
const (
	colLabel    = 0.0
	colQuantity = 50.0
	colPrice    = 100.0
	tableWidth  = 150.0

	// vertical rules between the expansion table columns
	ruleQuantity = 40.0
	rulePrice    = 90.0

	rowHeight = 10.0
)

func rupees(d decimal.Decimal) string {
	return strconv.FormatInt(types.TruncateMoney(d), 10)
}

// drawExpansionCell prints one row per calendar day, zero rows included
func drawExpansionCell(w pdfs.Writer, inv *invoice.InvoiceRecord, x, y float64) {
	w.SetFont(pdfs.FontHelvetica, pdfs.StyleBold, 10)
	w.Text(x, y, inv.ClientName)

	w.SetFont(pdfs.FontHelvetica, pdfs.StyleRegular, 7)
	w.Text(x, y-12, fmt.Sprintf("%s / %s", inv.CompanyName, inv.BillingPeriod))

	y -= 30
	w.SetFont(pdfs.FontHelvetica, pdfs.StyleBold, 7)
	w.Text(x+colLabel, y, "Day")
	w.Text(x+colQuantity, y, "Milk (L)")
	w.Text(x+colPrice, y, "Price (Rs)")
	w.Line(x, y-2, x+tableWidth, y-2)

	y -= rowHeight
	w.SetFont(pdfs.FontHelvetica, pdfs.StyleRegular, 7)
	for _, row := range inv.CalendarRows() {
		w.Text(x+colLabel, y, strconv.Itoa(row.Day))
		w.Text(x+colQuantity, y, row.Quantity.StringFixed(2))
		w.Text(x+colPrice, y, rupees(row.Quantity.Mul(inv.PricePerLiter)))

		y -= rowHeight
		w.Line(x+ruleQuantity, y+30, x+ruleQuantity, y+7)
		w.Line(x+rulePrice, y+30, x+rulePrice, y+7)
	}
	w.Line(x, y+8, x+tableWidth, y+8)

	w.SetFont(pdfs.FontHelvetica, pdfs.StyleRegular, 9)
	w.Text(x+colLabel, y-5, "Total Milk")
	w.Text(x+colQuantity, y-5, inv.TotalMilk)
	w.Text(x+colPrice, y-5, rupees(inv.TotalPrice))

	y -= 20
	w.Text(x+colLabel, y+5, "Previous Balance")
	w.Text(x+colPrice, y+5, rupees(inv.PreviousBalance))

	y -= 20
	w.Line(x, y+20, x+tableWidth, y+20)
	w.SetFont(pdfs.FontHelvetica, pdfs.StyleBold, 10)
	w.Text(x+colLabel, y+5, "Total Balance")
	w.Text(x+colPrice, y+5, rupees(inv.TotalAmount))
}

// drawItemizedCell prints one row per delivery run
func drawItemizedCell(w pdfs.Writer, inv *invoice.InvoiceRecord, x, y float64) {
	w.SetFont(pdfs.FontHelvetica, pdfs.StyleBold, 10)
	w.Text(x, y, inv.ClientName)

	w.SetFont(pdfs.FontHelvetica, pdfs.StyleRegular, 8)
	w.Text(x, y-12, inv.CompanyName)

	w.SetFont(pdfs.FontHelvetica, pdfs.StyleRegular, 7)
	w.Text(x, y-24, inv.BillingPeriod)

	w.Text(x+colLabel, y-36, "Days-No")
	w.Text(x+colQuantity, y-36, "Milk L")
	w.Text(x+colPrice, y-36, "Amount L")
	w.Line(x, y-38, x+tableWidth, y-38)

	itemY := y - 50
	for _, item := range inv.Items {
		w.Text(x+colLabel, itemY, item.Description)
		w.Text(x+colQuantity, itemY, item.Quantity.String())
		w.Text(x+colPrice, itemY, "Rs."+item.Price.String())
		itemY -= rowHeight
	}
	w.Line(x, itemY+8, x+tableWidth, itemY+8)

	w.Text(x+colLabel, itemY-5, invoice.DaysLabel(inv.TotalDays))
	w.Text(x+colQuantity, itemY-5, inv.TotalMilk)
	w.Text(x+colPrice, itemY-5, rupees(inv.TotalPrice))

	w.Text(x+colLabel, itemY-15, "Previous Balance")
	w.Text(x+colPrice, itemY-15, rupees(inv.PreviousBalance))

	w.Line(x, itemY-25, x+tableWidth, itemY-25)

	w.SetFont(pdfs.FontHelvetica, pdfs.StyleBold, 9)
	w.Text(x+colLabel, itemY-40, "Total Balance")
	w.Text(x+colPrice, itemY-40, rupees(inv.TotalAmount))
}
