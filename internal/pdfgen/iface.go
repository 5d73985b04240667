package pdfgen

import (
	"context"

	"github.com/flexprice/milkbill/internal/domain/invoice"
	"github.com/flexprice/milkbill/internal/pdfs"
)

// InvoiceRenderer draws a batch of invoices onto a writer. The writer is
// owned by the caller, who closes it.
type InvoiceRenderer interface {
	Render(ctx context.Context, w pdfs.Writer, invoices []*invoice.InvoiceRecord) error
}
