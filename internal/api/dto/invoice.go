package dto

import (
	"github.com/flexprice/milkbill/internal/domain/invoice"
	"github.com/flexprice/milkbill/internal/service"
	"github.com/flexprice/milkbill/internal/types"
	"github.com/flexprice/milkbill/internal/validator"
	"github.com/shopspring/decimal"
)

// InvoiceBatchRequest is a batch of raw customer records plus optional
// overrides of the configured billing defaults
type InvoiceBatchRequest struct {
	// customer_data holds one record per customer, "<name>:(<qty>-<days>)...:<balance>"
	CustomerData []string `json:"customer_data" validate:"required,min=1"`

	// company_name printed under every client name
	CompanyName string `json:"company_name,omitempty"`

	// date is the billing period label, "<Month> - <Year>"
	Date string `json:"date,omitempty"`

	MilkPricePerLiter *decimal.Decimal `json:"milk_price_per_liter,omitempty"`

	Mode        types.AggregationMode `json:"mode,omitempty"`
	ErrorPolicy types.ErrorPolicy     `json:"error_policy,omitempty"`

	// summary is only used when rendering documents
	Summary types.SummaryStrategy `json:"summary,omitempty"`
}

func (r *InvoiceBatchRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.Mode != "" {
		if err := r.Mode.Validate(); err != nil {
			return err
		}
	}
	if r.ErrorPolicy != "" {
		if err := r.ErrorPolicy.Validate(); err != nil {
			return err
		}
	}
	if r.Summary != "" {
		if err := r.Summary.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (r *InvoiceBatchRequest) ToBatchRequest() *service.BatchRequest {
	return &service.BatchRequest{
		CustomerData:  r.CustomerData,
		CompanyName:   r.CompanyName,
		BillingPeriod: r.Date,
		PricePerLiter: r.MilkPricePerLiter,
		Mode:          r.Mode,
		ErrorPolicy:   r.ErrorPolicy,
		Summary:       r.Summary,
	}
}

type InvoiceBatchResponse struct {
	BatchID  string                   `json:"batch_id"`
	Items    []*invoice.InvoiceRecord `json:"items"`
	Rejected []service.RejectedRecord `json:"rejected"`
	Count    int                      `json:"count"`
}

func NewInvoiceBatchResponse(result *service.BatchResult) *InvoiceBatchResponse {
	return &InvoiceBatchResponse{
		BatchID:  result.BatchID,
		Items:    result.Invoices,
		Rejected: result.Rejected,
		Count:    len(result.Invoices),
	}
}

// DocumentResponse is returned instead of the PDF body when a presigned URL
// is requested
type DocumentResponse struct {
	DocumentID   string                   `json:"document_id"`
	PresignedURL string                   `json:"presigned_url"`
	PageCount    int                      `json:"page_count"`
	InvoiceCount int                      `json:"invoice_count"`
	Rejected     []service.RejectedRecord `json:"rejected,omitempty"`
}

func NewDocumentResponse(doc *service.Document) *DocumentResponse {
	return &DocumentResponse{
		DocumentID:   doc.ID,
		PresignedURL: doc.URL,
		PageCount:    doc.PageCount,
		InvoiceCount: doc.InvoiceCount,
		Rejected:     doc.Rejected,
	}
}
