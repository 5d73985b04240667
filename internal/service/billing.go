package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/flexprice/milkbill/internal/cache"
	"github.com/flexprice/milkbill/internal/domain/delivery"
	"github.com/flexprice/milkbill/internal/domain/invoice"
	ierr "github.com/flexprice/milkbill/internal/errors"
	"github.com/flexprice/milkbill/internal/pdfgen"
	"github.com/flexprice/milkbill/internal/pdfs"
	"github.com/flexprice/milkbill/internal/s3"
	"github.com/flexprice/milkbill/internal/sentry"
	"github.com/flexprice/milkbill/internal/types"
	"github.com/h2non/filetype"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc/iter"
)

// BillingService turns raw delivery records into invoices and invoice
// documents
type BillingService interface {
	// BuildInvoices parses and aggregates a batch of records
	BuildInvoices(ctx context.Context, req *BatchRequest) (*BatchResult, error)

	// GenerateDocument builds the batch and renders it into a PDF document
	GenerateDocument(ctx context.Context, req *BatchRequest) (*Document, error)

	// GetDocument returns a previously generated document
	GetDocument(ctx context.Context, id string) (*Document, error)
}

// BatchRequest is one billing run. Empty overrides fall back to the billing
// section of the configuration.
type BatchRequest struct {
	CustomerData  []string
	CompanyName   string
	BillingPeriod string
	PricePerLiter *decimal.Decimal
	Mode          types.AggregationMode
	ErrorPolicy   types.ErrorPolicy

	// document only
	Summary types.SummaryStrategy
	Upload  bool
}

// RejectedRecord is a record dropped under the skip policy
type RejectedRecord struct {
	Index   int    `json:"index"`
	Record  string `json:"record"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

type BatchResult struct {
	BatchID  string                   `json:"batch_id"`
	Invoices []*invoice.InvoiceRecord `json:"items"`
	Rejected []RejectedRecord         `json:"rejected"`
}

// Document is a rendered invoice batch
type Document struct {
	ID           string           `json:"document_id"`
	Data         []byte           `json:"-"`
	PageCount    int              `json:"page_count"`
	InvoiceCount int              `json:"invoice_count"`
	URL          string           `json:"presigned_url,omitempty"`
	Rejected     []RejectedRecord `json:"rejected,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

// WriterFactory opens a fresh drawing surface for one document
type WriterFactory func(paper pdfs.PaperSize, meta pdfs.Metadata) pdfs.Writer

type billingService struct {
	ServiceParams
	newWriter WriterFactory
}

func NewBillingService(params ServiceParams) BillingService {
	return &billingService{
		ServiceParams: params,
		newWriter: func(paper pdfs.PaperSize, meta pdfs.Metadata) pdfs.Writer {
			return pdfs.NewFpdfWriter(paper, meta)
		},
	}
}

// numberedRecord keeps the position of a record in the caller's input
type numberedRecord struct {
	index int
	text  string
}

type recordResult struct {
	record  numberedRecord
	invoice *invoice.InvoiceRecord
	err     error
}

func (s *billingService) BuildInvoices(ctx context.Context, req *BatchRequest) (*BatchResult, error) {
	if req == nil {
		return nil, ierr.NewError("batch request is required").
			WithHint("Please provide customer data").
			Mark(ierr.ErrValidation)
	}

	records := normalizeRecords(req.CustomerData)
	if len(records) == 0 {
		return nil, ierr.NewError("no customer records").
			WithHint("Customer data is required").
			Mark(ierr.ErrValidation)
	}

	mode := lo.Ternary(req.Mode != "", req.Mode, s.Config.Billing.Mode)
	policy := lo.Ternary(req.ErrorPolicy != "", req.ErrorPolicy, s.Config.Billing.ErrorPolicy)
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	// an unknown month fails here, once, before any record is parsed
	agg, err := invoice.NewAggregator(mode, s.params(req))
	if err != nil {
		return nil, err
	}

	batchID := types.GenerateUUIDWithPrefix(types.UUID_PREFIX_BATCH)
	ctx = types.WithBatchID(ctx, batchID)
	log := s.Logger.With("batch_id", batchID, "request_id", types.GetRequestID(ctx))

	span, _ := s.Sentry.StartSpan(ctx, "parse", map[string]interface{}{
		"records": len(records),
		"mode":    mode,
	})

	results := iter.Mapper[numberedRecord, recordResult]{
		MaxGoroutines: lo.Max([]int{s.Config.Billing.ParseWorkers, 1}),
	}.Map(records, func(rec *numberedRecord) recordResult {
		return buildRecord(agg, *rec)
	})

	result := &BatchResult{
		BatchID:  batchID,
		Invoices: make([]*invoice.InvoiceRecord, 0, len(results)),
		Rejected: make([]RejectedRecord, 0),
	}
	for _, r := range results {
		if r.err == nil {
			result.Invoices = append(result.Invoices, r.invoice)
			continue
		}

		if policy == types.ErrorPolicyAbort {
			err := ierr.WithError(r.err).
				WithMessagef("record %d", r.record.index).
				WithReportableDetails(map[string]any{
					"index":  r.record.index,
					"record": r.record.text,
				}).
				Error()
			sentry.FinishSpan(span, err)
			log.Infow("batch aborted on malformed record",
				"index", r.record.index,
				"code", ierr.RecordErrorCode(r.err),
				"error", r.err)
			return nil, err
		}

		rejected := RejectedRecord{
			Index:   r.record.index,
			Record:  r.record.text,
			Code:    ierr.RecordErrorCode(r.err),
			Message: r.err.Error(),
			Hint:    strings.Join(errors.GetAllHints(r.err), "; "),
		}
		result.Rejected = append(result.Rejected, rejected)
		s.Sentry.AddBreadcrumb(ctx, "billing", "skipped malformed record", map[string]interface{}{
			"index": rejected.Index,
			"code":  rejected.Code,
		})
	}
	sentry.FinishSpan(span, nil)

	log.Infow("built invoices",
		"mode", mode,
		"policy", policy,
		"records", len(records),
		"invoices", len(result.Invoices),
		"rejected", len(result.Rejected))
	return result, nil
}

func buildRecord(agg invoice.Aggregator, rec numberedRecord) recordResult {
	parsed, err := delivery.ParseRecord(rec.text)
	if err != nil {
		return recordResult{record: rec, err: err}
	}
	inv, err := agg.Aggregate(parsed)
	return recordResult{record: rec, invoice: inv, err: err}
}

// normalizeRecords drops lines that are blank after trimming. Every other
// line is kept byte for byte so names survive verbatim; the parser trims the
// numeric fields itself. Indexes refer to the untouched input.
func normalizeRecords(lines []string) []numberedRecord {
	out := make([]numberedRecord, 0, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, numberedRecord{index: i, text: line})
	}
	return out
}

func (s *billingService) params(req *BatchRequest) invoice.Params {
	price := decimal.NewFromFloat(s.Config.Billing.PricePerLiter)
	if req.PricePerLiter != nil {
		price = *req.PricePerLiter
	}
	return invoice.Params{
		CompanyName:   lo.Ternary(req.CompanyName != "", req.CompanyName, s.Config.Billing.CompanyName),
		BillingPeriod: lo.Ternary(req.BillingPeriod != "", req.BillingPeriod, s.Config.Billing.BillingPeriod),
		PricePerLiter: price,
		Rounding:      s.Config.Billing.Rounding,
		MaxDaySlots:   s.Config.Billing.MaxDaySlots,
	}
}

func (s *billingService) GenerateDocument(ctx context.Context, req *BatchRequest) (*Document, error) {
	result, err := s.BuildInvoices(ctx, req)
	if err != nil {
		return nil, err
	}

	summary := lo.Ternary(req.Summary != "", req.Summary, s.Config.Layout.Summary)
	if err := summary.Validate(); err != nil {
		return nil, err
	}
	if req.Upload && s.S3 == nil {
		return nil, ierr.NewError("document storage is disabled").
			WithHint("Presigned URLs need S3 storage to be enabled").
			Mark(ierr.ErrInvalidOperation)
	}

	paper, err := pdfs.PaperSizeByName(s.Config.Layout.PaperSize)
	if err != nil {
		return nil, err
	}

	params := s.params(req)
	w := s.newWriter(paper, pdfs.Metadata{
		Title:  fmt.Sprintf("Customer invoices %s", params.BillingPeriod),
		Author: params.CompanyName,
	})
	defer w.Close()

	renderer := pdfgen.NewGridRenderer(pdfgen.GridOptions{
		Rows:    s.Config.Layout.Rows,
		Cols:    s.Config.Layout.Cols,
		Margin:  s.Config.Layout.Margin,
		Summary: summary,
	}, s.Logger)

	span, spanCtx := s.Sentry.StartSpan(ctx, "render", map[string]interface{}{"invoices": len(result.Invoices)})
	err = renderer.Render(spanCtx, w, result.Invoices)
	sentry.FinishSpan(span, err)
	if err != nil {
		return nil, err
	}

	data, err := w.ProduceBytes()
	if err != nil {
		return nil, err
	}
	if !filetype.Is(data, "pdf") {
		return nil, ierr.NewError("rendered document is not a pdf").
			WithHint("Failed to generate the invoice document").
			Mark(ierr.ErrSystem)
	}

	doc := &Document{
		ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_DOCUMENT),
		Data:         data,
		PageCount:    w.PageCount(),
		InvoiceCount: len(result.Invoices),
		Rejected:     result.Rejected,
		CreatedAt:    time.Now().UTC(),
	}
	s.Cache.Set(ctx, cache.GenerateKey(cache.PrefixDocument, doc.ID), doc, s.Config.Cache.DocumentTTL)

	if req.Upload {
		if err := s.upload(ctx, doc, result.BatchID); err != nil {
			return nil, err
		}
	}

	s.Logger.Infow("generated invoice document",
		"document_id", doc.ID,
		"batch_id", result.BatchID,
		"pages", doc.PageCount,
		"invoices", doc.InvoiceCount,
		"bytes", len(doc.Data),
		"uploaded", req.Upload)
	return doc, nil
}

func (s *billingService) upload(ctx context.Context, doc *Document, batchID string) error {
	span, ctx := s.Sentry.StartSpan(ctx, "upload", map[string]interface{}{"document_id": doc.ID})

	object := s3.NewPdfDocument(doc.ID, doc.Data, s3.DocumentTypeInvoiceBatch).
		WithMetadata("batch_id", batchID).
		WithMetadata("invoices", strconv.Itoa(doc.InvoiceCount)).
		WithMetadata("pages", strconv.Itoa(doc.PageCount))
	err := s.S3.UploadDocument(ctx, object)
	if err == nil {
		doc.URL, err = s.S3.GetPresignedUrl(ctx, doc.ID, s3.DocumentTypeInvoiceBatch)
	}
	sentry.FinishSpan(span, err)
	if err != nil {
		s.Sentry.CaptureException(ctx, err)
	}
	return err
}

func (s *billingService) GetDocument(ctx context.Context, id string) (*Document, error) {
	if cached, found := s.Cache.Get(ctx, cache.GenerateKey(cache.PrefixDocument, id)); found {
		if doc, ok := cached.(*Document); ok {
			return doc, nil
		}
	}

	if s.S3 == nil {
		return nil, ierr.NewErrorf("document %s not found", id).
			WithHintf("Document %s was not found or has expired", id).
			Mark(ierr.ErrNotFound)
	}

	data, err := s.S3.GetDocument(ctx, id, s3.DocumentTypeInvoiceBatch)
	if err != nil {
		return nil, err
	}
	return &Document{ID: id, Data: data}, nil
}
