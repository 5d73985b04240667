package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/flexprice/milkbill/internal/domain/invoice"
	ierr "github.com/flexprice/milkbill/internal/errors"
	"github.com/flexprice/milkbill/internal/pdfs"
	"github.com/flexprice/milkbill/internal/s3"
	"github.com/flexprice/milkbill/internal/testutil"
	"github.com/flexprice/milkbill/internal/types"
	"github.com/h2non/filetype"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type BillingServiceSuite struct {
	testutil.BaseServiceTestSuite
	service *billingService
	writer  *testutil.RecordingWriter
}

func TestBillingService(t *testing.T) {
	suite.Run(t, new(BillingServiceSuite))
}

func (s *BillingServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = s.newService(nil)
}

func (s *BillingServiceSuite) newService(store s3.Service) *billingService {
	svc := NewBillingService(NewServiceParams(
		s.GetLogger(),
		s.GetConfig(),
		s.GetCache(),
		store,
		s.GetSentry(),
	)).(*billingService)
	svc.newWriter = func(paper pdfs.PaperSize, _ pdfs.Metadata) pdfs.Writer {
		s.writer = testutil.NewRecordingWriter(paper)
		return s.writer
	}
	return svc
}

func (s *BillingServiceSuite) TestBuildInvoicesDefaults() {
	result, err := s.service.BuildInvoices(s.GetContext(), &BatchRequest{CustomerData: testutil.SampleCustomerData})
	s.Require().NoError(err)

	s.Len(result.Invoices, len(testutil.SampleCustomerData))
	s.Empty(result.Rejected)
	s.True(strings.HasPrefix(result.BatchID, types.UUID_PREFIX_BATCH+"_"))

	gaffer := result.Invoices[0]
	s.Equal("Gaffer", gaffer.ClientName)
	s.Equal("Yousaf Meo", gaffer.CompanyName)
	s.Equal("August - 2024", gaffer.BillingPeriod)
	s.Equal(types.AggregationModeExpansion, gaffer.Mode)
	s.Equal(31, gaffer.DaysInPeriod)
	s.Equal("125.00(L)", gaffer.TotalMilk)
	s.True(decimal.NewFromInt(27500).Equal(gaffer.TotalAmount))

	names := lo.Map(result.Invoices, func(inv *invoice.InvoiceRecord, _ int) string { return inv.ClientName })
	s.Equal("Rang ke Samney", names[len(names)-1])
}

func (s *BillingServiceSuite) TestBuildInvoicesOverrides() {
	price := decimal.NewFromInt(200)
	result, err := s.service.BuildInvoices(s.GetContext(), &BatchRequest{
		CustomerData:  []string{"Saqib:(2-17):9200"},
		CompanyName:   "Meo Dairy",
		BillingPeriod: "February - 2024",
		PricePerLiter: &price,
		Mode:          types.AggregationModeItemized,
	})
	s.Require().NoError(err)
	s.Require().Len(result.Invoices, 1)

	inv := result.Invoices[0]
	s.Equal("Meo Dairy", inv.CompanyName)
	s.Equal("February - 2024", inv.BillingPeriod)
	s.Equal(types.AggregationModeItemized, inv.Mode)
	s.Require().Len(inv.Items, 1)
	s.True(decimal.NewFromInt(6800).Equal(inv.TotalPrice))
	s.True(decimal.NewFromInt(16000).Equal(inv.TotalAmount))
}

func (s *BillingServiceSuite) TestBuildInvoicesSkipsBlankLines() {
	result, err := s.service.BuildInvoices(s.GetContext(), &BatchRequest{
		CustomerData: []string{"", "\t", "Noman:(4-31):00", "   "},
	})
	s.Require().NoError(err)
	s.Require().Len(result.Invoices, 1)
	s.Equal("Noman", result.Invoices[0].ClientName)
	s.Empty(result.Rejected)
}

func (s *BillingServiceSuite) TestBuildInvoicesKeepsNamesVerbatim() {
	result, err := s.service.BuildInvoices(s.GetContext(), &BatchRequest{
		CustomerData: []string{"  Ali Khan :(1-1):0  ", "Noman:(4-31): 00 "},
	})
	s.Require().NoError(err)
	s.Require().Len(result.Invoices, 2)
	s.Equal("  Ali Khan ", result.Invoices[0].ClientName)
	s.Equal("  Ali Khan :(1-1):0  ", result.Invoices[0].RawRecord)
	s.True(decimal.Zero.Equal(result.Invoices[1].PreviousBalance))
}

func (s *BillingServiceSuite) TestBuildInvoicesHashPrefixedNameIsARecord() {
	result, err := s.service.BuildInvoices(s.GetContext(), &BatchRequest{
		CustomerData: []string{"#7 Bakery:(1-31):0", "Noman:(4-31):00"},
	})
	s.Require().NoError(err)
	s.Require().Len(result.Invoices, 2)
	s.Equal("#7 Bakery", result.Invoices[0].ClientName)
	s.True(decimal.NewFromInt(6820).Equal(result.Invoices[0].TotalAmount))
	s.Equal("Noman", result.Invoices[1].ClientName)
	s.Empty(result.Rejected)
}

func (s *BillingServiceSuite) TestBuildInvoicesRejectsOversizedDayCount() {
	for _, record := range []string{"X:(1-20000000):0", "X:(1-1e12):0"} {
		_, err := s.service.BuildInvoices(s.GetContext(), &BatchRequest{
			CustomerData: []string{"Noman:(4-31):00", record},
		})
		s.Require().Error(err, record)
		s.True(ierr.IsMalformedRun(err), record)
	}

	result, err := s.service.BuildInvoices(s.GetContext(), &BatchRequest{
		CustomerData: []string{"Noman:(4-31):00", "X:(1-20000000):0"},
		ErrorPolicy:  types.ErrorPolicySkip,
	})
	s.Require().NoError(err)
	s.Len(result.Invoices, 1)
	s.Require().Len(result.Rejected, 1)
	s.Equal(1, result.Rejected[0].Index)
	s.Equal(ierr.ErrCodeMalformedRun, result.Rejected[0].Code)
}

func (s *BillingServiceSuite) TestBuildInvoicesAbortPolicy() {
	_, err := s.service.BuildInvoices(s.GetContext(), &BatchRequest{
		CustomerData: []string{"Ali:(1-1):0", "bad record", "Cal:(x-1):0"},
	})
	s.Require().Error(err)
	s.True(ierr.IsMalformedRecord(err), "first failure wins")
	s.False(ierr.IsMalformedRun(err))
	s.Contains(err.Error(), "record 1")
	s.Equal(400, ierr.HTTPStatusFromErr(err))
}

func (s *BillingServiceSuite) TestBuildInvoicesSkipPolicy() {
	result, err := s.service.BuildInvoices(s.GetContext(), &BatchRequest{
		CustomerData: []string{"Ali:(1-1):0", "bad record", "Cal:(x-1):0", "Dan:(1-2):abc"},
		ErrorPolicy:  types.ErrorPolicySkip,
	})
	s.Require().NoError(err)
	s.Require().Len(result.Invoices, 1)
	s.Equal("Ali", result.Invoices[0].ClientName)

	s.Require().Len(result.Rejected, 3)
	s.Equal(1, result.Rejected[0].Index)
	s.Equal("bad record", result.Rejected[0].Record)
	s.Equal(ierr.ErrCodeMalformedRecord, result.Rejected[0].Code)
	s.Equal(2, result.Rejected[1].Index)
	s.Equal(ierr.ErrCodeMalformedRun, result.Rejected[1].Code)
	s.NotEmpty(result.Rejected[1].Hint)
	s.Equal(ierr.ErrCodeInvalidBalance, result.Rejected[2].Code)
}

func (s *BillingServiceSuite) TestBuildInvoicesRejectsEmptyBatch() {
	for _, data := range [][]string{nil, {}, {"", "  "}} {
		_, err := s.service.BuildInvoices(s.GetContext(), &BatchRequest{CustomerData: data})
		s.Require().Error(err)
		s.True(ierr.IsValidation(err))
	}

	_, err := s.service.BuildInvoices(s.GetContext(), nil)
	s.True(ierr.IsValidation(err))
}

func (s *BillingServiceSuite) TestBuildInvoicesInvalidMonth() {
	_, err := s.service.BuildInvoices(s.GetContext(), &BatchRequest{
		CustomerData:  []string{"Ali:(1-1):0"},
		BillingPeriod: "Augst - 2024",
	})
	s.Require().Error(err)
	s.True(ierr.IsInvalidMonth(err))
}

func (s *BillingServiceSuite) TestBuildInvoicesInvalidPolicy() {
	_, err := s.service.BuildInvoices(s.GetContext(), &BatchRequest{
		CustomerData: []string{"Ali:(1-1):0"},
		ErrorPolicy:  "retry",
	})
	s.True(ierr.IsValidation(err))
}

func (s *BillingServiceSuite) TestParallelParseKeepsOrder() {
	records := make([]string, 0, 200)
	for i := 0; i < 200; i++ {
		records = append(records, fmt.Sprintf("Client %03d:(%d-31):%d", i, i%5, i))
	}

	sequential, err := s.service.BuildInvoices(s.GetContext(), &BatchRequest{CustomerData: records})
	s.Require().NoError(err)

	s.GetConfig().Billing.ParseWorkers = 8
	parallel, err := s.newService(nil).BuildInvoices(s.GetContext(), &BatchRequest{CustomerData: records})
	s.Require().NoError(err)

	s.Require().Len(parallel.Invoices, len(sequential.Invoices))
	for i := range sequential.Invoices {
		s.Equal(sequential.Invoices[i].ClientName, parallel.Invoices[i].ClientName)
		s.True(sequential.Invoices[i].TotalAmount.Equal(parallel.Invoices[i].TotalAmount))
	}
}

func (s *BillingServiceSuite) TestGenerateDocument() {
	doc, err := s.service.GenerateDocument(s.GetContext(), &BatchRequest{CustomerData: testutil.SampleCustomerData})
	s.Require().NoError(err)

	s.True(strings.HasPrefix(doc.ID, types.UUID_PREFIX_DOCUMENT+"_"))
	s.Equal(len(testutil.SampleCustomerData), doc.InvoiceCount)
	// 13 invoices on a 2x3 grid plus the summary page
	s.Equal(4, doc.PageCount)
	s.Empty(doc.URL)
	s.True(filetype.Is(doc.Data, "pdf"))
	s.True(s.writer.Closed)
	s.Equal(pdfs.A4Size, s.writer.PaperSize())

	_, ok := s.writer.FindText("Grand Total: Rs.228248")
	s.True(ok, "grand total of the sample batch")

	cached, err := s.service.GetDocument(s.GetContext(), doc.ID)
	s.Require().NoError(err)
	s.Equal(doc.Data, cached.Data)
}

func (s *BillingServiceSuite) TestGenerateDocumentSummaryOverride() {
	_, err := s.service.GenerateDocument(s.GetContext(), &BatchRequest{
		CustomerData: []string{"Ali:(1-1):0"},
		Summary:      "columns",
	})
	s.True(ierr.IsValidation(err))

	_, err = s.service.GenerateDocument(s.GetContext(), &BatchRequest{
		CustomerData: []string{"Ali:(1-1):0"},
		Summary:      types.SummaryStrategyOverflow,
	})
	s.Require().NoError(err)
	_, ok := s.writer.FindText("Ali: Rs.220")
	s.True(ok)
}

func (s *BillingServiceSuite) TestGenerateDocumentWithFpdf() {
	svc := NewBillingService(NewServiceParams(s.GetLogger(), s.GetConfig(), s.GetCache(), nil, s.GetSentry()))

	doc, err := svc.GenerateDocument(s.GetContext(), &BatchRequest{CustomerData: testutil.SampleCustomerData})
	s.Require().NoError(err)
	s.True(filetype.Is(doc.Data, "pdf"))
	s.Equal(4, doc.PageCount)
}

func (s *BillingServiceSuite) TestGenerateDocumentUpload() {
	store := s.GetS3()
	svc := s.newService(store)

	isBatchDoc := mock.MatchedBy(func(d *s3.Document) bool {
		return strings.HasPrefix(d.ID, "doc_") && d.Type == s3.DocumentTypeInvoiceBatch && d.Kind == s3.DocumentKindPdf &&
			strings.HasPrefix(d.Metadata["batch_id"], "batch_") && d.Metadata["invoices"] == "1"
	})
	store.On("UploadDocument", mock.Anything, isBatchDoc).Return(nil).Once()
	store.On("GetPresignedUrl", mock.Anything, mock.AnythingOfType("string"), s3.DocumentTypeInvoiceBatch).
		Return("https://bucket.test/doc.pdf", nil).Once()

	doc, err := svc.GenerateDocument(s.GetContext(), &BatchRequest{CustomerData: []string{"Ali:(1-1):0"}, Upload: true})
	s.Require().NoError(err)
	s.Equal("https://bucket.test/doc.pdf", doc.URL)
	store.AssertExpectations(s.T())
}

func (s *BillingServiceSuite) TestGenerateDocumentUploadFails() {
	store := s.GetS3()
	svc := s.newService(store)

	store.On("UploadDocument", mock.Anything, mock.Anything).
		Return(ierr.WithError(errors.New("denied")).Mark(ierr.ErrHTTPClient)).Once()

	_, err := svc.GenerateDocument(s.GetContext(), &BatchRequest{CustomerData: []string{"Ali:(1-1):0"}, Upload: true})
	s.Require().Error(err)
	s.True(ierr.Is(err, ierr.ErrHTTPClient))
	store.AssertNotCalled(s.T(), "GetPresignedUrl", mock.Anything, mock.Anything, mock.Anything)
}

func (s *BillingServiceSuite) TestGenerateDocumentUploadWithoutStorage() {
	_, err := s.service.GenerateDocument(s.GetContext(), &BatchRequest{CustomerData: []string{"Ali:(1-1):0"}, Upload: true})
	s.Require().Error(err)
	s.True(ierr.Is(err, ierr.ErrInvalidOperation))
}

func (s *BillingServiceSuite) TestGenerateDocumentCancelled() {
	ctx := testutil.CanceledContext()

	_, err := s.service.GenerateDocument(ctx, &BatchRequest{CustomerData: []string{"Ali:(1-1):0"}})
	s.Require().Error(err)
	s.True(s.writer.Closed)
}

func (s *BillingServiceSuite) TestGetDocumentNotFound() {
	_, err := s.service.GetDocument(s.GetContext(), "doc_missing")
	s.Require().Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *BillingServiceSuite) TestGetDocumentFallsBackToStorage() {
	store := s.GetS3()
	store.On("GetDocument", mock.Anything, "doc_old", s3.DocumentTypeInvoiceBatch).Return([]byte("%PDF-1.4"), nil).Once()

	doc, err := s.newService(store).GetDocument(s.GetContext(), "doc_old")
	s.Require().NoError(err)
	s.Equal("doc_old", doc.ID)
	s.Equal([]byte("%PDF-1.4"), doc.Data)
}
