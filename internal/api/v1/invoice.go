package v1

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/flexprice/milkbill/internal/api/dto"
	ierr "github.com/flexprice/milkbill/internal/errors"
	"github.com/flexprice/milkbill/internal/logger"
	"github.com/flexprice/milkbill/internal/service"
	"github.com/flexprice/milkbill/internal/types"
	"github.com/gin-gonic/gin"
)

const documentFilename = "Customer_invoice.pdf"

type InvoiceHandler struct {
	billingService service.BillingService
	logger         *logger.Logger
}

func NewInvoiceHandler(billingService service.BillingService, logger *logger.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		billingService: billingService,
		logger:         logger,
	}
}

func (h *InvoiceHandler) bind(c *gin.Context) (*dto.InvoiceBatchRequest, bool) {
	var req dto.InvoiceBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorw("failed to bind request", "error", err)
		c.Error(ierr.WithError(err).WithHint("Invalid request payload").Mark(ierr.ErrValidation))
		return nil, false
	}
	if err := req.Validate(); err != nil {
		c.Error(err)
		return nil, false
	}
	return &req, true
}

// GetInvoiceData godoc
// @Summary Build invoice data
// @Description Parse customer delivery records and return one invoice record per customer
// @Tags Invoices
// @Accept json
// @Produce json
// @Param request body dto.InvoiceBatchRequest true "Customer records"
// @Success 200 {object} dto.InvoiceBatchResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /invoices/data [post]
func (h *InvoiceHandler) GetInvoiceData(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}

	result, err := h.billingService.BuildInvoices(c.Request.Context(), req.ToBatchRequest())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.NewInvoiceBatchResponse(result))
}

// GenerateInvoicePDF godoc
// @Summary Generate the invoice document
// @Description Render all invoices on a grid followed by a customer summary page
// @Tags Invoices
// @Accept json
// @Produce application/pdf
// @Param request body dto.InvoiceBatchRequest true "Customer records"
// @Param url query bool false "Upload the document and return a presigned URL instead of the PDF"
// @Success 200 {file} application/pdf
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 429 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /invoices/pdf [post]
func (h *InvoiceHandler) GenerateInvoicePDF(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}

	batch := req.ToBatchRequest()
	batch.Upload = c.Query("url") == "true"

	doc, err := h.billingService.GenerateDocument(c.Request.Context(), batch)
	if err != nil {
		h.logger.Errorw("failed to generate invoice pdf", "error", err, "request_id", types.GetRequestID(c.Request.Context()))
		c.Error(err)
		return
	}

	c.Header(types.HeaderDocumentID, doc.ID)
	if batch.Upload {
		c.JSON(http.StatusOK, dto.NewDocumentResponse(doc))
		return
	}

	h.sendPDF(c, doc)
}

// GetInvoicePDF godoc
// @Summary Get a generated document
// @Description Retrieve a previously generated invoice document by its ID
// @Tags Invoices
// @Param id path string true "Document ID"
// @Success 200 {file} application/pdf
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /invoices/pdf/{id} [get]
func (h *InvoiceHandler) GetInvoicePDF(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("invalid document id").WithHint("invalid document id").Mark(ierr.ErrValidation))
		return
	}

	doc, err := h.billingService.GetDocument(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.Header(types.HeaderDocumentID, doc.ID)
	h.sendPDF(c, doc)
}

func (h *InvoiceHandler) sendPDF(c *gin.Context, doc *service.Document) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", documentFilename))
	c.Header("Content-Length", strconv.Itoa(len(doc.Data)))
	c.Data(http.StatusOK, "application/pdf", doc.Data)
}
