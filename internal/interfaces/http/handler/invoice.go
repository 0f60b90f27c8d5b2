package handler

import (
	"github.com/gin-gonic/gin"
	financeapp "github.com/jobledger/backend/internal/application/finance"
	"github.com/jobledger/backend/internal/infrastructure/telemetry"
)

// InvoiceHandler handles invoice generation and lifecycle endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService *financeapp.InvoiceService
	metrics        *telemetry.LedgerMetrics
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *financeapp.InvoiceService, metrics *telemetry.LedgerMetrics) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService, metrics: metrics}
}

// Generate handles POST /invoices/generate
// @ID           generateInvoice
// @Summary      Generate an invoice from finished jobs
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        request body financeapp.GenerateInvoiceRequest true "Request body"
// @Success      201 {object} dto.Response{data=financeapp.InvoiceResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /invoices/generate [post]
func (h *InvoiceHandler) Generate(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	var req financeapp.GenerateInvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	invoice, changes, err := h.invoiceService.Generate(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.metrics.RecordInvoiceGenerated(c.Request.Context(), invoice.Total.Currency().String(), invoice.Total.Amount())
	h.Created(c, invoice, changes)
}

// GetByID handles GET /invoices/:id
// @ID           getInvoiceById
// @Summary      Get invoice by ID
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} dto.Response{data=financeapp.InvoiceResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetByID(c.Request.Context(), ownerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// List handles GET /invoices
// @ID           listInvoices
// @Summary      List invoices
// @Tags         invoices
// @Produce      json
// @Param        client_id query string false "Client ID" format(uuid)
// @Param        status query string false "Invoice status" Enums(draft, sent, paid, overdue)
// @Param        currency query string false "Currency code"
// @Param        search query string false "Number search"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Sort field"
// @Param        order_dir query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} dto.Response{data=[]financeapp.InvoiceResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	var filter financeapp.InvoiceListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	invoices, total, err := h.invoiceService.List(c.Request.Context(), ownerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, invoices, total, filter.Page, filter.PageSize)
}

// SetStatus handles PATCH /invoices/:id/status
// @ID           setInvoiceStatus
// @Summary      Change invoice status
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        request body financeapp.SetInvoiceStatusRequest true "Request body"
// @Success      200 {object} dto.Response{data=financeapp.InvoiceResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /invoices/{id}/status [patch]
func (h *InvoiceHandler) SetStatus(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req financeapp.SetInvoiceStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	invoice, changes, err := h.invoiceService.SetStatus(c.Request.Context(), ownerID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Changed(c, invoice, changes)
}

// BulkSetStatus handles PATCH /invoices/bulk/status
// @ID           bulkSetInvoiceStatus
// @Summary      Change the status of several invoices
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        request body financeapp.BulkInvoiceStatusRequest true "Request body"
// @Success      200 {object} dto.Response{data=dto.BulkResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /invoices/bulk/status [patch]
func (h *InvoiceHandler) BulkSetStatus(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	var req financeapp.BulkInvoiceStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.invoiceService.BulkSetStatus(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.metrics.RecordBulk(c.Request.Context(), "invoice_status", len(result.Succeeded), len(result.Failed))
	h.Bulk(c, result)
}

// Delete handles DELETE /invoices/:id. Billed jobs are released.
// @ID           deleteInvoice
// @Summary      Delete an invoice and release its jobs
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	changes, err := h.invoiceService.Delete(c.Request.Context(), ownerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Changed(c, nil, changes)
}

// BulkDelete handles DELETE /invoices/bulk
// @ID           bulkDeleteInvoices
// @Summary      Delete several invoices
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        request body financeapp.BulkIDsRequest true "Request body"
// @Success      200 {object} dto.Response{data=dto.BulkResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /invoices/bulk [delete]
func (h *InvoiceHandler) BulkDelete(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	var req financeapp.BulkIDsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.invoiceService.BulkDelete(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.metrics.RecordBulk(c.Request.Context(), "invoice_delete", len(result.Succeeded), len(result.Failed))
	h.Bulk(c, result)
}
