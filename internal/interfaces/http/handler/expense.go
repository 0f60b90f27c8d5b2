package handler

import (
	"github.com/gin-gonic/gin"
	financeapp "github.com/jobledger/backend/internal/application/finance"
	"github.com/jobledger/backend/internal/infrastructure/telemetry"
)

// ExpenseHandler handles expense ledger endpoints
type ExpenseHandler struct {
	BaseHandler
	expenseService *financeapp.ExpenseService
	metrics        *telemetry.LedgerMetrics
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService *financeapp.ExpenseService, metrics *telemetry.LedgerMetrics) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService, metrics: metrics}
}

// Create handles POST /expenses
// @ID           createExpense
// @Summary      Record an expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        request body financeapp.CreateExpenseRequest true "Request body"
// @Success      201 {object} dto.Response{data=financeapp.ExpenseResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	var req financeapp.CreateExpenseRequest
	if !h.bindJSON(c, &req) {
		return
	}

	expense, changes, err := h.expenseService.Create(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, expense, changes)
}

// GetByID handles GET /expenses/:id
// @ID           getExpenseById
// @Summary      Get expense by ID
// @Tags         expenses
// @Produce      json
// @Param        id path string true "Expense ID" format(uuid)
// @Success      200 {object} dto.Response{data=financeapp.ExpenseResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /expenses/{id} [get]
func (h *ExpenseHandler) GetByID(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	expense, err := h.expenseService.GetByID(c.Request.Context(), ownerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, expense)
}

// List handles GET /expenses
// @ID           listExpenses
// @Summary      List expenses
// @Tags         expenses
// @Produce      json
// @Param        classification query string false "paid, unpaid or overdue" Enums(paid, unpaid, overdue)
// @Param        supplier_id query string false "Supplier ID" format(uuid)
// @Param        category query string false "Category"
// @Param        source query string false "Expense source" Enums(manual, outsourcing_delivery)
// @Param        currency query string false "Currency code"
// @Param        date_from query string false "Date lower bound" format(date)
// @Param        date_to query string false "Date upper bound" format(date)
// @Param        search query string false "Description search"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Sort field"
// @Param        order_dir query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} dto.Response{data=[]financeapp.ExpenseResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	var filter financeapp.ExpenseListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	expenses, total, err := h.expenseService.List(c.Request.Context(), ownerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, expenses, total, filter.Page, filter.PageSize)
}

// Update handles PATCH /expenses/:id
// @ID           updateExpense
// @Summary      Update an expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        id path string true "Expense ID" format(uuid)
// @Param        request body financeapp.UpdateExpenseRequest true "Request body"
// @Success      200 {object} dto.Response{data=financeapp.ExpenseResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /expenses/{id} [patch]
func (h *ExpenseHandler) Update(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req financeapp.UpdateExpenseRequest
	if !h.bindJSON(c, &req) {
		return
	}

	expense, changes, err := h.expenseService.Update(c.Request.Context(), ownerID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Changed(c, expense, changes)
}

// MarkPaid handles POST /expenses/:id/paid
// @ID           markExpensePaid
// @Summary      Mark an expense paid
// @Tags         expenses
// @Produce      json
// @Param        id path string true "Expense ID" format(uuid)
// @Success      200 {object} dto.Response{data=financeapp.ExpenseResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /expenses/{id}/paid [post]
func (h *ExpenseHandler) MarkPaid(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	expense, changes, err := h.expenseService.MarkPaid(c.Request.Context(), ownerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Changed(c, expense, changes)
}

// BulkMarkPaid handles PATCH /expenses/bulk/paid
// @ID           bulkMarkExpensesPaid
// @Summary      Mark several expenses paid
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        request body financeapp.BulkIDsRequest true "Request body"
// @Success      200 {object} dto.Response{data=dto.BulkResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /expenses/bulk/paid [patch]
func (h *ExpenseHandler) BulkMarkPaid(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	var req financeapp.BulkIDsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.expenseService.BulkMarkPaid(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.metrics.RecordBulk(c.Request.Context(), "expense_paid", len(result.Succeeded), len(result.Failed))
	h.Bulk(c, result)
}

// Delete handles DELETE /expenses/:id
// @ID           deleteExpense
// @Summary      Delete an expense
// @Tags         expenses
// @Produce      json
// @Param        id path string true "Expense ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	changes, err := h.expenseService.Delete(c.Request.Context(), ownerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Changed(c, nil, changes)
}

// BulkDelete handles DELETE /expenses/bulk
// @ID           bulkDeleteExpenses
// @Summary      Delete several expenses
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        request body financeapp.BulkIDsRequest true "Request body"
// @Success      200 {object} dto.Response{data=dto.BulkResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /expenses/bulk [delete]
func (h *ExpenseHandler) BulkDelete(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	var req financeapp.BulkIDsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.expenseService.BulkDelete(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.metrics.RecordBulk(c.Request.Context(), "expense_delete", len(result.Succeeded), len(result.Failed))
	h.Bulk(c, result)
}

// AttachReceipt handles POST /expenses/:id/receipt and returns an upload URL
// @ID           attachExpenseReceipt
// @Summary      Get an upload URL for an expense receipt
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        id path string true "Expense ID" format(uuid)
// @Param        request body financeapp.AttachReceiptRequest true "Request body"
// @Success      200 {object} dto.Response{data=financeapp.ReceiptURLResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /expenses/{id}/receipt [post]
func (h *ExpenseHandler) AttachReceipt(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req financeapp.AttachReceiptRequest
	if !h.bindJSON(c, &req) {
		return
	}

	upload, changes, err := h.expenseService.AttachReceipt(c.Request.Context(), ownerID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Changed(c, upload, changes)
}

// ReceiptURL handles GET /expenses/:id/receipt
// @ID           getExpenseReceipt
// @Summary      Get a download URL for an expense receipt
// @Tags         expenses
// @Produce      json
// @Param        id path string true "Expense ID" format(uuid)
// @Success      200 {object} dto.Response{data=financeapp.ReceiptURLResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /expenses/{id}/receipt [get]
func (h *ExpenseHandler) ReceiptURL(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	download, err := h.expenseService.ReceiptURL(c.Request.Context(), ownerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, download)
}
