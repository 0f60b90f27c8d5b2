package handler

import (
	"github.com/gin-gonic/gin"
	reportapp "github.com/jobledger/backend/internal/application/report"
	"github.com/jobledger/backend/internal/infrastructure/telemetry"
)

// ReportHandler serves the read-only aggregate views
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
	metrics       *telemetry.LedgerMetrics
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService, metrics *telemetry.LedgerMetrics) *ReportHandler {
	return &ReportHandler{reportService: reportService, metrics: metrics}
}

// Dashboard handles GET /reports/dashboard
// @ID           getDashboard
// @Summary      Get the owner dashboard
// @Tags         reports
// @Produce      json
// @Success      200 {object} dto.Response{data=reportapp.DashboardResponse}
// @Failure      401 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}

	dashboard, err := h.reportService.Dashboard(c.Request.Context(), ownerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.metrics.RecordDashboard(c.Request.Context(), dashboard.Cached)
	h.Success(c, dashboard)
}

// Receivables handles GET /reports/receivables
// @ID           getReceivables
// @Summary      Outstanding receivables per currency
// @Tags         reports
// @Produce      json
// @Success      200 {object} dto.Response{data=reportapp.TotalsResponse}
// @Failure      401 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /reports/receivables [get]
func (h *ReportHandler) Receivables(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}

	totals, err := h.reportService.OutstandingReceivables(c.Request.Context(), ownerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, totals)
}

// Collected handles GET /reports/collected
// @ID           getCollected
// @Summary      Collected revenue per currency
// @Tags         reports
// @Produce      json
// @Success      200 {object} dto.Response{data=reportapp.TotalsResponse}
// @Failure      401 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /reports/collected [get]
func (h *ReportHandler) Collected(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}

	totals, err := h.reportService.Collected(c.Request.Context(), ownerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, totals)
}

// Payables handles GET /reports/payables
// @ID           getPayables
// @Summary      Outstanding supplier payables per currency
// @Tags         reports
// @Produce      json
// @Success      200 {object} dto.Response{data=reportapp.TotalsResponse}
// @Failure      401 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /reports/payables [get]
func (h *ReportHandler) Payables(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}

	totals, err := h.reportService.Payables(c.Request.Context(), ownerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, totals)
}

// Expenses handles GET /reports/expenses
// @ID           getExpenseSummary
// @Summary      Expense summary per currency
// @Tags         reports
// @Produce      json
// @Success      200 {object} dto.Response{data=report.ExpenseSummary}
// @Failure      401 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /reports/expenses [get]
func (h *ReportHandler) Expenses(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}

	summary, err := h.reportService.ExpenseSummary(c.Request.Context(), ownerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}
