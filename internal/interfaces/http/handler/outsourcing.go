package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	productionapp "github.com/jobledger/backend/internal/application/production"
	"github.com/jobledger/backend/internal/domain/production"
	"github.com/jobledger/backend/internal/domain/shared"
	"github.com/jobledger/backend/internal/infrastructure/telemetry"
	"github.com/jobledger/backend/internal/interfaces/http/dto"
)

// OutsourcingHandler handles subcontract endpoints and the two-step delivery flow
type OutsourcingHandler struct {
	BaseHandler
	outsourcingService *productionapp.OutsourcingService
	metrics            *telemetry.LedgerMetrics
}

// NewOutsourcingHandler creates a new OutsourcingHandler
func NewOutsourcingHandler(outsourcingService *productionapp.OutsourcingService, metrics *telemetry.LedgerMetrics) *OutsourcingHandler {
	return &OutsourcingHandler{outsourcingService: outsourcingService, metrics: metrics}
}

// Create handles POST /outsourcing
// @ID           createOutsourcing
// @Summary      Outsource a job to a supplier
// @Tags         outsourcing
// @Accept       json
// @Produce      json
// @Param        request body productionapp.CreateOutsourcingRequest true "Request body"
// @Success      201 {object} dto.Response{data=productionapp.OutsourcingResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /outsourcing [post]
func (h *OutsourcingHandler) Create(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	var req productionapp.CreateOutsourcingRequest
	if !h.bindJSON(c, &req) {
		return
	}

	record, changes, err := h.outsourcingService.Create(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, record, changes)
}

// GetByID handles GET /outsourcing/:id
// @ID           getOutsourcingById
// @Summary      Get outsourcing record by ID
// @Tags         outsourcing
// @Produce      json
// @Param        id path string true "Outsourcing record ID" format(uuid)
// @Success      200 {object} dto.Response{data=productionapp.OutsourcingResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /outsourcing/{id} [get]
func (h *OutsourcingHandler) GetByID(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	record, err := h.outsourcingService.GetByID(c.Request.Context(), ownerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// List handles GET /outsourcing
// @ID           listOutsourcing
// @Summary      List outsourcing records
// @Tags         outsourcing
// @Produce      json
// @Param        job_id query string false "Job ID" format(uuid)
// @Param        supplier_id query string false "Supplier ID" format(uuid)
// @Param        status query string false "Outsourcing status"
// @Param        paid query bool false "Paid flag"
// @Param        active_only query bool false "Exclude cancelled records"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Sort field"
// @Param        order_dir query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} dto.Response{data=[]productionapp.OutsourcingResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /outsourcing [get]
func (h *OutsourcingHandler) List(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	var filter productionapp.OutsourcingListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	records, total, err := h.outsourcingService.List(c.Request.Context(), ownerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, records, total, filter.Page, filter.PageSize)
}

// Update handles PATCH /outsourcing/:id
// @ID           updateOutsourcing
// @Summary      Update an outsourcing record
// @Tags         outsourcing
// @Accept       json
// @Produce      json
// @Param        id path string true "Outsourcing record ID" format(uuid)
// @Param        request body productionapp.UpdateOutsourcingRequest true "Request body"
// @Success      200 {object} dto.Response{data=productionapp.OutsourcingResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /outsourcing/{id} [patch]
func (h *OutsourcingHandler) Update(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req productionapp.UpdateOutsourcingRequest
	if !h.bindJSON(c, &req) {
		return
	}

	record, changes, err := h.outsourcingService.Update(c.Request.Context(), ownerID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Changed(c, record, changes)
}

// SetStatus handles PATCH /outsourcing/:id/status.
// Moving to delivered answers 202 with a confirmation instead of writing.
// @ID           setOutsourcingStatus
// @Summary      Change outsourcing status
// @Tags         outsourcing
// @Accept       json
// @Produce      json
// @Param        id path string true "Outsourcing record ID" format(uuid)
// @Param        request body productionapp.SetOutsourcingStatusRequest true "Request body"
// @Success      200 {object} dto.Response{data=productionapp.SetStatusResult}
// @Success      202 {object} dto.Response{data=productionapp.SetStatusResult}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /outsourcing/{id}/status [patch]
func (h *OutsourcingHandler) SetStatus(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req productionapp.SetOutsourcingStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, changes, err := h.outsourcingService.SetStatus(c.Request.Context(), ownerID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if result.Confirmation != nil {
		c.JSON(http.StatusAccepted, dto.NewSuccessResponse(result))
		return
	}
	h.Changed(c, result, changes)
}

// ConfirmDelivery handles POST /outsourcing/:id/confirm-delivery
// @ID           confirmOutsourcingDelivery
// @Summary      Confirm a delivery and book its expense
// @Tags         outsourcing
// @Accept       json
// @Produce      json
// @Param        id path string true "Outsourcing record ID" format(uuid)
// @Param        request body productionapp.ConfirmDeliveryRequest true "Request body"
// @Success      200 {object} dto.Response{data=productionapp.DeliveryResult}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /outsourcing/{id}/confirm-delivery [post]
func (h *OutsourcingHandler) ConfirmDelivery(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req productionapp.ConfirmDeliveryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	token := production.PendingExpenseConfirmation{RecordID: id, RecordVersion: req.RecordVersion}
	result, changes, err := h.outsourcingService.ConfirmDelivery(c.Request.Context(), ownerID, token, req.MarkPaid)
	if err != nil {
		code := dto.ErrCodeInternal
		if de, ok := shared.AsDomainError(err); ok {
			code = de.Code
		}
		h.metrics.RecordDeliveryFailed(c.Request.Context(), code)
		h.HandleError(c, err)
		return
	}
	h.metrics.RecordDeliveryConfirmed(c.Request.Context(), result.Amount.Currency().String(), result.Amount.Amount())
	h.Changed(c, result, changes)
}

// TogglePaid handles POST /outsourcing/:id/toggle-paid
// @ID           toggleOutsourcingPaid
// @Summary      Toggle the paid flag of an outsourcing record
// @Tags         outsourcing
// @Produce      json
// @Param        id path string true "Outsourcing record ID" format(uuid)
// @Success      200 {object} dto.Response{data=productionapp.OutsourcingResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /outsourcing/{id}/toggle-paid [post]
func (h *OutsourcingHandler) TogglePaid(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	record, changes, err := h.outsourcingService.TogglePaid(c.Request.Context(), ownerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Changed(c, record, changes)
}

// Delete handles DELETE /outsourcing/:id
// @ID           deleteOutsourcing
// @Summary      Delete an outsourcing record
// @Tags         outsourcing
// @Produce      json
// @Param        id path string true "Outsourcing record ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /outsourcing/{id} [delete]
func (h *OutsourcingHandler) Delete(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	changes, err := h.outsourcingService.Delete(c.Request.Context(), ownerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Changed(c, nil, changes)
}
