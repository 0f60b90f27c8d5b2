package handler

import (
	"github.com/gin-gonic/gin"
	productionapp "github.com/jobledger/backend/internal/application/production"
	reportapp "github.com/jobledger/backend/internal/application/report"
	"github.com/jobledger/backend/internal/infrastructure/telemetry"
)

// JobHandler handles job endpoints, including the per-job margin and
// outsourcing views
type JobHandler struct {
	BaseHandler
	jobService         *productionapp.JobService
	outsourcingService *productionapp.OutsourcingService
	reportService      *reportapp.ReportService
	metrics            *telemetry.LedgerMetrics
}

// NewJobHandler creates a new JobHandler. metrics may be nil.
func NewJobHandler(
	jobService *productionapp.JobService,
	outsourcingService *productionapp.OutsourcingService,
	reportService *reportapp.ReportService,
	metrics *telemetry.LedgerMetrics,
) *JobHandler {
	return &JobHandler{
		jobService:         jobService,
		outsourcingService: outsourcingService,
		reportService:      reportService,
		metrics:            metrics,
	}
}

// Create handles POST /jobs
// @ID           createJob
// @Summary      Create a job
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        request body productionapp.CreateJobRequest true "Request body"
// @Success      201 {object} dto.Response{data=productionapp.JobResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /jobs [post]
func (h *JobHandler) Create(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	var req productionapp.CreateJobRequest
	if !h.bindJSON(c, &req) {
		return
	}

	job, changes, err := h.jobService.Create(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.metrics.RecordJobCreated(c.Request.Context(), job.Total.Currency().String(), job.PricingType)
	h.Created(c, job, changes)
}

// GetByID handles GET /jobs/:id
// @ID           getJobById
// @Summary      Get job by ID
// @Tags         jobs
// @Produce      json
// @Param        id path string true "Job ID" format(uuid)
// @Success      200 {object} dto.Response{data=productionapp.JobResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /jobs/{id} [get]
func (h *JobHandler) GetByID(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	job, err := h.jobService.GetByID(c.Request.Context(), ownerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, job)
}

// List handles GET /jobs
// @ID           listJobs
// @Summary      List jobs
// @Tags         jobs
// @Produce      json
// @Param        search query string false "Code or title search"
// @Param        client_id query string false "Client ID" format(uuid)
// @Param        status query string false "Job status"
// @Param        currency query string false "Currency code"
// @Param        uninvoiced query bool false "Only jobs not yet invoiced"
// @Param        due_from query string false "Due date lower bound" format(date)
// @Param        due_to query string false "Due date upper bound" format(date)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Sort field"
// @Param        order_dir query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} dto.Response{data=[]productionapp.JobResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /jobs [get]
func (h *JobHandler) List(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	var filter productionapp.JobListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	jobs, total, err := h.jobService.List(c.Request.Context(), ownerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, jobs, total, filter.Page, filter.PageSize)
}

// Update handles PATCH /jobs/:id
// @ID           updateJob
// @Summary      Update a job
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        id path string true "Job ID" format(uuid)
// @Param        request body productionapp.UpdateJobRequest true "Request body"
// @Success      200 {object} dto.Response{data=productionapp.JobResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /jobs/{id} [patch]
func (h *JobHandler) Update(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req productionapp.UpdateJobRequest
	if !h.bindJSON(c, &req) {
		return
	}

	job, changes, err := h.jobService.Update(c.Request.Context(), ownerID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Changed(c, job, changes)
}

// Transition handles POST /jobs/:id/status
// @ID           transitionJob
// @Summary      Change job status
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        id path string true "Job ID" format(uuid)
// @Param        request body productionapp.TransitionJobRequest true "Request body"
// @Success      200 {object} dto.Response{data=productionapp.JobResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /jobs/{id}/status [post]
func (h *JobHandler) Transition(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req productionapp.TransitionJobRequest
	if !h.bindJSON(c, &req) {
		return
	}

	job, changes, err := h.jobService.Transition(c.Request.Context(), ownerID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Changed(c, job, changes)
}

// BulkSetStatus handles PATCH /jobs/bulk/status
// @ID           bulkSetJobStatus
// @Summary      Change the status of several jobs
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        request body productionapp.BulkJobStatusRequest true "Request body"
// @Success      200 {object} dto.Response{data=dto.BulkResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /jobs/bulk/status [patch]
func (h *JobHandler) BulkSetStatus(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	var req productionapp.BulkJobStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.jobService.BulkSetStatus(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.metrics.RecordBulk(c.Request.Context(), "job_status", len(result.Succeeded), len(result.Failed))
	h.Bulk(c, result)
}

// Delete handles DELETE /jobs/:id
// @ID           deleteJob
// @Summary      Delete a job
// @Tags         jobs
// @Produce      json
// @Param        id path string true "Job ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /jobs/{id} [delete]
func (h *JobHandler) Delete(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	changes, err := h.jobService.Delete(c.Request.Context(), ownerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Changed(c, nil, changes)
}

// BulkDelete handles DELETE /jobs/bulk
// @ID           bulkDeleteJobs
// @Summary      Delete several jobs
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        request body productionapp.BulkIDsRequest true "Request body"
// @Success      200 {object} dto.Response{data=dto.BulkResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /jobs/bulk [delete]
func (h *JobHandler) BulkDelete(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	var req productionapp.BulkIDsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.jobService.BulkDelete(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.metrics.RecordBulk(c.Request.Context(), "job_delete", len(result.Succeeded), len(result.Failed))
	h.Bulk(c, result)
}

// Margin handles GET /jobs/:id/margin
// @ID           getJobMargin
// @Summary      Get job margin
// @Tags         jobs
// @Produce      json
// @Param        id path string true "Job ID" format(uuid)
// @Success      200 {object} dto.Response{data=reportapp.JobMarginResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /jobs/{id}/margin [get]
func (h *JobHandler) Margin(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	margin, err := h.reportService.JobMargin(c.Request.Context(), ownerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, margin)
}

// Outsourcing handles GET /jobs/:id/outsourcing
// @ID           listJobOutsourcing
// @Summary      List outsourcing records of a job
// @Tags         jobs
// @Produce      json
// @Param        id path string true "Job ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]productionapp.OutsourcingResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /jobs/{id}/outsourcing [get]
func (h *JobHandler) Outsourcing(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	records, err := h.outsourcingService.ListByJob(c.Request.Context(), ownerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, records)
}
