// Package handler adapts the ledger application services to gin. Handlers
// bind and validate input, read the owner set by middleware.OwnerAuth and map
// results and domain errors onto the response envelope.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jobledger/backend/internal/domain/shared"
	"github.com/jobledger/backend/internal/infrastructure/logger"
	"github.com/jobledger/backend/internal/interfaces/http/dto"
	"github.com/jobledger/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

func getRequestID(c *gin.Context) string {
	if id := c.GetString(logger.GinRequestIDKey); id != "" {
		return id
	}
	return c.GetHeader(middleware.RequestIDHeader)
}

// owner returns the authenticated owner, writing a 401 when there is none
func (h *BaseHandler) owner(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.GetOwnerID(c)
	if !ok {
		h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
		return uuid.Nil, false
	}
	return id, true
}

// pathID parses the named path parameter as a UUID, writing a 400 on failure
func (h *BaseHandler) pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "Invalid "+name+": must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON binds the request body, writing the 400 envelope on failure
func (h *BaseHandler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// bindQuery binds query parameters, writing the 400 envelope on failure
func (h *BaseHandler) bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// Success sends a 200 response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Changed sends a 200 response listing the touched ids
func (h *BaseHandler) Changed(c *gin.Context, data any, changes shared.ChangeSet) {
	c.JSON(http.StatusOK, dto.NewChangeResponse(data, changes))
}

// Created sends a 201 response listing the touched ids
func (h *BaseHandler) Created(c *gin.Context, data any, changes shared.ChangeSet) {
	c.JSON(http.StatusCreated, dto.NewChangeResponse(data, changes))
}

// SuccessWithMeta sends a page of results
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	page, pageSize = dto.Paging(page, pageSize)
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Bulk sends a bulk result. Partial failure is still a 200; the body says
// which ids failed.
func (h *BaseHandler) Bulk(c *gin.Context, result *shared.BulkResult) {
	c.JSON(http.StatusOK, dto.NewChangeResponse(dto.NewBulkResponse(result), result.Changes))
}

// Error sends an error response with an explicit status and code
func (h *BaseHandler) Error(c *gin.Context, status int, code, message string) {
	c.JSON(status, dto.NewErrorResponse(code, message, getRequestID(c)))
}

// HandleError maps err onto the envelope. Server-side failures are logged
// with the underlying cause.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	status, info := dto.FromError(err, getRequestID(c))
	if status >= http.StatusInternalServerError {
		logger.GetGinLogger(c).Error("Request failed",
			zap.String("code", info.Code),
			zap.Error(err),
		)
		_ = c.Error(err)
	}
	c.JSON(status, dto.Response{Success: false, Error: info})
}
