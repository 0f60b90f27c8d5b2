package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReportInvalidator drops cached report figures of one owner
type ReportInvalidator interface {
	Invalidate(ctx context.Context, ownerID uuid.UUID)
}

// InvalidateReports drops the owner's cached reports after every successful
// write, so the next dashboard read recomputes from the ledger.
func InvalidateReports(inv ReportInvalidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return
		}
		if status := c.Writer.Status(); status < 200 || status >= 300 {
			return
		}
		if owner, ok := GetOwnerID(c); ok {
			inv.Invalidate(c.Request.Context(), owner)
		}
	}
}
