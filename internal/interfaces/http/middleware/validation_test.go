package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type validationItem struct {
	Rate string `json:"rate" binding:"required"`
}

type validationBody struct {
	Currency string           `json:"currency" binding:"required,len=3"`
	Status   string           `json:"status" binding:"omitempty,oneof=draft sent"`
	Items    []validationItem `json:"items" binding:"required,min=1,dive"`
}

func TestHandleValidationError(t *testing.T) {
	SetupValidator()

	r := gin.New()
	r.Use(RequestID())
	r.POST("/test", func(c *gin.Context) {
		var req validationBody
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("valid body passes", func(t *testing.T) {
		w := post(`{"currency":"USD","items":[{"rate":"1"}]}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("reports json field names", func(t *testing.T) {
		w := post(`{"currency":"US","status":"paid","items":[{"rate":"1"}]}`)
		require.Equal(t, http.StatusBadRequest, w.Code)

		resp := decodeResponse(t, w)
		assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
		assert.NotEmpty(t, resp.Error.RequestID)
		fields := map[string]string{}
		for _, d := range resp.Error.Details {
			fields[d.Field] = d.Message
		}
		assert.Equal(t, "Must be exactly 3 characters", fields["currency"])
		assert.Equal(t, "Must be one of: draft sent", fields["status"])
	})

	t.Run("nested field path", func(t *testing.T) {
		w := post(`{"currency":"USD","items":[{"rate":""}]}`)
		require.Equal(t, http.StatusBadRequest, w.Code)

		resp := decodeResponse(t, w)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "items[0].rate", resp.Error.Details[0].Field)
		assert.Equal(t, "items[0].rate", resp.Error.Field)
	})

	t.Run("malformed json is a bad request", func(t *testing.T) {
		w := post(`{"currency":`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "BAD_REQUEST", decodeResponse(t, w).Error.Code)
	})
}
