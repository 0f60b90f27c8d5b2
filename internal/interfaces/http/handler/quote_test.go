package handler_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	financeapp "github.com/jobledger/backend/internal/application/finance"
)

func TestQuoteHandler_Lifecycle(t *testing.T) {
	api := newTestAPI(t)
	clientID := api.createClient("Acme Publishing", "USD")

	id := api.create("/api/v1/quotes", map[string]any{
		"client_id": clientID,
		"items": []map[string]any{
			{"description": "Translation", "quantity": "1000", "rate": "0.10"},
		},
	})

	w := api.do(http.MethodPut, "/api/v1/quotes/"+id.String(), map[string]any{
		"items": []map[string]any{
			{"description": "Translation", "quantity": "1000", "rate": "0.10"},
			{"description": "Proofreading", "quantity": "2", "rate": "30"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var quote financeapp.QuoteResponse
	decode(t, w, &quote)
	assert.Equal(t, "160.00", quote.Total.Amount().StringFixed(2))

	w = api.do(http.MethodPatch, "/api/v1/quotes/"+id.String()+"/status", map[string]any{"status": "sent"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &quote)
	assert.Equal(t, "sent", quote.Status)

	w = api.do(http.MethodGet, "/api/v1/quotes?status=sent", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var quotes []financeapp.QuoteResponse
	decode(t, w, &quotes)
	assert.Len(t, quotes, 1)

	w = api.do(http.MethodDelete, "/api/v1/quotes/"+id.String(), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}
