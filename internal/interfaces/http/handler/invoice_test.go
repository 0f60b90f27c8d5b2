package handler_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	financeapp "github.com/jobledger/backend/internal/application/finance"
	productionapp "github.com/jobledger/backend/internal/application/production"
	"github.com/jobledger/backend/internal/interfaces/http/dto"
)

func (a *testAPI) generateInvoice(clientID uuid.UUID, jobIDs ...uuid.UUID) financeapp.InvoiceResponse {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/v1/invoices/generate", map[string]any{
		"client_id": clientID,
		"job_ids":   jobIDs,
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var invoice financeapp.InvoiceResponse
	decode(a.t, w, &invoice)
	return invoice
}

func TestInvoiceHandler_GenerateLocksJobs(t *testing.T) {
	api := newTestAPI(t)
	clientID := api.createClient("Acme Publishing", "USD")
	first := api.createWordJob(clientID, "Brochure")
	second := api.createWordJob(clientID, "Manual")

	invoice := api.generateInvoice(clientID, first, second)
	assert.Equal(t, "200.00", invoice.Total.Amount().StringFixed(2))
	assert.Equal(t, "draft", invoice.Status)
	assert.ElementsMatch(t, []uuid.UUID{first, second}, invoice.JobIDs)

	w := api.do(http.MethodGet, "/api/v1/jobs/"+first.String(), nil)
	var job productionapp.JobResponse
	decode(t, w, &job)
	assert.Equal(t, "invoiced", job.Status)
	require.NotNil(t, job.InvoiceID)
	assert.Equal(t, invoice.ID, *job.InvoiceID)

	w = api.do(http.MethodPatch, "/api/v1/jobs/"+first.String(), map[string]any{"title": "Renamed"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "INVOICED_JOB_LOCKED", decode(t, w, nil).Error.Code)

	assert.Equal(t, int64(1), api.counter("ledger_invoices_generated_total"))
}

func TestInvoiceHandler_RejectsMixedClients(t *testing.T) {
	api := newTestAPI(t)
	acme := api.createClient("Acme Publishing", "USD")
	globex := api.createClient("Globex", "USD")
	acmeJob := api.createWordJob(acme, "Brochure")
	globexJob := api.createWordJob(globex, "Manual")

	w := api.do(http.MethodPost, "/api/v1/invoices/generate", map[string]any{
		"client_id": acme,
		"job_ids":   []uuid.UUID{acmeJob, globexJob},
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "MIXED_CLIENT_SELECTION", decode(t, w, nil).Error.Code)

	// the rejected selection left both jobs billable
	w = api.do(http.MethodGet, "/api/v1/jobs/"+acmeJob.String(), nil)
	var job productionapp.JobResponse
	decode(t, w, &job)
	assert.Equal(t, "created", job.Status)
	assert.Nil(t, job.InvoiceID)
}

func TestInvoiceHandler_DeleteReleasesJobs(t *testing.T) {
	api := newTestAPI(t)
	clientID := api.createClient("Acme Publishing", "USD")
	jobID := api.createWordJob(clientID, "Brochure")
	invoice := api.generateInvoice(clientID, jobID)

	w := api.do(http.MethodDelete, "/api/v1/invoices/"+invoice.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	env := decode(t, w, nil)
	assert.Equal(t, []uuid.UUID{invoice.ID}, env.Changes.InvoiceIDs)
	assert.Equal(t, []uuid.UUID{jobID}, env.Changes.JobIDs)

	w = api.do(http.MethodGet, "/api/v1/jobs/"+jobID.String(), nil)
	var job productionapp.JobResponse
	decode(t, w, &job)
	assert.NotEqual(t, "invoiced", job.Status)
	assert.Nil(t, job.InvoiceID)
}

func TestInvoiceHandler_StatusAndBulk(t *testing.T) {
	api := newTestAPI(t)
	clientID := api.createClient("Acme Publishing", "USD")
	invoice := api.generateInvoice(clientID, api.createWordJob(clientID, "Brochure"))

	w := api.do(http.MethodPatch, "/api/v1/invoices/"+invoice.ID.String()+"/status", map[string]any{"status": "bogus"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeValidation, decode(t, w, nil).Error.Code)

	w = api.do(http.MethodPatch, "/api/v1/invoices/bulk/status", map[string]any{
		"ids":    []uuid.UUID{invoice.ID},
		"status": "sent",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var bulk dto.BulkResponse
	decode(t, w, &bulk)
	assert.Equal(t, []uuid.UUID{invoice.ID}, bulk.Succeeded)

	w = api.do(http.MethodGet, "/api/v1/invoices?status=sent", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var invoices []financeapp.InvoiceResponse
	decode(t, w, &invoices)
	require.Len(t, invoices, 1)
	assert.Equal(t, "sent", invoices[0].Status)
}
