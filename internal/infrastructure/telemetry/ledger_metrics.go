package telemetry

import (
	"context"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
)

// LedgerMetrics holds the business instruments of the job ledger
type LedgerMetrics struct {
	jobsCreated        *Counter
	invoicesGenerated  *Counter
	invoicedAmount     *Histogram
	deliveriesBooked   *Counter
	deliveryAmount     *Histogram
	deliveryFailures   *Counter
	bulkItems          *Counter
	dashboardCacheHits *Counter
}

// amountBuckets spans typical freelance document totals
var amountBuckets = []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 25000, 50000}

// NewLedgerMetrics creates the instruments on the "jobledger.ledger" meter.
// A nil or disabled provider yields no-op instruments.
func NewLedgerMetrics(mp *MeterProvider) (*LedgerMetrics, error) {
	meter := mp.Meter("jobledger.ledger")
	m := &LedgerMetrics{}
	var err error

	if m.jobsCreated, err = NewCounter(meter, "ledger_jobs_created_total", "Jobs created", "{job}"); err != nil {
		return nil, err
	}
	if m.invoicesGenerated, err = NewCounter(meter, "ledger_invoices_generated_total", "Invoices generated from jobs", "{invoice}"); err != nil {
		return nil, err
	}
	if m.invoicedAmount, err = NewHistogram(meter, HistogramOpts{
		Name:        "ledger_invoice_total_amount",
		Description: "Invoice totals by currency",
		Unit:        "{currency_unit}",
		Boundaries:  amountBuckets,
	}); err != nil {
		return nil, err
	}
	if m.deliveriesBooked, err = NewCounter(meter, "ledger_deliveries_confirmed_total", "Outsourcing deliveries that booked an expense", "{delivery}"); err != nil {
		return nil, err
	}
	if m.deliveryAmount, err = NewHistogram(meter, HistogramOpts{
		Name:        "ledger_delivery_expense_amount",
		Description: "Expense amounts booked at delivery",
		Unit:        "{currency_unit}",
		Boundaries:  amountBuckets,
	}); err != nil {
		return nil, err
	}
	if m.deliveryFailures, err = NewCounter(meter, "ledger_delivery_failures_total", "Delivery confirmations that were rejected or rolled back", "{delivery}"); err != nil {
		return nil, err
	}
	if m.bulkItems, err = NewCounter(meter, "ledger_bulk_items_total", "Items processed by bulk operations", "{item}"); err != nil {
		return nil, err
	}
	if m.dashboardCacheHits, err = NewCounter(meter, "ledger_dashboard_requests_total", "Dashboard reads by cache outcome", "{request}"); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordJobCreated counts a new job
func (m *LedgerMetrics) RecordJobCreated(ctx context.Context, currency, pricingType string) {
	if m == nil {
		return
	}
	m.jobsCreated.Inc(ctx, AttrCurrency.String(currency), AttrPricingType.String(pricingType))
}

// RecordInvoiceGenerated counts an invoice and its total
func (m *LedgerMetrics) RecordInvoiceGenerated(ctx context.Context, currency string, total decimal.Decimal) {
	if m == nil {
		return
	}
	attr := AttrCurrency.String(currency)
	m.invoicesGenerated.Inc(ctx, attr)
	m.invoicedAmount.Record(ctx, total.InexactFloat64(), attr)
}

// RecordDeliveryConfirmed counts a booked delivery expense
func (m *LedgerMetrics) RecordDeliveryConfirmed(ctx context.Context, currency string, amount decimal.Decimal) {
	if m == nil {
		return
	}
	attr := AttrCurrency.String(currency)
	m.deliveriesBooked.Inc(ctx, attr)
	m.deliveryAmount.Record(ctx, amount.InexactFloat64(), attr)
}

// RecordDeliveryFailed counts a failed confirmation by error code
func (m *LedgerMetrics) RecordDeliveryFailed(ctx context.Context, code string) {
	if m == nil {
		return
	}
	m.deliveryFailures.Inc(ctx, AttrErrorCode.String(code))
}

// RecordBulk counts the applied and rejected items of one bulk call
func (m *LedgerMetrics) RecordBulk(ctx context.Context, operation string, succeeded, failed int) {
	if m == nil {
		return
	}
	op := AttrOperation.String(operation)
	if succeeded > 0 {
		m.bulkItems.Add(ctx, int64(succeeded), op, AttrOutcome.String("succeeded"))
	}
	if failed > 0 {
		m.bulkItems.Add(ctx, int64(failed), op, AttrOutcome.String("failed"))
	}
}

// RecordDashboard counts a dashboard read as "hit" or "miss"
func (m *LedgerMetrics) RecordDashboard(ctx context.Context, cacheHit bool) {
	if m == nil {
		return
	}
	outcome := "miss"
	if cacheHit {
		outcome = "hit"
	}
	m.dashboardCacheHits.Inc(ctx, attribute.String("cache", outcome))
}
