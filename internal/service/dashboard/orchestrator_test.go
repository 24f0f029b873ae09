package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"ispadmin-service/internal/domain/customer"
	"ispadmin-service/internal/domain/dashboard"
	"ispadmin-service/internal/domain/payment"
	overviewsvc "ispadmin-service/internal/service/overview"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSweeper struct {
	calls int
	err   error
}

func (f *fakeSweeper) EscalateOverdue(_ context.Context) (int, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return 1, nil
}

type fakeComplaintAgg struct {
	series []dashboard.NameValue
}

func (f *fakeComplaintAgg) StatusSeries(_ context.Context, _ time.Time, _ dashboard.Range, _ string) []dashboard.NameValue {
	if f.series == nil {
		return dashboard.ZeroComplaintSeries()
	}
	return f.series
}

type fakeExpiredAgg struct {
	series  []dashboard.NameValue
	start   time.Time
	end     time.Time
	groupBy overviewsvc.GroupBy
}

func (f *fakeExpiredAgg) Series(_ context.Context, start, end time.Time, groupBy overviewsvc.GroupBy, _ string) []dashboard.NameValue {
	f.start, f.end, f.groupBy = start, end, groupBy
	if f.series == nil {
		return []dashboard.NameValue{}
	}
	return f.series
}

type fakePayloadCache struct {
	entries map[string]dashboard.ChartPayload
	gets    int
	hits    int
	sets    int
}

func newFakePayloadCache() *fakePayloadCache {
	return &fakePayloadCache{entries: make(map[string]dashboard.ChartPayload)}
}

func (f *fakePayloadCache) Get(_ context.Context, key string) (dashboard.ChartPayload, bool) {
	f.gets++
	payload, ok := f.entries[key]
	if ok {
		f.hits++
	}
	return payload, ok
}

func (f *fakePayloadCache) Set(_ context.Context, key string, payload dashboard.ChartPayload) {
	f.sets++
	f.entries[key] = payload
}

type orchestratorFixture struct {
	customers *fakeCustomerStore
	payments  *fakePaymentStore
	sweeper   *fakeSweeper
	expired   *fakeExpiredAgg
	cache     *fakePayloadCache
	orch      *Orchestrator
}

func newOrchestratorFixture(now time.Time, cache *fakePayloadCache) *orchestratorFixture {
	f := &orchestratorFixture{
		customers: &fakeCustomerStore{},
		payments:  &fakePaymentStore{},
		sweeper:   &fakeSweeper{},
		expired:   &fakeExpiredAgg{},
		cache:     cache,
	}
	var payloadCache PayloadCache
	if cache != nil {
		payloadCache = cache
	}
	f.orch = NewOrchestrator(f.customers, f.payments, f.sweeper, &fakeComplaintAgg{}, f.expired, payloadCache, zap.NewNop())
	f.orch.now = func() time.Time { return now }
	return f
}

func TestChartDataFutureDateShortCircuits(t *testing.T) {
	now := localDate(2025, time.June, 15)
	f := newOrchestratorFixture(now, nil)
	f.customers.err = errors.New("must not be called")

	out := f.orch.ChartData(context.Background(), localDate(2025, time.June, 16), dashboard.RangeToday, "All")

	assert.Equal(t, dashboard.ZeroChartPayload(), out)
	// The sweep still runs before the short-circuit.
	assert.Equal(t, 1, f.sweeper.calls)
}

func TestChartDataTodayIsNotFuture(t *testing.T) {
	// Selected date later in the same day must not trip the future check.
	now := time.Date(2025, time.June, 15, 8, 0, 0, 0, time.Local)
	f := newOrchestratorFixture(now, nil)
	f.customers.customers = []customer.Customer{
		{ID: 1, Status: customer.StatusActive, Source: "BSNL", CreatedAt: localDate(2025, time.June, 15)},
	}

	out := f.orch.ChartData(context.Background(), time.Date(2025, time.June, 15, 23, 0, 0, 0, time.Local), dashboard.RangeToday, "All")
	assert.Equal(t, 1, out.CustomerStats.Total)
}

func TestChartDataAssembly(t *testing.T) {
	now := localDate(2025, time.June, 15)
	f := newOrchestratorFixture(now, nil)

	f.customers.customers = []customer.Customer{
		{ID: 1, Status: customer.StatusActive, Source: "BSNL", CreatedAt: localDate(2025, time.June, 10)},
		{ID: 2, Status: customer.StatusActive, Source: "BSNL", CreatedAt: localDate(2025, time.June, 10)},
		{ID: 3, Status: customer.StatusInactive, Source: "BSNL", CreatedAt: localDate(2025, time.June, 12)},
		{ID: 4, Status: customer.StatusExpired, Source: "BSNL", CreatedAt: localDate(2025, time.May, 1)},
		// Created after the window end; invisible to this snapshot.
		{ID: 5, Status: customer.StatusActive, Source: "BSNL", CreatedAt: localDate(2025, time.July, 1)},
	}
	f.payments.payments = []payment.Payment{
		{ID: 1, Status: payment.StatusPaid, BillAmount: amount("400.00"), PaidDate: "2025-06-15", ModeOfPayment: "GPay", Source: "BSNL"},
		{ID: 2, Status: payment.StatusPaid, BillAmount: amount("250.00"), PaidDate: "2025-06-10", ModeOfPayment: "Cash", Source: "BSNL"},
		// Paid outside the window; excluded from the range split.
		{ID: 3, Status: payment.StatusPaid, BillAmount: amount("100.00"), PaidDate: "2025-01-02", ModeOfPayment: "UPI", Source: "BSNL"},
		// Unpaid from long ago still counts as pending.
		{ID: 4, Status: payment.StatusUnpaid, BillAmount: amount("999.00"), PaidDate: "", Source: "BSNL"},
	}
	f.expired.series = []dashboard.NameValue{{Name: "2025-06-12", Value: 1}}

	out := f.orch.ChartData(context.Background(), now, dashboard.RangeMonth, "All")

	assert.Equal(t, 4, out.CustomerStats.Total)
	assert.Equal(t, 2, out.CustomerStats.Active)
	assert.Equal(t, 1, out.CustomerStats.Inactive)
	assert.Equal(t, 1, out.CustomerStats.Expired)

	// Registrations: month window groups by day, sorted chronologically.
	require.Len(t, out.RegistrationsData, 2)
	assert.Equal(t, dashboard.NameValue{Name: "2025-06-10", Value: 2}, out.RegistrationsData[0])
	assert.Equal(t, dashboard.NameValue{Name: "2025-06-12", Value: 1}, out.RegistrationsData[1])

	// Renewals mirror registrations scaled down.
	require.Len(t, out.RenewalsData, 2)
	assert.Equal(t, dashboard.NameValue{Name: "2025-06-10", Value: 1.6}, out.RenewalsData[0])
	assert.Equal(t, dashboard.NameValue{Name: "2025-06-12", Value: 0.8}, out.RenewalsData[1])

	// GPay is online, cash offline; the out-of-window UPI payment is
	// excluded from both.
	assert.True(t, out.FinanceData.Online.Equal(amount("400.00")), "online %s", out.FinanceData.Online)
	assert.True(t, out.FinanceData.Offline.Equal(amount("250.00")), "offline %s", out.FinanceData.Offline)
	assert.True(t, out.FinanceData.TodayCollected.Equal(amount("400.00")), "today %s", out.FinanceData.TodayCollected)
	assert.Equal(t, 1, out.FinanceData.PendingInvoices)

	require.Len(t, out.InvoicePaymentsData, 2)
	assert.Equal(t, dashboard.NameValue{Name: "Paid", Value: 2}, out.InvoicePaymentsData[0])
	assert.Equal(t, dashboard.NameValue{Name: "Unpaid", Value: 1}, out.InvoicePaymentsData[1])

	assert.Equal(t, []dashboard.NameValue{{Name: "2025-06-12", Value: 1}}, out.ExpiredData)
	require.Len(t, out.ComplaintsData, 3)
}

func TestChartDataYearGroupsByMonth(t *testing.T) {
	now := localDate(2025, time.June, 15)
	f := newOrchestratorFixture(now, nil)
	f.customers.customers = []customer.Customer{
		{ID: 1, Status: customer.StatusActive, Source: "BSNL", CreatedAt: localDate(2025, time.February, 3)},
		{ID: 2, Status: customer.StatusActive, Source: "BSNL", CreatedAt: localDate(2025, time.February, 20)},
		{ID: 3, Status: customer.StatusActive, Source: "BSNL", CreatedAt: localDate(2025, time.May, 1)},
	}

	out := f.orch.ChartData(context.Background(), now, dashboard.RangeYear, "All")

	require.Len(t, out.RegistrationsData, 2)
	assert.Equal(t, dashboard.NameValue{Name: "2025-02", Value: 2}, out.RegistrationsData[0])
	assert.Equal(t, dashboard.NameValue{Name: "2025-05", Value: 1}, out.RegistrationsData[1])
	assert.Equal(t, overviewsvc.GroupByMonth, f.expired.groupBy)
}

func TestChartDataSourceFilter(t *testing.T) {
	now := localDate(2025, time.June, 15)
	f := newOrchestratorFixture(now, nil)
	f.customers.customers = []customer.Customer{
		{ID: 1, Status: customer.StatusActive, Source: "BSNL", CreatedAt: localDate(2025, time.June, 10)},
		{ID: 2, Status: customer.StatusActive, Source: "RMAX", CreatedAt: localDate(2025, time.June, 10)},
	}
	f.payments.payments = []payment.Payment{
		{ID: 1, Status: payment.StatusUnpaid, Source: "BSNL"},
		{ID: 2, Status: payment.StatusUnpaid, Source: "RMAX"},
	}

	out := f.orch.ChartData(context.Background(), now, dashboard.RangeMonth, "RMAX")
	assert.Equal(t, 1, out.CustomerStats.Total)
	assert.Equal(t, 1, out.FinanceData.PendingInvoices)
}

func TestChartDataSweepFailureDoesNotBlock(t *testing.T) {
	now := localDate(2025, time.June, 15)
	f := newOrchestratorFixture(now, nil)
	f.sweeper.err = errors.New("sweep failed")
	f.customers.customers = []customer.Customer{
		{ID: 1, Status: customer.StatusActive, Source: "BSNL", CreatedAt: localDate(2025, time.June, 10)},
	}

	out := f.orch.ChartData(context.Background(), now, dashboard.RangeMonth, "All")
	assert.Equal(t, 1, out.CustomerStats.Total)
}

func TestChartDataFetchFailureDegradesToZero(t *testing.T) {
	now := localDate(2025, time.June, 15)
	f := newOrchestratorFixture(now, nil)
	f.payments.err = errors.New("store down")

	out := f.orch.ChartData(context.Background(), now, dashboard.RangeMonth, "All")
	assert.Equal(t, dashboard.ZeroChartPayload(), out)
}

func TestChartDataCacheRoundTrip(t *testing.T) {
	now := localDate(2025, time.June, 15)
	cache := newFakePayloadCache()
	f := newOrchestratorFixture(now, cache)
	f.customers.customers = []customer.Customer{
		{ID: 1, Status: customer.StatusActive, Source: "BSNL", CreatedAt: localDate(2025, time.June, 10)},
	}

	first := f.orch.ChartData(context.Background(), now, dashboard.RangeMonth, "All")
	require.Equal(t, 1, cache.sets)

	// Stores fail; only the cache can serve the second call.
	f.customers.err = errors.New("store down")
	second := f.orch.ChartData(context.Background(), now, dashboard.RangeMonth, "All")

	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, first, second)
}

func TestChartDataCacheKeyVariesBySourceAndRange(t *testing.T) {
	now := localDate(2025, time.June, 15)
	cache := newFakePayloadCache()
	f := newOrchestratorFixture(now, cache)

	f.orch.ChartData(context.Background(), now, dashboard.RangeMonth, "All")
	f.orch.ChartData(context.Background(), now, dashboard.RangeMonth, "BSNL")
	f.orch.ChartData(context.Background(), now, dashboard.RangeWeek, "All")

	assert.Equal(t, 3, cache.sets)
	assert.Equal(t, 0, cache.hits)
}
