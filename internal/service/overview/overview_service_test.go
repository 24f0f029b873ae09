package overview

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"ispadmin-service/internal/domain/customer"
	"ispadmin-service/internal/domain/dashboard"
	"ispadmin-service/internal/domain/overview"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCustomerStore struct {
	customers []customer.Customer
	err       error
}

func (f *fakeCustomerStore) ListAll(_ context.Context) ([]customer.Customer, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.customers, nil
}

type fakeCacheStore struct {
	records map[int64]overview.ExpiredOverviewRecord

	createErrFor map[int64]error
	deleteErrFor map[int64]error
}

func newFakeCacheStore() *fakeCacheStore {
	return &fakeCacheStore{
		records:      make(map[int64]overview.ExpiredOverviewRecord),
		createErrFor: make(map[int64]error),
		deleteErrFor: make(map[int64]error),
	}
}

func (f *fakeCacheStore) Create(_ context.Context, rec *overview.ExpiredOverviewRecord) error {
	if err := f.createErrFor[rec.CustomerID]; err != nil {
		return err
	}
	f.records[rec.CustomerID] = *rec
	return nil
}

func (f *fakeCacheStore) ListAll(_ context.Context) ([]overview.ExpiredOverviewRecord, error) {
	out := make([]overview.ExpiredOverviewRecord, 0, len(f.records))
	for _, rec := range f.records {
		out = append(out, rec)
	}
	return out, nil
}

func (f *fakeCacheStore) DeleteByCustomerID(_ context.Context, customerID int64) error {
	if err := f.deleteErrFor[customerID]; err != nil {
		return err
	}
	delete(f.records, customerID)
	return nil
}

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func newTestService(customers *fakeCustomerStore, cache *fakeCacheStore, now time.Time) *OverviewService {
	svc := NewOverviewService(customers, cache, zap.NewNop())
	svc.now = func() time.Time { return now }
	return svc
}

func TestReconcileAddsAndRemoves(t *testing.T) {
	customers := &fakeCustomerStore{customers: []customer.Customer{
		{ID: 1, Name: "Asha", Status: customer.StatusExpired, Plan: "Fiber 100", RenewalDate: "2025-05-01", Source: "BSNL"},
		{ID: 2, Name: "Ravi", Status: customer.StatusActive, Source: "BSNL"},
		{ID: 3, Name: "Meena", Status: customer.StatusExpired, RenewalDate: "2025-04-10", Source: "RMAX"},
	}}
	cache := newFakeCacheStore()
	// Stale entry: customer 2 is active again.
	cache.records[2] = overview.ExpiredOverviewRecord{ID: "stale", CustomerID: 2}

	svc := newTestService(customers, cache, time.Date(2025, time.June, 15, 12, 0, 0, 0, time.Local))

	report, err := svc.Reconcile(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.Scanned)
	assert.Equal(t, 2, report.Added)
	assert.Equal(t, 1, report.Removed)
	assert.Equal(t, 0, report.Failed)

	require.Contains(t, cache.records, int64(1))
	require.Contains(t, cache.records, int64(3))
	assert.NotContains(t, cache.records, int64(2))

	rec := cache.records[1]
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "Asha", rec.CustomerName)
	assert.Equal(t, "Fiber 100", rec.PlanType)
	assert.Equal(t, "2025-05-01", rec.ExpiredDate)
	assert.Equal(t, overview.ReasonServiceEnded, rec.Reason)
}

func TestReconcileIsIdempotent(t *testing.T) {
	customers := &fakeCustomerStore{customers: []customer.Customer{
		{ID: 1, Status: customer.StatusExpired, RenewalDate: "2025-05-01", Source: "BSNL"},
	}}
	cache := newFakeCacheStore()

	svc := newTestService(customers, cache, time.Now())

	first, err := svc.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Added)

	originalID := cache.records[1].ID

	second, err := svc.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Added)
	assert.Equal(t, 0, second.Removed)
	assert.Equal(t, originalID, cache.records[1].ID)
}

func TestReconcileExpiredDatePriority(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.Local)
	updated := time.Date(2025, time.March, 3, 9, 0, 0, 0, time.Local)
	created := time.Date(2025, time.January, 20, 9, 0, 0, 0, time.Local)

	customers := &fakeCustomerStore{customers: []customer.Customer{
		// Valid renewal date wins.
		{ID: 1, Status: customer.StatusExpired, RenewalDate: "2025-05-01", UpdatedAt: updated, CreatedAt: created},
		// Malformed renewal date falls through to updated-at.
		{ID: 2, Status: customer.StatusExpired, RenewalDate: "soon", UpdatedAt: updated, CreatedAt: created},
		// No updated-at falls through to created-at.
		{ID: 3, Status: customer.StatusExpired, CreatedAt: created},
		// Nothing at all falls back to today.
		{ID: 4, Status: customer.StatusExpired},
	}}
	cache := newFakeCacheStore()

	svc := newTestService(customers, cache, now)

	_, err := svc.Reconcile(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2025-05-01", cache.records[1].ExpiredDate)
	assert.Equal(t, "2025-03-03", cache.records[2].ExpiredDate)
	assert.Equal(t, "2025-01-20", cache.records[3].ExpiredDate)
	assert.Equal(t, "2025-06-15", cache.records[4].ExpiredDate)
}

func TestReconcileInfersReason(t *testing.T) {
	customers := &fakeCustomerStore{customers: []customer.Customer{
		{ID: 1, Status: customer.StatusExpired, ExpiryReason: nullStr("customer_request"), Notes: nullStr("payment bounced")},
		{ID: 2, Status: customer.StatusExpired, Notes: nullStr("Payment failed twice")},
		{ID: 3, Status: customer.StatusExpired, Notes: nullStr("closure requested by customer")},
		{ID: 4, Status: customer.StatusExpired},
	}}
	cache := newFakeCacheStore()

	svc := newTestService(customers, cache, time.Now())

	_, err := svc.Reconcile(context.Background())
	require.NoError(t, err)

	assert.Equal(t, overview.ReasonCustomerRequest, cache.records[1].Reason)
	assert.Equal(t, overview.ReasonPaymentFailed, cache.records[2].Reason)
	assert.Equal(t, overview.ReasonCustomerRequest, cache.records[3].Reason)
	assert.Equal(t, overview.ReasonServiceEnded, cache.records[4].Reason)
}

func TestReconcileCountsFailuresWithoutAborting(t *testing.T) {
	customers := &fakeCustomerStore{customers: []customer.Customer{
		{ID: 1, Status: customer.StatusExpired, RenewalDate: "2025-05-01"},
		{ID: 2, Status: customer.StatusExpired, RenewalDate: "2025-05-02"},
	}}
	cache := newFakeCacheStore()
	cache.createErrFor[1] = errors.New("write failed")

	svc := newTestService(customers, cache, time.Now())

	report, err := svc.Reconcile(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Added)
	assert.Equal(t, 1, report.Failed)
	assert.Contains(t, cache.records, int64(2))
}

func TestSeriesGroupingAndSorting(t *testing.T) {
	customers := &fakeCustomerStore{customers: []customer.Customer{
		{ID: 1, Status: customer.StatusExpired, RenewalDate: "2025-03-10", Source: "BSNL"},
		{ID: 2, Status: customer.StatusExpired, RenewalDate: "2025-03-22", Source: "BSNL"},
		{ID: 3, Status: customer.StatusExpired, RenewalDate: "2025-01-05", Source: "BSNL"},
		{ID: 4, Status: customer.StatusExpired, RenewalDate: "2026-01-05", Source: "BSNL"},
		{ID: 5, Status: customer.StatusActive, RenewalDate: "2025-03-15", Source: "BSNL"},
		{ID: 6, Status: customer.StatusExpired, RenewalDate: "garbage", Source: "BSNL"},
	}}
	svc := newTestService(customers, newFakeCacheStore(), time.Now())

	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.Local)
	end := time.Date(2025, time.December, 31, 23, 59, 59, 0, time.Local)

	series := svc.Series(context.Background(), start, end, GroupByMonth, "All")
	require.Len(t, series, 2)
	assert.Equal(t, dashboard.NameValue{Name: "2025-01", Value: 1}, series[0])
	assert.Equal(t, dashboard.NameValue{Name: "2025-03", Value: 2}, series[1])

	byDay := svc.Series(context.Background(), start, end, GroupByDay, "All")
	require.Len(t, byDay, 3)
	assert.Equal(t, "2025-01-05", byDay[0].Name)
	assert.Equal(t, "2025-03-10", byDay[1].Name)
	assert.Equal(t, "2025-03-22", byDay[2].Name)

	byYear := svc.Series(context.Background(), start, time.Date(2026, time.December, 31, 0, 0, 0, 0, time.Local), GroupByYear, "All")
	require.Len(t, byYear, 2)
	assert.Equal(t, dashboard.NameValue{Name: "2025", Value: 3}, byYear[0])
	assert.Equal(t, dashboard.NameValue{Name: "2026", Value: 1}, byYear[1])
}

func TestSeriesSourceFilterAndStoreFailure(t *testing.T) {
	customers := &fakeCustomerStore{customers: []customer.Customer{
		{ID: 1, Status: customer.StatusExpired, RenewalDate: "2025-03-10", Source: "BSNL"},
		{ID: 2, Status: customer.StatusExpired, RenewalDate: "2025-03-11", Source: "RMAX"},
	}}
	svc := newTestService(customers, newFakeCacheStore(), time.Now())

	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.Local)
	end := time.Date(2025, time.December, 31, 0, 0, 0, 0, time.Local)

	series := svc.Series(context.Background(), start, end, GroupByDay, "RMAX")
	require.Len(t, series, 1)
	assert.Equal(t, "2025-03-11", series[0].Name)

	customers.err = errors.New("store unavailable")
	assert.Empty(t, svc.Series(context.Background(), start, end, GroupByDay, "All"))
}
