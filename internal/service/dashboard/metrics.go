// internal/service/dashboard/metrics.go
package dashboard

import (
	"context"
	"time"

	"ispadmin-service/internal/domain/customer"
	"ispadmin-service/internal/domain/dashboard"
	"ispadmin-service/internal/domain/payment"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CustomerStore is the read capability over the customer collection.
type CustomerStore interface {
	ListAll(ctx context.Context) ([]customer.Customer, error)
}

// PaymentStore is the read capability over the payment collection.
type PaymentStore interface {
	ListAll(ctx context.Context) ([]payment.Payment, error)
	ListByPaidDate(ctx context.Context, dateKey string) ([]payment.Payment, error)
}

type MetricsService struct {
	customers CustomerStore
	payments  PaymentStore
	logger    *zap.Logger

	// now is swappable for tests
	now func() time.Time
}

func NewMetricsService(customers CustomerStore, payments PaymentStore, logger *zap.Logger) *MetricsService {
	return &MetricsService{
		customers: customers,
		payments:  payments,
		logger:    logger,
		now:       time.Now,
	}
}

// Snapshot computes the full dashboard metrics for the given window. A
// pre-fetched customer list may be passed to avoid a second read; pass nil
// to fetch. Every failure path resolves to ZeroMetrics; this entry point
// never surfaces an error to its caller.
func (s *MetricsService) Snapshot(ctx context.Context, pre []customer.Customer, filter dashboard.DateFilter) (m dashboard.DashboardMetrics) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("metrics computation panicked", zap.Any("panic", r))
			m = dashboard.ZeroMetrics()
		}
	}()

	customers := pre
	if len(customers) == 0 {
		var err error
		customers, err = s.customers.ListAll(ctx)
		if err != nil {
			s.logger.Error("failed to fetch customers for metrics", zap.Error(err))
			return dashboard.ZeroMetrics()
		}
	}

	payments, err := s.payments.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to fetch payments for metrics", zap.Error(err))
		return dashboard.ZeroMetrics()
	}

	now := s.now().In(time.Local)
	y, mo, d := now.Date()
	todayStart := time.Date(y, mo, d, 0, 0, 0, 0, time.Local)
	monthStart := time.Date(y, mo, 1, 0, 0, 0, 0, time.Local)
	soonEnd := todayStart.AddDate(0, 0, 7)

	// ----- Customer pass -----
	var active, inactive, suspended int
	for _, c := range customers {
		if c.CreatedAt.After(filter.End) {
			continue
		}
		m.TotalCustomers++

		switch c.Status {
		case customer.StatusActive:
			active++
		case customer.StatusInactive, customer.StatusDisabled:
			inactive++
		case customer.StatusSuspended:
			suspended++
		}

		if c.Status == customer.StatusActive {
			if t, ok := dashboard.ParseDateKey(c.RenewalDate); ok {
				// Expiring soon: renewal inside [today, today+7d] inclusive.
				if !t.Before(todayStart) && !t.After(soonEnd) {
					m.ExpiringSoon++
				}
			}
		}

		if !c.CreatedAt.Before(monthStart) {
			m.NewCustomersThisMonth++
		}
		if !c.CreatedAt.Before(todayStart) && !c.CreatedAt.After(filter.End) {
			m.NewToday++
		}
	}

	m.ActiveCustomers = active
	m.InactiveCustomers = inactive
	m.SuspendedCustomers = suspended

	// Expired is reconciled rather than trusted from raw status labels:
	// whatever is left of the total after the other buckets.
	expired := m.TotalCustomers - (active + inactive + suspended)
	if expired < 0 {
		expired = 0
	}
	m.ExpiredCustomers = expired

	// ----- Payment pass -----
	for _, p := range payments {
		switch p.Status {
		case payment.StatusPaid:
			m.CompletedPayments++
			m.TotalRevenue = m.TotalRevenue.Add(p.BillAmount)

			if t, ok := dashboard.ParseDateKey(p.PaidDate); ok {
				if !t.Before(monthStart) && !t.After(filter.End) {
					m.MonthlyRevenue = m.MonthlyRevenue.Add(p.BillAmount)
				}
				if !t.Before(todayStart) && !t.After(filter.End) {
					m.TodayCollection = m.TodayCollection.Add(p.BillAmount)
				}
			}
		case payment.StatusUnpaid:
			// Unpaid always counts toward pending, regardless of date.
			m.PendingPayments++
		}
	}

	if m.TotalCustomers > 0 {
		m.AvgRevenuePerCustomer = m.TotalRevenue.Div(decimal.NewFromInt(int64(m.TotalCustomers)))
	}

	return m
}
