// internal/service/dashboard/orchestrator.go
package dashboard

import (
	"context"
	"sort"
	"sync"
	"time"

	"ispadmin-service/internal/domain/customer"
	"ispadmin-service/internal/domain/dashboard"
	"ispadmin-service/internal/domain/payment"
	overviewsvc "ispadmin-service/internal/service/overview"

	"go.uber.org/zap"
)

// Sweeper runs the complaint escalation sweep.
type Sweeper interface {
	EscalateOverdue(ctx context.Context) (int, error)
}

// ComplaintAggregator produces the Open/Resolved/Pending series.
type ComplaintAggregator interface {
	StatusSeries(ctx context.Context, ref time.Time, rng dashboard.Range, source string) []dashboard.NameValue
}

// ExpiredAggregator produces the expired-customer time series.
type ExpiredAggregator interface {
	Series(ctx context.Context, start, end time.Time, groupBy overviewsvc.GroupBy, source string) []dashboard.NameValue
}

// PayloadCache caches assembled chart payloads. A nil cache disables
// caching.
type PayloadCache interface {
	Get(ctx context.Context, key string) (dashboard.ChartPayload, bool)
	Set(ctx context.Context, key string, payload dashboard.ChartPayload)
}

// renewalsScale approximates renewals from registrations. Carried over
// from the upstream dashboard; no measured renewal rate backs it.
const renewalsScale = 0.8

type Orchestrator struct {
	customers  CustomerStore
	payments   PaymentStore
	sweeper    Sweeper
	complaints ComplaintAggregator
	expired    ExpiredAggregator
	cache      PayloadCache
	logger     *zap.Logger

	// now is swappable for tests
	now func() time.Time
}

func NewOrchestrator(
	customers CustomerStore,
	payments PaymentStore,
	sweeper Sweeper,
	complaints ComplaintAggregator,
	expired ExpiredAggregator,
	cache PayloadCache,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		customers:  customers,
		payments:   payments,
		sweeper:    sweeper,
		complaints: complaints,
		expired:    expired,
		cache:      cache,
		logger:     logger,
		now:        time.Now,
	}
}

// ChartData assembles the unified chart payload for one dashboard refresh.
// It is stateless across calls and never surfaces an error: every failure
// degrades to the canonical zero payload.
func (o *Orchestrator) ChartData(ctx context.Context, selectedDate time.Time, rng dashboard.Range, source string) (out dashboard.ChartPayload) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("chart assembly panicked", zap.Any("panic", r))
			out = dashboard.ZeroChartPayload()
		}
	}()

	// 1. Escalation sweep. Outcome only logged; a sweep failure must never
	// block the metrics pipeline.
	if n, err := o.sweeper.EscalateOverdue(ctx); err != nil {
		o.logger.Warn("complaint escalation sweep failed", zap.Error(err))
	} else if n > 0 {
		o.logger.Info("complaint escalation sweep", zap.Int("escalated", n))
	}

	// 2. Future dates have no data; short-circuit instead of querying and
	// charting a misleading partial window.
	now := o.now().In(time.Local)
	selected := selectedDate.In(time.Local)
	if dayStart(selected).After(dayStart(now)) {
		return dashboard.ZeroChartPayload()
	}

	// 3. Boundaries.
	filter := dashboard.NewDateFilter(selected, rng)

	cacheKey := "dash:chart:" + filter.DateString + ":" + string(filter.Type) + ":" + source
	if o.cache != nil {
		if cached, ok := o.cache.Get(ctx, cacheKey); ok {
			return cached
		}
	}

	// 4. Fan-out reads. Each goroutine writes only its own slot; the
	// aggregation below runs single-threaded over the fetched snapshots.
	var (
		wg            sync.WaitGroup
		customers     []customer.Customer
		dailyPayments []payment.Payment
		allPayments   []payment.Payment
		custErr       error
		dailyErr      error
		allErr        error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		customers, custErr = o.customers.ListAll(ctx)
	}()
	go func() {
		defer wg.Done()
		dailyPayments, dailyErr = o.payments.ListByPaidDate(ctx, filter.DateString)
	}()
	go func() {
		defer wg.Done()
		allPayments, allErr = o.payments.ListAll(ctx)
	}()
	wg.Wait()

	if custErr != nil || dailyErr != nil || allErr != nil {
		o.logger.Error("failed to fetch records for chart payload",
			zap.NamedError("customers", custErr),
			zap.NamedError("daily_payments", dailyErr),
			zap.NamedError("payments", allErr),
		)
		return dashboard.ZeroChartPayload()
	}

	grouping := groupingFor(rng)

	// 5. Single pass over customers: status buckets and the registrations
	// time series.
	stats := dashboard.CustomerStats{}
	regCounts := make(map[string]int)
	var active, inactive, suspended int

	for _, c := range customers {
		if !customer.MatchesSource(c.Source, source) {
			continue
		}
		if c.CreatedAt.After(filter.End) {
			continue
		}

		stats.Total++
		switch c.Status {
		case customer.StatusActive:
			active++
		case customer.StatusInactive, customer.StatusDisabled:
			inactive++
		case customer.StatusSuspended:
			suspended++
		}

		if !c.CreatedAt.Before(filter.Start) {
			regCounts[bucketKey(c.CreatedAt, grouping)]++
		}
	}

	stats.Active = active
	stats.Inactive = inactive
	stats.Suspended = suspended
	stats.Expired = stats.Total - (active + inactive + suspended)
	if stats.Expired < 0 {
		stats.Expired = 0
	}

	registrations := sortedSeries(regCounts)

	// 6. Renewals approximation.
	renewals := make([]dashboard.NameValue, len(registrations))
	for i, point := range registrations {
		renewals[i] = dashboard.NameValue{Name: point.Name, Value: point.Value * renewalsScale}
	}

	// 7. Finance breakdown.
	finance := dashboard.FinanceData{}
	for _, p := range dailyPayments {
		if p.Status != payment.StatusPaid || !customer.MatchesSource(p.Source, source) {
			continue
		}
		finance.TodayCollected = finance.TodayCollected.Add(p.BillAmount)
	}

	var paidInRange int
	for _, p := range allPayments {
		if !customer.MatchesSource(p.Source, source) {
			continue
		}

		switch p.Status {
		case payment.StatusPaid:
			if !filter.ContainsDateString(p.PaidDate) {
				continue
			}
			paidInRange++
			if payment.ClassifyMode(p.ModeOfPayment) == payment.ModeOnline {
				finance.Online = finance.Online.Add(p.BillAmount)
			} else {
				finance.Offline = finance.Offline.Add(p.BillAmount)
			}
		case payment.StatusUnpaid:
			// Pending invoices are date-unbounded: an unpaid bill stays
			// pending no matter how old it is.
			finance.PendingInvoices++
		}
	}

	// 8. Complaint and expired series.
	complaintsData := o.complaints.StatusSeries(ctx, selected, rng, source)
	expiredData := o.expired.Series(ctx, filter.Start, filter.End, grouping, source)

	// 9. Assemble.
	out = dashboard.ChartPayload{
		CustomerStats:     stats,
		FinanceData:       finance,
		RegistrationsData: registrations,
		RenewalsData:      renewals,
		ExpiredData:       expiredData,
		ComplaintsData:    complaintsData,
		InvoicePaymentsData: []dashboard.NameValue{
			{Name: "Paid", Value: float64(paidInRange)},
			{Name: "Unpaid", Value: float64(finance.PendingInvoices)},
		},
	}

	if o.cache != nil {
		o.cache.Set(ctx, cacheKey, out)
	}

	return out
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// groupingFor picks the series granularity: yearly windows chart by month,
// everything shorter by day.
func groupingFor(rng dashboard.Range) overviewsvc.GroupBy {
	if rng == dashboard.RangeYear {
		return overviewsvc.GroupByMonth
	}
	return overviewsvc.GroupByDay
}

func bucketKey(t time.Time, grouping overviewsvc.GroupBy) string {
	t = t.In(time.Local)
	if grouping == overviewsvc.GroupByMonth {
		return t.Format("2006-01")
	}
	return t.Format(dashboard.DateKeyLayout)
}

func sortedSeries(counts map[string]int) []dashboard.NameValue {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	series := make([]dashboard.NameValue, 0, len(keys))
	for _, k := range keys {
		series = append(series, dashboard.NameValue{Name: k, Value: float64(counts[k])})
	}
	return series
}
