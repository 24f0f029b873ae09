// internal/service/overview/overview_service.go
package overview

import (
	"context"
	"fmt"
	"sort"
	"time"

	"ispadmin-service/internal/domain/customer"
	"ispadmin-service/internal/domain/dashboard"
	"ispadmin-service/internal/domain/overview"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// CustomerStore is the read capability over the authoritative customer
// collection.
type CustomerStore interface {
	ListAll(ctx context.Context) ([]customer.Customer, error)
}

// Store is the capability over the denormalized expired_overview cache.
type Store interface {
	Create(ctx context.Context, rec *overview.ExpiredOverviewRecord) error
	ListAll(ctx context.Context) ([]overview.ExpiredOverviewRecord, error)
	DeleteByCustomerID(ctx context.Context, customerID int64) error
}

// GroupBy selects the chart grouping granularity.
type GroupBy string

const (
	GroupByDay   GroupBy = "day"
	GroupByMonth GroupBy = "month"
	GroupByYear  GroupBy = "year"
)

type OverviewService struct {
	customers CustomerStore
	cache     Store
	logger    *zap.Logger

	now func() time.Time
}

func NewOverviewService(customers CustomerStore, cache Store, logger *zap.Logger) *OverviewService {
	return &OverviewService{
		customers: customers,
		cache:     cache,
		logger:    logger,
		now:       time.Now,
	}
}

// ========== Reconcile (cache sync) ==========

// Reconcile brings the expired_overview cache in line with the customer
// collection: adds a record for every Expired customer missing from the
// cache and removes records whose customer is no longer Expired. The
// customer record stays authoritative. Safe to re-run; per-record failures
// are counted, logged and skipped rather than aborting the run.
func (s *OverviewService) Reconcile(ctx context.Context) (overview.ReconcileReport, error) {
	var report overview.ReconcileReport

	customers, err := s.customers.ListAll(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to list customers: %w", err)
	}
	cached, err := s.cache.ListAll(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to list overview cache: %w", err)
	}

	cachedByCustomer := make(map[int64]overview.ExpiredOverviewRecord, len(cached))
	for _, rec := range cached {
		cachedByCustomer[rec.CustomerID] = rec
	}

	expired := make(map[int64]bool, len(customers))
	for _, c := range customers {
		report.Scanned++

		if c.Status != customer.StatusExpired {
			continue
		}
		expired[c.ID] = true

		if _, ok := cachedByCustomer[c.ID]; ok {
			continue
		}

		rec := s.deriveRecord(c)
		if err := s.cache.Create(ctx, rec); err != nil {
			report.Failed++
			s.logger.Error("failed to add overview record",
				zap.Int64("customer_id", c.ID),
				zap.Error(err),
			)
			continue
		}
		report.Added++
	}

	// Cleanup: drop cache entries whose customer is no longer expired.
	for _, rec := range cached {
		if expired[rec.CustomerID] {
			continue
		}
		if err := s.cache.DeleteByCustomerID(ctx, rec.CustomerID); err != nil {
			report.Failed++
			s.logger.Error("failed to remove stale overview record",
				zap.Int64("customer_id", rec.CustomerID),
				zap.Error(err),
			)
			continue
		}
		report.Removed++
	}

	s.logger.Info("overview cache reconciled",
		zap.Int("scanned", report.Scanned),
		zap.Int("added", report.Added),
		zap.Int("removed", report.Removed),
		zap.Int("failed", report.Failed),
	)

	return report, nil
}

// deriveRecord builds the cache record for an expired customer. The expiry
// date is picked by priority: renewal date, updated-at, created-at, now.
func (s *OverviewService) deriveRecord(c customer.Customer) *overview.ExpiredOverviewRecord {
	expiredDate := c.RenewalDate
	if _, ok := dashboard.ParseDateKey(expiredDate); !ok {
		switch {
		case !c.UpdatedAt.IsZero():
			expiredDate = c.UpdatedAt.In(time.Local).Format(dashboard.DateKeyLayout)
		case !c.CreatedAt.IsZero():
			expiredDate = c.CreatedAt.In(time.Local).Format(dashboard.DateKeyLayout)
		default:
			expiredDate = s.now().In(time.Local).Format(dashboard.DateKeyLayout)
		}
	}

	return &overview.ExpiredOverviewRecord{
		ID:           ulid.Make().String(),
		CustomerID:   c.ID,
		CustomerName: c.Name,
		PlanType:     c.Plan,
		ExpiredDate:  expiredDate,
		Reason:       overview.InferReason(c.ExpiryReason.String, c.Notes.String),
		Source:       c.Source,
	}
}

// ========== Chart query ==========

// Series counts expired customers whose renewal date falls inside
// [start, end], grouped by day, month or year and filtered by data source.
// Output is sorted by key so chart x-axes come out chronological.
func (s *OverviewService) Series(ctx context.Context, start, end time.Time, groupBy GroupBy, source string) []dashboard.NameValue {
	customers, err := s.customers.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to fetch customers for expired series", zap.Error(err))
		return []dashboard.NameValue{}
	}

	counts := make(map[string]int)
	for _, c := range customers {
		if c.Status != customer.StatusExpired {
			continue
		}
		if !customer.MatchesSource(c.Source, source) {
			continue
		}
		t, ok := dashboard.ParseDateKey(c.RenewalDate)
		if !ok || t.Before(start) || t.After(end) {
			continue
		}
		counts[groupKey(t, groupBy)]++
	}

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

func groupKey(t time.Time, groupBy GroupBy) string {
	switch groupBy {
	case GroupByMonth:
		return t.Format("2006-01")
	case GroupByYear:
		return t.Format("2006")
	default:
		return t.Format(dashboard.DateKeyLayout)
	}
}
