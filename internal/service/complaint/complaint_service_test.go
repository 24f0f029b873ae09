package complaint

import (
	"context"
	"errors"
	"testing"
	"time"

	"ispadmin-service/internal/domain/complaint"
	"ispadmin-service/internal/domain/dashboard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeStore is an in-memory Store with the same matching semantics as the
// postgres repository.
type fakeStore struct {
	complaints map[int64]*complaint.Complaint
	nextID     int64

	listErr  error
	batchErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{complaints: make(map[int64]*complaint.Complaint), nextID: 1}
}

func (f *fakeStore) add(cp complaint.Complaint) *complaint.Complaint {
	cp.ID = f.nextID
	f.nextID++
	f.complaints[cp.ID] = &cp
	return f.complaints[cp.ID]
}

func (f *fakeStore) Create(_ context.Context, cp *complaint.Complaint) error {
	created := f.add(*cp)
	cp.ID = created.ID
	return nil
}

func (f *fakeStore) FindByID(_ context.Context, id int64) (*complaint.Complaint, error) {
	cp, ok := f.complaints[id]
	if !ok {
		return nil, errors.New("not found")
	}
	cloned := *cp
	return &cloned, nil
}

func (f *fakeStore) ListAll(_ context.Context) ([]complaint.Complaint, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]complaint.Complaint, 0, len(f.complaints))
	for id := int64(1); id < f.nextID; id++ {
		if cp, ok := f.complaints[id]; ok {
			out = append(out, *cp)
		}
	}
	return out, nil
}

func (f *fakeStore) FindOverdue(_ context.Context, todayKey string) ([]complaint.Complaint, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []complaint.Complaint
	for id := int64(1); id < f.nextID; id++ {
		cp, ok := f.complaints[id]
		if !ok {
			continue
		}
		if cp.Status.Unresolved() && cp.ResolveDate != "" && cp.ResolveDate < todayKey {
			out = append(out, *cp)
		}
	}
	return out, nil
}

func (f *fakeStore) BatchUpdateStatus(_ context.Context, ids []int64, status complaint.Status) error {
	if f.batchErr != nil {
		return f.batchErr
	}
	for _, id := range ids {
		if cp, ok := f.complaints[id]; ok {
			cp.Status = status
		}
	}
	return nil
}

func (f *fakeStore) Update(_ context.Context, id int64, cp *complaint.Complaint) error {
	if _, ok := f.complaints[id]; !ok {
		return errors.New("not found")
	}
	cloned := *cp
	cloned.ID = id
	f.complaints[id] = &cloned
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id int64) error {
	delete(f.complaints, id)
	return nil
}

func newTestService(store *fakeStore, now time.Time) *ComplaintService {
	svc := NewComplaintService(store, zap.NewNop())
	svc.now = func() time.Time { return now }
	return svc
}

func TestEscalateOverdue(t *testing.T) {
	store := newFakeStore()
	overdue := store.add(complaint.Complaint{Status: complaint.StatusOpen, BookingDate: "2025-06-01", ResolveDate: "2025-06-10", Source: "BSNL"})
	legacy := store.add(complaint.Complaint{Status: complaint.StatusNotResolved, BookingDate: "2025-06-02", ResolveDate: "2025-06-12", Source: "RMAX"})
	notDue := store.add(complaint.Complaint{Status: complaint.StatusOpen, BookingDate: "2025-06-05", ResolveDate: "2025-06-20", Source: "BSNL"})
	noDate := store.add(complaint.Complaint{Status: complaint.StatusOpen, BookingDate: "2025-06-05", Source: "BSNL"})
	resolved := store.add(complaint.Complaint{Status: complaint.StatusResolved, BookingDate: "2025-06-01", ResolveDate: "2025-06-05", Source: "BSNL"})

	svc := newTestService(store, time.Date(2025, time.June, 15, 10, 0, 0, 0, time.Local))

	count, err := svc.EscalateOverdue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	assert.Equal(t, complaint.StatusPending, store.complaints[overdue.ID].Status)
	assert.Equal(t, complaint.StatusPending, store.complaints[legacy.ID].Status)
	assert.Equal(t, complaint.StatusOpen, store.complaints[notDue.ID].Status)
	assert.Equal(t, complaint.StatusOpen, store.complaints[noDate.ID].Status)
	assert.Equal(t, complaint.StatusResolved, store.complaints[resolved.ID].Status)
}

func TestEscalateOverdueIsIdempotent(t *testing.T) {
	store := newFakeStore()
	store.add(complaint.Complaint{Status: complaint.StatusOpen, BookingDate: "2025-06-01", ResolveDate: "2025-06-10", Source: "BSNL"})

	svc := newTestService(store, time.Date(2025, time.June, 15, 10, 0, 0, 0, time.Local))

	first, err := svc.EscalateOverdue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first)

	statusesAfterFirst := store.complaints[1].Status

	second, err := svc.EscalateOverdue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second)
	assert.Equal(t, statusesAfterFirst, store.complaints[1].Status)
}

func TestStatusSeriesBucketing(t *testing.T) {
	store := newFakeStore()
	// Resolved is bucketed by resolve date even though the booking date is
	// far outside the window.
	store.add(complaint.Complaint{Status: complaint.StatusResolved, BookingDate: "2025-01-01", ResolveDate: "2025-06-10", Source: "BSNL"})
	// Open and Pending are bucketed by booking date.
	store.add(complaint.Complaint{Status: complaint.StatusOpen, BookingDate: "2025-06-12", Source: "BSNL"})
	store.add(complaint.Complaint{Status: complaint.StatusPending, BookingDate: "2025-06-14", Source: "BSNL"})
	// "Not Resolved" charts as Open.
	store.add(complaint.Complaint{Status: complaint.StatusNotResolved, BookingDate: "2025-06-13", Source: "BSNL"})
	// Outside the window.
	store.add(complaint.Complaint{Status: complaint.StatusOpen, BookingDate: "2025-05-01", Source: "BSNL"})
	// Resolved with no resolve date is excluded from every bucket.
	store.add(complaint.Complaint{Status: complaint.StatusResolved, BookingDate: "2025-06-12", Source: "BSNL"})

	svc := newTestService(store, time.Date(2025, time.June, 15, 10, 0, 0, 0, time.Local))
	ref := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.Local)

	series := svc.StatusSeries(context.Background(), ref, dashboard.RangeWeek, "All")
	require.Len(t, series, 3)

	assert.Equal(t, dashboard.NameValue{Name: "Open", Value: 2}, series[0])
	assert.Equal(t, dashboard.NameValue{Name: "Resolved", Value: 1}, series[1])
	assert.Equal(t, dashboard.NameValue{Name: "Pending", Value: 1}, series[2])
}

func TestStatusSeriesSourceFilter(t *testing.T) {
	store := newFakeStore()
	store.add(complaint.Complaint{Status: complaint.StatusOpen, BookingDate: "2025-06-14", Source: "BSNL"})
	store.add(complaint.Complaint{Status: complaint.StatusOpen, BookingDate: "2025-06-14", Source: "RMAX"})

	svc := newTestService(store, time.Date(2025, time.June, 15, 10, 0, 0, 0, time.Local))
	ref := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.Local)

	series := svc.StatusSeries(context.Background(), ref, dashboard.RangeWeek, "BSNL")
	assert.Equal(t, float64(1), series[0].Value)

	series = svc.StatusSeries(context.Background(), ref, dashboard.RangeWeek, "All")
	assert.Equal(t, float64(2), series[0].Value)
}

func TestStatusSeriesNoDoubleCounting(t *testing.T) {
	// Partitioning a window into disjoint sub-windows must account for
	// each complaint exactly once.
	store := newFakeStore()
	store.add(complaint.Complaint{Status: complaint.StatusResolved, BookingDate: "2025-06-02", ResolveDate: "2025-06-03", Source: "BSNL"})
	store.add(complaint.Complaint{Status: complaint.StatusOpen, BookingDate: "2025-06-05", Source: "BSNL"})
	store.add(complaint.Complaint{Status: complaint.StatusPending, BookingDate: "2025-06-11", Source: "BSNL"})
	store.add(complaint.Complaint{Status: complaint.StatusNotResolved, BookingDate: "2025-06-12", Source: "BSNL"})

	svc := newTestService(store, time.Date(2025, time.June, 30, 10, 0, 0, 0, time.Local))

	total := func(series []dashboard.NameValue) float64 {
		var sum float64
		for _, nv := range series {
			sum += nv.Value
		}
		return sum
	}

	// Two disjoint trailing weeks covering 2025-06-01..2025-06-14.
	week1 := svc.StatusSeries(context.Background(), time.Date(2025, time.June, 7, 0, 0, 0, 0, time.Local), dashboard.RangeWeek, "All")
	week2 := svc.StatusSeries(context.Background(), time.Date(2025, time.June, 14, 0, 0, 0, 0, time.Local), dashboard.RangeWeek, "All")

	assert.Equal(t, float64(4), total(week1)+total(week2))
}

func TestStatusSeriesStoreFailureReturnsZeroShape(t *testing.T) {
	store := newFakeStore()
	store.listErr = errors.New("store unavailable")

	svc := newTestService(store, time.Now())

	series := svc.StatusSeries(context.Background(), time.Now(), dashboard.RangeMonth, "All")
	require.Len(t, series, 3)
	assert.Equal(t, dashboard.ZeroComplaintSeries(), series)
}
