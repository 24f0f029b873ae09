// internal/service/complaint/complaint_service.go
package complaint

import (
	"context"
	"fmt"
	"time"

	"ispadmin-service/internal/domain/complaint"
	"ispadmin-service/internal/domain/customer"
	"ispadmin-service/internal/domain/dashboard"

	"go.uber.org/zap"
)

// Store is the record-store capability the service needs. The postgres
// repository satisfies it; tests substitute an in-memory fake.
type Store interface {
	Create(ctx context.Context, cp *complaint.Complaint) error
	FindByID(ctx context.Context, id int64) (*complaint.Complaint, error)
	ListAll(ctx context.Context) ([]complaint.Complaint, error)
	FindOverdue(ctx context.Context, todayKey string) ([]complaint.Complaint, error)
	BatchUpdateStatus(ctx context.Context, ids []int64, status complaint.Status) error
	Update(ctx context.Context, id int64, cp *complaint.Complaint) error
	Delete(ctx context.Context, id int64) error
}

type ComplaintService struct {
	repo   Store
	logger *zap.Logger

	// now is swappable for tests
	now func() time.Time
}

func NewComplaintService(repo Store, logger *zap.Logger) *ComplaintService {
	return &ComplaintService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// ========== Escalation Sweep ==========

// EscalateOverdue promotes unresolved complaints whose expected resolution
// date has passed to Pending, in a single batched write. Running the sweep
// twice is a no-op the second time: escalated complaints no longer match
// the overdue predicate.
func (s *ComplaintService) EscalateOverdue(ctx context.Context) (int, error) {
	todayKey := s.now().In(time.Local).Format(dashboard.DateKeyLayout)

	overdue, err := s.repo.FindOverdue(ctx, todayKey)
	if err != nil {
		return 0, fmt.Errorf("failed to find overdue complaints: %w", err)
	}
	if len(overdue) == 0 {
		return 0, nil
	}

	ids := make([]int64, 0, len(overdue))
	for _, cp := range overdue {
		ids = append(ids, cp.ID)
	}

	if err := s.repo.BatchUpdateStatus(ctx, ids, complaint.StatusPending); err != nil {
		return 0, fmt.Errorf("failed to escalate complaints: %w", err)
	}

	s.logger.Info("escalated overdue complaints",
		zap.Int("count", len(ids)),
		zap.String("as_of", todayKey),
	)

	return len(ids), nil
}

// ========== Status Aggregator ==========

// StatusSeries buckets complaints into Open/Resolved/Pending counts for the
// window derived from the reference date and range, filtered by data
// source. The result always has the fixed three-element shape; any store
// failure degrades to all zeros.
//
// Resolved complaints are bucketed by resolve date; everything else by
// booking date, so no complaint is ever double-counted. A Resolved
// complaint with an empty resolve date is excluded from every bucket.
func (s *ComplaintService) StatusSeries(ctx context.Context, ref time.Time, rng dashboard.Range, source string) []dashboard.NameValue {
	complaints, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to fetch complaints for series", zap.Error(err))
		return dashboard.ZeroComplaintSeries()
	}

	filter := dashboard.NewDateFilter(ref, rng)

	var open, resolved, pending int
	for _, cp := range complaints {
		if !customer.MatchesSource(cp.Source, source) {
			continue
		}

		switch cp.Status {
		case complaint.StatusResolved:
			if filter.ContainsDateString(cp.ResolveDate) {
				resolved++
			}
		case complaint.StatusPending:
			if filter.ContainsDateString(cp.BookingDate) {
				pending++
			}
		case complaint.StatusOpen, complaint.StatusNotResolved:
			if filter.ContainsDateString(cp.BookingDate) {
				open++
			}
		}
	}

	return []dashboard.NameValue{
		{Name: "Open", Value: float64(open)},
		{Name: "Resolved", Value: float64(resolved)},
		{Name: "Pending", Value: float64(pending)},
	}
}

// ========== CRUD ==========

// CreateComplaint files a new complaint
func (s *ComplaintService) CreateComplaint(ctx context.Context, req *complaint.CreateComplaintRequest) (*complaint.Complaint, error) {
	status := complaint.ParseStatus(req.Status)
	if status == complaint.StatusUnknown {
		status = complaint.StatusOpen
	}

	cp := &complaint.Complaint{
		CustomerID:  req.CustomerID,
		Status:      status,
		BookingDate: req.BookingDate,
		ResolveDate: req.ResolveDate,
		Source:      req.Source,
	}
	if req.Description != "" {
		cp.Description.String = req.Description
		cp.Description.Valid = true
	}

	if err := s.repo.Create(ctx, cp); err != nil {
		s.logger.Error("failed to create complaint", zap.Error(err))
		return nil, fmt.Errorf("failed to create complaint: %w", err)
	}

	return cp, nil
}

// GetComplaint retrieves a complaint by ID
func (s *ComplaintService) GetComplaint(ctx context.Context, id int64) (*complaint.Complaint, error) {
	return s.repo.FindByID(ctx, id)
}

// ListComplaints retrieves complaints filtered by source and status
func (s *ComplaintService) ListComplaints(ctx context.Context, filters *complaint.ListFilters) ([]complaint.Complaint, error) {
	complaints, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list complaints: %w", err)
	}

	status := complaint.ParseStatus(filters.Status)
	out := make([]complaint.Complaint, 0, len(complaints))
	for _, cp := range complaints {
		if !customer.MatchesSource(cp.Source, filters.Source) {
			continue
		}
		if filters.Status != "" && cp.Status != status {
			continue
		}
		out = append(out, cp)
	}

	return out, nil
}

// UpdateComplaint updates fields of an existing complaint
func (s *ComplaintService) UpdateComplaint(ctx context.Context, id int64, req *complaint.UpdateComplaintRequest) (*complaint.Complaint, error) {
	cp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		cp.Status = complaint.ParseStatus(*req.Status)
	}
	if req.BookingDate != nil {
		cp.BookingDate = *req.BookingDate
	}
	if req.ResolveDate != nil {
		cp.ResolveDate = *req.ResolveDate
	}
	if req.Source != nil {
		cp.Source = *req.Source
	}
	if req.Description != nil {
		cp.Description.String = *req.Description
		cp.Description.Valid = *req.Description != ""
	}

	if err := s.repo.Update(ctx, id, cp); err != nil {
		s.logger.Error("failed to update complaint", zap.Error(err))
		return nil, fmt.Errorf("failed to update complaint: %w", err)
	}

	return cp, nil
}

// DeleteComplaint removes a complaint
func (s *ComplaintService) DeleteComplaint(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete complaint: %w", err)
	}
	return nil
}
