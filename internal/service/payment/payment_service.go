// internal/service/payment/payment_service.go
package payment

import (
	"context"
	"fmt"

	"ispadmin-service/internal/domain/customer"
	"ispadmin-service/internal/domain/payment"

	"go.uber.org/zap"
)

// Store is the record-store capability for the payment collection.
type Store interface {
	Create(ctx context.Context, p *payment.Payment) error
	FindByID(ctx context.Context, id int64) (*payment.Payment, error)
	ListAll(ctx context.Context) ([]payment.Payment, error)
	Update(ctx context.Context, id int64, p *payment.Payment) error
	Delete(ctx context.Context, id int64) error
}

// ChangePublisher announces collection changes to the live metrics feed.
type ChangePublisher interface {
	Publish(ctx context.Context, collection string)
}

type PaymentService struct {
	repo      Store
	publisher ChangePublisher
	logger    *zap.Logger
}

func NewPaymentService(repo Store, publisher ChangePublisher, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// CreatePayment records a new payment/invoice
func (s *PaymentService) CreatePayment(ctx context.Context, req *payment.CreatePaymentRequest) (*payment.Payment, error) {
	status := payment.ParseStatus(req.Status)
	if status == payment.StatusUnknown {
		return nil, fmt.Errorf("invalid payment status %q", req.Status)
	}
	if req.BillAmount.IsNegative() {
		return nil, fmt.Errorf("bill amount must not be negative")
	}

	p := &payment.Payment{
		CustomerID:    req.CustomerID,
		Status:        status,
		BillAmount:    req.BillAmount,
		PaidDate:      req.PaidDate,
		ModeOfPayment: req.ModeOfPayment,
		Source:        req.Source,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Error("failed to create payment", zap.Error(err))
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	s.logger.Info("payment recorded",
		zap.Int64("payment_id", p.ID),
		zap.Int64("customer_id", p.CustomerID),
		zap.String("status", string(p.Status)),
	)
	s.publisher.Publish(ctx, "payments")

	return p, nil
}

// GetPayment retrieves a payment by ID
func (s *PaymentService) GetPayment(ctx context.Context, id int64) (*payment.Payment, error) {
	return s.repo.FindByID(ctx, id)
}

// ListPayments retrieves payments filtered by source and status
func (s *PaymentService) ListPayments(ctx context.Context, filters *payment.ListFilters) ([]payment.Payment, error) {
	payments, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	status := payment.ParseStatus(filters.Status)
	out := make([]payment.Payment, 0, len(payments))
	for _, p := range payments {
		if !customer.MatchesSource(p.Source, filters.Source) {
			continue
		}
		if filters.Status != "" && p.Status != status {
			continue
		}
		out = append(out, p)
	}

	return out, nil
}

// UpdatePayment updates a payment record
func (s *PaymentService) UpdatePayment(ctx context.Context, id int64, req *payment.UpdatePaymentRequest) (*payment.Payment, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		status := payment.ParseStatus(*req.Status)
		if status == payment.StatusUnknown {
			return nil, fmt.Errorf("invalid payment status %q", *req.Status)
		}
		p.Status = status
	}
	if req.BillAmount != nil {
		if req.BillAmount.IsNegative() {
			return nil, fmt.Errorf("bill amount must not be negative")
		}
		p.BillAmount = *req.BillAmount
	}
	if req.PaidDate != nil {
		p.PaidDate = *req.PaidDate
	}
	if req.ModeOfPayment != nil {
		p.ModeOfPayment = *req.ModeOfPayment
	}
	if req.Source != nil {
		p.Source = *req.Source
	}

	if err := s.repo.Update(ctx, id, p); err != nil {
		s.logger.Error("failed to update payment", zap.Error(err))
		return nil, fmt.Errorf("failed to update payment: %w", err)
	}

	s.publisher.Publish(ctx, "payments")

	return p, nil
}

// DeletePayment removes a payment record
func (s *PaymentService) DeletePayment(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}

	s.publisher.Publish(ctx, "payments")

	return nil
}
