// internal/service/customer/customer_service.go
package customer

import (
	"context"
	"database/sql"
	"fmt"

	"ispadmin-service/internal/domain/customer"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// Store is the record-store capability for the customer collection.
type Store interface {
	Create(ctx context.Context, c *customer.Customer) error
	FindByID(ctx context.Context, id int64) (*customer.Customer, error)
	List(ctx context.Context, filters *customer.ListFilters) ([]customer.Customer, int64, error)
	Update(ctx context.Context, id int64, c *customer.Customer) error
	SoftDelete(ctx context.Context, id int64) error
}

// ChangePublisher announces collection changes to the live metrics feed.
type ChangePublisher interface {
	Publish(ctx context.Context, collection string)
}

type CustomerService struct {
	repo      Store
	publisher ChangePublisher
	logger    *zap.Logger
}

func NewCustomerService(repo Store, publisher ChangePublisher, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateCustomer creates a new customer
func (s *CustomerService) CreateCustomer(ctx context.Context, req *customer.CreateCustomerRequest) (*customer.Customer, error) {
	status := customer.ParseStatus(req.Status)
	if status == customer.StatusUnknown {
		status = customer.StatusActive
	}

	c := &customer.Customer{
		Name:        req.Name,
		Status:      status,
		Source:      req.Source,
		Plan:        req.Plan,
		RenewalDate: req.RenewalDate,
		PhoneNumber: sql.NullString{String: req.PhoneNumber, Valid: req.PhoneNumber != ""},
		Email:       sql.NullString{String: req.Email, Valid: req.Email != ""},
		Address:     sql.NullString{String: req.Address, Valid: req.Address != ""},
		Notes:       sql.NullString{String: req.Notes, Valid: req.Notes != ""},
		Tags:        pq.StringArray(req.Tags),
	}

	if err := s.repo.Create(ctx, c); err != nil {
		s.logger.Error("failed to create customer", zap.Error(err))
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	s.logger.Info("customer created",
		zap.Int64("customer_id", c.ID),
		zap.String("source", c.Source),
	)
	s.publisher.Publish(ctx, "customers")

	return c, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id int64) (*customer.Customer, error) {
	return s.repo.FindByID(ctx, id)
}

// ListCustomers retrieves customers with filters
func (s *CustomerService) ListCustomers(ctx context.Context, filters *customer.ListFilters) (*customer.ListResponse, error) {
	// Set defaults
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}
	if filters.PageSize > 100 {
		filters.PageSize = 100
	}

	customers, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	totalPages := int(total) / filters.PageSize
	if int(total)%filters.PageSize > 0 {
		totalPages++
	}

	return &customer.ListResponse{
		Customers:  customers,
		Total:      total,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalPages: totalPages,
	}, nil
}

// UpdateCustomer updates a customer
func (s *CustomerService) UpdateCustomer(ctx context.Context, id int64, req *customer.UpdateCustomerRequest) (*customer.Customer, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Status != nil {
		c.Status = customer.ParseStatus(*req.Status)
	}
	if req.Source != nil {
		c.Source = *req.Source
	}
	if req.Plan != nil {
		c.Plan = *req.Plan
	}
	if req.RenewalDate != nil {
		c.RenewalDate = *req.RenewalDate
	}
	if req.PhoneNumber != nil {
		c.PhoneNumber = sql.NullString{String: *req.PhoneNumber, Valid: *req.PhoneNumber != ""}
	}
	if req.Email != nil {
		c.Email = sql.NullString{String: *req.Email, Valid: *req.Email != ""}
	}
	if req.Address != nil {
		c.Address = sql.NullString{String: *req.Address, Valid: *req.Address != ""}
	}
	if req.Notes != nil {
		c.Notes = sql.NullString{String: *req.Notes, Valid: *req.Notes != ""}
	}
	if req.Tags != nil {
		c.Tags = pq.StringArray(req.Tags)
	}
	if req.ExpiryReason != nil {
		c.ExpiryReason = sql.NullString{String: *req.ExpiryReason, Valid: *req.ExpiryReason != ""}
	}

	if err := s.repo.Update(ctx, id, c); err != nil {
		s.logger.Error("failed to update customer", zap.Error(err))
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}

	s.logger.Info("customer updated", zap.Int64("customer_id", id))
	s.publisher.Publish(ctx, "customers")

	return c, nil
}

// DeleteCustomer soft deletes a customer
func (s *CustomerService) DeleteCustomer(ctx context.Context, id int64) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		s.logger.Error("failed to delete customer", zap.Error(err))
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	s.logger.Info("customer deleted", zap.Int64("customer_id", id))
	s.publisher.Publish(ctx, "customers")

	return nil
}
