// internal/repository/postgres/customer_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ispadmin-service/internal/domain/customer"
	xerrors "ispadmin-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CustomerRepository struct {
	db *pgxpool.Pool
}

func NewCustomerRepository(db *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{db: db}
}

const customerColumns = `
	id, name, status, source, plan, renewal_date,
	phone_number, email, address, notes, tags, expiry_reason,
	created_at, updated_at, deleted_at
`

func scanCustomer(row pgx.Row) (*customer.Customer, error) {
	var c customer.Customer
	var rawStatus string

	err := row.Scan(
		&c.ID, &c.Name, &rawStatus, &c.Source, &c.Plan, &c.RenewalDate,
		&c.PhoneNumber, &c.Email, &c.Address, &c.Notes, &c.Tags, &c.ExpiryReason,
		&c.CreatedAt, &c.UpdatedAt, &c.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	// Normalize the free-text status once at the store boundary.
	c.Status = customer.ParseStatus(rawStatus)
	return &c, nil
}

// Create creates a new customer
func (r *CustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	query := `
		INSERT INTO customers (
			name, status, source, plan, renewal_date,
			phone_number, email, address, notes, tags, expiry_reason
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		c.Name, string(c.Status), c.Source, c.Plan, c.RenewalDate,
		c.PhoneNumber, c.Email, c.Address, c.Notes, c.Tags, c.ExpiryReason,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}

	return nil
}

// FindByID retrieves a customer by ID
func (r *CustomerRepository) FindByID(ctx context.Context, id int64) (*customer.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE id = $1 AND deleted_at IS NULL
	`

	c, err := scanCustomer(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}

	return c, nil
}

// ListAll retrieves every live customer record. The aggregation pipeline
// works over this full snapshot.
func (r *CustomerRepository) ListAll(ctx context.Context) ([]customer.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE deleted_at IS NULL
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var customers []customer.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, *c)
	}

	return customers, rows.Err()
}

// List retrieves customers with filters and pagination
func (r *CustomerRepository) List(ctx context.Context, filters *customer.ListFilters) ([]customer.Customer, int64, error) {
	conditions := []string{"deleted_at IS NULL"}
	args := []interface{}{}
	argPos := 1

	if filters.Source != "" && !strings.EqualFold(filters.Source, "All") {
		conditions = append(conditions, fmt.Sprintf("source = $%d", argPos))
		args = append(args, filters.Source)
		argPos++
	}
	if filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(status) = LOWER($%d)", argPos))
		args = append(args, filters.Status)
		argPos++
	}
	if filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR phone_number ILIKE $%d)", argPos, argPos))
		args = append(args, "%"+filters.Search+"%")
		argPos++
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := "SELECT COUNT(*) FROM customers WHERE " + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM customers
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, customerColumns, where, argPos, argPos+1)
	args = append(args, filters.PageSize, (filters.Page-1)*filters.PageSize)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var customers []customer.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, *c)
	}

	return customers, total, rows.Err()
}

// Update updates a customer
func (r *CustomerRepository) Update(ctx context.Context, id int64, c *customer.Customer) error {
	query := `
		UPDATE customers
		SET name = $2, status = $3, source = $4, plan = $5, renewal_date = $6,
		    phone_number = $7, email = $8, address = $9, notes = $10,
		    tags = $11, expiry_reason = $12, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	tag, err := r.db.Exec(
		ctx, query,
		id, c.Name, string(c.Status), c.Source, c.Plan, c.RenewalDate,
		c.PhoneNumber, c.Email, c.Address, c.Notes, c.Tags, c.ExpiryReason,
	)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// SoftDelete soft deletes a customer
func (r *CustomerRepository) SoftDelete(ctx context.Context, id int64) error {
	query := `
		UPDATE customers
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}
