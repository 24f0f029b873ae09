// internal/repository/postgres/payment_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"ispadmin-service/internal/domain/payment"
	xerrors "ispadmin-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentRepository struct {
	db *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{db: db}
}

const paymentColumns = `
	id, customer_id, status, bill_amount, paid_date, mode_of_payment, source,
	created_at, updated_at
`

func scanPayment(row pgx.Row) (*payment.Payment, error) {
	var p payment.Payment
	var rawStatus string

	err := row.Scan(
		&p.ID, &p.CustomerID, &rawStatus, &p.BillAmount, &p.PaidDate,
		&p.ModeOfPayment, &p.Source, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Status = payment.ParseStatus(rawStatus)
	return &p, nil
}

// Create creates a new payment record
func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	query := `
		INSERT INTO payments (
			customer_id, status, bill_amount, paid_date, mode_of_payment, source
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		p.CustomerID, string(p.Status), p.BillAmount, p.PaidDate, p.ModeOfPayment, p.Source,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}

	return nil
}

// FindByID retrieves a payment by ID
func (r *PaymentRepository) FindByID(ctx context.Context, id int64) (*payment.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	p, err := scanPayment(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find payment: %w", err)
	}

	return p, nil
}

// ListAll retrieves every payment record.
func (r *PaymentRepository) ListAll(ctx context.Context) ([]payment.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	return collectPayments(rows)
}

// ListByPaidDate retrieves payments whose paid_date exactly matches the
// given YYYY-MM-DD key. The key is an exact match, not a range.
func (r *PaymentRepository) ListByPaidDate(ctx context.Context, dateKey string) ([]payment.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE paid_date = $1 ORDER BY id`

	rows, err := r.db.Query(ctx, query, dateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments by paid date: %w", err)
	}
	defer rows.Close()

	return collectPayments(rows)
}

// Update updates a payment record
func (r *PaymentRepository) Update(ctx context.Context, id int64, p *payment.Payment) error {
	query := `
		UPDATE payments
		SET status = $2, bill_amount = $3, paid_date = $4,
		    mode_of_payment = $5, source = $6, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Exec(
		ctx, query,
		id, string(p.Status), p.BillAmount, p.PaidDate, p.ModeOfPayment, p.Source,
	)
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// Delete removes a payment record
func (r *PaymentRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

func collectPayments(rows pgx.Rows) ([]payment.Payment, error) {
	var payments []payment.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}
