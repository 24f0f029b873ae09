// internal/repository/postgres/overview_repo.go
package postgres

import (
	"context"
	"fmt"

	"ispadmin-service/internal/domain/overview"
	xerrors "ispadmin-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

type OverviewRepository struct {
	db *pgxpool.Pool
}

func NewOverviewRepository(db *pgxpool.Pool) *OverviewRepository {
	return &OverviewRepository{db: db}
}

// Create inserts an expired-overview cache record.
func (r *OverviewRepository) Create(ctx context.Context, rec *overview.ExpiredOverviewRecord) error {
	query := `
		INSERT INTO expired_overview (
			id, customer_id, customer_name, plan_type, expired_date, reason, source
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	err := r.db.QueryRow(
		ctx, query,
		rec.ID, rec.CustomerID, rec.CustomerName, rec.PlanType,
		rec.ExpiredDate, string(rec.Reason), rec.Source,
	).Scan(&rec.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create overview record: %w", err)
	}

	return nil
}

// ListAll retrieves the full overview cache.
func (r *OverviewRepository) ListAll(ctx context.Context) ([]overview.ExpiredOverviewRecord, error) {
	query := `
		SELECT id, customer_id, customer_name, plan_type, expired_date, reason, source, created_at
		FROM expired_overview
		ORDER BY customer_id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list overview records: %w", err)
	}
	defer rows.Close()

	var records []overview.ExpiredOverviewRecord
	for rows.Next() {
		var rec overview.ExpiredOverviewRecord
		var rawReason string
		if err := rows.Scan(
			&rec.ID, &rec.CustomerID, &rec.CustomerName, &rec.PlanType,
			&rec.ExpiredDate, &rawReason, &rec.Source, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan overview record: %w", err)
		}
		rec.Reason = overview.Reason(rawReason)
		records = append(records, rec)
	}

	return records, rows.Err()
}

// DeleteByCustomerID removes the cache record mirroring the given customer.
func (r *OverviewRepository) DeleteByCustomerID(ctx context.Context, customerID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM expired_overview WHERE customer_id = $1`, customerID)
	if err != nil {
		return fmt.Errorf("failed to delete overview record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}
