// internal/repository/postgres/complaint_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"ispadmin-service/internal/domain/complaint"
	xerrors "ispadmin-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ComplaintRepository struct {
	db *pgxpool.Pool
}

func NewComplaintRepository(db *pgxpool.Pool) *ComplaintRepository {
	return &ComplaintRepository{db: db}
}

const complaintColumns = `
	id, customer_id, status, booking_date, resolve_date, source, description,
	created_at, updated_at
`

func scanComplaint(row pgx.Row) (*complaint.Complaint, error) {
	var cp complaint.Complaint
	var rawStatus string

	err := row.Scan(
		&cp.ID, &cp.CustomerID, &rawStatus, &cp.BookingDate, &cp.ResolveDate,
		&cp.Source, &cp.Description, &cp.CreatedAt, &cp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	cp.Status = complaint.ParseStatus(rawStatus)
	return &cp, nil
}

// Create creates a new complaint
func (r *ComplaintRepository) Create(ctx context.Context, cp *complaint.Complaint) error {
	query := `
		INSERT INTO complaints (
			customer_id, status, booking_date, resolve_date, source, description
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		cp.CustomerID, string(cp.Status), cp.BookingDate, cp.ResolveDate,
		cp.Source, cp.Description,
	).Scan(&cp.ID, &cp.CreatedAt, &cp.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create complaint: %w", err)
	}

	return nil
}

// FindByID retrieves a complaint by ID
func (r *ComplaintRepository) FindByID(ctx context.Context, id int64) (*complaint.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE id = $1`

	cp, err := scanComplaint(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find complaint: %w", err)
	}

	return cp, nil
}

// ListAll retrieves every complaint record.
func (r *ComplaintRepository) ListAll(ctx context.Context) ([]complaint.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list complaints: %w", err)
	}
	defer rows.Close()

	return collectComplaints(rows)
}

// FindOverdue retrieves unresolved complaints whose expected resolution
// date has passed. The comparison is against the YYYY-MM-DD key, matching
// how the dates are stored.
func (r *ComplaintRepository) FindOverdue(ctx context.Context, todayKey string) ([]complaint.Complaint, error) {
	query := `
		SELECT ` + complaintColumns + `
		FROM complaints
		WHERE LOWER(status) IN ('open', 'not resolved')
		  AND resolve_date <> ''
		  AND resolve_date < $1
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, todayKey)
	if err != nil {
		return nil, fmt.Errorf("failed to find overdue complaints: %w", err)
	}
	defer rows.Close()

	return collectComplaints(rows)
}

// BatchUpdateStatus sets the status of the given complaints in a single
// batched round trip. Each update is a single-field write, so a partial
// batch leaves every touched record in a consistent state.
func (r *ComplaintRepository) BatchUpdateStatus(ctx context.Context, ids []int64, status complaint.Status) error {
	if len(ids) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, id := range ids {
		batch.Queue(
			`UPDATE complaints SET status = $2, updated_at = NOW() WHERE id = $1`,
			id, string(status),
		)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for range ids {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to batch update complaint status: %w", err)
		}
	}

	return nil
}

// Update updates a complaint
func (r *ComplaintRepository) Update(ctx context.Context, id int64, cp *complaint.Complaint) error {
	query := `
		UPDATE complaints
		SET status = $2, booking_date = $3, resolve_date = $4,
		    source = $5, description = $6, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Exec(
		ctx, query,
		id, string(cp.Status), cp.BookingDate, cp.ResolveDate, cp.Source, cp.Description,
	)
	if err != nil {
		return fmt.Errorf("failed to update complaint: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// Delete removes a complaint
func (r *ComplaintRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM complaints WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete complaint: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

func collectComplaints(rows pgx.Rows) ([]complaint.Complaint, error) {
	var complaints []complaint.Complaint
	for rows.Next() {
		cp, err := scanComplaint(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan complaint: %w", err)
		}
		complaints = append(complaints, *cp)
	}
	return complaints, rows.Err()
}
