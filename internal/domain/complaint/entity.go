// internal/domain/complaint/entity.go
package complaint

import (
	"database/sql"
	"strings"
	"time"
)

// Status of a complaint ticket. "Not Resolved" is a legacy label that is
// presentation-equivalent to Open for charting but kept distinct here so it
// can round-trip through the store unchanged.
type Status string

const (
	StatusOpen        Status = "open"
	StatusPending     Status = "pending"
	StatusResolved    Status = "resolved"
	StatusNotResolved Status = "not resolved"
	StatusUnknown     Status = "unknown"
)

func ParseStatus(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "open":
		return StatusOpen
	case "pending":
		return StatusPending
	case "resolved":
		return StatusResolved
	case "not resolved", "not_resolved", "notresolved":
		return StatusNotResolved
	default:
		return StatusUnknown
	}
}

// Unresolved reports whether the status means the ticket is still open from
// the subscriber's point of view.
func (s Status) Unresolved() bool {
	return s == StatusOpen || s == StatusNotResolved
}

type Complaint struct {
	ID         int64  `json:"id" db:"id"`
	CustomerID int64  `json:"customer_id" db:"customer_id"`
	Status     Status `json:"status" db:"status"`

	// BookingDate is the date the complaint was filed (YYYY-MM-DD).
	// Authoritative for Open/Pending bucketing.
	BookingDate string `json:"booking_date" db:"booking_date"`

	// ResolveDate has two roles: while unresolved it holds the expected
	// resolution date used by the escalation sweep; once Resolved it holds
	// the actual resolution date used for Resolved bucketing. Empty while
	// no date has been set.
	ResolveDate string `json:"resolve_date,omitempty" db:"resolve_date"`

	Source      string         `json:"source" db:"source"`
	Description sql.NullString `json:"description,omitempty" db:"description"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
