// internal/domain/customer/entity.go
package customer

import (
	"database/sql"
	"strings"
	"time"

	"github.com/lib/pq"
)

// Status is the normalized lifecycle state of a customer connection.
// Raw store values are free text; parse once at scan time and compare
// typed values everywhere else.
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
	StatusExpired   Status = "expired"
	StatusDisabled  Status = "disabled"
	StatusUnknown   Status = "unknown"
)

// ParseStatus normalizes a raw status string from the store.
func ParseStatus(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "active":
		return StatusActive
	case "inactive":
		return StatusInactive
	case "suspended":
		return StatusSuspended
	case "expired":
		return StatusExpired
	case "disabled":
		return StatusDisabled
	default:
		return StatusUnknown
	}
}

type Customer struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`

	// Connection details
	Status Status `json:"status" db:"status"`
	Source string `json:"source" db:"source"`
	Plan   string `json:"plan" db:"plan"`

	// RenewalDate is a date-only string (YYYY-MM-DD). It comes from the
	// store as free text and may be empty or malformed; aggregators treat
	// unparseable values as "matches no bucket".
	RenewalDate string `json:"renewal_date,omitempty" db:"renewal_date"`

	// Contact and additional info
	PhoneNumber sql.NullString `json:"phone_number,omitempty" db:"phone_number"`
	Email       sql.NullString `json:"email,omitempty" db:"email"`
	Address     sql.NullString `json:"address,omitempty" db:"address"`
	Notes       sql.NullString `json:"notes,omitempty" db:"notes"`
	Tags        pq.StringArray `json:"tags,omitempty" db:"tags"`

	// ExpiryReason is an optional explicit reason recorded when the
	// connection lapsed. Usually empty; the overview sync infers one from
	// notes when absent.
	ExpiryReason sql.NullString `json:"expiry_reason,omitempty" db:"expiry_reason"`

	// Timestamps
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" db:"updated_at"`
	DeletedAt sql.NullTime `json:"deleted_at,omitempty" db:"deleted_at"`
}

// MatchesSource reports whether a record belongs to the given data source
// filter. "All" (any case) or empty disables filtering; anything else is an
// exact provider-name match.
func MatchesSource(recordSource, filter string) bool {
	if filter == "" || strings.EqualFold(filter, "All") {
		return true
	}
	return recordSource == filter
}
