// internal/domain/overview/entity.go
package overview

import (
	"strings"
	"time"
)

// Reason explains why a customer connection expired. Inferred heuristically
// from free-text notes when no explicit reason was recorded.
type Reason string

const (
	ReasonServiceEnded    Reason = "service_ended"
	ReasonPaymentFailed   Reason = "payment_failed"
	ReasonCustomerRequest Reason = "customer_request"
)

// InferReason derives a Reason from an explicit field and free-text notes.
// Priority: explicit value, "payment" substring, "request" substring,
// default service_ended.
func InferReason(explicit, notes string) Reason {
	switch strings.ToLower(strings.TrimSpace(explicit)) {
	case string(ReasonServiceEnded):
		return ReasonServiceEnded
	case string(ReasonPaymentFailed):
		return ReasonPaymentFailed
	case string(ReasonCustomerRequest):
		return ReasonCustomerRequest
	}
	lower := strings.ToLower(notes)
	if strings.Contains(lower, "payment") {
		return ReasonPaymentFailed
	}
	if strings.Contains(lower, "request") {
		return ReasonCustomerRequest
	}
	return ReasonServiceEnded
}

// ExpiredOverviewRecord is the denormalized mirror of an expired customer,
// kept in the expired_overview collection for fast chart queries. The
// customer record stays authoritative; this is a cache.
type ExpiredOverviewRecord struct {
	ID           string `json:"id" db:"id"`
	CustomerID   int64  `json:"customer_id" db:"customer_id"`
	CustomerName string `json:"customer_name" db:"customer_name"`
	PlanType     string `json:"plan_type" db:"plan_type"`

	// ExpiredDate is a date-only string (YYYY-MM-DD).
	ExpiredDate string `json:"expired_date" db:"expired_date"`
	Reason      Reason `json:"reason" db:"reason"`
	Source      string `json:"source" db:"source"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ReconcileReport carries per-record outcome counts from a sync run. A
// failed record never aborts the run; it is counted and logged instead.
type ReconcileReport struct {
	Scanned int `json:"scanned"`
	Added   int `json:"added"`
	Removed int `json:"removed"`
	Failed  int `json:"failed"`
}
