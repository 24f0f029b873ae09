// internal/domain/payment/entity.go
package payment

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status of an invoice/payment record.
type Status string

const (
	StatusPaid    Status = "paid"
	StatusUnpaid  Status = "unpaid"
	StatusUnknown Status = "unknown"
)

func ParseStatus(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "paid":
		return StatusPaid
	case "unpaid":
		return StatusUnpaid
	default:
		return StatusUnknown
	}
}

// Mode is the online/offline classification of a free-text payment mode.
type Mode string

const (
	ModeOnline  Mode = "online"
	ModeOffline Mode = "offline"
)

// onlineModes lists the payment-mode labels treated as online collections.
// Everything else (cash, cheque, arbitrary text) counts as offline.
var onlineModes = map[string]struct{}{
	"ONLINE":       {},
	"UPI":          {},
	"GPAY":         {},
	"PHONEPE":      {},
	"GOOGLE PAY":   {},
	"BSNL PAYMENT": {},
}

// ClassifyMode maps a free-text modeOfPayment to online/offline,
// case-insensitively.
func ClassifyMode(mode string) Mode {
	if _, ok := onlineModes[strings.ToUpper(strings.TrimSpace(mode))]; ok {
		return ModeOnline
	}
	return ModeOffline
}

type Payment struct {
	ID         int64  `json:"id" db:"id"`
	CustomerID int64  `json:"customer_id" db:"customer_id"`
	Status     Status `json:"status" db:"status"`

	BillAmount decimal.Decimal `json:"bill_amount" db:"bill_amount"`

	// PaidDate is a date-only string (YYYY-MM-DD), meaningful only when
	// Status is Paid. May be empty or malformed.
	PaidDate      string `json:"paid_date,omitempty" db:"paid_date"`
	ModeOfPayment string `json:"mode_of_payment" db:"mode_of_payment"`
	Source        string `json:"source" db:"source"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
