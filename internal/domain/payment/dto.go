// internal/domain/payment/dto.go
package payment

import "github.com/shopspring/decimal"

type CreatePaymentRequest struct {
	CustomerID    int64           `json:"customer_id" binding:"required"`
	Status        string          `json:"status" binding:"required"`
	BillAmount    decimal.Decimal `json:"bill_amount"`
	PaidDate      string          `json:"paid_date"`
	ModeOfPayment string          `json:"mode_of_payment"`
	Source        string          `json:"source" binding:"required"`
}

type UpdatePaymentRequest struct {
	Status        *string          `json:"status"`
	BillAmount    *decimal.Decimal `json:"bill_amount"`
	PaidDate      *string          `json:"paid_date"`
	ModeOfPayment *string          `json:"mode_of_payment"`
	Source        *string          `json:"source"`
}

type ListFilters struct {
	Source   string `form:"source"`
	Status   string `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}
