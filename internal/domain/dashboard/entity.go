// internal/domain/dashboard/entity.go
package dashboard

import "github.com/shopspring/decimal"

// DashboardMetrics is an ephemeral snapshot recomputed on every request or
// change event. It has no identity and is never persisted.
type DashboardMetrics struct {
	TotalCustomers     int `json:"total_customers"`
	ActiveCustomers    int `json:"active_customers"`
	InactiveCustomers  int `json:"inactive_customers"` // inactive + disabled
	SuspendedCustomers int `json:"suspended_customers"`
	ExpiredCustomers   int `json:"expired_customers"`

	ExpiringSoon          int `json:"expiring_soon"`
	NewCustomersThisMonth int `json:"new_customers_this_month"`
	NewToday              int `json:"new_today"`

	TotalRevenue          decimal.Decimal `json:"total_revenue"`
	MonthlyRevenue        decimal.Decimal `json:"monthly_revenue"`
	TodayCollection       decimal.Decimal `json:"today_collection"`
	AvgRevenuePerCustomer decimal.Decimal `json:"avg_revenue_per_customer"`

	CompletedPayments int `json:"completed_payments"`
	PendingPayments   int `json:"pending_payments"`
}

// NameValue is a single labelled point in a chart series.
type NameValue struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// CustomerStats is the status breakdown embedded in the chart payload.
type CustomerStats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Inactive  int `json:"inactive"`
	Suspended int `json:"suspended"`
	Expired   int `json:"expired"`
}

// FinanceData is the collections breakdown for the selected window.
type FinanceData struct {
	TodayCollected  decimal.Decimal `json:"today_collected"`
	Online          decimal.Decimal `json:"online"`
	Offline         decimal.Decimal `json:"offline"`
	PendingInvoices int             `json:"pending_invoices"`
}

// ChartPayload is the unified response assembled per dashboard refresh.
type ChartPayload struct {
	CustomerStats       CustomerStats `json:"customer_stats"`
	FinanceData         FinanceData   `json:"finance_data"`
	RegistrationsData   []NameValue   `json:"registrations_data"`
	RenewalsData        []NameValue   `json:"renewals_data"`
	ExpiredData         []NameValue   `json:"expired_data"`
	ComplaintsData      []NameValue   `json:"complaints_data"`
	InvoicePaymentsData []NameValue   `json:"invoice_payments_data"`
}
