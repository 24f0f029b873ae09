// internal/domain/dashboard/zero.go
package dashboard

// ZeroMetrics returns the canonical empty metrics snapshot. Every failure
// path in the metrics pipeline resolves to this value so the dashboard
// renders zeros instead of an error state.
func ZeroMetrics() DashboardMetrics {
	return DashboardMetrics{}
}

// ZeroComplaintSeries returns the fixed three-bucket complaint series with
// all values zero. The shape is stable even when no complaints exist.
func ZeroComplaintSeries() []NameValue {
	return []NameValue{
		{Name: "Open", Value: 0},
		{Name: "Resolved", Value: 0},
		{Name: "Pending", Value: 0},
	}
}

// ZeroChartPayload returns the canonical empty chart payload used for
// future-date requests and top-level failures.
func ZeroChartPayload() ChartPayload {
	return ChartPayload{
		RegistrationsData:   []NameValue{},
		RenewalsData:        []NameValue{},
		ExpiredData:         []NameValue{},
		ComplaintsData:      ZeroComplaintSeries(),
		InvoicePaymentsData: []NameValue{},
	}
}
