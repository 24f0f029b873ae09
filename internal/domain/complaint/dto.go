// internal/domain/complaint/dto.go
package complaint

type CreateComplaintRequest struct {
	CustomerID  int64  `json:"customer_id" binding:"required"`
	Status      string `json:"status"`
	BookingDate string `json:"booking_date" binding:"required"`
	ResolveDate string `json:"resolve_date"`
	Source      string `json:"source" binding:"required"`
	Description string `json:"description"`
}

type UpdateComplaintRequest struct {
	Status      *string `json:"status"`
	BookingDate *string `json:"booking_date"`
	ResolveDate *string `json:"resolve_date"`
	Source      *string `json:"source"`
	Description *string `json:"description"`
}

type ListFilters struct {
	Source   string `form:"source"`
	Status   string `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}
