// internal/domain/customer/dto.go
package customer

type CreateCustomerRequest struct {
	Name        string   `json:"name" binding:"required"`
	Status      string   `json:"status"`
	Source      string   `json:"source" binding:"required"`
	Plan        string   `json:"plan"`
	RenewalDate string   `json:"renewal_date"`
	PhoneNumber string   `json:"phone_number"`
	Email       string   `json:"email"`
	Address     string   `json:"address"`
	Notes       string   `json:"notes"`
	Tags        []string `json:"tags"`
}

type UpdateCustomerRequest struct {
	Name         *string  `json:"name"`
	Status       *string  `json:"status"`
	Source       *string  `json:"source"`
	Plan         *string  `json:"plan"`
	RenewalDate  *string  `json:"renewal_date"`
	PhoneNumber  *string  `json:"phone_number"`
	Email        *string  `json:"email"`
	Address      *string  `json:"address"`
	Notes        *string  `json:"notes"`
	Tags         []string `json:"tags"`
	ExpiryReason *string  `json:"expiry_reason"`
}

type ListFilters struct {
	Source   string `form:"source"`
	Status   string `form:"status"`
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

type ListResponse struct {
	Customers  []Customer `json:"customers"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}
