package dto

type CustomerFilters struct {
	MerchantID string
	// Search matches name or phone, case-insensitive.
	Search   string
	IsActive *bool
	Page     int
	PageSize int
}
