package dto

type CategoryFilters struct {
	MerchantID string
	ParentID   *string // Nil means ignore, empty string means root categories
	IsActive   *bool
	Page       int
	PageSize   int
}
