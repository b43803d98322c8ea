package dto

type PointOfSaleFilters struct {
	MerchantID string
	IsActive   *bool
	Page       int
	PageSize   int
}
