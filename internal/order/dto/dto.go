package dto

import "time"

type OrderFilters struct {
	MerchantID    string
	PointOfSaleID string
	CustomerID    string
	Status        string
	From          *time.Time
	To            *time.Time
	Page          int
	PageSize      int
}
