package dto

type StockLevelFilters struct {
	MerchantID    string
	PointOfSaleID *string
	ProductID     string
	LowStockOnly  bool
	Page          int
	PageSize      int
}

type MovementFilters struct {
	MerchantID    string
	PointOfSaleID *string
	ProductID     string
	MovementType  string
	Page          int
	PageSize      int
}
