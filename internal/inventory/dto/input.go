package dto

type AdjustStockInput struct {
	MerchantID    string
	PointOfSaleID *string
	ProductID     string
	// QuantityChange is signed: positive receives stock, negative removes it.
	QuantityChange int
	MovementType   string
	ReferenceType  *string
	ReferenceID    *string
	Notes          string
	CreatedBy      *string
}

type SetReorderLevelInput struct {
	MerchantID    string
	PointOfSaleID *string
	ProductID     string
	ReorderLevel  int
}
