package dto

type CreatePointOfSaleInput struct {
	MerchantID string
	Name       string
	Location   *string
}

type UpdatePointOfSaleInput struct {
	ID         string
	MerchantID string
	Name       string
	Location   *string
	IsActive   bool
}
