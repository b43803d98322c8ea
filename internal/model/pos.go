package model

type PointOfSale struct {
	BaseModel
	MerchantID string  `db:"merchant_id" json:"merchant_id"`
	Name       string  `db:"name" json:"name"`
	Location   *string `db:"location" json:"location"`
	IsActive   bool    `db:"is_active" json:"is_active"`
}
