package model

type Customer struct {
	BaseModel
	MerchantID string  `db:"merchant_id" json:"merchant_id"`
	Name       string  `db:"name" json:"name"`
	Phone      *string `db:"phone" json:"phone"`
	IsActive   bool    `db:"is_active" json:"is_active"`
}
