package model

import "time"

// StockLevel is the quantity of one product at one point of sale. A NULL
// point_of_sale_id row is the central warehouse.
type StockLevel struct {
	ID            string    `db:"id" json:"id"`
	MerchantID    string    `db:"merchant_id" json:"merchant_id"`
	PointOfSaleID *string   `db:"point_of_sale_id" json:"point_of_sale_id"`
	ProductID     string    `db:"product_id" json:"product_id"`
	Quantity      int       `db:"quantity" json:"quantity"`
	ReorderLevel  int       `db:"reorder_level" json:"reorder_level"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

type StockMovement struct {
	ID             string    `db:"id" json:"id"`
	MerchantID     string    `db:"merchant_id" json:"merchant_id"`
	PointOfSaleID  *string   `db:"point_of_sale_id" json:"point_of_sale_id"`
	ProductID      string    `db:"product_id" json:"product_id"`
	MovementType   string    `db:"movement_type" json:"movement_type"` // 'sale', 'purchase', 'adjustment'
	QuantityChange int       `db:"quantity_change" json:"quantity_change"`
	QuantityBefore int       `db:"quantity_before" json:"quantity_before"`
	QuantityAfter  int       `db:"quantity_after" json:"quantity_after"`
	ReferenceType  *string   `db:"reference_type" json:"reference_type"`
	ReferenceID    *string   `db:"reference_id" json:"reference_id"`
	Notes          string    `db:"notes" json:"notes"`
	CreatedBy      *string   `db:"created_by" json:"created_by"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
