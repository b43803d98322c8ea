package model

import "github.com/shopspring/decimal"

type Product struct {
	BaseModel
	MerchantID            string           `db:"merchant_id" json:"merchant_id"`
	CategoryID            *string          `db:"category_id" json:"category_id"` // Nullable
	SKU                   string           `db:"sku" json:"sku"`
	Barcode               *string          `db:"barcode" json:"barcode"` // Nullable
	Name                  string           `db:"name" json:"name"`
	Description           *string          `db:"description" json:"description"`
	SellingPrice          decimal.Decimal  `db:"selling_price" json:"selling_price"`
	WholesaleSellingPrice decimal.Decimal  `db:"wholesale_selling_price" json:"wholesale_selling_price"`
	PurchasePrice         *decimal.Decimal `db:"purchase_price" json:"purchase_price"`
	IsActive              bool             `db:"is_active" json:"is_active"`

	// Stock figures resolved at read time against the requesting point of
	// sale; they do not live on the products table.
	CurrentStock int `db:"current_stock" json:"current_stock"`
	ReorderLevel int `db:"reorder_level" json:"reorder_level"`

	Category *Category `db:"-" json:"category"` // Joined data
}

// LowStock reports whether the resolved stock sits at or below the reorder
// level. Display concern only, never enforced by the cart.
func (p *Product) LowStock() bool {
	return p.ReorderLevel > 0 && p.CurrentStock <= p.ReorderLevel
}
