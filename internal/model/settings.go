package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settings is one row per merchant; new cart sessions snapshot their tax
// defaults from here.
type Settings struct {
	MerchantID       string          `db:"merchant_id" json:"merchant_id"`
	DefaultSaleType  SaleType        `db:"default_sale_type" json:"default_sale_type"`
	TaxEnabled       bool            `db:"tax_enabled" json:"tax_enabled"`
	TaxRate          decimal.Decimal `db:"tax_rate" json:"tax_rate"` // fraction, e.g. 0.18
	Currency         string          `db:"currency" json:"currency"`
	WalkInCustomerID *string         `db:"walk_in_customer_id" json:"walk_in_customer_id"`
	UpdatedAt        time.Time       `db:"updated_at" json:"updated_at"`
}

func DefaultSettings(merchantID string) *Settings {
	return &Settings{
		MerchantID:      merchantID,
		DefaultSaleType: SaleTypeRetail,
		TaxEnabled:      false,
		TaxRate:         decimal.Zero,
		Currency:        "GNF",
		UpdatedAt:       time.Now(),
	}
}
