package dto

import "github.com/shopspring/decimal"

type UpdateSettingsInput struct {
	MerchantID       string
	DefaultSaleType  string
	TaxEnabled       bool
	TaxRate          decimal.Decimal
	Currency         string
	WalkInCustomerID *string
}
