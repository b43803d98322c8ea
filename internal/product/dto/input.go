package dto

import "github.com/shopspring/decimal"

type CreateProductInput struct {
	MerchantID            string
	CategoryID            string // Optional
	SKU                   string
	Barcode               string
	Name                  string
	Description           string
	SellingPrice          decimal.Decimal
	WholesaleSellingPrice decimal.Decimal
	PurchasePrice         decimal.Decimal
}

type UpdateProductInput struct {
	ID                    string
	MerchantID            string // For authz check usually
	CategoryID            string
	SKU                   string
	Barcode               string
	Name                  string
	Description           string
	SellingPrice          decimal.Decimal
	WholesaleSellingPrice decimal.Decimal
	PurchasePrice         decimal.Decimal
	IsActive              bool
}
