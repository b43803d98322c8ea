package dto

import "github.com/shopspring/decimal"

type AddLineInput struct {
	MerchantID    string
	PointOfSaleID string
	SessionID     string
	ProductID     string
	// SaleType falls back to the merchant's default when empty.
	SaleType string
}

type UpdateQuantityInput struct {
	MerchantID string
	SessionID  string
	ProductID  string
	SaleType   string
	Delta      int
}

type SetUnitPriceInput struct {
	MerchantID string
	SessionID  string
	ProductID  string
	SaleType   string
	UnitPrice  decimal.Decimal
}

type SetLineDiscountInput struct {
	MerchantID string
	SessionID  string
	ProductID  string
	SaleType   string
	Percent    decimal.Decimal
}

type CheckoutInput struct {
	MerchantID    string
	PointOfSaleID string
	SessionID     string
	// CustomerID falls back to the merchant's walk-in customer when empty.
	CustomerID    string
	PaymentMethod string
	AmountPaid    decimal.Decimal
	OperatorID    *string
}
