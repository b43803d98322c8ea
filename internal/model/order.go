package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusVoided    OrderStatus = "voided"
)

// Order is the immutable snapshot a cart becomes at checkout. It is never
// mutated after creation; voiding is a status flip plus compensating stock
// movements, not an edit.
type Order struct {
	ID            string          `db:"id" json:"id"`
	MerchantID    string          `db:"merchant_id" json:"merchant_id"`
	Number        string          `db:"number" json:"number"`
	CustomerID    string          `db:"customer_id" json:"customer_id"`
	PointOfSaleID string          `db:"point_of_sale_id" json:"point_of_sale_id"`
	PaymentMethod string          `db:"payment_method" json:"payment_method"`
	AmountPaid    decimal.Decimal `db:"amount_paid" json:"amount_paid"`
	Subtotal      decimal.Decimal `db:"subtotal" json:"subtotal"`
	TaxAmount     decimal.Decimal `db:"tax_amount" json:"tax_amount"`
	Discount      decimal.Decimal `db:"discount" json:"discount"`
	Total         decimal.Decimal `db:"total" json:"total"`
	Status        OrderStatus     `db:"status" json:"status"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	Items         []OrderItem     `db:"-" json:"items"`
}

type OrderItem struct {
	ID          string          `db:"id" json:"id"`
	OrderID     string          `db:"order_id" json:"order_id"`
	ProductID   string          `db:"product_id" json:"product"`
	SKU         string          `db:"sku" json:"sku"`
	Name        string          `db:"name" json:"name"`
	Quantity    int             `db:"quantity" json:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price" json:"unit_price"`
	IsWholesale bool            `db:"is_wholesale" json:"is_wholesale"`
	LineTotal   decimal.Decimal `db:"line_total" json:"line_total"`
}

// Change is what the operator hands back: amount paid minus total, floored
// at zero for partial payments.
func (o *Order) Change() decimal.Decimal {
	change := o.AmountPaid.Sub(o.Total)
	if change.IsNegative() {
		return decimal.Zero
	}
	return change
}
