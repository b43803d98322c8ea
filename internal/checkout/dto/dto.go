package dto

import (
	"github.com/guineapos/checkout-service/internal/model"
	"github.com/shopspring/decimal"
)

// Receipt is the checkout response: the persisted order plus display-ready
// amounts for the terminal printer.
type Receipt struct {
	Order             *model.Order    `json:"order"`
	Change            decimal.Decimal `json:"change"`
	FormattedSubtotal string          `json:"formatted_subtotal"`
	FormattedTax      string          `json:"formatted_tax"`
	FormattedDiscount string          `json:"formatted_discount"`
	FormattedTotal    string          `json:"formatted_total"`
	FormattedChange   string          `json:"formatted_change"`
}
