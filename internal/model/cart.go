package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleType selects which price field of a product applies to a cart line.
// It is part of the line's identity: the same product added as retail and as
// wholesale occupies two distinct lines.
type SaleType string

const (
	SaleTypeRetail    SaleType = "retail"
	SaleTypeWholesale SaleType = "wholesale"
)

func (st SaleType) Valid() bool {
	return st == SaleTypeRetail || st == SaleTypeWholesale
}

// UnitPrice returns the product price this sale type sells at. Keeping the
// selection behind the enum makes it exhaustive instead of an inline ternary
// over two similarly named fields.
func (st SaleType) UnitPrice(p *Product) (decimal.Decimal, error) {
	switch st {
	case SaleTypeRetail:
		return p.SellingPrice, nil
	case SaleTypeWholesale:
		return p.WholesaleSellingPrice, nil
	default:
		return decimal.Zero, ErrInvalidSaleType
	}
}

var oneHundred = decimal.NewFromInt(100)

// CartLine is one (product, sale type) entry held in memory for the duration
// of a checkout session.
type CartLine struct {
	ProductID    string          `json:"product_id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	SaleType     SaleType        `json:"sale_type"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int             `json:"quantity"`
	LineDiscount decimal.Decimal `json:"line_discount"` // percentage 0-100
}

// Subtotal is the line's contribution after its percentage discount.
func (l *CartLine) Subtotal() decimal.Decimal {
	gross := l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
	if l.LineDiscount.IsPositive() {
		gross = gross.Sub(gross.Mul(l.LineDiscount).Div(oneHundred))
	}
	return gross
}

type CartTotals struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	TaxAmount decimal.Decimal `json:"tax_amount"`
	Total     decimal.Decimal `json:"total"`
}

// ConfirmFunc gates destructive cart actions. The caller supplies it (e.g.
// mapped from an explicit confirmation in the UI); the cart never prompts.
type ConfirmFunc func() bool

// Cart owns the line collection for one checkout session. It is scoped to a
// single session and never shared between terminals; all mutations are
// synchronous and in-memory.
type Cart struct {
	SessionID      string          `json:"session_id"`
	MerchantID     string          `json:"merchant_id"`
	PointOfSaleID  string          `json:"point_of_sale_id"`
	Lines          []CartLine      `json:"lines"`           // insertion order preserved
	GlobalDiscount decimal.Decimal `json:"global_discount"` // flat amount, not a percentage
	TaxEnabled     bool            `json:"tax_enabled"`
	TaxRate        decimal.Decimal `json:"tax_rate"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// NewCart creates an empty cart snapshotting tax defaults from settings.
func NewCart(sessionID, merchantID, pointOfSaleID string, s *Settings) *Cart {
	now := time.Now()
	c := &Cart{
		SessionID:      sessionID,
		MerchantID:     merchantID,
		PointOfSaleID:  pointOfSaleID,
		Lines:          []CartLine{},
		GlobalDiscount: decimal.Zero,
		TaxRate:        decimal.Zero,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if s != nil {
		c.TaxEnabled = s.TaxEnabled
		c.TaxRate = s.TaxRate
	}
	return c
}

func (c *Cart) findLine(productID string, st SaleType) *CartLine {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID && c.Lines[i].SaleType == st {
			return &c.Lines[i]
		}
	}
	return nil
}

// Line returns a copy of the (product, sale type) line, if present.
func (c *Cart) Line(productID string, st SaleType) (CartLine, bool) {
	if l := c.findLine(productID, st); l != nil {
		return *l, true
	}
	return CartLine{}, false
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// AddLine adds one unit of the product under the given sale type. If a line
// with the same (product, sale type) identity exists its quantity is
// incremented without touching the price; otherwise a new line is appended
// with the price the sale type selects. The stock bound is checked against
// p.CurrentStock as fetched by the caller at mutation time; a failed check
// rejects the mutation outright, it never clamps.
func (c *Cart) AddLine(p *Product, st SaleType) error {
	price, err := st.UnitPrice(p)
	if err != nil {
		return err
	}

	if line := c.findLine(p.ID, st); line != nil {
		if line.Quantity+1 > p.CurrentStock {
			return ErrStockInsufficient
		}
		line.Quantity++
		c.UpdatedAt = time.Now()
		return nil
	}

	if p.CurrentStock <= 0 {
		return ErrStockInsufficient
	}

	c.Lines = append(c.Lines, CartLine{
		ProductID:    p.ID,
		SKU:          p.SKU,
		Name:         p.Name,
		SaleType:     st,
		UnitPrice:    price,
		Quantity:     1,
		LineDiscount: decimal.Zero,
	})
	c.UpdatedAt = time.Now()
	return nil
}

// UpdateQuantity applies a signed delta to a line's quantity. currentStock is
// the latest known stock for the product, supplied by the caller so that a
// concurrent stock change observed via re-fetch is honored. Quantities below
// 1 are rejected; RemoveLine deletes a line.
func (c *Cart) UpdateQuantity(productID string, st SaleType, delta, currentStock int) error {
	line := c.findLine(productID, st)
	if line == nil {
		return ErrLineNotFound
	}

	newQuantity := line.Quantity + delta
	if newQuantity < 1 {
		return ErrQuantityBelowMinimum
	}
	if newQuantity > currentStock {
		return ErrStockInsufficient
	}

	line.Quantity = newQuantity
	c.UpdatedAt = time.Now()
	return nil
}

// SetUnitPrice is the operator's manual price override. Any non-negative
// price is accepted (manual discounting).
func (c *Cart) SetUnitPrice(productID string, st SaleType, price decimal.Decimal) error {
	line := c.findLine(productID, st)
	if line == nil {
		return ErrLineNotFound
	}
	if price.IsNegative() {
		return ErrNegativeUnitPrice
	}
	line.UnitPrice = price
	c.UpdatedAt = time.Now()
	return nil
}

// SetLineDiscount sets the line's percentage discount (0-100).
func (c *Cart) SetLineDiscount(productID string, st SaleType, percent decimal.Decimal) error {
	line := c.findLine(productID, st)
	if line == nil {
		return ErrLineNotFound
	}
	if percent.IsNegative() || percent.GreaterThan(oneHundred) {
		return ErrInvalidDiscount
	}
	line.LineDiscount = percent
	c.UpdatedAt = time.Now()
	return nil
}

func (c *Cart) RemoveLine(productID string, st SaleType) error {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID && c.Lines[i].SaleType == st {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			c.UpdatedAt = time.Now()
			return nil
		}
	}
	return ErrLineNotFound
}

// SetGlobalDiscount sets the flat currency discount. It is not validated
// against the subtotal; the total formula clamps at zero.
func (c *Cart) SetGlobalDiscount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrInvalidDiscount
	}
	c.GlobalDiscount = amount
	c.UpdatedAt = time.Now()
	return nil
}

// Clear empties the cart. A non-nil confirm gate must approve; passing nil
// means the caller already confirmed (e.g. the post-checkout clear).
func (c *Cart) Clear(confirm ConfirmFunc) error {
	if confirm != nil && !confirm() {
		return ErrClearNotConfirmed
	}
	c.Lines = []CartLine{}
	c.GlobalDiscount = decimal.Zero
	c.UpdatedAt = time.Now()
	return nil
}

// Totals recomputes subtotal, tax and total from the current line set. Pure
// and cheap; carts hold tens of lines at most, so nothing is cached.
//
//	subtotal = Σ line subtotals (after per-line discounts)
//	tax      = subtotal × tax rate, when tax is enabled
//	total    = max(0, subtotal − global discount + tax)
func (c *Cart) Totals() CartTotals {
	subtotal := decimal.Zero
	for i := range c.Lines {
		subtotal = subtotal.Add(c.Lines[i].Subtotal())
	}

	tax := decimal.Zero
	if c.TaxEnabled && c.TaxRate.IsPositive() {
		tax = subtotal.Mul(c.TaxRate)
	}

	total := subtotal.Sub(c.GlobalDiscount).Add(tax)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return CartTotals{Subtotal: subtotal, TaxAmount: tax, Total: total}
}
