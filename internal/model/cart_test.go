package model

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func testProduct(id, sku string, retail, wholesale int64, stock int) *Product {
	p := &Product{
		MerchantID:            "m1",
		SKU:                   sku,
		Name:                  "product " + sku,
		SellingPrice:          decimal.NewFromInt(retail),
		WholesaleSellingPrice: decimal.NewFromInt(wholesale),
		IsActive:              true,
		CurrentStock:          stock,
	}
	p.ID = id
	return p
}

func newTestCart() *Cart {
	return NewCart("sess-1", "m1", "pos-1", nil)
}

func TestAddLineMergesSameProductAndType(t *testing.T) {
	cart := newTestCart()
	p := testProduct("p1", "P1", 1000, 800, 10)

	for i := 0; i < 5; i++ {
		if err := cart.AddLine(p, SaleTypeRetail); err != nil {
			t.Fatalf("add %d: %v", i+1, err)
		}
	}

	if len(cart.Lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(cart.Lines))
	}
	line, ok := cart.Line("p1", SaleTypeRetail)
	if !ok {
		t.Fatal("retail line for p1 missing")
	}
	if line.Quantity != 5 {
		t.Errorf("quantity = %d, want 5", line.Quantity)
	}
	if !line.UnitPrice.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("unit price = %s, want 1000", line.UnitPrice)
	}
}

func TestAddLineSeparatesSaleTypes(t *testing.T) {
	cart := newTestCart()
	p := testProduct("p1", "P1", 1000, 800, 10)

	if err := cart.AddLine(p, SaleTypeRetail); err != nil {
		t.Fatal(err)
	}
	if err := cart.AddLine(p, SaleTypeWholesale); err != nil {
		t.Fatal(err)
	}

	if len(cart.Lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(cart.Lines))
	}
	retail, _ := cart.Line("p1", SaleTypeRetail)
	wholesale, _ := cart.Line("p1", SaleTypeWholesale)
	if retail.Quantity != 1 || wholesale.Quantity != 1 {
		t.Errorf("quantities = %d/%d, want 1/1", retail.Quantity, wholesale.Quantity)
	}
	if !retail.UnitPrice.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("retail price = %s, want 1000", retail.UnitPrice)
	}
	if !wholesale.UnitPrice.Equal(decimal.NewFromInt(800)) {
		t.Errorf("wholesale price = %s, want 800", wholesale.UnitPrice)
	}
}

func TestStockBoundNeverExceeded(t *testing.T) {
	const stock = 3
	cart := newTestCart()
	p := testProduct("p1", "P1", 1000, 800, stock)

	// Fill to the bound via AddLine.
	for i := 0; i < stock; i++ {
		if err := cart.AddLine(p, SaleTypeRetail); err != nil {
			t.Fatalf("add %d: %v", i+1, err)
		}
	}

	if err := cart.AddLine(p, SaleTypeRetail); !errors.Is(err, ErrStockInsufficient) {
		t.Errorf("add beyond stock: err = %v, want ErrStockInsufficient", err)
	}
	if err := cart.UpdateQuantity("p1", SaleTypeRetail, 1, stock); !errors.Is(err, ErrStockInsufficient) {
		t.Errorf("delta beyond stock: err = %v, want ErrStockInsufficient", err)
	}

	line, _ := cart.Line("p1", SaleTypeRetail)
	if line.Quantity != stock {
		t.Errorf("quantity = %d, want %d (mutation must be rejected, not clamped)", line.Quantity, stock)
	}
}

func TestAddLineRejectsOutOfStockProduct(t *testing.T) {
	cart := newTestCart()
	p := testProduct("p1", "P1", 1000, 800, 0)

	if err := cart.AddLine(p, SaleTypeRetail); !errors.Is(err, ErrStockInsufficient) {
		t.Errorf("err = %v, want ErrStockInsufficient", err)
	}
	if !cart.IsEmpty() {
		t.Error("cart must stay empty after rejected add")
	}
}

func TestUpdateQuantity(t *testing.T) {
	setup := func() *Cart {
		cart := newTestCart()
		p := testProduct("p1", "P1", 1000, 800, 10)
		cart.AddLine(p, SaleTypeRetail)
		cart.AddLine(p, SaleTypeRetail)
		return cart
	}

	tests := []struct {
		name    string
		delta   int
		stock   int
		wantErr error
		wantQty int
	}{
		{"increment", 1, 10, nil, 3},
		{"decrement", -1, 10, nil, 1},
		{"big delta within stock", 8, 10, nil, 10},
		{"floor is 1", -2, 10, ErrQuantityBelowMinimum, 2},
		{"honors re-fetched stock", 1, 2, ErrStockInsufficient, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart := setup()
			err := cart.UpdateQuantity("p1", SaleTypeRetail, tt.delta, tt.stock)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			line, _ := cart.Line("p1", SaleTypeRetail)
			if line.Quantity != tt.wantQty {
				t.Errorf("quantity = %d, want %d", line.Quantity, tt.wantQty)
			}
		})
	}

	t.Run("unknown line", func(t *testing.T) {
		cart := setup()
		if err := cart.UpdateQuantity("nope", SaleTypeRetail, 1, 10); !errors.Is(err, ErrLineNotFound) {
			t.Errorf("err = %v, want ErrLineNotFound", err)
		}
	})
}

func TestSetUnitPriceOverride(t *testing.T) {
	cart := newTestCart()
	p := testProduct("p1", "P1", 1000, 800, 10)
	cart.AddLine(p, SaleTypeRetail)

	if err := cart.SetUnitPrice("p1", SaleTypeRetail, decimal.NewFromInt(900)); err != nil {
		t.Fatal(err)
	}
	line, _ := cart.Line("p1", SaleTypeRetail)
	if !line.UnitPrice.Equal(decimal.NewFromInt(900)) {
		t.Errorf("price = %s, want 900", line.UnitPrice)
	}

	if err := cart.SetUnitPrice("p1", SaleTypeRetail, decimal.NewFromInt(-1)); !errors.Is(err, ErrNegativeUnitPrice) {
		t.Errorf("err = %v, want ErrNegativeUnitPrice", err)
	}
	if err := cart.SetUnitPrice("p1", SaleTypeRetail, decimal.Zero); err != nil {
		t.Errorf("zero price must be allowed (full manual discount): %v", err)
	}
}

func TestTotalsFormula(t *testing.T) {
	cart := newTestCart()
	p := testProduct("p1", "P1", 1000, 800, 10)
	cart.AddLine(p, SaleTypeRetail)
	cart.AddLine(p, SaleTypeRetail)

	totals := cart.Totals()
	if !totals.Subtotal.Equal(decimal.NewFromInt(2000)) || !totals.Total.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("totals = %s/%s, want 2000/2000", totals.Subtotal, totals.Total)
	}

	cart.SetGlobalDiscount(decimal.NewFromInt(500))
	if got := cart.Totals().Total; !got.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("total after 500 discount = %s, want 1500", got)
	}

	// Discount exceeding subtotal clamps at zero, never negative.
	cart.SetGlobalDiscount(decimal.NewFromInt(3000))
	if got := cart.Totals().Total; !got.Equal(decimal.Zero) {
		t.Errorf("total after 3000 discount = %s, want 0", got)
	}

	if err := cart.SetGlobalDiscount(decimal.NewFromInt(-10)); !errors.Is(err, ErrInvalidDiscount) {
		t.Errorf("err = %v, want ErrInvalidDiscount", err)
	}
}

func TestTotalsWithTax(t *testing.T) {
	settings := &Settings{TaxEnabled: true, TaxRate: decimal.RequireFromString("0.18")}
	cart := NewCart("sess-1", "m1", "pos-1", settings)
	p := testProduct("p1", "P1", 1000, 800, 10)
	cart.AddLine(p, SaleTypeRetail)

	totals := cart.Totals()
	if !totals.TaxAmount.Equal(decimal.NewFromInt(180)) {
		t.Errorf("tax = %s, want 180", totals.TaxAmount)
	}
	if !totals.Total.Equal(decimal.NewFromInt(1180)) {
		t.Errorf("total = %s, want 1180", totals.Total)
	}
}

func TestLineDiscountAppliedBeforeAggregation(t *testing.T) {
	cart := newTestCart()
	p := testProduct("p1", "P1", 1000, 800, 10)
	cart.AddLine(p, SaleTypeRetail)
	cart.AddLine(p, SaleTypeRetail)

	if err := cart.SetLineDiscount("p1", SaleTypeRetail, decimal.NewFromInt(10)); err != nil {
		t.Fatal(err)
	}
	if got := cart.Totals().Subtotal; !got.Equal(decimal.NewFromInt(1800)) {
		t.Errorf("subtotal = %s, want 1800", got)
	}

	if err := cart.SetLineDiscount("p1", SaleTypeRetail, decimal.NewFromInt(101)); !errors.Is(err, ErrInvalidDiscount) {
		t.Errorf("err = %v, want ErrInvalidDiscount", err)
	}
}

func TestRemoveLineScenario(t *testing.T) {
	cart := newTestCart()
	p1 := testProduct("p1", "P1", 1000, 900, 10)
	p2 := testProduct("p2", "P2", 900, 800, 10)

	cart.AddLine(p1, SaleTypeRetail)
	cart.AddLine(p1, SaleTypeRetail)
	cart.AddLine(p1, SaleTypeRetail)
	cart.AddLine(p2, SaleTypeWholesale)

	if got := cart.Totals().Subtotal; !got.Equal(decimal.NewFromInt(3800)) {
		t.Fatalf("subtotal = %s, want 3800", got)
	}

	if err := cart.RemoveLine("p2", SaleTypeWholesale); err != nil {
		t.Fatal(err)
	}
	if got := cart.Totals().Subtotal; !got.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("subtotal after remove = %s, want 3000", got)
	}

	if err := cart.RemoveLine("p2", SaleTypeWholesale); !errors.Is(err, ErrLineNotFound) {
		t.Errorf("second remove err = %v, want ErrLineNotFound", err)
	}
}

func TestClear(t *testing.T) {
	cart := newTestCart()
	p := testProduct("p1", "P1", 1000, 800, 10)
	cart.AddLine(p, SaleTypeRetail)
	cart.SetGlobalDiscount(decimal.NewFromInt(100))

	t.Run("gate can refuse", func(t *testing.T) {
		if err := cart.Clear(func() bool { return false }); !errors.Is(err, ErrClearNotConfirmed) {
			t.Fatalf("err = %v, want ErrClearNotConfirmed", err)
		}
		if cart.IsEmpty() {
			t.Fatal("refused clear must not empty the cart")
		}
	})

	t.Run("confirmed clear empties", func(t *testing.T) {
		if err := cart.Clear(func() bool { return true }); err != nil {
			t.Fatal(err)
		}
		if !cart.IsEmpty() {
			t.Fatal("cart not empty after clear")
		}
	})

	t.Run("idempotent on empty cart", func(t *testing.T) {
		if err := cart.Clear(nil); err != nil {
			t.Fatal(err)
		}
		totals := cart.Totals()
		if !totals.Subtotal.IsZero() || !totals.TaxAmount.IsZero() || !totals.Total.IsZero() {
			t.Errorf("totals = %+v, want all zero", totals)
		}
	})
}

func TestSaleTypeUnitPrice(t *testing.T) {
	p := testProduct("p1", "P1", 1000, 800, 10)

	if price, err := SaleTypeRetail.UnitPrice(p); err != nil || !price.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("retail = %s, %v", price, err)
	}
	if price, err := SaleTypeWholesale.UnitPrice(p); err != nil || !price.Equal(decimal.NewFromInt(800)) {
		t.Errorf("wholesale = %s, %v", price, err)
	}
	if _, err := SaleType("gift").UnitPrice(p); !errors.Is(err, ErrInvalidSaleType) {
		t.Errorf("err = %v, want ErrInvalidSaleType", err)
	}
}
