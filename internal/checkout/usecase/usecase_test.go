package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/guineapos/checkout-service/internal/checkout"
	"github.com/guineapos/checkout-service/internal/checkout/dto"
	"github.com/guineapos/checkout-service/internal/checkout/repository"
	"github.com/guineapos/checkout-service/internal/model"
	odto "github.com/guineapos/checkout-service/internal/order/dto"
	pdto "github.com/guineapos/checkout-service/internal/product/dto"
	sdto "github.com/guineapos/checkout-service/internal/settings/dto"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...zap.Field) {}
func (nopLogger) Info(string, ...zap.Field)  {}
func (nopLogger) Warn(string, ...zap.Field)  {}
func (nopLogger) Error(string, ...zap.Field) {}
func (nopLogger) Fatal(string, ...zap.Field) {}
func (nopLogger) Sync() error                { return nil }

type fakeProducts struct {
	products map[string]*model.Product
}

func (f *fakeProducts) CreateProduct(context.Context, *pdto.CreateProductInput) (*model.Product, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeProducts) GetProduct(_ context.Context, merchantID, id string, _ *string) (*model.Product, error) {
	p, ok := f.products[id]
	if !ok || p.MerchantID != merchantID {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (f *fakeProducts) ListProducts(context.Context, *pdto.ProductFilters) ([]model.Product, int, error) {
	return nil, 0, errors.New("not implemented")
}

func (f *fakeProducts) UpdateProduct(context.Context, *pdto.UpdateProductInput) (*model.Product, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeProducts) DeleteProduct(context.Context, string, string) error {
	return errors.New("not implemented")
}

type fakeSettings struct {
	settings *model.Settings
}

func (f *fakeSettings) GetSettings(_ context.Context, merchantID string) (*model.Settings, error) {
	if f.settings != nil {
		return f.settings, nil
	}
	return model.DefaultSettings(merchantID), nil
}

func (f *fakeSettings) UpdateSettings(context.Context, *sdto.UpdateSettingsInput) (*model.Settings, error) {
	return nil, errors.New("not implemented")
}

type fakeOrders struct {
	createErr   error
	createCalls int
	created     []*model.Order
}

func (f *fakeOrders) Create(_ context.Context, o *model.Order) error {
	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, o)
	return nil
}

func (f *fakeOrders) FindByID(context.Context, string) (*model.Order, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeOrders) FindAll(context.Context, *odto.OrderFilters) ([]model.Order, int, error) {
	return nil, 0, errors.New("not implemented")
}

func (f *fakeOrders) UpdateStatus(context.Context, string, model.OrderStatus) error {
	return errors.New("not implemented")
}

type fakeLocker struct {
	mu   sync.Mutex
	held map[string]string
}

func (l *fakeLocker) AcquireLock(_ context.Context, key, value string, _ time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held == nil {
		l.held = map[string]string{}
	}
	if _, ok := l.held[key]; ok {
		return false, nil
	}
	l.held[key] = value
	return true, nil
}

func (l *fakeLocker) ReleaseLock(_ context.Context, key, value string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] == value {
		delete(l.held, key)
	}
	return nil
}

type fakePublisher struct {
	messages [][]byte
}

func (p *fakePublisher) Publish(_ context.Context, _, value []byte) error {
	p.messages = append(p.messages, value)
	return nil
}

const (
	testMerchant = "merchant-1"
	testSession  = "session-1"
	testPOS      = "pos-1"
)

func testProduct(id string, retail, wholesale int64, stock int) *model.Product {
	return &model.Product{
		BaseModel:             model.BaseModel{ID: id},
		MerchantID:            testMerchant,
		SKU:                   "SKU-" + id,
		Name:                  "Product " + id,
		SellingPrice:          decimal.NewFromInt(retail),
		WholesaleSellingPrice: decimal.NewFromInt(wholesale),
		IsActive:              true,
		CurrentStock:          stock,
	}
}

type fixture struct {
	uc        checkout.UseCase
	carts     *repository.MemoryCartStore
	products  *fakeProducts
	settings  *fakeSettings
	orders    *fakeOrders
	locker    *fakeLocker
	publisher *fakePublisher
}

func newFixture() *fixture {
	f := &fixture{
		carts:     repository.NewMemoryCartStore(),
		products:  &fakeProducts{products: map[string]*model.Product{}},
		settings:  &fakeSettings{},
		orders:    &fakeOrders{},
		locker:    &fakeLocker{},
		publisher: &fakePublisher{},
	}
	f.uc = NewCheckoutUseCase(f.carts, f.products, f.settings, f.orders, f.locker, f.publisher, 5*time.Second, nopLogger{})
	return f
}

func (f *fixture) addLine(t *testing.T, productID, saleType string) *model.Cart {
	t.Helper()
	cart, err := f.uc.AddLine(context.Background(), &dto.AddLineInput{
		MerchantID:    testMerchant,
		PointOfSaleID: testPOS,
		SessionID:     testSession,
		ProductID:     productID,
		SaleType:      saleType,
	})
	if err != nil {
		t.Fatalf("AddLine(%s, %s): %v", productID, saleType, err)
	}
	return cart
}

func (f *fixture) checkout(customerID string, paid int64) (*dto.Receipt, error) {
	return f.uc.Checkout(context.Background(), &dto.CheckoutInput{
		MerchantID:    testMerchant,
		PointOfSaleID: testPOS,
		SessionID:     testSession,
		CustomerID:    customerID,
		PaymentMethod: "cash",
		AmountPaid:    decimal.NewFromInt(paid),
	})
}

func TestAddLineUsesDefaultSaleType(t *testing.T) {
	f := newFixture()
	f.products.products["p1"] = testProduct("p1", 1000, 800, 10)
	f.settings.settings = &model.Settings{
		MerchantID:      testMerchant,
		DefaultSaleType: model.SaleTypeWholesale,
		Currency:        "GNF",
	}

	cart := f.addLine(t, "p1", "")

	line, ok := cart.Line("p1", model.SaleTypeWholesale)
	if !ok {
		t.Fatal("expected a wholesale line")
	}
	if !line.UnitPrice.Equal(decimal.NewFromInt(800)) {
		t.Errorf("unit price = %s, want 800", line.UnitPrice)
	}
}

func TestAddLinePersistsAcrossRequests(t *testing.T) {
	f := newFixture()
	f.products.products["p1"] = testProduct("p1", 1000, 800, 10)

	f.addLine(t, "p1", "retail")
	f.addLine(t, "p1", "retail")

	cart, err := f.uc.GetCart(context.Background(), testMerchant, testPOS, testSession)
	if err != nil {
		t.Fatalf("GetCart: %v", err)
	}
	line, ok := cart.Line("p1", model.SaleTypeRetail)
	if !ok || line.Quantity != 2 {
		t.Errorf("line = %+v, ok = %v, want quantity 2", line, ok)
	}
}

func TestAddLineRejectsStaleStock(t *testing.T) {
	f := newFixture()
	f.products.products["p1"] = testProduct("p1", 1000, 800, 5)

	f.addLine(t, "p1", "retail")
	f.addLine(t, "p1", "retail")

	// Most of the stock sold elsewhere between requests.
	f.products.products["p1"].CurrentStock = 2

	_, err := f.uc.AddLine(context.Background(), &dto.AddLineInput{
		MerchantID:    testMerchant,
		PointOfSaleID: testPOS,
		SessionID:     testSession,
		ProductID:     "p1",
		SaleType:      "retail",
	})
	if !errors.Is(err, model.ErrStockInsufficient) {
		t.Fatalf("err = %v, want ErrStockInsufficient", err)
	}

	cart, _ := f.uc.GetCart(context.Background(), testMerchant, testPOS, testSession)
	line, _ := cart.Line("p1", model.SaleTypeRetail)
	if line.Quantity != 2 {
		t.Errorf("quantity = %d, want 2 (rejected add must not change the line)", line.Quantity)
	}
}

func TestClearCartRequiresConfirmation(t *testing.T) {
	f := newFixture()
	f.products.products["p1"] = testProduct("p1", 1000, 800, 10)
	f.addLine(t, "p1", "retail")

	_, err := f.uc.ClearCart(context.Background(), testMerchant, testSession, func() bool { return false })
	if !errors.Is(err, model.ErrClearNotConfirmed) {
		t.Fatalf("err = %v, want ErrClearNotConfirmed", err)
	}

	cart, _ := f.uc.GetCart(context.Background(), testMerchant, testPOS, testSession)
	if cart.IsEmpty() {
		t.Error("refused clear must leave the cart intact")
	}

	if _, err := f.uc.ClearCart(context.Background(), testMerchant, testSession, func() bool { return true }); err != nil {
		t.Fatalf("confirmed clear: %v", err)
	}
	cart, _ = f.uc.GetCart(context.Background(), testMerchant, testPOS, testSession)
	if !cart.IsEmpty() {
		t.Error("confirmed clear must empty the cart")
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newFixture()

	_, err := f.checkout("cust-1", 5000)
	if !errors.Is(err, model.ErrEmptyCart) {
		t.Fatalf("err = %v, want ErrEmptyCart", err)
	}
	if f.orders.createCalls != 0 {
		t.Errorf("order repository called %d times on empty cart", f.orders.createCalls)
	}
}

func TestCheckoutMissingCustomer(t *testing.T) {
	f := newFixture()
	f.products.products["p1"] = testProduct("p1", 1000, 800, 10)
	f.addLine(t, "p1", "retail")

	_, err := f.checkout("", 5000)
	if !errors.Is(err, model.ErrMissingCustomer) {
		t.Fatalf("err = %v, want ErrMissingCustomer", err)
	}
	if f.orders.createCalls != 0 {
		t.Errorf("order repository called %d times without a customer", f.orders.createCalls)
	}

	cart, _ := f.uc.GetCart(context.Background(), testMerchant, testPOS, testSession)
	if cart.IsEmpty() {
		t.Error("failed checkout must preserve the cart")
	}
}

func TestCheckoutFallsBackToWalkInCustomer(t *testing.T) {
	f := newFixture()
	walkIn := "walk-in-1"
	f.settings.settings = &model.Settings{
		MerchantID:       testMerchant,
		DefaultSaleType:  model.SaleTypeRetail,
		Currency:         "GNF",
		WalkInCustomerID: &walkIn,
	}
	f.products.products["p1"] = testProduct("p1", 1000, 800, 10)
	f.addLine(t, "p1", "retail")

	receipt, err := f.checkout("", 5000)
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if receipt.Order.CustomerID != walkIn {
		t.Errorf("customer = %s, want walk-in %s", receipt.Order.CustomerID, walkIn)
	}
}

func TestCheckoutRevalidatesStock(t *testing.T) {
	f := newFixture()
	f.products.products["p1"] = testProduct("p1", 1000, 800, 5)

	for i := 0; i < 3; i++ {
		f.addLine(t, "p1", "retail")
	}

	// Another terminal sold the remaining stock before submission.
	f.products.products["p1"].CurrentStock = 1

	_, err := f.checkout("cust-1", 5000)
	if !errors.Is(err, model.ErrStockInsufficient) {
		t.Fatalf("err = %v, want ErrStockInsufficient", err)
	}
	if f.orders.createCalls != 0 {
		t.Error("order must not be created when stock re-validation fails")
	}

	cart, _ := f.uc.GetCart(context.Background(), testMerchant, testPOS, testSession)
	if cart.IsEmpty() {
		t.Error("failed checkout must preserve the cart")
	}
}

func TestCheckoutSubmissionFailurePreservesCart(t *testing.T) {
	f := newFixture()
	f.products.products["p1"] = testProduct("p1", 1000, 800, 10)
	f.addLine(t, "p1", "retail")

	f.orders.createErr = errors.New("db down")

	_, err := f.checkout("cust-1", 5000)
	if !errors.Is(err, model.ErrSubmissionFailed) {
		t.Fatalf("err = %v, want ErrSubmissionFailed", err)
	}

	cart, _ := f.uc.GetCart(context.Background(), testMerchant, testPOS, testSession)
	if cart.IsEmpty() {
		t.Error("failed submission must preserve the cart")
	}
	if len(f.publisher.messages) != 0 {
		t.Error("no event must be published for a failed submission")
	}

	// The lock is released on failure, so the retry goes through.
	f.orders.createErr = nil
	if _, err := f.checkout("cust-1", 5000); err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
}

func TestCheckoutDuplicateSubmitRejected(t *testing.T) {
	f := newFixture()
	f.products.products["p1"] = testProduct("p1", 1000, 800, 10)
	f.addLine(t, "p1", "retail")

	// First submission still in flight.
	f.locker.held = map[string]string{"checkout:lock:" + testSession: "other"}

	_, err := f.checkout("cust-1", 5000)
	if !errors.Is(err, model.ErrCheckoutInProgress) {
		t.Fatalf("err = %v, want ErrCheckoutInProgress", err)
	}
	if f.orders.createCalls != 0 {
		t.Error("duplicate submit must not reach the order repository")
	}
}

func TestCheckoutSuccess(t *testing.T) {
	f := newFixture()
	f.settings.settings = &model.Settings{
		MerchantID:      testMerchant,
		DefaultSaleType: model.SaleTypeRetail,
		TaxEnabled:      true,
		TaxRate:         decimal.RequireFromString("0.18"),
		Currency:        "GNF",
	}
	f.products.products["p1"] = testProduct("p1", 1000, 800, 10)
	f.products.products["p2"] = testProduct("p2", 500, 400, 10)

	f.addLine(t, "p1", "retail")
	f.addLine(t, "p1", "retail")
	f.addLine(t, "p2", "wholesale")

	receipt, err := f.checkout("cust-1", 5000)
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	o := receipt.Order
	if !o.Subtotal.Equal(decimal.NewFromInt(2400)) {
		t.Errorf("subtotal = %s, want 2400", o.Subtotal)
	}
	if !o.TaxAmount.Equal(decimal.NewFromInt(432)) {
		t.Errorf("tax = %s, want 432", o.TaxAmount)
	}
	if !o.Total.Equal(decimal.NewFromInt(2832)) {
		t.Errorf("total = %s, want 2832", o.Total)
	}
	if !receipt.Change.Equal(decimal.NewFromInt(2168)) {
		t.Errorf("change = %s, want 2168", receipt.Change)
	}
	if len(o.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(o.Items))
	}
	if o.Number == "" {
		t.Error("order number must be generated")
	}
	if receipt.FormattedTotal == "" {
		t.Error("receipt must carry a formatted total")
	}

	if f.orders.createCalls != 1 {
		t.Errorf("order repository called %d times, want 1", f.orders.createCalls)
	}
	if len(f.publisher.messages) != 1 {
		t.Errorf("published %d events, want 1", len(f.publisher.messages))
	}

	cart, _ := f.uc.GetCart(context.Background(), testMerchant, testPOS, testSession)
	if !cart.IsEmpty() {
		t.Error("successful checkout must clear the cart")
	}
	if !cart.GlobalDiscount.IsZero() {
		t.Error("successful checkout must reset the global discount")
	}

	// The session lock is released for the next sale.
	f.addLine(t, "p1", "retail")
	if _, err := f.checkout("cust-1", 5000); err != nil {
		t.Fatalf("second sale on same session: %v", err)
	}
}

func TestCheckoutAppliesGlobalDiscount(t *testing.T) {
	f := newFixture()
	f.products.products["p1"] = testProduct("p1", 1000, 800, 10)
	f.addLine(t, "p1", "retail")

	if _, err := f.uc.SetGlobalDiscount(context.Background(), testMerchant, testSession, decimal.NewFromInt(300)); err != nil {
		t.Fatalf("SetGlobalDiscount: %v", err)
	}

	receipt, err := f.checkout("cust-1", 1000)
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if !receipt.Order.Total.Equal(decimal.NewFromInt(700)) {
		t.Errorf("total = %s, want 700", receipt.Order.Total)
	}
	if !receipt.Order.Discount.Equal(decimal.NewFromInt(300)) {
		t.Errorf("discount = %s, want 300", receipt.Order.Discount)
	}
}
