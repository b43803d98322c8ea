package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/guineapos/checkout-service/internal/checkout"
	"github.com/guineapos/checkout-service/internal/checkout/dto"
	"github.com/guineapos/checkout-service/internal/model"
	"github.com/guineapos/checkout-service/internal/order"
	"github.com/guineapos/checkout-service/internal/product"
	"github.com/guineapos/checkout-service/internal/settings"
	"github.com/guineapos/checkout-service/pkg/gnf"
	"github.com/guineapos/checkout-service/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type checkoutUseCase struct {
	carts         checkout.CartStore
	products      product.UseCase
	settings      settings.UseCase
	orders        order.Repository
	locker        checkout.Locker
	publisher     checkout.Publisher
	submitLockTTL time.Duration
	logger        logger.ZapLogger
}

func NewCheckoutUseCase(
	carts checkout.CartStore,
	products product.UseCase,
	settingsUC settings.UseCase,
	orders order.Repository,
	locker checkout.Locker,
	publisher checkout.Publisher,
	submitLockTTL time.Duration,
	log logger.ZapLogger,
) checkout.UseCase {
	return &checkoutUseCase{
		carts:         carts,
		products:      products,
		settings:      settingsUC,
		orders:        orders,
		locker:        locker,
		publisher:     publisher,
		submitLockTTL: submitLockTTL,
		logger:        log,
	}
}

func posPtr(cart *model.Cart) *string {
	if cart.PointOfSaleID == "" {
		return nil
	}
	return &cart.PointOfSaleID
}

// getOrCreate loads the session's cart, creating an empty one with the
// merchant's tax defaults when none exists yet.
func (uc *checkoutUseCase) getOrCreate(ctx context.Context, merchantID, pointOfSaleID, sessionID string) (*model.Cart, error) {
	cart, err := uc.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if cart != nil && cart.MerchantID == merchantID {
		return cart, nil
	}

	s, err := uc.settings.GetSettings(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	cart = model.NewCart(sessionID, merchantID, pointOfSaleID, s)
	if err := uc.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (uc *checkoutUseCase) resolveSaleType(ctx context.Context, merchantID, raw string) (model.SaleType, error) {
	if raw == "" {
		s, err := uc.settings.GetSettings(ctx, merchantID)
		if err != nil {
			return "", err
		}
		return s.DefaultSaleType, nil
	}
	st := model.SaleType(raw)
	if !st.Valid() {
		return "", model.ErrInvalidSaleType
	}
	return st, nil
}

// fetchProduct returns the product with its stock resolved for the cart's
// point of sale. Stock is always re-fetched at mutation time so the bound is
// checked against the latest known quantity.
func (uc *checkoutUseCase) fetchProduct(ctx context.Context, cart *model.Cart, productID string) (*model.Product, error) {
	p, err := uc.products.GetProduct(ctx, cart.MerchantID, productID, posPtr(cart))
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("product not found: %s", productID)
	}
	if !p.IsActive {
		return nil, fmt.Errorf("product is inactive: %s", p.SKU)
	}
	return p, nil
}

func (uc *checkoutUseCase) GetCart(ctx context.Context, merchantID, pointOfSaleID, sessionID string) (*model.Cart, error) {
	return uc.getOrCreate(ctx, merchantID, pointOfSaleID, sessionID)
}

func (uc *checkoutUseCase) AddLine(ctx context.Context, input *dto.AddLineInput) (*model.Cart, error) {
	cart, err := uc.getOrCreate(ctx, input.MerchantID, input.PointOfSaleID, input.SessionID)
	if err != nil {
		return nil, err
	}

	st, err := uc.resolveSaleType(ctx, input.MerchantID, input.SaleType)
	if err != nil {
		return nil, err
	}

	p, err := uc.fetchProduct(ctx, cart, input.ProductID)
	if err != nil {
		return nil, err
	}

	if err := cart.AddLine(p, st); err != nil {
		return nil, err
	}
	if err := uc.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (uc *checkoutUseCase) UpdateQuantity(ctx context.Context, input *dto.UpdateQuantityInput) (*model.Cart, error) {
	cart, err := uc.getOrCreate(ctx, input.MerchantID, "", input.SessionID)
	if err != nil {
		return nil, err
	}

	st, err := uc.resolveSaleType(ctx, input.MerchantID, input.SaleType)
	if err != nil {
		return nil, err
	}

	p, err := uc.fetchProduct(ctx, cart, input.ProductID)
	if err != nil {
		return nil, err
	}

	if err := cart.UpdateQuantity(input.ProductID, st, input.Delta, p.CurrentStock); err != nil {
		return nil, err
	}
	if err := uc.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (uc *checkoutUseCase) SetUnitPrice(ctx context.Context, input *dto.SetUnitPriceInput) (*model.Cart, error) {
	cart, err := uc.getOrCreate(ctx, input.MerchantID, "", input.SessionID)
	if err != nil {
		return nil, err
	}

	st, err := uc.resolveSaleType(ctx, input.MerchantID, input.SaleType)
	if err != nil {
		return nil, err
	}

	if err := cart.SetUnitPrice(input.ProductID, st, input.UnitPrice); err != nil {
		return nil, err
	}
	if err := uc.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (uc *checkoutUseCase) SetLineDiscount(ctx context.Context, input *dto.SetLineDiscountInput) (*model.Cart, error) {
	cart, err := uc.getOrCreate(ctx, input.MerchantID, "", input.SessionID)
	if err != nil {
		return nil, err
	}

	st, err := uc.resolveSaleType(ctx, input.MerchantID, input.SaleType)
	if err != nil {
		return nil, err
	}

	if err := cart.SetLineDiscount(input.ProductID, st, input.Percent); err != nil {
		return nil, err
	}
	if err := uc.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (uc *checkoutUseCase) RemoveLine(ctx context.Context, merchantID, sessionID, productID string, saleType model.SaleType) (*model.Cart, error) {
	cart, err := uc.getOrCreate(ctx, merchantID, "", sessionID)
	if err != nil {
		return nil, err
	}

	if err := cart.RemoveLine(productID, saleType); err != nil {
		return nil, err
	}
	if err := uc.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (uc *checkoutUseCase) SetGlobalDiscount(ctx context.Context, merchantID, sessionID string, amount decimal.Decimal) (*model.Cart, error) {
	cart, err := uc.getOrCreate(ctx, merchantID, "", sessionID)
	if err != nil {
		return nil, err
	}

	if err := cart.SetGlobalDiscount(amount); err != nil {
		return nil, err
	}
	if err := uc.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (uc *checkoutUseCase) ClearCart(ctx context.Context, merchantID, sessionID string, confirm model.ConfirmFunc) (*model.Cart, error) {
	cart, err := uc.getOrCreate(ctx, merchantID, "", sessionID)
	if err != nil {
		return nil, err
	}

	if err := cart.Clear(confirm); err != nil {
		return nil, err
	}
	if err := uc.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (uc *checkoutUseCase) Totals(ctx context.Context, merchantID, sessionID string) (*model.CartTotals, error) {
	cart, err := uc.getOrCreate(ctx, merchantID, "", sessionID)
	if err != nil {
		return nil, err
	}
	totals := cart.Totals()
	return &totals, nil
}

func generateOrderNumber() string {
	short := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("POS-%s-%d", short, time.Now().Unix())
}

func submitLockKey(sessionID string) string {
	return fmt.Sprintf("checkout:lock:%s", sessionID)
}

// Checkout validates the cart, re-checks stock, persists the order and emits
// the order event. The cart is cleared only after the order is stored; every
// failure path leaves it untouched.
func (uc *checkoutUseCase) Checkout(ctx context.Context, input *dto.CheckoutInput) (*dto.Receipt, error) {
	cart, err := uc.carts.Get(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}
	if cart == nil || cart.MerchantID != input.MerchantID || cart.IsEmpty() {
		return nil, model.ErrEmptyCart
	}

	merchantSettings, err := uc.settings.GetSettings(ctx, input.MerchantID)
	if err != nil {
		return nil, err
	}

	customerID := input.CustomerID
	if customerID == "" && merchantSettings.WalkInCustomerID != nil {
		customerID = *merchantSettings.WalkInCustomerID
	}
	if customerID == "" {
		return nil, model.ErrMissingCustomer
	}

	// One submission per session at a time. A second submit while the first
	// is in flight is a double-tap, not a retry.
	lockKey := submitLockKey(input.SessionID)
	lockToken := uuid.New().String()
	acquired, err := uc.locker.AcquireLock(ctx, lockKey, lockToken, uc.submitLockTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrSubmissionFailed, err)
	}
	if !acquired {
		return nil, model.ErrCheckoutInProgress
	}
	defer func() {
		if err := uc.locker.ReleaseLock(context.Background(), lockKey, lockToken); err != nil {
			uc.logger.Warn("failed to release checkout lock", zap.String("key", lockKey), zap.Error(err))
		}
	}()

	// Stock may have moved since the lines were added; re-validate every
	// line against the latest quantities before committing.
	for i := range cart.Lines {
		line := &cart.Lines[i]
		p, err := uc.fetchProduct(ctx, cart, line.ProductID)
		if err != nil {
			return nil, err
		}
		if line.Quantity > p.CurrentStock {
			return nil, fmt.Errorf("%w: %s has %d in stock, cart wants %d",
				model.ErrStockInsufficient, p.SKU, p.CurrentStock, line.Quantity)
		}
	}

	totals := cart.Totals()
	now := time.Now()
	o := &model.Order{
		ID:            uuid.New().String(),
		MerchantID:    input.MerchantID,
		Number:        generateOrderNumber(),
		CustomerID:    customerID,
		PointOfSaleID: cart.PointOfSaleID,
		PaymentMethod: input.PaymentMethod,
		AmountPaid:    input.AmountPaid,
		Subtotal:      totals.Subtotal,
		TaxAmount:     totals.TaxAmount,
		Discount:      cart.GlobalDiscount,
		Total:         totals.Total,
		Status:        model.OrderStatusCompleted,
		CreatedAt:     now,
	}
	if o.PaymentMethod == "" {
		o.PaymentMethod = "cash"
	}
	for i := range cart.Lines {
		line := &cart.Lines[i]
		o.Items = append(o.Items, model.OrderItem{
			ID:          uuid.New().String(),
			OrderID:     o.ID,
			ProductID:   line.ProductID,
			SKU:         line.SKU,
			Name:        line.Name,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			IsWholesale: line.SaleType == model.SaleTypeWholesale,
			LineTotal:   line.Subtotal(),
		})
	}

	if err := uc.orders.Create(ctx, o); err != nil {
		uc.logger.Error("order submission failed",
			zap.String("session_id", input.SessionID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", model.ErrSubmissionFailed, err)
	}

	uc.publishOrderCreated(ctx, o)

	// Order is stored; the cart clear is the committed path, no confirm gate.
	if err := cart.Clear(nil); err == nil {
		if err := uc.carts.Save(ctx, cart); err != nil {
			uc.logger.Warn("failed to persist cleared cart",
				zap.String("session_id", input.SessionID), zap.Error(err))
		}
	}

	uc.logger.Info("checkout completed",
		zap.String("order_id", o.ID),
		zap.String("order_number", o.Number),
		zap.String("total", o.Total.String()))

	return uc.buildReceipt(o), nil
}

// publishOrderCreated is best-effort: the order is already persisted, so a
// broker outage must not fail the sale. Stock drift is reconciled through a
// manual adjustment when that happens.
func (uc *checkoutUseCase) publishOrderCreated(ctx context.Context, o *model.Order) {
	payload, err := json.Marshal(o)
	if err != nil {
		uc.logger.Error("failed to encode order event", zap.String("order_id", o.ID), zap.Error(err))
		return
	}
	if err := uc.publisher.Publish(ctx, []byte(o.MerchantID), payload); err != nil {
		uc.logger.Error("failed to publish order event", zap.String("order_id", o.ID), zap.Error(err))
	}
}

func (uc *checkoutUseCase) buildReceipt(o *model.Order) *dto.Receipt {
	return &dto.Receipt{
		Order:             o,
		Change:            o.Change(),
		FormattedSubtotal: gnf.Format(o.Subtotal),
		FormattedTax:      gnf.Format(o.TaxAmount),
		FormattedDiscount: gnf.Format(o.Discount),
		FormattedTotal:    gnf.Format(o.Total),
		FormattedChange:   gnf.Format(o.Change()),
	}
}
