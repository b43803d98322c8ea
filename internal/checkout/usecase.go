package checkout

import (
	"context"
	"time"

	"github.com/guineapos/checkout-service/internal/checkout/dto"
	"github.com/guineapos/checkout-service/internal/model"
	"github.com/shopspring/decimal"
)

// Locker is the distributed lock surface the checkout path needs. Satisfied
// by cache.RedisClient.
type Locker interface {
	AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, value string) error
}

// Publisher emits order events for downstream consumers (stock deduction).
// Satisfied by broker.KafkaProducer.
type Publisher interface {
	Publish(ctx context.Context, key, value []byte) error
}

type UseCase interface {
	// GetCart returns the session's cart, creating an empty one snapshotting
	// the merchant's tax defaults when none exists.
	GetCart(ctx context.Context, merchantID, pointOfSaleID, sessionID string) (*model.Cart, error)
	AddLine(ctx context.Context, input *dto.AddLineInput) (*model.Cart, error)
	UpdateQuantity(ctx context.Context, input *dto.UpdateQuantityInput) (*model.Cart, error)
	SetUnitPrice(ctx context.Context, input *dto.SetUnitPriceInput) (*model.Cart, error)
	SetLineDiscount(ctx context.Context, input *dto.SetLineDiscountInput) (*model.Cart, error)
	RemoveLine(ctx context.Context, merchantID, sessionID, productID string, saleType model.SaleType) (*model.Cart, error)
	SetGlobalDiscount(ctx context.Context, merchantID, sessionID string, amount decimal.Decimal) (*model.Cart, error)
	// ClearCart empties the session's cart. The confirm gate must approve;
	// a nil gate means the caller already confirmed.
	ClearCart(ctx context.Context, merchantID, sessionID string, confirm model.ConfirmFunc) (*model.Cart, error)
	Totals(ctx context.Context, merchantID, sessionID string) (*model.CartTotals, error)
	// Checkout submits the cart as an order. On any failure the cart is left
	// exactly as it was so the operator can retry.
	Checkout(ctx context.Context, input *dto.CheckoutInput) (*dto.Receipt, error)
}
