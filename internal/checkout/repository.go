package checkout

import (
	"context"

	"github.com/guineapos/checkout-service/internal/model"
)

// CartStore persists checkout sessions between requests. Carts are small and
// short-lived; implementations hold the full cart as one value per session.
type CartStore interface {
	// Get returns nil, nil when no cart exists for the session.
	Get(ctx context.Context, sessionID string) (*model.Cart, error)
	Save(ctx context.Context, cart *model.Cart) error
	Delete(ctx context.Context, sessionID string) error
}
