package settings

import (
	"context"

	"github.com/guineapos/checkout-service/internal/model"
)

type Repository interface {
	// Get returns nil, nil when the merchant has no settings row yet.
	Get(ctx context.Context, merchantID string) (*model.Settings, error)
	Upsert(ctx context.Context, s *model.Settings) error
}
