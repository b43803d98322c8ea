package inventory

import (
	"context"

	"github.com/guineapos/checkout-service/internal/inventory/dto"
	"github.com/guineapos/checkout-service/internal/model"
)

type Repository interface {
	// GetLevel returns nil, nil when no row exists for the product at the
	// given point of sale (nil posID = central warehouse).
	GetLevel(ctx context.Context, merchantID, productID string, posID *string) (*model.StockLevel, error)
	// BatchGetLevels returns levels keyed by product ID. Products with no
	// stock row are absent from the map.
	BatchGetLevels(ctx context.Context, merchantID string, productIDs []string, posID *string) (map[string]model.StockLevel, error)
	FindAll(ctx context.Context, filters *dto.StockLevelFilters) ([]model.StockLevel, int, error)
	// ApplyMovement upserts the stock level and records the movement in one
	// transaction.
	ApplyMovement(ctx context.Context, level *model.StockLevel, movement *model.StockMovement) error
	SetReorderLevel(ctx context.Context, merchantID, productID string, posID *string, reorderLevel int) error
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)
}
