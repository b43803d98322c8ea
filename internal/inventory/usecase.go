package inventory

import (
	"context"

	"github.com/guineapos/checkout-service/internal/inventory/dto"
	"github.com/guineapos/checkout-service/internal/model"
)

type UseCase interface {
	AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.StockLevel, error)
	SetReorderLevel(ctx context.Context, input *dto.SetReorderLevelInput) error
	GetLevel(ctx context.Context, merchantID, productID string, posID *string) (*model.StockLevel, error)
	ListLevels(ctx context.Context, filters *dto.StockLevelFilters) ([]model.StockLevel, int, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)
	// DeductForOrder writes one 'sale' movement per order item. Called from
	// the order event listener, not from HTTP.
	DeductForOrder(ctx context.Context, order *model.Order) error
}
