package order

import (
	"context"

	"github.com/guineapos/checkout-service/internal/model"
	"github.com/guineapos/checkout-service/internal/order/dto"
)

type UseCase interface {
	GetOrder(ctx context.Context, merchantID, id string) (*model.Order, error)
	ListOrders(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error)
	// VoidOrder flips the status and returns each item's quantity to stock.
	VoidOrder(ctx context.Context, merchantID, id string, operatorID *string) (*model.Order, error)
}
