package order

import (
	"context"

	"github.com/guineapos/checkout-service/internal/model"
	"github.com/guineapos/checkout-service/internal/order/dto"
)

type Repository interface {
	// Create persists the order header and its items in one transaction.
	Create(ctx context.Context, o *model.Order) error
	FindByID(ctx context.Context, id string) (*model.Order, error)
	FindAll(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error)
	UpdateStatus(ctx context.Context, id string, status model.OrderStatus) error
}
