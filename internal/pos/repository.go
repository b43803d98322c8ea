package pos

import (
	"context"

	"github.com/guineapos/checkout-service/internal/model"
	"github.com/guineapos/checkout-service/internal/pos/dto"
)

type Repository interface {
	Create(ctx context.Context, p *model.PointOfSale) error
	FindByID(ctx context.Context, id string) (*model.PointOfSale, error)
	FindAll(ctx context.Context, filters *dto.PointOfSaleFilters) ([]model.PointOfSale, int, error)
	Update(ctx context.Context, p *model.PointOfSale) error
	Delete(ctx context.Context, id string) error
}
