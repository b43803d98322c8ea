package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/guineapos/checkout-service/internal/inventory"
	invdto "github.com/guineapos/checkout-service/internal/inventory/dto"
	"github.com/guineapos/checkout-service/internal/model"
	"github.com/guineapos/checkout-service/internal/order"
	"github.com/guineapos/checkout-service/internal/order/dto"
	"github.com/guineapos/checkout-service/pkg/logger"
	"go.uber.org/zap"
)

type orderUseCase struct {
	repo      order.Repository
	inventory inventory.UseCase
	logger    logger.ZapLogger
}

func NewOrderUseCase(repo order.Repository, inv inventory.UseCase, log logger.ZapLogger) order.UseCase {
	return &orderUseCase{
		repo:      repo,
		inventory: inv,
		logger:    log,
	}
}

func (uc *orderUseCase) GetOrder(ctx context.Context, merchantID, id string) (*model.Order, error) {
	o, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil || o.MerchantID != merchantID {
		return nil, nil
	}
	return o, nil
}

func (uc *orderUseCase) ListOrders(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *orderUseCase) VoidOrder(ctx context.Context, merchantID, id string, operatorID *string) (*model.Order, error) {
	o, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil || o.MerchantID != merchantID {
		return nil, errors.New("order not found")
	}
	if o.Status == model.OrderStatusVoided {
		return nil, errors.New("order already voided")
	}

	if err := uc.repo.UpdateStatus(ctx, id, model.OrderStatusVoided); err != nil {
		return nil, err
	}
	o.Status = model.OrderStatusVoided

	// Compensating movements return each item to stock. A failure here
	// leaves the order voided with stock off by one sale; the movement
	// ledger makes that visible for manual correction.
	var posID *string
	if o.PointOfSaleID != "" {
		posID = &o.PointOfSaleID
	}
	refType := "void"
	for _, item := range o.Items {
		item := item
		_, err := uc.inventory.AdjustStock(ctx, &invdto.AdjustStockInput{
			MerchantID:     merchantID,
			PointOfSaleID:  posID,
			ProductID:      item.ProductID,
			QuantityChange: item.Quantity,
			MovementType:   "adjustment",
			ReferenceType:  &refType,
			ReferenceID:    &o.ID,
			Notes:          fmt.Sprintf("void order %s", o.Number),
			CreatedBy:      operatorID,
		})
		if err != nil {
			uc.logger.Error("failed to return stock for voided order",
				zap.String("order_id", o.ID),
				zap.String("product_id", item.ProductID),
				zap.Error(err))
		}
	}

	return o, nil
}
