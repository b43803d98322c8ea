package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/guineapos/checkout-service/internal/inventory"
	"github.com/guineapos/checkout-service/internal/inventory/dto"
	"github.com/guineapos/checkout-service/internal/model"
	"github.com/guineapos/checkout-service/pkg/cache"
	"github.com/guineapos/checkout-service/pkg/logger"
	"go.uber.org/zap"
)

const (
	lockTTL      = 5 * time.Second
	lockAttempts = 10
	lockBackoff  = 100 * time.Millisecond
)

type inventoryUseCase struct {
	repo   inventory.Repository
	redis  *cache.RedisClient
	logger logger.ZapLogger
}

func NewInventoryUseCase(repo inventory.Repository, redis *cache.RedisClient, log logger.ZapLogger) inventory.UseCase {
	return &inventoryUseCase{
		repo:   repo,
		redis:  redis,
		logger: log,
	}
}

func stockLockKey(merchantID, productID string, posID *string) string {
	pos := "warehouse"
	if posID != nil {
		pos = *posID
	}
	return fmt.Sprintf("stock:lock:%s:%s:%s", merchantID, pos, productID)
}

// withStockLock serializes writers on one stock row. Redis being down makes
// this a hard failure rather than a silent unlocked write.
func (uc *inventoryUseCase) withStockLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	token := uuid.New().String()

	acquired := false
	for i := 0; i < lockAttempts; i++ {
		ok, err := uc.redis.AcquireLock(ctx, key, token, lockTTL)
		if err != nil {
			return fmt.Errorf("acquire stock lock: %w", err)
		}
		if ok {
			acquired = true
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockBackoff):
		}
	}
	if !acquired {
		return fmt.Errorf("stock lock busy: %s", key)
	}
	defer func() {
		if err := uc.redis.ReleaseLock(context.Background(), key, token); err != nil {
			uc.logger.Warn("failed to release stock lock", zap.String("key", key), zap.Error(err))
		}
	}()

	return fn(ctx)
}

func validMovementType(t string) bool {
	switch t {
	case "sale", "purchase", "adjustment":
		return true
	}
	return false
}

func (uc *inventoryUseCase) AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.StockLevel, error) {
	if !validMovementType(input.MovementType) {
		return nil, fmt.Errorf("unknown movement type: %s", input.MovementType)
	}

	var level *model.StockLevel
	key := stockLockKey(input.MerchantID, input.ProductID, input.PointOfSaleID)
	err := uc.withStockLock(ctx, key, func(ctx context.Context) error {
		current, err := uc.repo.GetLevel(ctx, input.MerchantID, input.ProductID, input.PointOfSaleID)
		if err != nil {
			return err
		}

		now := time.Now()
		before := 0
		if current == nil {
			current = &model.StockLevel{
				ID:            uuid.New().String(),
				MerchantID:    input.MerchantID,
				PointOfSaleID: input.PointOfSaleID,
				ProductID:     input.ProductID,
			}
		} else {
			before = current.Quantity
		}

		after := before + input.QuantityChange
		if after < 0 {
			return model.ErrStockInsufficient
		}

		current.Quantity = after
		current.UpdatedAt = now

		movement := &model.StockMovement{
			ID:             uuid.New().String(),
			MerchantID:     input.MerchantID,
			PointOfSaleID:  input.PointOfSaleID,
			ProductID:      input.ProductID,
			MovementType:   input.MovementType,
			QuantityChange: input.QuantityChange,
			QuantityBefore: before,
			QuantityAfter:  after,
			ReferenceType:  input.ReferenceType,
			ReferenceID:    input.ReferenceID,
			Notes:          input.Notes,
			CreatedBy:      input.CreatedBy,
			CreatedAt:      now,
		}

		if err := uc.repo.ApplyMovement(ctx, current, movement); err != nil {
			return err
		}
		level = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	if level.Quantity <= level.ReorderLevel {
		uc.logger.Info("stock at or below reorder level",
			zap.String("product_id", level.ProductID),
			zap.Int("quantity", level.Quantity),
			zap.Int("reorder_level", level.ReorderLevel))
	}

	return level, nil
}

func (uc *inventoryUseCase) SetReorderLevel(ctx context.Context, input *dto.SetReorderLevelInput) error {
	if input.ReorderLevel < 0 {
		return fmt.Errorf("reorder level must not be negative")
	}
	return uc.repo.SetReorderLevel(ctx, input.MerchantID, input.ProductID, input.PointOfSaleID, input.ReorderLevel)
}

func (uc *inventoryUseCase) GetLevel(ctx context.Context, merchantID, productID string, posID *string) (*model.StockLevel, error) {
	return uc.repo.GetLevel(ctx, merchantID, productID, posID)
}

func (uc *inventoryUseCase) ListLevels(ctx context.Context, filters *dto.StockLevelFilters) ([]model.StockLevel, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *inventoryUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error) {
	return uc.repo.ListMovements(ctx, filters)
}

func (uc *inventoryUseCase) DeductForOrder(ctx context.Context, order *model.Order) error {
	var posID *string
	if order.PointOfSaleID != "" {
		posID = &order.PointOfSaleID
	}

	refType := "order"
	for _, item := range order.Items {
		item := item
		input := &dto.AdjustStockInput{
			MerchantID:     order.MerchantID,
			PointOfSaleID:  posID,
			ProductID:      item.ProductID,
			QuantityChange: -item.Quantity,
			MovementType:   "sale",
			ReferenceType:  &refType,
			ReferenceID:    &order.ID,
			Notes:          fmt.Sprintf("order %s", order.Number),
		}
		if _, err := uc.AdjustStock(ctx, input); err != nil {
			// Checkout validated stock before submitting, so a failure here
			// means the level drifted in between. The movement ledger must
			// not silently skip the item.
			uc.logger.Error("stock deduction failed for order item",
				zap.String("order_id", order.ID),
				zap.String("product_id", item.ProductID),
				zap.Error(err))
			return err
		}
	}
	return nil
}
