package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/guineapos/checkout-service/internal/model"
	"github.com/guineapos/checkout-service/internal/pos"
	"github.com/guineapos/checkout-service/internal/pos/dto"
	"github.com/guineapos/checkout-service/pkg/logger"
)

type posUseCase struct {
	repo   pos.Repository
	logger logger.ZapLogger
}

func NewPosUseCase(repo pos.Repository, log logger.ZapLogger) pos.UseCase {
	return &posUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *posUseCase) CreatePointOfSale(ctx context.Context, input *dto.CreatePointOfSaleInput) (*model.PointOfSale, error) {
	now := time.Now()
	p := &model.PointOfSale{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		MerchantID: input.MerchantID,
		Name:       input.Name,
		Location:   input.Location,
		IsActive:   true,
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *posUseCase) GetPointOfSale(ctx context.Context, id string) (*model.PointOfSale, error) {
	return uc.repo.FindByID(ctx, id)
}

func (uc *posUseCase) ListPointsOfSale(ctx context.Context, filters *dto.PointOfSaleFilters) ([]model.PointOfSale, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *posUseCase) UpdatePointOfSale(ctx context.Context, input *dto.UpdatePointOfSaleInput) (*model.PointOfSale, error) {
	p, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if p == nil || p.MerchantID != input.MerchantID {
		return nil, errors.New("point of sale not found")
	}

	p.Name = input.Name
	p.Location = input.Location
	p.IsActive = input.IsActive
	p.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *posUseCase) DeletePointOfSale(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}
