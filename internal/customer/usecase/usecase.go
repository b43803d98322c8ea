package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/guineapos/checkout-service/internal/customer"
	"github.com/guineapos/checkout-service/internal/customer/dto"
	"github.com/guineapos/checkout-service/internal/model"
	"github.com/guineapos/checkout-service/pkg/logger"
)

type customerUseCase struct {
	repo   customer.Repository
	logger logger.ZapLogger
}

func NewCustomerUseCase(repo customer.Repository, log logger.ZapLogger) customer.UseCase {
	return &customerUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *customerUseCase) CreateCustomer(ctx context.Context, input *dto.CreateCustomerInput) (*model.Customer, error) {
	now := time.Now()
	cust := &model.Customer{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		MerchantID: input.MerchantID,
		Name:       input.Name,
		Phone:      input.Phone,
		IsActive:   true,
	}

	if err := uc.repo.Create(ctx, cust); err != nil {
		return nil, err
	}
	return cust, nil
}

func (uc *customerUseCase) GetCustomer(ctx context.Context, id string) (*model.Customer, error) {
	return uc.repo.FindByID(ctx, id)
}

func (uc *customerUseCase) ListCustomers(ctx context.Context, filters *dto.CustomerFilters) ([]model.Customer, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *customerUseCase) UpdateCustomer(ctx context.Context, input *dto.UpdateCustomerInput) (*model.Customer, error) {
	cust, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if cust == nil || cust.MerchantID != input.MerchantID {
		return nil, errors.New("customer not found")
	}

	cust.Name = input.Name
	cust.Phone = input.Phone
	cust.IsActive = input.IsActive
	cust.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, cust); err != nil {
		return nil, err
	}
	return cust, nil
}

func (uc *customerUseCase) DeleteCustomer(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}
