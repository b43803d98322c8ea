package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/guineapos/checkout-service/internal/model"
	"github.com/guineapos/checkout-service/internal/settings"
	"github.com/guineapos/checkout-service/internal/settings/dto"
	"github.com/guineapos/checkout-service/pkg/cache"
	"github.com/guineapos/checkout-service/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const settingsCacheTTL = 10 * time.Minute

var decimalOne = decimal.NewFromInt(1)

type settingsUseCase struct {
	repo   settings.Repository
	redis  *cache.RedisClient
	logger logger.ZapLogger
}

func NewSettingsUseCase(repo settings.Repository, redis *cache.RedisClient, log logger.ZapLogger) settings.UseCase {
	return &settingsUseCase{
		repo:   repo,
		redis:  redis,
		logger: log,
	}
}

func settingsCacheKey(merchantID string) string {
	return fmt.Sprintf("settings:%s", merchantID)
}

func (uc *settingsUseCase) GetSettings(ctx context.Context, merchantID string) (*model.Settings, error) {
	key := settingsCacheKey(merchantID)
	if cached, err := uc.redis.Client.Get(ctx, key).Result(); err == nil {
		var s model.Settings
		if err := json.Unmarshal([]byte(cached), &s); err == nil {
			return &s, nil
		}
	}

	s, err := uc.repo.Get(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		s = model.DefaultSettings(merchantID)
	}

	go uc.setCache(key, s)

	return s, nil
}

func (uc *settingsUseCase) UpdateSettings(ctx context.Context, input *dto.UpdateSettingsInput) (*model.Settings, error) {
	saleType := model.SaleType(input.DefaultSaleType)
	if !saleType.Valid() {
		return nil, model.ErrInvalidSaleType
	}
	if input.TaxRate.IsNegative() || input.TaxRate.GreaterThan(decimalOne) {
		return nil, fmt.Errorf("tax rate must be a fraction between 0 and 1")
	}

	currency := input.Currency
	if currency == "" {
		currency = "GNF"
	}

	s := &model.Settings{
		MerchantID:       input.MerchantID,
		DefaultSaleType:  saleType,
		TaxEnabled:       input.TaxEnabled,
		TaxRate:          input.TaxRate,
		Currency:         currency,
		WalkInCustomerID: input.WalkInCustomerID,
		UpdatedAt:        time.Now(),
	}

	if err := uc.repo.Upsert(ctx, s); err != nil {
		return nil, err
	}

	go uc.setCache(settingsCacheKey(input.MerchantID), s)

	return s, nil
}

func (uc *settingsUseCase) setCache(key string, s *model.Settings) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	data, err := json.Marshal(s)
	if err != nil {
		return
	}
	if err := uc.redis.Client.Set(ctx, key, data, settingsCacheTTL).Err(); err != nil {
		uc.logger.Warn("failed to cache settings", zap.String("key", key), zap.Error(err))
	}
}
