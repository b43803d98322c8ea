package settings

import (
	"context"

	"github.com/guineapos/checkout-service/internal/model"
	"github.com/guineapos/checkout-service/internal/settings/dto"
)

type UseCase interface {
	// GetSettings never returns nil: merchants without a row get defaults.
	GetSettings(ctx context.Context, merchantID string) (*model.Settings, error)
	UpdateSettings(ctx context.Context, input *dto.UpdateSettingsInput) (*model.Settings, error)
}
