package repository

import (
	"context"

	"github.com/sabaidee/pos-api/internal/domain/entity"
)

// SettingsRepository defines the interface for store settings data access.
// The settings row is a singleton.
type SettingsRepository interface {
	Get(ctx context.Context) (*entity.StoreSettings, error)
	Create(ctx context.Context, settings *entity.StoreSettings) error
	Update(ctx context.Context, settings *entity.StoreSettings) error
}
