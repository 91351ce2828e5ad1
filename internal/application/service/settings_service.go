package service

import (
	"context"

	"github.com/sabaidee/pos-api/internal/domain/entity"
	"github.com/sabaidee/pos-api/internal/domain/repository"
	"github.com/sabaidee/pos-api/pkg/apperror"
)

// SettingsService handles store settings business logic
type SettingsService struct {
	settingsRepo repository.SettingsRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo repository.SettingsRepository) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
	}
}

// GetSettings retrieves the store settings, creating defaults if none exist
func (s *SettingsService) GetSettings(ctx context.Context) (*entity.StoreSettings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	// If no settings exist, create default settings
	if settings == nil {
		settings = entity.DefaultStoreSettings()
		if err := s.settingsRepo.Create(ctx, settings); err != nil {
			return nil, err
		}
	}

	return settings, nil
}

// UpdateSettingsInput represents the input for updating settings
type UpdateSettingsInput struct {
	StoreName        string
	Address          string
	Phone            string
	LogoURL          string
	EnablePhaJay     bool
	PhaJaySecretKey  string
	PhaJayTag        string
	ReceiptHeader    string
	ReceiptFooter    string
	PrinterPaperSize string
}

// UpdateSettings updates the store settings
func (s *SettingsService) UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*entity.StoreSettings, error) {
	if input.PrinterPaperSize != "" && input.PrinterPaperSize != "58mm" && input.PrinterPaperSize != "80mm" {
		return nil, apperror.NewBadRequestError("Printer paper size must be 58mm or 80mm")
	}

	settings, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	if input.StoreName != "" {
		settings.StoreName = input.StoreName
	}
	settings.Address = input.Address
	settings.Phone = input.Phone
	settings.LogoURL = input.LogoURL
	settings.EnablePhaJay = input.EnablePhaJay
	settings.PhaJaySecretKey = input.PhaJaySecretKey
	settings.PhaJayTag = input.PhaJayTag
	settings.ReceiptHeader = input.ReceiptHeader
	settings.ReceiptFooter = input.ReceiptFooter
	if input.PrinterPaperSize != "" {
		settings.PrinterPaperSize = input.PrinterPaperSize
	}

	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return nil, err
	}

	return settings, nil
}
