package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsService_CreatesDefaultsOnFirstRead(t *testing.T) {
	repo := &fakeSettingsRepo{}
	svc := NewSettingsService(repo)
	ctx := context.Background()

	settings, err := svc.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Sabaidee POS", settings.StoreName)
	assert.Equal(t, "58mm", settings.PrinterPaperSize)
	assert.False(t, settings.EnablePhaJay)

	// The defaults are persisted, not re-created on every read
	stored, err := repo.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, stored)
}

func TestSettingsService_UpdateSettings(t *testing.T) {
	svc := NewSettingsService(&fakeSettingsRepo{})
	ctx := context.Background()

	settings, err := svc.UpdateSettings(ctx, &UpdateSettingsInput{
		StoreName:        "ຮ້ານສະບາຍດີ",
		Phone:            "020-5555-8888",
		EnablePhaJay:     true,
		PhaJaySecretKey:  "sk_live_abc",
		PhaJayTag:        "POS_01",
		PrinterPaperSize: "80mm",
	})
	require.NoError(t, err)
	assert.Equal(t, "ຮ້ານສະບາຍດີ", settings.StoreName)
	assert.True(t, settings.EnablePhaJay)
	assert.Equal(t, "80mm", settings.PrinterPaperSize)

	// Empty store name keeps the existing one
	settings, err = svc.UpdateSettings(ctx, &UpdateSettingsInput{
		EnablePhaJay:     false,
		PrinterPaperSize: "",
	})
	require.NoError(t, err)
	assert.Equal(t, "ຮ້ານສະບາຍດີ", settings.StoreName)
	assert.False(t, settings.EnablePhaJay)
	assert.Equal(t, "80mm", settings.PrinterPaperSize, "empty paper size keeps the current value")
}

func TestSettingsService_RejectsUnknownPaperSize(t *testing.T) {
	svc := NewSettingsService(&fakeSettingsRepo{})

	_, err := svc.UpdateSettings(context.Background(), &UpdateSettingsInput{
		PrinterPaperSize: "A4",
	})
	assert.Error(t, err)
}
