package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sabaidee/pos-api/internal/application/service"
	"github.com/sabaidee/pos-api/internal/presentation/http/dto/response"
)

// SettingsHandler handles store settings HTTP requests
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GetSettings retrieves the store settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.GetSettings(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Settings retrieved successfully", settings)
}

// UpdateSettings updates the store settings
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req struct {
		StoreName        string `json:"store_name"`
		Address          string `json:"address"`
		Phone            string `json:"phone"`
		LogoURL          string `json:"logo_url"`
		EnablePhaJay     bool   `json:"enable_phajay"`
		PhaJaySecretKey  string `json:"phajay_secret_key"`
		PhaJayTag        string `json:"phajay_tag"`
		ReceiptHeader    string `json:"receipt_header"`
		ReceiptFooter    string `json:"receipt_footer"`
		PrinterPaperSize string `json:"printer_paper_size"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	settings, err := h.settingsService.UpdateSettings(c.Request.Context(), &service.UpdateSettingsInput{
		StoreName:        req.StoreName,
		Address:          req.Address,
		Phone:            req.Phone,
		LogoURL:          req.LogoURL,
		EnablePhaJay:     req.EnablePhaJay,
		PhaJaySecretKey:  req.PhaJaySecretKey,
		PhaJayTag:        req.PhaJayTag,
		ReceiptHeader:    req.ReceiptHeader,
		ReceiptFooter:    req.ReceiptFooter,
		PrinterPaperSize: req.PrinterPaperSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings updated successfully", settings)
}
