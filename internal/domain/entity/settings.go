package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StoreSettings is a singleton row holding the store identity, payment
// gateway credentials, and receipt options. It is created with defaults the
// first time it is read.
type StoreSettings struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	StoreName       string    `gorm:"size:255;not null" json:"store_name"`
	Address         string    `gorm:"size:512" json:"address"`
	Phone           string    `gorm:"size:50" json:"phone"`
	LogoURL         string    `gorm:"size:512" json:"logo_url"`
	EnablePhaJay    bool      `gorm:"default:false" json:"enable_phajay"`
	PhaJaySecretKey string    `gorm:"size:255" json:"phajay_secret_key"`
	PhaJayTag       string    `gorm:"size:100" json:"phajay_tag"`
	ReceiptHeader   string    `gorm:"size:512" json:"receipt_header"`
	ReceiptFooter   string    `gorm:"size:512" json:"receipt_footer"`
	// PrinterPaperSize is "58mm" or "80mm"
	PrinterPaperSize string    `gorm:"size:10;default:'58mm'" json:"printer_paper_size"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating settings
func (s *StoreSettings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the StoreSettings model
func (StoreSettings) TableName() string {
	return "store_settings"
}

// DefaultStoreSettings returns the settings used when none exist yet.
func DefaultStoreSettings() *StoreSettings {
	return &StoreSettings{
		StoreName:        "Sabaidee POS",
		ReceiptFooter:    "Thank you, see you again!",
		PrinterPaperSize: "58mm",
	}
}
