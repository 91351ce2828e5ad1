package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sabaidee/pos-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Transaction is a completed sale. It is immutable once created and the
// transaction history is append-only. Items are snapshots decoupled from live
// product state, so later price edits never rewrite history.
type Transaction struct {
	ID           uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	PaidAt       time.Time          `gorm:"not null;index" json:"paid_at"`
	Method       enum.PaymentMethod `gorm:"size:10;not null" json:"payment_method"`
	Total        int64              `gorm:"not null" json:"total"`
	CashReceived int64              `gorm:"default:0" json:"cash_received"`
	Change       int64              `gorm:"default:0" json:"change"`
	CreatedAt    time.Time          `json:"created_at"`

	// Relationships
	Items []TransactionItem `gorm:"foreignKey:TransactionID" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new transaction
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Transaction model
func (Transaction) TableName() string {
	return "transactions"
}

// TransactionItem is one line of a recorded sale.
type TransactionItem struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TransactionID uuid.UUID `gorm:"type:uuid;not null;index" json:"transaction_id"`
	ProductID     uuid.UUID `gorm:"type:uuid;not null" json:"product_id"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	Price         int64     `gorm:"not null" json:"price"`
	Cost          int64     `gorm:"default:0" json:"cost"`
	Quantity      int       `gorm:"not null" json:"quantity"`
	Total         int64     `gorm:"not null" json:"total"`
	CreatedAt     time.Time `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new transaction item
func (ti *TransactionItem) BeforeCreate(tx *gorm.DB) error {
	if ti.ID == uuid.Nil {
		ti.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the TransactionItem model
func (TransactionItem) TableName() string {
	return "transaction_items"
}

// NewTransactionItems converts a cart snapshot into transaction lines.
func NewTransactionItems(items []CartItem) []TransactionItem {
	out := make([]TransactionItem, 0, len(items))
	for _, item := range items {
		out = append(out, TransactionItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Cost:      item.Cost,
			Quantity:  item.Quantity,
			Total:     item.Total(),
		})
	}
	return out
}
