package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HeldBill is a parked cart: the cashier sets an order aside to serve someone
// else and recalls it later. The total is computed once at hold time and is
// deliberately not recomputed if product prices change afterwards.
type HeldBill struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Note      string    `gorm:"size:255" json:"note"`
	Total     int64     `gorm:"not null" json:"total"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Items []HeldBillItem `gorm:"foreignKey:HeldBillID" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new held bill
func (b *HeldBill) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the HeldBill model
func (HeldBill) TableName() string {
	return "held_bills"
}

// CartItems converts the bill's stored lines back into cart items, preserving
// their original order.
func (b *HeldBill) CartItems() []CartItem {
	items := make([]CartItem, 0, len(b.Items))
	for _, line := range b.Items {
		items = append(items, CartItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Price:     line.Price,
			Cost:      line.Cost,
			Image:     line.Image,
			Quantity:  line.Quantity,
		})
	}
	return items
}

// HeldBillItem is one line of a parked cart.
type HeldBillItem struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	HeldBillID uuid.UUID `gorm:"type:uuid;not null;index" json:"held_bill_id"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null" json:"product_id"`
	Name       string    `gorm:"size:255;not null" json:"name"`
	Price      int64     `gorm:"not null" json:"price"`
	Cost       int64     `gorm:"default:0" json:"cost"`
	Image      string    `gorm:"size:512" json:"image"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	Position   int       `gorm:"not null" json:"position"`
	CreatedAt  time.Time `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new held bill item
func (i *HeldBillItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the HeldBillItem model
func (HeldBillItem) TableName() string {
	return "held_bill_items"
}

// NewHeldBill snapshots the given cart items into a bill with a frozen total.
func NewHeldBill(note string, items []CartItem) *HeldBill {
	bill := &HeldBill{
		ID:   uuid.New(),
		Note: note,
	}
	for i, item := range items {
		bill.Total += item.Total()
		bill.Items = append(bill.Items, HeldBillItem{
			HeldBillID: bill.ID,
			ProductID:  item.ProductID,
			Name:       item.Name,
			Price:      item.Price,
			Cost:       item.Cost,
			Image:      item.Image,
			Quantity:   item.Quantity,
			Position:   i,
		})
	}
	return bill
}
