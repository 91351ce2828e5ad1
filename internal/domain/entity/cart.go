package entity

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is a product snapshot plus a quantity. It is owned exclusively by
// the active cart or by a held bill, never shared between the two. Price and
// cost are frozen at the moment the product is added.
type CartItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Price     int64     `json:"price"`
	Cost      int64     `json:"cost"`
	Image     string    `json:"image"`
	Quantity  int       `json:"quantity"`
}

// Total returns price x quantity for this line.
func (i CartItem) Total() int64 {
	return i.Price * int64(i.Quantity)
}

// CartLine is the persisted form of an active-cart line. The cart survives a
// restart by writing lines through on every mutation and reloading them at
// startup.
type CartLine struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null" json:"product_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Price     int64     `gorm:"not null" json:"price"`
	Cost      int64     `gorm:"default:0" json:"cost"`
	Image     string    `gorm:"size:512" json:"image"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Position  int       `gorm:"not null" json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the table name for the CartLine model
func (CartLine) TableName() string {
	return "cart_lines"
}

// Item converts a persisted line back into a cart item.
func (l CartLine) Item() CartItem {
	return CartItem{
		ProductID: l.ProductID,
		Name:      l.Name,
		Price:     l.Price,
		Cost:      l.Cost,
		Image:     l.Image,
		Quantity:  l.Quantity,
	}
}

// NewCartLine builds a persisted line from a cart item at the given position.
func NewCartLine(item CartItem, position int) CartLine {
	return CartLine{
		ID:        uuid.New(),
		ProductID: item.ProductID,
		Name:      item.Name,
		Price:     item.Price,
		Cost:      item.Cost,
		Image:     item.Image,
		Quantity:  item.Quantity,
		Position:  position,
	}
}
