package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem is a line on an order. PriceAtTime and DiscountAtTime snapshot
// the product at submission so later catalog edits don't rewrite history.
type OrderItem struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID      uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Quantity       int             `gorm:"column:quantity;not null"`
	PriceAtTime    decimal.Decimal `gorm:"column:price_at_time;type:numeric(10,2);not null"`
	DiscountAtTime int             `gorm:"column:discount_at_time;not null;default:0"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
}
