package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelvillar/pawmart-backend/pkg/enums"
)

// Order is a submitted checkout. TotalAmount is captured at submission time
// and never recomputed from the items.
type Order struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index"`
	TotalAmount   decimal.Decimal   `gorm:"column:total_amount;type:numeric(10,2);not null"`
	Status        enums.OrderStatus `gorm:"column:status;not null;default:pending"`
	DeclineReason *string           `gorm:"column:decline_reason"`
	Items         []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
