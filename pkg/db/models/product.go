package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents an item in the storefront catalog. Admin-only mutation;
// deletes are hard deletes.
type Product struct {
	ID                 uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name               string          `gorm:"column:name;not null"`
	Description        *string         `gorm:"column:description"`
	Price              decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	InStock            bool            `gorm:"column:in_stock;not null;default:true"`
	DiscountPercentage int             `gorm:"column:discount_percentage;not null;default:0"`
	ImageURL           *string         `gorm:"column:image_url"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
