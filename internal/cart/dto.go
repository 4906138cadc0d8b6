package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line is one cart row joined against the live catalog.
type Line struct {
	ProductID    uuid.UUID       `json:"product_id"`
	Name         string          `json:"name"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	DisplayPrice decimal.Decimal `json:"display_price"`
	InStock      bool            `json:"in_stock"`
	ImageURL     *string         `json:"image_url,omitempty"`
	LineTotal    decimal.Decimal `json:"line_total"`
}

// View is the assembled cart returned to the client. Total is computed from
// undiscounted unit prices, matching what checkout will charge.
type View struct {
	Lines []Line          `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

// SetQuantityInput captures a cart mutation for one product.
type SetQuantityInput struct {
	UserID    uuid.UUID
	ProductID uuid.UUID
	Quantity  int
}
