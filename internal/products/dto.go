package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelvillar/pawmart-backend/pkg/db/models"
)

// ProductView is the catalog payload returned to clients. DisplayPrice is the
// discounted unit price; Price stays the undiscounted base.
type ProductView struct {
	ID                 uuid.UUID       `json:"id"`
	Name               string          `json:"name"`
	Description        *string         `json:"description,omitempty"`
	Price              decimal.Decimal `json:"price"`
	DisplayPrice       decimal.Decimal `json:"display_price"`
	InStock            bool            `json:"in_stock"`
	DiscountPercentage int             `json:"discount_percentage"`
	ImageURL           *string         `json:"image_url,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// CreateInput captures the fields an admin supplies for a new product.
type CreateInput struct {
	Name               string
	Description        *string
	Price              decimal.Decimal
	InStock            bool
	DiscountPercentage int
	ImageURL           *string
}

// UpdateInput captures a partial product edit. Nil fields are left untouched.
type UpdateInput struct {
	Name               *string
	Description        *string
	Price              *decimal.Decimal
	InStock            *bool
	DiscountPercentage *int
	ImageURL           *string
}

// DisplayPrice applies the percentage discount and rounds to cents.
func DisplayPrice(price decimal.Decimal, discountPercentage int) decimal.Decimal {
	if discountPercentage <= 0 {
		return price.Round(2)
	}
	factor := decimal.NewFromInt(int64(100 - discountPercentage)).Div(decimal.NewFromInt(100))
	return price.Mul(factor).Round(2)
}

func toProductView(p *models.Product) ProductView {
	return ProductView{
		ID:                 p.ID,
		Name:               p.Name,
		Description:        p.Description,
		Price:              p.Price,
		DisplayPrice:       DisplayPrice(p.Price, p.DiscountPercentage),
		InStock:            p.InStock,
		DiscountPercentage: p.DiscountPercentage,
		ImageURL:           p.ImageURL,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

func toProductViews(items []models.Product) []ProductView {
	views := make([]ProductView, 0, len(items))
	for i := range items {
		views = append(views, toProductView(&items[i]))
	}
	return views
}
