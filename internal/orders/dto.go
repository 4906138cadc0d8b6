package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelvillar/pawmart-backend/pkg/db/models"
	"github.com/angelvillar/pawmart-backend/pkg/enums"
)

// Decision actions accepted by the back office.
const (
	DecisionAccept  = "accept"
	DecisionDecline = "decline"
)

// OrderItemView is the customer-facing shape of a single order line.
type OrderItemView struct {
	ID             uuid.UUID       `json:"id"`
	ProductID      uuid.UUID       `json:"product_id"`
	Quantity       int             `json:"quantity"`
	PriceAtTime    decimal.Decimal `json:"price_at_time"`
	DiscountAtTime int             `json:"discount_at_time"`
	LineTotal      decimal.Decimal `json:"line_total"`
}

// OrderView is the customer-facing shape of an order.
type OrderView struct {
	ID            uuid.UUID         `json:"id"`
	Status        enums.OrderStatus `json:"status"`
	TotalAmount   decimal.Decimal   `json:"total_amount"`
	DeclineReason *string           `json:"decline_reason,omitempty"`
	Items         []OrderItemView   `json:"items"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// CustomerSummary identifies the buyer on back-office order listings.
type CustomerSummary struct {
	UserID      uuid.UUID `json:"user_id"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email"`
	PhoneNumber *string   `json:"phone_number,omitempty"`
}

// AdminOrderView augments an order with its buyer for back-office review.
type AdminOrderView struct {
	OrderView
	Customer *CustomerSummary `json:"customer,omitempty"`
}

// DecisionInput carries an accept or decline verdict for a pending order.
type DecisionInput struct {
	OrderID uuid.UUID
	Action  string
	Reason  string
}

func toOrderView(order *models.Order) *OrderView {
	items := make([]OrderItemView, 0, len(order.Items))
	for i := range order.Items {
		items = append(items, toOrderItemView(&order.Items[i]))
	}
	return &OrderView{
		ID:            order.ID,
		Status:        order.Status,
		TotalAmount:   order.TotalAmount,
		DeclineReason: order.DeclineReason,
		Items:         items,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}

func toOrderItemView(item *models.OrderItem) OrderItemView {
	return OrderItemView{
		ID:             item.ID,
		ProductID:      item.ProductID,
		Quantity:       item.Quantity,
		PriceAtTime:    item.PriceAtTime,
		DiscountAtTime: item.DiscountAtTime,
		LineTotal:      item.PriceAtTime.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2),
	}
}

func toCustomerSummary(profile *models.Profile) *CustomerSummary {
	if profile == nil {
		return nil
	}
	return &CustomerSummary{
		UserID:      profile.UserID,
		FullName:    profile.FullName,
		Email:       profile.Email,
		PhoneNumber: profile.PhoneNumber,
	}
}
