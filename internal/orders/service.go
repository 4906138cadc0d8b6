package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelvillar/pawmart-backend/internal/cart"
	"github.com/angelvillar/pawmart-backend/internal/products"
	"github.com/angelvillar/pawmart-backend/internal/profiles"
	"github.com/angelvillar/pawmart-backend/pkg/db/models"
	"github.com/angelvillar/pawmart-backend/pkg/enums"
	pkgerrors "github.com/angelvillar/pawmart-backend/pkg/errors"
	"github.com/angelvillar/pawmart-backend/pkg/logger"
)

const (
	submitLockTTL    = 10 * time.Second
	maxDeclineReason = 500
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// submitLocker serializes checkout attempts per user.
type submitLocker interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	SubmitLockKey(userID string) string
}

// Service covers checkout, purchase history and back-office order review.
type Service interface {
	Submit(ctx context.Context, userID uuid.UUID) (*OrderView, error)
	Get(ctx context.Context, userID, orderID uuid.UUID) (*OrderView, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]OrderView, error)
	ListAll(ctx context.Context, limit, offset int) ([]AdminOrderView, error)
	Decide(ctx context.Context, input DecisionInput) (*OrderView, error)
}

type service struct {
	repo     Repository
	products products.Repository
	profiles profiles.Repository
	carts    cart.Store
	locker   submitLocker
	tx       txRunner
	logg     *logger.Logger
}

// NewService builds an orders service with the required dependencies.
func NewService(repo Repository, productsRepo products.Repository, profilesRepo profiles.Repository, carts cart.Store, locker submitLocker, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if productsRepo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if profilesRepo == nil {
		return nil, fmt.Errorf("profiles repository required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if locker == nil {
		return nil, fmt.Errorf("submit locker required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		products: productsRepo,
		profiles: profilesRepo,
		carts:    carts,
		locker:   locker,
		tx:       tx,
		logg:     logg,
	}, nil
}

func (s *service) Submit(ctx context.Context, userID uuid.UUID) (*OrderView, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	lockKey := s.locker.SubmitLockKey(userID.String())
	acquired, err := s.locker.SetNX(ctx, lockKey, "1", submitLockTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire checkout lock")
	}
	if !acquired {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "checkout already in progress")
	}
	defer func() {
		_ = s.locker.Del(ctx, lockKey)
	}()

	items, err := s.carts.Load(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	ids := make([]uuid.UUID, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	catalog, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products for checkout")
	}
	byID := make(map[uuid.UUID]*models.Product, len(catalog))
	for i := range catalog {
		byID[catalog[i].ID] = &catalog[i]
	}

	total := decimal.Zero
	orderItems := make([]models.OrderItem, 0, len(items))
	for id, qty := range items {
		product, ok := byID[id]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "a product in the cart is no longer available")
		}
		if !product.InStock {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("%s is out of stock", product.Name))
		}
		if qty <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart quantities must be positive")
		}
		orderItems = append(orderItems, models.OrderItem{
			ProductID:      product.ID,
			Quantity:       qty,
			PriceAtTime:    product.Price,
			DiscountAtTime: 0,
		})
		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(qty))))
	}

	order := &models.Order{
		UserID:      userID,
		TotalAmount: total.Round(2),
		Status:      enums.OrderStatusPending,
		Items:       orderItems,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		created, err := s.repo.WithTx(tx).Create(ctx, order)
		if err != nil {
			return err
		}
		order = created
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order")
	}

	// The order exists at this point; a stale cart will re-submit a
	// duplicate, so a failed clear has to be visible in the logs.
	if clearErr := s.carts.Clear(ctx, userID); clearErr != nil {
		s.logg.Error(s.logg.WithUserID(ctx, userID.String()), "failed to clear cart after order submission", clearErr)
	}

	return toOrderView(order), nil
}

func (s *service) Get(ctx context.Context, userID, orderID uuid.UUID) (*OrderView, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return toOrderView(order), nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID) ([]OrderView, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	views := make([]OrderView, 0, len(rows))
	for i := range rows {
		views = append(views, *toOrderView(&rows[i]))
	}
	return views, nil
}

func (s *service) ListAll(ctx context.Context, limit, offset int) ([]AdminOrderView, error) {
	rows, err := s.repo.ListAll(ctx, limit, offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	userIDs := make([]uuid.UUID, 0, len(rows))
	seen := make(map[uuid.UUID]struct{}, len(rows))
	for i := range rows {
		if _, ok := seen[rows[i].UserID]; ok {
			continue
		}
		seen[rows[i].UserID] = struct{}{}
		userIDs = append(userIDs, rows[i].UserID)
	}
	profileRows, err := s.profiles.FindByUserIDs(ctx, userIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer profiles")
	}
	profilesByUser := make(map[uuid.UUID]*models.Profile, len(profileRows))
	for i := range profileRows {
		profilesByUser[profileRows[i].UserID] = &profileRows[i]
	}

	views := make([]AdminOrderView, 0, len(rows))
	for i := range rows {
		views = append(views, AdminOrderView{
			OrderView: *toOrderView(&rows[i]),
			Customer:  toCustomerSummary(profilesByUser[rows[i].UserID]),
		})
	}
	return views, nil
}

func (s *service) Decide(ctx context.Context, input DecisionInput) (*OrderView, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	var status enums.OrderStatus
	var declineReason *string
	switch input.Action {
	case DecisionAccept:
		status = enums.OrderStatusCompleted
	case DecisionDecline:
		reason := strings.TrimSpace(input.Reason)
		if len(reason) > maxDeclineReason {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("reason must be at most %d characters", maxDeclineReason))
		}
		status = enums.OrderStatusCancelled
		if reason != "" {
			declineReason = &reason
		}
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "action must be accept or decline")
	}

	result, err := s.repo.UpdateStatusIfPending(ctx, input.OrderID, status, declineReason)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	if !result.Found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if !result.Updated {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order has already been decided")
	}

	order, err := s.repo.FindByID(ctx, input.OrderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
	}
	return toOrderView(order), nil
}
