package orders

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
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

type stubOrdersRepo struct {
	orders     map[uuid.UUID]*models.Order
	createErr  error
	transition func(id uuid.UUID, status enums.OrderStatus, reason *string) (transitionResult, error)
}

func newStubOrdersRepo() *stubOrdersRepo {
	return &stubOrdersRepo{orders: make(map[uuid.UUID]*models.Order)}
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubOrdersRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	order.ID = uuid.New()
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	for i := range order.Items {
		order.Items[i].ID = uuid.New()
		order.Items[i].OrderID = order.ID
	}
	s.orders[order.ID] = order
	return order, nil
}

func (s *stubOrdersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, ok := s.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (s *stubOrdersRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var out []models.Order
	for _, order := range s.orders {
		if order.UserID == userID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (s *stubOrdersRepo) ListAll(ctx context.Context, limit, offset int) ([]models.Order, error) {
	var out []models.Order
	for _, order := range s.orders {
		out = append(out, *order)
	}
	if offset > 0 {
		if offset >= len(out) {
			return nil, nil
		}
		out = out[offset:]
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *stubOrdersRepo) UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status enums.OrderStatus, declineReason *string) (transitionResult, error) {
	if s.transition != nil {
		return s.transition(id, status, declineReason)
	}
	order, ok := s.orders[id]
	if !ok {
		return transitionResult{}, nil
	}
	if order.Status != enums.OrderStatusPending {
		return transitionResult{Found: true}, nil
	}
	order.Status = status
	order.DeclineReason = declineReason
	return transitionResult{Found: true, Updated: true}, nil
}

type stubProductsRepo struct {
	products map[uuid.UUID]*models.Product
}

func newStubProductsRepo() *stubProductsRepo {
	return &stubProductsRepo{products: make(map[uuid.UUID]*models.Product)}
}

func (s *stubProductsRepo) WithTx(tx *gorm.DB) products.Repository { return s }

func (s *stubProductsRepo) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	panic("not implemented")
}

func (s *stubProductsRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	panic("not implemented")
}

func (s *stubProductsRepo) Delete(ctx context.Context, id uuid.UUID) error {
	panic("not implemented")
}

func (s *stubProductsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	panic("not implemented")
}

func (s *stubProductsRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	var out []models.Product
	for _, id := range ids {
		if product, ok := s.products[id]; ok {
			out = append(out, *product)
		}
	}
	return out, nil
}

func (s *stubProductsRepo) List(ctx context.Context) ([]models.Product, error) {
	panic("not implemented")
}

type stubProfilesRepo struct {
	profiles map[uuid.UUID]*models.Profile
}

func (s *stubProfilesRepo) WithTx(tx *gorm.DB) profiles.Repository { return s }

func (s *stubProfilesRepo) Create(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	panic("not implemented")
}

func (s *stubProfilesRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	panic("not implemented")
}

func (s *stubProfilesRepo) FindByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]models.Profile, error) {
	var out []models.Profile
	for _, id := range userIDs {
		if profile, ok := s.profiles[id]; ok {
			out = append(out, *profile)
		}
	}
	return out, nil
}

func (s *stubProfilesRepo) UpdateEmail(ctx context.Context, userID uuid.UUID, email string) error {
	panic("not implemented")
}

type stubLocker struct {
	held    map[string]bool
	setErr  error
	deleted []string
}

func newStubLocker() *stubLocker {
	return &stubLocker{held: make(map[string]bool)}
}

func (s *stubLocker) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if s.setErr != nil {
		return false, s.setErr
	}
	if s.held[key] {
		return false, nil
	}
	s.held[key] = true
	return true, nil
}

func (s *stubLocker) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.held, key)
		s.deleted = append(s.deleted, key)
	}
	return nil
}

func (s *stubLocker) SubmitLockKey(userID string) string {
	return "lock:checkout:" + userID
}

type stubTxRunner struct {
	err error
}

func (s *stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s.err != nil {
		return s.err
	}
	return fn(nil)
}

type fixture struct {
	svc      Service
	repo     *stubOrdersRepo
	products *stubProductsRepo
	profiles *stubProfilesRepo
	carts    *cart.MemoryStore
	locker   *stubLocker
}

func testLogger(out io.Writer) *logger.Logger {
	return logger.New(logger.Options{ServiceName: "orders-test", Output: out})
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:     newStubOrdersRepo(),
		products: newStubProductsRepo(),
		profiles: &stubProfilesRepo{profiles: make(map[uuid.UUID]*models.Profile)},
		carts:    cart.NewMemoryStore(),
		locker:   newStubLocker(),
	}
	svc, err := NewService(f.repo, f.products, f.profiles, f.carts, f.locker, &stubTxRunner{}, testLogger(io.Discard))
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}
	f.svc = svc
	return f
}

func (f *fixture) seedProduct(price string, discount int, inStock bool) uuid.UUID {
	id := uuid.New()
	p, _ := decimal.NewFromString(price)
	f.products.products[id] = &models.Product{
		ID:                 id,
		Name:               "product-" + id.String()[:8],
		Price:              p,
		DiscountPercentage: discount,
		InStock:            inStock,
	}
	return id
}

func TestSubmitCreatesPendingOrder(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	cheap := f.seedProduct("9.99", 0, true)
	pricey := f.seedProduct("25.50", 30, true)
	if err := f.carts.Save(context.Background(), userID, map[uuid.UUID]int{cheap: 2, pricey: 1}); err != nil {
		t.Fatalf("seed cart: %v", err)
	}

	view, err := f.svc.Submit(context.Background(), userID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if view.Status != enums.OrderStatusPending {
		t.Fatalf("expected pending order, got %s", view.Status)
	}
	if view.TotalAmount.String() != "45.48" {
		t.Fatalf("expected total 45.48 from undiscounted prices, got %s", view.TotalAmount)
	}
	if len(view.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(view.Items))
	}
	for _, item := range view.Items {
		if item.DiscountAtTime != 0 {
			t.Fatalf("expected zero discount snapshot, got %d", item.DiscountAtTime)
		}
	}

	stored, _ := f.carts.Load(context.Background(), userID)
	if len(stored) != 0 {
		t.Fatal("cart should be cleared after submit")
	}
	if len(f.locker.held) != 0 {
		t.Fatal("checkout lock should be released")
	}
}

func TestSubmitRejectsEmptyCart(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Submit(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSubmitRejectsConcurrentCheckout(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	productID := f.seedProduct("5", 0, true)
	if err := f.carts.Save(context.Background(), userID, map[uuid.UUID]int{productID: 1}); err != nil {
		t.Fatalf("seed cart: %v", err)
	}
	f.locker.held[f.locker.SubmitLockKey(userID.String())] = true

	_, err := f.svc.Submit(context.Background(), userID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestSubmitRejectsOutOfStockProduct(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	productID := f.seedProduct("5", 0, false)
	if err := f.carts.Save(context.Background(), userID, map[uuid.UUID]int{productID: 1}); err != nil {
		t.Fatalf("seed cart: %v", err)
	}

	_, err := f.svc.Submit(context.Background(), userID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if len(f.locker.held) != 0 {
		t.Fatal("lock should be released on failure")
	}
}

func TestSubmitRejectsDeletedProduct(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	if err := f.carts.Save(context.Background(), userID, map[uuid.UUID]int{uuid.New(): 1}); err != nil {
		t.Fatalf("seed cart: %v", err)
	}

	_, err := f.svc.Submit(context.Background(), userID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestSubmitKeepsCartWhenPersistFails(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	productID := f.seedProduct("5", 0, true)
	if err := f.carts.Save(context.Background(), userID, map[uuid.UUID]int{productID: 1}); err != nil {
		t.Fatalf("seed cart: %v", err)
	}
	f.repo.createErr = fmt.Errorf("insert failed")

	_, err := f.svc.Submit(context.Background(), userID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}

	stored, _ := f.carts.Load(context.Background(), userID)
	if len(stored) != 1 {
		t.Fatal("cart should survive a failed submit")
	}
}

type failingClearStore struct {
	*cart.MemoryStore
}

func (s *failingClearStore) Clear(ctx context.Context, userID uuid.UUID) error {
	return fmt.Errorf("redis gone")
}

func TestSubmitLogsFailedCartClear(t *testing.T) {
	f := newFixture(t)
	store := &failingClearStore{MemoryStore: cart.NewMemoryStore()}
	var logs bytes.Buffer
	svc, err := NewService(f.repo, f.products, f.profiles, store, f.locker, &stubTxRunner{}, testLogger(&logs))
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}

	userID := uuid.New()
	productID := f.seedProduct("5", 0, true)
	if err := store.Save(context.Background(), userID, map[uuid.UUID]int{productID: 1}); err != nil {
		t.Fatalf("seed cart: %v", err)
	}

	view, err := svc.Submit(context.Background(), userID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if view.Status != enums.OrderStatusPending {
		t.Fatalf("expected pending order, got %s", view.Status)
	}
	if !strings.Contains(logs.String(), "failed to clear cart after order submission") {
		t.Fatalf("expected cart clear failure in logs, got %s", logs.String())
	}
}

func TestGetEnforcesOwnership(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	order, _ := f.repo.Create(context.Background(), &models.Order{
		UserID:      owner,
		TotalAmount: decimal.NewFromInt(10),
		Status:      enums.OrderStatusPending,
	})

	if _, err := f.svc.Get(context.Background(), owner, order.ID); err != nil {
		t.Fatalf("owner lookup failed: %v", err)
	}

	_, err := f.svc.Get(context.Background(), uuid.New(), order.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for other user, got %v", err)
	}
}

func TestDecideAcceptCompletesOrder(t *testing.T) {
	f := newFixture(t)
	order, _ := f.repo.Create(context.Background(), &models.Order{
		UserID:      uuid.New(),
		TotalAmount: decimal.NewFromInt(10),
		Status:      enums.OrderStatusPending,
	})

	view, err := f.svc.Decide(context.Background(), DecisionInput{OrderID: order.ID, Action: DecisionAccept})
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if view.Status != enums.OrderStatusCompleted {
		t.Fatalf("expected completed, got %s", view.Status)
	}
	if view.DeclineReason != nil {
		t.Fatal("accepted order should not carry a decline reason")
	}
}

func TestDecideDeclineWithoutReasonStoresNone(t *testing.T) {
	f := newFixture(t)
	order, _ := f.repo.Create(context.Background(), &models.Order{
		UserID:      uuid.New(),
		TotalAmount: decimal.NewFromInt(10),
		Status:      enums.OrderStatusPending,
	})

	view, err := f.svc.Decide(context.Background(), DecisionInput{OrderID: order.ID, Action: DecisionDecline})
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if view.Status != enums.OrderStatusCancelled {
		t.Fatalf("expected cancelled, got %s", view.Status)
	}
	if view.DeclineReason != nil {
		t.Fatalf("expected no decline reason, got %q", *view.DeclineReason)
	}
}

func TestDecideDeclineStoresReason(t *testing.T) {
	f := newFixture(t)
	order, _ := f.repo.Create(context.Background(), &models.Order{
		UserID:      uuid.New(),
		TotalAmount: decimal.NewFromInt(10),
		Status:      enums.OrderStatusPending,
	})

	view, err := f.svc.Decide(context.Background(), DecisionInput{
		OrderID: order.ID,
		Action:  DecisionDecline,
		Reason:  "  item damaged in warehouse  ",
	})
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if view.Status != enums.OrderStatusCancelled {
		t.Fatalf("expected cancelled, got %s", view.Status)
	}
	if view.DeclineReason == nil || *view.DeclineReason != "item damaged in warehouse" {
		t.Fatalf("expected trimmed decline reason, got %v", view.DeclineReason)
	}
}

func TestDecideRejectsSecondDecision(t *testing.T) {
	f := newFixture(t)
	order, _ := f.repo.Create(context.Background(), &models.Order{
		UserID:      uuid.New(),
		TotalAmount: decimal.NewFromInt(10),
		Status:      enums.OrderStatusCompleted,
	})

	_, err := f.svc.Decide(context.Background(), DecisionInput{OrderID: order.ID, Action: DecisionAccept})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestDecideUnknownOrder(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Decide(context.Background(), DecisionInput{OrderID: uuid.New(), Action: DecisionAccept})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListAllJoinsCustomerProfiles(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	f.profiles.profiles[userID] = &models.Profile{
		UserID:   userID,
		FullName: "Dana Whittaker",
		Email:    "dana@example.com",
	}
	if _, err := f.repo.Create(context.Background(), &models.Order{
		UserID:      userID,
		TotalAmount: decimal.NewFromInt(10),
		Status:      enums.OrderStatusPending,
	}); err != nil {
		t.Fatalf("seed order: %v", err)
	}

	views, err := f.svc.ListAll(context.Background(), 50, 0)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 order, got %d", len(views))
	}
	if views[0].Customer == nil || views[0].Customer.FullName != "Dana Whittaker" {
		t.Fatalf("expected customer joined, got %+v", views[0].Customer)
	}
}
