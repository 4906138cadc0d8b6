package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelvillar/pawmart-backend/internal/products"
	"github.com/angelvillar/pawmart-backend/pkg/db/models"
	pkgerrors "github.com/angelvillar/pawmart-backend/pkg/errors"
)

type stubProductsRepo struct {
	products map[uuid.UUID]*models.Product
}

func newStubProductsRepo() *stubProductsRepo {
	return &stubProductsRepo{products: make(map[uuid.UUID]*models.Product)}
}

func (s *stubProductsRepo) WithTx(tx *gorm.DB) products.Repository {
	return s
}

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
	product, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
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

func seedProduct(repo *stubProductsRepo, price string, discount int, inStock bool) uuid.UUID {
	id := uuid.New()
	p, _ := decimal.NewFromString(price)
	repo.products[id] = &models.Product{
		ID:                 id,
		Name:               "product-" + id.String()[:8],
		Price:              p,
		DiscountPercentage: discount,
		InStock:            inStock,
	}
	return id
}

func TestSetQuantityAddsLine(t *testing.T) {
	repo := newStubProductsRepo()
	productID := seedProduct(repo, "19.99", 0, true)
	svc, err := NewService(NewMemoryStore(), repo)
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}

	userID := uuid.New()
	view, err := svc.SetQuantity(context.Background(), SetQuantityInput{
		UserID:    userID,
		ProductID: productID,
		Quantity:  3,
	})
	if err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if len(view.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(view.Lines))
	}
	if view.Lines[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", view.Lines[0].Quantity)
	}
	if view.Total.String() != "59.97" {
		t.Fatalf("expected total 59.97, got %s", view.Total)
	}
}

func TestSetQuantityZeroRemovesLine(t *testing.T) {
	repo := newStubProductsRepo()
	productID := seedProduct(repo, "10", 0, true)
	svc, _ := NewService(NewMemoryStore(), repo)
	userID := uuid.New()

	if _, err := svc.SetQuantity(context.Background(), SetQuantityInput{UserID: userID, ProductID: productID, Quantity: 2}); err != nil {
		t.Fatalf("seed cart: %v", err)
	}
	view, err := svc.SetQuantity(context.Background(), SetQuantityInput{UserID: userID, ProductID: productID, Quantity: 0})
	if err != nil {
		t.Fatalf("remove via zero quantity: %v", err)
	}
	if len(view.Lines) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(view.Lines))
	}
	if !view.Total.IsZero() {
		t.Fatalf("expected zero total, got %s", view.Total)
	}
}

func TestSetQuantityRejectsUnknownProduct(t *testing.T) {
	svc, _ := NewService(NewMemoryStore(), newStubProductsRepo())

	_, err := svc.SetQuantity(context.Background(), SetQuantityInput{
		UserID:    uuid.New(),
		ProductID: uuid.New(),
		Quantity:  1,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSetQuantityRejectsOutOfStock(t *testing.T) {
	repo := newStubProductsRepo()
	productID := seedProduct(repo, "5", 0, false)
	svc, _ := NewService(NewMemoryStore(), repo)

	_, err := svc.SetQuantity(context.Background(), SetQuantityInput{
		UserID:    uuid.New(),
		ProductID: productID,
		Quantity:  1,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestViewPrunesDeletedProducts(t *testing.T) {
	repo := newStubProductsRepo()
	keep := seedProduct(repo, "10", 0, true)
	gone := seedProduct(repo, "20", 0, true)
	store := NewMemoryStore()
	svc, _ := NewService(store, repo)
	userID := uuid.New()

	if err := store.Save(context.Background(), userID, map[uuid.UUID]int{keep: 1, gone: 2}); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	delete(repo.products, gone)

	view, err := svc.View(context.Background(), userID)
	if err != nil {
		t.Fatalf("view cart: %v", err)
	}
	if len(view.Lines) != 1 || view.Lines[0].ProductID != keep {
		t.Fatalf("expected deleted product pruned, got %v", view.Lines)
	}

	stored, _ := store.Load(context.Background(), userID)
	if _, ok := stored[gone]; ok {
		t.Fatal("pruned product still in stored cart")
	}
}

func TestViewTotalIgnoresDiscount(t *testing.T) {
	repo := newStubProductsRepo()
	productID := seedProduct(repo, "100", 50, true)
	svc, _ := NewService(NewMemoryStore(), repo)
	userID := uuid.New()

	view, err := svc.SetQuantity(context.Background(), SetQuantityInput{UserID: userID, ProductID: productID, Quantity: 1})
	if err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if view.Lines[0].DisplayPrice.String() != "50" {
		t.Fatalf("expected display price 50, got %s", view.Lines[0].DisplayPrice)
	}
	if view.Total.String() != "100" {
		t.Fatalf("total should use base price, got %s", view.Total)
	}
}

func TestClearCart(t *testing.T) {
	repo := newStubProductsRepo()
	productID := seedProduct(repo, "10", 0, true)
	store := NewMemoryStore()
	svc, _ := NewService(store, repo)
	userID := uuid.New()

	if _, err := svc.SetQuantity(context.Background(), SetQuantityInput{UserID: userID, ProductID: productID, Quantity: 1}); err != nil {
		t.Fatalf("seed cart: %v", err)
	}
	if err := svc.Clear(context.Background(), userID); err != nil {
		t.Fatalf("clear cart: %v", err)
	}
	view, err := svc.View(context.Background(), userID)
	if err != nil {
		t.Fatalf("view cart: %v", err)
	}
	if len(view.Lines) != 0 {
		t.Fatalf("expected empty cart after clear, got %d lines", len(view.Lines))
	}
}
