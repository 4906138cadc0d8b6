package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelvillar/pawmart-backend/internal/products"
	pkgerrors "github.com/angelvillar/pawmart-backend/pkg/errors"
)

const maxQuantityPerLine = 999

// Service exposes cart operations for the storefront.
type Service interface {
	View(ctx context.Context, userID uuid.UUID) (*View, error)
	SetQuantity(ctx context.Context, input SetQuantityInput) (*View, error)
	Remove(ctx context.Context, userID, productID uuid.UUID) (*View, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	store    Store
	products products.Repository
}

// NewService builds a cart service with the required dependencies.
func NewService(store Store, productsRepo products.Repository) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if productsRepo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	return &service{store: store, products: productsRepo}, nil
}

// View joins the stored cart against the catalog. Rows whose product has been
// deleted are pruned from the stored document so they don't resurface.
func (s *service) View(ctx context.Context, userID uuid.UUID) (*View, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	items, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return s.assemble(ctx, userID, items)
}

func (s *service) SetQuantity(ctx context.Context, input SetQuantityInput) (*View, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if input.Quantity > maxQuantityPerLine {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity too large")
	}

	items, err := s.store.Load(ctx, input.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	// Zero or negative quantity removes the line.
	if input.Quantity <= 0 {
		delete(items, input.ProductID)
	} else {
		product, err := s.products.FindByID(ctx, input.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
		if !product.InStock {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "product is out of stock")
		}
		items[input.ProductID] = input.Quantity
	}

	if err := s.store.Save(ctx, input.UserID, items); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return s.assemble(ctx, input.UserID, items)
}

func (s *service) Remove(ctx context.Context, userID, productID uuid.UUID) (*View, error) {
	return s.SetQuantity(ctx, SetQuantityInput{UserID: userID, ProductID: productID, Quantity: 0})
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if err := s.store.Clear(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func (s *service) assemble(ctx context.Context, userID uuid.UUID, items map[uuid.UUID]int) (*View, error) {
	view := &View{Lines: []Line{}, Total: decimal.Zero}
	if len(items) == 0 {
		return view, nil
	}

	ids := make([]uuid.UUID, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	catalog, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart products")
	}

	byID := make(map[uuid.UUID]int, len(catalog))
	for i := range catalog {
		byID[catalog[i].ID] = i
	}

	pruned := false
	for id := range items {
		if _, ok := byID[id]; !ok {
			delete(items, id)
			pruned = true
		}
	}
	if pruned {
		if err := s.store.Save(ctx, userID, items); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save pruned cart")
		}
	}

	for id, qty := range items {
		product := catalog[byID[id]]
		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(qty))).Round(2)
		view.Lines = append(view.Lines, Line{
			ProductID:    product.ID,
			Name:         product.Name,
			Quantity:     qty,
			UnitPrice:    product.Price,
			DisplayPrice: products.DisplayPrice(product.Price, product.DiscountPercentage),
			InStock:      product.InStock,
			ImageURL:     product.ImageURL,
			LineTotal:    lineTotal,
		})
		view.Total = view.Total.Add(lineTotal)
	}
	return view, nil
}
