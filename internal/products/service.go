package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelvillar/pawmart-backend/pkg/db/models"
	pkgerrors "github.com/angelvillar/pawmart-backend/pkg/errors"
)

const maxNameLen = 200

// Service exposes catalog operations for the storefront and back office.
type Service interface {
	List(ctx context.Context) ([]ProductView, error)
	Get(ctx context.Context, id uuid.UUID) (*ProductView, error)
	Create(ctx context.Context, input CreateInput) (*ProductView, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*ProductView, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService builds a products service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]ProductView, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return toProductViews(items), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductView, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	view := toProductView(product)
	return &view, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*ProductView, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name required")
	}
	if len(name) > maxNameLen {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name too long")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if input.DiscountPercentage < 0 || input.DiscountPercentage > 100 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount must be between 0 and 100")
	}

	product := &models.Product{
		Name:               name,
		Description:        input.Description,
		Price:              input.Price.Round(2),
		InStock:            input.InStock,
		DiscountPercentage: input.DiscountPercentage,
		ImageURL:           input.ImageURL,
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	view := toProductView(created)
	return &view, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*ProductView, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name required")
		}
		if len(name) > maxNameLen {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name too long")
		}
		updates["name"] = name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
		}
		updates["price"] = input.Price.Round(2)
	}
	if input.InStock != nil {
		updates["in_stock"] = *input.InStock
	}
	if input.DiscountPercentage != nil {
		if *input.DiscountPercentage < 0 || *input.DiscountPercentage > 100 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount must be between 0 and 100")
		}
		updates["discount_percentage"] = *input.DiscountPercentage
	}
	if input.ImageURL != nil {
		updates["image_url"] = *input.ImageURL
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}

	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}
