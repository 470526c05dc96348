package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"storefront/internal/cache"
	apperrors "storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/repository"
)

const (
	productListCacheKey = "products:all"
	productCacheTTL     = 5 * time.Minute
)

// ProductInput carries the fields of a new product.
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	ImageURL    string
}

// ProductUpdate lists the product fields to change; nil leaves a field as is.
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Stock       *int
	ImageURL    *string
}

// ProductService handles catalog operations.
type ProductService interface {
	List(ctx context.Context) ([]model.Product, error)
	Create(ctx context.Context, in ProductInput) (*model.Product, error)
	Update(ctx context.Context, id uint, upd ProductUpdate) (*model.Product, error)
	Delete(ctx context.Context, id uint) error
}

type productService struct {
	repo  repository.ProductRepository
	cache *cache.Client
}

// NewProductService creates a new product service. cache may be nil.
func NewProductService(repo repository.ProductRepository, cache *cache.Client) ProductService {
	return &productService{
		repo:  repo,
		cache: cache,
	}
}

// List returns the catalog, served from cache when possible.
func (s *productService) List(ctx context.Context) ([]model.Product, error) {
	var cached []model.Product
	if cache.GetJSON(ctx, s.cache, productListCacheKey, &cached) {
		return cached, nil
	}

	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	cache.SetJSON(ctx, s.cache, productListCacheKey, products, productCacheTTL)
	return products, nil
}

func (s *productService) Create(ctx context.Context, in ProductInput) (*model.Product, error) {
	if err := checkProduct(in.Price, in.Stock); err != nil {
		return nil, err
	}
	product := &model.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		ImageURL:    in.ImageURL,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	invalidateProducts(ctx, s.cache)
	return product, nil
}

func (s *productService) Update(ctx context.Context, id uint, upd ProductUpdate) (*model.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}

	if upd.Name != nil {
		product.Name = *upd.Name
	}
	if upd.Description != nil {
		product.Description = *upd.Description
	}
	if upd.Price != nil {
		product.Price = *upd.Price
	}
	if upd.Stock != nil {
		product.Stock = *upd.Stock
	}
	if upd.ImageURL != nil {
		product.ImageURL = *upd.ImageURL
	}
	if err := checkProduct(product.Price, product.Stock); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, product); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	invalidateProducts(ctx, s.cache)
	return product, nil
}

func (s *productService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return apperrors.ErrProductNotFound
		case errors.Is(err, gorm.ErrForeignKeyViolated):
			return apperrors.ErrProductHasOrders
		}
		return fmt.Errorf("delete product: %w", err)
	}
	invalidateProducts(ctx, s.cache)
	return nil
}

func checkProduct(price decimal.Decimal, stock int) error {
	if price.IsNegative() || stock < 0 {
		return apperrors.ErrInvalidProduct
	}
	return nil
}

func invalidateProducts(ctx context.Context, c *cache.Client) {
	_ = c.Delete(ctx, productListCacheKey)
}
