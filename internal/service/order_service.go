package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"storefront/internal/auth"
	"storefront/internal/cache"
	apperrors "storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/repository"
)

// OrderService handles order placement and history.
type OrderService interface {
	List(ctx context.Context, caller auth.Identity) ([]model.Order, error)
	Place(ctx context.Context, customerID, productID uint, quantity int) (*model.Order, error)
}

type orderService struct {
	repo  repository.OrderRepository
	cache *cache.Client
}

// NewOrderService creates a new order service. cache may be nil.
func NewOrderService(repo repository.OrderRepository, cache *cache.Client) OrderService {
	return &orderService{repo: repo, cache: cache}
}

// List returns the caller's orders, or every order for admins.
func (s *orderService) List(ctx context.Context, caller auth.Identity) ([]model.Order, error) {
	var (
		orders []model.Order
		err    error
	)
	if caller.Role == model.RoleAdmin {
		orders, err = s.repo.List(ctx)
	} else {
		orders, err = s.repo.ListByCustomer(ctx, caller.UserID)
	}
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// Place reserves stock and records the order atomically.
func (s *orderService) Place(ctx context.Context, customerID, productID uint, quantity int) (*model.Order, error) {
	if quantity <= 0 {
		return nil, apperrors.ErrInvalidQuantity
	}

	var order *model.Order
	err := s.repo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.OrderRepository) error {
		// Lock and fetch product
		product, err := txRepo.FindProductForUpdate(ctx, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrProductNotFound
			}
			return err
		}

		if product.Stock < quantity {
			return apperrors.ErrInsufficientStock
		}

		order = &model.Order{
			CustomerID: customerID,
			ProductID:  product.ID,
			Quantity:   quantity,
			Total:      product.Price.Mul(decimal.NewFromInt(int64(quantity))),
			Status:     model.OrderStatusPlaced,
		}
		if err := txRepo.Create(ctx, order); err != nil {
			if errors.Is(err, gorm.ErrForeignKeyViolated) {
				return apperrors.ErrCustomerNotFound
			}
			return err
		}

		return txRepo.UpdateStock(ctx, product.ID, product.Stock-quantity)
	})
	if err != nil {
		return nil, fmt.Errorf("place order: %w", err)
	}

	invalidateProducts(ctx, s.cache)
	return order, nil
}
