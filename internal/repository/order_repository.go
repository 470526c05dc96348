package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront/internal/model"
)

// OrderRepository defines order persistence operations. Stock checks and
// decrements happen inside WithTransaction against a locked product row.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	List(ctx context.Context) ([]model.Order, error)
	ListByCustomer(ctx context.Context, customerID uint) ([]model.Order, error)
	FindProductForUpdate(ctx context.Context, productID uint) (*model.Product, error)
	UpdateStock(ctx context.Context, productID uint, stock int) error
	// Transaction methods
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo OrderRepository) error) error
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository.
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(order).Error
}

// List returns all orders, newest first.
func (r *orderRepository) List(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	if err := r.db.WithContext(ctx).Order("orderid DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListByCustomer returns one customer's orders, newest first.
func (r *orderRepository) ListByCustomer(ctx context.Context, customerID uint) ([]model.Order, error) {
	var orders []model.Order
	if err := r.db.WithContext(ctx).Where("customerid = ?", customerID).
		Order("orderid DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindProductForUpdate loads a product with a row-level lock. Only meaningful
// inside WithTransaction.
func (r *orderRepository) FindProductForUpdate(ctx context.Context, productID uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("productid = ?", productID).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateStock sets the stock level of a product.
func (r *orderRepository) UpdateStock(ctx context.Context, productID uint, stock int) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).
		Where("productid = ?", productID).
		Update("stock", stock).Error
}

// WithTransaction executes a function within a database transaction.
func (r *orderRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo OrderRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &orderRepository{db: tx}
		return fn(ctx, txRepo)
	})
}
