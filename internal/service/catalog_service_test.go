package service

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"storefront/internal/auth"
	apperrors "storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/repository/memory"
)

func TestProductService_Update(t *testing.T) {
	price := decimal.RequireFromString("12.50")
	negative := -1

	tests := []struct {
		name        string
		upd         ProductUpdate
		setupMock   func(*MockProductRepository)
		expectError error
	}{
		{
			name: "partial update keeps other fields",
			upd:  ProductUpdate{Price: &price},
			setupMock: func(m *MockProductRepository) {
				m.On("FindByID", mock.Anything, uint(1)).Return(&model.Product{ID: 1, Name: "Mug", Stock: 4}, nil)
				m.On("Update", mock.Anything, mock.MatchedBy(func(p *model.Product) bool {
					return p.Name == "Mug" && p.Stock == 4 && p.Price.Equal(price)
				})).Return(nil)
			},
		},
		{
			name: "missing product",
			upd:  ProductUpdate{Price: &price},
			setupMock: func(m *MockProductRepository) {
				m.On("FindByID", mock.Anything, uint(1)).Return(nil, gorm.ErrRecordNotFound)
			},
			expectError: apperrors.ErrProductNotFound,
		},
		{
			name: "negative stock",
			upd:  ProductUpdate{Stock: &negative},
			setupMock: func(m *MockProductRepository) {
				m.On("FindByID", mock.Anything, uint(1)).Return(&model.Product{ID: 1}, nil)
			},
			expectError: apperrors.ErrInvalidProduct,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockProductRepository)
			tt.setupMock(repo)
			svc := NewProductService(repo, nil)

			_, err := svc.Update(context.Background(), 1, tt.upd)
			if tt.expectError != nil {
				assert.ErrorIs(t, err, tt.expectError)
			} else {
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestProductService_DeleteMissing(t *testing.T) {
	repo := new(MockProductRepository)
	repo.On("Delete", mock.Anything, uint(9)).Return(gorm.ErrRecordNotFound)

	err := NewProductService(repo, nil).Delete(context.Background(), 9)
	assert.ErrorIs(t, err, apperrors.ErrProductNotFound)
}

func TestProductService_DeleteOrderedProduct(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	customer := &model.Account{EmailAddress: "c@x.com"}
	require.NoError(t, store.Accounts().Create(ctx, customer))
	products := NewProductService(store.Products(), nil)
	product, err := products.Create(ctx, ProductInput{Name: "Mug", Price: decimal.RequireFromString("2.50"), Stock: 3})
	require.NoError(t, err)

	_, err = NewOrderService(store.Orders(), nil).Place(ctx, customer.ID, product.ID, 1)
	require.NoError(t, err)

	err = products.Delete(ctx, product.ID)
	assert.ErrorIs(t, err, apperrors.ErrProductHasOrders)
	assert.Equal(t, http.StatusConflict, apperrors.MapErrorToHTTP(err).StatusCode)

	_, err = store.Products().FindByID(ctx, product.ID)
	assert.NoError(t, err)
}

func TestProductService_DeleteForeignKeyViolation(t *testing.T) {
	repo := new(MockProductRepository)
	repo.On("Delete", mock.Anything, uint(7)).Return(gorm.ErrForeignKeyViolated)

	err := NewProductService(repo, nil).Delete(context.Background(), 7)
	assert.ErrorIs(t, err, apperrors.ErrProductHasOrders)
}

func TestCustomerService_Update(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewCustomerService(store.Accounts(), auth.NewPasswordHasher())

	a, err := svc.Create(ctx, SignupInput{FullName: "A", ContactNumber: "1", EmailAddress: "a@x.com", Password: "p"}, "")
	require.NoError(t, err)
	assert.Equal(t, model.RoleCustomer, a.Role)
	b, err := svc.Create(ctx, SignupInput{FullName: "B", ContactNumber: "2", EmailAddress: "b@x.com", Password: "p"}, model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, b.Role)

	name := "Alicia"
	updated, err := svc.Update(ctx, a.ID, CustomerUpdate{FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Alicia", updated.FullName)
	assert.Equal(t, "a@x.com", updated.EmailAddress)

	taken := "b@x.com"
	_, err = svc.Update(ctx, a.ID, CustomerUpdate{EmailAddress: &taken})
	assert.ErrorIs(t, err, apperrors.ErrEmailTaken)

	_, err = svc.Update(ctx, 999, CustomerUpdate{FullName: &name})
	assert.ErrorIs(t, err, apperrors.ErrCustomerNotFound)

	require.NoError(t, svc.Delete(ctx, a.ID))
	assert.ErrorIs(t, svc.Delete(ctx, a.ID), apperrors.ErrCustomerNotFound)
}

func TestOrderService_Place(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	customer := &model.Account{EmailAddress: "c@x.com"}
	require.NoError(t, store.Accounts().Create(ctx, customer))
	product := &model.Product{Name: "Mug", Price: decimal.RequireFromString("2.50"), Stock: 3}
	require.NoError(t, store.Products().Create(ctx, product))
	svc := NewOrderService(store.Orders(), nil)

	order, err := svc.Place(ctx, customer.ID, product.ID, 2)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(5).Equal(order.Total))
	assert.Equal(t, model.OrderStatusPlaced, order.Status)

	_, err = svc.Place(ctx, customer.ID, product.ID, 2)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)

	_, err = svc.Place(ctx, customer.ID, 404, 1)
	assert.ErrorIs(t, err, apperrors.ErrProductNotFound)

	_, err = svc.Place(ctx, customer.ID, product.ID, 0)
	assert.ErrorIs(t, err, apperrors.ErrInvalidQuantity)

	p, err := store.Products().FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Stock)
}

func TestOrderService_ConcurrentPlacementNeverOversells(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	customer := &model.Account{EmailAddress: "c@x.com"}
	require.NoError(t, store.Accounts().Create(ctx, customer))
	product := &model.Product{Name: "Mug", Price: decimal.NewFromInt(1), Stock: 5}
	require.NoError(t, store.Products().Create(ctx, product))
	svc := NewOrderService(store.Orders(), nil)

	var wg sync.WaitGroup
	var mu sync.Mutex
	placed := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Place(ctx, customer.ID, product.ID, 1); err == nil {
				mu.Lock()
				placed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, placed)
	p, err := store.Products().FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stock)
}

func TestOrderService_List(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	alice := &model.Account{EmailAddress: "a@x.com"}
	bob := &model.Account{EmailAddress: "b@x.com"}
	require.NoError(t, store.Accounts().Create(ctx, alice))
	require.NoError(t, store.Accounts().Create(ctx, bob))
	product := &model.Product{Name: "Mug", Price: decimal.NewFromInt(1), Stock: 10}
	require.NoError(t, store.Products().Create(ctx, product))
	svc := NewOrderService(store.Orders(), nil)

	_, err := svc.Place(ctx, alice.ID, product.ID, 1)
	require.NoError(t, err)
	_, err = svc.Place(ctx, bob.ID, product.ID, 1)
	require.NoError(t, err)

	mine, err := svc.List(ctx, auth.Identity{UserID: alice.ID, Role: model.RoleCustomer})
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	all, err := svc.List(ctx, auth.Identity{UserID: alice.ID, Role: model.RoleAdmin})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
