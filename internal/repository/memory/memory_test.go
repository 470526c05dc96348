package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"storefront/internal/model"
	"storefront/internal/repository"
)

func TestAccounts_CreateAssignsIDAndRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	accounts := New().Accounts()

	first := &model.Account{FullName: "A", EmailAddress: "a@x.com", PasswordHash: "h"}
	require.NoError(t, accounts.Create(ctx, first))
	assert.Equal(t, uint(1), first.ID)
	assert.Equal(t, model.RoleCustomer, first.Role)

	err := accounts.Create(ctx, &model.Account{EmailAddress: "A@X.com"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestAccounts_ConcurrentCreateSameEmail(t *testing.T) {
	ctx := context.Background()
	accounts := New().Accounts()

	const n = 16
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- accounts.Create(ctx, &model.Account{EmailAddress: "race@x.com"})
		}()
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	}
	assert.Equal(t, 1, ok)
}

func TestAccounts_UpdateDeleteLookup(t *testing.T) {
	ctx := context.Background()
	db := New()
	accounts := db.Accounts()

	a := &model.Account{FullName: "A", EmailAddress: "a@x.com"}
	b := &model.Account{FullName: "B", EmailAddress: "b@x.com"}
	require.NoError(t, accounts.Create(ctx, a))
	require.NoError(t, accounts.Create(ctx, b))

	b.EmailAddress = "a@x.com"
	assert.ErrorIs(t, accounts.Update(ctx, b), gorm.ErrDuplicatedKey)

	b.EmailAddress = "b2@x.com"
	require.NoError(t, accounts.Update(ctx, b))
	got, err := accounts.FindByEmail(ctx, "b2@x.com")
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	require.NoError(t, accounts.Delete(ctx, a.ID))
	_, err = accounts.FindByID(ctx, a.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, accounts.Delete(ctx, a.ID), gorm.ErrRecordNotFound)

	list, err := accounts.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)
}

func TestOrders_TransactionAndListing(t *testing.T) {
	ctx := context.Background()
	db := New()
	customer := &model.Account{EmailAddress: "c@x.com"}
	require.NoError(t, db.Accounts().Create(ctx, customer))
	product := &model.Product{Name: "Mug", Price: decimal.NewFromInt(5), Stock: 3}
	require.NoError(t, db.Products().Create(ctx, product))

	orders := db.Orders()
	err := orders.WithTransaction(ctx, func(ctx context.Context, tx repository.OrderRepository) error {
		p, err := tx.FindProductForUpdate(ctx, product.ID)
		if err != nil {
			return err
		}
		if err := tx.UpdateStock(ctx, p.ID, p.Stock-1); err != nil {
			return err
		}
		return tx.Create(ctx, &model.Order{CustomerID: customer.ID, ProductID: p.ID, Quantity: 1, Total: p.Price})
	})
	require.NoError(t, err)

	p, err := db.Products().FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Stock)

	mine, err := orders.ListByCustomer(ctx, customer.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	none, err := orders.ListByCustomer(ctx, customer.ID+1)
	require.NoError(t, err)
	assert.Empty(t, none)

	assert.ErrorIs(t, orders.Create(ctx, &model.Order{CustomerID: 999}), gorm.ErrForeignKeyViolated)

	require.NoError(t, db.Accounts().Delete(ctx, customer.ID))
	all, err := orders.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestProducts_DeleteRestrictedWhileOrdered(t *testing.T) {
	ctx := context.Background()
	db := New()
	customer := &model.Account{EmailAddress: "c@x.com"}
	require.NoError(t, db.Accounts().Create(ctx, customer))
	product := &model.Product{Name: "Mug", Price: decimal.NewFromInt(5), Stock: 3}
	require.NoError(t, db.Products().Create(ctx, product))
	require.NoError(t, db.Orders().Create(ctx, &model.Order{CustomerID: customer.ID, ProductID: product.ID, Quantity: 1, Total: product.Price}))

	assert.ErrorIs(t, db.Products().Delete(ctx, product.ID), gorm.ErrForeignKeyViolated)
	_, err := db.Products().FindByID(ctx, product.ID)
	require.NoError(t, err)

	// Removing the customer cascades to the order, which releases the product.
	require.NoError(t, db.Accounts().Delete(ctx, customer.ID))
	assert.NoError(t, db.Products().Delete(ctx, product.ID))
}
