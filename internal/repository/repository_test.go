package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	gomysql "github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"storefront/internal/model"
)

var accountColumns = []string{"customerid", "fullname", "contactnumber", "emailaddress", "password", "role", "createdat", "updatedat"}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return gdb, mock
}

func TestAccountRepository_Create(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewAccountRepository(gdb)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `acustomer`").WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()

	account := &model.Account{FullName: "A", ContactNumber: "1", EmailAddress: "a@x.com", PasswordHash: "h", Role: model.RoleCustomer}
	require.NoError(t, repo.Create(context.Background(), account))
	assert.Equal(t, uint(7), account.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Create_DuplicateEmail(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewAccountRepository(gdb)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `acustomer`").
		WillReturnError(&gomysql.MySQLError{Number: 1062, Message: "Duplicate entry 'a@x.com' for key 'emailaddress'"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &model.Account{EmailAddress: "a@x.com"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_FindByEmail(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewAccountRepository(gdb)
	now := time.Now()

	mock.ExpectQuery("SELECT \\* FROM `acustomer` WHERE emailaddress = \\?").
		WillReturnRows(sqlmock.NewRows(accountColumns).
			AddRow(3, "Alice", "555", "a@x.com", "$2a$10$digest", "customer", now, now))

	account, err := repo.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, uint(3), account.ID)
	assert.Equal(t, "Alice", account.FullName)
	assert.Equal(t, "$2a$10$digest", account.PasswordHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_FindByID_NotFound(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewAccountRepository(gdb)

	mock.ExpectQuery("SELECT \\* FROM `acustomer` WHERE customerid = \\?").
		WillReturnRows(sqlmock.NewRows(accountColumns))

	account, err := repo.FindByID(context.Background(), 99)
	assert.Nil(t, account)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Delete(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{"deleted", 1, nil},
		{"missing", 0, gorm.ErrRecordNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gdb, mock := newMockDB(t)
			repo := NewAccountRepository(gdb)

			mock.ExpectBegin()
			mock.ExpectExec("DELETE FROM `acustomer`").WillReturnResult(sqlmock.NewResult(0, tt.affected))
			mock.ExpectCommit()

			err := repo.Delete(context.Background(), 5)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestProductRepository_Delete_Ordered(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewProductRepository(gdb)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `aproduct`").
		WillReturnError(&gomysql.MySQLError{Number: 1451, Message: "Cannot delete or update a parent row: a foreign key constraint fails"})
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), 7)
	assert.ErrorIs(t, err, gorm.ErrForeignKeyViolated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Update_Missing(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewAccountRepository(gdb)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `acustomer` SET").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), &model.Account{ID: 42, FullName: "x"})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_List(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewProductRepository(gdb)
	now := time.Now()

	mock.ExpectQuery("SELECT \\* FROM `aproduct` ORDER BY productid").
		WillReturnRows(sqlmock.NewRows([]string{"productid", "name", "description", "price", "stock", "imageurl", "createdat", "updatedat"}).
			AddRow(1, "Mug", "Blue mug", "9.50", 4, "", now, now).
			AddRow(2, "Tea", "Green tea", "3.00", 0, "", now, now))

	products, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.True(t, decimal.RequireFromString("9.5").Equal(products[0].Price))
	assert.Equal(t, 0, products[1].Stock)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_WithTransaction_LocksProduct(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewOrderRepository(gdb)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `aproduct` WHERE productid = \\? .*FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"productid", "name", "price", "stock", "createdat", "updatedat"}).
			AddRow(1, "Mug", "9.50", 4, now, now))
	mock.ExpectExec("UPDATE `aproduct` SET `stock`=\\?").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `orders`").WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectCommit()

	var placed *model.Order
	err := repo.WithTransaction(context.Background(), func(ctx context.Context, tx OrderRepository) error {
		product, err := tx.FindProductForUpdate(ctx, 1)
		if err != nil {
			return err
		}
		if err := tx.UpdateStock(ctx, product.ID, product.Stock-2); err != nil {
			return err
		}
		placed = &model.Order{CustomerID: 3, ProductID: product.ID, Quantity: 2, Total: product.Price.Mul(decimal.NewFromInt(2)), Status: model.OrderStatusPlaced}
		return tx.Create(ctx, placed)
	})

	require.NoError(t, err)
	assert.Equal(t, uint(11), placed.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_WithTransaction_RollsBackOnError(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewOrderRepository(gdb)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `aproduct`").
		WillReturnRows(sqlmock.NewRows([]string{"productid"}))
	mock.ExpectRollback()

	err := repo.WithTransaction(context.Background(), func(ctx context.Context, tx OrderRepository) error {
		_, err := tx.FindProductForUpdate(ctx, 404)
		return err
	})

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
