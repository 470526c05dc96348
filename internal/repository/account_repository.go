package repository

import (
	"context"

	"gorm.io/gorm"

	"storefront/internal/model"
)

// AccountRepository defines customer account persistence operations.
// Lookups that find nothing return gorm.ErrRecordNotFound and unique-index
// violations surface as gorm.ErrDuplicatedKey, whatever the backing store.
type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) error
	Update(ctx context.Context, account *model.Account) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Account, error)
	FindByEmail(ctx context.Context, email string) (*model.Account, error)
	List(ctx context.Context) ([]model.Account, error)
}

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository.
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

// Create inserts a new account and fills in its generated id.
func (r *accountRepository) Create(ctx context.Context, account *model.Account) error {
	return r.db.WithContext(ctx).Create(account).Error
}

// Update writes the mutable profile columns of an existing account.
func (r *accountRepository) Update(ctx context.Context, account *model.Account) error {
	res := r.db.WithContext(ctx).Model(account).
		Select("fullname", "contactnumber", "emailaddress", "role", "updatedat").
		Updates(account)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes an account permanently.
func (r *accountRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Account{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindByID finds an account by its customer id.
func (r *accountRepository) FindByID(ctx context.Context, id uint) (*model.Account, error) {
	var account model.Account
	if err := r.db.WithContext(ctx).Where("customerid = ?", id).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// FindByEmail finds an account by email address.
func (r *accountRepository) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	var account model.Account
	if err := r.db.WithContext(ctx).Where("emailaddress = ?", email).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// List returns every account ordered by id.
func (r *accountRepository) List(ctx context.Context) ([]model.Account, error) {
	var accounts []model.Account
	if err := r.db.WithContext(ctx).Order("customerid").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}
