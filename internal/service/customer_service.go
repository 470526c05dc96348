package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"storefront/internal/auth"
	"storefront/internal/db"
	apperrors "storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/repository"
)

// CustomerUpdate lists the profile fields to change; nil leaves a field as is.
type CustomerUpdate struct {
	FullName      *string
	ContactNumber *string
	EmailAddress  *string
}

// CustomerService handles customer administration.
type CustomerService interface {
	List(ctx context.Context) ([]model.Account, error)
	Create(ctx context.Context, in SignupInput, role string) (*model.Account, error)
	Update(ctx context.Context, id uint, upd CustomerUpdate) (*model.Account, error)
	Delete(ctx context.Context, id uint) error
}

type customerService struct {
	accounts repository.AccountRepository
	hasher   *auth.PasswordHasher
}

// NewCustomerService creates a new customer service.
func NewCustomerService(accounts repository.AccountRepository, hasher *auth.PasswordHasher) CustomerService {
	return &customerService{accounts: accounts, hasher: hasher}
}

func (s *customerService) List(ctx context.Context) ([]model.Account, error) {
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

// Create adds an account with an explicit role (blank means customer).
func (s *customerService) Create(ctx context.Context, in SignupInput, role string) (*model.Account, error) {
	if role == "" {
		role = model.RoleCustomer
	}
	return createAccount(ctx, s.accounts, s.hasher, in, role)
}

func (s *customerService) Update(ctx context.Context, id uint, upd CustomerUpdate) (*model.Account, error) {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}

	if upd.FullName != nil && *upd.FullName != "" {
		account.FullName = *upd.FullName
	}
	if upd.ContactNumber != nil && *upd.ContactNumber != "" {
		account.ContactNumber = *upd.ContactNumber
	}
	if upd.EmailAddress != nil && *upd.EmailAddress != "" {
		account.EmailAddress = *upd.EmailAddress
	}

	if err := s.accounts.Update(ctx, account); err != nil {
		switch {
		case db.IsDuplicateKey(err):
			return nil, apperrors.ErrEmailTaken
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, apperrors.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("update account: %w", err)
	}
	return account, nil
}

// Delete removes the account permanently. Tokens already issued to it stay
// valid until expiry but resolve to no profile.
func (s *customerService) Delete(ctx context.Context, id uint) error {
	if err := s.accounts.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCustomerNotFound
		}
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}
