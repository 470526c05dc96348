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

var (
	// ErrInvalidCredentials is returned when email or password is incorrect.
	// The message is the same for both so callers cannot probe for accounts.
	ErrInvalidCredentials = errors.New("Invalid email or password")
	// ErrUserAlreadyExists is returned when trying to register an existing email.
	ErrUserAlreadyExists = errors.New("User already exists")
	// ErrPasswordTooLong is returned for passwords bcrypt cannot hash.
	ErrPasswordTooLong = fmt.Errorf("Password must be at most %d bytes", auth.MaxPasswordBytes)
)

// SignupInput carries the fields required to create an account.
type SignupInput struct {
	FullName      string
	ContactNumber string
	EmailAddress  string
	Password      string
}

// AuthService handles authentication operations.
type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*model.Account, error)
	Login(ctx context.Context, email, password string) (token string, account *model.Account, err error)
	Profile(ctx context.Context, customerID uint) (*model.Account, error)
}

type authService struct {
	accounts repository.AccountRepository
	hasher   *auth.PasswordHasher
	codec    *auth.TokenCodec
}

// NewAuthService creates a new authentication service.
func NewAuthService(accounts repository.AccountRepository, hasher *auth.PasswordHasher, codec *auth.TokenCodec) AuthService {
	return &authService{
		accounts: accounts,
		hasher:   hasher,
		codec:    codec,
	}
}

// Signup creates a customer account. It does not log the caller in.
func (s *authService) Signup(ctx context.Context, in SignupInput) (*model.Account, error) {
	return createAccount(ctx, s.accounts, s.hasher, in, model.RoleCustomer)
}

// Login checks credentials and issues a session token.
func (s *authService) Login(ctx context.Context, email, password string) (string, *model.Account, error) {
	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.hasher.VerifyAbsent(password)
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("find account: %w", err)
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.codec.Issue(auth.Identity{
		UserID: account.ID,
		Email:  account.EmailAddress,
		Role:   account.EffectiveRole(),
	})
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, account, nil
}

// Profile loads the account a session belongs to.
func (s *authService) Profile(ctx context.Context, customerID uint) (*model.Account, error) {
	account, err := s.accounts.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return account, nil
}

// createAccount hashes the password and stores a new account. The existence
// check gives the common case a clean error; the unique index settles races.
func createAccount(ctx context.Context, accounts repository.AccountRepository, hasher *auth.PasswordHasher, in SignupInput, role string) (*model.Account, error) {
	if len(in.Password) > auth.MaxPasswordBytes {
		return nil, ErrPasswordTooLong
	}

	existing, err := accounts.FindByEmail(ctx, in.EmailAddress)
	if err == nil && existing != nil {
		return nil, ErrUserAlreadyExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check account existence: %w", err)
	}

	digest, err := hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	account := &model.Account{
		FullName:      in.FullName,
		ContactNumber: in.ContactNumber,
		EmailAddress:  in.EmailAddress,
		PasswordHash:  digest,
		Role:          role,
	}
	if err := accounts.Create(ctx, account); err != nil {
		if db.IsDuplicateKey(err) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("create account: %w", err)
	}
	return account, nil
}
