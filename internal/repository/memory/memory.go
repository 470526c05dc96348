// Package memory implements the repositories in process memory for
// development and tests. Errors mirror what gorm returns over MySQL.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"storefront/internal/model"
	"storefront/internal/repository"
)

// DB implements an in-memory database storage.
type DB struct {
	mu       sync.Mutex
	accounts map[uint]model.Account
	products map[uint]model.Product
	orders   []model.Order

	// txMu serialises WithTransaction callers, standing in for row locks.
	txMu sync.Mutex

	accountIDCounter uint
	productIDCounter uint
	orderIDCounter   uint

	now func() time.Time
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		accounts: make(map[uint]model.Account),
		products: make(map[uint]model.Product),
		now:      time.Now,
	}
}

// Accounts returns the account repository view.
func (db *DB) Accounts() repository.AccountRepository { return &AccountRepo{db: db} }

// Products returns the product repository view.
func (db *DB) Products() repository.ProductRepository { return &ProductRepo{db: db} }

// Orders returns the order repository view.
func (db *DB) Orders() repository.OrderRepository { return &OrderRepo{db: db} }

// Ensure interfaces are met.
var _ repository.AccountRepository = (*AccountRepo)(nil)
var _ repository.ProductRepository = (*ProductRepo)(nil)
var _ repository.OrderRepository = (*OrderRepo)(nil)

// --- AccountRepository ---

type AccountRepo struct {
	db *DB
}

// emailTaken must be called with db.mu held. Matching is case-insensitive
// like MySQL's default collation.
func (db *DB) emailTaken(email string, except uint) bool {
	for id, a := range db.accounts {
		if id != except && strings.EqualFold(a.EmailAddress, email) {
			return true
		}
	}
	return false
}

func (r *AccountRepo) Create(ctx context.Context, account *model.Account) error {
	db := r.db
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.emailTaken(account.EmailAddress, 0) {
		return gorm.ErrDuplicatedKey
	}
	db.accountIDCounter++
	account.ID = db.accountIDCounter
	if account.Role == "" {
		account.Role = model.RoleCustomer
	}
	now := db.now().UTC()
	account.CreatedAt, account.UpdatedAt = now, now
	db.accounts[account.ID] = *account
	return nil
}

func (r *AccountRepo) Update(ctx context.Context, account *model.Account) error {
	db := r.db
	db.mu.Lock()
	defer db.mu.Unlock()

	stored, ok := db.accounts[account.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if db.emailTaken(account.EmailAddress, account.ID) {
		return gorm.ErrDuplicatedKey
	}
	stored.FullName = account.FullName
	stored.ContactNumber = account.ContactNumber
	stored.EmailAddress = account.EmailAddress
	stored.Role = account.Role
	stored.UpdatedAt = db.now().UTC()
	db.accounts[account.ID] = stored
	*account = stored
	return nil
}

func (r *AccountRepo) Delete(ctx context.Context, id uint) error {
	db := r.db
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.accounts[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(db.accounts, id)

	kept := db.orders[:0]
	for _, o := range db.orders {
		if o.CustomerID != id {
			kept = append(kept, o)
		}
	}
	db.orders = kept
	return nil
}

func (r *AccountRepo) FindByID(ctx context.Context, id uint) (*model.Account, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	a, ok := r.db.accounts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &a, nil
}

func (r *AccountRepo) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, a := range r.db.accounts {
		if strings.EqualFold(a.EmailAddress, email) {
			return &a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *AccountRepo) List(ctx context.Context) ([]model.Account, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	out := make([]model.Account, 0, len(r.db.accounts))
	for _, a := range r.db.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- ProductRepository ---

type ProductRepo struct {
	db *DB
}

func (r *ProductRepo) Create(ctx context.Context, product *model.Product) error {
	db := r.db
	db.mu.Lock()
	defer db.mu.Unlock()

	db.productIDCounter++
	product.ID = db.productIDCounter
	now := db.now().UTC()
	product.CreatedAt, product.UpdatedAt = now, now
	db.products[product.ID] = *product
	return nil
}

func (r *ProductRepo) Update(ctx context.Context, product *model.Product) error {
	db := r.db
	db.mu.Lock()
	defer db.mu.Unlock()

	stored, ok := db.products[product.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	product.CreatedAt = stored.CreatedAt
	product.UpdatedAt = db.now().UTC()
	db.products[product.ID] = *product
	return nil
}

func (r *ProductRepo) Delete(ctx context.Context, id uint) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.products[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	for _, o := range r.db.orders {
		if o.ProductID == id {
			return gorm.ErrForeignKeyViolated
		}
	}
	delete(r.db.products, id)
	return nil
}

func (r *ProductRepo) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	p, ok := r.db.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (r *ProductRepo) List(ctx context.Context) ([]model.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	out := make([]model.Product, 0, len(r.db.products))
	for _, p := range r.db.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- OrderRepository ---

type OrderRepo struct {
	db *DB
}

func (r *OrderRepo) Create(ctx context.Context, order *model.Order) error {
	db := r.db
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.accounts[order.CustomerID]; !ok {
		return gorm.ErrForeignKeyViolated
	}
	db.orderIDCounter++
	order.ID = db.orderIDCounter
	order.CreatedAt = db.now().UTC()
	db.orders = append(db.orders, *order)
	return nil
}

func (r *OrderRepo) List(ctx context.Context) ([]model.Order, error) {
	return r.filter(func(model.Order) bool { return true }), nil
}

func (r *OrderRepo) ListByCustomer(ctx context.Context, customerID uint) ([]model.Order, error) {
	return r.filter(func(o model.Order) bool { return o.CustomerID == customerID }), nil
}

// filter returns matching orders, newest first.
func (r *OrderRepo) filter(keep func(model.Order) bool) []model.Order {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	out := make([]model.Order, 0)
	for i := len(r.db.orders) - 1; i >= 0; i-- {
		if keep(r.db.orders[i]) {
			out = append(out, r.db.orders[i])
		}
	}
	return out
}

func (r *OrderRepo) FindProductForUpdate(ctx context.Context, productID uint) (*model.Product, error) {
	return (&ProductRepo{db: r.db}).FindByID(ctx, productID)
}

func (r *OrderRepo) UpdateStock(ctx context.Context, productID uint, stock int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	p, ok := r.db.products[productID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock = stock
	p.UpdatedAt = r.db.now().UTC()
	r.db.products[productID] = p
	return nil
}

// WithTransaction runs fn while holding the store's transaction lock. There is
// no rollback; fn is expected to validate before it writes.
func (r *OrderRepo) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo repository.OrderRepository) error) error {
	r.db.txMu.Lock()
	defer r.db.txMu.Unlock()
	return fn(ctx, r)
}
