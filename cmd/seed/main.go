package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/auth"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/logging"
	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/service"
)

// SeedProductData is one catalog entry from SEED_CATALOG_URL.
type SeedProductData struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Stock       int    `json:"stock"`
	ImageURL    string `json:"imageurl"`
}

func main() {
	cfg := config.Load()
	log := logging.NewJSON(os.Stdout, cfg.LogLevel)
	ctx := context.Background()

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "seed failed", "error", err)
		os.Exit(1)
	}
	log.Info(ctx, "seed completed")
}

func run(ctx context.Context, cfg *config.Config, log logging.Logger) error {
	gormDB, err := db.NewMySQL(cfg)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	if err := gormDB.AutoMigrate(&model.Account{}, &model.Product{}, &model.Order{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	log.Info(ctx, "database migrations completed")

	customers := service.NewCustomerService(repository.NewAccountRepository(gormDB), auth.NewPasswordHasher())
	if err := seedAdmin(ctx, customers, log, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return err
	}

	url := cfg.SeedCatalogURL
	if url == "" {
		log.Info(ctx, "SEED_CATALOG_URL not set, skipping catalog")
		return nil
	}
	items, err := fetchCatalog(ctx, url)
	if err != nil {
		return err
	}
	log.Info(ctx, "fetched catalog", "url", url, "items", len(items))

	// The cache is left nil: the server repopulates it on its first list.
	products := service.NewProductService(repository.NewProductRepository(gormDB), nil)
	created, skipped, err := seedProducts(ctx, products, items)
	if err != nil {
		return err
	}
	log.Info(ctx, "catalog seeded", "created", created, "skipped", skipped)
	return nil
}

// seedAdmin creates the admin account once; an existing email is left alone.
func seedAdmin(ctx context.Context, customers service.CustomerService, log logging.Logger, email, password string) error {
	if email == "" || password == "" {
		log.Info(ctx, "ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin")
		return nil
	}
	_, err := customers.Create(ctx, service.SignupInput{
		FullName:      "Administrator",
		ContactNumber: "-",
		EmailAddress:  email,
		Password:      password,
	}, model.RoleAdmin)
	switch {
	case errors.Is(err, service.ErrUserAlreadyExists):
		log.Info(ctx, "admin already exists", "email", email)
		return nil
	case err != nil:
		return fmt.Errorf("create admin: %w", err)
	}
	log.Info(ctx, "admin created", "email", email)
	return nil
}

func fetchCatalog(ctx context.Context, url string) ([]SeedProductData, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog returned status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var items []SeedProductData
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return items, nil
}

// seedProducts adds catalog entries whose name is not already present.
func seedProducts(ctx context.Context, products service.ProductService, items []SeedProductData) (created, skipped int, err error) {
	existing, err := products.List(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("list products: %w", err)
	}
	names := make(map[string]bool, len(existing))
	for _, p := range existing {
		names[p.Name] = true
	}

	for _, item := range items {
		price, perr := decimal.NewFromString(item.Price)
		if item.Name == "" || perr != nil || names[item.Name] {
			skipped++
			continue
		}
		if _, err := products.Create(ctx, service.ProductInput{
			Name:        item.Name,
			Description: item.Description,
			Price:       price,
			Stock:       item.Stock,
			ImageURL:    item.ImageURL,
		}); err != nil {
			return created, skipped, fmt.Errorf("create product %q: %w", item.Name, err)
		}
		names[item.Name] = true
		created++
	}
	return created, skipped, nil
}
