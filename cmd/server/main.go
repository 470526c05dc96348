package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"storefront/docs"
	"storefront/internal/auth"
	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/handler"
	"storefront/internal/logging"
	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/repository/memory"
	"storefront/internal/router"
	"storefront/internal/service"
)

// stores bundles the repositories selected by STORE_DRIVER.
type stores struct {
	accounts repository.AccountRepository
	products repository.ProductRepository
	orders   repository.OrderRepository
}

// @title Storefront API
// @version 1.0
// @description Customer accounts, cookie sessions, catalog and orders.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name token
func main() {
	cfg := config.Load()
	log := logging.NewJSON(os.Stdout, cfg.LogLevel)
	ctx := context.Background()

	if err := cfg.Validate(); err != nil {
		log.Error(ctx, "invalid configuration", "error", err)
		os.Exit(1)
	}

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "store init", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if cacheClient.Enabled() {
		if err := cacheClient.Ping(ctx); err != nil {
			log.Warn(ctx, "redis unreachable, serving without cache", "addr", cfg.RedisAddr, "error", err)
		}
		defer cacheClient.Close()
	}

	// Initialize auth components
	hasher := auth.NewPasswordHasher()
	codec := auth.NewTokenCodec(cfg.JWTSecret)
	gate := auth.NewGate(codec)

	// Initialize services
	authService := service.NewAuthService(st.accounts, hasher, codec)
	customerService := service.NewCustomerService(st.accounts, hasher)
	productService := service.NewProductService(st.products, cacheClient)
	orderService := service.NewOrderService(st.orders, cacheClient)

	e := echo.New()
	router.Register(e, cfg, log, gate, router.Handlers{
		Auth:      handler.NewAuthHandler(authService, gate, cfg.CookieSecure),
		Customers: handler.NewCustomerHandler(customerService),
		Products:  handler.NewProductHandler(productService),
		Orders:    handler.NewOrderHandler(orderService),
	})

	log.Info(ctx, "swagger documentation available", "url", swaggerURL(cfg))

	addr := ":" + cfg.ServerPort
	go func() {
		log.Info(ctx, "server listening", "addr", addr, "store", cfg.StoreDriver)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "server start", "error", err)
			os.Exit(1)
		}
	}()

	stop, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()
	<-stop.Done()

	shutdownCtx, cancelShutdown := context.WithTimeout(ctx, 10*time.Second)
	defer cancelShutdown()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown", "error", err)
	}
}

func openStores(ctx context.Context, cfg *config.Config, log logging.Logger) (*stores, error) {
	if cfg.StoreDriver == config.StoreMemory {
		log.Warn(ctx, "using in-memory store; data is lost on restart")
		mem := memory.New()
		return &stores{accounts: mem.Accounts(), products: mem.Products(), orders: mem.Orders()}, nil
	}

	gormDB, err := db.NewMySQL(cfg)
	if err != nil {
		return nil, err
	}
	if err := migrate(ctx, gormDB, cfg.ResetDB, log); err != nil {
		return nil, err
	}
	return &stores{
		accounts: repository.NewAccountRepository(gormDB),
		products: repository.NewProductRepository(gormDB),
		orders:   repository.NewOrderRepository(gormDB),
	}, nil
}

// migrate creates or updates the schema, dropping the tables first on reset.
func migrate(ctx context.Context, gormDB *gorm.DB, reset bool, log logging.Logger) error {
	if reset {
		log.Warn(ctx, "RESET_DB=true detected, dropping all tables")
		// Children first so foreign keys do not block the drop.
		for _, table := range []any{&model.Order{}, &model.Product{}, &model.Account{}} {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Warn(ctx, "drop table failed (may not exist)", "error", err)
			}
		}
	}
	return gormDB.AutoMigrate(&model.Account{}, &model.Product{}, &model.Order{})
}

func swaggerURL(cfg *config.Config) string {
	host := cfg.SwaggerHost
	if host == "" {
		host = "localhost:" + cfg.ServerPort
	} else {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(host, "https://"), "http://")
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return host + "/swagger/index.html"
}
