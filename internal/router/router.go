package router

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"storefront/internal/auth"
	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/logging"
	"storefront/internal/model"
)

// Handlers groups the HTTP handlers mounted under /api.
type Handlers struct {
	Auth      *handler.AuthHandler
	Customers *handler.CustomerHandler
	Products  *handler.ProductHandler
	Orders    *handler.OrderHandler
}

// Register wires middleware, the error boundary and routes.
func Register(e *echo.Echo, cfg *config.Config, log logging.Logger, gate *auth.Gate, h Handlers) *Table {
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info(c.Request().Context(), "request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			)
			return nil
		},
	}))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			log.Error(c.Request().Context(), "panic recovered", "error", err, "stack", string(stack))
			return err
		},
	}))

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	table := Routes(cfg, gate, h)
	e.Any("/api/*", table.Dispatch)
	return table
}

// Routes builds the /api route table in match order.
func Routes(cfg *config.Config, gate *auth.Gate, h Handlers) *Table {
	secured := gate.Middleware()

	productAdmin := []echo.MiddlewareFunc{secured}
	if cfg.RequireAdminForProductMutation {
		productAdmin = append(productAdmin, auth.RequireRole(model.RoleAdmin))
	}

	t := NewTable()

	t.Handle(http.MethodGet, "/api/check-auth", h.Auth.CheckAuth)
	t.Handle(http.MethodGet, "/api/login", h.Auth.LoginPage)
	t.Handle(http.MethodGet, "/api/signup", h.Auth.SignupPage)
	t.Handle(http.MethodGet, "/api/profile", h.Auth.Profile, secured)
	t.Handle(http.MethodGet, "/api/acustomer", h.Customers.List, secured)
	t.Handle(http.MethodGet, "/api/aproduct", h.Products.List)

	t.Handle(http.MethodPost, "/api/login", h.Auth.Login)
	t.Handle(http.MethodPost, "/api/signup", h.Auth.Signup)
	t.Handle(http.MethodPost, "/api/validate-pin", h.Auth.ValidatePin)
	t.Handle(http.MethodPost, "/api/logout", h.Auth.Logout)
	t.Handle(http.MethodPost, "/api/acustomer", h.Customers.Create, secured)
	t.Handle(http.MethodPost, "/api/orders", h.Orders.List, secured)
	t.Handle(http.MethodPost, "/api/aproduct", h.Products.Create, productAdmin...)

	t.Handle(http.MethodPut, "/api/aproduct/:id", h.Products.Update, productAdmin...)
	t.Handle(http.MethodPut, "/api/acustomer/:id", h.Customers.Update, secured)
	t.Handle(http.MethodPut, "/api/orders", h.Orders.Place, secured)

	t.Handle(http.MethodDelete, "/api/aproduct/:id", h.Products.Delete, productAdmin...)
	t.Handle(http.MethodDelete, "/api/acustomer/:id", h.Customers.Delete, secured)

	return t
}
