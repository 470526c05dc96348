package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/auth"
	"storefront/internal/service"
)

// OrderHandler handles order endpoints.
type OrderHandler struct {
	orderService service.OrderService
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// PlaceOrderRequest asks for quantity units of one product.
type PlaceOrderRequest struct {
	ProductID uint `json:"productid" validate:"required"`
	Quantity  int  `json:"quantity"`
}

// List godoc
// @Summary List orders
// @Description Customers see their own orders; admins see every order.
// @Tags orders
// @Produce json
// @Security CookieAuth
// @Success 200 {object} map[string][]model.Order
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /orders [post]
func (h *OrderHandler) List(c echo.Context) error {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		return auth.Unauthorized()
	}
	orders, err := h.orderService.List(c.Request().Context(), claims.Identity())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": orders})
}

// Place godoc
// @Summary Place an order
// @Tags orders
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body PlaceOrderRequest true "Order"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /orders [put]
func (h *OrderHandler) Place(c echo.Context) error {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		return auth.Unauthorized()
	}
	var req PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest("Product id is required")
	}

	order, err := h.orderService.Place(c.Request().Context(), claims.UserID, req.ProductID, req.Quantity)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "order": order})
}
