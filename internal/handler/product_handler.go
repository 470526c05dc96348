package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"storefront/internal/service"
)

// ProductHandler handles catalog endpoints.
type ProductHandler struct {
	productService service.ProductService
}

// NewProductHandler creates a new product handler.
func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// CreateProductRequest represents a new catalog entry.
type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" swaggertype:"string" example:"19.99"`
	Stock       int             `json:"stock" validate:"min=0"`
	ImageURL    string          `json:"imageurl"`
}

// UpdateProductRequest carries the product fields to change.
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price" swaggertype:"string" example:"19.99"`
	Stock       *int             `json:"stock" validate:"omitempty,min=0"`
	ImageURL    *string          `json:"imageurl"`
}

// List godoc
// @Summary List the product catalog
// @Tags products
// @Produce json
// @Success 200 {object} map[string][]model.Product
// @Failure 500 {object} errors.ErrorResponse
// @Router /aproduct [get]
func (h *ProductHandler) List(c echo.Context) error {
	products, err := h.productService.List(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"products": products})
}

// Create godoc
// @Summary Add a product
// @Tags products
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body CreateProductRequest true "Product data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /aproduct [post]
func (h *ProductHandler) Create(c echo.Context) error {
	var req CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(err.Error())
	}

	product, err := h.productService.Create(c.Request().Context(), service.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "productId": product.ID})
}

// Update godoc
// @Summary Update a product
// @Tags products
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param id path int true "Product ID"
// @Param request body UpdateProductRequest true "Fields to change"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /aproduct/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req UpdateProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(err.Error())
	}

	product, err := h.productService.Update(c.Request().Context(), id, service.ProductUpdate{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "product": product})
}

// Delete godoc
// @Summary Delete a product
// @Tags products
// @Produce json
// @Security CookieAuth
// @Param id path int true "Product ID"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /aproduct/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.productService.Delete(c.Request().Context(), id); err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
