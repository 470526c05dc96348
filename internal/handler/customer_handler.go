package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/service"
)

// CustomerHandler handles customer administration endpoints.
type CustomerHandler struct {
	customerService service.CustomerService
}

// NewCustomerHandler creates a new customer handler.
func NewCustomerHandler(customerService service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// CreateCustomerRequest is a signup request with an optional role.
type CreateCustomerRequest struct {
	SignupRequest
	Role string `json:"role" validate:"omitempty,oneof=customer admin"`
}

// UpdateCustomerRequest carries the profile fields to change.
type UpdateCustomerRequest struct {
	FullName      *string `json:"fullname"`
	ContactNumber *string `json:"contactnumber"`
	EmailAddress  *string `json:"emailaddress"`
}

// List godoc
// @Summary List customers
// @Tags customers
// @Produce json
// @Security CookieAuth
// @Success 200 {object} map[string][]model.Account
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /acustomer [get]
func (h *CustomerHandler) List(c echo.Context) error {
	customers, err := h.customerService.List(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"customers": customers})
}

// Create godoc
// @Summary Add a customer
// @Tags customers
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body CreateCustomerRequest true "Customer data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /acustomer [post]
func (h *CustomerHandler) Create(c echo.Context) error {
	var req CreateCustomerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return signupValidationError(err)
	}

	account, err := h.customerService.Create(c.Request().Context(), req.input(), req.Role)
	if err != nil {
		return signupError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success":    true,
		"customerId": account.ID,
	})
}

// Update godoc
// @Summary Update a customer's profile
// @Tags customers
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param id path int true "Customer ID"
// @Param request body UpdateCustomerRequest true "Fields to change"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /acustomer/{id} [put]
func (h *CustomerHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req UpdateCustomerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid request body")
	}

	account, err := h.customerService.Update(c.Request().Context(), id, service.CustomerUpdate{
		FullName:      req.FullName,
		ContactNumber: req.ContactNumber,
		EmailAddress:  req.EmailAddress,
	})
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "customer": account})
}

// Delete godoc
// @Summary Delete a customer
// @Tags customers
// @Produce json
// @Security CookieAuth
// @Param id path int true "Customer ID"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /acustomer/{id} [delete]
func (h *CustomerHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.customerService.Delete(c.Request().Context(), id); err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
