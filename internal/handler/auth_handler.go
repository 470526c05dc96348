package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/auth"
	"storefront/internal/errors"
	"storefront/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService  service.AuthService
	gate         *auth.Gate
	secureCookie bool
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, gate *auth.Gate, secureCookie bool) *AuthHandler {
	return &AuthHandler{authService: authService, gate: gate, secureCookie: secureCookie}
}

// SignupRequest represents a customer registration request.
type SignupRequest struct {
	FullName      string `json:"fullname" validate:"required"`
	ContactNumber string `json:"contactnumber" validate:"required"`
	EmailAddress  string `json:"emailaddress" validate:"required"`
	Password      string `json:"password" validate:"required"`
}

func (r SignupRequest) input() service.SignupInput {
	return service.SignupInput{
		FullName:      r.FullName,
		ContactNumber: r.ContactNumber,
		EmailAddress:  r.EmailAddress,
		Password:      r.Password,
	}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	EmailAddress string `json:"emailaddress" validate:"required"`
	Password     string `json:"password" validate:"required"`
}

// SessionUser is the public part of an account returned on login.
type SessionUser struct {
	EmailAddress string `json:"emailaddress"`
	FullName     string `json:"fullname"`
	Role         string `json:"role"`
}

// LoginResponse represents a successful login.
type LoginResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	User    SessionUser `json:"user"`
}

// SignupResponse represents a successful signup.
type SignupResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	UserID  uint   `json:"userId"`
}

// Login godoc
// @Summary Log in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse
// @Header 200 {string} Set-Cookie "token=<jwt>; Path=/; Max-Age=18000; HttpOnly; SameSite=Strict"
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Email and password are required")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest("Email and password are required")
	}

	token, account, err := h.authService.Login(c.Request().Context(), req.EmailAddress, req.Password)
	if err != nil {
		if err == service.ErrInvalidCredentials {
			return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
				Error: err.Error(),
				Code:  errors.KindAuthentication,
			})
		}
		return err
	}

	c.SetCookie(auth.SessionCookie(token, h.secureCookie))
	return c.JSON(http.StatusOK, LoginResponse{
		Success: true,
		Message: "Login successful",
		User: SessionUser{
			EmailAddress: account.EmailAddress,
			FullName:     account.FullName,
			Role:         account.EffectiveRole(),
		},
	})
}

// Signup godoc
// @Summary Register a new customer
// @Description Creates the account only; the caller still has to log in.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignupRequest true "Registration data"
// @Success 201 {object} SignupResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return signupValidationError(err)
	}

	account, err := h.authService.Signup(c.Request().Context(), req.input())
	if err != nil {
		return signupError(err)
	}

	return c.JSON(http.StatusCreated, SignupResponse{
		Success: true,
		Message: "Signup successful",
		UserID:  account.ID,
	})
}

// Logout godoc
// @Summary Log out
// @Description Clears the session cookie. The token itself is not revoked.
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(auth.ClearSessionCookie(h.secureCookie))
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Logout successful",
	})
}

// CheckAuth godoc
// @Summary Report whether the session cookie is valid
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /check-auth [get]
func (h *AuthHandler) CheckAuth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]bool{
		"isAuthenticated": h.gate.IsAuthenticated(c),
	})
}

// Profile godoc
// @Summary Current customer's profile
// @Tags auth
// @Produce json
// @Security CookieAuth
// @Success 200 {object} map[string]model.Account
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /profile [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		return auth.Unauthorized()
	}

	account, err := h.authService.Profile(c.Request().Context(), claims.UserID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"customer": account})
}

// LoginPage is reserved; it answers 204 with no body.
// @Summary Reserved
// @Tags auth
// @Success 204
// @Router /login [get]
func (h *AuthHandler) LoginPage(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

// SignupPage is reserved; it answers 204 with no body.
// @Summary Reserved
// @Tags auth
// @Success 204
// @Router /signup [get]
func (h *AuthHandler) SignupPage(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

// ValidatePin godoc
// @Summary Reserved PIN validation
// @Tags auth
// @Produce json
// @Failure 501 {object} errors.ErrorResponse
// @Router /validate-pin [post]
func (h *AuthHandler) ValidatePin(c echo.Context) error {
	return echo.NewHTTPError(http.StatusNotImplemented, errors.ErrorResponse{
		Error: "Not implemented",
		Code:  errors.KindInternal,
	})
}

func signupValidationError(err error) error {
	missing, ok := missingFields(err, "fullname", "contactnumber", "emailaddress", "password")
	if !ok {
		return badRequest(err.Error())
	}
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error:   "All fields are required",
		Code:    errors.KindValidation,
		Missing: missing,
	})
}

func signupError(err error) error {
	switch err {
	case service.ErrUserAlreadyExists:
		return echo.NewHTTPError(http.StatusConflict, errors.ErrorResponse{
			Error: err.Error(),
			Code:  errors.KindConflict,
		})
	case service.ErrPasswordTooLong:
		return badRequest(err.Error())
	}
	return fail(err)
}
