package auth

import (
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"storefront/internal/errors"
)

const claimsContextKey = "session"

// Gate admits requests that carry a valid session cookie.
type Gate struct {
	codec *TokenCodec
}

// NewGate creates a gate verifying tokens with codec.
func NewGate(codec *TokenCodec) *Gate {
	return &Gate{codec: codec}
}

// Middleware rejects requests without a verifiable session cookie with 401
// and otherwise stores the claims for ClaimsFrom.
func (g *Gate) Middleware() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "cookie:" + CookieName,
		ContextKey:  claimsContextKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return g.codec.Verify(token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return Unauthorized()
		},
	})
}

// IsAuthenticated reports whether the request carries a valid session
// cookie. It never rejects.
func (g *Gate) IsAuthenticated(c echo.Context) bool {
	cookie, err := c.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return false
	}
	_, err = g.codec.Verify(cookie.Value)
	return err == nil
}

// ClaimsFrom returns the claims the gate attached to c.
func ClaimsFrom(c echo.Context) (*Claims, bool) {
	claims, ok := c.Get(claimsContextKey).(*Claims)
	return claims, ok && claims != nil
}

// RequireRole must run after Gate.Middleware. It rejects callers whose role
// claim differs from role with 403.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := ClaimsFrom(c)
			if !ok {
				return Unauthorized()
			}
			if claims.Role != role {
				return echo.NewHTTPError(http.StatusForbidden, errors.ErrorResponse{
					Error: "Forbidden",
					Code:  errors.KindAuthentication,
				})
			}
			return next(c)
		}
	}
}

// Unauthorized is the 401 every gated path answers with.
func Unauthorized() *echo.HTTPError {
	return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
		Error: errors.MsgUnauthorized,
		Code:  errors.KindAuthentication,
	})
}
