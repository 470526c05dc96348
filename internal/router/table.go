package router

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"storefront/internal/errors"
)

// allowedMethods is advertised in the Allow header of every 405.
var allowedMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}

// Pattern is a compiled route path. It is either static or a static prefix
// followed by a single trailing ":name" segment.
type Pattern struct {
	raw    string
	prefix string
	param  string
}

// Compile parses a route path such as "/api/aproduct/:id".
func Compile(path string) Pattern {
	i := strings.LastIndex(path, "/")
	if last := path[i+1:]; strings.HasPrefix(last, ":") {
		return Pattern{raw: path, prefix: path[:i+1], param: last[1:]}
	}
	return Pattern{raw: path, prefix: path}
}

// Dynamic reports whether the pattern ends in a parameter segment.
func (p Pattern) Dynamic() bool { return p.param != "" }

// Param is the name of the trailing parameter, or "".
func (p Pattern) Param() string { return p.param }

func (p Pattern) String() string { return p.raw }

// Match reports whether path matches. For dynamic patterns the path only has
// to start with the static prefix; the value is whatever follows the last
// "/" and may be empty.
func (p Pattern) Match(path string) (string, bool) {
	if !p.Dynamic() {
		return "", path == p.prefix
	}
	if !strings.HasPrefix(path, p.prefix) {
		return "", false
	}
	return path[strings.LastIndex(path, "/")+1:], true
}

// Route binds a method and pattern to a handler with its middleware already
// applied.
type Route struct {
	Method  string
	Pattern Pattern
	Handler echo.HandlerFunc
}

// Table is an ordered route list. Routes are tried in declaration order and
// the first match wins. A Table must not be modified once it serves traffic.
type Table struct {
	routes []Route
}

// NewTable returns an empty route table.
func NewTable() *Table {
	return &Table{}
}

// Handle appends a route. mw wraps h with the first element outermost.
func (t *Table) Handle(method, pattern string, h echo.HandlerFunc, mw ...echo.MiddlewareFunc) {
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	t.routes = append(t.routes, Route{Method: method, Pattern: Compile(pattern), Handler: h})
}

// Routes returns a copy of the registered routes in match order.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}

// Dispatch resolves the request against the table. It answers 405 for
// methods outside GET/POST/PUT/DELETE and for paths only served under other
// methods, and echo.ErrNotFound when nothing matches at all.
func (t *Table) Dispatch(c echo.Context) error {
	method := c.Request().Method
	path := c.Request().URL.Path

	if !isAllowed(method) {
		return methodNotAllowed(c, method)
	}

	for _, r := range t.routes {
		if r.Method != method {
			continue
		}
		value, ok := r.Pattern.Match(path)
		if !ok {
			continue
		}
		if r.Pattern.Dynamic() {
			c.SetParamNames(r.Pattern.Param())
			c.SetParamValues(value)
		}
		return r.Handler(c)
	}

	for _, r := range t.routes {
		if _, ok := r.Pattern.Match(path); ok {
			return methodNotAllowed(c, method)
		}
	}
	return echo.ErrNotFound
}

func isAllowed(method string) bool {
	for _, m := range allowedMethods {
		if m == method {
			return true
		}
	}
	return false
}

func methodNotAllowed(c echo.Context, method string) error {
	c.Response().Header().Set(echo.HeaderAllow, strings.Join(allowedMethods, ", "))
	return echo.NewHTTPError(http.StatusMethodNotAllowed, errors.ErrorResponse{
		Error: fmt.Sprintf("Method %s Not Allowed", method),
		Code:  errors.KindMethodNotAllowed,
	})
}
