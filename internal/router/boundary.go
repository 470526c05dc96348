package router

import (
	stderrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/errors"
	"storefront/internal/logging"
)

// NewHTTPErrorHandler is the last line of error handling. Deliberate
// *echo.HTTPError responses pass through; anything else is logged in full
// and answered with a generic 500.
func NewHTTPErrorHandler(log logging.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		req := c.Request()
		reqLog := log.With(
			"method", req.Method,
			"path", req.URL.Path,
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
		)

		status := http.StatusInternalServerError
		body := errors.ErrorResponse{Error: errors.MsgInternal, Code: errors.KindInternal}

		var he *echo.HTTPError
		if stderrors.As(err, &he) {
			status = he.Code
			switch m := he.Message.(type) {
			case errors.ErrorResponse:
				body = m
			case string:
				body = errors.ErrorResponse{Error: m}
			default:
				body = errors.ErrorResponse{Error: http.StatusText(he.Code)}
			}
			if status == http.StatusInternalServerError {
				reqLog.Error(req.Context(), "request failed", "error", err)
				body = errors.ErrorResponse{Error: errors.MsgInternal, Code: errors.KindInternal}
			}
		} else {
			reqLog.Error(req.Context(), "unhandled error", "error", err)
		}

		if req.Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			reqLog.Error(req.Context(), "write error response", "error", err)
		}
	}
}
