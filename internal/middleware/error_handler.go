package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"okazjeplus/pkg/logger"
	"okazjeplus/pkg/trace"

	jsonres "okazjeplus/pkg/response"

	"github.com/labstack/echo/v4"
)

// ErrorHandler renders errors that escape handlers (routing misses, bind
// failures, panics recovered by echo) in the same envelope as AuthMiddleware.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		message = fmt.Sprint(he.Message)
	}

	if code >= http.StatusInternalServerError {
		logger.Error("unhandled_error",
			"trace_id", trace.TraceIDFromContext(c.Request().Context()),
			"method", c.Request().Method,
			"path", c.Path(),
			"error", err,
		)
	}

	statusCode := strings.ToUpper(strings.ReplaceAll(http.StatusText(code), " ", "_"))
	body := jsonres.Error(statusCode, message, nil)

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(code)
	} else {
		writeErr = c.JSON(code, body)
	}
	if writeErr != nil {
		logger.Warn("error_response_failed", "error", writeErr)
	}
}
