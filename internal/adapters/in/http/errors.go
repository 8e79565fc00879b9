package http

import (
	"errors"
	"net/http"

	"restaurant/internal/core/application/lifecycle"
	"restaurant/internal/core/domain/model/order"
	"restaurant/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

const notConnectedMessage = "not_connected"

// statusOf maps application errors to HTTP status codes. Anything not
// recognized is treated as a failure of the entity store.
func statusOf(err error) int {
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code
	case errors.Is(err, lifecycle.ErrNotConnected):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, order.ErrTransitionNotAllowed):
		return http.StatusConflict
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

func messageOf(err error) string {
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		if msg, ok := httpErr.Message.(string); ok {
			return msg
		}
		return http.StatusText(httpErr.Code)
	case errors.Is(err, lifecycle.ErrNotConnected):
		return notConnectedMessage
	default:
		return err.Error()
	}
}

func respondError(ctx echo.Context, err error) error {
	code := statusOf(err)
	return ctx.JSON(code, Error{Code: code, Message: messageOf(err)})
}

// ErrorHandler renders every error escaping a handler in the Error shape.
func ErrorHandler(err error, ctx echo.Context) {
	if ctx.Response().Committed {
		return
	}
	if respErr := respondError(ctx, err); respErr != nil {
		ctx.Logger().Error(respErr)
	}
}
