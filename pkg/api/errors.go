package api

import (
	"errors"
	"log/slog"
	"net/http"

	echo "github.com/labstack/echo/v5"

	"github.com/intentflow/resolver/pkg/apperr"
)

// mapServiceError maps an apperr.Kind to an HTTP error response, per
// spec.md §7's propagation table: InvalidContext/InvalidFeedback surface
// as 400, DeadlineExceeded as 504, and everything else is logged and
// returned as an opaque 500 so a half-updated counter is never implied by
// the response body.
func mapServiceError(err error) *echo.HTTPError {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		switch appErr.Kind {
		case apperr.KindInvalidContext, apperr.KindInvalidFeedback:
			return echo.NewHTTPError(http.StatusBadRequest, appErr.Error())
		case apperr.KindDeadlineExceeded:
			return echo.NewHTTPError(http.StatusGatewayTimeout, "operation exceeded deadline")
		}
	}

	slog.Error("unexpected service error", "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
}
