package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/ziedsaddem/hotelbooking/internal/apperr"
	"github.com/ziedsaddem/hotelbooking/internal/models"
)

// writeError maps an application error to the storefront error envelope.
// The core already logged at the point of detection; nothing is re-logged
// here.
func writeError(c echo.Context, err error) error {
	appErr := apperr.From(err)
	return c.JSON(appErr.StatusCode, models.ErrorResponse{
		Error:   appErr.Code,
		Message: appErr.Message,
		Code:    appErr.StatusCode,
	})
}
