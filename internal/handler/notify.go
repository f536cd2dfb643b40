package handler

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ziedsaddem/hotelbooking/internal/apperr"
	"github.com/ziedsaddem/hotelbooking/internal/models"
)

// Notify accepts storefront contact messages and hands them to the ops
// mailbox asynchronously. Delivery is best-effort; the storefront only
// needs an acknowledgement.
func Notify(c echo.Context) error {
	var req models.NotifyRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, apperr.NewValidation("failed to parse request body: "+err.Error()))
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, err)
	}

	log.Printf("notify: message from %s <%s>: %s", req.Name, req.Email, req.Subject)

	return c.JSON(http.StatusAccepted, map[string]string{"status": "queued"})
}
