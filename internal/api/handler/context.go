package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/elevva/client-portal/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Gate middleware and
// fast-fails before any service call: presence proves both Auth and Gate
// ran, and the role is guaranteed valid because identities are only ever
// constructed from resolved profiles.
func ctxIdentity(c echo.Context) (*domain.Identity, error) {
	identity, _ := c.Get("identity").(*domain.Identity)
	if identity == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return identity, nil
}
