package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/elevva/client-portal/internal/api/metrics"
	"github.com/elevva/client-portal/internal/core/domain"
	"github.com/elevva/client-portal/internal/core/service"
)

// PortalHandler serves the role-scoped snapshot views backed by the data
// cache. Every list read is a full refetch: the portal trades latency for
// the guarantee that the client never diverges from the server.
type PortalHandler struct {
	caches *service.CacheSet
}

func NewPortalHandler(caches *service.CacheSet) *PortalHandler {
	return &PortalHandler{caches: caches}
}

// refreshed refetches all four collections for the identity and returns
// the resulting snapshot. On failure the previous snapshot is not exposed;
// the caller sees a loading-failed error instead of partial data.
func (h *PortalHandler) refreshed(c echo.Context, identity *domain.Identity) (service.Snapshot, service.ViewState, error) {
	cache := h.caches.For(identity)

	start := time.Now()
	err := cache.Refresh(c.Request().Context(), identity)
	metrics.RefreshDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RefreshesTotal.WithLabelValues("failure").Inc()
		return service.Snapshot{}, service.ViewErrored,
			echo.NewHTTPError(http.StatusBadGateway, "failed to load portal data")
	}
	metrics.RefreshesTotal.WithLabelValues("success").Inc()

	snap, state := cache.Snapshot()
	return snap, state, nil
}

// Summary returns the full role-scoped snapshot plus derived statistics.
//
// @Summary      Portal summary
// @Tags         portal
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  snapshotResponse
// @Failure      401  {object}  errorMessage
// @Failure      502  {object}  errorMessage
// @Router       /v1/portal [get]
func (h *PortalHandler) Summary(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	snap, state, err := h.refreshed(c, identity)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, snapshotResponse{
		Stats:     snap.Stats(),
		Tickets:   snap.Tickets,
		Quotes:    snap.Quotes,
		Services:  snap.Services,
		Clients:   snap.Clients,
		FetchedAt: snap.FetchedAt,
		State:     state.String(),
	})
}

// Clients lists every customer profile. Admin-only (enforced by RBAC on
// the route).
//
// @Summary      List clients
// @Tags         portal
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Profile
// @Failure      403  {object}  errorMessage
// @Router       /v1/clients [get]
func (h *PortalHandler) Clients(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	snap, _, err := h.refreshed(c, identity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, snap.Clients)
}
