package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/elevva/client-portal/internal/core/domain"
	"github.com/elevva/client-portal/internal/core/ports"
	"github.com/elevva/client-portal/internal/core/service"
)

// ServiceHandler handles HTTP requests for contracted services.
type ServiceHandler struct {
	portal ports.PortalService
	caches *service.CacheSet
}

func NewServiceHandler(portal ports.PortalService, caches *service.CacheSet) *ServiceHandler {
	return &ServiceHandler{portal: portal, caches: caches}
}

// List returns the caller's services, newest start date first.
//
// @Summary      List services
// @Tags         services
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Service
// @Router       /v1/services [get]
func (h *ServiceHandler) List(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	cache := h.caches.For(identity)
	if err := cache.Refresh(c.Request().Context(), identity); err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "failed to load services")
	}
	snap, _ := cache.Snapshot()
	return c.JSON(http.StatusOK, snap.Services)
}

// Get returns one service record.
//
// @Summary      Get a service
// @Tags         services
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Service id"
// @Success      200  {object}  domain.Service
// @Failure      404  {object}  errorMessage
// @Router       /v1/services/{id} [get]
func (h *ServiceHandler) Get(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	svc, err := h.portal.ServiceDetail(c.Request().Context(), identity, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, svc)
}

// Create records a new contracted service (RBAC-gated route).
//
// @Summary      Create a service
// @Tags         services
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createServiceRequest  true  "Service details"
// @Success      201   {object}  domain.Service
// @Failure      400   {object}  errorMessage
// @Router       /v1/services [post]
func (h *ServiceHandler) Create(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createServiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	svc, err := h.portal.CreateService(c.Request().Context(), identity, ports.CreateServiceInput{
		ClientID:    req.ClientID,
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
	})
	mutationResult("create_service", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, svc)
}

// Update submits the full editable record (RBAC-gated route).
//
// @Summary      Update a service
// @Tags         services
// @Accept       json
// @Security     BearerAuth
// @Param        id    path      string                true  "Service id"
// @Param        body  body      updateServiceRequest  true  "Service fields"
// @Success      204
// @Failure      404   {object}  errorMessage
// @Router       /v1/services/{id} [put]
func (h *ServiceHandler) Update(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateServiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err = h.portal.UpdateService(c.Request().Context(), identity, c.Param("id"), ports.ServiceUpdate{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Observation: req.Observation,
	})
	mutationResult("update_service", err)
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// SetStatus moves a service to any known status (RBAC-gated route).
//
// @Summary      Set service status
// @Tags         services
// @Accept       json
// @Security     BearerAuth
// @Param        id    path      string            true  "Service id"
// @Param        body  body      setStatusRequest  true  "New status"
// @Success      204
// @Failure      422   {object}  errorMessage
// @Router       /v1/services/{id}/status [put]
func (h *ServiceHandler) SetStatus(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req setStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err = h.portal.SetServiceStatus(c.Request().Context(), identity, c.Param("id"), domain.ServiceStatus(req.Status))
	mutationResult("set_service_status", err)
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
