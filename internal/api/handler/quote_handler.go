package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/elevva/client-portal/internal/core/domain"
	"github.com/elevva/client-portal/internal/core/ports"
	"github.com/elevva/client-portal/internal/core/service"
)

// QuoteHandler handles HTTP requests for quotes.
type QuoteHandler struct {
	portal ports.PortalService
	caches *service.CacheSet
}

func NewQuoteHandler(portal ports.PortalService, caches *service.CacheSet) *QuoteHandler {
	return &QuoteHandler{portal: portal, caches: caches}
}

// List returns the caller's quotes, newest first.
//
// @Summary      List quotes
// @Tags         quotes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Quote
// @Router       /v1/quotes [get]
func (h *QuoteHandler) List(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	cache := h.caches.For(identity)
	if err := cache.Refresh(c.Request().Context(), identity); err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "failed to load quotes")
	}
	snap, _ := cache.Snapshot()
	return c.JSON(http.StatusOK, snap.Quotes)
}

// Get returns one quote.
//
// @Summary      Get a quote
// @Tags         quotes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Quote id"
// @Success      200  {object}  domain.Quote
// @Failure      404  {object}  errorMessage
// @Router       /v1/quotes/{id} [get]
func (h *QuoteHandler) Get(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	quote, err := h.portal.QuoteDetail(c.Request().Context(), identity, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, quote)
}

// Create issues a new quote (RBAC-gated route).
//
// @Summary      Create a quote
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createQuoteRequest  true  "Quote details"
// @Success      201   {object}  domain.Quote
// @Failure      400   {object}  errorMessage
// @Router       /v1/quotes [post]
func (h *QuoteHandler) Create(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createQuoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	quote, err := h.portal.CreateQuote(c.Request().Context(), identity, ports.CreateQuoteInput{
		ClientID:    req.ClientID,
		Title:       req.Title,
		Details:     req.Details,
		Value:       req.Value,
		Observation: req.Observation,
	})
	mutationResult("create_quote", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, quote)
}

// Update submits the full editable record (RBAC-gated route). The joined
// client name and the status never travel in this payload.
//
// @Summary      Update a quote
// @Tags         quotes
// @Accept       json
// @Security     BearerAuth
// @Param        id    path      string              true  "Quote id"
// @Param        body  body      updateQuoteRequest  true  "Quote fields"
// @Success      204
// @Failure      404   {object}  errorMessage
// @Router       /v1/quotes/{id} [put]
func (h *QuoteHandler) Update(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateQuoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err = h.portal.UpdateQuote(c.Request().Context(), identity, c.Param("id"), ports.QuoteUpdate{
		Title:       req.Title,
		Details:     req.Details,
		Value:       req.Value,
		Observation: req.Observation,
	})
	mutationResult("update_quote", err)
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// SetStatus moves a quote to any known status (RBAC-gated route).
//
// @Summary      Set quote status
// @Tags         quotes
// @Accept       json
// @Security     BearerAuth
// @Param        id    path      string            true  "Quote id"
// @Param        body  body      setStatusRequest  true  "New status"
// @Success      204
// @Failure      422   {object}  errorMessage
// @Router       /v1/quotes/{id}/status [put]
func (h *QuoteHandler) SetStatus(c echo.Context) error {
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

	err = h.portal.SetQuoteStatus(c.Request().Context(), identity, c.Param("id"), domain.QuoteStatus(req.Status))
	mutationResult("set_quote_status", err)
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
