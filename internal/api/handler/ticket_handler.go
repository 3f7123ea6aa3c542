package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/elevva/client-portal/internal/api/metrics"
	"github.com/elevva/client-portal/internal/core/domain"
	"github.com/elevva/client-portal/internal/core/ports"
	"github.com/elevva/client-portal/internal/core/service"
)

// TicketHandler handles HTTP requests for support tickets.
type TicketHandler struct {
	portal ports.PortalService
	caches *service.CacheSet
}

func NewTicketHandler(portal ports.PortalService, caches *service.CacheSet) *TicketHandler {
	return &TicketHandler{portal: portal, caches: caches}
}

func mutationResult(operation string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	metrics.MutationsTotal.WithLabelValues(operation, result).Inc()
}

// List returns the caller's tickets, newest first.
//
// @Summary      List tickets
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Ticket
// @Failure      401  {object}  errorMessage
// @Router       /v1/tickets [get]
func (h *TicketHandler) List(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	cache := h.caches.For(identity)
	if err := cache.Refresh(c.Request().Context(), identity); err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "failed to load tickets")
	}
	snap, _ := cache.Snapshot()
	return c.JSON(http.StatusOK, snap.Tickets)
}

// Get returns one ticket with its conversation.
//
// @Summary      Get a ticket with messages
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Ticket id"
// @Success      200  {object}  ticketDetailResponse
// @Failure      404  {object}  errorMessage
// @Router       /v1/tickets/{id} [get]
func (h *TicketHandler) Get(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	ticket, messages, err := h.portal.TicketDetail(c.Request().Context(), identity, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ticketDetailResponse{Ticket: *ticket, Messages: messages})
}

// Create opens a new ticket with its first message. Customers always
// create for themselves; admins pick the client.
//
// @Summary      Create a ticket
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTicketRequest  true  "Ticket details"
// @Success      201   {object}  domain.Ticket
// @Failure      400   {object}  errorMessage
// @Router       /v1/tickets [post]
func (h *TicketHandler) Create(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createTicketRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ticket, err := h.portal.CreateTicket(c.Request().Context(), identity, ports.CreateTicketInput{
		ClientID: req.ClientID,
		Subject:  req.Subject,
		Content:  req.Content,
	})
	mutationResult("create_ticket", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, ticket)
}

// PostMessage appends to a ticket's conversation.
//
// @Summary      Post a message on a ticket
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Ticket id"
// @Param        body  body      postMessageRequest  true  "Message"
// @Success      201   {object}  domain.Message
// @Failure      409   {object}  errorMessage
// @Router       /v1/tickets/{id}/messages [post]
func (h *TicketHandler) PostMessage(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req postMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	message, err := h.portal.PostMessage(c.Request().Context(), identity, c.Param("id"), req.Content)
	mutationResult("post_message", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, message)
}

// SetStatus is the admin status control (RBAC-gated route).
//
// @Summary      Set ticket status
// @Tags         tickets
// @Accept       json
// @Security     BearerAuth
// @Param        id    path      string            true  "Ticket id"
// @Param        body  body      setStatusRequest  true  "New status"
// @Success      204
// @Failure      422   {object}  errorMessage
// @Router       /v1/tickets/{id}/status [put]
func (h *TicketHandler) SetStatus(c echo.Context) error {
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

	err = h.portal.SetTicketStatus(c.Request().Context(), identity, c.Param("id"), domain.TicketStatus(req.Status))
	mutationResult("set_ticket_status", err)
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
