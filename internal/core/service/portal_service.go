package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/elevva/client-portal/internal/core/domain"
	"github.com/elevva/client-portal/internal/core/ports"
)

// PortalService implements the portal's typed mutations. Every successful
// write triggers a full refresh of the caller's cache — consistency is
// refetch-after-write, never local patching — and every failed write leaves
// the cache untouched.
type PortalService struct {
	tickets  ports.TicketRepository
	messages ports.MessageRepository
	quotes   ports.QuoteRepository
	services ports.ServiceRepository
	caches   *CacheSet
	logger   zerolog.Logger
}

func NewPortalService(
	tickets ports.TicketRepository,
	messages ports.MessageRepository,
	quotes ports.QuoteRepository,
	services ports.ServiceRepository,
	caches *CacheSet,
	logger zerolog.Logger,
) *PortalService {
	return &PortalService{
		tickets:  tickets,
		messages: messages,
		quotes:   quotes,
		services: services,
		caches:   caches,
		logger:   logger,
	}
}

var _ ports.PortalService = (*PortalService)(nil)

// scopeFor returns the client_id filter for the caller: empty (unfiltered)
// for admins, the caller's own id otherwise.
func scopeFor(caller *domain.Identity) string {
	if caller.IsAdmin() {
		return ""
	}
	return caller.ID
}

// targetClient resolves the client a new record belongs to. Admins choose
// explicitly; customers always create for themselves regardless of the
// requested id.
func targetClient(caller *domain.Identity, requested string) (string, error) {
	if caller.IsAdmin() {
		if requested == "" {
			return "", domain.ErrInvalidInput
		}
		return requested, nil
	}
	return caller.ID, nil
}

// refresh rebuilds the caller's cached snapshot after a confirmed write.
// A failed refetch leaves the snapshot stale but the mutation itself has
// already succeeded, so the error is logged rather than returned.
func (s *PortalService) refresh(ctx context.Context, caller *domain.Identity) {
	if err := s.caches.For(caller).Refresh(ctx, caller); err != nil {
		s.logger.Error().Err(err).
			Str("user_id", caller.ID).
			Msg("post-mutation refresh failed")
	}
}

// CreateTicket creates the ticket row and then its first message. The two
// inserts are not transactional: when the message insert fails the ticket
// persists without a message, the error is returned, and no refresh runs.
func (s *PortalService) CreateTicket(ctx context.Context, caller *domain.Identity, in ports.CreateTicketInput) (*domain.Ticket, error) {
	clientID, err := targetClient(caller, in.ClientID)
	if err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		ID:        uuid.NewString(),
		ClientID:  clientID,
		Subject:   in.Subject,
		Status:    domain.TicketOpen,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.tickets.Insert(ctx, ticket); err != nil {
		return nil, err
	}

	message := &domain.Message{
		ID:        uuid.NewString(),
		TicketID:  ticket.ID,
		SenderID:  caller.ID,
		Content:   in.Content,
		Timestamp: time.Now().UTC(),
	}
	if err := s.messages.Insert(ctx, message); err != nil {
		s.logger.Warn().Err(err).
			Str("ticket_id", ticket.ID).
			Msg("first message insert failed; ticket persisted without messages")
		return nil, err
	}

	s.logger.Info().
		Str("ticket_id", ticket.ID).
		Str("client_id", clientID).
		Msg("ticket created")

	s.refresh(ctx, caller)
	return ticket, nil
}

// PostMessage appends a message to a ticket the caller can see. Customers
// may not post on closed tickets. A successful non-admin append on a closed
// ticket reopens it; admin replies never change status.
func (s *PortalService) PostMessage(ctx context.Context, caller *domain.Identity, ticketID, content string) (*domain.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, domain.ErrInvalidInput
	}

	ticket, err := s.tickets.FindByID(ctx, ticketID, scopeFor(caller))
	if err != nil {
		return nil, err
	}
	if ticket.Status == domain.TicketClosed && !caller.IsAdmin() {
		return nil, domain.ErrTicketClosed
	}

	message := &domain.Message{
		ID:        uuid.NewString(),
		TicketID:  ticket.ID,
		SenderID:  caller.ID,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
	if err := s.messages.Insert(ctx, message); err != nil {
		return nil, err
	}

	if next := domain.StatusAfterReply(ticket.Status, caller.Role); next != ticket.Status {
		if err := s.tickets.UpdateStatus(ctx, ticket.ID, next); err != nil {
			return nil, err
		}
		s.logger.Info().
			Str("ticket_id", ticket.ID).
			Msg("closed ticket reopened by customer reply")
	}

	s.refresh(ctx, caller)
	return message, nil
}

// SetTicketStatus is the admin-only explicit status control. Any known
// value may be set from any other.
func (s *PortalService) SetTicketStatus(ctx context.Context, caller *domain.Identity, ticketID string, status domain.TicketStatus) error {
	if !caller.IsAdmin() {
		return domain.ErrForbidden
	}
	if !domain.ValidTicketStatus(status) {
		return domain.ErrInvalidStatus
	}

	if _, err := s.tickets.FindByID(ctx, ticketID, ""); err != nil {
		return err
	}
	if err := s.tickets.UpdateStatus(ctx, ticketID, status); err != nil {
		return err
	}

	s.refresh(ctx, caller)
	return nil
}

// TicketDetail returns one ticket the caller can see plus its messages in
// timestamp order.
func (s *PortalService) TicketDetail(ctx context.Context, caller *domain.Identity, ticketID string) (*domain.Ticket, []domain.Message, error) {
	ticket, err := s.tickets.FindByID(ctx, ticketID, scopeFor(caller))
	if err != nil {
		return nil, nil, err
	}
	messages, err := s.messages.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, nil, err
	}
	return ticket, messages, nil
}

// CreateQuote issues a new quote for a client. Admin-only; new quotes start
// pending.
func (s *PortalService) CreateQuote(ctx context.Context, caller *domain.Identity, in ports.CreateQuoteInput) (*domain.Quote, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if in.Value < 0 {
		return nil, domain.ErrInvalidInput
	}
	clientID, err := targetClient(caller, in.ClientID)
	if err != nil {
		return nil, err
	}

	quote := &domain.Quote{
		ID:          uuid.NewString(),
		ClientID:    clientID,
		Title:       in.Title,
		Details:     in.Details,
		Value:       in.Value,
		Status:      domain.QuotePending,
		CreatedAt:   time.Now().UTC(),
		Observation: in.Observation,
	}
	if err := s.quotes.Insert(ctx, quote); err != nil {
		return nil, err
	}

	s.refresh(ctx, caller)
	return quote, nil
}

// UpdateQuote submits the full editable record. The joined client name and
// the status are never part of the update.
func (s *PortalService) UpdateQuote(ctx context.Context, caller *domain.Identity, quoteID string, update ports.QuoteUpdate) error {
	if !caller.IsAdmin() {
		return domain.ErrForbidden
	}
	if update.Value < 0 {
		return domain.ErrInvalidInput
	}

	if _, err := s.quotes.FindByID(ctx, quoteID, ""); err != nil {
		return err
	}
	if err := s.quotes.Update(ctx, quoteID, update); err != nil {
		return err
	}

	s.refresh(ctx, caller)
	return nil
}

// SetQuoteStatus moves a quote to any known status. Admin-only.
func (s *PortalService) SetQuoteStatus(ctx context.Context, caller *domain.Identity, quoteID string, status domain.QuoteStatus) error {
	if !caller.IsAdmin() {
		return domain.ErrForbidden
	}
	if !domain.ValidQuoteStatus(status) {
		return domain.ErrInvalidStatus
	}

	if _, err := s.quotes.FindByID(ctx, quoteID, ""); err != nil {
		return err
	}
	if err := s.quotes.UpdateStatus(ctx, quoteID, status); err != nil {
		return err
	}

	s.refresh(ctx, caller)
	return nil
}

// QuoteDetail returns one quote the caller can see.
func (s *PortalService) QuoteDetail(ctx context.Context, caller *domain.Identity, quoteID string) (*domain.Quote, error) {
	return s.quotes.FindByID(ctx, quoteID, scopeFor(caller))
}

// CreateService records a new contracted service. Admin-only; new services
// start not_started.
func (s *PortalService) CreateService(ctx context.Context, caller *domain.Identity, in ports.CreateServiceInput) (*domain.Service, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	clientID, err := targetClient(caller, in.ClientID)
	if err != nil {
		return nil, err
	}

	start := in.StartDate
	if start.IsZero() {
		start = time.Now().UTC()
	}

	svc := &domain.Service{
		ID:          uuid.NewString(),
		ClientID:    clientID,
		Title:       in.Title,
		Description: in.Description,
		Status:      domain.ServiceNotStarted,
		StartDate:   start,
	}
	if err := s.services.Insert(ctx, svc); err != nil {
		return nil, err
	}

	s.refresh(ctx, caller)
	return svc, nil
}

// UpdateService submits the full editable record, minus the joined client
// name and minus status.
func (s *PortalService) UpdateService(ctx context.Context, caller *domain.Identity, serviceID string, update ports.ServiceUpdate) error {
	if !caller.IsAdmin() {
		return domain.ErrForbidden
	}

	if _, err := s.services.FindByID(ctx, serviceID, ""); err != nil {
		return err
	}
	if err := s.services.Update(ctx, serviceID, update); err != nil {
		return err
	}

	s.refresh(ctx, caller)
	return nil
}

// SetServiceStatus moves a service to any known status. Admin-only.
func (s *PortalService) SetServiceStatus(ctx context.Context, caller *domain.Identity, serviceID string, status domain.ServiceStatus) error {
	if !caller.IsAdmin() {
		return domain.ErrForbidden
	}
	if !domain.ValidServiceStatus(status) {
		return domain.ErrInvalidStatus
	}

	if _, err := s.services.FindByID(ctx, serviceID, ""); err != nil {
		return err
	}
	if err := s.services.UpdateStatus(ctx, serviceID, status); err != nil {
		return err
	}

	s.refresh(ctx, caller)
	return nil
}

// ServiceDetail returns one service the caller can see.
func (s *PortalService) ServiceDetail(ctx context.Context, caller *domain.Identity, serviceID string) (*domain.Service, error) {
	return s.services.FindByID(ctx, serviceID, scopeFor(caller))
}
