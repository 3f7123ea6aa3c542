package ports

import (
	"context"
	"time"

	"github.com/elevva/client-portal/internal/core/domain"
)

// CreateTicketInput describes a new support ticket plus its opening message.
// ClientID is honored only for admin callers; customers always create
// tickets for themselves.
type CreateTicketInput struct {
	ClientID string
	Subject  string
	Content  string
}

// CreateQuoteInput describes a new quote. Admin-only.
type CreateQuoteInput struct {
	ClientID    string
	Title       string
	Details     string
	Value       float64
	Observation string
}

// CreateServiceInput describes a new contracted service. Admin-only.
type CreateServiceInput struct {
	ClientID    string
	Title       string
	Description string
	StartDate   time.Time
}

// PortalService exposes the portal's typed mutation operations and the
// per-record detail reads backing the detail views. Every mutation follows
// the same protocol: write through the backend, then refresh the caller's
// role-scoped cache in full. Nothing is updated optimistically.
type PortalService interface {
	CreateTicket(ctx context.Context, caller *domain.Identity, in CreateTicketInput) (*domain.Ticket, error)
	PostMessage(ctx context.Context, caller *domain.Identity, ticketID, content string) (*domain.Message, error)
	SetTicketStatus(ctx context.Context, caller *domain.Identity, ticketID string, status domain.TicketStatus) error
	TicketDetail(ctx context.Context, caller *domain.Identity, ticketID string) (*domain.Ticket, []domain.Message, error)

	CreateQuote(ctx context.Context, caller *domain.Identity, in CreateQuoteInput) (*domain.Quote, error)
	UpdateQuote(ctx context.Context, caller *domain.Identity, quoteID string, update QuoteUpdate) error
	SetQuoteStatus(ctx context.Context, caller *domain.Identity, quoteID string, status domain.QuoteStatus) error
	QuoteDetail(ctx context.Context, caller *domain.Identity, quoteID string) (*domain.Quote, error)

	CreateService(ctx context.Context, caller *domain.Identity, in CreateServiceInput) (*domain.Service, error)
	UpdateService(ctx context.Context, caller *domain.Identity, serviceID string, update ServiceUpdate) error
	SetServiceStatus(ctx context.Context, caller *domain.Identity, serviceID string, status domain.ServiceStatus) error
	ServiceDetail(ctx context.Context, caller *domain.Identity, serviceID string) (*domain.Service, error)
}
