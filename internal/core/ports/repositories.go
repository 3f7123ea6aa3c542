package ports

import (
	"context"
	"time"

	"github.com/elevva/client-portal/internal/core/domain"
)

// ProfileRepository persists the application-owned profile records keyed by
// backend user id.
type ProfileRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Profile, error)
	Insert(ctx context.Context, profile *domain.Profile) error
	// ListCustomers returns every profile with the customer role, the
	// admin-only clients collection.
	ListCustomers(ctx context.Context) ([]domain.Profile, error)
}

// TicketRepository persists support tickets. List and FindByID apply the
// client_id filter when clientID is non-empty; scoping happens in the query,
// never by post-filtering admin-visible rows.
type TicketRepository interface {
	Insert(ctx context.Context, ticket *domain.Ticket) error
	FindByID(ctx context.Context, id, clientID string) (*domain.Ticket, error)
	// List returns tickets ordered by created_at descending.
	List(ctx context.Context, clientID string) ([]domain.Ticket, error)
	UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) error
}

// MessageRepository persists ticket messages. Messages are append-only.
type MessageRepository interface {
	Insert(ctx context.Context, message *domain.Message) error
	// ListByTicket returns messages ordered by timestamp ascending.
	ListByTicket(ctx context.Context, ticketID string) ([]domain.Message, error)
}

// QuoteUpdate carries the editable fields of a quote: the full record minus
// the joined client name and minus status, which changes only through
// UpdateStatus.
type QuoteUpdate struct {
	Title       string
	Details     string
	Value       float64
	Observation string
}

// QuoteRepository persists quotes.
type QuoteRepository interface {
	Insert(ctx context.Context, quote *domain.Quote) error
	FindByID(ctx context.Context, id, clientID string) (*domain.Quote, error)
	// List returns quotes ordered by created_at descending.
	List(ctx context.Context, clientID string) ([]domain.Quote, error)
	Update(ctx context.Context, id string, update QuoteUpdate) error
	UpdateStatus(ctx context.Context, id string, status domain.QuoteStatus) error
}

// ServiceUpdate carries the editable fields of a service record: the full
// record minus the joined client name and minus status.
type ServiceUpdate struct {
	Title       string
	Description string
	StartDate   time.Time
	EndDate     *time.Time
	Observation string
}

// ServiceRepository persists contracted service records.
type ServiceRepository interface {
	Insert(ctx context.Context, service *domain.Service) error
	FindByID(ctx context.Context, id, clientID string) (*domain.Service, error)
	// List returns services ordered by start_date descending.
	List(ctx context.Context, clientID string) ([]domain.Service, error)
	Update(ctx context.Context, id string, update ServiceUpdate) error
	UpdateStatus(ctx context.Context, id string, status domain.ServiceStatus) error
}
