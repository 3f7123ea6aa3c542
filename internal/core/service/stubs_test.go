package service

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/elevva/client-portal/internal/core/domain"
	"github.com/elevva/client-portal/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubProfileRepo struct {
	mu       sync.Mutex
	byID     map[string]*domain.Profile
	findErr  error // if set, FindByID returns this error
	insErr   error // if set, Insert returns this error
	listErr  error // if set, ListCustomers returns this error
	findHits int
}

func newStubProfileRepo() *stubProfileRepo {
	return &stubProfileRepo{byID: make(map[string]*domain.Profile)}
}

func (r *stubProfileRepo) seed(id, name, role string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[id] = &domain.Profile{ID: id, Name: name, Role: role}
}

func (r *stubProfileRepo) FindByID(_ context.Context, id string) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findHits++
	if r.findErr != nil {
		return nil, r.findErr
	}
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProfileRepo) Insert(_ context.Context, profile *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insErr != nil {
		return r.insErr
	}
	if _, ok := r.byID[profile.ID]; ok {
		return domain.ErrUserExists
	}
	clone := *profile
	r.byID[profile.ID] = &clone
	return nil
}

func (r *stubProfileRepo) ListCustomers(_ context.Context) ([]domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	customers := []domain.Profile{}
	for _, p := range r.byID {
		if p.Role == domain.RoleCustomer {
			customers = append(customers, *p)
		}
	}
	sort.Slice(customers, func(i, j int) bool { return customers[i].Name < customers[j].Name })
	return customers, nil
}

type stubTicketRepo struct {
	mu          sync.Mutex
	byID        map[string]*domain.Ticket
	insertErr   error
	listErr     error
	updateErr   error
	lastListArg string // clientID passed to the last List call
}

func newStubTicketRepo() *stubTicketRepo {
	return &stubTicketRepo{byID: make(map[string]*domain.Ticket)}
}

func (r *stubTicketRepo) Insert(_ context.Context, t *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	clone := *t
	r.byID[t.ID] = &clone
	return nil
}

func (r *stubTicketRepo) FindByID(_ context.Context, id, clientID string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrTicketNotFound
	}
	// Enforce client filter (mirrors the real Mongo query)
	if clientID != "" && t.ClientID != clientID {
		return nil, domain.ErrTicketNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *stubTicketRepo) List(_ context.Context, clientID string) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastListArg = clientID
	if r.listErr != nil {
		return nil, r.listErr
	}
	tickets := []domain.Ticket{}
	for _, t := range r.byID {
		if clientID != "" && t.ClientID != clientID {
			continue
		}
		tickets = append(tickets, *t)
	}
	sort.Slice(tickets, func(i, j int) bool { return tickets[i].CreatedAt.After(tickets[j].CreatedAt) })
	return tickets, nil
}

func (r *stubTicketRepo) UpdateStatus(_ context.Context, id string, status domain.TicketStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	t, ok := r.byID[id]
	if !ok {
		return domain.ErrTicketNotFound
	}
	t.Status = status
	return nil
}

type stubMessageRepo struct {
	mu        sync.Mutex
	byTicket  map[string][]domain.Message
	insertErr error
}

func newStubMessageRepo() *stubMessageRepo {
	return &stubMessageRepo{byTicket: make(map[string][]domain.Message)}
}

func (r *stubMessageRepo) Insert(_ context.Context, m *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	r.byTicket[m.TicketID] = append(r.byTicket[m.TicketID], *m)
	return nil
}

func (r *stubMessageRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	messages := append([]domain.Message{}, r.byTicket[ticketID]...)
	sort.Slice(messages, func(i, j int) bool { return messages[i].Timestamp.Before(messages[j].Timestamp) })
	return messages, nil
}

type stubQuoteRepo struct {
	mu      sync.Mutex
	byID    map[string]*domain.Quote
	listErr error
}

func newStubQuoteRepo() *stubQuoteRepo {
	return &stubQuoteRepo{byID: make(map[string]*domain.Quote)}
}

func (r *stubQuoteRepo) Insert(_ context.Context, q *domain.Quote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *q
	r.byID[q.ID] = &clone
	return nil
}

func (r *stubQuoteRepo) FindByID(_ context.Context, id, clientID string) (*domain.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrQuoteNotFound
	}
	if clientID != "" && q.ClientID != clientID {
		return nil, domain.ErrQuoteNotFound
	}
	clone := *q
	return &clone, nil
}

func (r *stubQuoteRepo) List(_ context.Context, clientID string) ([]domain.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	quotes := []domain.Quote{}
	for _, q := range r.byID {
		if clientID != "" && q.ClientID != clientID {
			continue
		}
		quotes = append(quotes, *q)
	}
	sort.Slice(quotes, func(i, j int) bool { return quotes[i].CreatedAt.After(quotes[j].CreatedAt) })
	return quotes, nil
}

func (r *stubQuoteRepo) Update(_ context.Context, id string, update ports.QuoteUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.byID[id]
	if !ok {
		return domain.ErrQuoteNotFound
	}
	q.Title = update.Title
	q.Details = update.Details
	q.Value = update.Value
	q.Observation = update.Observation
	return nil
}

func (r *stubQuoteRepo) UpdateStatus(_ context.Context, id string, status domain.QuoteStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.byID[id]
	if !ok {
		return domain.ErrQuoteNotFound
	}
	q.Status = status
	return nil
}

type stubServiceRepo struct {
	mu      sync.Mutex
	byID    map[string]*domain.Service
	listErr error
}

func newStubServiceRepo() *stubServiceRepo {
	return &stubServiceRepo{byID: make(map[string]*domain.Service)}
}

func (r *stubServiceRepo) Insert(_ context.Context, s *domain.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *s
	r.byID[s.ID] = &clone
	return nil
}

func (r *stubServiceRepo) FindByID(_ context.Context, id, clientID string) (*domain.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrServiceNotFound
	}
	if clientID != "" && s.ClientID != clientID {
		return nil, domain.ErrServiceNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *stubServiceRepo) List(_ context.Context, clientID string) ([]domain.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	services := []domain.Service{}
	for _, s := range r.byID {
		if clientID != "" && s.ClientID != clientID {
			continue
		}
		services = append(services, *s)
	}
	sort.Slice(services, func(i, j int) bool { return services[i].StartDate.After(services[j].StartDate) })
	return services, nil
}

func (r *stubServiceRepo) Update(_ context.Context, id string, update ports.ServiceUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return domain.ErrServiceNotFound
	}
	s.Title = update.Title
	s.Description = update.Description
	s.StartDate = update.StartDate
	if update.EndDate != nil {
		s.EndDate = update.EndDate
	}
	s.Observation = update.Observation
	return nil
}

func (r *stubServiceRepo) UpdateStatus(_ context.Context, id string, status domain.ServiceStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return domain.ErrServiceNotFound
	}
	s.Status = status
	return nil
}

// ---------------------------------------------------------------------------
// Stub auth backend
// ---------------------------------------------------------------------------

type stubAuthBackend struct {
	mu        sync.Mutex
	session   *ports.Session
	getErr    error
	signInErr error
	signUpErr error
	nextID    int
	events    chan ports.SessionEvent
	signOuts  int
}

func newStubAuthBackend(session *ports.Session) *stubAuthBackend {
	return &stubAuthBackend{
		session: session,
		events:  make(chan ports.SessionEvent, 8),
	}
}

func (b *stubAuthBackend) GetSession(_ context.Context) (*ports.Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.getErr != nil {
		return nil, b.getErr
	}
	return b.session, nil
}

func (b *stubAuthBackend) Subscribe() (<-chan ports.SessionEvent, func()) {
	return b.events, func() {}
}

func (b *stubAuthBackend) emit(ev ports.SessionEvent) {
	b.events <- ev
}

func (b *stubAuthBackend) SignInWithPassword(_ context.Context, _, _ string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.signInErr
}

func (b *stubAuthBackend) SignUp(_ context.Context, _, _, _ string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.signUpErr != nil {
		return "", b.signUpErr
	}
	b.nextID++
	return "user_" + strconv.Itoa(b.nextID), nil
}

func (b *stubAuthBackend) SignOut(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.signOuts++
	b.session = nil
	return nil
}

// ---------------------------------------------------------------------------
// Identity fixtures
// ---------------------------------------------------------------------------

func adminIdentity() *domain.Identity {
	return &domain.Identity{ID: "admin_1", Email: "admin@elevva.dev", Name: "Back Office", Role: domain.RoleAdmin}
}

func customerIdentity(id string) *domain.Identity {
	return &domain.Identity{ID: id, Email: id + "@example.com", Name: "Customer " + id, Role: domain.RoleCustomer}
}
