package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/elevva/client-portal/internal/core/domain"
	"github.com/elevva/client-portal/internal/core/ports"
)

// ViewState tracks where the cached snapshot is in its lifecycle:
// idle → loading → ready, or loading → errored with the previous ready
// snapshot retained.
type ViewState int

const (
	ViewIdle ViewState = iota
	ViewLoading
	ViewReady
	ViewErrored
)

func (v ViewState) String() string {
	switch v {
	case ViewIdle:
		return "idle"
	case ViewLoading:
		return "loading"
	case ViewReady:
		return "ready"
	case ViewErrored:
		return "errored"
	}
	return "unknown"
}

// Snapshot is one consistent view of the four role-scoped collections.
// Clients is populated only for admin identities; customers get an empty
// slice, not an error.
type Snapshot struct {
	Tickets   []domain.Ticket
	Quotes    []domain.Quote
	Services  []domain.Service
	Clients   []domain.Profile
	FetchedAt time.Time
}

// Stats are the summary-view counters derived from a snapshot.
type Stats struct {
	OpenTickets     int `json:"open_tickets"`
	PendingQuotes   int `json:"pending_quotes"`
	ActiveServices  int `json:"active_services"`
	TotalClients    int `json:"total_clients"`
	TotalTickets    int `json:"total_tickets"`
	TotalQuotes     int `json:"total_quotes"`
	TotalServices   int `json:"total_services"`
}

// Stats computes the summary counters. A quote counts as pending while it
// is either pending or sent; a service counts as active while in progress.
func (s Snapshot) Stats() Stats {
	st := Stats{
		TotalClients:  len(s.Clients),
		TotalTickets:  len(s.Tickets),
		TotalQuotes:   len(s.Quotes),
		TotalServices: len(s.Services),
	}
	for _, t := range s.Tickets {
		if t.Status == domain.TicketOpen {
			st.OpenTickets++
		}
	}
	for _, q := range s.Quotes {
		if q.Status == domain.QuotePending || q.Status == domain.QuoteSent {
			st.PendingQuotes++
		}
	}
	for _, sv := range s.Services {
		if sv.Status == domain.ServiceInProgress {
			st.ActiveServices++
		}
	}
	return st
}

// DataCache holds the collections visible to one identity and rebuilds them
// in full on every refresh. The four queries run in parallel; either all
// four replace the snapshot together or, on any single failure, none do and
// the previous snapshot survives untouched.
//
// Overlapping refreshes are not coalesced or cancelled. Each refresh is
// independent and idempotent; whichever completes last owns the snapshot
// (last write wins on completion order, not call order).
type DataCache struct {
	tickets  ports.TicketRepository
	quotes   ports.QuoteRepository
	services ports.ServiceRepository
	profiles ports.ProfileRepository
	logger   zerolog.Logger

	mu       sync.RWMutex
	state    ViewState
	snap     Snapshot
	lastErr  error
	inflight int
}

func NewDataCache(
	tickets ports.TicketRepository,
	quotes ports.QuoteRepository,
	services ports.ServiceRepository,
	profiles ports.ProfileRepository,
	logger zerolog.Logger,
) *DataCache {
	return &DataCache{
		tickets:  tickets,
		quotes:   quotes,
		services: services,
		profiles: profiles,
		logger:   logger,
		state:    ViewIdle,
	}
}

// Refresh fetches all four collections scoped to the identity and swaps the
// snapshot atomically. Customer identities fetch only their own rows — the
// filter is pushed into the queries, never applied client-side to
// admin-visible data. On any failure the previous snapshot is retained and
// the error returned.
func (c *DataCache) Refresh(ctx context.Context, identity *domain.Identity) error {
	if identity == nil {
		return domain.ErrForbidden
	}

	clientID := ""
	if !identity.IsAdmin() {
		clientID = identity.ID
	}

	c.beginRefresh()

	var (
		tickets  []domain.Ticket
		quotes   []domain.Quote
		services []domain.Service
		clients  []domain.Profile
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tickets, err = c.tickets.List(gctx, clientID)
		return err
	})
	g.Go(func() error {
		var err error
		quotes, err = c.quotes.List(gctx, clientID)
		return err
	})
	g.Go(func() error {
		var err error
		services, err = c.services.List(gctx, clientID)
		return err
	})
	g.Go(func() error {
		if !identity.IsAdmin() {
			clients = []domain.Profile{}
			return nil
		}
		var err error
		clients, err = c.profiles.ListCustomers(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		c.logger.Error().Err(err).
			Str("user_id", identity.ID).
			Str("role", identity.Role).
			Msg("cache refresh failed; previous snapshot retained")
		c.endRefresh(nil, err)
		return err
	}

	c.endRefresh(&Snapshot{
		Tickets:   tickets,
		Quotes:    quotes,
		Services:  services,
		Clients:   clients,
		FetchedAt: time.Now().UTC(),
	}, nil)
	return nil
}

// Snapshot returns the current snapshot and view state. While errored, the
// snapshot is the last ready one.
func (c *DataCache) Snapshot() (Snapshot, ViewState) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap, c.state
}

// LastError returns the error recorded by the most recent failed refresh,
// nil after a successful one.
func (c *DataCache) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

func (c *DataCache) beginRefresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight++
	c.state = ViewLoading
}

func (c *DataCache) endRefresh(snap *Snapshot, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--

	if err != nil {
		c.lastErr = err
		if c.inflight == 0 {
			c.state = ViewErrored
		}
		return
	}

	// All four collections replace the previous snapshot together.
	c.snap = *snap
	c.lastErr = nil
	if c.inflight == 0 {
		c.state = ViewReady
	}
}

// CacheSet hands out one DataCache per identity so refetch-after-write hits
// the same snapshot across requests from the same user.
type CacheSet struct {
	tickets  ports.TicketRepository
	quotes   ports.QuoteRepository
	services ports.ServiceRepository
	profiles ports.ProfileRepository
	logger   zerolog.Logger

	mu     sync.Mutex
	byUser map[string]*DataCache
}

func NewCacheSet(
	tickets ports.TicketRepository,
	quotes ports.QuoteRepository,
	services ports.ServiceRepository,
	profiles ports.ProfileRepository,
	logger zerolog.Logger,
) *CacheSet {
	return &CacheSet{
		tickets:  tickets,
		quotes:   quotes,
		services: services,
		profiles: profiles,
		logger:   logger,
		byUser:   make(map[string]*DataCache),
	}
}

// For returns the cache owned by the given identity, creating it on first
// use.
func (cs *CacheSet) For(identity *domain.Identity) *DataCache {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if c, ok := cs.byUser[identity.ID]; ok {
		return c
	}
	c := NewDataCache(cs.tickets, cs.quotes, cs.services, cs.profiles, cs.logger)
	cs.byUser[identity.ID] = c
	return c
}

// Drop discards the cache owned by the given user id, if any. Called on
// logout so a later session starts from idle.
func (cs *CacheSet) Drop(userID string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	delete(cs.byUser, userID)
}
