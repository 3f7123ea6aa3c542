package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/elevva/client-portal/internal/core/domain"
	"github.com/elevva/client-portal/internal/core/ports"
)

// State is the session store's externally visible state. Loading is true
// while the initial session restore is still resolving; Identity is nil for
// anonymous sessions.
type State struct {
	Identity *domain.Identity
	Loading  bool
}

// IsAuthenticated reports whether an identity is present.
func (s State) IsAuthenticated() bool { return s.Identity != nil }

// SessionStore owns the current identity for one application instance.
//
// It starts in {identity: nil, loading: true}, restores any existing
// backend session on Start, and from then on treats the backend's
// session-change events as the single source of truth: every event fully
// re-resolves and replaces the identity wholesale. Events may arrive
// duplicated or interleaved with in-flight login/register calls; the
// handler is idempotent so repeated deliveries converge on the same state.
type SessionStore struct {
	auth     ports.AuthBackend
	profiles ports.ProfileRepository
	resolver *IdentityResolver
	logger   zerolog.Logger

	mu       sync.RWMutex
	identity *domain.Identity
	loading  bool

	subMu   sync.Mutex
	subs    map[int]chan State
	nextSub int

	unsubscribe func()
	done        chan struct{}
}

func NewSessionStore(auth ports.AuthBackend, profiles ports.ProfileRepository, resolver *IdentityResolver, logger zerolog.Logger) *SessionStore {
	return &SessionStore{
		auth:     auth,
		profiles: profiles,
		resolver: resolver,
		logger:   logger,
		loading:  true,
		subs:     make(map[int]chan State),
		done:     make(chan struct{}),
	}
}

// Start restores any existing session, clears the loading flag, and begins
// consuming session-change events until Close is called or ctx is
// cancelled. It must be called exactly once.
func (s *SessionStore) Start(ctx context.Context) {
	session, err := s.auth.GetSession(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("initial session restore failed")
		session = nil
	}
	s.apply(s.resolver.Resolve(ctx, session), false)

	events, cancel := s.auth.Subscribe()
	s.unsubscribe = cancel

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.done:
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				s.handleSessionChange(ctx, ev)
			}
		}
	}()
}

// handleSessionChange re-derives the identity from scratch for every event.
// No patching: the previous identity is discarded even when the event is a
// duplicate of the current state.
func (s *SessionStore) handleSessionChange(ctx context.Context, ev ports.SessionEvent) {
	s.logger.Debug().Str("event", string(ev.Type)).Msg("session change")
	s.apply(s.resolver.Resolve(ctx, ev.Session), false)
}

// Login delegates credential verification to the backend. On success the
// identity is NOT set here; the subsequent session-change event populates
// it. Callers must not assume the identity is available when Login returns.
func (s *SessionStore) Login(ctx context.Context, email, password string) error {
	return s.auth.SignInWithPassword(ctx, email, password)
}

// Register creates a backend credential and then the profile record that
// makes the new user resolvable. When the credential succeeds but the
// profile insert fails, the credential is left orphaned: the user can
// authenticate but will resolve to anonymous until the profile exists.
// That inconsistency is surfaced and logged, never auto-remediated.
func (s *SessionStore) Register(ctx context.Context, name, email, password string) error {
	userID, err := s.auth.SignUp(ctx, email, password, name)
	if err != nil {
		return err
	}

	profile := &domain.Profile{ID: userID, Name: name, Role: domain.RoleCustomer}
	if err := s.profiles.Insert(ctx, profile); err != nil {
		s.logger.Warn().Err(err).
			Str("user_id", userID).
			Msg("profile insert failed after signup; credential is orphaned")
		return err
	}
	return nil
}

// Logout invalidates the backend session and clears the identity
// synchronously, without waiting for the signed-out event.
func (s *SessionStore) Logout(ctx context.Context) error {
	err := s.auth.SignOut(ctx)
	s.apply(nil, false)
	return err
}

// State returns a snapshot of the current session state.
func (s *SessionStore) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{Identity: s.identity, Loading: s.loading}
}

// Identity returns the current identity, nil when anonymous or loading.
func (s *SessionStore) Identity() *domain.Identity {
	return s.State().Identity
}

// IsAuthenticated reports whether an identity is currently present.
func (s *SessionStore) IsAuthenticated() bool {
	return s.State().IsAuthenticated()
}

// Loading reports whether the initial session restore is still in flight.
func (s *SessionStore) Loading() bool {
	return s.State().Loading
}

// Subscribe registers for state updates. Every wholesale identity
// replacement is delivered; slow consumers miss intermediate states rather
// than block the store. The returned function cancels the subscription.
func (s *SessionStore) Subscribe() (<-chan State, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan State, 8)
	s.subs[id] = ch

	return ch, func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
}

// Close releases the backend subscription and all subscriber channels.
func (s *SessionStore) Close() {
	select {
	case <-s.done:
		return
	default:
	}
	close(s.done)
	if s.unsubscribe != nil {
		s.unsubscribe()
	}

	s.subMu.Lock()
	defer s.subMu.Unlock()
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}

func (s *SessionStore) apply(identity *domain.Identity, loading bool) {
	s.mu.Lock()
	s.identity = identity
	s.loading = loading
	state := State{Identity: s.identity, Loading: s.loading}
	s.mu.Unlock()

	s.notify(state)
}

func (s *SessionStore) notify(state State) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- state:
		default:
		}
	}
}
