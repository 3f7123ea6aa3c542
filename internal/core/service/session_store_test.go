package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/elevva/client-portal/internal/core/domain"
	"github.com/elevva/client-portal/internal/core/ports"
)

func newSessionStore(backend ports.AuthBackend, profiles *stubProfileRepo) *SessionStore {
	resolver := NewIdentityResolver(profiles, discardLogger)
	return NewSessionStore(backend, profiles, resolver, discardLogger)
}

// waitForState polls until cond holds or the deadline passes. Session events
// are applied on a background goroutine, so assertions after emit must wait.
func waitForState(t *testing.T, store *SessionStore, cond func(State) bool) State {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if state := store.State(); cond(state) {
			return state
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for state, last: %+v", store.State())
	return State{}
}

func TestSessionStore_StartsLoading(t *testing.T) {
	store := newSessionStore(newStubAuthBackend(nil), newStubProfileRepo())

	if !store.Loading() {
		t.Error("store must start with loading=true")
	}
	if store.IsAuthenticated() {
		t.Error("store must start unauthenticated")
	}
}

func TestSessionStore_Start_RestoresExistingSession(t *testing.T) {
	profiles := newStubProfileRepo()
	profiles.seed("user_1", "Laura Reyes", domain.RoleCustomer)
	backend := newStubAuthBackend(&ports.Session{UserID: "user_1", Email: "laura@example.com"})
	store := newSessionStore(backend, profiles)
	defer store.Close()

	store.Start(context.Background())

	state := store.State()
	if state.Loading {
		t.Error("loading must be false after Start returns")
	}
	if state.Identity == nil || state.Identity.ID != "user_1" {
		t.Fatalf("expected restored identity user_1, got %+v", state.Identity)
	}
	if state.Identity.Role != domain.RoleCustomer {
		t.Errorf("expected customer role, got %q", state.Identity.Role)
	}
}

func TestSessionStore_Start_NoSession_ResolvesAnonymous(t *testing.T) {
	store := newSessionStore(newStubAuthBackend(nil), newStubProfileRepo())
	defer store.Close()

	store.Start(context.Background())

	if store.Loading() {
		t.Error("loading must clear even with no session")
	}
	if store.IsAuthenticated() {
		t.Error("no session must resolve to anonymous")
	}
}

func TestSessionStore_Start_RestoreError_ResolvesAnonymous(t *testing.T) {
	backend := newStubAuthBackend(nil)
	backend.getErr = errors.New("backend unreachable")
	store := newSessionStore(backend, newStubProfileRepo())
	defer store.Close()

	store.Start(context.Background())

	if store.Loading() {
		t.Error("loading must clear after a failed restore")
	}
	if store.IsAuthenticated() {
		t.Error("failed restore must resolve to anonymous, not hang")
	}
}

func TestSessionStore_SignedInEvent_PopulatesIdentity(t *testing.T) {
	profiles := newStubProfileRepo()
	profiles.seed("user_1", "Laura Reyes", domain.RoleCustomer)
	backend := newStubAuthBackend(nil)
	store := newSessionStore(backend, profiles)
	defer store.Close()

	store.Start(context.Background())

	// Login itself does not set the identity; the event does.
	if err := store.Login(context.Background(), "laura@example.com", "secret"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if store.IsAuthenticated() {
		t.Error("identity must not be available synchronously after Login")
	}

	backend.emit(ports.SessionEvent{
		Type:    ports.SessionSignedIn,
		Session: &ports.Session{UserID: "user_1", Email: "laura@example.com"},
	})

	state := waitForState(t, store, func(s State) bool { return s.IsAuthenticated() })
	if state.Identity.Name != "Laura Reyes" {
		t.Errorf("expected joined profile name, got %q", state.Identity.Name)
	}
}

func TestSessionStore_DuplicateEvents_Idempotent(t *testing.T) {
	profiles := newStubProfileRepo()
	profiles.seed("user_1", "Laura Reyes", domain.RoleCustomer)
	backend := newStubAuthBackend(nil)
	store := newSessionStore(backend, profiles)
	defer store.Close()

	store.Start(context.Background())

	ev := ports.SessionEvent{
		Type:    ports.SessionSignedIn,
		Session: &ports.Session{UserID: "user_1", Email: "laura@example.com"},
	}
	backend.emit(ev)
	backend.emit(ev)
	backend.emit(ev)

	state := waitForState(t, store, func(s State) bool { return s.IsAuthenticated() })
	if state.Identity.ID != "user_1" {
		t.Errorf("duplicate events must converge on the same identity, got %+v", state.Identity)
	}
}

func TestSessionStore_SignedOutEvent_ClearsIdentity(t *testing.T) {
	profiles := newStubProfileRepo()
	profiles.seed("user_1", "Laura Reyes", domain.RoleCustomer)
	backend := newStubAuthBackend(&ports.Session{UserID: "user_1", Email: "laura@example.com"})
	store := newSessionStore(backend, profiles)
	defer store.Close()

	store.Start(context.Background())
	if !store.IsAuthenticated() {
		t.Fatal("precondition: restored identity expected")
	}

	backend.emit(ports.SessionEvent{Type: ports.SessionSignedOut, Session: nil})

	waitForState(t, store, func(s State) bool { return !s.IsAuthenticated() })
}

func TestSessionStore_Logout_ClearsSynchronously(t *testing.T) {
	profiles := newStubProfileRepo()
	profiles.seed("user_1", "Laura Reyes", domain.RoleCustomer)
	backend := newStubAuthBackend(&ports.Session{UserID: "user_1", Email: "laura@example.com"})
	store := newSessionStore(backend, profiles)
	defer store.Close()

	store.Start(context.Background())

	if err := store.Logout(context.Background()); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	// No event needed: the identity is gone the moment Logout returns.
	if store.IsAuthenticated() {
		t.Error("identity must be cleared synchronously on logout")
	}
	if backend.signOuts != 1 {
		t.Errorf("expected 1 backend sign-out, got %d", backend.signOuts)
	}
}

func TestSessionStore_Register_CreatesCredentialThenProfile(t *testing.T) {
	profiles := newStubProfileRepo()
	backend := newStubAuthBackend(nil)
	store := newSessionStore(backend, profiles)
	defer store.Close()

	store.Start(context.Background())

	if err := store.Register(context.Background(), "Laura Reyes", "laura@example.com", "secret"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	profile, err := profiles.FindByID(context.Background(), "user_1")
	if err != nil {
		t.Fatalf("profile must exist after register: %v", err)
	}
	if profile.Role != domain.RoleCustomer {
		t.Errorf("new accounts must get the customer role, got %q", profile.Role)
	}
	if profile.Name != "Laura Reyes" {
		t.Errorf("profile name: want %q, got %q", "Laura Reyes", profile.Name)
	}
	// Registering never signs the user in.
	if store.IsAuthenticated() {
		t.Error("register must not authenticate")
	}
}

func TestSessionStore_Register_ProfileFailure_LeavesOrphanedCredential(t *testing.T) {
	profiles := newStubProfileRepo()
	profiles.insErr = errors.New("insert denied")
	backend := newStubAuthBackend(nil)
	store := newSessionStore(backend, profiles)
	defer store.Close()

	store.Start(context.Background())

	err := store.Register(context.Background(), "Laura Reyes", "laura@example.com", "secret")
	if err == nil {
		t.Fatal("expected error when profile insert fails")
	}

	// The credential was created (SignUp succeeded) but no profile exists:
	// a later login resolves to anonymous rather than a partial identity.
	backend.emit(ports.SessionEvent{
		Type:    ports.SessionSignedIn,
		Session: &ports.Session{UserID: "user_1", Email: "laura@example.com"},
	})
	time.Sleep(50 * time.Millisecond)
	if store.IsAuthenticated() {
		t.Error("orphaned credential must resolve to anonymous")
	}
}

func TestSessionStore_Subscribe_DeliversReplacements(t *testing.T) {
	profiles := newStubProfileRepo()
	profiles.seed("user_1", "Laura Reyes", domain.RoleCustomer)
	backend := newStubAuthBackend(nil)
	store := newSessionStore(backend, profiles)
	defer store.Close()

	updates, cancel := store.Subscribe()
	defer cancel()

	store.Start(context.Background())

	// First update: restore finished, anonymous.
	select {
	case state := <-updates:
		if state.Loading || state.IsAuthenticated() {
			t.Errorf("first update must be settled anonymous, got %+v", state)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for restore update")
	}

	backend.emit(ports.SessionEvent{
		Type:    ports.SessionSignedIn,
		Session: &ports.Session{UserID: "user_1", Email: "laura@example.com"},
	})

	select {
	case state := <-updates:
		if !state.IsAuthenticated() {
			t.Errorf("second update must carry the identity, got %+v", state)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for sign-in update")
	}
}

func TestSessionStore_Close_Idempotent(t *testing.T) {
	store := newSessionStore(newStubAuthBackend(nil), newStubProfileRepo())
	store.Start(context.Background())
	store.Close()
	store.Close() // must not panic
}
