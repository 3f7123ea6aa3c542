package service

import (
	"context"
	"errors"
	"testing"

	"github.com/elevva/client-portal/internal/core/ports"
)

func TestIdentityResolver_NilSession(t *testing.T) {
	resolver := NewIdentityResolver(newStubProfileRepo(), discardLogger)

	if identity := resolver.Resolve(context.Background(), nil); identity != nil {
		t.Errorf("nil session must resolve to nil identity, got %+v", identity)
	}
}

func TestIdentityResolver_JoinsSessionAndProfile(t *testing.T) {
	profiles := newStubProfileRepo()
	profiles.seed("user_1", "Laura Reyes", "customer")
	resolver := NewIdentityResolver(profiles, discardLogger)

	identity := resolver.Resolve(context.Background(), &ports.Session{UserID: "user_1", Email: "laura@example.com"})
	if identity == nil {
		t.Fatal("expected identity, got nil")
	}
	if identity.ID != "user_1" {
		t.Errorf("ID: want %q, got %q", "user_1", identity.ID)
	}
	if identity.Email != "laura@example.com" {
		t.Errorf("Email: want %q, got %q", "laura@example.com", identity.Email)
	}
	if identity.Name != "Laura Reyes" {
		t.Errorf("Name: want %q, got %q", "Laura Reyes", identity.Name)
	}
	if identity.Role != "customer" {
		t.Errorf("Role: want %q, got %q", "customer", identity.Role)
	}
}

func TestIdentityResolver_ProfileMissing_NeverPartial(t *testing.T) {
	resolver := NewIdentityResolver(newStubProfileRepo(), discardLogger)

	// Valid session, no profile row: the caller must get nothing, not an
	// identity with id and email but blank role.
	identity := resolver.Resolve(context.Background(), &ports.Session{UserID: "ghost", Email: "ghost@example.com"})
	if identity != nil {
		t.Errorf("session without profile must resolve to nil, got %+v", identity)
	}
}

func TestIdentityResolver_ProfileReadError(t *testing.T) {
	profiles := newStubProfileRepo()
	profiles.seed("user_1", "Laura Reyes", "customer")
	profiles.findErr = errors.New("permission denied for table profiles")
	resolver := NewIdentityResolver(profiles, discardLogger)

	identity := resolver.Resolve(context.Background(), &ports.Session{UserID: "user_1", Email: "laura@example.com"})
	if identity != nil {
		t.Errorf("profile read failure must resolve to nil, got %+v", identity)
	}
}
