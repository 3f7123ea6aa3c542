package auth

import (
	"context"
	"time"
)

// Credential is a stored login: the backend-side half of a user, holding
// only what credential verification needs. Role and display name live in
// the application's profile record.
type Credential struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
}

// CredentialRepository persists credentials keyed by unique email.
type CredentialRepository interface {
	Create(ctx context.Context, credential *Credential) error
	FindByEmail(ctx context.Context, email string) (*Credential, error)
}
