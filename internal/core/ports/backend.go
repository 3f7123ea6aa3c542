package ports

import "context"

// Session is the opaque backend session: proof that some credential was
// verified, carrying only the backend user id and email. Everything
// role-related lives in the profile record and is joined by the resolver.
type Session struct {
	UserID string
	Email  string
}

// SessionEventType classifies a session-change notification.
type SessionEventType string

const (
	SessionInitial        SessionEventType = "initial_session"
	SessionSignedIn       SessionEventType = "signed_in"
	SessionSignedOut      SessionEventType = "signed_out"
	SessionTokenRefreshed SessionEventType = "token_refreshed"
)

// SessionEvent is a session-change notification. Session is nil for
// signed-out events. The backend may deliver duplicate or overlapping
// events; consumers must be idempotent.
type SessionEvent struct {
	Type    SessionEventType
	Session *Session
}

// AuthBackend is the authentication surface of the managed backend as seen
// by one logical application instance: it tracks that instance's current
// session and reports every change to it.
type AuthBackend interface {
	// GetSession returns the current (possibly restored) session, or nil
	// when the instance is anonymous.
	GetSession(ctx context.Context) (*Session, error)

	// Subscribe registers for session-change notifications. The returned
	// function cancels the subscription and closes the channel.
	Subscribe() (<-chan SessionEvent, func())

	// SignInWithPassword verifies credentials. On success the backend
	// eventually emits a signed-in SessionEvent; identity is never
	// available synchronously from this call.
	SignInWithPassword(ctx context.Context, email, password string) error

	// SignUp creates a backend credential and returns the new user id.
	// It does not sign the user in and does not create a profile.
	SignUp(ctx context.Context, email, password, name string) (string, error)

	// SignOut invalidates the current session.
	SignOut(ctx context.Context) error
}

// Authenticator is the server-side token surface consumed by the HTTP
// layer: mint on login, verify per request, revoke on logout.
type Authenticator interface {
	SignUp(ctx context.Context, email, password, name string) (string, error)
	SignIn(ctx context.Context, email, password string) (string, error)
	Verify(ctx context.Context, token string) (*Session, error)
	SignOut(ctx context.Context, token string) error
}
