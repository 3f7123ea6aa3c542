package auth

import (
	"context"
	"sync"

	"github.com/elevva/client-portal/internal/core/ports"
)

// Client adapts the server-side Service to the per-instance AuthBackend
// surface the session store consumes: it tracks the one token belonging to
// its application instance and relays session-change events.
//
// Events from other instances sharing the same Service also arrive here;
// consumers are required to be idempotent under such duplicate and
// unrelated firings, so no filtering is done.
type Client struct {
	service *Service

	mu    sync.Mutex
	token string
}

func NewClient(service *Service) *Client {
	return &Client{service: service}
}

var _ ports.AuthBackend = (*Client)(nil)

// GetSession returns the session behind the instance's current token, nil
// when anonymous or when the token is no longer live.
func (c *Client) GetSession(ctx context.Context) (*ports.Session, error) {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()

	if token == "" {
		return nil, nil
	}
	session, err := c.service.Verify(ctx, token)
	if err != nil {
		// A dead token means anonymous, not failure.
		return nil, nil
	}
	return session, nil
}

// Subscribe relays the backend's session-change notifications.
func (c *Client) Subscribe() (<-chan ports.SessionEvent, func()) {
	return c.service.Broadcaster().Subscribe()
}

// SignInWithPassword verifies credentials and adopts the minted token. The
// resulting identity arrives through the session-change event, never from
// this call.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) error {
	token, err := c.service.SignIn(ctx, email, password)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
	return nil
}

// SignUp creates a credential without signing in.
func (c *Client) SignUp(ctx context.Context, email, password, name string) (string, error) {
	return c.service.SignUp(ctx, email, password, name)
}

// SignOut revokes the current token and forgets it.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	token := c.token
	c.token = ""
	c.mu.Unlock()

	if token == "" {
		return nil
	}
	return c.service.SignOut(ctx, token)
}
