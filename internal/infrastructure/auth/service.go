package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/elevva/client-portal/internal/core/domain"
	"github.com/elevva/client-portal/internal/core/ports"
)

// TokenStore abstracts the revocable session store (Redis).
type TokenStore interface {
	Save(ctx context.Context, tokenID, userID, email string, ttl time.Duration) error
	Lookup(ctx context.Context, tokenID string) (userID, email string, err error)
	Revoke(ctx context.Context, tokenID string) error
}

// Service implements credential issuance and session tokens: bcrypt-hashed
// credentials in the row store, HS256 JWTs whose jti must also be present
// in the token store, and session-change events on every sign-in/out.
type Service struct {
	creds       CredentialRepository
	tokens      TokenStore
	broadcaster *Broadcaster
	jwtSecret   string
	tokenTTL    time.Duration
	logger      zerolog.Logger
}

func NewService(creds CredentialRepository, tokens TokenStore, broadcaster *Broadcaster, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *Service {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Service{
		creds:       creds,
		tokens:      tokens,
		broadcaster: broadcaster,
		jwtSecret:   jwtSecret,
		tokenTTL:    tokenTTL,
		logger:      logger,
	}
}

var _ ports.Authenticator = (*Service)(nil)

// Broadcaster exposes the session-change fan-out for subscribers.
func (s *Service) Broadcaster() *Broadcaster {
	return s.broadcaster
}

// SignUp creates a credential and returns the new user id. It does not
// sign the user in, and it knows nothing about profiles — a credential
// without a profile resolves to an anonymous session until the profile
// exists.
func (s *Service) SignUp(ctx context.Context, email, password, name string) (string, error) {
	if email == "" || password == "" {
		return "", domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	credential := &Credential{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.creds.Create(ctx, credential); err != nil {
		return "", err
	}

	s.logger.Info().Str("user_id", credential.ID).Msg("credential created")
	return credential.ID, nil
}

// SignIn verifies the credential and mints a session token. The signed-in
// event fires after the token is persisted, so a consumer reacting to the
// event always finds a live session.
func (s *Service) SignIn(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", domain.ErrInvalidCredentials
	}

	credential, err := s.creds.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(credential.PasswordHash), []byte(password)) != nil {
		return "", domain.ErrInvalidCredentials
	}

	tokenID := uuid.NewString()
	claims := jwt.MapClaims{
		"sub":   credential.ID,
		"email": credential.Email,
		"jti":   tokenID,
		"exp":   time.Now().Add(s.tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}

	if err := s.tokens.Save(ctx, tokenID, credential.ID, credential.Email, s.tokenTTL); err != nil {
		return "", err
	}

	s.broadcaster.Publish(ports.SessionEvent{
		Type:    ports.SessionSignedIn,
		Session: &ports.Session{UserID: credential.ID, Email: credential.Email},
	})
	return token, nil
}

// Verify parses the JWT and confirms the session is still live in the
// token store, returning the opaque session it represents.
func (s *Service) Verify(ctx context.Context, token string) (*ports.Session, error) {
	tokenID, err := s.parseTokenID(token)
	if err != nil {
		return nil, err
	}

	userID, email, err := s.tokens.Lookup(ctx, tokenID)
	if err != nil {
		return nil, err
	}
	return &ports.Session{UserID: userID, Email: email}, nil
}

// SignOut revokes the session token and announces the sign-out. Revoking
// an already-dead token is not an error.
func (s *Service) SignOut(ctx context.Context, token string) error {
	tokenID, err := s.parseTokenID(token)
	if err != nil {
		return err
	}
	if err := s.tokens.Revoke(ctx, tokenID); err != nil {
		return err
	}

	s.broadcaster.Publish(ports.SessionEvent{Type: ports.SessionSignedOut})
	return nil
}

func (s *Service) parseTokenID(token string) (string, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !parsed.Valid {
		return "", domain.ErrSessionNotFound
	}

	tokenID, _ := claims["jti"].(string)
	if tokenID == "" {
		return "", domain.ErrSessionNotFound
	}
	return tokenID, nil
}
