package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/elevva/client-portal/internal/core/domain"
	"github.com/elevva/client-portal/internal/core/ports"
)

// IdentityResolver turns an opaque backend session into a role-bound
// Identity by joining it with the profile record keyed by the session's
// user id.
type IdentityResolver struct {
	profiles ports.ProfileRepository
	logger   zerolog.Logger
}

func NewIdentityResolver(profiles ports.ProfileRepository, logger zerolog.Logger) *IdentityResolver {
	return &IdentityResolver{profiles: profiles, logger: logger}
}

// Resolve returns the Identity for the given session, or nil when the
// session is absent or its profile cannot be read. Profile failures are
// almost always row-level-security denials on the profiles table; they are
// logged for operators and deliberately not retried. The caller never sees
// a partially populated identity — it is all four fields or nothing.
func (r *IdentityResolver) Resolve(ctx context.Context, session *ports.Session) *domain.Identity {
	if session == nil {
		return nil
	}

	profile, err := r.profiles.FindByID(ctx, session.UserID)
	if err != nil {
		r.logger.Error().Err(err).
			Str("user_id", session.UserID).
			Msg("profile resolution failed; treating session as anonymous")
		return nil
	}

	return &domain.Identity{
		ID:    session.UserID,
		Email: session.Email,
		Name:  profile.Name,
		Role:  profile.Role,
	}
}
