package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/elevva/client-portal/internal/api/metrics"
	"github.com/elevva/client-portal/internal/core/ports"
	"github.com/elevva/client-portal/internal/core/service"
)

// Auth verifies the bearer token and injects the opaque backend session
// into the request context.
func Auth(verifier ports.Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			session, err := verifier.Verify(c.Request().Context(), token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set("session", session)
			c.Set("token", token)
			return next(c)
		}
	}
}

// Gate resolves the session into an Identity and applies the access gate
// to the protected destination. The decision is made fresh per request —
// nothing is cached across session changes.
func Gate(resolver *service.IdentityResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session, _ := c.Get("session").(*ports.Session)

			state := service.State{
				Identity: resolver.Resolve(c.Request().Context(), session),
				Loading:  false,
			}
			decision := service.Decide(state)
			metrics.GateDecisionsTotal.WithLabelValues(decision.String()).Inc()

			switch decision {
			case service.DecisionSuspend:
				c.Response().Header().Set("Retry-After", "1")
				return echo.NewHTTPError(http.StatusServiceUnavailable, "session still resolving")
			case service.DecisionDeny:
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			c.Set("identity", state.Identity)
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
