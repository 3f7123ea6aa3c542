package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/elevva/client-portal/internal/api/metrics"
	"github.com/elevva/client-portal/internal/core/domain"
	"github.com/elevva/client-portal/internal/core/ports"
	"github.com/elevva/client-portal/internal/core/service"
)

// AuthHandler exposes registration, login, and logout.
type AuthHandler struct {
	auth     ports.Authenticator
	profiles ports.ProfileRepository
	caches   *service.CacheSet
	logger   zerolog.Logger
}

func NewAuthHandler(auth ports.Authenticator, profiles ports.ProfileRepository, caches *service.CacheSet, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, profiles: profiles, caches: caches, logger: logger}
}

// Register creates a credential and then the profile that makes it
// resolvable. New accounts always get the customer role; admins are
// provisioned out of band.
//
// @Summary      Register a new customer account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  errorMessage
// @Failure      409   {object}  errorMessage
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	userID, err := h.auth.SignUp(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		return err
	}

	profile := &domain.Profile{ID: userID, Name: req.Name, Role: domain.RoleCustomer}
	if err := h.profiles.Insert(ctx, profile); err != nil {
		// The credential exists but the profile does not: the account can
		// authenticate yet resolves to anonymous. Left for reconciliation.
		h.logger.Warn().Err(err).
			Str("user_id", userID).
			Msg("profile insert failed after signup; credential is orphaned")
		return err
	}

	return c.JSON(http.StatusCreated, registerResponse{UserID: userID})
}

// Login verifies credentials and returns a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  errorMessage
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, err := h.auth.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, loginResponse{Token: token})
}

// Logout revokes the presented session token and discards the caller's
// cached snapshot so a later session starts from idle.
//
// @Summary      Logout
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401   {object}  errorMessage
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	token, _ := c.Get("token").(string)
	if token == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}

	if err := h.auth.SignOut(c.Request().Context(), token); err != nil {
		return err
	}
	if session, ok := c.Get("session").(*ports.Session); ok && session != nil {
		h.caches.Drop(session.UserID)
	}
	return c.NoContent(http.StatusNoContent)
}
