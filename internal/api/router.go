package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/elevva/client-portal/internal/api/handler"
	"github.com/elevva/client-portal/internal/api/middleware"
	"github.com/elevva/client-portal/internal/core/domain"
	"github.com/elevva/client-portal/internal/core/service"
	"github.com/elevva/client-portal/internal/infrastructure/auth"
	mongostore "github.com/elevva/client-portal/internal/infrastructure/db/mongo"
	redisstore "github.com/elevva/client-portal/internal/infrastructure/db/redis"
	"github.com/elevva/client-portal/pkg/logger"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, jwtSecret string, tokenTTL time.Duration) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("portal"))

	log := logger.Get()
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Repositories ---
	profileRepo := mongostore.NewProfileRepository(db)
	ticketRepo := mongostore.NewTicketRepository(db)
	messageRepo := mongostore.NewMessageRepository(db)
	quoteRepo := mongostore.NewQuoteRepository(db)
	serviceRepo := mongostore.NewServiceRepository(db)
	credentialRepo := mongostore.NewCredentialRepository(db)
	tokenStore := redisstore.NewTokenStore(rdb)

	// --- Services ---
	broadcaster := auth.NewBroadcaster(log)
	authService := auth.NewService(credentialRepo, tokenStore, broadcaster, jwtSecret, tokenTTL, log)
	resolver := service.NewIdentityResolver(profileRepo, log)
	caches := service.NewCacheSet(ticketRepo, quoteRepo, serviceRepo, profileRepo, log)
	portalService := service.NewPortalService(ticketRepo, messageRepo, quoteRepo, serviceRepo, caches, log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService, profileRepo, caches, log)
	portalHandler := handler.NewPortalHandler(caches)
	ticketHandler := handler.NewTicketHandler(portalService, caches)
	quoteHandler := handler.NewQuoteHandler(portalService, caches)
	serviceHandler := handler.NewServiceHandler(portalService, caches)

	authMW := middleware.Auth(authService)
	gateMW := middleware.Gate(resolver)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout, authMW)

	// --- Protected portal routes: token first, then the access gate ---
	v1 := e.Group("/v1", authMW, gateMW)

	v1.GET("/portal", portalHandler.Summary)
	v1.GET("/clients", portalHandler.Clients, adminOnly)

	v1.GET("/tickets", ticketHandler.List)
	v1.POST("/tickets", ticketHandler.Create)
	v1.GET("/tickets/:id", ticketHandler.Get)
	v1.POST("/tickets/:id/messages", ticketHandler.PostMessage)
	v1.PUT("/tickets/:id/status", ticketHandler.SetStatus, adminOnly)

	v1.GET("/quotes", quoteHandler.List)
	v1.POST("/quotes", quoteHandler.Create, adminOnly)
	v1.GET("/quotes/:id", quoteHandler.Get)
	v1.PUT("/quotes/:id", quoteHandler.Update, adminOnly)
	v1.PUT("/quotes/:id/status", quoteHandler.SetStatus, adminOnly)

	v1.GET("/services", serviceHandler.List)
	v1.POST("/services", serviceHandler.Create, adminOnly)
	v1.GET("/services/:id", serviceHandler.Get)
	v1.PUT("/services/:id", serviceHandler.Update, adminOnly)
	v1.PUT("/services/:id/status", serviceHandler.SetStatus, adminOnly)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
