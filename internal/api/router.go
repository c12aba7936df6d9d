package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/veritrace/provenance/internal/api/handler"
	"github.com/veritrace/provenance/internal/api/middleware"
	"github.com/veritrace/provenance/internal/core/ports"
)

// RouterConfig carries everything the HTTP layer needs; services are built
// and wired by the caller (cmd/api).
type RouterConfig struct {
	JWTSecret string
	Logger    zerolog.Logger

	Ledger   ports.LedgerService
	Registry ports.RegistryService
	Auth     ports.AuthService

	MongoDB *mongo.Database
	Redis   *redis.Client
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("provenance_http"))

	// --- Handlers ---
	ledgerHandler := handler.NewLedgerHandler(cfg.Ledger)
	registryHandler := handler.NewRegistryHandler(cfg.Registry)
	authHandler := handler.NewAuthHandler(cfg.Auth)
	authMiddleware := middleware.Auth(cfg.JWTSecret)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Ledger routes ---
	v1 := e.Group("/v1")
	v1.POST("/products", ledgerHandler.Add, authMiddleware)
	v1.POST("/products/:product_id/verifications", ledgerHandler.Verify, authMiddleware)
	v1.GET("/products/:product_id", ledgerHandler.Get)
	v1.GET("/accounts/:account/eligibility", ledgerHandler.Eligibility)

	// --- Registry routes ---
	v1.POST("/registry/roles", registryHandler.GrantRole, authMiddleware)
	v1.DELETE("/registry/roles", registryHandler.RevokeRole, authMiddleware)
	v1.GET("/registry/roles/:account", registryHandler.Roles)
	v1.PUT("/registry/authority", registryHandler.SetAuthority, authMiddleware)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(cfg.MongoDB, cfg.Redis)

	e.GET("/health", healthHandler.Liveness)          // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
