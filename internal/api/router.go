package api

import (
	"context"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/storefront/catalog-api/internal/api/handler"
	"github.com/storefront/catalog-api/internal/api/metrics"
	"github.com/storefront/catalog-api/internal/api/middleware"
	"github.com/storefront/catalog-api/internal/core/domain"
	"github.com/storefront/catalog-api/internal/core/ports"
)

const maxBodySize = "1M"

// Deps carries everything the router needs. Metrics and Gatherer may be nil.
type Deps struct {
	Log            zerolog.Logger
	AuthService    ports.AuthService
	ProductService ports.ProductService
	Verifier       ports.TokenVerifier
	Policy         *domain.Policy
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
	ReadyChecks    map[string]func(context.Context) error
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	policy := d.Policy
	if policy == nil {
		policy = domain.DefaultPolicy()
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	// Metrics sits outside the logger so the logger still sees handler errors.
	e.Use(middleware.Metrics(d.Metrics))
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomiddleware.BodyLimit(maxBodySize))

	// --- Dependencies ---
	guard := middleware.NewGuard(d.Verifier, policy, d.Metrics)
	authHandler := handler.NewAuthHandler(d.AuthService, d.Metrics)
	productHandler := handler.NewProductHandler(d.ProductService)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register, guard.Optional())
	e.POST("/auth/login", authHandler.Login)

	// --- Protected routes, one policy operation each ---
	v1 := e.Group("/v1")
	v1.GET("/users/me", authHandler.Me, guard.Require(domain.OpUserMe))
	v1.GET("/products", productHandler.List, guard.Require(domain.OpProductList))
	v1.GET("/products/:id", productHandler.Get, guard.Require(domain.OpProductGet))
	v1.POST("/products", productHandler.Create, guard.Require(domain.OpProductCreate))
	v1.PUT("/products/:id", productHandler.Update, guard.Require(domain.OpProductUpdate))
	v1.DELETE("/products/:id", productHandler.Delete, guard.Require(domain.OpProductDelete))

	// --- Health checks (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	for name, check := range d.ReadyChecks {
		healthHandler.WithCheck(name, check)
	}
	e.GET("/health", healthHandler.Liveness)        // liveness: is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness: are dependencies up?

	if d.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	return e
}
