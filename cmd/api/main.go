package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/storefront/catalog-api/internal/api"
	"github.com/storefront/catalog-api/internal/api/metrics"
	"github.com/storefront/catalog-api/internal/core/domain"
	"github.com/storefront/catalog-api/internal/core/ports"
	"github.com/storefront/catalog-api/internal/core/service"
	"github.com/storefront/catalog-api/internal/infrastructure/db/memory"
	"github.com/storefront/catalog-api/internal/infrastructure/db/mongo"
	"github.com/storefront/catalog-api/internal/infrastructure/db/redis"
	"github.com/storefront/catalog-api/internal/infrastructure/security"
	"github.com/storefront/catalog-api/internal/pkg/config"
	"github.com/storefront/catalog-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "catalog-api",
		Version: version,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("catalog-api stopped")
	}
}

type stores struct {
	users    ports.UserRepository
	products ports.ProductRepository
	checks   map[string]func(context.Context) error
	close    func(context.Context) error
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	if cfg.StorageDriver == config.StorageMemory {
		log.Warn().Msg("using in-memory storage; data is lost on restart")
		users := memory.NewUserRepository()
		return &stores{
			users:    users,
			products: memory.NewProductRepository(),
			checks:   map[string]func(context.Context) error{"storage": users.Ping},
			close:    func(context.Context) error { return nil },
		}, nil
	}

	store, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, err
	}
	// Username uniqueness depends on this index; refuse to serve without it.
	if err := store.EnsureIndexes(ctx); err != nil {
		_ = store.Close(ctx)
		return nil, fmt.Errorf("mongo indexes: %w", err)
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("mongodb connected")

	return &stores{
		users:    store.Users,
		products: store.Products,
		checks:   map[string]func(context.Context) error{"mongodb": store.Ping},
		close:    store.Close,
	}, nil
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := st.close(closeCtx); err != nil {
			log.Warn().Err(err).Msg("closing storage")
		}
	}()

	hasher, err := security.NewBcryptHasher(cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}
	tokens, err := security.NewJWTService(
		[]byte(cfg.Auth.JWTSecret),
		cfg.Auth.TokenTTL,
		security.WithIssuer(cfg.Auth.JWTIssuer),
	)
	if err != nil {
		return err
	}

	var authOpts []service.AuthOption
	if cfg.ThrottleEnabled() {
		rdb, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()

		authOpts = append(authOpts, service.WithLoginThrottle(
			redis.NewLoginThrottle(rdb, cfg.Auth.LoginMaxFailures, cfg.Auth.LoginFailureWindow),
		))
		st.checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		log.Info().Int("max_failures", cfg.Auth.LoginMaxFailures).Dur("window", cfg.Auth.LoginFailureWindow).Msg("login throttle enabled")
	}

	policy := domain.DefaultPolicy()
	authService := service.NewAuthService(st.users, hasher, tokens, policy, log, authOpts...)
	productService := service.NewProductService(st.products, log)

	if cfg.Bootstrap.AdminUsername != "" {
		if err := authService.BootstrapAdmin(ctx, cfg.Bootstrap.AdminUsername, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword); err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	e := api.NewRouter(api.Deps{
		Log:            log,
		AuthService:    authService,
		ProductService: productService,
		Verifier:       tokens,
		Policy:         policy,
		Metrics:        metrics.New(reg),
		Gatherer:       reg,
		ReadyChecks:    st.checks,
	})
	e.Server.ReadHeaderTimeout = 5 * time.Second

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("storage", cfg.StorageDriver).Msg("catalog-api listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
