package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/providerdir/providerdir/modules/dashboard"
	"github.com/providerdir/providerdir/pkg/billing"
	"github.com/providerdir/providerdir/pkg/config"
	"github.com/providerdir/providerdir/pkg/entitlement"
	"github.com/providerdir/providerdir/pkg/logger"
	"github.com/providerdir/providerdir/pkg/pg"
	"github.com/providerdir/providerdir/pkg/plan"
	"github.com/providerdir/providerdir/pkg/redis"
)

type appConfig struct {
	Addr        string        `env:"HTTP_ADDR" envDefault:":8080"`
	SiteURL     string        `env:"SITE_URL" envDefault:"http://localhost:8080"`
	CatalogPath string        `env:"PLAN_CATALOG_PATH"` // optional YAML override of the built-in catalog
	CounterTTL  time.Duration `env:"COUNTER_CACHE_TTL" envDefault:"30s"`
}

func main() {
	log := logger.New(logger.WithService("providerdir-server"))
	logger.SetAsDefault(log)

	if err := run(log); err != nil {
		log.Error("server exited with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		appCfg    appConfig
		pgCfg     pg.Config
		redisCfg  redis.Config
		paddleCfg billing.PaddleConfig
		priceCfg  billing.PriceConfig
	)
	// Missing required credentials are fatal before any partial operation.
	config.MustLoad(&appCfg)
	config.MustLoad(&pgCfg)
	config.MustLoad(&redisCfg)
	config.MustLoad(&paddleCfg)
	config.MustLoad(&priceCfg)

	catalog, err := loadCatalog(ctx, appCfg.CatalogPath)
	if err != nil {
		return err
	}

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, pgCfg, log); err != nil {
		return err
	}

	provider, err := billing.NewPaddleProvider(paddleCfg)
	if err != nil {
		return err
	}

	evaluator := entitlement.NewEvaluator(catalog)
	tenants := entitlement.NewPostgresTenantStore(pool)

	locationCounter := entitlement.PostgresCounter(pool, plan.ResourceLocations)
	jobCounter := entitlement.PostgresCounter(pool, plan.ResourceJobPostings)
	if redisCfg.Enabled() {
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return err
		}
		defer client.Close()
		locationCounter = entitlement.CachedCounter(client, plan.ResourceLocations, appCfg.CounterTTL, locationCounter)
		jobCounter = entitlement.CachedCounter(client, plan.ResourceJobPostings, appCfg.CounterTTL, jobCounter)
	}

	entitlements := entitlement.NewService(evaluator, tenants,
		entitlement.WithCounter(plan.ResourceLocations, locationCounter),
		entitlement.WithCounter(plan.ResourceJobPostings, jobCounter),
	)

	checkout := billing.NewCheckout(
		billing.NewPriceTable(priceCfg),
		provider,
		appCfg.SiteURL+"/dashboard/billing/success",
		appCfg.SiteURL+"/dashboard/billing/cancel",
		billing.WithLocationStore(billing.NewPostgresLocationStore(pool)),
	)
	summaries := billing.NewSummaryService(billing.NewPostgresAccountStore(pool), provider)

	handler := dashboard.NewHandler(checkout, summaries, entitlements, catalog, headerTenantResolver, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", healthz(pg.Healthcheck(pool)))
	r.Mount("/dashboard/billing", dashboard.Router(handler))

	srv := &http.Server{
		Addr:              appCfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.InfoContext(ctx, "http server listening", slog.String("addr", appCfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func loadCatalog(ctx context.Context, path string) (plan.Catalog, error) {
	if path == "" {
		return plan.Default(), nil
	}
	return plan.NewYAMLFileSource(path).Load(ctx)
}

// headerTenantResolver trusts the identity headers set by the authenticating
// edge proxy. Session validation happens upstream; a missing header means an
// unauthenticated request.
func headerTenantResolver(r *http.Request) (uuid.UUID, string, error) {
	id, err := uuid.Parse(r.Header.Get("X-Tenant-ID"))
	if err != nil {
		return uuid.Nil, "", err
	}
	return id, r.Header.Get("X-Tenant-Email"), nil
}

func healthz(check func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := check(r.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}
