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
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"mintpass/internal/custody"
	"mintpass/internal/events"
	"mintpass/internal/events/kafka"
	jwttoken "mintpass/internal/jwt_token"
	"mintpass/internal/ledger"
	"mintpass/internal/platform/config"
	"mintpass/internal/platform/httpserver"
	"mintpass/internal/platform/logger"
	"mintpass/internal/platform/metrics"
	platformredis "mintpass/internal/platform/redis"
	"mintpass/internal/registry/handler"
	"mintpass/internal/registry/models"
	"mintpass/internal/registry/service"
	"mintpass/internal/registry/store"
	storemem "mintpass/internal/registry/store/memory"
	storepg "mintpass/internal/registry/store/postgres"
	"mintpass/internal/registry/store/rediscache"
)

// main wires the registry service behind the HTTP router. Business logic
// lives in internal/registry; this stays a composition root.
func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.FromEnv()
	log := logger.New()
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.AdminWallet == "" {
		return errors.New("MINTPASS_ADMIN_WALLET is required")
	}
	if cfg.AdminToken == "" {
		return errors.New("MINTPASS_ADMIN_TOKEN is required")
	}

	st, cleanupStore, err := buildStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanupStore()

	st, cleanupCache, err := wrapCache(ctx, cfg, st, log)
	if err != nil {
		return err
	}
	defer cleanupCache()

	m := metrics.New()

	bus := events.NewBus(cfg.EventBusSize, log)
	publisher, cleanupPublisher, err := buildPublisher(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanupPublisher()

	svc, err := service.New(ctx, st, ledger.NewMemoryLedger(), custody.NewMemoryVault(),
		models.Address(cfg.AdminWallet),
		service.WithLogger(log),
		service.WithMetrics(m),
		service.WithPublisher(bus),
	)
	if err != nil {
		return err
	}

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, "mintpass", "mintpass")
	var issuer handler.TokenIssuer
	if cfg.DevAuth {
		log.Warn("dev token issuance enabled, do not run this in production")
		issuer = jwtService
	}

	h := handler.New(svc, log, m,
		jwttoken.NewJWTServiceAdapter(jwtService),
		cfg.AdminToken,
		models.Address(cfg.AdminWallet),
		issuer,
	)

	router := chi.NewRouter()
	h.Register(router)
	router.Handle("/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		worker := events.NewWorker(bus, publisher, log)
		if err := worker.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		log.Info("starting mintpass registry", "addr", cfg.Addr, "storage", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func buildStore(ctx context.Context, cfg config.Config, log *slog.Logger) (store.Store, func(), error) {
	switch cfg.StorageDriver {
	case "postgres":
		if cfg.PostgresURL == "" {
			return nil, nil, errors.New("MINTPASS_POSTGRES_URL is required for the postgres driver")
		}
		pool, err := storepg.NewPool(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		if err := storepg.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return storepg.New(pool), pool.Close, nil
	case "memory":
		log.Warn("using in-memory storage, registry state will not survive restarts")
		return storemem.New(), func() {}, nil
	default:
		return nil, nil, errors.New("unknown storage driver " + cfg.StorageDriver)
	}
}

func wrapCache(ctx context.Context, cfg config.Config, inner store.Store, log *slog.Logger) (store.Store, func(), error) {
	client, err := platformredis.New(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		return inner, func() {}, nil
	}
	log.Info("pass cache enabled", "ttl", cfg.CacheTTL.String())
	return rediscache.New(inner, client.Client, cfg.CacheTTL, log), func() { _ = client.Close() }, nil
}

func buildPublisher(ctx context.Context, cfg config.Config, log *slog.Logger) (events.Publisher, func(), error) {
	if len(cfg.KafkaBrokers) == 0 {
		log.Info("no kafka brokers configured, events are logged only")
		return logPublisher{log}, func() {}, nil
	}
	pub, err := kafka.New(ctx, cfg.KafkaBrokers, cfg.EventsTopic)
	if err != nil {
		return nil, nil, err
	}
	log.Info("event publishing enabled", "topic", cfg.EventsTopic)
	return pub, pub.Close, nil
}

// logPublisher is the fallback sink when no broker is configured.
type logPublisher struct {
	log *slog.Logger
}

func (p logPublisher) Emit(_ context.Context, e events.Event) error {
	p.log.Info("registry event",
		"event_id", e.ID,
		"type", string(e.Type),
		"token_id", e.TokenID,
		"wallet", e.Wallet,
	)
	return nil
}
