package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"giveaway/internal/audit"
	"giveaway/internal/lottery"
	"giveaway/internal/platform/config"
	"giveaway/internal/platform/httpserver"
	"giveaway/internal/platform/logger"
	"giveaway/internal/platform/metrics"
	"giveaway/internal/platform/ratelimit"
	platformredis "giveaway/internal/platform/redis"
	"giveaway/internal/registration"
	"giveaway/internal/storage"
	"giveaway/internal/storage/postgres"
	httptransport "giveaway/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps
// the server lifecycle small. Business logic lives in internal services.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		regStore    storage.RegistrationStore
		winnerStore storage.WinnerStore
		auditStore  storage.AuditStore
	)
	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("postgres connect failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := postgres.InitSchema(ctx, db); err != nil {
			log.Error("schema init failed", "error", err)
			os.Exit(1)
		}
		regStore = postgres.NewRegistrationStore(db)
		winnerStore = postgres.NewWinnerStore(db)
		auditStore = postgres.NewAuditStore(db)
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		mem := storage.NewInMemoryRegistrationStore()
		regStore = mem
		winnerStore = storage.NewInMemoryWinnerStore(mem)
		auditStore = storage.NewInMemoryAuditStore()
	}

	recorder := audit.NewRecorder(auditStore)
	regService := registration.NewService(regStore, recorder)
	lotService := lottery.NewService(regStore, winnerStore, recorder)

	var limiter ratelimit.Store
	if cfg.RegisterRateRPS > 0 {
		rdb, err := platformredis.New(ctx, cfg.RedisURL)
		if err != nil {
			log.Error("redis connect failed", "error", err)
			os.Exit(1)
		}
		if rdb != nil {
			defer rdb.Close()
			limiter = ratelimit.NewRedisStore(rdb.Client, cfg.RegisterRateBurst, time.Second)
		} else {
			local := ratelimit.NewLocalStore(cfg.RegisterRateRPS, cfg.RegisterRateBurst)
			local.StartJanitor(ctx, 2*time.Minute)
			limiter = local
		}
	}

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Logger:       log,
		Metrics:      metrics.New(),
		Registration: regService,
		Winners:      lotService,
		Logs:         recorder,
		Limiter:      limiter,
	})
	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting giveaway server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
