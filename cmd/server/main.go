// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal services packages.
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

	"peopledir/internal/directory/dataset"
	"peopledir/internal/directory/handler"
	dirservice "peopledir/internal/directory/service"
	"peopledir/internal/directory/store"
	"peopledir/internal/platform/config"
	"peopledir/internal/platform/httpserver"
	"peopledir/internal/platform/logger"
	"peopledir/internal/platform/metrics"
	rlservice "peopledir/internal/ratelimit/service"
	"peopledir/internal/ratelimit/store/bucket"
	"peopledir/internal/visibility"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err.Error())
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ds, err := dataset.Load(cfg.DatasetPath)
	if err != nil {
		return err
	}
	for orgID, cols := range ds.UnknownColumnsByOrganization() {
		log.Warn("visibility configuration lists unknown columns",
			"organization_id", orgID,
			"columns", cols,
		)
	}

	ctx := context.Background()

	employees := store.NewInMemoryEmployeeStore()
	for _, e := range ds.Employees {
		if err := employees.Add(ctx, e); err != nil {
			return err
		}
	}

	policy, err := visibility.NewPolicy(ds.ColumnConfig())
	if err != nil {
		return err
	}

	buckets := bucket.NewInMemoryBucketStore()
	stopCleanup := buckets.StartCleanup(cfg.RateLimitCleanupInterval)
	defer stopCleanup()

	limiter, err := rlservice.New(buckets, cfg.RateLimitRequests, cfg.RateLimitWindow,
		rlservice.WithLogger(log))
	if err != nil {
		return err
	}

	m := metrics.New()
	directory, err := dirservice.New(employees, policy, limiter,
		dirservice.WithLogger(log),
		dirservice.WithMetrics(m))
	if err != nil {
		return err
	}

	router := chi.NewRouter()
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", promhttp.Handler())
	handler.New(directory, log).Register(router)

	srv := httpserver.New(cfg.Addr, router)

	signalCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(signalCtx)
	g.Go(func() error {
		log.Info("starting peopledir",
			"addr", cfg.Addr,
			"employees", employees.Len(ctx),
			"organizations", policy.Organizations(),
			"rate_limit_requests", cfg.RateLimitRequests,
			"rate_limit_window", cfg.RateLimitWindow.String(),
		)
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
