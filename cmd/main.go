package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/angeloszaimis/odata-adapter/config"
	"github.com/angeloszaimis/odata-adapter/internal/circuitbreaker"
	"github.com/angeloszaimis/odata-adapter/internal/dispatch"
	"github.com/angeloszaimis/odata-adapter/internal/handler"
	"github.com/angeloszaimis/odata-adapter/internal/healthcheck"
	"github.com/angeloszaimis/odata-adapter/internal/httpserver"
	"github.com/angeloszaimis/odata-adapter/internal/metrics"
	"github.com/angeloszaimis/odata-adapter/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:       cfg.Logging.Level,
		AddSource:   true,
		Environment: cfg.Server.Environment,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("OData adapter stopped with error", slog.Any("err", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	collector := metrics.NewCollector(cfg.Metrics.BufferSize, log)

	registry, breakers, err := createRegistry(cfg, log)
	if err != nil {
		return err
	}

	odataHandler, err := handler.New(log, registry, handler.Options{
		Split:        cfg.OData.Split,
		ContextPath:  cfg.OData.ContextPath,
		ServletPath:  cfg.OData.ServletPath,
		MaxBodyBytes: cfg.OData.MaxBodyBytes,
	}, handler.WithMetrics(collector))
	if err != nil {
		return err
	}

	router := setupRouter(cfg, odataHandler, collector)

	srv, err := httpserver.New(cfg.Server.Address, router,
		httpserver.WithWriteTimeout(cfg.Server.ResponseWriteTimeout()))
	if err != nil {
		return err
	}

	log.Info("Starting OData adapter",
		slog.String("address", srv.Addr()),
		slog.String("servlet_path", cfg.OData.ContextPath+cfg.OData.ServletPath),
		slog.Int("split", cfg.OData.Split),
		slog.Any("services", registry.Services()))

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		collector.Run(ctx)
		return nil
	})

	g.Go(func() error {
		return srv.Run(ctx)
	})

	if interval := cfg.HealthCheck.ProbeInterval(); interval > 0 {
		for _, svc := range cfg.Services {
			target := healthcheck.Target{
				Service:  serviceName(svc),
				Upstream: svc.Upstream,
				Path:     cfg.HealthCheck.Path,
			}
			breaker := breakers.GetBreaker(target.Service)
			g.Go(func() error {
				healthcheck.HealthCheck(ctx, target, interval, breaker, log)
				return nil
			})
		}
	}

	err = g.Wait()
	log.Info("Shutting down", slog.Any("breakers", breakers.Stats()))
	return err
}

// createRegistry registers an upstream proxy per configured service, each
// guarded by its own circuit breaker.
func createRegistry(cfg *config.Config, log *slog.Logger) (*dispatch.Registry, *circuitbreaker.Registry, error) {
	resetTimeout, err := time.ParseDuration(cfg.CircuitBreaker.ResetTimeout)
	if err != nil {
		return nil, nil, err
	}

	breakers := circuitbreaker.NewRegistry(cfg.CircuitBreaker.Threshold, resetTimeout)
	registry := dispatch.NewRegistry(log)

	for _, svc := range cfg.Services {
		name := serviceName(svc)
		proxy, err := dispatch.NewProxy(name, svc.Upstream, svc.ServiceTimeout(), breakers.GetBreaker(name), log)
		if err != nil {
			return nil, nil, err
		}

		if err := registry.Register(svc.Prefix, proxy); err != nil {
			return nil, nil, err
		}
	}

	if len(cfg.Services) == 0 {
		log.Warn("No services configured, every request will fail with no processor registered")
	}

	return registry, breakers, nil
}

// serviceName labels a service in logs and breaker stats.
func serviceName(svc config.ServiceConfig) string {
	if svc.Prefix == "" {
		return "default"
	}
	return svc.Prefix
}
