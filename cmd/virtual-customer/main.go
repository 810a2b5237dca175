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

	"github.com/DioGolang/GoTraffic/configs"
	"github.com/DioGolang/GoTraffic/internal/application/usecase/generator"
	"github.com/DioGolang/GoTraffic/internal/infra/sender"
	"github.com/DioGolang/GoTraffic/internal/infra/web/handler"
	"github.com/DioGolang/GoTraffic/pkg/logger"
	"github.com/DioGolang/GoTraffic/pkg/metrics"
	"github.com/DioGolang/GoTraffic/pkg/otel"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
	"k8s.io/utils/clock"
	"pgregory.net/rand"
)

const serviceName = "virtual-customer"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := configs.LoadConfig(".")
	if err != nil {
		return err
	}
	if err := cfg.ValidateGenerator(); err != nil {
		return err
	}

	log := logger.NewLogger(serviceName, cfg.IsProduction())
	defer func() { _ = log.Sync() }()

	if cfg.OTelCollectorAddr != "" {
		shutdown, err := otel.InitProvider(ctx, serviceName, cfg.AppEnv, cfg.OTelCollectorAddr)
		if err != nil {
			return err
		}
		defer shutdown()
	} else {
		otel.InstallPropagator()
	}

	senderCfg, _ := cfg.SenderConfig()
	factoryCfg, _ := cfg.FactoryConfig()
	policy, _ := metrics.ParseCountPolicy(cfg.CountPolicy)

	reg := prometheus.NewRegistry()
	metrics.RegisterRuntimeCollectors(reg)
	recorder := metrics.NewOrderRecorder(reg, policy)

	orderSender, err := sender.New(senderCfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = orderSender.Close() }()

	factory, err := generator.NewOrderFactory(factoryCfg)
	if err != nil {
		return err
	}

	health, err := handler.NewHealthHandler(serviceName)
	if err != nil {
		return err
	}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Handle("/metrics", metrics.Handler(reg))
	r.Handle("/health", health)
	srv := &http.Server{
		Addr:              ":" + cfg.MetricsPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	seed := cfg.RandSeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	log.Info(ctx, "virtual customer starting",
		logger.Int("orders_per_hour", cfg.OrdersPerHour),
		logger.String("transport", string(senderCfg.Kind)),
		logger.Int("instances", cfg.GeneratorInstances),
		logger.String("metrics_addr", srv.Addr),
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	loops, loopCtx := errgroup.WithContext(gctx)
	for i := 0; i < cfg.GeneratorInstances; i++ {
		sched, err := generator.NewScheduler(cfg.OrdersPerHour, clock.RealClock{})
		if err != nil {
			return err
		}
		loop := generator.NewLoop(sched, factory, orderSender, recorder,
			log.With(logger.Int("instance", i)),
			rand.New(seed+uint64(i)),
			generator.WithLimit(int64(cfg.OrderLimit)),
		)
		loops.Go(func() error { return loop.Run(loopCtx) })
	}

	// Generators finishing on their own (order limit) ends the process too.
	g.Go(func() error {
		err := loops.Wait()
		stop()
		return err
	})

	if err := g.Wait(); err != nil {
		log.Error(ctx, "virtual customer stopped with error", logger.WithError(err))
		return err
	}
	log.Info(ctx, "virtual customer stopped")
	return nil
}
