package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DioGolang/GoTraffic/configs"
	"github.com/DioGolang/GoTraffic/internal/application/port/outbound"
	"github.com/DioGolang/GoTraffic/internal/application/usecase/catalog"
	"github.com/DioGolang/GoTraffic/internal/application/usecase/order"
	"github.com/DioGolang/GoTraffic/internal/infra/event"
	"github.com/DioGolang/GoTraffic/internal/infra/grpc/interceptor"
	"github.com/DioGolang/GoTraffic/internal/infra/grpc/pb"
	"github.com/DioGolang/GoTraffic/internal/infra/grpc/service"
	"github.com/DioGolang/GoTraffic/internal/infra/pool"
	"github.com/DioGolang/GoTraffic/internal/infra/storage"
	"github.com/DioGolang/GoTraffic/internal/infra/web"
	"github.com/DioGolang/GoTraffic/internal/infra/web/handler"
	webmw "github.com/DioGolang/GoTraffic/internal/infra/web/middleware"
	"github.com/DioGolang/GoTraffic/pkg/logger"
	"github.com/DioGolang/GoTraffic/pkg/metrics"
	"github.com/DioGolang/GoTraffic/pkg/otel"
	"github.com/prometheus/client_golang/prometheus"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
)

const serviceName = "order-service"

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
	if err := cfg.ValidateService(); err != nil {
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

	reg := prometheus.NewRegistry()
	metrics.RegisterRuntimeCollectors(reg)
	appMetrics := metrics.NewPrometheusMetrics(reg, serviceName)

	// Optional downstream: accepted orders are forwarded to a queue.
	var publisher outbound.OrderPublisher
	if cfg.AMQPURL != "" {
		conn, err := amqp.Dial(cfg.AMQPURL)
		if err != nil {
			return fmt.Errorf("amqp dial: %w", err)
		}
		defer conn.Close()
		ch, err := conn.Channel()
		if err != nil {
			return fmt.Errorf("amqp channel: %w", err)
		}
		defer ch.Close()
		if err := event.DeclareQueue(ch, cfg.OrderQueueName); err != nil {
			return fmt.Errorf("declare queue %s: %w", cfg.OrderQueueName, err)
		}
		publisher = event.NewOrderPublisher(ch, cfg.OrderQueueName)
		log.Info(ctx, "forwarding accepted orders", logger.String("queue", cfg.OrderQueueName))
	}

	var ingest order.IngestUseCase = order.NewIngestUseCase(publisher, log)

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err = storage.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			return err
		}
		defer rdb.Close()
		ingest = &event.IdempotencyGuard{
			Next:    ingest,
			Store:   storage.NewRedisAdapter(rdb),
			Metrics: appMetrics,
			Logger:  log,
			TTL:     cfg.IdempotencyTTL,
		}
	}
	ingest = &order.IngestMetricsDecorator{Next: ingest, Metrics: appMetrics}

	products := catalog.NewCatalog(cfg.CatalogSize)
	workers := pool.New(cfg.WorkerPoolSize)

	// gRPC
	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			interceptor.Metrics(appMetrics),
			interceptor.RequestID(),
			workers.UnaryServerInterceptor(),
		),
	)
	orderService := service.NewOrderService(ingest, products, log)
	pb.RegisterMensagemServiceServer(grpcServer, orderService)
	pb.RegisterProductServiceServer(grpcServer, orderService)

	// HTTP
	health, err := handler.NewHealthHandler(serviceName,
		handler.WithRedis(rdb),
		handler.WithRabbitMQ(cfg.AMQPURL),
	)
	if err != nil {
		return err
	}
	routerCfg := web.RouterConfig{
		ServiceName: serviceName,
		Logger:      log,
		Metrics:     appMetrics,
		Orders:      handler.NewOrderHandler(ingest),
		Products:    handler.NewProductHandler(products),
		Health:      health,
		MetricsView: metrics.Handler(reg),
		Pool:        workers,
	}
	if cfg.RateLimitRPS > 0 {
		limiter := webmw.NewRateLimiter(webmw.RateLimiterConfig{RequestsPerSecond: cfg.RateLimitRPS})
		defer limiter.Stop()
		routerCfg.RateLimiter = limiter
	}
	srv := &http.Server{
		Addr:              ":" + cfg.WebServerPort,
		Handler:           web.NewRouter(routerCfg),
		ReadHeaderTimeout: 5 * time.Second,
	}

	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		return fmt.Errorf("listen grpc: %w", err)
	}

	log.Info(ctx, "order service starting",
		logger.String("grpc_addr", lis.Addr().String()),
		logger.String("http_addr", srv.Addr),
		logger.Int("workers", workers.Size()),
		logger.Int("catalog_size", products.Size()),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := grpcServer.Serve(lis); err != nil {
			return fmt.Errorf("grpc server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info(context.Background(), "shutting down")
		grpcServer.GracefulStop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error(context.Background(), "order service stopped with error", logger.WithError(err))
		return err
	}
	return nil
}
