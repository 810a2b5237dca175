package generator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DioGolang/GoTraffic/internal/application/port/outbound"
	"github.com/DioGolang/GoTraffic/internal/domain/entity"
	"github.com/DioGolang/GoTraffic/pkg/logger"
	"github.com/DioGolang/GoTraffic/pkg/metrics"
)

// Loop is one virtual customer: tick, build, send, record, log, forever.
type Loop struct {
	scheduler *Scheduler
	factory   *OrderFactory
	sender    outbound.OrderSender
	recorder  metrics.Recorder
	logger    logger.Logger
	rng       Source
	limit     int64
}

type LoopOption func(*Loop)

// WithLimit stops the loop after n orders. Zero means unbounded.
func WithLimit(n int64) LoopOption {
	return func(l *Loop) { l.limit = n }
}

func NewLoop(
	scheduler *Scheduler,
	factory *OrderFactory,
	sender outbound.OrderSender,
	recorder metrics.Recorder,
	log logger.Logger,
	rng Source,
	opts ...LoopOption,
) *Loop {
	l := &Loop{
		scheduler: scheduler,
		factory:   factory,
		sender:    sender,
		recorder:  recorder,
		logger:    log,
		rng:       rng,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run returns nil when ctx is cancelled or the order limit is reached. Transport
// failures never stop it; only a build or serialization defect does.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Info(ctx, "generator started",
		logger.Duration("interval", l.scheduler.Interval()),
		logger.Int64("limit", l.limit),
	)

	for seq := int64(1); l.limit == 0 || seq <= l.limit; seq++ {
		if err := l.scheduler.Tick(ctx); err != nil {
			if errors.Is(err, ErrCancelled) {
				l.logger.Info(ctx, "generator stopped", logger.Int64("sent", seq-1))
				return nil
			}
			return err
		}

		order, err := l.factory.Build(l.rng)
		if err != nil {
			return fmt.Errorf("build order %d: %w", seq, err)
		}

		clk := l.scheduler.clock
		started := clk.Now()
		outcome, err := l.sender.Send(ctx, order)
		latency := clk.Since(started)
		if err != nil {
			return fmt.Errorf("send order %d: %w", seq, err)
		}
		if ctx.Err() != nil {
			// shutdown interrupted the call; it is not a delivery attempt
			l.logger.Info(ctx, "generator stopped", logger.Int64("sent", seq-1))
			return nil
		}

		l.recorder.RecordAttempt(outcome.Label(), outcome.Success(), latency, order.ItemCount())
		l.logOutcome(ctx, seq, clk.Since(l.scheduler.Start()), latency, order, outcome)
	}

	l.logger.Info(ctx, "order limit reached", logger.Int64("limit", l.limit))
	return nil
}

func (l *Loop) logOutcome(ctx context.Context, seq int64, elapsed, latency time.Duration, order *entity.Order, outcome outbound.Outcome) {
	fields := []logger.Field{
		logger.Int64("seq", seq),
		logger.Duration("elapsed", elapsed),
		logger.Duration("latency", latency),
		logger.String("outcome", outcome.Label()),
		logger.String("customer_id", order.CustomerID()),
		logger.Int("items", order.ItemCount()),
		logger.Float64("total", RoundPrice(order.Total(), l.factory.cfg.Rounding)),
	}
	if outcome.Success() {
		l.logger.Info(ctx, "order sent", append(fields,
			logger.String("status", outcome.Status),
			logger.String("response", outcome.Body),
		)...)
		return
	}
	l.logger.Warn(ctx, "order failed", append(fields,
		logger.String("kind", string(outcome.Err.Kind)),
		logger.String("detail", outcome.Err.Detail),
	)...)
}
