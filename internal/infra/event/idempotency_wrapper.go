package event

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/DioGolang/GoTraffic/internal/application/usecase/order"
	"github.com/DioGolang/GoTraffic/pkg/logger"
	"github.com/DioGolang/GoTraffic/pkg/metrics"
)

type IdempotencyStore interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
	Del(ctx context.Context, key string) error
}

// IdempotencyGuard drops an order whose exact body was already ingested within ttl.
// A retried submission therefore reaches downstream only once.
type IdempotencyGuard struct {
	Next    order.IngestUseCase
	Store   IdempotencyStore
	Metrics metrics.Metrics
	Logger  logger.Logger
	TTL     time.Duration
}

func (g *IdempotencyGuard) Execute(ctx context.Context, input order.IngestInput) (order.IngestOutput, error) {
	hash := sha256.Sum256(input.Body)
	key := fmt.Sprintf("dedup:ingest:%x", hash)

	saved, err := g.Store.SetNX(ctx, key, "processing", g.TTL)
	if err != nil {
		// fail open
		g.Logger.Error(ctx, "Redis unavailable for idempotency check",
			logger.WithError(err))
		return g.Next.Execute(ctx, input)
	}

	if !saved {
		g.Logger.Info(ctx, "Duplicate order dropped by Idempotency Guard",
			logger.String("request_id", input.RequestID),
			logger.String("key", key),
		)
		g.Metrics.RecordDuplicateDropped(input.Transport)
		return order.IngestOutput{Accepted: true, Duplicate: true, Message: "duplicate order ignored"}, nil
	}

	output, err := g.Next.Execute(ctx, input)
	if err != nil {
		g.Logger.Warn(ctx, "Ingest failed, releasing idempotency key",
			logger.String("key", key),
			logger.WithError(err),
		)
		if delErr := g.Store.Del(ctx, key); delErr != nil {
			g.Logger.Error(ctx, "Failed to release idempotency key",
				logger.String("key", key),
				logger.WithError(delErr),
			)
		}
	}
	return output, err
}
