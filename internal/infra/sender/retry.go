package sender

import (
	"context"
	"errors"
	"time"

	"github.com/DioGolang/GoTraffic/internal/application/port/outbound"
	"github.com/DioGolang/GoTraffic/internal/domain/entity"
	"github.com/DioGolang/GoTraffic/pkg/logger"
	"github.com/avast/retry-go"
)

const maxRetryWait = 5 * time.Second

// Retrying resubmits a failed order with exponential backoff. The outcome of
// the last attempt is what the caller sees, so one order is still one attempt
// in the metrics.
type Retrying struct {
	next       outbound.OrderSender
	log        logger.Logger
	maxRetries int
	baseWait   time.Duration
}

func WithRetry(next outbound.OrderSender, log logger.Logger, maxRetries int, baseWait time.Duration) *Retrying {
	if baseWait <= 0 {
		baseWait = 200 * time.Millisecond
	}
	return &Retrying{next: next, log: log, maxRetries: maxRetries, baseWait: baseWait}
}

func (r *Retrying) Send(ctx context.Context, order *entity.Order) (outbound.Outcome, error) {
	var (
		outcome outbound.Outcome
		fatal   error
	)

	_ = retry.Do(
		func() error {
			o, err := r.next.Send(ctx, order)
			if err != nil {
				fatal = err
				return err
			}
			outcome = o
			if o.Success() {
				return nil
			}
			return o.Err
		},
		retry.Attempts(uint(r.maxRetries)+1),
		retry.Delay(r.baseWait),
		retry.MaxDelay(maxRetryWait),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, outbound.ErrSerialization)
		}),
		retry.OnRetry(func(n uint, err error) {
			r.log.Warn(ctx, "Transient failure, retrying...",
				logger.Int("attempt", int(n)+1),
				logger.WithError(err),
			)
		}),
	)

	return outcome, fatal
}

func (r *Retrying) Close() error {
	return r.next.Close()
}
