package sender

import (
	"context"
	"errors"
	"time"

	"github.com/DioGolang/GoTraffic/internal/application/port/outbound"
	"github.com/DioGolang/GoTraffic/internal/domain/entity"
	"github.com/DioGolang/GoTraffic/pkg/logger"
	"github.com/sony/gobreaker"
)

// Breaking stops hammering a service that keeps failing. While the breaker is
// open every order fails fast with kind unknown.
type Breaking struct {
	next outbound.OrderSender
	cb   *gobreaker.CircuitBreaker
}

func WithBreaker(next outbound.OrderSender, log logger.Logger, name string) *Breaking {
	return &Breaking{
		next: next,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn(context.Background(), "circuit breaker state changed",
					logger.String("breaker", name),
					logger.String("from", from.String()),
					logger.String("to", to.String()),
				)
			},
		}),
	}
}

func (b *Breaking) Send(ctx context.Context, order *entity.Order) (outbound.Outcome, error) {
	var (
		outcome outbound.Outcome
		fatal   error
	)
	_, err := b.cb.Execute(func() (interface{}, error) {
		o, err := b.next.Send(ctx, order)
		if err != nil {
			fatal = err
			return nil, err
		}
		outcome = o
		if !o.Success() {
			return nil, o.Err
		}
		return nil, nil
	})

	if fatal != nil {
		return outbound.Outcome{}, fatal
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return outbound.Failed(outbound.FailureUnknown, err.Error()), nil
	}
	return outcome, nil
}

func (b *Breaking) State() gobreaker.State {
	return b.cb.State()
}

func (b *Breaking) Close() error {
	return b.next.Close()
}
