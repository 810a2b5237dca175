package generator

import (
	"context"
	"errors"
	"fmt"
	"math/bits"
	"time"

	"k8s.io/utils/clock"
)

var (
	ErrInvalidOrdersPerHour = errors.New("orders per hour must be a positive integer")
	ErrCancelled            = errors.New("scheduler cancelled")
)

// Scheduler paces ticks to a fixed hourly rate. Deadlines are absolute,
// deadline(n) = start + n*(1h/ordersPerHour), so time spent between ticks
// never accumulates as drift.
type Scheduler struct {
	clock         clock.Clock
	ordersPerHour uint64
	start         time.Time
	next          uint64
}

func NewScheduler(ordersPerHour int, clk clock.Clock) (*Scheduler, error) {
	if ordersPerHour <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidOrdersPerHour, ordersPerHour)
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &Scheduler{
		clock:         clk,
		ordersPerHour: uint64(ordersPerHour),
		start:         clk.Now(),
	}, nil
}

// Interval is the nominal gap between two ticks (truncated to the nanosecond).
func (s *Scheduler) Interval() time.Duration {
	return time.Hour / time.Duration(s.ordersPerHour)
}

func (s *Scheduler) Start() time.Time {
	return s.start
}

// Deadline returns the absolute instant of tick n (zero based).
// The offset is n*1h/rate computed in 128 bits so it stays exact for any n.
func (s *Scheduler) Deadline(n uint64) time.Time {
	whole := n / s.ordersPerHour
	rem := n % s.ordersPerHour
	hi, lo := bits.Mul64(rem, uint64(time.Hour))
	frac, _ := bits.Div64(hi, lo, s.ordersPerHour)
	return s.start.Add(time.Duration(whole) * time.Hour).Add(time.Duration(frac))
}

// Tick blocks until the next deadline. The first tick fires at start.
// When the caller is already past the deadline Tick returns immediately, which
// lets a slow iteration catch up instead of shifting every later deadline.
func (s *Scheduler) Tick(ctx context.Context) error {
	deadline := s.Deadline(s.next)
	s.next++

	wait := deadline.Sub(s.clock.Now())
	if wait <= 0 {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrCancelled, err)
		}
		return nil
	}

	timer := s.clock.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-timer.C():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrCancelled, ctx.Err())
	}
}
