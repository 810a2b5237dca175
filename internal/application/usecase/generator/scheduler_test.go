package generator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func tickAsync(ctx context.Context, s *Scheduler) <-chan error {
	done := make(chan error, 1)
	go func() { done <- s.Tick(ctx) }()
	return done
}

func TestNewScheduler_RejectsNonPositiveRate(t *testing.T) {
	for _, rate := range []int{0, -1} {
		_, err := NewScheduler(rate, testingclock.NewFakeClock(epoch))
		assert.ErrorIs(t, err, ErrInvalidOrdersPerHour)
	}
}

func TestScheduler_Interval(t *testing.T) {
	tests := []struct {
		rate int
		want time.Duration
	}{
		{rate: 1, want: time.Hour},
		{rate: 6, want: 10 * time.Minute},
		{rate: 3600, want: time.Second},
		{rate: 7, want: 514285714285 * time.Nanosecond},
	}
	for _, tt := range tests {
		s, err := NewScheduler(tt.rate, testingclock.NewFakeClock(epoch))
		require.NoError(t, err)
		assert.Equal(t, tt.want, s.Interval())
	}
}

func TestScheduler_DeadlineIsExact(t *testing.T) {
	s, err := NewScheduler(7, testingclock.NewFakeClock(epoch))
	require.NoError(t, err)

	assert.Equal(t, epoch, s.Deadline(0))
	assert.Equal(t, epoch.Add(1542857142857*time.Nanosecond), s.Deadline(3))
	// a truncated interval would have drifted by 7000ns here
	assert.Equal(t, epoch.Add(time.Hour), s.Deadline(7))
	assert.Equal(t, epoch.Add(1000*time.Hour), s.Deadline(7000))
}

func TestScheduler_FirstTickIsImmediate(t *testing.T) {
	fc := testingclock.NewFakeClock(epoch)
	s, err := NewScheduler(3600, fc)
	require.NoError(t, err)

	require.NoError(t, s.Tick(context.Background()))

	assert.False(t, fc.HasWaiters())
}

// Processing time between ticks must not push later deadlines back.
func TestScheduler_NoDriftUnderProcessingDelay(t *testing.T) {
	//Arrange
	fc := testingclock.NewFakeClock(epoch)
	s, err := NewScheduler(3600, fc)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, s.Tick(ctx))

	processing := []time.Duration{
		0,
		300 * time.Millisecond,
		999 * time.Millisecond,
		1500 * time.Millisecond, // late: the next tick fires at once
		0,
		250 * time.Millisecond,
	}

	//Act & Assert
	for i, work := range processing {
		n := uint64(i + 1)
		fc.Step(work)

		done := tickAsync(ctx, s)
		deadline := s.Deadline(n)
		if wait := deadline.Sub(fc.Now()); wait > 0 {
			require.Eventually(t, fc.HasWaiters, time.Second, time.Millisecond)
			fc.Step(wait)
		}
		require.NoError(t, <-done)

		want := deadline
		if fc.Now().After(deadline) {
			want = fc.Now()
		}
		assert.Equal(t, want, fc.Now(), "tick %d", n)
		assert.Equal(t, epoch.Add(time.Duration(n)*time.Second), deadline)
	}
}

func TestScheduler_CancelWhileWaiting(t *testing.T) {
	fc := testingclock.NewFakeClock(epoch)
	s, err := NewScheduler(6, fc)
	require.NoError(t, err)
	require.NoError(t, s.Tick(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	done := tickAsync(ctx, s)
	require.Eventually(t, fc.HasWaiters, time.Second, time.Millisecond)
	cancel()

	err = <-done
	assert.ErrorIs(t, err, ErrCancelled)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestScheduler_CancelledContextOnDueTick(t *testing.T) {
	s, err := NewScheduler(6, testingclock.NewFakeClock(epoch))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Tick(ctx), ErrCancelled)
}
