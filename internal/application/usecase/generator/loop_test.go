package generator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/DioGolang/GoTraffic/internal/application/port/outbound"
	"github.com/DioGolang/GoTraffic/internal/domain/entity"
	"github.com/DioGolang/GoTraffic/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	testingclock "k8s.io/utils/clock/testing"
	"pgregory.net/rand"
)

type stubSender struct {
	mu      sync.Mutex
	outcome outbound.Outcome
	err     error
	sent    []*entity.Order
}

func (s *stubSender) Send(_ context.Context, o *entity.Order) (outbound.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, o)
	return s.outcome, s.err
}

func (s *stubSender) Close() error { return nil }

func (s *stubSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

type attempt struct {
	outcome string
	success bool
	items   int
}

type fakeRecorder struct {
	mu       sync.Mutex
	attempts []attempt
}

func (r *fakeRecorder) RecordAttempt(outcome string, success bool, _ time.Duration, itemCount int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts = append(r.attempts, attempt{outcome: outcome, success: success, items: itemCount})
}

func (r *fakeRecorder) snapshot() []attempt {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]attempt(nil), r.attempts...)
}

type loopFixture struct {
	clock    *testingclock.FakeClock
	sender   *stubSender
	recorder *fakeRecorder
	logs     *observer.ObservedLogs
	loop     *Loop
}

func newLoopFixture(t *testing.T, rate int, outcome outbound.Outcome, opts ...LoopOption) *loopFixture {
	t.Helper()
	fc := testingclock.NewFakeClock(epoch)
	sched, err := NewScheduler(rate, fc)
	require.NoError(t, err)
	factory, err := NewOrderFactory(DefaultFactoryConfig())
	require.NoError(t, err)

	core, logs := observer.New(zapcore.InfoLevel)
	f := &loopFixture{
		clock:    fc,
		sender:   &stubSender{outcome: outcome},
		recorder: &fakeRecorder{},
		logs:     logs,
	}
	f.loop = NewLoop(sched, factory, f.sender, f.recorder, logger.NewFromZap(zap.New(core)), rand.New(1), opts...)
	return f
}

func (f *loopFixture) run(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() { done <- f.loop.Run(ctx) }()
	return done
}

// advance waits for the loop to block on its next tick, then releases it.
func (f *loopFixture) advance(t *testing.T, d time.Duration) {
	t.Helper()
	require.Eventually(t, f.clock.HasWaiters, time.Second, time.Millisecond)
	f.clock.Step(d)
}

func TestLoop_SendsOneOrderPerTick(t *testing.T) {
	//Arrange
	f := newLoopFixture(t, 3600, outbound.Succeeded("201", "Pedido recebido"), WithLimit(5))

	//Act
	done := f.run(context.Background())
	for i := 0; i < 4; i++ {
		f.advance(t, time.Second)
	}

	//Assert
	require.NoError(t, <-done)
	assert.Equal(t, 5, f.sender.count())

	attempts := f.recorder.snapshot()
	require.Len(t, attempts, 5)
	for _, a := range attempts {
		assert.True(t, a.success)
		assert.Equal(t, "success", a.outcome)
		assert.GreaterOrEqual(t, a.items, 1)
	}

	sent := f.logs.FilterMessage("order sent").All()
	require.Len(t, sent, 5)
	for i, entry := range sent {
		ctx := entry.ContextMap()
		assert.Equal(t, int64(i+1), ctx["seq"])
		assert.Equal(t, time.Duration(i)*time.Second, ctx["elapsed"])
		assert.Equal(t, "201", ctx["status"])
		assert.InDelta(t, RoundPrice(f.sender.sent[i].Total(), RoundHalfUp), ctx["total"], 1e-9)
	}
	assert.Equal(t, 1, f.logs.FilterMessage("order limit reached").Len())
}

func TestLoop_TransportFailureDoesNotStopLoop(t *testing.T) {
	f := newLoopFixture(t, 3600, outbound.Failed(outbound.FailureConnectionRefused, "dial tcp: refused"), WithLimit(3))

	done := f.run(context.Background())
	f.advance(t, time.Second)
	f.advance(t, time.Second)

	require.NoError(t, <-done)
	attempts := f.recorder.snapshot()
	require.Len(t, attempts, 3)
	for _, a := range attempts {
		assert.False(t, a.success)
		assert.Equal(t, "connection_refused", a.outcome)
	}
	failed := f.logs.FilterMessage("order failed").All()
	require.Len(t, failed, 3)
	assert.Equal(t, zapcore.WarnLevel, failed[0].Level)
	assert.Equal(t, "connection_refused", failed[0].ContextMap()["kind"])
	assert.Equal(t, "dial tcp: refused", failed[0].ContextMap()["detail"])
}

func TestLoop_SerializationErrorIsFatal(t *testing.T) {
	f := newLoopFixture(t, 3600, outbound.Outcome{})
	f.sender.err = outbound.ErrSerialization

	err := <-f.run(context.Background())

	assert.ErrorIs(t, err, outbound.ErrSerialization)
	assert.Empty(t, f.recorder.snapshot())
}

func TestLoop_CancellationReturnsNil(t *testing.T) {
	f := newLoopFixture(t, 6, outbound.Succeeded("OK", "Pedido recebido"))
	ctx, cancel := context.WithCancel(context.Background())

	done := f.run(ctx)
	require.Eventually(t, f.clock.HasWaiters, time.Second, time.Millisecond)
	cancel()

	require.NoError(t, <-done)
	assert.Len(t, f.recorder.snapshot(), 1)
	assert.Equal(t, 1, f.logs.FilterMessage("generator stopped").Len())
}

type cancellingSender struct {
	cancel context.CancelFunc
}

func (s *cancellingSender) Send(context.Context, *entity.Order) (outbound.Outcome, error) {
	s.cancel()
	return outbound.Failed(outbound.FailureUnknown, "context canceled"), nil
}

func (s *cancellingSender) Close() error { return nil }

func TestLoop_AttemptInterruptedByShutdownIsNotRecorded(t *testing.T) {
	f := newLoopFixture(t, 3600, outbound.Outcome{})
	ctx, cancel := context.WithCancel(context.Background())
	f.loop.sender = &cancellingSender{cancel: cancel}

	err := f.loop.Run(ctx)

	require.NoError(t, err)
	assert.Empty(t, f.recorder.snapshot())
}
