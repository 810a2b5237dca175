// Package pool bounds how many requests the order service handles at once.
// Requests beyond the limit wait for a free worker instead of being rejected.
package pool

import (
	"context"
	"net/http"

	"golang.org/x/sync/semaphore"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

const DefaultSize = 10

type WorkerPool struct {
	sem  *semaphore.Weighted
	size int
}

func New(size int) *WorkerPool {
	if size <= 0 {
		size = DefaultSize
	}
	return &WorkerPool{sem: semaphore.NewWeighted(int64(size)), size: size}
}

func (p *WorkerPool) Size() int { return p.size }

// Do runs fn once a worker is free. It returns ctx.Err() if ctx ends while queued.
func (p *WorkerPool) Do(ctx context.Context, fn func(context.Context) error) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer p.sem.Release(1)
	return fn(ctx)
}

func (p *WorkerPool) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if err := p.sem.Acquire(ctx, 1); err != nil {
			return nil, status.FromContextError(err).Err()
		}
		defer p.sem.Release(1)
		return handler(ctx, req)
	}
}

func (p *WorkerPool) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := p.sem.Acquire(r.Context(), 1); err != nil {
			http.Error(w, "request cancelled while queued", http.StatusServiceUnavailable)
			return
		}
		defer p.sem.Release(1)
		next.ServeHTTP(w, r)
	})
}
