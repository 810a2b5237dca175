package interceptor

import (
	"context"
	"strings"
	"time"

	"github.com/DioGolang/GoTraffic/pkg/metrics"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

func Metrics(m metrics.Metrics) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		service, method := splitMethod(info.FullMethod)
		m.ObserveGRPCRequestDuration(service, method, status.Code(err).String(), time.Since(start).Seconds())
		return resp, err
	}
}

// splitMethod turns "/Service/Method" into its two parts.
func splitMethod(full string) (string, string) {
	full = strings.TrimPrefix(full, "/")
	if i := strings.LastIndex(full, "/"); i >= 0 {
		return full[:i], full[i+1:]
	}
	return "unknown", full
}
