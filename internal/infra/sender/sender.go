package sender

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/DioGolang/GoTraffic/internal/application/port/outbound"
	"github.com/DioGolang/GoTraffic/pkg/logger"
)

var ErrUnknownTransport = errors.New("unknown transport")

type Kind string

const (
	KindHTTP Kind = "http"
	KindGRPC Kind = "grpc"
)

func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindHTTP:
		return KindHTTP, nil
	case KindGRPC:
		return KindGRPC, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTransport, s)
}

type Config struct {
	Kind          Kind
	URL           string // HTTP target
	Addr          string // gRPC target
	Timeout       time.Duration
	RetryMax      int
	RetryBaseWait time.Duration
	Breaker       bool
}

// New resolves the transport once and stacks the optional decorators:
// breaker(retry(transport)).
func New(cfg Config, log logger.Logger) (outbound.OrderSender, error) {
	var (
		s   outbound.OrderSender
		err error
	)
	switch cfg.Kind {
	case KindHTTP:
		s = NewHTTP(cfg.URL, cfg.Timeout)
	case KindGRPC:
		s, err = NewGRPC(cfg.Addr, cfg.Timeout)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransport, cfg.Kind)
	}

	if cfg.RetryMax > 0 {
		s = WithRetry(s, log, cfg.RetryMax, cfg.RetryBaseWait)
	}
	if cfg.Breaker {
		s = WithBreaker(s, log, string(cfg.Kind))
	}
	return s, nil
}
