package sender

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"syscall"
	"time"

	"github.com/DioGolang/GoTraffic/internal/application/port/outbound"
	"github.com/DioGolang/GoTraffic/internal/domain/entity"
	"github.com/google/uuid"
)

const (
	DefaultTimeout  = 10 * time.Second
	maxBodyLogBytes = 4 << 10
	headerRequestID = "X-Request-Id"
)

// HTTP posts each order as JSON to the order service root URL.
type HTTP struct {
	url    string
	client *http.Client
}

var _ outbound.OrderSender = (*HTTP)(nil)

func NewHTTP(url string, timeout time.Duration) *HTTP {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTP{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (s *HTTP) Send(ctx context.Context, order *entity.Order) (outbound.Outcome, error) {
	payload, err := json.Marshal(order)
	if err != nil {
		return outbound.Outcome{}, fmt.Errorf("%w: %w", outbound.ErrSerialization, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return outbound.Failed(outbound.FailureUnknown, err.Error()), nil
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerRequestID, uuid.NewString())

	resp, err := s.client.Do(req)
	if err != nil {
		return outbound.Failed(classifyHTTPError(err), err.Error()), nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyLogBytes))
	if err != nil {
		return outbound.Failed(classifyHTTPError(err), err.Error()), nil
	}

	status := strconv.Itoa(resp.StatusCode)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return outbound.Failed(outbound.FailureServerError, status+": "+string(body)), nil
	}
	return outbound.Succeeded(status, string(body)), nil
}

func (s *HTTP) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

func classifyHTTPError(err error) outbound.FailureKind {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return outbound.FailureTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		return outbound.FailureTimeout
	case errors.Is(err, syscall.ECONNREFUSED):
		return outbound.FailureConnectionRefused
	}
	return outbound.FailureUnknown
}
