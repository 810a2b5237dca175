package outbound

import (
	"context"
	"errors"
	"fmt"

	"github.com/DioGolang/GoTraffic/internal/domain/entity"
)

// ErrSerialization means an order could not be encoded. It signals a programming
// defect and is never reported as a transport outcome.
var ErrSerialization = errors.New("order serialization failed")

type FailureKind string

const (
	FailureTimeout           FailureKind = "timeout"
	FailureConnectionRefused FailureKind = "connection_refused"
	FailureServerError       FailureKind = "server_error"
	FailureUnknown           FailureKind = "unknown"
)

// TransportError is a recoverable delivery failure.
type TransportError struct {
	Kind   FailureKind
	Detail string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %s", e.Kind, e.Detail)
}

// Outcome is the result of a single delivery attempt. Err is nil on success.
type Outcome struct {
	// Status is the HTTP status code or the gRPC status code name.
	Status string
	Body   string
	Err    *TransportError
}

func Succeeded(status, body string) Outcome {
	return Outcome{Status: status, Body: body}
}

func Failed(kind FailureKind, detail string) Outcome {
	return Outcome{Err: &TransportError{Kind: kind, Detail: detail}}
}

func (o Outcome) Success() bool {
	return o.Err == nil
}

// Label is the metrics/log classification of the outcome.
func (o Outcome) Label() string {
	if o.Err == nil {
		return "success"
	}
	return string(o.Err.Kind)
}

// OrderSender delivers one order to the remote order service.
// The returned error is reserved for ErrSerialization; every transport
// problem is reported through the Outcome.
type OrderSender interface {
	Send(ctx context.Context, order *entity.Order) (Outcome, error)
	Close() error
}
