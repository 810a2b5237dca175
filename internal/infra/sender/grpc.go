package sender

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/DioGolang/GoTraffic/internal/application/port/outbound"
	"github.com/DioGolang/GoTraffic/internal/domain/entity"
	"github.com/DioGolang/GoTraffic/internal/infra/grpc/pb"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const metadataRequestID = "x-request-id"

// GRPC sends each order as one unary EnviarMensagem call over a single
// long-lived connection.
type GRPC struct {
	conn    *grpc.ClientConn
	client  pb.MensagemServiceClient
	timeout time.Duration
}

var _ outbound.OrderSender = (*GRPC)(nil)

// NewGRPC creates the connection lazily; the first call dials.
func NewGRPC(addr string, timeout time.Duration, opts ...grpc.DialOption) (*GRPC, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
	}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("grpc client for %s: %w", addr, err)
	}
	return NewGRPCFromConn(conn, timeout), nil
}

func NewGRPCFromConn(conn *grpc.ClientConn, timeout time.Duration) *GRPC {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &GRPC{
		conn:    conn,
		client:  pb.NewMensagemServiceClient(conn),
		timeout: timeout,
	}
}

func (s *GRPC) Send(ctx context.Context, order *entity.Order) (outbound.Outcome, error) {
	payload, err := json.Marshal(order)
	if err != nil {
		return outbound.Outcome{}, fmt.Errorf("%w: %w", outbound.ErrSerialization, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	ctx = metadata.AppendToOutgoingContext(ctx, metadataRequestID, uuid.NewString())

	res, err := s.client.EnviarMensagem(ctx, &pb.MensagemRequest{Conteudo: string(payload)})
	if err != nil {
		st := status.Convert(err)
		return outbound.Failed(outbound.FailureUnknown, st.Code().String()+": "+st.Message()), nil
	}
	if res.GetResposta() == "" {
		return outbound.Failed(outbound.FailureServerError, "empty acknowledgment"), nil
	}
	return outbound.Succeeded("OK", res.GetResposta()), nil
}

func (s *GRPC) Close() error {
	return s.conn.Close()
}
