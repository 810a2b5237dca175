package service

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/DioGolang/GoTraffic/internal/application/usecase/catalog"
	"github.com/DioGolang/GoTraffic/internal/application/usecase/order"
	"github.com/DioGolang/GoTraffic/internal/infra/grpc/interceptor"
	"github.com/DioGolang/GoTraffic/internal/infra/grpc/pb"
	"github.com/DioGolang/GoTraffic/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/types/known/emptypb"
)

type recordingIngest struct {
	last order.IngestInput
	err  error
}

func (r *recordingIngest) Execute(ctx context.Context, in order.IngestInput) (order.IngestOutput, error) {
	r.last = in
	if r.err != nil {
		return order.IngestOutput{}, r.err
	}
	return order.NewIngestUseCase(nil, logger.NewNop()).Execute(ctx, in)
}

func dial(t *testing.T, svc *OrderService) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer(grpc.ChainUnaryInterceptor(interceptor.RequestID()))
	pb.RegisterMensagemServiceServer(s, svc)
	pb.RegisterProductServiceServer(s, svc)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestOrderService_EnviarMensagem(t *testing.T) {
	//Arrange
	ingest := &recordingIngest{}
	conn := dial(t, NewOrderService(ingest, catalog.NewCatalog(0), logger.NewNop()))
	client := pb.NewMensagemServiceClient(conn)
	ctx := metadata.AppendToOutgoingContext(context.Background(), interceptor.RequestIDKey, "req-1")

	//Act
	resp, err := client.EnviarMensagem(ctx, &pb.MensagemRequest{
		Conteudo: `{"customerId":"12","items":[{"productId":2,"quantity":1,"price":4.2}]}`,
	})

	//Assert
	require.NoError(t, err)
	assert.Contains(t, resp.GetResposta(), "Pedido recebido")
	assert.Contains(t, resp.GetResposta(), "customer 12")
	assert.Equal(t, "req-1", ingest.last.RequestID)
	assert.Equal(t, "grpc", ingest.last.Transport)
}

// rawCodec hands pre-encoded frames to the transport untouched, like a
// client built from another toolchain.
type rawCodec struct{}

func (rawCodec) Marshal(v any) ([]byte, error) {
	return *(v.(*[]byte)), nil
}

func (rawCodec) Unmarshal(data []byte, v any) error {
	*(v.(*[]byte)) = append([]byte(nil), data...)
	return nil
}

func (rawCodec) Name() string { return "proto" }

func TestOrderService_EnviarMensagem_RawProtobuf(t *testing.T) {
	//Arrange
	ingest := &recordingIngest{}
	conn := dial(t, NewOrderService(ingest, catalog.NewCatalog(0), logger.NewNop()))
	body := `{"customerId":"7","items":[{"productId":1,"quantity":2,"price":1.5}]}`
	req := protowire.AppendTag(nil, 1, protowire.BytesType)
	req = protowire.AppendString(req, body)
	var resp []byte

	//Act
	err := conn.Invoke(context.Background(), pb.MensagemService_EnviarMensagem_FullMethodName,
		&req, &resp, grpc.ForceCodec(rawCodec{}))

	//Assert
	require.NoError(t, err)
	num, typ, n := protowire.ConsumeTag(resp)
	require.Greater(t, n, 0)
	assert.Equal(t, protowire.Number(1), num)
	require.Equal(t, protowire.BytesType, typ)
	resposta, m := protowire.ConsumeString(resp[n:])
	require.Greater(t, m, 0)
	assert.Len(t, resp, n+m)
	assert.Contains(t, resposta, "Pedido recebido")
	assert.Contains(t, resposta, "customer 7")
	assert.Equal(t, "grpc", ingest.last.Transport)
}

func TestOrderService_EnviarMensagem_IngestFailure(t *testing.T) {
	conn := dial(t, NewOrderService(&recordingIngest{err: errors.New("boom")}, catalog.NewCatalog(0), logger.NewNop()))

	_, err := pb.NewMensagemServiceClient(conn).EnviarMensagem(context.Background(), &pb.MensagemRequest{Conteudo: "{}"})

	assert.Equal(t, codes.Internal, status.Code(err))
}

func TestOrderService_GetProduct(t *testing.T) {
	conn := dial(t, NewOrderService(&recordingIngest{}, catalog.NewCatalog(0), logger.NewNop()))
	client := pb.NewProductServiceClient(conn)

	tests := []struct {
		name string
		id   string
		code codes.Code
		want string
	}{
		{name: "known product", id: "1", code: codes.OK, want: "Contoso Catnip's Friend"},
		{name: "unknown id is synthesized", id: "42", code: codes.OK, want: "Product 42"},
		{name: "empty id", id: "", code: codes.InvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := client.GetProduct(context.Background(), &pb.ProductRequest{Id: tt.id})
			require.Equal(t, tt.code, status.Code(err))
			if tt.code == codes.OK {
				assert.Equal(t, tt.id, resp.GetId())
				assert.Equal(t, tt.want, resp.GetName())
			}
		})
	}
}

func TestOrderService_ListProducts(t *testing.T) {
	conn := dial(t, NewOrderService(&recordingIngest{}, catalog.NewCatalog(15), logger.NewNop()))

	resp, err := pb.NewProductServiceClient(conn).ListProducts(context.Background(), &emptypb.Empty{})

	require.NoError(t, err)
	require.Len(t, resp.GetProducts(), 15)
	assert.Equal(t, "Product 15", resp.GetProducts()[14].Name)
}
