package pb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	MensagemService_ServiceName                   = "MensagemService"
	MensagemService_EnviarMensagem_FullMethodName = "/MensagemService/EnviarMensagem"
)

type MensagemRequest struct {
	// Conteudo carries the serialized order.
	Conteudo string `protobuf:"bytes,1,opt,name=conteudo,proto3"`
}

func (x *MensagemRequest) GetConteudo() string {
	if x != nil {
		return x.Conteudo
	}
	return ""
}

type MensagemResponse struct {
	Resposta string `protobuf:"bytes,1,opt,name=resposta,proto3"`
}

func (x *MensagemResponse) GetResposta() string {
	if x != nil {
		return x.Resposta
	}
	return ""
}

type MensagemServiceClient interface {
	EnviarMensagem(ctx context.Context, in *MensagemRequest, opts ...grpc.CallOption) (*MensagemResponse, error)
}

type mensagemServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewMensagemServiceClient(cc grpc.ClientConnInterface) MensagemServiceClient {
	return &mensagemServiceClient{cc}
}

func (c *mensagemServiceClient) EnviarMensagem(ctx context.Context, in *MensagemRequest, opts ...grpc.CallOption) (*MensagemResponse, error) {
	out := new(MensagemResponse)
	if err := c.cc.Invoke(ctx, MensagemService_EnviarMensagem_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

type MensagemServiceServer interface {
	EnviarMensagem(context.Context, *MensagemRequest) (*MensagemResponse, error)
}

type UnimplementedMensagemServiceServer struct{}

func (UnimplementedMensagemServiceServer) EnviarMensagem(context.Context, *MensagemRequest) (*MensagemResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method EnviarMensagem not implemented")
}

func RegisterMensagemServiceServer(s grpc.ServiceRegistrar, srv MensagemServiceServer) {
	s.RegisterService(&MensagemService_ServiceDesc, srv)
}

func _MensagemService_EnviarMensagem_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(MensagemRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MensagemServiceServer).EnviarMensagem(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: MensagemService_EnviarMensagem_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MensagemServiceServer).EnviarMensagem(ctx, req.(*MensagemRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var MensagemService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: MensagemService_ServiceName,
	HandlerType: (*MensagemServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "EnviarMensagem",
			Handler:    _MensagemService_EnviarMensagem_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "mensagem.proto",
}
