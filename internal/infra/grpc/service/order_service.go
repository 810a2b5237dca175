package service

import (
	"context"
	"errors"

	"github.com/DioGolang/GoTraffic/internal/application/usecase/catalog"
	"github.com/DioGolang/GoTraffic/internal/application/usecase/order"
	"github.com/DioGolang/GoTraffic/internal/domain/entity"
	"github.com/DioGolang/GoTraffic/internal/infra/grpc/interceptor"
	"github.com/DioGolang/GoTraffic/internal/infra/grpc/pb"
	"github.com/DioGolang/GoTraffic/pkg/logger"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

// OrderService answers the generator's RPC transport and serves the product catalog.
type OrderService struct {
	pb.UnimplementedMensagemServiceServer
	pb.UnimplementedProductServiceServer
	ingest  order.IngestUseCase
	catalog catalog.UseCase
	logger  logger.Logger
}

func NewOrderService(ingest order.IngestUseCase, products catalog.UseCase, log logger.Logger) *OrderService {
	return &OrderService{
		ingest:  ingest,
		catalog: products,
		logger:  log,
	}
}

func (s *OrderService) EnviarMensagem(ctx context.Context, req *pb.MensagemRequest) (*pb.MensagemResponse, error) {
	out, err := s.ingest.Execute(ctx, order.IngestInput{
		RequestID: interceptor.RequestIDFromContext(ctx),
		Transport: "grpc",
		Body:      []byte(req.GetConteudo()),
	})
	if err != nil {
		s.logger.Error(ctx, "failed to ingest order", logger.WithError(err))
		return nil, status.Error(codes.Internal, "failed to ingest order")
	}
	return &pb.MensagemResponse{Resposta: out.Message}, nil
}

func (s *OrderService) GetProduct(ctx context.Context, req *pb.ProductRequest) (*pb.ProductResponse, error) {
	p, err := s.catalog.GetProduct(ctx, req.GetId())
	if err != nil {
		if errors.Is(err, entity.ErrIDIsRequired) {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &pb.ProductResponse{
		Id:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
	}, nil
}

func (s *OrderService) ListProducts(ctx context.Context, _ *emptypb.Empty) (*pb.ProductListResponse, error) {
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	resp := &pb.ProductListResponse{Products: make([]*pb.Product, 0, len(products))}
	for _, p := range products {
		resp.Products = append(resp.Products, &pb.Product{
			Id:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
		})
	}
	return resp, nil
}
