package order

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/DioGolang/GoTraffic/internal/application/port/outbound"
	"github.com/DioGolang/GoTraffic/internal/domain/entity"
	"github.com/DioGolang/GoTraffic/pkg/logger"
)

const ackMessage = "Pedido recebido"

// IngestUseCaseImpl acknowledges every order it is handed. Bodies that do not
// decode as an order are still accepted, only without customer details.
type IngestUseCaseImpl struct {
	Publisher outbound.OrderPublisher
	Logger    logger.Logger
}

func NewIngestUseCase(publisher outbound.OrderPublisher, log logger.Logger) *IngestUseCaseImpl {
	return &IngestUseCaseImpl{
		Publisher: publisher,
		Logger:    log,
	}
}

func (uc *IngestUseCaseImpl) Execute(ctx context.Context, input IngestInput) (IngestOutput, error) {
	output := IngestOutput{Accepted: true, Message: ackMessage}

	var order entity.Order
	err := json.Unmarshal(input.Body, &order)
	switch {
	case err != nil:
		uc.Logger.Debug(ctx, "order body is not JSON, acknowledging anyway",
			logger.String("request_id", input.RequestID),
			logger.WithError(err),
		)
	case order.CustomerID() != "":
		output.CustomerID = order.CustomerID()
		output.Items = order.ItemCount()
		output.Message = fmt.Sprintf("%s: customer %s, %d items", ackMessage, output.CustomerID, output.Items)
	}

	if uc.Publisher != nil {
		if err := uc.Publisher.Publish(ctx, input.RequestID, input.Body); err != nil {
			uc.Logger.Warn(ctx, "Failed to forward order",
				logger.String("request_id", input.RequestID),
				logger.WithError(err),
			)
		}
	}

	uc.Logger.Info(ctx, "order received",
		logger.String("request_id", input.RequestID),
		logger.String("transport", input.Transport),
		logger.String("customer_id", output.CustomerID),
		logger.Int("items", output.Items),
	)
	return output, nil
}
