package event

import (
	"context"
	"time"

	"github.com/DioGolang/GoTraffic/internal/application/port/outbound"
	carrier "github.com/DioGolang/GoTraffic/pkg/otel"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel"
)

// Channel is the part of *amqp.Channel the publisher needs.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// OrderPublisher forwards accepted orders to a queue through the default exchange.
type OrderPublisher struct {
	ch    Channel
	queue string
}

var _ outbound.OrderPublisher = (*OrderPublisher)(nil)

func NewOrderPublisher(ch Channel, queue string) *OrderPublisher {
	return &OrderPublisher{ch: ch, queue: queue}
}

// DeclareQueue makes sure the durable order queue exists before publishing.
func DeclareQueue(ch *amqp.Channel, queue string) error {
	_, err := ch.QueueDeclare(
		queue,
		true,
		false,
		false,
		false,
		nil,
	)
	return err
}

func (p *OrderPublisher) Publish(ctx context.Context, requestID string, body []byte) error {
	headers := make(amqp.Table)
	otel.GetTextMapPropagator().Inject(ctx, carrier.AMQPHeadersCarrier(headers))
	if requestID != "" {
		headers["x-request-id"] = requestID
	}

	return p.ch.PublishWithContext(
		ctx,
		"",
		p.queue,
		false,
		false,
		amqp.Publishing{
			Headers:      headers,
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    requestID,
			Timestamp:    time.Now(),
			Body:         body,
		})
}
