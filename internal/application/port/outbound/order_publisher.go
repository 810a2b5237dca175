package outbound

import "context"

// OrderPublisher forwards accepted order bodies downstream (e.g. to a queue).
type OrderPublisher interface {
	Publish(ctx context.Context, requestID string, body []byte) error
}
