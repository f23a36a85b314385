package messaging

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Topic string

const (
	TrackingTopic Topic = "tracking"
)

// Channel is the publishing side of an amqp channel.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}
