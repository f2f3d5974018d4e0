package interfaces

import (
	"context"
	"time"
)

// Message represents a message flowing through the broker.
type Message struct {
	ID          string            `json:"id"`           // unique message id
	Topic       string            `json:"topic"`        // topic the message was read from
	Key         string            `json:"key"`          // partition key (optional)
	Value       []byte            `json:"value"`        // message payload
	Headers     map[string]string `json:"headers"`      // transport headers
	PublishedAt time.Time         `json:"published_at"` // publish time
}

// MessageHandler is the function invoked for every consumed message.
// Returning an error leaves the message uncommitted for redelivery.
type MessageHandler func(ctx context.Context, msg *Message) error

// MessagingPort defines the interface for the message broker.
// The implementation may use Kafka, NATS or any other broker.
type MessagingPort interface {
	// Publish publishes a message to the given topic.
	Publish(ctx context.Context, topic string, message []byte) error

	// PublishWithKey publishes a message with a partition key.
	PublishWithKey(ctx context.Context, topic string, key string, message []byte) error

	// Subscribe registers a handler for the given topic and starts
	// consuming in the background. The returned function cancels the
	// subscription.
	Subscribe(ctx context.Context, topic string, handler MessageHandler) (func() error, error)

	// Close stops the producer and all consumers.
	Close() error
}
