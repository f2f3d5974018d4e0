package messaging

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/google/uuid"

	"github.com/storelink/woosync/pkg/interfaces"
)

const pollTimeout = 100 * time.Millisecond

// KafkaMessaging implements MessagingPort on Kafka.
type KafkaMessaging struct {
	producer       *kafka.Producer
	consumers      map[string]*kafka.Consumer
	consumersMutex sync.Mutex
	brokers        string
	groupID        string
	logger         interfaces.LoggerPort
}

// NewKafkaMessaging creates a producer and verifies broker reachability
// lazily; consumers are created per subscription.
func NewKafkaMessaging(brokers []string, groupID string, logger interfaces.LoggerPort) (*KafkaMessaging, error) {
	bootstrap := strings.Join(brokers, ",")

	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": bootstrap,
		"client.id":         "woosync-producer",
		"acks":              "all",
		"retries":           5,
		"retry.backoff.ms":  500,
		"compression.type":  "snappy",
		"linger.ms":         10,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return &KafkaMessaging{
		producer:  producer,
		consumers: make(map[string]*kafka.Consumer),
		brokers:   bootstrap,
		groupID:   groupID,
		logger:    logger,
	}, nil
}

func messageToKafkaMessage(topic string, payload []byte, key string) *kafka.Message {
	headers := []kafka.Header{
		{Key: "message_id", Value: []byte(uuid.New().String())},
		{Key: "timestamp", Value: []byte(strconv.FormatInt(time.Now().UnixNano(), 10))},
	}

	var keyBytes []byte
	if key != "" {
		keyBytes = []byte(key)
	}

	return &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Value:          payload,
		Key:            keyBytes,
		Headers:        headers,
	}
}

func kafkaMessageToMessage(msg *kafka.Message) *interfaces.Message {
	headers := make(map[string]string, len(msg.Headers))
	for _, header := range msg.Headers {
		headers[header.Key] = string(header.Value)
	}

	var key string
	if msg.Key != nil {
		key = string(msg.Key)
	}

	publishedAt := time.Now()
	if raw, ok := headers["timestamp"]; ok {
		if ns, err := strconv.ParseInt(raw, 10, 64); err == nil {
			publishedAt = time.Unix(0, ns)
		}
	}

	return &interfaces.Message{
		ID:          headers["message_id"],
		Topic:       *msg.TopicPartition.Topic,
		Key:         key,
		Value:       msg.Value,
		Headers:     headers,
		PublishedAt: publishedAt,
	}
}

// Publish publishes a message to the topic.
func (k *KafkaMessaging) Publish(ctx context.Context, topic string, payload []byte) error {
	return k.producer.Produce(messageToKafkaMessage(topic, payload, ""), nil)
}

// PublishWithKey publishes a message with a partition key.
func (k *KafkaMessaging) PublishWithKey(ctx context.Context, topic, key string, payload []byte) error {
	return k.producer.Produce(messageToKafkaMessage(topic, payload, key), nil)
}

// Subscribe starts a consumer for the topic and dispatches each message
// to the handler on a dedicated goroutine. The returned function stops
// the consumer.
func (k *KafkaMessaging) Subscribe(ctx context.Context, topic string, handler interfaces.MessageHandler) (func() error, error) {
	consumer, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":  k.brokers,
		"group.id":           k.groupID,
		"auto.offset.reset":  "latest",
		"enable.auto.commit": true,
		"session.timeout.ms": 30000,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka consumer: %w", err)
	}

	if err := consumer.Subscribe(topic, nil); err != nil {
		consumer.Close()
		return nil, fmt.Errorf("failed to subscribe to topic %s: %w", topic, err)
	}

	consumerID := uuid.New().String()
	k.consumersMutex.Lock()
	k.consumers[consumerID] = consumer
	k.consumersMutex.Unlock()

	go k.consumeMessages(ctx, consumer, topic, handler)

	unsubscribe := func() error {
		k.consumersMutex.Lock()
		consumer, ok := k.consumers[consumerID]
		delete(k.consumers, consumerID)
		k.consumersMutex.Unlock()

		if ok {
			return consumer.Close()
		}
		return nil
	}

	return unsubscribe, nil
}

func (k *KafkaMessaging) consumeMessages(ctx context.Context, consumer *kafka.Consumer, topic string, handler interfaces.MessageHandler) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			ev := consumer.Poll(int(pollTimeout.Milliseconds()))
			if ev == nil {
				continue
			}

			switch e := ev.(type) {
			case *kafka.Message:
				msg := kafkaMessageToMessage(e)
				if err := handler(ctx, msg); err != nil {
					k.logger.Error("message handler failed",
						interfaces.LogField{Key: "topic", Value: topic},
						interfaces.LogField{Key: "message_id", Value: msg.ID},
						interfaces.LogField{Key: "error", Value: err.Error()},
					)
				}

			case kafka.Error:
				k.logger.Error("kafka consumer error",
					interfaces.LogField{Key: "topic", Value: topic},
					interfaces.LogField{Key: "error", Value: e.Error()},
				)
				if e.Code() == kafka.ErrAllBrokersDown {
					return
				}
			}
		}
	}
}

// Close stops all consumers and flushes the producer.
func (k *KafkaMessaging) Close() error {
	k.consumersMutex.Lock()
	for id, consumer := range k.consumers {
		if err := consumer.Close(); err != nil {
			k.logger.Warn("failed to close kafka consumer",
				interfaces.LogField{Key: "error", Value: err.Error()},
			)
		}
		delete(k.consumers, id)
	}
	k.consumersMutex.Unlock()

	k.producer.Flush(15 * 1000)
	k.producer.Close()

	return nil
}
