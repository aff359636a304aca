package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"stock-service/internal/config"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultPublishAttempts = 3

// KafkaEventPublisher implements EventPublisher using a sarama sync producer
type KafkaEventPublisher struct {
	producer    sarama.SyncProducer
	logger      *zap.Logger
	topics      map[Topic]string
	maxAttempts int
	baseDelay   time.Duration
}

// NewKafkaEventPublisher creates a new Kafka event publisher
func NewKafkaEventPublisher(cfg *config.Config, logger *zap.Logger) (*KafkaEventPublisher, error) {
	producer, err := sarama.NewSyncProducer(cfg.KafkaBrokers, newSaramaConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}
	return newKafkaEventPublisher(producer, cfg, logger), nil
}

func newKafkaEventPublisher(producer sarama.SyncProducer, cfg *config.Config, logger *zap.Logger) *KafkaEventPublisher {
	return &KafkaEventPublisher{
		producer: producer,
		logger:   logger,
		topics: map[Topic]string{
			TopicCatalog:   cfg.KafkaTopicCatalog,
			TopicInventory: cfg.KafkaTopicInventory,
		},
		maxAttempts: defaultPublishAttempts,
		baseDelay:   100 * time.Millisecond,
	}
}

func newSaramaConfig(cfg *config.Config) *sarama.Config {
	sc := sarama.NewConfig()
	sc.ClientID = cfg.KafkaClientID
	sc.Producer.Return.Successes = true
	sc.Producer.Retry.Max = cfg.KafkaRetries
	sc.Producer.Idempotent = true
	sc.Net.MaxOpenRequests = 1

	switch cfg.KafkaAcks {
	case "0":
		sc.Producer.RequiredAcks = sarama.NoResponse
	case "1":
		sc.Producer.RequiredAcks = sarama.WaitForLocal
	default:
		sc.Producer.RequiredAcks = sarama.WaitForAll
	}

	// idempotent producers require acks from all in-sync replicas
	if sc.Producer.RequiredAcks != sarama.WaitForAll {
		sc.Producer.Idempotent = false
	}
	return sc
}

// Publish sends event to its topic, retrying with exponential backoff
func (p *KafkaEventPublisher) Publish(ctx context.Context, event Event) error {
	message, err := p.buildMessage(event)
	if err != nil {
		return err
	}

	var lastErr error
	for attempt := 0; attempt < p.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("context cancelled: %w", err)
		}

		partition, offset, err := p.producer.SendMessage(message)
		if err == nil {
			p.logger.Info("Event published to Kafka",
				zap.String("topic", message.Topic),
				zap.Int32("partition", partition),
				zap.Int64("offset", offset),
				zap.String("event_type", event.EventType()),
				zap.Int("attempt", attempt+1),
			)
			return nil
		}

		lastErr = err
		p.logger.Warn("Failed to publish event to Kafka, retrying",
			zap.String("topic", message.Topic),
			zap.Error(err),
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", p.maxAttempts),
		)

		if attempt < p.maxAttempts-1 {
			delay := p.baseDelay * time.Duration(1<<uint(attempt))
			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled during backoff: %w", ctx.Err())
			case <-time.After(delay):
			}
		}
	}

	return fmt.Errorf("failed to publish event to Kafka after %d attempts: %w", p.maxAttempts, lastErr)
}

func (p *KafkaEventPublisher) buildMessage(event Event) (*sarama.ProducerMessage, error) {
	topic, ok := p.topics[event.Topic()]
	if !ok || topic == "" {
		return nil, fmt.Errorf("no topic configured for event %s", event.EventType())
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event-type"), Value: []byte(event.EventType())},
			{Key: []byte("event-id"), Value: []byte(uuid.New().String())},
			{Key: []byte("timestamp"), Value: []byte(time.Now().UTC().Format(time.RFC3339))},
		},
	}
	if key := event.PartitionKey(); key != "" {
		message.Key = sarama.StringEncoder(key)
	}
	return message, nil
}

// Close closes the Kafka producer
func (p *KafkaEventPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
