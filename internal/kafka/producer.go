package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"loja-backend/internal/logger"
	"loja-backend/internal/model"

	"github.com/IBM/sarama"
)

// KafkaProducer publishes accepted payment notifications to a topic.
type KafkaProducer struct {
	producer sarama.SyncProducer
	topic    string
	logger   logger.Logger
}

// NewProducer creates a synchronous producer for the given brokers.
// Retries are disabled: a webhook is acknowledged at most once, so a failed
// publish is logged by the caller and dropped.
func NewProducer(brokers []string, topic string, logger logger.Logger) (*KafkaProducer, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 0
	config.Producer.Timeout = 5 * time.Second

	p, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	logger.Infof("Kafka producer created. Brokers: %v, Topic: %s", brokers, topic)

	return &KafkaProducer{
		producer: p,
		topic:    topic,
		logger:   logger,
	}, nil
}

// Notify sends one notification keyed by payment id.
func (p *KafkaProducer) Notify(ctx context.Context, n model.PaymentNotification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	jsonData, err := json.Marshal(n)
	if err != nil {
		p.logger.Errorf("Failed to marshal notification: %v", err)
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(n.PaymentID),
		Value: sarama.ByteEncoder(jsonData),
		Headers: []sarama.RecordHeader{
			{Key: []byte("type"), Value: []byte(n.Type)},
			{Key: []byte("timestamp"), Value: []byte(n.ReceivedAt.Format(time.RFC3339))},
		},
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.logger.Errorf("Failed to send message: %v", err)
		return err
	}

	p.logger.Infof("Message sent to partition %d at offset %d", partition, offset)
	return nil
}

// Close flushes pending messages and closes the producer.
func (p *KafkaProducer) Close() error {
	p.logger.Infof("Closing producer...")
	return p.producer.Close()
}
