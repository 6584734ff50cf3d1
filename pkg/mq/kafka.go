package mq

import (
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

// KafkaNotifier publishes domain events to a single Kafka topic.
type KafkaNotifier struct {
	producer sarama.SyncProducer
	topic    string
	logger   *zap.Logger
}

func NewKafkaNotifier(brokers []string, topic string, logger *zap.Logger) (*KafkaNotifier, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to start sarama producer: %w", err)
	}

	return &KafkaNotifier{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}, nil
}

// Publish serializes the payload as JSON and sends it keyed by the
// event name, so all events of one kind land on the same partition.
func (k *KafkaNotifier) Publish(key string, payload any) error {
	bytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to serialize event payload: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: k.topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(bytes),
	}

	partition, offset, err := k.producer.SendMessage(msg)
	if err != nil {
		// Services treat publishing as best-effort and discard the
		// error, so the failure is recorded here.
		k.logger.Warn("event publish failed",
			zap.String("key", key),
			zap.String("topic", k.topic),
			zap.Error(err),
		)
		return fmt.Errorf("failed to publish to kafka: %w", err)
	}

	k.logger.Debug("event published",
		zap.String("key", key),
		zap.String("topic", k.topic),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset),
	)
	return nil
}

func (k *KafkaNotifier) Close() error {
	return k.producer.Close()
}
