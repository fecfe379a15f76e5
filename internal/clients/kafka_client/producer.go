package kafka_client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/confluentinc/confluent-kafka-go/kafka"

	"github.com/spacesedan/ulasan/internal/clients/kafka_client/utils"
)

var producer *kafka.Producer

func InitProducer(cfg KafkaConfig) error {
	slog.Info("[KafkaClient] Initializing Kafka Producer...")

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":                     cfg.Broker,
		"security.protocol":                     "PLAINTEXT",
		"api.version.request":                   "true",
		"enable.idempotence":                    true,
		"acks":                                  "all",
		"max.in.flight.requests.per.connection": 1,
		"transactional.id":                      cfg.TransactionalID,
	})
	if err != nil {
		return fmt.Errorf("[KafkaClient] Failed to create producer: %w", err)
	}

	if err := p.InitTransactions(context.Background()); err != nil {
		p.Close()
		return fmt.Errorf("[KafkaClient] Failed to init transactions: %w", err)
	}

	producer = p
	slog.Info("[KafkaClient] Kafka Producer initialized successfully")
	return nil
}

func CloseProducer() {
	slog.Info("[KafkaClient] Shutting down Kafka producer...")
	if producer != nil {
		if remaining := producer.Flush(5000); remaining > 0 {
			slog.Warn("[KafkaClient] Not all messages were delivered before shutdown",
				slog.Int("remaining", remaining))
		}
		producer.Close()
		producer = nil
		slog.Info("[KafkaClient] Kafka producer shut down")
	}
}

// PublishToKafka serializes value as JSON and writes it to topic inside its
// own transaction.
func PublishToKafka(ctx context.Context, topic string, key string, value any) error {
	if producer == nil {
		return errors.New("[KafkaClient] Kafka producer has not been initialized")
	}

	jsonData, err := utils.SerializeToJSON(value)
	if err != nil {
		return fmt.Errorf("[KafkaClient] failed to serialize message: %w", err)
	}

	if err := producer.BeginTransaction(); err != nil {
		return fmt.Errorf("[KafkaClient] failed to begin transaction: %w", err)
	}

	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Value:          jsonData,
	}
	if key != "" {
		msg.Key = []byte(key)
	}

	for i := 0; i < 3; i++ {
		err = producer.Produce(msg, nil)
		if err == nil {
			break
		}
		slog.Warn("[KafkaClient] Failed to produce message, retrying...",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))
	}
	if err != nil {
		if abortErr := producer.AbortTransaction(ctx); abortErr != nil {
			return fmt.Errorf("[KafkaClient] failed to abort transaction after produce error: %w", abortErr)
		}
		return err
	}

	var commitErr error
	for i := 0; i < 3; i++ {
		commitErr = producer.CommitTransaction(ctx)
		if commitErr == nil {
			break
		}
		slog.Warn("[KafkaClient] Failed to commit transaction, retrying...",
			slog.Int("attempt", i+1),
			slog.String("error", commitErr.Error()))

		var kafkaErr kafka.Error
		if errors.As(commitErr, &kafkaErr) && kafkaErr.TxnRequiresAbort() {
			_ = producer.AbortTransaction(ctx)
			break
		}
	}
	if commitErr != nil {
		return fmt.Errorf("[KafkaClient] failed to commit transaction: %w", commitErr)
	}

	slog.Info("[KafkaClient] Published batch to Kafka transactionally",
		slog.String("topic", topic),
		slog.Int("bytes", len(jsonData)))
	return nil
}
