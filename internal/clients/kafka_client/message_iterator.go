package kafka_client

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

const POLL_TIMEOUT = 500 * time.Millisecond

type KafkaMessageIterator struct {
	consumer *kafka.Consumer
	ctx      context.Context
}

func NewKafkaMessageIterator(ctx context.Context, consumer *kafka.Consumer) *KafkaMessageIterator {
	return &KafkaMessageIterator{
		consumer: consumer,
		ctx:      ctx,
	}
}

// Next returns the next message, or nil and no error when the poll timed out
// so the caller can run its periodic work.
func (it *KafkaMessageIterator) Next() (*kafka.Message, error) {
	if it.consumer == nil {
		return nil, errors.New("[KafkaIterator] Kafka consumer has not been initialized")
	}

	for i := 0; i < MAX_RETRIES; i++ {
		select {
		case <-it.ctx.Done():
			slog.Warn("[KafkaIterator] Context cancelled, stopping iterator")
			return nil, it.ctx.Err()
		default:
			msg, err := it.consumer.ReadMessage(POLL_TIMEOUT)
			if err == nil {
				return msg, nil
			}

			var kafkaErr kafka.Error
			if errors.As(err, &kafkaErr) {
				switch kafkaErr.Code() {
				case kafka.ErrTimedOut:
					return nil, nil
				case kafka.ErrAllBrokersDown:
					slog.Error("[KafkaIterator] All Kafka brokers are down. Aborting")
					return nil, err
				}
			}

			slog.Warn("[KafkaIterator] Failed to read message, retrying...",
				slog.Int("attempt", i+1),
				slog.Int("max_retries", MAX_RETRIES),
				slog.String("error", err.Error()))

			if err := sleepCtx(it.ctx, RETRY_DELAY); err != nil {
				return nil, err
			}
		}
	}
	return nil, errors.New("[KafkaIterator] Failed to read message after retries")
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
