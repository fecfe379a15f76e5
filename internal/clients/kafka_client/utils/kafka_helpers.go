package utils

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
)

func SerializeToJSON(value any) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		slog.Warn("[KafkaUtils] Failed to serialize JSON",
			slog.String("error", err.Error()))
		return nil, err
	}
	return data, nil
}

func DeserializeFromJSON(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		slog.Warn("[KafkaUtils] Failed to deserialize JSON",
			slog.Int("bytes", len(data)),
			slog.String("error", err.Error()))
		return err
	}
	return nil
}

// HandleConsumerError logs err. Cancellation is part of shutdown and is not
// reported.
func HandleConsumerError(err error) {
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	slog.Error("[KafkaUtils] Kafka Consumer Error",
		slog.String("error", err.Error()))
}
