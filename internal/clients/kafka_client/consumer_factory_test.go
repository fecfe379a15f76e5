package kafka_client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStartConsumerUnknownTopic(t *testing.T) {
	err := StartConsumer(context.Background(), KafkaConfig{Topic: "nobody-listens-here"})
	assert.ErrorContains(t, err, "No consumer found for topic")
}
