package kafka_client

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestGetKafkaConfigDefaults(t *testing.T) {
	unsetEnv(t, "KAFKA_BROKER", "KAFKA_CONSUMER_GROUP_ID", "KAFKA_CONSUMER_TOPIC", "KAFKA_TRANSACTIONAL_ID")

	cfg := GetKafkaConfig()
	assert.Equal(t, "localhost:29092", cfg.Broker)
	assert.Equal(t, "ulasan-consumer-group", cfg.GroupID)
	assert.Equal(t, KAFKA_TOPIC_RAW_COMMENTS, cfg.Topic)
	assert.Equal(t, "ulasan-producer-1", cfg.TransactionalID)
}

func TestGetKafkaConfigFromEnv(t *testing.T) {
	t.Setenv("KAFKA_BROKER", "kafka:9092")
	t.Setenv("KAFKA_CONSUMER_TOPIC", "reviews")

	cfg := GetKafkaConfig()
	assert.Equal(t, "kafka:9092", cfg.Broker)
	assert.Equal(t, "reviews", cfg.Topic)
}
