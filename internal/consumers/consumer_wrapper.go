package consumers

import (
	"context"
	"sync/atomic"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

type StartFunc func(ctx context.Context, consumer *kafka.Consumer, health ...*atomic.Bool)

// ConsumerWrapper binds health flags to a consumer loop so it fits the
// kafka_client registry signature.
type ConsumerWrapper struct {
	fn     StartFunc
	health []*atomic.Bool
}

func WrapConsumer(fn StartFunc, health ...*atomic.Bool) ConsumerWrapper {
	return ConsumerWrapper{
		fn:     fn,
		health: health,
	}
}

// WithHealthCheck returns a copy that also passes health to the loop.
func (cw ConsumerWrapper) WithHealthCheck(health *atomic.Bool) ConsumerWrapper {
	flags := make([]*atomic.Bool, 0, len(cw.health)+1)
	flags = append(flags, cw.health...)
	cw.health = append(flags, health)
	return cw
}

func (cw ConsumerWrapper) Handler() func(ctx context.Context, consumer *kafka.Consumer) {
	return func(ctx context.Context, consumer *kafka.Consumer) {
		cw.fn(ctx, consumer, cw.health...)
	}
}
