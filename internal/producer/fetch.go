package producer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spacesedan/ulasan/internal/clients/kafka_client"
	"github.com/spacesedan/ulasan/internal/models"
	"github.com/spacesedan/ulasan/internal/pipeline"
	"github.com/spacesedan/ulasan/internal/sources"
	"github.com/spacesedan/ulasan/internal/utils"
)

const (
	PUBLISH_ATTEMPTS = 3
	PUBLISH_BACKOFF  = 2 * time.Second
)

type PublishFunc func(ctx context.Context, topic, key string, value any) error

// Producer fetches comments from a source and feeds them to the stream worker
// as batches on the raw comments topic.
type Producer struct {
	source    sources.Source
	publish   PublishFunc
	field     string
	batchSize int
	retryWait time.Duration
}

// New builds a Producer. field names the comment text column; empty means
// the first column containing "text" or "comment".
func New(source sources.Source, publish PublishFunc, field string) *Producer {
	return &Producer{
		source:    source,
		publish:   publish,
		field:     field,
		batchSize: utils.BATCH_SIZE,
		retryWait: PUBLISH_BACKOFF,
	}
}

// FetchAndPublish fetches up to limit comments for url and publishes them.
// It returns how many comments were published.
func (p *Producer) FetchAndPublish(ctx context.Context, url string, limit int) (int, error) {
	slog.Info("[Producer] Fetching comments...", slog.String("url", url))

	table, err := p.source.Fetch(ctx, url, limit)
	if err != nil {
		return 0, fmt.Errorf("[Producer] fetch failed for %s: %w", url, err)
	}

	comments, err := pipeline.FromTable(table, p.field)
	if err != nil {
		return 0, fmt.Errorf("[Producer] no comments in %s: %w", url, err)
	}
	if len(comments) == 0 {
		slog.Warn("[Producer] Source returned no comments. Skipping publish.", slog.String("url", url))
		return 0, nil
	}

	published := 0
	for start := 0; start < len(comments); start += p.batchSize {
		end := min(start+p.batchSize, len(comments))
		if err := p.publishWithRetries(ctx, comments[start:end]); err != nil {
			return published, err
		}
		published += end - start
	}

	slog.Info("[Producer] Successfully sent comments to Kafka",
		slog.String("url", url),
		slog.Int("comments", published))
	return published, nil
}

func (p *Producer) publishWithRetries(ctx context.Context, batch []models.RawComment) error {
	var err error
	for attempt := 1; attempt <= PUBLISH_ATTEMPTS; attempt++ {
		err = p.publish(ctx, kafka_client.KAFKA_TOPIC_RAW_COMMENTS, batch[0].Source, batch)
		if err == nil {
			return nil
		}

		slog.Warn("[Producer] Publish attempt failed",
			slog.Int("attempt", attempt),
			slog.Int("batch_size", len(batch)),
			slog.String("error", err.Error()))
		if attempt == PUBLISH_ATTEMPTS {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.retryWait):
		}
	}
	return fmt.Errorf("[Producer] publish failed after %d attempts: %w", PUBLISH_ATTEMPTS, err)
}
