package consumers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"

	"github.com/spacesedan/ulasan/internal/clients/kafka_client"
	kafkautils "github.com/spacesedan/ulasan/internal/clients/kafka_client/utils"
	"github.com/spacesedan/ulasan/internal/models"
	"github.com/spacesedan/ulasan/internal/monitoring"
	"github.com/spacesedan/ulasan/internal/pipeline"
	"github.com/spacesedan/ulasan/internal/utils"
)

const SHUTDOWN_FLUSH_TIMEOUT = 10 * time.Second

// DedupeStore remembers comment IDs that were already labeled and published.
type DedupeStore interface {
	LabeledSubset(ctx context.Context, ids []string) (map[string]bool, error)
	MarkLabeled(ctx context.Context, ids ...string) error
}

type PublishFunc func(ctx context.Context, topic, key string, value any) error

type CommitFunc func(msg *kafka.Message) error

// CommentConsumer reads batches of raw comments, labels them and publishes
// the results in batches. A message is committed only after everything it
// produced has been published.
type CommentConsumer struct {
	pipeline *pipeline.Pipeline
	dedupe   DedupeStore
	publish  PublishFunc

	results *utils.BatchBuffer[models.LabeledComment]
	pending *utils.BatchBuffer[*kafka.Message]
	flushMu sync.Mutex
}

// NewCommentConsumer builds a consumer. dedupe may be nil.
func NewCommentConsumer(p *pipeline.Pipeline, dedupe DedupeStore, publish PublishFunc) *CommentConsumer {
	return &CommentConsumer{
		pipeline: p,
		dedupe:   dedupe,
		publish:  publish,
		results:  utils.NewBatchBuffer[models.LabeledComment](),
		pending:  utils.NewBatchBuffer[*kafka.Message](),
	}
}

// Handle labels the comments in one message. Messages that can never be
// labeled (bad JSON, empty, nothing usable) are queued for commit so they are
// not redelivered. A cancelled context leaves the message uncommitted.
func (cc *CommentConsumer) Handle(ctx context.Context, msg *kafka.Message, dedupeHealthy bool) error {
	var comments []models.RawComment
	if err := kafkautils.DeserializeFromJSON(msg.Value, &comments); err != nil {
		monitoring.ConsumerFailures.WithLabelValues(monitoring.FAILURE_DECODE).Inc()
		cc.pending.Add(msg)
		return fmt.Errorf("[CommentConsumer] failed to decode comments: %w", err)
	}

	if cc.dedupe != nil && dedupeHealthy {
		comments = cc.skipLabeled(ctx, comments)
	}

	if len(comments) == 0 {
		cc.pending.Add(msg)
		return nil
	}

	labeled, err := cc.pipeline.Run(ctx, comments)
	switch {
	case errors.Is(err, pipeline.ErrEmptyBatch), errors.Is(err, pipeline.ErrNoUsableComments):
		slog.Info("[CommentConsumer] Nothing to label in message",
			slog.Int("comments", len(comments)),
			slog.String("reason", err.Error()))
		monitoring.CommentsDropped.Add(float64(len(comments)))
		cc.pending.Add(msg)
		return nil
	case err != nil:
		monitoring.ConsumerFailures.WithLabelValues(monitoring.FAILURE_LABEL).Inc()
		return err
	}

	monitoring.CommentsDropped.Add(float64(len(comments) - len(labeled)))
	for _, c := range labeled {
		monitoring.CommentsLabeled.WithLabelValues(string(c.Sentiment)).Inc()
	}
	cc.results.Add(labeled...)
	cc.pending.Add(msg)
	return nil
}

func (cc *CommentConsumer) skipLabeled(ctx context.Context, comments []models.RawComment) []models.RawComment {
	ids := make([]string, 0, len(comments))
	for _, c := range comments {
		if c.ID != "" {
			ids = append(ids, c.ID)
		}
	}

	seen, err := cc.dedupe.LabeledSubset(ctx, ids)
	if err != nil {
		monitoring.ConsumerFailures.WithLabelValues(monitoring.FAILURE_DEDUPE).Inc()
		slog.Warn("[CommentConsumer] Dedupe lookup failed, labeling everything",
			slog.String("error", err.Error()))
		return comments
	}

	fresh := comments[:0:0]
	for _, c := range comments {
		if c.ID != "" && seen[c.ID] {
			continue
		}
		fresh = append(fresh, c)
	}
	if skipped := len(comments) - len(fresh); skipped > 0 {
		monitoring.CommentsDeduped.Add(float64(skipped))
		slog.Debug("[CommentConsumer] Skipped already labeled comments", slog.Int("skipped", skipped))
	}
	return fresh
}

// Flush publishes the buffered results, records their IDs and commits the
// messages they came from. On a publish failure both buffers are restored so
// the next flush retries.
func (cc *CommentConsumer) Flush(ctx context.Context, commit CommitFunc) error {
	cc.flushMu.Lock()
	defer cc.flushMu.Unlock()

	batch := cc.results.GetAndClear()
	msgs := cc.pending.GetAndClear()
	if len(batch) == 0 && len(msgs) == 0 {
		return nil
	}

	if len(batch) > 0 {
		if err := cc.publish(ctx, kafka_client.KAFKA_TOPIC_LABELED_COMMENTS, batch[0].Source, batch); err != nil {
			monitoring.ConsumerFailures.WithLabelValues(monitoring.FAILURE_PUBLISH).Inc()
			cc.results.Add(batch...)
			cc.pending.Add(msgs...)
			return fmt.Errorf("[CommentConsumer] failed to publish labeled batch: %w", err)
		}
		monitoring.BatchesPublished.Inc()
		slog.Info("[CommentConsumer] Published labeled batch", slog.Int("batch_size", len(batch)))

		if cc.dedupe != nil {
			if err := cc.dedupe.MarkLabeled(ctx, labeledIDs(batch)...); err != nil {
				monitoring.ConsumerFailures.WithLabelValues(monitoring.FAILURE_DEDUPE).Inc()
				slog.Warn("[CommentConsumer] Failed to record labeled comments",
					slog.String("error", err.Error()))
			}
		}
	}

	for _, m := range msgs {
		if err := commit(m); err != nil {
			monitoring.ConsumerFailures.WithLabelValues(monitoring.FAILURE_COMMIT).Inc()
			slog.Warn("[CommentConsumer] Failed to commit offset",
				slog.String("error", err.Error()))
		}
	}
	return nil
}

func labeledIDs(batch []models.LabeledComment) []string {
	ids := make([]string, 0, len(batch))
	for _, c := range batch {
		if c.ID != "" {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// Start consumes until ctx is done. Results are flushed when the buffer is
// full, on every tick, and once more on shutdown.
func (cc *CommentConsumer) Start(ctx context.Context, consumer *kafka.Consumer, health ...*atomic.Bool) {
	iterator := kafka_client.NewKafkaMessageIterator(ctx, consumer)

	// commits during the shutdown flush must outlive ctx
	flushCtx, cancelFlush := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelFlush()
	committer := kafka_client.NewCommitHandler(flushCtx, consumer)

	slog.Info("[CommentConsumer] Listening for messages...")

	ticker := time.NewTicker(utils.BATCH_TIMEOUT)
	defer ticker.Stop()

	flush := func(fctx context.Context) {
		if err := cc.Flush(fctx, committer.Commit); err != nil {
			kafkautils.HandleConsumerError(err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			slog.Warn("[CommentConsumer] Stopping consumer...")
			shutdownCtx, cancel := context.WithTimeout(flushCtx, SHUTDOWN_FLUSH_TIMEOUT)
			flush(shutdownCtx)
			cancel()
			return
		case <-ticker.C:
			flush(ctx)
		default:
			msg, err := iterator.Next()
			if err != nil {
				kafkautils.HandleConsumerError(err)
				continue
			}
			if msg == nil {
				continue
			}

			if err := cc.Handle(ctx, msg, monitoring.AllHealthy(health...)); err != nil {
				kafkautils.HandleConsumerError(err)
			}

			if cc.results.Size() >= utils.BATCH_SIZE {
				flush(ctx)
			}
		}
	}
}
