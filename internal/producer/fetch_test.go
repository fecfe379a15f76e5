package producer

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/ulasan/internal/clients/kafka_client"
	"github.com/spacesedan/ulasan/internal/models"
	"github.com/spacesedan/ulasan/internal/pipeline"
)

type stubSource struct {
	table pipeline.Table
	err   error
}

func (s stubSource) Fetch(_ context.Context, _ string, _ int) (pipeline.Table, error) {
	return s.table, s.err
}

type recorder struct {
	topics  []string
	keys    []string
	batches [][]models.RawComment
	fail    int
}

func (r *recorder) publish(_ context.Context, topic, key string, value any) error {
	if r.fail > 0 {
		r.fail--
		return errors.New("broker down")
	}
	r.topics = append(r.topics, topic)
	r.keys = append(r.keys, key)
	r.batches = append(r.batches, value.([]models.RawComment))
	return nil
}

func tableOf(n int) pipeline.Table {
	t := pipeline.Table{Source: "youtube", Fields: []string{"cid", "text"}}
	for i := 0; i < n; i++ {
		t.Rows = append(t.Rows, map[string]string{"cid": fmt.Sprintf("c%d", i), "text": "bagus"})
	}
	return t
}

func newTestProducer(src stubSource, r *recorder, batchSize int) *Producer {
	p := New(src, r.publish, "")
	p.batchSize = batchSize
	p.retryWait = time.Millisecond
	return p
}

func TestFetchAndPublishBatches(t *testing.T) {
	r := &recorder{}
	p := newTestProducer(stubSource{table: tableOf(7)}, r, 3)

	n, err := p.FetchAndPublish(context.Background(), "https://youtu.be/x", 0)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	require.Len(t, r.batches, 3)
	assert.Len(t, r.batches[0], 3)
	assert.Len(t, r.batches[2], 1)
	assert.Equal(t, "c6", r.batches[2][0].ID)
	assert.Equal(t, kafka_client.KAFKA_TOPIC_RAW_COMMENTS, r.topics[0])
	assert.Equal(t, "youtube", r.keys[0])
}

func TestFetchAndPublishRetries(t *testing.T) {
	r := &recorder{fail: 2}
	p := newTestProducer(stubSource{table: tableOf(2)}, r, 10)

	n, err := p.FetchAndPublish(context.Background(), "u", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, r.batches, 1)
}

func TestFetchAndPublishGivesUp(t *testing.T) {
	r := &recorder{fail: PUBLISH_ATTEMPTS + 10}
	p := newTestProducer(stubSource{table: tableOf(2)}, r, 10)

	n, err := p.FetchAndPublish(context.Background(), "u", 0)
	assert.Error(t, err)
	assert.Equal(t, 0, n)
}

func TestFetchAndPublishErrors(t *testing.T) {
	r := &recorder{}

	_, err := newTestProducer(stubSource{err: errors.New("scraper crashed")}, r, 10).
		FetchAndPublish(context.Background(), "u", 0)
	assert.Error(t, err)

	noText := pipeline.Table{Source: "file", Fields: []string{"author"}, Rows: []map[string]string{{"author": "a"}}}
	_, err = newTestProducer(stubSource{table: noText}, r, 10).FetchAndPublish(context.Background(), "u", 0)
	assert.ErrorIs(t, err, pipeline.ErrNoCommentField)

	n, err := newTestProducer(stubSource{table: tableOf(0)}, r, 10).FetchAndPublish(context.Background(), "u", 0)
	assert.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Empty(t, r.batches)
}

func TestPublishWithRetriesNoWaitAfterLastAttempt(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	publish := func(_ context.Context, _, _ string, _ any) error {
		calls++
		if calls == PUBLISH_ATTEMPTS {
			// a wait after this attempt would see the cancelled context
			cancel()
		}
		return errors.New("broker down")
	}
	p := New(stubSource{}, publish, "")
	p.retryWait = time.Millisecond

	err := p.publishWithRetries(ctx, []models.RawComment{{ID: "a", Source: "youtube"}})

	require.Error(t, err)
	assert.NotErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "broker down")
	assert.Equal(t, PUBLISH_ATTEMPTS, calls)
}
