package report

import "context"

// Topic is one fitted topic and its highest weighted words.
type Topic struct {
	ID    int      `json:"id"`
	Label string   `json:"label"`
	Words []string `json:"words"`
}

// TopicModeler fits n topics over the clean texts of a batch. Fitting runs in
// an external service; the report only renders the result.
type TopicModeler interface {
	FitTopics(ctx context.Context, docs []string, n int) ([]Topic, error)
}

// WithTopics fits topics over the batch and attaches them to s. A modeler
// failure leaves s unchanged.
func WithTopics(ctx context.Context, s Summary, m TopicModeler, docs []string, n int) (Summary, error) {
	topics, err := m.FitTopics(ctx, docs, n)
	if err != nil {
		return s, err
	}
	s.Topics = topics
	return s, nil
}
