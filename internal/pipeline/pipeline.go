package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/spacesedan/ulasan/internal/models"
	"github.com/spacesedan/ulasan/internal/sentiment"
	"github.com/spacesedan/ulasan/internal/textnorm"
)

var (
	ErrEmptyBatch       = errors.New("[Pipeline] empty batch")
	ErrNoUsableComments = errors.New("[Pipeline] no usable comments after normalization")
)

// Pipeline normalizes and labels comments. Its collaborators are read-only,
// so a single Pipeline can run many batches at once.
type Pipeline struct {
	normalizer *textnorm.Normalizer
	sentiment  sentiment.Scorer
	emotion    *sentiment.EmotionScorer
	workers    int
}

// New builds a Pipeline. workers <= 0 uses one worker per CPU.
func New(normalizer *textnorm.Normalizer, scorer sentiment.Scorer, emotion *sentiment.EmotionScorer, workers int) *Pipeline {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Pipeline{
		normalizer: normalizer,
		sentiment:  scorer,
		emotion:    emotion,
		workers:    workers,
	}
}

// Label runs one comment through normalization and both scorers. ok is false
// when nothing survives normalization.
func (p *Pipeline) Label(c models.RawComment) (labeled models.LabeledComment, ok bool) {
	norm := p.normalizer.Clean(c.Text)
	if norm.CleanText == "" {
		return models.LabeledComment{}, false
	}

	return models.LabeledComment{
		RawComment:   c,
		OriginalText: c.Text,
		RootWords:    norm.RootWords,
		CleanText:    norm.CleanText,
		Sentiment:    p.sentiment.Score(sentiment.Input{Original: c.Text, Clean: norm.CleanText}),
		Emotion:      p.emotion.Score(norm.CleanText),
	}, true
}

// Run labels a batch. Comments that normalize to nothing are dropped; output
// keeps the input order. An empty batch, or one where every comment was
// dropped, is an error and yields no output.
func (p *Pipeline) Run(ctx context.Context, comments []models.RawComment) ([]models.LabeledComment, error) {
	if len(comments) == 0 {
		return nil, ErrEmptyBatch
	}

	results := make([]models.LabeledComment, len(comments))
	kept := make([]bool, len(comments))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, c := range comments {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i], kept[i] = p.Label(c)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("[Pipeline] batch aborted: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("[Pipeline] batch aborted: %w", err)
	}

	labeled := make([]models.LabeledComment, 0, len(comments))
	for i, ok := range kept {
		if ok {
			labeled = append(labeled, results[i])
		}
	}

	if dropped := len(comments) - len(labeled); dropped > 0 {
		slog.Debug("[Pipeline] Dropped comments with no usable words",
			slog.Int("dropped", dropped),
			slog.Int("total", len(comments)))
	}

	if len(labeled) == 0 {
		return nil, ErrNoUsableComments
	}
	return labeled, nil
}
