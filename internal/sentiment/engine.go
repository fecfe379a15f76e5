package sentiment

import (
	"fmt"

	"github.com/spacesedan/ulasan/internal/lexicon"
)

const (
	ENGINE_LEXICON = "lexicon"
	ENGINE_VADER   = "vader"
	ENGINE_MODEL   = "model"
)

// NewScorer builds the sentiment engine named by engine. The returned close
// func releases model resources and is never nil.
func NewScorer(engine string, lex *lexicon.Lexicons, model ModelConfig) (Scorer, func() error, error) {
	noop := func() error { return nil }

	switch engine {
	case "", ENGINE_LEXICON:
		return NewLexiconScorer(lex.Positive, lex.Negative), noop, nil
	case ENGINE_VADER:
		return NewVaderScorer(), noop, nil
	case ENGINE_MODEL:
		scorer, err := NewModelScorer(model)
		if err != nil {
			return nil, noop, err
		}
		return scorer, scorer.Close, nil
	default:
		return nil, noop, fmt.Errorf("[Sentiment] unknown engine %q", engine)
	}
}
