package sentiment

import (
	"strings"

	"github.com/spacesedan/ulasan/internal/lexicon"
	"github.com/spacesedan/ulasan/internal/models"
)

// Input is what a scorer sees for one comment: the text as the platform
// delivered it and the space-joined root words.
type Input struct {
	Original string
	Clean    string
}

type Scorer interface {
	Score(in Input) models.Sentiment
}

// LexiconScorer labels a comment by counting positive and negative root words.
type LexiconScorer struct {
	positive lexicon.WordSet
	negative lexicon.WordSet
}

func NewLexiconScorer(positive, negative lexicon.WordSet) *LexiconScorer {
	return &LexiconScorer{positive: positive, negative: negative}
}

func (s *LexiconScorer) Score(in Input) models.Sentiment {
	return s.ScoreText(in.Clean)
}

// ScoreText applies the majority rule. Equal counts, including zero against
// zero, are Neutral.
func (s *LexiconScorer) ScoreText(cleanText string) models.Sentiment {
	var pos, neg int
	for _, w := range strings.Fields(cleanText) {
		if s.positive.Contains(w) {
			pos++
		}
		if s.negative.Contains(w) {
			neg++
		}
	}

	switch {
	case pos > neg:
		return models.Positive
	case neg > pos:
		return models.Negative
	default:
		return models.Neutral
	}
}
