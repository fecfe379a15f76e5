package sentiment

import (
	"strings"

	"github.com/spacesedan/ulasan/internal/lexicon"
	"github.com/spacesedan/ulasan/internal/models"
)

type EmotionScorer struct {
	lexicon lexicon.EmotionLexicon
	labels  []string
}

func NewEmotionScorer(lex lexicon.EmotionLexicon) *EmotionScorer {
	return &EmotionScorer{lexicon: lex, labels: lex.Labels()}
}

// Score returns the label with the most matching tokens. When nothing matches
// the comment is Unlabeled; a tie on the top count goes to the label that sorts
// first.
func (s *EmotionScorer) Score(cleanText string) models.Emotion {
	words := strings.Fields(cleanText)

	best, bestCount := models.Unlabeled, 0
	for _, label := range s.labels {
		set := s.lexicon[label]
		count := 0
		for _, w := range words {
			if set.Contains(w) {
				count++
			}
		}
		if count > bestCount {
			best, bestCount = models.Emotion(label), count
		}
	}
	return best
}
