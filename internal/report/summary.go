package report

import (
	"sort"

	"github.com/spacesedan/ulasan/internal/models"
)

const DEFAULT_TOP_WORDS = 50

type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Summary is the aggregate view of one labelled batch.
type Summary struct {
	Total     int          `json:"total"`
	Sentiment []LabelCount `json:"sentiment"`
	Emotion   []LabelCount `json:"emotion"`
	// TopWords are root-word frequencies, the word cloud input.
	TopWords []LabelCount `json:"top_words"`
	Topics   []Topic      `json:"topics,omitempty"`
}

var sentimentOrder = []models.Sentiment{models.Positive, models.Negative, models.Neutral}

// Summarize counts sentiments (always all three, in a fixed order), emotions
// and the topWords most frequent root words. Emotion and word counts are
// sorted by count, then label.
func Summarize(comments []models.LabeledComment, topWords int) Summary {
	if topWords <= 0 {
		topWords = DEFAULT_TOP_WORDS
	}

	sentiments := map[models.Sentiment]int{}
	emotions := map[string]int{}
	words := map[string]int{}

	for _, c := range comments {
		sentiments[c.Sentiment]++
		emotions[c.Emotion.DisplayName()]++
		for _, w := range c.RootWords {
			words[w]++
		}
	}

	s := Summary{Total: len(comments)}
	for _, label := range sentimentOrder {
		s.Sentiment = append(s.Sentiment, LabelCount{Label: string(label), Count: sentiments[label]})
	}
	s.Emotion = sortedCounts(emotions, 0)
	s.TopWords = sortedCounts(words, topWords)
	return s
}

func sortedCounts(counts map[string]int, limit int) []LabelCount {
	out := make([]LabelCount, 0, len(counts))
	for label, n := range counts {
		out = append(out, LabelCount{Label: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
