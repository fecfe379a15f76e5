package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/ulasan/internal/lexicon"
	"github.com/spacesedan/ulasan/internal/models"
)

func TestLexiconScorer(t *testing.T) {
	s := NewLexiconScorer(
		lexicon.NewWordSet("bagus", "mantap", "keren"),
		lexicon.NewWordSet("buruk", "jelek"),
	)

	tests := []struct {
		name  string
		clean string
		want  models.Sentiment
	}{
		{"more positive", "bagus mantap", models.Positive},
		{"more negative", "bagus buruk jelek", models.Negative},
		{"tie nonzero", "bagus buruk", models.Neutral},
		{"no matches", "video tonton", models.Neutral},
		{"empty", "", models.Neutral},
		{"repeated words count each time", "keren keren buruk", models.Positive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.ScoreText(tt.clean))
			assert.Equal(t, tt.want, s.Score(Input{Clean: tt.clean}))
		})
	}
}

func TestLexiconScorerEmptyLexicons(t *testing.T) {
	s := NewLexiconScorer(lexicon.WordSet{}, nil)
	assert.Equal(t, models.Neutral, s.ScoreText("bagus mantap buruk"))
}

func TestEmotionScorer(t *testing.T) {
	s := NewEmotionScorer(lexicon.EmotionLexicon{
		"senang": lexicon.NewWordSet("senang", "gembira"),
		"sedih":  lexicon.NewWordSet("sedih"),
		"marah":  lexicon.NewWordSet("marah", "kesal"),
	})

	tests := []struct {
		name  string
		clean string
		want  models.Emotion
	}{
		{"argmax", "saya senang gembira", "senang"},
		{"single match", "sedih sekali", "sedih"},
		{"no match", "video tonton", models.Unlabeled},
		{"tie picks first label", "marah sedih", "marah"},
		{"tie picks first label regardless of order", "sedih senang", "sedih"},
		{"empty", "", models.Unlabeled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Score(tt.clean))
		})
	}
}

func TestEmotionScorerEmptyLexicon(t *testing.T) {
	s := NewEmotionScorer(lexicon.EmotionLexicon{})
	got := s.Score("senang gembira")
	assert.Equal(t, models.Unlabeled, got)
	assert.False(t, got.IsLabeled())
	assert.Equal(t, "unlabeled", got.DisplayName())
}

func TestConvertMarkdownToText(t *testing.T) {
	got := ConvertMarkdownToText("**Great** video, see [here](https://example.com) and https://x.co/abc")
	assert.Equal(t, "Great video, see here and", got)
}

func TestVaderScorer(t *testing.T) {
	s := NewVaderScorer()

	assert.Equal(t, models.Positive, s.Score(Input{Original: "I love this video, it is great!"}))
	assert.Equal(t, models.Negative, s.Score(Input{Original: "This is terrible and I hate it."}))
	assert.Equal(t, models.Neutral, s.Score(Input{Original: ""}))
}

func TestSentimentFromModelLabel(t *testing.T) {
	tests := map[string]models.Sentiment{
		"positive": models.Positive,
		"POS":      models.Positive,
		"Positif":  models.Positive,
		"negative": models.Negative,
		" Negatif": models.Negative,
		"neutral":  models.Neutral,
		"LABEL_1":  models.Neutral,
	}
	for label, want := range tests {
		assert.Equal(t, want, SentimentFromModelLabel(label), label)
	}
}

func TestNewScorer(t *testing.T) {
	lex := &lexicon.Lexicons{
		Positive: lexicon.NewWordSet("bagus"),
		Negative: lexicon.NewWordSet("buruk"),
	}

	s, closeFn, err := NewScorer("", lex, ModelConfig{})
	require.NoError(t, err)
	require.NotNil(t, closeFn)
	assert.IsType(t, &LexiconScorer{}, s)
	assert.NoError(t, closeFn())

	s, _, err = NewScorer(ENGINE_VADER, lex, ModelConfig{})
	require.NoError(t, err)
	assert.IsType(t, &VaderScorer{}, s)

	_, closeFn, err = NewScorer("bogus", lex, ModelConfig{})
	assert.Error(t, err)
	assert.NotNil(t, closeFn)
}
