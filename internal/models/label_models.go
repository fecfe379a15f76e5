package models

type Sentiment string

const (
	Positive Sentiment = "positive"
	Negative Sentiment = "negative"
	Neutral  Sentiment = "neutral"
)

// Emotion is one of the labels configured in the emotion lexicon, or Unlabeled
// when no label matched a single token.
type Emotion string

const Unlabeled Emotion = ""

func (e Emotion) IsLabeled() bool {
	return e != Unlabeled
}

// DisplayName is used by the report so unlabeled comments still get a bar.
func (e Emotion) DisplayName() string {
	if e == Unlabeled {
		return "unlabeled"
	}
	return string(e)
}
