package sentiment

import (
	"html"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"

	"github.com/spacesedan/ulasan/internal/models"
)

const VADER_THRESHOLD = 0.20

var (
	linkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern  = regexp.MustCompile(`https?://\S+|www\.\S+`)
	tagPattern  = regexp.MustCompile(`<[^>]*>`)
)

// VaderScorer scores the original comment text with VADER. It suits English
// comments; Indonesian text mostly lands in Neutral.
type VaderScorer struct {
	analyzer  *govader.SentimentIntensityAnalyzer
	threshold float64
}

func NewVaderScorer() *VaderScorer {
	return &VaderScorer{
		analyzer:  govader.NewSentimentIntensityAnalyzer(),
		threshold: VADER_THRESHOLD,
	}
}

func (s *VaderScorer) Score(in Input) models.Sentiment {
	score := s.Compound(in.Original)

	switch {
	case score >= s.threshold:
		return models.Positive
	case score <= -s.threshold:
		return models.Negative
	default:
		return models.Neutral
	}
}

func (s *VaderScorer) Compound(text string) float64 {
	return s.analyzer.PolarityScores(ConvertMarkdownToText(text)).Compound
}

func RemoveLinks(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1") // Keep only the text
	return urlPattern.ReplaceAllString(input, "")
}

// ConvertMarkdownToText renders markdown and drops the resulting tags so only
// the readable text reaches the analyzer.
func ConvertMarkdownToText(input string) string {
	input = RemoveLinks(input)
	output := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	plain := html.UnescapeString(tagPattern.ReplaceAllString(string(output), " "))
	return strings.Join(strings.Fields(plain), " ")
}
