package models

// RawComment is a single comment or review as produced by a source adapter.
type RawComment struct {
	ID       string          `json:"id"`
	Source   string          `json:"source"`
	Text     string          `json:"text"`
	Metadata CommentMetadata `json:"metadata"`
}

// CommentMetadata holds the optional fields that come with a comment. Not every
// platform fills every field: Google Maps reviews carry a rating, video
// comments carry likes.
type CommentMetadata struct {
	Author string `json:"author,omitempty"`
	Time   string `json:"time,omitempty"`
	Likes  int    `json:"likes,omitempty"`
	Rating string `json:"rating,omitempty"`
	URL    string `json:"url,omitempty"`
}

// NormalizedComment is the cleaned form of a comment's text
type NormalizedComment struct {
	RootWords []string `json:"root_words"`
	CleanText string   `json:"clean_text"`
}

// LabeledComment is what the core hands to presentation and to Kafka.
type LabeledComment struct {
	RawComment
	OriginalText string    `json:"original_text"`
	RootWords    []string  `json:"root_words"`
	CleanText    string    `json:"clean_text"`
	Sentiment    Sentiment `json:"sentiment"`
	Emotion      Emotion   `json:"emotion"`
}
