package lexicon

import (
	"strings"

	"github.com/bbalet/stopwords"
)

// STOPWORD_LANG is the ISO 639-1 code bbalet/stopwords uses for Indonesian.
const STOPWORD_LANG = "id"

// Stopwords is the built-in Indonesian list from bbalet/stopwords plus the
// words of a stopwords file.
type Stopwords struct {
	custom WordSet
}

func NewStopwords(custom WordSet) Stopwords {
	if custom == nil {
		custom = WordSet{}
	}
	return Stopwords{custom: custom}
}

// BaseStopwords returns the built-in Indonesian list with no file words.
func BaseStopwords() Stopwords {
	return NewStopwords(nil)
}

func (s Stopwords) Contains(word string) bool {
	return s.custom.Contains(word) || IsBaseStopword(word)
}

// Custom returns the words that came from the stopwords file.
func (s Stopwords) Custom() WordSet {
	return s.custom
}

// IsBaseStopword reports whether word is on the built-in Indonesian list. The
// library does not export its lists, so a word is a stopword when cleaning it
// leaves nothing behind.
func IsBaseStopword(word string) bool {
	word = strings.TrimSpace(word)
	if word == "" {
		return false
	}
	return strings.TrimSpace(stopwords.CleanString(word, STOPWORD_LANG, false)) == ""
}
