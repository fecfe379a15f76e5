package lexicon

import (
	"sort"
	"strings"
)

// WordSet is a read-only set of lowercase, trimmed words once it has been
// handed to a scorer or normalizer.
type WordSet map[string]struct{}

func NewWordSet(words ...string) WordSet {
	set := make(WordSet, len(words))
	for _, w := range words {
		set.add(w)
	}
	return set
}

func (s WordSet) add(word string) {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return
	}
	s[word] = struct{}{}
}

func (s WordSet) Contains(word string) bool {
	_, ok := s[word]
	return ok
}

func (s WordSet) Len() int {
	return len(s)
}

// Union returns a new set holding the words of both sets.
func (s WordSet) Union(other WordSet) WordSet {
	out := make(WordSet, len(s)+len(other))
	for w := range s {
		out[w] = struct{}{}
	}
	for w := range other {
		out[w] = struct{}{}
	}
	return out
}

// EmotionLexicon maps an emotion label to the words that signal it.
type EmotionLexicon map[string]WordSet

// Labels returns the configured labels in lexicographic order.
func (e EmotionLexicon) Labels() []string {
	labels := make([]string, 0, len(e))
	for label := range e {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}
