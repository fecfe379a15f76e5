package textnorm

import (
	_ "embed"
	"strings"

	"github.com/spacesedan/ulasan/internal/lexicon"
)

//go:embed data/roots_id.txt
var defaultRoots string

// Stemmer reduces a lowercase token to its root form. Implementations must be
// idempotent: Stem(Stem(w)) == Stem(w).
type Stemmer interface {
	Stem(word string) string
}

// NopStemmer returns every word unchanged.
type NopStemmer struct{}

func (NopStemmer) Stem(word string) string { return word }

// DefaultRoots returns the built-in Indonesian root word list.
func DefaultRoots() lexicon.WordSet {
	return lexicon.NewWordSet(strings.Fields(defaultRoots)...)
}

const maxPrefixLayers = 3

var (
	particles     = []string{"lah", "kah", "tah", "pun"}
	possessives   = []string{"nya", "ku", "mu"}
	derivSuffixes = []string{"kan", "an", "i"}
)

// IndonesianStemmer strips inflectional and derivational affixes and only
// accepts a candidate that appears in its root dictionary. A word with no
// dictionary match is returned unchanged, which keeps the stemmer idempotent.
type IndonesianStemmer struct {
	roots lexicon.WordSet
}

func NewIndonesianStemmer(roots lexicon.WordSet) *IndonesianStemmer {
	return &IndonesianStemmer{roots: roots}
}

func (s *IndonesianStemmer) Stem(word string) string {
	if len(word) <= 3 || s.roots.Contains(word) {
		return word
	}

	for _, candidate := range suffixVariants(word) {
		if root, ok := s.stripPrefixes(candidate, 0); ok {
			return root
		}
	}
	return word
}

// suffixVariants lists the word with increasingly more suffix layers removed:
// particle, then possessive, then derivational suffix.
func suffixVariants(word string) []string {
	variants := []string{word}
	w := word
	if rest, ok := trimAnySuffix(w, particles); ok {
		w = rest
		variants = append(variants, w)
	}
	if rest, ok := trimAnySuffix(w, possessives); ok {
		w = rest
		variants = append(variants, w)
	}

	inflected := append([]string(nil), variants...)
	for _, base := range inflected {
		for _, suffix := range derivSuffixes {
			if rest, ok := trimSuffix(base, suffix); ok {
				variants = append(variants, rest)
			}
		}
	}
	return variants
}

func (s *IndonesianStemmer) stripPrefixes(word string, depth int) (string, bool) {
	if s.roots.Contains(word) {
		return word, true
	}
	if depth == maxPrefixLayers {
		return "", false
	}
	for _, candidate := range prefixCandidates(word) {
		if root, ok := s.stripPrefixes(candidate, depth+1); ok {
			return root, true
		}
	}
	return "", false
}

// prefixCandidates handles the nasal assimilation of me-/pe-: "menulis" may
// come from "tulis", "memakai" from "pakai", "menyapu" from "sapu".
func prefixCandidates(word string) []string {
	var out []string
	add := func(s string) {
		if len(s) >= 3 {
			out = append(out, s)
		}
	}

	for _, nasal := range []string{"me", "pe"} {
		if !strings.HasPrefix(word, nasal) {
			continue
		}
		rest := word[len(nasal):]
		switch {
		case strings.HasPrefix(rest, "ng"):
			add(rest[2:])
			if startsWithVowel(rest[2:]) {
				add("k" + rest[2:])
			}
		case strings.HasPrefix(rest, "ny"):
			add("s" + rest[2:])
		case strings.HasPrefix(rest, "m"):
			add(rest[1:])
			if startsWithVowel(rest[1:]) {
				add("p" + rest[1:])
			}
		case strings.HasPrefix(rest, "n"):
			add(rest[1:])
			if startsWithVowel(rest[1:]) {
				add("t" + rest[1:])
			}
		}
		if nasal == "pe" && strings.HasPrefix(rest, "r") {
			add(rest[1:])
		}
		add(rest)
	}

	for _, prefix := range []string{"ber", "ter", "be", "di", "ke", "se"} {
		if rest, ok := strings.CutPrefix(word, prefix); ok {
			add(rest)
		}
	}
	return out
}

func trimSuffix(word, suffix string) (string, bool) {
	rest, ok := strings.CutSuffix(word, suffix)
	if !ok || len(rest) < 3 {
		return word, false
	}
	return rest, true
}

func trimAnySuffix(word string, suffixes []string) (string, bool) {
	for _, suffix := range suffixes {
		if rest, ok := trimSuffix(word, suffix); ok {
			return rest, true
		}
	}
	return word, false
}

func startsWithVowel(s string) bool {
	return s != "" && strings.ContainsRune("aiueo", rune(s[0]))
}
